package analyzer

import (
	"github.com/funvibe/brace/internal/pipeline"
)

// SemanticAnalyzerProcessor turns ctx.Tree into ctx.Arena.
type SemanticAnalyzerProcessor struct{}

func (sap *SemanticAnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Tree == nil || len(ctx.Errors) > 0 {
		return ctx
	}

	opts := Options{
		Lookup: ctx.MemberLookup(),
		Logger: ctx.Logger,
	}
	if ctx.Registry != nil {
		opts.Globals = ctx.Registry.Globals()
	}

	a, err := Analyze(ctx.Tree, opts)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Logger.Printf("analyzed %s: %d slots", ctx.Tree.Name, a.Len())
	ctx.Arena = a
	return ctx
}
