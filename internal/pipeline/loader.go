package pipeline

import (
	"github.com/funvibe/brace/internal/ast"
)

// TreeLoaderProcessor decodes the YAML tree at ctx.FilePath unless a tree
// was supplied directly.
type TreeLoaderProcessor struct{}

func (tl *TreeLoaderProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Tree != nil || len(ctx.Errors) > 0 {
		return ctx
	}
	file, err := ast.ReadFile(ctx.FilePath)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Logger.Printf("loaded %s: %d top-level statements", file.Name, len(file.Statements))
	ctx.Tree = file
	return ctx
}

// BindingProcessor registers the host libraries named by the configuration.
type BindingProcessor struct{}

func (bp *BindingProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if len(ctx.Errors) > 0 || ctx.Config == nil || ctx.Registry == nil {
		return ctx
	}
	for _, name := range ctx.Config.Bindings {
		if _, exists := ctx.Registry.Binding(name); exists {
			continue
		}
		if err := ctx.Registry.BindLibraries([]string{name}); err != nil {
			ctx.Errors = append(ctx.Errors, err)
			return ctx
		}
	}
	return ctx
}
