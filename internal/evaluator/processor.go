package evaluator

import (
	"github.com/funvibe/brace/internal/config"
	"github.com/funvibe/brace/internal/pipeline"
)

// EvaluatorProcessor runs ctx.Arena and stores the program result.
type EvaluatorProcessor struct{}

func (ep *EvaluatorProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Arena == nil || len(ctx.Errors) > 0 {
		return ctx
	}

	opts := Options{
		Out:          ctx.Output,
		Logger:       ctx.Logger,
		MaxCallDepth: config.DefaultMaxCallDepth,
	}
	if ctx.Config != nil {
		opts.MaxCallDepth = ctx.Config.MaxCallDepth
	}
	if ctx.Registry != nil {
		opts.Invoker = ctx.Registry
		opts.Bindings = ctx.Registry.Bindings()
	}

	result, err := Evaluate(ctx.Arena, opts)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Logger.Printf("evaluated: result %s", result.Inspect())
	ctx.Result = result
	return ctx
}
