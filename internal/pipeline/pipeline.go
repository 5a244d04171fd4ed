package pipeline

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. Every stage runs; stages that depend on earlier
// results skip themselves once ctx.Errors is non-empty.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	if len(ctx.Errors) > 0 {
		ctx.Logger.Printf("run finished with %d error(s)", len(ctx.Errors))
	}
	return ctx
}
