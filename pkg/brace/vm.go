package brace

import (
	"fmt"
	"io"
	"os"

	"github.com/funvibe/brace/internal/analyzer"
	"github.com/funvibe/brace/internal/ast"
	"github.com/funvibe/brace/internal/config"
	"github.com/funvibe/brace/internal/evaluator"
	"github.com/funvibe/brace/internal/host"
	"github.com/funvibe/brace/internal/pipeline"
)

// VM is the embedding API: bind Go values, then analyze and run trees that
// refer to them.
type VM struct {
	config    *config.Config
	registry  *host.Registry
	inspector *host.Inspector
	out       io.Writer
}

// New creates a VM with the default configuration.
func New() *VM {
	return &VM{
		config:   config.Default(),
		registry: host.NewRegistry(),
		out:      os.Stdout,
	}
}

// NewWithConfig creates a VM from a validated configuration.
func NewWithConfig(cfg *config.Config) (*VM, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	v := New()
	v.config = cfg
	return v, nil
}

// Config returns the active configuration.
func (v *VM) Config() *config.Config {
	return v.config
}

// SetOutput redirects print output.
func (v *VM) SetOutput(w io.Writer) {
	v.out = w
}

// Bind makes a Go value visible to programs under name. Exported fields and
// methods are reachable through member access.
func (v *VM) Bind(name string, val interface{}) error {
	return v.registry.Bind(name, val)
}

// UseInspector switches member lookup during analysis to Go source loaded
// from dir, so that trees can be checked against packages without live
// values. Evaluation still goes through the bound values.
func (v *VM) UseInspector(dir string, pkgPaths ...string) error {
	ins := host.NewInspector(dir)
	if len(pkgPaths) > 0 {
		if err := ins.Load(pkgPaths...); err != nil {
			return err
		}
	}
	v.inspector = ins
	return nil
}

// Eval decodes a YAML tree, analyzes and runs it, and returns the program
// result as a Go value.
func (v *VM) Eval(src string) (interface{}, error) {
	file, err := ast.DecodeString(src, "<eval>")
	if err != nil {
		return nil, err
	}
	ctx := v.newContext("")
	ctx.Tree = file
	return v.result(v.runPipeline(ctx, true))
}

// LoadFile reads the tree at path, analyzes and runs it.
func (v *VM) LoadFile(path string) (interface{}, error) {
	return v.result(v.runPipeline(v.newContext(path), true))
}

// Check loads and analyzes the tree at path without running it. The arena
// dump is written to w when w is non-nil.
func (v *VM) Check(path string, w io.Writer) error {
	ctx := v.runPipeline(v.newContext(path), false)
	if len(ctx.Errors) > 0 {
		return ctx.Errors[0]
	}
	if w != nil {
		return ctx.Arena.Dump(w)
	}
	return nil
}

func (v *VM) newContext(path string) *pipeline.PipelineContext {
	ctx := pipeline.NewContext(path, v.config)
	ctx.Registry = v.registry
	ctx.Output = v.out
	if v.inspector != nil {
		ctx.Lookup = v.inspector
	}
	return ctx
}

func (v *VM) runPipeline(ctx *pipeline.PipelineContext, evaluate bool) *pipeline.PipelineContext {
	processors := []pipeline.Processor{
		&pipeline.TreeLoaderProcessor{},
		&pipeline.BindingProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
	}
	if evaluate {
		processors = append(processors, &evaluator.EvaluatorProcessor{})
	}
	return pipeline.New(processors...).Run(ctx)
}

func (v *VM) result(ctx *pipeline.PipelineContext) (interface{}, error) {
	if len(ctx.Errors) > 0 {
		return nil, ctx.Errors[0]
	}
	val, ok := ctx.Result.(evaluator.Value)
	if !ok {
		return nil, fmt.Errorf("run produced no result")
	}
	return fromValue(val)
}

// fromValue converts a program result to a Go value: Int to int64, String to
// string, Bool to bool, Void to nil, host values to the wrapped Go value.
func fromValue(val evaluator.Value) (interface{}, error) {
	switch o := val.(type) {
	case *evaluator.Int:
		return o.Value, nil
	case *evaluator.String:
		return o.Value, nil
	case *evaluator.Bool:
		return o.Value, nil
	case *evaluator.Void:
		return nil, nil
	case *evaluator.Host:
		return o.Value, nil
	default:
		return nil, fmt.Errorf("unsupported result type: %s", val.Type())
	}
}
