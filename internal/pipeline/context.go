package pipeline

import (
	"io"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/funvibe/brace/internal/arena"
	"github.com/funvibe/brace/internal/ast"
	"github.com/funvibe/brace/internal/config"
	"github.com/funvibe/brace/internal/host"
)

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries the state of one run between stages.
type PipelineContext struct {
	FilePath string
	Config   *config.Config

	Tree  *ast.File
	Arena *arena.Arena

	// Registry holds host bindings and invokes foreign members.
	Registry *host.Registry
	// Lookup overrides Registry for member enumeration during analysis,
	// e.g. a source-level host.Inspector.
	Lookup host.Lookup

	Output io.Writer
	// Result is the program result (an evaluator.Value) after evaluation.
	Result interface{}
	Errors []error

	RunID  string
	Logger *log.Logger
}

// NewContext creates a context for the tree at filePath. A nil cfg means
// config.Default().
func NewContext(filePath string, cfg *config.Config) *PipelineContext {
	if cfg == nil {
		cfg = config.Default()
	}
	runID := uuid.NewString()
	var sink io.Writer = io.Discard
	if cfg.Verbose {
		sink = os.Stderr
	}
	return &PipelineContext{
		FilePath: filePath,
		Config:   cfg,
		Registry: host.NewRegistry(),
		Output:   os.Stdout,
		RunID:    runID,
		Logger:   log.New(sink, "[brace "+runID[:8]+"] ", log.Lmicroseconds),
	}
}

// MemberLookup returns the member lookup analysis should use.
func (ctx *PipelineContext) MemberLookup() host.Lookup {
	if ctx.Lookup != nil {
		return ctx.Lookup
	}
	if ctx.Registry != nil {
		return ctx.Registry
	}
	return nil
}
