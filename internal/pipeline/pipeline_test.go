package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/funvibe/brace/internal/ast"
	"github.com/funvibe/brace/internal/config"
	"github.com/funvibe/brace/internal/host"
)

type recordingProcessor struct {
	name  string
	seen  *[]string
	fails bool
}

func (p *recordingProcessor) Process(ctx *PipelineContext) *PipelineContext {
	*p.seen = append(*p.seen, p.name)
	if p.fails {
		ctx.Errors = append(ctx.Errors, errors.New(p.name+" failed"))
	}
	return ctx
}

func TestPipelineRunsEveryStage(t *testing.T) {
	var seen []string
	ctx := New(
		&recordingProcessor{name: "a", seen: &seen, fails: true},
		&recordingProcessor{name: "b", seen: &seen},
	).Run(NewContext("x.yaml", nil))

	if len(seen) != 2 || seen[0] != "a" || seen[1] != "b" {
		t.Errorf("stages = %v", seen)
	}
	if len(ctx.Errors) != 1 {
		t.Errorf("errors = %v", ctx.Errors)
	}
}

func TestNewContextDefaults(t *testing.T) {
	ctx := NewContext("x.yaml", nil)
	if ctx.Config == nil || ctx.Config.MaxCallDepth != config.DefaultMaxCallDepth {
		t.Errorf("config = %+v", ctx.Config)
	}
	if ctx.Registry == nil || ctx.Logger == nil || ctx.Output == nil {
		t.Fatalf("context not fully initialised: %+v", ctx)
	}
	if len(ctx.RunID) != 36 {
		t.Errorf("run id = %q", ctx.RunID)
	}
	if other := NewContext("x.yaml", nil); other.RunID == ctx.RunID {
		t.Errorf("run ids repeat: %s", ctx.RunID)
	}
	if ctx.MemberLookup() != host.Lookup(ctx.Registry) {
		t.Errorf("registry is not the default lookup")
	}
	ins := host.NewInspector(".")
	ctx.Lookup = ins
	if ctx.MemberLookup() != host.Lookup(ins) {
		t.Errorf("explicit lookup ignored")
	}
}

func TestTreeLoaderProcessor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.yaml")
	if err := os.WriteFile(path, []byte("body:\n  - decl: {target: x, value: 1}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := (&TreeLoaderProcessor{}).Process(NewContext(path, nil))
	if len(ctx.Errors) != 0 {
		t.Fatalf("errors: %v", ctx.Errors)
	}
	if ctx.Tree == nil || ctx.Tree.Name != "prog" || len(ctx.Tree.Statements) != 1 {
		t.Errorf("tree = %+v", ctx.Tree)
	}

	preset := &ast.File{Name: "preset"}
	ctx = NewContext(filepath.Join(dir, "missing.yaml"), nil)
	ctx.Tree = preset
	ctx = (&TreeLoaderProcessor{}).Process(ctx)
	if ctx.Tree != preset || len(ctx.Errors) != 0 {
		t.Errorf("supplied tree was replaced: %+v %v", ctx.Tree, ctx.Errors)
	}

	ctx = (&TreeLoaderProcessor{}).Process(NewContext(filepath.Join(dir, "missing.yaml"), nil))
	if len(ctx.Errors) != 1 {
		t.Errorf("missing file: errors = %v", ctx.Errors)
	}
}

func TestBindingProcessor(t *testing.T) {
	ctx := (&BindingProcessor{}).Process(NewContext("x.yaml", nil))
	if len(ctx.Errors) != 0 {
		t.Fatalf("errors: %v", ctx.Errors)
	}
	if _, ok := ctx.Registry.Binding(config.StdBindingName); !ok {
		t.Errorf("std not bound")
	}
	// Running again keeps the existing binding.
	ctx = (&BindingProcessor{}).Process(ctx)
	if len(ctx.Errors) != 0 {
		t.Errorf("rebinding: %v", ctx.Errors)
	}

	cfg := config.Default()
	cfg.Bindings = []string{"unknown"}
	ctx = (&BindingProcessor{}).Process(NewContext("x.yaml", cfg))
	if len(ctx.Errors) != 1 {
		t.Errorf("unknown library: errors = %v", ctx.Errors)
	}

	cfg = config.Default()
	cfg.Bindings = []string{}
	ctx = (&BindingProcessor{}).Process(NewContext("x.yaml", cfg))
	if len(ctx.Registry.Bindings()) != 0 {
		t.Errorf("empty binding list still bound %d values", len(ctx.Registry.Bindings()))
	}
}
