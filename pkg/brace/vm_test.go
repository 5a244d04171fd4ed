package brace

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/brace/internal/config"
	"github.com/funvibe/brace/internal/diagnostics"
)

type inventory struct {
	Items int
}

func (i *inventory) Add(n int) int {
	i.Items += n
	return i.Items
}

func newVM(t *testing.T) (*VM, *bytes.Buffer) {
	t.Helper()
	vm := New()
	var out bytes.Buffer
	vm.SetOutput(&out)
	return vm, &out
}

func TestEvalReturnsResult(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want interface{}
	}{
		{"int", "body:\n  - call: {target: return, args: [{add: [40, 2]}]}\n", int64(42)},
		{"string", "body:\n  - call: {target: return, args: [{str: hi}]}\n", "hi"},
		{"bool", "body:\n  - call: {target: return, args: [true]}\n", true},
		{"void", "body:\n  - decl: {target: x, value: 1}\n", nil},
		{"main", `body:
  - decl:
      target: main
      value:
        block:
          - call: {target: return, args: [7]}
`, int64(7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm, _ := newVM(t)
			got, err := vm.Eval(tt.src)
			if err != nil {
				t.Fatalf("Eval: %v", err)
			}
			if got != tt.want {
				t.Errorf("result = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestEvalWithBinding(t *testing.T) {
	vm, out := newVM(t)
	inv := &inventory{Items: 1}
	if err := vm.Bind("inv", inv); err != nil {
		t.Fatal(err)
	}
	got, err := vm.Eval(`body:
  - call: {target: print, args: [{call: {target: {member: {target: std, name: Upper}}, args: [{str: ok}]}}]}
  - call: {target: return, args: [{call: {target: {member: {target: inv, name: Add}}, args: [4]}}]}
`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got != int64(5) || inv.Items != 5 {
		t.Errorf("result = %v, items = %d", got, inv.Items)
	}
	if out.String() != "OK\n" {
		t.Errorf("output = %q", out.String())
	}

	// Bindings persist across runs.
	if got, err := vm.Eval("body:\n  - call: {target: return, args: [{member: {target: inv, name: Items}}]}\n"); err != nil || got != int64(5) {
		t.Errorf("second run = %v, %v", got, err)
	}
}

func TestEvalHostResult(t *testing.T) {
	vm, _ := newVM(t)
	inv := &inventory{}
	if err := vm.Bind("inv", inv); err != nil {
		t.Fatal(err)
	}
	got, err := vm.Eval("body:\n  - call: {target: return, args: [inv]}\n")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got != inv {
		t.Errorf("host value lost its identity: %v", got)
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diagnostics.ErrorCode
	}{
		{"undeclared", "body:\n  - call: {target: print, args: [nope]}\n", diagnostics.ErrA003},
		{"analysis type", "body:\n  - call: {target: print, args: [{add: [1, {str: a}]}]}\n", diagnostics.ErrA005},
		{"runtime", "body:\n  - call: {target: print, args: [{call: {target: {member: {target: std, name: Atoi}}, args: [{str: x}]}}]}\n", diagnostics.ErrR008},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm, out := newVM(t)
			_, err := vm.Eval(tt.src)
			if got, ok := diagnostics.CodeOf(err); !ok || got != tt.code {
				t.Fatalf("error = %v, want %s", err, tt.code)
			}
			if out.Len() != 0 {
				t.Errorf("output after failure: %q", out.String())
			}
		})
	}

	vm, _ := newVM(t)
	if _, err := vm.Eval("body: [\n"); err == nil {
		t.Errorf("expected a decode error")
	}
}

func writeTree(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileAndCheck(t *testing.T) {
	dir := t.TempDir()
	path := writeTree(t, dir, "count.yaml", `body:
  - decl: {target: n, value: 2}
  - assign: {target: n, value: {add: [n, 3]}}
  - call: {target: print, args: [n]}
`)
	vm, out := newVM(t)
	if _, err := vm.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if out.String() != "5\n" {
		t.Errorf("output = %q", out.String())
	}

	out.Reset()
	if err := vm.Check(path, nil); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("Check ran the program: %q", out.String())
	}

	var dump bytes.Buffer
	if err := vm.Check(path, &dump); err != nil {
		t.Fatalf("Check with dump: %v", err)
	}
	if !strings.Contains(dump.String(), "count") || !strings.Contains(dump.String(), "Int") {
		t.Errorf("dump missing file or type rows:\n%s", dump.String())
	}

	bad := writeTree(t, dir, "bad.yaml", "body:\n  - call: {target: print, args: [missing]}\n")
	err := vm.Check(bad, nil)
	var diag *diagnostics.DiagnosticError
	if !errors.As(err, &diag) || diag.Code != diagnostics.ErrA003 {
		t.Fatalf("Check(bad) = %v", err)
	}
	if diag.File != "bad" {
		t.Errorf("diagnostic file = %q", diag.File)
	}

	if _, err := vm.LoadFile(filepath.Join(dir, "none.yaml")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestConfigDepthLimit(t *testing.T) {
	cfg := config.Default()
	cfg.MaxCallDepth = 5
	vm, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	vm.SetOutput(&bytes.Buffer{})
	_, err = vm.Eval(`body:
  - decl:
      target: loop
      value:
        block:
          - call: {target: return, args: [{call: {target: loop}}]}
  - call: {target: print, args: [{call: {target: loop}}]}
`)
	if got, ok := diagnostics.CodeOf(err); !ok || got != diagnostics.ErrR010 {
		t.Errorf("error = %v, want R010", err)
	}

	cfg = config.Default()
	cfg.MaxCallDepth = -1
	if _, err := NewWithConfig(cfg); err == nil {
		t.Errorf("expected a validation error")
	}
}

func TestConfigWithoutStd(t *testing.T) {
	cfg := config.Default()
	cfg.Bindings = []string{}
	vm, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	_, err = vm.Eval("body:\n  - call: {target: print, args: [{member: {target: std, name: Version}}]}\n")
	if got, ok := diagnostics.CodeOf(err); !ok || got != diagnostics.ErrA003 {
		t.Errorf("error = %v, want A003", err)
	}
}
