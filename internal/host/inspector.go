package host

import (
	"fmt"
	"go/types"
	"os"
	"reflect"
	"strings"
	"sync"

	"golang.org/x/tools/go/packages"
)

// Inspector enumerates members of foreign types from Go source through
// go/packages. It serves analysis without live values (e.g. `brace check`
// against a package that is not linked into the binary); it cannot invoke.
type Inspector struct {
	// Dir is the directory packages are resolved from. Empty means the
	// current working directory.
	Dir string

	mu         sync.Mutex
	loadedPkgs map[string]*packages.Package
	patterns   map[string]bool // requested patterns already loaded
	loads      int
	minted     map[string]types.Type // descriptors created from go/types, by name
	errs       []string
}

func NewInspector(dir string) *Inspector {
	return &Inspector{
		Dir:        dir,
		loadedPkgs: make(map[string]*packages.Package),
		patterns:   make(map[string]bool),
		minted:     make(map[string]types.Type),
	}
}

// Load preloads packages by import path.
func (ins *Inspector) Load(pkgPaths ...string) error {
	ins.mu.Lock()
	defer ins.mu.Unlock()
	return ins.loadLocked(pkgPaths)
}

func (ins *Inspector) loadLocked(pkgPaths []string) error {
	var missing []string
	for _, p := range pkgPaths {
		if _, ok := ins.loadedPkgs[p]; ok || ins.patterns[p] {
			continue
		}
		missing = append(missing, p)
	}
	if len(missing) == 0 {
		return nil
	}

	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes,
		Dir:  ins.Dir,
		Env:  append(os.Environ(), "GOWORK=off"),
	}
	ins.loads++
	pkgs, err := packages.Load(cfg, missing...)
	if err != nil {
		return fmt.Errorf("loading packages: %w", err)
	}

	var errs []string
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, fmt.Sprintf("%s: %s", pkg.PkgPath, e.Msg))
		}
		ins.loadedPkgs[pkg.PkgPath] = pkg
	}
	if len(errs) > 0 {
		return fmt.Errorf("package errors:\n  %s", strings.Join(errs, "\n  "))
	}
	for _, p := range missing {
		ins.patterns[p] = true
	}
	return nil
}

// Err returns the load failures met while answering Members.
func (ins *Inspector) Err() error {
	ins.mu.Lock()
	defer ins.mu.Unlock()
	if len(ins.errs) == 0 {
		return nil
	}
	return fmt.Errorf("inspector: %s", strings.Join(ins.errs, "; "))
}

// Members implements Lookup.
func (ins *Inspector) Members(d Descriptor, name string) []Member {
	ins.mu.Lock()
	defer ins.mu.Unlock()

	t, ok := ins.resolve(d)
	if !ok {
		return nil
	}

	var out []Member
	mset := types.NewMethodSet(t)
	for i := 0; i < mset.Len(); i++ {
		fn, ok := mset.At(i).Obj().(*types.Func)
		if !ok || fn.Name() != name || !fn.Exported() {
			continue
		}
		out = append(out, ins.signatureMember(name, fn.Type().(*types.Signature)))
	}

	st := t
	if p, ok := st.(*types.Pointer); ok {
		st = p.Elem()
	}
	if s, ok := st.Underlying().(*types.Struct); ok {
		for i := 0; i < s.NumFields(); i++ {
			f := s.Field(i)
			if f.Name() == name && f.Exported() {
				out = append(out, Member{Name: name, Kind: FieldMember, Index: []int{i}, Result: ins.describe(f.Type())})
			}
		}
	}
	return out
}

func (ins *Inspector) resolve(d Descriptor) (types.Type, bool) {
	if d.Type == nil {
		t, ok := ins.minted[d.Name]
		return t, ok
	}
	rt := d.Type
	pointer := false
	if rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
		pointer = true
	}
	if rt.PkgPath() == "" || rt.Name() == "" {
		return nil, false
	}
	pkg, ok := ins.loadedPkgs[rt.PkgPath()]
	if !ok {
		if err := ins.loadLocked([]string{rt.PkgPath()}); err != nil {
			ins.errs = append(ins.errs, err.Error())
			return nil, false
		}
		pkg = ins.loadedPkgs[rt.PkgPath()]
	}
	if pkg == nil || pkg.Types == nil {
		return nil, false
	}
	obj, ok := pkg.Types.Scope().Lookup(rt.Name()).(*types.TypeName)
	if !ok {
		return nil, false
	}
	t := obj.Type()
	if pointer {
		t = types.NewPointer(t)
	}
	return t, true
}

func (ins *Inspector) signatureMember(name string, sig *types.Signature) Member {
	m := Member{Name: name, Kind: MethodMember, Variadic: sig.Variadic(), Result: Void}
	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		pt := params.At(i).Type()
		if sig.Variadic() && i == params.Len()-1 {
			if s, ok := pt.(*types.Slice); ok {
				pt = s.Elem()
			}
		}
		m.Params = append(m.Params, ins.describe(pt))
	}
	results := sig.Results()
	n := results.Len()
	if n > 0 && isErrorType(results.At(n-1).Type()) {
		m.ReturnsError = true
		n--
	}
	if n > 0 {
		m.Result = ins.describe(results.At(0).Type())
	}
	return m
}

// describe mirrors Describe for go/types; non-basic types are remembered so
// that chained member access can resolve them again.
func (ins *Inspector) describe(t types.Type) Descriptor {
	if b, ok := t.Underlying().(*types.Basic); ok {
		switch {
		case b.Info()&types.IsInteger != 0:
			return Int
		case b.Info()&types.IsString != 0:
			return String
		case b.Info()&types.IsBoolean != 0:
			return Bool
		}
	}
	name := types.TypeString(t, (*types.Package).Name)
	ins.minted[name] = t
	return Descriptor{Name: name}
}

func isErrorType(t types.Type) bool {
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	return obj.Pkg() == nil && obj.Name() == "error"
}
