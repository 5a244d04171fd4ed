package analyzer

import (
	"log"

	"github.com/funvibe/brace/internal/arena"
	"github.com/funvibe/brace/internal/ast"
	"github.com/funvibe/brace/internal/config"
	"github.com/funvibe/brace/internal/diagnostics"
	"github.com/funvibe/brace/internal/host"
	"github.com/funvibe/brace/internal/token"
)

// Options configures an analysis pass.
type Options struct {
	// Lookup enumerates foreign members. Nil means member access never finds
	// candidates.
	Lookup host.Lookup
	// Globals are the host bindings visible as predeclared identifiers.
	Globals map[string]host.Descriptor
	// Logger receives arena diagnostics. Nil discards them.
	Logger *log.Logger
}

// Ref is a typed reference to an analyzed slot.
type Ref struct {
	ID   arena.ID
	Type arena.ID
}

// Analyzer converts one syntax tree into one populated arena.
type Analyzer struct {
	opts Options

	arena    *arena.Arena
	fileName string
	file     arena.ID
	scopes   []arena.ID // Braces ids, outermost first
	hoisted  map[*ast.Declaration]arena.ID
	hostDecl map[string]arena.ID

	intType    arena.ID
	stringType arena.ID
	boolType   arena.ID
	voidType   arena.ID
	fnType     arena.ID
}

func New(opts Options) *Analyzer {
	return &Analyzer{opts: opts}
}

// Analyze is a shorthand for New(opts).Analyze(file).
func Analyze(file *ast.File, opts Options) (*arena.Arena, error) {
	return New(opts).Analyze(file)
}

// Analyze resolves the tree into a fresh arena. On failure the arena is
// discarded and the first fault is returned.
func (a *Analyzer) Analyze(file *ast.File) (*arena.Arena, error) {
	a.arena = arena.New(a.opts.Logger)
	a.fileName = file.Name
	a.scopes = a.scopes[:0]
	a.hoisted = make(map[*ast.Declaration]arena.ID)
	a.hostDecl = make(map[string]arena.ID)

	a.intType = a.foreign(host.Int)
	a.stringType = a.foreign(host.String)
	a.boolType = a.foreign(host.Bool)
	a.voidType = a.foreign(host.Void)
	// Brace blocks are provisionally typed as returning Int; the body is
	// not inspected for the actual return type.
	a.fnType = a.arena.GetOrAddType(&arena.FunctionType{Return: a.intType})

	a.file = a.arena.Add(arena.NoID, &arena.File{Name: file.Name})
	a.arena.UpdateType(a.file, a.voidType)
	body, err := a.braces(file.Statements, a.file)
	if err != nil {
		return nil, err
	}
	a.arena.UpdateData(a.file, &arena.File{Name: file.Name, Body: body.ID})
	return a.arena, nil
}

func (a *Analyzer) foreign(d host.Descriptor) arena.ID {
	return a.arena.GetOrAddType(&arena.ForeignType{Desc: d})
}

func (a *Analyzer) scope() arena.ID {
	return a.scopes[len(a.scopes)-1]
}

func (a *Analyzer) names(scope arena.ID) *arena.NameTable {
	return arena.PayloadOf[*arena.Braces](a.arena, scope).Names
}

func (a *Analyzer) add(p arena.Payload, typ arena.ID) Ref {
	id := a.arena.Add(a.scope(), p)
	a.arena.UpdateType(id, typ)
	return Ref{ID: id, Type: typ}
}

// braces analyzes a statement list as a nested scope of parent.
func (a *Analyzer) braces(stmts []ast.Node, parent arena.ID) (Ref, error) {
	payload := &arena.Braces{Names: arena.NewNameTable()}
	id := a.arena.Add(parent, payload)
	a.arena.UpdateType(id, a.fnType)

	a.scopes = append(a.scopes, id)
	defer func() { a.scopes = a.scopes[:len(a.scopes)-1] }()

	if err := a.hoist(stmts); err != nil {
		return Ref{}, err
	}
	for _, stmt := range stmts {
		line, err := a.statement(stmt)
		if err != nil {
			return Ref{}, err
		}
		payload.Lines = append(payload.Lines, line)
	}
	return Ref{ID: id, Type: a.fnType}, nil
}

// hoist reserves every function declaration of the scope up front, typed as
// a function, so bodies may call functions declared further down.
func (a *Analyzer) hoist(stmts []ast.Node) error {
	for _, stmt := range stmts {
		decl, ok := stmt.(*ast.Declaration)
		if !ok || ast.BlockOf(decl.Value) == nil {
			continue
		}
		name, ok := ast.IdentifierName(decl.Target)
		if !ok || config.IsReserved(name) {
			continue
		}
		id, err := a.reserve(name, decl.Token)
		if err != nil {
			return err
		}
		a.arena.UpdateType(id, a.fnType)
		a.hoisted[decl] = id
	}
	return nil
}

// reserve adds an Unresolved placeholder for name to the current scope.
func (a *Analyzer) reserve(name string, tok token.Token) (arena.ID, error) {
	names := a.names(a.scope())
	if _, exists := names.Get(name); exists {
		return arena.NoID, a.errorf(diagnostics.ErrA002, tok, "duplicate identifier %q", name)
	}
	id := a.arena.Add(a.scope(), &arena.Unresolved{Name: name, Token: tok})
	if err := names.Add(name, id); err != nil {
		return arena.NoID, a.errorf(diagnostics.ErrA002, tok, "%v", err)
	}
	return id, nil
}

// resolve searches the scope chain innermost to outermost, then the host
// bindings.
func (a *Analyzer) resolve(name string) (arena.ID, bool) {
	for i := len(a.scopes) - 1; i >= 0; i-- {
		if id, ok := a.names(a.scopes[i]).Get(name); ok {
			return id, true
		}
	}
	if id, ok := a.hostDecl[name]; ok {
		return id, true
	}
	desc, ok := a.opts.Globals[name]
	if !ok {
		return arena.NoID, false
	}
	typ := a.foreign(desc)
	id := a.arena.Add(a.file, &arena.Declare{Name: name, Host: true, Static: true, Type: typ})
	a.arena.UpdateType(id, typ)
	a.hostDecl[name] = id
	return id, true
}

func (a *Analyzer) errorf(code diagnostics.ErrorCode, tok token.Token, format string, args ...interface{}) error {
	err := diagnostics.NewError(code, tok, format, args...)
	err.File = a.fileName
	return err
}
