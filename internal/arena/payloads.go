package arena

import (
	"fmt"

	"github.com/funvibe/brace/internal/host"
	"github.com/funvibe/brace/internal/token"
)

// Payload is the closed set of slot contents. The unexported marker keeps
// the set closed to this package, so a new variant has to be handled by
// every exhaustive switch over Kind.
type Payload interface {
	Kind() Kind
	payload()
}

// File is the root of an analyzed program.
type File struct {
	Name string
	Body ID // top-level Braces
}

// Braces is both a lexical scope and a function value.
type Braces struct {
	Lines []ID
	Names *NameTable
}

// Declare binds Name to the value of Value.
type Declare struct {
	Name   string
	Static bool
	Type   ID
	Value  ID // NoID for host bindings, whose value lives outside the arena
	Host   bool
	Token  token.Token
}

// Unresolved is the placeholder of a reserved name.
type Unresolved struct {
	Name  string
	Token token.Token
}

// Call invokes Target with Args. Method is set when analysis bound the call
// to a foreign method.
type Call struct {
	Target ID
	Args   []ID
	Method *host.Member
	Token  token.Token
}

// Identifier refers to a declaration by name.
type Identifier struct {
	Name  string
	Decl  ID
	Token token.Token
}

type Void struct{}

type Boolean struct {
	Value bool
}

type Integer struct {
	Value int64
}

type String struct {
	Value string
}

// If runs Body transparently when Cond is true.
type If struct {
	Cond  ID
	Body  ID
	Token token.Token
}

type Add struct {
	Left  ID
	Right ID
	Token token.Token
}

// Return carries Value, or nothing for `return ()`.
type Return struct {
	Value ID
}

// Intrinsic names a control keyword (return, print, if).
type Intrinsic struct {
	Name string
}

// Parameter consumes the next positional argument of the active call.
type Parameter struct {
	Token token.Token
}

type LogicalNegation struct {
	Operand ID
	Token   token.Token
}

type Negation struct {
	Operand ID
	Token   token.Token
}

type Assign struct {
	Target ID
	Value  ID
	Token  token.Token
}

// Member is target.Name. Getter is set when the name resolved statically to
// a foreign field; otherwise the member stays a deferred method group.
type Member struct {
	Target ID
	Name   string
	Getter *host.Member
	Token  token.Token
}

func (*File) Kind() Kind            { return KindFile }
func (*Braces) Kind() Kind          { return KindBraces }
func (*Declare) Kind() Kind         { return KindDeclare }
func (*Unresolved) Kind() Kind      { return KindUnresolved }
func (*Call) Kind() Kind            { return KindCall }
func (*Identifier) Kind() Kind      { return KindIdentifier }
func (*Void) Kind() Kind            { return KindVoid }
func (*Boolean) Kind() Kind         { return KindBoolean }
func (*Integer) Kind() Kind         { return KindInteger }
func (*String) Kind() Kind          { return KindString }
func (*If) Kind() Kind              { return KindIf }
func (*Add) Kind() Kind             { return KindAdd }
func (*Return) Kind() Kind          { return KindReturn }
func (*Intrinsic) Kind() Kind       { return KindIntrinsic }
func (*Parameter) Kind() Kind       { return KindParameter }
func (*LogicalNegation) Kind() Kind { return KindLogicalNegation }
func (*Negation) Kind() Kind        { return KindNegation }
func (*Assign) Kind() Kind          { return KindAssign }
func (*Member) Kind() Kind          { return KindMember }

func (*File) payload()            {}
func (*Braces) payload()          {}
func (*Declare) payload()         {}
func (*Unresolved) payload()      {}
func (*Call) payload()            {}
func (*Identifier) payload()      {}
func (*Void) payload()            {}
func (*Boolean) payload()         {}
func (*Integer) payload()         {}
func (*String) payload()          {}
func (*If) payload()              {}
func (*Add) payload()             {}
func (*Return) payload()          {}
func (*Intrinsic) payload()       {}
func (*Parameter) payload()       {}
func (*LogicalNegation) payload() {}
func (*Negation) payload()        {}
func (*Assign) payload()          {}
func (*Member) payload()          {}

// NameTable is an insertion-ordered map from declared names to slot ids.
type NameTable struct {
	index map[string]ID
	names []string
}

func NewNameTable() *NameTable {
	return &NameTable{index: make(map[string]ID)}
}

// Add inserts name. It fails if the name is already present.
func (t *NameTable) Add(name string, id ID) error {
	if _, exists := t.index[name]; exists {
		return fmt.Errorf("name %q already declared in this scope", name)
	}
	t.index[name] = id
	t.names = append(t.names, name)
	return nil
}

func (t *NameTable) Get(name string) (ID, bool) {
	id, ok := t.index[name]
	return id, ok
}

// Names returns the declared names in insertion order.
func (t *NameTable) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

func (t *NameTable) Len() int {
	return len(t.names)
}
