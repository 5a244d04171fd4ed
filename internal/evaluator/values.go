package evaluator

import (
	"fmt"
	"strconv"

	"github.com/funvibe/brace/internal/arena"
)

type ValueType string

const (
	VOID_VAL         = "VOID"
	BOOL_VAL         = "BOOL"
	INT_VAL          = "INT"
	STRING_VAL       = "STRING"
	FUNCTION_VAL     = "FUNCTION"
	INTRINSIC_VAL    = "INTRINSIC"
	MEMBER_VAL       = "MEMBER"
	HOST_VAL         = "HOST"
	RETURN_VOID_VAL  = "RETURN_VOID"
	RETURN_VALUE_VAL = "RETURN_VALUE"
)

// Value is a runtime value. The set is closed: every switch over it lists
// all variants.
type Value interface {
	Type() ValueType
	Inspect() string
	value()
}

type Void struct{}

type Bool struct {
	Value bool
}

type Int struct {
	Value int64
}

type String struct {
	Value string
}

// Function is a brace block together with the frame it was created in.
type Function struct {
	Braces arena.ID
	Env    *Frame
}

// Intrinsic is a reference to a control keyword used as a call target.
type Intrinsic struct {
	Name string
}

// Member is a deferred target.name awaiting a call site.
type Member struct {
	Target Value
	Name   string
}

// Host wraps a Go value obtained from a binding or a foreign call.
type Host struct {
	Value interface{}
}

// ReturnVoid and ReturnValue are statement signals consumed by block
// execution. They are never bound to a name.
type ReturnVoid struct{}

type ReturnValue struct {
	Value Value
}

func (*Void) Type() ValueType        { return VOID_VAL }
func (*Bool) Type() ValueType        { return BOOL_VAL }
func (*Int) Type() ValueType         { return INT_VAL }
func (*String) Type() ValueType      { return STRING_VAL }
func (*Function) Type() ValueType    { return FUNCTION_VAL }
func (*Intrinsic) Type() ValueType   { return INTRINSIC_VAL }
func (*Member) Type() ValueType      { return MEMBER_VAL }
func (*Host) Type() ValueType        { return HOST_VAL }
func (*ReturnVoid) Type() ValueType  { return RETURN_VOID_VAL }
func (*ReturnValue) Type() ValueType { return RETURN_VALUE_VAL }

func (*Void) Inspect() string          { return "()" }
func (b *Bool) Inspect() string        { return strconv.FormatBool(b.Value) }
func (i *Int) Inspect() string         { return strconv.FormatInt(i.Value, 10) }
func (s *String) Inspect() string      { return s.Value }
func (f *Function) Inspect() string    { return fmt.Sprintf("<function #%d>", f.Braces) }
func (i *Intrinsic) Inspect() string   { return "<intrinsic " + i.Name + ">" }
func (m *Member) Inspect() string      { return m.Target.Inspect() + "." + m.Name }
func (h *Host) Inspect() string        { return fmt.Sprintf("<host %T>", h.Value) }
func (*ReturnVoid) Inspect() string    { return "return ()" }
func (r *ReturnValue) Inspect() string { return "return " + r.Value.Inspect() }

func (*Void) value()        {}
func (*Bool) value()        {}
func (*Int) value()         {}
func (*String) value()      {}
func (*Function) value()    {}
func (*Intrinsic) value()   {}
func (*Member) value()      {}
func (*Host) value()        {}
func (*ReturnVoid) value()  {}
func (*ReturnValue) value() {}

var (
	VOID  = &Void{}
	TRUE  = &Bool{Value: true}
	FALSE = &Bool{Value: false}
)

func nativeBool(b bool) *Bool {
	if b {
		return TRUE
	}
	return FALSE
}

// isSignal reports whether v is a return signal.
func isSignal(v Value) bool {
	switch v.(type) {
	case *ReturnVoid, *ReturnValue:
		return true
	}
	return false
}
