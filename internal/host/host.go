// Package host is the bridge to the external object/method system that
// programs interoperate with. Foreign types are Go types: analysis enumerates
// their members by name, evaluation invokes them through reflection.
package host

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/funvibe/brace/internal/config"
)

// Descriptor names a foreign type. Every Go integer kind normalises to Int so
// that values returned from Go code add up with program literals.
type Descriptor struct {
	Name string
	Type reflect.Type // nil for Void and for descriptors built from source only
}

var (
	Int    = Descriptor{Name: config.IntTypeName, Type: reflect.TypeOf(int64(0))}
	String = Descriptor{Name: config.StringTypeName, Type: reflect.TypeOf("")}
	Bool   = Descriptor{Name: config.BoolTypeName, Type: reflect.TypeOf(false)}
	Void   = Descriptor{Name: config.VoidTypeName}
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func (d Descriptor) String() string {
	return d.Name
}

// IsVoid reports whether d describes the absence of a value.
func (d Descriptor) IsVoid() bool {
	return d == Void
}

// Describe maps a Go type onto a descriptor.
func Describe(t reflect.Type) Descriptor {
	if t == nil {
		return Void
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Int
	case reflect.String:
		return String
	case reflect.Bool:
		return Bool
	}
	return Descriptor{Name: t.String(), Type: t}
}

type MemberKind uint8

const (
	MethodMember MemberKind = iota + 1
	FieldMember
)

func (k MemberKind) String() string {
	switch k {
	case MethodMember:
		return "method"
	case FieldMember:
		return "field"
	default:
		return "unknown"
	}
}

// Member is one candidate found under a name on a foreign type.
type Member struct {
	Name  string
	Kind  MemberKind
	Index []int // field index path for FieldMember

	Params       []Descriptor
	Variadic     bool
	Result       Descriptor
	ReturnsError bool
}

// NumIn is the declared parameter count, receiver excluded.
func (m Member) NumIn() int {
	return len(m.Params)
}

// Accepts reports whether a call with n arguments matches the member's arity.
func (m Member) Accepts(n int) bool {
	if m.Kind != MethodMember {
		return false
	}
	if m.Variadic {
		return n >= len(m.Params)-1
	}
	return n == len(m.Params)
}

// Same reports structural equality.
func (m Member) Same(o Member) bool {
	if m.Name != o.Name || m.Kind != o.Kind || m.Variadic != o.Variadic ||
		m.Result != o.Result || m.ReturnsError != o.ReturnsError ||
		len(m.Index) != len(o.Index) || len(m.Params) != len(o.Params) {
		return false
	}
	for i := range m.Index {
		if m.Index[i] != o.Index[i] {
			return false
		}
	}
	for i := range m.Params {
		if m.Params[i] != o.Params[i] {
			return false
		}
	}
	return true
}

func (m Member) String() string {
	if m.Kind == FieldMember {
		return fmt.Sprintf("%s %s", m.Name, m.Result)
	}
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.Name
		if m.Variadic && i == len(m.Params)-1 {
			params[i] = "..." + p.Name
		}
	}
	return fmt.Sprintf("%s(%s) %s", m.Name, strings.Join(params, ", "), m.Result)
}

// Lookup enumerates members by name. It is all the analyzer needs.
type Lookup interface {
	Members(d Descriptor, name string) []Member
}

// Invoker executes bound members. It is all the evaluator needs.
type Invoker interface {
	// Invoke calls a method member. A void method yields an invalid Value.
	Invoke(m Member, recv reflect.Value, args []reflect.Value) (reflect.Value, error)
	// Get reads a field member.
	Get(m Member, recv reflect.Value) (reflect.Value, error)
}

// InvocationError is raised by foreign code; it is surfaced unchanged.
type InvocationError struct {
	Member string
	Err    error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Member, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// methodMember builds a member from a method type whose receiver is already
// stripped.
func methodMember(name string, ft reflect.Type) Member {
	m := Member{Name: name, Kind: MethodMember, Variadic: ft.IsVariadic(), Result: Void}
	for i := 0; i < ft.NumIn(); i++ {
		in := ft.In(i)
		if m.Variadic && i == ft.NumIn()-1 {
			in = in.Elem()
		}
		m.Params = append(m.Params, Describe(in))
	}
	outs := ft.NumOut()
	if outs > 0 && ft.Out(outs-1) == errorType {
		m.ReturnsError = true
		outs--
	}
	if outs > 0 {
		m.Result = Describe(ft.Out(0))
	}
	return m
}
