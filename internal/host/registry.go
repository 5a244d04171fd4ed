package host

import (
	"fmt"
	"math"
	"reflect"

	"github.com/funvibe/brace/internal/config"
)

// Binding is a Go value visible to programs under Name.
type Binding struct {
	Name       string
	Descriptor Descriptor
	Value      reflect.Value
}

// MarshalError reports a value that cannot cross the host boundary.
type MarshalError struct {
	Member string
	Index  int // argument index, -1 for the receiver or the result
	Msg    string
}

func (e *MarshalError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s: argument %d: %s", e.Member, e.Index, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Member, e.Msg)
}

// Registry is the reflection-backed interop collaborator. It implements both
// Lookup and Invoker and owns the named host bindings.
type Registry struct {
	bindings map[string]*Binding
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{bindings: make(map[string]*Binding)}
}

// Bind registers a Go value. Pointers keep their identity; methods with
// pointer receivers are only reachable through a pointer.
func (r *Registry) Bind(name string, val interface{}) error {
	if name == "" || config.IsReserved(name) {
		return fmt.Errorf("cannot bind reserved name %q", name)
	}
	if _, exists := r.bindings[name]; exists {
		return fmt.Errorf("binding %q already registered", name)
	}
	v := reflect.ValueOf(val)
	if !v.IsValid() {
		return fmt.Errorf("cannot bind nil value to %q", name)
	}
	r.bindings[name] = &Binding{Name: name, Descriptor: Describe(v.Type()), Value: v}
	r.order = append(r.order, name)
	return nil
}

// Binding returns the binding registered under name.
func (r *Registry) Binding(name string) (*Binding, bool) {
	b, ok := r.bindings[name]
	return b, ok
}

// Bindings returns all bindings in registration order.
func (r *Registry) Bindings() []*Binding {
	out := make([]*Binding, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.bindings[name])
	}
	return out
}

// Globals maps every binding name to its descriptor, for analysis.
func (r *Registry) Globals() map[string]Descriptor {
	out := make(map[string]Descriptor, len(r.bindings))
	for name, b := range r.bindings {
		out[name] = b.Descriptor
	}
	return out
}

// Members enumerates the methods and exported fields called name.
func (r *Registry) Members(d Descriptor, name string) []Member {
	t := d.Type
	if t == nil {
		return nil
	}
	var out []Member
	if method, ok := t.MethodByName(name); ok {
		ft := method.Type
		if t.Kind() != reflect.Interface {
			ft = stripReceiver(ft)
		}
		out = append(out, methodMember(name, ft))
	}
	st := t
	if st.Kind() == reflect.Ptr {
		st = st.Elem()
	}
	if st.Kind() == reflect.Struct {
		if field, ok := st.FieldByName(name); ok && field.PkgPath == "" {
			out = append(out, Member{Name: name, Kind: FieldMember, Index: field.Index, Result: Describe(field.Type)})
		}
	}
	return out
}

// Invoke calls method m on recv, converting arguments to the declared
// parameter types.
func (r *Registry) Invoke(m Member, recv reflect.Value, args []reflect.Value) (result reflect.Value, err error) {
	if !recv.IsValid() {
		return reflect.Value{}, &MarshalError{Member: m.Name, Index: -1, Msg: "missing receiver"}
	}
	method := recv.MethodByName(m.Name)
	if !method.IsValid() {
		return reflect.Value{}, &InvocationError{Member: m.Name, Err: fmt.Errorf("no method %s on %s", m.Name, recv.Type())}
	}
	ft := method.Type()
	in, err := coerceArgs(m.Name, ft, args)
	if err != nil {
		return reflect.Value{}, err
	}

	defer func() {
		if p := recover(); p != nil {
			result = reflect.Value{}
			err = &InvocationError{Member: m.Name, Err: fmt.Errorf("panic: %v", p)}
		}
	}()
	outs := method.Call(in)

	if n := len(outs); n > 0 && ft.Out(n-1) == errorType {
		if e := outs[n-1]; !e.IsNil() {
			return reflect.Value{}, &InvocationError{Member: m.Name, Err: e.Interface().(error)}
		}
		outs = outs[:n-1]
	}
	if len(outs) == 0 {
		return reflect.Value{}, nil
	}
	return outs[0], nil
}

// Get reads field m from recv, following pointers.
func (r *Registry) Get(m Member, recv reflect.Value) (reflect.Value, error) {
	v := recv
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}, &InvocationError{Member: m.Name, Err: fmt.Errorf("nil receiver")}
		}
		v = v.Elem()
	}
	if !v.IsValid() || v.Kind() != reflect.Struct {
		return reflect.Value{}, &MarshalError{Member: m.Name, Index: -1, Msg: "receiver is not a struct"}
	}
	field, err := v.FieldByIndexErr(m.Index)
	if err != nil {
		return reflect.Value{}, &InvocationError{Member: m.Name, Err: err}
	}
	return field, nil
}

func stripReceiver(ft reflect.Type) reflect.Type {
	in := make([]reflect.Type, 0, ft.NumIn()-1)
	for i := 1; i < ft.NumIn(); i++ {
		in = append(in, ft.In(i))
	}
	out := make([]reflect.Type, 0, ft.NumOut())
	for i := 0; i < ft.NumOut(); i++ {
		out = append(out, ft.Out(i))
	}
	return reflect.FuncOf(in, out, ft.IsVariadic())
}

func coerceArgs(name string, ft reflect.Type, args []reflect.Value) ([]reflect.Value, error) {
	numIn := ft.NumIn()
	if ft.IsVariadic() {
		if len(args) < numIn-1 {
			return nil, &MarshalError{Member: name, Index: -1, Msg: fmt.Sprintf("expected at least %d arguments, got %d", numIn-1, len(args))}
		}
	} else if len(args) != numIn {
		return nil, &MarshalError{Member: name, Index: -1, Msg: fmt.Sprintf("expected %d arguments, got %d", numIn, len(args))}
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var target reflect.Type
		if ft.IsVariadic() && i >= numIn-1 {
			target = ft.In(numIn - 1).Elem()
		} else {
			target = ft.In(i)
		}
		v, err := coerce(arg, target)
		if err != nil {
			return nil, &MarshalError{Member: name, Index: i, Msg: err.Error()}
		}
		in[i] = v
	}
	return in, nil
}

func coerce(v reflect.Value, target reflect.Type) (reflect.Value, error) {
	if !v.IsValid() {
		switch target.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(target), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot pass void as %s", target)
	}
	if v.Type().AssignableTo(target) {
		return v, nil
	}
	if isNumeric(v.Kind()) && isNumeric(target.Kind()) {
		if err := checkRange(v, target); err != nil {
			return reflect.Value{}, err
		}
		return v.Convert(target), nil
	}
	if v.Kind() == reflect.String && target.Kind() == reflect.String {
		return v.Convert(target), nil
	}
	if v.Kind() == reflect.Bool && target.Kind() == reflect.Bool {
		return v.Convert(target), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot convert %s to %s", v.Type(), target)
}

// checkRange rejects integer conversions that would change the value.
func checkRange(v reflect.Value, target reflect.Type) error {
	zero := reflect.Zero(target)
	switch {
	case isSigned(v.Kind()) && isSigned(target.Kind()):
		if zero.OverflowInt(v.Int()) {
			return fmt.Errorf("%d overflows %s", v.Int(), target)
		}
	case isSigned(v.Kind()) && isUnsigned(target.Kind()):
		if v.Int() < 0 {
			return fmt.Errorf("cannot pass negative %d as %s", v.Int(), target)
		}
		if zero.OverflowUint(uint64(v.Int())) {
			return fmt.Errorf("%d overflows %s", v.Int(), target)
		}
	case isUnsigned(v.Kind()) && isUnsigned(target.Kind()):
		if zero.OverflowUint(v.Uint()) {
			return fmt.Errorf("%d overflows %s", v.Uint(), target)
		}
	case isUnsigned(v.Kind()) && isSigned(target.Kind()):
		if v.Uint() > math.MaxInt64 || zero.OverflowInt(int64(v.Uint())) {
			return fmt.Errorf("%d overflows %s", v.Uint(), target)
		}
	}
	return nil
}

func isSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
