package evaluator

import (
	"fmt"
	"math"
	"reflect"
)

// Marshaller handles conversion between Go and runtime values.
type Marshaller struct{}

func NewMarshaller() *Marshaller {
	return &Marshaller{}
}

// ToValue converts a Go value to a runtime Value. Every integer kind becomes
// Int; values without a native counterpart stay wrapped in Host.
func (m *Marshaller) ToValue(v reflect.Value) (Value, error) {
	// Unpack interface if it's contained in one
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return VOID, nil
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return VOID, nil
	}

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &Int{Value: v.Int()}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if v.Uint() > math.MaxInt64 {
			return nil, fmt.Errorf("%s value %d overflows Int", v.Type(), v.Uint())
		}
		return &Int{Value: int64(v.Uint())}, nil
	case reflect.Bool:
		return nativeBool(v.Bool()), nil
	case reflect.String:
		return &String{Value: v.String()}, nil
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return VOID, nil
		}
	}
	if !v.CanInterface() {
		return nil, fmt.Errorf("cannot marshal unexported %s", v.Type())
	}
	return &Host{Value: v.Interface()}, nil
}

// FromValue converts a runtime Value to a Go value. Void becomes the zero
// reflect.Value, which the invoker maps to nil for nilable parameters.
func (m *Marshaller) FromValue(val Value) (reflect.Value, error) {
	switch v := val.(type) {
	case *Int:
		return reflect.ValueOf(v.Value), nil
	case *String:
		return reflect.ValueOf(v.Value), nil
	case *Bool:
		return reflect.ValueOf(v.Value), nil
	case *Host:
		return reflect.ValueOf(v.Value), nil
	case *Void:
		return reflect.Value{}, nil
	case *Function, *Intrinsic, *Member, *ReturnVoid, *ReturnValue:
		return reflect.Value{}, fmt.Errorf("unsupported type for conversion: %s", v.Type())
	default:
		return reflect.Value{}, fmt.Errorf("unsupported type for conversion: %T", val)
	}
}
