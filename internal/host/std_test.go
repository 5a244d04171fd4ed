package host

import (
	"errors"
	"reflect"
	"testing"
)

func TestBindLibraries(t *testing.T) {
	r := NewRegistry()
	if err := r.BindLibraries([]string{"std"}); err != nil {
		t.Fatalf("BindLibraries: %v", err)
	}
	b, ok := r.Binding("std")
	if !ok {
		t.Fatalf("std not bound")
	}
	if _, ok := b.Value.Interface().(*Std); !ok {
		t.Errorf("std bound to %T", b.Value.Interface())
	}
	if err := r.BindLibraries([]string{"nope"}); err == nil {
		t.Errorf("expected an error for an unknown library")
	}
	if err := r.BindLibraries([]string{"std"}); err == nil {
		t.Errorf("expected an error binding std twice")
	}
}

func TestStdThroughRegistry(t *testing.T) {
	r := NewRegistry()
	if err := r.BindLibraries([]string{"std"}); err != nil {
		t.Fatal(err)
	}
	b, _ := r.Binding("std")

	call := func(name string, args ...interface{}) (reflect.Value, error) {
		t.Helper()
		members := r.Members(b.Descriptor, name)
		if len(members) == 0 {
			t.Fatalf("std has no member %s", name)
		}
		in := make([]reflect.Value, len(args))
		for i, a := range args {
			in[i] = reflect.ValueOf(a)
		}
		return r.Invoke(members[0], b.Value, in)
	}

	tests := []struct {
		name string
		args []interface{}
		want interface{}
	}{
		{"Upper", []interface{}{"abc"}, "ABC"},
		{"Lower", []interface{}{"ABC"}, "abc"},
		{"Trim", []interface{}{"  x "}, "x"},
		{"Len", []interface{}{"héllo"}, 5},
		{"Itoa", []interface{}{int64(12)}, "12"},
		{"Repeat", []interface{}{"ab", int64(2)}, "abab"},
		{"Atoi", []interface{}{" 42 "}, 42},
		{"Concat", []interface{}{"a", "b", "c"}, "abc"},
		{"Max", []interface{}{int64(3), int64(9)}, int64(9)},
		{"Contains", []interface{}{"abc", "bc"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := call(tt.name, tt.args...)
			if err != nil {
				t.Fatalf("%s: %v", tt.name, err)
			}
			if got := out.Interface(); got != tt.want {
				t.Errorf("%s = %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}

	if _, err := call("Repeat", "a", int64(-1)); err == nil {
		t.Errorf("negative repeat should fail")
	}
	_, err := call("Atoi", "x")
	var inv *InvocationError
	if !errors.As(err, &inv) || inv.Member != "Atoi" {
		t.Errorf("Atoi error = %v", err)
	}

	version := r.Members(b.Descriptor, "Version")
	if len(version) != 1 || version[0].Kind != FieldMember {
		t.Fatalf("Version field = %+v", version)
	}
	v, err := r.Get(version[0], b.Value)
	if err != nil || v.String() != Version {
		t.Errorf("Version = %v, %v", v, err)
	}
}
