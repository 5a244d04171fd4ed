package evaluator

import (
	"math"
	"reflect"
	"testing"
)

func TestFrameDefineOnce(t *testing.T) {
	f := NewFrame()
	if err := f.Define("x", &Int{Value: 1}); err != nil {
		t.Fatalf("first define: %v", err)
	}
	if err := f.Define("x", &Int{Value: 2}); err == nil {
		t.Fatalf("expected duplicate binding error")
	}
	inner := NewEnclosedFrame(f)
	if err := inner.Define("x", &Int{Value: 3}); err != nil {
		t.Fatalf("shadowing in an inner frame: %v", err)
	}
	v, _ := inner.Get("x")
	if v.(*Int).Value != 3 {
		t.Errorf("inner x = %s", v.Inspect())
	}
	v, _ = f.Get("x")
	if v.(*Int).Value != 1 {
		t.Errorf("outer x = %s", v.Inspect())
	}
}

func TestFrameUpdateNearestOwner(t *testing.T) {
	outer := NewFrame()
	_ = outer.Define("n", &Int{Value: 1})
	inner := NewCallFrame(outer, nil)

	if !inner.Update("n", &Int{Value: 5}) {
		t.Fatalf("update through the chain failed")
	}
	if v, _ := outer.Get("n"); v.(*Int).Value != 5 {
		t.Errorf("outer n = %s, want 5", v.Inspect())
	}
	if _, ok := inner.store["n"]; ok {
		t.Errorf("update created a binding in the inner frame")
	}
	if inner.Update("missing", VOID) {
		t.Errorf("update of an unbound name succeeded")
	}
}

func TestFrameNextSkipsBlockFrames(t *testing.T) {
	call := NewCallFrame(NewFrame(), []Value{&Int{Value: 1}, &Int{Value: 2}})
	block := NewEnclosedFrame(NewEnclosedFrame(call))

	for want := int64(1); want <= 2; want++ {
		v, err := block.Next()
		if err != nil {
			t.Fatalf("argument %d: %v", want, err)
		}
		if v.(*Int).Value != want {
			t.Errorf("argument = %s, want %d", v.Inspect(), want)
		}
	}
	if _, err := call.Next(); err == nil {
		t.Errorf("expected exhaustion error")
	}
}

func TestFrameNextWithoutCall(t *testing.T) {
	if _, err := NewFrame().Next(); err == nil {
		t.Errorf("expected an error outside any call")
	}
}

func TestMarshallerRoundTrip(t *testing.T) {
	m := NewMarshaller()
	tests := []struct {
		name string
		in   interface{}
		want Value
	}{
		{"int", 7, &Int{Value: 7}},
		{"uint8", uint8(200), &Int{Value: 200}},
		{"string", "s", &String{Value: "s"}},
		{"bool", true, TRUE},
		{"nil pointer", (*account)(nil), VOID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.ToValue(reflect.ValueOf(tt.in))
			if err != nil {
				t.Fatalf("ToValue: %v", err)
			}
			if got.Type() != tt.want.Type() || got.Inspect() != tt.want.Inspect() {
				t.Errorf("ToValue(%v) = %s %s, want %s %s", tt.in, got.Type(), got.Inspect(), tt.want.Type(), tt.want.Inspect())
			}
		})
	}

	acct := &account{Owner: "x"}
	v, err := m.ToValue(reflect.ValueOf(acct))
	if err != nil {
		t.Fatalf("ToValue(ptr): %v", err)
	}
	back, err := m.FromValue(v)
	if err != nil {
		t.Fatalf("FromValue(host): %v", err)
	}
	if back.Interface() != acct {
		t.Errorf("host value lost its identity")
	}

	if rv, err := m.FromValue(VOID); err != nil || rv.IsValid() {
		t.Errorf("FromValue(Void) = %v, %v; want invalid value", rv, err)
	}
	if _, err := m.FromValue(&Function{}); err == nil {
		t.Errorf("expected functions to be rejected")
	}

	if v, err := m.ToValue(reflect.ValueOf(^uint64(0))); err == nil {
		t.Errorf("ToValue(MaxUint64) = %s, want an overflow error", v.Inspect())
	}
	if v, err := m.ToValue(reflect.ValueOf(uint64(math.MaxInt64))); err != nil || v.Inspect() != "9223372036854775807" {
		t.Errorf("ToValue(MaxInt64 as uint64) = %v, %v", v, err)
	}
}
