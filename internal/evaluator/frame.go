package evaluator

import (
	"fmt"
)

// Frame is one level of the runtime environment. Call frames own the
// positional arguments of an invocation; block frames (if-bodies) and the
// host frame do not.
type Frame struct {
	store map[string]Value
	outer *Frame

	call bool
	args []Value
	next int
}

func NewFrame() *Frame {
	return &Frame{store: make(map[string]Value)}
}

// NewEnclosedFrame creates a block frame inside outer.
func NewEnclosedFrame(outer *Frame) *Frame {
	f := NewFrame()
	f.outer = outer
	return f
}

// NewCallFrame creates the frame of an invocation. args is set once here
// and consumed in order by Next.
func NewCallFrame(outer *Frame, args []Value) *Frame {
	f := NewEnclosedFrame(outer)
	f.call = true
	f.args = args
	return f
}

// Get looks name up through the chain.
func (f *Frame) Get(name string) (Value, bool) {
	for cur := f; cur != nil; cur = cur.outer {
		if v, ok := cur.store[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Local returns name only when this frame owns it.
func (f *Frame) Local(name string) (Value, bool) {
	v, ok := f.store[name]
	return v, ok
}

// Define binds name in this frame. A name is bound at most once per frame.
func (f *Frame) Define(name string, v Value) error {
	if _, exists := f.store[name]; exists {
		return fmt.Errorf("%q is already bound in this frame", name)
	}
	f.store[name] = v
	return nil
}

// Update overwrites name in the nearest frame that owns it.
func (f *Frame) Update(name string, v Value) bool {
	for cur := f; cur != nil; cur = cur.outer {
		if _, ok := cur.store[name]; ok {
			cur.store[name] = v
			return true
		}
	}
	return false
}

// Next consumes the next positional argument of the nearest call frame.
func (f *Frame) Next() (Value, error) {
	cur := f
	for cur != nil && !cur.call {
		cur = cur.outer
	}
	if cur == nil {
		return nil, fmt.Errorf("no enclosing call")
	}
	if cur.next >= len(cur.args) {
		return nil, fmt.Errorf("parameter %d requested, %d argument(s) supplied", cur.next+1, len(cur.args))
	}
	v := cur.args[cur.next]
	cur.next++
	return v, nil
}
