package arena

import (
	"bytes"
	"strings"
	"testing"

	"github.com/funvibe/brace/internal/host"
)

func TestNewArenaBootstrap(t *testing.T) {
	a := New(nil)
	if a.Len() != 2 {
		t.Fatalf("expected sentinel and root, got %d slots", a.Len())
	}
	root := a.Get(a.Root())
	if root.Kind != KindType {
		t.Fatalf("root kind = %s", root.Kind)
	}
	if _, ok := root.Payload.(*MetaType); !ok {
		t.Errorf("root payload = %T", root.Payload)
	}
	if root.Type != a.Root() {
		t.Errorf("root is not its own type")
	}
	if NoID.IsValid() {
		t.Errorf("sentinel id reported valid")
	}
}

func TestGetOrAddTypeDeduplicates(t *testing.T) {
	a := New(nil)
	intID := a.GetOrAddType(&ForeignType{Desc: host.Int})
	tests := []struct {
		name string
		info TypeInfo
	}{
		{"foreign", &ForeignType{Desc: host.Int}},
		{"function", &FunctionType{Return: intID}},
		{"member group", &ForeignMemberType{Target: intID, Name: "Abs", MemberKind: host.MethodMember}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := a.GetOrAddType(tt.info)
			n := a.Len()
			second := a.GetOrAddType(tt.info)
			if first != second {
				t.Errorf("GetOrAddType returned #%d then #%d", first, second)
			}
			if a.Len() != n {
				t.Errorf("second request allocated a slot")
			}
			if a.Get(first).Parent != a.Root() {
				t.Errorf("type slot parented to #%d", a.Get(first).Parent)
			}
		})
	}
	if got := a.GetOrAddType(&MetaType{}); got != a.Root() {
		t.Errorf("MetaType is not a singleton: #%d", got)
	}
	if a.GetOrAddType(&ForeignType{Desc: host.String}) == intID {
		t.Errorf("distinct descriptors share a slot")
	}
}

func TestMemberGroupsCompareCandidates(t *testing.T) {
	a := New(nil)
	target := a.GetOrAddType(&ForeignType{Desc: host.String})
	one := host.Member{Name: "F", Kind: host.MethodMember, Params: []host.Descriptor{host.Int}, Result: host.Int}
	two := host.Member{Name: "F", Kind: host.MethodMember, Params: []host.Descriptor{host.Int, host.Int}, Result: host.Int}

	x := a.GetOrAddType(&ForeignMemberType{Target: target, Name: "F", MemberKind: host.MethodMember, Candidates: []host.Member{one}})
	y := a.GetOrAddType(&ForeignMemberType{Target: target, Name: "F", MemberKind: host.MethodMember, Candidates: []host.Member{two}})
	z := a.GetOrAddType(&ForeignMemberType{Target: target, Name: "F", MemberKind: host.MethodMember, Candidates: []host.Member{one}})
	if x == y {
		t.Errorf("groups with different candidates share a slot")
	}
	if x != z {
		t.Errorf("equal groups got #%d and #%d", x, z)
	}
}

func TestFindTypeDoesNotAllocate(t *testing.T) {
	a := New(nil)
	n := a.Len()
	if _, ok := a.FindType(&ForeignType{Desc: host.Bool}); ok {
		t.Errorf("found a type never added")
	}
	if a.Len() != n {
		t.Errorf("FindType allocated")
	}
}

func TestReplaceDataKeepsID(t *testing.T) {
	a := New(nil)
	braces := a.Add(NoID, &Braces{Names: NewNameTable()})
	id := a.Add(braces, &Unresolved{Name: "x"})
	intID := a.GetOrAddType(&ForeignType{Desc: host.Int})

	a.ReplaceData(id, &Declare{Name: "x", Type: intID})
	a.UpdateType(id, intID)

	s := a.Get(id)
	if s.Kind != KindDeclare || s.Parent != braces || s.Type != intID {
		t.Errorf("slot after replace = %+v", s)
	}
	if d := PayloadOf[*Declare](a, id); d.Name != "x" {
		t.Errorf("payload name = %q", d.Name)
	}
}

func TestTypeSlotsAreImmutable(t *testing.T) {
	a := New(nil)
	id := a.GetOrAddType(&ForeignType{Desc: host.Int})
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic replacing a type slot")
		}
	}()
	a.ReplaceData(id, &Void{})
}

func TestUpdateDataRejectsKindChange(t *testing.T) {
	a := New(nil)
	id := a.Add(NoID, &Integer{Value: 1})
	a.UpdateData(id, &Integer{Value: 2})
	if PayloadOf[*Integer](a, id).Value != 2 {
		t.Errorf("UpdateData did not replace the payload")
	}
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic on kind change")
		}
	}()
	a.UpdateData(id, &String{Value: "x"})
}

func TestPayloadOfShapeMismatchPanics(t *testing.T) {
	a := New(nil)
	id := a.Add(NoID, &Integer{Value: 1})
	if _, ok := Lookup[*String](a, id); ok {
		t.Errorf("Lookup matched the wrong shape")
	}
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic")
		}
	}()
	PayloadOf[*String](a, id)
}

func TestGetInvalidIDPanics(t *testing.T) {
	a := New(nil)
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for the sentinel id")
		}
	}()
	a.Get(NoID)
}

func TestNameTable(t *testing.T) {
	names := NewNameTable()
	for i, n := range []string{"b", "a", "c"} {
		if err := names.Add(n, ID(i+10)); err != nil {
			t.Fatalf("Add(%s): %v", n, err)
		}
	}
	if err := names.Add("a", 99); err == nil {
		t.Errorf("expected duplicate error")
	}
	if got := strings.Join(names.Names(), ","); got != "b,a,c" {
		t.Errorf("insertion order lost: %s", got)
	}
	if id, _ := names.Get("a"); id != 11 {
		t.Errorf("a = #%d, want #11", id)
	}
	if names.Len() != 3 {
		t.Errorf("Len = %d", names.Len())
	}
}

func TestDump(t *testing.T) {
	a := New(nil)
	intID := a.GetOrAddType(&ForeignType{Desc: host.Int})
	file := a.Add(NoID, &File{Name: "demo"})
	body := a.Add(file, &Braces{Names: NewNameTable()})
	lit := a.Add(body, &Integer{Value: 4})
	a.UpdateType(lit, intID)

	var buf bytes.Buffer
	if err := a.Dump(&buf); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Type", "Int", "demo", "Integer", "4"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump misses %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines != a.Len()-1 {
		t.Errorf("dump has %d lines, want %d", lines, a.Len()-1)
	}
}
