package host

import (
	"reflect"
	"testing"
)

func TestInspectorMembers(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages through the go command")
	}
	ins := NewInspector(".")
	desc := Describe(reflect.TypeOf(&Std{}))

	upper := ins.Members(desc, "Upper")
	if len(upper) != 1 {
		t.Fatalf("Upper candidates = %d (load error: %v)", len(upper), ins.Err())
	}
	if upper[0].NumIn() != 1 || upper[0].Params[0] != String || upper[0].Result != String {
		t.Errorf("Upper = %s", upper[0])
	}

	concat := ins.Members(desc, "Concat")
	if len(concat) != 1 || !concat[0].Variadic || !concat[0].Accepts(3) {
		t.Errorf("Concat = %+v", concat)
	}

	atoi := ins.Members(desc, "Atoi")
	if len(atoi) != 1 || !atoi[0].ReturnsError || atoi[0].Result != Int {
		t.Errorf("Atoi = %+v", atoi)
	}

	version := ins.Members(desc, "Version")
	if len(version) != 1 || version[0].Kind != FieldMember || version[0].Result != String {
		t.Errorf("Version = %+v", version)
	}

	// Reflection and source agree on the shape of every method.
	r := NewRegistry()
	for _, name := range []string{"Upper", "Repeat", "Max", "Contains"} {
		fromSource := ins.Members(desc, name)
		fromReflect := r.Members(desc, name)
		if len(fromSource) != 1 || len(fromReflect) != 1 || !fromSource[0].Same(fromReflect[0]) {
			t.Errorf("%s: source %+v, reflection %+v", name, fromSource, fromReflect)
		}
	}
	if err := ins.Err(); err != nil {
		t.Errorf("unexpected load error: %v", err)
	}
}

func TestInspectorChainsMintedTypes(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages through the go command")
	}
	ins := NewInspector(".")
	builder := ins.Members(Describe(reflect.TypeOf(&Std{})), "Builder")
	if len(builder) != 1 {
		t.Fatalf("Builder candidates = %d (load error: %v)", len(builder), ins.Err())
	}
	result := builder[0].Result
	if result.Type != nil || result.Name != "*strings.Builder" {
		t.Fatalf("Builder result = %+v", result)
	}
	write := ins.Members(result, "WriteString")
	if len(write) != 1 || write[0].Result != Int || !write[0].ReturnsError {
		t.Errorf("WriteString = %+v", write)
	}
}

func TestInspectorCachesRelativePatterns(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages through the go command")
	}
	ins := NewInspector(".")
	for i := 0; i < 3; i++ {
		if err := ins.Load("."); err != nil {
			t.Fatalf("Load(.): %v", err)
		}
	}
	if err := ins.Load(reflect.TypeOf(Std{}).PkgPath()); err != nil {
		t.Fatalf("Load by import path: %v", err)
	}
	if len(ins.Members(Describe(reflect.TypeOf(&Std{})), "Upper")) != 1 {
		t.Errorf("Upper not found after loading by pattern")
	}
	if ins.loads != 1 {
		t.Errorf("go/packages ran %d times, want 1", ins.loads)
	}
}

func TestInspectorUnknownDescriptor(t *testing.T) {
	ins := NewInspector(".")
	if got := ins.Members(Descriptor{Name: "nowhere.Type"}, "X"); got != nil {
		t.Errorf("members of an unknown descriptor: %+v", got)
	}
	if got := ins.Members(Int, "X"); got != nil {
		t.Errorf("members of Int: %+v", got)
	}
}
