package arena

import (
	"fmt"

	"github.com/funvibe/brace/internal/host"
)

// TypeInfo is the payload of a Type slot. Type payloads are immutable once
// inserted, which is what makes structural deduplication sound.
type TypeInfo interface {
	Payload
	sameAs(other TypeInfo) bool
	describe(a *Arena) string
}

// MetaType is the bootstrap root type. There is exactly one.
type MetaType struct{}

// FunctionType is the type of a brace block value.
type FunctionType struct {
	Return ID
}

// ForeignType names an external runtime type.
type ForeignType struct {
	Desc host.Descriptor
}

// ForeignMemberType is an unresolved-arity member group on a foreign type.
type ForeignMemberType struct {
	Target     ID
	Name       string
	MemberKind host.MemberKind
	Candidates []host.Member
}

func (*MetaType) Kind() Kind          { return KindType }
func (*FunctionType) Kind() Kind      { return KindType }
func (*ForeignType) Kind() Kind       { return KindType }
func (*ForeignMemberType) Kind() Kind { return KindType }

func (*MetaType) payload()          {}
func (*FunctionType) payload()      {}
func (*ForeignType) payload()       {}
func (*ForeignMemberType) payload() {}

func (t *MetaType) sameAs(o TypeInfo) bool {
	_, ok := o.(*MetaType)
	return ok
}

func (t *FunctionType) sameAs(o TypeInfo) bool {
	f, ok := o.(*FunctionType)
	return ok && f.Return == t.Return
}

func (t *ForeignType) sameAs(o TypeInfo) bool {
	f, ok := o.(*ForeignType)
	return ok && f.Desc == t.Desc
}

func (t *ForeignMemberType) sameAs(o TypeInfo) bool {
	f, ok := o.(*ForeignMemberType)
	if !ok || f.Target != t.Target || f.Name != t.Name || f.MemberKind != t.MemberKind ||
		len(f.Candidates) != len(t.Candidates) {
		return false
	}
	for i := range t.Candidates {
		if !t.Candidates[i].Same(f.Candidates[i]) {
			return false
		}
	}
	return true
}

func (t *MetaType) describe(*Arena) string { return "Type" }

func (t *FunctionType) describe(a *Arena) string {
	return "() -> " + a.TypeName(t.Return)
}

func (t *ForeignType) describe(*Arena) string { return t.Desc.Name }

func (t *ForeignMemberType) describe(a *Arena) string {
	return fmt.Sprintf("%s.%s[%d candidates]", a.TypeName(t.Target), t.Name, len(t.Candidates))
}

// TypeName renders the type slot id for messages.
func (a *Arena) TypeName(id ID) string {
	if !id.IsValid() || int(id) >= len(a.slots) {
		return "<unresolved>"
	}
	info, ok := a.slots[id].Payload.(TypeInfo)
	if !ok {
		return fmt.Sprintf("<slot %d>", id)
	}
	return info.describe(a)
}
