// Package arena is the flat, append-only store of every analyzed program
// fact. Slots reference each other by integer id only; no payload holds a
// nested tree.
package arena

import (
	"fmt"
	"io"
	"log"
)

// Slot is one entry of the arena.
type Slot struct {
	Parent  ID
	Kind    Kind
	Payload Payload
	Type    ID // type slot id, NoID while unresolved
}

// Arena owns the slots of one analyzed program. It is written by a single
// analyzer and is read-only afterwards.
type Arena struct {
	slots  []Slot
	root   ID
	logger *log.Logger
}

// New creates an arena holding the sentinel slot and the MetaType root.
// A nil logger discards log output.
func New(logger *log.Logger) *Arena {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	a := &Arena{
		slots:  make([]Slot, 1, 64),
		logger: logger,
	}
	a.root = a.Add(NoID, &MetaType{})
	a.slots[a.root].Type = a.root
	return a
}

// Root is the MetaType slot every type slot is parented to.
func (a *Arena) Root() ID { return a.root }

// Len is the number of issued ids, sentinel included.
func (a *Arena) Len() int { return len(a.slots) }

// Add appends a slot and returns its id.
func (a *Arena) Add(parent ID, p Payload) ID {
	id := ID(len(a.slots))
	a.slots = append(a.slots, Slot{Parent: parent, Kind: p.Kind(), Payload: p})
	a.logger.Printf("arena: add #%d %s parent=#%d", id, p.Kind(), parent)
	return id
}

// File returns the id of the File slot, if analysis produced one.
func (a *Arena) File() (ID, bool) {
	for i := 1; i < len(a.slots); i++ {
		if a.slots[i].Kind == KindFile {
			return ID(i), true
		}
	}
	return NoID, false
}

// Get returns a copy of the slot. It panics on an id the arena never issued.
func (a *Arena) Get(id ID) Slot {
	return a.slots[a.check(id)]
}

// UpdateType sets the resolved type of a slot in place.
func (a *Arena) UpdateType(id, typeID ID) {
	a.slots[a.check(id)].Type = typeID
	a.logger.Printf("arena: type #%d = #%d", id, typeID)
}

// UpdateData replaces the payload of a slot with one of the same kind.
func (a *Arena) UpdateData(id ID, p Payload) {
	s := &a.slots[a.check(id)]
	if s.Kind != p.Kind() {
		panic(fmt.Sprintf("arena: UpdateData on #%d changes kind %s to %s", id, s.Kind, p.Kind()))
	}
	s.Payload = p
}

// ReplaceData replaces payload and kind of a slot in place. Slots that
// captured assumptions about the old payload are not revisited; this is why
// forward-declared names start as Unresolved and every consumer checks for it.
func (a *Arena) ReplaceData(id ID, p Payload) {
	s := &a.slots[a.check(id)]
	if s.Kind == KindType {
		panic(fmt.Sprintf("arena: type slot #%d is immutable", id))
	}
	a.logger.Printf("arena: replace #%d %s -> %s", id, s.Kind, p.Kind())
	s.Kind = p.Kind()
	s.Payload = p
}

// GetOrAddType returns the first type slot structurally equal to info, or
// allocates one under the root.
func (a *Arena) GetOrAddType(info TypeInfo) ID {
	if id, ok := a.FindType(info); ok {
		return id
	}
	id := a.Add(a.root, info)
	a.slots[id].Type = a.root
	return id
}

// FindType is the read-only half of GetOrAddType.
func (a *Arena) FindType(info TypeInfo) (ID, bool) {
	for i := 1; i < len(a.slots); i++ {
		s := &a.slots[i]
		if s.Kind != KindType {
			continue
		}
		if existing, ok := s.Payload.(TypeInfo); ok && existing.sameAs(info) {
			return ID(i), true
		}
	}
	return NoID, false
}

// TypeOf returns the type payload of a type slot.
func (a *Arena) TypeOf(typeID ID) (TypeInfo, bool) {
	if !typeID.IsValid() || int(typeID) >= len(a.slots) {
		return nil, false
	}
	info, ok := a.slots[typeID].Payload.(TypeInfo)
	return info, ok
}

func (a *Arena) check(id ID) ID {
	if !id.IsValid() || int(id) >= len(a.slots) {
		panic(fmt.Sprintf("arena: invalid slot id #%d", id))
	}
	return id
}

// PayloadOf returns the payload of id as T. A shape mismatch is a
// programming error and panics.
func PayloadOf[T Payload](a *Arena, id ID) T {
	p, ok := Lookup[T](a, id)
	if !ok {
		var zero T
		panic(fmt.Sprintf("arena: slot #%d holds %s, not %T", id, a.slots[id].Kind, zero))
	}
	return p
}

// Lookup is the comma-ok form of PayloadOf.
func Lookup[T Payload](a *Arena, id ID) (T, bool) {
	p, ok := a.slots[a.check(id)].Payload.(T)
	return p, ok
}
