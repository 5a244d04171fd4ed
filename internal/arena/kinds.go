package arena

// ID addresses a slot. Zero is the invalid sentinel and never issued.
type ID uint32

const NoID ID = 0

// IsValid returns true if the ID is valid (non-zero).
func (id ID) IsValid() bool { return id != NoID }

// Kind tags the payload variant a slot currently holds.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindFile
	KindType
	KindDeclare
	KindCall
	KindIdentifier
	KindBraces
	KindVoid
	KindBoolean
	KindInteger
	KindString
	KindIf
	KindAdd
	KindReturn
	KindIntrinsic
	KindParameter
	KindLogicalNegation
	KindNegation
	KindAssign
	KindMember
	// KindUnresolved marks a name reserved before its initializer was
	// analyzed. Consumers must check for it before trusting the slot.
	KindUnresolved
)

var kindNames = [...]string{
	KindInvalid:         "Invalid",
	KindFile:            "File",
	KindType:            "Type",
	KindDeclare:         "Declare",
	KindCall:            "Call",
	KindIdentifier:      "Identifier",
	KindBraces:          "Braces",
	KindVoid:            "Void",
	KindBoolean:         "Boolean",
	KindInteger:         "Integer",
	KindString:          "String",
	KindIf:              "If",
	KindAdd:             "Add",
	KindReturn:          "Return",
	KindIntrinsic:       "Intrinsic",
	KindParameter:       "Parameter",
	KindLogicalNegation: "LogicalNegation",
	KindNegation:        "Negation",
	KindAssign:          "Assign",
	KindMember:          "Member",
	KindUnresolved:      "Unresolved",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Invalid"
}
