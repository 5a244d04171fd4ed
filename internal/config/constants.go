package config

// TreeFileExt is the extension of syntax trees handed over by the external parser.
const TreeFileExt = ".yaml"

// TreeFileExtensions are all recognized tree file extensions
var TreeFileExtensions = []string{".yaml", ".yml"}

// ConfigFileName is looked up next to the tree file when no -config flag is given.
const ConfigFileName = "brace.yaml"

// Intrinsic keyword names
const (
	ReturnKeyword = "return"
	PrintKeyword  = "print"
	IfKeyword     = "if"
)

// Boolean literal names
const (
	TrueLiteral  = "true"
	FalseLiteral = "false"
)

// MainFuncName is the entry point invoked after top-level statements ran.
const MainFuncName = "main"

// Built-in type names
const (
	IntTypeName    = "Int"
	StringTypeName = "String"
	BoolTypeName   = "Bool"
	VoidTypeName   = "Void"
)

// StdBindingName is the name the bundled host library is bound under.
const StdBindingName = "std"

// DefaultMaxCallDepth bounds user function recursion.
const DefaultMaxCallDepth = 10000

// IsKeyword reports whether name resolves to an intrinsic control form.
func IsKeyword(name string) bool {
	switch name {
	case ReturnKeyword, PrintKeyword, IfKeyword:
		return true
	}
	return false
}

// IsReserved reports whether name can never be declared by a program.
func IsReserved(name string) bool {
	return IsKeyword(name) || name == TrueLiteral || name == FalseLiteral
}
