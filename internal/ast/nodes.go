package ast

import (
	"github.com/funvibe/brace/internal/token"
)

// NodeKind is the stable tag of a syntax tree node.
type NodeKind uint8

const (
	InvalidNode NodeKind = iota
	IntegerNode
	StringNode
	VoidNode
	IdentifierNode
	ParameterNode
	BinaryNode
	BlockNode
	CallNode
	MemberNode
	DeclarationNode
	AssignNode
	NegationNode
	LogicalNegationNode
)

var nodeKindNames = [...]string{
	InvalidNode:         "Invalid",
	IntegerNode:         "Integer",
	StringNode:          "String",
	VoidNode:            "Void",
	IdentifierNode:      "Identifier",
	ParameterNode:       "Parameter",
	BinaryNode:          "Binary",
	BlockNode:           "Block",
	CallNode:            "Call",
	MemberNode:          "Member",
	DeclarationNode:     "Declaration",
	AssignNode:          "Assign",
	NegationNode:        "Negation",
	LogicalNegationNode: "LogicalNegation",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "Invalid"
}

// Node is the base interface for all syntax tree nodes. The tree is produced
// by an external parser and is only ever read here.
type Node interface {
	Kind() NodeKind
	GetToken() token.Token
}

// File is the root of every tree.
type File struct {
	Name       string
	Statements []Node
}

// IntegerLiteral: 42
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (n *IntegerLiteral) Kind() NodeKind        { return IntegerNode }
func (n *IntegerLiteral) GetToken() token.Token { return n.Token }

// StringLiteral: "text"
type StringLiteral struct {
	Token token.Token
	Value string
}

func (n *StringLiteral) Kind() NodeKind        { return StringNode }
func (n *StringLiteral) GetToken() token.Token { return n.Token }

// VoidLiteral: ()
type VoidLiteral struct {
	Token token.Token
}

func (n *VoidLiteral) Kind() NodeKind        { return VoidNode }
func (n *VoidLiteral) GetToken() token.Token { return n.Token }

type Identifier struct {
	Token token.Token
	Value string
}

func (n *Identifier) Kind() NodeKind        { return IdentifierNode }
func (n *Identifier) GetToken() token.Token { return n.Token }

// Parameter is the positional placeholder <>.
type Parameter struct {
	Token token.Token
}

func (n *Parameter) Kind() NodeKind        { return ParameterNode }
func (n *Parameter) GetToken() token.Token { return n.Token }

// BinaryExpression: left op right
type BinaryExpression struct {
	Token    token.Token // The operator token
	Operator string
	Left     Node
	Right    Node
}

func (n *BinaryExpression) Kind() NodeKind        { return BinaryNode }
func (n *BinaryExpression) GetToken() token.Token { return n.Token }

// Block represents a list of statements within curly braces.
type Block struct {
	Token      token.Token // The '{' token
	Statements []Node
}

func (n *Block) Kind() NodeKind        { return BlockNode }
func (n *Block) GetToken() token.Token { return n.Token }

// CallExpression: target(args...) or the juxtaposed keyword form `print x`.
type CallExpression struct {
	Token     token.Token
	Target    Node
	Arguments []Node
}

func (n *CallExpression) Kind() NodeKind        { return CallNode }
func (n *CallExpression) GetToken() token.Token { return n.Token }

// MemberExpression: target.name
type MemberExpression struct {
	Token  token.Token // The '.' token
	Target Node
	Name   Node
}

func (n *MemberExpression) Kind() NodeKind        { return MemberNode }
func (n *MemberExpression) GetToken() token.Token { return n.Token }

// Declaration: target := value, or target :: value when Static.
type Declaration struct {
	Token  token.Token
	Target Node
	Value  Node
	Static bool
}

func (n *Declaration) Kind() NodeKind        { return DeclarationNode }
func (n *Declaration) GetToken() token.Token { return n.Token }

// AssignExpression: target = value
type AssignExpression struct {
	Token  token.Token // The '=' token
	Target Node
	Value  Node
}

func (n *AssignExpression) Kind() NodeKind        { return AssignNode }
func (n *AssignExpression) GetToken() token.Token { return n.Token }

// Negation: -operand
type Negation struct {
	Token   token.Token
	Operand Node
}

func (n *Negation) Kind() NodeKind        { return NegationNode }
func (n *Negation) GetToken() token.Token { return n.Token }

// LogicalNegation: !operand
type LogicalNegation struct {
	Token   token.Token
	Operand Node
}

func (n *LogicalNegation) Kind() NodeKind        { return LogicalNegationNode }
func (n *LogicalNegation) GetToken() token.Token { return n.Token }

// BlockOf returns node as a block, or nil.
func BlockOf(node Node) *Block {
	b, _ := node.(*Block)
	return b
}

// IdentifierName returns the identifier text of node, or "" with false.
func IdentifierName(node Node) (string, bool) {
	id, ok := node.(*Identifier)
	if !ok {
		return "", false
	}
	return id.Value, true
}
