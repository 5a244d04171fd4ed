package ast

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/funvibe/brace/internal/config"
	"github.com/funvibe/brace/internal/token"
	"gopkg.in/yaml.v3"
)

// Trees arrive from the external parser as YAML documents:
//
//	file: main
//	body:
//	  - decl: {target: x, value: 4}
//	  - call: {target: print, args: [x]}
//
// A plain scalar is an integer literal (!!int) or an identifier (!!str, !!bool).
// Every other node is a mapping with a single key naming its kind.

// DecodeError reports a malformed tree document.
type DecodeError struct {
	File   string
	Line   int
	Column int
	Msg    string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Msg)
}

// ReadFile decodes the tree stored at path.
func ReadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, path)
}

// Decode reads one tree document from r. name is used for positions and as
// the default file name.
func Decode(r io.Reader, name string) (*File, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, &DecodeError{File: name, Msg: "empty tree document"}
		}
		return nil, fmt.Errorf("decoding tree %s: %w", name, err)
	}
	d := &decoder{file: name}
	return d.decodeFile(&doc)
}

// DecodeString is a convenience wrapper used by tests and embedders.
func DecodeString(src string, name string) (*File, error) {
	return Decode(strings.NewReader(src), name)
}

type decoder struct {
	file string
}

func (d *decoder) errorf(n *yaml.Node, format string, args ...interface{}) error {
	return &DecodeError{File: d.file, Line: n.Line, Column: n.Column, Msg: fmt.Sprintf(format, args...)}
}

func (d *decoder) tok(n *yaml.Node, lexeme string) token.Token {
	return token.Token{Lexeme: lexeme, File: d.file, Line: n.Line, Column: n.Column}
}

func (d *decoder) decodeFile(doc *yaml.Node) (*File, error) {
	root := doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, d.errorf(root, "tree root must be a mapping with a body")
	}
	file := &File{Name: stem(d.file)}
	var body *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		switch key.Value {
		case "file":
			file.Name = val.Value
		case "body":
			body = val
		default:
			return nil, d.errorf(key, "unknown tree field %q", key.Value)
		}
	}
	if body == nil {
		return nil, d.errorf(root, "tree has no body")
	}
	stmts, err := d.list(body)
	if err != nil {
		return nil, err
	}
	file.Statements = stmts
	return file, nil
}

func (d *decoder) list(n *yaml.Node) ([]Node, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "expected a list of nodes")
	}
	out := make([]Node, 0, len(n.Content))
	for _, item := range n.Content {
		node, err := d.node(item)
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
	return out, nil
}

func (d *decoder) node(n *yaml.Node) (Node, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return d.scalar(n)
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return nil, d.errorf(n, "node mapping must have exactly one key")
		}
		return d.tagged(n.Content[0], n.Content[1])
	case yaml.AliasNode:
		return d.node(n.Alias)
	default:
		return nil, d.errorf(n, "unexpected yaml node")
	}
}

func (d *decoder) scalar(n *yaml.Node) (Node, error) {
	switch n.ShortTag() {
	case "!!int":
		v, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return nil, d.errorf(n, "invalid integer %q", n.Value)
		}
		return &IntegerLiteral{Token: d.tok(n, n.Value), Value: v}, nil
	case "!!bool":
		v, err := strconv.ParseBool(n.Value)
		if err != nil {
			return nil, d.errorf(n, "invalid boolean %q", n.Value)
		}
		lexeme := config.FalseLiteral
		if v {
			lexeme = config.TrueLiteral
		}
		return &Identifier{Token: d.tok(n, n.Value), Value: lexeme}, nil
	case "!!str":
		if n.Value == "" {
			return nil, d.errorf(n, "empty identifier")
		}
		return &Identifier{Token: d.tok(n, n.Value), Value: n.Value}, nil
	default:
		return nil, d.errorf(n, "unsupported scalar %s", n.ShortTag())
	}
}

func (d *decoder) tagged(key, val *yaml.Node) (Node, error) {
	tok := d.tok(key, key.Value)
	switch key.Value {
	case "int":
		lit, err := d.scalar(val)
		if err != nil {
			return nil, err
		}
		if _, ok := lit.(*IntegerLiteral); !ok {
			return nil, d.errorf(val, "int expects an integer")
		}
		return lit, nil
	case "str":
		if val.Kind != yaml.ScalarNode {
			return nil, d.errorf(val, "str expects a scalar")
		}
		return &StringLiteral{Token: tok, Value: val.Value}, nil
	case "ident":
		if val.Kind != yaml.ScalarNode || val.Value == "" {
			return nil, d.errorf(val, "ident expects a name")
		}
		return &Identifier{Token: tok, Value: val.Value}, nil
	case "void":
		return &VoidLiteral{Token: tok}, nil
	case "param":
		return &Parameter{Token: tok}, nil
	case "block":
		if isNull(val) {
			return &Block{Token: tok}, nil
		}
		stmts, err := d.list(val)
		if err != nil {
			return nil, err
		}
		return &Block{Token: tok, Statements: stmts}, nil
	case "add":
		operands, err := d.list(val)
		if err != nil {
			return nil, err
		}
		if len(operands) != 2 {
			return nil, d.errorf(val, "add expects two operands")
		}
		return &BinaryExpression{Token: tok, Operator: "+", Left: operands[0], Right: operands[1]}, nil
	case "binary":
		fields, err := d.fields(val, "op", "left", "right")
		if err != nil {
			return nil, err
		}
		op := fields["op"]
		if op == nil || op.Kind != yaml.ScalarNode {
			return nil, d.errorf(val, "binary expects an op")
		}
		left, right, err := d.pair(val, fields, "left", "right")
		if err != nil {
			return nil, err
		}
		tok.Lexeme = op.Value
		return &BinaryExpression{Token: tok, Operator: op.Value, Left: left, Right: right}, nil
	case "call":
		fields, err := d.fields(val, "target", "args")
		if err != nil {
			return nil, err
		}
		target, err := d.required(val, fields, "target")
		if err != nil {
			return nil, err
		}
		var args []Node
		if a := fields["args"]; a != nil && !isNull(a) {
			if args, err = d.list(a); err != nil {
				return nil, err
			}
		}
		return &CallExpression{Token: tok, Target: target, Arguments: args}, nil
	case "member":
		fields, err := d.fields(val, "target", "name")
		if err != nil {
			return nil, err
		}
		target, name, err := d.pair(val, fields, "target", "name")
		if err != nil {
			return nil, err
		}
		return &MemberExpression{Token: tok, Target: target, Name: name}, nil
	case "decl", "static":
		fields, err := d.fields(val, "target", "value")
		if err != nil {
			return nil, err
		}
		target, value, err := d.pair(val, fields, "target", "value")
		if err != nil {
			return nil, err
		}
		return &Declaration{Token: tok, Target: target, Value: value, Static: key.Value == "static"}, nil
	case "assign":
		fields, err := d.fields(val, "target", "value")
		if err != nil {
			return nil, err
		}
		target, value, err := d.pair(val, fields, "target", "value")
		if err != nil {
			return nil, err
		}
		return &AssignExpression{Token: tok, Target: target, Value: value}, nil
	case "not":
		operand, err := d.node(val)
		if err != nil {
			return nil, err
		}
		return &LogicalNegation{Token: tok, Operand: operand}, nil
	case "neg":
		operand, err := d.node(val)
		if err != nil {
			return nil, err
		}
		return &Negation{Token: tok, Operand: operand}, nil
	default:
		return nil, d.errorf(key, "unknown node kind %q", key.Value)
	}
}

func (d *decoder) fields(n *yaml.Node, allowed ...string) (map[string]*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, "expected a mapping")
	}
	out := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if !contains(allowed, key.Value) {
			return nil, d.errorf(key, "unexpected field %q", key.Value)
		}
		out[key.Value] = n.Content[i+1]
	}
	return out, nil
}

func (d *decoder) required(parent *yaml.Node, fields map[string]*yaml.Node, name string) (Node, error) {
	n, ok := fields[name]
	if !ok {
		return nil, d.errorf(parent, "missing field %q", name)
	}
	return d.node(n)
}

func (d *decoder) pair(parent *yaml.Node, fields map[string]*yaml.Node, a, b string) (Node, Node, error) {
	first, err := d.required(parent, fields, a)
	if err != nil {
		return nil, nil, err
	}
	second, err := d.required(parent, fields, b)
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func stem(path string) string {
	if path == "" {
		return ""
	}
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
