package analyzer

import (
	"github.com/funvibe/brace/internal/arena"
	"github.com/funvibe/brace/internal/ast"
	"github.com/funvibe/brace/internal/config"
	"github.com/funvibe/brace/internal/diagnostics"
)

// statement analyzes one line of a brace block and returns its slot id.
func (a *Analyzer) statement(node ast.Node) (arena.ID, error) {
	switch n := node.(type) {
	case *ast.Declaration:
		return a.declaration(n)
	case *ast.AssignExpression:
		ref, err := a.expression(n)
		return ref.ID, err
	case *ast.CallExpression:
		return a.callStatement(n)
	case *ast.BinaryExpression:
		return arena.NoID, a.errorf(diagnostics.ErrA010, n.Token, "dangling binary operator %q", n.Operator)
	default:
		return arena.NoID, a.errorf(diagnostics.ErrA010, node.GetToken(), "%s is not a statement", node.Kind())
	}
}

// declaration handles `name := expr` and `name :: expr`. The name is reserved
// before the right-hand side is analyzed.
func (a *Analyzer) declaration(n *ast.Declaration) (arena.ID, error) {
	name, ok := ast.IdentifierName(n.Target)
	if !ok {
		return arena.NoID, a.errorf(diagnostics.ErrA001, n.Target.GetToken(),
			"declaration target must be a plain identifier, got %s", n.Target.Kind())
	}
	if config.IsReserved(name) {
		return arena.NoID, a.errorf(diagnostics.ErrA001, n.Target.GetToken(), "%q is reserved and cannot be declared", name)
	}

	id, hoisted := a.hoisted[n]
	if !hoisted {
		var err error
		if id, err = a.reserve(name, n.Token); err != nil {
			return arena.NoID, err
		}
	}

	value, err := a.expression(n.Value)
	if err != nil {
		return arena.NoID, err
	}
	a.arena.ReplaceData(id, &arena.Declare{
		Name:   name,
		Static: n.Static,
		Type:   value.Type,
		Value:  value.ID,
		Token:  n.Token,
	})
	a.arena.UpdateType(id, value.Type)
	return id, nil
}

// callStatement handles the intrinsic control forms return, print and if.
func (a *Analyzer) callStatement(n *ast.CallExpression) (arena.ID, error) {
	name, ok := ast.IdentifierName(n.Target)
	if !ok || !config.IsKeyword(name) {
		return arena.NoID, a.errorf(diagnostics.ErrA010, n.Token,
			"call of %s is not a statement; only return, print and if are", describeTarget(n.Target))
	}

	switch name {
	case config.ReturnKeyword:
		if len(n.Arguments) != 1 {
			return arena.NoID, a.errorf(diagnostics.ErrA006, n.Token, "%s expects exactly one argument, got %d", name, len(n.Arguments))
		}
		if _, isVoid := n.Arguments[0].(*ast.VoidLiteral); isVoid {
			return a.add(&arena.Return{}, a.voidType).ID, nil
		}
		value, err := a.expression(n.Arguments[0])
		if err != nil {
			return arena.NoID, err
		}
		return a.add(&arena.Return{Value: value.ID}, value.Type).ID, nil

	case config.PrintKeyword:
		if len(n.Arguments) != 1 {
			return arena.NoID, a.errorf(diagnostics.ErrA006, n.Token, "%s expects exactly one argument, got %d", name, len(n.Arguments))
		}
		target := a.add(&arena.Intrinsic{Name: name}, a.arena.Root())
		value, err := a.expression(n.Arguments[0])
		if err != nil {
			return arena.NoID, err
		}
		return a.add(&arena.Call{Target: target.ID, Args: []arena.ID{value.ID}, Token: n.Token}, value.Type).ID, nil

	default: // if
		if len(n.Arguments) != 2 {
			return arena.NoID, a.errorf(diagnostics.ErrA006, n.Token, "%s expects a condition and a block, got %d arguments", name, len(n.Arguments))
		}
		block := ast.BlockOf(n.Arguments[1])
		if block == nil {
			return arena.NoID, a.errorf(diagnostics.ErrA006, n.Arguments[1].GetToken(), "%s body must be a block, got %s", name, n.Arguments[1].Kind())
		}
		cond, err := a.expression(n.Arguments[0])
		if err != nil {
			return arena.NoID, err
		}
		body, err := a.braces(block.Statements, a.scope())
		if err != nil {
			return arena.NoID, err
		}
		return a.add(&arena.If{Cond: cond.ID, Body: body.ID, Token: n.Token}, a.voidType).ID, nil
	}
}

func describeTarget(node ast.Node) string {
	if name, ok := ast.IdentifierName(node); ok {
		return "'" + name + "'"
	}
	return node.Kind().String()
}
