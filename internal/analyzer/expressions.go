package analyzer

import (
	"github.com/funvibe/brace/internal/arena"
	"github.com/funvibe/brace/internal/ast"
	"github.com/funvibe/brace/internal/config"
	"github.com/funvibe/brace/internal/diagnostics"
	"github.com/funvibe/brace/internal/host"
)

// expression analyzes node and returns a typed reference to its slot.
func (a *Analyzer) expression(node ast.Node) (Ref, error) {
	switch n := node.(type) {
	case *ast.IntegerLiteral:
		return a.add(&arena.Integer{Value: n.Value}, a.intType), nil
	case *ast.StringLiteral:
		return a.add(&arena.String{Value: n.Value}, a.stringType), nil
	case *ast.VoidLiteral:
		return a.add(&arena.Void{}, a.voidType), nil
	case *ast.Identifier:
		return a.identifier(n)
	case *ast.Parameter:
		// Arguments are untyped until call time; Int is the provisional type.
		return a.add(&arena.Parameter{Token: n.Token}, a.intType), nil
	case *ast.BinaryExpression:
		return a.binary(n)
	case *ast.Block:
		return a.braces(n.Statements, a.scope())
	case *ast.MemberExpression:
		return a.member(n)
	case *ast.CallExpression:
		return a.call(n)
	case *ast.AssignExpression:
		target, err := a.expression(n.Target)
		if err != nil {
			return Ref{}, err
		}
		value, err := a.expression(n.Value)
		if err != nil {
			return Ref{}, err
		}
		return a.add(&arena.Assign{Target: target.ID, Value: value.ID, Token: n.Token}, target.Type), nil
	case *ast.LogicalNegation:
		operand, err := a.expression(n.Operand)
		if err != nil {
			return Ref{}, err
		}
		if operand.Type != a.boolType {
			return Ref{}, a.errorf(diagnostics.ErrA009, n.Token, "operator ! needs a %s operand, got %s",
				config.BoolTypeName, a.arena.TypeName(operand.Type))
		}
		return a.add(&arena.LogicalNegation{Operand: operand.ID, Token: n.Token}, a.boolType), nil
	case *ast.Negation:
		operand, err := a.expression(n.Operand)
		if err != nil {
			return Ref{}, err
		}
		if operand.Type != a.intType {
			return Ref{}, a.errorf(diagnostics.ErrA009, n.Token, "operator - needs an %s operand, got %s",
				config.IntTypeName, a.arena.TypeName(operand.Type))
		}
		return a.add(&arena.Negation{Operand: operand.ID, Token: n.Token}, a.intType), nil
	default:
		return Ref{}, a.errorf(diagnostics.ErrA010, node.GetToken(), "%s is not an expression", node.Kind())
	}
}

func (a *Analyzer) identifier(n *ast.Identifier) (Ref, error) {
	switch n.Value {
	case config.ReturnKeyword, config.PrintKeyword, config.IfKeyword:
		return a.add(&arena.Intrinsic{Name: n.Value}, a.arena.Root()), nil
	case config.TrueLiteral:
		return a.add(&arena.Boolean{Value: true}, a.boolType), nil
	case config.FalseLiteral:
		return a.add(&arena.Boolean{Value: false}, a.boolType), nil
	}

	decl, ok := a.resolve(n.Value)
	if !ok {
		return Ref{}, a.errorf(diagnostics.ErrA003, n.Token, "unknown identifier %q", n.Value)
	}
	slot := a.arena.Get(decl)
	if !slot.Type.IsValid() {
		return Ref{}, a.errorf(diagnostics.ErrA004, n.Token, "type of %q is not resolved yet", n.Value)
	}
	return a.add(&arena.Identifier{Name: n.Value, Decl: decl, Token: n.Token}, slot.Type), nil
}

// binary handles +, the only binary operator of the language.
func (a *Analyzer) binary(n *ast.BinaryExpression) (Ref, error) {
	if n.Operator != "+" {
		return Ref{}, a.errorf(diagnostics.ErrA010, n.Token, "unsupported operator %q", n.Operator)
	}
	left, err := a.expression(n.Left)
	if err != nil {
		return Ref{}, err
	}
	right, err := a.expression(n.Right)
	if err != nil {
		return Ref{}, err
	}
	if left.Type != right.Type {
		return Ref{}, a.errorf(diagnostics.ErrA005, n.Token, "cannot add %s and %s",
			a.arena.TypeName(left.Type), a.arena.TypeName(right.Type))
	}
	// Only Int addition is evaluable.
	if left.Type != a.intType {
		return Ref{}, a.errorf(diagnostics.ErrA005, n.Token, "operator + is not defined on %s", a.arena.TypeName(left.Type))
	}
	return a.add(&arena.Add{Left: left.ID, Right: right.ID, Token: n.Token}, left.Type), nil
}

// member handles target.name. Fields resolve to a getter right away; any
// other name stays a method group until a call site picks a candidate.
func (a *Analyzer) member(n *ast.MemberExpression) (Ref, error) {
	target, err := a.expression(n.Target)
	if err != nil {
		return Ref{}, err
	}
	name, ok := ast.IdentifierName(n.Name)
	if !ok {
		return Ref{}, a.errorf(diagnostics.ErrA001, n.Name.GetToken(), "member name must be a plain identifier, got %s", n.Name.Kind())
	}

	var candidates []host.Member
	if info, ok := a.arena.TypeOf(target.Type); ok {
		if ft, ok := info.(*arena.ForeignType); ok && a.opts.Lookup != nil {
			candidates = a.opts.Lookup.Members(ft.Desc, name)
		}
	}
	for i := range candidates {
		if candidates[i].Kind == host.FieldMember {
			getter := candidates[i]
			return a.add(&arena.Member{Target: target.ID, Name: name, Getter: &getter, Token: n.Token}, a.foreign(getter.Result)), nil
		}
	}

	group := a.arena.GetOrAddType(&arena.ForeignMemberType{
		Target:     target.Type,
		Name:       name,
		MemberKind: host.MethodMember,
		Candidates: candidates,
	})
	return a.add(&arena.Member{Target: target.ID, Name: name, Token: n.Token}, group), nil
}

// call analyzes target and every argument, then binds the call to a foreign
// method (first arity match) or to a user function.
func (a *Analyzer) call(n *ast.CallExpression) (Ref, error) {
	target, err := a.expression(n.Target)
	if err != nil {
		return Ref{}, err
	}
	args := make([]arena.ID, 0, len(n.Arguments))
	for _, arg := range n.Arguments {
		ref, err := a.expression(arg)
		if err != nil {
			return Ref{}, err
		}
		args = append(args, ref.ID)
	}

	info, _ := a.arena.TypeOf(target.Type)
	switch t := info.(type) {
	case *arena.ForeignMemberType:
		for i := range t.Candidates {
			if t.Candidates[i].Accepts(len(args)) {
				method := t.Candidates[i]
				return a.add(&arena.Call{Target: target.ID, Args: args, Method: &method, Token: n.Token}, a.foreign(method.Result)), nil
			}
		}
		return Ref{}, a.errorf(diagnostics.ErrA007, n.Token, "no method %s on %s takes %d arguments",
			t.Name, a.arena.TypeName(t.Target), len(args))
	case *arena.FunctionType:
		if a.arena.Get(target.ID).Kind == arena.KindIdentifier {
			return a.add(&arena.Call{Target: target.ID, Args: args, Token: n.Token}, t.Return), nil
		}
	}
	return Ref{}, a.errorf(diagnostics.ErrA008, n.Token, "cannot call %s of type %s",
		describeTarget(n.Target), a.arena.TypeName(target.Type))
}
