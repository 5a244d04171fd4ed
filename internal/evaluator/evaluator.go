package evaluator

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"reflect"

	"github.com/funvibe/brace/internal/arena"
	"github.com/funvibe/brace/internal/config"
	"github.com/funvibe/brace/internal/diagnostics"
	"github.com/funvibe/brace/internal/host"
	"github.com/funvibe/brace/internal/token"
)

// Options configures one evaluation run.
type Options struct {
	// Invoker executes foreign members. Nil makes every foreign access a
	// marshal error.
	Invoker host.Invoker
	// Bindings populate the host frame that encloses the global frame.
	Bindings []*host.Binding
	// Out receives print output. Nil means os.Stdout.
	Out io.Writer
	// MaxCallDepth bounds nested invocations. Zero means the default.
	MaxCallDepth int
	Logger       *log.Logger
}

// Evaluator executes an analyzed arena. It never adds slots.
type Evaluator struct {
	opts       Options
	arena      *arena.Arena
	marshaller *Marshaller
	out        io.Writer
	logger     *log.Logger
	fileName   string

	intType  arena.ID
	depth    int
	maxDepth int
}

func New(a *arena.Arena, opts Options) *Evaluator {
	e := &Evaluator{
		opts:       opts,
		arena:      a,
		marshaller: NewMarshaller(),
		out:        opts.Out,
		logger:     opts.Logger,
		maxDepth:   opts.MaxCallDepth,
	}
	if e.out == nil {
		e.out = os.Stdout
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard, "", 0)
	}
	if e.maxDepth <= 0 {
		e.maxDepth = config.DefaultMaxCallDepth
	}
	e.intType, _ = a.FindType(&arena.ForeignType{Desc: host.Int})
	return e
}

// Evaluate is a shorthand for New(a, opts).Run().
func Evaluate(a *arena.Arena, opts Options) (Value, error) {
	return New(a, opts).Run()
}

// Run executes the File slot: the top-level statements run in the global
// frame, then main is invoked when the file declares one.
func (e *Evaluator) Run() (Value, error) {
	fileID, ok := e.arena.File()
	if !ok {
		return nil, fmt.Errorf("arena holds no file")
	}
	file := arena.PayloadOf[*arena.File](e.arena, fileID)
	e.fileName = file.Name

	hostFrame := NewFrame()
	for _, b := range e.opts.Bindings {
		v, err := e.marshaller.ToValue(b.Value)
		if err != nil {
			return nil, e.errorf(diagnostics.ErrR005, token.Token{}, "binding %s: %v", b.Name, err)
		}
		if err := hostFrame.Define(b.Name, v); err != nil {
			return nil, e.errorf(diagnostics.ErrR002, token.Token{}, "%v", err)
		}
	}
	global := NewCallFrame(hostFrame, nil)

	result, err := e.block(file.Body, global)
	if err != nil {
		return nil, err
	}
	if sig, ok := result.(*ReturnValue); ok {
		return sig.Value, nil
	}
	if _, ok := result.(*ReturnVoid); ok {
		return VOID, nil
	}

	body := arena.PayloadOf[*arena.Braces](e.arena, file.Body)
	if _, declared := body.Names.Get(config.MainFuncName); !declared {
		return VOID, nil
	}
	mainVal, _ := global.Get(config.MainFuncName)
	fn, ok := mainVal.(*Function)
	if !ok {
		return nil, e.errorf(diagnostics.ErrR003, token.Token{}, "%s must be a function, got %s", config.MainFuncName, mainVal.Type())
	}
	e.logger.Printf("eval: invoking %s", config.MainFuncName)
	return e.invoke(fn, nil, token.Token{})
}

// block runs the lines of a Braces slot in frame. Return signals stop the
// iteration and are handed back unchanged.
func (e *Evaluator) block(id arena.ID, frame *Frame) (Value, error) {
	braces := arena.PayloadOf[*arena.Braces](e.arena, id)
	if err := e.hoist(braces, frame); err != nil {
		return nil, err
	}
	for _, line := range braces.Lines {
		v, err := e.eval(line, frame)
		if err != nil {
			return nil, err
		}
		if isSignal(v) {
			return v, nil
		}
	}
	return VOID, nil
}

// hoist binds the block's function declarations before any line runs,
// matching the analyzer's per-scope hoisting.
func (e *Evaluator) hoist(braces *arena.Braces, frame *Frame) error {
	for _, line := range braces.Lines {
		decl, ok := arena.Lookup[*arena.Declare](e.arena, line)
		if !ok || !e.isFunctionDecl(decl) {
			continue
		}
		if err := frame.Define(decl.Name, &Function{Braces: decl.Value, Env: frame}); err != nil {
			return e.errorf(diagnostics.ErrR002, decl.Token, "%v", err)
		}
	}
	return nil
}

func (e *Evaluator) isFunctionDecl(decl *arena.Declare) bool {
	return !decl.Host && decl.Value.IsValid() && e.arena.Get(decl.Value).Kind == arena.KindBraces
}

// invoke performs an opaque call: return signals are absorbed here.
func (e *Evaluator) invoke(fn *Function, args []Value, tok token.Token) (Value, error) {
	if e.depth >= e.maxDepth {
		return nil, e.errorf(diagnostics.ErrR010, tok, "call depth exceeded %d", e.maxDepth)
	}
	e.depth++
	defer func() { e.depth-- }()

	result, err := e.block(fn.Braces, NewCallFrame(fn.Env, args))
	if err != nil {
		return nil, err
	}
	switch r := result.(type) {
	case *ReturnValue:
		return r.Value, nil
	default:
		return VOID, nil
	}
}

func (e *Evaluator) eval(id arena.ID, frame *Frame) (Value, error) {
	slot := e.arena.Get(id)
	switch p := slot.Payload.(type) {
	case *arena.Void:
		return VOID, nil
	case *arena.Boolean:
		return nativeBool(p.Value), nil
	case *arena.Integer:
		return &Int{Value: p.Value}, nil
	case *arena.String:
		return &String{Value: p.Value}, nil
	case *arena.Intrinsic:
		return &Intrinsic{Name: p.Name}, nil
	case *arena.Braces:
		return &Function{Braces: id, Env: frame}, nil
	case *arena.Declare:
		return e.evalDeclare(p, frame)
	case *arena.Assign:
		return e.evalAssign(p, frame)
	case *arena.Identifier:
		v, ok := frame.Get(p.Name)
		if !ok {
			return nil, e.errorf(diagnostics.ErrR001, p.Token, "%q is not bound", p.Name)
		}
		return v, nil
	case *arena.Add:
		return e.evalAdd(id, slot.Type, p, frame)
	case *arena.Negation:
		operand, err := e.eval(p.Operand, frame)
		if err != nil {
			return nil, err
		}
		n, ok := operand.(*Int)
		if !ok {
			return nil, e.errorf(diagnostics.ErrR009, p.Token, "operator - needs an Int, got %s", operand.Type())
		}
		return &Int{Value: -n.Value}, nil
	case *arena.LogicalNegation:
		operand, err := e.eval(p.Operand, frame)
		if err != nil {
			return nil, err
		}
		b, ok := operand.(*Bool)
		if !ok {
			return nil, e.errorf(diagnostics.ErrR009, p.Token, "operator ! needs a Bool, got %s", operand.Type())
		}
		return nativeBool(!b.Value), nil
	case *arena.Member:
		return e.evalMember(p, frame)
	case *arena.Call:
		return e.evalCall(p, frame)
	case *arena.If:
		return e.evalIf(p, frame)
	case *arena.Return:
		if !p.Value.IsValid() {
			return &ReturnVoid{}, nil
		}
		v, err := e.eval(p.Value, frame)
		if err != nil {
			return nil, err
		}
		return &ReturnValue{Value: v}, nil
	case *arena.Parameter:
		v, err := frame.Next()
		if err != nil {
			return nil, e.errorf(diagnostics.ErrR007, p.Token, "%v", err)
		}
		return v, nil
	case *arena.File, *arena.Unresolved, arena.TypeInfo:
		return nil, e.errorf(diagnostics.ErrR006, token.Token{}, "slot #%d of kind %s is not evaluable", id, slot.Kind)
	default:
		return nil, e.errorf(diagnostics.ErrR006, token.Token{}, "unknown slot kind %s", slot.Kind)
	}
}

func (e *Evaluator) evalDeclare(p *arena.Declare, frame *Frame) (Value, error) {
	if p.Host {
		return nil, e.errorf(diagnostics.ErrR006, p.Token, "host binding %s is not a statement", p.Name)
	}
	if e.isFunctionDecl(p) {
		if v, ok := frame.Local(p.Name); ok {
			return v, nil
		}
	}
	v, err := e.eval(p.Value, frame)
	if err != nil {
		return nil, err
	}
	if isSignal(v) {
		return nil, e.errorf(diagnostics.ErrR009, p.Token, "cannot bind a return signal to %q", p.Name)
	}
	if err := frame.Define(p.Name, v); err != nil {
		return nil, e.errorf(diagnostics.ErrR002, p.Token, "%v", err)
	}
	return v, nil
}

func (e *Evaluator) evalAssign(p *arena.Assign, frame *Frame) (Value, error) {
	v, err := e.eval(p.Value, frame)
	if err != nil {
		return nil, err
	}
	target, ok := arena.Lookup[*arena.Identifier](e.arena, p.Target)
	if !ok {
		return nil, e.errorf(diagnostics.ErrR001, p.Token, "assignment target must be an identifier, got %s",
			e.arena.Get(p.Target).Kind)
	}
	if !frame.Update(target.Name, v) {
		return nil, e.errorf(diagnostics.ErrR001, p.Token, "%q is not bound", target.Name)
	}
	return v, nil
}

func (e *Evaluator) evalAdd(id, typ arena.ID, p *arena.Add, frame *Frame) (Value, error) {
	if typ != e.intType {
		panic(fmt.Sprintf("evaluator: Add slot #%d is typed %s", id, e.arena.TypeName(typ)))
	}
	left, err := e.eval(p.Left, frame)
	if err != nil {
		return nil, err
	}
	right, err := e.eval(p.Right, frame)
	if err != nil {
		return nil, err
	}
	l, lok := left.(*Int)
	r, rok := right.(*Int)
	if !lok || !rok {
		return nil, e.errorf(diagnostics.ErrR009, p.Token, "cannot add %s and %s", left.Type(), right.Type())
	}
	return &Int{Value: l.Value + r.Value}, nil
}

func (e *Evaluator) evalIf(p *arena.If, frame *Frame) (Value, error) {
	cond, err := e.eval(p.Cond, frame)
	if err != nil {
		return nil, err
	}
	b, ok := cond.(*Bool)
	if !ok {
		return nil, e.errorf(diagnostics.ErrR004, p.Token, "condition must be a Bool, got %s", cond.Type())
	}
	if !b.Value {
		return VOID, nil
	}
	// Transparent: a return inside the body leaves the enclosing function.
	return e.block(p.Body, NewEnclosedFrame(frame))
}

func (e *Evaluator) evalMember(p *arena.Member, frame *Frame) (Value, error) {
	target, err := e.eval(p.Target, frame)
	if err != nil {
		return nil, err
	}
	if p.Getter == nil {
		return &Member{Target: target, Name: p.Name}, nil
	}
	recv, err := e.marshaller.FromValue(target)
	if err != nil {
		return nil, e.errorf(diagnostics.ErrR005, p.Token, "%s: %v", p.Name, err)
	}
	if e.opts.Invoker == nil {
		return nil, e.errorf(diagnostics.ErrR005, p.Token, "no invoker for field %s", p.Name)
	}
	field, err := e.opts.Invoker.Get(*p.Getter, recv)
	if err != nil {
		return nil, e.foreignError(p.Token, err)
	}
	v, err := e.marshaller.ToValue(field)
	if err != nil {
		return nil, e.errorf(diagnostics.ErrR005, p.Token, "%s: %v", p.Name, err)
	}
	return v, nil
}

func (e *Evaluator) evalCall(p *arena.Call, frame *Frame) (Value, error) {
	target, err := e.eval(p.Target, frame)
	if err != nil {
		return nil, err
	}
	args := make([]Value, 0, len(p.Args))
	for _, id := range p.Args {
		v, err := e.eval(id, frame)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	switch t := target.(type) {
	case *Intrinsic:
		if t.Name != config.PrintKeyword {
			return nil, e.errorf(diagnostics.ErrR006, p.Token, "intrinsic %s cannot be called", t.Name)
		}
		return e.print(p.Token, args)
	case *Member:
		if p.Method == nil {
			return nil, e.errorf(diagnostics.ErrR003, p.Token, "member %s has no bound method", t.Name)
		}
		return e.callForeign(p.Token, *p.Method, t, args)
	case *Function:
		return e.invoke(t, args, p.Token)
	default:
		return nil, e.errorf(diagnostics.ErrR003, p.Token, "cannot call %s", target.Type())
	}
}

func (e *Evaluator) print(tok token.Token, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, e.errorf(diagnostics.ErrR006, tok, "%s takes one argument, got %d", config.PrintKeyword, len(args))
	}
	switch v := args[0].(type) {
	case *Int, *String, *Bool:
		if _, err := fmt.Fprintln(e.out, v.Inspect()); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, e.errorf(diagnostics.ErrR006, tok, "cannot print %s", v.Type())
	}
}

func (e *Evaluator) callForeign(tok token.Token, method host.Member, m *Member, args []Value) (Value, error) {
	if e.opts.Invoker == nil {
		return nil, e.errorf(diagnostics.ErrR005, tok, "no invoker for method %s", method.Name)
	}
	recv, err := e.marshaller.FromValue(m.Target)
	if err != nil {
		return nil, e.errorf(diagnostics.ErrR005, tok, "receiver of %s: %v", method.Name, err)
	}
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		if in[i], err = e.marshaller.FromValue(arg); err != nil {
			return nil, e.errorf(diagnostics.ErrR005, tok, "argument %d of %s: %v", i, method.Name, err)
		}
	}
	e.logger.Printf("eval: foreign call %s", method)
	out, err := e.opts.Invoker.Invoke(method, recv, in)
	if err != nil {
		return nil, e.foreignError(tok, err)
	}
	v, err := e.marshaller.ToValue(out)
	if err != nil {
		return nil, e.errorf(diagnostics.ErrR005, tok, "result of %s: %v", method.Name, err)
	}
	return v, nil
}

// foreignError classifies an invoker failure, keeping the original error as
// the cause.
func (e *Evaluator) foreignError(tok token.Token, err error) error {
	code := diagnostics.ErrR008
	var merr *host.MarshalError
	if errors.As(err, &merr) {
		code = diagnostics.ErrR005
	}
	d := diagnostics.Wrap(code, tok, err, "%v", err)
	d.File = e.fileName
	return d
}

func (e *Evaluator) errorf(code diagnostics.ErrorCode, tok token.Token, format string, args ...interface{}) error {
	err := diagnostics.NewError(code, tok, format, args...)
	err.File = e.fileName
	return err
}
