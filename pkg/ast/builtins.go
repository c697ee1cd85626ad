package ast

import (
	"errors"
	"io"

	"tube/interpreter-go/pkg/runtime"
)

// Print writes the String cast of each child with no separator, then a
// newline.
type Print struct {
	nodeImpl

	Args []Node `json:"args"`
}

func NewPrint(args ...Node) (*Print, error) {
	for i, arg := range args {
		if arg == nil {
			return nil, constructionErrorf("print argument %d is missing", i+1)
		}
	}
	return &Print{nodeImpl: newNodeImpl(NodePrint, TypeVoid), Args: args}, nil
}

func (p *Print) Evaluate(env *Env) (*runtime.Cell, error) {
	for _, arg := range p.Args {
		cell, err := arg.Evaluate(env)
		if err != nil {
			return nil, err
		}
		text := runtime.ToString(runtime.ValueOf(cell))
		env.release(cell)
		if _, err := io.WriteString(env.Out, text); err != nil {
			return nil, err
		}
	}
	if _, err := io.WriteString(env.Out, "\n"); err != nil {
		return nil, err
	}
	return nil, nil
}

// Delete evaluates its operand and releases the resulting cell. Members are
// unlinked from their Object or Array first.
type Delete struct {
	nodeImpl

	Operand Node `json:"operand"`
}

func NewDelete(operand Node) (*Delete, error) {
	if operand == nil {
		return nil, constructionErrorf("delete requires an operand")
	}
	switch operand.(type) {
	case *Variable, *Declare:
		return nil, constructionErrorf("delete requires a property or index operand")
	}
	return &Delete{nodeImpl: newNodeImpl(NodeDelete, TypeVoid), Operand: operand}, nil
}

func (d *Delete) Evaluate(env *Env) (*runtime.Cell, error) {
	if m, ok := d.Operand.(*Member); ok {
		return nil, m.remove(env)
	}
	cell, err := d.Operand.Evaluate(env)
	if err != nil {
		return nil, err
	}
	if err := env.Scopes.Release(cell); err != nil {
		if errors.Is(err, runtime.ErrNotTemporary) {
			return nil, &RuntimeError{Line: d.Span().Start.Line, Message: "cannot delete", Err: err}
		}
		return nil, err
	}
	return nil, nil
}

// TypeOf yields the name of the operand's dynamic tag.
type TypeOf struct {
	nodeImpl

	Operand Node `json:"operand"`
}

func NewTypeOf(operand Node) (*TypeOf, error) {
	if operand == nil {
		return nil, constructionErrorf("typeof requires an operand")
	}
	return &TypeOf{nodeImpl: newNodeImpl(NodeTypeOf, TypeString), Operand: operand}, nil
}

func (t *TypeOf) Evaluate(env *Env) (*runtime.Cell, error) {
	cell, err := t.Operand.Evaluate(env)
	if err != nil {
		return nil, err
	}
	name := runtime.KindOf(cell).String()
	env.release(cell)
	return env.temp(runtime.StringValue{Val: name}), nil
}

// Void evaluates its operand for side effects only.
type Void struct {
	nodeImpl

	Operand Node `json:"operand"`
}

func NewVoid(operand Node) (*Void, error) {
	if operand == nil {
		return nil, constructionErrorf("void requires an operand")
	}
	return &Void{nodeImpl: newNodeImpl(NodeVoid, TypeVoid), Operand: operand}, nil
}

func (v *Void) Evaluate(env *Env) (*runtime.Cell, error) {
	return nil, evaluateDiscard(env, v.Operand)
}

// Join concatenates the String cast of each element, separated by Separator
// (a comma when absent).
type Join struct {
	nodeImpl

	Array     Node `json:"array"`
	Separator Node `json:"separator,omitempty"`
}

func NewJoin(array, sep Node) (*Join, error) {
	if array == nil {
		return nil, constructionErrorf("join requires an array operand")
	}
	if !arrayLike(array.StaticType()) {
		return nil, constructionErrorf("join requires an array operand, got '%s'", array.StaticType())
	}
	if sep != nil && sep.StaticType() == TypeVoid {
		return nil, constructionErrorf("join separator must not be void")
	}
	return &Join{nodeImpl: newNodeImpl(NodeJoin, TypeString), Array: array, Separator: sep}, nil
}

func (j *Join) Evaluate(env *Env) (*runtime.Cell, error) {
	arr, err := j.Array.Evaluate(env)
	if err != nil {
		return nil, err
	}
	defer env.release(arr)
	elems, ok := arrayOf(arr)
	if !ok {
		return nil, runtimeErrorf(j, "join requires an array operand, got '%s'", runtime.KindOf(arr))
	}
	sep := ","
	if j.Separator != nil {
		sc, err := j.Separator.Evaluate(env)
		if err != nil {
			return nil, err
		}
		sep = runtime.ToString(runtime.ValueOf(sc))
		env.release(sc)
	}
	return env.temp(runtime.StringValue{Val: runtime.Join(elems, sep)}), nil
}

func arrayOf(c *runtime.Cell) (*runtime.Elements, bool) {
	if c == nil {
		return nil, false
	}
	return c.Array()
}

// Push binds a value at one past the array's maximum index and yields the
// new length.
type Push struct {
	nodeImpl

	Array Node `json:"array"`
	Value Node `json:"value"`
}

func NewPush(array, value Node) (*Push, error) {
	if array == nil || value == nil {
		return nil, constructionErrorf("push requires an array and a value")
	}
	if !arrayLike(array.StaticType()) {
		return nil, constructionErrorf("push requires an array operand, got '%s'", array.StaticType())
	}
	return &Push{nodeImpl: newNodeImpl(NodePush, TypeNumber), Array: array, Value: value}, nil
}

func (p *Push) Evaluate(env *Env) (*runtime.Cell, error) {
	arr, err := p.Array.Evaluate(env)
	if err != nil {
		return nil, err
	}
	defer env.release(arr)
	elems, ok := arrayOf(arr)
	if !ok {
		return nil, runtimeErrorf(p, "push requires an array operand, got '%s'", runtime.KindOf(arr))
	}
	val, err := p.Value.Evaluate(env)
	if err != nil {
		return nil, err
	}
	slot := runtime.NewCell(nil)
	runtime.Assign(slot, val)
	env.release(val)
	elems.Set(elems.Next(), slot)
	return env.temp(runtime.NumberValue{Val: float64(elems.Next())}), nil
}

// Pop removes the entry at the maximum index and yields it. An empty array
// yields nothing.
type Pop struct {
	nodeImpl

	Array Node `json:"array"`
}

func NewPop(array Node) (*Pop, error) {
	if array == nil {
		return nil, constructionErrorf("pop requires an array operand")
	}
	if !arrayLike(array.StaticType()) {
		return nil, constructionErrorf("pop requires an array operand, got '%s'", array.StaticType())
	}
	return &Pop{nodeImpl: newNodeImpl(NodePop, TypeAny), Array: array}, nil
}

func (p *Pop) Evaluate(env *Env) (*runtime.Cell, error) {
	arr, err := p.Array.Evaluate(env)
	if err != nil {
		return nil, err
	}
	defer env.release(arr)
	elems, ok := arrayOf(arr)
	if !ok {
		return nil, runtimeErrorf(p, "pop requires an array operand, got '%s'", runtime.KindOf(arr))
	}
	max, ok := elems.Max()
	if !ok {
		return nil, nil
	}
	cell, _ := elems.Delete(max)
	return env.Scopes.Adopt(cell), nil
}
