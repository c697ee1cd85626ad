package ast

import (
	"tube/interpreter-go/pkg/runtime"
)

// Variable reads a named binding.
type Variable struct {
	nodeImpl

	Name string `json:"name"`
}

func NewVariable(name string) *Variable {
	return &Variable{nodeImpl: newNodeImpl(NodeVariable, TypeAny), Name: name}
}

// Evaluate returns the final target of the binding, following references.
func (v *Variable) Evaluate(env *Env) (*runtime.Cell, error) {
	cell, err := v.target(env, false)
	if err != nil {
		return nil, err
	}
	return cell.Deref(), nil
}

// target returns the bound cell itself so assignment can rebind it.
func (v *Variable) target(env *Env, _ bool) (*runtime.Cell, error) {
	cell, ok := env.Scopes.Lookup(v.Name)
	if !ok {
		return nil, runtimeErrorf(v, "unknown variable '%s'", v.Name)
	}
	return cell, nil
}

// Declare binds a new name in the current scope.
type Declare struct {
	nodeImpl

	Name string `json:"name"`
}

func NewDeclare(name string) *Declare {
	return &Declare{nodeImpl: newNodeImpl(NodeDeclare, TypeAny), Name: name}
}

func (d *Declare) Evaluate(env *Env) (*runtime.Cell, error) {
	return d.target(env, true)
}

func (d *Declare) target(env *Env, _ bool) (*runtime.Cell, error) {
	cell, err := env.Scopes.Declare(d.Name, runtime.KindVoid)
	if err != nil {
		return nil, &RuntimeError{Line: d.Span().Start.Line, Message: "declare failed", Err: err}
	}
	return cell, nil
}

// Literal materializes a constant from its lexeme each time it is evaluated.
type Literal struct {
	nodeImpl

	Lexeme string `json:"lexeme"`
}

// NewLiteral validates the lexeme against the literal's type.
func NewLiteral(t Type, lexeme string) (*Literal, error) {
	switch t {
	case TypeNumber:
		if _, err := runtime.ParseNumberLiteral(lexeme); err != nil {
			return nil, constructionErrorf("%v", err)
		}
	case TypeBool:
		if lexeme != "true" && lexeme != "false" {
			return nil, constructionErrorf("invalid boolean literal %q", lexeme)
		}
	case TypeString, TypeNull, TypeVoid:
	default:
		return nil, constructionErrorf("cannot build a %s literal from %q", t, lexeme)
	}
	return &Literal{nodeImpl: newNodeImpl(NodeLiteral, t), Lexeme: lexeme}, nil
}

func (l *Literal) Evaluate(env *Env) (*runtime.Cell, error) {
	switch l.Static {
	case TypeNumber:
		f, err := runtime.ParseNumberLiteral(l.Lexeme)
		if err != nil {
			return nil, runtimeErrorf(l, "%v", err)
		}
		return env.temp(runtime.NumberValue{Val: f}), nil
	case TypeBool:
		return env.temp(runtime.BoolValue{Val: l.Lexeme == "true"}), nil
	case TypeString:
		return env.temp(runtime.StringValue{Val: l.Lexeme}), nil
	case TypeNull:
		return env.temp(runtime.NullValue{}), nil
	default:
		return env.temp(runtime.VoidValue{}), nil
	}
}

// ObjectEntry is one key/value pair of an object literal.
type ObjectEntry struct {
	Key   string `json:"key"`
	Value Node   `json:"value"`
}

// ObjectLiteral builds an empty property set, then assigns each entry in
// source order.
type ObjectLiteral struct {
	nodeImpl

	Entries []ObjectEntry `json:"entries"`
}

func NewObjectLiteral(entries ...ObjectEntry) (*ObjectLiteral, error) {
	for i, entry := range entries {
		if entry.Value == nil {
			return nil, constructionErrorf("object literal entry %d (%q) has no value", i, entry.Key)
		}
	}
	return &ObjectLiteral{nodeImpl: newNodeImpl(NodeObjectLiteral, TypeObject), Entries: entries}, nil
}

func (o *ObjectLiteral) Evaluate(env *Env) (*runtime.Cell, error) {
	out := env.Scopes.NewTemporary(runtime.KindVoid)
	props := out.InitObject()
	for _, entry := range o.Entries {
		val, err := entry.Value.Evaluate(env)
		if err != nil {
			return nil, err
		}
		slot := runtime.NewCell(nil)
		props.Set(entry.Key, slot)
		if val == nil {
			continue
		}
		runtime.Assign(slot, val)
		env.release(val)
	}
	return out, nil
}

// ArrayLiteral builds an empty index map and binds each element at 0..n-1.
type ArrayLiteral struct {
	nodeImpl

	Elements []Node `json:"elements"`
}

func NewArrayLiteral(elements ...Node) *ArrayLiteral {
	return &ArrayLiteral{nodeImpl: newNodeImpl(NodeArrayLiteral, TypeArray), Elements: elements}
}

func (a *ArrayLiteral) Evaluate(env *Env) (*runtime.Cell, error) {
	out := env.Scopes.NewTemporary(runtime.KindVoid)
	elems := out.InitArray()
	for i, el := range a.Elements {
		slot := runtime.NewCell(nil)
		elems.Set(i, slot)
		if el == nil {
			continue
		}
		val, err := el.Evaluate(env)
		if err != nil {
			return nil, err
		}
		runtime.Assign(slot, val)
		env.release(val)
	}
	return out, nil
}
