package ast

import (
	"fmt"

	"tube/interpreter-go/pkg/runtime"
)

// Cast converts its operand to Bool, Number or String. When the operand
// already has the target tag the same cell is returned, not a copy.
type Cast struct {
	nodeImpl

	Operand Node `json:"operand"`
}

func newCast(kind NodeType, to Type, operand Node) (*Cast, error) {
	if operand == nil {
		return nil, constructionErrorf("%s requires an operand", kind)
	}
	return &Cast{nodeImpl: newNodeImpl(kind, to), Operand: operand}, nil
}

func NewBoolCast(operand Node) (*Cast, error)   { return newCast(NodeBoolCast, TypeBool, operand) }
func NewNumberCast(operand Node) (*Cast, error) { return newCast(NodeNumberCast, TypeNumber, operand) }
func NewStringCast(operand Node) (*Cast, error) { return newCast(NodeStringCast, TypeString, operand) }

func (c *Cast) Evaluate(env *Env) (*runtime.Cell, error) {
	in, err := c.Operand.Evaluate(env)
	if err != nil {
		return nil, err
	}
	v := runtime.ValueOf(in)
	var out runtime.Value
	switch c.Static {
	case TypeBool:
		if in != nil && v.Kind() == runtime.KindBool {
			return in, nil
		}
		out = runtime.BoolValue{Val: runtime.ToBool(v)}
	case TypeNumber:
		if in != nil && v.Kind() == runtime.KindNumber {
			return in, nil
		}
		out = runtime.NumberValue{Val: runtime.ToNumber(v)}
	case TypeString:
		if in != nil && v.Kind() == runtime.KindString {
			return in, nil
		}
		out = runtime.StringValue{Val: runtime.ToString(v)}
	default:
		return nil, fmt.Errorf("internal error: cast to %s", c.Static)
	}
	env.release(in)
	return env.temp(out), nil
}

// Bool1 is logical not.
type Bool1 struct {
	nodeImpl

	Operand Node `json:"operand"`
}

func NewBool1(operand Node) (*Bool1, error) {
	if operand == nil {
		return nil, constructionErrorf("operator '!' requires an operand")
	}
	if operand.StaticType() == TypeVoid {
		return nil, constructionErrorf("cannot negate a void expression")
	}
	return &Bool1{nodeImpl: newNodeImpl(NodeBool1, TypeBool), Operand: operand}, nil
}

func (b *Bool1) Evaluate(env *Env) (*runtime.Cell, error) {
	in, err := b.Operand.Evaluate(env)
	if err != nil {
		return nil, err
	}
	out := !runtime.ToBool(runtime.ValueOf(in))
	env.release(in)
	return env.temp(runtime.BoolValue{Val: out}), nil
}

// Bool2 operators.
const (
	OpAnd = "&&"
	OpOr  = "||"
)

// Bool2 is short-circuit AND/OR. The right subtree is only evaluated when
// the left side does not already decide the result.
type Bool2 struct {
	nodeImpl

	Op    string `json:"op"`
	Left  Node   `json:"left"`
	Right Node   `json:"right"`
}

func NewBool2(left, right Node, op string) (*Bool2, error) {
	if left == nil || right == nil {
		return nil, constructionErrorf("operator '%s' requires two operands", op)
	}
	if op != OpAnd && op != OpOr {
		return nil, constructionErrorf("unknown Bool2 operation '%s'", op)
	}
	if left.StaticType() == TypeVoid || right.StaticType() == TypeVoid {
		return nil, constructionErrorf("cannot use a void expression with '%s'", op)
	}
	return &Bool2{nodeImpl: newNodeImpl(NodeBool2, TypeBool), Op: op, Left: left, Right: right}, nil
}

func (b *Bool2) Evaluate(env *Env) (*runtime.Cell, error) {
	lc, err := b.Left.Evaluate(env)
	if err != nil {
		return nil, err
	}
	left := runtime.ToBool(runtime.ValueOf(lc))
	env.release(lc)
	if (b.Op == OpAnd && !left) || (b.Op == OpOr && left) {
		return env.temp(runtime.BoolValue{Val: left}), nil
	}
	rc, err := b.Right.Evaluate(env)
	if err != nil {
		return nil, err
	}
	right := runtime.ToBool(runtime.ValueOf(rc))
	env.release(rc)
	return env.temp(runtime.BoolValue{Val: right}), nil
}
