package ast

import (
	"fmt"
	"math"

	"tube/interpreter-go/pkg/runtime"
)

// Math1 operators.
const (
	OpNegate  = "-"
	OpPlus    = "+"
	OpPreInc  = "++x"
	OpPreDec  = "--x"
	OpPostInc = "x++"
	OpPostDec = "x--"
)

// Math1 is a one-operand numeric operation.
type Math1 struct {
	nodeImpl

	Op      string `json:"op"`
	Operand Node   `json:"operand"`
}

func NewMath1(operand Node, op string) (*Math1, error) {
	if operand == nil {
		return nil, constructionErrorf("operator '%s' requires an operand", op)
	}
	switch op {
	case OpNegate, OpPlus:
	case OpPreInc, OpPreDec, OpPostInc, OpPostDec:
		if !Assignable(operand) {
			return nil, constructionErrorf("invalid operand for '%s': must be a variable, property or index", op)
		}
	default:
		return nil, constructionErrorf("unknown Math1 operation '%s'", op)
	}
	if t := operand.StaticType(); !numeric(t) && !(op == OpPlus && t != TypeVoid) {
		return nil, mathTypeError(t)
	}
	return &Math1{nodeImpl: newNodeImpl(NodeMath1, TypeNumber), Op: op, Operand: operand}, nil
}

func (m *Math1) Evaluate(env *Env) (*runtime.Cell, error) {
	switch m.Op {
	case OpNegate, OpPlus:
		in, err := m.Operand.Evaluate(env)
		if err != nil {
			return nil, err
		}
		f := runtime.ToNumber(runtime.ValueOf(in))
		env.release(in)
		if m.Op == OpNegate {
			f = -f
		}
		return env.temp(runtime.NumberValue{Val: f}), nil
	}

	cell, err := m.operandCell(env)
	if err != nil {
		return nil, err
	}
	if cell == nil {
		return env.temp(runtime.NumberValue{Val: math.NaN()}), nil
	}
	before := runtime.ToNumber(cell.Value())
	after := before + 1
	if m.Op == OpPreDec || m.Op == OpPostDec {
		after = before - 1
	}
	cell.Set(runtime.NumberValue{Val: after})
	if m.Op == OpPostInc || m.Op == OpPostDec {
		return env.temp(runtime.NumberValue{Val: before}), nil
	}
	return env.temp(runtime.NumberValue{Val: after}), nil
}

// operandCell finds the cell an increment mutates: variables are rebound in
// place, members update their existing entry.
func (m *Math1) operandCell(env *Env) (*runtime.Cell, error) {
	if v, ok := m.Operand.(*Variable); ok {
		return v.target(env, false)
	}
	cell, err := m.Operand.(assignable).target(env, false)
	if err != nil || cell == nil {
		return cell, err
	}
	if cell.Temporary() {
		return nil, runtimeErrorf(m, "invalid operand for '%s'", m.Op)
	}
	return cell, nil
}

// Math2 operators.
const (
	OpAdd = "+"
	OpSub = "-"
	OpMul = "*"
	OpDiv = "/"
	OpMod = "%"
	OpPow = "**"
)

// Math2 is a two-operand arithmetic operation. '+' concatenates when either
// side is a String.
type Math2 struct {
	nodeImpl

	Op    string `json:"op"`
	Left  Node   `json:"left"`
	Right Node   `json:"right"`
}

func NewMath2(left, right Node, op string) (*Math2, error) {
	if left == nil || right == nil {
		return nil, constructionErrorf("operator '%s' requires two operands", op)
	}
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod, OpPow:
	default:
		return nil, constructionErrorf("unknown Math2 operation '%s'", op)
	}
	lt, rt := left.StaticType(), right.StaticType()
	result := TypeNumber
	switch {
	case op == OpAdd && (lt == TypeString || rt == TypeString):
		if lt == TypeVoid || rt == TypeVoid {
			return nil, constructionErrorf("cannot concatenate a void expression")
		}
		result = TypeString
	case !numeric(lt):
		return nil, mathTypeError(lt)
	case !numeric(rt):
		return nil, mathTypeError(rt)
	case op == OpAdd && (lt == TypeAny || rt == TypeAny):
		result = TypeAny
	}
	return &Math2{nodeImpl: newNodeImpl(NodeMath2, result), Op: op, Left: left, Right: right}, nil
}

func (m *Math2) Evaluate(env *Env) (*runtime.Cell, error) {
	lc, err := m.Left.Evaluate(env)
	if err != nil {
		return nil, err
	}
	rc, err := m.Right.Evaluate(env)
	if err != nil {
		env.release(lc)
		return nil, err
	}
	l, r := runtime.ValueOf(lc), runtime.ValueOf(rc)
	defer env.release(lc, rc)

	if m.Op == OpAdd && (isString(l) || isString(r)) {
		return env.temp(runtime.StringValue{Val: runtime.ToString(l) + runtime.ToString(r)}), nil
	}
	a, b := runtime.ToNumber(l), runtime.ToNumber(r)
	var out float64
	switch m.Op {
	case OpAdd:
		out = a + b
	case OpSub:
		out = a - b
	case OpMul:
		out = a * b
	case OpDiv:
		out = a / b
	case OpMod:
		out = math.Mod(a, b)
	case OpPow:
		out = math.Pow(a, b)
	default:
		return nil, fmt.Errorf("internal error: unknown Math2 operation '%s'", m.Op)
	}
	return env.temp(runtime.NumberValue{Val: out}), nil
}

func isString(v runtime.Value) bool {
	_, ok := v.(runtime.StringValue)
	return ok
}
