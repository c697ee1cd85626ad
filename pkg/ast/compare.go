package ast

import (
	"fmt"

	"tube/interpreter-go/pkg/runtime"
)

// Comparison operators.
const (
	OpLess         = "<"
	OpLessEqual    = "<="
	OpGreater      = ">"
	OpGreaterEqual = ">="
	OpEqual        = "=="
	OpNotEqual     = "!="
	OpStrictEqual  = "==="
	OpStrictNotEq  = "!=="
)

// Comparison yields a Bool. Relational operators take Numbers; equality is
// strict or abstract.
type Comparison struct {
	nodeImpl

	Op    string `json:"op"`
	Left  Node   `json:"left"`
	Right Node   `json:"right"`
}

func NewComparison(left, right Node, op string) (*Comparison, error) {
	if left == nil || right == nil {
		return nil, constructionErrorf("operator '%s' requires two operands", op)
	}
	switch op {
	case OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
		lt, rt := left.StaticType(), right.StaticType()
		if !numeric(lt) || !numeric(rt) {
			return nil, constructionErrorf("types do not match for relationship operator (lhs='%s', rhs='%s')", lt, rt)
		}
	case OpEqual, OpNotEqual, OpStrictEqual, OpStrictNotEq:
	default:
		return nil, constructionErrorf("unknown comparison operator '%s'", op)
	}
	return &Comparison{nodeImpl: newNodeImpl(NodeComparison, TypeBool), Op: op, Left: left, Right: right}, nil
}

func (c *Comparison) Evaluate(env *Env) (*runtime.Cell, error) {
	lc, err := c.Left.Evaluate(env)
	if err != nil {
		return nil, err
	}
	rc, err := c.Right.Evaluate(env)
	if err != nil {
		env.release(lc)
		return nil, err
	}
	l, r := runtime.ValueOf(lc), runtime.ValueOf(rc)
	defer env.release(lc, rc)

	var out bool
	switch c.Op {
	case OpStrictEqual:
		out = runtime.StrictEquals(l, r)
	case OpStrictNotEq:
		out = !runtime.StrictEquals(l, r)
	case OpEqual:
		out = runtime.AbstractEquals(l, r)
	case OpNotEqual:
		out = !runtime.AbstractEquals(l, r)
	case OpLess:
		out = runtime.ToNumber(l) < runtime.ToNumber(r)
	case OpLessEqual:
		out = runtime.ToNumber(l) <= runtime.ToNumber(r)
	case OpGreater:
		out = runtime.ToNumber(l) > runtime.ToNumber(r)
	case OpGreaterEqual:
		out = runtime.ToNumber(l) >= runtime.ToNumber(r)
	default:
		return nil, fmt.Errorf("internal error: unknown comparison operator '%s'", c.Op)
	}
	return env.temp(runtime.BoolValue{Val: out}), nil
}
