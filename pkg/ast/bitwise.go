package ast

import (
	"fmt"

	"tube/interpreter-go/pkg/runtime"
)

// Bitwise operators. Operands are truncated to 32-bit integers.
const (
	OpBitNot     = "~"
	OpBitAnd     = "&"
	OpBitOr      = "|"
	OpBitXor     = "^"
	OpShiftLeft  = "<<"
	OpShiftRight = ">>"
	OpZeroFill   = ">>>"
)

type Bitwise1 struct {
	nodeImpl

	Op      string `json:"op"`
	Operand Node   `json:"operand"`
}

func NewBitwise1(operand Node, op string) (*Bitwise1, error) {
	if operand == nil {
		return nil, constructionErrorf("operator '%s' requires an operand", op)
	}
	if op != OpBitNot {
		return nil, constructionErrorf("unknown Bitwise1 operation '%s'", op)
	}
	if t := operand.StaticType(); !numeric(t) {
		return nil, mathTypeError(t)
	}
	return &Bitwise1{nodeImpl: newNodeImpl(NodeBitwise1, TypeNumber), Op: op, Operand: operand}, nil
}

func (b *Bitwise1) Evaluate(env *Env) (*runtime.Cell, error) {
	in, err := b.Operand.Evaluate(env)
	if err != nil {
		return nil, err
	}
	n := runtime.ToInt32(runtime.ToNumber(runtime.ValueOf(in)))
	env.release(in)
	return env.temp(runtime.NumberValue{Val: float64(^n)}), nil
}

type Bitwise2 struct {
	nodeImpl

	Op    string `json:"op"`
	Left  Node   `json:"left"`
	Right Node   `json:"right"`
}

func NewBitwise2(left, right Node, op string) (*Bitwise2, error) {
	if left == nil || right == nil {
		return nil, constructionErrorf("operator '%s' requires two operands", op)
	}
	switch op {
	case OpBitAnd, OpBitOr, OpBitXor, OpShiftLeft, OpShiftRight, OpZeroFill:
	default:
		return nil, constructionErrorf("unknown Bitwise2 operation '%s'", op)
	}
	if t := left.StaticType(); !numeric(t) {
		return nil, mathTypeError(t)
	}
	if t := right.StaticType(); !numeric(t) {
		return nil, mathTypeError(t)
	}
	return &Bitwise2{nodeImpl: newNodeImpl(NodeBitwise2, TypeNumber), Op: op, Left: left, Right: right}, nil
}

func (b *Bitwise2) Evaluate(env *Env) (*runtime.Cell, error) {
	lc, err := b.Left.Evaluate(env)
	if err != nil {
		return nil, err
	}
	rc, err := b.Right.Evaluate(env)
	if err != nil {
		env.release(lc)
		return nil, err
	}
	lf, rf := runtime.ToNumber(runtime.ValueOf(lc)), runtime.ToNumber(runtime.ValueOf(rc))
	env.release(lc, rc)

	l := runtime.ToInt32(lf)
	shift := runtime.ToUint32(rf) & 31
	var out float64
	switch b.Op {
	case OpBitAnd:
		out = float64(l & runtime.ToInt32(rf))
	case OpBitOr:
		out = float64(l | runtime.ToInt32(rf))
	case OpBitXor:
		out = float64(l ^ runtime.ToInt32(rf))
	case OpShiftLeft:
		out = float64(l << shift)
	case OpShiftRight:
		out = float64(l >> shift)
	case OpZeroFill:
		out = float64(runtime.ToUint32(lf) >> shift)
	default:
		return nil, fmt.Errorf("internal error: unknown Bitwise2 operation '%s'", b.Op)
	}
	return env.temp(runtime.NumberValue{Val: out}), nil
}
