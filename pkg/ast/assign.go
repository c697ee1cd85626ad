package ast

import "tube/interpreter-go/pkg/runtime"

// Assign stores the right side into the cell produced by the left side.
// Scalars are copied; Objects and Arrays alias.
type Assign struct {
	nodeImpl

	Left  Node `json:"left"`
	Right Node `json:"right"`
}

func NewAssign(lhs, rhs Node) (*Assign, error) {
	if lhs == nil || rhs == nil {
		return nil, constructionErrorf("assignment requires two operands")
	}
	if !Assignable(lhs) {
		return nil, constructionErrorf("invalid assignment target (%s)", lhs.NodeType())
	}
	lt, rt := lhs.StaticType(), rhs.StaticType()
	if lt != TypeAny && rt != TypeAny && lt != rt {
		return nil, constructionErrorf("types do not match for assignment (lhs='%s', rhs='%s')", lt, rt)
	}
	if m, ok := lhs.(*Member); ok {
		m.markAssignment()
	}
	return &Assign{nodeImpl: newNodeImpl(NodeAssign, rt), Left: lhs, Right: rhs}, nil
}

// Evaluate runs the right side first: an assignment-mode member binds a
// fresh cell, which must not hide the value the right side reads. An absent
// right side leaves an existing target untouched; a declaration is still
// bound and holds undefined.
func (a *Assign) Evaluate(env *Env) (*runtime.Cell, error) {
	rhs, err := a.Right.Evaluate(env)
	if err != nil {
		return nil, err
	}
	if rhs == nil {
		if decl, ok := a.Left.(*Declare); ok {
			return decl.target(env, true)
		}
		return nil, nil
	}
	dst, err := a.Left.(assignable).target(env, true)
	if err != nil {
		env.release(rhs)
		return nil, err
	}
	runtime.Assign(dst, rhs)
	if rhs != dst {
		env.release(rhs)
	}
	return dst, nil
}
