package ast

import "tube/interpreter-go/pkg/runtime"

// Block evaluates its children in order. A scoped block opens a scope for
// the duration of the evaluation.
type Block struct {
	nodeImpl

	Children []Node `json:"children"`
	Scoped   bool   `json:"scoped,omitempty"`
}

func NewBlock(scoped bool, children ...Node) *Block {
	b := &Block{nodeImpl: newNodeImpl(NodeBlock, TypeVoid), Scoped: scoped}
	for _, child := range children {
		b.Add(child)
	}
	return b
}

// Add appends a child; nil children are dropped.
func (b *Block) Add(child Node) {
	if child != nil {
		b.Children = append(b.Children, child)
	}
}

func (b *Block) Evaluate(env *Env) (_ *runtime.Cell, err error) {
	if b.Scoped {
		env.Scopes.EnterScope()
		defer func() {
			if exitErr := env.Scopes.ExitScope(); exitErr != nil && err == nil {
				err = exitErr
			}
		}()
	}
	for _, child := range b.Children {
		cell, err := child.Evaluate(env)
		if err != nil {
			return nil, err
		}
		env.release(cell)
	}
	return nil, nil
}

// Sequence evaluates comma-separated expressions left to right and yields
// the last one's result.
type Sequence struct {
	nodeImpl

	Exprs []Node `json:"exprs"`
}

func NewSequence(exprs ...Node) (*Sequence, error) {
	if len(exprs) == 0 {
		return nil, constructionErrorf("sequence requires at least one expression")
	}
	for i, expr := range exprs {
		if expr == nil {
			return nil, constructionErrorf("sequence expression %d is missing", i+1)
		}
	}
	last := exprs[len(exprs)-1].StaticType()
	return &Sequence{nodeImpl: newNodeImpl(NodeSequence, last), Exprs: exprs}, nil
}

func (s *Sequence) Evaluate(env *Env) (*runtime.Cell, error) {
	last := len(s.Exprs) - 1
	for _, expr := range s.Exprs[:last] {
		if err := evaluateDiscard(env, expr); err != nil {
			return nil, err
		}
	}
	return s.Exprs[last].Evaluate(env)
}
