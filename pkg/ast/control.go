package ast

import "tube/interpreter-go/pkg/runtime"

// If evaluates exactly one branch; either branch may be nil.
type If struct {
	nodeImpl

	Condition Node `json:"condition"`
	Then      Node `json:"then,omitempty"`
	Else      Node `json:"else,omitempty"`
}

func NewIf(cond, then, els Node) (*If, error) {
	if err := checkCondition("if", cond); err != nil {
		return nil, err
	}
	return &If{nodeImpl: newNodeImpl(NodeIf, TypeVoid), Condition: cond, Then: then, Else: els}, nil
}

func checkCondition(stmt string, cond Node) error {
	if cond == nil {
		return constructionErrorf("%s statement requires a condition", stmt)
	}
	if cond.StaticType() == TypeVoid {
		return constructionErrorf("condition for %s statements must not be void", stmt)
	}
	return nil
}

func (n *If) Evaluate(env *Env) (*runtime.Cell, error) {
	ok, err := truthy(env, n.Condition)
	if err != nil {
		return nil, err
	}
	branch := n.Else
	if ok {
		branch = n.Then
	}
	return nil, evaluateDiscard(env, branch)
}

// truthy evaluates cond and casts it to Bool; a nil condition is true.
func truthy(env *Env, cond Node) (bool, error) {
	if cond == nil {
		return true, nil
	}
	cell, err := cond.Evaluate(env)
	if err != nil {
		return false, err
	}
	ok := runtime.ToBool(runtime.ValueOf(cell))
	env.release(cell)
	return ok, nil
}

func evaluateDiscard(env *Env, n Node) error {
	if n == nil {
		return nil
	}
	cell, err := n.Evaluate(env)
	if err != nil {
		return err
	}
	env.release(cell)
	return nil
}

// loopBody runs one iteration. done reports a consumed break.
func loopBody(env *Env, body Node) (done bool, err error) {
	err = evaluateDiscard(env, body)
	if IsBreak(err) {
		return true, nil
	}
	return false, err
}

type While struct {
	nodeImpl

	Condition Node `json:"condition"`
	Body      Node `json:"body,omitempty"`
}

func NewWhile(cond, body Node) (*While, error) {
	if err := checkCondition("while", cond); err != nil {
		return nil, err
	}
	return &While{nodeImpl: newNodeImpl(NodeWhile, TypeVoid), Condition: cond, Body: body}, nil
}

func (w *While) Evaluate(env *Env) (*runtime.Cell, error) {
	for {
		ok, err := truthy(env, w.Condition)
		if err != nil || !ok {
			return nil, err
		}
		done, err := loopBody(env, w.Body)
		if err != nil || done {
			return nil, err
		}
	}
}

// For runs Init once, then loops as: while (Test) { Body; Update }. Init
// declarations live in a scope that encloses the whole loop.
type For struct {
	nodeImpl

	Init   Node `json:"init,omitempty"`
	Test   Node `json:"test,omitempty"`
	Update Node `json:"update,omitempty"`
	Body   Node `json:"body,omitempty"`
}

func NewFor(init, test, update, body Node) (*For, error) {
	if test != nil && test.StaticType() == TypeVoid {
		return nil, constructionErrorf("condition for for statements must not be void")
	}
	return &For{nodeImpl: newNodeImpl(NodeFor, TypeVoid), Init: init, Test: test, Update: update, Body: body}, nil
}

func (f *For) Evaluate(env *Env) (_ *runtime.Cell, err error) {
	env.Scopes.EnterScope()
	defer func() {
		if exitErr := env.Scopes.ExitScope(); exitErr != nil && err == nil {
			err = exitErr
		}
	}()

	if err := evaluateDiscard(env, f.Init); err != nil {
		return nil, err
	}
	for {
		ok, err := truthy(env, f.Test)
		if err != nil || !ok {
			return nil, err
		}
		done, err := loopBody(env, f.Body)
		if err != nil || done {
			return nil, err
		}
		if err := evaluateDiscard(env, f.Update); err != nil {
			return nil, err
		}
	}
}

// ForIn assigns each property key of an Object to the iterator and runs the
// body once per key, in insertion order. Array operands are not supported.
type ForIn struct {
	nodeImpl

	Iterator   Node `json:"iterator"`
	Collection Node `json:"collection"`
	Body       Node `json:"body,omitempty"`
}

func NewForIn(iterator, collection, body Node) (*ForIn, error) {
	if iterator == nil || collection == nil {
		return nil, constructionErrorf("for-in requires an iterator and a collection")
	}
	if !Assignable(iterator) {
		return nil, constructionErrorf("invalid for-in iterator (%s)", iterator.NodeType())
	}
	switch t := collection.StaticType(); t {
	case TypeArray:
		return nil, constructionErrorf("for-in over an array is not supported")
	case TypeVoid:
		return nil, constructionErrorf("cannot iterate over a void expression")
	}
	return &ForIn{nodeImpl: newNodeImpl(NodeForIn, TypeVoid), Iterator: iterator, Collection: collection, Body: body}, nil
}

func (f *ForIn) Evaluate(env *Env) (_ *runtime.Cell, err error) {
	env.Scopes.EnterScope()
	defer func() {
		if exitErr := env.Scopes.ExitScope(); exitErr != nil && err == nil {
			err = exitErr
		}
	}()

	coll, err := f.Collection.Evaluate(env)
	if err != nil {
		return nil, err
	}
	defer env.release(coll)

	var keys []string
	switch v := runtime.ValueOf(coll).(type) {
	case runtime.ObjectValue:
		keys = v.Props.Keys()
	case runtime.ArrayValue:
		return nil, runtimeErrorf(f, "for-in over an array is not supported")
	default:
		return nil, nil
	}

	iter := f.Iterator.(assignable)
	var fixed *runtime.Cell
	if _, ok := iter.(*Member); !ok {
		if fixed, err = iter.target(env, true); err != nil {
			return nil, err
		}
	}
	for _, key := range keys {
		cell := fixed
		if cell == nil {
			if cell, err = iter.target(env, true); err != nil {
				return nil, err
			}
		}
		cell.Set(runtime.StringValue{Val: key})
		done, err := loopBody(env, f.Body)
		if err != nil || done {
			return nil, err
		}
	}
	return nil, nil
}

// Break leaves the innermost loop when loop breaks are enabled and is a
// no-op otherwise.
type Break struct {
	nodeImpl
}

func NewBreak() *Break {
	return &Break{nodeImpl: newNodeImpl(NodeBreak, TypeVoid)}
}

func (b *Break) Evaluate(env *Env) (*runtime.Cell, error) {
	if env.LoopBreak {
		return nil, breakSignal{}
	}
	return nil, nil
}
