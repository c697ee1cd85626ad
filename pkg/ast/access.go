package ast

import (
	"strconv"
	"unicode/utf8"

	"tube/interpreter-go/pkg/runtime"
)

// Member is a property access (o.k) or an index access (o[e]). The key is
// cast to String before lookup. In assignment mode the access always binds a
// fresh cell at the key and returns it for the caller to assign into.
type Member struct {
	nodeImpl

	Target     Node `json:"target"`
	Key        Node `json:"key"`
	Assignment bool `json:"assignment,omitempty"`
}

// NewProperty builds o.name.
func NewProperty(target Node, name string) (*Member, error) {
	if target == nil {
		return nil, constructionErrorf("property access requires a target")
	}
	key, err := NewLiteral(TypeString, name)
	if err != nil {
		return nil, err
	}
	if err := checkMemberTarget(target.StaticType()); err != nil {
		return nil, err
	}
	return &Member{nodeImpl: newNodeImpl(NodeProperty, TypeAny), Target: target, Key: key}, nil
}

// NewIndex builds o[index].
func NewIndex(target, index Node) (*Member, error) {
	if target == nil || index == nil {
		return nil, constructionErrorf("index access requires a target and an index")
	}
	if err := checkMemberTarget(target.StaticType()); err != nil {
		return nil, err
	}
	if index.StaticType() == TypeVoid {
		return nil, constructionErrorf("cannot index with a void expression")
	}
	return &Member{nodeImpl: newNodeImpl(NodeIndex, TypeAny), Target: target, Key: index}, nil
}

func checkMemberTarget(t Type) error {
	switch t {
	case TypeNumber, TypeBool, TypeVoid, TypeNull:
		return constructionErrorf("cannot access members of type '%s'", t)
	default:
		return nil
	}
}

func (m *Member) markAssignment() { m.Assignment = true }

func (m *Member) Evaluate(env *Env) (*runtime.Cell, error) {
	return m.resolve(env, m.Assignment)
}

func (m *Member) target(env *Env, fresh bool) (*runtime.Cell, error) {
	return m.resolve(env, fresh)
}

func (m *Member) resolve(env *Env, fresh bool) (*runtime.Cell, error) {
	holder, key, err := m.operands(env)
	if err != nil {
		return nil, err
	}
	if holder == nil {
		if fresh {
			return nil, runtimeErrorf(m, "cannot set property '%s' of undefined", key)
		}
		return env.missing(m, "cannot read property '%s' of undefined", key)
	}
	defer env.release(holder)

	switch v := holder.Deref().Value().(type) {
	case runtime.ObjectValue:
		if fresh {
			cell := runtime.NewCell(nil)
			v.Props.Set(key, cell)
			return cell, nil
		}
		if cell, ok := v.Props.Get(key); ok {
			return cell, nil
		}
		return env.missing(m, "missing property '%s'", key)
	case runtime.ArrayValue:
		if key == "length" && !fresh {
			return env.temp(runtime.NumberValue{Val: float64(v.Elems.Next())}), nil
		}
		idx, ok := arrayIndex(key)
		if !ok {
			if fresh {
				return nil, runtimeErrorf(m, "invalid array index '%s'", key)
			}
			return env.missing(m, "invalid array index '%s'", key)
		}
		if fresh {
			cell := runtime.NewCell(nil)
			v.Elems.Set(idx, cell)
			return cell, nil
		}
		if cell, ok := v.Elems.Get(idx); ok {
			return cell, nil
		}
		return env.missing(m, "missing index %d", idx)
	case runtime.StringValue:
		if fresh {
			return nil, runtimeErrorf(m, "cannot assign into a string")
		}
		if key == "length" {
			return env.temp(runtime.NumberValue{Val: float64(utf8.RuneCountInString(v.Val))}), nil
		}
		if idx, ok := arrayIndex(key); ok {
			runes := []rune(v.Val)
			if idx < len(runes) {
				return env.temp(runtime.StringValue{Val: string(runes[idx])}), nil
			}
		}
		return env.missing(m, "missing index '%s' of string", key)
	default:
		if fresh {
			return nil, runtimeErrorf(m, "cannot set property '%s' of %s", key, v.Kind())
		}
		return env.missing(m, "cannot read property '%s' of %s", key, v.Kind())
	}
}

// operands evaluates the target and the key; the key is cast to String and
// released.
func (m *Member) operands(env *Env) (*runtime.Cell, string, error) {
	holder, err := m.Target.Evaluate(env)
	if err != nil {
		return nil, "", err
	}
	keyCell, err := m.Key.Evaluate(env)
	if err != nil {
		env.release(holder)
		return nil, "", err
	}
	key := runtime.ToString(runtime.ValueOf(keyCell))
	env.release(keyCell)
	if holder != nil && holder.Deref().Kind() == runtime.KindVoid {
		env.release(holder)
		holder = nil
	}
	return holder, key, nil
}

// remove unlinks the entry at the key from its container and releases it.
func (m *Member) remove(env *Env) error {
	holder, key, err := m.operands(env)
	if err != nil {
		return err
	}
	if holder == nil {
		_, err := env.missing(m, "cannot delete property '%s' of undefined", key)
		return err
	}
	defer env.release(holder)

	var (
		cell  *runtime.Cell
		found bool
	)
	switch v := holder.Deref().Value().(type) {
	case runtime.ObjectValue:
		cell, found = v.Props.Delete(key)
	case runtime.ArrayValue:
		if idx, ok := arrayIndex(key); ok {
			cell, found = v.Elems.Delete(idx)
		}
	default:
		return runtimeErrorf(m, "cannot delete property '%s' of %s", key, v.Kind())
	}
	if !found {
		_, err := env.missing(m, "missing property '%s'", key)
		return err
	}
	env.Scopes.Unlink(cell)
	return nil
}

// arrayIndex parses a canonical non-negative integer key.
func arrayIndex(key string) (int, bool) {
	n, err := strconv.Atoi(key)
	if err != nil || n < 0 || strconv.Itoa(n) != key {
		return 0, false
	}
	return n, true
}
