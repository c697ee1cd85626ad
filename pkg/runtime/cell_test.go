package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssignCopiesScalars(t *testing.T) {
	a := NewCell(NumberValue{Val: 5})
	b := NewCell(nil)
	Assign(b, a)
	a.Set(NumberValue{Val: 6})

	n, ok := b.Number()
	require.True(t, ok)
	require.Equal(t, 5.0, n)
}

func TestAssignAliasesComposites(t *testing.T) {
	a := NewCell(nil)
	a.InitObject()
	b := NewCell(nil)
	Assign(b, a)
	require.Equal(t, KindReference, b.Kind())
	require.Same(t, a, b.Deref())

	props, ok := b.Object()
	require.True(t, ok)
	props.Set("k", NewCell(NumberValue{Val: 1}))

	viaA, ok := a.Object()
	require.True(t, ok)
	k, ok := viaA.Get("k")
	require.True(t, ok)
	n, _ := k.Number()
	require.Equal(t, 1.0, n)
}

func TestAssignRebindChangesTag(t *testing.T) {
	arr := NewCell(nil)
	arr.InitArray()
	x := NewCell(StringValue{Val: "s"})
	Assign(x, arr)
	require.Equal(t, KindArray, KindOf(x))

	Assign(x, NewCell(BoolValue{Val: true}))
	require.Equal(t, KindBool, x.Kind())
	_, ok := arr.Array()
	require.True(t, ok, "rebinding the alias must not touch the original")
}

func TestAssignSelfIsNoop(t *testing.T) {
	a := NewCell(nil)
	a.InitObject()
	b := NewCell(nil)
	Assign(b, a)
	Assign(a, b)
	require.Equal(t, KindObject, a.Kind())
	require.Same(t, a, b.Deref())
}

func TestTypedAccessorsCheckTag(t *testing.T) {
	c := NewCell(StringValue{Val: "x"})
	_, ok := c.Number()
	require.False(t, ok)
	s, ok := c.Str()
	require.True(t, ok)
	require.Equal(t, "x", s)
}

func TestElementsOrderingAndNext(t *testing.T) {
	e := NewElements()
	require.Equal(t, 0, e.Next())
	e.Set(5, NewCell(NumberValue{Val: 5}))
	e.Set(1, NewCell(NumberValue{Val: 1}))
	require.Equal(t, []int{1, 5}, e.Indices())
	require.Equal(t, 6, e.Next())
	cell, ok := e.Delete(5)
	require.True(t, ok)
	require.NotNil(t, cell)
	require.Equal(t, 2, e.Next())
}

func TestPropertiesKeepInsertionOrder(t *testing.T) {
	p := NewProperties()
	p.Set("b", NewCell(nil))
	p.Set("a", NewCell(nil))
	p.Set("b", NewCell(NumberValue{Val: 2}))
	require.Equal(t, []string{"b", "a"}, p.Keys())
	_, ok := p.Delete("b")
	require.True(t, ok)
	require.Equal(t, []string{"a"}, p.Keys())
}
