package runtime

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func declare(t *testing.T, env *Environment, name string, v Value) *Cell {
	t.Helper()
	cell, err := env.Declare(name, KindVoid)
	require.NoError(t, err)
	cell.Set(v)
	return cell
}

func TestEnvironmentShadowingRestoresOuterBinding(t *testing.T) {
	env := NewEnvironment(nil)
	env.EnterScope()
	outer := declare(t, env, "x", NumberValue{Val: 1})

	env.EnterScope()
	inner := declare(t, env, "x", NumberValue{Val: 2})
	got, ok := env.Lookup("x")
	require.True(t, ok)
	require.Same(t, inner, got)
	require.Same(t, outer, inner.Shadowed())
	require.Equal(t, 1, inner.Depth())

	require.NoError(t, env.ExitScope())
	got, ok = env.Lookup("x")
	require.True(t, ok)
	require.Same(t, outer, got)
	n, _ := got.Number()
	require.Equal(t, 1.0, n)
}

func TestEnvironmentInnerOnlyNameBecomesAbsent(t *testing.T) {
	env := NewEnvironment(nil)
	env.EnterScope()
	env.EnterScope()
	declare(t, env, "y", BoolValue{Val: true})
	require.True(t, env.InCurrentScope("y"))
	require.NoError(t, env.ExitScope())

	_, ok := env.Lookup("y")
	require.False(t, ok)
	require.Len(t, env.Archived(), 1)
	require.Equal(t, "y", env.Archived()[0].Name())
}

func TestEnvironmentRedeclareInSameFrameUnwindsFully(t *testing.T) {
	env := NewEnvironment(nil)
	env.EnterScope()
	outer := declare(t, env, "v", StringValue{Val: "outer"})

	env.EnterScope()
	first := declare(t, env, "v", StringValue{Val: "a"})
	second := declare(t, env, "v", StringValue{Val: "b"})
	require.Same(t, first, second.Shadowed())
	got, _ := env.Lookup("v")
	require.Same(t, second, got)

	require.NoError(t, env.ExitScope())
	got, _ = env.Lookup("v")
	require.Same(t, outer, got)
}

func TestEnvironmentNestedSequences(t *testing.T) {
	env := NewEnvironment(nil)
	env.EnterScope()
	var cells []*Cell
	for depth := 0; depth < 5; depth++ {
		if depth > 0 {
			env.EnterScope()
		}
		cells = append(cells, declare(t, env, "n", NumberValue{Val: float64(depth)}))
	}
	for depth := 4; depth >= 0; depth-- {
		got, ok := env.Lookup("n")
		require.True(t, ok)
		require.Same(t, cells[depth], got)
		require.NoError(t, env.ExitScope())
	}
	_, ok := env.Lookup("n")
	require.False(t, ok)
	require.Equal(t, -1, env.Depth())
	require.ErrorIs(t, env.ExitScope(), ErrNoScope)
}

func TestEnvironmentReleaseContract(t *testing.T) {
	env := NewEnvironment(nil)
	env.EnterScope()
	tmp := env.NewTemporary(KindNumber)
	require.True(t, tmp.Temporary())
	require.Equal(t, -1, tmp.Depth())
	require.NoError(t, env.Release(tmp))
	require.True(t, tmp.Released())

	named := declare(t, env, "keep", NumberValue{Val: 3})
	err := env.Release(named)
	require.True(t, errors.Is(err, ErrNotTemporary))
	require.False(t, named.Released())
}

func TestEnvironmentDeclareWithoutScope(t *testing.T) {
	env := NewEnvironment(nil)
	_, err := env.Declare("x", KindNumber)
	require.ErrorIs(t, err, ErrNoScope)
}

func TestEnvironmentDeclareInitializesComposite(t *testing.T) {
	env := NewEnvironment(nil)
	env.EnterScope()
	cell, err := env.Declare("o", KindObject)
	require.NoError(t, err)
	props, ok := cell.Object()
	require.True(t, ok)
	require.Equal(t, 0, props.Len())
	require.Equal(t, []string{"o"}, env.Keys())
}
