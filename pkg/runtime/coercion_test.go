package runtime

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func num(f float64) Value  { return NumberValue{Val: f} }
func str(s string) Value   { return StringValue{Val: s} }
func boolean(b bool) Value { return BoolValue{Val: b} }

func TestStrictEquals(t *testing.T) {
	nan := num(math.NaN())
	obj := ObjectValue{Props: NewProperties()}
	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nan-nan", nan, nan, false},
		{"one-one", num(1), num(1), true},
		{"one-string-one", num(1), str("1"), false},
		{"bools", boolean(true), boolean(true), true},
		{"strings", str("a"), str("b"), false},
		{"same-object", obj, obj, true},
		{"distinct-objects", obj, ObjectValue{Props: NewProperties()}, false},
		{"null-null", NullValue{}, NullValue{}, true},
		{"absent-absent", nil, nil, true},
		{"null-absent", NullValue{}, nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, StrictEquals(tc.a, tc.b))
		})
	}
}

func TestAbstractEquals(t *testing.T) {
	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"number-string", num(1), str("1"), true},
		{"number-bool", num(1), boolean(true), true},
		{"zero-false", num(0), boolean(false), true},
		{"string-bool", str("1"), boolean(true), true},
		{"absent-absent", nil, nil, true},
		{"null-absent", NullValue{}, nil, true},
		{"nan-nan", num(math.NaN()), num(math.NaN()), false},
		{"text-number", str("abc"), num(0), false},
		{"object-number", ObjectValue{Props: NewProperties()}, num(0), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, AbstractEquals(tc.a, tc.b))
		})
	}
}

func TestParseNumberLiteral(t *testing.T) {
	cases := map[string]float64{
		"0x10":  16,
		"0XfF":  255,
		"010":   8,
		"10":    10,
		"0":     0,
		"0.5":   0.5,
		"09":    9,
		"1e3":   1000,
		"0o17":  15,
		"0b101": 5,
	}
	for lex, want := range cases {
		got, err := ParseNumberLiteral(lex)
		require.NoError(t, err, lex)
		require.Equal(t, want, got, lex)
	}
	_, err := ParseNumberLiteral("0xZZ")
	require.Error(t, err)
}

func TestToNumber(t *testing.T) {
	require.Equal(t, 42.0, ToNumber(str(" 42 ")))
	require.Equal(t, 0.0, ToNumber(str("")))
	require.Equal(t, 16.0, ToNumber(str("0x10")))
	require.True(t, math.IsNaN(ToNumber(str("4x"))))
	require.True(t, math.IsNaN(ToNumber(nil)))
	require.Equal(t, 1.0, ToNumber(boolean(true)))
	require.Equal(t, 0.0, ToNumber(boolean(false)))
	require.Equal(t, 0.0, ToNumber(NullValue{}))
	require.True(t, math.IsInf(ToNumber(str("-Infinity")), -1))
}

func TestToBool(t *testing.T) {
	require.True(t, ToBool(num(-3)))
	require.False(t, ToBool(num(0)))
	require.False(t, ToBool(num(math.NaN())))
	require.True(t, ToBool(str("0")))
	require.False(t, ToBool(str("")))
	require.False(t, ToBool(nil))
	require.False(t, ToBool(NullValue{}))
	require.True(t, ToBool(ArrayValue{Elems: NewElements()}))
}

func TestToStringAndFormatNumber(t *testing.T) {
	cases := map[string]Value{
		"1":               num(1),
		"-2.5":            num(-2.5),
		"0.1":             num(0.1),
		"0":               num(math.Copysign(0, -1)),
		"NaN":             num(math.NaN()),
		"Infinity":        num(math.Inf(1)),
		"1e+21":           num(1e21),
		"1e-7":            num(1e-7),
		"123456789012":    num(123456789012),
		"true":            boolean(true),
		"null":            NullValue{},
		"undefined":       nil,
		"[object Object]": ObjectValue{Props: NewProperties()},
	}
	for want, v := range cases {
		require.Equal(t, want, ToString(v))
	}
}

func TestArrayToStringAndJoin(t *testing.T) {
	elems := NewElements()
	elems.Set(0, NewCell(num(1)))
	elems.Set(1, NewCell(str("b")))
	elems.Set(2, NewCell(boolean(false)))
	require.Equal(t, "1,b,false", ToString(ArrayValue{Elems: elems}))
	require.Equal(t, "1 - b - false", Join(elems, " - "))

	// An array containing itself renders the inner occurrence as empty.
	self := NewCell(ArrayValue{Elems: elems})
	elems.Set(3, self)
	require.Equal(t, "1,b,false,", ToString(ArrayValue{Elems: elems}))
}

func TestToInt32(t *testing.T) {
	require.Equal(t, int32(3), ToInt32(3.9))
	require.Equal(t, int32(-3), ToInt32(-3.9))
	require.Equal(t, int32(-1), ToInt32(4294967295))
	require.Equal(t, int32(0), ToInt32(math.NaN()))
	require.Equal(t, uint32(4294967295), ToUint32(-1))
}

func TestFormatNumberKeepsFullPrecision(t *testing.T) {
	third := 1.0
	third /= 3
	sum := 0.1
	sum += 0.2
	require.Equal(t, "1234567", FormatNumber(1234567))
	require.Equal(t, "0.30000000000000004", FormatNumber(sum))
	require.Equal(t, "0.3333333333333333", FormatNumber(third))
	require.Equal(t, 1.0/3, ParseNumberString(FormatNumber(third)))
}

func TestKindNames(t *testing.T) {
	names := map[Kind]string{
		KindNumber: "number",
		KindBool:   "boolean",
		KindString: "string",
		KindObject: "object",
		KindArray:  "array",
		KindVoid:   "undefined",
		KindNull:   "null",
	}
	for kind, want := range names {
		require.Equal(t, want, kind.String())
	}
}
