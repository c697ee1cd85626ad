package runtime

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Coercion rules shared by assignment, arithmetic, comparison, the explicit
// cast nodes, Print and Join. A nil Value stands for an absent operand.

// ValueOf returns the dereferenced payload of c, or nil when c is absent.
func ValueOf(c *Cell) Value {
	if c == nil {
		return nil
	}
	return c.Deref().value
}

// KindOf returns the dynamic tag of c after dereferencing; absent is Void.
func KindOf(c *Cell) Kind {
	v := ValueOf(c)
	if v == nil {
		return KindVoid
	}
	return v.Kind()
}

// ToBool casts to Bool: nonzero non-NaN numbers and non-empty strings are
// true, composites are true, null and undefined are false.
func ToBool(v Value) bool {
	switch val := v.(type) {
	case nil:
		return false
	case BoolValue:
		return val.Val
	case NumberValue:
		return val.Val != 0 && !math.IsNaN(val.Val)
	case StringValue:
		return val.Val != ""
	case ObjectValue, ArrayValue:
		return true
	case NullValue, VoidValue:
		return false
	case ReferenceValue:
		return ToBool(ValueOf(val.Target))
	default:
		panic(fmt.Sprintf("runtime: ToBool on %T", v))
	}
}

// ToNumber casts to Number: strings are parsed (non-numeric text is NaN),
// true/false map to 1/0, null is 0, absent and composites are NaN.
func ToNumber(v Value) float64 {
	switch val := v.(type) {
	case nil:
		return math.NaN()
	case NumberValue:
		return val.Val
	case BoolValue:
		if val.Val {
			return 1
		}
		return 0
	case StringValue:
		return ParseNumberString(val.Val)
	case NullValue:
		return 0
	case VoidValue, ObjectValue, ArrayValue:
		return math.NaN()
	case ReferenceValue:
		return ToNumber(ValueOf(val.Target))
	default:
		panic(fmt.Sprintf("runtime: ToNumber on %T", v))
	}
}

// ToString casts to String using the canonical textual forms.
func ToString(v Value) string {
	return toString(v, nil)
}

func toString(v Value, seen map[*Elements]bool) string {
	switch val := v.(type) {
	case nil, VoidValue:
		return "undefined"
	case NumberValue:
		return FormatNumber(val.Val)
	case BoolValue:
		if val.Val {
			return "true"
		}
		return "false"
	case StringValue:
		return val.Val
	case NullValue:
		return "null"
	case ObjectValue:
		return "[object Object]"
	case ArrayValue:
		if seen[val.Elems] {
			return ""
		}
		if seen == nil {
			seen = make(map[*Elements]bool)
		}
		seen[val.Elems] = true
		defer delete(seen, val.Elems)
		parts := make([]string, 0, val.Elems.Len())
		for _, cell := range val.Elems.Cells() {
			parts = append(parts, toString(ValueOf(cell), seen))
		}
		return strings.Join(parts, ",")
	case ReferenceValue:
		return toString(ValueOf(val.Target), seen)
	default:
		panic(fmt.Sprintf("runtime: ToString on %T", v))
	}
}

// Join concatenates the String cast of each element in index order with sep
// between consecutive elements.
func Join(elems *Elements, sep string) string {
	var b strings.Builder
	for i, cell := range elems.Cells() {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(ToString(ValueOf(cell)))
	}
	return b.String()
}

// FormatNumber renders a Number the way StringCast, Print and string
// concatenation all do: integral values without a fraction, shortest
// round-trip digits otherwise, exponent form outside [1e-6, 1e21).
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		n, err := strconv.Atoi(exp)
		if err != nil {
			return s
		}
		if n >= 0 {
			return mant + "e+" + strconv.Itoa(n)
		}
		return mant + "e" + strconv.Itoa(n)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseNumberLiteral parses a Number literal lexeme: "0x"/"0X" hexadecimal,
// a leading zero followed only by octal digits is octal, anything else is
// decimal.
func ParseNumberLiteral(lexeme string) (float64, error) {
	lex := strings.ReplaceAll(lexeme, "_", "")
	switch {
	case len(lex) > 2 && lex[0] == '0' && (lex[1] == 'x' || lex[1] == 'X'):
		n, err := strconv.ParseUint(lex[2:], 16, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid hex literal %q", lexeme)
		}
		return float64(n), nil
	case len(lex) > 2 && lex[0] == '0' && (lex[1] == 'o' || lex[1] == 'O'):
		n, err := strconv.ParseUint(lex[2:], 8, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid octal literal %q", lexeme)
		}
		return float64(n), nil
	case len(lex) > 2 && lex[0] == '0' && (lex[1] == 'b' || lex[1] == 'B'):
		n, err := strconv.ParseUint(lex[2:], 2, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid binary literal %q", lexeme)
		}
		return float64(n), nil
	case len(lex) > 1 && lex[0] == '0' && isOctalDigits(lex[1:]):
		n, err := strconv.ParseUint(lex[1:], 8, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid octal literal %q", lexeme)
		}
		return float64(n), nil
	}
	f, err := strconv.ParseFloat(lex, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number literal %q", lexeme)
	}
	return f, nil
}

func isOctalDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '7' {
			return false
		}
	}
	return s != ""
}

var decimalText = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ParseNumberString is the String-to-Number cast: surrounding whitespace is
// ignored, empty text is 0, hex and Infinity spellings are accepted, and any
// other non-numeric text is NaN.
func ParseNumberString(s string) float64 {
	text := strings.TrimSpace(s)
	switch text {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(text) > 2 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X') {
		n, err := strconv.ParseUint(text[2:], 16, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	if !decimalText.MatchString(text) {
		return math.NaN()
	}
	// Out-of-range magnitudes report an error but still yield ±Inf or 0.
	f, _ := strconv.ParseFloat(text, 64)
	return f
}

// StrictEquals requires the same tag and an equal payload. NaN is never
// strictly equal to anything; composites compare by identity.
func StrictEquals(a, b Value) bool {
	a, b = normalizeAbsent(a), normalizeAbsent(b)
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case NumberValue:
		return av.Val == b.(NumberValue).Val
	case BoolValue:
		return av.Val == b.(BoolValue).Val
	case StringValue:
		return av.Val == b.(StringValue).Val
	case ObjectValue:
		return av.Props == b.(ObjectValue).Props
	case ArrayValue:
		return av.Elems == b.(ArrayValue).Elems
	case NullValue, VoidValue:
		return true
	default:
		panic(fmt.Sprintf("runtime: StrictEquals on %T", a))
	}
}

// AbstractEquals tries strict equality for same-tag operands, treats null and
// absent as equal to each other, and compares Number/Bool/String cross-tag
// pairs by their numeric cast.
func AbstractEquals(a, b Value) bool {
	a, b = normalizeAbsent(a), normalizeAbsent(b)
	if a.Kind() == b.Kind() {
		return StrictEquals(a, b)
	}
	if nullish(a) && nullish(b) {
		return true
	}
	if scalar(a) && scalar(b) {
		return ToNumber(a) == ToNumber(b)
	}
	return false
}

func normalizeAbsent(v Value) Value {
	switch val := v.(type) {
	case nil:
		return VoidValue{}
	case ReferenceValue:
		return normalizeAbsent(ValueOf(val.Target))
	default:
		return v
	}
}

func nullish(v Value) bool {
	k := v.Kind()
	return k == KindNull || k == KindVoid
}

func scalar(v Value) bool {
	switch v.Kind() {
	case KindNumber, KindBool, KindString:
		return true
	default:
		return false
	}
}

// ToInt32 truncates a Number to a signed 32-bit integer, wrapping modulo 2^32.
// NaN and infinities become 0.
func ToInt32(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int32(uint32(int64(math.Mod(math.Trunc(f), 4294967296))))
}

func ToUint32(f float64) uint32 {
	return uint32(ToInt32(f))
}
