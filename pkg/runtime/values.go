package runtime

import "fmt"

// Kind identifies the runtime value category held by a Cell.
type Kind int

const (
	KindNumber Kind = iota
	KindBool
	KindString
	KindObject
	KindArray
	KindReference
	KindVoid
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindReference:
		return "reference"
	case KindVoid:
		return "undefined"
	case KindNull:
		return "null"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the closed set of payloads a Cell can hold. The unexported marker
// keeps the set closed to this package.
type Value interface {
	Kind() Kind
	isValue()
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NumberValue struct {
	Val float64
}

func (NumberValue) Kind() Kind { return KindNumber }
func (NumberValue) isValue()   {}

type BoolValue struct {
	Val bool
}

func (BoolValue) Kind() Kind { return KindBool }
func (BoolValue) isValue()   {}

type StringValue struct {
	Val string
}

func (StringValue) Kind() Kind { return KindString }
func (StringValue) isValue()   {}

type VoidValue struct{}

func (VoidValue) Kind() Kind { return KindVoid }
func (VoidValue) isValue()   {}

type NullValue struct{}

func (NullValue) Kind() Kind { return KindNull }
func (NullValue) isValue()   {}

//-----------------------------------------------------------------------------
// Composites and indirection
//-----------------------------------------------------------------------------

// ObjectValue shares its property set by pointer: copying an ObjectValue
// aliases the same properties.
type ObjectValue struct {
	Props *Properties
}

func (ObjectValue) Kind() Kind { return KindObject }
func (ObjectValue) isValue()   {}

// ArrayValue shares its element map by pointer.
type ArrayValue struct {
	Elems *Elements
}

func (ArrayValue) Kind() Kind { return KindArray }
func (ArrayValue) isValue()   {}

// ReferenceValue makes a cell an alias of another cell.
type ReferenceValue struct {
	Target *Cell
}

func (ReferenceValue) Kind() Kind { return KindReference }
func (ReferenceValue) isValue()   {}

// ZeroValue returns the initial payload for a freshly declared cell of kind k.
// Composite kinds get a new, empty payload.
func ZeroValue(k Kind) Value {
	switch k {
	case KindNumber:
		return NumberValue{}
	case KindBool:
		return BoolValue{}
	case KindString:
		return StringValue{}
	case KindObject:
		return ObjectValue{Props: NewProperties()}
	case KindArray:
		return ArrayValue{Elems: NewElements()}
	case KindNull:
		return NullValue{}
	default:
		return VoidValue{}
	}
}
