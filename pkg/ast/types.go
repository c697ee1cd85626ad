package ast

import "fmt"

// Type is the static type a node is given at construction. TypeAny marks a
// value only known at run time (variables, member reads).
type Type int

const (
	TypeAny Type = iota
	TypeVoid
	TypeNumber
	TypeBool
	TypeString
	TypeObject
	TypeArray
	TypeNull
)

func (t Type) String() string {
	switch t {
	case TypeAny:
		return "any"
	case TypeVoid:
		return "void"
	case TypeNumber:
		return "number"
	case TypeBool:
		return "boolean"
	case TypeString:
		return "string"
	case TypeObject:
		return "object"
	case TypeArray:
		return "array"
	case TypeNull:
		return "null"
	default:
		return fmt.Sprintf("unknown_type_%d", int(t))
	}
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// numeric reports whether t may flow into arithmetic.
func numeric(t Type) bool {
	return t == TypeNumber || t == TypeAny
}

func arrayLike(t Type) bool {
	return t == TypeArray || t == TypeAny
}
