package ast

import "fmt"

// ConstructionError is a static type or arity mismatch found while building
// a node. It is always fatal to the front end.
type ConstructionError struct {
	Line    int
	Message string
}

func (e *ConstructionError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

func constructionErrorf(format string, args ...any) *ConstructionError {
	return &ConstructionError{Message: fmt.Sprintf(format, args...)}
}

// RuntimeError is raised while evaluating: missing properties or indices,
// unsupported operands, and cell contract violations.
type RuntimeError struct {
	Line    int
	Message string
	Err     error
}

func (e *RuntimeError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

func (e *RuntimeError) Unwrap() error { return e.Err }

func runtimeErrorf(n Node, format string, args ...any) *RuntimeError {
	return &RuntimeError{Line: n.Span().Start.Line, Message: fmt.Sprintf(format, args...)}
}

func mathTypeError(t Type) *ConstructionError {
	return constructionErrorf("cannot use type '%s' in mathematical expressions", t)
}
