package ast

import (
	"fmt"
	"io"
	"log/slog"

	"tube/interpreter-go/pkg/runtime"
)

type NodeType string

const (
	NodeBlock         NodeType = "Block"
	NodeSequence      NodeType = "Sequence"
	NodeVariable      NodeType = "Variable"
	NodeDeclare       NodeType = "Declare"
	NodeLiteral       NodeType = "Literal"
	NodeObjectLiteral NodeType = "ObjectLiteral"
	NodeArrayLiteral  NodeType = "ArrayLiteral"
	NodeProperty      NodeType = "Property"
	NodeIndex         NodeType = "Index"
	NodeAssign        NodeType = "Assign"
	NodeMath1         NodeType = "Math1"
	NodeMath2         NodeType = "Math2"
	NodeComparison    NodeType = "Comparison"
	NodeBoolCast      NodeType = "BoolCast"
	NodeNumberCast    NodeType = "NumberCast"
	NodeStringCast    NodeType = "StringCast"
	NodeBool1         NodeType = "Bool1"
	NodeBool2         NodeType = "Bool2"
	NodeBitwise1      NodeType = "Bitwise1"
	NodeBitwise2      NodeType = "Bitwise2"
	NodeIf            NodeType = "If"
	NodeWhile         NodeType = "While"
	NodeFor           NodeType = "For"
	NodeForIn         NodeType = "ForIn"
	NodeBreak         NodeType = "Break"
	NodePrint         NodeType = "Print"
	NodeDelete        NodeType = "Delete"
	NodeTypeOf        NodeType = "TypeOf"
	NodeVoid          NodeType = "Void"
	NodeJoin          NodeType = "Join"
	NodePush          NodeType = "Push"
	NodePop           NodeType = "Pop"
)

// Node is one AST variant. Evaluate returns the cell holding the node's
// result, or nil for constructs that produce nothing. Temporaries in the
// result belong to the caller.
type Node interface {
	NodeType() NodeType
	StaticType() Type
	Span() Span
	Evaluate(env *Env) (*runtime.Cell, error)
}

type nodeImpl struct {
	Type   NodeType `json:"type"`
	Static Type     `json:"static"`
	Loc    Span     `json:"span"`
}

func newNodeImpl(kind NodeType, static Type) nodeImpl {
	return nodeImpl{Type: kind, Static: static}
}

func (n *nodeImpl) NodeType() NodeType { return n.Type }
func (n *nodeImpl) StaticType() Type   { return n.Static }
func (n *nodeImpl) Span() Span         { return n.Loc }
func (n *nodeImpl) setSpan(s Span)     { n.Loc = s }

// Env carries the state one evaluation run threads through Evaluate.
type Env struct {
	Scopes *runtime.Environment
	Out    io.Writer
	Logger *slog.Logger

	// Report receives runtime lookup errors when Strict is off.
	Report func(*RuntimeError)
	// Strict turns missing property/index reads into evaluation errors.
	Strict bool
	// LoopBreak makes Break leave the innermost loop instead of doing nothing.
	LoopBreak bool
}

// NewEnv returns an Env over scopes writing to out.
func NewEnv(scopes *runtime.Environment, out io.Writer) *Env {
	return &Env{Scopes: scopes, Out: out, Logger: slog.New(slog.DiscardHandler)}
}

func (e *Env) release(cells ...*runtime.Cell) {
	for _, c := range cells {
		e.Scopes.ReleaseIfTemporary(c)
	}
}

func (e *Env) temp(v runtime.Value) *runtime.Cell {
	return e.Scopes.Temporary(v)
}

// missing handles a failed property/index read: in strict mode it is an
// error, otherwise it is reported and the read yields no cell.
func (e *Env) missing(n Node, format string, args ...any) (*runtime.Cell, error) {
	err := &RuntimeError{Line: n.Span().Start.Line, Message: fmt.Sprintf(format, args...)}
	if e.Strict {
		return nil, err
	}
	if e.Report != nil {
		e.Report(err)
	}
	if e.Logger != nil {
		e.Logger.Debug("runtime lookup failed", "line", err.Line, "error", err.Message)
	}
	return nil, nil
}

// assignable nodes can produce the cell an assignment writes into. fresh asks
// members to bind a new cell at their key instead of returning the old one.
type assignable interface {
	Node
	target(env *Env, fresh bool) (*runtime.Cell, error)
}

// Assignable reports whether n may appear on the left of an assignment.
func Assignable(n Node) bool {
	_, ok := n.(assignable)
	return ok
}

// breakSignal unwinds to the innermost loop when loop breaks are enabled.
type breakSignal struct{}

func (breakSignal) Error() string { return "break outside of loop" }

// IsBreak reports whether err is an unconsumed break.
func IsBreak(err error) bool {
	_, ok := err.(breakSignal)
	return ok
}
