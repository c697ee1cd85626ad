package ast

// Position is a 1-based line/column pair.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Span covers the source text a node was built from.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// SetSpan annotates the node with the provided span.
func SetSpan(node Node, span Span) {
	if node == nil {
		return
	}
	if setter, ok := node.(interface{ setSpan(Span) }); ok {
		setter.setSpan(span)
	}
}

// AtLine is shorthand for a span that only knows its starting line.
func AtLine(node Node, line int) Node {
	SetSpan(node, Span{Start: Position{Line: line}, End: Position{Line: line}})
	return node
}
