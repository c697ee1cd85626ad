package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"tube/interpreter-go/pkg/ast"
)

func spanFromNode(node *sitter.Node) ast.Span {
	if node == nil {
		return ast.Span{}
	}
	start := node.StartPosition()
	end := node.EndPosition()
	return ast.Span{
		Start: ast.Position{Line: int(start.Row) + 1, Column: int(start.Column) + 1},
		End:   ast.Position{Line: int(end.Row) + 1, Column: int(end.Column) + 1},
	}
}

func lineOf(node *sitter.Node) int {
	if node == nil {
		return 0
	}
	return int(node.StartPosition().Row) + 1
}

func annotate[T ast.Node](node T, tsNode *sitter.Node) T {
	ast.SetSpan(node, spanFromNode(tsNode))
	return node
}
