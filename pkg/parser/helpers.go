package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"tube/interpreter-go/pkg/ast"
)

func sliceContent(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := int(node.StartByte())
	end := int(node.EndByte())
	if start < 0 || end < start || end > len(source) {
		return ""
	}
	return string(source[start:end])
}

func isIgnorableNode(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	switch node.Kind() {
	case "comment", "hash_bang_line":
		return true
	default:
		return false
	}
}

// namedChildren returns the named, non-comment children of node.
func namedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || isIgnorableNode(child) {
			continue
		}
		out = append(out, child)
	}
	return out
}

func firstNamedChild(node *sitter.Node) *sitter.Node {
	children := namedChildren(node)
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

// operatorText returns the operator token of a unary, binary or assignment
// node.
func operatorText(node *sitter.Node, source []byte) string {
	if op := node.ChildByFieldName("operator"); op != nil {
		return strings.TrimSpace(sliceContent(op, source))
	}
	return ""
}

// errorf builds a construction error positioned at node.
func errorf(node *sitter.Node, format string, args ...any) error {
	return &ast.ConstructionError{Line: lineOf(node), Message: fmt.Sprintf(format, args...)}
}

// atLine stamps a line onto construction errors raised by ast constructors.
func atLine(err error, node *sitter.Node) error {
	var cerr *ast.ConstructionError
	if errors.As(err, &cerr) && cerr.Line == 0 {
		cerr.Line = lineOf(node)
	}
	return err
}

// unquote strips the quotes from a string literal and resolves its escapes.
func unquote(raw string) (string, error) {
	if len(raw) < 2 {
		return "", fmt.Errorf("malformed string literal %s", raw)
	}
	body := raw[1 : len(raw)-1]
	if !strings.Contains(body, `\`) {
		return body, nil
	}
	var b strings.Builder
	for len(body) > 0 {
		if body[0] != '\\' || len(body) < 2 {
			r, size := utf8.DecodeRuneInString(body)
			b.WriteRune(r)
			body = body[size:]
			continue
		}
		switch c := body[1]; c {
		case '\'', '"', '`':
			b.WriteByte(c)
			body = body[2:]
			continue
		case '\n':
			body = body[2:]
			continue
		case '0':
			if len(body) == 2 || body[2] < '0' || body[2] > '9' {
				b.WriteByte(0)
				body = body[2:]
				continue
			}
		case 'u':
			if len(body) > 2 && body[2] == '{' {
				end := strings.IndexByte(body, '}')
				if end < 0 {
					return "", fmt.Errorf("malformed unicode escape in %s", raw)
				}
				n, err := strconv.ParseUint(body[3:end], 16, 32)
				if err != nil {
					return "", fmt.Errorf("malformed unicode escape in %s", raw)
				}
				b.WriteRune(rune(n))
				body = body[end+1:]
				continue
			}
		}
		r, _, tail, err := strconv.UnquoteChar(body, 0)
		if err != nil {
			return "", fmt.Errorf("invalid escape in %s", raw)
		}
		b.WriteRune(r)
		body = tail
	}
	return b.String(), nil
}
