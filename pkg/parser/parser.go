package parser

import (
	"fmt"
	"maps"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"tube/interpreter-go/pkg/ast"
	"tube/interpreter-go/pkg/parser/language"
)

// SyntaxError reports source the grammar could not parse.
type SyntaxError struct {
	Line   int
	Column int
	Near   string
}

func (e *SyntaxError) Error() string {
	if e.Near != "" {
		return fmt.Sprintf("parser: syntax error at line %d, column %d near %q", e.Line, e.Column, e.Near)
	}
	return fmt.Sprintf("parser: syntax error at line %d, column %d", e.Line, e.Column)
}

// Parser turns Tube source into an AST. The global symbol table survives
// across Parse calls, so a session can refer to names declared by earlier
// input. A Parser is not safe for concurrent use.
type Parser struct {
	parser  *sitter.Parser
	globals map[string]bool
}

// New constructs a parser with the JavaScript grammar loaded.
func New() (*Parser, error) {
	lang := language.JavaScript()
	if lang == nil {
		return nil, fmt.Errorf("parser: javascript language not available")
	}
	p := sitter.NewParser()
	if err := p.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}
	return &Parser{parser: p, globals: make(map[string]bool)}, nil
}

// Close releases parser resources.
func (p *Parser) Close() {
	if p == nil || p.parser == nil {
		return
	}
	p.parser.Close()
}

// Declared reports whether name has been declared at top level.
func (p *Parser) Declared(name string) bool {
	return p.globals[name]
}

// Parse builds the program's top-level block. The block is unscoped: its
// declarations land in whatever scope the caller has entered. On error the
// global symbol table is left as it was before the call.
func (p *Parser) Parse(source []byte) (*ast.Block, error) {
	if p == nil || p.parser == nil {
		return nil, fmt.Errorf("parser: nil parser")
	}
	tree := p.parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("parser: parse failed")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.Kind() != "program" {
		return nil, fmt.Errorf("parser: unexpected root node")
	}
	if root.HasError() {
		return nil, syntaxError(root, source)
	}

	saved := maps.Clone(p.globals)
	c := &compiler{source: source, scopes: []map[string]bool{p.globals}}
	program := ast.NewBlock(false)
	for _, child := range namedChildren(root) {
		stmt, err := c.statement(child)
		if err != nil {
			p.globals = saved
			return nil, err
		}
		program.Add(stmt)
	}
	return annotate(program, root), nil
}

func syntaxError(root *sitter.Node, source []byte) error {
	bad := firstError(root)
	if bad == nil {
		bad = root
	}
	start := bad.StartPosition()
	near := sliceContent(bad, source)
	if len(near) > 20 {
		near = near[:20]
	}
	return &SyntaxError{Line: int(start.Row) + 1, Column: int(start.Column) + 1, Near: near}
}

func firstError(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && (child.HasError() || child.IsMissing()) {
			if found := firstError(child); found != nil {
				return found
			}
		}
	}
	return nil
}

// compiler carries the compile-time symbol table and loop nesting while one
// source is lowered to AST nodes.
type compiler struct {
	source []byte
	scopes []map[string]bool
	loops  int
}

func (c *compiler) text(node *sitter.Node) string {
	return sliceContent(node, c.source)
}

func (c *compiler) push() {
	c.scopes = append(c.scopes, make(map[string]bool))
}

func (c *compiler) pop() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

func (c *compiler) declare(name string) {
	c.scopes[len(c.scopes)-1][name] = true
}

func (c *compiler) resolve(name string) bool {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if c.scopes[i][name] {
			return true
		}
	}
	return false
}
