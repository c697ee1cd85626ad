package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"tube/interpreter-go/pkg/ast"
)

// statement lowers one statement. A nil node with a nil error means the
// statement produces nothing (empty statements).
func (c *compiler) statement(node *sitter.Node) (ast.Node, error) {
	switch node.Kind() {
	case "expression_statement":
		expr := firstNamedChild(node)
		if expr == nil {
			return nil, nil
		}
		return c.expression(expr)
	case "lexical_declaration", "variable_declaration":
		return c.declaration(node)
	case "statement_block":
		return c.block(node)
	case "if_statement":
		return c.ifStatement(node)
	case "while_statement":
		return c.whileStatement(node)
	case "for_statement":
		return c.forStatement(node)
	case "for_in_statement":
		return c.forInStatement(node)
	case "break_statement":
		if node.ChildByFieldName("label") != nil {
			return nil, errorf(node, "labeled break is not supported")
		}
		if c.loops == 0 {
			return nil, errorf(node, "break outside of loop")
		}
		return annotate(ast.NewBreak(), node), nil
	case "empty_statement":
		return nil, nil
	default:
		return nil, errorf(node, "unsupported statement '%s'", node.Kind())
	}
}

// declaration lowers let/const/var. Each initializer is compiled before its
// name is declared, matching the run-time order of Assign.
func (c *compiler) declaration(node *sitter.Node) (ast.Node, error) {
	var out []ast.Node
	for _, child := range namedChildren(node) {
		if child.Kind() != "variable_declarator" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil || nameNode.Kind() != "identifier" {
			return nil, errorf(child, "destructuring declarations are not supported")
		}
		name := c.text(nameNode)

		var rhs ast.Node
		if valueNode := child.ChildByFieldName("value"); valueNode != nil {
			var err error
			if rhs, err = c.expression(valueNode); err != nil {
				return nil, err
			}
		}
		c.declare(name)
		decl := annotate(ast.NewDeclare(name), nameNode)
		if rhs == nil {
			out = append(out, decl)
			continue
		}
		assign, err := ast.NewAssign(decl, rhs)
		if err != nil {
			return nil, atLine(err, child)
		}
		out = append(out, annotate(assign, child))
	}
	switch len(out) {
	case 0:
		return nil, errorf(node, "empty declaration")
	case 1:
		return out[0], nil
	default:
		return annotate(ast.NewBlock(false, out...), node), nil
	}
}

func (c *compiler) block(node *sitter.Node) (ast.Node, error) {
	c.push()
	defer c.pop()
	block := annotate(ast.NewBlock(true), node)
	for _, child := range namedChildren(node) {
		stmt, err := c.statement(child)
		if err != nil {
			return nil, err
		}
		block.Add(stmt)
	}
	return block, nil
}

func (c *compiler) optionalStatement(node *sitter.Node) (ast.Node, error) {
	if node == nil {
		return nil, nil
	}
	return c.statement(node)
}

func (c *compiler) loopBody(node *sitter.Node) (ast.Node, error) {
	c.loops++
	defer func() { c.loops-- }()
	return c.optionalStatement(node)
}

func (c *compiler) ifStatement(node *sitter.Node) (ast.Node, error) {
	cond, err := c.expression(node.ChildByFieldName("condition"))
	if err != nil {
		return nil, err
	}
	then, err := c.optionalStatement(node.ChildByFieldName("consequence"))
	if err != nil {
		return nil, err
	}
	var els ast.Node
	if alt := node.ChildByFieldName("alternative"); alt != nil {
		if els, err = c.optionalStatement(firstNamedChild(alt)); err != nil {
			return nil, err
		}
	}
	n, err := ast.NewIf(cond, then, els)
	if err != nil {
		return nil, atLine(err, node)
	}
	return annotate(n, node), nil
}

func (c *compiler) whileStatement(node *sitter.Node) (ast.Node, error) {
	cond, err := c.expression(node.ChildByFieldName("condition"))
	if err != nil {
		return nil, err
	}
	body, err := c.loopBody(node.ChildByFieldName("body"))
	if err != nil {
		return nil, err
	}
	n, err := ast.NewWhile(cond, body)
	if err != nil {
		return nil, atLine(err, node)
	}
	return annotate(n, node), nil
}

// forClause lowers the initializer or condition slot of a for header, which
// the grammar may hand over as a statement, a bare expression or a
// semicolon.
func (c *compiler) forClause(node *sitter.Node) (ast.Node, error) {
	if node == nil || !node.IsNamed() {
		return nil, nil
	}
	switch node.Kind() {
	case "lexical_declaration", "variable_declaration", "expression_statement", "empty_statement":
		return c.statement(node)
	default:
		return c.expression(node)
	}
}

func (c *compiler) forStatement(node *sitter.Node) (ast.Node, error) {
	c.push()
	defer c.pop()

	init, err := c.forClause(node.ChildByFieldName("initializer"))
	if err != nil {
		return nil, err
	}
	test, err := c.forClause(node.ChildByFieldName("condition"))
	if err != nil {
		return nil, err
	}
	var update ast.Node
	if inc := node.ChildByFieldName("increment"); inc != nil {
		if update, err = c.expression(inc); err != nil {
			return nil, err
		}
	}
	body, err := c.loopBody(node.ChildByFieldName("body"))
	if err != nil {
		return nil, err
	}
	n, err := ast.NewFor(init, test, update, body)
	if err != nil {
		return nil, atLine(err, node)
	}
	return annotate(n, node), nil
}

func (c *compiler) forInStatement(node *sitter.Node) (ast.Node, error) {
	if op := node.ChildByFieldName("operator"); op != nil && c.text(op) != "in" {
		return nil, errorf(node, "for-%s loops are not supported", c.text(op))
	}
	c.push()
	defer c.pop()

	collection, err := c.expression(node.ChildByFieldName("right"))
	if err != nil {
		return nil, err
	}
	left := node.ChildByFieldName("left")
	var iterator ast.Node
	if node.ChildByFieldName("kind") != nil {
		if left == nil || left.Kind() != "identifier" {
			return nil, errorf(node, "destructuring declarations are not supported")
		}
		name := c.text(left)
		c.declare(name)
		iterator = annotate(ast.NewDeclare(name), left)
	} else if iterator, err = c.expression(left); err != nil {
		return nil, err
	}
	body, err := c.loopBody(node.ChildByFieldName("body"))
	if err != nil {
		return nil, err
	}
	n, err := ast.NewForIn(iterator, collection, body)
	if err != nil {
		return nil, atLine(err, node)
	}
	return annotate(n, node), nil
}
