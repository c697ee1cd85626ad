package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"tube/interpreter-go/pkg/ast"
	"tube/interpreter-go/pkg/runtime"
)

func (c *compiler) expression(node *sitter.Node) (ast.Node, error) {
	if node == nil {
		return nil, &ast.ConstructionError{Message: "missing expression"}
	}
	switch node.Kind() {
	case "parenthesized_expression":
		inner := firstNamedChild(node)
		if inner == nil {
			return nil, errorf(node, "empty parentheses")
		}
		return c.expression(inner)
	case "identifier":
		name := c.text(node)
		if name == "undefined" && !c.resolve(name) {
			return c.literal(node, ast.TypeVoid, "undefined")
		}
		if !c.resolve(name) {
			return nil, errorf(node, "unknown variable '%s'", name)
		}
		return annotate(ast.NewVariable(name), node), nil
	case "undefined":
		return c.literal(node, ast.TypeVoid, "undefined")
	case "number":
		return c.literal(node, ast.TypeNumber, c.text(node))
	case "string":
		value, err := unquote(c.text(node))
		if err != nil {
			return nil, errorf(node, "%v", err)
		}
		return c.literal(node, ast.TypeString, value)
	case "true", "false":
		return c.literal(node, ast.TypeBool, node.Kind())
	case "null":
		return c.literal(node, ast.TypeNull, "null")
	case "object":
		return c.object(node)
	case "array":
		return c.array(node)
	case "member_expression":
		return c.member(node)
	case "subscript_expression":
		return c.subscript(node)
	case "assignment_expression":
		return c.assignment(node)
	case "augmented_assignment_expression":
		return c.augmentedAssignment(node)
	case "unary_expression":
		return c.unary(node)
	case "update_expression":
		return c.update(node)
	case "binary_expression":
		left, err := c.expression(node.ChildByFieldName("left"))
		if err != nil {
			return nil, err
		}
		right, err := c.expression(node.ChildByFieldName("right"))
		if err != nil {
			return nil, err
		}
		return c.binary(node, operatorText(node, c.source), left, right)
	case "call_expression":
		return c.call(node)
	case "sequence_expression":
		var exprs []ast.Node
		for _, part := range namedChildren(node) {
			expr, err := c.expression(part)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, expr)
		}
		seq, err := ast.NewSequence(exprs...)
		if err != nil {
			return nil, atLine(err, node)
		}
		return annotate(seq, node), nil
	default:
		return nil, errorf(node, "unsupported expression '%s'", node.Kind())
	}
}

func (c *compiler) literal(node *sitter.Node, t ast.Type, lexeme string) (ast.Node, error) {
	lit, err := ast.NewLiteral(t, lexeme)
	if err != nil {
		return nil, atLine(err, node)
	}
	return annotate(lit, node), nil
}

func (c *compiler) object(node *sitter.Node) (ast.Node, error) {
	var entries []ast.ObjectEntry
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "pair":
			key, err := c.propertyKey(child.ChildByFieldName("key"))
			if err != nil {
				return nil, err
			}
			value, err := c.expression(child.ChildByFieldName("value"))
			if err != nil {
				return nil, err
			}
			entries = append(entries, ast.ObjectEntry{Key: key, Value: value})
		case "shorthand_property_identifier":
			name := c.text(child)
			if !c.resolve(name) {
				return nil, errorf(child, "unknown variable '%s'", name)
			}
			value := annotate(ast.NewVariable(name), child)
			entries = append(entries, ast.ObjectEntry{Key: name, Value: value})
		default:
			return nil, errorf(child, "unsupported object member '%s'", child.Kind())
		}
	}
	obj, err := ast.NewObjectLiteral(entries...)
	if err != nil {
		return nil, atLine(err, node)
	}
	return annotate(obj, node), nil
}

func (c *compiler) propertyKey(node *sitter.Node) (string, error) {
	if node == nil {
		return "", &ast.ConstructionError{Message: "missing property key"}
	}
	switch node.Kind() {
	case "property_identifier":
		return c.text(node), nil
	case "string":
		key, err := unquote(c.text(node))
		if err != nil {
			return "", errorf(node, "%v", err)
		}
		return key, nil
	case "number":
		f, err := runtime.ParseNumberLiteral(c.text(node))
		if err != nil {
			return "", errorf(node, "%v", err)
		}
		return runtime.FormatNumber(f), nil
	default:
		return "", errorf(node, "unsupported property key '%s'", node.Kind())
	}
}

// array keeps elided elements ([1, , 2]) as empty slots.
func (c *compiler) array(node *sitter.Node) (ast.Node, error) {
	var elements []ast.Node
	expecting := true
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || isIgnorableNode(child) {
			continue
		}
		switch {
		case child.Kind() == ",":
			if expecting {
				elements = append(elements, nil)
			}
			expecting = true
		case child.IsNamed():
			el, err := c.expression(child)
			if err != nil {
				return nil, err
			}
			elements = append(elements, el)
			expecting = false
		}
	}
	return annotate(ast.NewArrayLiteral(elements...), node), nil
}

func (c *compiler) member(node *sitter.Node) (ast.Node, error) {
	if node.ChildByFieldName("optional_chain") != nil {
		return nil, errorf(node, "optional chaining is not supported")
	}
	target, err := c.expression(node.ChildByFieldName("object"))
	if err != nil {
		return nil, err
	}
	prop := node.ChildByFieldName("property")
	if prop == nil || prop.Kind() != "property_identifier" {
		return nil, errorf(node, "unsupported property access")
	}
	m, err := ast.NewProperty(target, c.text(prop))
	if err != nil {
		return nil, atLine(err, node)
	}
	return annotate(m, node), nil
}

func (c *compiler) subscript(node *sitter.Node) (ast.Node, error) {
	target, err := c.expression(node.ChildByFieldName("object"))
	if err != nil {
		return nil, err
	}
	index, err := c.expression(node.ChildByFieldName("index"))
	if err != nil {
		return nil, err
	}
	m, err := ast.NewIndex(target, index)
	if err != nil {
		return nil, atLine(err, node)
	}
	return annotate(m, node), nil
}

func (c *compiler) assignment(node *sitter.Node) (ast.Node, error) {
	lhs, err := c.expression(node.ChildByFieldName("left"))
	if err != nil {
		return nil, err
	}
	rhs, err := c.expression(node.ChildByFieldName("right"))
	if err != nil {
		return nil, err
	}
	assign, err := ast.NewAssign(lhs, rhs)
	if err != nil {
		return nil, atLine(err, node)
	}
	return annotate(assign, node), nil
}

// augmentedAssignment rewrites a op= b as a = a op b. The target is compiled
// twice: once to write and once to read.
func (c *compiler) augmentedAssignment(node *sitter.Node) (ast.Node, error) {
	op := operatorText(node, c.source)
	switch op {
	case "&&=", "||=", "??=":
		return nil, errorf(node, "operator '%s' is not supported", op)
	}
	leftNode := node.ChildByFieldName("left")
	lhs, err := c.expression(leftNode)
	if err != nil {
		return nil, err
	}
	read, err := c.expression(leftNode)
	if err != nil {
		return nil, err
	}
	rhs, err := c.expression(node.ChildByFieldName("right"))
	if err != nil {
		return nil, err
	}
	value, err := c.binary(node, strings.TrimSuffix(op, "="), read, rhs)
	if err != nil {
		return nil, err
	}
	assign, err := ast.NewAssign(lhs, value)
	if err != nil {
		return nil, atLine(err, node)
	}
	return annotate(assign, node), nil
}

func (c *compiler) binary(node *sitter.Node, op string, left, right ast.Node) (ast.Node, error) {
	var (
		n   ast.Node
		err error
	)
	switch op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod, ast.OpPow:
		n, err = ast.NewMath2(left, right, op)
	case ast.OpLess, ast.OpLessEqual, ast.OpGreater, ast.OpGreaterEqual,
		ast.OpEqual, ast.OpNotEqual, ast.OpStrictEqual, ast.OpStrictNotEq:
		n, err = ast.NewComparison(left, right, op)
	case ast.OpAnd, ast.OpOr:
		n, err = ast.NewBool2(left, right, op)
	case ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor, ast.OpShiftLeft, ast.OpShiftRight, ast.OpZeroFill:
		n, err = ast.NewBitwise2(left, right, op)
	default:
		return nil, errorf(node, "unsupported operator '%s'", op)
	}
	if err != nil {
		return nil, atLine(err, node)
	}
	return annotate(n, node), nil
}

func (c *compiler) unary(node *sitter.Node) (ast.Node, error) {
	op := operatorText(node, c.source)
	argNode := node.ChildByFieldName("argument")
	// typeof tolerates undeclared names.
	if op == "typeof" && argNode != nil && argNode.Kind() == "identifier" && !c.resolve(c.text(argNode)) {
		lit, err := c.literal(argNode, ast.TypeVoid, "undefined")
		if err != nil {
			return nil, err
		}
		return c.wrapUnary(node, func() (ast.Node, error) { return ast.NewTypeOf(lit) })
	}
	arg, err := c.expression(argNode)
	if err != nil {
		return nil, err
	}
	return c.wrapUnary(node, func() (ast.Node, error) {
		switch op {
		case "-":
			return ast.NewMath1(arg, ast.OpNegate)
		case "+":
			return ast.NewMath1(arg, ast.OpPlus)
		case "!":
			return ast.NewBool1(arg)
		case "~":
			return ast.NewBitwise1(arg, ast.OpBitNot)
		case "typeof":
			return ast.NewTypeOf(arg)
		case "void":
			return ast.NewVoid(arg)
		case "delete":
			return ast.NewDelete(arg)
		default:
			return nil, errorf(node, "unsupported operator '%s'", op)
		}
	})
}

func (c *compiler) wrapUnary(node *sitter.Node, build func() (ast.Node, error)) (ast.Node, error) {
	n, err := build()
	if err != nil {
		return nil, atLine(err, node)
	}
	return annotate(n, node), nil
}

func (c *compiler) update(node *sitter.Node) (ast.Node, error) {
	op := operatorText(node, c.source)
	arg, err := c.expression(node.ChildByFieldName("argument"))
	if err != nil {
		return nil, err
	}
	prefix := false
	if first := node.Child(0); first != nil && !first.IsNamed() {
		prefix = true
	}
	var kind string
	switch {
	case op == "++" && prefix:
		kind = ast.OpPreInc
	case op == "--" && prefix:
		kind = ast.OpPreDec
	case op == "++":
		kind = ast.OpPostInc
	case op == "--":
		kind = ast.OpPostDec
	default:
		return nil, errorf(node, "unsupported operator '%s'", op)
	}
	m, err := ast.NewMath1(arg, kind)
	if err != nil {
		return nil, atLine(err, node)
	}
	return annotate(m, node), nil
}

// call lowers the builtin calls; Tube has no user-defined functions.
func (c *compiler) call(node *sitter.Node) (ast.Node, error) {
	fn := node.ChildByFieldName("function")
	argsNode := node.ChildByFieldName("arguments")
	if fn == nil || argsNode == nil || argsNode.Kind() != "arguments" {
		return nil, errorf(node, "unsupported call")
	}
	var args []ast.Node
	for _, a := range namedChildren(argsNode) {
		arg, err := c.expression(a)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	var (
		n   ast.Node
		err error
	)
	switch fn.Kind() {
	case "identifier":
		name := c.text(fn)
		switch name {
		case "print":
			n, err = ast.NewPrint(args...)
		case "Boolean", "Number", "String":
			if len(args) != 1 {
				return nil, errorf(node, "%s() takes exactly one argument", name)
			}
			switch name {
			case "Boolean":
				n, err = ast.NewBoolCast(args[0])
			case "Number":
				n, err = ast.NewNumberCast(args[0])
			default:
				n, err = ast.NewStringCast(args[0])
			}
		default:
			return nil, errorf(node, "unknown function '%s'", name)
		}
	case "member_expression":
		prop := fn.ChildByFieldName("property")
		if prop == nil {
			return nil, errorf(node, "unsupported call")
		}
		target, terr := c.expression(fn.ChildByFieldName("object"))
		if terr != nil {
			return nil, terr
		}
		switch method := c.text(prop); method {
		case "join":
			if len(args) > 1 {
				return nil, errorf(node, "join() takes at most one argument")
			}
			var sep ast.Node
			if len(args) == 1 {
				sep = args[0]
			}
			n, err = ast.NewJoin(target, sep)
		case "push":
			if len(args) != 1 {
				return nil, errorf(node, "push() takes exactly one argument")
			}
			n, err = ast.NewPush(target, args[0])
		case "pop":
			if len(args) != 0 {
				return nil, errorf(node, "pop() takes no arguments")
			}
			n, err = ast.NewPop(target)
		default:
			return nil, errorf(node, "unknown method '%s'", method)
		}
	default:
		return nil, errorf(node, "unsupported call")
	}
	if err != nil {
		return nil, atLine(err, node)
	}
	return annotate(n, node), nil
}
