package parser_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"tube/interpreter-go/pkg/ast"
	"tube/interpreter-go/pkg/parser"
)

func newParser(t *testing.T) *parser.Parser {
	t.Helper()
	p, err := parser.New()
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p
}

func parse(t *testing.T, source string) *ast.Block {
	t.Helper()
	block, err := newParser(t).Parse([]byte(source))
	require.NoError(t, err)
	return block
}

func TestParseDeclarationsAndCompoundAssignment(t *testing.T) {
	block := parse(t, "let x = 1;\n// comment\nx += 2;\n")
	require.False(t, block.Scoped)
	require.Len(t, block.Children, 2)

	decl, ok := block.Children[0].(*ast.Assign)
	require.True(t, ok)
	require.IsType(t, &ast.Declare{}, decl.Left)
	require.Equal(t, ast.TypeNumber, decl.StaticType())

	compound, ok := block.Children[1].(*ast.Assign)
	require.True(t, ok)
	require.Equal(t, 3, compound.Span().Start.Line)
	require.IsType(t, &ast.Variable{}, compound.Left)
	sum, ok := compound.Right.(*ast.Math2)
	require.True(t, ok)
	require.Equal(t, ast.OpAdd, sum.Op)
}

func TestParseMultipleDeclarators(t *testing.T) {
	block := parse(t, "let a = 1, b;")
	require.Len(t, block.Children, 1)
	inner, ok := block.Children[0].(*ast.Block)
	require.True(t, ok)
	require.False(t, inner.Scoped)
	require.Len(t, inner.Children, 2)
	require.IsType(t, &ast.Declare{}, inner.Children[1])
}

func TestParseSequenceExpression(t *testing.T) {
	block := parse(t, "let t = 0;\nlet s = (t++, 1, 2);")
	decl := block.Children[1].(*ast.Assign)
	seq, ok := decl.Right.(*ast.Sequence)
	require.True(t, ok, "got %T", decl.Right)
	require.Len(t, seq.Exprs, 3)
	require.Equal(t, ast.TypeNumber, seq.StaticType())
	require.Equal(t, 2, seq.Span().Start.Line)
}

func TestParseUpdateForms(t *testing.T) {
	block := parse(t, "let i = 0; i++; ++i; i--; --i;")
	var ops []string
	for _, child := range block.Children[1:] {
		m, ok := child.(*ast.Math1)
		require.True(t, ok)
		ops = append(ops, m.Op)
	}
	require.Equal(t, []string{ast.OpPostInc, ast.OpPreInc, ast.OpPostDec, ast.OpPreDec}, ops)
}

func TestParseBuiltins(t *testing.T) {
	block := parse(t, `let a = [1, , 2]; print(a.join("-"), a.push(3)); a.pop(); String(1); typeof nope;`)
	arr := block.Children[0].(*ast.Assign).Right.(*ast.ArrayLiteral)
	require.Len(t, arr.Elements, 3)
	require.Nil(t, arr.Elements[1])

	out := block.Children[1].(*ast.Print)
	require.Len(t, out.Args, 2)
	require.IsType(t, &ast.Join{}, out.Args[0])
	require.IsType(t, &ast.Push{}, out.Args[1])
	require.IsType(t, &ast.Pop{}, block.Children[2])
	require.Equal(t, ast.NodeStringCast, block.Children[3].NodeType())
	require.IsType(t, &ast.TypeOf{}, block.Children[4])
}

func TestParseControlFlow(t *testing.T) {
	block := parse(t, `
let o = {a: 1, "b": 2, 3: 4};
for (let k in o) { if (k == "a") { break; } else print(k); }
for (let i = 0; i < 3; i++) {}
for (;;) { break; }
while (false) ;
`)
	require.Len(t, block.Children, 5)
	obj := block.Children[0].(*ast.Assign).Right.(*ast.ObjectLiteral)
	keys := make([]string, 0, len(obj.Entries))
	for _, e := range obj.Entries {
		keys = append(keys, e.Key)
	}
	require.Equal(t, []string{"a", "b", "3"}, keys)

	forIn := block.Children[1].(*ast.ForIn)
	require.IsType(t, &ast.Declare{}, forIn.Iterator)
	loop := block.Children[2].(*ast.For)
	require.NotNil(t, loop.Init)
	require.NotNil(t, loop.Test)
	require.NotNil(t, loop.Update)
	forever := block.Children[3].(*ast.For)
	require.Nil(t, forever.Init)
	require.Nil(t, forever.Test)
	require.IsType(t, &ast.While{}, block.Children[4])
}

func TestParseStringEscapes(t *testing.T) {
	block := parse(t, `print("a\tb\n", 'it\'s', "A\x42");`)
	args := block.Children[0].(*ast.Print).Args
	require.Equal(t, "a\tb\n", args[0].(*ast.Literal).Lexeme)
	require.Equal(t, "it's", args[1].(*ast.Literal).Lexeme)
	require.Equal(t, "AB", args[2].(*ast.Literal).Lexeme)
}

func TestParseConstructionErrors(t *testing.T) {
	cases := []struct {
		name   string
		source string
		line   int
		want   string
	}{
		{"unknown variable", "let a = 1;\nb = 2;", 2, "unknown variable 'b'"},
		{"break outside loop", "break;", 1, "break outside of loop"},
		{"scoped name leaves scope", "{ let x = 1; }\nprint(x);", 2, "unknown variable 'x'"},
		{"math type mismatch", "\n\nlet v = true - 1;", 3, "cannot use type 'boolean' in mathematical expressions"},
		{"for-of", "let o = {};\nfor (let k of o) {}", 2, "for-of loops are not supported"},
		{"delete variable", "let x = 1; delete x;", 1, "delete requires a property or index operand"},
		{"unknown function", "foo(1);", 1, "unknown function 'foo'"},
		{"array for-in", "for (let k in [1]) {}", 1, "for-in over an array is not supported"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newParser(t).Parse([]byte(tc.source))
			var cerr *ast.ConstructionError
			require.True(t, errors.As(err, &cerr), "got %v", err)
			require.Equal(t, tc.line, cerr.Line)
			require.Equal(t, tc.want, cerr.Message)
		})
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := newParser(t).Parse([]byte("let x = 1;\nlet y = (;\n"))
	var serr *parser.SyntaxError
	require.True(t, errors.As(err, &serr), "got %v", err)
	require.Equal(t, 2, serr.Line)
	require.Contains(t, serr.Error(), "parser: syntax error at line 2")
}

func TestParserKeepsGlobalsBetweenCalls(t *testing.T) {
	p := newParser(t)
	_, err := p.Parse([]byte("let a = 1;"))
	require.NoError(t, err)
	require.True(t, p.Declared("a"))

	_, err = p.Parse([]byte("a = a + 1;"))
	require.NoError(t, err)

	_, err = p.Parse([]byte("let b = 2; missing;"))
	require.Error(t, err)
	require.False(t, p.Declared("b"))
}
