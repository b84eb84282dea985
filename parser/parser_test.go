package parser

import (
	"testing"

	"github.com/kiz-lang/kiz/ast"
	"github.com/stretchr/testify/require"
)

func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	prog, err := ParseString(src)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)
	exprStmt, ok := prog.Statements[0].(*ast.ExprStmt)
	require.True(t, ok, "expected an expression statement, got %T", prog.Statements[0])
	return exprStmt.Value
}

func TestParseArithmeticPrecedence(t *testing.T) {
	expr := parseExpr(t, "1 + 2 * 3")
	bin, ok := expr.(*ast.BinaryOp)
	require.True(t, ok)
	require.Equal(t, "+", bin.Op)

	right, ok := bin.Right.(*ast.BinaryOp)
	require.True(t, ok)
	require.Equal(t, "*", right.Op)
}

func TestParseInOperandOrder(t *testing.T) {
	expr := parseExpr(t, `"a" in items`)
	bin, ok := expr.(*ast.BinaryOp)
	require.True(t, ok)
	require.Equal(t, "in", bin.Op)

	needle, ok := bin.Left.(*ast.StringLiteral)
	require.True(t, ok, "Left must be the needle, parsed first")
	require.Equal(t, "a", needle.Value)

	container, ok := bin.Right.(*ast.Ident)
	require.True(t, ok, "Right must be the container")
	require.Equal(t, "items", container.Name)
}

func TestParseComparisonOperator(t *testing.T) {
	expr := parseExpr(t, "a <= b")
	bin, ok := expr.(*ast.BinaryOp)
	require.True(t, ok)
	require.Equal(t, "<=", bin.Op)
}

func TestParseVarDecl(t *testing.T) {
	prog, err := ParseString("var x = 10")
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)
	decl, ok := prog.Statements[0].(*ast.VarDecl)
	require.True(t, ok)
	require.Equal(t, "x", decl.Name.Name)
	lit, ok := decl.Value.(*ast.IntLiteral)
	require.True(t, ok)
	require.Equal(t, "10", lit.Value)
}

// TestParseSemicolonSeparatesTopLevelStatements mirrors spec.md §8
// scenario 2's `var x = 10; var y = 3; print(x / y); print(x % y)`.
func TestParseSemicolonSeparatesTopLevelStatements(t *testing.T) {
	prog, err := ParseString(`var x = 10; var y = 3; print(x / y); print(x % y)`)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 4)
	require.IsType(t, &ast.VarDecl{}, prog.Statements[0])
	require.IsType(t, &ast.VarDecl{}, prog.Statements[1])
	require.IsType(t, &ast.ExprStmt{}, prog.Statements[2])
	require.IsType(t, &ast.ExprStmt{}, prog.Statements[3])
}

// TestParseSemicolonAfterBlockTerminator mirrors spec.md §8 scenario 3's
// `... end; return n * fact(n - 1) end; print(fact(10))`: a `;` may
// follow an `end` just as it may separate any two statements.
func TestParseSemicolonAfterBlockTerminator(t *testing.T) {
	prog, err := ParseString(`
	func fact(n)
		if n == 0 return 1 end;
		return n * fact(n - 1)
	end;
	print(fact(10))
	`)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 2)
	fn, ok := prog.Statements[0].(*ast.FuncDecl)
	require.True(t, ok)
	require.Len(t, fn.Body.Statements, 2)
}

// TestParseRedundantSemicolonsAreIgnored checks `;` is a pure separator,
// not a statement terminator requiring exactly one.
func TestParseRedundantSemicolonsAreIgnored(t *testing.T) {
	prog, err := ParseString(";;; var x = 1 ;;; x ;;;")
	require.NoError(t, err)
	require.Len(t, prog.Statements, 2)
}

func TestParseIfElse(t *testing.T) {
	prog, err := ParseString(`
	if x > 0
		y = 1
	else
		y = 2
	end
	`)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)
	ifStmt, ok := prog.Statements[0].(*ast.If)
	require.True(t, ok)
	require.NotNil(t, ifStmt.Else)
	require.Len(t, ifStmt.Then.Statements, 1)
	require.Len(t, ifStmt.Else.Statements, 1)
}

func TestParseFuncDecl(t *testing.T) {
	prog, err := ParseString(`
	func add(a, b)
		return a + b
	end
	`)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)
	fn, ok := prog.Statements[0].(*ast.FuncDecl)
	require.True(t, ok)
	require.Equal(t, "add", fn.Name.Name)
	require.Len(t, fn.Params, 2)
}

func TestParseLambda(t *testing.T) {
	expr := parseExpr(t, "func(x) return x end")
	_, ok := expr.(*ast.Lambda)
	require.True(t, ok)
}

func TestParseListAndDictLiterals(t *testing.T) {
	expr := parseExpr(t, "[1, 2, 3]")
	list, ok := expr.(*ast.ListLiteral)
	require.True(t, ok)
	require.Len(t, list.Elements, 3)

	expr = parseExpr(t, `{"a": 1, "b": 2}`)
	dict, ok := expr.(*ast.DictLiteral)
	require.True(t, ok)
	require.Len(t, dict.Entries, 2)
}

func TestParseImport(t *testing.T) {
	prog, err := ParseString(`import util`)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)
	imp, ok := prog.Statements[0].(*ast.Import)
	require.True(t, ok)
	require.Equal(t, "util", imp.Name)
}

func TestParseIndexAndAttr(t *testing.T) {
	expr := parseExpr(t, "a[0].b")
	attr, ok := expr.(*ast.AttrGet)
	require.True(t, ok)
	require.Equal(t, "b", attr.Name)
	_, ok = attr.Receiver.(*ast.Index)
	require.True(t, ok)
}

func TestParseSyntaxError(t *testing.T) {
	_, err := ParseString("var = 1")
	require.Error(t, err)
}
