package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binoyjayan/p2sh-go/internal/ast"
	"github.com/binoyjayan/p2sh-go/internal/scanner"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(scanner.New(input))
	prog := p.ParseProgram()
	require.Empty(t, p.Errors(), "parser errors: %v", p.Errors())
	return prog
}

func TestLetStatement(t *testing.T) {
	prog := parseProgram(t, `let x = 5;`)
	require.Len(t, prog.Statements, 1)
	let, ok := prog.Statements[0].(*ast.LetStatement)
	require.True(t, ok)
	assert.Equal(t, "x", let.Name.Value)
	intLit, ok := let.Value.(*ast.IntegerLiteral)
	require.True(t, ok)
	assert.EqualValues(t, 5, intLit.Value)
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"a + b.c", "(a + (b.c))"},
		{"a.b.c", "((a.b).c)"},
		{"1 < 2 == 3 > 2", "((1 < 2) == (3 > 2))"},
		{"!-a", "(!(-a))"},
	}
	for _, tt := range tests {
		prog := parseProgram(t, tt.input+";")
		require.Len(t, prog.Statements, 1)
		stmt := prog.Statements[0].(*ast.ExpressionStatement)
		assert.Equal(t, tt.want, stmt.Expr.String())
	}
}

func TestFunctionLiteralAndCall(t *testing.T) {
	prog := parseProgram(t, `let add = fn(a, b) { return a + b; }; add(1, 2);`)
	require.Len(t, prog.Statements, 2)

	let := prog.Statements[0].(*ast.LetStatement)
	fn, ok := let.Value.(*ast.FunctionLiteral)
	require.True(t, ok)
	require.Len(t, fn.Parameters, 2)
	assert.Equal(t, "a", fn.Parameters[0].Value)

	exprStmt := prog.Statements[1].(*ast.ExpressionStatement)
	call, ok := exprStmt.Expr.(*ast.CallExpression)
	require.True(t, ok)
	require.Len(t, call.Arguments, 2)
}

func TestIfElseExpression(t *testing.T) {
	prog := parseProgram(t, `if (x < y) { x } else { y }`)
	require.Len(t, prog.Statements, 1)
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	ifExpr, ok := stmt.Expr.(*ast.IfExpression)
	require.True(t, ok)
	require.NotNil(t, ifExpr.Alternative)
}

func TestWhileAndBreakContinue(t *testing.T) {
	prog := parseProgram(t, `while (i < 10) { if (i == 5) { break; } continue; }`)
	require.Len(t, prog.Statements, 1)
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	_, ok := stmt.Expr.(*ast.WhileExpression)
	require.True(t, ok)
}

func TestLabeledLoopAndBreak(t *testing.T) {
	prog := parseProgram(t, `a: loop { b: loop { break a; } }`)
	require.Len(t, prog.Statements, 1)
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	loop, ok := stmt.Expr.(*ast.LoopExpression)
	require.True(t, ok)
	assert.Equal(t, "a", loop.Label)

	inner := loop.Body.Statements[0].(*ast.ExpressionStatement).Expr.(*ast.LoopExpression)
	assert.Equal(t, "b", inner.Label)

	brk := inner.Body.Statements[0].(*ast.BreakStatement)
	assert.Equal(t, "a", brk.Label)
}

func TestArrayAndMapLiterals(t *testing.T) {
	prog := parseProgram(t, `[1, 2, 3]; {"a": 1, "b": 2};`)
	require.Len(t, prog.Statements, 2)

	arr := prog.Statements[0].(*ast.ExpressionStatement).Expr.(*ast.ArrayLiteral)
	assert.Len(t, arr.Elements, 3)

	m := prog.Statements[1].(*ast.ExpressionStatement).Expr.(*ast.MapLiteral)
	assert.Len(t, m.Keys, 2)
}

func TestAssignExpression(t *testing.T) {
	prog := parseProgram(t, `x = 5; arr[0] = 1; pkt.ttl = 64;`)
	require.Len(t, prog.Statements, 3)

	for _, s := range prog.Statements {
		es := s.(*ast.ExpressionStatement)
		_, ok := es.Expr.(*ast.AssignExpression)
		assert.True(t, ok)
	}
}
