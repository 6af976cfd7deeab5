package semantics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"paracl/ast"
	"paracl/lexer"
	"paracl/parser"
	"paracl/report"
)

func analyze(t *testing.T, src string) (*ast.Block, *report.Reporter) {
	t.Helper()
	r := report.NewReporter()
	tokens := lexer.New("t.cl", src).Scan(r)
	root := parser.Make(tokens, r).Parse()
	if !r.HasErrors() {
		New(r).Analyze(root)
	}
	return root, r
}

func TestDeclareOnFirstAssignment(t *testing.T) {
	_, r := analyze(t, "a = 10; b = a; print b;")
	require.False(t, r.HasErrors())
}

func TestUndeclaredIdentifier(t *testing.T) {
	_, r := analyze(t, "print undefined;")
	require.True(t, r.HasErrors())
	require.Equal(t, report.UndeclaredIdentifier, r.Errors()[0].Kind)
	require.Equal(t, "undefined", r.Errors()[0].Detail)
}

func TestBreakOutsideLoop(t *testing.T) {
	_, r := analyze(t, "break;")
	require.True(t, r.HasErrors())
	require.Equal(t, report.OutOfLoopStatement, r.Errors()[0].Kind)
}

func TestContinueOutsideLoop(t *testing.T) {
	_, r := analyze(t, "continue;")
	require.True(t, r.HasErrors())
	require.Equal(t, report.OutOfLoopStatement, r.Errors()[0].Kind)
}

func TestUnassignableExpressionLiteralLHS(t *testing.T) {
	_, r := analyze(t, "5 = x;")
	require.True(t, r.HasErrors())
	require.Equal(t, report.UnassignableExpression, r.Errors()[0].Kind)
}

func TestUnassignableIncDecOperand(t *testing.T) {
	_, r := analyze(t, "a = 1; (a + 1)++;")
	require.True(t, r.HasErrors())
	require.Equal(t, report.UnassignableExpression, r.Errors()[0].Kind)
}

func TestSelfAssignmentOfNewVariableIsUndeclared(t *testing.T) {
	// The RHS is analyzed before declareMode flips on for the LHS, so a
	// brand new variable cannot be declared by assigning it to itself.
	_, r := analyze(t, "a = a;")
	require.True(t, r.HasErrors())
	require.Equal(t, report.UndeclaredIdentifier, r.Errors()[0].Kind)
}

func TestLoopBindingCompleteness(t *testing.T) {
	root, r := analyze(t, "i = 0; while (i < 10) { if (i == 5) break; i = i + 1; }")
	require.False(t, r.HasErrors())

	while := root.Stmts[1].(*ast.While)
	body := while.Body.(*ast.Block)
	ifStmt := body.Stmts[0].(*ast.If)
	brk := ifStmt.Then.(*ast.Break)

	require.Same(t, while, brk.Loop)
}

func TestBreakBindsToInnermostLoop(t *testing.T) {
	root, r := analyze(t, "while (1) { while (1) { break; } }")
	require.False(t, r.HasErrors())

	outer := root.Stmts[0].(*ast.While)
	innerBlock := outer.Body.(*ast.Block)
	inner := innerBlock.Stmts[0].(*ast.While)
	innerBody := inner.Body.(*ast.Block)
	brk := innerBody.Stmts[0].(*ast.Break)

	require.Same(t, inner, brk.Loop)
	require.NotSame(t, outer, brk.Loop)
}

func TestConditionScopeIsLocalToIf(t *testing.T) {
	// Assigning inside an if's condition declares the variable in that
	// if's own scope, not the enclosing block's.
	root, r := analyze(t, "if ((x = 1) > 0) print x;")
	require.False(t, r.HasErrors())

	ifStmt := root.Stmts[0].(*ast.If)
	require.True(t, ifStmt.Scope.Declared("x"))
	require.False(t, root.Scope.Declared("x"))
}
