// Package semantics implements ParaCL's semantic analyzer: a single
// depth-first AST traversal that resolves identifiers to their
// declaring scope, binds break/continue to their enclosing loop, and
// reports errors without ever aborting the traversal.
package semantics

import (
	"strconv"

	"paracl/ast"
	"paracl/report"
)

// Analyzer implements both ast.ExprVisitor and ast.StmtVisitor. Visit
// methods return nil; their only effect is populating Scope tables on
// the AST, binding Break/Continue nodes to their loop, and reporting
// errors to the shared Reporter.
type Analyzer struct {
	reporter    *report.Reporter
	scopes      ast.ScopeStack
	loops       []*ast.While
	declareMode bool
}

// New returns an Analyzer reporting to r.
func New(r *report.Reporter) *Analyzer {
	return &Analyzer{reporter: r}
}

// Analyze walks root, the synthetic outer block, in place.
func (a *Analyzer) Analyze(root *ast.Block) {
	root.Accept(a)
}

// --- expressions ---

func (a *Analyzer) VisitUnary(n *ast.Unary) any {
	if n.Op.IsIncDec() {
		if _, ok := n.Expr.(*ast.Variable); !ok {
			a.reporter.Report(report.UnassignableExpression, n.Loc, exprText(n.Expr))
		}
	}
	n.Expr.Accept(a)
	return nil
}

func (a *Analyzer) VisitBinary(n *ast.Binary) any {
	if n.Op == ast.BinAssign {
		if _, ok := n.Lhs.(*ast.Variable); !ok {
			a.reporter.Report(report.UnassignableExpression, n.Loc, exprText(n.Lhs))
		}
		n.Rhs.Accept(a)
		a.declareMode = true
		n.Lhs.Accept(a)
		a.declareMode = false
		return nil
	}
	n.Lhs.Accept(a)
	n.Rhs.Accept(a)
	return nil
}

func (a *Analyzer) VisitTernary(n *ast.Ternary) any {
	n.Cond.Accept(a)
	n.OnTrue.Accept(a)
	n.OnFalse.Accept(a)
	return nil
}

func (a *Analyzer) VisitConstantInt(n *ast.ConstantInt) any { return nil }

func (a *Analyzer) VisitVariable(n *ast.Variable) any {
	_, resolved := a.scopes.Resolve(n.Name)
	switch {
	case a.declareMode && !resolved:
		a.scopes.Top().Declare(n.Name, n)
	case !resolved:
		a.reporter.Report(report.UndeclaredIdentifier, n.Loc, n.Name)
	}
	return nil
}

func (a *Analyzer) VisitInput(n *ast.Input) any { return nil }

// --- statements ---

func (a *Analyzer) VisitBlock(n *ast.Block) any {
	a.scopes.Push(n.Scope)
	for _, stmt := range n.Stmts {
		stmt.Accept(a)
	}
	a.scopes.Pop()
	return nil
}

func (a *Analyzer) VisitExpressionStmt(n *ast.ExpressionStmt) any {
	n.Expr.Accept(a)
	return nil
}

func (a *Analyzer) VisitIf(n *ast.If) any {
	a.scopes.Push(n.Scope)
	n.Cond.Accept(a)
	n.Then.Accept(a)
	a.scopes.Pop()
	return nil
}

func (a *Analyzer) VisitIfElse(n *ast.IfElse) any {
	a.scopes.Push(n.Scope)
	n.Cond.Accept(a)
	n.Then.Accept(a)
	n.Else.Accept(a)
	a.scopes.Pop()
	return nil
}

func (a *Analyzer) VisitWhile(n *ast.While) any {
	a.scopes.Push(n.Scope)
	a.loops = append(a.loops, n)
	n.Cond.Accept(a)
	n.Body.Accept(a)
	a.loops = a.loops[:len(a.loops)-1]
	a.scopes.Pop()
	return nil
}

func (a *Analyzer) VisitOutput(n *ast.Output) any {
	n.Expr.Accept(a)
	return nil
}

func (a *Analyzer) VisitBreak(n *ast.Break) any {
	if len(a.loops) == 0 {
		a.reporter.Report(report.OutOfLoopStatement, n.Loc, "break")
		return nil
	}
	n.Loop = a.loops[len(a.loops)-1]
	return nil
}

func (a *Analyzer) VisitContinue(n *ast.Continue) any {
	if len(a.loops) == 0 {
		a.reporter.Report(report.OutOfLoopStatement, n.Loc, "continue")
		return nil
	}
	n.Loop = a.loops[len(a.loops)-1]
	return nil
}

// exprText renders a short detail string for an unassignable-expression
// diagnostic, naming what was found instead of a variable.
func exprText(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.ConstantInt:
		return strconv.FormatInt(int64(n.Value), 10)
	case *ast.Variable:
		return n.Name
	default:
		return "expression"
	}
}
