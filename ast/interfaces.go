// Package ast defines ParaCL's abstract syntax tree: expression and
// statement node variants, the visitor interfaces each pass implements,
// and the per-block Scope table the semantic analyzer populates.
package ast

import "paracl/token"

// Loc is the source range a node spans; an alias of token.Location so
// every stage shares one location type end to end.
type Loc = token.Location

// Expr is any expression node. Accept dispatches to the matching method
// of v, following the same visitor-per-pass idiom the analyzer and code
// generator both implement.
type Expr interface {
	Accept(v ExprVisitor) any
	Location() Loc
}

// Stmt is any statement node.
type Stmt interface {
	Accept(v StmtVisitor) any
	Location() Loc
}

// ExprVisitor is implemented once per AST pass that needs to inspect
// expressions (semantic analyzer, code generator).
type ExprVisitor interface {
	VisitUnary(n *Unary) any
	VisitBinary(n *Binary) any
	VisitTernary(n *Ternary) any
	VisitConstantInt(n *ConstantInt) any
	VisitVariable(n *Variable) any
	VisitInput(n *Input) any
}

// StmtVisitor is implemented once per AST pass that needs to inspect
// statements.
type StmtVisitor interface {
	VisitBlock(n *Block) any
	VisitExpressionStmt(n *ExpressionStmt) any
	VisitIf(n *If) any
	VisitIfElse(n *IfElse) any
	VisitWhile(n *While) any
	VisitOutput(n *Output) any
	VisitBreak(n *Break) any
	VisitContinue(n *Continue) any
}
