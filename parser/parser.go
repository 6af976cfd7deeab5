// Package parser implements ParaCL's recursive-descent parser: it pulls
// tokens from a pre-scanned stream and drives AST construction.
package parser

import (
	"fmt"

	"paracl/ast"
	"paracl/report"
	"paracl/token"
)

// Parser consumes a token stream and builds an AST, reporting Syntax
// errors to a shared Reporter and synchronizing at the next ';' or '}' so
// it can keep reporting instead of stopping at the first mistake.
type Parser struct {
	tokens   []token.Token
	current  int
	reporter *report.Reporter
}

// Make returns a Parser over tokens, reporting syntax errors to r.
func Make(tokens []token.Token, r *report.Reporter) *Parser {
	return &Parser{tokens: tokens, reporter: r}
}

// parseError unwinds a single statement's recursive-descent call stack
// once a syntax error has already been reported; it carries no data of
// its own, synchronize() does the recovery work.
type parseError struct{}

// Parse consumes the whole token stream and returns the synthetic outer
// Block that is always the AST root, even for empty input. A statement
// that fails to parse is skipped (up to the next ';' or '}') rather than
// aborting the whole parse, so one mistake doesn't hide the rest.
func (p *Parser) Parse() *ast.Block {
	begin := p.peek().Loc
	var stmts []ast.Stmt
	for !p.isAtEnd() {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	end := p.previousOrCurrentLoc()
	return &ast.Block{
		Scope: ast.NewScope(),
		Stmts: stmts,
		Loc:   span(begin, end),
	}
}

// parseStatement runs statement() and, if it panics with a parseError,
// synchronizes and reports the statement as absent rather than letting
// the panic escape.
func (p *Parser) parseStatement() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); !ok {
				panic(r)
			}
			p.synchronize()
			stmt = nil
		}
	}()
	return p.statement()
}

// --- statements ---

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.check(token.LBRACE):
		return p.block()
	case p.check(token.IF):
		return p.ifStatement()
	case p.check(token.WHILE):
		return p.whileStatement()
	case p.check(token.PRINT):
		return p.printStatement()
	case p.check(token.BREAK):
		return p.breakStatement()
	case p.check(token.CONTINUE):
		return p.continueStatement()
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) block() ast.Stmt {
	begin := p.advance().Loc // consume '{'
	var stmts []ast.Stmt
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	end := p.consume(token.RBRACE, "expected '}'").Loc
	return &ast.Block{Scope: ast.NewScope(), Stmts: stmts, Loc: span(begin, end)}
}

func (p *Parser) ifStatement() ast.Stmt {
	begin := p.advance().Loc // 'if'
	p.consume(token.LPAREN, "expected '(' after 'if'")
	cond := p.expression()
	p.consume(token.RPAREN, "expected ')' after condition")
	then := p.statement()

	if p.check(token.ELSE) {
		p.advance()
		els := p.statement()
		return &ast.IfElse{Scope: ast.NewScope(), Cond: cond, Then: then, Else: els, Loc: span(begin, els.Location())}
	}
	return &ast.If{Scope: ast.NewScope(), Cond: cond, Then: then, Loc: span(begin, then.Location())}
}

func (p *Parser) whileStatement() ast.Stmt {
	begin := p.advance().Loc // 'while'
	p.consume(token.LPAREN, "expected '(' after 'while'")
	cond := p.expression()
	p.consume(token.RPAREN, "expected ')' after condition")
	body := p.statement()
	return &ast.While{Scope: ast.NewScope(), Cond: cond, Body: body, Loc: span(begin, body.Location())}
}

func (p *Parser) printStatement() ast.Stmt {
	begin := p.advance().Loc // 'print'
	expr := p.expression()
	end := p.consume(token.SEMI, "expected ';' after print statement").Loc
	return &ast.Output{Expr: expr, Loc: span(begin, end)}
}

func (p *Parser) breakStatement() ast.Stmt {
	begin := p.advance().Loc
	end := p.consume(token.SEMI, "expected ';' after 'break'").Loc
	return &ast.Break{Loc: span(begin, end)}
}

func (p *Parser) continueStatement() ast.Stmt {
	begin := p.advance().Loc
	end := p.consume(token.SEMI, "expected ';' after 'continue'").Loc
	return &ast.Continue{Loc: span(begin, end)}
}

func (p *Parser) expressionStatement() ast.Stmt {
	begin := p.peek().Loc
	expr := p.expression()
	end := p.consume(token.SEMI, "expected ';' after expression").Loc
	return &ast.ExpressionStmt{Expr: expr, Loc: span(begin, end)}
}

// --- expressions, grammar precedence low to high ---

func (p *Parser) expression() ast.Expr {
	expr := p.assignment()
	for p.check(token.COMMA) {
		begin := expr.Location()
		p.advance()
		rhs := p.assignment()
		expr = &ast.Binary{Op: ast.BinComma, Lhs: expr, Rhs: rhs, Loc: span(begin, rhs.Location())}
	}
	return expr
}

func (p *Parser) assignment() ast.Expr {
	expr := p.ternary()
	if p.check(token.ASSIGN) {
		begin := expr.Location()
		p.advance()
		rhs := p.assignment() // right-assoc
		return &ast.Binary{Op: ast.BinAssign, Lhs: expr, Rhs: rhs, Loc: span(begin, rhs.Location())}
	}
	return expr
}

func (p *Parser) ternary() ast.Expr {
	cond := p.logicOr()
	if p.check(token.QUESTION) {
		begin := cond.Location()
		p.advance()
		onTrue := p.expression()
		p.consume(token.COLON, "expected ':' in ternary expression")
		onFalse := p.assignment()
		return &ast.Ternary{Cond: cond, OnTrue: onTrue, OnFalse: onFalse, Loc: span(begin, onFalse.Location())}
	}
	return cond
}

func (p *Parser) logicOr() ast.Expr {
	expr := p.logicAnd()
	for p.check(token.OR) {
		p.advance()
		rhs := p.logicAnd()
		expr = &ast.Binary{Op: ast.BinOr, Lhs: expr, Rhs: rhs, Loc: span(expr.Location(), rhs.Location())}
	}
	return expr
}

func (p *Parser) logicAnd() ast.Expr {
	expr := p.equality()
	for p.check(token.AND) {
		p.advance()
		rhs := p.equality()
		expr = &ast.Binary{Op: ast.BinAnd, Lhs: expr, Rhs: rhs, Loc: span(expr.Location(), rhs.Location())}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.relational()
	for p.check(token.EQ) || p.check(token.NE) {
		op := binOpFor(p.advance().Kind)
		rhs := p.relational()
		expr = &ast.Binary{Op: op, Lhs: expr, Rhs: rhs, Loc: span(expr.Location(), rhs.Location())}
	}
	return expr
}

func (p *Parser) relational() ast.Expr {
	expr := p.additive()
	for p.check(token.LT) || p.check(token.GT) || p.check(token.LE) || p.check(token.GE) {
		op := binOpFor(p.advance().Kind)
		rhs := p.additive()
		expr = &ast.Binary{Op: op, Lhs: expr, Rhs: rhs, Loc: span(expr.Location(), rhs.Location())}
	}
	return expr
}

func (p *Parser) additive() ast.Expr {
	expr := p.multiplicative()
	for p.check(token.PLUS) || p.check(token.MINUS) {
		op := binOpFor(p.advance().Kind)
		rhs := p.multiplicative()
		expr = &ast.Binary{Op: op, Lhs: expr, Rhs: rhs, Loc: span(expr.Location(), rhs.Location())}
	}
	return expr
}

func (p *Parser) multiplicative() ast.Expr {
	expr := p.unary()
	for p.check(token.STAR) || p.check(token.SLASH) || p.check(token.PERCENT) {
		op := binOpFor(p.advance().Kind)
		rhs := p.unary()
		expr = &ast.Binary{Op: op, Lhs: expr, Rhs: rhs, Loc: span(expr.Location(), rhs.Location())}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	switch {
	case p.check(token.PLUS):
		begin := p.advance().Loc
		operand := p.unary()
		return &ast.Unary{Op: ast.UnPlus, Expr: operand, Loc: span(begin, operand.Location())}
	case p.check(token.MINUS):
		begin := p.advance().Loc
		operand := p.unary()
		return &ast.Unary{Op: ast.UnMinus, Expr: operand, Loc: span(begin, operand.Location())}
	case p.check(token.BANG):
		begin := p.advance().Loc
		operand := p.unary()
		return &ast.Unary{Op: ast.UnNot, Expr: operand, Loc: span(begin, operand.Location())}
	case p.check(token.INC):
		begin := p.advance().Loc
		operand := p.unary()
		return &ast.Unary{Op: ast.UnPreInc, Expr: operand, Loc: span(begin, operand.Location())}
	case p.check(token.DEC):
		begin := p.advance().Loc
		operand := p.unary()
		return &ast.Unary{Op: ast.UnPreDec, Expr: operand, Loc: span(begin, operand.Location())}
	default:
		return p.postfix()
	}
}

func (p *Parser) postfix() ast.Expr {
	expr := p.primary()
	switch {
	case p.check(token.INC):
		end := p.advance().Loc
		return &ast.Unary{Op: ast.UnPostInc, Expr: expr, Loc: span(expr.Location(), end)}
	case p.check(token.DEC):
		end := p.advance().Loc
		return &ast.Unary{Op: ast.UnPostDec, Expr: expr, Loc: span(expr.Location(), end)}
	default:
		return expr
	}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.check(token.INT):
		tok := p.advance()
		return &ast.ConstantInt{Value: tok.Literal, Loc: tok.Loc}
	case p.check(token.IDENT):
		tok := p.advance()
		return &ast.Variable{Name: tok.Lexeme, Loc: tok.Loc}
	case p.check(token.QUESTION):
		tok := p.advance()
		return &ast.Input{Loc: tok.Loc}
	case p.check(token.LPAREN):
		p.advance()
		expr := p.expression()
		p.consume(token.RPAREN, "expected ')'")
		return expr
	default:
		tok := p.peek()
		p.syntaxError(tok.Loc, fmt.Sprintf("unexpected token %s", tok))
		panic(parseError{})
	}
}

func binOpFor(kind token.Kind) ast.BinaryOp {
	switch kind {
	case token.STAR:
		return ast.BinMul
	case token.SLASH:
		return ast.BinDiv
	case token.PERCENT:
		return ast.BinMod
	case token.PLUS:
		return ast.BinAdd
	case token.MINUS:
		return ast.BinSub
	case token.LT:
		return ast.BinLt
	case token.GT:
		return ast.BinGt
	case token.LE:
		return ast.BinLe
	case token.GE:
		return ast.BinGe
	case token.EQ:
		return ast.BinEq
	case token.NE:
		return ast.BinNe
	default:
		panic(fmt.Sprintf("parser: no BinaryOp for %s", kind))
	}
}

// --- token stream helpers ---

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) check(kind token.Kind) bool {
	return !p.isAtEnd() && p.peek().Kind == kind
}

func (p *Parser) advance() token.Token {
	tok := p.tokens[p.current]
	if !p.isAtEnd() {
		p.current++
	}
	return tok
}

func (p *Parser) consume(kind token.Kind, message string) token.Token {
	if p.check(kind) {
		return p.advance()
	}
	tok := p.peek()
	p.syntaxError(tok.Loc, message)
	panic(parseError{})
}

func (p *Parser) syntaxError(loc token.Location, detail string) {
	p.reporter.Report(report.Syntax, loc, detail)
}

// synchronize discards at least one token, then continues discarding up
// to and including the next ';' boundary, or up to but not including the
// next '}' (so an enclosing block()'s own loop condition sees it and
// exits cleanly). Always consuming at least one token guarantees forward
// progress even when the very next token is itself the boundary.
func (p *Parser) synchronize() {
	if p.isAtEnd() {
		return
	}
	p.advance()
	for !p.isAtEnd() {
		kind := p.peek().Kind
		if kind == token.SEMI {
			p.advance()
			return
		}
		if kind == token.RBRACE {
			return
		}
		p.advance()
	}
}

func (p *Parser) previousOrCurrentLoc() token.Location {
	if p.current > 0 {
		return p.tokens[p.current-1].Loc
	}
	return p.peek().Loc
}

func span(begin, end token.Location) token.Location {
	return token.Location{File: begin.File, Begin: begin.Begin, End: end.End}
}
