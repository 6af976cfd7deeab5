// Package lexer turns ParaCL source text into a token stream.
package lexer

import (
	"fmt"
	"strconv"
	"strings"

	"paracl/report"
	"paracl/token"
)

// Lexer scans one source buffer into tokens. It never stops at the first
// error: UnknownToken and UnterminatedComment are reported and scanning
// continues, so the parser has a full token stream to recover against.
type Lexer struct {
	file   string
	source []rune

	start   int // rune index of the token currently being scanned
	current int // rune index of the next unread rune

	line, col           int // position of current
	startLine, startCol int // position of start

	reporter *report.Reporter
}

// New returns a Lexer over source, attributing every location to file.
func New(file, source string) *Lexer {
	return &Lexer{
		file:   file,
		source: []rune(source),
		line:   1,
		col:    1,
	}
}

// Scan consumes the whole buffer and returns its tokens, always ending
// with a single EOF token. Diagnostics are reported to r rather than
// returned, so a lexer with illegal bytes still yields every token the
// parser can make sense of.
func (l *Lexer) Scan(r *report.Reporter) []token.Token {
	l.reporter = r
	var tokens []token.Token
	for {
		tok, ok := l.nextToken()
		if ok {
			tokens = append(tokens, tok)
		}
		if tok.Kind == token.EOF {
			return tokens
		}
	}
}

// nextToken scans and returns one token. ok is false when the scanned
// lexeme produced only a diagnostic and no token (never happens here, but
// keeps the door open for skip-only cases).
func (l *Lexer) nextToken() (token.Token, bool) {
	l.skipWhitespaceAndComments()

	l.start, l.startLine, l.startCol = l.current, l.line, l.col
	if l.atEnd() {
		return l.make(token.EOF), true
	}

	c := l.advance()
	switch {
	case isDigit(c):
		return l.number(), true
	case isIdentStart(c):
		return l.identifier(), true
	}

	switch c {
	case '(':
		return l.make(token.LPAREN), true
	case ')':
		return l.make(token.RPAREN), true
	case '{':
		return l.make(token.LBRACE), true
	case '}':
		return l.make(token.RBRACE), true
	case ';':
		return l.make(token.SEMI), true
	case ',':
		return l.make(token.COMMA), true
	case '?':
		return l.make(token.QUESTION), true
	case ':':
		return l.make(token.COLON), true
	case '+':
		if l.match('+') {
			return l.make(token.INC), true
		}
		return l.make(token.PLUS), true
	case '-':
		if l.match('-') {
			return l.make(token.DEC), true
		}
		return l.make(token.MINUS), true
	case '*':
		return l.make(token.STAR), true
	case '%':
		return l.make(token.PERCENT), true
	case '/':
		return l.make(token.SLASH), true
	case '!':
		if l.match('=') {
			return l.make(token.NE), true
		}
		return l.make(token.BANG), true
	case '<':
		if l.match('=') {
			return l.make(token.LE), true
		}
		return l.make(token.LT), true
	case '>':
		if l.match('=') {
			return l.make(token.GE), true
		}
		return l.make(token.GT), true
	case '=':
		if l.match('=') {
			return l.make(token.EQ), true
		}
		return l.make(token.ASSIGN), true
	case '&':
		if l.match('&') {
			return l.make(token.AND), true
		}
		l.illegal(string(c))
		return l.nextToken()
	case '|':
		if l.match('|') {
			return l.make(token.OR), true
		}
		l.illegal(string(c))
		return l.nextToken()
	}

	l.illegal(string(c))
	return l.nextToken()
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		c, ok := l.peek()
		if !ok {
			return
		}
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == '/' && l.peekAt(1) == '/':
			for {
				c, ok := l.peek()
				if !ok || c == '\n' {
					break
				}
				l.advance()
			}
		case c == '/' && l.peekAt(1) == '*':
			l.skipBlockComment()
		default:
			return
		}
	}
}

// skipBlockComment consumes `/* ... */`. Nested /* is not itself special;
// per spec.md §4.1 block comments nest no further than one level, so a
// `*/` always closes the outermost comment regardless of an inner `/*`.
func (l *Lexer) skipBlockComment() {
	openLine, openCol := l.line, l.col
	l.advance() // '/'
	l.advance() // '*'
	for {
		c, ok := l.peek()
		if !ok {
			loc := token.Location{File: l.file, Begin: token.Position{Line: openLine, Column: openCol}, End: token.Position{Line: l.line, Column: l.col}}
			l.reporter.Report(report.UnterminatedComment, loc, "/*")
			return
		}
		if c == '*' && l.peekAt(1) == '/' {
			l.advance()
			l.advance()
			return
		}
		l.advance()
	}
}

func (l *Lexer) number() token.Token {
	for {
		c, ok := l.peek()
		if !ok || !isDigit(c) {
			break
		}
		l.advance()
	}
	lexeme := string(l.source[l.start:l.current])
	v, err := strconv.ParseInt(lexeme, 10, 32)
	if err != nil {
		loc := l.currentLoc()
		l.reporter.Report(report.UnknownToken, loc, fmt.Sprintf("integer literal out of range '%s'", lexeme))
		v = 0
	}
	tok := l.make(token.INT)
	tok.Literal = int32(v)
	return tok
}

func (l *Lexer) identifier() token.Token {
	for {
		c, ok := l.peek()
		if !ok || !isIdentPart(c) {
			break
		}
		l.advance()
	}
	lexeme := string(l.source[l.start:l.current])
	if kind, ok := token.Keywords[lexeme]; ok {
		return l.make(kind)
	}
	return l.make(token.IDENT)
}

func (l *Lexer) illegal(lexeme string) {
	l.reporter.Report(report.UnknownToken, l.currentLoc(), lexeme)
}

func (l *Lexer) currentLoc() token.Location {
	return token.Location{
		File:  l.file,
		Begin: token.Position{Line: l.startLine, Column: l.startCol},
		End:   token.Position{Line: l.line, Column: l.col},
	}
}

func (l *Lexer) make(kind token.Kind) token.Token {
	return token.Token{
		Kind:   kind,
		Lexeme: string(l.source[l.start:l.current]),
		Loc:    l.currentLoc(),
	}
}

func (l *Lexer) atEnd() bool {
	return l.current >= len(l.source)
}

func (l *Lexer) peek() (rune, bool) {
	if l.atEnd() {
		return 0, false
	}
	return l.source[l.current], true
}

func (l *Lexer) peekAt(offset int) rune {
	idx := l.current + offset
	if idx >= len(l.source) {
		return 0
	}
	return l.source[idx]
}

func (l *Lexer) advance() rune {
	c := l.source[l.current]
	l.current++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *Lexer) match(want rune) bool {
	c, ok := l.peek()
	if !ok || c != want {
		return false
	}
	l.advance()
	return true
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c rune) bool {
	return c == '_' || strings.ContainsRune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ", c)
}

func isIdentPart(c rune) bool {
	return isIdentStart(c) || isDigit(c)
}
