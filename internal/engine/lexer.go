// Completion: 100% - Lexer complete, covers the whole s-expression token set
package engine

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Token types for the s-expression reader
type TokenType int

const (
	TOKEN_EOF TokenType = iota
	TOKEN_LPAREN
	TOKEN_RPAREN
	TOKEN_NUMBER
	TOKEN_IDENT
	TOKEN_ILLEGAL
)

func (t TokenType) String() string {
	switch t {
	case TOKEN_EOF:
		return "end of input"
	case TOKEN_LPAREN:
		return "'('"
	case TOKEN_RPAREN:
		return "')'"
	case TOKEN_NUMBER:
		return "integer"
	case TOKEN_IDENT:
		return "symbol"
	default:
		return "illegal character"
	}
}

type Token struct {
	Type  TokenType
	Value string
	Line  int
	Col   int
}

// Lexer tokenizes source text. Line and column numbers are 1-based.
type Lexer struct {
	input []rune
	pos   int
	line  int
	col   int
}

// An input byte that is not valid UTF-8 is stored as -1-b, so it cannot be
// confused with a literal U+FFFD in the source
func badByte(r rune) (byte, bool) {
	if r < 0 {
		return byte(-1 - r), true
	}
	return 0, false
}

func NewLexer(input string) *Lexer {
	runes := make([]rune, 0, len(input))
	for i := 0; i < len(input); {
		r, size := utf8.DecodeRuneInString(input[i:])
		if r == utf8.RuneError && size == 1 {
			r = -1 - rune(input[i])
		}
		runes = append(runes, r)
		i += size
	}
	return &Lexer{input: runes, line: 1, col: 1}
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) advance() rune {
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

// skipWhitespace skips blanks and ';' line comments
func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		ch := l.peek()
		switch {
		case unicode.IsSpace(ch):
			l.advance()
		case ch == ';':
			for l.pos < len(l.input) && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func isDelimiter(ch rune) bool {
	return ch < 0 || ch == '(' || ch == ')' || ch == ';' || unicode.IsSpace(ch)
}

// isNumberLiteral reports whether s is an optionally signed run of decimal digits
func isNumberLiteral(s string) bool {
	if s == "" {
		return false
	}
	start := 0
	if s[0] == '-' || s[0] == '+' {
		start = 1
	}
	if start == len(s) {
		return false
	}
	for i := start; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	line, col := l.line, l.col
	if l.pos >= len(l.input) {
		return Token{Type: TOKEN_EOF, Line: line, Col: col}
	}

	ch := l.peek()
	switch ch {
	case '(':
		l.advance()
		return Token{Type: TOKEN_LPAREN, Value: "(", Line: line, Col: col}
	case ')':
		l.advance()
		return Token{Type: TOKEN_RPAREN, Value: ")", Line: line, Col: col}
	}

	if b, bad := badByte(ch); bad {
		l.advance()
		return Token{Type: TOKEN_ILLEGAL, Value: fmt.Sprintf("invalid UTF-8 byte 0x%02X", b), Line: line, Col: col}
	}
	if !unicode.IsPrint(ch) {
		l.advance()
		return Token{Type: TOKEN_ILLEGAL, Value: fmt.Sprintf("illegal character %U", ch), Line: line, Col: col}
	}

	start := l.pos
	for l.pos < len(l.input) && !isDelimiter(l.peek()) {
		l.advance()
	}
	text := string(l.input[start:l.pos])
	if isNumberLiteral(text) {
		return Token{Type: TOKEN_NUMBER, Value: text, Line: line, Col: col}
	}
	return Token{Type: TOKEN_IDENT, Value: text, Line: line, Col: col}
}

func (t Token) location(file string) SourceLocation {
	length := len([]rune(t.Value))
	if t.Type == TOKEN_EOF || t.Type == TOKEN_ILLEGAL {
		length = 1
	}
	return SourceLocation{File: file, Line: t.Line, Column: t.Col, Length: length}
}
