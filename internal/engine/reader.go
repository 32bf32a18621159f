// Completion: 100% - Reader complete
package engine

import (
	"errors"
	"fmt"
	"strconv"
)

// DefaultMaxDepth is the reader's nesting limit unless one is configured.
// Zero means unlimited.
const DefaultMaxDepth = 0

const msgUnclosed = "unclosed '('"

// Reader turns source text into a single Sexp. It uses an explicit stack of open
// lists, so nesting depth is not limited by the goroutine stack. MaxDepth is an
// optional cap for callers that want one.
type Reader struct {
	File     string // used in error locations
	MaxDepth int    // 0 means unlimited
}

// NewReader returns a reader without a depth limit
func NewReader(file string) *Reader {
	return &Reader{File: file, MaxDepth: DefaultMaxDepth}
}

// ReadSexp reads exactly one symbolic expression from source
func ReadSexp(source string) (Sexp, error) {
	return NewReader("").Read(source)
}

// Read reads exactly one symbolic expression. Anything after it, other than
// whitespace and comments, is an error.
func (r *Reader) Read(source string) (Sexp, error) {
	sexp, err := r.read(source)
	if err != nil {
		if cerr, ok := err.(*CompilerError); ok {
			return nil, cerr.withSource(r.File, source)
		}
		return nil, err
	}
	return sexp, nil
}

func (r *Reader) read(source string) (Sexp, error) {
	lexer := NewLexer(source)

	var (
		stack  []*SexpList
		result Sexp
	)

	for {
		tok := lexer.NextToken()
		loc := tok.location(r.File)

		if tok.Type == TOKEN_EOF {
			if len(stack) > 0 {
				open := stack[len(stack)-1]
				err := SyntaxError(msgUnclosed, open.Loc)
				err.Context.HelpText = fmt.Sprintf("%d list(s) still open at end of input", len(stack))
				return nil, err
			}
			if result == nil {
				return nil, SyntaxError("empty input, expected an expression", loc)
			}
			return result, nil
		}

		if tok.Type == TOKEN_ILLEGAL {
			return nil, SyntaxError(tok.Value, loc)
		}
		if len(stack) == 0 && result != nil {
			return nil, SyntaxError(fmt.Sprintf("unexpected %s after the end of the expression", tok.Type), loc)
		}

		var value Sexp
		switch tok.Type {
		case TOKEN_LPAREN:
			if r.MaxDepth > 0 && len(stack) >= r.MaxDepth {
				return nil, SyntaxError(fmt.Sprintf("nesting deeper than %d levels", r.MaxDepth), loc)
			}
			stack = append(stack, &SexpList{Loc: loc})
			continue
		case TOKEN_RPAREN:
			if len(stack) == 0 {
				return nil, UnexpectedTokenError("an expression", "')'", loc)
			}
			value = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		case TOKEN_NUMBER:
			value = readInt(tok.Value, loc)
		case TOKEN_IDENT:
			value = &SexpSym{Name: tok.Value, Loc: loc}
		default:
			return nil, SyntaxError(fmt.Sprintf("unexpected %s", tok.Type), loc)
		}

		if len(stack) > 0 {
			top := stack[len(stack)-1]
			top.Items = append(top.Items, value)
			continue
		}
		result = value
	}
}

func readInt(text string, loc SourceLocation) *SexpInt {
	n, err := strconv.ParseInt(text, 10, 64)
	return &SexpInt{Text: text, Value: n, Fits64: err == nil, Loc: loc}
}

// IsIncomplete reports whether err means the input ended inside an open list,
// so that more input could still complete it
func IsIncomplete(err error) bool {
	var cerr *CompilerError
	return errors.As(err, &cerr) && cerr.Category == CategorySyntax && cerr.Message == msgUnclosed
}
