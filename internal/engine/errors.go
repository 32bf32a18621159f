// Completion: 100% - Error handling complete, clear and helpful messages
package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, one per failure class. Every CompilerError wraps exactly one of these,
// so callers can tell the classes apart with errors.Is.
var (
	ErrSyntax    = errors.New("syntax error")
	ErrMalformed = errors.New("malformed expression")
	ErrRange     = errors.New("integer out of range")
)

// ErrorLevel indicates the severity of an error
type ErrorLevel int

const (
	LevelError ErrorLevel = iota
	LevelFatal
)

func (l ErrorLevel) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal error"
	default:
		return "unknown"
	}
}

// ErrorCategory classifies the type of error
type ErrorCategory int

const (
	CategorySyntax ErrorCategory = iota // reader: tokens and parentheses
	CategoryShape                       // builder: not one of the four productions
	CategoryRange                       // builder: literal does not fit the machine word
	CategoryInternal
)

func (c ErrorCategory) String() string {
	switch c {
	case CategorySyntax:
		return "syntax"
	case CategoryShape:
		return "shape"
	case CategoryRange:
		return "range"
	case CategoryInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// sentinel returns the errors.Is target for the category
func (c ErrorCategory) sentinel() error {
	switch c {
	case CategorySyntax:
		return ErrSyntax
	case CategoryShape:
		return ErrMalformed
	case CategoryRange:
		return ErrRange
	default:
		return nil
	}
}

// SourceLocation represents a position in source code
type SourceLocation struct {
	File   string
	Line   int
	Column int
	Length int // Length of the problematic token/expression
}

func (loc SourceLocation) String() string {
	if loc.File == "" {
		return fmt.Sprintf("%d:%d", loc.Line, loc.Column)
	}
	return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Column)
}

// ErrorContext provides additional context for an error
type ErrorContext struct {
	SourceLine string // The actual line of source code
	Suggestion string // "Did you mean 'x'?"
	HelpText   string // Explanatory help text
}

// CompilerError represents a single compilation error
type CompilerError struct {
	Level    ErrorLevel
	Category ErrorCategory
	Message  string
	Location SourceLocation
	Context  ErrorContext
}

// Error implements the error interface
func (e *CompilerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Location, e.Message)
}

// Unwrap makes errors.Is(err, ErrMalformed) and friends work
func (e *CompilerError) Unwrap() error {
	return e.Category.sentinel()
}

// withSource fills in the file name and the offending source line
func (e *CompilerError) withSource(file, source string) *CompilerError {
	if e.Location.File == "" {
		e.Location.File = file
	}
	if e.Context.SourceLine == "" {
		e.Context.SourceLine = sourceLine(source, e.Location.Line)
	}
	return e
}

// Format returns a nicely formatted error message with context
func (e *CompilerError) Format(useColor bool) string {
	var sb strings.Builder

	paint := func(code, s string) {
		if useColor {
			sb.WriteString(code)
		}
		sb.WriteString(s)
		if useColor {
			sb.WriteString("\033[0m")
		}
	}

	// Error header
	paint("\033[1;31m", e.Level.String()+": ")
	sb.WriteString(e.Message)
	sb.WriteString("\n")

	// Location
	paint("\033[1;34m", "  --> "+e.Location.String())
	sb.WriteString("\n")

	// Source context
	if e.Context.SourceLine != "" {
		lineNum := fmt.Sprintf("%d", e.Location.Line)
		padding := strings.Repeat(" ", len(lineNum)+1)

		sb.WriteString(padding)
		sb.WriteString("|\n")
		sb.WriteString(lineNum)
		sb.WriteString(" | ")
		sb.WriteString(e.Context.SourceLine)
		sb.WriteString("\n")
		sb.WriteString(padding)
		sb.WriteString("| ")

		// Underline the error position
		if e.Location.Column > 0 {
			sb.WriteString(strings.Repeat(" ", e.Location.Column-1))
			carets := "^"
			if e.Location.Length > 0 {
				carets = strings.Repeat("^", e.Location.Length)
			}
			paint("\033[1;31m", carets)
			sb.WriteString("\n")
		}
	}

	if e.Context.Suggestion != "" {
		paint("\033[1;32m", "   help: ")
		sb.WriteString(e.Context.Suggestion)
		sb.WriteString("\n")
	}

	if e.Context.HelpText != "" {
		paint("\033[1;36m", "   note: ")
		sb.WriteString(e.Context.HelpText)
		sb.WriteString("\n")
	}

	return sb.String()
}

// sourceLine extracts a specific line from source code
func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[lineNum-1], "\r")
}

// Helper functions for creating common errors

// SyntaxError creates a reader error
func SyntaxError(message string, loc SourceLocation) *CompilerError {
	return &CompilerError{
		Level:    LevelError,
		Category: CategorySyntax,
		Message:  message,
		Location: loc,
	}
}

// UnexpectedTokenError creates an error for unexpected tokens
func UnexpectedTokenError(expected, got string, loc SourceLocation) *CompilerError {
	return SyntaxError(fmt.Sprintf("expected %s, got %s", expected, got), loc)
}

// MalformedError creates an error for input that matches none of the productions
func MalformedError(message string, loc SourceLocation) *CompilerError {
	return &CompilerError{
		Level:    LevelError,
		Category: CategoryShape,
		Message:  message,
		Location: loc,
		Context: ErrorContext{
			HelpText: "expected an integer, (add1 e), (sub1 e) or (negate e)",
		},
	}
}

// UnknownOperatorError creates a malformed-shape error with a spelling suggestion
func UnknownOperatorError(name string, loc SourceLocation) *CompilerError {
	err := MalformedError(fmt.Sprintf("unknown operator '%s'", name), loc)
	if similar := findSimilarOperators(name, 1); len(similar) > 0 {
		err.Context.Suggestion = fmt.Sprintf("did you mean '%s'?", similar[0])
	}
	return err
}

// RangeError creates an error for integer literals that do not fit the machine word
func RangeError(literal string, loc SourceLocation) *CompilerError {
	return &CompilerError{
		Level:    LevelError,
		Category: CategoryRange,
		Message:  fmt.Sprintf("integer literal %s does not fit in 32 bits", literal),
		Location: loc,
		Context: ErrorContext{
			HelpText: fmt.Sprintf("integer literals must be between %d and %d", minLiteral, maxLiteral),
		},
	}
}
