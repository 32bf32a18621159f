package engine

import (
	"strings"
)

// Sexp is a generic symbolic expression as produced by the reader.
// The variant set is closed: *SexpInt, *SexpSym and *SexpList.
type Sexp interface {
	String() string
	Pos() SourceLocation
	sexpNode()
}

// SexpInt is an integer atom. Text is the literal as written. Value is only
// meaningful when Fits64 is true.
type SexpInt struct {
	Text   string
	Value  int64
	Fits64 bool
	Loc    SourceLocation
}

// SexpSym is a symbol atom
type SexpSym struct {
	Name string
	Loc  SourceLocation
}

// SexpList is a parenthesized list. Loc points at the opening parenthesis.
type SexpList struct {
	Items []Sexp
	Loc   SourceLocation
}

func (i *SexpInt) String() string { return i.Text }
func (i *SexpInt) Pos() SourceLocation { return i.Loc }
func (i *SexpInt) sexpNode() {}
func (s *SexpSym) String() string { return s.Name }
func (s *SexpSym) Pos() SourceLocation { return s.Loc }
func (s *SexpSym) sexpNode() {}
func (l *SexpList) Pos() SourceLocation { return l.Loc }
func (l *SexpList) sexpNode() {}

func (l *SexpList) String() string {
	var out strings.Builder
	out.WriteByte('(')
	for i, item := range l.Items {
		if i > 0 {
			out.WriteByte(' ')
		}
		out.WriteString(item.String())
	}
	out.WriteByte(')')
	return out.String()
}

// describeSexp names the kind of value for error messages
func describeSexp(s Sexp) string {
	switch v := s.(type) {
	case *SexpInt:
		return "integer " + v.Text
	case *SexpSym:
		return "symbol '" + v.Name + "'"
	case *SexpList:
		if len(v.Items) == 0 {
			return "empty list"
		}
		return "list"
	default:
		return "unknown value"
	}
}
