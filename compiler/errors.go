package compiler

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, one per Error kind. Match them with errors.Is.
var (
	ErrUnbalancedExpression     = errors.New("unbalanced expression")
	ErrMissingMainTemplate      = errors.New("missing main template")
	ErrMissingConstructorAnchor = errors.New("missing constructor anchor")
	ErrUnnamedTemplate          = errors.New("unnamed template")
	ErrDuplicateTemplate        = errors.New("duplicate template")
	ErrUnsafeMarkup             = errors.New("unsafe markup")
)

// Error is a compile error located in a component source.
type Error struct {
	Kind    error  // One of the Err* sentinels
	File    string // Source file or component name
	Block   string // Template block key, if any
	Tag     string // Offending element tag, if any
	Line    int    // 1-based source line; 0 if unknown
	Message string
	Hints   []string
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("Compilation Error")
	if e.File != "" {
		sb.WriteString(" in ")
		sb.WriteString(e.File)
		if e.Line > 0 {
			fmt.Fprintf(&sb, ":%d", e.Line)
		}
	} else if e.Line > 0 {
		fmt.Fprintf(&sb, " at line %d", e.Line)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Kind.Error())
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	for _, h := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(h)
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Context returns the lines of source around the error line, the error line
// marked with '>'. It returns "" when the line is unknown.
func (e *Error) Context(source string) string {
	if e.Line <= 0 {
		return ""
	}
	return getContextLines(source, e.Line, 2)
}

// withFile sets the file of a compile error that has none.
func withFile(err error, file string) error {
	var cerr *Error
	if errors.As(err, &cerr) && cerr.File == "" {
		cerr.File = file
	}
	return err
}
