package compiler

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vcrobe/vcc/vdom"
)

// capitalize upper-cases the first rune of s and lower-cases the rest,
// so "item", "ITEM" and "iTem" all become "Item".
// Casers are stateful, so each call builds its own.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.Und).String(s[:size]) + cases.Lower(language.Und).String(s[size:])
}

// isQuoted reports whether s is delimited by one matching pair of
// double, single or back quotes.
func isQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	q := s[0]
	return (q == '"' || q == '\'' || q == '`') && s[len(s)-1] == q
}

// quoteText returns s as a string literal, keeping it verbatim when it is
// already quoted.
func quoteText(s string) string {
	if isQuoted(s) {
		return s
	}
	return vdom.Quote(s)
}

// unwrapBraces returns the inside of a "{...}" value.
func unwrapBraces(s string) (string, bool) {
	if len(s) >= 2 && s[0] == '{' && s[len(s)-1] == '}' {
		return strings.TrimSpace(s[1 : len(s)-1]), true
	}
	return s, false
}

// lineAt returns the 1-based line of byte offset off in s.
func lineAt(s string, off int) int {
	if off > len(s) {
		off = len(s)
	}
	return strings.Count(s[:off], "\n") + 1
}

// getContextLines returns a formatted string with context lines around the error line.
// It shows 'contextSize' lines before and after the target line.
func getContextLines(source string, lineNumber int, contextSize int) string {
	lines := strings.Split(source, "\n")

	startLine := max(lineNumber-contextSize-1, 0)
	endLine := min(lineNumber+contextSize, len(lines))

	var result strings.Builder
	result.WriteString("\n")

	for i := startLine; i < endLine; i++ {
		lineNum := i + 1
		prefix := "  "

		// Highlight the error line with a marker
		if lineNum == lineNumber {
			prefix = "> "
		}

		result.WriteString(fmt.Sprintf("%s%4d | %s\n", prefix, lineNum, lines[i]))
	}

	return result.String()
}
