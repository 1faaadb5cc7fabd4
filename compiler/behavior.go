package compiler

import (
	"fmt"
	"strings"
)

// The behavior block is not parsed. A small lexical scan separates code
// from strings, comments, template literals and regex literals, which is
// enough to find the constructor function, match its braces and rename
// hook identifiers without touching text that only looks like code.

type tokenKind int

const (
	tokSpace tokenKind = iota
	tokComment
	tokIdent
	tokNumber
	tokString
	tokTemplate // a template literal chunk, up to and including "${" or the closing backquote
	tokRegex
	tokPunct // a single byte of punctuation
)

type token struct {
	kind       tokenKind
	start, end int
}

func (t token) text(src string) string {
	return src[t.start:t.end]
}

// significant reports whether t carries code, i.e. is not space or a comment.
func (t token) significant() bool {
	return t.kind != tokSpace && t.kind != tokComment
}

// regexPrecedingKeywords are the keywords after which '/' starts a regex.
var regexPrecedingKeywords = map[string]bool{
	"return": true, "typeof": true, "instanceof": true, "in": true, "of": true,
	"new": true, "delete": true, "void": true, "throw": true, "case": true,
	"do": true, "else": true, "yield": true, "await": true,
}

// controlKeywords head a parenthesized condition followed by a statement.
var controlKeywords = map[string]bool{"if": true, "while": true, "for": true, "with": true}

type jsScanner struct {
	src  string
	pos  int
	toks []token
	// braces records, per open '{', whether it opened a template substitution.
	braces []bool
	// parens records, per open '(', whether it follows if, while, for or with.
	parens []bool
	// afterControl reports whether the last ')' closed such a condition.
	afterControl bool
	last   token // last significant token
	seen   bool  // whether last is set
}

// scanJS splits src into tokens covering every byte of src.
func scanJS(src string) []token {
	s := &jsScanner{src: src}
	for s.pos < len(s.src) {
		s.next()
	}
	return s.toks
}

func (s *jsScanner) emit(kind tokenKind, start int) {
	t := token{kind: kind, start: start, end: s.pos}
	s.toks = append(s.toks, t)
	if t.significant() {
		s.last, s.seen = t, true
	}
}

func (s *jsScanner) peek(off int) byte {
	if s.pos+off < len(s.src) {
		return s.src[s.pos+off]
	}
	return 0
}

func (s *jsScanner) next() {
	start := s.pos
	c := s.src[s.pos]

	switch {
	case isSpace(c):
		for s.pos < len(s.src) && isSpace(s.src[s.pos]) {
			s.pos++
		}
		s.emit(tokSpace, start)

	case c == '/' && s.peek(1) == '/':
		if i := strings.IndexByte(s.src[s.pos:], '\n'); i >= 0 {
			s.pos += i
		} else {
			s.pos = len(s.src)
		}
		s.emit(tokComment, start)

	case c == '/' && s.peek(1) == '*':
		if i := strings.Index(s.src[s.pos+2:], "*/"); i >= 0 {
			s.pos += i + 4
		} else {
			s.pos = len(s.src)
		}
		s.emit(tokComment, start)

	case c == '"' || c == '\'':
		s.scanString(c)
		s.emit(tokString, start)

	case c == '`':
		s.pos++
		s.scanTemplate()
		s.emit(tokTemplate, start)

	case c == '/' && s.regexAllowed() && s.scanRegex():
		s.emit(tokRegex, start)

	case isIdentByte(c) && !isDigit(c):
		for s.pos < len(s.src) && isIdentByte(s.src[s.pos]) {
			s.pos++
		}
		s.emit(tokIdent, start)

	case isDigit(c):
		for s.pos < len(s.src) && (isIdentByte(s.src[s.pos]) || s.src[s.pos] == '.') {
			s.pos++
		}
		s.emit(tokNumber, start)

	case c == '(':
		s.parens = append(s.parens, s.seen && s.last.kind == tokIdent && controlKeywords[s.last.text(s.src)])
		s.pos++
		s.emit(tokPunct, start)

	case c == ')':
		s.afterControl = false
		if n := len(s.parens); n > 0 {
			s.afterControl = s.parens[n-1]
			s.parens = s.parens[:n-1]
		}
		s.pos++
		s.emit(tokPunct, start)

	case c == '{':
		s.braces = append(s.braces, false)
		s.pos++
		s.emit(tokPunct, start)

	case c == '}' && len(s.braces) > 0 && s.braces[len(s.braces)-1]:
		// end of a ${...} substitution: the template literal resumes here
		s.braces = s.braces[:len(s.braces)-1]
		s.pos++
		s.scanTemplate()
		s.emit(tokTemplate, start)

	case c == '}':
		if len(s.braces) > 0 {
			s.braces = s.braces[:len(s.braces)-1]
		}
		s.pos++
		s.emit(tokPunct, start)

	default:
		s.pos++
		s.emit(tokPunct, start)
	}
}

// scanString consumes a quoted string. Unterminated strings end at the newline.
func (s *jsScanner) scanString(quote byte) {
	s.pos++
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '\\':
			s.pos += 2
			continue
		case quote:
			s.pos++
			return
		case '\n':
			return
		}
		s.pos++
	}
	s.pos = len(s.src)
}

// scanTemplate consumes template literal text up to the closing backquote
// or the start of a substitution, which opens a brace.
func (s *jsScanner) scanTemplate() {
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '\\':
			s.pos += 2
			continue
		case '`':
			s.pos++
			return
		case '$':
			if s.peek(1) == '{' {
				s.pos += 2
				s.braces = append(s.braces, true)
				return
			}
		}
		s.pos++
	}
	s.pos = len(s.src)
}

// scanRegex consumes a regex literal with its flags. It reports false,
// consuming nothing, when no closing slash is found on the line.
func (s *jsScanner) scanRegex() bool {
	i := s.pos + 1
	inClass := false
	for i < len(s.src) {
		switch c := s.src[i]; {
		case c == '\\':
			i += 2
			continue
		case c == '\n':
			return false
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			i++
			for i < len(s.src) && isIdentByte(s.src[i]) {
				i++
			}
			s.pos = i
			return true
		}
		i++
	}
	return false
}

// regexAllowed reports whether a '/' at the current position starts a
// regex literal rather than a division, judged by the previous token.
func (s *jsScanner) regexAllowed() bool {
	if !s.seen {
		return true
	}
	switch s.last.kind {
	case tokIdent:
		return regexPrecedingKeywords[s.last.text(s.src)]
	case tokPunct:
		switch s.src[s.last.start] {
		case ')':
			// a statement follows the condition of if (x) /re/.test(s)
			return s.afterControl
		case ']', '}':
			return false
		}
		return true
	case tokTemplate:
		// a chunk ending in "${" is followed by an expression
		return strings.HasSuffix(s.last.text(s.src), "${")
	}
	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isIdentByte reports whether c may appear in an identifier. Non-ASCII
// bytes are treated as identifier bytes.
func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || isDigit(c) || (c|0x20 >= 'a' && c|0x20 <= 'z') || c >= 0x80
}

// constructorParams is the parameter list the component constructor must declare.
var constructorParams = []string{"props", ",", "el"}

// behavior is a behavior block with its constructor located.
type behavior struct {
	code   string
	toks   []token
	name   string // constructor function name, if any
	open   int    // offset of the body's opening brace
	close  int    // offset of the body's closing brace
	params string // parameter list as written
}

// locateConstructor finds the first function declaring exactly (props, el)
// and the braces of its body.
func locateConstructor(code string) (*behavior, error) {
	toks := scanJS(code)
	var sig []token
	for _, t := range toks {
		if t.significant() {
			sig = append(sig, t)
		}
	}

	for i, t := range sig {
		if t.kind != tokIdent || t.text(code) != "function" {
			continue
		}
		j := i + 1
		if j < len(sig) && isPunct(code, sig[j], '*') {
			j++
		}
		name := ""
		if j < len(sig) && sig[j].kind == tokIdent {
			name = sig[j].text(code)
			j++
		}
		if j >= len(sig) || !isPunct(code, sig[j], '(') {
			continue
		}
		paramsStart := sig[j].start
		j++

		matched := true
		for _, want := range constructorParams {
			if j >= len(sig) || sig[j].text(code) != want {
				matched = false
				break
			}
			j++
		}
		if !matched || j+1 >= len(sig) || !isPunct(code, sig[j], ')') || !isPunct(code, sig[j+1], '{') {
			continue
		}

		b := &behavior{
			code:   code,
			toks:   toks,
			name:   name,
			open:   sig[j+1].start,
			params: code[paramsStart:sig[j].end],
		}
		depth := 0
		for _, bt := range sig[j+1:] {
			if bt.kind != tokPunct {
				continue
			}
			switch code[bt.start] {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth == 0 {
				b.close = bt.start
				return b, nil
			}
		}
		return nil, &Error{
			Kind:    ErrMissingConstructorAnchor,
			Line:    lineAt(code, b.open),
			Message: fmt.Sprintf("body of function %s%s is never closed", name, b.params),
		}
	}

	return nil, &Error{
		Kind:    ErrMissingConstructorAnchor,
		Message: "no function declares the parameters (props, el)",
		Hints:   []string{"the behavior block must define: export default function Name(props, el) { ... }"},
	}
}

func isPunct(src string, t token, c byte) bool {
	return t.kind == tokPunct && src[t.start] == c
}
