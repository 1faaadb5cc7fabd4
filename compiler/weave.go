package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vcrobe/vcc/vdom"
)

// splice inserts text at an offset of the original code.
type splice struct {
	at   int
	text string
}

// weave turns a behavior block into a component definition: the
// constructor body is wrapped in a Component whose render function
// declares the sub-component factories and returns the main expression.
// Hook identifiers in code positions become members of the component.
func weave(code, mainExpr string, subs *Registry, hooks []string) (string, error) {
	b, err := locateConstructor(code)
	if err != nil {
		return "", err
	}

	indent := vdom.Indent
	var render strings.Builder
	if !strings.HasSuffix(code[:b.close], "\n") {
		render.WriteString("\n")
	}
	for _, e := range subs.Entries() {
		fmt.Fprintf(&render, "%sconst %s = (props) => %s;\n", indent, e.Key, e.Expr)
	}
	fmt.Fprintf(&render, "\n%sreturn (%s);\n", indent, mainExpr)

	splices := []splice{
		{at: b.open + 1, text: "\n" + indent + "return new Component(props, el, function () {"},
		{at: b.close, text: render.String()},
		{at: b.close, text: "\n" + indent + "});\n"},
	}
	splices = append(splices, hookSplices(b, hooks)...)

	return applySplices(code, splices), nil
}

// declarationKeywords are followed by a name being declared or imported.
var declarationKeywords = map[string]bool{
	"function": true, "const": true, "let": true, "var": true, "class": true,
	"import": true, "export": true, "as": true,
}

// hookSplices rewrites each hook identifier in a code position to
// this.<hook>. Member accesses such as x.useState, declarations, import
// and export names, and object keys are left alone.
func hookSplices(b *behavior, hooks []string) []splice {
	if len(hooks) == 0 {
		return nil
	}
	names := make(map[string]bool, len(hooks))
	for _, h := range hooks {
		names[h] = true
	}

	var sig []token
	for _, t := range b.toks {
		if t.significant() {
			sig = append(sig, t)
		}
	}

	var out []splice
	var open []byte // enclosing brackets; '$' for a template substitution
	for i, t := range sig {
		switch t.kind {
		case tokPunct:
			switch c := b.code[t.start]; c {
			case '(', '[', '{':
				open = append(open, c)
			case ')', ']', '}':
				if len(open) > 0 {
					open = open[:len(open)-1]
				}
			}
			continue
		case tokTemplate:
			text := t.text(b.code)
			if strings.HasPrefix(text, "}") && len(open) > 0 {
				open = open[:len(open)-1]
			}
			if strings.HasSuffix(text, "${") {
				open = append(open, '$')
			}
			continue
		case tokIdent:
		default:
			continue
		}

		if !names[t.text(b.code)] {
			continue
		}
		var prev, next token
		if i > 0 {
			prev = sig[i-1]
		}
		if i+1 < len(sig) {
			next = sig[i+1]
		}
		inBraces := len(open) > 0 && open[len(open)-1] == '{'
		if i > 0 && !isHookUse(b.code, prev, next, i+1 < len(sig), inBraces) {
			continue
		}
		out = append(out, splice{at: t.start, text: "this."})
	}
	return out
}

// isHookUse reports whether a hook name between prev and next is a
// reference rather than a member, a declared name or an object key.
func isHookUse(code string, prev, next token, hasNext, inBraces bool) bool {
	if isPunct(code, prev, '.') {
		return false
	}
	if prev.kind == tokIdent && declarationKeywords[prev.text(code)] {
		return false
	}
	if inBraces && (isPunct(code, prev, '{') || isPunct(code, prev, ',')) && hasNext {
		if isPunct(code, next, ':') || isPunct(code, next, ',') || isPunct(code, next, '}') {
			return false
		}
		if next.kind == tokIdent && next.text(code) == "as" {
			return false
		}
	}
	return true
}

// applySplices applies splices to code. Splices at the same offset are
// applied in the order given.
func applySplices(code string, splices []splice) string {
	sort.SliceStable(splices, func(i, j int) bool {
		return splices[i].at < splices[j].at
	})

	var sb strings.Builder
	pos := 0
	for _, s := range splices {
		sb.WriteString(code[pos:s.at])
		sb.WriteString(s.text)
		pos = s.at
	}
	sb.WriteString(code[pos:])
	return sb.String()
}

// importLine declares the runtime primitives the generated code depends on.
func importLine(runtime string) string {
	return "import { h, Component } from " + vdom.Quote(runtime) + ";\n"
}

// defaultBehavior is used for documents without a behavior block.
func defaultBehavior(name string) string {
	return "export default function " + name + "(props, el) {\n}\n"
}
