package compiler

import (
	"strings"

	"github.com/vcrobe/vcc/markup"
	"github.com/vcrobe/vcc/vdom"
)

// textKind classifies a text node inside an element's child list.
type textKind int

const (
	textBlank textKind = iota // whitespace only
	textExpr                  // {expr} on one node
	textOpen                  // {expr... continued by following siblings
	textClose                 // ...expr} closing the innermost open expression
	textPlain                 // anything else
)

// classifyText classifies trimmed text. open tells whether a multi-line
// expression is currently open, which is required for textClose.
func classifyText(text string, open bool) textKind {
	t := strings.TrimSpace(text)
	switch {
	case t == "":
		return textBlank
	case len(t) >= 2 && strings.HasPrefix(t, "{") && strings.HasSuffix(t, "}"):
		return textExpr
	case strings.HasPrefix(t, "{"):
		return textOpen
	case strings.HasSuffix(t, "}") && open:
		return textClose
	default:
		return textPlain
	}
}

// compileText adds the item for a text child to frames, opening or closing
// multi-line expressions as needed.
func (c *templateCompiler) compileText(n *markup.Node, frames *frameStack) {
	t := strings.TrimSpace(n.Data)

	switch classifyText(t, frames.depth() > 0) {
	case textBlank:
	case textExpr:
		frames.add(&vdom.Raw{Code: strings.TrimSpace(t[1 : len(t)-1])})
	case textOpen:
		lead := n.Data[:len(n.Data)-len(strings.TrimLeft(n.Data, " \t\r\n"))]
		frames.push(strings.TrimSpace(t[1:]), n.Line+strings.Count(lead, "\n"))
	case textClose:
		frames.pop(strings.TrimSpace(t[:len(t)-1]))
	case textPlain:
		frames.add(&vdom.Literal{Quoted: quoteText(t)})
	}
}
