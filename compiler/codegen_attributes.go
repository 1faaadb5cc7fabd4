package compiler

import (
	"strings"

	"github.com/vcrobe/vcc/markup"
	"github.com/vcrobe/vcc/vdom"
)

// attributeProps builds the attribute object of an element.
// Event attributes (on*) carry code and are emitted unquoted; every other
// value becomes a string literal.
func (c *templateCompiler) attributeProps(n *markup.Node) []vdom.Prop {
	var props []vdom.Prop
	for _, a := range n.Attr {
		props = append(props, vdom.Prop{Key: a.Key, Value: attributeValue(a)})
	}
	return props
}

func attributeValue(a markup.Attr) string {
	if isEventAttribute(a.Key) {
		v := strings.TrimSpace(a.Val)
		if v == "" {
			return "null"
		}
		return v
	}
	return quoteText(a.Val)
}

// isEventAttribute reports whether key names an event handler.
func isEventAttribute(key string) bool {
	return strings.HasPrefix(strings.ToLower(key), EventPrefix)
}

// factoryProps builds the properties object of a sub-component reference.
// Values wrapped in braces are unwrapped to expressions; all others are
// emitted as string literals.
func (c *templateCompiler) factoryProps(n *markup.Node) []vdom.Prop {
	var props []vdom.Prop
	for _, a := range n.Attr {
		value := vdom.Quote(a.Val)
		if expr, ok := unwrapBraces(strings.TrimSpace(a.Val)); ok {
			value = expr
			if value == "" {
				value = "undefined"
			}
		}
		props = append(props, vdom.Prop{Key: a.Key, Value: value})
	}
	return props
}
