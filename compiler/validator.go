package compiler

import (
	"fmt"
	"strings"

	"github.com/vcrobe/vcc/markup"
)

// unsafeElements may not appear inside templates when sanitizing: they load
// or run code outside the component's control.
var unsafeElements = map[string]bool{
	"script": true,
	"iframe": true,
	"object": true,
	"embed":  true,
	"link":   true,
	"style":  true,
}

// urlAttributes hold URLs, checked for javascript: values.
var urlAttributes = map[string]bool{
	"href":       true,
	"src":        true,
	"action":     true,
	"formaction": true,
	"xlink:href": true,
}

// validateTemplate rejects unsafe markup in a template block.
// Event attributes are the component's own handlers and are allowed.
func validateTemplate(block *markup.Node, key string) error {
	for _, child := range block.Children {
		if err := validateNode(child, key); err != nil {
			return err
		}
	}
	return nil
}

func validateNode(n *markup.Node, key string) error {
	if !n.IsElement() {
		return nil
	}

	if unsafeElements[n.Tag] {
		return &Error{
			Kind:    ErrUnsafeMarkup,
			Block:   key,
			Tag:     n.Tag,
			Line:    n.Line,
			Message: fmt.Sprintf("<%s> is not allowed in templates", n.Tag),
			Hints:   []string{"move behavior into the <script> block"},
		}
	}

	for _, a := range n.Attr {
		if !urlAttributes[a.Key] {
			continue
		}
		if _, dynamic := unwrapBraces(strings.TrimSpace(a.Val)); dynamic {
			continue
		}
		if isJavaScriptURL(a.Val) {
			return &Error{
				Kind:    ErrUnsafeMarkup,
				Block:   key,
				Tag:     n.Tag,
				Line:    n.Line,
				Message: fmt.Sprintf("%s=%q uses a javascript: URL", a.Key, a.Val),
				Hints:   []string{fmt.Sprintf("use an event attribute such as onclick on <%s> instead", n.Tag)},
			}
		}
	}

	for _, child := range n.Children {
		if err := validateNode(child, key); err != nil {
			return err
		}
	}
	return nil
}

// isJavaScriptURL reports whether v is a javascript: URL, ignoring case and
// the whitespace and control characters browsers strip before the scheme.
func isJavaScriptURL(v string) bool {
	var sb strings.Builder
	for _, r := range v {
		if r <= ' ' {
			continue
		}
		sb.WriteRune(r)
	}
	return strings.HasPrefix(strings.ToLower(sb.String()), "javascript:")
}
