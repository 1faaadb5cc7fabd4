package markup

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// voidElements never have children, even without a self-closing slash.
var voidElements = map[atom.Atom]bool{
	atom.Area:   true,
	atom.Base:   true,
	atom.Br:     true,
	atom.Col:    true,
	atom.Embed:  true,
	atom.Hr:     true,
	atom.Img:    true,
	atom.Input:  true,
	atom.Keygen: true,
	atom.Link:   true,
	atom.Meta:   true,
	atom.Param:  true,
	atom.Source: true,
	atom.Track:  true,
	atom.Wbr:    true,
}

// IsVoid reports whether tag is an HTML void element.
func IsVoid(tag string) bool {
	return voidElements[atom.Lookup([]byte(tag))]
}

// Parse tokenizes r and returns the top-level nodes in source order.
//
// End tags close the nearest open element with the same name; end tags
// with no matching open element are ignored. Comments and doctypes are
// dropped. Elements still open at EOF are closed implicitly.
func Parse(r io.Reader) ([]*Node, error) {
	z := html.NewTokenizer(r)
	root := &Node{Type: ElementNode}
	stack := []*Node{root}
	line := 1

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("tokenizing markup at line %d: %w", line, err)
			}
			break
		}

		// Raw must be read before Token, which rewrites the buffer in place.
		start := line
		line += bytes.Count(z.Raw(), []byte("\n"))
		tok := z.Token()
		top := stack[len(stack)-1]

		switch tt {
		case html.TextToken:
			top.Children = append(top.Children, &Node{Type: TextNode, Data: tok.Data, Line: start})
		case html.StartTagToken, html.SelfClosingTagToken:
			el := &Node{Type: ElementNode, Tag: tok.Data, Line: start}
			for _, a := range tok.Attr {
				key := a.Key
				if a.Namespace != "" {
					key = a.Namespace + ":" + key
				}
				el.Attr = append(el.Attr, Attr{Key: key, Val: a.Val})
			}
			top.Children = append(top.Children, el)
			if tt == html.StartTagToken && !voidElements[tok.DataAtom] {
				stack = append(stack, el)
			}
		case html.EndTagToken:
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].Tag == tok.Data {
					stack = stack[:i]
					break
				}
			}
		}
	}

	return root.Children, nil
}

// ParseDocument parses a component description into its top-level
// <template> blocks and <script> blocks. Whitespace between top-level
// blocks is discarded; any other top-level element is kept in Others.
func ParseDocument(r io.Reader) (*Document, error) {
	nodes, err := Parse(r)
	if err != nil {
		return nil, err
	}

	doc := &Document{}
	for _, n := range nodes {
		if !n.IsElement() {
			continue
		}
		switch n.Tag {
		case "template":
			doc.Templates = append(doc.Templates, n)
		case "script":
			doc.Scripts = append(doc.Scripts, Script{Text: n.TextContent(), Line: n.Line})
		default:
			doc.Others = append(doc.Others, n)
		}
	}
	return doc, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string) ([]*Node, error) {
	return Parse(strings.NewReader(s))
}
