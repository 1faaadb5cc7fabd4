// Package markup is a thin typed view over markup produced by the
// golang.org/x/net/html tokenizer.
//
// Unlike html.Parse, the tree built here follows the source: no implied
// html/head/body elements are inserted and no HTML5 reparenting happens.
// Tag and attribute names are folded to lower case by the tokenizer.
package markup

import "strings"

// NodeType identifies the kind of a Node.
type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// Attr is a single attribute. Order of attributes on a Node is the source order.
type Attr struct {
	Key string
	Val string
}

// Node is either an element (Tag, Attr, Children) or a text node (Data).
type Node struct {
	Type     NodeType
	Tag      string
	Attr     []Attr
	Children []*Node
	Data     string
	Line     int // 1-based line where the node starts
}

// Element creates an element node.
func Element(tag string, attrs []Attr, children ...*Node) *Node {
	return &Node{Type: ElementNode, Tag: tag, Attr: attrs, Children: children}
}

// IsElement reports whether n is an element node.
func (n *Node) IsElement() bool { return n != nil && n.Type == ElementNode }

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n != nil && n.Type == TextNode }

// TextContent concatenates the data of all descendant text nodes.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Data
	}
	var sb strings.Builder
	for _, c := range n.Children {
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}

// Document is one component description: its top-level template blocks
// and the raw text of its top-level script blocks, both in source order.
type Document struct {
	Templates []*Node
	Scripts   []Script
	// Others holds top-level elements that are neither templates nor scripts.
	Others []*Node
}

// Script is the raw text of a top-level <script> element.
type Script struct {
	Text string
	Line int
}
