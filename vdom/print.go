package vdom

import (
	"strings"
	"unicode"
)

// Indent is the indentation unit of printed expressions.
const Indent = "    "

// Constructor is the name of the element constructor function in generated code.
const Constructor = "h"

// Print renders e as code. depth is the indentation level of the line on
// which e starts; nested lines are indented relative to it.
func Print(e Expr, depth int) string {
	var sb strings.Builder
	write(&sb, e, depth)
	return sb.String()
}

// String renders e at depth 0.
func String(e Expr) string {
	return Print(e, 0)
}

func write(sb *strings.Builder, e Expr, depth int) {
	switch n := e.(type) {
	case *Call:
		writeCall(sb, n, depth)
	case *Factory:
		sb.WriteString(n.Name)
		sb.WriteString("(")
		writeProps(sb, n.Props)
		sb.WriteString(")")
	case *Raw:
		sb.WriteString(n.Code)
	case *Literal:
		sb.WriteString(n.Quoted)
	case *Block:
		writeBlock(sb, n, depth)
	}
}

func writeCall(sb *strings.Builder, c *Call, depth int) {
	sb.WriteString(Constructor)
	sb.WriteString("(")
	sb.WriteString(Quote(c.Tag))
	sb.WriteString(", ")
	writeProps(sb, c.Props)
	sb.WriteString(", [")
	if len(c.Children) == 0 {
		sb.WriteString("])")
		return
	}
	for i, child := range c.Children {
		if i > 0 {
			sb.WriteString(",")
		}
		newline(sb, depth+1)
		write(sb, child, depth+1)
	}
	newline(sb, depth)
	sb.WriteString("])")
}

func writeBlock(sb *strings.Builder, b *Block, depth int) {
	first := true
	line := func(d int) {
		if !first {
			newline(sb, d)
		}
		first = false
	}

	itemDepth := depth
	if b.Head != "" {
		line(depth)
		sb.WriteString(b.Head)
		itemDepth = depth + 1
	}
	for i, item := range b.Items {
		line(itemDepth)
		write(sb, item, itemDepth)
		if i < len(b.Items)-1 {
			sb.WriteString(",")
		}
	}
	if b.Tail != "" {
		line(depth)
		sb.WriteString(b.Tail)
	}
}

func writeProps(sb *strings.Builder, props []Prop) {
	sb.WriteString("{")
	for i, p := range props {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(PropKey(p.Key))
		sb.WriteString(": ")
		sb.WriteString(p.Value)
	}
	sb.WriteString("}")
}

func newline(sb *strings.Builder, depth int) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(Indent, depth))
}

// PropKey returns key as an object-literal key: bare when it is a valid
// identifier, quoted otherwise (e.g. "data-id").
func PropKey(key string) string {
	if IsIdentifier(key) {
		return key
	}
	return Quote(key)
}

// IsIdentifier reports whether s is a plain identifier: a letter, '_' or '$'
// followed by letters, digits, '_' or '$'.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// IsEmpty reports whether e prints as nothing.
func IsEmpty(e Expr) bool {
	switch n := e.(type) {
	case nil:
		return true
	case *Raw:
		return strings.TrimSpace(n.Code) == ""
	case *Block:
		if n.Head != "" || n.Tail != "" {
			return false
		}
		for _, item := range n.Items {
			if !IsEmpty(item) {
				return false
			}
		}
		return true
	}
	return false
}
