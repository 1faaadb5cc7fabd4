package compiler

import (
	"fmt"
	"strings"

	"github.com/vcrobe/vcc/markup"
)

// templateBlock is a top-level template normalized to its container.
type templateBlock struct {
	Key  string
	Node *markup.Node
	Line int
}

// classifiedTemplates holds the main block and the sub-blocks in document order.
type classifiedTemplates struct {
	Main *templateBlock
	Subs []*templateBlock
}

// Keys returns the keys of every block, main first.
func (c *classifiedTemplates) Keys() []string {
	keys := []string{c.Main.Key}
	for _, s := range c.Subs {
		keys = append(keys, s.Key)
	}
	return keys
}

// blockKey returns the capitalized name of the block's identifying attribute.
func blockKey(n *markup.Node) (string, bool) {
	if len(n.Attr) == 0 || n.Attr[0].Key == "" {
		return "", false
	}
	return capitalize(n.Attr[0].Key), true
}

// classifyTemplates splits blocks into the main block, whose key matches
// componentName, and the named sub-blocks. Every block is normalized to a
// container element with no attributes.
func classifyTemplates(blocks []*markup.Node, componentName, container string) (*classifiedTemplates, error) {
	result := &classifiedTemplates{}
	seen := make(map[string]int)

	for _, n := range blocks {
		key, ok := blockKey(n)
		if !ok {
			return nil, &Error{
				Kind:    ErrUnnamedTemplate,
				Tag:     n.Tag,
				Line:    n.Line,
				Message: "template block has no identifying attribute",
				Hints:   []string{fmt.Sprintf("name the block, e.g. <template %s>", strings.ToLower(componentName))},
			}
		}
		if first, dup := seen[strings.ToLower(key)]; dup {
			return nil, &Error{
				Kind:    ErrDuplicateTemplate,
				Block:   key,
				Tag:     n.Tag,
				Line:    n.Line,
				Message: fmt.Sprintf("block %q is already declared on line %d", key, first),
			}
		}
		seen[strings.ToLower(key)] = n.Line

		block := &templateBlock{
			Key:  key,
			Node: markup.Element(container, nil, n.Children...),
			Line: n.Line,
		}
		block.Node.Line = n.Line

		if strings.EqualFold(key, componentName) {
			result.Main = block
		} else {
			result.Subs = append(result.Subs, block)
		}
	}

	if result.Main == nil {
		var found []string
		for _, s := range result.Subs {
			found = append(found, s.Key)
		}
		return nil, &Error{
			Kind:    ErrMissingMainTemplate,
			Block:   componentName,
			Message: fmt.Sprintf("no template block is named %q", componentName),
			Hints: []string{
				fmt.Sprintf("add <template %s> ... </template>", strings.ToLower(componentName)),
				fmt.Sprintf("blocks found: [%s]", strings.Join(found, ", ")),
			},
		}
	}
	return result, nil
}
