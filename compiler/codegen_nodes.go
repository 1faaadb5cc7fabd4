package compiler

import (
	"fmt"

	"github.com/vcrobe/vcc/markup"
	"github.com/vcrobe/vcc/vdom"
)

// templateCompiler turns the elements of one template block into h() calls.
type templateCompiler struct {
	block    string    // key of the block being compiled, for errors
	registry *Registry // blocks that may be referenced as factories
	used     map[string]bool
	opts     Options
}

// compile compiles n and prints it at the given indentation depth.
func (c *templateCompiler) compile(n *markup.Node, depth int) (string, error) {
	call, err := c.compileElement(n)
	if err != nil {
		return "", err
	}
	return vdom.Print(call, depth), nil
}

// compileElement recursively compiles an element node into a constructor call.
func (c *templateCompiler) compileElement(n *markup.Node) (*vdom.Call, error) {
	call := vdom.NewCall(n.Tag, c.attributeProps(n))
	frames := newFrameStack()

	for _, child := range n.Children {
		switch {
		case child.IsElement():
			if key, ok := c.registry.Lookup(child.Tag); ok {
				if hasContent(child) {
					c.opts.warnf("%s: line %d: children of <%s> are ignored, sub-components take props only", c.block, child.Line, child.Tag)
				}
				if c.used != nil {
					c.used[key] = true
				}
				frames.add(&vdom.Factory{Name: key, Props: c.factoryProps(child)})
				continue
			}
			sub, err := c.compileElement(child)
			if err != nil {
				return nil, err
			}
			frames.add(sub)

		case child.IsText():
			c.compileText(child, frames)
		}
	}

	if open := frames.innermost(); open != nil {
		return nil, &Error{
			Kind:    ErrUnbalancedExpression,
			Block:   c.block,
			Tag:     n.Tag,
			Line:    open.line,
			Message: fmt.Sprintf("expression {%s is never closed inside <%s>", open.head, n.Tag),
			Hints:   []string{"close the expression with a text line ending in '}' before the element ends"},
		}
	}

	call.Children = frames.items()
	return call, nil
}

// hasContent reports whether n has element children or non-blank text.
func hasContent(n *markup.Node) bool {
	for _, c := range n.Children {
		if c.IsElement() || classifyText(c.Data, false) != textBlank {
			return true
		}
	}
	return false
}

// frame is an open multi-line expression collecting the siblings that
// follow its opening text.
type frame struct {
	head  string
	items []vdom.Expr
	line  int
}

// frameStack holds the open frames of one child list. The bottom frame
// collects the child list itself and is never popped.
type frameStack struct {
	frames []*frame
}

func newFrameStack() *frameStack {
	return &frameStack{frames: []*frame{{}}}
}

func (s *frameStack) top() *frame {
	return s.frames[len(s.frames)-1]
}

// add appends e to the innermost open frame.
func (s *frameStack) add(e vdom.Expr) {
	if vdom.IsEmpty(e) {
		return
	}
	top := s.top()
	top.items = append(top.items, e)
}

func (s *frameStack) push(head string, line int) {
	s.frames = append(s.frames, &frame{head: head, line: line})
}

// pop closes the innermost frame with tail and adds the finished block to
// the enclosing frame.
func (s *frameStack) pop(tail string) {
	f := s.top()
	s.frames = s.frames[:len(s.frames)-1]
	s.add(&vdom.Block{Head: f.head, Items: f.items, Tail: tail})
}

// depth is the number of open frames.
func (s *frameStack) depth() int {
	return len(s.frames) - 1
}

// innermost returns the innermost open frame, or nil when none is open.
func (s *frameStack) innermost() *frame {
	if s.depth() == 0 {
		return nil
	}
	return s.top()
}

// items returns the finished child list.
func (s *frameStack) items() []vdom.Expr {
	return s.frames[0].items
}
