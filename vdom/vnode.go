// Package vdom models the virtual-DOM constructor expressions emitted by the
// compiler and prints them as code.
//
// A compiled template is a tree of Expr values rooted at a Call, which prints
// as h(tag, {props}, [children]).
package vdom

// Expr is one item of a children list, or a whole compiled template.
type Expr interface {
	expr()
}

// Prop is one key/value pair of an attribute or properties object.
// Value is emitted verbatim, so string values must already be quoted.
type Prop struct {
	Key   string
	Value string
}

// Call is a constructor call h(Tag, {Props}, [Children]).
type Call struct {
	Tag      string
	Props    []Prop
	Children []Expr
}

// Factory is a call to a sub-component factory: Name({Props}).
type Factory struct {
	Name  string
	Props []Prop
}

// Raw is an embedded host-language expression, emitted as is.
type Raw struct {
	Code string
}

// Literal is an already-quoted string literal.
type Literal struct {
	Quoted string
}

// Block is a multi-line embedded expression that wraps sibling items,
// e.g. Head "items.map(item =>", one Call item, Tail ")".
type Block struct {
	Head  string
	Items []Expr
	Tail  string
}

func (*Call) expr()    {}
func (*Factory) expr() {}
func (*Raw) expr()     {}
func (*Literal) expr() {}
func (*Block) expr()   {}

// NewCall creates a constructor call.
func NewCall(tag string, props []Prop, children ...Expr) *Call {
	return &Call{Tag: tag, Props: props, Children: children}
}
