// Package xform builds and serialises XForm documents for the form runtime.
//
// The document is an explicit tree value (Element, Attr, Text) assembled
// fully in memory, then printed by a single pure serialisation pass. Nothing
// mutates the tree after compilation, so tests can assert on structure
// instead of string output.
package xform

// Node is one vertex of the XML tree: either an *Element or a Text value.
type Node interface {
	node()
}

// Attr is a single attribute. Attributes serialise in the order they were
// attached; an attribute is either present with its value or absent, never
// emitted empty by the compiler.
type Attr struct {
	Name  string
	Value string
}

// Element is a named node with ordered attributes and children.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []Node
}

// Text is character data; it is escaped during serialisation.
type Text string

func (*Element) node() {}
func (Text) node()     {}

// NewElement builds an element with the given children.
func NewElement(name string, children ...Node) *Element {
	return &Element{Name: name, Children: children}
}

// WithAttr appends an attribute and returns the element for chaining during
// tree construction.
func (e *Element) WithAttr(name, value string) *Element {
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
	return e
}

// Append adds children in order.
func (e *Element) Append(children ...Node) *Element {
	e.Children = append(e.Children, children...)
	return e
}

// Attr returns the value of the named attribute and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Find returns the first direct child element with the given name.
func (e *Element) Find(name string) (*Element, bool) {
	for _, child := range e.Children {
		if el, ok := child.(*Element); ok && el.Name == name {
			return el, true
		}
	}
	return nil, false
}

// FindAll returns every direct child element with the given name, in order.
func (e *Element) FindAll(name string) []*Element {
	var out []*Element
	for _, child := range e.Children {
		if el, ok := child.(*Element); ok && el.Name == name {
			out = append(out, el)
		}
	}
	return out
}

// Elements returns all direct child elements in order.
func (e *Element) Elements() []*Element {
	var out []*Element
	for _, child := range e.Children {
		if el, ok := child.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// InnerText concatenates the direct text children.
func (e *Element) InnerText() string {
	var out string
	for _, child := range e.Children {
		if t, ok := child.(Text); ok {
			out += string(t)
		}
	}
	return out
}
