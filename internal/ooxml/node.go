// Package ooxml provides a structural representation of one XML part of a
// word-processing package. Trees are treated as immutable values: transforms
// clone first and return a new tree, the original is never modified.
package ooxml

import "encoding/xml"

// Namespaces used across WordprocessingML parts.
const (
	NSWordprocessingML = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NSRelationships    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NSPackageRels      = "http://schemas.openxmlformats.org/package/2006/relationships"
	NSContentTypes     = "http://schemas.openxmlformats.org/package/2006/content-types"
	NSDrawingMLChart   = "http://schemas.openxmlformats.org/drawingml/2006/chart"
)

// Node is one element or text node of a part tree.
type Node struct {
	Name     xml.Name // element name; zero for text nodes
	Attr     []xml.Attr
	Children []*Node
	Text     string // text content, only when IsText
	IsText   bool
}

// NewElement builds an element node.
func NewElement(space, local string) *Node {
	return &Node{Name: xml.Name{Space: space, Local: local}}
}

// NewText builds a text node.
func NewText(text string) *Node {
	return &Node{IsText: true, Text: text}
}

// Append adds children and returns the node for chaining during construction.
// Once a tree is handed off it must not be appended to again.
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// WithAttr sets an attribute and returns the node for chaining during
// construction.
func (n *Node) WithAttr(space, local, value string) *Node {
	n.SetAttr(space, local, value)
	return n
}

// IsElement reports whether n is an element with the given name.
func (n *Node) IsElement(space, local string) bool {
	return !n.IsText && n.Name.Space == space && n.Name.Local == local
}

// AttrValue returns the value of the named attribute.
func (n *Node) AttrValue(space, local string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr replaces the named attribute value, adding the attribute if absent.
// Callers mutate only trees they have just cloned or built.
func (n *Node) SetAttr(space, local, value string) {
	for i, a := range n.Attr {
		if a.Name.Space == space && a.Name.Local == local {
			n.Attr[i].Value = value
			return
		}
	}
	n.Attr = append(n.Attr, xml.Attr{Name: xml.Name{Space: space, Local: local}, Value: value})
}

// Clone returns a deep, independent copy of the tree.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		Name:   n.Name,
		Text:   n.Text,
		IsText: n.IsText,
	}
	if len(n.Attr) > 0 {
		c.Attr = make([]xml.Attr, len(n.Attr))
		copy(c.Attr, n.Attr)
	}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// Equal reports structural equality: same tag, same attribute set
// (order-independent), and recursively equal children in the same order.
// Node identity is irrelevant.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.IsText != other.IsText {
		return false
	}
	if n.IsText {
		return n.Text == other.Text
	}
	if n.Name != other.Name {
		return false
	}
	if !attrSetsEqual(n.Attr, other.Attr) {
		return false
	}
	if len(n.Children) != len(other.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

func attrSetsEqual(a, b []xml.Attr) bool {
	if len(a) != len(b) {
		return false
	}
	for _, attr := range a {
		found := false
		for _, o := range b {
			if o.Name == attr.Name && o.Value == attr.Value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Walk visits n and every descendant in document order. Returning false from
// visit skips the node's children.
func (n *Node) Walk(visit func(*Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(visit)
	}
}

// FindFirst returns the first descendant element (including n itself) with
// the given name, or nil.
func (n *Node) FindFirst(space, local string) *Node {
	var match *Node
	n.Walk(func(node *Node) bool {
		if match != nil {
			return false
		}
		if node.IsElement(space, local) {
			match = node
			return false
		}
		return true
	})
	return match
}

// TextContent concatenates all text nodes beneath n.
func (n *Node) TextContent() string {
	var out []byte
	n.Walk(func(node *Node) bool {
		if node.IsText {
			out = append(out, node.Text...)
		}
		return true
	})
	return string(out)
}
