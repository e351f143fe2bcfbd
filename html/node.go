package html

import "strings"

// NodeType tags the DOM node variant (spec §3).
type NodeType int

const (
	DocumentNode NodeType = iota
	ElementNode
	TextNode
	CommentNode
	DoctypeNode
)

// Node is a DOM tree node. Children are owned exclusively by their parent
// and form a doubly linked sibling list; Parent/PrevSibling/NextSibling are
// non-owning back edges kept in lockstep with that list (spec §9).
type Node struct {
	Type      NodeType
	Tag       string
	Namespace string
	Data      string // text content, comment data, or doctype name

	PublicID    string
	SystemID    string
	ForceQuirks bool

	attrs []Attribute
	id    string
	class []string

	Parent      *Node
	FirstChild  *Node
	LastChild   *Node
	PrevSibling *Node
	NextSibling *Node

	// ComputedStyle is filled in by the style resolver. It is declared as
	// interface{} here to avoid an import cycle between html and cssom;
	// callers type-assert to *cssom.ComputedStyle.
	ComputedStyle interface{}

	// Generated marks a node synthesized by the style resolver for a
	// ::before/::after box (spec §4.4); it never came from the parser and
	// has no attributes/source position of its own.
	Generated bool
}

// NewElement creates a detached element node.
func NewElement(tag string) *Node {
	return &Node{Type: ElementNode, Tag: tag}
}

// NewText creates a detached text node.
func NewText(data string) *Node {
	return &Node{Type: TextNode, Data: data}
}

// NewComment creates a detached comment node.
func NewComment(data string) *Node {
	return &Node{Type: CommentNode, Data: data}
}

// NewDocument creates a new, empty document node.
func NewDocument() *Node {
	return &Node{Type: DocumentNode}
}

// AppendChild appends child as the new last child of n, transferring
// ownership. child must be detached.
func (n *Node) AppendChild(child *Node) {
	if child.Parent != nil {
		panic("html: AppendChild called on an attached node")
	}
	child.Parent = n
	if n.LastChild != nil {
		n.LastChild.NextSibling = child
		child.PrevSibling = n.LastChild
	} else {
		n.FirstChild = child
	}
	n.LastChild = child
}

// InsertBefore inserts newChild immediately before ref, or appends it if
// ref is nil. newChild must be detached and ref (if non-nil) must be a
// child of n.
func (n *Node) InsertBefore(newChild, ref *Node) {
	if ref == nil {
		n.AppendChild(newChild)
		return
	}
	newChild.Parent = n
	prev := ref.PrevSibling
	newChild.PrevSibling = prev
	newChild.NextSibling = ref
	ref.PrevSibling = newChild
	if prev != nil {
		prev.NextSibling = newChild
	} else {
		n.FirstChild = newChild
	}
}

// Detach removes n from its parent's child list, repairing sibling back
// edges, and returns n with ownership transferred to the caller.
func (n *Node) Detach() *Node {
	if n.Parent == nil {
		return n
	}
	p := n.Parent
	if n.PrevSibling != nil {
		n.PrevSibling.NextSibling = n.NextSibling
	} else {
		p.FirstChild = n.NextSibling
	}
	if n.NextSibling != nil {
		n.NextSibling.PrevSibling = n.PrevSibling
	} else {
		p.LastChild = n.PrevSibling
	}
	n.Parent = nil
	n.PrevSibling = nil
	n.NextSibling = nil
	return n
}

// Children returns the node's element children in order, as a freshly
// built slice (the owning representation is the linked list).
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// ChildNodes returns every child (any type) in order.
func (n *Node) ChildNodes() []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// Attributes returns the ordered attribute list.
func (n *Node) Attributes() []Attribute { return n.attrs }

// GetAttribute returns an attribute's value and whether it was present.
func (n *Node) GetAttribute(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Attr returns an attribute value, or "" if absent.
func (n *Node) Attr(name string) string {
	v, _ := n.GetAttribute(name)
	return v
}

// SetAttribute sets (or appends) an attribute, keeping the cached id and
// class list synchronized (spec §3 invariant).
func (n *Node) SetAttribute(name, value string) {
	for i, a := range n.attrs {
		if a.Name == name {
			n.attrs[i].Value = value
			n.syncCache(name, value)
			return
		}
	}
	n.attrs = append(n.attrs, Attribute{Name: name, Value: value})
	n.syncCache(name, value)
}

// SetAttributes replaces the entire attribute list (used by the tree
// builder when inserting an element from a start tag token) and
// initializes the id/class cache.
func (n *Node) SetAttributes(attrs []Attribute) {
	n.attrs = attrs
	n.id = ""
	n.class = nil
	for _, a := range attrs {
		n.syncCache(a.Name, a.Value)
	}
}

func (n *Node) syncCache(name, value string) {
	switch name {
	case "id":
		n.id = value
	case "class":
		n.class = strings.Fields(value)
	}
}

// ID returns the cached id attribute value.
func (n *Node) ID() string { return n.id }

// ClassList returns the cached, whitespace-split class attribute.
func (n *Node) ClassList() []string { return n.class }

// HasClass reports whether name is present in the class list.
func (n *Node) HasClass(name string) bool {
	for _, c := range n.class {
		if c == name {
			return true
		}
	}
	return false
}

// TextContent concatenates the data of all descendant text nodes in tree
// order.
func (n *Node) TextContent() string {
	var sb strings.Builder
	var walk func(*Node)
	walk = func(m *Node) {
		if m.Type == TextNode {
			sb.WriteString(m.Data)
			return
		}
		for c := m.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// FindElement returns the first descendant element (depth-first,
// pre-order) whose tag equals name, or nil.
func (n *Node) FindElement(name string) *Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == ElementNode && c.Tag == name {
			return c
		}
		if found := c.FindElement(name); found != nil {
			return found
		}
	}
	return nil
}

// FindElementByID returns the first descendant element with the given id.
func (n *Node) FindElementByID(id string) *Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == ElementNode && c.id == id {
			return c
		}
		if found := c.FindElementByID(id); found != nil {
			return found
		}
	}
	return nil
}

// Walk calls fn for n and every descendant, in pre-order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		c.Walk(fn)
	}
}
