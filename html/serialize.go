package html

import "strings"

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
var attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;")

// OuterHTML serializes n and its subtree back to HTML text, the way
// the teacher's dom.Node.OuterHTML walks children into a
// strings.Builder. Used to round-trip a DOM scripthost mutated back
// into render_html's normal parse-from-text entry point.
func (n *Node) OuterHTML() string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	n.writeOuterHTML(&sb)
	return sb.String()
}

// InnerHTML serializes n's children only.
func (n *Node) InnerHTML() string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		c.writeOuterHTML(&sb)
	}
	return sb.String()
}

func (n *Node) writeOuterHTML(sb *strings.Builder) {
	switch n.Type {
	case TextNode:
		sb.WriteString(escaper.Replace(n.Data))
		return
	case CommentNode:
		sb.WriteString("<!--")
		sb.WriteString(n.Data)
		sb.WriteString("-->")
		return
	case DocumentNode, DoctypeNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			c.writeOuterHTML(sb)
		}
		return
	}

	sb.WriteString("<")
	sb.WriteString(n.Tag)
	for _, a := range n.attrs {
		sb.WriteString(" ")
		sb.WriteString(a.Name)
		sb.WriteString(`="`)
		sb.WriteString(attrEscaper.Replace(a.Value))
		sb.WriteString(`"`)
	}
	sb.WriteString(">")

	if voidElements[n.Tag] {
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		c.writeOuterHTML(sb)
	}

	sb.WriteString("</")
	sb.WriteString(n.Tag)
	sb.WriteString(">")
}
