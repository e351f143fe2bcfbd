package cssom

import (
	"strings"

	"gocko/html"
)

// ElementView is the read-only view the selector matcher operates against.
// It wraps a DOM element with the runtime markers the shell injects before
// each render (spec §4.4: ":hover"/"focus"/"active"/"visited" depend on
// state absent from this core, so they are modeled as marker attributes).
type ElementView struct {
	Node       *html.Node
	Markers    map[string]bool // "hover", "focus", "active", "visited", "link"
	TargetID   string          // the URL fragment's target id, if any
	Lang       string          // effective language for :lang()
}

func NewElementView(n *html.Node) *ElementView {
	return &ElementView{Node: n, Markers: map[string]bool{}}
}

// Matches reports whether list matches v (true if ANY complex selector in
// the list matches).
func (list *SelectorList) Matches(v *ElementView) bool {
	if list == nil {
		return false
	}
	for _, cs := range list.Items {
		if matchComplex(cs, v) {
			return true
		}
	}
	return false
}

// matchComplex implements the right-to-left algorithm of spec §4.4.
func matchComplex(cs ComplexSelector, v *ElementView) bool {
	n := len(cs.Parts)
	if n == 0 {
		return false
	}
	if !matchCompound(cs.Parts[n-1].Compound, v) {
		return false
	}
	node := v.Node
	for i := n - 2; i >= 0; i-- {
		combinator := cs.Parts[i+1].Combinator
		part := cs.Parts[i]
		switch combinator {
		case CombinatorDescendant:
			found := false
			for p := node.Parent; p != nil; p = p.Parent {
				if p.Type == html.ElementNode && matchCompound(part.Compound, elementViewFor(v, p)) {
					found = true
					node = p
					break
				}
			}
			if !found {
				return false
			}
		case CombinatorChild:
			p := node.Parent
			if p == nil || p.Type != html.ElementNode || !matchCompound(part.Compound, elementViewFor(v, p)) {
				return false
			}
			node = p
		case CombinatorNextSibling:
			prev := prevElementSibling(node)
			if prev == nil || !matchCompound(part.Compound, elementViewFor(v, prev)) {
				return false
			}
			node = prev
		case CombinatorSubsequentSibling:
			found := false
			for s := prevElementSibling(node); s != nil; s = prevElementSibling(s) {
				if matchCompound(part.Compound, elementViewFor(v, s)) {
					found = true
					node = s
					break
				}
			}
			if !found {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// elementViewFor builds a view for an ancestor/sibling reached during
// matching, inheriting the subject's runtime markers and language.
func elementViewFor(subject *ElementView, n *html.Node) *ElementView {
	return &ElementView{Node: n, Markers: subject.Markers, TargetID: subject.TargetID, Lang: subject.Lang}
}

func prevElementSibling(n *html.Node) *html.Node {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

func nextElementSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

func matchCompound(c CompoundSelector, v *ElementView) bool {
	for _, s := range c.Simples {
		if !matchSimple(s, v) {
			return false
		}
	}
	return true
}

func matchSimple(s SimpleSelector, v *ElementView) bool {
	n := v.Node
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	switch s.Kind {
	case SimpleUniversal:
		return true
	case SimpleType:
		return strings.EqualFold(n.Tag, s.Name)
	case SimpleClass:
		return n.HasClass(s.Name)
	case SimpleID:
		return n.ID() == s.Name
	case SimpleAttribute:
		return matchAttribute(s, n)
	case SimplePseudoClass:
		return matchPseudoClass(s, v)
	case SimplePseudoElement:
		// A pseudo-element never excludes a real element from matching;
		// the cascade (cssom.collectMatched) is what separates rules
		// targeting ::before/::after from rules targeting the element
		// itself, not this function.
		return true
	}
	return false
}

func matchAttribute(s SimpleSelector, n *html.Node) bool {
	val, ok := n.GetAttribute(s.AttrName)
	if s.AttrMatch == AttrExists {
		return ok
	}
	if !ok {
		return false
	}
	switch s.AttrMatch {
	case AttrExact:
		return val == s.AttrValue
	case AttrIncludes:
		for _, f := range strings.Fields(val) {
			if f == s.AttrValue {
				return true
			}
		}
		return false
	case AttrDashMatch:
		return val == s.AttrValue || strings.HasPrefix(val, s.AttrValue+"-")
	case AttrPrefix:
		return s.AttrValue != "" && strings.HasPrefix(val, s.AttrValue)
	case AttrSuffix:
		return s.AttrValue != "" && strings.HasSuffix(val, s.AttrValue)
	case AttrSubstring:
		return s.AttrValue != "" && strings.Contains(val, s.AttrValue)
	}
	return false
}

func matchPseudoClass(s SimpleSelector, v *ElementView) bool {
	n := v.Node
	switch s.Name {
	case "hover", "focus", "active":
		return v.Markers[s.Name]
	case "visited", "link":
		// Privacy policy: no visit history is consulted, so :visited
		// matches exactly what :link matches (an <a> with an href).
		_, hasHref := n.GetAttribute("href")
		return n.Tag == "a" && hasHref
	case "target":
		return v.TargetID != "" && n.ID() == v.TargetID // fails closed without a fragment
	case "root":
		return n.Tag == "html"
	case "empty":
		return n.FirstChild == nil
	case "first-child":
		return prevElementSibling(n) == nil
	case "last-child":
		return nextElementSibling(n) == nil
	case "only-child":
		return prevElementSibling(n) == nil && nextElementSibling(n) == nil
	case "first-of-type":
		for sib := prevElementSibling(n); sib != nil; sib = prevElementSibling(sib) {
			if sib.Tag == n.Tag {
				return false
			}
		}
		return true
	case "last-of-type":
		for sib := nextElementSibling(n); sib != nil; sib = nextElementSibling(sib) {
			if sib.Tag == n.Tag {
				return false
			}
		}
		return true
	case "only-of-type":
		return matchPseudoClass(SimpleSelector{Name: "first-of-type"}, v) && matchPseudoClass(SimpleSelector{Name: "last-of-type"}, v)
	case "disabled":
		_, ok := n.GetAttribute("disabled")
		return ok
	case "checked":
		_, ok := n.GetAttribute("checked")
		return ok
	case "lang":
		return s.Args != "" && strings.HasPrefix(strings.ToLower(v.Lang), strings.ToLower(s.Args))
	case "not":
		return !s.ArgSelectors.Matches(v)
	case "is", "matches":
		return s.ArgSelectors.Matches(v)
	case "where":
		return s.ArgSelectors.Matches(v)
	case "has":
		return matchesHas(n, s.ArgSelectors)
	case "nth-child":
		a, b, ok := ParseAnB(s.Args)
		if !ok {
			return false
		}
		return matchesAnB(a, b, elementIndex(n))
	case "nth-last-child":
		a, b, ok := ParseAnB(s.Args)
		if !ok {
			return false
		}
		return matchesAnB(a, b, elementCountAfter(n)+1)
	case "nth-of-type":
		a, b, ok := ParseAnB(s.Args)
		if !ok {
			return false
		}
		return matchesAnB(a, b, typedIndex(n))
	}
	return true // unknown pseudo-classes pass through
}

func matchesHas(n *html.Node, list *SelectorList) bool {
	if list == nil {
		return false
	}
	found := false
	n.Walk(func(m *html.Node) {
		if found || m == n || m.Type != html.ElementNode {
			return
		}
		if list.Matches(NewElementView(m)) {
			found = true
		}
	})
	return found
}

func matchesAnB(a, b, position int) bool {
	if a == 0 {
		return position == b
	}
	k := position - b
	if k%a != 0 {
		return false
	}
	return k/a >= 0
}

func elementIndex(n *html.Node) int {
	idx := 1
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			idx++
		}
	}
	return idx
}

func elementCountAfter(n *html.Node) int {
	count := 0
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			count++
		}
	}
	return count
}

func typedIndex(n *html.Node) int {
	idx := 1
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode && s.Tag == n.Tag {
			idx++
		}
	}
	return idx
}
