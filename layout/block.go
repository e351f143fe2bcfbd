package layout

import "gocko/cssom"
import "gocko/html"

// layoutBlock lays out n's children as a block formatting context: each
// in-flow child stacks top to bottom, adjacent margins collapse, and the
// parent's auto height sums the children's margin boxes (spec §4.5).
func (e *Engine) layoutBlock(n *LayoutNode) {
	contentWidth := n.Geometry.Width
	children := e.buildBlockChildren(n, contentWidth)

	cursorY := 0.0
	prevMarginBottom := 0.0
	havePrev := false

	for _, child := range children {
		if child.Position == PositionAbsolute || child.Position == PositionFixed {
			continue // positioned out of flow; placed in the second pass
		}
		if havePrev {
			// cursorY already holds the previous bottom margin and the
			// child's margin box adds its top margin; replace both with
			// the single collapsed gap.
			collapsed := collapseMargins(prevMarginBottom, child.Geometry.Margin.Top)
			cursorY += collapsed - prevMarginBottom - child.Geometry.Margin.Top
		}
		child.Geometry.X = n.Geometry.ContentLeft()
		child.Geometry.Y = n.Geometry.ContentTop() + cursorY
		cursorY += child.Geometry.MarginBoxHeight()
		prevMarginBottom = child.Geometry.Margin.Bottom
		havePrev = true
	}

	n.Children = children
	if n.Style.Height.IsAuto() {
		n.Geometry.Height = maxf(cursorY, 0)
		if n.HasMaxHeight && n.Geometry.Height > n.MaxHeight {
			n.Geometry.Height = n.MaxHeight
		}
	}
}

// buildBlockChildren lays out each block-level DOM child directly and
// collects runs of inline-level content (text and inline elements) into
// anonymous block boxes, so the parent ends up with only block-level
// children (spec §4.5: "consecutive inline children ... are wrapped into
// anonymous block boxes").
func (e *Engine) buildBlockChildren(n *LayoutNode, contentWidth float64) []*LayoutNode {
	var out []*LayoutNode
	var inlineRun []*html.Node

	flushRun := func() {
		if len(inlineRun) == 0 {
			return
		}
		anonStyle := n.Style.Clone()
		anonStyle.Display = "block"
		anon := &LayoutNode{Mode: ModeInline, Display: "block", Style: anonStyle, Parent: n}
		computeBoxGeometry(anon, contentWidth, 0, e.ViewportWidth, e.ViewportHeight)
		e.layoutInline(anon, inlineRun, contentWidth)
		out = append(out, anon)
		inlineRun = nil
	}

	for _, dom := range n.DOMNode.ChildNodes() {
		switch dom.Type {
		case html.TextNode:
			inlineRun = append(inlineRun, dom)
		case html.ElementNode:
			style, _ := dom.ComputedStyle.(*cssom.ComputedStyle)
			if style != nil && style.IsHidden() {
				continue
			}
			if style != nil && (style.IsBlock() || style.IsFlex() || style.Display == "table") {
				flushRun()
				box := e.buildElement(dom, n, contentWidth)
				if box != nil {
					out = append(out, box)
				}
			} else {
				inlineRun = append(inlineRun, dom)
			}
		}
	}
	flushRun()
	return out
}
