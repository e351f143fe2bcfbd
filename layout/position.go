package layout

// resolvePositioned walks the tree for boxes queued during the block
// pass (absolute/fixed) plus any sticky boxes, and positions them
// against their resolved containing block (spec §4.5: "absolute and
// fixed children are removed from normal flow and positioned in a
// second pass ... absolute: nearest positioned ancestor; fixed:
// viewport").
func (e *Engine) resolvePositioned(root *LayoutNode) {
	root.Walk(func(n *LayoutNode) {
		switch n.Position {
		case PositionAbsolute:
			e.positionAbsolute(n)
		case PositionFixed:
			e.positionFixed(n)
		case PositionSticky:
			e.positionSticky(n)
		}
	})
}

func (n *LayoutNode) Walk(fn func(*LayoutNode)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// FindElementBox returns the first box (pre-order) whose DOM node has
// the given id attribute.
func (n *LayoutNode) FindElementBox(id string) *LayoutNode {
	var found *LayoutNode
	n.Walk(func(m *LayoutNode) {
		if found != nil || m.DOMNode == nil {
			return
		}
		if m.DOMNode.ID() == id {
			found = m
		}
	})
	return found
}

func (e *Engine) positionAbsolute(n *LayoutNode) {
	cb := n.ContainingBlock()
	x, y := cb.Geometry.ContentLeft(), cb.Geometry.ContentTop()
	if n.HasOffsetLeft {
		x += n.OffsetLeft
	} else if n.HasOffsetRight {
		x += cb.Geometry.Width - n.Geometry.Width - n.OffsetRight
	}
	if n.HasOffsetTop {
		y += n.OffsetTop
	} else if n.HasOffsetBottom {
		y += cb.Geometry.Height - n.Geometry.Height - n.OffsetBottom
	}
	n.Geometry.X, n.Geometry.Y = x, y
}

func (e *Engine) positionFixed(n *LayoutNode) {
	x, y := 0.0, 0.0
	if n.HasOffsetLeft {
		x = n.OffsetLeft
	} else if n.HasOffsetRight {
		x = e.ViewportWidth - n.Geometry.Width - n.OffsetRight
	}
	if n.HasOffsetTop {
		y = n.OffsetTop
	} else if n.HasOffsetBottom {
		y = e.ViewportHeight - n.Geometry.Height - n.OffsetBottom
	}
	n.Geometry.X, n.Geometry.Y = x, y
}

// positionSticky leaves in-flow placement untouched here; the shell
// supplies the live scroll offset (spec §6's sticky info output) that a
// later pass clamps this box against a threshold.
func (e *Engine) positionSticky(n *LayoutNode) {}
