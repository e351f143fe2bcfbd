package layout

import "gocko/cssom/values"

// resolveContext builds a values.ResolveContext for resolving lengths
// against a box's containing block (mirrors the teacher's box-model
// resolution, generalized to the new ComputedStyle/Length types).
func resolveContext(fontSize, containingWidth, containingHeight, viewportWidth, viewportHeight float64) values.ResolveContext {
	return values.ResolveContext{
		FontSize:       fontSize,
		RootFontSize:   16,
		LineHeight:     fontSize * defaultLineHeightRatio,
		ParentWidth:    containingWidth,
		ParentHeight:   containingHeight,
		ViewportWidth:  viewportWidth,
		ViewportHeight: viewportHeight,
		CharWidth:      fontSize * 0.55,
	}
}

// computeBoxGeometry fills in margin/border/padding and the content
// width/height a box would have in isolation (spec §4.5's box model:
// "margin_box = border_box + margin, border_box = padding_box + border,
// padding_box = content + padding"). Auto width fills the containing
// block; auto height is resolved later, once children are laid out.
func computeBoxGeometry(n *LayoutNode, containingWidth, containingHeight, viewportWidth, viewportHeight float64) {
	style := n.Style
	ctx := resolveContext(style.FontSize, containingWidth, containingHeight, viewportWidth, viewportHeight)

	g := &n.Geometry
	g.Margin = Edges{
		Top:    style.MarginTop.Resolve(ctx),
		Right:  style.MarginRight.Resolve(ctx),
		Bottom: style.MarginBottom.Resolve(ctx),
		Left:   style.MarginLeft.Resolve(ctx),
	}
	g.Padding = Edges{
		Top:    style.PaddingTop.Resolve(ctx),
		Right:  style.PaddingRight.Resolve(ctx),
		Bottom: style.PaddingBottom.Resolve(ctx),
		Left:   style.PaddingLeft.Resolve(ctx),
	}
	g.Border = Edges{
		Top:    style.BorderTopWidth.Resolve(ctx),
		Right:  style.BorderRightWidth.Resolve(ctx),
		Bottom: style.BorderBottomWidth.Resolve(ctx),
		Left:   style.BorderLeftWidth.Resolve(ctx),
	}

	if style.Width.IsAuto() {
		g.Width = containingWidth - g.Margin.Horizontal() - g.Border.Horizontal() - g.Padding.Horizontal()
	} else {
		resolved := style.Width.Resolve(ctx)
		if style.BoxSizing == "border-box" {
			resolved -= g.Padding.Horizontal() + g.Border.Horizontal()
		}
		g.Width = maxf(resolved, 0)
	}
	n.MinWidth = style.MinWidth.Resolve(ctx)
	n.HasMinWidth = n.MinWidth > 0
	g.Width = maxf(g.Width, n.MinWidth)
	if !style.MaxWidth.IsAuto() {
		n.HasMaxWidth = true
		n.MaxWidth = style.MaxWidth.Resolve(ctx)
		g.Width = minf(g.Width, n.MaxWidth)
	}

	if !style.Height.IsAuto() {
		resolved := style.Height.ResolveHeight(ctx)
		if style.BoxSizing == "border-box" {
			resolved -= g.Padding.Vertical() + g.Border.Vertical()
		}
		g.Height = maxf(resolved, 0)
	}
	if !style.MaxHeight.IsAuto() {
		n.HasMaxHeight = true
		n.MaxHeight = style.MaxHeight.ResolveHeight(ctx)
		if g.Height > n.MaxHeight {
			g.Height = n.MaxHeight
		}
	}
}

const defaultLineHeightRatio = 1.2

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// collapseMargins returns the collapsed margin between two adjacent
// in-flow block siblings: the max of two positives, the min (most
// negative) of two negatives, or the sum when signs differ (spec §4.5).
func collapseMargins(a, b float64) float64 {
	if a >= 0 && b >= 0 {
		return maxf(a, b)
	}
	if a < 0 && b < 0 {
		return minf(a, b)
	}
	return a + b
}
