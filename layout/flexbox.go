package layout

import (
	"gocko/cssom"
	"gocko/html"
)

// flexItem is one child's resolved flex inputs/outputs, adapted from the
// teacher's FlexItem (github.com/arturoeanton-go-browser/gocko/layout/
// flexbox.go): same grow/shrink resolution and main/cross-axis split,
// generalized to work against LayoutNode instead of a bespoke struct.
type flexItem struct {
	box                                *LayoutNode
	flexBaseSize                       float64
	finalMainSize, finalCrossSize      float64
	mainPos, crossPos                  float64
	marginMainStart, marginMainEnd     float64
	marginCrossStart, marginCrossEnd   float64
	crossSize                          float64
}

type flexLine struct {
	items      []*flexItem
	mainSize   float64
	crossSize  float64
	crossStart float64
}

// layoutFlexContainer implements the simplified flex algorithm spec
// §4.5 calls for: resolve flex-basis, distribute grow/shrink slack,
// justify the main axis, align the cross axis, with gap support.
func (e *Engine) layoutFlexContainer(n *LayoutNode) {
	style := n.Style
	isRow := style.FlexDirection == "row" || style.FlexDirection == "row-reverse"
	isReverse := style.FlexDirection == "row-reverse" || style.FlexDirection == "column-reverse"

	var mainSize, crossSize float64
	if isRow {
		mainSize, crossSize = n.Geometry.Width, n.Geometry.Height
	} else {
		mainSize, crossSize = n.Geometry.Height, n.Geometry.Width
	}

	ctx := resolveContext(style.FontSize, n.Geometry.Width, n.Geometry.Height, e.ViewportWidth, e.ViewportHeight)
	gap := style.Gap.Resolve(ctx)

	var items []*flexItem
	for _, dom := range n.DOMNode.ChildNodes() {
		if dom.Type != html.ElementNode {
			continue
		}
		childStyle, _ := dom.ComputedStyle.(*cssom.ComputedStyle)
		if childStyle != nil && childStyle.IsHidden() {
			continue
		}
		childWidth := n.Geometry.Width
		if !isRow {
			childWidth = n.Geometry.Height
		}
		box := e.buildElement(dom, n, childWidth)
		if box == nil {
			continue
		}
		item := &flexItem{box: box}
		item.marginMainStart, item.marginMainEnd = box.Geometry.Margin.Left, box.Geometry.Margin.Right
		item.marginCrossStart, item.marginCrossEnd = box.Geometry.Margin.Top, box.Geometry.Margin.Bottom
		if !isRow {
			item.marginMainStart, item.marginMainEnd = box.Geometry.Margin.Top, box.Geometry.Margin.Bottom
			item.marginCrossStart, item.marginCrossEnd = box.Geometry.Margin.Left, box.Geometry.Margin.Right
		}
		if !box.Style.FlexBasis.IsAuto() {
			basisCtx := resolveContext(box.Style.FontSize, mainSize, mainSize, e.ViewportWidth, e.ViewportHeight)
			item.flexBaseSize = box.Style.FlexBasis.Resolve(basisCtx)
		} else if isRow {
			item.flexBaseSize = box.Geometry.Width
		} else {
			item.flexBaseSize = box.Geometry.Height
		}
		item.crossSize = box.Geometry.Height
		if !isRow {
			item.crossSize = box.Geometry.Width
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		if n.Style.Height.IsAuto() {
			n.Geometry.Height = 0
		}
		return
	}

	line := &flexLine{items: items}
	used := 0.0
	for _, it := range items {
		used += it.flexBaseSize + it.marginMainStart + it.marginMainEnd
	}
	if len(items) > 1 {
		used += gap * float64(len(items)-1)
	}
	free := mainSize - used

	if free > 0 {
		totalGrow := 0.0
		for _, it := range items {
			totalGrow += it.box.Style.FlexGrow
		}
		for _, it := range items {
			if totalGrow > 0 {
				it.finalMainSize = it.flexBaseSize + free*it.box.Style.FlexGrow/totalGrow
			} else {
				it.finalMainSize = it.flexBaseSize
			}
		}
	} else if free < 0 {
		totalShrink := 0.0
		for _, it := range items {
			totalShrink += it.box.Style.FlexShrink * it.flexBaseSize
		}
		for _, it := range items {
			if totalShrink > 0 {
				ratio := (it.box.Style.FlexShrink * it.flexBaseSize) / totalShrink
				it.finalMainSize = maxf(it.flexBaseSize+free*ratio, 0)
			} else {
				it.finalMainSize = it.flexBaseSize
			}
		}
	} else {
		for _, it := range items {
			it.finalMainSize = it.flexBaseSize
		}
	}

	justifyMainAxis(line, mainSize, gap, style.JustifyContent, isReverse)

	lineCross := 0.0
	for _, it := range items {
		c := it.crossSize + it.marginCrossStart + it.marginCrossEnd
		if c > lineCross {
			lineCross = c
		}
	}
	for _, it := range items {
		align := it.box.Style.AlignSelf
		if align == "" || align == "auto" {
			align = style.AlignItems
		}
		if align == "stretch" {
			it.finalCrossSize = lineCross - it.marginCrossStart - it.marginCrossEnd
		} else {
			it.finalCrossSize = it.crossSize
		}
		itemSize := it.finalCrossSize + it.marginCrossStart + it.marginCrossEnd
		switch align {
		case "flex-end", "end":
			it.crossPos = lineCross - itemSize + it.marginCrossStart
		case "center":
			it.crossPos = (lineCross-itemSize)/2 + it.marginCrossStart
		default:
			it.crossPos = it.marginCrossStart
		}
	}

	n.Children = n.Children[:0]
	for _, it := range items {
		if isRow {
			it.box.Geometry.X = n.Geometry.ContentLeft() + it.mainPos
			it.box.Geometry.Y = n.Geometry.ContentTop() + it.crossPos
			it.box.Geometry.Width = it.finalMainSize
			if it.box.Style.AlignSelf == "stretch" || (it.box.Style.AlignSelf == "" && style.AlignItems == "stretch") {
				it.box.Geometry.Height = it.finalCrossSize
			}
		} else {
			it.box.Geometry.X = n.Geometry.ContentLeft() + it.crossPos
			it.box.Geometry.Y = n.Geometry.ContentTop() + it.mainPos
			it.box.Geometry.Height = it.finalMainSize
			if it.box.Style.AlignSelf == "stretch" || (it.box.Style.AlignSelf == "" && style.AlignItems == "stretch") {
				it.box.Geometry.Width = it.finalCrossSize
			}
		}
		n.Children = append(n.Children, it.box)
	}

	if n.Style.Height.IsAuto() {
		if isRow {
			n.Geometry.Height = lineCross
		} else {
			total := 0.0
			for _, it := range items {
				total += it.finalMainSize + it.marginMainStart + it.marginMainEnd
			}
			if len(items) > 1 {
				total += gap * float64(len(items)-1)
			}
			n.Geometry.Height = total
		}
	}
}

func justifyMainAxis(line *flexLine, mainSize, gap float64, justify string, isReverse bool) {
	used := 0.0
	for _, it := range line.items {
		used += it.finalMainSize + it.marginMainStart + it.marginMainEnd
	}
	n := len(line.items)
	if n > 1 {
		used += gap * float64(n-1)
	}
	free := maxf(mainSize-used, 0)

	var start, spacing float64
	switch justify {
	case "flex-end", "end":
		start = free
	case "center":
		start = free / 2
	case "space-between":
		if n > 1 {
			spacing = free / float64(n-1)
		}
	case "space-around":
		spacing = free / float64(n)
		start = spacing / 2
	case "space-evenly":
		spacing = free / float64(n+1)
		start = spacing
	}

	items := line.items
	if isReverse {
		reversed := make([]*flexItem, n)
		for i, it := range items {
			reversed[n-1-i] = it
		}
		items = reversed
	}

	pos := start
	for i, it := range items {
		it.mainPos = pos + it.marginMainStart
		pos += it.marginMainStart + it.finalMainSize + it.marginMainEnd
		if i < n-1 {
			pos += gap + spacing
		}
	}
}
