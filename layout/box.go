// Package layout converts a styled DOM into a box tree, dispatching each
// node's display mode to a formatting context (block, inline, flex, table).
package layout

import (
	"gocko/cssom"
	"gocko/html"
)

// Mode tags a LayoutNode's formatting context.
type Mode int

const (
	ModeNone Mode = iota
	ModeBlock
	ModeInline
	ModeFlex
	ModeGrid
	ModeTable
)

// PositionType tags how a box participates in (or escapes) normal flow.
type PositionType int

const (
	PositionStatic PositionType = iota
	PositionRelative
	PositionAbsolute
	PositionFixed
	PositionSticky
)

// Edges is a four-sided box-model record (margin, border, or padding).
type Edges struct {
	Top, Right, Bottom, Left float64
}

func (e Edges) Horizontal() float64 { return e.Left + e.Right }
func (e Edges) Vertical() float64   { return e.Top + e.Bottom }

// Geometry holds a box's resolved position and size plus its box-model
// edges (spec §3's LayoutNode.geometry).
type Geometry struct {
	X, Y          float64
	Width, Height float64
	Margin        Edges
	Border        Edges
	Padding       Edges
}

// ContentLeft/ContentTop are the derived accessors spec §3 names.
func (g Geometry) ContentLeft() float64 {
	return g.X + g.Margin.Left + g.Border.Left + g.Padding.Left
}

func (g Geometry) ContentTop() float64 {
	return g.Y + g.Margin.Top + g.Border.Top + g.Padding.Top
}

func (g Geometry) MarginBoxWidth() float64 {
	return g.Margin.Left + g.Border.Left + g.Padding.Left + g.Width + g.Padding.Right + g.Border.Right + g.Margin.Right
}

func (g Geometry) MarginBoxHeight() float64 {
	return g.Margin.Top + g.Border.Top + g.Padding.Top + g.Height + g.Padding.Bottom + g.Border.Bottom + g.Margin.Bottom
}

func (g Geometry) BorderBoxWidth() float64 {
	return g.Border.Left + g.Padding.Left + g.Width + g.Padding.Right + g.Border.Right
}

func (g Geometry) BorderBoxHeight() float64 {
	return g.Border.Top + g.Padding.Top + g.Height + g.Padding.Bottom + g.Border.Bottom
}

// FlexParams carries the resolved flex-item inputs a flex formatting
// context needs; zero value means "not a flex item".
type FlexParams struct {
	Grow      float64
	Shrink    float64
	Basis     float64
	BasisAuto bool
	AlignSelf string
	Order     int
}

// LayoutNode is one box in the layout tree (spec §3's LayoutNode).
type LayoutNode struct {
	DOMNode *html.Node
	Style   *cssom.ComputedStyle

	Mode    Mode
	Display string

	Geometry Geometry

	MinWidth, MaxWidth   float64
	HasMinWidth          bool
	HasMaxWidth          bool
	MinHeight, MaxHeight float64
	HasMinHeight         bool
	HasMaxHeight         bool

	Position    PositionType
	OffsetTop   float64
	OffsetRight float64
	OffsetBottom float64
	OffsetLeft  float64
	HasOffsetTop, HasOffsetRight, HasOffsetBottom, HasOffsetLeft bool

	// Text content, set only for boxes generated from a text node's
	// wrapped line fragments.
	Text       string
	IsText     bool
	FontFamily string
	FontSize   float64
	FontWeight int
	Italic     bool
	IsLink     bool
	LinkHref   string
	// LinkNode is the originating <a> DOM node for a word fragment
	// produced by the inline flattener, so fragments from the same
	// anchor can be merged back into one region (spec §4.6).
	LinkNode *html.Node

	Flex FlexParams

	// DetailsID is issued for <summary> boxes so the paint stage can emit
	// a stable details-toggle region (spec §4.6).
	DetailsID string

	Children []*LayoutNode
	Parent   *LayoutNode
}

func (n *LayoutNode) AppendChild(child *LayoutNode) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// IsPositioned reports whether n establishes a containing block for
// absolutely positioned descendants.
func (n *LayoutNode) IsPositioned() bool {
	return n.Position != PositionStatic
}

// ContainingBlock walks up to the nearest positioned ancestor, or the
// root if none is positioned (spec §4.5's absolute positioning rule).
func (n *LayoutNode) ContainingBlock() *LayoutNode {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.IsPositioned() {
			return p
		}
	}
	return n.root()
}

func (n *LayoutNode) root() *LayoutNode {
	r := n
	for r.Parent != nil {
		r = r.Parent
	}
	return r
}
