package layout

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gocko/cssom"
	"gocko/cssom/values"
	"gocko/html"
)

// MeasureTextFunc measures a run of text under a given font (spec §4.5:
// "text nodes are measured through the injected measure_text callback").
// When nil, the engine falls back to a char-count heuristic.
type MeasureTextFunc func(text string, fontSize float64, family string, weight int, italic bool, letterSpacing float64) float64

// Engine drives one layout pass over a styled DOM tree.
type Engine struct {
	ViewportWidth  float64
	ViewportHeight float64
	MeasureText    MeasureTextFunc
	log            *zap.Logger
}

func NewEngine(viewportWidth, viewportHeight float64, measure MeasureTextFunc, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{ViewportWidth: viewportWidth, ViewportHeight: viewportHeight, MeasureText: measure, log: log}
}

// Layout builds the full box tree for doc's <body> (falling back to
// <html>, or doc itself for a fragment with no document wrapper), sized
// to the viewport, then positions absolute/fixed boxes in a second pass
// against their resolved containing blocks (spec §4.5).
func (e *Engine) Layout(doc *html.Node) *LayoutNode {
	rootDOM := doc.FindElement("body")
	if rootDOM == nil {
		rootDOM = doc.FindElement("html")
	}
	if rootDOM == nil {
		rootDOM = doc
	}

	var root *LayoutNode
	if rootDOM.Type == html.ElementNode {
		root = e.buildElement(rootDOM, nil, e.ViewportWidth)
	}
	if root == nil {
		root = &LayoutNode{Mode: ModeBlock, Style: cssom.NewComputedStyle(), DOMNode: rootDOM}
		root.Style.Width = values.Px(e.ViewportWidth)
		computeBoxGeometry(root, e.ViewportWidth, e.ViewportHeight, e.ViewportWidth, e.ViewportHeight)
		e.layoutBlock(root)
	}
	root.Geometry.X, root.Geometry.Y = 0, 0
	e.resolvePositioned(root)
	return root
}

// buildNode resolves the style, display mode, and geometry for one DOM
// node, then recurses into the formatting context its mode selects.
// Returns nil for display:none and whitespace-only text nodes.
func (e *Engine) buildNode(dom *html.Node, parent *LayoutNode, containingWidth float64) *LayoutNode {
	switch dom.Type {
	case html.TextNode:
		return e.buildText(dom, parent)
	case html.ElementNode:
		return e.buildElement(dom, parent, containingWidth)
	default:
		return nil
	}
}

func (e *Engine) buildElement(dom *html.Node, parent *LayoutNode, containingWidth float64) *LayoutNode {
	style, _ := dom.ComputedStyle.(*cssom.ComputedStyle)
	if style == nil {
		style = cssom.NewComputedStyle()
	}
	if style.IsHidden() {
		return nil
	}

	n := &LayoutNode{DOMNode: dom, Style: style, Parent: parent}
	n.Position = positionFromStyle(style)
	n.Display = style.Display

	containingHeight := 0.0
	if parent != nil {
		containingHeight = parent.Geometry.Height
	}
	computeBoxGeometry(n, containingWidth, containingHeight, e.ViewportWidth, e.ViewportHeight)
	e.resolveOffsets(n, style)

	if dom.Tag == "summary" {
		n.DetailsID = detailsIDPrefix + uuid.NewString()
	}

	switch {
	case style.IsFlex():
		n.Mode = ModeFlex
		e.layoutFlexContainer(n)
	case style.Display == "table":
		n.Mode = ModeTable
		e.layoutTable(n)
	case style.IsBlock():
		n.Mode = ModeBlock
		e.layoutBlock(n)
	default:
		n.Mode = ModeInline
		e.layoutBlock(n) // inline-level boxes with block children still stack top-to-bottom
	}
	return n
}

const detailsIDPrefix = "details-"

func (e *Engine) buildText(dom *html.Node, parent *LayoutNode) *LayoutNode {
	if strings.TrimSpace(dom.Data) == "" {
		return nil
	}
	style := cssom.NewComputedStyle()
	if parent != nil {
		style = parent.Style
	}
	return &LayoutNode{
		DOMNode:    dom,
		Style:      style,
		Mode:       ModeInline,
		IsText:     true,
		Text:       dom.Data,
		FontFamily: style.FontFamily,
		FontSize:   style.FontSize,
		FontWeight: style.FontWeight,
		Italic:     style.FontStyle == "italic",
		Parent:     parent,
	}
}

func positionFromStyle(style *cssom.ComputedStyle) PositionType {
	switch style.Position {
	case "relative":
		return PositionRelative
	case "absolute":
		return PositionAbsolute
	case "fixed":
		return PositionFixed
	case "sticky":
		return PositionSticky
	default:
		return PositionStatic
	}
}

func (e *Engine) resolveOffsets(n *LayoutNode, style *cssom.ComputedStyle) {
	ctx := resolveContext(style.FontSize, n.Geometry.Width, n.Geometry.Height, e.ViewportWidth, e.ViewportHeight)
	if !style.Top.IsAuto() {
		n.HasOffsetTop, n.OffsetTop = true, style.Top.ResolveHeight(ctx)
	}
	if !style.Right.IsAuto() {
		n.HasOffsetRight, n.OffsetRight = true, style.Right.Resolve(ctx)
	}
	if !style.Bottom.IsAuto() {
		n.HasOffsetBottom, n.OffsetBottom = true, style.Bottom.ResolveHeight(ctx)
	}
	if !style.Left.IsAuto() {
		n.HasOffsetLeft, n.OffsetLeft = true, style.Left.Resolve(ctx)
	}
}

// measure delegates to the injected callback, falling back to the
// spec's char_count · font_size · 0.6 heuristic.
func (e *Engine) measure(text string, fontSize float64, family string, weight int, italic bool, letterSpacing float64) float64 {
	if e.MeasureText != nil {
		return e.MeasureText(text, fontSize, family, weight, italic, letterSpacing)
	}
	return float64(len([]rune(text))) * fontSize * 0.6
}
