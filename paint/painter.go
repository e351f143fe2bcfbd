// Package paint walks a styled box tree into an ordered display list plus
// the side-band hit-test regions the shell needs (spec §4.6).
package paint

import (
	"fmt"
	"image"
	"strconv"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"gocko/cssom"
	"gocko/cssom/values"
	"gocko/html"
	"gocko/layout"
)

// ImageLoader resolves a box's image source to a decoded image.Image; the
// painter box-fits it to the box's rect before emitting DrawImage so the
// rasterizer never has to resample.
type ImageLoader func(src string) (image.Image, error)

// Painter renders one box tree into a DisplayList.
type Painter struct {
	LoadImage ImageLoader
	log       *zap.Logger

	// linkFrags accumulates one entry per word fragment of an in-flow
	// link during a PaintTree call, merged into one LinkRegion per
	// anchor once the walk finishes (spec §4.6: "one LinkRegion per
	// <a href>", not one per wrapped word).
	linkFrags []linkFragment
}

// linkFragment is one word-fragment's contribution to its anchor's
// LinkRegion, keyed by the anchor DOM node so fragments belonging to
// different <a> elements with identical text never merge together.
type linkFragment struct {
	Node   *html.Node
	Href   string
	Target string
	Rect   Rect
}

func NewPainter(loadImage ImageLoader, log *zap.Logger) *Painter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Painter{LoadImage: loadImage, log: log}
}

// PaintTree renders root in tree order, accumulating absolute coordinates
// that are already baked into each LayoutNode's Geometry.
func (p *Painter) PaintTree(root *layout.LayoutNode) *DisplayList {
	dl := &DisplayList{}
	p.linkFrags = nil
	p.paintBox(dl, root)
	dl.LinkRegions = append(dl.LinkRegions, mergeLinkFragments(p.linkFrags)...)
	return dl
}

func borderBoxRect(n *layout.LayoutNode) Rect {
	return Rect{
		X:      n.Geometry.X + n.Geometry.Margin.Left,
		Y:      n.Geometry.Y + n.Geometry.Margin.Top,
		Width:  n.Geometry.BorderBoxWidth(),
		Height: n.Geometry.BorderBoxHeight(),
	}
}

// radiusCtx builds the resolve context border-radius percentages and
// relative units need, local to the box they decorate.
func radiusCtx(n *layout.LayoutNode) values.ResolveContext {
	fontSize := 16.0
	if n.Style != nil {
		fontSize = n.Style.FontSize
	}
	return values.ResolveContext{
		FontSize: fontSize, RootFontSize: 16,
		ParentWidth: n.Geometry.Width, ParentHeight: n.Geometry.Height,
	}
}

func cornerRadii(style *cssom.ComputedStyle, ctx values.ResolveContext) CornerRadii {
	return CornerRadii{
		TopLeft:     style.BorderTopLeftRadius.Resolve(ctx),
		TopRight:    style.BorderTopRightRadius.Resolve(ctx),
		BottomRight: style.BorderBottomRightRadius.Resolve(ctx),
		BottomLeft:  style.BorderBottomLeftRadius.Resolve(ctx),
	}
}

func (p *Painter) paintBox(dl *DisplayList, n *layout.LayoutNode) {
	if n == nil {
		return
	}
	if n.IsText {
		p.paintText(dl, n)
		return
	}

	style := n.Style
	rect := borderBoxRect(n)
	var radii CornerRadii
	if style != nil {
		radii = cornerRadii(style, radiusCtx(n))
	}

	clipPushed := false
	transformPushed := false

	if style != nil {
		p.paintBackground(dl, style, rect, radii)
		p.paintBorder(dl, style, n, rect, radii)

		if shadow := parseBoxShadow(style.BoxShadow); shadow != nil {
			dl.push(FillBoxShadow{Rect: rect, Color: shadow.Color, OffsetX: shadow.OffsetX,
				OffsetY: shadow.OffsetY, Blur: shadow.Blur, Spread: shadow.Spread,
				Inset: shadow.Inset, Radii: radii})
		}

		if clipsOverflow(style) {
			dl.push(PushClip{Rect: rect, Radii: radii})
			clipPushed = true
		}
		if style.Transform != "" && style.Transform != "none" {
			if tk, ok := parseTransform(style.Transform, rect); ok {
				dl.push(PushTransform{Transform: tk})
				transformPushed = true
			}
		}
		if style.Filter != "" && style.Filter != "none" {
			dl.push(ApplyFilter{Filter: style.Filter})
		}

		p.emitRegions(dl, n, rect)
	}

	if n.DOMNode != nil && n.DOMNode.Tag == "img" {
		p.paintImage(dl, n, rect)
	}
	if n.DOMNode != nil && n.DOMNode.Tag == "hr" {
		dl.push(DrawLine{X1: rect.X, Y1: rect.Y, X2: rect.X + rect.Width, Y2: rect.Y,
			Color: values.Color{R: 180, G: 180, B: 190, A: 255}, Width: 1})
	}
	if n.DOMNode != nil && n.DOMNode.Tag == "input" {
		p.paintFormControl(dl, n, rect, style)
	}
	if n.DOMNode != nil && n.DOMNode.Tag == "select" {
		p.paintSelectDecoration(dl, n, rect, style)
	}

	for _, child := range n.Children {
		p.paintBox(dl, child)
	}

	if style != nil {
		p.paintOutline(dl, style, rect, radii, radiusCtx(n))
	}

	if transformPushed {
		dl.push(PopTransform{})
	}
	if clipPushed {
		dl.push(PopClip{})
	}
}

func (p *Painter) paintText(dl *DisplayList, n *layout.LayoutNode) {
	if n.Text == "" {
		return
	}
	color := values.Black()
	decoration := "none"
	if n.Style != nil {
		color = n.Style.Color
		decoration = n.Style.TextDecoration
	}
	if n.IsLink {
		color = values.Color{R: 25, G: 118, B: 210, A: 255}
		if decoration == "none" {
			decoration = "underline"
		}
	}
	baselineY := n.Geometry.Y + n.FontSize
	dl.push(DrawText{
		Text: n.Text, X: n.Geometry.X, Y: baselineY,
		FontFamily: n.FontFamily, FontSize: n.FontSize, FontWeight: n.FontWeight,
		Italic: n.Italic, Color: color, Decoration: decoration,
	})
	if n.IsLink {
		rect := Rect{X: n.Geometry.X, Y: n.Geometry.Y, Width: n.Geometry.Width, Height: n.Geometry.Height}
		p.linkFrags = append(p.linkFrags, linkFragment{Node: n.LinkNode, Href: n.LinkHref, Target: linkTarget(n), Rect: rect})
	}
}

// linkTarget reads the target attribute directly off the word's
// originating <a> DOM node (carried as LinkNode), since the anchor
// itself is flattened away during inline layout and never becomes its
// own LayoutNode to walk up to.
func linkTarget(n *layout.LayoutNode) string {
	if n.LinkNode == nil {
		return ""
	}
	target, _ := n.LinkNode.GetAttribute("target")
	return target
}

// mergeLinkFragments unions every fragment belonging to the same anchor
// (by DOM node identity, falling back to href+target for fragments with
// no anchor reference) into a single bounding-box LinkRegion, preserving
// first-seen order.
func mergeLinkFragments(frags []linkFragment) []LinkRegion {
	if len(frags) == 0 {
		return nil
	}
	var order []string
	merged := map[string]*LinkRegion{}
	for _, f := range frags {
		key := linkFragmentKey(f)
		if existing, ok := merged[key]; ok {
			existing.Rect = unionRect(existing.Rect, f.Rect)
			continue
		}
		order = append(order, key)
		region := LinkRegion{Rect: f.Rect, Href: f.Href, Target: f.Target}
		merged[key] = &region
	}
	out := make([]LinkRegion, 0, len(order))
	for _, key := range order {
		out = append(out, *merged[key])
	}
	return out
}

func linkFragmentKey(f linkFragment) string {
	if f.Node != nil {
		return fmt.Sprintf("node:%p", f.Node)
	}
	return "href:" + f.Href + "|" + f.Target
}

func unionRect(a, b Rect) Rect {
	minX, minY := minf(a.X, b.X), minf(a.Y, b.Y)
	maxX, maxY := maxf(a.X+a.Width, b.X+b.Width), maxf(a.Y+a.Height, b.Y+b.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func (p *Painter) paintBackground(dl *DisplayList, style *cssom.ComputedStyle, rect Rect, radii CornerRadii) {
	if style.BackgroundColor.A == 0 && style.BackgroundImage == "" {
		return
	}
	var gradient *Gradient
	if g, ok := parseGradient(style.BackgroundImage); ok {
		gradient = g
	}
	dl.push(FillRect{Rect: rect, Color: style.BackgroundColor, Gradient: gradient, Radii: radii})
}

func (p *Painter) paintBorder(dl *DisplayList, style *cssom.ComputedStyle, n *layout.LayoutNode, rect Rect, radii CornerRadii) {
	g := n.Geometry
	top := BorderSide{Width: g.Border.Top, Color: style.BorderTopColor, Style: style.BorderTopStyle}
	right := BorderSide{Width: g.Border.Right, Color: style.BorderRightColor, Style: style.BorderRightStyle}
	bottom := BorderSide{Width: g.Border.Bottom, Color: style.BorderBottomColor, Style: style.BorderBottomStyle}
	left := BorderSide{Width: g.Border.Left, Color: style.BorderLeftColor, Style: style.BorderLeftStyle}
	if top.Width == 0 && right.Width == 0 && bottom.Width == 0 && left.Width == 0 {
		return
	}
	dl.push(DrawBorder{Rect: rect, Top: top, Right: right, Bottom: bottom, Left: left, Radii: radii})
}

// paintOutline draws after every child so the outline is never occluded
// by a descendant's own background/border (spec §4.6). Unlike border it
// is offset outward by OutlineOffset rather than sharing the box edge.
func (p *Painter) paintOutline(dl *DisplayList, style *cssom.ComputedStyle, rect Rect, radii CornerRadii, ctx values.ResolveContext) {
	if style.OutlineStyle == "" || style.OutlineStyle == "none" {
		return
	}
	width := style.OutlineWidth.Resolve(ctx)
	if width <= 0 {
		return
	}
	offset := style.OutlineOffset.Resolve(ctx)
	dl.push(DrawOutline{
		Rect:   Rect{X: rect.X - offset, Y: rect.Y - offset, Width: rect.Width + 2*offset, Height: rect.Height + 2*offset},
		Side:   BorderSide{Width: width, Color: style.OutlineColor, Style: style.OutlineStyle},
		Offset: offset,
		Radii:  radii,
	})
}

func (p *Painter) paintImage(dl *DisplayList, n *layout.LayoutNode, rect Rect) {
	src, ok := n.DOMNode.GetAttribute("src")
	if !ok || src == "" || p.LoadImage == nil {
		return
	}
	img, err := p.LoadImage(src)
	if err != nil || img == nil {
		p.log.Debug("image load failed", zap.String("src", src), zap.Error(err))
		return
	}
	fitted := imaging.Fit(img, int(rect.Width), int(rect.Height), imaging.Lanczos)
	dl.push(DrawImage{Rect: rect, Image: fitted})
}

// paintFormControl draws the decoration spec §4.6 requires for replaced
// form-control boxes (checkbox, radio, range, color, and the text caret),
// dispatched on the input's type attribute the way the teacher's
// InputHandler.Render switches on inputType, but stateless: there is no
// interactive FormState here, so "checked" and "value" are read straight
// off the DOM node rather than a focus/click-tracking side table.
func (p *Painter) paintFormControl(dl *DisplayList, n *layout.LayoutNode, rect Rect, style *cssom.ComputedStyle) {
	typ, _ := n.DOMNode.GetAttribute("type")
	switch typ {
	case "checkbox":
		p.paintCheckbox(dl, n, rect)
	case "radio":
		p.paintRadio(dl, n, rect)
	case "range":
		p.paintRange(dl, n, rect)
	case "color":
		p.paintColorSwatch(dl, n, rect)
	case "submit", "button", "reset", "hidden":
		// spec §4.6 only names checkbox/radio/range/color/select/caret;
		// these types keep only the background/border already painted
		// above and their FormSubmitRegion hit-test entry.
	default:
		p.paintTextCaret(dl, n, rect, style)
	}
}

// paintCheckbox is grounded on the teacher's InputHandler.renderCheckbox:
// a bordered square with a smaller filled square inset when checked.
func (p *Painter) paintCheckbox(dl *DisplayList, n *layout.LayoutNode, rect Rect) {
	size := minf(rect.Width, rect.Height)
	if size <= 0 {
		size = 16
	}
	box := Rect{X: rect.X, Y: rect.Y, Width: size, Height: size}
	border := BorderSide{Width: 1, Color: values.Color{R: 100, G: 100, B: 110, A: 255}, Style: "solid"}
	dl.push(FillRect{Rect: box, Color: values.Color{R: 255, G: 255, B: 255, A: 255}})
	dl.push(DrawBorder{Rect: box, Top: border, Right: border, Bottom: border, Left: border})
	if _, checked := n.DOMNode.GetAttribute("checked"); checked {
		inset := size * 0.22
		dl.push(FillRect{
			Rect:  Rect{X: box.X + inset, Y: box.Y + inset, Width: size - 2*inset, Height: size - 2*inset},
			Color: values.Color{R: 66, G: 133, B: 244, A: 255},
		})
	}
}

// paintRadio is grounded on the teacher's InputHandler.renderRadio: a
// stroked circle with a smaller filled dot when checked.
func (p *Painter) paintRadio(dl *DisplayList, n *layout.LayoutNode, rect Rect) {
	size := minf(rect.Width, rect.Height)
	if size <= 0 {
		size = 16
	}
	box := Rect{X: rect.X, Y: rect.Y, Width: size, Height: size}
	stroke := BorderSide{Width: 1, Color: values.Color{R: 100, G: 100, B: 110, A: 255}}
	dl.push(DrawEllipse{Rect: box, Color: values.Color{R: 255, G: 255, B: 255, A: 255}, Stroke: &stroke})
	if _, checked := n.DOMNode.GetAttribute("checked"); checked {
		inset := size * 0.28
		dl.push(DrawEllipse{
			Rect:  Rect{X: box.X + inset, Y: box.Y + inset, Width: size - 2*inset, Height: size - 2*inset},
			Color: values.Color{R: 66, G: 133, B: 244, A: 255},
		})
	}
}

// paintRange has no teacher equivalent (the teacher's forms package never
// implemented type=range); it follows the same track/thumb visual
// language as the teacher's checkbox/radio decorations, reading min/max/
// value straight off the DOM node since there is no stateful drag here.
func (p *Painter) paintRange(dl *DisplayList, n *layout.LayoutNode, rect Rect) {
	trackY := rect.Y + rect.Height/2 - 1
	dl.push(FillRect{Rect: Rect{X: rect.X, Y: trackY, Width: rect.Width, Height: 2},
		Color: values.Color{R: 200, G: 200, B: 205, A: 255}})

	min := numericAttr(n.DOMNode, "min", 0)
	max := numericAttr(n.DOMNode, "max", 100)
	if max <= min {
		max = min + 1
	}
	val := numericAttr(n.DOMNode, "value", (min+max)/2)
	frac := clamp01((val - min) / (max - min))

	thumb := minf(rect.Height, 16)
	if thumb <= 0 {
		thumb = 16
	}
	thumbX := rect.X + frac*rect.Width - thumb/2
	thumbY := rect.Y + rect.Height/2 - thumb/2
	dl.push(DrawEllipse{Rect: Rect{X: thumbX, Y: thumbY, Width: thumb, Height: thumb},
		Color: values.Color{R: 66, G: 133, B: 244, A: 255}})
}

// paintColorSwatch has no teacher equivalent; it reuses the same
// bordered-box language as paintCheckbox/paintColorSwatch's siblings,
// filling the inset with the input's current value parsed as a CSS color.
func (p *Painter) paintColorSwatch(dl *DisplayList, n *layout.LayoutNode, rect Rect) {
	val, _ := n.DOMNode.GetAttribute("value")
	col, err := values.ParseColor(val)
	if err != nil {
		col = values.Color{A: 255}
	}
	border := BorderSide{Width: 1, Color: values.Color{R: 180, G: 180, B: 190, A: 255}}
	dl.push(FillRect{Rect: rect, Color: values.Color{R: 255, G: 255, B: 255, A: 255}})
	const inset = 3.0
	dl.push(FillRect{
		Rect:  Rect{X: rect.X + inset, Y: rect.Y + inset, Width: rect.Width - 2*inset, Height: rect.Height - 2*inset},
		Color: col,
	})
	dl.push(DrawBorder{Rect: rect, Top: border, Right: border, Bottom: border, Left: border})
}

// paintTextCaret is grounded on the teacher's InputHandler.renderTextInput,
// minus the blink/focus state: this pipeline has no keyboard-event loop
// (spec's Non-goals exclude JS execution and this engine has no shell-fed
// focus tracking), so the caret is simply drawn after the current value
// or placeholder text rather than toggled by a focus+blink timer.
func (p *Painter) paintTextCaret(dl *DisplayList, n *layout.LayoutNode, rect Rect, style *cssom.ComputedStyle) {
	fontSize := 16.0
	family := ""
	color := values.Black()
	if style != nil {
		fontSize = style.FontSize
		family = style.FontFamily
		color = style.Color
	}
	baselineY := rect.Y + rect.Height/2 + fontSize*0.3
	textX := rect.X + 6

	value, hasValue := n.DOMNode.GetAttribute("value")
	if typ, _ := n.DOMNode.GetAttribute("type"); typ == "password" && hasValue {
		value = maskBullets(value)
	}
	if hasValue && value != "" {
		dl.push(DrawText{Text: value, X: textX, Y: baselineY, FontFamily: family, FontSize: fontSize, Color: color})
		textX += float64(len([]rune(value))) * fontSize * 0.55
	} else if ph, ok := n.DOMNode.GetAttribute("placeholder"); ok && ph != "" {
		dl.push(DrawText{Text: ph, X: textX, Y: baselineY, FontFamily: family, FontSize: fontSize,
			Color: values.Color{R: 150, G: 150, B: 160, A: 255}})
	}

	dl.push(DrawLine{X1: textX, Y1: rect.Y + 4, X2: textX, Y2: rect.Y + rect.Height - 4,
		Color: values.Color{R: 66, G: 133, B: 244, A: 255}, Width: 1})
}

func maskBullets(value string) string {
	out := make([]rune, len([]rune(value)))
	for i := range out {
		out[i] = '•'
	}
	return string(out)
}

// paintSelectDecoration draws the closed-state current-value text and
// dropdown arrow the teacher's SelectHandler.Render shows before a click
// opens the option list (the option list itself is exposed as hit-test
// data via emitRegions's SelectRegion, not painted here, since opening it
// is the shell's job).
func (p *Painter) paintSelectDecoration(dl *DisplayList, n *layout.LayoutNode, rect Rect, style *cssom.ComputedStyle) {
	options, selected := selectOptions(n.DOMNode)
	text := "Select..."
	if selected >= 0 && selected < len(options) {
		text = options[selected]
	}
	fontSize := 16.0
	family := ""
	color := values.Black()
	if style != nil {
		fontSize = style.FontSize
		family = style.FontFamily
		color = style.Color
	}
	dl.push(DrawText{Text: text, X: rect.X + 8, Y: rect.Y + rect.Height/2 + fontSize*0.3,
		FontFamily: family, FontSize: fontSize, Color: color})

	arrow := values.Color{R: 100, G: 100, B: 110, A: 255}
	ax := rect.X + rect.Width - 16
	ay := rect.Y + rect.Height/2 - 3
	dl.push(DrawLine{X1: ax, Y1: ay, X2: ax + 3, Y2: ay + 4, Color: arrow, Width: 1.5})
	dl.push(DrawLine{X1: ax + 3, Y1: ay + 4, X2: ax + 6, Y2: ay, Color: arrow, Width: 1.5})
}

func numericAttr(n *html.Node, name string, fallback float64) float64 {
	raw, ok := n.GetAttribute(name)
	if !ok {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func (p *Painter) emitRegions(dl *DisplayList, n *layout.LayoutNode, rect Rect) {
	dl.ElementRegions = append(dl.ElementRegions, ElementRegion{Rect: rect, Node: n.DOMNode})

	if n.Style.Cursor != "" && n.Style.Cursor != "auto" {
		dl.CursorRegions = append(dl.CursorRegions, CursorRegion{Rect: rect, Cursor: n.Style.Cursor})
	}

	if n.DOMNode == nil {
		return
	}
	switch n.DOMNode.Tag {
	case "a":
		if href, ok := n.DOMNode.GetAttribute("href"); ok {
			target, _ := n.DOMNode.GetAttribute("target")
			dl.LinkRegions = append(dl.LinkRegions, LinkRegion{Rect: rect, Href: href, Target: target})
		}
	case "summary":
		if n.DetailsID != "" {
			dl.DetailsToggleRegions = append(dl.DetailsToggleRegions, DetailsToggleRegion{Rect: rect, DetailsID: n.DetailsID})
		}
	case "button":
		if typ, _ := n.DOMNode.GetAttribute("type"); typ == "" || typ == "submit" {
			dl.FormSubmitRegions = append(dl.FormSubmitRegions, FormSubmitRegion{Rect: rect, Node: n.DOMNode})
		}
	case "input":
		if typ, _ := n.DOMNode.GetAttribute("type"); typ == "submit" {
			dl.FormSubmitRegions = append(dl.FormSubmitRegions, FormSubmitRegion{Rect: rect, Node: n.DOMNode})
		}
	case "select":
		options, selected := selectOptions(n.DOMNode)
		dl.SelectRegions = append(dl.SelectRegions, SelectRegion{Rect: rect, Options: options, Selected: selected})
	}
}

func selectOptions(selectNode *html.Node) (options []string, selected int) {
	for i, child := range selectNode.Children() {
		if child.Tag != "option" {
			continue
		}
		text := child.TextContent()
		options = append(options, text)
		if _, ok := child.GetAttribute("selected"); ok {
			selected = i
		}
	}
	return options, selected
}
