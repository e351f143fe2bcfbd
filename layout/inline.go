package layout

import (
	"strings"

	"gocko/cssom"
	"gocko/html"
)

// inlineWord is one whitespace-delimited run of text carrying the
// effective style of its nearest inline ancestor (spec §4.5's inline
// formatting context flattens nested inline elements for line-breaking).
type inlineWord struct {
	text     string
	style    *cssom.ComputedStyle
	isLink   bool
	linkHref string
	// anchor is the originating <a> DOM node, carried through so the
	// painter can merge one anchor's word fragments into a single
	// LinkRegion (spec §4.6: "one LinkRegion per <a href>") instead of
	// emitting one per whitespace-delimited word.
	anchor *html.Node
}

// flattenInlineDOM walks dom nodes that are text or inline elements,
// collecting words in document order. Block-level descendants reached
// through malformed inline nesting are skipped, and no box is generated
// for them.
func flattenInlineDOM(nodes []*html.Node, inheritedStyle *cssom.ComputedStyle, isLink bool, href string, anchor *html.Node, out *[]inlineWord) {
	for _, n := range nodes {
		switch n.Type {
		case html.TextNode:
			for _, w := range strings.Fields(n.Data) {
				*out = append(*out, inlineWord{text: w, style: inheritedStyle, isLink: isLink, linkHref: href, anchor: anchor})
			}
		case html.ElementNode:
			style, _ := n.ComputedStyle.(*cssom.ComputedStyle)
			if style == nil {
				style = inheritedStyle
			}
			if style.IsHidden() {
				continue
			}
			if style.IsBlock() {
				continue
			}
			childIsLink, childHref, childAnchor := isLink, href, anchor
			if n.Tag == "a" {
				if h, ok := n.GetAttribute("href"); ok {
					childIsLink, childHref, childAnchor = true, h, n
				}
			}
			if n.Tag == "br" {
				*out = append(*out, inlineWord{text: "\n", style: style})
				continue
			}
			flattenInlineDOM(n.ChildNodes(), style, childIsLink, childHref, childAnchor, out)
		}
	}
}

// layoutInline wraps the flattened words of an inline run into lines
// within containingWidth, applying text-align per line (spec §4.5).
// Each placed word becomes one text-fragment child LayoutNode of container.
func (e *Engine) layoutInline(container *LayoutNode, nodes []*html.Node, containingWidth float64) {
	var words []inlineWord
	flattenInlineDOM(nodes, container.Style, false, "", nil, &words)

	type placed struct {
		word  inlineWord
		width float64
	}

	var lines [][]placed
	var current []placed
	cursorX := 0.0
	lineHeight := container.Style.FontSize * defaultLineHeightRatio

	flushLine := func() {
		lines = append(lines, current)
		current = nil
		cursorX = 0
	}

	for _, w := range words {
		if w.text == "\n" {
			flushLine()
			continue
		}
		width := e.measure(w.text, w.style.FontSize, w.style.FontFamily, w.style.FontWeight, w.style.FontStyle == "italic", 0)
		spaceWidth := e.measure(" ", w.style.FontSize, w.style.FontFamily, w.style.FontWeight, false, 0)
		advance := width
		if len(current) > 0 {
			advance += spaceWidth
		}
		if len(current) > 0 && cursorX+advance > containingWidth {
			flushLine()
			advance = width
		}
		current = append(current, placed{word: w, width: width})
		cursorX += advance
	}
	if len(current) > 0 {
		flushLine()
	}

	y := 0.0
	for lineIdx, line := range lines {
		lineWidth := 0.0
		for i, p := range line {
			lineWidth += p.width
			if i > 0 {
				lineWidth += e.measure(" ", p.word.style.FontSize, p.word.style.FontFamily, p.word.style.FontWeight, false, 0)
			}
		}
		isLastLine := lineIdx == len(lines)-1
		justify := container.Style.TextAlign == "justify" && !isLastLine && len(line) > 1
		startX := lineStartX(container.Style.TextAlign, containingWidth, lineWidth)
		extraGap := 0.0
		if justify {
			startX = 0
			extraGap = (containingWidth - lineWidth) / float64(len(line)-1)
			if extraGap < 0 {
				extraGap = 0
			}
		}

		x := startX
		for i, p := range line {
			if i > 0 {
				x += e.measure(" ", p.word.style.FontSize, p.word.style.FontFamily, p.word.style.FontWeight, false, 0) + extraGap
			}
			frag := &LayoutNode{
				Mode:       ModeInline,
				IsText:     true,
				Text:       p.word.text,
				Style:      p.word.style,
				FontFamily: p.word.style.FontFamily,
				FontSize:   p.word.style.FontSize,
				FontWeight: p.word.style.FontWeight,
				Italic:     p.word.style.FontStyle == "italic",
				IsLink:     p.word.isLink,
				LinkHref:   p.word.linkHref,
				LinkNode:   p.word.anchor,
				Parent:     container,
			}
			frag.Geometry.X = container.Geometry.ContentLeft() + x
			frag.Geometry.Y = container.Geometry.ContentTop() + y
			frag.Geometry.Width = p.width
			frag.Geometry.Height = lineHeight
			container.Children = append(container.Children, frag)
			x += p.width
		}
		y += lineHeight
	}

	if container.Style.Height.IsAuto() {
		container.Geometry.Height = y
	}
}

func lineStartX(align string, containingWidth, lineWidth float64) float64 {
	switch align {
	case "center":
		return maxf((containingWidth-lineWidth)/2, 0)
	case "right", "end":
		return maxf(containingWidth-lineWidth, 0)
	default:
		return 0
	}
}
