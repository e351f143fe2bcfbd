package cssom

import (
	"sort"
	"strconv"
	"strings"

	"gocko/cssom/values"
	"gocko/html"
)

// MatchedRule is one declaration block matched against an element, tagged
// with enough information to order it in the cascade (spec §4.4).
type MatchedRule struct {
	Declarations []Declaration
	Specificity  Specificity
	SourceOrder  int
	Important    bool
	Origin       int // 0 = user-agent, 1 = user, 2 = author (author wins ties)
}

const (
	OriginUserAgent = 0
	OriginUser      = 1
	OriginAuthor    = 2
)

// Resolver computes styles for a styled tree given a set of stylesheets
// and a viewport for @media evaluation.
type Resolver struct {
	UserAgent      *Stylesheet
	Sheets         []*Stylesheet
	ViewportWidth  float64
	ViewportHeight float64
	RootFontSize   float64
}

func NewResolver(viewportW, viewportH float64) *Resolver {
	return &Resolver{
		UserAgent:      UserAgentStylesheet(),
		ViewportWidth:  viewportW,
		ViewportHeight: viewportH,
		RootFontSize:   16,
	}
}

// ResolveTree walks the DOM in pre-order, computing and attaching a
// *ComputedStyle to every element node (spec §4.4 inheritance rules).
func (r *Resolver) ResolveTree(root *html.Node) {
	r.resolve(root, nil)
}

func (r *Resolver) resolve(n *html.Node, parentStyle *ComputedStyle) {
	if n.Type == html.ElementNode {
		if n.Generated {
			// Style was assigned directly by injectGeneratedContent; it
			// didn't come from the cascade and must not be recomputed.
			if style, ok := n.ComputedStyle.(*ComputedStyle); ok {
				parentStyle = style
			}
		} else {
			style := r.ComputeStyle(n, parentStyle)
			n.ComputedStyle = style
			parentStyle = style
			r.injectGeneratedContent(n, style)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.resolve(c, parentStyle)
	}
}

// injectGeneratedContent synthesizes ::before/::after boxes as real,
// marked-Generated DOM children so the rest of the pipeline (layout's
// block/inline splitting, painter, rasterizer) needs no pseudo-element
// awareness of its own (spec §4.4: "::before/::after behave as if
// inserted as the element's first/last child when `content` is set").
func (r *Resolver) injectGeneratedContent(n *html.Node, style *ComputedStyle) {
	r.injectPseudo(n, style, "before")
	r.injectPseudo(n, style, "after")
}

func (r *Resolver) injectPseudo(n *html.Node, style *ComputedStyle, pseudo string) {
	pseudoStyle := r.computePseudoStyle(n, style, pseudo)
	if pseudoStyle == nil {
		return
	}
	text := generatedContentText(pseudoStyle.Content)
	if text == "" {
		return
	}
	box := html.NewElement("gocko-" + pseudo)
	box.Generated = true
	box.ComputedStyle = pseudoStyle
	textNode := html.NewText(text)
	textNode.Generated = true
	box.AppendChild(textNode)

	if pseudo == "before" {
		n.InsertBefore(box, n.FirstChild)
	} else {
		n.AppendChild(box)
	}
}

// generatedContentText resolves a `content` value to the literal text a
// ::before/::after box should render, or "" to synthesize no box at all
// (the property's initial value is `normal`, which computes to "none" on
// ::before/::after; spec §4.4 only requires string-literal content).
func generatedContentText(content string) string {
	switch content {
	case "", "none", "normal":
		return ""
	default:
		return content
	}
}

// ComputeStyle computes one element's style: collect matched rules
// (author sheets + inline style), sort by the cascade order, apply, then
// fall back to inheritance/initial values (spec §4.4). Rules whose
// selector targets a pseudo-element (`p::before`) never apply to the
// real element; those are collected separately by computePseudoStyle.
func (r *Resolver) ComputeStyle(n *html.Node, parent *ComputedStyle) *ComputedStyle {
	style := NewComputedStyle()
	view := NewElementView(n)
	matched := r.collectMatched(n, view, "")

	if inline, ok := n.GetAttribute("style"); ok && inline != "" {
		decls := ParseInlineStyle(inline)
		if len(decls) > 0 {
			matched = append(matched, MatchedRule{
				Declarations: decls,
				Specificity:  Specificity{A: 1_000_000}, // inline beats any author specificity
				SourceOrder:  len(matched),
				Origin:       OriginAuthor,
			})
		}
	}

	r.applyMatched(style, matched, parent)
	return style
}

// computePseudoStyle computes the style for n's ::before/::after
// generated-content box from rules whose selector targets that
// pseudo-element (spec §4.4). It returns nil when no rule targets it.
// The pseudo-element's box inherits from n's own computed style, the
// same as if it were n's first/last real child.
func (r *Resolver) computePseudoStyle(n *html.Node, elementStyle *ComputedStyle, pseudo string) *ComputedStyle {
	view := NewElementView(n)
	matched := r.collectMatched(n, view, pseudo)
	if len(matched) == 0 {
		return nil
	}
	style := NewComputedStyle()
	r.applyMatched(style, matched, elementStyle)
	return style
}

// collectMatched gathers every author/user-agent rule matching n's
// element (ignoring any inline style attribute). pseudo selects which
// rules are eligible: "" collects only rules with no pseudo-element in
// their selector (ordinary element matching), a non-empty name collects
// only rules whose selector targets that pseudo-element.
func (r *Resolver) collectMatched(n *html.Node, view *ElementView, pseudo string) []MatchedRule {
	var matched []MatchedRule
	order := 0
	collect := func(sheet *Stylesheet, origin int) {
		if sheet == nil {
			return
		}
		for _, rule := range sheet.Rules {
			if rule.Condition != "" && !EvaluateCondition(rule.Condition, r.ViewportWidth, r.ViewportHeight) {
				continue
			}
			for _, cs := range rule.Selectors.Items {
				name, isPseudo := complexPseudoElement(cs)
				if pseudo == "" {
					if isPseudo {
						continue
					}
				} else if !isPseudo || name != pseudo {
					continue
				}
				if matchComplex(cs, view) {
					matched = append(matched, MatchedRule{
						Declarations: rule.Declarations,
						Specificity:  ComplexSpecificity(cs),
						SourceOrder:  order,
						Origin:       origin,
					})
					break
				}
			}
			order++
		}
	}
	collect(r.UserAgent, OriginUserAgent)
	for _, sheet := range r.Sheets {
		collect(sheet, OriginAuthor)
	}
	return matched
}

// complexPseudoElement reports the pseudo-element name a complex
// selector's subject compound targets, if any (spec §4.3: a
// pseudo-element, when present, is always the last simple selector of
// the subject compound).
func complexPseudoElement(cs ComplexSelector) (name string, ok bool) {
	if len(cs.Parts) == 0 {
		return "", false
	}
	for _, s := range cs.Parts[len(cs.Parts)-1].Compound.Simples {
		if s.Kind == SimplePseudoElement {
			return s.Name, true
		}
	}
	return "", false
}

// applyMatched sorts matched rules/declarations by the cascade order and
// applies them onto style, falling back to inherited/initial values.
func (r *Resolver) applyMatched(style *ComputedStyle, matched []MatchedRule, parent *ComputedStyle) {
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.Origin != b.Origin {
			return a.Origin < b.Origin
		}
		return false // importance/specificity/source order below are decl-level
	})

	// Flatten to per-declaration entries so !important can win across
	// rule boundaries (spec: "important beats normal across the cascade").
	type entry struct {
		decl        Declaration
		specificity Specificity
		order       int
		origin      int
	}
	var entries []entry
	for _, m := range matched {
		for _, d := range m.Declarations {
			entries = append(entries, entry{decl: d, specificity: m.Specificity, order: m.SourceOrder, origin: m.Origin})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.decl.Important != b.decl.Important {
			return !a.decl.Important // normal first, important last (important applied last wins)
		}
		if a.origin != b.origin {
			return a.origin < b.origin
		}
		if a.specificity != b.specificity {
			return a.specificity.Less(b.specificity)
		}
		return a.order < b.order
	})

	set := map[string]bool{}
	for _, e := range entries {
		r.applyDeclaration(style, e.decl, parent)
		set[e.decl.Property] = true
	}

	r.inherit(style, parent, set)
}

// inherit implements spec §4.4: "after direct declarations apply,
// inherited properties ... fall back to the parent's computed value;
// non-inherited properties fall back to initial values" (already true by
// virtue of style starting from NewComputedStyle). Custom properties
// always propagate regardless of the inheritable-property list.
func (r *Resolver) inherit(style, parent *ComputedStyle, set map[string]bool) {
	if parent == nil {
		return
	}
	for k, v := range parent.CustomProps {
		if _, ok := style.CustomProps[k]; !ok {
			style.CustomProps[k] = v
		}
	}
	for prop := range inheritableProperties {
		if set[prop] {
			continue
		}
		switch prop {
		case "color":
			style.Color = parent.Color
		case "font-family":
			style.FontFamily = parent.FontFamily
		case "font-size":
			style.FontSize = parent.FontSize
		case "font-weight":
			style.FontWeight = parent.FontWeight
		case "font-style":
			style.FontStyle = parent.FontStyle
		case "line-height":
			style.LineHeight, style.LineHeightUnit = parent.LineHeight, parent.LineHeightUnit
		case "text-align":
			style.TextAlign = parent.TextAlign
		case "text-transform":
			style.TextTransform = parent.TextTransform
		case "visibility":
			style.Visibility = parent.Visibility
		case "white-space":
			style.WhiteSpace = parent.WhiteSpace
		case "list-style-type":
			style.ListStyleType = parent.ListStyleType
		case "list-style-position":
			style.ListStylePosition = parent.ListStylePosition
		case "cursor":
			style.Cursor = parent.Cursor
		case "letter-spacing":
			style.LetterSpacing = parent.LetterSpacing
		case "word-spacing":
			style.WordSpacing = parent.WordSpacing
		case "border-collapse":
			style.BorderCollapse = parent.BorderCollapse
		}
	}
}

// applyDeclaration applies a single property:value pair onto style,
// substituting var() references against parent/self custom properties
// first (spec §4.4: "custom properties ... can be substituted via var()
// during value resolution").
func (r *Resolver) applyDeclaration(style *ComputedStyle, d Declaration, parent *ComputedStyle) {
	if strings.HasPrefix(d.Property, "--") {
		style.CustomProps[d.Property] = d.Value
		return
	}
	value := r.substituteVar(d.Value, style, parent)
	applyProperty(style, d.Property, value)
}

func (r *Resolver) substituteVar(value string, style, parent *ComputedStyle) string {
	for strings.Contains(value, "var(") {
		start := strings.Index(value, "var(")
		depth := 1
		end := start + 4
		for end < len(value) && depth > 0 {
			switch value[end] {
			case '(':
				depth++
			case ')':
				depth--
			}
			if depth > 0 {
				end++
			}
		}
		if end >= len(value) {
			break
		}
		inner := value[start+4 : end]
		name, fallback, _ := strings.Cut(inner, ",")
		name = strings.TrimSpace(name)
		fallback = strings.TrimSpace(fallback)
		resolved, ok := style.CustomProps[name]
		if !ok && parent != nil {
			resolved, ok = parent.CustomProps[name]
		}
		if !ok {
			resolved = fallback
		}
		value = value[:start] + resolved + value[end+1:]
	}
	return value
}

func applyProperty(style *ComputedStyle, prop, value string) {
	value = strings.TrimSpace(value)
	switch prop {
	case "display":
		style.Display = value
	case "position":
		style.Position = value
	case "visibility":
		style.Visibility = value
	case "color":
		if c, err := values.ParseColor(value); err == nil {
			style.Color = c
		}
	case "background-color":
		if c, err := values.ParseColor(value); err == nil {
			style.BackgroundColor = c
		}
	case "background":
		if strings.Contains(value, "gradient") {
			style.BackgroundImage = value
		} else if c, err := values.ParseColor(value); err == nil {
			style.BackgroundColor = c
		}
	case "background-image":
		style.BackgroundImage = value
	case "background-size":
		style.BackgroundSize = value
	case "background-position":
		style.BackgroundPosition = value
	case "background-repeat":
		style.BackgroundRepeat = value
	case "font-family":
		style.FontFamily = value
	case "font-size":
		if l, err := values.ParseLength(value); err == nil {
			style.FontSize = l.Resolve(values.DefaultContext())
		}
	case "font-weight":
		switch value {
		case "normal":
			style.FontWeight = 400
		case "bold":
			style.FontWeight = 700
		case "lighter":
			style.FontWeight = 300
		case "bolder":
			style.FontWeight = 800
		default:
			if w, err := strconv.Atoi(value); err == nil {
				style.FontWeight = w
			}
		}
	case "font-style":
		style.FontStyle = value
	case "line-height":
		if value == "normal" {
			style.LineHeight = 1.2
			style.LineHeightUnit = "number"
		} else if n, err := strconv.ParseFloat(value, 64); err == nil {
			style.LineHeight = n
			style.LineHeightUnit = "number"
		} else if l, err := values.ParseLength(value); err == nil {
			style.LineHeight = l.Resolve(values.DefaultContext())
			style.LineHeightUnit = "px"
		}
	case "text-align":
		style.TextAlign = value
	case "text-decoration":
		style.TextDecoration = value
	case "text-transform":
		style.TextTransform = value
	case "white-space":
		style.WhiteSpace = value
	case "letter-spacing":
		if l, err := values.ParseLength(value); err == nil {
			style.LetterSpacing = l
		}
	case "word-spacing":
		if l, err := values.ParseLength(value); err == nil {
			style.WordSpacing = l
		}
	case "width":
		if l, err := values.ParseLength(value); err == nil {
			style.Width = l
		}
	case "height":
		if l, err := values.ParseLength(value); err == nil {
			style.Height = l
		}
	case "min-width":
		if l, err := values.ParseLength(value); err == nil {
			style.MinWidth = l
		}
	case "max-width":
		if l, err := values.ParseLength(value); err == nil {
			style.MaxWidth = l
		}
	case "min-height":
		if l, err := values.ParseLength(value); err == nil {
			style.MinHeight = l
		}
	case "max-height":
		if l, err := values.ParseLength(value); err == nil {
			style.MaxHeight = l
		}
	case "box-sizing":
		style.BoxSizing = value
	case "margin":
		applyBoxShorthand(value, func(t, r, b, l values.Length) {
			style.MarginTop, style.MarginRight, style.MarginBottom, style.MarginLeft = t, r, b, l
		})
	case "margin-top":
		setLength(&style.MarginTop, value)
	case "margin-right":
		setLength(&style.MarginRight, value)
	case "margin-bottom":
		setLength(&style.MarginBottom, value)
	case "margin-left":
		setLength(&style.MarginLeft, value)
	case "padding":
		applyBoxShorthand(value, func(t, r, b, l values.Length) {
			style.PaddingTop, style.PaddingRight, style.PaddingBottom, style.PaddingLeft = t, r, b, l
		})
	case "padding-top":
		setLength(&style.PaddingTop, value)
	case "padding-right":
		setLength(&style.PaddingRight, value)
	case "padding-bottom":
		setLength(&style.PaddingBottom, value)
	case "padding-left":
		setLength(&style.PaddingLeft, value)
	case "border-width":
		applyBoxShorthand(value, func(t, r, b, l values.Length) {
			style.BorderTopWidth, style.BorderRightWidth, style.BorderBottomWidth, style.BorderLeftWidth = t, r, b, l
		})
	case "border-color":
		if c, err := values.ParseColor(value); err == nil {
			style.BorderTopColor, style.BorderRightColor, style.BorderBottomColor, style.BorderLeftColor = c, c, c, c
		}
	case "border-style":
		style.BorderTopStyle, style.BorderRightStyle, style.BorderBottomStyle, style.BorderLeftStyle = value, value, value, value
	case "border-radius":
		if l, err := values.ParseLength(value); err == nil {
			style.BorderTopLeftRadius, style.BorderTopRightRadius = l, l
			style.BorderBottomRightRadius, style.BorderBottomLeftRadius = l, l
		}
	case "border":
		applyBorderShorthand(style, value)
	case "outline-width":
		if l, err := values.ParseLength(value); err == nil {
			style.OutlineWidth = l
		}
	case "outline-color":
		if c, err := values.ParseColor(value); err == nil {
			style.OutlineColor = c
		}
	case "outline-style":
		style.OutlineStyle = value
	case "outline-offset":
		if l, err := values.ParseLength(value); err == nil {
			style.OutlineOffset = l
		}
	case "outline":
		applyOutlineShorthand(style, value)
	case "top":
		setLength(&style.Top, value)
	case "right":
		setLength(&style.Right, value)
	case "bottom":
		setLength(&style.Bottom, value)
	case "left":
		setLength(&style.Left, value)
	case "z-index":
		if value == "auto" {
			style.ZIndexSet = false
		} else if n, err := strconv.Atoi(value); err == nil {
			style.ZIndex = n
			style.ZIndexSet = true
		}
	case "flex-direction":
		style.FlexDirection = value
	case "flex-wrap":
		style.FlexWrap = value
	case "justify-content":
		style.JustifyContent = value
	case "align-items":
		style.AlignItems = value
	case "align-content":
		style.AlignContent = value
	case "align-self":
		style.AlignSelf = value
	case "gap":
		parts := strings.Fields(value)
		if len(parts) == 1 {
			if l, err := values.ParseLength(parts[0]); err == nil {
				style.Gap, style.RowGap, style.ColumnGap = l, l, l
			}
		} else if len(parts) == 2 {
			if l, err := values.ParseLength(parts[0]); err == nil {
				style.RowGap = l
			}
			if l, err := values.ParseLength(parts[1]); err == nil {
				style.ColumnGap = l
			}
		}
	case "row-gap":
		setLength(&style.RowGap, value)
	case "column-gap":
		setLength(&style.ColumnGap, value)
	case "flex-grow":
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			style.FlexGrow = n
		}
	case "flex-shrink":
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			style.FlexShrink = n
		}
	case "flex-basis":
		setLength(&style.FlexBasis, value)
	case "flex":
		applyFlexShorthand(style, value)
	case "order":
		if n, err := strconv.Atoi(value); err == nil {
			style.Order = n
		}
	case "grid-template-columns":
		style.GridTemplateColumns = value
	case "grid-template-rows":
		style.GridTemplateRows = value
	case "grid-column":
		style.GridColumn = value
	case "grid-row":
		style.GridRow = value
	case "overflow":
		style.OverflowX, style.OverflowY = value, value
	case "overflow-x":
		style.OverflowX = value
	case "overflow-y":
		style.OverflowY = value
	case "opacity":
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			style.Opacity = n
		}
	case "box-shadow":
		style.BoxShadow = value
	case "cursor":
		style.Cursor = value
	case "transform":
		style.Transform = value
	case "filter":
		style.Filter = value
	case "list-style-type":
		style.ListStyleType = value
	case "list-style-position":
		style.ListStylePosition = value
	case "border-collapse":
		style.BorderCollapse = value
	case "border-spacing":
		setLength(&style.BorderSpacing, value)
	case "content":
		style.Content = strings.Trim(value, `"'`)
	}
}

func setLength(dst *values.Length, s string) {
	if l, err := values.ParseLength(s); err == nil {
		*dst = l
	}
}

func applyBoxShorthand(value string, apply func(top, right, bottom, left values.Length)) {
	parts := strings.Fields(value)
	var ls []values.Length
	for _, p := range parts {
		if l, err := values.ParseLength(p); err == nil {
			ls = append(ls, l)
		}
	}
	switch len(ls) {
	case 1:
		apply(ls[0], ls[0], ls[0], ls[0])
	case 2:
		apply(ls[0], ls[1], ls[0], ls[1])
	case 3:
		apply(ls[0], ls[1], ls[2], ls[1])
	case 4:
		apply(ls[0], ls[1], ls[2], ls[3])
	}
}

func applyBorderShorthand(style *ComputedStyle, value string) {
	for _, part := range strings.Fields(value) {
		if l, err := values.ParseLength(part); err == nil {
			style.BorderTopWidth, style.BorderRightWidth = l, l
			style.BorderBottomWidth, style.BorderLeftWidth = l, l
			continue
		}
		if c, err := values.ParseColor(part); err == nil {
			style.BorderTopColor, style.BorderRightColor = c, c
			style.BorderBottomColor, style.BorderLeftColor = c, c
			continue
		}
		style.BorderTopStyle, style.BorderRightStyle = part, part
		style.BorderBottomStyle, style.BorderLeftStyle = part, part
	}
}

func applyOutlineShorthand(style *ComputedStyle, value string) {
	for _, part := range strings.Fields(value) {
		if l, err := values.ParseLength(part); err == nil {
			style.OutlineWidth = l
			continue
		}
		if c, err := values.ParseColor(part); err == nil {
			style.OutlineColor = c
			continue
		}
		style.OutlineStyle = part
	}
}

func applyFlexShorthand(style *ComputedStyle, value string) {
	if value == "none" {
		style.FlexGrow, style.FlexShrink, style.FlexBasis = 0, 0, values.Auto()
		return
	}
	parts := strings.Fields(value)
	if len(parts) >= 1 {
		if n, err := strconv.ParseFloat(parts[0], 64); err == nil {
			style.FlexGrow = n
		}
	}
	if len(parts) >= 2 {
		if n, err := strconv.ParseFloat(parts[1], 64); err == nil {
			style.FlexShrink = n
		} else if l, err := values.ParseLength(parts[1]); err == nil {
			style.FlexBasis = l
		}
	}
	if len(parts) >= 3 {
		if l, err := values.ParseLength(parts[2]); err == nil {
			style.FlexBasis = l
		}
	}
}
