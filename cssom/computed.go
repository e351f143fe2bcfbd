package cssom

import "gocko/cssom/values"

// ComputedStyle is the flat record of resolved properties spec §3 calls
// for: box model, layout mode, typography, visual effects, flex/grid
// parameters, and transform/filter inputs. It has no animation fields.
type ComputedStyle struct {
	Width, Height               values.Length
	MinWidth, MaxWidth          values.Length
	MinHeight, MaxHeight        values.Length

	MarginTop, MarginRight, MarginBottom, MarginLeft     values.Length
	PaddingTop, PaddingRight, PaddingBottom, PaddingLeft values.Length

	BorderTopWidth, BorderRightWidth, BorderBottomWidth, BorderLeftWidth values.Length
	BorderTopColor, BorderRightColor, BorderBottomColor, BorderLeftColor values.Color
	BorderTopStyle, BorderRightStyle, BorderBottomStyle, BorderLeftStyle string

	BorderTopLeftRadius, BorderTopRightRadius, BorderBottomRightRadius, BorderBottomLeftRadius values.Length

	BoxSizing string

	Display  string
	Position string

	Top, Right, Bottom, Left values.Length

	FlexDirection  string
	FlexWrap       string
	JustifyContent string
	AlignItems     string
	AlignContent   string
	Gap, RowGap, ColumnGap values.Length

	FlexGrow   float64
	FlexShrink float64
	FlexBasis  values.Length
	AlignSelf  string
	Order      int

	GridTemplateColumns string
	GridTemplateRows    string
	GridColumn          string
	GridRow             string

	OverflowX, OverflowY string

	ZIndex    int
	ZIndexSet bool

	Color          values.Color
	FontFamily     string
	FontSize       float64
	FontWeight     int
	FontStyle      string
	LineHeight     float64
	LineHeightUnit string
	TextAlign      string
	TextDecoration string
	TextTransform  string
	LetterSpacing  values.Length
	WordSpacing    values.Length
	WhiteSpace     string

	BackgroundColor    values.Color
	BackgroundImage    string
	BackgroundSize     string
	BackgroundPosition string
	BackgroundRepeat   string

	Opacity    float64
	Visibility string

	BoxShadow string
	Cursor    string
	Transform string
	Filter    string

	ListStyleType     string
	ListStylePosition string

	BorderCollapse string
	BorderSpacing  values.Length

	OutlineWidth  values.Length
	OutlineColor  values.Color
	OutlineStyle  string
	OutlineOffset values.Length

	// Content holds the resolved `content` value for ::before/::after
	// resolution (spec §4.4).
	Content string
	// CustomProps holds custom property (--name) values for var()
	// substitution and further inheritance.
	CustomProps map[string]string
}

var inheritableProperties = map[string]bool{
	"color": true, "font-family": true, "font-size": true, "font-weight": true,
	"font-style": true, "line-height": true, "text-align": true,
	"text-transform": true, "visibility": true, "white-space": true,
	"list-style-type": true, "list-style-position": true, "cursor": true,
	"letter-spacing": true, "word-spacing": true, "border-collapse": true,
}

// NewComputedStyle returns the user-agent default style for a generic
// element (before any cascade is applied).
func NewComputedStyle() *ComputedStyle {
	return &ComputedStyle{
		Width: values.Auto(), Height: values.Auto(),
		MinWidth: values.Zero(), MaxWidth: values.Auto(),
		MinHeight: values.Zero(), MaxHeight: values.Auto(),
		BoxSizing:      "content-box",
		Display:        "inline",
		Position:       "static",
		FlexDirection:  "row",
		FlexWrap:       "nowrap",
		JustifyContent: "flex-start",
		AlignItems:     "stretch",
		AlignContent:   "stretch",
		FlexGrow:       0,
		FlexShrink:     1,
		FlexBasis:      values.Auto(),
		AlignSelf:      "auto",
		OverflowX:      "visible",
		OverflowY:      "visible",
		Color:          values.Black(),
		FontFamily:     "sans-serif",
		FontSize:       16,
		FontWeight:     400,
		FontStyle:      "normal",
		LineHeight:     1.2,
		LineHeightUnit: "number",
		TextAlign:      "start",
		TextDecoration: "none",
		TextTransform:  "none",
		WhiteSpace:     "normal",
		BackgroundColor: values.Transparent(),
		Opacity:         1.0,
		Visibility:      "visible",
		Cursor:          "auto",
		ListStyleType:     "disc",
		ListStylePosition: "outside",
		BorderCollapse:    "separate",
		OutlineStyle:      "none",
		OutlineColor:      values.Black(),
		CustomProps:       map[string]string{},
	}
}

func (cs *ComputedStyle) Clone() *ComputedStyle {
	clone := *cs
	clone.CustomProps = make(map[string]string, len(cs.CustomProps))
	for k, v := range cs.CustomProps {
		clone.CustomProps[k] = v
	}
	return &clone
}

func (cs *ComputedStyle) IsBlock() bool {
	switch cs.Display {
	case "block", "flex", "grid", "table", "list-item":
		return true
	}
	return false
}

func (cs *ComputedStyle) IsInline() bool {
	return cs.Display == "inline" || cs.Display == "inline-block"
}

func (cs *ComputedStyle) IsFlex() bool {
	return cs.Display == "flex" || cs.Display == "inline-flex"
}

func (cs *ComputedStyle) IsHidden() bool {
	return cs.Display == "none" || cs.Visibility == "hidden"
}

func (cs *ComputedStyle) IsPositioned() bool {
	return cs.Position != "static"
}
