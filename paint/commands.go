package paint

import (
	"image"

	"gocko/cssom/values"
)

// PaintCommand is a tagged variant (spec §3): FillRect | FillBoxShadow |
// DrawText | DrawBorder | DrawOutline | DrawImage | DrawEllipse |
// DrawLine | PushClip | PopClip | PushTransform | PopTransform |
// ApplyFilter | ApplyBackdropFilter | ApplyClipPath | SaveBackdrop |
// ApplyBlendMode | ApplyMaskGradient. Each variant is its own struct so
// it carries only the fields its kind requires, rather than one wide
// struct with dead fields shared across all eighteen kinds.
type PaintCommand interface {
	paintCommand()
}

// Rect is the shared bounding-box shape most commands paint into.
type Rect struct {
	X, Y, Width, Height float64
}

// GradientStop is one color/offset pair in a linear/radial/conic gradient.
type GradientStop struct {
	Offset float64
	Color  values.Color
}

// Gradient describes the fill spec §4.7 samples by angle/radius/angle for
// linear/radial/conic kinds respectively.
type Gradient struct {
	Kind  string // "linear" | "radial" | "conic"
	Angle float64
	Stops []GradientStop
}

// CornerRadii holds the four corner radii FillRect/DrawBorder attenuate
// coverage against near the corner quadrants.
type CornerRadii struct {
	TopLeft, TopRight, BottomRight, BottomLeft float64
}

type FillRect struct {
	Rect     Rect
	Color    values.Color
	Gradient *Gradient // nil for a solid fill
	Radii    CornerRadii
}

func (FillRect) paintCommand() {}

type FillBoxShadow struct {
	Rect     Rect
	Color    values.Color
	OffsetX  float64
	OffsetY  float64
	Blur     float64
	Spread   float64
	Inset    bool
	Radii    CornerRadii
}

func (FillBoxShadow) paintCommand() {}

type DrawText struct {
	Text          string
	X, Y          float64 // baseline origin
	FontFamily    string
	FontSize      float64
	FontWeight    int
	Italic        bool
	Color         values.Color
	LetterSpacing float64
	Decoration    string // "none" | "underline" | "line-through" | "overline"
}

func (DrawText) paintCommand() {}

type BorderSide struct {
	Width float64
	Color values.Color
	Style string // "solid" | "dashed" | "dotted" | "none" | ...
}

type DrawBorder struct {
	Rect              Rect
	Top, Right, Bottom, Left BorderSide
	Radii             CornerRadii
}

func (DrawBorder) paintCommand() {}

// DrawOutline draws a single uniform stroke offset from Rect's edge by
// Offset, unlike DrawBorder which can vary per side (spec §4.6: outline
// is always one width/color/style, drawn after the box's children).
type DrawOutline struct {
	Rect   Rect
	Side   BorderSide
	Offset float64
	Radii  CornerRadii
}

func (DrawOutline) paintCommand() {}

type DrawImage struct {
	Rect  Rect
	Image image.Image // already box-fit resized to Rect by the painter
}

func (DrawImage) paintCommand() {}

type DrawEllipse struct {
	Rect     Rect
	Color    values.Color
	Gradient *Gradient
	Stroke   *BorderSide
}

func (DrawEllipse) paintCommand() {}

type DrawLine struct {
	X1, Y1, X2, Y2 float64
	Color          values.Color
	Width          float64
}

func (DrawLine) paintCommand() {}

type PushClip struct {
	Rect  Rect
	Radii CornerRadii
}

func (PushClip) paintCommand() {}

type PopClip struct{}

func (PopClip) paintCommand() {}

// TransformKind enumerates the transform functions PushTransform carries.
type TransformKind struct {
	Kind string // "translate" | "scale" | "rotate" | "skew" | "matrix"
	A, B, C, D, E, F float64 // 2D affine matrix components
}

type PushTransform struct {
	Transform TransformKind
}

func (PushTransform) paintCommand() {}

type PopTransform struct{}

func (PopTransform) paintCommand() {}

type ApplyFilter struct {
	Filter string // raw CSS filter function list, e.g. "blur(4px) grayscale(1)"
}

func (ApplyFilter) paintCommand() {}

type ApplyBackdropFilter struct {
	Filter string
}

func (ApplyBackdropFilter) paintCommand() {}

type ClipPathShape struct {
	Kind    string // "circle" | "ellipse" | "inset" | "polygon"
	Args    []float64
	Points  []struct{ X, Y float64 }
}

type ApplyClipPath struct {
	Shape ClipPathShape
}

func (ApplyClipPath) paintCommand() {}

// SaveBackdrop snapshots the current raster buffer under Rect so a later
// ApplyBlendMode can composite mix-blend-mode against it.
type SaveBackdrop struct {
	Rect Rect
}

func (SaveBackdrop) paintCommand() {}

type ApplyBlendMode struct {
	Mode string // "multiply" | "screen" | "darken" | ...
}

func (ApplyBlendMode) paintCommand() {}

type ApplyMaskGradient struct {
	Gradient Gradient
	Rect     Rect
}

func (ApplyMaskGradient) paintCommand() {}
