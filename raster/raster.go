// Package raster walks a paint.DisplayList into an RGBA pixel buffer
// (spec §4.7): FillRect/DrawBorder/gradients/box-shadow/clip-path/
// transforms over a clip+transform+backdrop stack machine.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"

	"go.uber.org/zap"

	"gocko/paint"
)

// TextRenderer rasterizes glyphs through a platform font API; the
// rasterizer only supplies the destination buffer and current clip
// bounds, per spec §4.7's "DrawText delegates to the injected text
// renderer" rule.
type TextRenderer func(dst *image.RGBA, clip image.Rectangle, cmd paint.DrawText, transform Matrix)

// Matrix is a 2D affine transform: [a c e; b d f; 0 0 1].
type Matrix struct {
	A, B, C, D, E, F float64
}

func Identity() Matrix { return Matrix{A: 1, D: 1} }

func (m Matrix) Multiply(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

// Apply maps a point through the transform.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// Invert returns m's inverse, or the identity when m is singular.
// applyBlendMode reads canvas pixels in device space and does not use it.
func (m Matrix) Invert() Matrix {
	det := m.A*m.D - m.B*m.C
	if det == 0 {
		return Identity()
	}
	inv := 1 / det
	return Matrix{
		A: m.D * inv, B: -m.B * inv,
		C: -m.C * inv, D: m.A * inv,
		E: (m.C*m.F - m.D*m.E) * inv,
		F: (m.B*m.E - m.A*m.F) * inv,
	}
}

func fromTransformKind(tk paint.TransformKind) Matrix {
	switch tk.Kind {
	case "translate":
		return Matrix{A: 1, D: 1, E: tk.E, F: tk.F}
	case "scale":
		sx, sy := tk.A, tk.D
		if sx == 0 {
			sx = 1
		}
		if sy == 0 {
			sy = 1
		}
		return Matrix{A: sx, D: sy}
	case "rotate":
		rad := tk.A * math.Pi / 180
		return Matrix{A: math.Cos(rad), B: math.Sin(rad), C: -math.Sin(rad), D: math.Cos(rad)}
	default:
		return Identity()
	}
}

// Rasterizer is a software raster target: one RGBA buffer plus the
// clip/transform/backdrop stacks the display-list walk pushes into.
type Rasterizer struct {
	canvas    *image.RGBA
	width     int
	height    int
	clipStack []image.Rectangle

	transform      Matrix
	transformStack []Matrix

	backdropStack []*image.RGBA

	Text TextRenderer
	log  *zap.Logger
}

func New(width, height int, text TextRenderer, log *zap.Logger) *Rasterizer {
	if log == nil {
		log = zap.NewNop()
	}
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	return &Rasterizer{
		canvas: canvas, width: width, height: height,
		transform: Identity(), Text: text, log: log,
	}
}

func (r *Rasterizer) currentClip() image.Rectangle {
	clip := r.canvas.Bounds()
	for _, c := range r.clipStack {
		clip = clip.Intersect(c)
	}
	return clip
}

// Execute walks dl in order, asserting the clip/transform balance
// invariant (spec §4.6) before touching any pixel.
func (r *Rasterizer) Execute(dl *paint.DisplayList) error {
	if !dl.Balanced() {
		return fmt.Errorf("raster: unbalanced display list (PushClip/PushTransform without matching pop)")
	}
	for _, cmd := range dl.Commands {
		r.executeOne(cmd)
	}
	return nil
}

func (r *Rasterizer) executeOne(cmd paint.PaintCommand) {
	switch c := cmd.(type) {
	case paint.FillRect:
		r.fillRect(c)
	case paint.FillBoxShadow:
		r.fillBoxShadow(c)
	case paint.DrawText:
		if r.Text != nil {
			r.Text(r.canvas, r.currentClip(), c, r.transform)
		}
	case paint.DrawBorder:
		r.drawBorder(c)
	case paint.DrawOutline:
		r.drawOutline(c)
	case paint.DrawImage:
		r.drawImage(c)
	case paint.DrawEllipse:
		r.fillEllipse(c)
	case paint.DrawLine:
		r.drawLine(c)
	case paint.PushClip:
		r.clipStack = append(r.clipStack, deviceRect(c.Rect, r.transform))
	case paint.PopClip:
		if len(r.clipStack) > 0 {
			r.clipStack = r.clipStack[:len(r.clipStack)-1]
		}
	case paint.PushTransform:
		r.transformStack = append(r.transformStack, r.transform)
		r.transform = r.transform.Multiply(fromTransformKind(c.Transform))
	case paint.PopTransform:
		if n := len(r.transformStack); n > 0 {
			r.transform = r.transformStack[n-1]
			r.transformStack = r.transformStack[:n-1]
		}
	case paint.SaveBackdrop:
		r.backdropStack = append(r.backdropStack, snapshot(r.canvas, deviceRect(c.Rect, r.transform)))
	case paint.ApplyBlendMode:
		r.applyBlendMode(c.Mode)
	case paint.ApplyClipPath:
		r.clipStack = append(r.clipStack, clipPathBounds(c.Shape, r.transform))
	case paint.ApplyFilter, paint.ApplyBackdropFilter, paint.ApplyMaskGradient:
		// Accepted but with no raster effect: filter, backdrop-filter and
		// mask-gradient commands leave r.canvas unchanged.
	}
}

func deviceRect(rect paint.Rect, t Matrix) image.Rectangle {
	x0, y0 := t.Apply(rect.X, rect.Y)
	x1, y1 := t.Apply(rect.X+rect.Width, rect.Y+rect.Height)
	return normalizeRect(x0, y0, x1, y1)
}

func normalizeRect(x0, y0, x1, y1 float64) image.Rectangle {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return image.Rect(int(math.Floor(x0)), int(math.Floor(y0)), int(math.Ceil(x1)), int(math.Ceil(y1)))
}

func snapshot(src *image.RGBA, rect image.Rectangle) *image.RGBA {
	rect = rect.Intersect(src.Bounds())
	dst := image.NewRGBA(rect)
	draw.Draw(dst, rect, src, rect.Min, draw.Src)
	return dst
}

func clipPathBounds(shape paint.ClipPathShape, t Matrix) image.Rectangle {
	switch shape.Kind {
	case "circle":
		if len(shape.Args) < 3 {
			return image.Rectangle{}
		}
		cx, cy, r := shape.Args[0], shape.Args[1], shape.Args[2]
		return deviceRect(paint.Rect{X: cx - r, Y: cy - r, Width: 2 * r, Height: 2 * r}, t)
	case "ellipse":
		if len(shape.Args) < 4 {
			return image.Rectangle{}
		}
		cx, cy, rx, ry := shape.Args[0], shape.Args[1], shape.Args[2], shape.Args[3]
		return deviceRect(paint.Rect{X: cx - rx, Y: cy - ry, Width: 2 * rx, Height: 2 * ry}, t)
	case "inset":
		if len(shape.Args) < 4 {
			return image.Rectangle{}
		}
		top, right, bottom, left := shape.Args[0], shape.Args[1], shape.Args[2], shape.Args[3]
		return deviceRect(paint.Rect{X: left, Y: top, Width: right - left, Height: bottom - top}, t)
	case "polygon":
		if len(shape.Points) == 0 {
			return image.Rectangle{}
		}
		minX, minY := shape.Points[0].X, shape.Points[0].Y
		maxX, maxY := minX, minY
		for _, p := range shape.Points {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
		return deviceRect(paint.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, t)
	}
	return image.Rectangle{}
}

// Pixels returns the raw RGBA buffer (spec §4.7: "pixels: bytes of size
// 4·width·height").
func (r *Rasterizer) Pixels() []byte {
	return r.canvas.Pix
}

func (r *Rasterizer) Image() *image.RGBA { return r.canvas }

// WritePPM writes the canvas as a binary PPM (P6) for a dependency-free
// inspection sink.
func (r *Rasterizer) WritePPM(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "P6\n%d %d\n255\n", r.width, r.height); err != nil {
		return err
	}
	buf := make([]byte, 0, r.width*r.height*3)
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			c := r.canvas.RGBAAt(x, y)
			buf = append(buf, c.R, c.G, c.B)
		}
	}
	_, err := w.Write(buf)
	return err
}

// WritePNG writes the canvas as PNG.
func (r *Rasterizer) WritePNG(w io.Writer) error {
	return png.Encode(w, r.canvas)
}

// EncodePNG is a convenience wrapper returning the encoded bytes.
func (r *Rasterizer) EncodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WritePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
