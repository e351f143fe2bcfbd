package raster

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"

	"gocko/cssom/values"
	"gocko/paint"
)

// conicWedges is how many angular slices each stop interval is split
// into; more slices approximate a smoother sweep at the cost of more
// vector.Rasterizer fills per conic gradient painted.
const conicWedges = 12

// fillConicGradient samples a conic gradient as a fan of small angular
// wedges, each an antialiased polygon rasterized through
// golang.org/x/image/vector.Rasterizer — oksvg/rasterx have no native
// conic-gradient primitive (SVG itself doesn't define one), so unlike
// fillRect's other gradient kinds this does not go through drawSVG at
// all; it walks paint.Gradient's stops directly and fills each wedge
// with the stop color linearly interpolated across that slice.
func (r *Rasterizer) fillConicGradient(rect paint.Rect, g *paint.Gradient, t Matrix) {
	if len(g.Stops) == 0 {
		return
	}
	cx, cy := t.Apply(rect.X+rect.Width/2, rect.Y+rect.Height/2)
	radius := wedgeRadius(rect, t, cx, cy)
	if radius <= 0 {
		return
	}

	clip := r.currentClip()
	startAngle := g.Angle * math.Pi / 180

	stops := g.Stops
	for i := 0; i < len(stops)-1; i++ {
		a, b := stops[i], stops[i+1]
		for s := 0; s < conicWedges; s++ {
			f0 := float64(s) / conicWedges
			f1 := float64(s+1) / conicWedges
			off0 := a.Offset + (b.Offset-a.Offset)*f0
			off1 := a.Offset + (b.Offset-a.Offset)*f1
			theta0 := startAngle + off0*2*math.Pi
			theta1 := startAngle + off1*2*math.Pi
			mid := lerpColor(a.Color, b.Color, (f0+f1)/2)
			r.fillWedge(clip, cx, cy, radius, theta0, theta1, mid)
		}
	}
	// Close the sweep back to the first stop so a gradient that doesn't
	// start/end at the same color still covers the full circle.
	last, first := stops[len(stops)-1], stops[0]
	theta0 := startAngle + last.Offset*2*math.Pi
	theta1 := startAngle + 2*math.Pi
	r.fillWedge(clip, cx, cy, radius, theta0, theta1, lerpColor(last.Color, first.Color, 0))
}

func lerpColor(a, b values.Color, f float64) values.Color {
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*f)
	}
	return values.Color{
		R: lerp(a.R, b.R),
		G: lerp(a.G, b.G),
		B: lerp(a.B, b.B),
		A: lerp(a.A, b.A),
	}
}

func wedgeRadius(rect paint.Rect, t Matrix, cx, cy float64) float64 {
	maxDist := 0.0
	corners := [][2]float64{
		{rect.X, rect.Y}, {rect.X + rect.Width, rect.Y},
		{rect.X, rect.Y + rect.Height}, {rect.X + rect.Width, rect.Y + rect.Height},
	}
	for _, c := range corners {
		x, y := t.Apply(c[0], c[1])
		d := math.Hypot(x-cx, y-cy)
		if d > maxDist {
			maxDist = d
		}
	}
	return maxDist
}

func (r *Rasterizer) fillWedge(clip image.Rectangle, cx, cy, radius, theta0, theta1 float64, col values.Color) {
	z := vector.NewRasterizer(r.width, r.height)
	z.MoveTo(float32(cx), float32(cy))
	z.LineTo(float32(cx+radius*math.Cos(theta0)), float32(cy+radius*math.Sin(theta0)))
	z.LineTo(float32(cx+radius*math.Cos(theta1)), float32(cy+radius*math.Sin(theta1)))
	z.ClosePath()

	src := image.NewUniform(color.RGBA{col.R, col.G, col.B, col.A})
	z.Draw(r.canvas, clip, src, clip.Min)
}
