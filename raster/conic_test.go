package raster

import (
	"testing"

	"gocko/cssom/values"
	"gocko/paint"
)

func TestFillRectConicGradientPaintsDistinctWedges(t *testing.T) {
	r := New(40, 40, nil, nil)
	dl := &paint.DisplayList{Commands: []paint.PaintCommand{
		paint.FillRect{
			Rect: paint.Rect{X: 0, Y: 0, Width: 40, Height: 40},
			Gradient: &paint.Gradient{
				Kind: "conic",
				Stops: []paint.GradientStop{
					{Offset: 0, Color: values.RGB(255, 0, 0)},
					{Offset: 0.5, Color: values.RGB(0, 255, 0)},
					{Offset: 1, Color: values.RGB(0, 0, 255)},
				},
			},
		},
	}}
	if err := r.Execute(dl); err != nil {
		t.Fatalf("execute: %v", err)
	}

	// Sample two points on opposite sides of center; a conic sweep
	// should color them differently rather than painting one flat fill.
	a := r.Image().RGBAAt(30, 20)
	b := r.Image().RGBAAt(10, 20)
	if a == b {
		t.Errorf("expected differing colors across the sweep, got %+v for both", a)
	}
}

func TestLerpColorMidpoint(t *testing.T) {
	got := lerpColor(values.RGB(0, 0, 0), values.RGB(200, 100, 0), 0.5)
	if got.R != 100 || got.G != 50 || got.B != 0 {
		t.Errorf("lerpColor midpoint = %+v, want R=100 G=50 B=0", got)
	}
}
