package raster

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"gocko/cssom/values"
	"gocko/paint"
)

func TestFillRectPaintsColor(t *testing.T) {
	r := New(20, 20, nil, nil)
	dl := &paint.DisplayList{Commands: []paint.PaintCommand{
		paint.FillRect{Rect: paint.Rect{X: 0, Y: 0, Width: 20, Height: 20}, Color: values.RGB(255, 0, 0)},
	}}
	if err := r.Execute(dl); err != nil {
		t.Fatalf("execute: %v", err)
	}
	c := r.Image().RGBAAt(10, 10)
	if c.R < 200 || c.G > 50 || c.B > 50 {
		t.Errorf("expected red-ish pixel at (10,10), got %+v", c)
	}
}

func TestUnbalancedDisplayListRejected(t *testing.T) {
	r := New(10, 10, nil, nil)
	dl := &paint.DisplayList{Commands: []paint.PaintCommand{
		paint.PushClip{Rect: paint.Rect{X: 0, Y: 0, Width: 10, Height: 10}},
	}}
	if err := r.Execute(dl); err == nil {
		t.Error("expected an error for an unbalanced display list")
	}
}

func TestClipRestrictsFill(t *testing.T) {
	r := New(20, 20, nil, nil)
	dl := &paint.DisplayList{Commands: []paint.PaintCommand{
		paint.PushClip{Rect: paint.Rect{X: 0, Y: 0, Width: 5, Height: 5}},
		paint.FillRect{Rect: paint.Rect{X: 0, Y: 0, Width: 20, Height: 20}, Color: values.RGB(0, 255, 0)},
		paint.PopClip{},
	}}
	if err := r.Execute(dl); err != nil {
		t.Fatalf("execute: %v", err)
	}
	inside := r.Image().RGBAAt(2, 2)
	outside := r.Image().RGBAAt(15, 15)
	if inside.G < 200 {
		t.Errorf("expected green inside clip, got %+v", inside)
	}
	if outside.G > 50 {
		t.Errorf("expected fill to be clipped out at (15,15), got %+v", outside)
	}
}

func TestWritePPMProducesExpectedSize(t *testing.T) {
	r := New(4, 3, nil, nil)
	var buf bytes.Buffer
	if err := r.WritePPM(&buf); err != nil {
		t.Fatalf("WritePPM: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected non-empty PPM output")
	}
}

func TestDrawImageComposites(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.SetRGBA(x, y, color.RGBA{0, 0, 255, 255})
		}
	}
	r := New(20, 20, nil, nil)
	dl := &paint.DisplayList{Commands: []paint.PaintCommand{
		paint.DrawImage{Rect: paint.Rect{X: 2, Y: 2, Width: 4, Height: 4}, Image: src},
	}}
	if err := r.Execute(dl); err != nil {
		t.Fatalf("execute: %v", err)
	}
	c := r.Image().RGBAAt(4, 4)
	if c.B < 200 {
		t.Errorf("expected blue pixel at (4,4), got %+v", c)
	}
}

func TestMatrixTranslateThenInvert(t *testing.T) {
	m := Identity().Multiply(fromTransformKind(paint.TransformKind{Kind: "translate", E: 10, F: 5}))
	x, y := m.Apply(0, 0)
	if x != 10 || y != 5 {
		t.Errorf("translate apply = (%v,%v), want (10,5)", x, y)
	}
	inv := m.Invert()
	ix, iy := inv.Apply(10, 5)
	if ix != 0 || iy != 0 {
		t.Errorf("inverse apply = (%v,%v), want (0,0)", ix, iy)
	}
}
