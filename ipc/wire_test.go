package ipc

import (
	"reflect"
	"testing"

	"gocko/cssom/values"
	"gocko/paint"
)

func TestDisplayListRoundTrip(t *testing.T) {
	dl := &paint.DisplayList{Commands: []paint.PaintCommand{
		paint.PushClip{Rect: paint.Rect{X: 1, Y: 2, Width: 3, Height: 4}},
		paint.FillRect{
			Rect:  paint.Rect{X: 0, Y: 0, Width: 10, Height: 10},
			Color: values.RGBA(10, 20, 30, 255),
			Radii: paint.CornerRadii{TopLeft: 2},
		},
		paint.DrawText{Text: "hi\x00there", X: 5, Y: 5, FontSize: 12, Decoration: "underline"},
		paint.PushTransform{Transform: paint.TransformKind{Kind: "rotate", A: 45}},
		paint.PopTransform{},
		paint.PopClip{},
	}}

	data, err := EncodeDisplayList(dl)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeDisplayList(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(dl.Commands, got.Commands) {
		t.Errorf("round-trip mismatch:\n got=%#v\nwant=%#v", got.Commands, dl.Commands)
	}
}

func TestEncodeCommandUnbalancedStillEncodes(t *testing.T) {
	// The wire codec does not itself enforce display-list balance; that
	// invariant belongs to paint.DisplayList.Balanced() and the
	// raster.Execute guard ahead of it.
	s := NewSerializer()
	if err := EncodeCommand(s, paint.PushClip{}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	d := NewDeserializer(s.Data())
	if _, err := DecodeCommand(d); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestDecodeUnknownTagFails(t *testing.T) {
	s := NewSerializer()
	s.WriteU8(255)
	d := NewDeserializer(s.Data())
	if _, err := DecodeCommand(d); err == nil {
		t.Error("expected an error for an unknown tag")
	}
}
