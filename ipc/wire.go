package ipc

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"gocko/cssom/values"
	"gocko/paint"
)

// Paint command tags (spec §4.6/§6: "variants are discriminated by a
// leading u8 tag"). Order follows gocko/paint/commands.go's doc comment,
// except that tagDrawOutline comes last.
const (
	tagFillRect = iota
	tagFillBoxShadow
	tagDrawText
	tagDrawBorder
	tagDrawImage
	tagDrawEllipse
	tagDrawLine
	tagPushClip
	tagPopClip
	tagPushTransform
	tagPopTransform
	tagApplyFilter
	tagApplyBackdropFilter
	tagApplyClipPath
	tagSaveBackdrop
	tagApplyBlendMode
	tagApplyMaskGradient
	tagDrawOutline
)

func writeRect(s *Serializer, r paint.Rect) {
	s.WriteF64(r.X)
	s.WriteF64(r.Y)
	s.WriteF64(r.Width)
	s.WriteF64(r.Height)
}

func readRect(d *Deserializer) (paint.Rect, error) {
	var r paint.Rect
	var err error
	if r.X, err = d.ReadF64(); err != nil {
		return r, err
	}
	if r.Y, err = d.ReadF64(); err != nil {
		return r, err
	}
	if r.Width, err = d.ReadF64(); err != nil {
		return r, err
	}
	if r.Height, err = d.ReadF64(); err != nil {
		return r, err
	}
	return r, nil
}

func writeColor(s *Serializer, c values.Color) {
	s.WriteU8(c.R)
	s.WriteU8(c.G)
	s.WriteU8(c.B)
	s.WriteU8(c.A)
}

func readColor(d *Deserializer) (values.Color, error) {
	r, err := d.ReadU8()
	if err != nil {
		return values.Color{}, err
	}
	g, err := d.ReadU8()
	if err != nil {
		return values.Color{}, err
	}
	b, err := d.ReadU8()
	if err != nil {
		return values.Color{}, err
	}
	a, err := d.ReadU8()
	if err != nil {
		return values.Color{}, err
	}
	return values.RGBA(r, g, b, a), nil
}

func writeRadii(s *Serializer, r paint.CornerRadii) {
	s.WriteF64(r.TopLeft)
	s.WriteF64(r.TopRight)
	s.WriteF64(r.BottomRight)
	s.WriteF64(r.BottomLeft)
}

func readRadii(d *Deserializer) (paint.CornerRadii, error) {
	var r paint.CornerRadii
	var err error
	if r.TopLeft, err = d.ReadF64(); err != nil {
		return r, err
	}
	if r.TopRight, err = d.ReadF64(); err != nil {
		return r, err
	}
	if r.BottomRight, err = d.ReadF64(); err != nil {
		return r, err
	}
	if r.BottomLeft, err = d.ReadF64(); err != nil {
		return r, err
	}
	return r, nil
}

func writeGradient(s *Serializer, g *paint.Gradient) {
	if g == nil {
		s.WriteBool(false)
		return
	}
	s.WriteBool(true)
	s.WriteString(g.Kind)
	s.WriteF64(g.Angle)
	s.WriteU32(uint32(len(g.Stops)))
	for _, st := range g.Stops {
		s.WriteF64(st.Offset)
		writeColor(s, st.Color)
	}
}

func readGradient(d *Deserializer) (*paint.Gradient, error) {
	has, err := d.ReadBool()
	if err != nil || !has {
		return nil, err
	}
	g := &paint.Gradient{}
	if g.Kind, err = d.ReadString(); err != nil {
		return nil, err
	}
	if g.Angle, err = d.ReadF64(); err != nil {
		return nil, err
	}
	n, err := d.ReadU32()
	if err != nil {
		return nil, err
	}
	g.Stops = make([]paint.GradientStop, n)
	for i := range g.Stops {
		if g.Stops[i].Offset, err = d.ReadF64(); err != nil {
			return nil, err
		}
		if g.Stops[i].Color, err = readColor(d); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func writeBorderSide(s *Serializer, side paint.BorderSide) {
	s.WriteF64(side.Width)
	writeColor(s, side.Color)
	s.WriteString(side.Style)
}

func readBorderSide(d *Deserializer) (paint.BorderSide, error) {
	var side paint.BorderSide
	var err error
	if side.Width, err = d.ReadF64(); err != nil {
		return side, err
	}
	if side.Color, err = readColor(d); err != nil {
		return side, err
	}
	if side.Style, err = d.ReadString(); err != nil {
		return side, err
	}
	return side, nil
}

// EncodeCommand serializes a single paint.PaintCommand as a leading u8
// tag followed by its fields, per spec §4.6's tagged-variant wire layout.
func EncodeCommand(s *Serializer, cmd paint.PaintCommand) error {
	switch c := cmd.(type) {
	case paint.FillRect:
		s.WriteU8(tagFillRect)
		writeRect(s, c.Rect)
		writeColor(s, c.Color)
		writeGradient(s, c.Gradient)
		writeRadii(s, c.Radii)
	case paint.FillBoxShadow:
		s.WriteU8(tagFillBoxShadow)
		writeRect(s, c.Rect)
		writeColor(s, c.Color)
		s.WriteF64(c.OffsetX)
		s.WriteF64(c.OffsetY)
		s.WriteF64(c.Blur)
		s.WriteF64(c.Spread)
		s.WriteBool(c.Inset)
		writeRadii(s, c.Radii)
	case paint.DrawText:
		s.WriteU8(tagDrawText)
		s.WriteString(c.Text)
		s.WriteF64(c.X)
		s.WriteF64(c.Y)
		s.WriteString(c.FontFamily)
		s.WriteF64(c.FontSize)
		s.WriteI32(int32(c.FontWeight))
		s.WriteBool(c.Italic)
		writeColor(s, c.Color)
		s.WriteF64(c.LetterSpacing)
		s.WriteString(c.Decoration)
	case paint.DrawBorder:
		s.WriteU8(tagDrawBorder)
		writeRect(s, c.Rect)
		writeBorderSide(s, c.Top)
		writeBorderSide(s, c.Right)
		writeBorderSide(s, c.Bottom)
		writeBorderSide(s, c.Left)
		writeRadii(s, c.Radii)
	case paint.DrawOutline:
		s.WriteU8(tagDrawOutline)
		writeRect(s, c.Rect)
		writeBorderSide(s, c.Side)
		s.WriteF64(c.Offset)
		writeRadii(s, c.Radii)
	case paint.DrawImage:
		s.WriteU8(tagDrawImage)
		writeRect(s, c.Rect)
		var buf bytes.Buffer
		if c.Image != nil {
			if err := png.Encode(&buf, c.Image); err != nil {
				return fmt.Errorf("ipc: encode DrawImage: %w", err)
			}
		}
		s.WriteBytes(buf.Bytes())
	case paint.DrawEllipse:
		s.WriteU8(tagDrawEllipse)
		writeRect(s, c.Rect)
		writeColor(s, c.Color)
		writeGradient(s, c.Gradient)
		s.WriteBool(c.Stroke != nil)
		if c.Stroke != nil {
			writeBorderSide(s, *c.Stroke)
		}
	case paint.DrawLine:
		s.WriteU8(tagDrawLine)
		s.WriteF64(c.X1)
		s.WriteF64(c.Y1)
		s.WriteF64(c.X2)
		s.WriteF64(c.Y2)
		writeColor(s, c.Color)
		s.WriteF64(c.Width)
	case paint.PushClip:
		s.WriteU8(tagPushClip)
		writeRect(s, c.Rect)
		writeRadii(s, c.Radii)
	case paint.PopClip:
		s.WriteU8(tagPopClip)
	case paint.PushTransform:
		s.WriteU8(tagPushTransform)
		s.WriteString(c.Transform.Kind)
		s.WriteF64(c.Transform.A)
		s.WriteF64(c.Transform.B)
		s.WriteF64(c.Transform.C)
		s.WriteF64(c.Transform.D)
		s.WriteF64(c.Transform.E)
		s.WriteF64(c.Transform.F)
	case paint.PopTransform:
		s.WriteU8(tagPopTransform)
	case paint.ApplyFilter:
		s.WriteU8(tagApplyFilter)
		s.WriteString(c.Filter)
	case paint.ApplyBackdropFilter:
		s.WriteU8(tagApplyBackdropFilter)
		s.WriteString(c.Filter)
	case paint.ApplyClipPath:
		s.WriteU8(tagApplyClipPath)
		s.WriteString(c.Shape.Kind)
		s.WriteU32(uint32(len(c.Shape.Args)))
		for _, a := range c.Shape.Args {
			s.WriteF64(a)
		}
		s.WriteU32(uint32(len(c.Shape.Points)))
		for _, p := range c.Shape.Points {
			s.WriteF64(p.X)
			s.WriteF64(p.Y)
		}
	case paint.SaveBackdrop:
		s.WriteU8(tagSaveBackdrop)
		writeRect(s, c.Rect)
	case paint.ApplyBlendMode:
		s.WriteU8(tagApplyBlendMode)
		s.WriteString(c.Mode)
	case paint.ApplyMaskGradient:
		s.WriteU8(tagApplyMaskGradient)
		writeGradient(s, &c.Gradient)
		writeRect(s, c.Rect)
	default:
		return fmt.Errorf("ipc: unknown paint command %T", cmd)
	}
	return nil
}

// DecodeCommand reads one tagged paint.PaintCommand from d.
func DecodeCommand(d *Deserializer) (paint.PaintCommand, error) {
	tag, err := d.ReadU8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagFillRect:
		rect, err := readRect(d)
		if err != nil {
			return nil, err
		}
		color, err := readColor(d)
		if err != nil {
			return nil, err
		}
		grad, err := readGradient(d)
		if err != nil {
			return nil, err
		}
		radii, err := readRadii(d)
		if err != nil {
			return nil, err
		}
		return paint.FillRect{Rect: rect, Color: color, Gradient: grad, Radii: radii}, nil
	case tagFillBoxShadow:
		rect, err := readRect(d)
		if err != nil {
			return nil, err
		}
		color, err := readColor(d)
		if err != nil {
			return nil, err
		}
		ox, err := d.ReadF64()
		if err != nil {
			return nil, err
		}
		oy, err := d.ReadF64()
		if err != nil {
			return nil, err
		}
		blur, err := d.ReadF64()
		if err != nil {
			return nil, err
		}
		spread, err := d.ReadF64()
		if err != nil {
			return nil, err
		}
		inset, err := d.ReadBool()
		if err != nil {
			return nil, err
		}
		radii, err := readRadii(d)
		if err != nil {
			return nil, err
		}
		return paint.FillBoxShadow{Rect: rect, Color: color, OffsetX: ox, OffsetY: oy, Blur: blur, Spread: spread, Inset: inset, Radii: radii}, nil
	case tagDrawText:
		text, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		x, err := d.ReadF64()
		if err != nil {
			return nil, err
		}
		y, err := d.ReadF64()
		if err != nil {
			return nil, err
		}
		family, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		size, err := d.ReadF64()
		if err != nil {
			return nil, err
		}
		weight, err := d.ReadI32()
		if err != nil {
			return nil, err
		}
		italic, err := d.ReadBool()
		if err != nil {
			return nil, err
		}
		color, err := readColor(d)
		if err != nil {
			return nil, err
		}
		spacing, err := d.ReadF64()
		if err != nil {
			return nil, err
		}
		decoration, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		return paint.DrawText{
			Text: text, X: x, Y: y, FontFamily: family, FontSize: size,
			FontWeight: int(weight), Italic: italic, Color: color,
			LetterSpacing: spacing, Decoration: decoration,
		}, nil
	case tagDrawBorder:
		rect, err := readRect(d)
		if err != nil {
			return nil, err
		}
		top, err := readBorderSide(d)
		if err != nil {
			return nil, err
		}
		right, err := readBorderSide(d)
		if err != nil {
			return nil, err
		}
		bottom, err := readBorderSide(d)
		if err != nil {
			return nil, err
		}
		left, err := readBorderSide(d)
		if err != nil {
			return nil, err
		}
		radii, err := readRadii(d)
		if err != nil {
			return nil, err
		}
		return paint.DrawBorder{Rect: rect, Top: top, Right: right, Bottom: bottom, Left: left, Radii: radii}, nil
	case tagDrawOutline:
		rect, err := readRect(d)
		if err != nil {
			return nil, err
		}
		side, err := readBorderSide(d)
		if err != nil {
			return nil, err
		}
		offset, err := d.ReadF64()
		if err != nil {
			return nil, err
		}
		radii, err := readRadii(d)
		if err != nil {
			return nil, err
		}
		return paint.DrawOutline{Rect: rect, Side: side, Offset: offset, Radii: radii}, nil
	case tagDrawImage:
		rect, err := readRect(d)
		if err != nil {
			return nil, err
		}
		raw, err := d.ReadBytes()
		if err != nil {
			return nil, err
		}
		var img image.Image
		if len(raw) > 0 {
			if img, err = png.Decode(bytes.NewReader(raw)); err != nil {
				return nil, fmt.Errorf("ipc: decode DrawImage: %w", err)
			}
		}
		return paint.DrawImage{Rect: rect, Image: img}, nil
	case tagDrawEllipse:
		rect, err := readRect(d)
		if err != nil {
			return nil, err
		}
		color, err := readColor(d)
		if err != nil {
			return nil, err
		}
		grad, err := readGradient(d)
		if err != nil {
			return nil, err
		}
		hasStroke, err := d.ReadBool()
		if err != nil {
			return nil, err
		}
		var stroke *paint.BorderSide
		if hasStroke {
			side, err := readBorderSide(d)
			if err != nil {
				return nil, err
			}
			stroke = &side
		}
		return paint.DrawEllipse{Rect: rect, Color: color, Gradient: grad, Stroke: stroke}, nil
	case tagDrawLine:
		x1, err := d.ReadF64()
		if err != nil {
			return nil, err
		}
		y1, err := d.ReadF64()
		if err != nil {
			return nil, err
		}
		x2, err := d.ReadF64()
		if err != nil {
			return nil, err
		}
		y2, err := d.ReadF64()
		if err != nil {
			return nil, err
		}
		color, err := readColor(d)
		if err != nil {
			return nil, err
		}
		width, err := d.ReadF64()
		if err != nil {
			return nil, err
		}
		return paint.DrawLine{X1: x1, Y1: y1, X2: x2, Y2: y2, Color: color, Width: width}, nil
	case tagPushClip:
		rect, err := readRect(d)
		if err != nil {
			return nil, err
		}
		radii, err := readRadii(d)
		if err != nil {
			return nil, err
		}
		return paint.PushClip{Rect: rect, Radii: radii}, nil
	case tagPopClip:
		return paint.PopClip{}, nil
	case tagPushTransform:
		kind, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		var t paint.TransformKind
		t.Kind = kind
		if t.A, err = d.ReadF64(); err != nil {
			return nil, err
		}
		if t.B, err = d.ReadF64(); err != nil {
			return nil, err
		}
		if t.C, err = d.ReadF64(); err != nil {
			return nil, err
		}
		if t.D, err = d.ReadF64(); err != nil {
			return nil, err
		}
		if t.E, err = d.ReadF64(); err != nil {
			return nil, err
		}
		if t.F, err = d.ReadF64(); err != nil {
			return nil, err
		}
		return paint.PushTransform{Transform: t}, nil
	case tagPopTransform:
		return paint.PopTransform{}, nil
	case tagApplyFilter:
		f, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		return paint.ApplyFilter{Filter: f}, nil
	case tagApplyBackdropFilter:
		f, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		return paint.ApplyBackdropFilter{Filter: f}, nil
	case tagApplyClipPath:
		kind, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		nargs, err := d.ReadU32()
		if err != nil {
			return nil, err
		}
		args := make([]float64, nargs)
		for i := range args {
			if args[i], err = d.ReadF64(); err != nil {
				return nil, err
			}
		}
		npoints, err := d.ReadU32()
		if err != nil {
			return nil, err
		}
		points := make([]struct{ X, Y float64 }, npoints)
		for i := range points {
			if points[i].X, err = d.ReadF64(); err != nil {
				return nil, err
			}
			if points[i].Y, err = d.ReadF64(); err != nil {
				return nil, err
			}
		}
		return paint.ApplyClipPath{Shape: paint.ClipPathShape{Kind: kind, Args: args, Points: points}}, nil
	case tagSaveBackdrop:
		rect, err := readRect(d)
		if err != nil {
			return nil, err
		}
		return paint.SaveBackdrop{Rect: rect}, nil
	case tagApplyBlendMode:
		mode, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		return paint.ApplyBlendMode{Mode: mode}, nil
	case tagApplyMaskGradient:
		grad, err := readGradient(d)
		if err != nil {
			return nil, err
		}
		rect, err := readRect(d)
		if err != nil {
			return nil, err
		}
		if grad == nil {
			grad = &paint.Gradient{}
		}
		return paint.ApplyMaskGradient{Gradient: *grad, Rect: rect}, nil
	default:
		return nil, fmt.Errorf("ipc: unknown paint command tag %d", tag)
	}
}

// EncodeDisplayList serializes every command in dl in order, preceded
// by a u32 command count.
func EncodeDisplayList(dl *paint.DisplayList) ([]byte, error) {
	s := NewSerializer()
	s.WriteU32(uint32(len(dl.Commands)))
	for _, cmd := range dl.Commands {
		if err := EncodeCommand(s, cmd); err != nil {
			return nil, err
		}
	}
	return s.TakeData(), nil
}

// DecodeDisplayList reverses EncodeDisplayList. Region side-bands
// (links, cursor regions, ...) are a shell-facing convenience computed
// from the layout tree, not part of the wire format; a decoded list
// carries only the Commands a rasterizer needs to reproduce pixels.
func DecodeDisplayList(data []byte) (*paint.DisplayList, error) {
	d := NewDeserializer(data)
	n, err := d.ReadU32()
	if err != nil {
		return nil, err
	}
	dl := &paint.DisplayList{Commands: make([]paint.PaintCommand, n)}
	for i := range dl.Commands {
		cmd, err := DecodeCommand(d)
		if err != nil {
			return nil, err
		}
		dl.Commands[i] = cmd
	}
	return dl, nil
}
