package main

import (
	"fmt"
	"image/png"
	"io"

	"gocko"
)

// writePNG and writePPM mirror gocko/raster.Rasterizer's own encoders,
// duplicated here rather than imported because they write from a
// RenderResult's already-detached *image.RGBA, not a live Rasterizer.
func writePNG(w io.Writer, result *gocko.RenderResult) error {
	return png.Encode(w, result.Pixels)
}

func writePPM(w io.Writer, result *gocko.RenderResult) error {
	bounds := result.Pixels.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if _, err := fmt.Fprintf(w, "P6\n%d %d\n255\n", width, height); err != nil {
		return err
	}
	buf := make([]byte, 0, width*height*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := result.Pixels.RGBAAt(x, y)
			buf = append(buf, c.R, c.G, c.B)
		}
	}
	_, err := w.Write(buf)
	return err
}
