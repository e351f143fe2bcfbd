// Package rfont supplies the default MeasureTextFunc (for
// gocko/layout.Engine) and TextRenderer (for gocko/raster.Rasterizer)
// gocko-render wires in when the caller hasn't injected their own.
// It is deliberately minimal: one fixed bitmap face scaled by a ratio,
// not a real font-file loader — spec §4.5/§4.7 both describe text
// measurement/drawing as an injected callback precisely so a caller
// with real font access (a browser engine with platform font APIs)
// can swap this out.
package rfont

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"gocko/paint"
	"gocko/raster"
)

// nominalSize is the point size basicfont.Face7x13 is drawn at; other
// font sizes scale advance widths and glyph placement relative to it.
const nominalSize = 13.0

// Measure implements layout.MeasureTextFunc against basicfont's fixed
// 7px advance width, scaled by fontSize/nominalSize. It ignores family/
// weight/italic, since basicfont ships exactly one face.
func Measure(text string, fontSize float64, family string, weight int, italic bool, letterSpacing float64) float64 {
	if text == "" {
		return 0
	}
	scale := fontSize / nominalSize
	advance := 0.0
	for _, r := range text {
		aw, ok := basicfont.Face7x13.GlyphAdvance(r)
		if !ok {
			aw = fixed.I(7)
		}
		advance += float64(aw>>6)*scale + letterSpacing
	}
	return advance
}

// Renderer implements raster.TextRenderer, drawing through an
// x/image/font.Drawer against basicfont.Face7x13 scaled the same way
// Measure scales advances, so painted glyph runs land under the widths
// layout already reserved for them.
func Renderer(dst *image.RGBA, clip image.Rectangle, cmd paint.DrawText, transform raster.Matrix) {
	if cmd.Text == "" {
		return
	}
	scale := cmd.FontSize / nominalSize
	x, y := transform.Apply(cmd.X, cmd.Y)

	src := &image.Uniform{C: cmd.Color}
	var clipped draw.Image = dst
	if clip != (image.Rectangle{}) {
		clipped = &clippedImage{RGBA: dst, clip: clip}
	}

	d := font.Drawer{
		Dst:  clipped,
		Src:  src,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(int(x), int(y)),
	}

	if scale == 1 && cmd.LetterSpacing == 0 {
		d.DrawString(cmd.Text)
		return
	}
	// basicfont has no native scaling; approximate larger/smaller sizes
	// and extra letter-spacing by widening the per-rune advance and
	// drawing one rune at a time.
	for _, r := range strings.Split(cmd.Text, "") {
		d.DrawString(r)
		aw, ok := basicfont.Face7x13.GlyphAdvance([]rune(r)[0])
		if !ok {
			aw = fixed.I(7)
		}
		// DrawString has already moved Dot by aw; add the rest of the
		// scaled advance.
		d.Dot.X += fixed.Int26_6(float64(aw)*(scale-1)) + fixed.Int26_6(cmd.LetterSpacing*64)
	}
}

// clippedImage restricts Set to a sub-rectangle, the minimal draw.Image
// a font.Drawer needs to respect the rasterizer's active clip stack.
type clippedImage struct {
	*image.RGBA
	clip image.Rectangle
}

func (c *clippedImage) Set(x, y int, clr color.Color) {
	if !(image.Point{X: x, Y: y}.In(c.clip)) {
		return
	}
	c.RGBA.Set(x, y, clr)
}
