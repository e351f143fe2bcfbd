package raster

import "image/color"

// blendFunc returns the per-pixel compositing function for a
// mix-blend-mode keyword, or nil for an unrecognized mode.
func blendFunc(mode string) func(backdrop, top color.RGBA) color.RGBA {
	switch mode {
	case "multiply":
		return channelBlend(func(b, t float64) float64 { return b * t })
	case "screen":
		return channelBlend(func(b, t float64) float64 { return 1 - (1-b)*(1-t) })
	case "darken":
		return channelBlend(func(b, t float64) float64 {
			if b < t {
				return b
			}
			return t
		})
	case "lighten":
		return channelBlend(func(b, t float64) float64 {
			if b > t {
				return b
			}
			return t
		})
	case "difference":
		return channelBlend(func(b, t float64) float64 {
			d := b - t
			if d < 0 {
				return -d
			}
			return d
		})
	default:
		return nil
	}
}

func channelBlend(f func(b, t float64) float64) func(backdrop, top color.RGBA) color.RGBA {
	return func(backdrop, top color.RGBA) color.RGBA {
		return color.RGBA{
			R: to8(f(to01(backdrop.R), to01(top.R))),
			G: to8(f(to01(backdrop.G), to01(top.G))),
			B: to8(f(to01(backdrop.B), to01(top.B))),
			A: top.A,
		}
	}
}

func to01(c uint8) float64 { return float64(c) / 255 }
func to8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 255
	}
	return uint8(v * 255)
}
