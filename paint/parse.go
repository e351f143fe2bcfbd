package paint

import (
	"strconv"
	"strings"

	"gocko/cssom"
	"gocko/cssom/values"
)

func clipsOverflow(style *cssom.ComputedStyle) bool {
	clips := func(v string) bool { return v == "hidden" || v == "scroll" || v == "auto" }
	return clips(style.OverflowX) || clips(style.OverflowY)
}

// boxShadowValue is the parsed form of the shorthand `box-shadow` string
// (e.g. "2px 4px 10px 0px rgba(0,0,0,0.3)" or "inset 0 0 5px #000").
type boxShadowValue struct {
	OffsetX, OffsetY, Blur, Spread float64
	Color                          values.Color
	Inset                          bool
}

func parseBoxShadow(raw string) *boxShadowValue {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "none" {
		return nil
	}
	inset := false
	if strings.Contains(raw, "inset") {
		inset = true
		raw = strings.ReplaceAll(raw, "inset", "")
	}
	fields := splitShadowFields(raw)
	nums := make([]float64, 0, 4)
	color := values.Black().WithAlpha(128)
	for _, f := range fields {
		if v, err := strconv.ParseFloat(strings.TrimSuffix(f, "px"), 64); err == nil {
			nums = append(nums, v)
			continue
		}
		if c, err := values.ParseColor(f); err == nil {
			color = c
		}
	}
	sv := &boxShadowValue{Color: color, Inset: inset}
	if len(nums) > 0 {
		sv.OffsetX = nums[0]
	}
	if len(nums) > 1 {
		sv.OffsetY = nums[1]
	}
	if len(nums) > 2 {
		sv.Blur = nums[2]
	}
	if len(nums) > 3 {
		sv.Spread = nums[3]
	}
	return sv
}

// splitShadowFields splits on whitespace but keeps an rgba(...)/rgb(...)
// color function intact as a single field.
func splitShadowFields(s string) []string {
	var fields []string
	depth := 0
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		}
	}
	for _, r := range s {
		switch r {
		case '(':
			depth++
			cur.WriteRune(r)
		case ')':
			depth--
			cur.WriteRune(r)
		case ' ', '\t':
			if depth == 0 {
				flush()
			} else {
				cur.WriteRune(r)
			}
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return fields
}

// parseGradient recognizes linear-gradient()/radial-gradient()/
// conic-gradient() background-image values; anything else (a url(), or
// empty) yields ok=false.
func parseGradient(raw string) (*Gradient, bool) {
	raw = strings.TrimSpace(raw)
	var kind string
	switch {
	case strings.HasPrefix(raw, "linear-gradient("):
		kind = "linear"
	case strings.HasPrefix(raw, "radial-gradient("):
		kind = "radial"
	case strings.HasPrefix(raw, "conic-gradient("):
		kind = "conic"
	default:
		return nil, false
	}
	inner := raw[strings.Index(raw, "(")+1 : strings.LastIndex(raw, ")")]
	parts := splitTopLevelCommas(inner)
	if len(parts) == 0 {
		return nil, false
	}
	g := &Gradient{Kind: kind}
	start := 0
	if kind == "linear" {
		if deg, ok := parseAngle(parts[0]); ok {
			g.Angle = deg
			start = 1
		} else {
			g.Angle = 180 // "to bottom" default
		}
	}
	for i := start; i < len(parts); i++ {
		stop, ok := parseColorStop(parts[i], i-start, len(parts)-start)
		if ok {
			g.Stops = append(g.Stops, stop)
		}
	}
	if len(g.Stops) == 0 {
		return nil, false
	}
	return g, true
}

func splitTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	var cur strings.Builder
	for _, r := range s {
		switch r {
		case '(':
			depth++
			cur.WriteRune(r)
		case ')':
			depth--
			cur.WriteRune(r)
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(cur.String()))
				cur.Reset()
				continue
			}
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		parts = append(parts, strings.TrimSpace(cur.String()))
	}
	return parts
}

func parseAngle(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "deg") {
		if v, err := strconv.ParseFloat(strings.TrimSuffix(s, "deg"), 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

func parseColorStop(s string, index, total int) (GradientStop, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return GradientStop{}, false
	}
	color, err := values.ParseColor(fields[0])
	if err != nil {
		return GradientStop{}, false
	}
	offset := 0.0
	if total > 1 {
		offset = float64(index) / float64(total-1)
	}
	if len(fields) > 1 && strings.HasSuffix(fields[1], "%") {
		if v, err := strconv.ParseFloat(strings.TrimSuffix(fields[1], "%"), 64); err == nil {
			offset = v / 100
		}
	}
	return GradientStop{Offset: offset, Color: color}, true
}

// parseTransform recognizes the single-function transform values the
// painter needs to push a matrix for: translate/scale/rotate. rect gives
// the box's own coordinates so percentage translations resolve.
func parseTransform(raw string, rect Rect) (TransformKind, bool) {
	raw = strings.TrimSpace(raw)
	open := strings.Index(raw, "(")
	close := strings.LastIndex(raw, ")")
	if open < 0 || close < 0 || close < open {
		return TransformKind{}, false
	}
	fn := raw[:open]
	args := splitTopLevelCommas(raw[open+1 : close])

	switch fn {
	case "translate", "translateX", "translateY":
		tx, ty := parseLengthArg(args, 0, rect.Width), 0.0
		if fn == "translateY" {
			tx, ty = 0, parseLengthArg(args, 0, rect.Height)
		} else if len(args) > 1 {
			ty = parseLengthArg(args, 1, rect.Height)
		}
		return TransformKind{Kind: "translate", A: 1, D: 1, E: tx, F: ty}, true
	case "scale":
		sx := parseNumArg(args, 0, 1)
		sy := sx
		if len(args) > 1 {
			sy = parseNumArg(args, 1, 1)
		}
		return TransformKind{Kind: "scale", A: sx, D: sy}, true
	case "rotate":
		deg, ok := parseAngle(args[0])
		if !ok {
			return TransformKind{}, false
		}
		return TransformKind{Kind: "rotate", A: deg}, true
	default:
		return TransformKind{}, false
	}
}

func parseLengthArg(args []string, i int, basis float64) float64 {
	if i >= len(args) {
		return 0
	}
	s := strings.TrimSpace(args[i])
	if strings.HasSuffix(s, "%") {
		v, _ := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		return v / 100 * basis
	}
	v, _ := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
	return v
}

func parseNumArg(args []string, i int, def float64) float64 {
	if i >= len(args) {
		return def
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(args[i]), 64)
	if err != nil {
		return def
	}
	return v
}
