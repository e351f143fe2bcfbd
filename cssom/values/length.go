// Package values provides the CSS value types shared by the selector
// matcher, cascade, and layout engine: lengths (with calc()), and colors.
package values

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LengthUnit tags a Length variant (spec §3's Length tagged union).
type LengthUnit int

const (
	UnitPx LengthUnit = iota
	UnitEm
	UnitRem
	UnitPercent
	UnitVw
	UnitVh
	UnitVmin
	UnitVmax
	UnitCh
	UnitLh
	UnitAuto
	UnitZero
	UnitCalc
)

// Length is a CSS length: either a concrete unit/value pair, the Auto or
// Zero keyword, or a Calc expression tree.
type Length struct {
	Value float64
	Unit  LengthUnit
	Calc  *CalcExpr
}

func Zero() Length    { return Length{Unit: UnitZero} }
func Auto() Length    { return Length{Unit: UnitAuto} }
func Px(v float64) Length      { return Length{Value: v, Unit: UnitPx} }
func Em(v float64) Length      { return Length{Value: v, Unit: UnitEm} }
func Rem(v float64) Length     { return Length{Value: v, Unit: UnitRem} }
func Percent(v float64) Length { return Length{Value: v, Unit: UnitPercent} }
func Vw(v float64) Length      { return Length{Value: v, Unit: UnitVw} }
func Vh(v float64) Length      { return Length{Value: v, Unit: UnitVh} }
func Vmin(v float64) Length    { return Length{Value: v, Unit: UnitVmin} }
func Vmax(v float64) Length    { return Length{Value: v, Unit: UnitVmax} }
func Ch(v float64) Length      { return Length{Value: v, Unit: UnitCh} }
func Lh(v float64) Length      { return Length{Value: v, Unit: UnitLh} }
func FromCalc(e *CalcExpr) Length { return Length{Unit: UnitCalc, Calc: e} }

func (l Length) IsAuto() bool { return l.Unit == UnitAuto }
func (l Length) IsZero() bool { return l.Unit == UnitZero || (l.Unit != UnitAuto && l.Value == 0 && l.Unit != UnitCalc) }

// ResolveContext carries the numbers needed to turn a relative length into
// device pixels.
type ResolveContext struct {
	FontSize       float64
	RootFontSize   float64
	LineHeight     float64
	ParentWidth    float64
	ParentHeight   float64
	ViewportWidth  float64
	ViewportHeight float64
	CharWidth      float64
}

func DefaultContext() ResolveContext {
	return ResolveContext{
		FontSize: 16, RootFontSize: 16, LineHeight: 19.2,
		ParentWidth: 1024, ParentHeight: 768,
		ViewportWidth: 1024, ViewportHeight: 768,
		CharWidth: 8,
	}
}

// Resolve converts l to pixels against the width axis.
func (l Length) Resolve(ctx ResolveContext) float64 {
	switch l.Unit {
	case UnitPx:
		return l.Value
	case UnitEm:
		return l.Value * ctx.FontSize
	case UnitRem:
		return l.Value * ctx.RootFontSize
	case UnitPercent:
		return l.Value / 100 * ctx.ParentWidth
	case UnitVw:
		return l.Value / 100 * ctx.ViewportWidth
	case UnitVh:
		return l.Value / 100 * ctx.ViewportHeight
	case UnitVmin:
		return l.Value / 100 * math.Min(ctx.ViewportWidth, ctx.ViewportHeight)
	case UnitVmax:
		return l.Value / 100 * math.Max(ctx.ViewportWidth, ctx.ViewportHeight)
	case UnitCh:
		return l.Value * ctx.CharWidth
	case UnitLh:
		return l.Value * ctx.LineHeight
	case UnitZero:
		return 0
	case UnitAuto:
		return 0
	case UnitCalc:
		if l.Calc == nil {
			return 0
		}
		return l.Calc.Eval(ctx)
	}
	return l.Value
}

// ResolveHeight is Resolve but against the height axis for percentages.
func (l Length) ResolveHeight(ctx ResolveContext) float64 {
	if l.Unit == UnitPercent {
		return l.Value / 100 * ctx.ParentHeight
	}
	return l.Resolve(ctx)
}

func (l Length) String() string {
	switch l.Unit {
	case UnitAuto:
		return "auto"
	case UnitZero:
		return "0"
	case UnitCalc:
		if l.Calc != nil {
			return "calc(" + l.Calc.String() + ")"
		}
		return "calc()"
	}
	units := [...]string{"px", "em", "rem", "%", "vw", "vh", "vmin", "vmax", "ch", "lh"}
	if int(l.Unit) < len(units) {
		return fmt.Sprintf("%g%s", l.Value, units[l.Unit])
	}
	return fmt.Sprintf("%gpx", l.Value)
}

var lengthUnitSuffixes = map[string]LengthUnit{
	"px": UnitPx, "em": UnitEm, "rem": UnitRem, "%": UnitPercent,
	"vw": UnitVw, "vh": UnitVh, "vmin": UnitVmin, "vmax": UnitVmax,
	"ch": UnitCh, "lh": UnitLh,
}

// ParseLength parses a single length token, or a whole calc(...) value,
// whose contents it hands to ParseCalc. Bare "0" is accepted without a
// unit per the CSS grammar.
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "0" {
		return Zero(), nil
	}
	if s == "auto" {
		return Auto(), nil
	}
	if strings.HasPrefix(s, "calc(") && strings.HasSuffix(s, ")") {
		expr, err := ParseCalc(s[len("calc(") : len(s)-1])
		if err != nil {
			return Zero(), err
		}
		return FromCalc(expr), nil
	}
	// Take the longest matching suffix so "rem" is not read as "em".
	best := ""
	for suffix := range lengthUnitSuffixes {
		if strings.HasSuffix(s, suffix) && len(suffix) > len(best) {
			best = suffix
		}
	}
	if best != "" {
		numStr := strings.TrimSuffix(s, best)
		v, err := strconv.ParseFloat(numStr, 64)
		if err != nil {
			return Zero(), fmt.Errorf("values: invalid length %q", s)
		}
		return Length{Value: v, Unit: lengthUnitSuffixes[best]}, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Zero(), fmt.Errorf("values: invalid length %q", s)
	}
	return Px(v), nil
}
