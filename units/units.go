// Package units holds the length, size and margin types shared by the
// layout engine, the style context and the drawing backends.
//
// All layout geometry is expressed in millimetres; font sizes are points.
package units

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit represents the original unit of a length value as written by the author.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers like factors
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
	UnitPercent          // relative to a reference length
)

// Conversion constants between pt and mm.
const (
	PtToMm    = 0.352777
	MmToPt    = 1.0 / PtToMm
	MmPerInch = 25.4
)

// String returns the short suffix for a Unit value.
func (u Unit) String() string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	case UnitPercent:
		return "%"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// MM converts the length to millimetres. Percentages resolve against
// reference; unit-less numbers are taken as millimetres.
func (l Length) MM(reference float64) float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * MmPerInch
	case UnitPT:
		return l.Value * PtToMm
	case UnitPercent:
		return reference * l.Value / 100
	default:
		return l.Value
	}
}

// PT converts the length to points. Unit-less numbers are taken as points,
// which is what font sizes are written in.
func (l Length) PT() float64 {
	switch l.Unit {
	case UnitMM, UnitCM, UnitIN:
		return l.MM(0) * MmToPt
	default:
		return l.Value
	}
}

var suffixes = []struct {
	s string
	u Unit
}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}, {"%", UnitPercent}}

// ParseLength parses a length such as "12pt", "2.5cm", "50%" or "10".
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("units: empty length")
	}
	unit := UnitNone
	num := v
	for _, suf := range suffixes {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("units: invalid length %q: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}

// IsLength reports whether value parses as a length; used to stop consuming
// positional arguments.
func IsLength(value string) bool {
	_, err := ParseLength(value)
	return err == nil
}

// Size is a width/height pair in millimetres.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Landscape returns the size with the longer edge horizontal.
func (s Size) Landscape() Size {
	if s.Width >= s.Height {
		return s
	}
	return Size{Width: s.Height, Height: s.Width}
}

// Margins are in millimetres.
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// UniformMargins returns margins with the same value on every side.
func UniformMargins(v float64) Margins {
	return Margins{Top: v, Right: v, Bottom: v, Left: v}
}

// MarginsFrom applies CSS-like shorthand semantics:
// 1 value: all sides; 2 values: vertical, horizontal;
// 3 values: top, horizontal, bottom; 4+ values: top, right, bottom, left.
func MarginsFrom(vals ...float64) Margins {
	switch len(vals) {
	case 0:
		return Margins{}
	case 1:
		return UniformMargins(vals[0])
	case 2:
		return Margins{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}
	case 3:
		return Margins{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}
	default:
		return Margins{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}
	}
}

var paperSizes = map[string]Size{
	"A3":     {Width: 297, Height: 420},
	"A4":     {Width: 210, Height: 297},
	"A5":     {Width: 148, Height: 210},
	"A6":     {Width: 105, Height: 148},
	"LETTER": {Width: 215.9, Height: 279.4},
	"LEGAL":  {Width: 215.9, Height: 355.6},
}

// PaperSize looks up a named paper format (case-insensitive).
func PaperSize(name string) (Size, bool) {
	s, ok := paperSizes[strings.ToUpper(strings.TrimSpace(name))]
	return s, ok
}
