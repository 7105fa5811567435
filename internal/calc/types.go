// Package calc holds the balcony calculator: geometry, system selection,
// bill of materials, profile advice and the page plan of the generated
// document. Everything here is pure and safe for concurrent use.
package calc

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

type Shape string

const (
	ShapeSquare    Shape = "square"
	ShapeRectangle Shape = "rectangle"
	ShapeL         Shape = "l-shape"
)

type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
	SideC Side = "C"
	SideD Side = "D"
	SideE Side = "E"
	SideF Side = "F"
)

// AllSides is the clockwise traversal order used by the L-shape.
var AllSides = []Side{SideA, SideB, SideC, SideD, SideE, SideF}

var shapeSides = map[Shape][]Side{
	ShapeSquare:    {SideA},
	ShapeRectangle: {SideA, SideB},
	ShapeL:         {SideA, SideB, SideC, SideD, SideE, SideF},
}

var shapeLabels = map[Shape]string{
	ShapeSquare:    "Štvorec",
	ShapeRectangle: "Obdĺžnik",
	ShapeL:         "Tvar L",
}

// Shapes lists the supported shapes in display order.
func Shapes() []Shape { return []Shape{ShapeSquare, ShapeRectangle, ShapeL} }

// Sides returns the side labels read for the shape. Unknown shapes have none.
func (s Shape) Sides() []Side {
	return append([]Side(nil), shapeSides[s]...)
}

func (s Shape) Has(side Side) bool {
	for _, x := range shapeSides[s] {
		if x == side {
			return true
		}
	}
	return false
}

func (s Shape) Valid() bool {
	_, ok := shapeSides[s]
	return ok
}

func (s Shape) Label() string { return shapeLabels[s] }

// Sides maps a side label to its length in meters.
type Sides map[Side]float64

// Get reports the length of a side; non-positive and non-finite values are unset.
func (s Sides) Get(side Side) (float64, bool) {
	v, ok := s[side]
	if !ok || !usable(v) {
		return 0, false
	}
	return v, true
}

// ForShape keeps only the usable lengths of the sides the shape reads.
func (s Sides) ForShape(shape Shape) Sides {
	out := Sides{}
	for _, side := range shape.Sides() {
		if v, ok := s.Get(side); ok {
			out[side] = v
		}
	}
	return out
}

func (s Sides) clone() Sides {
	out := make(Sides, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func usable(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Walls marks sides adjacent to a wall; those need no edge profile.
type Walls map[Side]bool

// ForShape drops flags on sides the shape does not have.
func (w Walls) ForShape(shape Shape) Walls {
	out := Walls{}
	for side, on := range w {
		if on && shape.Has(side) {
			out[side] = true
		}
	}
	return out
}

func (w Walls) clone() Walls {
	out := make(Walls, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

type Height string

const (
	HeightLow    Height = "LOW"
	HeightMedium Height = "MEDIUM"
	HeightHigh   Height = "HIGH"
)

var heightInfo = map[Height]struct{ label, band string }{
	HeightLow:    {"Nízka konštrukčná výška", "do 50 mm"},
	HeightMedium: {"Stredná konštrukčná výška", "50 – 100 mm"},
	HeightHigh:   {"Vysoká konštrukčná výška", "nad 100 mm"},
}

func Heights() []Height { return []Height{HeightLow, HeightMedium, HeightHigh} }

func (h Height) Valid() bool {
	_, ok := heightInfo[h]
	return ok
}

func (h Height) Label() string { return heightInfo[h].label }

// Band is the informational construction-height range of the category.
func (h Height) Band() string { return heightInfo[h].band }

type Drain string

const (
	DrainEdgeFree   Drain = "EDGE_FREE"
	DrainEdgeGutter Drain = "EDGE_GUTTER"
	DrainFloor      Drain = "FLOOR_DRAIN"
)

var drainLabels = map[Drain]string{
	DrainEdgeFree:   "Voľný odtok cez hranu",
	DrainEdgeGutter: "Odtok do žľabu",
	DrainFloor:      "Podlahová vpusť",
}

func Drains() []Drain { return []Drain{DrainEdgeFree, DrainEdgeGutter, DrainFloor} }

func (d Drain) Valid() bool {
	_, ok := drainLabels[d]
	return ok
}

func (d Drain) Label() string { return drainLabels[d] }

// GutterLike reports drains that take water away through a profile or vpusť
// instead of letting it run over the edge.
func (d Drain) GutterLike() bool { return d == DrainEdgeGutter || d == DrainFloor }

// AvailableDrains lists the drain types offered for a height. A free edge is
// not offered for HIGH because no system exists for that pairing.
func AvailableDrains(h Height) []Drain {
	if !h.Valid() {
		return nil
	}
	if h == HeightHigh {
		return []Drain{DrainEdgeGutter, DrainFloor}
	}
	return Drains()
}

// Length is a user-entered number. It decodes JSON numbers and numeric strings
// (decimal comma allowed); anything else decodes to 0, which every consumer
// treats as unset.
type Length float64

func (l *Length) UnmarshalJSON(b []byte) error {
	*l = 0
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	switch v := raw.(type) {
	case float64:
		if usable(v) {
			*l = Length(v)
		}
	case string:
		if f, ok := ParseLength(v); ok {
			*l = Length(f)
		}
	}
	return nil
}

// ParseLength parses a positive number, accepting a decimal comma.
func ParseLength(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !usable(f) {
		return 0, false
	}
	return f, true
}
