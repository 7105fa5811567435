package calc

import (
	"fmt"
	"math"
)

// LShapeTolerance is the allowed mismatch, in meters, between an entered
// L-shape side and the value implied by the other sides.
const LShapeTolerance = 0.02

// Geometry is the outcome of ComputeAreaPerimeter. Nil Area/Perimeter mean the
// input is incomplete; a non-empty Error means the sides are inconsistent.
type Geometry struct {
	Area      *float64 `json:"area"`
	Perimeter *float64 `json:"perimeter"`
	Error     string   `json:"geometry_error,omitempty"`
}

func (g Geometry) Complete() bool { return g.Area != nil && g.Perimeter != nil && g.Error == "" }

// ComputeAreaPerimeter derives area (m²) and perimeter (m) for the shape.
func ComputeAreaPerimeter(shape Shape, sides Sides) Geometry {
	need := shape.Sides()
	if len(need) == 0 {
		return Geometry{}
	}
	vals := make(map[Side]float64, len(need))
	for _, s := range need {
		v, ok := sides.Get(s)
		if !ok {
			return Geometry{}
		}
		vals[s] = v
	}

	switch shape {
	case ShapeSquare:
		a := vals[SideA]
		return Geometry{Area: ptr(a * a), Perimeter: ptr(4 * a)}
	case ShapeRectangle:
		a, b := vals[SideA], vals[SideB]
		return Geometry{Area: ptr(a * b), Perimeter: ptr(2 * (a + b))}
	case ShapeL:
		return lShape(vals)
	}
	return Geometry{}
}

// lShape validates the two concatenated rectangles A..F walked clockwise:
// E must equal A-C and B must equal F-D.
func lShape(v map[Side]float64) Geometry {
	a, b, c, d, e, f := v[SideA], v[SideB], v[SideC], v[SideD], v[SideE], v[SideF]
	perimeter := a + b + c + d + e + f
	g := Geometry{Perimeter: ptr(perimeter)}

	wantE := a - c
	wantB := f - d
	switch {
	case wantE <= 0:
		g.Error = "Strana C musí byť kratšia ako strana A."
	case wantB <= 0:
		g.Error = "Strana D musí byť kratšia ako strana F."
	case math.Abs(e-wantE) > LShapeTolerance:
		g.Error = fmt.Sprintf("Rozmery nesedia: strana E by mala byť %s m (A − C).", formatMeters(wantE))
	case math.Abs(b-wantB) > LShapeTolerance:
		g.Error = fmt.Sprintf("Rozmery nesedia: strana B by mala byť %s m (F − D).", formatMeters(wantB))
	default:
		g.Area = ptr(a*f - c*d)
	}
	return g
}

func ptr(f float64) *float64 { return &f }

func formatMeters(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
