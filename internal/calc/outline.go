package calc

// Point is a plan coordinate in metres, x to the right and y downwards.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Edge is one straight edge of the outline. Side is empty for edges that
// repeat a labelled side (the opposite edges of a square or rectangle).
type Edge struct {
	Side Side  `json:"side,omitempty"`
	From Point `json:"from"`
	To   Point `json:"to"`
	Wall bool  `json:"wall"`
}

// Outline traces the balcony clockwise from its top-left corner. It reports
// false while the dimensions do not describe a closed shape.
func Outline(shape Shape, sides Sides, walls Walls) ([]Edge, bool) {
	if !ComputeAreaPerimeter(shape, sides).Complete() {
		return nil, false
	}
	a, _ := sides.Get(SideA)
	var pts []Point
	var labels []Side
	switch shape {
	case ShapeSquare:
		pts = []Point{{0, 0}, {a, 0}, {a, a}, {0, a}}
		labels = []Side{SideA, "", "", ""}
	case ShapeRectangle:
		b, _ := sides.Get(SideB)
		pts = []Point{{0, 0}, {a, 0}, {a, b}, {0, b}}
		labels = []Side{SideA, SideB, "", ""}
	case ShapeL:
		b, _ := sides.Get(SideB)
		c, _ := sides.Get(SideC)
		d, _ := sides.Get(SideD)
		pts = []Point{{0, 0}, {a, 0}, {a, b}, {a - c, b}, {a - c, b + d}, {0, b + d}}
		labels = []Side{SideA, SideB, SideC, SideD, SideE, SideF}
	default:
		return nil, false
	}
	edges := make([]Edge, len(pts))
	for i := range pts {
		edges[i] = Edge{
			Side: labels[i],
			From: pts[i],
			To:   pts[(i+1)%len(pts)],
			Wall: labels[i] != "" && walls[labels[i]],
		}
	}
	return edges, true
}

// Bounds returns the width and height of an outline.
func Bounds(edges []Edge) (w, h float64) {
	for _, e := range edges {
		w = max(w, e.From.X, e.To.X)
		h = max(h, e.From.Y, e.To.Y)
	}
	return w, h
}
