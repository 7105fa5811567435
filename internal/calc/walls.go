package calc

// DeductWalls subtracts the known lengths of wall-flagged sides from the raw
// perimeter. The result never drops below zero. Callers pass walls already
// restricted to the current shape.
func DeductWalls(raw float64, sides Sides, walls Walls) float64 {
	p := raw
	for _, side := range AllSides {
		if !walls[side] {
			continue
		}
		if v, ok := sides.Get(side); ok {
			p -= v
		}
	}
	if p < 0 {
		return 0
	}
	return p
}
