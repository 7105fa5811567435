package calc

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeAreaPerimeterSquare(t *testing.T) {
	for _, a := range []float64{0.5, 1, 2.75, 10} {
		g := ComputeAreaPerimeter(ShapeSquare, Sides{SideA: a})
		require.NotNil(t, g.Area)
		require.NotNil(t, g.Perimeter)
		assert.InDelta(t, a*a, *g.Area, 1e-9)
		assert.InDelta(t, 4*a, *g.Perimeter, 1e-9)
		assert.Empty(t, g.Error)
	}
}

func TestComputeAreaPerimeterRectangle(t *testing.T) {
	cases := []struct{ a, b float64 }{{1, 2}, {3.2, 1.4}, {0.9, 7}}
	for _, tc := range cases {
		g := ComputeAreaPerimeter(ShapeRectangle, Sides{SideA: tc.a, SideB: tc.b})
		require.True(t, g.Complete())
		assert.InDelta(t, tc.a*tc.b, *g.Area, 1e-9)
		assert.InDelta(t, 2*(tc.a+tc.b), *g.Perimeter, 1e-9)
	}
}

func TestComputeAreaPerimeterLShape(t *testing.T) {
	sides := Sides{SideA: 5, SideB: 3, SideC: 2, SideD: 1, SideE: 3, SideF: 4}

	g := ComputeAreaPerimeter(ShapeL, sides)
	require.True(t, g.Complete())
	assert.InDelta(t, 18, *g.Area, 1e-9)
	assert.InDelta(t, 18, *g.Perimeter, 1e-9)
	assert.Empty(t, g.Error)

	t.Run("within tolerance", func(t *testing.T) {
		s := sides.clone()
		s[SideE] = 3.015
		g := ComputeAreaPerimeter(ShapeL, s)
		assert.True(t, g.Complete())
	})

	t.Run("E off", func(t *testing.T) {
		s := sides.clone()
		s[SideE] = 3.5
		g := ComputeAreaPerimeter(ShapeL, s)
		assert.Nil(t, g.Area)
		assert.NotEmpty(t, g.Error)
		require.NotNil(t, g.Perimeter)
		assert.InDelta(t, 18.5, *g.Perimeter, 1e-9)
	})

	t.Run("B off", func(t *testing.T) {
		s := sides.clone()
		s[SideB] = 2
		g := ComputeAreaPerimeter(ShapeL, s)
		assert.Nil(t, g.Area)
		assert.Contains(t, g.Error, "B")
	})

	t.Run("C not shorter than A", func(t *testing.T) {
		s := sides.clone()
		s[SideC] = 5
		g := ComputeAreaPerimeter(ShapeL, s)
		assert.Nil(t, g.Area)
		assert.NotEmpty(t, g.Error)
	})
}

func TestComputeAreaPerimeterIncomplete(t *testing.T) {
	cases := map[string]struct {
		shape Shape
		sides Sides
	}{
		"square empty":       {ShapeSquare, Sides{}},
		"rectangle no B":     {ShapeRectangle, Sides{SideA: 2}},
		"rectangle B zero":   {ShapeRectangle, Sides{SideA: 2, SideB: 0}},
		"rectangle negative": {ShapeRectangle, Sides{SideA: 2, SideB: -1}},
		"rectangle NaN":      {ShapeRectangle, Sides{SideA: 2, SideB: math.NaN()}},
		"l missing F":        {ShapeL, Sides{SideA: 5, SideB: 3, SideC: 2, SideD: 1, SideE: 3}},
		"unknown shape":      {Shape("circle"), Sides{SideA: 2}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			g := ComputeAreaPerimeter(tc.shape, tc.sides)
			assert.Nil(t, g.Area)
			assert.Nil(t, g.Perimeter)
			assert.Empty(t, g.Error)
		})
	}
}

func TestComputeAreaPerimeterIgnoresInactiveSides(t *testing.T) {
	g := ComputeAreaPerimeter(ShapeSquare, Sides{SideA: 2, SideB: 99, SideF: 3})
	require.True(t, g.Complete())
	assert.InDelta(t, 4, *g.Area, 1e-9)
	assert.InDelta(t, 8, *g.Perimeter, 1e-9)
}

func TestDeductWalls(t *testing.T) {
	sides := Sides{SideA: 5, SideB: 3, SideC: 2, SideD: 1, SideE: 3, SideF: 4}

	assert.InDelta(t, 18, DeductWalls(18, sides, nil), 1e-9)
	assert.InDelta(t, 9, DeductWalls(18, sides, Walls{SideA: true, SideF: true}), 1e-9)
	assert.InDelta(t, 18, DeductWalls(18, sides, Walls{SideA: false}), 1e-9)

	// Walls summing to 20 on a perimeter of 18 clamp at zero.
	long := Sides{SideA: 10, SideB: 10}
	assert.Equal(t, 0.0, DeductWalls(18, long, Walls{SideA: true, SideB: true}))

	// Unknown lengths do not contribute.
	assert.InDelta(t, 18, DeductWalls(18, Sides{}, Walls{SideA: true}), 1e-9)
}

func TestLengthUnmarshal(t *testing.T) {
	var in struct {
		Sides map[Side]Length `json:"sides"`
	}
	raw := `{"sides":{"A":"2,5","B":3,"C":"abc","D":-1,"E":null,"F":"0"}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &in))

	assert.Equal(t, Length(2.5), in.Sides[SideA])
	assert.Equal(t, Length(3), in.Sides[SideB])
	assert.Equal(t, Length(0), in.Sides[SideC])
	assert.Equal(t, Length(0), in.Sides[SideD])
	assert.Equal(t, Length(0), in.Sides[SideE])
	assert.Equal(t, Length(0), in.Sides[SideF])
}

func TestOutline(t *testing.T) {
	sides := Sides{SideA: 5, SideB: 3, SideC: 2, SideD: 1, SideE: 3, SideF: 4}
	edges, ok := Outline(ShapeL, sides, Walls{SideF: true})
	require.True(t, ok)
	require.Len(t, edges, 6)

	var perimeter float64
	for i, e := range edges {
		assert.Equal(t, AllSides[i], e.Side)
		assert.Equal(t, e.To, edges[(i+1)%len(edges)].From)
		perimeter += math.Hypot(e.To.X-e.From.X, e.To.Y-e.From.Y)
	}
	assert.InDelta(t, 18, perimeter, 1e-9)
	assert.True(t, edges[5].Wall)
	assert.False(t, edges[0].Wall)

	w, h := Bounds(edges)
	assert.InDelta(t, 5, w, 1e-9)
	assert.InDelta(t, 4, h, 1e-9)

	_, ok = Outline(ShapeL, Sides{SideA: 5}, nil)
	assert.False(t, ok)

	rect, ok := Outline(ShapeRectangle, Sides{SideA: 4, SideB: 2}, nil)
	require.True(t, ok)
	assert.Equal(t, SideB, rect[1].Side)
	assert.Equal(t, Side(""), rect[2].Side)
}
