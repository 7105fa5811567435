package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSystem(t *testing.T) {
	_, ok := FindSystem(HeightHigh, DrainEdgeFree)
	assert.False(t, ok)

	ids := map[string]bool{}
	for _, h := range Heights() {
		for _, d := range Drains() {
			if h == HeightHigh && d == DrainEdgeFree {
				continue
			}
			s, ok := FindSystem(h, d)
			require.True(t, ok, "%s/%s", h, d)
			assert.NotEmpty(t, s.ID)
			assert.False(t, ids[s.ID], "duplicate id %s", s.ID)
			ids[s.ID] = true
			assert.Equal(t, h, s.Height)
			assert.Equal(t, d, s.Drain)
		}
	}
	assert.Len(t, ids, 8)
	assert.Len(t, Systems(), 8)
}

func TestFindSystemMalformedKeys(t *testing.T) {
	assert.NotPanics(t, func() {
		_, ok := FindSystem("", "")
		assert.False(t, ok)
		_, ok = FindSystem("low", "edge_free")
		assert.False(t, ok)
		_, ok = FindSystem(HeightLow, "")
		assert.False(t, ok)
	})
}

func TestFindSystemReturnsCopy(t *testing.T) {
	s, ok := FindSystem(HeightLow, DrainEdgeGutter)
	require.True(t, ok)
	require.NotNil(t, s.Gutter)
	s.Gutter.Name = "changed"

	again, _ := FindSystem(HeightLow, DrainEdgeGutter)
	assert.NotEqual(t, "changed", again.Gutter.Name)
}

func TestAvailableDrains(t *testing.T) {
	assert.NotContains(t, AvailableDrains(HeightHigh), DrainEdgeFree)
	assert.Contains(t, AvailableDrains(HeightLow), DrainEdgeFree)
	assert.Empty(t, AvailableDrains(""))
}

func TestComputeBOM(t *testing.T) {
	sys, ok := FindSystem(HeightLow, DrainEdgeFree)
	require.True(t, ok)

	bom := ComputeBOM(BOMInput{
		Area: ptr(10), Perimeter: ptr(12.5),
		Height: HeightLow, Drain: DrainEdgeFree, System: &sys,
	})
	require.True(t, bom.Ready())
	assert.Equal(t, 5, bom.ProfilePieces)
	assert.Equal(t, 2, bom.AdhesiveBags)
	assert.InDelta(t, 10, bom.MembraneArea, 1e-9)
	assert.NotEmpty(t, bom.Note)
}

func TestComputeBOMMinimumOne(t *testing.T) {
	sys, _ := FindSystem(HeightLow, DrainEdgeFree)
	bom := ComputeBOM(BOMInput{
		Area: ptr(0.3), Perimeter: ptr(0),
		Height: HeightLow, Drain: DrainEdgeFree, System: &sys,
	})
	require.True(t, bom.Ready())
	assert.Equal(t, 1, bom.ProfilePieces)
	assert.Equal(t, 1, bom.AdhesiveBags)
}

func TestComputeBOMDrainNotes(t *testing.T) {
	notes := map[string]bool{}
	for _, d := range Drains() {
		sys, ok := FindSystem(HeightLow, d)
		require.True(t, ok)
		bom := ComputeBOM(BOMInput{Area: ptr(4), Perimeter: ptr(8), Height: HeightLow, Drain: d, System: &sys})
		notes[bom.Note] = true
	}
	assert.Len(t, notes, 3)
}

func TestComputeBOMGuardPrecedence(t *testing.T) {
	sys, _ := FindSystem(HeightLow, DrainEdgeFree)
	cases := []struct {
		name string
		in   BOMInput
		want BOMReason
	}{
		{
			name: "unset variant beats geometry error",
			in:   BOMInput{Area: nil, Perimeter: ptr(18), GeometryError: "bad"},
			want: ReasonSelectVariant,
		},
		{
			name: "only drain unset",
			in:   BOMInput{Height: HeightLow, System: &sys, GeometryError: "bad"},
			want: ReasonSelectVariant,
		},
		{
			name: "no system beats geometry error",
			in:   BOMInput{Height: HeightHigh, Drain: DrainEdgeFree, GeometryError: "bad"},
			want: ReasonNoSystem,
		},
		{
			name: "geometry error beats incomplete",
			in:   BOMInput{Height: HeightLow, Drain: DrainEdgeFree, System: &sys, GeometryError: "bad", Perimeter: ptr(18)},
			want: ReasonFixGeometry,
		},
		{
			name: "incomplete",
			in:   BOMInput{Height: HeightLow, Drain: DrainEdgeFree, System: &sys, Area: ptr(4)},
			want: ReasonIncomplete,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bom := ComputeBOM(tc.in)
			assert.Equal(t, tc.want, bom.Reason)
			assert.False(t, bom.Ready())
			assert.NotEmpty(t, bom.Note)

			d := bom.Display()
			assert.Equal(t, Placeholder, d.Area)
			assert.Equal(t, Placeholder, d.ProfilePieces)
			assert.Equal(t, Placeholder, d.AdhesiveBags)
		})
	}
}

func TestBOMDisplayReady(t *testing.T) {
	sys, _ := FindSystem(HeightMedium, DrainFloor)
	d := ComputeBOM(BOMInput{Area: ptr(10), Perimeter: ptr(12.5), Height: HeightMedium, Drain: DrainFloor, System: &sys}).Display()
	assert.Equal(t, "10,00 m²", d.Area)
	assert.Equal(t, "12,50 m", d.Perimeter)
	assert.Equal(t, "5 ks", d.ProfilePieces)
}

func TestRecommendProfile(t *testing.T) {
	cases := []struct {
		mm     float64
		family string
		code   string
	}{
		{9, "BL", "A"},
		{9.4, "BL", "A"},
		{10, "BL", "B"},
		{12, "BL", "B"},
		{20, "BL", "C"},
		{25, "BL", "D"},
		{30, "BL", "E"},
	}
	for _, tc := range cases {
		p := RecommendProfile(tc.mm)
		assert.True(t, p.Specified)
		assert.Equal(t, tc.family, p.Family, "%v mm", tc.mm)
		assert.Equal(t, tc.code, p.Code, "%v mm", tc.mm)
	}

	rw := RecommendProfile(31)
	assert.Equal(t, "RW", rw.Family)
	assert.Equal(t, "15, 25, 30, 40, 55, 75, 95, 120, 150 mm", rw.RWOptionsText)

	for _, bad := range []float64{0, -3} {
		p := RecommendProfile(bad)
		assert.False(t, p.Specified)
		assert.NotEmpty(t, p.Note)
		assert.Equal(t, "neuvedené", p.Text())
	}
}
