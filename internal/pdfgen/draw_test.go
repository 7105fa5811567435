package pdfgen

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/balkon/internal/calc"
)

func TestDrawRendererPageCountMatchesPlan(t *testing.T) {
	r := NewDrawRenderer(repoAssets())
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			p := payloadFor(v.h, v.d)
			plan := calc.ResolvePagePlan(v.h, v.d)

			doc, err := r.Render(context.Background(), p)
			require.NoError(t, err)
			require.True(t, bytes.HasPrefix(doc.Bytes, []byte("%PDF")))
			assert.Equal(t, len(plan), doc.Pages)

			n, err := CountPages(doc.Bytes)
			require.NoError(t, err)
			assert.Equal(t, len(plan), n)
			assert.Equal(t, p.Variant(), doc.Variant)
			assert.Equal(t, p.Variant()+"-final.pdf", doc.FileName())
		})
	}
}

func TestDrawRendererStampsOnlyWhenAbsent(t *testing.T) {
	r := NewDrawRenderer(fontsOnly(t))

	p := payloadFor(calc.HeightLow, calc.DrainEdgeFree)
	before := p.Calc
	doc, err := r.Render(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p.Meta.DocumentCode, "BK-"))
	assert.Len(t, p.Meta.DocumentCode, 11)
	assert.Equal(t, p.Meta.DocumentCode, doc.Code)
	assert.False(t, p.Meta.GeneratedAt.IsZero())
	assert.Equal(t, before, p.Calc)

	p.Meta.DocumentCode = "BK-FIXED000"
	doc, err = r.Render(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "BK-FIXED000", doc.Code)
}

func TestDrawRendererWithoutImages(t *testing.T) {
	// Images are optional: placeholders are drawn and the page count holds.
	doc, err := NewDrawRenderer(fontsOnly(t)).Render(context.Background(), payloadFor(calc.HeightLow, calc.DrainFloor))
	require.NoError(t, err)
	n, err := CountPages(doc.Bytes)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}

func TestDrawRendererIncompleteGeometry(t *testing.T) {
	s := calc.NewState(calc.CapabilitiesV2).WithShape(calc.ShapeRectangle).WithSide(calc.SideA, 4).
		WithHeight(calc.HeightLow).WithDrain(calc.DrainEdgeGutter)
	p := calc.BuildPayload(s, calc.Meta{})

	doc, err := NewDrawRenderer(fontsOnly(t)).Render(context.Background(), &p)
	require.NoError(t, err)
	assert.Equal(t, 8, doc.Pages)
}

func TestDrawRendererMissingFont(t *testing.T) {
	_, err := NewDrawRenderer(fsStore{fsys: fstest.MapFS{}}).Render(context.Background(), payloadFor(calc.HeightLow, calc.DrainEdgeFree))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingFont)
	assert.Contains(t, err.Error(), FontRegular)
}

func TestDrawRendererNilPayload(t *testing.T) {
	_, err := NewDrawRenderer(fontsOnly(t)).Render(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoPayload)
}

func TestDrawRendererCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewDrawRenderer(fontsOnly(t)).Render(ctx, payloadFor(calc.HeightLow, calc.DrainEdgeFree))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewViewData(t *testing.T) {
	p := payloadFor(calc.HeightLow, calc.DrainEdgeGutter)
	plan := p.Plan()
	v := NewViewData(p, plan)

	assert.Equal(t, "Jana Nováková", v.Customer)
	assert.Equal(t, "18,00 m²", v.AreaText)
	assert.Equal(t, "14,00 m", v.PerimeterText)
	assert.Equal(t, "F", v.WallsText)
	assert.Equal(t, "hrúbka 10 mm, formát 60 cm", v.TileText)
	require.Len(t, v.Dims, 6)
	assert.Equal(t, DimRow{Side: "A", Value: "5,00 m"}, v.Dims[0])
	assert.True(t, v.HasSystem)
	assert.Equal(t, "img/cutaway/low-gutter.png", v.CutawayImage)
	assert.Len(t, v.Outline, 6)
	assert.NotEmpty(t, v.OutlinePoints)
	require.Len(t, v.Pages, len(plan))
	assert.Equal(t, 8, v.forPage(7).Page.Number)
	assert.Equal(t, calc.PageClosing, v.forPage(7).Page.ID)
}
