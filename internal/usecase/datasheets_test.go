package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/balkon/internal/calc"
)

func TestSelectDatasheets(t *testing.T) {
	store := datasheetStore(lowFreeSheets...)
	got := SelectDatasheets(context.Background(), store, calc.HeightLow, calc.DrainEdgeFree)
	require.Len(t, got, 3)
	for i, a := range got {
		assert.Equal(t, lowFreeSheets[i], a.Filename)
		assert.Equal(t, "application/pdf", a.ContentType)
		assert.Equal(t, []byte("%PDF-1.4 "+lowFreeSheets[i]), a.Content)
	}
}

func TestSelectDatasheetsUndefinedVariant(t *testing.T) {
	store := datasheetStore(lowFreeSheets...)
	got := SelectDatasheets(context.Background(), store, calc.HeightHigh, calc.DrainEdgeFree)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, SelectDatasheets(context.Background(), store, "", ""))
	assert.Empty(t, SelectDatasheets(context.Background(), nil, calc.HeightLow, calc.DrainEdgeFree))
}

func TestSelectDatasheetsSkipsMissing(t *testing.T) {
	store := datasheetStore("profil-odkvapovy.pdf")
	got := SelectDatasheets(context.Background(), store, calc.HeightLow, calc.DrainEdgeFree)
	require.Len(t, got, 1)
	assert.Equal(t, "profil-odkvapovy.pdf", got[0].Filename)
}
