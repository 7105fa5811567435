package pdfgen

import (
	"bytes"
	"io/fs"
	"os"
	"testing"
	"testing/fstest"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/balkon/internal/calc"
)

const assetsDir = "../../assets"

type fsStore struct{ fsys fs.FS }

func (s fsStore) ReadFile(name string) ([]byte, error) { return fs.ReadFile(s.fsys, name) }

func repoAssets() fsStore { return fsStore{fsys: os.DirFS(assetsDir)} }

// fontsOnly holds the fonts and nothing else.
func fontsOnly(t *testing.T) fsStore {
	t.Helper()
	m := fstest.MapFS{}
	for _, name := range []string{FontRegular, FontBold} {
		b, err := os.ReadFile(assetsDir + "/" + name)
		require.NoError(t, err)
		m[name] = &fstest.MapFile{Data: b}
	}
	return fsStore{fsys: m}
}

func payloadFor(h calc.Height, d calc.Drain) *calc.Payload {
	s := calc.NewState(calc.CapabilitiesV2).
		WithShape(calc.ShapeL).
		WithSide(calc.SideA, 5).WithSide(calc.SideB, 3).WithSide(calc.SideC, 2).
		WithSide(calc.SideD, 1).WithSide(calc.SideE, 3).WithSide(calc.SideF, 4).
		WithWall(calc.SideF, true).
		WithHeight(h).WithDrain(d).
		WithTile(10, 60)
	p := calc.BuildPayload(s, calc.Meta{AppID: "balkon-test", Email: "jana@example.sk", CustomerLabel: "Jana Nováková"})
	return &p
}

// onePagePDF builds a blank single page PDF.
func onePagePDF(t *testing.T) []byte {
	t.Helper()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

var variants = []struct {
	name string
	h    calc.Height
	d    calc.Drain
}{
	{"low free", calc.HeightLow, calc.DrainEdgeFree},
	{"low gutter", calc.HeightLow, calc.DrainEdgeGutter},
	{"low drain", calc.HeightLow, calc.DrainFloor},
	{"medium free", calc.HeightMedium, calc.DrainEdgeFree},
	{"high gutter", calc.HeightHigh, calc.DrainEdgeGutter},
}
