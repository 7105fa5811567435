package usecase

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"

	"github.com/phenrril/balkon/internal/calc"
)

var ErrNoOutline = errors.New("outline needs complete and valid dimensions")

const (
	sheetMaterials = "Materiál"
	sheetDims      = "Rozmery"
)

type bomLine struct {
	name, spec string
	qty        any
	unit       string
}

func bomLines(p calc.Payload, sys calc.System) []bomLine {
	b := p.BOM
	lines := []bomLine{
		{sys.Membrane.Name, sys.Membrane.Spec, round2(b.MembraneArea), "m²"},
		{sys.EdgeProfile.Name, sys.EdgeProfile.Spec, b.ProfilePieces, "ks"},
	}
	if sys.Gutter != nil {
		lines = append(lines, bomLine{sys.Gutter.Name, sys.Gutter.Spec, b.ProfilePieces, "ks"})
	}
	if sys.FloorDrain != nil {
		lines = append(lines, bomLine{sys.FloorDrain.Name, sys.FloorDrain.Spec, 1, "ks"})
	}
	return append(lines, bomLine{sys.Adhesive.Name, sys.Adhesive.Spec, b.AdhesiveBags, "vrece"})
}

// BOMWorkbook exports the bill of materials of a payload as an xlsx file.
// The payload is recomputed first.
func BOMWorkbook(p calc.Payload) ([]byte, error) {
	p = p.Recompute()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	sys, ok := calc.SystemByID(p.Calc.SystemID)
	if !ok {
		return nil, fmt.Errorf("%w: unknown system %s", calc.ErrInvalidPayload, p.Calc.SystemID)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), sheetMaterials); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	rows := [][]any{
		{sys.Title, sys.Subtitle},
		{"Plocha", round2(p.BOM.Area), "m²"},
		{"Obvod bez stien", round2(p.BOM.Perimeter), "m"},
		{},
		{"Položka", "Špecifikácia", "Množstvo", "Jednotka"},
	}
	for _, l := range bomLines(p, sys) {
		rows = append(rows, []any{l.name, l.spec, l.qty, l.unit})
	}
	rows = append(rows, []any{}, []any{p.BOM.Note})
	if err := writeRows(f, sheetMaterials, rows); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetMaterials, "A1", "A1", bold); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetMaterials, "A5", "D5", bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetMaterials, "A", "B", 42); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(sheetDims); err != nil {
		return nil, err
	}
	dims := [][]any{{"Strana", "Dĺžka (m)", "Pri stene"}}
	for _, s := range p.Calc.Shape.Sides() {
		v, ok := calc.Sides(p.Calc.Dims).Get(s)
		if !ok {
			continue
		}
		wall := ""
		if p.Calc.Walls[s] {
			wall = "áno"
		}
		dims = append(dims, []any{string(s), round2(v), wall})
	}
	if err := writeRows(f, sheetDims, dims); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetDims, "A1", "C1", bold); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

const (
	layerOutline = "OBRYS"
	layerWall    = "STENA"
	layerLabels  = "POPIS"
	labelHeight  = 0.15
)

// OutlineDXF exports the balcony outline in metres. Wall edges go on their
// own layer; side labels sit at the edge midpoints.
func OutlineDXF(p calc.Payload) ([]byte, error) {
	edges, ok := calc.Outline(p.Calc.Shape, calc.Sides(p.Calc.Dims), calc.Walls(p.Calc.Walls))
	if !ok {
		return nil, ErrNoOutline
	}
	d := dxf.NewDrawing()
	if _, err := d.AddLayer(layerOutline, dxf.DefaultColor, dxf.DefaultLineType, false); err != nil {
		return nil, err
	}
	if _, err := d.AddLayer(layerWall, color.Red, dxf.DefaultLineType, false); err != nil {
		return nil, err
	}
	if _, err := d.AddLayer(layerLabels, dxf.DefaultColor, dxf.DefaultLineType, false); err != nil {
		return nil, err
	}

	// DXF's y axis points up; the outline's points down.
	_, h := calc.Bounds(edges)
	flip := func(pt calc.Point) (float64, float64) { return pt.X, h - pt.Y }

	for _, e := range edges {
		layer := layerOutline
		if e.Wall {
			layer = layerWall
		}
		if err := d.ChangeLayer(layer); err != nil {
			return nil, err
		}
		x1, y1 := flip(e.From)
		x2, y2 := flip(e.To)
		if _, err := d.Line(x1, y1, 0, x2, y2, 0); err != nil {
			return nil, err
		}
		if e.Side == "" {
			continue
		}
		if err := d.ChangeLayer(layerLabels); err != nil {
			return nil, err
		}
		if _, err := d.Text(string(e.Side), (x1+x2)/2, (y1+y2)/2, 0, labelHeight); err != nil {
			return nil, err
		}
	}

	dir, err := os.MkdirTemp("", "balkon-dxf")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, p.Variant()+".dxf")
	if err := d.SaveAs(path); err != nil {
		return nil, fmt.Errorf("save dxf: %w", err)
	}
	return os.ReadFile(path)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
