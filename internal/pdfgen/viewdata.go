package pdfgen

import (
	"fmt"
	"strings"

	"github.com/phenrril/balkon/internal/calc"
)

// DimRow is one side of the dimensions table.
type DimRow struct {
	Side  string
	Value string
	Wall  bool
}

// PageRef identifies a page inside the rendered document.
type PageRef struct {
	ID     calc.PageID
	Number int
	Title  string
}

// ViewData is what page templates and draw functions see. Every value is
// already formatted for print.
type ViewData struct {
	Customer     string
	Email        string
	DocumentCode string
	Date         string

	ShapeLabel    string
	Dims          []DimRow
	WallsText     string
	AreaText      string
	PerimeterRaw  string
	PerimeterText string
	// Outline is empty until the dimensions describe a closed shape.
	Outline       []calc.Edge
	OutlinePoints string

	HeightLabel string
	HeightBand  string
	DrainLabel  string

	System       calc.System
	HasSystem    bool
	CutawayImage string
	PreviewImage string

	BOM         calc.BOMDisplay
	ProfileText string
	ProfileNote string
	TileText    string

	Pages []PageRef
	Page  PageRef
}

const noValue = "–"

// NewViewData formats a payload for printing.
func NewViewData(p *calc.Payload, plan calc.PagePlan) ViewData {
	c := p.Calc
	v := ViewData{
		Customer:      p.Meta.CustomerLabel,
		Email:         p.Meta.Email,
		DocumentCode:  p.Meta.DocumentCode,
		ShapeLabel:    orDash(c.ShapeLabel),
		AreaText:      meters(c.Area, " m²"),
		PerimeterRaw:  meters(c.PerimeterRaw, " m"),
		PerimeterText: meters(c.Perimeter, " m"),
		HeightLabel:   orDash(c.HeightLabel),
		HeightBand:    c.HeightBand,
		DrainLabel:    orDash(c.DrainLabel),
		BOM:           p.BOM.Display(),
		ProfileText:   orDash(c.ProfileText),
		ProfileNote:   c.ProfileNote,
	}
	if !p.Meta.GeneratedAt.IsZero() {
		v.Date = p.Meta.GeneratedAt.Format("02.01.2006")
	}

	var walls []string
	for _, side := range c.Shape.Sides() {
		row := DimRow{Side: string(side), Value: noValue, Wall: c.Walls[side]}
		if x, ok := calc.Sides(c.Dims).Get(side); ok {
			row.Value = calc.FormatNumber(x) + " m"
		}
		if row.Wall {
			walls = append(walls, string(side))
		}
		v.Dims = append(v.Dims, row)
	}
	v.WallsText = "žiadne"
	if len(walls) > 0 {
		v.WallsText = strings.Join(walls, ", ")
	}

	if edges, ok := calc.Outline(c.Shape, calc.Sides(c.Dims), calc.Walls(c.Walls)); ok {
		v.Outline = edges
		v.OutlinePoints = svgPoints(edges, 200, 150)
	}

	if sys, ok := calc.SystemByID(c.SystemID); ok {
		v.System, v.HasSystem = sys, true
		v.CutawayImage, v.PreviewImage = sys.Cutaway, sys.Preview
	}

	var tile []string
	if c.TileThicknessMM > 0 {
		tile = append(tile, "hrúbka "+trimZeros(c.TileThicknessMM)+" mm")
	}
	if c.TileSizeCM > 0 {
		tile = append(tile, "formát "+trimZeros(c.TileSizeCM)+" cm")
	}
	v.TileText = noValue
	if len(tile) > 0 {
		v.TileText = strings.Join(tile, ", ")
	}

	for i, id := range plan {
		v.Pages = append(v.Pages, PageRef{ID: id, Number: i + 1, Title: id.Title()})
	}
	return v
}

// forPage returns a copy positioned on page i of the plan.
func (v ViewData) forPage(i int) ViewData {
	v.Page = v.Pages[i]
	return v
}

// svgPoints scales the outline into a w×h viewBox with a small margin.
func svgPoints(edges []calc.Edge, w, h float64) string {
	bw, bh := calc.Bounds(edges)
	const pad = 10.0
	scale := min((w-2*pad)/bw, (h-2*pad)/bh)
	pts := make([]string, len(edges))
	for i, e := range edges {
		pts[i] = fmt.Sprintf("%.1f,%.1f", pad+e.From.X*scale, pad+e.From.Y*scale)
	}
	return strings.Join(pts, " ")
}

func meters(x *float64, unit string) string {
	if x == nil {
		return noValue
	}
	return calc.FormatNumber(*x) + unit
}

func orDash(s string) string {
	if s == "" {
		return noValue
	}
	return s
}

func trimZeros(x float64) string {
	s := calc.FormatNumber(x)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ",")
}
