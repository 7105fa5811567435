package calc

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// SchemaVersion of the payload produced by BuildPayload.
const SchemaVersion = 2

var ErrInvalidPayload = errors.New("invalid payload")

type Meta struct {
	AppID         string    `json:"app_id"`
	SchemaVersion int       `json:"schema_version"`
	Email         string    `json:"email"`
	CustomerLabel string    `json:"customer_label,omitempty"`
	DocumentCode  string    `json:"document_code,omitempty"`
	GeneratedAt   time.Time `json:"generated_at"`
}

type CalcBlock struct {
	Shape           Shape            `json:"shape"`
	ShapeLabel      string           `json:"shape_label"`
	Dims            map[Side]float64 `json:"dims"`
	Walls           map[Side]bool    `json:"walls,omitempty"`
	Area            *float64         `json:"area"`
	PerimeterRaw    *float64         `json:"perimeter_raw"`
	Perimeter       *float64         `json:"perimeter"`
	Height          Height           `json:"height"`
	HeightLabel     string           `json:"height_label"`
	HeightBand      string           `json:"height_band"`
	Drain           Drain            `json:"drain"`
	DrainLabel      string           `json:"drain_label"`
	SystemID        string           `json:"system_id"`
	SystemTitle     string           `json:"system_title"`
	TileThicknessMM float64          `json:"tile_thickness_mm,omitempty"`
	TileSizeCM      float64          `json:"tile_size_cm,omitempty"`
	ProfileText     string           `json:"profile_text,omitempty"`
	ProfileNote     string           `json:"profile_note,omitempty"`
}

// Payload is the snapshot handed from the calculator to the document pipeline.
type Payload struct {
	Meta Meta      `json:"meta"`
	Calc CalcBlock `json:"calc"`
	BOM  BOM       `json:"bom"`
}

// BuildPayload snapshots a calculator state.
func BuildPayload(s State, meta Meta) Payload {
	r := s.Derive()
	if meta.SchemaVersion == 0 {
		meta.SchemaVersion = SchemaVersion
	}
	c := CalcBlock{
		Shape:           r.Shape,
		ShapeLabel:      r.Shape.Label(),
		Dims:            map[Side]float64(r.Sides),
		Walls:           map[Side]bool(r.Walls),
		Area:            r.Geometry.Area,
		PerimeterRaw:    r.Geometry.Perimeter,
		Perimeter:       r.PerimeterDeducted,
		Height:          r.Height,
		HeightLabel:     r.Height.Label(),
		HeightBand:      r.Height.Band(),
		Drain:           r.Drain,
		DrainLabel:      r.Drain.Label(),
		TileThicknessMM: r.TileThicknessMM,
		TileSizeCM:      r.TileSizeCM,
	}
	if r.System != nil {
		c.SystemID = r.System.ID
		c.SystemTitle = r.System.Title
	}
	if r.Profile != nil {
		c.ProfileText = r.Profile.Text()
		c.ProfileNote = r.Profile.Note
	}
	return Payload{Meta: meta, Calc: c, BOM: r.BOM}
}

// State rebuilds the calculator state the payload describes.
func (p Payload) State() State {
	in := Input{
		Shape:           p.Calc.Shape,
		Sides:           map[Side]Length{},
		Walls:           p.Calc.Walls,
		Height:          p.Calc.Height,
		Drain:           p.Calc.Drain,
		TileThicknessMM: Length(p.Calc.TileThicknessMM),
		TileSizeCM:      Length(p.Calc.TileSizeCM),
	}
	for k, v := range p.Calc.Dims {
		in.Sides[k] = Length(v)
	}
	return StateFromInput(in, CapabilitiesV2)
}

// Recompute returns the payload with calc and BOM blocks derived again from
// its own inputs, so documents never carry client-side arithmetic.
func (p Payload) Recompute() Payload {
	return BuildPayload(p.State(), p.Meta)
}

// Validate reports whether the payload can produce a document.
func (p Payload) Validate() error {
	switch {
	case !p.Calc.Height.Valid() || !p.Calc.Drain.Valid():
		return fmt.Errorf("%w: height and drain are required", ErrInvalidPayload)
	case p.Calc.SystemID == "":
		return fmt.Errorf("%w: no system for %s/%s", ErrInvalidPayload, p.Calc.Height, p.Calc.Drain)
	case !p.BOM.Ready():
		return fmt.Errorf("%w: bill of materials not computed (%s)", ErrInvalidPayload, p.BOM.Reason)
	}
	return nil
}

// Variant names the height/drain combination, e.g. "low-free".
func (p Payload) Variant() string {
	if p.Calc.SystemID != "" {
		return p.Calc.SystemID
	}
	h := strings.ToLower(string(p.Calc.Height))
	d := strings.ToLower(strings.ReplaceAll(string(p.Calc.Drain), "_", "-"))
	switch {
	case h == "" && d == "":
		return "balkon"
	case d == "":
		return h
	case h == "":
		return d
	}
	return h + "-" + d
}

// Plan is the page plan of the payload's variant.
func (p Payload) Plan() PagePlan {
	return ResolvePagePlan(p.Calc.Height, p.Calc.Drain)
}
