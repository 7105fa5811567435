package calc

import (
	"fmt"
	"math"
	"strings"
)

// Placeholder is shown for every BOM number that cannot be computed yet.
const Placeholder = "–"

type BOMReason string

const (
	ReasonSelectVariant BOMReason = "select_variant"
	ReasonNoSystem      BOMReason = "no_system"
	ReasonFixGeometry   BOMReason = "fix_geometry"
	ReasonIncomplete    BOMReason = "incomplete"
	ReasonOK            BOMReason = "ok"
)

var reasonNotes = map[BOMReason]string{
	ReasonSelectVariant: "Najprv vyberte konštrukčnú výšku a spôsob odtoku.",
	ReasonNoSystem:      "Pre túto kombináciu nie je definovaný systém.",
	ReasonFixGeometry:   "Najprv opravte rozmery.",
	ReasonIncomplete:    "Rozmery nie sú kompletné.",
}

var drainNotes = map[Drain]string{
	DrainEdgeFree:   "Voda steká cez odkvapový profil po celej dĺžke voľných hrán.",
	DrainEdgeGutter: "Voda sa zachytáva v žľabovom profile, počet kusov žľabu zodpovedá dĺžke hrán bez stien.",
	DrainFloor:      "Voda odteká do podlahovej vpuste, po obvode sa osádza krycí ukončovací profil.",
}

// BOMInput gathers what ComputeBOM needs. System is nil when no system exists.
type BOMInput struct {
	Area          *float64
	Perimeter     *float64
	Height        Height
	Drain         Drain
	System        *System
	GeometryError string
}

// BOM is the bill of materials. Numbers are meaningful only when Reason is ReasonOK.
type BOM struct {
	Reason        BOMReason `json:"reason"`
	Note          string    `json:"note"`
	Area          float64   `json:"area"`
	MembraneArea  float64   `json:"membrane_area"`
	Perimeter     float64   `json:"perimeter"`
	ProfilePieces int       `json:"profile_pieces"`
	AdhesiveBags  int       `json:"adhesive_bags"`
}

func (b BOM) Ready() bool { return b.Reason == ReasonOK }

// ComputeBOM evaluates the guards in a fixed order; the first failing guard
// decides the reason shown to the user.
func ComputeBOM(in BOMInput) BOM {
	switch {
	case !in.Height.Valid() || !in.Drain.Valid():
		return pending(ReasonSelectVariant)
	case in.System == nil:
		return pending(ReasonNoSystem)
	case in.GeometryError != "":
		return pending(ReasonFixGeometry)
	case in.Area == nil || in.Perimeter == nil:
		return pending(ReasonIncomplete)
	}

	sys := in.System
	area, perim := *in.Area, *in.Perimeter
	return BOM{
		Reason:        ReasonOK,
		Note:          drainNotes[in.Drain],
		Area:          area,
		MembraneArea:  area * orDefault(sys.MembraneRatio, 1),
		Perimeter:     perim,
		ProfilePieces: atLeastOne(perim / orDefault(sys.ProfilePieceM, 2.5)),
		AdhesiveBags:  atLeastOne(area / orDefault(sys.AdhesiveM2PerBag, 5)),
	}
}

func pending(r BOMReason) BOM {
	return BOM{Reason: r, Note: reasonNotes[r]}
}

func atLeastOne(v float64) int {
	n := int(math.Ceil(v))
	if n < 1 {
		return 1
	}
	return n
}

func orDefault(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}

// BOMDisplay is the BOM formatted for people, with placeholders while pending.
type BOMDisplay struct {
	Area          string `json:"area"`
	MembraneArea  string `json:"membrane_area"`
	Perimeter     string `json:"perimeter"`
	ProfilePieces string `json:"profile_pieces"`
	AdhesiveBags  string `json:"adhesive_bags"`
	Note          string `json:"note"`
}

func (b BOM) Display() BOMDisplay {
	if !b.Ready() {
		return BOMDisplay{
			Area: Placeholder, MembraneArea: Placeholder, Perimeter: Placeholder,
			ProfilePieces: Placeholder, AdhesiveBags: Placeholder, Note: b.Note,
		}
	}
	return BOMDisplay{
		Area:          FormatNumber(b.Area) + " m²",
		MembraneArea:  FormatNumber(b.MembraneArea) + " m²",
		Perimeter:     FormatNumber(b.Perimeter) + " m",
		ProfilePieces: fmt.Sprintf("%d ks", b.ProfilePieces),
		AdhesiveBags:  fmt.Sprintf("%d vriec", b.AdhesiveBags),
		Note:          b.Note,
	}
}

// FormatNumber prints two decimals with a decimal comma.
func FormatNumber(v float64) string {
	return strings.Replace(fmt.Sprintf("%.2f", v), ".", ",", 1)
}
