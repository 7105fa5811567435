package calc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RWOptionsMM are the sizes the RW family comes in. RW is chosen by the
// overlap on the concrete slab, not by tile thickness.
var RWOptionsMM = []int{15, 25, 30, 40, 55, 75, 95, 120, 150}

// ProfileRecommendation is advisory only; it never blocks other results.
type ProfileRecommendation struct {
	Specified     bool    `json:"specified"`
	ThicknessMM   float64 `json:"thickness_mm,omitempty"`
	Family        string  `json:"family,omitempty"`
	Code          string  `json:"code,omitempty"`
	Note          string  `json:"note"`
	RWOptionsText string  `json:"rw_options_text,omitempty"`
}

type profileBand struct {
	maxMM float64
	code  string
}

var profileBands = []profileBand{
	{9, "A"},
	{12, "B"},
	{20, "C"},
	{25, "D"},
	{30, "E"},
}

const edgeFamily = "BL"

// ProfileCode is one size of the BL edge profile family.
type ProfileCode struct {
	Family string
	Code   string
	MaxMM  float64
}

// ProfileCodes lists the BL sizes, smallest first.
func ProfileCodes() []ProfileCode {
	out := make([]ProfileCode, len(profileBands))
	for i, b := range profileBands {
		out[i] = ProfileCode{Family: edgeFamily, Code: b.code, MaxMM: b.maxMM}
	}
	return out
}

// RecommendProfile maps tile thickness to an edge profile. Thickness is
// rounded to whole millimeters first; band upper bounds are inclusive.
func RecommendProfile(thicknessMM float64) ProfileRecommendation {
	if math.IsNaN(thicknessMM) || math.IsInf(thicknessMM, 0) || thicknessMM <= 0 {
		return ProfileRecommendation{
			Note: "Hrúbka dlažby nie je zadaná. Zadajte hrúbku v mm a odporučíme vhodný profil.",
		}
	}
	mm := math.Round(thicknessMM)
	for _, b := range profileBands {
		if mm <= b.maxMM {
			return ProfileRecommendation{
				Specified:   true,
				ThicknessMM: thicknessMM,
				Family:      edgeFamily,
				Code:        b.code,
				Note:        fmt.Sprintf("Profil %s %s pre dlažbu hrúbky do %.0f mm.", edgeFamily, b.code, b.maxMM),
			}
		}
	}
	opts := make([]string, len(RWOptionsMM))
	for i, o := range RWOptionsMM {
		opts[i] = strconv.Itoa(o)
	}
	return ProfileRecommendation{
		Specified:     true,
		ThicknessMM:   thicknessMM,
		Family:        "RW",
		Note:          "Pre dlažbu hrúbky nad 30 mm použite profil RW. Veľkosť sa volí podľa presahu cez betón, nie podľa hrúbky dlažby.",
		RWOptionsText: strings.Join(opts, ", ") + " mm",
	}
}

// Text is the one-line form printed in the document.
func (p ProfileRecommendation) Text() string {
	switch {
	case !p.Specified:
		return "neuvedené"
	case p.Family == "RW":
		return "RW (" + p.RWOptionsText + ")"
	default:
		return p.Family + " " + p.Code
	}
}
