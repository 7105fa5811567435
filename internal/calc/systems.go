package calc

// Component is one material line of a system.
type Component struct {
	Name      string `json:"name"`
	Spec      string `json:"spec"`
	Datasheet string `json:"datasheet,omitempty"`
}

// System is a construction build-up selected by height category and drain type.
type System struct {
	ID          string     `json:"id"`
	Height      Height     `json:"height"`
	Drain       Drain      `json:"drain"`
	Title       string     `json:"title"`
	Subtitle    string     `json:"subtitle"`
	Description string     `json:"description"`
	Membrane    Component  `json:"membrane"`
	EdgeProfile Component  `json:"edge_profile"`
	Gutter      *Component `json:"gutter_profile,omitempty"`
	FloorDrain  *Component `json:"floor_drain,omitempty"`
	Adhesive    Component  `json:"adhesive"`
	// BasePanels marks the elevated build-up on base panels.
	BasePanels bool     `json:"base_panels"`
	Notes      []string `json:"notes,omitempty"`
	Preview    string   `json:"preview_image"`
	Cutaway    string   `json:"cutaway_image"`

	// MembraneRatio is m² of membrane per m² of balcony.
	MembraneRatio float64 `json:"membrane_ratio"`
	// ProfilePieceM is the length of one edge profile piece.
	ProfilePieceM float64 `json:"profile_piece_m"`
	// AdhesiveM2PerBag is the area one bag of adhesive covers.
	AdhesiveM2PerBag float64 `json:"adhesive_m2_per_bag"`
}

type systemKey struct {
	h Height
	d Drain
}

var (
	membraneSheet = Component{Name: "Hydroizolačná fólia", Spec: "kombinovaná fólia s rohožou, rola 1 × 30 m", Datasheet: sheetMembrane}
	membraneDrain = Component{Name: "Drenážna rohož", Spec: "drenážna a oddeľovacia rohož 8 mm", Datasheet: sheetDrainMat}
	adhesiveFlex  = Component{Name: "Flexibilné lepidlo C2TE S1", Spec: "vrece 25 kg", Datasheet: sheetAdhesive}
	edgeDrip      = Component{Name: "Ukončovací profil s odkvapom", Spec: "hliník, dĺžka 2,5 m", Datasheet: sheetDripEdge}
	edgeClosing   = Component{Name: "Krycí ukončovací profil", Spec: "hliník, dĺžka 2,5 m", Datasheet: sheetClosing}
	gutterProfile = Component{Name: "Žľabový profil", Spec: "hliníkový žľab s čelom, dĺžka 2,5 m", Datasheet: sheetGutter}
	floorDrain    = Component{Name: "Podlahová vpusť", Spec: "balkónová vpusť DN 50 s manžetou", Datasheet: sheetFloorDrain}
)

var systemTable = map[systemKey]System{
	{HeightLow, DrainEdgeFree}: {
		ID: "low-free", Title: "Systém BALKON L1", Subtitle: "Tenkovrstvá skladba s voľnou hranou",
		Description: "Hydroizolačná fólia lepená priamo na spádovaný podklad, dlažba v lepidle, voda steká cez odkvapový profil.",
		Membrane:    membraneSheet, EdgeProfile: edgeDrip, Adhesive: adhesiveFlex,
		Notes: []string{"Podklad musí mať spád min. 1,5 % smerom k hrane."},
	},
	{HeightLow, DrainEdgeGutter}: {
		ID: "low-gutter", Title: "Systém BALKON L2", Subtitle: "Tenkovrstvá skladba so žľabom",
		Description: "Hydroizolačná fólia pod dlažbou, voda sa zachytáva v žľabovom profile na čele balkóna.",
		Membrane:    membraneSheet, EdgeProfile: edgeClosing, Gutter: &gutterProfile, Adhesive: adhesiveFlex,
		Notes: []string{"Žľab napojte na zvodové potrubie."},
	},
	{HeightLow, DrainFloor}: {
		ID: "low-drain", Title: "Systém BALKON L3", Subtitle: "Tenkovrstvá skladba s vpusťou",
		Description: "Hydroizolačná fólia s manžetou vpuste, spád podkladu smeruje k podlahovej vpusti.",
		Membrane:    membraneSheet, EdgeProfile: edgeClosing, FloorDrain: &floorDrain, Adhesive: adhesiveFlex,
	},
	{HeightMedium, DrainEdgeFree}: {
		ID: "medium-free", Title: "Systém TERASA M1", Subtitle: "Drenážna skladba s voľnou hranou",
		Description: "Drenážna rohož odvádza vodu spod dlažby, na hrane je odkvapový profil s drenážnymi otvormi.",
		Membrane:    membraneDrain, EdgeProfile: edgeDrip, Adhesive: adhesiveFlex,
	},
	{HeightMedium, DrainEdgeGutter}: {
		ID: "medium-gutter", Title: "Systém TERASA M2", Subtitle: "Drenážna skladba so žľabom",
		Description: "Drenážna rohož a žľabový profil zachytávajú povrchovú aj priesakovú vodu.",
		Membrane:    membraneDrain, EdgeProfile: edgeClosing, Gutter: &gutterProfile, Adhesive: adhesiveFlex,
	},
	{HeightMedium, DrainFloor}: {
		ID: "medium-drain", Title: "Systém TERASA M3", Subtitle: "Drenážna skladba s vpusťou",
		Description: "Drenážna rohož s dvojúrovňovou podlahovou vpusťou.",
		Membrane:    membraneDrain, EdgeProfile: edgeClosing, FloorDrain: &floorDrain, Adhesive: adhesiveFlex,
	},
	{HeightHigh, DrainEdgeGutter}: {
		ID: "high-gutter", Title: "Systém TERASA H2", Subtitle: "Zvýšená skladba na podkladových doskách so žľabom",
		Description: "Podkladové dosky vyrovnávajú výšku, na nich hydroizolácia a dlažba, voda odteká do žľabu.",
		Membrane:    membraneSheet, EdgeProfile: edgeClosing, Gutter: &gutterProfile, Adhesive: adhesiveFlex,
		BasePanels: true,
		Notes:      []string{"Podkladové dosky kotvite podľa technického listu výrobcu."},
	},
	{HeightHigh, DrainFloor}: {
		ID: "high-drain", Title: "Systém TERASA H3", Subtitle: "Zvýšená skladba na podkladových doskách s vpusťou",
		Description: "Podkladové dosky so zabudovanou vpusťou, hydroizolácia s manžetou a dlažba v lepidle.",
		Membrane:    membraneSheet, EdgeProfile: edgeClosing, FloorDrain: &floorDrain, Adhesive: adhesiveFlex,
		BasePanels: true,
	},
}

func init() {
	for k, s := range systemTable {
		s.Height, s.Drain = k.h, k.d
		s.Preview = "img/systems/" + s.ID + ".png"
		s.Cutaway = "img/cutaway/" + s.ID + ".png"
		s.MembraneRatio = 1.0
		s.ProfilePieceM = 2.5
		s.AdhesiveM2PerBag = 5
		systemTable[k] = s
	}
}

// FindSystem looks up the system for a height and drain. Unset, unknown and
// unsupported pairings report false.
func FindSystem(h Height, d Drain) (System, bool) {
	s, ok := systemTable[systemKey{h, d}]
	if !ok {
		return System{}, false
	}
	s.Notes = append([]string(nil), s.Notes...)
	if s.Gutter != nil {
		g := *s.Gutter
		s.Gutter = &g
	}
	if s.FloorDrain != nil {
		fd := *s.FloorDrain
		s.FloorDrain = &fd
	}
	return s, true
}

// Systems lists every defined system ordered by height, then drain.
func Systems() []System {
	out := make([]System, 0, len(systemTable))
	for _, h := range Heights() {
		for _, d := range Drains() {
			if s, ok := FindSystem(h, d); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

// SystemByID finds a system by its id.
func SystemByID(id string) (System, bool) {
	for _, s := range Systems() {
		if s.ID == id {
			return s, true
		}
	}
	return System{}, false
}
