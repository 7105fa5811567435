package calc

// Capabilities enumerates the optional inputs a calculator front end offers.
// Inputs a front end does not offer are ignored when building state.
type Capabilities struct {
	Name          string `json:"name"`
	WallFlags     bool   `json:"wall_flags"`
	TileThickness bool   `json:"tile_thickness"`
	TileSize      bool   `json:"tile_size"`
	ProfileFamily bool   `json:"profile_family"`
}

var (
	CapabilitiesBasic = Capabilities{Name: "basic", WallFlags: true}
	CapabilitiesV2    = Capabilities{Name: "v2", WallFlags: true, TileThickness: true, TileSize: true, ProfileFamily: true}
)

// Input is the raw calculator form as sent by a client.
type Input struct {
	Shape           Shape           `json:"shape"`
	Sides           map[Side]Length `json:"sides"`
	Walls           map[Side]bool   `json:"walls"`
	Height          Height          `json:"height"`
	Drain           Drain           `json:"drain"`
	TileThicknessMM Length          `json:"tile_thickness_mm"`
	TileSizeCM      Length          `json:"tile_size_cm"`
}

// State is an immutable calculator snapshot. Every With* transition returns a
// new State and leaves the receiver untouched.
type State struct {
	caps   Capabilities
	shape  Shape
	sides  Sides
	walls  Walls
	height Height
	drain  Drain
	tileMM float64
	tileCM float64
}

func NewState(caps Capabilities) State {
	return State{caps: caps, sides: Sides{}, walls: Walls{}}
}

// StateFromInput replays a submitted form through the transitions so the
// same reset rules apply as for interactive edits.
func StateFromInput(in Input, caps Capabilities) State {
	s := NewState(caps).WithShape(in.Shape)
	for _, side := range AllSides {
		if v, ok := in.Sides[side]; ok {
			s = s.WithSide(side, float64(v))
		}
	}
	for side, on := range in.Walls {
		s = s.WithWall(side, on)
	}
	s = s.WithHeight(in.Height).WithDrain(in.Drain)
	return s.WithTile(float64(in.TileThicknessMM), float64(in.TileSizeCM))
}

func (s State) clone() State {
	s.sides = s.sides.clone()
	s.walls = s.walls.clone()
	return s
}

// WithShape switches the shape. Lengths and wall flags of sides the new shape
// does not have are dropped.
func (s State) WithShape(shape Shape) State {
	n := s.clone()
	n.shape = shape
	n.sides = n.sides.ForShape(shape)
	n.walls = n.walls.ForShape(shape)
	return n
}

// WithSide sets one side length. Unusable values and sides outside the shape
// clear the side.
func (s State) WithSide(side Side, v float64) State {
	n := s.clone()
	if !usable(v) || !n.shape.Has(side) {
		delete(n.sides, side)
		return n
	}
	n.sides[side] = v
	return n
}

func (s State) WithWall(side Side, on bool) State {
	n := s.clone()
	if !on || !n.caps.WallFlags || !n.shape.Has(side) {
		delete(n.walls, side)
		return n
	}
	n.walls[side] = true
	return n
}

// WithHeight selects the height category; a drain that is not offered for the
// new height is cleared.
func (s State) WithHeight(h Height) State {
	n := s.clone()
	if !h.Valid() {
		h = ""
	}
	n.height = h
	if n.drain != "" && !offered(h, n.drain) {
		n.drain = ""
	}
	return n
}

func (s State) WithDrain(d Drain) State {
	n := s.clone()
	if !d.Valid() || (n.height != "" && !offered(n.height, d)) {
		d = ""
	}
	n.drain = d
	return n
}

func (s State) WithTile(thicknessMM, sizeCM float64) State {
	n := s.clone()
	n.tileMM, n.tileCM = 0, 0
	if n.caps.TileThickness && usable(thicknessMM) {
		n.tileMM = thicknessMM
	}
	if n.caps.TileSize && usable(sizeCM) {
		n.tileCM = sizeCM
	}
	return n
}

func offered(h Height, d Drain) bool {
	if !h.Valid() {
		return d.Valid()
	}
	for _, x := range AvailableDrains(h) {
		if x == d {
			return true
		}
	}
	return false
}

func (s State) Shape() Shape { return s.shape }
func (s State) Height() Height { return s.height }
func (s State) Drain() Drain { return s.drain }
func (s State) Sides() Sides { return s.sides.clone() }
func (s State) Walls() Walls { return s.walls.clone() }
func (s State) Capabilities() Capabilities { return s.caps }

// Result is the derived projection of a State.
type Result struct {
	Shape             Shape                  `json:"shape"`
	Sides             Sides                  `json:"sides"`
	Walls             Walls                  `json:"walls"`
	Height            Height                 `json:"height,omitempty"`
	Drain             Drain                  `json:"drain,omitempty"`
	AvailableDrains   []Drain                `json:"available_drains"`
	Geometry          Geometry               `json:"geometry"`
	PerimeterDeducted *float64               `json:"perimeter_deducted"`
	System            *System                `json:"system,omitempty"`
	BOM               BOM                    `json:"bom"`
	BOMDisplay        BOMDisplay             `json:"bom_display"`
	Profile           *ProfileRecommendation `json:"profile,omitempty"`
	TileThicknessMM   float64                `json:"tile_thickness_mm,omitempty"`
	TileSizeCM        float64                `json:"tile_size_cm,omitempty"`
	Plan              PagePlan               `json:"page_plan,omitempty"`
}

// Derive recomputes every dependent value of the snapshot.
func (s State) Derive() Result {
	r := Result{
		Shape:           s.shape,
		Sides:           s.sides.clone(),
		Walls:           s.walls.clone(),
		Height:          s.height,
		Drain:           s.drain,
		AvailableDrains: AvailableDrains(s.height),
		TileThicknessMM: s.tileMM,
		TileSizeCM:      s.tileCM,
	}
	r.Geometry = ComputeAreaPerimeter(s.shape, s.sides)
	if r.Geometry.Perimeter != nil {
		r.PerimeterDeducted = ptr(DeductWalls(*r.Geometry.Perimeter, s.sides, s.walls))
	}
	if sys, ok := FindSystem(s.height, s.drain); ok {
		r.System = &sys
	}
	r.BOM = ComputeBOM(BOMInput{
		Area:          r.Geometry.Area,
		Perimeter:     r.PerimeterDeducted,
		Height:        s.height,
		Drain:         s.drain,
		System:        r.System,
		GeometryError: r.Geometry.Error,
	})
	r.BOMDisplay = r.BOM.Display()
	if s.caps.ProfileFamily {
		p := RecommendProfile(s.tileMM)
		r.Profile = &p
	}
	if s.height.Valid() && s.drain.Valid() {
		r.Plan = ResolvePagePlan(s.height, s.drain)
	}
	return r
}
