package usecase

import "github.com/phenrril/balkon/internal/calc"

// CalcUC exposes the calculator to transports.
type CalcUC struct {
	Capabilities calc.Capabilities
}

func (uc *CalcUC) caps() calc.Capabilities {
	if uc.Capabilities.Name == "" {
		return calc.CapabilitiesV2
	}
	return uc.Capabilities
}

// Evaluate replays a submitted form and returns every derived value.
func (uc *CalcUC) Evaluate(in calc.Input) calc.Result {
	return calc.StateFromInput(in, uc.caps()).Derive()
}

// Payload builds the document payload of a submitted form.
func (uc *CalcUC) Payload(in calc.Input, meta calc.Meta) calc.Payload {
	return calc.BuildPayload(calc.StateFromInput(in, uc.caps()), meta)
}

type ShapeOption struct {
	ID    calc.Shape  `json:"id"`
	Label string      `json:"label"`
	Sides []calc.Side `json:"sides"`
}

type HeightOption struct {
	ID     calc.Height   `json:"id"`
	Label  string        `json:"label"`
	Band   string        `json:"band"`
	Drains []DrainOption `json:"drains"`
}

type DrainOption struct {
	ID    calc.Drain `json:"id"`
	Label string     `json:"label"`
}

type Options struct {
	Shapes       []ShapeOption     `json:"shapes"`
	Heights      []HeightOption    `json:"heights"`
	Systems      []calc.System     `json:"systems"`
	Capabilities calc.Capabilities `json:"capabilities"`
}

// Options lists what a front end may offer, drains filtered per height.
func (uc *CalcUC) Options() Options {
	o := Options{Systems: calc.Systems(), Capabilities: uc.caps()}
	for _, s := range calc.Shapes() {
		o.Shapes = append(o.Shapes, ShapeOption{ID: s, Label: s.Label(), Sides: s.Sides()})
	}
	for _, h := range calc.Heights() {
		ho := HeightOption{ID: h, Label: h.Label(), Band: h.Band()}
		for _, d := range calc.AvailableDrains(h) {
			ho.Drains = append(ho.Drains, DrainOption{ID: d, Label: d.Label()})
		}
		o.Heights = append(o.Heights, ho)
	}
	return o
}
