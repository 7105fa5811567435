package calc

const (
	sheetMembrane   = "hydroizolacna-folia.pdf"
	sheetDrainMat   = "drenazna-rohoz.pdf"
	sheetAdhesive   = "lepidlo-c2te-s1.pdf"
	sheetDripEdge   = "profil-odkvapovy.pdf"
	sheetClosing    = "profil-ukoncovaci.pdf"
	sheetGutter     = "profil-zlabovy.pdf"
	sheetFloorDrain = "podlahova-vpust.pdf"
	sheetBasePanel  = "podkladova-doska.pdf"
)

var datasheetBundles = map[systemKey][]string{
	{HeightLow, DrainEdgeFree}:      {sheetMembrane, sheetDripEdge, sheetAdhesive},
	{HeightLow, DrainEdgeGutter}:    {sheetMembrane, sheetGutter, sheetClosing, sheetAdhesive},
	{HeightLow, DrainFloor}:         {sheetMembrane, sheetFloorDrain, sheetClosing, sheetAdhesive},
	{HeightMedium, DrainEdgeFree}:   {sheetDrainMat, sheetDripEdge, sheetAdhesive},
	{HeightMedium, DrainEdgeGutter}: {sheetDrainMat, sheetGutter, sheetClosing, sheetAdhesive},
	{HeightMedium, DrainFloor}:      {sheetDrainMat, sheetFloorDrain, sheetClosing, sheetAdhesive},
	{HeightHigh, DrainEdgeGutter}:   {sheetBasePanel, sheetMembrane, sheetGutter, sheetClosing, sheetAdhesive},
	{HeightHigh, DrainFloor}:        {sheetBasePanel, sheetMembrane, sheetFloorDrain, sheetClosing, sheetAdhesive},
}

// DatasheetNames lists the manufacturer datasheets sent with the document of
// a variant. Variants without a bundle get an empty list.
func DatasheetNames(h Height, d Drain) []string {
	return append([]string{}, datasheetBundles[systemKey{h, d}]...)
}
