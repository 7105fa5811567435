package calc

import "fmt"

// PageID identifies one content page of the generated document.
type PageID int

const (
	PageCover        PageID = 1
	PageGeometry     PageID = 2
	PageSystem       PageID = 3
	PageMaterials    PageID = 4
	PageLayers       PageID = 5
	PageFreeEdge     PageID = 6
	PageProfile      PageID = 9
	PageGutterDetail PageID = 10
	PageClosing      PageID = 11
)

var pageTitles = map[PageID]string{
	PageCover:        "Úvod",
	PageGeometry:     "Rozmery balkóna",
	PageSystem:       "Odporúčaný systém",
	PageMaterials:    "Výkaz materiálu",
	PageLayers:       "Skladba konštrukcie",
	PageFreeEdge:     "Detail voľnej hrany",
	PageProfile:      "Dlažba a ukončovací profil",
	PageGutterDetail: "Detail žľabu a odvodnenia",
	PageClosing:      "Záver a kontakty",
}

func (p PageID) Title() string { return pageTitles[p] }

// Template is the asset path of the page's HTML template.
func (p PageID) Template() string { return fmt.Sprintf("pages/page-%02d.html", int(p)) }

// PagePlan is the ordered page list of one document.
type PagePlan []PageID

var (
	planBase     = []PageID{PageCover, PageGeometry, PageSystem, PageMaterials, PageLayers}
	planTrailing = []PageID{PageProfile, PageClosing}
	planFallback = []PageID{PageCover, PageGeometry, PageMaterials, PageClosing}
)

// ResolvePagePlan is the only place that decides which pages a document has.
// LOW variants get the base pages, one drain-specific detail page and the
// trailing pages; every other combination gets the minimal plan.
func ResolvePagePlan(h Height, d Drain) PagePlan {
	if h == HeightLow && d.Valid() {
		plan := make(PagePlan, 0, len(planBase)+1+len(planTrailing))
		plan = append(plan, planBase...)
		if d == DrainEdgeFree {
			plan = append(plan, PageFreeEdge)
		} else {
			plan = append(plan, PageGutterDetail)
		}
		return append(plan, planTrailing...)
	}
	return append(PagePlan(nil), planFallback...)
}
