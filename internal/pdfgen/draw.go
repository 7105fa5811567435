package pdfgen

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"path"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"

	"github.com/phenrril/balkon/internal/calc"
)

const (
	FontRegular = "fonts/DejaVuSans.ttf"
	FontBold    = "fonts/DejaVuSans-Bold.ttf"

	fontFamily = "DejaVu"

	pageW    = 210.0
	pageH    = 297.0
	marginX  = 18.0
	marginY  = 16.0
	contentW = pageW - 2*marginX
	bodyTop  = 40.0
)

// DrawRenderer draws the document with fpdf. It needs only the two font
// files from the asset store; images are optional.
type DrawRenderer struct {
	assets AssetStore
	now    func() time.Time
}

func NewDrawRenderer(assets AssetStore) *DrawRenderer {
	return &DrawRenderer{assets: assets, now: time.Now}
}

type drawFunc func(d *drawing, v ViewData)

var drawPages = map[calc.PageID]drawFunc{
	calc.PageCover:        drawCover,
	calc.PageGeometry:     drawGeometry,
	calc.PageSystem:       drawSystem,
	calc.PageMaterials:    drawMaterials,
	calc.PageLayers:       drawLayers,
	calc.PageFreeEdge:     drawFreeEdge,
	calc.PageProfile:      drawProfile,
	calc.PageGutterDetail: drawGutterDetail,
	calc.PageClosing:      drawClosing,
}

func (r *DrawRenderer) Render(ctx context.Context, p *calc.Payload) (Document, error) {
	plan, err := planOf(p)
	if err != nil {
		return Document{}, err
	}
	for _, id := range plan {
		if _, ok := drawPages[id]; !ok {
			return Document{}, missingAsset(ErrMissingPageAsset, fmt.Sprintf("page %d", id), nil)
		}
	}
	regular, err := r.assets.ReadFile(FontRegular)
	if err != nil {
		return Document{}, missingAsset(ErrMissingFont, FontRegular, err)
	}
	bold, err := r.assets.ReadFile(FontBold)
	if err != nil {
		return Document{}, missingAsset(ErrMissingFont, FontBold, err)
	}

	stamp(p, r.now())
	v := NewViewData(p, plan)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.AddUTF8FontFromBytes(fontFamily, "", regular)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", bold)
	pdf.SetTitle("Cenová ponuka "+v.DocumentCode, true)
	pdf.SetCreator("balkon", true)
	pdf.SetCreationDate(p.Meta.GeneratedAt)

	d := &drawing{pdf: pdf, assets: r.assets, variant: p.Variant()}
	for i, id := range plan {
		if err := ctx.Err(); err != nil {
			return Document{}, err
		}
		pv := v.forPage(i)
		pdf.AddPage()
		d.header(pv)
		drawPages[id](d, pv)
		d.footer(pv)
	}
	pages := pdf.PageCount()

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return Document{}, errors.Wrapf(ErrRender, "fpdf output: %v", err)
	}
	return Document{Bytes: buf.Bytes(), Pages: pages, Variant: p.Variant(), Code: p.Meta.DocumentCode}, nil
}

type drawing struct {
	pdf     *fpdf.Fpdf
	assets  AssetStore
	variant string
	images  map[string]bool
}

func (d *drawing) font(style string, size float64) {
	d.pdf.SetFont(fontFamily, style, size)
}

func (d *drawing) header(v ViewData) {
	pdf := d.pdf
	pdf.SetFillColor(0, 84, 140)
	pdf.Rect(0, 0, pageW, 8, "F")
	pdf.SetTextColor(30, 30, 30)
	d.font("B", 18)
	pdf.SetXY(marginX, marginY)
	pdf.CellFormat(contentW, 10, v.Page.Title, "", 1, "L", false, 0, "")
	d.font("", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.SetX(marginX)
	pdf.CellFormat(contentW, 5, "Balkón a terasa · "+v.DocumentCode, "", 1, "L", false, 0, "")
	pdf.SetDrawColor(0, 84, 140)
	pdf.SetLineWidth(0.4)
	pdf.Line(marginX, bodyTop-6, pageW-marginX, bodyTop-6)
	pdf.SetTextColor(30, 30, 30)
}

func (d *drawing) footer(v ViewData) {
	pdf := d.pdf
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.2)
	pdf.Line(marginX, pageH-14, pageW-marginX, pageH-14)
	d.font("", 8)
	pdf.SetTextColor(110, 110, 110)
	pdf.SetXY(marginX, pageH-12)
	pdf.CellFormat(contentW/2, 5, v.Date, "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 5, fmt.Sprintf("Strana %d / %d", v.Page.Number, len(v.Pages)), "", 0, "R", false, 0, "")
	pdf.SetTextColor(30, 30, 30)
}

func (d *drawing) heading(s string) {
	d.pdf.Ln(3)
	d.pdf.SetX(marginX)
	d.font("B", 12)
	d.pdf.CellFormat(contentW, 7, s, "", 1, "L", false, 0, "")
}

func (d *drawing) paragraph(s string) {
	if s == "" {
		return
	}
	d.pdf.SetX(marginX)
	d.font("", 10)
	d.pdf.MultiCell(contentW, 5, s, "", "L", false)
	d.pdf.Ln(1)
}

// rows prints a two column key/value table.
func (d *drawing) rows(kv [][2]string) {
	pdf := d.pdf
	for i, row := range kv {
		pdf.SetX(marginX)
		if i%2 == 0 {
			pdf.SetFillColor(242, 245, 248)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		d.font("", 10)
		pdf.CellFormat(contentW*0.55, 7, row[0], "", 0, "L", true, 0, "")
		d.font("B", 10)
		pdf.CellFormat(contentW*0.45, 7, row[1], "", 1, "R", true, 0, "")
	}
}

// image places an asset image inside the box, keeping its aspect ratio.
// A missing or unreadable image becomes a labelled placeholder frame.
func (d *drawing) image(name string, x, y, w, h float64) {
	if name == "" || !d.register(name) {
		d.placeholder(x, y, w, h, "Obrázok nie je k dispozícii")
		return
	}
	info := d.pdf.GetImageInfo(name)
	iw, ih := info.Width(), info.Height()
	if iw <= 0 || ih <= 0 {
		d.placeholder(x, y, w, h, "Obrázok nie je k dispozícii")
		return
	}
	scale := math.Min(w/iw, h/ih)
	dw, dh := iw*scale, ih*scale
	d.pdf.ImageOptions(name, x+(w-dw)/2, y+(h-dh)/2, dw, dh, false, fpdf.ImageOptions{}, 0, "")
}

func (d *drawing) register(name string) bool {
	if ok, seen := d.images[name]; seen {
		return ok
	}
	if d.images == nil {
		d.images = map[string]bool{}
	}
	b, err := d.assets.ReadFile(name)
	if err == nil {
		_, _, err = image.DecodeConfig(bytes.NewReader(b))
	}
	if err != nil {
		log.Warn().Err(err).Str("asset", name).Str("variant", d.variant).Msg("pdf image unavailable, drawing placeholder")
		d.images[name] = false
		return false
	}
	typ := strings.ToUpper(strings.TrimPrefix(path.Ext(name), "."))
	d.pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: typ}, bytes.NewReader(b))
	d.images[name] = d.pdf.Ok()
	return d.images[name]
}

func (d *drawing) placeholder(x, y, w, h float64, label string) {
	pdf := d.pdf
	pdf.SetDrawColor(180, 180, 180)
	pdf.SetLineWidth(0.3)
	pdf.SetDashPattern([]float64{2, 1.5}, 0)
	pdf.Rect(x, y, w, h, "D")
	pdf.SetDashPattern([]float64{}, 0)
	d.font("", 9)
	pdf.SetTextColor(140, 140, 140)
	pdf.SetXY(x, y+h/2-3)
	pdf.CellFormat(w, 6, label, "", 0, "C", false, 0, "")
	pdf.SetTextColor(30, 30, 30)
}

// outline draws the balcony shape scaled into the box, wall edges in bold
// and side letters next to their edges.
func (d *drawing) outline(v ViewData, x, y, w, h float64) {
	edges := v.Outline
	if len(edges) == 0 {
		d.placeholder(x, y, w, h, "Náčrt bude doplnený po zadaní rozmerov")
		return
	}

	bw, bh := calc.Bounds(edges)
	const pad = 10.0
	scale := math.Min((w-2*pad)/bw, (h-2*pad)/bh)
	ox := x + (w-bw*scale)/2
	oy := y + (h-bh*scale)/2
	at := func(p calc.Point) (float64, float64) { return ox + p.X*scale, oy + p.Y*scale }

	pdf := d.pdf
	pts := make([]fpdf.PointType, 0, len(edges))
	for _, e := range edges {
		px, py := at(e.From)
		pts = append(pts, fpdf.PointType{X: px, Y: py})
	}
	pdf.SetFillColor(226, 236, 244)
	pdf.SetDrawColor(0, 84, 140)
	pdf.SetLineWidth(0.5)
	pdf.Polygon(pts, "FD")

	d.font("B", 11)
	for _, e := range edges {
		x1, y1 := at(e.From)
		x2, y2 := at(e.To)
		if e.Wall {
			pdf.SetDrawColor(60, 60, 60)
			pdf.SetLineWidth(2)
			pdf.Line(x1, y1, x2, y2)
		}
		if e.Side == "" {
			continue
		}
		dx, dy := x2-x1, y2-y1
		l := math.Hypot(dx, dy)
		nx, ny := dy/l, -dx/l
		lx, ly := (x1+x2)/2+nx*5, (y1+y2)/2+ny*5
		pdf.SetXY(lx-4, ly-3)
		pdf.CellFormat(8, 6, string(e.Side), "", 0, "C", false, 0, "")
	}
	pdf.SetLineWidth(0.2)
}

func drawCover(d *drawing, v ViewData) {
	pdf := d.pdf
	pdf.SetY(bodyTop + 10)
	d.font("B", 24)
	pdf.SetX(marginX)
	pdf.MultiCell(contentW, 11, "Cenová ponuka\nbalkón a terasa", "", "L", false)
	pdf.Ln(6)
	d.rows([][2]string{
		{"Zákazník", orDash(v.Customer)},
		{"E-mail", orDash(v.Email)},
		{"Dátum", orDash(v.Date)},
		{"Číslo dokumentu", v.DocumentCode},
		{"Odporúčaný systém", systemTitle(v)},
	})

	if png, err := qrcode.Encode(v.DocumentCode+" "+d.variant, qrcode.Medium, 256); err == nil {
		name := "qr-" + v.DocumentCode
		pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
		pdf.ImageOptions(name, pageW-marginX-40, pageH-70, 40, 40, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}
	d.image(v.PreviewImage, marginX, 150, contentW-50, 70)
}

func drawGeometry(d *drawing, v ViewData) {
	d.pdf.SetY(bodyTop)
	d.heading("Tvar: " + v.ShapeLabel)
	d.outline(v, marginX, d.pdf.GetY()+2, contentW, 110)
	d.pdf.SetY(bodyTop + 125)

	kv := make([][2]string, 0, len(v.Dims)+4)
	for _, row := range v.Dims {
		label := "Strana " + row.Side
		if row.Wall {
			label += " (pri stene)"
		}
		kv = append(kv, [2]string{label, row.Value})
	}
	kv = append(kv,
		[2]string{"Plocha", v.AreaText},
		[2]string{"Obvod", v.PerimeterRaw},
		[2]string{"Obvod bez stien", v.PerimeterText},
		[2]string{"Strany pri stene", v.WallsText},
	)
	d.rows(kv)
}

func drawSystem(d *drawing, v ViewData) {
	d.pdf.SetY(bodyTop)
	d.heading(systemTitle(v))
	if !v.HasSystem {
		d.paragraph("Pre zvolenú kombináciu výšky a odtoku zatiaľ nie je definovaný systém.")
		return
	}
	s := v.System
	d.paragraph(s.Subtitle)
	d.paragraph(s.Description)
	d.rows([][2]string{
		{"Konštrukčná výška", v.HeightLabel + " (" + v.HeightBand + ")"},
		{"Odtok vody", v.DrainLabel},
	})
	d.heading("Komponenty")
	d.rows(components(s))
	for _, n := range s.Notes {
		d.paragraph("• " + n)
	}
	d.image(v.PreviewImage, marginX, d.pdf.GetY()+4, contentW, 70)
}

func drawMaterials(d *drawing, v ViewData) {
	d.pdf.SetY(bodyTop)
	d.heading("Orientačný výkaz materiálu")
	d.rows([][2]string{
		{"Plocha balkóna", v.BOM.Area},
		{"Hydroizolácia", v.BOM.MembraneArea},
		{"Dĺžka ukončovacích profilov", v.BOM.Perimeter},
		{"Počet profilov", v.BOM.ProfilePieces},
		{"Lepidlo", v.BOM.AdhesiveBags},
	})
	d.pdf.Ln(3)
	d.paragraph(v.BOM.Note)
	d.paragraph("Množstvá sú orientačné a nezahŕňajú prerezy ani rezervu na spoje.")
}

func drawLayers(d *drawing, v ViewData) {
	d.pdf.SetY(bodyTop)
	d.heading("Rez skladbou")
	d.image(v.CutawayImage, marginX, d.pdf.GetY()+2, contentW, 100)
	d.pdf.SetY(bodyTop + 115)
	if !v.HasSystem {
		return
	}
	s := v.System
	layers := []string{"Dlažba", s.Adhesive.Name, s.Membrane.Name}
	if s.BasePanels {
		layers = append(layers, "Podkladové dosky")
	}
	layers = append(layers, "Nosný podklad so spádom")
	d.heading("Vrstvy zhora nadol")
	for i, l := range layers {
		d.paragraph(fmt.Sprintf("%d. %s", i+1, l))
	}
}

func drawFreeEdge(d *drawing, v ViewData) {
	d.pdf.SetY(bodyTop)
	d.heading("Odkvapová hrana")
	d.paragraph("Voda steká po povrchu dlažby k voľnej hrane a odkvapkáva z profilu mimo čelo balkóna. Profil sa osádza pod hydroizoláciu a kotví sa do podkladu.")
	if v.HasSystem {
		d.rows([][2]string{{v.System.EdgeProfile.Name, v.System.EdgeProfile.Spec}})
	}
	d.edgeSketch(false)
}

func drawGutterDetail(d *drawing, v ViewData) {
	d.pdf.SetY(bodyTop)
	d.heading("Odvodnenie")
	d.paragraph(v.BOM.Note)
	if v.HasSystem {
		d.rows(components(v.System))
	}
	d.edgeSketch(true)
}

// edgeSketch draws a schematic section of the balcony edge.
func (d *drawing) edgeSketch(gutter bool) {
	pdf := d.pdf
	x, y := marginX+20, d.pdf.GetY()+20
	pdf.SetFillColor(200, 200, 200)
	pdf.SetDrawColor(80, 80, 80)
	pdf.SetLineWidth(0.3)
	pdf.Rect(x, y+20, 110, 18, "FD")
	pdf.SetFillColor(0, 84, 140)
	pdf.Rect(x, y+17, 112, 3, "F")
	pdf.SetFillColor(235, 215, 180)
	pdf.Rect(x, y+10, 108, 6, "FD")
	pdf.SetLineWidth(0.8)
	if gutter {
		pdf.Polygon([]fpdf.PointType{{X: x + 112, Y: y + 17}, {X: x + 112, Y: y + 30}, {X: x + 124, Y: y + 30}, {X: x + 124, Y: y + 22}}, "D")
	} else {
		pdf.Line(x+112, y+17, x+112, y+28)
		pdf.Line(x+112, y+28, x+116, y+31)
	}
	pdf.SetLineWidth(0.2)
	d.font("", 8)
	pdf.SetXY(x, y+42)
	pdf.CellFormat(110, 5, "dlažba · hydroizolácia · podklad", "", 0, "L", false, 0, "")
}

func drawProfile(d *drawing, v ViewData) {
	d.pdf.SetY(bodyTop)
	d.heading("Dlažba")
	d.rows([][2]string{{"Zadaná dlažba", v.TileText}, {"Odporúčaný profil", v.ProfileText}})
	d.pdf.Ln(2)
	d.paragraph(v.ProfileNote)
	d.paragraph("Výška ukončovacieho profilu sa volí podľa hrúbky dlažby vrátane vrstvy lepidla.")
}

func drawClosing(d *drawing, v ViewData) {
	d.pdf.SetY(bodyTop)
	d.heading("Ďakujeme za záujem")
	d.paragraph("Tento dokument je orientačný výpočet vytvorený z údajov zadaných v kalkulačke. Pred objednávkou odporúčame konzultáciu s naším technikom, ktorý overí podklad, spády a detaily napojenia.")
	d.paragraph("Pri komunikácii uvádzajte číslo dokumentu " + v.DocumentCode + ".")
	d.heading("Technické listy")
	d.paragraph("Technické listy použitých materiálov sú priložené k e-mailu s touto ponukou.")
}

func systemTitle(v ViewData) string {
	if !v.HasSystem {
		return "Systém nie je definovaný"
	}
	return v.System.Title
}

func components(s calc.System) [][2]string {
	kv := [][2]string{
		{s.Membrane.Name, s.Membrane.Spec},
		{s.EdgeProfile.Name, s.EdgeProfile.Spec},
	}
	if s.Gutter != nil {
		kv = append(kv, [2]string{s.Gutter.Name, s.Gutter.Spec})
	}
	if s.FloorDrain != nil {
		kv = append(kv, [2]string{s.FloorDrain.Name, s.FloorDrain.Spec})
	}
	return append(kv, [2]string{s.Adhesive.Name, s.Adhesive.Spec})
}
