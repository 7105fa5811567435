package pdfgen

import (
	"bytes"
	"context"
	"encoding/base64"
	"html/template"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/balkon/internal/calc"
)

// PageConverter prints one self-contained HTML page to PDF.
type PageConverter interface {
	ConvertHTML(ctx context.Context, html []byte) ([]byte, error)
}

// Merger concatenates PDFs in the given order.
type Merger interface {
	Merge(ctx context.Context, pdfs [][]byte) ([]byte, error)
}

// PageCounter reports the number of pages of a PDF.
type PageCounter func(pdf []byte) (int, error)

// zeroMargins lets the templates own their margins and bleed.
const zeroMargins = `<style>@page{size:A4;margin:0}html,body{margin:0;padding:0}</style>`

// HTMLRenderer renders every page of the plan from its HTML template,
// converts each page separately and merges the results in plan order.
type HTMLRenderer struct {
	assets    AssetStore
	converter PageConverter
	merger    Merger
	counter   PageCounter
	now       func() time.Time
}

func NewHTMLRenderer(assets AssetStore, converter PageConverter, merger Merger, counter PageCounter) *HTMLRenderer {
	return &HTMLRenderer{assets: assets, converter: converter, merger: merger, counter: counter, now: time.Now}
}

var templateFuncs = template.FuncMap{
	"upper": strings.ToUpper,
	"add":   func(a, b int) int { return a + b },
}

func (r *HTMLRenderer) Render(ctx context.Context, p *calc.Payload) (Document, error) {
	plan, err := planOf(p)
	if err != nil {
		return Document{}, err
	}
	// Every template is loaded before anything is converted so a missing page
	// fails fast.
	tmpls := make([]*template.Template, len(plan))
	for i, id := range plan {
		name := id.Template()
		src, err := r.assets.ReadFile(name)
		if err != nil {
			return Document{}, missingAsset(ErrMissingPageAsset, name, err)
		}
		t, err := template.New(path.Base(name)).Funcs(templateFuncs).Parse(string(src))
		if err != nil {
			return Document{}, errors.Wrapf(ErrRender, "parse %s: %v", name, err)
		}
		tmpls[i] = t
	}

	stamp(p, r.now())
	v := NewViewData(p, plan)

	pages := make([][]byte, len(plan))
	for i, t := range tmpls {
		html, err := r.page(t, v.forPage(i))
		if err != nil {
			return Document{}, err
		}
		pdf, err := r.converter.ConvertHTML(ctx, html)
		if err != nil {
			if ctx.Err() != nil {
				return Document{}, ctx.Err()
			}
			return Document{}, errors.Wrapf(ErrRender, "convert %s: %v", plan[i].Template(), err)
		}
		pages[i] = pdf
	}

	merged, err := r.merger.Merge(ctx, pages)
	if err != nil {
		if ctx.Err() != nil {
			return Document{}, ctx.Err()
		}
		return Document{}, errors.Wrapf(ErrRender, "merge: %v", err)
	}
	doc := Document{Bytes: merged, Pages: len(plan), Variant: p.Variant(), Code: p.Meta.DocumentCode}
	if r.counter != nil {
		n, err := r.counter(merged)
		if err != nil {
			return Document{}, errors.Wrapf(ErrRender, "count pages: %v", err)
		}
		doc.Pages = n
	}
	return doc, nil
}

// page executes one template and makes the result self-contained.
func (r *HTMLRenderer) page(t *template.Template, v ViewData) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, v); err != nil {
		return nil, errors.Wrapf(ErrRender, "execute %s: %v", t.Name(), err)
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return nil, errors.Wrapf(ErrRender, "parse html %s: %v", t.Name(), err)
	}
	r.inlineImages(doc, t.Name())
	doc.Find("head").AppendHtml(zeroMargins)
	html, err := goquery.OuterHtml(doc.Selection)
	if err != nil {
		return nil, errors.Wrapf(ErrRender, "serialize %s: %v", t.Name(), err)
	}
	return []byte(html), nil
}

// inlineImages replaces relative <img> sources with data URIs read from the
// asset store. Images that cannot be read are removed and logged.
func (r *HTMLRenderer) inlineImages(doc *goquery.Document, page string) {
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if src == "" || strings.HasPrefix(src, "data:") || strings.Contains(src, "://") {
			return
		}
		name := strings.TrimPrefix(path.Clean("/"+src), "/")
		b, err := r.assets.ReadFile(name)
		if err != nil {
			log.Warn().Err(err).Str("asset", name).Str("page", page).Msg("pdf image unavailable, dropped")
			s.Remove()
			return
		}
		s.SetAttr("src", dataURI(name, b))
	})
}

func dataURI(name string, b []byte) string {
	typ := mime.TypeByExtension(path.Ext(name))
	if typ == "" {
		typ = http.DetectContentType(b)
	}
	return "data:" + typ + ";base64," + base64.StdEncoding.EncodeToString(b)
}
