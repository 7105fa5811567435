// Package pdfgen turns a calculator payload into the customer's PDF document.
// Both strategies consume the same page plan resolved by the calc package.
package pdfgen

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phenrril/balkon/internal/calc"
)

// Renderer produces one PDF per payload.
type Renderer interface {
	Render(ctx context.Context, p *calc.Payload) (Document, error)
}

// Document is a finished PDF.
type Document struct {
	Bytes   []byte
	Pages   int
	Variant string
	Code    string
}

// FileName is the download name, "<variant>-final.pdf".
func (d Document) FileName() string {
	v := d.Variant
	if v == "" {
		v = "balkon"
	}
	return v + "-final.pdf"
}

// AssetStore is the read-only store of templates, fonts, images and datasheets.
// Missing files return an error wrapping fs.ErrNotExist.
type AssetStore interface {
	ReadFile(name string) ([]byte, error)
}

// NewDocumentCode returns a short code printed on every page, e.g. BK-1A2B3C4D.
func NewDocumentCode() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "BK-" + strings.ToUpper(id[:8])
}

// stamp sets the document code and timestamp when the payload has none.
// Nothing else in the payload is touched.
func stamp(p *calc.Payload, now time.Time) {
	if p.Meta.DocumentCode == "" {
		p.Meta.DocumentCode = NewDocumentCode()
	}
	if p.Meta.GeneratedAt.IsZero() {
		p.Meta.GeneratedAt = now
	}
}

// planOf resolves the plan of a payload and rejects empty plans.
func planOf(p *calc.Payload) (calc.PagePlan, error) {
	if p == nil {
		return nil, ErrNoPayload
	}
	plan := p.Plan()
	if len(plan) == 0 {
		return nil, ErrEmptyPlan
	}
	return plan, nil
}
