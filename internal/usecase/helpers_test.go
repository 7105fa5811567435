package usecase

import (
	"context"
	"errors"
	"sync"
	"testing/fstest"

	"github.com/google/uuid"

	"github.com/phenrril/balkon/internal/calc"
	"github.com/phenrril/balkon/internal/domain"
	"github.com/phenrril/balkon/internal/pdfgen"
)

// lowFree is a 4 x 2.5 m rectangle against a wall on side A.
func lowFree(email string) calc.Payload {
	s := calc.NewState(calc.CapabilitiesV2).
		WithShape(calc.ShapeRectangle).
		WithSide(calc.SideA, 4).
		WithSide(calc.SideB, 2.5).
		WithWall(calc.SideA, true).
		WithHeight(calc.HeightLow).
		WithDrain(calc.DrainEdgeFree).
		WithTile(10, 60)
	return calc.BuildPayload(s, calc.Meta{Email: email})
}

func datasheetStore(names ...string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for _, n := range names {
		fsys["datasheets/"+n] = &fstest.MapFile{Data: []byte("%PDF-1.4 " + n)}
	}
	return fsys
}

type fakeRenderer struct {
	mu  sync.Mutex
	got []calc.Payload
	err error
}

func (f *fakeRenderer) Render(_ context.Context, p *calc.Payload) (pdfgen.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return pdfgen.Document{}, f.err
	}
	if p.Meta.DocumentCode == "" {
		p.Meta.DocumentCode = "BK-TEST0001"
	}
	f.got = append(f.got, *p)
	return pdfgen.Document{
		Bytes:   []byte("%PDF-1.4 fake"),
		Pages:   len(p.Plan()),
		Variant: p.Variant(),
		Code:    p.Meta.DocumentCode,
	}, nil
}

type recordingMailer struct {
	sent    []domain.Email
	failFor string
}

func (m *recordingMailer) Send(_ context.Context, e domain.Email) error {
	if m.failFor != "" && len(e.To) > 0 && e.To[0] == m.failFor {
		return errors.New("smtp: 554 rejected")
	}
	m.sent = append(m.sent, e)
	return nil
}

type fakeCustomers struct {
	c   *domain.Customer
	err error
}

func (f fakeCustomers) FindByEmail(context.Context, string) (*domain.Customer, error) {
	return f.c, f.err
}

func (f fakeCustomers) Save(context.Context, *domain.Customer) error { return nil }

type memQuotes struct {
	created  []*domain.QuoteRequest
	notified []uuid.UUID
}

func (m *memQuotes) Create(_ context.Context, q *domain.QuoteRequest) error {
	m.created = append(m.created, q)
	return nil
}

func (m *memQuotes) FindByCode(_ context.Context, code string) (*domain.QuoteRequest, error) {
	for _, q := range m.created {
		if q.DocumentCode == code {
			return q, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memQuotes) ListRecent(context.Context, int) ([]domain.QuoteRequest, error) {
	out := make([]domain.QuoteRequest, 0, len(m.created))
	for _, q := range m.created {
		out = append(out, *q)
	}
	return out, nil
}

func (m *memQuotes) MarkNotified(_ context.Context, id uuid.UUID) error {
	m.notified = append(m.notified, id)
	return nil
}

type recordingNotifier struct{ texts []string }

func (n *recordingNotifier) Notify(_ context.Context, text string) error {
	n.texts = append(n.texts, text)
	return nil
}
