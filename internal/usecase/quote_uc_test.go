package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/balkon/internal/calc"
	"github.com/phenrril/balkon/internal/domain"
	"github.com/phenrril/balkon/internal/pdfgen"
)

var lowFreeSheets = []string{"hydroizolacna-folia.pdf", "profil-odkvapovy.pdf", "lepidlo-c2te-s1.pdf"}

func newQuoteUC() (*QuoteUC, *fakeRenderer, *recordingMailer) {
	r := &fakeRenderer{}
	m := &recordingMailer{}
	return &QuoteUC{
		Renderer: r,
		Mailer:   m,
		Assets:   datasheetStore(lowFreeSheets...),
		AppID:    "balkon-web",
	}, r, m
}

func TestGenerateRequiresPayload(t *testing.T) {
	uc, r, _ := newQuoteUC()
	_, err := uc.Generate(context.Background(), nil)
	assert.ErrorIs(t, err, ErrPayloadRequired)
	assert.Empty(t, r.got)
}

func TestGenerateRejectsIncompleteVariant(t *testing.T) {
	uc, r, _ := newQuoteUC()
	p := lowFree("")
	p.Calc.Height = ""
	_, err := uc.Generate(context.Background(), &p)
	assert.ErrorIs(t, err, calc.ErrInvalidPayload)
	assert.Empty(t, r.got)
}

func TestGenerateRecomputesClientNumbers(t *testing.T) {
	uc, r, _ := newQuoteUC()
	p := lowFree("")
	p.BOM.ProfilePieces = 99
	p.BOM.Area = 1

	doc, err := uc.Generate(context.Background(), &p)
	require.NoError(t, err)
	require.Len(t, r.got, 1)
	assert.Equal(t, 4, r.got[0].BOM.ProfilePieces)
	assert.InDelta(t, 10, r.got[0].BOM.Area, 1e-9)
	assert.Equal(t, "balkon-web", r.got[0].Meta.AppID)
	assert.Equal(t, "low-free-final.pdf", doc.FileName())
	assert.Equal(t, 8, doc.Pages)
	assert.Equal(t, 99, p.BOM.ProfilePieces, "caller's payload is not modified")
}

func TestCustomerLabel(t *testing.T) {
	tests := []struct {
		name      string
		customers domain.CustomerRepo
		client    string
		want      string
	}{
		{"from profile", fakeCustomers{c: &domain.Customer{Name: "Jana Nováková", Company: "Dlažby s.r.o."}}, "", "Jana Nováková, Dlažby s.r.o."},
		{"unknown customer", fakeCustomers{err: domain.ErrNotFound}, "", ""},
		{"lookup failure", fakeCustomers{err: errors.New("connection refused")}, "", ""},
		{"client label kept on miss", fakeCustomers{err: domain.ErrNotFound}, "Peter", "Peter"},
		{"no repository", nil, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, r, _ := newQuoteUC()
			uc.Customers = tt.customers
			p := lowFree("jana@example.sk")
			p.Meta.CustomerLabel = tt.client
			_, err := uc.Generate(context.Background(), &p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.got[0].Meta.CustomerLabel)
		})
	}
}

func TestGenerateAndEmailRequiresRecipient(t *testing.T) {
	for _, email := range []string{"", "   ", "not-an-address"} {
		uc, r, m := newQuoteUC()
		p := lowFree(email)
		_, err := uc.GenerateAndEmail(context.Background(), &p)
		assert.ErrorIs(t, err, ErrEmailRequired, email)
		assert.Empty(t, r.got)
		assert.Empty(t, m.sent)
	}
}

func TestGenerateAndEmailSendsPDFAndDatasheets(t *testing.T) {
	uc, _, m := newQuoteUC()
	p := lowFree(" jana@example.sk ")

	res, err := uc.GenerateAndEmail(context.Background(), &p)
	require.NoError(t, err)
	assert.Equal(t, "jana@example.sk", res.Recipient)
	assert.Equal(t, 4, res.Attachments)

	require.Len(t, m.sent, 1)
	e := m.sent[0]
	assert.Equal(t, []string{"jana@example.sk"}, e.To)
	assert.Contains(t, e.Subject, "BK-TEST0001")
	assert.Contains(t, e.Text, "10,00 m²")
	require.Len(t, e.Attachments, 4)
	assert.Equal(t, "low-free-final.pdf", e.Attachments[0].Filename)
	assert.Equal(t, "application/pdf", e.Attachments[0].ContentType)
	for i, name := range lowFreeSheets {
		assert.Equal(t, name, e.Attachments[i+1].Filename)
	}
}

func TestGenerateAndEmailSkipsMissingDatasheet(t *testing.T) {
	uc, _, m := newQuoteUC()
	uc.Assets = datasheetStore(lowFreeSheets[0], lowFreeSheets[2])
	p := lowFree("jana@example.sk")

	res, err := uc.GenerateAndEmail(context.Background(), &p)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Attachments)
	require.Len(t, m.sent, 1)
	assert.Len(t, m.sent[0].Attachments, 3)
}

func TestGenerateAndEmailDeliveryFailureKeepsDocument(t *testing.T) {
	uc, _, m := newQuoteUC()
	m.failFor = "jana@example.sk"
	p := lowFree("jana@example.sk")

	res, err := uc.GenerateAndEmail(context.Background(), &p)
	assert.ErrorIs(t, err, ErrEmailDelivery)
	assert.NotEmpty(t, res.Document.Bytes)
	assert.Equal(t, "low-free", res.Document.Variant)
}

func TestGenerateAndEmailRenderFailureIsNotDeliveryFailure(t *testing.T) {
	uc, r, m := newQuoteUC()
	r.err = errors.New("engine crashed")
	p := lowFree("jana@example.sk")

	_, err := uc.GenerateAndEmail(context.Background(), &p)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailDelivery)
	assert.Empty(t, m.sent)
}

func TestGenerateAndOffer(t *testing.T) {
	uc, _, m := newQuoteUC()
	quotes := &memQuotes{}
	n := &recordingNotifier{}
	uc.Quotes = quotes
	uc.Notifier = n
	uc.AdminEmail = "predaj@balkon.sk"
	p := lowFree("jana@example.sk")

	res, err := uc.GenerateAndOffer(context.Background(), &p)
	require.NoError(t, err)

	require.Len(t, m.sent, 2)
	assert.Len(t, m.sent[0].Attachments, 4)
	admin := m.sent[1]
	assert.Equal(t, []string{"predaj@balkon.sk"}, admin.To)
	require.Len(t, admin.Attachments, 1)
	assert.Equal(t, "low-free-final.pdf", admin.Attachments[0].Filename)

	require.Len(t, quotes.created, 1)
	q := quotes.created[0]
	assert.Equal(t, "BK-TEST0001", q.DocumentCode)
	assert.Equal(t, "low-free", q.Variant)
	assert.Equal(t, domain.QuoteStatusNew, q.Status)
	assert.InDelta(t, 10, q.Area, 1e-9)
	assert.Equal(t, []uuid.UUID{q.ID}, quotes.notified)
	assert.True(t, res.Quote.Notified)

	require.Len(t, n.texts, 1)
	assert.Contains(t, n.texts[0], "BK-TEST0001")
	assert.Contains(t, n.texts[0], "jana@example.sk")
}

func TestGenerateAndOfferCustomerFailureStillRecordsQuote(t *testing.T) {
	uc, _, m := newQuoteUC()
	quotes := &memQuotes{}
	uc.Quotes = quotes
	uc.AdminEmail = "predaj@balkon.sk"
	m.failFor = "jana@example.sk"
	p := lowFree("jana@example.sk")

	_, err := uc.GenerateAndOffer(context.Background(), &p)
	assert.ErrorIs(t, err, ErrEmailDelivery)
	assert.Len(t, quotes.created, 1)
	require.Len(t, m.sent, 1)
	assert.Equal(t, []string{"predaj@balkon.sk"}, m.sent[0].To)
}

func TestGenerateAndOfferAdminFailureIsLogged(t *testing.T) {
	uc, _, m := newQuoteUC()
	quotes := &memQuotes{}
	uc.Quotes = quotes
	uc.AdminEmail = "predaj@balkon.sk"
	m.failFor = "predaj@balkon.sk"
	p := lowFree("jana@example.sk")

	res, err := uc.GenerateAndOffer(context.Background(), &p)
	require.NoError(t, err)
	assert.False(t, res.Quote.Notified)
	assert.Empty(t, quotes.notified)
}

type recordingCustomers struct{ saved []*domain.Customer }

func (r *recordingCustomers) FindByEmail(_ context.Context, email string) (*domain.Customer, error) {
	for _, c := range r.saved {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *recordingCustomers) Save(_ context.Context, c *domain.Customer) error {
	r.saved = append(r.saved, c)
	return nil
}

func TestGenerateAndOfferRemembersNewCustomer(t *testing.T) {
	uc, _, _ := newQuoteUC()
	customers := &recordingCustomers{}
	uc.Customers = customers
	p := lowFree("jana@example.sk")

	_, err := uc.GenerateAndOffer(context.Background(), &p)
	require.NoError(t, err)
	_, err = uc.GenerateAndOffer(context.Background(), &p)
	require.NoError(t, err)

	require.Len(t, customers.saved, 1)
	assert.Equal(t, "jana@example.sk", customers.saved[0].Email)
}

func TestRerenderKeepsDocumentCode(t *testing.T) {
	uc, r, _ := newQuoteUC()
	quotes := &memQuotes{}
	uc.Quotes = quotes
	p := lowFree("jana@example.sk")
	p.Meta.DocumentCode = "BK-STORED01"
	quotes.created = append(quotes.created, domain.NewQuoteRequest(p))

	doc, err := uc.Rerender(context.Background(), " BK-STORED01 ")
	require.NoError(t, err)
	assert.Equal(t, "BK-STORED01", doc.Code)
	require.Len(t, r.got, 1)

	_, err = uc.Rerender(context.Background(), "BK-MISSING")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	recent, err := uc.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestRecentWithoutRepo(t *testing.T) {
	uc, _, _ := newQuoteUC()
	_, err := uc.Recent(context.Background(), 10)
	assert.Error(t, err)
}

func TestSendDocumentAfterDeliveryFailure(t *testing.T) {
	uc, r, m := newQuoteUC()
	m.failFor = "jana@example.sk"
	p := lowFree("jana@example.sk")

	res, err := uc.GenerateAndEmail(context.Background(), &p)
	require.ErrorIs(t, err, ErrEmailDelivery)
	require.NotEmpty(t, res.Document.Bytes)
	assert.Equal(t, "BK-TEST0001", res.Payload.Meta.DocumentCode)
	assert.Empty(t, m.sent)

	m.failFor = ""
	again, err := uc.SendDocument(context.Background(), res.Payload, res.Document)
	require.NoError(t, err)
	assert.Len(t, r.got, 1, "document is not rendered again")
	assert.Equal(t, "BK-TEST0001", again.Document.Code)
	require.Len(t, m.sent, 1)
	assert.Contains(t, m.sent[0].Subject, "BK-TEST0001")
	assert.Equal(t, res.Document.Bytes, m.sent[0].Attachments[0].Content)
}

func TestSendDocumentRequiresRenderedDocument(t *testing.T) {
	uc, _, m := newQuoteUC()
	_, err := uc.SendDocument(context.Background(), lowFree("jana@example.sk"), pdfgen.Document{})
	assert.ErrorIs(t, err, pdfgen.ErrNoPayload)
	assert.Empty(t, m.sent)
}
