package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/balkon/internal/calc"
	"github.com/phenrril/balkon/internal/domain"
	"github.com/phenrril/balkon/internal/pdfgen"
)

var (
	ErrPayloadRequired  = errors.New("payload is required")
	ErrPayloadMalformed = errors.New("invalid payload")
	ErrEmailRequired    = errors.New("email is required to send the document")
	ErrEmailDelivery    = errors.New("email delivery failed")
)

// QuoteUC renders customer documents and delivers them.
type QuoteUC struct {
	Renderer   pdfgen.Renderer
	Customers  domain.CustomerRepo
	Quotes     domain.QuoteRequestRepo
	Mailer     domain.Mailer
	Notifier   domain.Notifier
	Assets     pdfgen.AssetStore
	AdminEmail string
	AppID      string
}

// SendResult describes a delivery. Document and Payload are set whenever
// rendering succeeded, even if the email did not go out, so the document can
// be sent again with SendDocument.
type SendResult struct {
	Document    pdfgen.Document
	Payload     calc.Payload
	Recipient   string
	Attachments int
	Quote       *domain.QuoteRequest
}

// Prepare recomputes the payload from its own inputs, validates it and
// fills in the customer label. The caller's payload is left untouched.
func (uc *QuoteUC) Prepare(ctx context.Context, p *calc.Payload) (calc.Payload, error) {
	if p == nil {
		return calc.Payload{}, ErrPayloadRequired
	}
	out := p.Recompute()
	if err := out.Validate(); err != nil {
		return calc.Payload{}, err
	}
	out.Meta.Email = strings.TrimSpace(out.Meta.Email)
	if out.Meta.AppID == "" {
		out.Meta.AppID = uc.AppID
	}
	if label := uc.customerLabel(ctx, out.Meta.Email); label != "" {
		out.Meta.CustomerLabel = label
	}
	return out, nil
}

func (uc *QuoteUC) customerLabel(ctx context.Context, email string) string {
	if uc.Customers == nil || email == "" {
		return ""
	}
	c, err := uc.Customers.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Warn().Err(err).Msg("customer lookup failed")
		}
		return ""
	}
	return c.Label()
}

// Generate renders the document of a payload.
func (uc *QuoteUC) Generate(ctx context.Context, p *calc.Payload) (pdfgen.Document, error) {
	prepared, err := uc.Prepare(ctx, p)
	if err != nil {
		return pdfgen.Document{}, err
	}
	return uc.Renderer.Render(ctx, &prepared)
}

// GenerateAndEmail renders the document and mails it with the variant's
// datasheets to the address in the payload meta.
func (uc *QuoteUC) GenerateAndEmail(ctx context.Context, p *calc.Payload) (SendResult, error) {
	prepared, doc, err := uc.render(ctx, p)
	if err != nil {
		return SendResult{}, err
	}
	return uc.sendCustomer(ctx, &prepared, doc)
}

// GenerateAndOffer works like GenerateAndEmail, then records the quote request
// and notifies the shop with the PDF alone. Shop notification failures are
// logged; the stored request keeps them recoverable.
func (uc *QuoteUC) GenerateAndOffer(ctx context.Context, p *calc.Payload) (SendResult, error) {
	prepared, doc, err := uc.render(ctx, p)
	if err != nil {
		return SendResult{}, err
	}
	res, sendErr := uc.sendCustomer(ctx, &prepared, doc)

	q := domain.NewQuoteRequest(prepared)
	if uc.Quotes != nil {
		if err := uc.Quotes.Create(ctx, q); err != nil {
			log.Error().Err(err).Str("code", doc.Code).Msg("quote request not stored")
		}
	}
	res.Quote = q
	uc.rememberCustomer(ctx, prepared.Meta.Email)
	uc.notifyShop(ctx, q, doc)
	return res, sendErr
}

// SendDocument mails an already rendered document to the address in its
// payload meta. Nothing is rendered again.
func (uc *QuoteUC) SendDocument(ctx context.Context, p calc.Payload, doc pdfgen.Document) (SendResult, error) {
	if len(doc.Bytes) == 0 {
		return SendResult{}, pdfgen.ErrNoPayload
	}
	return uc.sendCustomer(ctx, &p, doc)
}

// Recent lists the latest stored quote requests, newest first.
func (uc *QuoteUC) Recent(ctx context.Context, limit int) ([]domain.QuoteRequest, error) {
	if uc.Quotes == nil {
		return nil, errors.New("quote requests not configured")
	}
	return uc.Quotes.ListRecent(ctx, limit)
}

// Rerender renders the stored payload of a quote request again. The document
// keeps its original code.
func (uc *QuoteUC) Rerender(ctx context.Context, code string) (pdfgen.Document, error) {
	if uc.Quotes == nil {
		return pdfgen.Document{}, errors.New("quote requests not configured")
	}
	q, err := uc.Quotes.FindByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return pdfgen.Document{}, err
	}
	p := q.Payload.Recompute()
	if err := p.Validate(); err != nil {
		return pdfgen.Document{}, err
	}
	return uc.Renderer.Render(ctx, &p)
}

// rememberCustomer stores an unknown offer address so the shop can complete
// the contact later.
func (uc *QuoteUC) rememberCustomer(ctx context.Context, email string) {
	if uc.Customers == nil || email == "" {
		return
	}
	_, err := uc.Customers.FindByEmail(ctx, email)
	if err == nil || !errors.Is(err, domain.ErrNotFound) {
		return
	}
	if err := uc.Customers.Save(ctx, &domain.Customer{Email: email}); err != nil {
		log.Warn().Err(err).Msg("customer not stored")
	}
}

func (uc *QuoteUC) render(ctx context.Context, p *calc.Payload) (calc.Payload, pdfgen.Document, error) {
	if p == nil {
		return calc.Payload{}, pdfgen.Document{}, ErrPayloadRequired
	}
	if _, err := recipient(p.Meta.Email); err != nil {
		return calc.Payload{}, pdfgen.Document{}, err
	}
	prepared, err := uc.Prepare(ctx, p)
	if err != nil {
		return calc.Payload{}, pdfgen.Document{}, err
	}
	doc, err := uc.Renderer.Render(ctx, &prepared)
	if err != nil {
		return calc.Payload{}, pdfgen.Document{}, err
	}
	prepared.Meta.DocumentCode = doc.Code
	return prepared, doc, nil
}

func (uc *QuoteUC) sendCustomer(ctx context.Context, p *calc.Payload, doc pdfgen.Document) (SendResult, error) {
	to, err := recipient(p.Meta.Email)
	if err != nil {
		return SendResult{Document: doc, Payload: *p}, err
	}
	atts := []domain.Attachment{{Filename: doc.FileName(), Content: doc.Bytes, ContentType: "application/pdf"}}
	atts = append(atts, SelectDatasheets(ctx, uc.Assets, p.Calc.Height, p.Calc.Drain)...)
	res := SendResult{Document: doc, Payload: *p, Recipient: to, Attachments: len(atts)}

	if uc.Mailer == nil {
		return res, fmt.Errorf("%w: no mailer", ErrEmailDelivery)
	}
	err = uc.Mailer.Send(ctx, domain.Email{
		To:          []string{to},
		Subject:     fmt.Sprintf("Kalkulácia balkóna %s", doc.Code),
		Text:        customerText(p, doc),
		Attachments: atts,
	})
	if err != nil {
		log.Error().Err(err).Str("code", doc.Code).Msg("customer email failed")
		return res, fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}
	log.Info().Str("code", doc.Code).Int("attachments", len(atts)).Msg("customer email sent")
	return res, nil
}

func (uc *QuoteUC) notifyShop(ctx context.Context, q *domain.QuoteRequest, doc pdfgen.Document) {
	if uc.Mailer != nil && uc.AdminEmail != "" {
		err := uc.Mailer.Send(ctx, domain.Email{
			To:          []string{uc.AdminEmail},
			Subject:     fmt.Sprintf("Nový dopyt %s (%s)", doc.Code, doc.Variant),
			Text:        shopText(q),
			Attachments: []domain.Attachment{{Filename: doc.FileName(), Content: doc.Bytes, ContentType: "application/pdf"}},
		})
		if err != nil {
			log.Error().Err(err).Str("code", doc.Code).Msg("offer email failed")
		} else if uc.Quotes != nil {
			if err := uc.Quotes.MarkNotified(ctx, q.ID); err != nil {
				log.Warn().Err(err).Str("code", doc.Code).Msg("mark notified")
			}
			q.Notified = true
		}
	}
	if uc.Notifier != nil {
		if err := uc.Notifier.Notify(ctx, shopText(q)); err != nil {
			log.Warn().Err(err).Str("code", doc.Code).Msg("offer notification failed")
		}
	}
}

// recipient validates the address taken from the payload meta.
func recipient(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmailRequired
	}
	a, err := mail.ParseAddress(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEmailRequired, err)
	}
	return a.Address, nil
}

func customerText(p *calc.Payload, doc pdfgen.Document) string {
	var buf bytes.Buffer
	buf.WriteString("Dobrý deň,\n\nv prílohe posielame kalkuláciu vášho balkóna")
	if p.Calc.SystemTitle != "" {
		_, _ = fmt.Fprintf(&buf, " so systémom %s", p.Calc.SystemTitle)
	}
	buf.WriteString(".\n\n")
	d := p.BOM.Display()
	_, _ = fmt.Fprintf(&buf, "Plocha: %s\nObvod bez stien: %s\nProfily: %s\nLepidlo: %s\n\n", d.Area, d.Perimeter, d.ProfilePieces, d.AdhesiveBags)
	_, _ = fmt.Fprintf(&buf, "Číslo dokumentu: %s\n", doc.Code)
	buf.WriteString("Technické listy použitých materiálov sú priložené.\n")
	return buf.String()
}

func shopText(q *domain.QuoteRequest) string {
	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "Nový dopyt %s\n", q.DocumentCode)
	if q.CustomerLabel != "" {
		_, _ = fmt.Fprintf(&buf, "Zákazník: %s\n", q.CustomerLabel)
	}
	_, _ = fmt.Fprintf(&buf, "Email: %s\nSystém: %s\n", q.Email, q.Variant)
	_, _ = fmt.Fprintf(&buf, "Plocha: %s m²\nObvod: %s m\n", calc.FormatNumber(q.Area), calc.FormatNumber(q.Perimeter))
	_, _ = fmt.Fprintf(&buf, "Čas: %s\n", time.Now().Format("02.01.2006 15:04"))
	return buf.String()
}
