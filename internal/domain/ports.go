package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

type ProductRepo interface {
	Save(ctx context.Context, p *Product) error
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	List(ctx context.Context, f ProductFilter) ([]Product, int64, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	SaveVariant(ctx context.Context, v *Variant) error
	ListVariants(ctx context.Context, productID uuid.UUID) ([]Variant, error)
	FindVariantBySKU(ctx context.Context, sku string) (*Product, *Variant, error)
}

type CustomerRepo interface {
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	Save(ctx context.Context, c *Customer) error
}

type SystemProductRepo interface {
	Save(ctx context.Context, systemID string, productID uuid.UUID, role string, order int) error
	ProductsFor(ctx context.Context, systemID string) ([]Product, error)
}

type QuoteRequestRepo interface {
	Create(ctx context.Context, q *QuoteRequest) error
	FindByCode(ctx context.Context, code string) (*QuoteRequest, error)
	ListRecent(ctx context.Context, limit int) ([]QuoteRequest, error)
	MarkNotified(ctx context.Context, id uuid.UUID) error
}

// Attachment is a file sent with an email. Content may arrive in any
// buffer-like shape; mailers normalise it to bytes before sending.
type Attachment struct {
	Filename    string `json:"filename"`
	Content     any    `json:"content"`
	ContentType string `json:"contentType"`
}

type Email struct {
	To          []string     `json:"to"`
	Subject     string       `json:"subject"`
	HTML        string       `json:"html,omitempty"`
	Text        string       `json:"text,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type Mailer interface {
	Send(ctx context.Context, e Email) error
}

// Notifier pushes a short text to the shop staff.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}
