package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/phenrril/balkon/internal/calc"
)

type QuoteStatus string

const (
	QuoteStatusNew       QuoteStatus = "new"
	QuoteStatusContacted QuoteStatus = "contacted"
	QuoteStatusClosed    QuoteStatus = "closed"
)

// QuoteRequest is stored when a customer asks for an offer.
type QuoteRequest struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Status        QuoteStatus  `gorm:"type:varchar(20);index" json:"status"`
	Email         string       `gorm:"size:140;index" json:"email"`
	CustomerLabel string       `gorm:"size:255" json:"customer_label"`
	DocumentCode  string       `gorm:"size:20;uniqueIndex" json:"document_code"`
	Variant       string       `gorm:"size:40" json:"variant"`
	SystemID      string       `gorm:"size:40;index" json:"system_id"`
	Area          float64      `gorm:"type:decimal(10,2)" json:"area"`
	Perimeter     float64      `gorm:"type:decimal(10,2)" json:"perimeter"`
	Payload       calc.Payload `gorm:"type:jsonb;serializer:json" json:"payload"`
	Notified      bool         `gorm:"not null;default:false" json:"notified"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// NewQuoteRequest snapshots a rendered payload.
func NewQuoteRequest(p calc.Payload) *QuoteRequest {
	q := &QuoteRequest{
		ID:            uuid.New(),
		Status:        QuoteStatusNew,
		Email:         p.Meta.Email,
		CustomerLabel: p.Meta.CustomerLabel,
		DocumentCode:  p.Meta.DocumentCode,
		Variant:       p.Variant(),
		SystemID:      p.Calc.SystemID,
		Area:          p.BOM.Area,
		Perimeter:     p.BOM.Perimeter,
		Payload:       p,
	}
	return q
}
