package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog item: membranes, profiles, adhesives, drains.
type Product struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Slug           string            `gorm:"uniqueIndex;size:140" json:"slug"`
	Name           string            `gorm:"size:180" json:"name"`
	Category       string            `gorm:"size:100;index" json:"category"`
	Brand          string            `gorm:"size:100" json:"brand"`
	ShortDesc      string            `gorm:"type:text" json:"short_desc"`
	Unit           string            `gorm:"size:20" json:"unit"`
	Price          float64           `gorm:"type:decimal(12,2);default:0" json:"price"`
	Active         bool              `gorm:"default:true;index" json:"active"`
	DatasheetName  string            `gorm:"size:140" json:"datasheet,omitempty"`
	Specifications map[string]string `gorm:"type:jsonb;serializer:json" json:"specifications,omitempty"`
	Images         []Image           `json:"images,omitempty"`
	Variants       []Variant         `json:"variants,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// Variant is a sellable size of a product, e.g. profile height B or a 25 kg bag.
type Variant struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID  uuid.UUID         `gorm:"type:uuid;index" json:"product_id"`
	Code       string            `gorm:"size:20" json:"code"`
	Label      string            `gorm:"size:120" json:"label"`
	SKU        string            `gorm:"size:100;index" json:"sku"`
	EAN        string            `gorm:"size:20;index" json:"ean"`
	Attributes map[string]string `gorm:"type:jsonb;serializer:json" json:"attributes,omitempty"`
	Price      float64           `gorm:"type:decimal(12,2);default:0" json:"price"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

type Image struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	URL       string    `gorm:"size:255" json:"url"`
	Alt       string    `gorm:"size:140" json:"alt"`
	CreatedAt time.Time `json:"created_at"`
}

type ProductFilter struct {
	Category string
	Query    string
	Sort     string
	Page     int
	PageSize int
}
