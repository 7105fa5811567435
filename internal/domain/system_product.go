package domain

import (
	"time"

	"github.com/google/uuid"
)

// SystemProduct links a calculator system to the catalog products it uses.
type SystemProduct struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SystemID     string    `gorm:"size:40;index" json:"system_id"`
	ProductID    uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Role         string    `gorm:"size:40" json:"role"`
	DisplayOrder int       `gorm:"default:0" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}
