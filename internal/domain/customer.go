package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"size:140;uniqueIndex"`
	Name      string    `gorm:"size:140"`
	Company   string    `gorm:"size:140"`
	Phone     string    `gorm:"size:60"`
	CreatedAt time.Time
}

// Label is the customer line printed on documents: "Name, Company".
func (c *Customer) Label() string {
	if c == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	for _, s := range []string{c.Name, c.Company} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}
