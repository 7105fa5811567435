package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/balkon/internal/domain"
)

type SystemProductRepo struct{ db *gorm.DB }

func NewSystemProductRepo(db *gorm.DB) *SystemProductRepo {
	return &SystemProductRepo{db: db}
}

// Save links a product to a system, or updates role and order of an existing link.
func (r *SystemProductRepo) Save(ctx context.Context, systemID string, productID uuid.UUID, role string, order int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.SystemProduct
		err := tx.Where("system_id = ? AND product_id = ?", systemID, productID).First(&existing).Error
		switch {
		case err == nil:
			return tx.Model(&existing).Updates(map[string]any{"role": role, "display_order": order}).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&domain.SystemProduct{
				ID:           uuid.New(),
				SystemID:     systemID,
				ProductID:    productID,
				Role:         role,
				DisplayOrder: order,
				CreatedAt:    time.Now(),
			}).Error
		}
		return err
	})
}

// ProductsFor returns the active catalog products of a system in display order.
func (r *SystemProductRepo) ProductsFor(ctx context.Context, systemID string) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.WithContext(ctx).
		Table("products").
		Select("products.*").
		Joins("INNER JOIN system_products ON products.id = system_products.product_id").
		Where("system_products.system_id = ? AND products.active = ?", systemID, true).
		Order("system_products.display_order asc").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		}).
		Preload("Variants").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
