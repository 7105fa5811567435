package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/balkon/internal/domain"
)

type QuoteRequestRepo struct{ db *gorm.DB }

func NewQuoteRequestRepo(db *gorm.DB) *QuoteRequestRepo { return &QuoteRequestRepo{db: db} }

func (r *QuoteRequestRepo) Create(ctx context.Context, q *domain.QuoteRequest) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	if q.Status == "" {
		q.Status = domain.QuoteStatusNew
	}
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *QuoteRequestRepo) FindByCode(ctx context.Context, code string) (*domain.QuoteRequest, error) {
	var q domain.QuoteRequest
	if err := r.db.WithContext(ctx).First(&q, "document_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *QuoteRequestRepo) ListRecent(ctx context.Context, limit int) ([]domain.QuoteRequest, error) {
	if limit <= 0 {
		limit = 50
	}
	var list []domain.QuoteRequest
	if err := r.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *QuoteRequestRepo) MarkNotified(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.QuoteRequest{}).Where("id = ?", id).Update("notified", true).Error
}
