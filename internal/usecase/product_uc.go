package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/phenrril/balkon/internal/domain"
)

// ProductUC serves catalog reads. Products only supply display labels;
// quantities always come from the calculator.
type ProductUC struct {
	Products domain.ProductRepo
	Systems  domain.SystemProductRepo
}

func (uc *ProductUC) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	if f.PageSize == 0 {
		f.PageSize = 20
	}
	return uc.Products.List(ctx, f)
}

func (uc *ProductUC) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	if slug == "" {
		return nil, errors.New("empty slug")
	}
	return uc.Products.FindBySlug(ctx, slug)
}

func (uc *ProductUC) Create(ctx context.Context, p *domain.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	return uc.Products.Save(ctx, p)
}

func (uc *ProductUC) Categories(ctx context.Context) ([]string, error) {
	return uc.Products.DistinctCategories(ctx)
}

func (uc *ProductUC) CreateVariant(ctx context.Context, v *domain.Variant) error {
	if v == nil {
		return errors.New("nil variant")
	}
	if v.ProductID == uuid.Nil {
		return errors.New("variant without product")
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return uc.Products.SaveVariant(ctx, v)
}

func (uc *ProductUC) ListVariants(ctx context.Context, productID uuid.UUID) ([]domain.Variant, error) {
	if productID == uuid.Nil {
		return nil, errors.New("product id")
	}
	return uc.Products.ListVariants(ctx, productID)
}

func (uc *ProductUC) SearchBySKU(ctx context.Context, sku string) (*domain.Product, *domain.Variant, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, nil, errors.New("empty sku")
	}
	return uc.Products.FindVariantBySKU(ctx, sku)
}

// SystemProducts lists the catalog products behind a calculator system.
func (uc *ProductUC) SystemProducts(ctx context.Context, systemID string) ([]domain.Product, error) {
	if systemID == "" {
		return nil, errors.New("empty system id")
	}
	if uc.Systems == nil {
		return []domain.Product{}, nil
	}
	return uc.Systems.ProductsFor(ctx, systemID)
}

func (uc *ProductUC) LinkSystemProduct(ctx context.Context, systemID string, productID uuid.UUID, role string, order int) error {
	if systemID == "" || productID == uuid.Nil {
		return errors.New("system and product are required")
	}
	if uc.Systems == nil {
		return errors.New("system products not configured")
	}
	return uc.Systems.Save(ctx, systemID, productID, role, order)
}

var slugReplacer = strings.NewReplacer(
	"á", "a", "ä", "a", "č", "c", "ď", "d", "é", "e", "í", "i", "ĺ", "l", "ľ", "l",
	"ň", "n", "ó", "o", "ô", "o", "ŕ", "r", "š", "s", "ť", "t", "ú", "u", "ý", "y", "ž", "z",
)

// Slugify lowercases, strips Slovak diacritics and joins words with dashes.
func Slugify(s string) string {
	s = slugReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
	var b strings.Builder
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
