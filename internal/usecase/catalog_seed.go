package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/balkon/internal/calc"
	"github.com/phenrril/balkon/internal/domain"
)

const (
	RoleMembrane    = "membrane"
	RoleEdgeProfile = "edge_profile"
	RoleGutter      = "gutter_profile"
	RoleFloorDrain  = "floor_drain"
	RoleAdhesive    = "adhesive"
)

type seedItem struct {
	role      string
	category  string
	unit      string
	component calc.Component
}

func systemComponents(s calc.System) []seedItem {
	items := []seedItem{
		{RoleMembrane, "Hydroizolácia", "m²", s.Membrane},
		{RoleEdgeProfile, "Profily", "ks", s.EdgeProfile},
	}
	if s.Gutter != nil {
		items = append(items, seedItem{RoleGutter, "Profily", "ks", *s.Gutter})
	}
	if s.FloorDrain != nil {
		items = append(items, seedItem{RoleFloorDrain, "Odvodnenie", "ks", *s.FloorDrain})
	}
	return append(items, seedItem{RoleAdhesive, "Lepidlá", "vrece", s.Adhesive})
}

// SeedCatalog creates one product per system component and links it to every
// system using it. Products whose slug already exists are reused, so the
// seed can run on every start.
func SeedCatalog(ctx context.Context, uc *ProductUC) error {
	ids := map[string]uuid.UUID{}
	created := 0
	for _, sys := range calc.Systems() {
		for order, it := range systemComponents(sys) {
			slug := Slugify(it.component.Name)
			id, ok := ids[slug]
			if !ok {
				p, err := uc.GetBySlug(ctx, slug)
				switch {
				case err == nil:
				case errors.Is(err, domain.ErrNotFound):
					if p, err = seedProduct(ctx, uc, slug, it); err != nil {
						return err
					}
					created++
				default:
					return fmt.Errorf("seed %s: %w", slug, err)
				}
				id = p.ID
				ids[slug] = id
			}
			if uc.Systems == nil {
				continue
			}
			if err := uc.LinkSystemProduct(ctx, sys.ID, id, it.role, order); err != nil {
				return fmt.Errorf("link %s to %s: %w", slug, sys.ID, err)
			}
		}
	}
	log.Info().Int("created", created).Int("products", len(ids)).Msg("catalog seeded")
	return nil
}

func seedProduct(ctx context.Context, uc *ProductUC, slug string, it seedItem) (*domain.Product, error) {
	p := &domain.Product{
		Slug:          slug,
		Name:          it.component.Name,
		Category:      it.category,
		ShortDesc:     it.component.Spec,
		Unit:          it.unit,
		Active:        true,
		DatasheetName: it.component.Datasheet,
	}
	if err := uc.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("seed %s: %w", slug, err)
	}
	if it.role != RoleEdgeProfile {
		return p, nil
	}
	for _, c := range calc.ProfileCodes() {
		v := &domain.Variant{
			ProductID: p.ID,
			Code:      c.Code,
			Label:     fmt.Sprintf("%s %s, dlažba do %.0f mm", c.Family, c.Code, c.MaxMM),
			SKU:       fmt.Sprintf("%s-%s", slug, c.Code),
			Attributes: map[string]string{
				"family":          c.Family,
				"max_tile_mm":     fmt.Sprintf("%.0f", c.MaxMM),
				"piece_length_mm": "2500",
			},
		}
		if err := uc.CreateVariant(ctx, v); err != nil {
			return nil, fmt.Errorf("seed variant %s: %w", v.SKU, err)
		}
	}
	return p, nil
}
