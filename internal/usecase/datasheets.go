package usecase

import (
	"context"
	"path"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/balkon/internal/calc"
	"github.com/phenrril/balkon/internal/domain"
	"github.com/phenrril/balkon/internal/pdfgen"
)

const datasheetDir = "datasheets"

// SelectDatasheets loads the datasheet bundle of a variant. Missing files are
// logged and skipped; variants without a bundle yield an empty list.
func SelectDatasheets(ctx context.Context, store pdfgen.AssetStore, h calc.Height, d calc.Drain) []domain.Attachment {
	names := calc.DatasheetNames(h, d)
	out := make([]domain.Attachment, 0, len(names))
	if store == nil {
		return out
	}
	for _, name := range names {
		if ctx.Err() != nil {
			break
		}
		b, err := store.ReadFile(path.Join(datasheetDir, name))
		if err != nil {
			log.Warn().Err(err).Str("datasheet", name).Str("height", string(h)).Str("drain", string(d)).Msg("datasheet skipped")
			continue
		}
		out = append(out, domain.Attachment{Filename: name, Content: b, ContentType: "application/pdf"})
	}
	return out
}
