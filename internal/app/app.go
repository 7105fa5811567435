package app

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/phenrril/balkon/internal/adapters/httpserver"
	"github.com/phenrril/balkon/internal/adapters/mail"
	"github.com/phenrril/balkon/internal/adapters/notify/telegram"
	"github.com/phenrril/balkon/internal/adapters/repo/postgres"
	"github.com/phenrril/balkon/internal/adapters/storage/localfs"
	"github.com/phenrril/balkon/internal/config"
	"github.com/phenrril/balkon/internal/domain"
	"github.com/phenrril/balkon/internal/pdfgen"
	"github.com/phenrril/balkon/internal/usecase"
)

type App struct {
	DB     *gorm.DB
	Config *config.Config
	Assets *localfs.Store
	Jobs   *pdfgen.Jobs

	CalcUC    *usecase.CalcUC
	ProductUC *usecase.ProductUC
	QuoteUC   *usecase.QuoteUC
}

// NewApp wires repositories, the PDF pipeline and the use cases. Render jobs
// live as long as ctx.
func NewApp(ctx context.Context, db *gorm.DB, cfg *config.Config) (*App, error) {
	if _, err := os.Stat(cfg.AssetsDir); err != nil {
		return nil, fmt.Errorf("assets dir: %w", err)
	}
	assets := localfs.New(cfg.AssetsDir)

	renderer, err := NewRenderer(cfg.PDF, assets)
	if err != nil {
		return nil, err
	}
	pool := pdfgen.NewPool(renderer, cfg.PDF.MaxConcurrent, cfg.PDF.RenderTimeout)

	prodRepo := postgres.NewProductRepo(db)
	sysRepo := postgres.NewSystemProductRepo(db)
	custRepo := postgres.NewCustomerRepo(db)
	quoteRepo := postgres.NewQuoteRequestRepo(db)

	mailer := NewMailer(cfg.SMTP)
	notifier := telegram.New(cfg.Telegram.Token, cfg.Telegram.ChatIDs)

	app := &App{DB: db, Config: cfg, Assets: assets}
	app.Jobs = pdfgen.NewJobs(ctx, pool, cfg.PDF.JobTTL).Limit(cfg.PDF.MaxPendingJobs, cfg.PDF.MaxStoredJobs)
	app.CalcUC = &usecase.CalcUC{}
	app.ProductUC = &usecase.ProductUC{Products: prodRepo, Systems: sysRepo}
	app.QuoteUC = &usecase.QuoteUC{
		Renderer:   pool,
		Customers:  custRepo,
		Quotes:     quoteRepo,
		Mailer:     mailer,
		Notifier:   notifier,
		Assets:     assets,
		AdminEmail: cfg.OfferNotifyEmail,
		AppID:      cfg.AppID,
	}
	return app, nil
}

// NewMailer returns nil when SMTP is not configured; quote emails then fail
// with ErrEmailDelivery and the PDF stays downloadable.
func NewMailer(cfg config.SMTP) domain.Mailer {
	if !cfg.Configured() {
		log.Warn().Msg("SMTP not configured, quote emails are disabled")
		return nil
	}
	return mail.New(cfg.Host, cfg.Port, cfg.User, cfg.Pass, cfg.From)
}

// NewRenderer builds the renderer named by cfg.Strategy.
func NewRenderer(cfg config.PDF, assets pdfgen.AssetStore) (pdfgen.Renderer, error) {
	switch cfg.Strategy {
	case "", "draw":
		return pdfgen.NewDrawRenderer(assets), nil
	case "chrome":
		return pdfgen.NewHTMLRenderer(assets, pdfgen.NewChromeConverter(cfg.ChromePath), pdfgen.PDFCPUMerger{}, pdfgen.CountPages), nil
	case "gotenberg":
		g := pdfgen.NewGotenbergClient(cfg.GotenbergURL, cfg.GotenbergUser, cfg.GotenbergPassword)
		return pdfgen.NewHTMLRenderer(assets, g, g, pdfgen.CountPages), nil
	}
	return nil, fmt.Errorf("unknown PDF_STRATEGY %q", cfg.Strategy)
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.CalcUC, a.ProductUC, a.QuoteUC, a.Jobs, httpserver.Options{
		MaxBodyBytes:   a.Config.MaxBodyBytes,
		PDFRateLimit:   a.Config.PDFRateLimit,
		TrustedProxies: a.Config.TrustedProxies,
		Static:         a.Assets.FS(),
	})
}

func (a *App) MigrateAndSeed(ctx context.Context) error {
	if err := a.DB.AutoMigrate(
		&domain.Product{}, &domain.Variant{}, &domain.Image{}, &domain.Customer{}, &domain.SystemProduct{}, &domain.QuoteRequest{},
	); err != nil {
		return err
	}

	_ = a.DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_variants_sku_unique ON variants (sku) WHERE sku IS NOT NULL AND sku <> ''").Error
	_ = a.DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_variants_ean_unique ON variants (ean) WHERE ean IS NOT NULL AND ean <> ''").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_variants_attributes_gin ON variants USING gin (attributes)").Error
	_ = a.DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_system_products_unique ON system_products (system_id, product_id)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_quote_requests_created ON quote_requests (created_at DESC)").Error

	return usecase.SeedCatalog(ctx, a.ProductUC)
}
