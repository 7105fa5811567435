package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	pgrepo "github.com/phenrril/balkon/internal/adapters/repo/postgres"
	"github.com/phenrril/balkon/internal/adapters/storage/localfs"
	"github.com/phenrril/balkon/internal/app"
	"github.com/phenrril/balkon/internal/calc"
	"github.com/phenrril/balkon/internal/config"
	"github.com/phenrril/balkon/internal/usecase"
)

func main() {
	_ = godotenv.Load()
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	cfg := config.Load()

	cmd := &cli.Command{
		Name:  "balkon-pdf",
		Usage: "Render balcony documents and inspect page plans offline",
		Commands: []*cli.Command{
			{
				Name:  "render",
				Usage: "Render the document of a payload file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "payload", Aliases: []string{"p"}, Usage: "payload JSON file, bare or wrapped in {\"payload\": ...}", Required: true},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output PDF path (default: <variant>-final.pdf)"},
					&cli.StringFlag{Name: "strategy", Usage: "draw, chrome or gotenberg", Value: cfg.PDF.Strategy},
					&cli.StringFlag{Name: "assets", Usage: "assets directory", Value: cfg.AssetsDir},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return render(ctx, cmd, cfg.PDF)
				},
			},
			{
				Name:  "plan",
				Usage: "Print the page plan of a variant",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "height", Usage: "LOW, MEDIUM or HIGH", Required: true},
					&cli.StringFlag{Name: "drain", Usage: "EDGE_FREE, EDGE_GUTTER or FLOOR_DRAIN", Required: true},
				},
				Action: plan,
			},
			{
				Name:  "bom",
				Usage: "Export the bill of materials of a payload as xlsx",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "payload", Aliases: []string{"p"}, Required: true},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}},
				},
				Action: bom,
			},
			{
				Name:  "quotes",
				Usage: "Inspect stored offer requests (needs the database)",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List the latest offer requests",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "limit", Value: 20},
						},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							return listQuotes(ctx, cmd, cfg)
						},
					},
					{
						Name:  "render",
						Usage: "Render a stored offer request again",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "code", Usage: "document code, e.g. BK-1A2B3C4D", Required: true},
							&cli.StringFlag{Name: "out", Aliases: []string{"o"}},
							&cli.StringFlag{Name: "strategy", Value: cfg.PDF.Strategy},
							&cli.StringFlag{Name: "assets", Value: cfg.AssetsDir},
						},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							return rerenderQuote(ctx, cmd, cfg)
						},
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		zlog.Fatal().Err(err).Msg("balkon-pdf")
	}
}

func readPayload(path string) (calc.Payload, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return calc.Payload{}, err
	}
	var wrapped struct {
		Payload *calc.Payload `json:"payload"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return calc.Payload{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if wrapped.Payload != nil {
		return *wrapped.Payload, nil
	}
	var p calc.Payload
	if err := json.Unmarshal(b, &p); err != nil {
		return calc.Payload{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return p, nil
}

func render(ctx context.Context, cmd *cli.Command, pdfCfg config.PDF) error {
	p, err := readPayload(cmd.String("payload"))
	if err != nil {
		return err
	}
	p = p.Recompute()
	if err := p.Validate(); err != nil {
		return err
	}

	pdfCfg.Strategy = strings.ToLower(cmd.String("strategy"))
	r, err := app.NewRenderer(pdfCfg, localfs.New(cmd.String("assets")))
	if err != nil {
		return err
	}
	if pdfCfg.RenderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pdfCfg.RenderTimeout)
		defer cancel()
	}
	doc, err := r.Render(ctx, &p)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	out := cmd.String("out")
	if out == "" {
		out = doc.FileName()
	}
	if err := os.WriteFile(out, doc.Bytes, 0644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	zlog.Info().Str("file", out).Int("pages", doc.Pages).Str("code", doc.Code).Msg("document written")
	return nil
}

func plan(_ context.Context, cmd *cli.Command) error {
	h := calc.Height(strings.ToUpper(cmd.String("height")))
	d := calc.Drain(strings.ToUpper(cmd.String("drain")))
	if !h.Valid() || !d.Valid() {
		return fmt.Errorf("unknown variant %s/%s", h, d)
	}
	for i, page := range calc.ResolvePagePlan(h, d) {
		fmt.Printf("%d. %-22s %s\n", i+1, page.Template(), page.Title())
	}
	if names := calc.DatasheetNames(h, d); len(names) > 0 {
		fmt.Printf("\ndatasheets: %s\n", strings.Join(names, ", "))
	}
	return nil
}

func bom(_ context.Context, cmd *cli.Command) error {
	p, err := readPayload(cmd.String("payload"))
	if err != nil {
		return err
	}
	b, err := usecase.BOMWorkbook(p)
	if err != nil {
		return err
	}
	out := cmd.String("out")
	if out == "" {
		out = p.Recompute().Variant() + "-material.xlsx"
	}
	return os.WriteFile(out, b, 0644)
}

func quoteUC(cmd *cli.Command, cfg *config.Config, withRenderer bool) (*usecase.QuoteUC, error) {
	db, err := gorm.Open(postgres.Open(cfg.DB.URL()), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	uc := &usecase.QuoteUC{Quotes: pgrepo.NewQuoteRequestRepo(db), AppID: cfg.AppID}
	if withRenderer {
		pdfCfg := cfg.PDF
		pdfCfg.Strategy = strings.ToLower(cmd.String("strategy"))
		if uc.Renderer, err = app.NewRenderer(pdfCfg, localfs.New(cmd.String("assets"))); err != nil {
			return nil, err
		}
	}
	return uc, nil
}

func listQuotes(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	uc, err := quoteUC(cmd, cfg, false)
	if err != nil {
		return err
	}
	list, err := uc.Recent(ctx, int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tCREATED\tVARIANT\tAREA\tEMAIL\tSTATUS\tNOTIFIED")
	for _, q := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%t\n",
			q.DocumentCode, q.CreatedAt.Format("02.01.2006 15:04"), q.Variant,
			calc.FormatNumber(q.Area), q.Email, q.Status, q.Notified)
	}
	return tw.Flush()
}

func rerenderQuote(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	uc, err := quoteUC(cmd, cfg, true)
	if err != nil {
		return err
	}
	doc, err := uc.Rerender(ctx, cmd.String("code"))
	if err != nil {
		return err
	}
	out := cmd.String("out")
	if out == "" {
		out = doc.Code + "-" + doc.FileName()
	}
	if err := os.WriteFile(out, doc.Bytes, 0644); err != nil {
		return err
	}
	zlog.Info().Str("file", out).Int("pages", doc.Pages).Msg("document written")
	return nil
}
