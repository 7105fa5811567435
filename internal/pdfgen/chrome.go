package pdfgen

import (
	"context"
	"encoding/base64"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"
)

// ChromeConverter prints HTML with a local headless Chrome. Each call starts
// its own browser; the Pool bounds how many run at once.
type ChromeConverter struct {
	execPath string
}

func NewChromeConverter(execPath string) *ChromeConverter {
	return &ChromeConverter{execPath: execPath}
}

func (c *ChromeConverter) ConvertHTML(ctx context.Context, html []byte) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	if c.execPath != "" {
		opts = append(opts, chromedp.ExecPath(c.execPath))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	runCtx, cancelRun := chromedp.NewContext(allocCtx)
	defer cancelRun()

	var buf []byte
	url := "data:text/html;base64," + base64.StdEncoding.EncodeToString(html)
	err := chromedp.Run(runCtx,
		emulation.SetEmulatedMedia().WithMedia("print"),
		chromedp.Navigate(url),
		chromedp.ActionFunc(func(ctx context.Context) error {
			b, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			if err != nil {
				return err
			}
			buf = b
			return nil
		}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "chromedp print")
	}
	return buf, nil
}
