package pdfgen

import (
	"bytes"
	"context"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pkg/errors"
)

func init() {
	api.DisableConfigDir()
}

// PDFCPUMerger merges in process with pdfcpu.
type PDFCPUMerger struct{}

func (PDFCPUMerger) Merge(ctx context.Context, pdfs [][]byte) ([]byte, error) {
	if len(pdfs) == 0 {
		return nil, ErrEmptyPlan
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rs := make([]io.ReadSeeker, len(pdfs))
	for i, b := range pdfs {
		rs[i] = bytes.NewReader(b)
	}
	var out bytes.Buffer
	if err := api.MergeRaw(rs, &out, false, model.NewDefaultConfiguration()); err != nil {
		return nil, errors.Wrap(err, "pdfcpu merge")
	}
	return out.Bytes(), nil
}

// CountPages reads the page count of a PDF.
func CountPages(pdf []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(pdf), model.NewDefaultConfiguration())
	if err != nil {
		return 0, errors.Wrap(err, "pdfcpu page count")
	}
	return n, nil
}
