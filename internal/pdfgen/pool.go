package pdfgen

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/balkon/internal/calc"
)

// Pool bounds the number of concurrent renders and puts a deadline on each.
// It is itself a Renderer.
type Pool struct {
	renderer Renderer
	sem      chan struct{}
	timeout  time.Duration
}

func NewPool(r Renderer, maxConcurrent int, timeout time.Duration) *Pool {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Pool{renderer: r, sem: make(chan struct{}, maxConcurrent), timeout: timeout}
}

// Render waits for a free slot, then renders. The timeout covers the wait
// and the render together. A render that outlives its deadline keeps the
// slot until the renderer returns.
func (p *Pool) Render(ctx context.Context, payload *calc.Payload) (Document, error) {
	if payload == nil {
		return Document{}, ErrNoPayload
	}
	cancel := context.CancelFunc(func() {})
	if p.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
	}
	defer cancel()

	start := time.Now()
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		err := p.mapErr(ctx.Err())
		log.Warn().Err(err).Str("variant", payload.Variant()).Dur("waited", time.Since(start)).Msg("pdf render not started")
		return Document{}, err
	}

	type result struct {
		doc Document
		err error
	}
	done := make(chan result, 1)
	variant := payload.Variant()
	go func() {
		defer func() { <-p.sem }()
		doc, err := p.renderer.Render(ctx, payload)
		done <- result{doc, err}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = ctx.Err()
	}
	if res.err != nil {
		err := p.mapErr(res.err)
		log.Error().Err(err).Str("variant", variant).Dur("took", time.Since(start)).Msg("pdf render failed")
		return Document{}, err
	}
	log.Info().Str("variant", res.doc.Variant).Str("code", res.doc.Code).Int("pages", res.doc.Pages).
		Dur("took", time.Since(start)).Msg("pdf rendered")
	return res.doc, nil
}

func (p *Pool) mapErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Wrapf(ErrRenderTimeout, "after %s", p.timeout)
	}
	return err
}

// InFlight reports the number of renders holding a slot.
func (p *Pool) InFlight() int { return len(p.sem) }
