package pdfgen

import "github.com/pkg/errors"

var (
	// ErrMissingPageAsset means a page of the plan has no template or draw
	// function. The document is not produced.
	ErrMissingPageAsset = errors.New("missing page asset")
	ErrMissingFont      = errors.New("missing font asset")
	ErrRenderTimeout    = errors.New("render timeout")
	// ErrRender wraps rendering engine failures.
	ErrRender    = errors.New("could not generate PDF")
	ErrEmptyPlan = errors.New("empty page plan")
	ErrNoPayload = errors.New("payload is required")
	ErrQueueFull = errors.New("too many pending render jobs")
)

// missingAsset tags an asset failure with the sentinel and the asset name.
func missingAsset(sentinel error, name string, cause error) error {
	if cause == nil {
		return errors.Wrap(sentinel, name)
	}
	return &assetError{sentinel: sentinel, name: name, cause: cause}
}

type assetError struct {
	sentinel error
	name     string
	cause    error
}

func (e *assetError) Error() string { return e.sentinel.Error() + ": " + e.name + ": " + e.cause.Error() }

func (e *assetError) Is(target error) bool { return target == e.sentinel }

func (e *assetError) Unwrap() error { return e.cause }
