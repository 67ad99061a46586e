package render

import "errors"

// Sentinel error kinds for chart rendering.
var (
	ErrUnsupportedFormat = errors.New("unsupported chart format")
	ErrInvalidDataset    = errors.New("invalid dataset")
	ErrRender            = errors.New("chart render failed")
)
