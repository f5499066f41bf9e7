package render

import "errors"

// Sentinel errors for chart rendering.
var (
	// ErrEmptyChart means the spec has nothing to draw: no points, or only zero-valued slices.
	ErrEmptyChart = errors.New("nothing to draw")
	ErrRender     = errors.New("render chart")
)
