package render

import "errors"

var (
	// ErrBinaryNotFound indicates the quarto binary is not present on PATH.
	ErrBinaryNotFound = errors.New("quarto binary not found")

	// ErrRenderFailed indicates the external renderer exited non-zero. Fatal
	// for the whole run; remaining documents are not processed.
	ErrRenderFailed = errors.New("quarto render failed")
)
