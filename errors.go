package md2deck

import (
	"errors"

	"github.com/alnah/go-md2deck/internal/audit"
)

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown = errors.New("markdown content cannot be empty")
	ErrReadMarkdown  = errors.New("failed to read markdown")
	ErrWriteOutput   = errors.New("failed to write output")

	// ErrValidation is returned when the deck has fatal diagnostics. The
	// error is an *audit.ValidationError listing them.
	ErrValidation = audit.ErrValidation

	// Option validation errors.
	ErrInvalidFormat  = errors.New("invalid output format")
	ErrInvalidWorkers = errors.New("invalid worker count")

	// Renderer errors.
	ErrMarpNotFound = errors.New("marp command not found")
	ErrRender       = errors.New("marp rendering failed")
)
