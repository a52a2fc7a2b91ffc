package main

import (
	"errors"
	"os"

	md2deck "github.com/alnah/go-md2deck"
	"github.com/alnah/go-md2deck/internal/config"
)

// Exit codes for md2deck CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess    = 0 // Deck built
	ExitGeneral    = 1 // General/unexpected error
	ExitUsage      = 2 // Invalid flags or config
	ExitIO         = 3 // File not found, permission denied
	ExitValidation = 4 // Fatal layout defects
	ExitRenderer   = 5 // marp-cli missing or failed
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
// Batch failures join several errors; the first matching class wins in the
// order below.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Validation errors (exit 4)
	if errors.Is(err, md2deck.ErrValidation) {
		return ExitValidation
	}

	// Renderer errors (exit 5)
	if errors.Is(err, md2deck.ErrMarpNotFound) ||
		errors.Is(err, md2deck.ErrRender) {
		return ExitRenderer
	}

	// Usage/config errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, md2deck.ErrInvalidFormat) ||
		errors.Is(err, md2deck.ErrInvalidWorkers) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, md2deck.ErrReadMarkdown) ||
		errors.Is(err, md2deck.ErrWriteOutput) ||
		errors.Is(err, md2deck.ErrEmptyMarkdown) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	return ExitGeneral
}
