package md2deck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alnah/go-md2deck/internal/pipeline"
	"github.com/alnah/go-md2deck/internal/render"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.SourcePreprocessor = (*pipeline.DeckSourcePreprocessor)(nil)
	_ CommandRunner               = (*ExecRunner)(nil)
)

// Preprocessor turns annotated Markdown into a Marp deck.
// It holds no per-document state and is safe for concurrent use.
type Preprocessor struct {
	opts pipeline.Options
}

// NewPreprocessor creates a Preprocessor with default configuration.
func NewPreprocessor(opts ...Option) *Preprocessor {
	p := &Preprocessor{opts: pipeline.DefaultOptions()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process runs the full pipeline and renders the deck.
//
// When validation finds fatal defects, Process returns the result (without
// Markdown) together with an error wrapping ErrValidation. Recovers from
// internal panics to prevent crashes from propagating to callers.
func (p *Preprocessor) Process(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if strings.TrimSpace(input.Markdown) == "" {
		return nil, ErrEmptyMarkdown
	}

	opts := p.opts
	if input.Name != "" {
		opts.Logger = p.logger().With("file", input.Name)
	}

	res, err := pipeline.Run(ctx, input.Markdown, opts)
	if res == nil {
		return nil, err
	}

	result = &Result{
		Metadata:    res.Metadata,
		TOC:         res.TOC,
		Diagnostics: res.Diagnostics,
		Report:      res.Report,
	}
	if err != nil {
		if errors.Is(err, ErrValidation) {
			return result, err
		}
		return nil, err
	}

	result.Markdown, err = render.Marp(res.Metadata, res.Units, opts.Logger)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (p *Preprocessor) logger() *slog.Logger {
	if p.opts.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.opts.Logger
}

// RebasePaths rewrites relative image and link paths in deck so they resolve
// from targetDir instead of sourceDir. Fenced code and URLs are left alone.
func RebasePaths(deck, sourceDir, targetDir string) string {
	return pipeline.RebasePaths(deck, sourceDir, targetDir)
}
