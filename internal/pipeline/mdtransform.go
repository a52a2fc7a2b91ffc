package pipeline

import (
	"context"
	"regexp"
	"strings"

	"github.com/alnah/go-md2deck/internal/deck"
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)
)

// SourcePreprocessor defines the contract for source cleanup before the
// deck stages run.
type SourcePreprocessor interface {
	PreprocessSource(ctx context.Context, content string) string
}

// DeckSourcePreprocessor normalizes authored Markdown.
type DeckSourcePreprocessor struct{}

// PreprocessSource applies all transformations to prepare the source.
func (p *DeckSourcePreprocessor) PreprocessSource(ctx context.Context, content string) string {
	// Check for cancellation before processing
	if ctx.Err() != nil {
		return content
	}

	content = normalizeLineEndings(content)
	content = compressBlankLines(content)
	return content
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// compressBlankLines limits consecutive blank lines to one outside fenced
// code. Whitespace-only lines count as blank and become empty.
func compressBlankLines(content string) string {
	lines := deck.SplitLines(content)
	out := make([]string, 0, len(lines))
	blank := false
	deck.WalkLines(lines, func(_ int, line string, inFence bool) {
		if inFence {
			out = append(out, line)
			blank = false
			return
		}
		if strings.TrimSpace(line) == "" {
			line = ""
			if blank {
				return
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	})
	return strings.Join(out, "\n")
}
