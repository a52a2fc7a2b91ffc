package md2deck

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alnah/go-md2deck/internal/audit"
	"github.com/alnah/go-md2deck/internal/frontmatter"
	"github.com/alnah/go-md2deck/internal/layout"
	"github.com/alnah/go-md2deck/internal/pipeline"
)

// Format is the artifact type marp-cli produces.
type Format string

// Output formats.
const (
	FormatPPTX Format = "pptx"
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
)

// Validate checks that f is a known format. The empty format means PPTX.
func (f Format) Validate() error {
	switch f {
	case "", FormatPPTX, FormatPDF, FormatHTML:
		return nil
	}
	return fmt.Errorf("%w: %q (must be pptx, pdf or html)", ErrInvalidFormat, string(f))
}

// Extension returns the file extension of f without the dot.
func (f Format) Extension() string {
	if f == "" {
		return string(FormatPPTX)
	}
	return string(f)
}

// ParseFormat parses a case-insensitive format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if err := f.Validate(); err != nil {
		return "", err
	}
	if f == "" {
		f = FormatPPTX
	}
	return f, nil
}

// Aliases for types that appear in results and options.
type (
	Thresholds  = layout.Thresholds
	Defaults    = frontmatter.Defaults
	Metadata    = frontmatter.Metadata
	TOCEntry    = pipeline.TOCEntry
	Diagnostic  = audit.Diagnostic
	Diagnostics = audit.Diagnostics
	Report      = audit.Report
)

// DefaultThresholds returns the built-in per-layout budgets.
func DefaultThresholds() Thresholds {
	return layout.DefaultThresholds()
}

// Input is one document to preprocess.
type Input struct {
	Markdown string
	Name     string // used in log records only
}

// Result holds the rendered deck and everything learned while building it.
type Result struct {
	Markdown    string // Marp-ready Markdown
	Metadata    Metadata
	TOC         []TOCEntry
	Diagnostics Diagnostics
	Report      Report
}

// Option configures a Preprocessor.
type Option func(*Preprocessor)

// WithForce downgrades layout contract and atomic budget violations to
// warnings.
func WithForce(force bool) Option {
	return func(p *Preprocessor) {
		p.opts.Force = force
	}
}

// WithLogger sets the logger stage messages go to.
func WithLogger(l *slog.Logger) Option {
	return func(p *Preprocessor) {
		p.opts.Logger = l
	}
}

// WithThresholds overrides budgets. Zero fields keep the built-in values.
func WithThresholds(t Thresholds) Option {
	return func(p *Preprocessor) {
		p.opts.Thresholds = t
	}
}

// WithWorkers bounds the per-slide fan-out. Zero or less uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(p *Preprocessor) {
		p.opts.Workers = n
	}
}

// WithNow sets the clock used for default dates.
func WithNow(now func() time.Time) Option {
	return func(p *Preprocessor) {
		p.opts.Now = now
	}
}

// WithKeywords replaces the heading vocabulary that marks grid slides.
func WithKeywords(words []string) Option {
	return func(p *Preprocessor) {
		p.opts.Keywords = words
	}
}

// WithDateFormat sets the format of generated dates: a preset name (iso,
// european, us, long, cjk) or a token format such as "DD/MM/YYYY".
func WithDateFormat(format string) Option {
	return func(p *Preprocessor) {
		p.opts.Defaults.DateFormat = format
	}
}

// WithTOCTitle sets the heading of generated contents pages.
func WithTOCTitle(title string) Option {
	return func(p *Preprocessor) {
		p.opts.TOCTitle = title
	}
}

// WithContinuationSuffix sets the suffix added to the heading of split slides.
func WithContinuationSuffix(suffix string) Option {
	return func(p *Preprocessor) {
		p.opts.ContinuationSuffix = suffix
	}
}

// WithDefaults sets the metadata used when a document leaves it out. Empty
// fields keep the built-in values; DateFormat is left to WithDateFormat when
// d.DateFormat is empty.
func WithDefaults(d Defaults) Option {
	return func(p *Preprocessor) {
		format := p.opts.Defaults.DateFormat
		p.opts.Defaults = d
		if d.DateFormat == "" {
			p.opts.Defaults.DateFormat = format
		}
	}
}
