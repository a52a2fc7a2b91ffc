package pipeline

import (
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/alnah/go-md2deck/internal/frontmatter"
	"github.com/alnah/go-md2deck/internal/layout"
)

// Defaults for the text the pipeline writes itself.
const (
	DefaultTOCTitle           = "目录"
	DefaultContinuationSuffix = "(续)"
	DefaultTitleLimit         = 18
)

// Options configures one preprocessing run.
type Options struct {
	Force              bool
	Thresholds         layout.Thresholds
	Keywords           []string // nil keeps layout.DefaultKeywords
	TOCTitle           string
	ContinuationSuffix string
	TitleLimit         int // contents display width in runes
	Workers            int // per-unit fan-out; <= 0 uses GOMAXPROCS
	Defaults           frontmatter.Defaults
	Now                func() time.Time
	Logger             *slog.Logger
}

// DefaultOptions returns the built-in options with a discard logger.
func DefaultOptions() Options {
	return Options{
		Thresholds:         layout.DefaultThresholds(),
		TOCTitle:           DefaultTOCTitle,
		ContinuationSuffix: DefaultContinuationSuffix,
		TitleLimit:         DefaultTitleLimit,
		Defaults:           frontmatter.DefaultDefaults(),
		Now:                time.Now,
		Logger:             slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// withDefaults fills every zero field from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	o.Thresholds = d.Thresholds.Merge(o.Thresholds)
	if o.TOCTitle == "" {
		o.TOCTitle = d.TOCTitle
	}
	if o.ContinuationSuffix == "" {
		o.ContinuationSuffix = d.ContinuationSuffix
	}
	if o.TitleLimit <= 0 {
		o.TitleLimit = d.TitleLimit
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	o.Defaults = d.Defaults.Merge(o.Defaults)
	if o.Now == nil {
		o.Now = d.Now
	}
	if o.Logger == nil {
		o.Logger = d.Logger
	}
	return o
}
