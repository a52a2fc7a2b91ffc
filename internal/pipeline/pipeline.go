package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-md2deck/internal/audit"
	"github.com/alnah/go-md2deck/internal/deck"
	"github.com/alnah/go-md2deck/internal/frontmatter"
	"github.com/alnah/go-md2deck/internal/heading"
	"github.com/alnah/go-md2deck/internal/layout"
)

// Result is the outcome of one preprocessing run.
type Result struct {
	Metadata    frontmatter.Metadata
	Ranks       heading.Ranks
	TOC         []TOCEntry
	Units       []deck.Unit
	Diagnostics audit.Diagnostics
	Report      audit.Report

	// LenientMetadata is true when the metadata block was read line by line.
	LenientMetadata bool
}

// state carries what every stage of one run shares.
type state struct {
	opts       Options
	log        *slog.Logger
	classifier *layout.Classifier
	splitter   Splitter
	flow       FlowPaginator
}

// Run preprocesses source into final units. When validation finds fatal
// defects Run returns the full result together with an error matching
// audit.ErrValidation.
func Run(ctx context.Context, source string, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if err := opts.Thresholds.Validate(); err != nil {
		return nil, err
	}
	log := opts.Logger

	pre := &DeckSourcePreprocessor{}
	source = pre.PreprocessSource(ctx, source)

	doc, err := frontmatter.Extract(source, opts.Defaults, opts.Now())
	if err != nil {
		return nil, fmt.Errorf("extracting metadata: %w", err)
	}
	if doc.Lenient {
		log.Warn("metadata block is not valid YAML, read line by line")
	}

	res := &Result{LenientMetadata: doc.Lenient}
	res.Ranks = heading.AnalyzeRanks(deck.SplitLines(doc.Body))
	log.Debug("heading ranks", "primary", res.Ranks.Primary, "secondary", res.Ranks.Secondary, "tertiary", res.Ranks.Tertiary)

	units := Paginate(doc.Body, res.Ranks)

	meta, found := DiscoverTitle(units, res.Ranks, doc.Metadata)
	if found {
		log.Info("title taken from first heading", "title", meta.Title)
	}
	res.Metadata = meta

	log.Debug("chapters found", "count", len(BuildTOC(units, res.Ranks, opts.TitleLimit)))
	units = TagLandmarks(units, res.Ranks, log)
	units = InjectSystemPages(units, log)
	res.TOC = BuildTOC(units, res.Ranks, opts.TitleLimit)
	for _, e := range res.TOC {
		if e.Truncated {
			log.Warn("contents title truncated", "title", e.Title, "display", e.Display)
		}
	}

	st := &state{
		opts:       opts,
		log:        log,
		classifier: layout.NewClassifier(classifierOptions(opts)...),
		splitter:   Splitter{Budget: opts.Thresholds.Default, Suffix: opts.ContinuationSuffix, Log: log},
		flow:       FlowPaginator{TOC: res.TOC, TOCTitle: opts.TOCTitle, Suffix: opts.ContinuationSuffix, Log: log},
	}
	res.Units, err = st.processUnits(ctx, units)
	if err != nil {
		return nil, err
	}

	v := audit.Validator{Thresholds: opts.Thresholds, Force: opts.Force}
	res.Diagnostics = v.Validate(res.Units)
	for _, d := range res.Diagnostics {
		attrs := []any{"unit", d.Unit + 1, "layout", d.Layout, "kind", string(d.Kind)}
		if d.Kind == audit.KindBudget {
			attrs = append(attrs, "count", d.Count, "limit", d.Limit)
		}
		if d.Severity == audit.SeverityFatal {
			log.Error(d.Message, attrs...)
		} else {
			log.Warn(d.Message, attrs...)
		}
	}

	res.Report = audit.NewReport(res.Units, TOCTitles(res.TOC))
	return res, res.Diagnostics.Err()
}

func classifierOptions(opts Options) []layout.ClassifierOption {
	if opts.Keywords == nil {
		return nil
	}
	return []layout.ClassifierOption{layout.WithKeywords(opts.Keywords)}
}

// processUnits runs the per-unit stages over a bounded pool and merges the
// results in document order.
func (st *state) processUnits(ctx context.Context, units []deck.Unit) ([]deck.Unit, error) {
	results := make([][]deck.Unit, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(st.opts.Workers)
	for i := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = st.processUnit(units[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []deck.Unit
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// processUnit splits, promotes, classifies and re-paginates one unit.
func (st *state) processUnit(u deck.Unit) []deck.Unit {
	var out []deck.Unit
	for _, sub := range st.splitter.Split(u) {
		sub = PromoteHeadings(sub)
		if tag, rule, ok := st.classifier.Classify(sub); ok {
			st.log.Debug("layout inferred", "layout", tag.Layout(), "rule", rule)
			sub.Tag = tag
			sub.Markers = 1
		}
		out = append(out, st.flow.Paginate(sub)...)
	}
	return out
}
