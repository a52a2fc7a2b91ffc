package layout

import (
	"regexp"
	"strings"

	"github.com/alnah/go-md2deck/internal/deck"
)

// Rule limits.
const (
	quoteMaxLen  = 350
	gridMaxLen   = 500
	metricMaxLen = 50
	focusMaxLen  = 120
	splitMaxList = 4
	gridMinItems = 2
)

// DefaultKeywords are the heading words that mark a parallel structure worth
// a grid even when the unit is long.
var DefaultKeywords = []string{
	"对比", "优势", "步骤", "模块", "核心", "特点", "环节", "路径", "案例", "要素", "维度", "一览", "方法",
	"comparison", "advantages", "steps", "modules", "core", "features", "stages", "roadmap",
	"cases", "factors", "dimensions", "overview", "methods", "pillars",
}

// metricPattern matches a heading that is only a figure.
var metricPattern = regexp.MustCompile(`^[\d.,%￥¥$€£万亿+-]+$`)

// Rule is one classification predicate. Rules are evaluated in order and the
// first match wins.
type Rule struct {
	Name  string
	Match func(s Shape) (deck.Tag, bool)
}

// Classifier assigns a layout to units the author left untagged.
type Classifier struct {
	rules    []Rule
	keywords *regexp.Regexp
	shaper   *shaper
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithKeywords replaces the grid keyword set. An empty set disables keyword
// matching.
func WithKeywords(words []string) ClassifierOption {
	return func(c *Classifier) {
		c.keywords = compileKeywords(words)
	}
}

// NewClassifier returns a classifier with the built-in rule order.
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		keywords: compileKeywords(DefaultKeywords),
		shaper:   newShaper(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.rules = []Rule{
		{Name: "quote", Match: matchQuote},
		{Name: "split", Match: matchSplit},
		{Name: "grid", Match: c.matchGrid},
		{Name: "metric", Match: matchMetric},
		{Name: "focus", Match: matchFocus},
	}
	return c
}

// Rules returns the rule list in evaluation order.
func (c *Classifier) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// Shape returns the structural summary of a unit body.
func (c *Classifier) Shape(body string) Shape {
	return c.shaper.shape(body)
}

// Classify returns the inferred tag for u and the name of the rule that
// produced it. ok is false when u already has a layout (a tag, a marker line
// or an authored class directive) or when no rule matched. Classify never
// returns the chapter layout.
func (c *Classifier) Classify(u deck.Unit) (tag deck.Tag, rule string, ok bool) {
	if !u.Tag.IsZero() || u.Markers > 0 || u.HasClassDirective() {
		return deck.Tag{}, "", false
	}
	s := c.Shape(u.Text())
	for _, r := range c.rules {
		if t, matched := r.Match(s); matched {
			return t, r.Name, true
		}
	}
	return deck.Tag{}, "", false
}

func matchQuote(s Shape) (deck.Tag, bool) {
	if s.HasQuote && !s.HasImage && s.CleanLen < quoteMaxLen {
		return deck.NewTag(deck.LayoutQuote), true
	}
	return deck.Tag{}, false
}

func matchSplit(s Shape) (deck.Tag, bool) {
	if s.HasImage && s.Items <= splitMaxList {
		return deck.NewTag(deck.LayoutSplit), true
	}
	return deck.Tag{}, false
}

func (c *Classifier) matchGrid(s Shape) (deck.Tag, bool) {
	if s.Items < gridMinItems || s.Items > deck.MaxGridColumns {
		return deck.Tag{}, false
	}
	keyword := c.keywords != nil && s.HasHeading && c.keywords.MatchString(s.Heading)
	if !keyword && s.CleanLen >= gridMaxLen {
		return deck.Tag{}, false
	}
	if s.Items == 3 && !s.HasHeading {
		return deck.NewTag(deck.LayoutCards), true
	}
	return deck.ColsTag(s.Items), true
}

func matchMetric(s Shape) (deck.Tag, bool) {
	if !s.HasHeading {
		return deck.Tag{}, false
	}
	figure := strings.NewReplacer("*", "", "_", "").Replace(s.Heading)
	if metricPattern.MatchString(strings.TrimSpace(figure)) && s.CleanLen < metricMaxLen {
		return deck.NewTag(deck.LayoutMetric), true
	}
	return deck.Tag{}, false
}

func matchFocus(s Shape) (deck.Tag, bool) {
	if s.HasHeading && s.CleanLen > 0 && s.CleanLen < focusMaxLen && !s.HasImage && !s.HasQuote {
		return deck.NewTag(deck.LayoutFocus), true
	}
	return deck.Tag{}, false
}

func compileKeywords(words []string) *regexp.Regexp {
	var quoted []string
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			quoted = append(quoted, regexp.QuoteMeta(w))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)` + strings.Join(quoted, "|"))
}
