package layout

import (
	"errors"
	"fmt"

	"github.com/alnah/go-md2deck/internal/deck"
)

// ErrInvalidThreshold indicates a non-positive budget.
var ErrInvalidThreshold = errors.New("invalid threshold")

// Thresholds maps layout categories to their maximum clean-text rune count.
type Thresholds struct {
	Default   int `yaml:"default"`
	Chapter   int `yaml:"chapter"`   // front, back, chapter
	Highlight int `yaml:"highlight"` // split, quote
	Grid      int `yaml:"grid"`      // cards, colsN
	Contents  int `yaml:"contents"`  // toc
}

// DefaultThresholds returns the built-in budgets.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Default:   250,
		Chapter:   150,
		Highlight: 180,
		Grid:      350,
		Contents:  2000,
	}
}

// Budget returns the rune budget for a unit tagged t.
func (t Thresholds) Budget(tag deck.Tag) int {
	switch {
	case tag.Is(deck.LayoutFront, deck.LayoutBack, deck.LayoutChapter):
		return t.Chapter
	case tag.Is(deck.LayoutSplit, deck.LayoutQuote):
		return t.Highlight
	case tag.Is(deck.LayoutTOC):
		return t.Contents
	case IsGrid(tag):
		return t.Grid
	default:
		return t.Default
	}
}

// Merge returns t with every non-zero field of o applied.
func (t Thresholds) Merge(o Thresholds) Thresholds {
	if o.Default != 0 {
		t.Default = o.Default
	}
	if o.Chapter != 0 {
		t.Chapter = o.Chapter
	}
	if o.Highlight != 0 {
		t.Highlight = o.Highlight
	}
	if o.Grid != 0 {
		t.Grid = o.Grid
	}
	if o.Contents != 0 {
		t.Contents = o.Contents
	}
	return t
}

// Validate checks every budget is positive.
func (t Thresholds) Validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"default", t.Default},
		{"chapter", t.Chapter},
		{"highlight", t.Highlight},
		{"grid", t.Grid},
		{"contents", t.Contents},
	}
	for _, f := range fields {
		if f.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidThreshold, f.name, f.value)
		}
	}
	return nil
}
