// Package layout holds the layout taxonomy, per-layout content budgets and
// the rule-based classifier that picks a layout for untagged units.
package layout

import "github.com/alnah/go-md2deck/internal/deck"

// IsAtomic reports whether t cannot be split without breaking its visual
// contract.
func IsAtomic(t deck.Tag) bool {
	return t.Is(deck.LayoutQuote, deck.LayoutSplit, deck.LayoutFocus, deck.LayoutMetric, deck.LayoutChapter)
}

// IsGrid reports whether t is cards or a colsN layout.
func IsGrid(t deck.Tag) bool {
	if t.Is(deck.LayoutCards) {
		return true
	}
	_, ok := t.GridColumns()
	return ok
}

// IsFlow reports whether t is built from list items and can be re-split by
// item count.
func IsFlow(t deck.Tag) bool {
	return t.Is(deck.LayoutTOC) || IsGrid(t)
}

// IsSystem reports whether t is a front, contents or back page.
func IsSystem(t deck.Tag) bool {
	return t.Is(deck.LayoutFront, deck.LayoutTOC, deck.LayoutBack)
}

// BaseItemLimit returns the items one page of a flow layout holds before
// density adjustment. ok is false for non-flow tags.
func BaseItemLimit(t deck.Tag) (limit int, ok bool) {
	switch {
	case t.Is(deck.LayoutTOC):
		return 4, true
	case t.Is(deck.LayoutCards):
		return 6, true
	}
	return t.GridColumns()
}
