package pipeline

import (
	"sort"

	"github.com/alnah/go-md2deck/internal/deck"
)

// maxPromotedDepth is the deepest heading a page keeps; anything below
// becomes an ordered list item.
const maxPromotedDepth = 3

// PromoteHeadings maps the distinct heading depths of u to levels 1, 2 and 3
// in order and turns deeper headings into "1. text" items. Front, contents
// and back pages are left alone.
func PromoteHeadings(u deck.Unit) deck.Unit {
	if u.IsSystem() {
		return u
	}
	hs := deck.Headings(u.Lines)
	if len(hs) == 0 {
		return u
	}

	level := make(map[int]int)
	var depths []int
	for _, h := range hs {
		if _, ok := level[h.Depth]; !ok {
			level[h.Depth] = 0
			depths = append(depths, h.Depth)
		}
	}
	sort.Ints(depths)
	for i, d := range depths {
		level[d] = i + 1
	}

	u = u.Clone()
	for _, h := range hs {
		if l := level[h.Depth]; l <= maxPromotedDepth {
			u.Lines[h.Line] = deck.FormatHeading(l, h.Text)
		} else {
			u.Lines[h.Line] = "1. " + h.Text
		}
	}
	return u
}
