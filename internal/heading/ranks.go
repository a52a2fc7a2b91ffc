// Package heading analyzes heading structure and canonicalizes heading text.
package heading

import (
	"sort"

	"github.com/alnah/go-md2deck/internal/deck"
)

// Ranks holds the three heading depths treated as structural for a document.
type Ranks struct {
	Primary   int // document title
	Secondary int // chapter
	Tertiary  int // sub-point
}

// DefaultRanks is used for slots a document does not fill.
var DefaultRanks = Ranks{Primary: 1, Secondary: 2, Tertiary: 3}

// AnalyzeRanks collects the depth of every heading outside fenced code and
// takes the three smallest distinct depths. Missing slots default to 1, 2, 3.
func AnalyzeRanks(lines []string) Ranks {
	seen := make(map[int]bool)
	var depths []int
	for _, h := range deck.Headings(lines) {
		if !seen[h.Depth] {
			seen[h.Depth] = true
			depths = append(depths, h.Depth)
		}
	}
	sort.Ints(depths)

	r := DefaultRanks
	slots := []*int{&r.Primary, &r.Secondary, &r.Tertiary}
	for i := 0; i < len(depths) && i < len(slots); i++ {
		*slots[i] = depths[i]
	}
	return r
}

// Significant reports whether depth is one of the three ranks.
func (r Ranks) Significant(depth int) bool {
	return depth == r.Primary || depth == r.Secondary || depth == r.Tertiary
}
