package pipeline

import (
	"strings"

	"github.com/alnah/go-md2deck/internal/deck"
	"github.com/alnah/go-md2deck/internal/heading"
)

// InsertBoundaries puts a boundary line before every layout marker and every
// significant heading outside fenced code. No boundary is added before the
// first content line, nor when the previous non-blank, non-comment line is
// already a boundary or a marker.
func InsertBoundaries(lines []string, ranks heading.Ranks) []string {
	out := make([]string, 0, len(lines)+len(lines)/4)
	prev := "" // last non-blank, non-comment line
	deck.WalkLines(lines, func(_ int, line string, inFence bool) {
		if !inFence && prev != "" && startsUnit(line, ranks) {
			if !deck.IsBoundary(prev) && !deck.IsMarker(prev) {
				out = append(out, "---")
				prev = "---"
			}
		}
		out = append(out, line)
		if strings.TrimSpace(line) != "" && (inFence || !deck.IsComment(line)) {
			prev = line
		}
	})
	return out
}

func startsUnit(line string, ranks heading.Ranks) bool {
	if deck.IsMarker(line) {
		return true
	}
	depth, _, ok := deck.ParseHeading(line)
	return ok && ranks.Significant(depth)
}

// Paginate splits body into raw units at significant headings, markers and
// authored boundaries.
func Paginate(body string, ranks heading.Ranks) []deck.Unit {
	lines := InsertBoundaries(deck.SplitLines(body), ranks)
	return deck.ParseUnits(strings.Join(lines, "\n"))
}
