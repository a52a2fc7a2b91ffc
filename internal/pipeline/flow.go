package pipeline

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alnah/go-md2deck/internal/deck"
	"github.com/alnah/go-md2deck/internal/layout"
)

// Item length thresholds for grid pages.
const (
	denseItemLen  = 100
	mediumItemLen = 50
	shortListLen  = 3
)

// boldLeadSeparator matches the ':' left after a bold lead in a grid item.
var boldLeadSeparator = regexp.MustCompile(`^(\s*([-*+]|\d+[.)])\s+\*\*.+?\*\*\s*)[:：]\s*`)

// FlowPaginator re-splits contents and grid pages by item count.
type FlowPaginator struct {
	TOC      []TOCEntry
	TOCTitle string
	Suffix   string
	Log      *slog.Logger
}

// flowParts is a flow unit separated into its list items and the rest.
type flowParts struct {
	header []string
	items  [][]string // first line plus indented continuation lines
}

// Paginate returns u split into pages of at most the layout's item limit.
// Units that are not contents or grid pages come back unchanged.
func (f FlowPaginator) Paginate(u deck.Unit) []deck.Unit {
	if !layout.IsFlow(u.Tag) {
		return []deck.Unit{u}
	}
	toc := u.Tag.Is(deck.LayoutTOC)
	if toc && !hasOrderedItem(u.Lines) {
		u = f.fillContents(u)
	}

	parts := splitItems(u.Lines)
	if len(parts.items) == 0 {
		return []deck.Unit{u}
	}
	if !toc {
		for _, item := range parts.items {
			item[0] = boldLeadSeparator.ReplaceAllString(item[0], "$1")
		}
	}

	base, _ := layout.BaseItemLimit(u.Tag)
	avg := averageItemLen(parts.items)
	limit := base
	if !toc {
		switch {
		case avg > denseItemLen:
			limit = max(1, base/3)
		case avg > mediumItemLen:
			limit = max(1, base/2)
		}
	}

	n := len(parts.items)
	if n <= limit || (n <= shortListLen && avg <= denseItemLen) {
		if toc {
			return []deck.Unit{u}
		}
		out := u.Clone()
		out.Lines = assemble(parts.header, parts.items)
		return []deck.Unit{out}
	}

	f.Log.Info("flow layout split", "layout", u.Tag.Layout(), "items", n, "avg", int(avg), "limit", limit)

	var out []deck.Unit
	for start := 0; start < n; start += limit {
		end := min(start+limit, n)
		chunk := parts.items[start:end]
		header := parts.header
		if start > 0 {
			header = withContinuationHeading(header, f.Suffix)
		}
		out = append(out, deck.Unit{
			Tag:     chunkTag(u.Tag, start, len(chunk)),
			Lines:   assemble(header, chunk),
			Markers: 1,
		})
	}
	return out
}

// fillContents adds a contents heading and one numbered line per chapter.
func (f FlowPaginator) fillContents(u deck.Unit) deck.Unit {
	if len(f.TOC) == 0 {
		return u
	}
	u = u.Clone()
	if _, ok := deck.FirstHeading(u.Lines, 0); !ok {
		if len(u.Lines) > 0 {
			u.Lines = append(u.Lines, "")
		}
		u.Lines = append(u.Lines, deck.FormatHeading(1, f.TOCTitle))
	}
	u.Lines = append(u.Lines, "")
	for i, e := range f.TOC {
		u.Lines = append(u.Lines, fmt.Sprintf("%d. %s", i+1, e.Display))
	}
	return u
}

func hasOrderedItem(lines []string) bool {
	found := false
	deck.WalkLines(lines, func(_ int, line string, inFence bool) {
		if !inFence && deck.IsOrderedItem(line) {
			found = true
		}
	})
	return found
}

// splitItems separates list items from the surrounding lines. Indented lines
// after an item, including after blank lines, belong to it.
func splitItems(lines []string) flowParts {
	var (
		p       flowParts
		current = -1
	)
	deck.WalkLines(lines, func(_ int, line string, inFence bool) {
		switch {
		case inFence:
			p.header = append(p.header, line)
			current = -1
		case deck.IsListItem(line) && !isIndented(line):
			p.items = append(p.items, []string{line})
			current = len(p.items) - 1
		case strings.TrimSpace(line) == "":
			if current < 0 {
				p.header = append(p.header, line)
			}
		case current >= 0 && isIndented(line):
			p.items[current] = append(p.items[current], line)
		default:
			p.header = append(p.header, line)
			current = -1
		}
	})
	return p
}

func isIndented(line string) bool {
	r, _ := utf8.DecodeRuneInString(line)
	return unicode.IsSpace(r)
}

func averageItemLen(items [][]string) float64 {
	total := 0
	for _, item := range items {
		total += utf8.RuneCountInString(deck.StripListMarker(item[0]))
		for _, line := range item[1:] {
			total += utf8.RuneCountInString(strings.TrimSpace(line))
		}
	}
	return float64(total) / float64(len(items))
}

func assemble(header []string, items [][]string) []string {
	lines := append([]string(nil), deck.TrimBlank(header)...)
	if len(lines) > 0 {
		lines = append(lines, "")
	}
	for _, item := range items {
		lines = append(lines, item...)
	}
	return lines
}

// withContinuationHeading returns header with its first heading suffixed.
func withContinuationHeading(header []string, suffix string) []string {
	out := append([]string(nil), header...)
	if h, ok := deck.FirstHeading(out, 0); ok {
		out[h.Line] = deck.FormatHeading(h.Depth, withSuffix(h.Text, suffix))
	}
	return out
}

// chunkTag returns the tag of the chunk starting at offset. The first chunk
// keeps the authored tag; later grid chunks are sized to their items.
func chunkTag(tag deck.Tag, offset, size int) deck.Tag {
	switch {
	case offset == 0:
		return tag
	case tag.Is(deck.LayoutTOC):
		return deck.NewTag(deck.LayoutTOC).WithParam(tag.Param + offset)
	case tag.Is(deck.LayoutCards):
		return tag
	case size >= 2:
		return deck.ColsTag(size)
	default:
		return deck.NewTag(deck.LayoutCards)
	}
}
