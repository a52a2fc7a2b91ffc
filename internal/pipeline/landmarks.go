package pipeline

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/alnah/go-md2deck/internal/deck"
	"github.com/alnah/go-md2deck/internal/frontmatter"
	"github.com/alnah/go-md2deck/internal/heading"
)

// TOCEntry is one chapter of the contents page.
type TOCEntry struct {
	Title     string // normalized heading text
	Display   string // Title, shortened for the contents page
	Index     *int   // numbering found in the source heading, if any
	Truncated bool
}

// DiscoverTitle returns meta with its title taken from the first
// primary-rank heading when the title is still the placeholder.
func DiscoverTitle(units []deck.Unit, ranks heading.Ranks, meta frontmatter.Metadata) (frontmatter.Metadata, bool) {
	if !meta.TitleIsDefault {
		return meta, false
	}
	for _, u := range units {
		if h, ok := deck.FirstHeading(u.Lines, ranks.Primary); ok {
			return meta.WithTitle(h.Text), true
		}
	}
	return meta, false
}

// BuildTOC returns one entry per unit holding a secondary-rank heading,
// skipping system pages. Display titles longer than limit runes are cut and
// suffixed with "...".
func BuildTOC(units []deck.Unit, ranks heading.Ranks, limit int) []TOCEntry {
	var entries []TOCEntry
	for _, u := range units {
		if u.IsSystem() {
			continue
		}
		h, ok := deck.FirstHeading(u.Lines, ranks.Secondary)
		if !ok {
			continue
		}
		n := heading.Normalize(h.Text)
		e := TOCEntry{Title: n.Text, Display: n.Text, Index: n.Index}
		if utf8.RuneCountInString(n.Text) > limit {
			e.Display = string([]rune(n.Text)[:limit]) + "..."
			e.Truncated = true
		}
		entries = append(entries, e)
	}
	return entries
}

// TOCTitles returns the display titles of entries.
func TOCTitles(entries []TOCEntry) []string {
	titles := make([]string, len(entries))
	for i, e := range entries {
		titles[i] = e.Display
	}
	return titles
}

// TagLandmarks rewrites the first secondary-rank heading of every non-system
// unit to its normalized text and tags untagged ones as chapters.
func TagLandmarks(units []deck.Unit, ranks heading.Ranks, log *slog.Logger) []deck.Unit {
	out := make([]deck.Unit, len(units))
	for i, u := range units {
		out[i] = u
		if u.IsSystem() {
			continue
		}
		h, ok := deck.FirstHeading(u.Lines, ranks.Secondary)
		if !ok {
			continue
		}
		u = u.Clone()
		text := heading.Normalize(h.Text).Text
		u.Lines[h.Line] = deck.FormatHeading(h.Depth, text)
		if u.Tag.IsZero() && u.Markers == 0 {
			u.Tag = deck.NewTag(deck.LayoutChapter)
			u.Markers = 1
			log.Debug("chapter locked", "unit", i, "heading", text)
		}
		out[i] = u
	}
	return out
}

// InjectSystemPages makes sure the deck has exactly one front page at the
// start, one contents page right after it and one back page at the end.
// Later duplicates lose their tag. Applying it twice changes nothing.
func InjectSystemPages(units []deck.Unit, log *slog.Logger) []deck.Unit {
	seen := make(map[string]bool)
	out := make([]deck.Unit, 0, len(units)+3)
	for i, u := range units {
		if u.IsSystem() {
			name := u.Tag.Name
			if seen[name] {
				log.Warn("duplicate system page dropped its layout", "unit", i, "layout", name)
				u = u.Clone()
				u.Tag = deck.Tag{}
				u.Markers--
				if u.IsEmpty() {
					continue
				}
			}
			seen[name] = true
		}
		out = append(out, u)
	}

	if !seen[deck.LayoutFront] {
		out = append([]deck.Unit{deck.NewUnit(deck.NewTag(deck.LayoutFront), "")}, out...)
	}
	if !seen[deck.LayoutTOC] {
		at := indexOfLayout(out, deck.LayoutFront) + 1
		out = append(out[:at], append([]deck.Unit{deck.NewUnit(deck.NewTag(deck.LayoutTOC), "")}, out[at:]...)...)
	}
	if !seen[deck.LayoutBack] {
		out = append(out, deck.NewUnit(deck.NewTag(deck.LayoutBack), ""))
	}
	return out
}

func indexOfLayout(units []deck.Unit, name string) int {
	for i, u := range units {
		if u.Tag.Is(name) {
			return i
		}
	}
	return -1
}

// IsLandmarkHeading reports whether text reads like a chapter, appendix or
// closing heading that should not be split across pages.
func IsLandmarkHeading(text string) bool {
	return landmarkPattern.MatchString(strings.TrimSpace(text))
}
