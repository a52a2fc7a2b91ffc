package pipeline

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/alnah/go-md2deck/internal/deck"
	"github.com/alnah/go-md2deck/internal/layout"
)

// structuralBreakLen is the buffer size after which a table, quote, code or
// list paragraph starts a new page.
const structuralBreakLen = 80

var landmarkPattern = regexp.MustCompile(`(?i)^(第.+[章节]|Chapter\s*\d+|Part\s*\d+|Module\s*\d+|附录|总结|答疑|致谢|鸣谢|Appendix|Conclusion|Q\s*&\s*A)`)

// Splitter breaks long or mixed-structure units into page-sized sub-units.
type Splitter struct {
	Budget int    // default page budget in clean runes
	Suffix string // appended to continuation headings
	Log    *slog.Logger
}

// Split returns the sub-units of u. Atomic, flow and system units and units
// with fewer than two paragraphs come back unchanged, except chapter pages,
// which shed their overflow onto continuation pages. The first sub-unit
// keeps the tag; continuations repeat the unit's first heading with one
// continuation suffix. The result is never empty and no sub-unit is empty.
func (s Splitter) Split(u deck.Unit) []deck.Unit {
	if !splittable(u.Tag) {
		return []deck.Unit{u}
	}
	paras := deck.Paragraphs(u.Lines)
	if len(paras) < 2 {
		return []deck.Unit{u}
	}

	var (
		groups  [][][]string
		buf     [][]string
		bufLen  int
		prevStr bool
	)
	for _, p := range paras {
		pLen := deck.CleanLen(strings.Join(p, "\n"))
		structural := deck.IsStructural(p)
		brk := structural && len(buf) > 0 && (bufLen > structuralBreakLen || prevStr)
		if len(buf) > 0 && (bufLen+pLen > s.Budget || brk) {
			groups = append(groups, buf)
			buf, bufLen = nil, 0
		}
		buf = append(buf, p)
		bufLen += pLen
		prevStr = structural
	}
	groups = append(groups, buf)
	if len(groups) == 1 {
		return []deck.Unit{u}
	}

	h, hasHeading := deck.FirstHeading(u.Lines, 0)
	if u.Tag.Is(deck.LayoutChapter) || (hasHeading && IsLandmarkHeading(h.Text)) {
		s.Log.Warn("landmark page overloaded and split; keep chapter pages short", "heading", h.Text, "pages", len(groups))
	} else {
		s.Log.Info("mixed structure split", "pages", len(groups))
	}

	out := make([]deck.Unit, 0, len(groups))
	for i, g := range groups {
		lines := joinParagraphs(g)
		sub := deck.Unit{Lines: lines}
		if i == 0 {
			sub.Tag, sub.Markers = u.Tag, u.Markers
		} else if hasHeading && !startsWithDepth(lines, h.Depth) {
			cont := deck.FormatHeading(h.Depth, withSuffix(h.Text, s.Suffix))
			sub.Lines = append([]string{cont, ""}, lines...)
		}
		out = append(out, sub)
	}
	return out
}

func splittable(t deck.Tag) bool {
	if t.IsZero() || t.Is(deck.LayoutChapter) {
		return true
	}
	return !layout.IsAtomic(t) && !layout.IsFlow(t) && !layout.IsSystem(t)
}

func joinParagraphs(paras [][]string) []string {
	var lines []string
	for i, p := range paras {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, p...)
	}
	return lines
}

func startsWithDepth(lines []string, depth int) bool {
	if len(lines) == 0 {
		return false
	}
	d, _, ok := deck.ParseHeading(lines[0])
	return ok && d == depth
}

// withSuffix returns text ending in exactly one suffix.
func withSuffix(text, suffix string) string {
	text = strings.TrimSpace(text)
	for strings.HasSuffix(text, suffix) {
		text = strings.TrimSpace(strings.TrimSuffix(text, suffix))
	}
	return text + " " + suffix
}
