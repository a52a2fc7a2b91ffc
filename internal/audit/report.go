package audit

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/alnah/go-md2deck/internal/deck"
)

// LayoutCount is one row of the layout histogram.
type LayoutCount struct {
	Layout string
	Count  int
}

// Report summarizes a finished deck. It is read-only.
type Report struct {
	Slides     int
	TotalChars int
	Density    int // average clean runes per slide, rounded
	Layouts    []LayoutCount
	Chapters   []string
}

// NewReport builds the report for units; layouts keep first-seen order.
func NewReport(units []deck.Unit, chapters []string) Report {
	r := Report{
		Slides:   len(units),
		Chapters: append([]string(nil), chapters...),
	}
	index := make(map[string]int)
	for _, u := range units {
		r.TotalChars += u.CleanLen()
		name := u.Tag.Layout()
		if i, ok := index[name]; ok {
			r.Layouts[i].Count++
			continue
		}
		index[name] = len(r.Layouts)
		r.Layouts = append(r.Layouts, LayoutCount{Layout: name, Count: 1})
	}
	if r.Slides > 0 {
		r.Density = int(math.Round(float64(r.TotalChars) / float64(r.Slides)))
	}
	return r
}

// WriteTo prints the report as a plain-text block.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	rule := strings.Repeat("-", 48)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "Quality audit")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Slides:   %d (about %d characters)\n", r.Slides, r.TotalChars)
	fmt.Fprintf(&b, "Density:  %d per slide (ideal 80-250)\n", r.Density)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Layouts:")
	for _, lc := range r.Layouts {
		fmt.Fprintf(&b, "  - %-10s %d\n", lc.Layout, lc.Count)
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Chapters:")
	if len(r.Chapters) == 0 {
		fmt.Fprintln(&b, "  (no chapters found)")
	}
	for i, c := range r.Chapters {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, c)
	}
	fmt.Fprintln(&b, rule)

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}
