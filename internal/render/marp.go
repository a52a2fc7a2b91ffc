// Package render writes deck units as Markdown the Marp renderer understands.
package render

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/alnah/go-md2deck/internal/deck"
	"github.com/alnah/go-md2deck/internal/frontmatter"
	"github.com/alnah/go-md2deck/internal/yamlutil"
)

// Separator joins rendered slides.
const Separator = "\n\n---\n\n"

// CoverClass is the theme class used for front and back pages.
const CoverClass = "cover"

// closingPunctuation is dropped from the thanks line on back pages.
var closingPunctuation = regexp.MustCompile(`[!！]$`)

// Renderer turns units into Marp Markdown.
type Renderer struct {
	Meta frontmatter.Metadata
	Log  *slog.Logger
}

// Marp renders meta and units as one Marp document: the renderer directives
// of the metadata block followed by the slides.
func Marp(meta frontmatter.Metadata, units []deck.Unit, log *slog.Logger) (string, error) {
	r := Renderer{Meta: meta, Log: log}
	return r.Render(units)
}

// Document re-renders an existing deck file, translating any layout markers
// left in it. Already rendered slides pass through unchanged.
func Document(raw string, d frontmatter.Defaults, now time.Time, log *slog.Logger) (string, error) {
	doc, err := frontmatter.Extract(raw, d, now)
	if err != nil {
		return "", err
	}
	return Marp(doc.Metadata, deck.ParseUnits(doc.Body), log)
}

// Render returns the full document.
func (r Renderer) Render(units []deck.Unit) (string, error) {
	head, err := r.frontmatter()
	if err != nil {
		return "", err
	}
	slides := make([]string, 0, len(units))
	for _, u := range units {
		if s := strings.TrimSpace(r.Slide(u)); s != "" {
			slides = append(slides, s)
		}
	}
	return head + strings.Join(slides, Separator) + "\n", nil
}

func (r Renderer) frontmatter() (string, error) {
	block := r.Meta.Renderer()
	if len(block) == 0 {
		return "", nil
	}
	out, err := yamlutil.Marshal(block)
	if err != nil {
		return "", fmt.Errorf("rendering metadata: %w", err)
	}
	return "---\n" + string(out) + "---\n\n", nil
}

// Slide renders one unit.
func (r Renderer) Slide(u deck.Unit) string {
	lines := translateMarkers(u.Lines)
	switch {
	case u.Tag.IsZero():
		return strings.Join(lines, "\n")
	case u.Tag.Is(deck.LayoutFront, deck.LayoutBack):
		return r.cover(u.Tag.Name, lines)
	case u.Tag.Is(deck.LayoutMetric):
		lines = r.demoteExtraHeadings(lines)
	}
	return withDirectives(Directives(u.Tag), lines)
}

// Directives returns the Marp comment directives selecting tag's layout.
func Directives(tag deck.Tag) []string {
	if tag.IsZero() {
		return nil
	}
	d := []string{classDirective(tag.Name)}
	if tag.Is(deck.LayoutTOC) && tag.HasParam {
		d = append(d, fmt.Sprintf(`<!-- _style: "section.toc :is(ul, ol) { counter-reset: toc-counter %d; }" -->`, tag.Param))
	}
	return d
}

func classDirective(name string) string {
	return "<!-- _class: " + name + " -->"
}

// cover fills a front or back page from the metadata when the author left
// its title or byline out.
func (r Renderer) cover(kind string, lines []string) string {
	body := append([]string(nil), deck.TrimBlank(lines)...)
	if _, ok := deck.FirstHeading(body, 1); !ok {
		title := r.Meta.Title
		if kind == deck.LayoutBack {
			title = closingPunctuation.ReplaceAllString(r.Meta.Thanks, "")
		}
		body = append([]string{deck.FormatHeading(1, lineBreaks(title))}, body...)
	}
	if _, ok := deck.FirstHeading(body, 2); !ok {
		body = append(body, "", deck.FormatHeading(2, r.Meta.Author), deck.FormatHeading(3, r.Meta.Date))
	}
	return withDirectives([]string{classDirective(CoverClass)}, body)
}

// demoteExtraHeadings keeps the first heading of a metric page and turns the
// others into bold text.
func (r Renderer) demoteExtraHeadings(lines []string) []string {
	out := append([]string(nil), lines...)
	for i, h := range deck.Headings(out) {
		if i == 0 {
			continue
		}
		r.logger().Warn("metric page keeps one heading, extra heading demoted", "heading", h.Text)
		out[h.Line] = "**" + h.Text + "**"
	}
	return out
}

func (r Renderer) logger() *slog.Logger {
	if r.Log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Log
}

func lineBreaks(s string) string {
	return strings.ReplaceAll(s, `\\`, "<br>")
}

// translateMarkers rewrites marker lines left in a body outside fenced code.
func translateMarkers(lines []string) []string {
	var out []string
	deck.WalkLines(lines, func(_ int, line string, inFence bool) {
		if tag, ok := deck.ParseMarker(line); ok && !inFence {
			out = append(out, Directives(tag)...)
			return
		}
		out = append(out, line)
	})
	return out
}

func withDirectives(directives, lines []string) string {
	head := strings.Join(directives, "\n")
	body := strings.Join(deck.TrimBlank(lines), "\n")
	if body == "" {
		return head
	}
	return head + "\n\n" + body
}
