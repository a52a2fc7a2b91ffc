package deck

import (
	"regexp"
	"strings"
)

// Precompiled line patterns.
var (
	// Fenced code block delimiter (backticks or tildes)
	fencePattern = regexp.MustCompile("^\\s*(```|~~~)")

	// ATX heading with text
	headingPattern = regexp.MustCompile(`^(#+)\s+(.+?)\s*$`)

	// Slide boundary (thematic break used as page separator)
	boundaryPattern = regexp.MustCompile(`^---\s*$`)

	// Any list item, ordered or not
	listItemPattern = regexp.MustCompile(`^\s*([-*+]|\d+[.)])\s+`)

	// Ordered list item
	orderedItemPattern = regexp.MustCompile(`^\s*\d+\.\s+`)

	// Inline image
	imagePattern = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)

	// Table row and block quote
	tableRowPattern   = regexp.MustCompile(`^\s*\|`)
	blockquotePattern = regexp.MustCompile(`^\s*>`)

	// HTML comment line start
	commentStartPattern = regexp.MustCompile(`^\s*<!--`)
)

// Heading is an ATX heading found on a line.
type Heading struct {
	Line  int    // index into the scanned lines
	Depth int    // number of leading '#'
	Text  string // heading text, trimmed
}

// IsFence reports whether line opens or closes a fenced code block.
func IsFence(line string) bool {
	return fencePattern.MatchString(line)
}

// IsBoundary reports whether line is a slide boundary.
func IsBoundary(line string) bool {
	return boundaryPattern.MatchString(line)
}

// IsListItem reports whether line starts a list item.
func IsListItem(line string) bool {
	return listItemPattern.MatchString(line)
}

// IsOrderedItem reports whether line starts an ordered list item.
func IsOrderedItem(line string) bool {
	return orderedItemPattern.MatchString(line)
}

// StripListMarker removes the leading list marker from an item line.
func StripListMarker(line string) string {
	return listItemPattern.ReplaceAllString(line, "")
}

// IsTableRow reports whether line is a pipe table row.
func IsTableRow(line string) bool {
	return tableRowPattern.MatchString(line)
}

// IsBlockquote reports whether line is part of a block quote.
func IsBlockquote(line string) bool {
	return blockquotePattern.MatchString(line)
}

// IsComment reports whether line starts an HTML comment.
func IsComment(line string) bool {
	return commentStartPattern.MatchString(line)
}

// HasImage reports whether text contains an inline image.
func HasImage(text string) bool {
	return imagePattern.MatchString(text)
}

// ParseHeading parses an ATX heading line.
func ParseHeading(line string) (depth int, text string, ok bool) {
	m := headingPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, "", false
	}
	return len(m[1]), m[2], true
}

// FormatHeading renders a heading line at depth.
func FormatHeading(depth int, text string) string {
	return strings.Repeat("#", depth) + " " + text
}

// WalkLines calls fn for each line with its fence state. inFence is true for
// fence delimiter lines and every line between them.
func WalkLines(lines []string, fn func(i int, line string, inFence bool)) {
	inFence := false
	for i, line := range lines {
		if IsFence(line) {
			fn(i, line, true)
			inFence = !inFence
			continue
		}
		fn(i, line, inFence)
	}
}

// Headings returns the headings of lines, ignoring fenced code.
func Headings(lines []string) []Heading {
	var hs []Heading
	WalkLines(lines, func(i int, line string, inFence bool) {
		if inFence {
			return
		}
		if depth, text, ok := ParseHeading(line); ok {
			hs = append(hs, Heading{Line: i, Depth: depth, Text: text})
		}
	})
	return hs
}

// FirstHeading returns the first heading at depth, or any depth when depth is 0.
func FirstHeading(lines []string, depth int) (Heading, bool) {
	for _, h := range Headings(lines) {
		if depth == 0 || h.Depth == depth {
			return h, true
		}
	}
	return Heading{}, false
}

// SplitLines splits text on newlines after normalizing CRLF.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// TrimBlank drops leading and trailing blank lines.
func TrimBlank(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}

// Paragraphs splits lines into blank-line delimited paragraphs. Blank lines
// inside fenced code do not split. Returned paragraphs are never empty.
func Paragraphs(lines []string) [][]string {
	var (
		paras   [][]string
		current []string
	)
	flush := func() {
		if len(current) > 0 {
			paras = append(paras, current)
			current = nil
		}
	}
	WalkLines(lines, func(_ int, line string, inFence bool) {
		if !inFence && strings.TrimSpace(line) == "" {
			flush()
			return
		}
		current = append(current, line)
	})
	flush()
	return paras
}

// IsStructural reports whether a paragraph holds a table, quote, fenced code
// or list, the blocks that should not share a page with long prose.
func IsStructural(para []string) bool {
	for _, line := range para {
		if IsTableRow(line) || IsBlockquote(line) || IsFence(line) || IsListItem(line) {
			return true
		}
	}
	return false
}

// SplitBoundaries splits lines on slide boundaries outside fenced code. The
// boundary lines themselves are dropped; chunks may be empty.
func SplitBoundaries(lines []string) [][]string {
	chunks := [][]string{nil}
	WalkLines(lines, func(_ int, line string, inFence bool) {
		if !inFence && IsBoundary(line) {
			chunks = append(chunks, nil)
			return
		}
		last := len(chunks) - 1
		chunks[last] = append(chunks[last], line)
	})
	return chunks
}

// ParseUnits splits text on boundaries and parses each chunk, dropping
// chunks with neither tag nor content.
func ParseUnits(text string) []Unit {
	var units []Unit
	for _, chunk := range SplitBoundaries(SplitLines(text)) {
		u := ParseUnit(strings.Join(chunk, "\n"))
		if !u.IsEmpty() {
			units = append(units, u)
		}
	}
	return units
}
