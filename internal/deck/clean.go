package deck

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// headingLinePattern matches whole lines starting with '#'.
var headingLinePattern = regexp.MustCompile(`(?m)^#.*$`)

// CleanText returns text with HTML comments, inline HTML tags, images and
// heading lines removed. All density and budget checks measure this.
func CleanText(text string) string {
	text = stripMarkup(text)
	text = imagePattern.ReplaceAllString(text, "")
	text = headingLinePattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// CleanLen returns the rune count of CleanText(text).
func CleanLen(text string) int {
	return utf8.RuneCountInString(CleanText(text))
}

// stripMarkup keeps only the text tokens of an HTML token stream, dropping
// tags, comments and doctypes. Text is kept raw so entities are not decoded.
// Markup that never closes, like the "<b" of "a<b", stays as text.
func stripMarkup(text string) string {
	if !strings.Contains(text, "<") {
		return text
	}
	z := html.NewTokenizer(strings.NewReader(text))
	var b strings.Builder
	b.Grow(len(text))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// An unterminated tag at the end of input is left in Raw.
			b.Write(z.Raw())
			return b.String()
		case html.TextToken:
			b.Write(z.Raw())
		default:
			if raw := z.Raw(); !bytes.HasSuffix(raw, []byte(">")) {
				b.Write(raw)
			}
		}
	}
}
