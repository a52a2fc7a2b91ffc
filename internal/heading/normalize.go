package heading

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalized is the canonical form of a heading.
type Normalized struct {
	Text  string
	Index *int // recovered chapter number, nil when none
}

var (
	// Emphasis wrapped around a leading number: **1.** or _2_
	emphasisNumberPattern = regexp.MustCompile(`^(?:\*{1,2}|_{1,2})([0-9０-９]+[.．、)）]?)(?:\*{1,2}|_{1,2})\s*`)

	// 第N章, 第三节, 第2部分 ...
	cjkChapterPattern = regexp.MustCompile(`^第\s*([0-9０-９]+|[一二三四五六七八九十两零〇]+)\s*(?:章|节|部分|单元|模块|部)[\s:：、.．-]*`)

	// Chapter 3, Section 2: ...
	latinOrdinalPattern = regexp.MustCompile(`(?i)^(?:chapter|section|part|module)\s+([0-9]+)[\s:：.．-]*`)

	// 一、 二. 三 ...
	cjkBarePattern = regexp.MustCompile(`^([一二三四五六七八九十])(?:[、.．:：]|\s)\s*`)

	// 1. 2) 3、 1.2 ...
	arabicPattern = regexp.MustCompile(`^([0-9０-９]{1,3}(?:[.．][0-9０-９]{1,3})*)(?:[.．、)）:：]|\s)\s*`)
)

var cjkDigits = map[rune]int{
	'零': 0, '〇': 0, '一': 1, '二': 2, '两': 2, '三': 3, '四': 4,
	'五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
}

// Normalize canonicalizes heading text: leading emoji are kept as a prefix,
// emphasis around a leading number is unwrapped and numbering prefixes are
// stripped. A heading made only of numbering keeps its numbering.
// Normalize is idempotent.
func Normalize(text string) Normalized {
	text = strings.TrimSpace(norm.NFC.String(text))

	var (
		prefixes []string
		index    *int
	)
	for {
		emoji, rest := splitEmoji(text)
		if emoji != "" {
			prefixes = append(prefixes, emoji)
			text = rest
		}
		if text == "" {
			break
		}

		unwrapped := strings.TrimSpace(emphasisNumberPattern.ReplaceAllString(text, "$1 "))
		stripped, n, ok := stripNumbering(unwrapped)
		if ok && index == nil {
			index = n
		}
		if ok && stripped != "" {
			text = stripped
			continue
		}
		text = unwrapped
		break
	}

	prefix := strings.Join(strings.Fields(strings.Join(prefixes, " ")), " ")
	switch {
	case prefix == "":
		return Normalized{Text: text, Index: index}
	case text == "":
		return Normalized{Text: prefix, Index: index}
	default:
		return Normalized{Text: prefix + " " + text, Index: index}
	}
}

// stripNumbering removes one numbering prefix. ok is false when none matched.
func stripNumbering(text string) (rest string, index *int, ok bool) {
	if m := cjkChapterPattern.FindStringSubmatchIndex(text); m != nil {
		return strings.TrimSpace(text[m[1]:]), parseIndex(text[m[2]:m[3]]), true
	}
	if m := latinOrdinalPattern.FindStringSubmatchIndex(text); m != nil {
		return strings.TrimSpace(text[m[1]:]), parseIndex(text[m[2]:m[3]]), true
	}
	if m := cjkBarePattern.FindStringSubmatchIndex(text); m != nil {
		return strings.TrimSpace(text[m[1]:]), parseIndex(text[m[2]:m[3]]), true
	}
	if m := arabicPattern.FindStringSubmatchIndex(text); m != nil {
		// "3.5x growth" is a figure, not a number prefix
		if isDecimalFigure(text[m[3]:]) {
			return text, nil, false
		}
		return strings.TrimSpace(text[m[1]:]), parseIndex(text[m[2]:m[3]]), true
	}
	return text, nil, false
}

// isDecimalFigure reports whether s, the text right after a leading number,
// continues it as a decimal: a dot immediately followed by a digit.
func isDecimalFigure(s string) bool {
	sep, size := utf8.DecodeRuneInString(s)
	if sep != '.' && sep != '．' {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[size:])
	return unicode.IsDigit(r)
}

// parseIndex resolves arabic (half or full width, first dotted level) or CJK
// numerals up to ninety-nine.
func parseIndex(s string) *int {
	s = width.Narrow.String(s)
	if first, _, _ := strings.Cut(s, "."); first != "" {
		if n, err := strconv.Atoi(first); err == nil {
			return &n
		}
	}
	if n, ok := parseCJKNumber(s); ok {
		return &n
	}
	return nil
}

func parseCJKNumber(s string) (int, bool) {
	runes := []rune(s)
	switch {
	case len(runes) == 0:
		return 0, false
	case len(runes) == 1 && runes[0] == '十':
		return 10, true
	case len(runes) == 1:
		n, ok := cjkDigits[runes[0]]
		return n, ok
	}

	tens, ones := 0, 0
	i := 0
	if runes[0] == '十' {
		tens = 1
		i = 1
	} else if len(runes) >= 2 && runes[1] == '十' {
		d, ok := cjkDigits[runes[0]]
		if !ok {
			return 0, false
		}
		tens = d
		i = 2
	} else {
		return 0, false
	}
	if i < len(runes) {
		if i != len(runes)-1 {
			return 0, false
		}
		d, ok := cjkDigits[runes[i]]
		if !ok {
			return 0, false
		}
		ones = d
	}
	return tens*10 + ones, true
}

// splitEmoji splits a leading run of pictographic runes (and the spaces,
// joiners and selectors between them) from text.
func splitEmoji(text string) (emoji, rest string) {
	end := 0
	for i, r := range text {
		if isEmojiRune(r) {
			end = i + utf8.RuneLen(r)
			continue
		}
		if unicode.IsSpace(r) && end > 0 {
			continue
		}
		break
	}
	if end == 0 {
		return "", text
	}
	return strings.TrimSpace(text[:end]), strings.TrimSpace(text[end:])
}

func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F000 && r <= 0x1FAFF: // pictographs, emoticons, transport, flags
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
		return true
	case r >= 0x2B00 && r <= 0x2BFF: // arrows, stars
		return true
	case r == 0x200D || r == 0x20E3 || (r >= 0xFE00 && r <= 0xFE0F):
		return true
	case r >= 0xE0020 && r <= 0xE007F: // tag sequences
		return true
	}
	return false
}
