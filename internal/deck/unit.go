package deck

import (
	"regexp"
	"strings"
)

// classDirectivePattern matches an authored Marp class directive.
var classDirectivePattern = regexp.MustCompile(`<!--\s*_class:`)

// Unit is one page-equivalent block of content.
type Unit struct {
	Tag     Tag
	Lines   []string
	Markers int // marker lines found when the unit was parsed
}

// ParseUnit builds a unit from raw text. The first marker line outside fenced
// code becomes the tag and is removed; later marker lines stay in the body and
// are only counted.
func ParseUnit(text string) Unit {
	lines := TrimBlank(SplitLines(text))
	u := Unit{}
	tagLine := -1
	WalkLines(lines, func(i int, line string, inFence bool) {
		if inFence {
			return
		}
		tag, ok := ParseMarker(line)
		if !ok {
			return
		}
		u.Markers++
		if tagLine < 0 {
			tagLine = i
			u.Tag = tag
		}
	})
	if tagLine >= 0 {
		lines = append(append([]string{}, lines[:tagLine]...), lines[tagLine+1:]...)
	}
	u.Lines = TrimBlank(lines)
	return u
}

// NewUnit returns a unit with the given tag and body text.
func NewUnit(tag Tag, text string) Unit {
	u := Unit{Tag: tag}
	if !tag.IsZero() {
		u.Markers = 1
	}
	if strings.TrimSpace(text) != "" {
		u.Lines = TrimBlank(SplitLines(text))
	}
	return u
}

// Text returns the body without the tag.
func (u Unit) Text() string {
	return strings.Join(u.Lines, "\n")
}

// String renders the unit in marker syntax.
func (u Unit) String() string {
	if u.Tag.IsZero() {
		return u.Text()
	}
	if len(u.Lines) == 0 {
		return u.Tag.String()
	}
	return u.Tag.String() + "\n" + u.Text()
}

// IsEmpty reports whether the unit has neither tag nor content.
func (u Unit) IsEmpty() bool {
	return u.Tag.IsZero() && strings.TrimSpace(u.Text()) == ""
}

// IsSystem reports whether the unit is a front, contents or back page.
func (u Unit) IsSystem() bool {
	return u.Tag.Is(LayoutFront, LayoutTOC, LayoutBack)
}

// HasClassDirective reports whether the author already wrote a Marp class
// directive in the body.
func (u Unit) HasClassDirective() bool {
	return classDirectivePattern.MatchString(u.Text())
}

// Clone returns a deep copy.
func (u Unit) Clone() Unit {
	u.Lines = append([]string(nil), u.Lines...)
	return u
}

// CleanLen returns the clean-text rune count of the body.
func (u Unit) CleanLen() int {
	return CleanLen(u.Text())
}

// HasBoundary reports whether the body contains a slide boundary outside
// fenced code.
func (u Unit) HasBoundary() bool {
	found := false
	WalkLines(u.Lines, func(_ int, line string, inFence bool) {
		if !inFence && IsBoundary(line) {
			found = true
		}
	})
	return found
}
