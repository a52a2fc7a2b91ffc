package deck

import (
	"fmt"
	"regexp"
	"strconv"
)

// Layout names understood by the renderer theme.
const (
	LayoutFront   = "front"
	LayoutTOC     = "toc"
	LayoutBack    = "back"
	LayoutChapter = "chapter"
	LayoutQuote   = "quote"
	LayoutSplit   = "split"
	LayoutFocus   = "focus"
	LayoutMetric  = "metric"
	LayoutCards   = "cards"
	LayoutDefault = "default"
)

// MaxGridColumns is the widest colsN layout the theme provides.
const MaxGridColumns = 6

// markerPattern matches a whole-line layout marker: @[name] or @[name:param].
var markerPattern = regexp.MustCompile(`^\s*@\[([A-Za-z0-9-]+)(?::(\d+))?\]\s*$`)

// colsPattern matches the grid layout family.
var colsPattern = regexp.MustCompile(`^cols([1-9])$`)

// Tag is a symbolic layout selection, optionally parameterized.
// The zero value means "no tag" (default layout).
type Tag struct {
	Name     string
	Param    int
	HasParam bool
}

// NewTag returns an unparameterized tag.
func NewTag(name string) Tag {
	return Tag{Name: name}
}

// WithParam returns a copy of t carrying param.
func (t Tag) WithParam(param int) Tag {
	t.Param = param
	t.HasParam = true
	return t
}

// IsZero reports whether t carries no layout.
func (t Tag) IsZero() bool {
	return t.Name == ""
}

// Is reports whether t selects one of names.
func (t Tag) Is(names ...string) bool {
	for _, n := range names {
		if t.Name == n {
			return true
		}
	}
	return false
}

// Layout returns the layout name, or LayoutDefault for the zero tag.
func (t Tag) Layout() string {
	if t.IsZero() {
		return LayoutDefault
	}
	return t.Name
}

// String renders t in marker syntax. The zero tag renders as "".
func (t Tag) String() string {
	if t.IsZero() {
		return ""
	}
	if t.HasParam {
		return fmt.Sprintf("@[%s:%d]", t.Name, t.Param)
	}
	return "@[" + t.Name + "]"
}

// ParseMarker parses a marker line. ok is false when line is not a marker.
func ParseMarker(line string) (tag Tag, ok bool) {
	m := markerPattern.FindStringSubmatch(line)
	if m == nil {
		return Tag{}, false
	}
	tag = Tag{Name: m[1]}
	if m[2] != "" {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return Tag{}, false
		}
		tag = tag.WithParam(n)
	}
	return tag, true
}

// IsMarker reports whether line is a layout marker line.
func IsMarker(line string) bool {
	return markerPattern.MatchString(line)
}

// ColsTag returns the grid tag sized for n items.
func ColsTag(n int) Tag {
	return NewTag("cols" + strconv.Itoa(n))
}

// GridColumns returns N for a colsN tag and ok=false for anything else.
func (t Tag) GridColumns() (n int, ok bool) {
	m := colsPattern.FindStringSubmatch(t.Name)
	if m == nil {
		return 0, false
	}
	n, _ = strconv.Atoi(m[1])
	return n, true
}
