// Package frontmatter extracts the leading metadata block of a deck source.
package frontmatter

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-md2deck/internal/dateutil"
	"github.com/alnah/go-md2deck/internal/yamlutil"
)

// ErrInvalidDate indicates a date value or default date format that cannot be resolved.
var ErrInvalidDate = errors.New("invalid metadata date")

// RendererKeys are the directives the slide renderer understands. Every other
// key is metadata for this tool only and is dropped from the emitted block.
var RendererKeys = []string{"marp", "theme", "paginate", "footer", "header", "size", "style", "backgroundColor"}

// Defaults supplies fallbacks for missing metadata.
type Defaults struct {
	Title      string
	Author     string
	Thanks     string
	Theme      string
	DateFormat string // preset name or format understood by dateutil
}

// DefaultDefaults returns the built-in fallbacks.
func DefaultDefaults() Defaults {
	return Defaults{
		Title:      "Untitled Deck",
		Author:     "md2deck",
		Thanks:     "Thank you",
		Theme:      "md2deck",
		DateFormat: "long",
	}
}

// Merge returns d with every non-empty field of o applied.
func (d Defaults) Merge(o Defaults) Defaults {
	if o.Title != "" {
		d.Title = o.Title
	}
	if o.Author != "" {
		d.Author = o.Author
	}
	if o.Thanks != "" {
		d.Thanks = o.Thanks
	}
	if o.Theme != "" {
		d.Theme = o.Theme
	}
	if o.DateFormat != "" {
		d.DateFormat = o.DateFormat
	}
	return d
}

// Metadata is the resolved metadata of one document. It is not modified after
// extraction; WithTitle returns a copy.
type Metadata struct {
	Title  string
	Author string
	Thanks string
	Date   string
	Theme  string

	// TitleIsDefault is true when Title came from Defaults.
	TitleIsDefault bool

	// Block is the full ordered metadata block, including injected directives.
	Block yamlutil.MapSlice
}

// WithTitle returns a copy of m carrying title.
func (m Metadata) WithTitle(title string) Metadata {
	m.Title = title
	m.TitleIsDefault = false
	return m
}

// Renderer returns the block entries whose keys the renderer understands,
// in document order.
func (m Metadata) Renderer() yamlutil.MapSlice {
	out := make(yamlutil.MapSlice, 0, len(m.Block))
	for _, item := range m.Block {
		if isRendererKey(fmt.Sprint(item.Key)) {
			out = append(out, item)
		}
	}
	return out
}

// Document is a source split into metadata and body.
type Document struct {
	Metadata Metadata
	Body     string

	// Lenient is true when the block was not valid YAML and was read line
	// by line instead.
	Lenient bool
}

var (
	blockPattern = regexp.MustCompile(`^---[ \t]*\r?\n((?s:.*?))\r?\n---[ \t]*(?:\r?\n|$)`)
	emptyBlock   = regexp.MustCompile(`^---[ \t]*\r?\n---[ \t]*(?:\r?\n|$)`)
	linePattern  = regexp.MustCompile(`^([A-Za-z][\w-]*)\s*:\s*(.*?)\s*$`)
)

// Extract splits raw into metadata and body, injects the renderer directives
// a deck needs (marp, paginate, theme) when absent and resolves the five
// logical fields against d. now supplies the default date.
func Extract(raw string, d Defaults, now time.Time) (Document, error) {
	raw = strings.TrimPrefix(raw, "\ufeff")

	var (
		block   string
		body    = raw
		lenient bool
	)
	if m := blockPattern.FindStringSubmatchIndex(raw); m != nil {
		block = raw[m[2]:m[3]]
		body = raw[m[1]:]
	} else if m := emptyBlock.FindStringIndex(raw); m != nil {
		body = raw[m[1]:]
	}
	body = strings.TrimLeft(body, " \t\r\n")

	items, err := parseBlock(block)
	if err != nil {
		items = parseLines(block)
		lenient = true
	}
	items = injectDirectives(items, d.Theme)

	meta, err := resolve(items, d, now)
	if err != nil {
		return Document{}, err
	}
	return Document{Metadata: meta, Body: body, Lenient: lenient}, nil
}

func parseBlock(block string) (yamlutil.MapSlice, error) {
	if strings.TrimSpace(block) == "" {
		return yamlutil.MapSlice{}, nil
	}
	return yamlutil.UnmarshalOrdered([]byte(block))
}

// parseLines reads "key: value" lines, the shape most hand-written blocks
// have even when they are not valid YAML.
func parseLines(block string) yamlutil.MapSlice {
	var items yamlutil.MapSlice
	for _, line := range strings.Split(block, "\n") {
		m := linePattern.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		items = append(items, yamlutil.MapItem{Key: m[1], Value: scalar(unquote(m[2]))})
	}
	return items
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// scalar keeps booleans and integers typed so they marshal unquoted.
func scalar(s string) any {
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return s
}

func injectDirectives(items yamlutil.MapSlice, theme string) yamlutil.MapSlice {
	var head yamlutil.MapSlice
	if _, ok := lookup(items, "marp"); !ok {
		head = append(head,
			yamlutil.MapItem{Key: "marp", Value: true},
			yamlutil.MapItem{Key: "paginate", Value: true},
		)
		if _, ok := lookup(items, "paginate"); ok {
			head = head[:1]
		}
	}
	if _, ok := lookup(items, "theme"); !ok {
		head = append(head, yamlutil.MapItem{Key: "theme", Value: theme})
	}
	return append(head, items...)
}

func resolve(items yamlutil.MapSlice, d Defaults, now time.Time) (Metadata, error) {
	meta := Metadata{
		Title:  field(items, d.Title, "title"),
		Author: field(items, d.Author, "author"),
		Thanks: field(items, d.Thanks, "thanks", "closing"),
		Theme:  field(items, d.Theme, "theme"),
		Block:  items,
	}
	meta.TitleIsDefault = meta.Title == d.Title

	date, err := resolveDate(field(items, "", "date"), d.DateFormat, now)
	if err != nil {
		return Metadata{}, err
	}
	meta.Date = date
	return meta, nil
}

func resolveDate(value, format string, now time.Time) (string, error) {
	if value != "" {
		date, err := dateutil.ResolveDate(value, now)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidDate, err)
		}
		return date, nil
	}
	if format == "" {
		format = DefaultDefaults().DateFormat
	}
	date, err := dateutil.FormatDate(format, now)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return date, nil
}

// field returns the first non-empty value among keys, or fallback.
func field(items yamlutil.MapSlice, fallback string, keys ...string) string {
	for _, k := range keys {
		if v, ok := lookup(items, k); ok {
			if s := strings.TrimSpace(stringify(v)); s != "" {
				return s
			}
		}
	}
	return fallback
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return fmt.Sprint(t)
	}
}

func lookup(items yamlutil.MapSlice, key string) (any, bool) {
	if i := indexOf(items, key); i >= 0 {
		return items[i].Value, true
	}
	return nil, false
}

func indexOf(items yamlutil.MapSlice, key string) int {
	for i, item := range items {
		if strings.EqualFold(fmt.Sprint(item.Key), key) {
			return i
		}
	}
	return -1
}

func isRendererKey(key string) bool {
	for _, k := range RendererKeys {
		if k == key {
			return true
		}
	}
	return false
}
