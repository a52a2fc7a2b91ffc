package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnah/go-md2deck/internal/deck"
	"github.com/alnah/go-md2deck/internal/frontmatter"
	"github.com/alnah/go-md2deck/internal/heading"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestInsertBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "first content line gets no boundary",
			in:   "# Deck\nintro",
			want: "# Deck\nintro",
		},
		{
			name: "significant headings and markers",
			in:   "# Deck\nintro\n## A\ntext\n@[quote]\n> q",
			want: "# Deck\nintro\n---\n## A\ntext\n---\n@[quote]\n> q",
		},
		{
			name: "heading after marker",
			in:   "intro\n@[focus]\n\n## A",
			want: "intro\n---\n@[focus]\n\n## A",
		},
		{
			name: "after authored boundary",
			in:   "intro\n---\n\n## A",
			want: "intro\n---\n\n## A",
		},
		{
			name: "comment is skipped when looking back",
			in:   "intro\n<!-- note -->\n## A",
			want: "intro\n<!-- note -->\n---\n## A",
		},
		{
			name: "leading comment is not content",
			in:   "<!-- note -->\n# A",
			want: "<!-- note -->\n# A",
		},
		{
			name: "headings in fences ignored",
			in:   "intro\n```\n## not\n```",
			want: "intro\n```\n## not\n```",
		},
		{
			name: "deep headings are not boundaries",
			in:   "intro\n#### deep",
			want: "intro\n#### deep",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := InsertBoundaries(deck.SplitLines(tt.in), heading.DefaultRanks)
			assert.Equal(t, tt.want, strings.Join(got, "\n"))
		})
	}
}

func TestPaginate(t *testing.T) {
	t.Parallel()

	body := "# Deck\n\nintro\n\n## Chapter A\n\ntext\n\n### Point\n\ndetail\n\n@[quote]\n> q"
	units := Paginate(body, heading.DefaultRanks)

	require.Len(t, units, 4)
	assert.Equal(t, []string{"# Deck", "", "intro"}, units[0].Lines)
	assert.Equal(t, "## Chapter A", units[1].Lines[0])
	assert.Equal(t, "### Point", units[2].Lines[0])
	assert.Equal(t, deck.LayoutQuote, units[3].Tag.Name)
	assert.Equal(t, []string{"> q"}, units[3].Lines)
}

func TestDiscoverTitle(t *testing.T) {
	t.Parallel()

	units := Paginate("intro\n\n# Found It\n\n## Next", heading.DefaultRanks)
	meta := frontmatter.Metadata{Title: "Untitled Deck", TitleIsDefault: true}

	got, ok := DiscoverTitle(units, heading.DefaultRanks, meta)
	require.True(t, ok)
	assert.Equal(t, "Found It", got.Title)
	assert.False(t, got.TitleIsDefault)

	authored := frontmatter.Metadata{Title: "Mine"}
	got, ok = DiscoverTitle(units, heading.DefaultRanks, authored)
	assert.False(t, ok)
	assert.Equal(t, "Mine", got.Title)
}

func TestBuildTOC(t *testing.T) {
	t.Parallel()

	units := []deck.Unit{
		deck.NewUnit(deck.NewTag(deck.LayoutFront), "## Not a chapter"),
		deck.ParseUnit("## 第一章 开始"),
		deck.ParseUnit("intro without heading"),
		deck.ParseUnit("## 2. " + strings.Repeat("长", 20)),
	}
	entries := BuildTOC(units, heading.DefaultRanks, 18)

	require.Len(t, entries, 2)
	assert.Equal(t, "开始", entries[0].Title)
	require.NotNil(t, entries[0].Index)
	assert.Equal(t, 1, *entries[0].Index)
	assert.False(t, entries[0].Truncated)

	assert.True(t, entries[1].Truncated)
	assert.Equal(t, strings.Repeat("长", 18)+"...", entries[1].Display)
	assert.Equal(t, strings.Repeat("长", 20), entries[1].Title)

	assert.Equal(t, []string{"开始", strings.Repeat("长", 18) + "..."}, TOCTitles(entries))
}

func TestTagLandmarks(t *testing.T) {
	t.Parallel()

	units := []deck.Unit{
		deck.ParseUnit("## 第一章 开始\n\ntext"),
		deck.ParseUnit("@[focus]\n## 2. Focused"),
		deck.ParseUnit("### Deeper"),
		deck.NewUnit(deck.NewTag(deck.LayoutBack), "## 3. Thanks"),
	}
	got := TagLandmarks(units, heading.DefaultRanks, discard)

	require.Len(t, got, 4)
	assert.Equal(t, deck.LayoutChapter, got[0].Tag.Name)
	assert.Equal(t, "## 开始", got[0].Lines[0])
	assert.Equal(t, "## 第一章 开始", units[0].Lines[0], "input must not be modified")

	assert.Equal(t, deck.LayoutFocus, got[1].Tag.Name)
	assert.Equal(t, "## Focused", got[1].Lines[0])

	assert.True(t, got[2].Tag.IsZero())
	assert.Equal(t, "## 3. Thanks", got[3].Lines[0])
}

func TestInjectSystemPages(t *testing.T) {
	t.Parallel()

	t.Run("empty deck", func(t *testing.T) {
		t.Parallel()

		got := InjectSystemPages(nil, discard)
		require.Len(t, got, 3)
		assert.Equal(t, deck.LayoutFront, got[0].Tag.Name)
		assert.Equal(t, deck.LayoutTOC, got[1].Tag.Name)
		assert.Equal(t, deck.LayoutBack, got[2].Tag.Name)
	})

	t.Run("contents follows an authored front page", func(t *testing.T) {
		t.Parallel()

		units := []deck.Unit{deck.ParseUnit("intro"), deck.ParseUnit("@[front]\n# Cover")}
		got := InjectSystemPages(units, discard)
		require.Len(t, got, 4)
		assert.Equal(t, "intro", got[0].Text())
		assert.Equal(t, deck.LayoutFront, got[1].Tag.Name)
		assert.Equal(t, deck.LayoutTOC, got[2].Tag.Name)
		assert.Equal(t, deck.LayoutBack, got[3].Tag.Name)
	})

	t.Run("duplicates lose their tag", func(t *testing.T) {
		t.Parallel()

		units := []deck.Unit{
			deck.ParseUnit("@[front]\n# A"),
			deck.ParseUnit("@[front]\n# B"),
			deck.ParseUnit("@[back]"),
		}
		got := InjectSystemPages(units, discard)
		require.Len(t, got, 4)
		assert.Equal(t, deck.LayoutFront, got[0].Tag.Name)
		assert.Equal(t, deck.LayoutTOC, got[1].Tag.Name)
		assert.True(t, got[2].Tag.IsZero())
		assert.Zero(t, got[2].Markers)
		assert.Equal(t, "# B", got[2].Text())
		assert.Equal(t, deck.LayoutBack, got[3].Tag.Name)
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()

		inputs := [][]deck.Unit{
			nil,
			{deck.ParseUnit("# A"), deck.ParseUnit("@[toc]")},
			{deck.ParseUnit("@[back]"), deck.ParseUnit("@[back]\nextra"), deck.ParseUnit("@[front]")},
		}
		for _, in := range inputs {
			once := InjectSystemPages(in, discard)
			twice := InjectSystemPages(once, discard)
			assert.Equal(t, once, twice)
			for _, name := range []string{deck.LayoutFront, deck.LayoutTOC, deck.LayoutBack} {
				n := 0
				for _, u := range twice {
					if u.Tag.Is(name) {
						n++
					}
				}
				assert.Equal(t, 1, n, name)
			}
		}
	})
}

func TestSplitter(t *testing.T) {
	t.Parallel()

	s := Splitter{Budget: 250, Suffix: "(续)", Log: discard}
	para := strings.Repeat("a", 100)

	t.Run("budget overflow", func(t *testing.T) {
		t.Parallel()

		u := deck.ParseUnit("## Topic\n\n" + para + "\n\n" + para + "\n\n" + para)
		got := s.Split(u)
		require.Len(t, got, 2)
		assert.Equal(t, []string{"## Topic", "", para, "", para}, got[0].Lines)
		assert.Equal(t, []string{"## Topic (续)", "", para}, got[1].Lines)
	})

	t.Run("structural break after long prose", func(t *testing.T) {
		t.Parallel()

		u := deck.ParseUnit(strings.Repeat("b", 90) + "\n\n- one\n- two")
		got := s.Split(u)
		require.Len(t, got, 2)
		assert.Equal(t, []string{"- one", "- two"}, got[1].Lines)
	})

	t.Run("structural after structural", func(t *testing.T) {
		t.Parallel()

		u := deck.ParseUnit("> quote\n\n| a | b |")
		assert.Len(t, s.Split(u), 2)
	})

	t.Run("short prose then list stays", func(t *testing.T) {
		t.Parallel()

		u := deck.ParseUnit("short intro\n\n- one\n- two")
		assert.Len(t, s.Split(u), 1)
	})

	t.Run("single paragraph unchanged", func(t *testing.T) {
		t.Parallel()

		u := deck.ParseUnit(strings.Repeat("c", 600))
		got := s.Split(u)
		require.Len(t, got, 1)
		assert.Equal(t, u, got[0])
	})

	t.Run("atomic flow and system skipped", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{"quote", "split", "metric", "focus", "cards", "cols3", "toc", "front", "back"} {
			u := deck.ParseUnit("@[" + name + "]\n" + para + "\n\n" + para + "\n\n" + para)
			assert.Len(t, s.Split(u), 1, name)
		}
	})

	t.Run("chapter sheds overflow", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		s := Splitter{Budget: 250, Suffix: "(续)", Log: slog.New(slog.NewTextHandler(&logs, nil))}
		u := deck.ParseUnit("@[chapter]\n## 市场\n\n" + strings.Repeat("b", 90) + "\n\n- one\n- two\n- three")
		got := s.Split(u)
		assert.Contains(t, logs.String(), "landmark page overloaded")
		require.Len(t, got, 2)
		assert.Equal(t, "@[chapter]", got[0].Tag.String())
		assert.True(t, got[1].Tag.IsZero())
		assert.Equal(t, "## 市场 (续)", got[1].Lines[0])
	})

	t.Run("custom tag kept on first page", func(t *testing.T) {
		t.Parallel()

		u := deck.ParseUnit("@[wide]\n" + para + "\n\n" + para + "\n\n" + para)
		got := s.Split(u)
		require.Len(t, got, 2)
		assert.Equal(t, "wide", got[0].Tag.Name)
		assert.True(t, got[1].Tag.IsZero())
	})

	t.Run("one continuation suffix", func(t *testing.T) {
		t.Parallel()

		u := deck.ParseUnit("## Topic (续)\n\n" + para + "\n\n" + para + "\n\n" + para)
		got := s.Split(u)
		require.Len(t, got, 2)
		assert.Equal(t, "## Topic (续)", got[1].Lines[0])
	})

	t.Run("sub-unit already starting with a heading", func(t *testing.T) {
		t.Parallel()

		u := deck.ParseUnit("## Topic\n\n" + para + "\n\n" + para + "\n\n## Other\n" + para)
		got := s.Split(u)
		require.Len(t, got, 2)
		assert.Equal(t, "## Other", got[1].Lines[0])
	})
}

func TestSplitterPreservesContent(t *testing.T) {
	t.Parallel()

	s := Splitter{Budget: 250, Suffix: "(续)", Log: discard}
	inputs := []string{
		"## T\n\n" + strings.Repeat("x", 200) + "\n\n| a |\n|---|\n\n> q\n\n" + strings.Repeat("y", 300),
		"p1\n\n- a\n- b\n\n```\ncode\n\nmore\n```\n\np2",
		strings.Repeat("z", 120) + "\n\n" + strings.Repeat("w", 140) + "\n\n" + strings.Repeat("v", 10),
	}
	body := func(units []deck.Unit) string {
		var parts []string
		for _, u := range units {
			for _, p := range deck.Paragraphs(u.Lines) {
				if _, _, ok := deck.ParseHeading(p[0]); ok && len(p) == 1 {
					continue
				}
				parts = append(parts, strings.Join(p, "\n"))
			}
		}
		return strings.Join(parts, "\n\n")
	}

	for _, in := range inputs {
		u := deck.ParseUnit(in)
		got := s.Split(u)
		require.NotEmpty(t, got)
		for _, sub := range got {
			assert.False(t, sub.IsEmpty())
		}
		assert.Equal(t, body([]deck.Unit{u}), body(got))
	}
}

func TestPromoteHeadings(t *testing.T) {
	t.Parallel()

	u := deck.ParseUnit("### A\n\n#### B\n\n##### C\n\n###### D\n\n```\n### code\n```")
	got := PromoteHeadings(u)
	assert.Equal(t, []string{"# A", "", "## B", "", "### C", "", "1. D", "", "```", "### code", "```"}, got.Lines)
	assert.Equal(t, "### A", u.Lines[0], "input must not be modified")

	toc := deck.NewUnit(deck.NewTag(deck.LayoutTOC), "### Contents")
	assert.Equal(t, toc, PromoteHeadings(toc))

	plain := deck.ParseUnit("no headings")
	assert.Equal(t, plain, PromoteHeadings(plain))
}

func tocEntries(n int) []TOCEntry {
	entries := make([]TOCEntry, n)
	for i := range entries {
		title := fmt.Sprintf("Topic %d", i+1)
		entries[i] = TOCEntry{Title: title, Display: title}
	}
	return entries
}

func TestFlowPaginatorContents(t *testing.T) {
	t.Parallel()

	f := FlowPaginator{TOC: tocEntries(10), TOCTitle: "目录", Suffix: "(续)", Log: discard}
	got := f.Paginate(deck.NewUnit(deck.NewTag(deck.LayoutTOC), ""))

	require.Len(t, got, 3)
	assert.Equal(t, "@[toc]", got[0].Tag.String())
	assert.Equal(t, "@[toc:4]", got[1].Tag.String())
	assert.Equal(t, "@[toc:8]", got[2].Tag.String())

	assert.Equal(t, []string{"# 目录", "", "1. Topic 1", "2. Topic 2", "3. Topic 3", "4. Topic 4"}, got[0].Lines)
	assert.Equal(t, "# 目录 (续)", got[1].Lines[0])
	assert.Equal(t, "5. Topic 5", got[1].Lines[2])
	assert.Equal(t, []string{"# 目录 (续)", "", "9. Topic 9", "10. Topic 10"}, got[2].Lines)
}

func TestFlowPaginatorContentsKeepsAuthoredHeading(t *testing.T) {
	t.Parallel()

	f := FlowPaginator{TOC: tocEntries(2), TOCTitle: "目录", Suffix: "(续)", Log: discard}
	got := f.Paginate(deck.NewUnit(deck.NewTag(deck.LayoutTOC), "# Agenda"))

	require.Len(t, got, 1)
	assert.Equal(t, []string{"# Agenda", "", "1. Topic 1", "2. Topic 2"}, got[0].Lines)
}

func TestFlowPaginatorGrid(t *testing.T) {
	t.Parallel()

	f := FlowPaginator{Suffix: "(续)", Log: discard}
	items := func(n int, text string) string {
		var lines []string
		for i := 0; i < n; i++ {
			lines = append(lines, "- "+text)
		}
		return strings.Join(lines, "\n")
	}

	tests := []struct {
		name     string
		unit     deck.Unit
		wantTags []string
	}{
		{
			name:     "short items fit",
			unit:     deck.ParseUnit("@[cols4]\n# Plan\n\n" + items(4, "x")),
			wantTags: []string{"@[cols4]"},
		},
		{
			name:     "overflow re-derives columns",
			unit:     deck.ParseUnit("@[cols6]\n# Plan\n\n" + items(8, "x")),
			wantTags: []string{"@[cols6]", "@[cols2]"},
		},
		{
			name:     "dense items shrink the limit",
			unit:     deck.ParseUnit("@[cards]\n" + items(5, strings.Repeat("y", 120))),
			wantTags: []string{"@[cards]", "@[cards]", "@[cards]"},
		},
		{
			name:     "medium items halve the limit",
			unit:     deck.ParseUnit("@[cols4]\n" + items(4, strings.Repeat("y", 60))),
			wantTags: []string{"@[cols4]", "@[cols2]"},
		},
		{
			name:     "three short items never split",
			unit:     deck.ParseUnit("@[cols2]\n" + items(3, "x")),
			wantTags: []string{"@[cols2]"},
		},
		{
			name:     "single item chunk becomes cards",
			unit:     deck.ParseUnit("@[cols2]\n" + items(3, strings.Repeat("y", 120))),
			wantTags: []string{"@[cols2]", "@[cards]", "@[cards]"},
		},
		{
			name:     "first page keeps the authored grid",
			unit:     deck.ParseUnit("@[cols6]\n# Plan\n\n" + items(6, strings.Repeat("y", 120))),
			wantTags: []string{"@[cols6]", "@[cols2]", "@[cols2]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := f.Paginate(tt.unit)
			var tags []string
			for _, u := range got {
				tags = append(tags, u.Tag.String())
			}
			assert.Equal(t, tt.wantTags, tags)
		})
	}
}

func TestFlowPaginatorContinuationHeading(t *testing.T) {
	t.Parallel()

	f := FlowPaginator{Suffix: "(续)", Log: discard}
	var body []string
	for i := 0; i < 8; i++ {
		body = append(body, fmt.Sprintf("- item %d", i))
	}
	got := f.Paginate(deck.ParseUnit("@[cols6]\n# Plan\n\n" + strings.Join(body, "\n")))

	require.Len(t, got, 2)
	assert.Equal(t, "# Plan", got[0].Lines[0])
	assert.Equal(t, []string{"# Plan (续)", "", "- item 6", "- item 7"}, got[1].Lines)
}

func TestFlowPaginatorCleansBoldLead(t *testing.T) {
	t.Parallel()

	f := FlowPaginator{Log: discard}
	got := f.Paginate(deck.ParseUnit("@[cols2]\n- **Fast**: quick\n- **Safe**：sound\n  more detail"))

	require.Len(t, got, 1)
	assert.Equal(t, []string{"- **Fast**quick", "- **Safe**sound", "  more detail"}, got[0].Lines)
}

func TestFlowPaginatorIgnoresOtherLayouts(t *testing.T) {
	t.Parallel()

	f := FlowPaginator{Log: discard}
	u := deck.ParseUnit("@[focus]\n- **a**: b\n- c\n- d\n- e\n- f")
	assert.Equal(t, []deck.Unit{u}, f.Paginate(u))
}
