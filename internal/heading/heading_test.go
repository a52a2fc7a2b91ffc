package heading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnah/go-md2deck/internal/deck"
)

func TestAnalyzeRanks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want Ranks
	}{
		{name: "no headings", text: "plain text", want: Ranks{1, 2, 3}},
		{name: "standard depths", text: "# A\n## B\n### C\n#### D", want: Ranks{1, 2, 3}},
		{name: "shifted depths", text: "## A\n### B\n#### C", want: Ranks{2, 3, 4}},
		{name: "gaps are skipped", text: "# A\n### B\n##### C", want: Ranks{1, 3, 5}},
		{name: "single depth fills first slot", text: "### Only\n### Again", want: Ranks{3, 2, 3}},
		{name: "fenced headings ignored", text: "## A\n```\n# comment\n```\n### B", want: Ranks{2, 3, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, AnalyzeRanks(deck.SplitLines(tt.text)))
		})
	}
}

func TestRanksSignificant(t *testing.T) {
	t.Parallel()

	r := Ranks{Primary: 1, Secondary: 3, Tertiary: 4}
	assert.True(t, r.Significant(1))
	assert.True(t, r.Significant(3))
	assert.False(t, r.Significant(2))
	assert.False(t, r.Significant(5))
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		in        string
		wantText  string
		wantIndex int // 0 means no index
	}{
		{name: "plain heading", in: "Introduction", wantText: "Introduction"},
		{name: "arabic with dot", in: "1. Introduction", wantText: "Introduction", wantIndex: 1},
		{name: "arabic without space", in: "2.Overview", wantText: "Overview", wantIndex: 2},
		{name: "arabic with CJK comma", in: "3、市场分析", wantText: "市场分析", wantIndex: 3},
		{name: "dotted levels", in: "1.2 Scope", wantText: "Scope", wantIndex: 1},
		{name: "full width digits", in: "１２. 总结", wantText: "总结", wantIndex: 12},
		{name: "CJK chapter word", in: "第三章 产品规划", wantText: "产品规划", wantIndex: 3},
		{name: "CJK chapter arabic", in: "第2节：背景", wantText: "背景", wantIndex: 2},
		{name: "CJK chapter compound numeral", in: "第十二部分 附录", wantText: "附录", wantIndex: 12},
		{name: "latin ordinal", in: "Chapter 4: Results", wantText: "Results", wantIndex: 4},
		{name: "latin ordinal case insensitive", in: "section 2 - Method", wantText: "Method", wantIndex: 2},
		{name: "bare CJK numeral", in: "五、风险", wantText: "风险", wantIndex: 5},
		{name: "emphasis around number", in: "**1.** Goals", wantText: "Goals", wantIndex: 1},
		{name: "emoji prefix kept", in: "🚀 1. Launch", wantText: "🚀 Launch", wantIndex: 1},
		{name: "emoji after numbering", in: "1. 🚀 Launch", wantText: "🚀 Launch", wantIndex: 1},
		{name: "numbering only kept", in: "第一章", wantText: "第一章", wantIndex: 1},
		{name: "figure is not numbering", in: "3.5x growth", wantText: "3.5x growth"},
		{name: "year is not numbering", in: "2024 roadmap", wantText: "2024 roadmap"},
		{name: "numbering before a year", in: "1. 2024 Roadmap", wantText: "2024 Roadmap", wantIndex: 1},
		{name: "numbering before a count", in: "2、 3个关键问题", wantText: "3个关键问题", wantIndex: 2},
		{name: "figure after numbering", in: "4. 3.5x growth", wantText: "3.5x growth", wantIndex: 4},
		{name: "CJK word starting with numeral", in: "十分重要", wantText: "十分重要"},
		{name: "emoji only", in: "🎯", wantText: "🎯"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Normalize(tt.in)
			assert.Equal(t, tt.wantText, got.Text)
			if tt.wantIndex == 0 {
				assert.Nil(t, got.Index)
				return
			}
			require.NotNil(t, got.Index)
			assert.Equal(t, tt.wantIndex, *got.Index)
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"1. Introduction",
		"1. 2. Nested",
		"1. 🚀 2. Intro",
		"🚀  ✨ 第一章 开始",
		"**3** Items",
		"Chapter 1",
		"1.",
		"  spaced  ",
		"3.5x",
		"1. 2024 Roadmap",
		"2、 3个关键问题",
		"一、二、三",
		"Part 2 Part 3 Finale",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in).Text
		twice := Normalize(once).Text
		assert.Equal(t, once, twice, "input %q", in)
	}
}
