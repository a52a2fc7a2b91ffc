package audit

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnah/go-md2deck/internal/deck"
	"github.com/alnah/go-md2deck/internal/layout"
)

func validator(force bool) Validator {
	return Validator{Thresholds: layout.DefaultThresholds(), Force: force}
}

func TestValidateSplitWithoutImage(t *testing.T) {
	t.Parallel()

	units := []deck.Unit{deck.ParseUnit("@[split]\n# Product\n\nNo picture here, only enough words to avoid a fragment.")}

	ds := validator(false).Validate(units)
	require.True(t, ds.HasFatal())
	assert.Equal(t, KindContract, ds.Fatal()[0].Kind)

	err := ds.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Diagnostics, 1)
	assert.Contains(t, err.Error(), "split layout requires an image")

	forced := validator(true).Validate(units)
	assert.False(t, forced.HasFatal())
	assert.Len(t, forced.Warnings(), 1)
	assert.NoError(t, forced.Err())
}

func TestValidateMultipleMarkers(t *testing.T) {
	t.Parallel()

	u := deck.ParseUnit("@[focus]\n# Title\n\n@[quote]\nsome text long enough to be a real slide")
	require.Equal(t, 2, u.Markers)

	ds := validator(false).Validate([]deck.Unit{u})
	require.Len(t, ds.Fatal(), 1)
	assert.Contains(t, ds.Fatal()[0].Message, "2 layout markers")
}

func TestValidateBudget(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("字", 300)

	tests := []struct {
		name      string
		unit      deck.Unit
		force     bool
		wantCount int
		wantFatal bool
	}{
		{
			name:      "default over budget is advisory",
			unit:      deck.ParseUnit(long),
			wantCount: 1,
		},
		{
			name:      "atomic over budget is fatal",
			unit:      deck.ParseUnit("@[focus]\n# Big\n\n" + long),
			wantCount: 1,
			wantFatal: true,
		},
		{
			name:      "atomic over budget forced",
			unit:      deck.ParseUnit("@[quote]\n> " + long),
			force:     true,
			wantCount: 1,
		},
		{
			name: "grid under its wider budget",
			unit: deck.ParseUnit("@[cards]\n- " + long),
		},
		{
			name: "internal boundary skips the check",
			unit: deck.ParseUnit("@[focus]\n" + long + "\n```\n---\n```"),
		},
		{
			name: "heading lines are not counted",
			unit: deck.ParseUnit("@[chapter]\n## " + long),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var budget Diagnostics
			for _, d := range validator(tt.force).Validate([]deck.Unit{tt.unit}) {
				if d.Kind == KindBudget {
					budget = append(budget, d)
				}
			}
			require.Len(t, budget, tt.wantCount)
			if tt.wantCount == 0 {
				return
			}
			assert.Equal(t, tt.wantFatal, budget[0].Severity == SeverityFatal)
			assert.Equal(t, 300, budget[0].Count)
		})
	}
}

func TestValidateFragments(t *testing.T) {
	t.Parallel()

	frag := func(s string) deck.Unit { return deck.ParseUnit(s) }
	full := deck.ParseUnit(strings.Repeat("long enough text ", 3))

	t.Run("three in a row", func(t *testing.T) {
		t.Parallel()

		ds := validator(false).Validate([]deck.Unit{frag("### One\na"), frag("b"), frag("### Three\nc")})
		require.Len(t, ds.Fatal(), 1)
		d := ds.Fatal()[0]
		assert.Equal(t, KindStructure, d.Kind)
		assert.Equal(t, 2, d.Unit)
		assert.Contains(t, d.Message, `"Three"`)
	})

	t.Run("promoted heading as context", func(t *testing.T) {
		t.Parallel()

		ds := validator(false).Validate([]deck.Unit{frag("# alpha"), frag("# beta"), frag("no heading")})
		require.Len(t, ds.Fatal(), 1)
		assert.Contains(t, ds.Fatal()[0].Message, `"beta"`)
	})

	t.Run("untitled context", func(t *testing.T) {
		t.Parallel()

		ds := validator(false).Validate([]deck.Unit{frag("a"), frag("b"), frag("c")})
		require.Len(t, ds.Fatal(), 1)
		assert.Contains(t, ds.Fatal()[0].Message, UntitledBlock)
	})

	t.Run("reported once per streak", func(t *testing.T) {
		t.Parallel()

		ds := validator(false).Validate([]deck.Unit{frag("a"), frag("b"), frag("c"), frag("d"), frag("e")})
		assert.Len(t, ds.Fatal(), 1)
	})

	t.Run("streak broken", func(t *testing.T) {
		t.Parallel()

		ds := validator(false).Validate([]deck.Unit{frag("a"), frag("b"), full, frag("c"), frag("d")})
		assert.Empty(t, ds)
	})

	t.Run("tagged units are not fragments", func(t *testing.T) {
		t.Parallel()

		ds := validator(false).Validate([]deck.Unit{
			frag("@[chapter]\n## A"), frag("@[chapter]\n## B"), frag("@[chapter]\n## C"),
		})
		assert.Empty(t, ds)
	})

	t.Run("force does not downgrade structure", func(t *testing.T) {
		t.Parallel()

		ds := validator(true).Validate([]deck.Unit{frag("a"), frag("b"), frag("c")})
		assert.True(t, ds.HasFatal())
	})
}

func TestValidateAccumulates(t *testing.T) {
	t.Parallel()

	units := []deck.Unit{
		deck.ParseUnit("@[split]\n# No image\n\nenough words to avoid being a fragment"),
		deck.ParseUnit("@[metric]\n# 42\n\n" + strings.Repeat("x", 300)),
	}
	ds := validator(false).Validate(units)
	require.Len(t, ds.Fatal(), 2)
	assert.Equal(t, 0, ds.Fatal()[0].Unit)
	assert.Equal(t, 1, ds.Fatal()[1].Unit)
}

func TestNewReport(t *testing.T) {
	t.Parallel()

	units := []deck.Unit{
		deck.NewUnit(deck.NewTag(deck.LayoutFront), ""),
		deck.ParseUnit("# A\n\nabcd"),
		deck.NewUnit(deck.NewTag(deck.LayoutChapter), "## Ch\n\nxy"),
		deck.ParseUnit("ef"),
	}
	r := NewReport(units, []string{"Ch"})

	assert.Equal(t, 4, r.Slides)
	assert.Equal(t, 8, r.TotalChars)
	assert.Equal(t, 2, r.Density)
	assert.Equal(t, []LayoutCount{
		{Layout: "front", Count: 1},
		{Layout: "default", Count: 2},
		{Layout: "chapter", Count: 1},
	}, r.Layouts)
}

func TestReportWriteTo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewReport([]deck.Unit{deck.ParseUnit("hello")}, nil)
	n, err := r.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	out := buf.String()
	assert.Contains(t, out, "Slides:   1 (about 5 characters)")
	assert.Contains(t, out, "default")
	assert.Contains(t, out, "(no chapters found)")
}

func TestEmptyReport(t *testing.T) {
	t.Parallel()

	r := NewReport(nil, nil)
	assert.Zero(t, r.Slides)
	assert.Zero(t, r.Density)
}
