// Package audit checks finished decks against layout budgets and contracts
// and summarizes them.
package audit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-md2deck/internal/deck"
	"github.com/alnah/go-md2deck/internal/layout"
)

// ErrValidation matches every *ValidationError.
var ErrValidation = errors.New("deck validation failed")

// Fragment detection.
const (
	fragmentMaxLen = 20
	fragmentRun    = 3
)

// UntitledBlock names a fragment without a sub-heading.
const UntitledBlock = "untitled block"

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityFatal
)

func (s Severity) String() string {
	if s == SeverityFatal {
		return "fatal"
	}
	return "warning"
}

// Kind groups diagnostics by cause.
type Kind string

const (
	KindBudget    Kind = "budget"
	KindContract  Kind = "contract"
	KindStructure Kind = "structure"
)

// Diagnostic is one finding about one unit.
type Diagnostic struct {
	Unit     int // zero-based position in the final deck
	Layout   string
	Kind     Kind
	Severity Severity
	Message  string
	Count    int // clean runes, budget findings only
	Limit    int
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("slide %d [%s] %s: %s", d.Unit+1, d.Layout, d.Severity, d.Message)
}

// Diagnostics accumulates findings in deck order.
type Diagnostics []Diagnostic

// Fatal returns the fatal diagnostics.
func (ds Diagnostics) Fatal() Diagnostics {
	return ds.filter(SeverityFatal)
}

// Warnings returns the non-fatal diagnostics.
func (ds Diagnostics) Warnings() Diagnostics {
	return ds.filter(SeverityWarning)
}

// HasFatal reports whether any diagnostic is fatal.
func (ds Diagnostics) HasFatal() bool {
	return len(ds.Fatal()) > 0
}

// Err returns a *ValidationError holding the fatal diagnostics, or nil.
func (ds Diagnostics) Err() error {
	fatal := ds.Fatal()
	if len(fatal) == 0 {
		return nil
	}
	return &ValidationError{Diagnostics: fatal}
}

func (ds Diagnostics) filter(s Severity) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Severity == s {
			out = append(out, d)
		}
	}
	return out
}

// ValidationError reports every fatal defect of a run at once.
type ValidationError struct {
	Diagnostics Diagnostics
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d fatal defect(s)", ErrValidation, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		b.WriteString("\n  ")
		b.WriteString(d.String())
	}
	return b.String()
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Validator checks final units.
type Validator struct {
	Thresholds layout.Thresholds
	Force      bool // downgrade contract and atomic budget failures to warnings
}

// Validate checks every unit and returns all findings. It never stops at the
// first defect.
func (v Validator) Validate(units []deck.Unit) Diagnostics {
	var (
		ds     Diagnostics
		streak int
	)
	for i, u := range units {
		ds = append(ds, v.checkContract(i, u)...)
		if d, ok := v.checkBudget(i, u); ok {
			ds = append(ds, d)
		}

		if isFragment(u) {
			streak++
			if streak == fragmentRun {
				ds = append(ds, Diagnostic{
					Unit:     i,
					Layout:   u.Tag.Layout(),
					Kind:     KindStructure,
					Severity: SeverityFatal,
					Message: fmt.Sprintf("%d consecutive near-empty slides (at %q); merge them into one slide so a grid layout can be inferred",
						fragmentRun, nearestSubheading(units[i+1-fragmentRun:i+1])),
				})
			}
		} else {
			streak = 0
		}
	}
	return ds
}

func (v Validator) severity() Severity {
	if v.Force {
		return SeverityWarning
	}
	return SeverityFatal
}

func (v Validator) checkContract(i int, u deck.Unit) Diagnostics {
	var ds Diagnostics
	if u.Tag.Is(deck.LayoutSplit) && !deck.HasImage(u.Text()) {
		ds = append(ds, Diagnostic{
			Unit:     i,
			Layout:   u.Tag.Layout(),
			Kind:     KindContract,
			Severity: v.severity(),
			Message:  "split layout requires an image",
		})
	}
	if u.Markers > 1 {
		ds = append(ds, Diagnostic{
			Unit:     i,
			Layout:   u.Tag.Layout(),
			Kind:     KindContract,
			Severity: v.severity(),
			Message:  fmt.Sprintf("%d layout markers found, only one is allowed per slide", u.Markers),
		})
	}
	return ds
}

func (v Validator) checkBudget(i int, u deck.Unit) (Diagnostic, bool) {
	if u.HasBoundary() {
		return Diagnostic{}, false
	}
	count := u.CleanLen()
	limit := v.Thresholds.Budget(u.Tag)
	if count <= limit {
		return Diagnostic{}, false
	}

	d := Diagnostic{
		Unit:   i,
		Layout: u.Tag.Layout(),
		Kind:   KindBudget,
		Count:  count,
		Limit:  limit,
	}
	if layout.IsAtomic(u.Tag) {
		d.Severity = v.severity()
		d.Message = fmt.Sprintf("atomic layout overflows its budget (%d/%d) and cannot be split; shorten the text or drop the layout", count, limit)
	} else {
		d.Severity = SeverityWarning
		d.Message = fmt.Sprintf("text density %d exceeds the recommended %d", count, limit)
	}
	return d, true
}

func isFragment(u deck.Unit) bool {
	return u.Tag.IsZero() && u.Markers == 0 && u.CleanLen() < fragmentMaxLen
}

// nearestSubheading returns the heading closest to the end of run. Headings
// are promoted by then, so any depth counts.
func nearestSubheading(run []deck.Unit) string {
	for i := len(run) - 1; i >= 0; i-- {
		if h, ok := deck.FirstHeading(run[i].Lines, 0); ok {
			return h.Text
		}
	}
	return UntitledBlock
}
