package pitch

import "fmt"

// WarnKind classifies a recoverable condition found while resolving cues.
type WarnKind string

const (
	// WarnUnmatched marks a phrase that matched nothing in the
	// transcript, even after the last-word fallback.
	WarnUnmatched WarnKind = "unmatched_phrase"
	// WarnConflict marks a phrase whose only occurrences were already
	// claimed by an earlier marker.
	WarnConflict WarnKind = "overlap_conflict"
	// WarnBudget marks narration that exceeds the duration ceiling after
	// the tempo change. Advisory only.
	WarnBudget WarnKind = "duration_budget"
)

// Warning is one recoverable condition from a run.
type Warning struct {
	Kind   WarnKind `json:"kind"`
	Phrase string   `json:"phrase,omitempty"`
	Detail string   `json:"detail"`
}

// Report accumulates every recoverable condition in a run so a single pass
// surfaces all of them instead of stopping at the first. Fatal conditions
// (markup parse failures) are errors, not report entries.
type Report struct {
	Warnings []Warning `json:"warnings"`
}

// Add appends a warning. Pipeline stages outside the resolver contribute
// their advisory conditions through the same report.
func (r *Report) Add(kind WarnKind, phrase, detail string) {
	r.Warnings = append(r.Warnings, Warning{Kind: kind, Phrase: phrase, Detail: detail})
}

func (r *Report) addf(kind WarnKind, phrase, format string, args ...any) {
	r.Add(kind, phrase, fmt.Sprintf(format, args...))
}

// Merge appends every warning from other, tolerating nil on either side.
func (r *Report) Merge(other *Report) {
	if r == nil || other == nil {
		return
	}
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Empty reports whether the run produced no warnings.
func (r *Report) Empty() bool {
	return r == nil || len(r.Warnings) == 0
}
