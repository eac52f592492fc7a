// Package intake applies externally sourced updates (tracker statuses,
// lead-time intelligence and document-scan proposals) to site schedule data.
// Every function returns a modified copy; inputs are never mutated.
package intake

import (
	"sort"
	"strings"

	"github.com/alexanderramin/critpath/internal/domain"
)

// Source identifies where a free-text status string came from. Each source
// has its own vocabulary table.
type Source string

const (
	SourceTracker   Source = "tracker"
	SourceDocument  Source = "document"
	SourceCanonical Source = "canonical"
)

// Vocabulary maps normalized (trimmed, lower-case) external strings to the
// canonical status.
type Vocabulary map[string]domain.MilestoneStatus

func canonicalVocabulary() Vocabulary {
	v := Vocabulary{}
	for s := range domain.ValidStatuses {
		v[strings.ToLower(string(s))] = s
		v[strings.ToLower(s.Label())] = s
	}
	return v
}

func withCanonical(extra Vocabulary) Vocabulary {
	v := canonicalVocabulary()
	for k, s := range extra {
		v[k] = s
	}
	return v
}

var vocabularies = map[Source]Vocabulary{
	SourceCanonical: canonicalVocabulary(),
	SourceTracker: withCanonical(Vocabulary{
		"executed":     domain.StatusComplete,
		"approved":     domain.StatusComplete,
		"issued":       domain.StatusComplete,
		"received":     domain.StatusComplete,
		"closed":       domain.StatusComplete,
		"done":         domain.StatusComplete,
		"initiated":    domain.StatusInProgress,
		"option":       domain.StatusInProgress,
		"filed":        domain.StatusInProgress,
		"submitted":    domain.StatusInProgress,
		"under review": domain.StatusInProgress,
		"negotiating":  domain.StatusInProgress,
		"on hold":      domain.StatusBlocked,
		"stalled":      domain.StatusBlocked,
		"none":         domain.StatusNotStarted,
		"tbd":          domain.StatusNotStarted,
	}),
	SourceDocument: withCanonical(Vocabulary{
		"completed": domain.StatusComplete,
		"done":      domain.StatusComplete,
		"finished":  domain.StatusComplete,
		"started":   domain.StatusInProgress,
		"ongoing":   domain.StatusInProgress,
		"delayed":   domain.StatusBlocked,
		"pending":   domain.StatusNotStarted,
	}),
}

// Sources returns the known status sources in name order.
func Sources() []Source {
	out := make([]Source, 0, len(vocabularies))
	for s := range vocabularies {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// LookupStatus maps raw through the source's vocabulary. Matching is exact
// after trimming and lower-casing; anything else is a *domain.ValidationError.
func LookupStatus(source Source, raw string) (domain.MilestoneStatus, error) {
	vocab, ok := vocabularies[source]
	if !ok {
		return "", &domain.ValidationError{Field: "source", Value: string(source), Message: "unknown status source"}
	}
	s, ok := vocab[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", &domain.ValidationError{Field: "status", Value: raw, Message: "unmapped " + string(source) + " status"}
	}
	return s, nil
}

// BestStatus returns whichever status shows more progress.
func BestStatus(a, b domain.MilestoneStatus) domain.MilestoneStatus {
	if b.Progress() > a.Progress() {
		return b
	}
	return a
}
