// Package scenario evaluates what-if variants of a site schedule. Scenarios
// are pure: the baseline passed in is never modified.
package scenario

import (
	"errors"

	"github.com/alexanderramin/critpath/internal/domain"
	"github.com/alexanderramin/critpath/internal/scheduler"
)

// Outcome records what happened to a single override.
type Outcome struct {
	Index   int    `json:"index"`
	Target  string `json:"target"`
	Applied bool   `json:"applied"`
	Kind    string `json:"kind,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// Report lists the outcome of every override in a scenario, in order.
type Report struct {
	Scenario string    `json:"scenario"`
	Outcomes []Outcome `json:"outcomes"`
}

// Applied returns the number of overrides that took effect.
func (r Report) Applied() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Applied {
			n++
		}
	}
	return n
}

// Rejected returns the outcomes that did not take effect.
func (r Report) Rejected() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.Applied {
			out = append(out, o)
		}
	}
	return out
}

// Create builds a scenario. Overrides are not validated until Apply.
func Create(name, description string, overrides ...domain.Override) domain.Scenario {
	return domain.Scenario{
		Name:        name,
		Description: description,
		Overrides:   append([]domain.Override{}, overrides...),
	}
}

// Apply evaluates sc against a deep copy of data and returns the recomputed
// copy. Each override is applied independently; rejected overrides are
// reported and do not stop the rest. The returned error is reserved for a
// recompute that fails on the resulting configuration.
func Apply(e *scheduler.Engine, data *domain.CriticalPathData, sc domain.Scenario) (*domain.CriticalPathData, Report, error) {
	report := Report{Scenario: sc.Name, Outcomes: make([]Outcome, 0, len(sc.Overrides))}
	work := data.Clone()

	for i, o := range sc.Overrides {
		out := Outcome{Index: i, Target: o.Target()}
		if err := ApplyOverride(work, o); err != nil {
			out.Kind = domain.ErrorKind(err)
			out.Reason = reason(err)
		} else {
			out.Applied = true
		}
		report.Outcomes = append(report.Outcomes, out)
	}

	result, err := e.Recompute(work)
	if err != nil {
		return nil, report, err
	}
	return result, report, nil
}

func reason(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}
