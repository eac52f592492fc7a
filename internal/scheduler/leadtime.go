package scheduler

import (
	"fmt"

	"github.com/alexanderramin/critpath/internal/domain"
)

// Resolution is the effective duration of a milestone and where it came from.
type Resolution struct {
	Weeks  int
	Source domain.DurationSource
	Note   *domain.Note
}

// ResolveDuration returns the effective duration of a milestone in weeks.
// Precedence: the instance's duration override, then the site's lead-time
// override for the template's lead_time_key, then the template default.
// A lead_time_key unknown to both the site config and the catalog table
// falls back to the template default and yields a low-severity note. A
// negative override or lead time is ignored with a medium-severity note.
func (e *Engine) ResolveDuration(t domain.MilestoneTemplate, inst *domain.MilestoneInstance, cfg domain.CriticalPathConfig) Resolution {
	var note *domain.Note
	if inst != nil && inst.DurationOverride != nil {
		if *inst.DurationOverride >= 0 {
			return Resolution{Weeks: *inst.DurationOverride, Source: domain.SourceOverride}
		}
		note = &domain.Note{
			Severity:    domain.SeverityMedium,
			MilestoneID: t.ID,
			Message:     fmt.Sprintf("ignoring negative duration override %d", *inst.DurationOverride),
		}
	}

	if t.LeadTimeKey != "" {
		weeks, ok := cfg.LeadTimeOverrides[t.LeadTimeKey]
		if ok && weeks >= 0 {
			return Resolution{Weeks: weeks, Source: domain.SourceLeadTime}
		}
		if ok && note == nil {
			note = &domain.Note{
				Severity:    domain.SeverityMedium,
				MilestoneID: t.ID,
				Message:     fmt.Sprintf("ignoring negative lead time %d for %q, using template duration of %d weeks", weeks, t.LeadTimeKey, t.DurationTypical),
			}
		}
		if _, known := e.catalog.LeadTime(t.LeadTimeKey); !known && note == nil {
			note = &domain.Note{
				Severity:    domain.SeverityLow,
				MilestoneID: t.ID,
				Message:     fmt.Sprintf("unknown lead time key %q, using template duration of %d weeks", t.LeadTimeKey, t.DurationTypical),
			}
		}
	}

	weeks := t.DurationTypical
	if weeks < 0 {
		weeks = 0
	}
	return Resolution{Weeks: weeks, Source: domain.SourceTemplate, Note: note}
}
