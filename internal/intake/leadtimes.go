package intake

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/critpath/internal/catalog"
	"github.com/alexanderramin/critpath/internal/domain"
)

// LeadTimeResult reports a lead-time feed merge.
type LeadTimeResult struct {
	Applied  map[string]int `json:"applied"`
	Rejected []Rejection    `json:"rejected"`
	Notes    []domain.Note  `json:"notes"`
}

// ApplyLeadTimes merges {lead_time_key: weeks} intelligence into the site's
// lead-time overrides. Negative or non-numeric values are rejected. Keys the
// catalog table does not define are accepted with a low-severity note.
func ApplyLeadTimes(cat *catalog.Catalog, data *domain.CriticalPathData, source string, updates map[string]any, now time.Time) (*domain.CriticalPathData, LeadTimeResult) {
	out := data.Clone()
	res := LeadTimeResult{Applied: map[string]int{}}

	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, raw := range keys {
		key := strings.TrimSpace(raw)
		if key == "" {
			res.Rejected = append(res.Rejected, rejection(raw, &domain.ValidationError{Field: "lead_time_key", Value: raw, Message: "empty key"}))
			continue
		}
		weeks, err := domain.NonNegativeInt("lead_time_overrides."+key, updates[raw])
		if err != nil {
			res.Rejected = append(res.Rejected, rejection(key, err))
			continue
		}
		if _, known := cat.LeadTime(key); !known {
			res.Notes = append(res.Notes, domain.Note{
				Severity: domain.SeverityLow,
				Message:  fmt.Sprintf("lead time key %q is not in the catalog table", key),
			})
		}
		if out.Config.LeadTimeOverrides == nil {
			out.Config.LeadTimeOverrides = map[string]int{}
		}
		out.Config.LeadTimeOverrides[key] = weeks
		res.Applied[key] = weeks
	}

	if len(res.Applied) > 0 {
		out.IntelligenceDatabase = appendAudit(out.IntelligenceDatabase, KeyAppliedIntelligence, map[string]any{
			"timestamp":  now.UTC().Truncate(time.Second).Format(time.RFC3339),
			"source":     source,
			"lead_times": res.Applied,
		})
	}
	return out, res
}

// isoTimelineMilestones routes ISO study timeline fields to study milestones.
var isoTimelineMilestones = map[string]string{
	"screening_weeks": "PS-PWR-04",
	"sis_weeks":       "PS-PWR-05",
	"fs_weeks":        "PS-PWR-06",
}

// ApplyISOTimeline sets duration overrides on the interconnection study
// milestones from published ISO study timelines. Unknown fields are rejected.
func ApplyISOTimeline(data *domain.CriticalPathData, iso string, timeline map[string]any, now time.Time) (*domain.CriticalPathData, LeadTimeResult) {
	out := data.Clone()
	res := LeadTimeResult{Applied: map[string]int{}}

	fields := make([]string, 0, len(timeline))
	for f := range timeline {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	for _, f := range fields {
		id, ok := isoTimelineMilestones[f]
		if !ok {
			res.Rejected = append(res.Rejected, rejection(f, &domain.ValidationError{Field: f, Value: timeline[f], Message: "unknown timeline field"}))
			continue
		}
		weeks, err := domain.NonNegativeInt(f, timeline[f])
		if err != nil {
			res.Rejected = append(res.Rejected, rejection(f, err))
			continue
		}
		inst, ok := out.Milestones[id]
		if !ok || inst == nil {
			res.Rejected = append(res.Rejected, rejection(f, &domain.LookupError{Kind: "milestone", ID: id}))
			continue
		}
		inst.DurationOverride = domain.IntPtr(weeks)
		res.Applied[id] = weeks
	}

	if len(res.Applied) > 0 {
		out.IntelligenceDatabase = appendAudit(out.IntelligenceDatabase, KeyAppliedIntelligence, map[string]any{
			"timestamp":          now.UTC().Truncate(time.Second).Format(time.RFC3339),
			"iso":                strings.ToUpper(iso),
			"milestones_updated": len(res.Applied),
			"timeline_data":      timeline,
		})
	}
	return out, res
}
