package intake

import (
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/critpath/internal/domain"
)

// PhaseMap routes an external tracker phase to the milestones it reports on.
type PhaseMap map[string][]string

// DefaultPhaseMap returns the phase routing used by the site tracker.
func DefaultPhaseMap() PhaseMap {
	return PhaseMap{
		"site_control":      {"PS-SC-02"},
		"land_contract":     {"PS-SC-03"},
		"title":             {"PS-SC-04"},
		"survey":            {"PS-SC-05"},
		"ic_application":    {"PS-PWR-02"},
		"queue_position":    {"PS-PWR-03"},
		"screening":         {"PS-PWR-04"},
		"sis":               {"PS-PWR-05"},
		"facilities_study":  {"PS-PWR-06"},
		"ia":                {"PS-PWR-09"},
		"power":             {"PS-PWR-09"},
		"zoning":            {"PS-ZN-06"},
		"environmental":     {"PS-ENV-01", "PS-ENV-02"},
		"geotech":           {"PS-ENV-03"},
		"water":             {"PS-WTR-02"},
		"will_serve":        {"PS-WTR-02"},
		"security_funding":  {"PS-FIN-02"},
		"end_user":          {"PS-MKT-02"},
		"buyer_loi":         {"PS-MKT-03"},
		"transaction":       {"PS-TXN-03"},
		"transformer_order": {"POST-EQ-01"},
	}
}

// StatusChange records the status written to one milestone by a sync.
type StatusChange struct {
	MilestoneID string                 `json:"milestone_id"`
	From        domain.MilestoneStatus `json:"from"`
	To          domain.MilestoneStatus `json:"to"`
	Phases      []string               `json:"phases"`
}

// SyncResult reports a status sync. Applied is ordered by milestone id.
type SyncResult struct {
	Applied  []StatusChange `json:"applied"`
	Rejected []Rejection    `json:"rejected"`
}

// Changed returns the applied entries whose status actually moved.
func (r SyncResult) Changed() []StatusChange {
	var out []StatusChange
	for _, c := range r.Applied {
		if c.From != c.To {
			out = append(out, c)
		}
	}
	return out
}

// SyncStatuses maps per-phase status strings from source onto milestone
// statuses. When several phases route to the same milestone the status with
// the most progress wins. Unknown phases, unmapped strings and milestones the
// site lacks are rejected individually; the rest of the batch still applies.
func SyncStatuses(data *domain.CriticalPathData, source Source, phases map[string]string, routes PhaseMap, now time.Time) (*domain.CriticalPathData, SyncResult) {
	out := data.Clone()
	var res SyncResult

	names := make([]string, 0, len(phases))
	for p := range phases {
		names = append(names, p)
	}
	sort.Strings(names)

	best := map[string]domain.MilestoneStatus{}
	from := map[string][]string{}
	for _, phase := range names {
		key := strings.ToLower(strings.TrimSpace(phase))
		targets, ok := routes[key]
		if !ok {
			res.Rejected = append(res.Rejected, rejection(phase, &domain.ValidationError{Field: "phase", Value: phase, Message: "unknown phase"}))
			continue
		}
		status, err := LookupStatus(source, phases[phase])
		if err != nil {
			res.Rejected = append(res.Rejected, rejection(phase, err))
			continue
		}
		for _, id := range targets {
			if cur, seen := best[id]; seen {
				best[id] = BestStatus(cur, status)
			} else {
				best[id] = status
			}
			from[id] = append(from[id], phase)
		}
	}

	ids := make([]string, 0, len(best))
	for id := range best {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	stamp := now.UTC().Truncate(time.Second)
	for _, id := range ids {
		inst, ok := out.Milestones[id]
		if !ok || inst == nil {
			res.Rejected = append(res.Rejected, rejection(id, &domain.LookupError{Kind: "milestone", ID: id}))
			continue
		}
		change := StatusChange{MilestoneID: id, From: inst.Status, To: best[id], Phases: from[id]}
		if inst.Status != best[id] {
			inst.Status = best[id]
			inst.UpdatedAt = domain.TimePtr(stamp)
		}
		res.Applied = append(res.Applied, change)
	}

	if len(res.Applied) > 0 || len(res.Rejected) > 0 {
		out.DocumentScanHistory = appendAudit(out.DocumentScanHistory, KeyStatusSyncs, map[string]any{
			"timestamp": stamp.Format(time.RFC3339),
			"source":    string(source),
			"applied":   res.Applied,
			"rejected":  res.Rejected,
		})
	}
	return out, res
}
