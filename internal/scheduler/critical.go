package scheduler

import (
	"time"

	"github.com/alexanderramin/critpath/internal/domain"
)

// IdentifyCriticalPath runs the backward pass over a scheduled site. It sets
// each active milestone's float and critical flag, extracts the critical
// path ending at energization and names the primary driver. Schedule must
// have run first.
//
// Terminal milestones finish late at their own target end. Any other
// milestone finishes late at the earliest late start of its active
// successors, or at energization when it has none.
func (e *Engine) IdentifyCriticalPath(data *domain.CriticalPathData) error {
	g, err := e.buildGraph(data)
	if err != nil {
		return err
	}
	if data.CalculatedEnergization == nil {
		return &domain.ConfigurationError{Reason: "schedule has not been computed"}
	}
	for _, id := range g.order {
		inst := data.Milestones[id]
		if inst.TargetStart == nil || inst.TargetEnd == nil {
			return &domain.ConfigurationError{Reason: "schedule has not been computed", MilestoneID: id}
		}
	}
	energization := *data.CalculatedEnergization

	lateStart := make(map[string]time.Time, len(g.order))
	float := make(map[string]int, len(g.order))
	for i := len(g.order) - 1; i >= 0; i-- {
		id := g.order[i]
		inst := data.Milestones[id]

		var lateFinish time.Time
		switch {
		case g.templates[id].Terminal:
			lateFinish = *inst.TargetEnd
		case len(g.succs[id]) == 0:
			lateFinish = energization
		default:
			for j, s := range g.succs[id] {
				if j == 0 || lateStart[s].Before(lateFinish) {
					lateFinish = lateStart[s]
				}
			}
		}
		ls := domain.AddWeeks(lateFinish, -g.weeks[id])
		lateStart[id] = ls
		float[id] = domain.DaysBetween(*inst.TargetStart, ls) / 7
	}

	path := extractPath(data, g, float, energization)

	driver := ""
	best := -1
	for _, id := range path {
		if g.weeks[id] > best || (g.weeks[id] == best && id < driver) {
			best = g.weeks[id]
			driver = id
		}
	}

	for _, id := range g.order {
		inst := data.Milestones[id]
		f := float[id]
		inst.FloatWeeks = &f
		inst.OnCriticalPath = f == 0
	}
	data.CriticalPath = path
	data.PrimaryDriver = driver
	data.PrimaryDriverWorkstream = ""
	if driver != "" {
		data.PrimaryDriverWorkstream = g.templates[driver].Workstream
	}
	return nil
}

// extractPath walks back from the terminal that sets energization through
// zero-float predecessors that finish exactly when the current milestone
// starts. Ties go to the lexicographically smallest id.
func extractPath(data *domain.CriticalPathData, g *activeGraph, float map[string]int, energization time.Time) []string {
	current := ""
	for _, id := range g.terminals {
		if float[id] == 0 && data.Milestones[id].TargetEnd.Equal(energization) {
			if current == "" || id < current {
				current = id
			}
		}
	}
	if current == "" {
		return nil
	}

	var reversed []string
	for current != "" {
		reversed = append(reversed, current)
		start := *data.Milestones[current].TargetStart
		next := ""
		for _, p := range g.preds[current] {
			if float[p] != 0 || !data.Milestones[p].TargetEnd.Equal(start) {
				continue
			}
			if next == "" || p < next {
				next = p
			}
		}
		current = next
	}

	path := make([]string, len(reversed))
	for i, id := range reversed {
		path[len(reversed)-1-i] = id
	}
	return path
}
