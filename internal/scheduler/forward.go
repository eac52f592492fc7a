package scheduler

import (
	"github.com/alexanderramin/critpath/internal/domain"
)

// Schedule runs the forward pass: every active milestone starts when its
// latest active predecessor ends (or at the project start) and ends after
// its resolved duration. Energization is the latest end among active
// terminal milestones.
//
// On error data is left exactly as it was.
func (e *Engine) Schedule(data *domain.CriticalPathData) error {
	g, err := e.buildGraph(data)
	if err != nil {
		return err
	}

	start := domain.CivilDate(domain.TimeFromPtrWithDefault(e.Today(), data.Config.ProjectStart))

	es := make(map[string]int, len(g.order))
	ef := make(map[string]int, len(g.order))
	for _, id := range g.order {
		begin := 0
		for _, p := range g.preds[id] {
			if ef[p] > begin {
				begin = ef[p]
			}
		}
		es[id] = begin
		ef[id] = begin + g.weeks[id]
	}

	finish := 0
	for _, id := range g.terminals {
		if ef[id] > finish {
			finish = ef[id]
		}
	}

	for _, id := range data.MilestoneIDs() {
		inst := data.Milestones[id]
		if inst == nil {
			continue
		}
		inst.ClearComputed()
		if _, ok := es[id]; !ok {
			continue
		}
		ts := domain.AddWeeks(start, es[id])
		te := domain.AddWeeks(start, ef[id])
		inst.TargetStart = &ts
		inst.TargetEnd = &te
		inst.ResolvedWeeks = g.weeks[id]
	}

	energization := domain.AddWeeks(start, finish)
	data.CalculatedEnergization = &energization
	data.TotalDurationWeeks = domain.WeeksBetween(start, energization)
	data.CriticalPath = nil
	data.PrimaryDriver = ""
	data.PrimaryDriverWorkstream = ""
	data.Notes = g.notes
	return nil
}
