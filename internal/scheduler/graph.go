package scheduler

import (
	"fmt"
	"sort"

	"github.com/alexanderramin/critpath/internal/dag"
	"github.com/alexanderramin/critpath/internal/domain"
)

// activeGraph is the sub-DAG of active milestones for one site. Edges to
// inactive or absent milestones are replaced by edges to their nearest
// active ancestors.
type activeGraph struct {
	order     []string
	preds     map[string][]string
	succs     map[string][]string
	templates map[string]domain.MilestoneTemplate
	weeks     map[string]int
	terminals []string
	notes     []domain.Note
}

func (e *Engine) buildGraph(data *domain.CriticalPathData) (*activeGraph, error) {
	g := &activeGraph{
		preds:     make(map[string][]string),
		succs:     make(map[string][]string),
		templates: make(map[string]domain.MilestoneTemplate),
		weeks:     make(map[string]int),
	}

	var active []string
	for _, id := range data.MilestoneIDs() {
		inst := data.Milestones[id]
		if inst == nil || !inst.Active {
			continue
		}
		t, ok := e.catalog.Template(id)
		if !ok {
			return nil, &domain.ConfigurationError{Reason: "active milestone has no catalog template", MilestoneID: id}
		}
		g.templates[id] = t
		active = append(active, id)
	}

	isActive := func(id string) bool {
		inst, ok := data.Milestones[id]
		return ok && inst != nil && inst.Active
	}

	memo := make(map[string][]string)
	var nearestActive func(id string, path []string) ([]string, error)
	nearestActive = func(id string, path []string) ([]string, error) {
		if isActive(id) {
			return []string{id}, nil
		}
		if got, ok := memo[id]; ok {
			return got, nil
		}
		for _, p := range path {
			if p == id {
				return nil, &domain.ConfigurationError{Reason: "cycle detected in milestone dependencies", Cycle: append(append([]string{}, path...), id)}
			}
		}
		t, ok := e.catalog.Template(id)
		if !ok {
			return nil, &domain.ConfigurationError{Reason: fmt.Sprintf("dangling predecessor reference %q", id)}
		}
		var out []string
		for _, p := range t.Predecessors {
			anc, err := nearestActive(p, append(path, id))
			if err != nil {
				return nil, err
			}
			out = append(out, anc...)
		}
		out = sortedUnique(out)
		memo[id] = out
		return out, nil
	}

	for _, id := range active {
		var preds []string
		for _, p := range g.templates[id].Predecessors {
			if _, ok := e.catalog.Template(p); !ok {
				return nil, &domain.ConfigurationError{Reason: fmt.Sprintf("dangling predecessor reference %q", p), MilestoneID: id}
			}
			anc, err := nearestActive(p, []string{id})
			if err != nil {
				return nil, err
			}
			preds = append(preds, anc...)
		}
		g.preds[id] = sortedUnique(preds)
	}

	active, err := g.pruneDeadEnds(active)
	if err != nil {
		return nil, err
	}
	for _, id := range active {
		for _, p := range g.preds[id] {
			g.succs[p] = append(g.succs[p], id)
		}
	}
	for id := range g.succs {
		sort.Strings(g.succs[id])
	}

	order, err := dag.TopoSort(active, g.preds)
	if err != nil {
		return nil, err
	}
	g.order = order

	for _, id := range order {
		t := g.templates[id]
		res := e.ResolveDuration(t, data.Milestones[id], data.Config)
		g.weeks[id] = res.Weeks
		if res.Note != nil {
			g.notes = append(g.notes, *res.Note)
		}
		if t.Terminal {
			g.terminals = append(g.terminals, id)
		}
	}
	if len(g.terminals) == 0 {
		return nil, &domain.ConfigurationError{Reason: "no active terminal milestone"}
	}
	return g, nil
}

// pruneDeadEnds keeps the active milestones that lead to an active terminal
// milestone. The others cannot affect energization and are left
// unscheduled with a medium note, so no scheduled milestone ends after
// energization.
func (g *activeGraph) pruneDeadEnds(active []string) ([]string, error) {
	leads := make(map[string]bool, len(active))
	var stack []string
	for _, id := range active {
		if g.templates[id].Terminal {
			leads[id] = true
			stack = append(stack, id)
		}
	}
	if len(stack) == 0 {
		return nil, &domain.ConfigurationError{Reason: "no active terminal milestone"}
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range g.preds[id] {
			if !leads[p] {
				leads[p] = true
				stack = append(stack, p)
			}
		}
	}

	kept := make([]string, 0, len(active))
	for _, id := range active {
		if leads[id] {
			kept = append(kept, id)
			continue
		}
		delete(g.preds, id)
		g.notes = append(g.notes, domain.Note{
			Severity:    domain.SeverityMedium,
			MilestoneID: id,
			Message:     "leads to no active terminal milestone, left unscheduled",
		})
	}
	return kept, nil
}

func sortedUnique(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	sort.Strings(ids)
	out := ids[:1]
	for _, id := range ids[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}
