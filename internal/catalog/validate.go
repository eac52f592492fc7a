package catalog

import (
	"fmt"
	"sort"

	"github.com/alexanderramin/critpath/internal/dag"
	"github.com/alexanderramin/critpath/internal/domain"
)

// validate checks catalog integrity and returns the templates keyed by id
// together with their topological order. Every failure is a
// *domain.ConfigurationError.
func validate(templates []domain.MilestoneTemplate) (map[string]domain.MilestoneTemplate, []string, error) {
	if len(templates) == 0 {
		return nil, nil, &domain.ConfigurationError{Reason: "catalog has no milestone templates"}
	}

	byID := make(map[string]domain.MilestoneTemplate, len(templates))
	for _, t := range templates {
		if t.ID == "" {
			return nil, nil, &domain.ConfigurationError{Reason: fmt.Sprintf("template %q has an empty id", t.Name)}
		}
		if _, dup := byID[t.ID]; dup {
			return nil, nil, &domain.ConfigurationError{Reason: "duplicate template id", MilestoneID: t.ID}
		}
		if t.DurationTypical < 0 || t.DurationMin < 0 || t.DurationMax < 0 {
			return nil, nil, &domain.ConfigurationError{Reason: "negative template duration", MilestoneID: t.ID}
		}
		byID[t.ID] = copyTemplate(t)
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	preds := make(map[string][]string, len(byID))
	hasTerminal := false
	for _, id := range ids {
		t := byID[id]
		for _, p := range t.Predecessors {
			if p == id {
				return nil, nil, &domain.ConfigurationError{Reason: "template depends on itself", MilestoneID: id, Cycle: []string{id, id}}
			}
			if _, ok := byID[p]; !ok {
				return nil, nil, &domain.ConfigurationError{Reason: fmt.Sprintf("dangling predecessor reference %q", p), MilestoneID: id}
			}
		}
		preds[id] = t.Predecessors
		hasTerminal = hasTerminal || t.Terminal
	}
	if !hasTerminal {
		return nil, nil, &domain.ConfigurationError{Reason: "catalog has no terminal milestone"}
	}

	topo, err := dag.TopoSort(ids, preds)
	if err != nil {
		return nil, nil, err
	}

	if id := firstUnterminated(byID, topo); id != "" {
		return nil, nil, &domain.ConfigurationError{Reason: "milestone does not lead to any terminal milestone", MilestoneID: id}
	}

	return byID, topo, nil
}

// firstUnterminated returns the smallest id from which no terminal milestone
// is reachable, or "" when every template feeds a terminal.
func firstUnterminated(byID map[string]domain.MilestoneTemplate, topo []string) string {
	reaches := make(map[string]bool, len(byID))
	for _, id := range topo {
		if byID[id].Terminal {
			reaches[id] = true
		}
	}
	// Walk in reverse dependency order so successors are settled first.
	for i := len(topo) - 1; i >= 0; i-- {
		id := topo[i]
		if !reaches[id] {
			continue
		}
		for _, p := range byID[id].Predecessors {
			reaches[p] = true
		}
	}

	var missing []string
	for id := range byID {
		if !reaches[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return ""
	}
	sort.Strings(missing)
	return missing[0]
}
