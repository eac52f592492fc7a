// Package dag provides the deterministic topological ordering shared by the
// catalog validator and the scheduling engine.
package dag

import (
	"fmt"
	"sort"

	"github.com/alexanderramin/critpath/internal/domain"
)

// TopoSort orders nodes so that every node follows all of its predecessors.
// When several nodes are ready at once the lexicographically smallest id is
// emitted first, so the order is a pure function of the graph.
//
// preds maps a node to the nodes it depends on. References to ids outside
// nodes are ignored; callers validate those separately. A cycle yields a
// *domain.ConfigurationError carrying one cycle path.
func TopoSort(nodes []string, preds map[string][]string) ([]string, error) {
	if len(nodes) == 0 {
		return nil, nil
	}

	nodeSet := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		nodeSet[n] = true
	}

	inDegree := make(map[string]int, len(nodes))
	forward := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		inDegree[n] = 0
	}
	for _, n := range nodes {
		seen := make(map[string]bool)
		for _, p := range preds[n] {
			if !nodeSet[p] || seen[p] {
				continue
			}
			seen[p] = true
			inDegree[n]++
			forward[p] = append(forward[p], n)
		}
	}

	var ready []string
	for _, n := range nodes {
		if inDegree[n] == 0 {
			ready = append(ready, n)
		}
	}
	sort.Strings(ready)

	sorted := make([]string, 0, len(nodes))
	for len(ready) > 0 {
		node := ready[0]
		ready = ready[1:]
		sorted = append(sorted, node)

		for _, succ := range forward[node] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				ready = insertSorted(ready, succ)
			}
		}
	}

	if len(sorted) == len(nodes) {
		return sorted, nil
	}

	return nil, &domain.ConfigurationError{
		Reason: "cycle detected in milestone dependencies",
		Cycle:  findCyclePath(nodes, preds, nodeSet, inDegree),
	}
}

func insertSorted(s []string, v string) []string {
	i := sort.SearchStrings(s, v)
	s = append(s, "")
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

// findCyclePath walks predecessor edges among the nodes Kahn's algorithm
// could not emit and returns the first cycle found, in dependency order.
func findCyclePath(nodes []string, preds map[string][]string, nodeSet map[string]bool, inDegree map[string]int) []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int)
	parent := make(map[string]string)
	var cyclePath []string

	var dfs func(node string) bool
	dfs = func(node string) bool {
		color[node] = gray
		deps := append([]string{}, preds[node]...)
		sort.Strings(deps)
		for _, dep := range deps {
			if !nodeSet[dep] {
				continue
			}
			if color[dep] == gray {
				cyclePath = []string{dep}
				for cur := node; cur != dep; cur = parent[cur] {
					cyclePath = append(cyclePath, cur)
				}
				cyclePath = append(cyclePath, dep)
				for i, j := 0, len(cyclePath)-1; i < j; i, j = i+1, j-1 {
					cyclePath[i], cyclePath[j] = cyclePath[j], cyclePath[i]
				}
				return true
			}
			if color[dep] == white {
				parent[dep] = node
				if dfs(dep) {
					return true
				}
			}
		}
		color[node] = black
		return false
	}

	remaining := make([]string, 0)
	for _, n := range nodes {
		if inDegree[n] > 0 {
			remaining = append(remaining, n)
		}
	}
	sort.Strings(remaining)
	for _, n := range remaining {
		if color[n] == white && dfs(n) {
			return cyclePath
		}
	}
	return []string{fmt.Sprintf("(%d nodes unresolved)", len(remaining))}
}
