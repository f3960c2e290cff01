package sourcedb

import (
	"errors"
	"fmt"
	"sort"
)

// ErrTargetNotReached is returned when a target is outside the traversed closure.
var ErrTargetNotReached = errors.New("target not reached from the requested files")

// DependencyChain returns the shortest chain of dependency edges from one of the
// traversal roots to target, both ends included. Roots are tried in sorted order
// and dependencies are expanded in sorted order, so among chains of equal length
// the lexicographically first one wins.
func (t *Traversal) DependencyChain(target string) ([]string, error) {
	if _, err := t.Graph.Vertex(target); err != nil {
		return nil, fmt.Errorf("%s: %w", target, ErrTargetNotReached)
	}

	adjacency, err := t.Graph.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("failed to read target graph: %w", err)
	}
	deps := make(map[string][]string, len(adjacency))
	for label, edges := range adjacency {
		sorted := make([]string, 0, len(edges))
		for dep := range edges {
			sorted = append(sorted, dep)
		}
		sort.Strings(sorted)
		deps[label] = sorted
	}

	var best []string
	for _, root := range t.Roots {
		chain := shortestChain(deps, root, target)
		if chain != nil && (best == nil || len(chain) < len(best)) {
			best = chain
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%s: %w", target, ErrTargetNotReached)
	}
	return best, nil
}

// shortestChain runs a breadth-first search from root, returning nil when
// target is unreachable.
func shortestChain(deps map[string][]string, root, target string) []string {
	parent := map[string]string{root: ""}
	queue := []string{root}
	for len(queue) > 0 {
		label := queue[0]
		queue = queue[1:]
		if label == target {
			var chain []string
			for at := target; at != root; at = parent[at] {
				chain = append(chain, at)
			}
			chain = append(chain, root)
			for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
				chain[i], chain[j] = chain[j], chain[i]
			}
			return chain
		}
		for _, dep := range deps[label] {
			if _, seen := parent[dep]; seen {
				continue
			}
			parent[dep] = label
			queue = append(queue, dep)
		}
	}
	return nil
}
