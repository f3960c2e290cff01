package formatters

import (
	"fmt"
	"sort"

	"github.com/LegacyCodeHQ/sourcedb/bazel"
	"github.com/LegacyCodeHQ/sourcedb/sourcedb"
)

// Kind classes used for styling nodes.
const (
	ClassBinary  = "binary"
	ClassTest    = "test"
	ClassLibrary = "library"
)

// Targets is a sorted snapshot of a target graph.
type Targets struct {
	// Labels are sorted.
	Labels []string
	Kinds  map[string]string
	// Deps lists the sorted dependencies of each label.
	Deps map[string][]string
}

// Collect snapshots g for rendering.
func Collect(g sourcedb.TargetGraph) (*Targets, error) {
	adjacency, err := g.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("failed to read target graph: %w", err)
	}

	t := &Targets{
		Labels: make([]string, 0, len(adjacency)),
		Kinds:  make(map[string]string, len(adjacency)),
		Deps:   make(map[string][]string, len(adjacency)),
	}
	for label, edges := range adjacency {
		_, props, err := g.VertexWithProperties(label)
		if err != nil {
			return nil, fmt.Errorf("failed to read target %s: %w", label, err)
		}
		t.Labels = append(t.Labels, label)
		t.Kinds[label] = props.Attributes[sourcedb.KindAttribute]

		deps := make([]string, 0, len(edges))
		for dep := range edges {
			deps = append(deps, dep)
		}
		sort.Strings(deps)
		t.Deps[label] = deps
	}
	sort.Strings(t.Labels)
	return t, nil
}

// KindClass buckets a rule kind into binary, test or library.
func KindClass(kind string) string {
	switch {
	case bazel.IsBinaryKind(kind):
		return ClassBinary
	case kind == "py_test":
		return ClassTest
	default:
		return ClassLibrary
	}
}
