package sourcedb

import (
	"context"
	"errors"
	"fmt"
	"sort"

	graphlib "github.com/dominikbraun/graph"
)

// KindAttribute is the vertex attribute holding a target's rule kind.
const KindAttribute = "kind"

// TargetGraph is the directed graph of Python targets reached by a traversal,
// with edges pointing from a target to its dependencies.
type TargetGraph = graphlib.Graph[string, string]

// Traversal is the result of walking the dependency graph from a set of roots.
type Traversal struct {
	// Roots are the sorted starting targets.
	Roots []string
	// Order lists every reached target in post-order: each target appears after
	// all of its dependencies, cycles excepted.
	Order []string
	Graph TargetGraph
}

type traverser struct {
	cache   *NodeInfoCache
	visited map[string]bool
	result  *Traversal
}

// Traverse runs a depth-first walk from roots (visited in sorted order) over
// Python dependency edges. A target already visited, including one still on the
// current path, is not re-entered, so dependency cycles end silently.
func Traverse(ctx context.Context, cache *NodeInfoCache, roots []string) (*Traversal, error) {
	sorted := append([]string(nil), roots...)
	sort.Strings(sorted)

	t := &traverser{
		cache:   cache,
		visited: make(map[string]bool),
		result: &Traversal{
			Roots: sorted,
			Graph: graphlib.New(graphlib.StringHash, graphlib.Directed()),
		},
	}
	for _, root := range sorted {
		if err := t.visit(ctx, root); err != nil {
			return nil, err
		}
	}
	return t.result, nil
}

func (t *traverser) visit(ctx context.Context, label string) error {
	if t.visited[label] {
		return nil
	}
	t.visited[label] = true

	info, err := t.cache.Resolve(ctx, label)
	if err != nil {
		return err
	}
	if err := t.result.Graph.AddVertex(label, graphlib.VertexAttribute(KindAttribute, info.Kind)); err != nil &&
		!errors.Is(err, graphlib.ErrVertexAlreadyExists) {
		return fmt.Errorf("failed to add target %s: %w", label, err)
	}

	for _, dep := range info.Deps {
		if err := t.visit(ctx, dep); err != nil {
			return err
		}
		if err := t.result.Graph.AddEdge(label, dep); err != nil && !errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
			return fmt.Errorf("failed to add dependency %s -> %s: %w", label, dep, err)
		}
	}

	t.result.Order = append(t.result.Order, label)
	return nil
}
