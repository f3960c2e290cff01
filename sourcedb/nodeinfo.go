package sourcedb

import (
	"context"
	"fmt"

	"github.com/LegacyCodeHQ/sourcedb/bazel"
)

// Querier is the subset of the Bazel client the engine depends on.
type Querier interface {
	ListPythonNodes(ctx context.Context) ([]string, error)
	SourceFileLabels(ctx context.Context, label string) ([]string, error)
	DependencyLabels(ctx context.Context, label string) ([]string, error)
	KindOf(ctx context.Context, label string) (string, error)
}

// NodeInfo is the resolved view of a single build target.
type NodeInfo struct {
	Kind        string
	SourcePaths []string
	Deps        []string
}

// NodeInfoCache memoizes per-label queries for one run. Kinds, source paths and
// full node info are cached independently so each underlying query is issued at
// most once per label, whatever order callers ask in.
//
// A NodeInfoCache is not safe for concurrent use.
type NodeInfoCache struct {
	querier Querier
	kinds   map[string]string
	sources map[string][]string
	infos   map[string]NodeInfo
}

// NewNodeInfoCache returns an empty cache backed by querier.
func NewNodeInfoCache(querier Querier) *NodeInfoCache {
	return &NodeInfoCache{
		querier: querier,
		kinds:   make(map[string]string),
		sources: make(map[string][]string),
		infos:   make(map[string]NodeInfo),
	}
}

// Kind returns the rule kind of label.
func (c *NodeInfoCache) Kind(ctx context.Context, label string) (string, error) {
	if kind, ok := c.kinds[label]; ok {
		return kind, nil
	}
	kind, err := c.querier.KindOf(ctx, label)
	if err != nil {
		return "", fmt.Errorf("failed to resolve kind of %s: %w", label, err)
	}
	c.kinds[label] = kind
	return kind, nil
}

// SourcePaths returns the deduplicated workspace-relative source paths of label.
func (c *NodeInfoCache) SourcePaths(ctx context.Context, label string) ([]string, error) {
	if paths, ok := c.sources[label]; ok {
		return paths, nil
	}
	fileLabels, err := c.querier.SourceFileLabels(ctx, label)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources of %s: %w", label, err)
	}

	paths := make([]string, 0, len(fileLabels))
	for _, fl := range fileLabels {
		paths = append(paths, bazel.PathFromFileLabel(fl))
	}
	paths = deduplicate(paths)
	c.sources[label] = paths
	return paths, nil
}

// Resolve returns the memoized NodeInfo for label, querying Bazel on first use.
// Dependencies are filtered to Python rule kinds.
func (c *NodeInfoCache) Resolve(ctx context.Context, label string) (NodeInfo, error) {
	if info, ok := c.infos[label]; ok {
		return info, nil
	}

	kind, err := c.Kind(ctx, label)
	if err != nil {
		return NodeInfo{}, err
	}
	paths, err := c.SourcePaths(ctx, label)
	if err != nil {
		return NodeInfo{}, err
	}
	depLabels, err := c.querier.DependencyLabels(ctx, label)
	if err != nil {
		return NodeInfo{}, fmt.Errorf("failed to list deps of %s: %w", label, err)
	}

	deps := make([]string, 0, len(depLabels))
	for _, dep := range deduplicate(depLabels) {
		depKind, err := c.Kind(ctx, dep)
		if err != nil {
			return NodeInfo{}, err
		}
		if bazel.IsPythonKind(depKind) {
			deps = append(deps, dep)
		}
	}

	info := NodeInfo{Kind: kind, SourcePaths: paths, Deps: deps}
	c.infos[label] = info
	return info, nil
}

// Lookup returns previously resolved info without issuing queries.
func (c *NodeInfoCache) Lookup(label string) (NodeInfo, bool) {
	info, ok := c.infos[label]
	return info, ok
}

// deduplicate removes duplicate entries while preserving insertion order
func deduplicate(values []string) []string {
	seen := make(map[string]bool, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			result = append(result, v)
		}
	}
	return result
}
