package sourcedb

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// OwnershipIndex maps a workspace-relative source path to the labels of every
// Python target listing it in srcs.
type OwnershipIndex map[string][]string

// OwnershipResolver maps requested source files to the targets that own them.
type OwnershipResolver struct {
	querier       Querier
	cache         *NodeInfoCache
	workspaceRoot string
	workingDir    string
	strictSuffix  bool
	logger        *slog.Logger
}

// BuildIndex enumerates all Python targets and indexes their sources.
func (r *OwnershipResolver) BuildIndex(ctx context.Context) (OwnershipIndex, error) {
	labels, err := r.querier.ListPythonNodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list python targets: %w", err)
	}

	index := make(OwnershipIndex)
	for _, label := range labels {
		paths, err := r.cache.SourcePaths(ctx, label)
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			index.add(p, label)
		}
	}

	r.logger.Debug("indexed python targets", "targets", len(labels), "sources", len(index))
	return index, nil
}

// Resolve returns the sorted, deduplicated set of targets owning any of files.
// Files without an owner contribute nothing.
func (r *OwnershipResolver) Resolve(ctx context.Context, files []string) ([]string, error) {
	index, err := r.BuildIndex(ctx)
	if err != nil {
		return nil, err
	}

	roots := make(map[string]bool)
	for _, f := range files {
		rel := workspacePath(f, r.workingDir, r.workspaceRoot)
		owners := index.Owners(rel, r.strictSuffix)
		if len(owners) == 0 {
			r.logger.Debug("no owning target", "file", f, "path", rel)
			continue
		}
		for _, o := range owners {
			roots[o] = true
		}
	}

	result := make([]string, 0, len(roots))
	for label := range roots {
		result = append(result, label)
	}
	sort.Strings(result)
	return result, nil
}

// Owners returns the labels owning rel. Without an exact match, any indexed path
// ending with rel is accepted. This fallback is fuzzy (a.py also matches
// schema.py); strict limits it to matches on a path segment boundary.
func (idx OwnershipIndex) Owners(rel string, strict bool) []string {
	if owners, ok := idx[rel]; ok {
		return owners
	}
	if rel == "" {
		return nil
	}

	keys := make([]string, 0, len(idx))
	for key := range idx {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var owners []string
	for _, key := range keys {
		if !strings.HasSuffix(key, rel) {
			continue
		}
		if strict && !strings.HasSuffix(key, "/"+rel) {
			continue
		}
		owners = append(owners, idx[key]...)
	}
	return owners
}

func (idx OwnershipIndex) add(path, label string) {
	for _, existing := range idx[path] {
		if existing == label {
			return
		}
	}
	idx[path] = append(idx[path], label)
}
