package sourcedb

import (
	"fmt"
	"sort"

	"github.com/LegacyCodeHQ/sourcedb/bazel"
)

// Assembler folds resolved targets into a Database in traversal order.
type Assembler struct {
	cache         *NodeInfoCache
	workspaceRoot string
	interp        Interpreter
	db            Database
}

// NewAssembler returns an Assembler that reads resolved targets from cache.
func NewAssembler(cache *NodeInfoCache, workspaceRoot string, interp Interpreter) *Assembler {
	return &Assembler{
		cache:         cache,
		workspaceRoot: workspaceRoot,
		interp:        interp,
		db:            make(Database),
	}
}

// Add merges the entry for label. The target must already be resolved, which
// the post-order traversal guarantees.
func (a *Assembler) Add(label string) error {
	info, ok := a.cache.Lookup(label)
	if !ok {
		return fmt.Errorf("target %s was not resolved before assembly", label)
	}

	buildfile := bazel.BuildfilePathForLabel(label, a.workspaceRoot)
	a.db.Merge(label, Fragment{
		Srcs:          BuildModuleMap(bazel.IsBinaryKind(info.Kind), info.SourcePaths),
		Deps:          info.Deps,
		BuildfilePath: bazel.RelativizeBuildfilePath(buildfile, a.workspaceRoot),
	}, a.interp)
	return nil
}

// AddAll merges every label in order.
func (a *Assembler) AddAll(order []string) error {
	for _, label := range order {
		if err := a.Add(label); err != nil {
			return err
		}
	}
	return nil
}

// Result returns the assembled database together with the workspace root.
func (a *Assembler) Result() *Result {
	return &Result{DB: a.db, Root: a.workspaceRoot}
}

func sortedKeys(m ModuleMap) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
