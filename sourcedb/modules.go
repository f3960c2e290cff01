package sourcedb

import "strings"

const (
	pythonSourceSuffix = ".py"
	packageInitSuffix  = ".__init__"
)

// ModuleNameFromPath converts a workspace-relative source path into its dotted
// import name: click/core.py -> click.core, plugins/__init__.py -> plugins.
// Non-Python paths only have their separators replaced.
func ModuleNameFromPath(path string) string {
	if !strings.HasSuffix(path, pythonSourceSuffix) {
		return strings.ReplaceAll(path, "/", ".")
	}
	module := strings.ReplaceAll(strings.TrimSuffix(path, pythonSourceSuffix), "/", ".")
	return strings.TrimSuffix(module, packageInitSuffix)
}

// moduleKey returns the srcs key for path. Binaries register their sources under
// the short module name only.
func moduleKey(binary bool, path string) string {
	module := ModuleNameFromPath(path)
	if !binary {
		return module
	}
	if idx := strings.LastIndex(module, "."); idx != -1 {
		return module[idx+1:]
	}
	return module
}

// ModuleMap groups source paths by module key, keeping first-seen order.
type ModuleMap map[string][]string

// BuildModuleMap computes the module map for a node of the given kind.
func BuildModuleMap(binary bool, paths []string) ModuleMap {
	modules := make(ModuleMap)
	for _, p := range paths {
		modules.add(moduleKey(binary, p), p)
	}
	return modules
}

func (m ModuleMap) add(module, path string) {
	for _, existing := range m[module] {
		if existing == path {
			return
		}
	}
	m[module] = append(m[module], path)
}
