package bazel

import (
	"os"
	"path/filepath"
	"strings"
)

// BuildFileNames lists the build file names Bazel recognizes, in lookup order.
var BuildFileNames = []string{"BUILD.bazel", "BUILD"}

// BuildfilePathForLabel returns the absolute path of the build file declaring
// label, or an empty string when the label is not root-relative or neither build
// file name exists in its package directory.
func BuildfilePathForLabel(label, workspaceRoot string) string {
	pkg, ok := PackageOf(label)
	if !ok {
		return ""
	}

	dir := filepath.Join(workspaceRoot, filepath.FromSlash(pkg))
	for _, name := range BuildFileNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// RelativizeBuildfilePath rewrites an absolute build file path under
// workspaceRoot as a //-prefixed, forward-slash path. Paths outside the workspace
// are returned unchanged.
func RelativizeBuildfilePath(absPath, workspaceRoot string) string {
	if absPath == "" {
		return ""
	}
	rel, err := filepath.Rel(workspaceRoot, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return absPath
	}
	return RootPrefix + filepath.ToSlash(rel)
}
