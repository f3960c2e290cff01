package sourcedb

import (
	"path/filepath"
	"strings"
)

// workspacePath normalizes a requested file path: it is made absolute against
// workingDir and, when it lies under workspaceRoot, returned as a forward-slash
// workspace-relative path. Paths outside the workspace are returned as given.
func workspacePath(requested, workingDir, workspaceRoot string) string {
	absPath := requested
	if !filepath.IsAbs(absPath) {
		absPath = filepath.Join(workingDir, absPath)
	}
	absPath = filepath.Clean(absPath)

	if rel, ok := relativeTo(workspaceRoot, absPath); ok {
		return filepath.ToSlash(rel)
	}
	return requested
}

// relativeTo returns targetPath relative to baseDir when it lies within it.
// Symlinks are resolved on both sides when possible so /tmp style aliases
// still compare equal.
func relativeTo(baseDir, targetPath string) (string, bool) {
	baseDir = resolveSymlinks(filepath.Clean(baseDir))
	targetPath = resolveSymlinks(filepath.Clean(targetPath))

	rel, err := filepath.Rel(baseDir, targetPath)
	if err != nil {
		return "", false
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", false
	}
	return rel, true
}

func resolveSymlinks(path string) string {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return resolveParentSymlinks(path)
	}
	return resolved
}

// resolveParentSymlinks resolves the nearest existing ancestor of path, which
// keeps nonexistent requested files comparable with a resolved workspace root.
func resolveParentSymlinks(path string) string {
	dir, base := filepath.Split(path)
	dir = filepath.Clean(dir)
	if dir == path || base == "" {
		return path
	}
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return filepath.Join(resolveParentSymlinks(dir), base)
	}
	return filepath.Join(resolved, base)
}
