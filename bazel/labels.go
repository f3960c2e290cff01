package bazel

import "strings"

// RootPrefix marks a label relative to the main workspace root.
const RootPrefix = "//"

// PathFromFileLabel converts a file label such as //pkg/sub:file.py into the
// workspace-relative path pkg/sub/file.py. Labels outside the main workspace
// (for example @repo//pkg:file.py) are returned unchanged.
func PathFromFileLabel(label string) string {
	if !strings.HasPrefix(label, RootPrefix) {
		return label
	}
	rest := strings.TrimPrefix(label, RootPrefix)
	pkg, file, found := strings.Cut(rest, ":")
	if !found {
		return rest
	}
	if pkg == "" {
		return file
	}
	return pkg + "/" + file
}

// PackageOf returns the package directory of a root-relative label:
// //foo/bar:baz -> foo/bar, //foo/bar -> foo/bar, //:baz -> "".
// ok is false for labels that are not root-relative.
func PackageOf(label string) (pkg string, ok bool) {
	if !strings.HasPrefix(label, RootPrefix) {
		return "", false
	}
	rest := strings.TrimPrefix(label, RootPrefix)
	if idx := strings.Index(rest, ":"); idx != -1 {
		return rest[:idx], true
	}
	return rest, true
}
