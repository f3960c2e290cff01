package bazel

import "strings"

const (
	pythonKindPrefix = "py_"
	binaryKindPrefix = "py_binary"
)

// IsPythonKind reports whether a rule kind is one of the Python rules.
func IsPythonKind(kind string) bool {
	return strings.HasPrefix(kind, pythonKindPrefix)
}

// IsBinaryKind reports whether a rule kind is a Python binary.
func IsBinaryKind(kind string) bool {
	return strings.HasPrefix(kind, binaryKindPrefix)
}
