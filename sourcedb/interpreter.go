package sourcedb

import (
	"context"
	"fmt"
	"regexp"
	"runtime"
	"strings"

	"github.com/LegacyCodeHQ/sourcedb/internal/process"
)

// DefaultPythonVersion is used when no interpreter can be probed.
const DefaultPythonVersion = "3.11"

// versionProgram prints major.minor of the running interpreter.
const versionProgram = "import sys; print('%d.%d' % sys.version_info[:2])"

var pythonVersionPattern = regexp.MustCompile(`^\d+\.\d+$`)

// Interpreter is the Python metadata stamped on every entry of a run.
type Interpreter struct {
	Version  string
	Platform string
}

// PlatformTag maps a GOOS value onto the platform names Python type checkers use.
func PlatformTag(goos string) string {
	switch {
	case strings.HasPrefix(goos, "linux"):
		return "linux"
	case goos == "darwin":
		return "macosx"
	case strings.HasPrefix(goos, "win"):
		return "windows"
	default:
		return goos
	}
}

// HostPlatform returns the platform tag of the running system.
func HostPlatform() string {
	return PlatformTag(runtime.GOOS)
}

// DetectPythonVersion runs the interpreter behind run and returns its
// major.minor version.
func DetectPythonVersion(ctx context.Context, run process.Runner) (string, error) {
	stdout, stderr, err := run(ctx, "-c", versionProgram)
	if err != nil {
		if stderr != "" {
			return "", fmt.Errorf("python version probe failed: %s", stderr)
		}
		return "", fmt.Errorf("python version probe failed: %w", err)
	}

	version := strings.TrimSpace(string(stdout))
	if !pythonVersionPattern.MatchString(version) {
		return "", fmt.Errorf("unexpected python version output %q", version)
	}
	return version, nil
}

// ValidatePythonVersion reports whether v looks like major.minor.
func ValidatePythonVersion(v string) error {
	if !pythonVersionPattern.MatchString(v) {
		return fmt.Errorf("invalid python version %q (expected major.minor, e.g. 3.11)", v)
	}
	return nil
}
