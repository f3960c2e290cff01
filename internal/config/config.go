// Package config loads the optional .sourcedb.yaml file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory and the
// workspace root.
const FileName = ".sourcedb.yaml"

// Config holds settings that can also be given as flags. Flags win.
type Config struct {
	// Bazel is the Bazel executable (bazel, bazelisk or a path).
	Bazel string `yaml:"bazel"`
	// QueryFlags are appended to every bazel query.
	QueryFlags []string `yaml:"query_flags,omitempty"`
	// Python is the interpreter probed for python_version.
	Python string `yaml:"python"`
	// PythonVersion pins python_version and skips the interpreter probe.
	PythonVersion string `yaml:"python_version,omitempty"`
	// PythonPlatform pins python_platform.
	PythonPlatform string `yaml:"python_platform,omitempty"`
	// StrictSuffixMatch limits the ownership suffix fallback to whole path segments.
	StrictSuffixMatch bool `yaml:"strict_suffix_match"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Bazel:  "bazel",
		Python: "python3",
	}
}

// Load reads the config at path on top of Default. A missing file is not an
// error when optional is true.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.Bazel == "" {
		cfg.Bazel = Default().Bazel
	}
	if cfg.Python == "" {
		cfg.Python = Default().Python
	}
	return cfg, nil
}

// Discover returns the first existing config file among dirs, or "".
func Discover(dirs ...string) string {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}
