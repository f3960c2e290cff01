package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingOptionalFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName), true)

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingRequiredFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), false)

	assert.ErrorContains(t, err, "failed to read config")
}

func TestLoad_ParsesAllFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := `bazel: bazelisk
query_flags:
  - --config=ci
  - --output_base=/tmp/ob
python: /usr/bin/python3.12
python_version: "3.12"
python_platform: linux
strict_suffix_match: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, false)

	require.NoError(t, err)
	assert.Equal(t, Config{
		Bazel:             "bazelisk",
		QueryFlags:        []string{"--config=ci", "--output_base=/tmp/ob"},
		Python:            "/usr/bin/python3.12",
		PythonVersion:     "3.12",
		PythonPlatform:    "linux",
		StrictSuffixMatch: true,
	}, cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("python_version: \"3.10\"\n"), 0o644))

	cfg, err := Load(path, false)

	require.NoError(t, err)
	assert.Equal(t, "bazel", cfg.Bazel)
	assert.Equal(t, "python3", cfg.Python)
	assert.Equal(t, "3.10", cfg.PythonVersion)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("query_flags: [unterminated\n"), 0o644))

	_, err := Load(path, false)

	assert.ErrorContains(t, err, "failed to parse config")
}

func TestDiscover(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(second, FileName), []byte("{}\n"), 0o644))

	assert.Equal(t, filepath.Join(second, FileName), Discover("", first, second))
	assert.Empty(t, Discover(first))
}
