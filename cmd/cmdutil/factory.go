package cmdutil

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/LegacyCodeHQ/sourcedb/bazel"
	"github.com/LegacyCodeHQ/sourcedb/internal/config"
	"github.com/LegacyCodeHQ/sourcedb/internal/logging"
	"github.com/LegacyCodeHQ/sourcedb/internal/process"
	"github.com/LegacyCodeHQ/sourcedb/sourcedb"
	"github.com/spf13/cobra"
)

// Environment variables exported by `bazel run`.
const (
	EnvWorkspaceDirectory = "BUILD_WORKSPACE_DIRECTORY"
	EnvWorkingDirectory   = "BUILD_WORKING_DIRECTORY"
)

// Factory resolves configuration and builds the Bazel client for a command.
// The zero-valued hooks fall back to the real process environment.
type Factory struct {
	// Values of the root persistent flags.
	ConfigPath  string
	BazelBinary string
	Verbose     bool

	// BazelRunner replaces the Bazel executable.
	BazelRunner process.Runner
	// PythonRunner replaces the interpreter used to detect python_version.
	PythonRunner process.Runner
	Getenv       func(string) string
	Getwd        func() (string, error)
}

// NewFactory returns a Factory bound to the real process environment.
func NewFactory() *Factory {
	return &Factory{
		Getenv: os.Getenv,
		Getwd:  os.Getwd,
	}
}

// Environment is everything a command needs to open sessions.
type Environment struct {
	Config        config.Config
	Client        *bazel.Client
	WorkspaceRoot string
	WorkingDir    string
	Options       sourcedb.Options
	Logger        *slog.Logger
}

// NewSession opens a Session with fresh caches.
func (e *Environment) NewSession() *sourcedb.Session {
	return sourcedb.NewSession(e.Client, e.WorkspaceRoot, e.Options)
}

// Environment loads configuration, locates the workspace and settles the
// interpreter metadata for one command invocation.
func (f *Factory) Environment(ctx context.Context, cmd *cobra.Command, in *InputOptions) (*Environment, error) {
	logger := logging.New(cmd.ErrOrStderr(), f.Verbose)

	workingDir, err := f.workingDir()
	if err != nil {
		return nil, err
	}
	workspaceDir := f.getenv(EnvWorkspaceDirectory)

	cfg, err := f.loadConfig(workingDir, workspaceDir)
	if err != nil {
		return nil, err
	}
	if f.BazelBinary != "" {
		cfg.Bazel = f.BazelBinary
	}

	run := f.BazelRunner
	if run == nil {
		run = process.Exec(cfg.Bazel, workspaceDir)
	}
	client := bazel.NewClient(run, bazel.WithQueryFlags(cfg.QueryFlags...), bazel.WithLogger(logger))

	root, err := client.Workspace(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to locate workspace: %w", err)
	}

	interp, err := f.interpreter(ctx, cfg, in, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("environment ready", "workspace", root, "working_dir", workingDir,
		"python_version", interp.Version, "python_platform", interp.Platform)

	return &Environment{
		Config:        cfg,
		Client:        client,
		WorkspaceRoot: root,
		WorkingDir:    workingDir,
		Options: sourcedb.Options{
			WorkingDir:        workingDir,
			Interpreter:       interp,
			StrictSuffixMatch: in.StrictSuffixMatch || cfg.StrictSuffixMatch,
			Logger:            logger,
		},
		Logger: logger,
	}, nil
}

func (f *Factory) getenv(key string) string {
	if f.Getenv == nil {
		return os.Getenv(key)
	}
	return f.Getenv(key)
}

func (f *Factory) workingDir() (string, error) {
	if dir := f.getenv(EnvWorkingDirectory); dir != "" {
		return dir, nil
	}
	getwd := f.Getwd
	if getwd == nil {
		getwd = os.Getwd
	}
	dir, err := getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return dir, nil
}

func (f *Factory) loadConfig(dirs ...string) (config.Config, error) {
	if f.ConfigPath != "" {
		return config.Load(f.ConfigPath, false)
	}
	path := config.Discover(dirs...)
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path, true)
}

func (f *Factory) interpreter(ctx context.Context, cfg config.Config, in *InputOptions, logger *slog.Logger) (sourcedb.Interpreter, error) {
	version := firstNonEmpty(in.PythonVersion, cfg.PythonVersion)
	if version != "" {
		if err := sourcedb.ValidatePythonVersion(version); err != nil {
			return sourcedb.Interpreter{}, err
		}
	} else {
		run := f.PythonRunner
		if run == nil {
			run = process.Exec(cfg.Python, "")
		}
		detected, err := sourcedb.DetectPythonVersion(ctx, run)
		if err != nil {
			logger.Debug("python version detection failed, using default",
				"python", cfg.Python, "default", sourcedb.DefaultPythonVersion, "error", err)
			detected = sourcedb.DefaultPythonVersion
		}
		version = detected
	}

	platform := firstNonEmpty(in.PythonPlatform, cfg.PythonPlatform, sourcedb.HostPlatform())
	return sourcedb.Interpreter{Version: version, Platform: platform}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
