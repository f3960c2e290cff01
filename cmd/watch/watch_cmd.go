package watch

import (
	"errors"
	"fmt"

	"github.com/LegacyCodeHQ/sourcedb/cmd/cmdutil"
	"github.com/spf13/cobra"
)

// UsageMessage is reported when no source file is given.
const UsageMessage = "Usage: sourcedb watch @/path/to/list.txt"

type watchOptions struct {
	input cmdutil.InputOptions
}

// NewCommand returns a new watch command instance.
func NewCommand(f *cmdutil.Factory) *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch [@file-list | file]...",
		Short: "Re-emit the source database whenever the workspace changes",
		Long: `Print the source database for the given files, then watch the workspace and
print it again (one JSON document per line) after BUILD, .bzl or .py files change.
Every rebuild starts from fresh Bazel queries; unchanged databases are not repeated.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, f, opts, args)
		},
	}

	opts.input.Register(cmd)

	return cmd
}

func runWatch(cmd *cobra.Command, f *cmdutil.Factory, opts *watchOptions, args []string) error {
	files, err := opts.input.Inputs(args, UsageMessage)
	if err != nil {
		var usageErr *cmdutil.UsageError
		if errors.As(err, &usageErr) {
			return cmdutil.WriteUsageError(cmd.OutOrStdout(), usageErr)
		}
		return err
	}

	ctx := cmd.Context()
	env, err := f.Environment(ctx, cmd, &opts.input)
	if err != nil {
		return err
	}

	e := &emitter{
		out:        cmd.OutOrStdout(),
		newSession: env.NewSession,
		files:      files,
		logger:     env.Logger,
	}
	if err := e.emit(ctx); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	env.Logger.Info("watching workspace", "root", env.WorkspaceRoot)
	return watchAndRebuild(ctx, env.WorkspaceRoot, env.Logger, e.emit)
}
