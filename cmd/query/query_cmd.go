package query

import (
	"errors"
	"fmt"

	"github.com/LegacyCodeHQ/sourcedb/cmd/cmdutil"
	"github.com/spf13/cobra"
)

// UsageMessage is reported when no source file is given.
const UsageMessage = "Usage: sourcedb query @/path/to/list.txt"

type queryOptions struct {
	input   cmdutil.InputOptions
	compact bool
}

// NewCommand returns a new query command instance.
func NewCommand(f *cmdutil.Factory) *cobra.Command {
	opts := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "query [@file-list | file]...",
		Short: "Print the source database for the targets owning the given files",
		Long: `Resolve each source file to the Python targets that own it, walk their Python
dependency closure and print the source database as JSON:

  {"db": {"//pkg:target": {"srcs": ..., "deps": ..., ...}}, "root": "/workspace"}

Files may be given as arguments, with --file, or through a list file passed as
@path whose lines are "--file" followed by a path.

Examples:
  sourcedb query my_project/main.py
  sourcedb query --file libs/common/formatters.py --file click/core.py
  sourcedb query @/tmp/files.txt`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, f, opts, args)
		},
	}

	opts.input.Register(cmd)
	cmd.Flags().BoolVar(&opts.compact, "compact", false, "Print the database on a single line")

	return cmd
}

func runQuery(cmd *cobra.Command, f *cmdutil.Factory, opts *queryOptions, args []string) error {
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

	result, err := env.NewSession().Build(ctx, files)
	if err != nil {
		return fmt.Errorf("failed to build source database: %w", err)
	}

	return cmdutil.WriteJSON(cmd.OutOrStdout(), result, !opts.compact)
}
