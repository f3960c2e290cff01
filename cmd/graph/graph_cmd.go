package graph

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/LegacyCodeHQ/sourcedb/cmd/cmdutil"
	"github.com/LegacyCodeHQ/sourcedb/cmd/graph/formatters"
	"github.com/spf13/cobra"
)

// UsageMessage is reported when no source file is given.
const UsageMessage = "Usage: sourcedb graph @/path/to/list.txt"

type graphOptions struct {
	input        cmdutil.InputOptions
	outputFormat string
	generateURL  bool
	title        string
}

// NewCommand returns a new graph command instance.
func NewCommand(f *cmdutil.Factory) *cobra.Command {
	opts := &graphOptions{}

	cmd := &cobra.Command{
		Use:   "graph [@file-list | file]...",
		Short: "Render the Python target graph reached from the given files",
		Long: `Resolve each source file to the Python targets that own it and render the
dependency graph walked from them. Only Python targets appear; edges point from a
target to its direct dependencies.

Examples:
  sourcedb graph my_project/main.py                 # Graphviz DOT
  sourcedb graph -f mermaid --file click/core.py    # Mermaid flowchart
  sourcedb graph -f json @/tmp/files.txt            # JSON adjacency
  sourcedb graph -u my_project/main.py              # visualization URL`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, f, opts, args)
		},
	}

	opts.input.Register(cmd)
	cmd.Flags().StringVarP(&opts.outputFormat, "format", "f", formatters.OutputFormatDOT.String(),
		fmt.Sprintf("Output format (%s)", formatters.SupportedFormats()))
	cmd.Flags().BoolVarP(&opts.generateURL, "url", "u", false, "Generate visualization URL (supported formats: dot, mermaid)")
	cmd.Flags().StringVar(&opts.title, "title", "", "Graph title (default: workspace directory name)")

	return cmd
}

func runGraph(cmd *cobra.Command, f *cmdutil.Factory, opts *graphOptions, args []string) error {
	formatter, err := NewFormatter(opts.outputFormat)
	if err != nil {
		return &cmdutil.ExitError{Code: cmdutil.UsageExitCode, Err: err}
	}

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

	traversal, err := env.NewSession().Traverse(ctx, files)
	if err != nil {
		return fmt.Errorf("failed to traverse target graph: %w", err)
	}

	output, err := formatter.Format(traversal.Graph, formatters.RenderOptions{
		Label: graphLabel(opts.title, env.WorkspaceRoot, len(traversal.Order)),
	})
	if err != nil {
		return fmt.Errorf("failed to format graph: %w", err)
	}

	out := cmd.OutOrStdout()
	if opts.generateURL {
		if urlStr, ok := formatter.GenerateURL(output); ok {
			fmt.Fprintln(out, urlStr)
			return nil
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: URL generation is not supported for %s format\n\n", opts.outputFormat)
	}
	fmt.Fprintln(out, output)
	return nil
}

func graphLabel(title, workspaceRoot string, targetCount int) string {
	if title == "" {
		title = filepath.Base(workspaceRoot)
	}
	if targetCount == 1 {
		return fmt.Sprintf("%s • 1 target", title)
	}
	return fmt.Sprintf("%s • %d targets", title, targetCount)
}
