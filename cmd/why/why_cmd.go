package why

import (
	"errors"
	"fmt"
	"strings"

	"github.com/LegacyCodeHQ/sourcedb/cmd/cmdutil"
	"github.com/LegacyCodeHQ/sourcedb/cmd/graph"
	"github.com/LegacyCodeHQ/sourcedb/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/sourcedb/sourcedb"
	graphlib "github.com/dominikbraun/graph"
	"github.com/spf13/cobra"
)

// UsageMessage is reported when no source file is given.
const UsageMessage = "Usage: sourcedb why //pkg:target @/path/to/list.txt"

const formatText = "text"

type whyOptions struct {
	input        cmdutil.InputOptions
	outputFormat string
}

type chainLink struct {
	Label string `json:"label"`
	Kind  string `json:"kind"`
}

type chainReport struct {
	Target string      `json:"target"`
	Chain  []chainLink `json:"chain"`
}

// NewCommand returns a new why command instance.
func NewCommand(f *cmdutil.Factory) *cobra.Command {
	opts := &whyOptions{
		outputFormat: formatText,
	}

	cmd := &cobra.Command{
		Use:   "why <target> [@file-list | file]...",
		Short: "Show how a target ends up in the source database of the given files",
		Long: `Show the shortest chain of Python dependencies leading from a target that owns
one of the given files to <target>.

Examples:
  sourcedb why //colorama:colorama_lib services/reporting/report_cli.py
  sourcedb why //libs/common:common_utils -f mermaid @/tmp/files.txt`,
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhy(cmd, f, opts, args[0], args[1:])
		},
	}

	opts.input.Register(cmd)
	cmd.Flags().StringVarP(&opts.outputFormat, "format", "f", opts.outputFormat,
		fmt.Sprintf("Output format (%s, %s)", formatText, formatters.SupportedFormats()))

	return cmd
}

func runWhy(cmd *cobra.Command, f *cmdutil.Factory, opts *whyOptions, target string, args []string) error {
	if !isSupportedFormat(opts.outputFormat) {
		return &cmdutil.ExitError{
			Code: cmdutil.UsageExitCode,
			Err:  fmt.Errorf("unknown format: %s (valid options: %s, %s)", opts.outputFormat, formatText, formatters.SupportedFormats()),
		}
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

	chain, err := traversal.DependencyChain(target)
	if err != nil {
		return err
	}
	report, err := newChainReport(traversal.Graph, target, chain)
	if err != nil {
		return err
	}

	output, err := formatOutput(opts.outputFormat, report)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}

func newChainReport(g sourcedb.TargetGraph, target string, chain []string) (*chainReport, error) {
	report := &chainReport{Target: target, Chain: make([]chainLink, 0, len(chain))}
	for _, label := range chain {
		_, props, err := g.VertexWithProperties(label)
		if err != nil {
			return nil, fmt.Errorf("failed to read target %s: %w", label, err)
		}
		report.Chain = append(report.Chain, chainLink{Label: label, Kind: props.Attributes[sourcedb.KindAttribute]})
	}
	return report, nil
}

func formatOutput(format string, report *chainReport) (string, error) {
	if strings.EqualFold(format, formatText) {
		return formatTextOutput(report), nil
	}
	if strings.EqualFold(format, formatters.OutputFormatJSON.String()) {
		var sb strings.Builder
		if err := cmdutil.WriteJSON(&sb, report, true); err != nil {
			return "", err
		}
		return strings.TrimSuffix(sb.String(), "\n"), nil
	}

	formatter, err := graph.NewFormatter(format)
	if err != nil {
		return "", err
	}
	chainGraph, err := report.graph()
	if err != nil {
		return "", err
	}
	return formatter.Format(chainGraph, formatters.RenderOptions{Label: "why " + report.Target})
}

func formatTextOutput(report *chainReport) string {
	if len(report.Chain) == 1 {
		return fmt.Sprintf("%s (%s) owns one of the requested files.", report.Target, report.Chain[0].Kind)
	}

	root := report.Chain[0]
	lines := []string{fmt.Sprintf("%s is reached from %s:", report.Target, root.Label)}
	for i, link := range report.Chain {
		prefix := "  "
		if i > 0 {
			prefix = "  -> "
		}
		lines = append(lines, fmt.Sprintf("%s%s (%s)", prefix, link.Label, link.Kind))
	}
	return strings.Join(lines, "\n")
}

// graph rebuilds the chain as a target graph for the graph formatters.
func (r *chainReport) graph() (sourcedb.TargetGraph, error) {
	g := graphlib.New(graphlib.StringHash, graphlib.Directed())
	for _, link := range r.Chain {
		if err := g.AddVertex(link.Label, graphlib.VertexAttribute(sourcedb.KindAttribute, link.Kind)); err != nil {
			return nil, fmt.Errorf("failed to add target %s: %w", link.Label, err)
		}
	}
	for i := 1; i < len(r.Chain); i++ {
		if err := g.AddEdge(r.Chain[i-1].Label, r.Chain[i].Label); err != nil {
			return nil, fmt.Errorf("failed to add dependency %s -> %s: %w", r.Chain[i-1].Label, r.Chain[i].Label, err)
		}
	}
	return g, nil
}

func isSupportedFormat(format string) bool {
	if strings.EqualFold(format, formatText) {
		return true
	}
	_, ok := formatters.ParseOutputFormat(format)
	return ok
}
