package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/LegacyCodeHQ/sourcedb/cmd/cmdutil"
	"github.com/LegacyCodeHQ/sourcedb/cmd/graph"
	"github.com/LegacyCodeHQ/sourcedb/cmd/query"
	"github.com/LegacyCodeHQ/sourcedb/cmd/watch"
	"github.com/LegacyCodeHQ/sourcedb/cmd/why"
	"github.com/spf13/cobra"
)

// version is set via build-time ldflags
var version = "dev"

// buildDate is set via build-time ldflags
var buildDate = "unknown"

// commit is set via build-time ldflags
var commit = "unknown"

// rootCmd represents the base command when called without any subcommands
var rootCmd = NewRootCommand(cmdutil.NewFactory())

// NewRootCommand builds the command tree around f.
func NewRootCommand(f *cmdutil.Factory) *cobra.Command {
	root := &cobra.Command{
		Use:   "sourcedb",
		Short: "Describe the Bazel Python targets that own a set of source files",
		Long: `sourcedb asks Bazel which Python targets own the given source files, walks
their Python dependency closure and prints a JSON source database: per target,
its import modules, direct Python dependencies, interpreter metadata and BUILD file.

Use 'sourcedb --help' to see all available commands, or 'sourcedb <command> --help'
for detailed information about a specific command.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(query.NewCommand(f))
	root.AddCommand(graph.NewCommand(f))
	root.AddCommand(watch.NewCommand(f))
	root.AddCommand(why.NewCommand(f))

	// Initialize annotations for version template
	root.Annotations = map[string]string{
		"buildDate": buildDate,
		"commit":    commit,
	}
	root.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build date: {{printf "%s" (index .Annotations "buildDate")}}
Commit: {{printf "%s" (index .Annotations "commit")}}
`)

	root.PersistentFlags().StringVar(&f.ConfigPath, "config", "", "Config file (default: .sourcedb.yaml in the working directory or workspace)")
	root.PersistentFlags().StringVar(&f.BazelBinary, "bazel", "", "Bazel executable (default: bazel, or the config value)")
	root.PersistentFlags().BoolVarP(&f.Verbose, "verbose", "v", false, "Log debug details to stderr")

	return root
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err, os.Stderr))
}

// exitCode reports err on stderr and maps it to a process exit status.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	var exitErr *cmdutil.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", exitErr.Err)
		}
		return exitErr.Code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}
