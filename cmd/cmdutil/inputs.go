package cmdutil

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const fileMarker = "--file"

// InputOptions are the flags shared by every command that takes source files.
type InputOptions struct {
	Files             []string
	PythonVersion     string
	PythonPlatform    string
	StrictSuffixMatch bool
}

// Register adds the input flags to cmd.
func (o *InputOptions) Register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&o.Files, "file", nil, "Source file to resolve (repeatable)")
	cmd.Flags().StringVar(&o.PythonVersion, "python-version", "", "Python version stamped on every entry (major.minor)")
	cmd.Flags().StringVar(&o.PythonPlatform, "python-platform", "", "Python platform stamped on every entry")
	cmd.Flags().BoolVar(&o.StrictSuffixMatch, "strict-suffix-match", false, "Only match path suffixes on whole directory segments")
}

// Inputs collects the requested files from args and --file flags. An argument
// starting with @ names a list file. usage is reported when nothing remains.
func (o *InputOptions) Inputs(args []string, usage string) ([]string, error) {
	var files []string
	for _, arg := range args {
		if listPath, ok := strings.CutPrefix(arg, "@"); ok {
			listed, err := ReadFileList(listPath)
			if err != nil {
				return nil, err
			}
			files = append(files, listed...)
			continue
		}
		files = append(files, arg)
	}
	files = append(files, o.Files...)

	if len(files) == 0 {
		return nil, &UsageError{Message: usage}
	}
	return files, nil
}

// ReadFileList reads a list file of `--file` entries, each either followed by
// the path on the next line or written as `--file=path`.
func ReadFileList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &UsageError{Message: fmt.Sprintf("cannot read file list %s: %v", path, err)}
	}
	return ParseFileList(path, string(data))
}

// ParseFileList parses the contents of a list file named name.
func ParseFileList(name, content string) ([]string, error) {
	var files []string
	expectPath := false
	for i, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if expectPath {
			files = append(files, line)
			expectPath = false
			continue
		}
		if line == fileMarker {
			expectPath = true
			continue
		}
		if path, ok := strings.CutPrefix(line, fileMarker+"="); ok && path != "" {
			files = append(files, path)
			continue
		}
		return nil, &UsageError{Message: fmt.Sprintf("%s:%d: expected %s, got %q", name, i+1, fileMarker, line)}
	}
	if expectPath {
		return nil, &UsageError{Message: fmt.Sprintf("%s: %s without a path", name, fileMarker)}
	}
	return files, nil
}
