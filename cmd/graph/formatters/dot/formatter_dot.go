package dot

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/LegacyCodeHQ/sourcedb/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/sourcedb/sourcedb"
)

var classColors = map[string]string{
	formatters.ClassBinary:  "lightblue",
	formatters.ClassTest:    "lightgreen",
	formatters.ClassLibrary: "white",
}

// Formatter formats target graphs as Graphviz DOT.
type Formatter struct{}

// Format converts the target graph to Graphviz DOT format.
func (f *Formatter) Format(g sourcedb.TargetGraph, opts formatters.RenderOptions) (string, error) {
	targets, err := formatters.Collect(g)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("digraph targets {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box];\n")

	if opts.Label != "" {
		sb.WriteString(fmt.Sprintf("  label=%q;\n", opts.Label))
		sb.WriteString("  labelloc=t;\n")
		sb.WriteString("  labeljust=l;\n")
		sb.WriteString("  fontsize=10;\n")
		sb.WriteString("  fontname=Courier;\n")
	}
	sb.WriteString("\n")

	for _, label := range targets.Labels {
		kind := targets.Kinds[label]
		color := classColors[formatters.KindClass(kind)]
		sb.WriteString(fmt.Sprintf("  %q [tooltip=%q, style=filled, fillcolor=%s];\n", label, kind, color))
	}

	hasEdges := false
	for _, label := range targets.Labels {
		for _, dep := range targets.Deps[label] {
			if !hasEdges {
				sb.WriteString("\n")
				hasEdges = true
			}
			sb.WriteString(fmt.Sprintf("  %q -> %q;\n", label, dep))
		}
	}

	sb.WriteString("}")
	return sb.String(), nil
}

// GenerateURL creates a GraphvizOnline URL with the DOT graph embedded.
func (f *Formatter) GenerateURL(output string) (string, bool) {
	encoded := url.PathEscape(output)
	return fmt.Sprintf("https://dreampuf.github.io/GraphvizOnline/?engine=dot#%s", encoded), true
}
