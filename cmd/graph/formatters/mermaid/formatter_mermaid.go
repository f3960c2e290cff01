package mermaid

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/LegacyCodeHQ/sourcedb/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/sourcedb/sourcedb"
)

// Formatter formats target graphs as Mermaid.js flowcharts.
type Formatter struct{}

// Format converts the target graph to Mermaid.js flowchart format.
func (f *Formatter) Format(g sourcedb.TargetGraph, opts formatters.RenderOptions) (string, error) {
	targets, err := formatters.Collect(g)
	if err != nil {
		return "", err
	}

	var sb strings.Builder

	if opts.Label != "" {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", opts.Label))
		sb.WriteString("---\n")
	}
	sb.WriteString("flowchart LR\n")

	// Mermaid node IDs can't contain the slashes and colons of labels.
	nodeIDs := make(map[string]string, len(targets.Labels))
	for i, label := range targets.Labels {
		nodeIDs[label] = fmt.Sprintf("n%d", i)
	}

	for _, label := range targets.Labels {
		nodeLabel := strings.ReplaceAll(label, "\"", "#quot;")
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", nodeIDs[label], nodeLabel))
	}

	var edgesSB strings.Builder
	for _, label := range targets.Labels {
		for _, dep := range targets.Deps[label] {
			edgesSB.WriteString(fmt.Sprintf("    %s --> %s\n", nodeIDs[label], nodeIDs[dep]))
		}
	}
	if edgesSB.Len() > 0 {
		sb.WriteString("\n")
		sb.WriteString(edgesSB.String())
	}

	var binaryNodes, testNodes []string
	for _, label := range targets.Labels {
		switch formatters.KindClass(targets.Kinds[label]) {
		case formatters.ClassBinary:
			binaryNodes = append(binaryNodes, nodeIDs[label])
		case formatters.ClassTest:
			testNodes = append(testNodes, nodeIDs[label])
		}
	}

	if len(binaryNodes) > 0 || len(testNodes) > 0 {
		sb.WriteString("\n")
		if len(binaryNodes) > 0 {
			sb.WriteString("    classDef binary fill:#ADD8E6,stroke:#4682B4,color:#000000\n")
		}
		if len(testNodes) > 0 {
			sb.WriteString("    classDef test fill:#90EE90,stroke:#228B22,color:#000000\n")
		}
		if len(binaryNodes) > 0 {
			sb.WriteString(fmt.Sprintf("    class %s binary\n", strings.Join(binaryNodes, ",")))
		}
		if len(testNodes) > 0 {
			sb.WriteString(fmt.Sprintf("    class %s test\n", strings.Join(testNodes, ",")))
		}
	}

	return strings.TrimSuffix(sb.String(), "\n"), nil
}

// GenerateURL creates a mermaid.live URL with the diagram embedded.
func (f *Formatter) GenerateURL(output string) (string, bool) {
	payload := map[string]interface{}{
		"code": output,
		"mermaid": map[string]interface{}{
			"theme": "default",
		},
		"autoSync":      true,
		"updateDiagram": true,
	}

	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		// Fallback: just return the code URL-encoded
		return fmt.Sprintf("https://mermaid.live/edit#%s", url.PathEscape(output)), true
	}

	encoded := base64.URLEncoding.EncodeToString(jsonBytes)
	return fmt.Sprintf("https://mermaid.live/edit#base64:%s", encoded), true
}
