package formatters

import "github.com/LegacyCodeHQ/sourcedb/sourcedb"

// RenderOptions contains optional parameters for rendering target graphs.
type RenderOptions struct {
	// Label is an optional title for the graph
	Label string
}

// Formatter is the interface that all graph formatters must implement.
type Formatter interface {
	// Format converts a target graph to a formatted string representation.
	Format(g sourcedb.TargetGraph, opts RenderOptions) (string, error)
	// GenerateURL returns a link that renders output online, if the format has one.
	GenerateURL(output string) (string, bool)
}
