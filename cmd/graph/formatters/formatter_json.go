package formatters

import (
	"encoding/json"

	"github.com/LegacyCodeHQ/sourcedb/sourcedb"
)

// JSONFormatter formats target graphs as JSON.
type JSONFormatter struct{}

type jsonTarget struct {
	Label string   `json:"label"`
	Kind  string   `json:"kind"`
	Deps  []string `json:"deps"`
}

// Format lists every target with its kind and direct dependencies, sorted by
// label. The opts parameter is accepted for interface compatibility but not used.
func (f *JSONFormatter) Format(g sourcedb.TargetGraph, opts RenderOptions) (string, error) {
	targets, err := Collect(g)
	if err != nil {
		return "", err
	}

	out := struct {
		Targets []jsonTarget `json:"targets"`
	}{Targets: make([]jsonTarget, 0, len(targets.Labels))}
	for _, label := range targets.Labels {
		out.Targets = append(out.Targets, jsonTarget{
			Label: label,
			Kind:  targets.Kinds[label],
			Deps:  targets.Deps[label],
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GenerateURL returns false as JSON format does not support URL generation.
func (f *JSONFormatter) GenerateURL(output string) (string, bool) {
	return "", false
}
