package testhelpers

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// JSONGoldie creates a goldie instance for JSON golden files.
func JSONGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t, goldie.WithFixtureDir("testdata"), goldie.WithNameSuffix(".golden.json"))
}

// DotGoldie creates a goldie instance for DOT golden files.
func DotGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t, goldie.WithFixtureDir("testdata"), goldie.WithNameSuffix(".golden.dot"))
}

// MermaidGoldie creates a goldie instance for Mermaid golden files.
func MermaidGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t, goldie.WithFixtureDir("testdata"), goldie.WithNameSuffix(".golden.mmd"))
}
