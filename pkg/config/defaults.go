package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format:  "markdown",
			File:    "",
			NoColor: false,
		},
		Analysis: AnalysisConfig{
			MinSeverity: "medium",
			Workers:     runtime.NumCPU(),
		},
		Artifacts: ArtifactsConfig{
			Root: defaultArtifactsRoot(),
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// defaultArtifactsRoot prefers a project-local directory that already
// holds downloaded runs over the bare default.
func defaultArtifactsRoot() string {
	wd, err := os.Getwd()
	if err != nil {
		return "./artifacts"
	}

	candidates := []string{"artifacts", "workflow-artifacts"}
	for _, candidate := range candidates {
		if hasRunMetadata(filepath.Join(wd, candidate)) {
			return "./" + candidate
		}
	}

	return "./artifacts"
}

// hasRunMetadata reports whether dir contains at least one run directory
// with a workflow metadata record.
func hasRunMetadata(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, entry.Name(), "workflow-metadata.json")); err == nil {
			return true
		}
	}

	return false
}
