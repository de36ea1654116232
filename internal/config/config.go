package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig holds project-level settings loaded from decompose.yml.
type ProjectConfig struct {
	Languages     []string `yaml:"languages,omitempty"`
	ExcludeDirs   []string `yaml:"excludeDirs,omitempty"`
	GraphExcludes []string `yaml:"graphExcludes,omitempty"`
	Workers       int      `yaml:"workers,omitempty"`
	Verbose       bool     `yaml:"verbose,omitempty"`

	// Thresholds is passed through verbatim for downstream CI gating
	// (spec.md §6.5). The scanner itself never reads it.
	Thresholds map[string]float64 `yaml:"thresholds,omitempty"`
}

// Load attempts to read decompose.yml or decompose.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"decompose.yml", "decompose.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}
