// Package taxonomy holds the process-wide static configuration for problem
// detection: the keyword category taxonomy, scoring weights, the problem
// threshold, and default request limits. A Config is loaded once at process
// start and treated as read-only for the process lifetime.
package taxonomy

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var defaultYAML []byte

// Category is a named class of problem language mapped to a fixed set of
// matching patterns. Patterns are plain lowercase words or phrases; the
// matcher anchors them on word boundaries at both ends.
type Category struct {
	Name     string   `yaml:"name" json:"name"`
	Patterns []string `yaml:"patterns" json:"patterns"`
}

// Weights are the fixed blending constants for the problem score formula.
type Weights struct {
	Keyword float64 `yaml:"keyword" json:"keyword"`
	Score   float64 `yaml:"score" json:"score"`
	Comment float64 `yaml:"comment" json:"comment"`
}

// Limits are default and maximum item counts per operation.
type Limits struct {
	Search      int `yaml:"search" json:"search"`
	Analyze     int `yaml:"analyze" json:"analyze"`
	Trending    int `yaml:"trending" json:"trending"`
	PerQuery    int `yaml:"per_query" json:"per_query"`
	Comments    int `yaml:"comments" json:"comments"`
	Max         int `yaml:"max" json:"max"`
	MinScore    int `yaml:"min_score" json:"min_score"`
	MinComments int `yaml:"min_comments" json:"min_comments"`
}

// Config is the full detection configuration.
type Config struct {
	Categories       []Category `yaml:"categories" json:"categories"`
	Weights          Weights    `yaml:"weights" json:"weights"`
	ProblemThreshold float64    `yaml:"problem_threshold" json:"problem_threshold"`
	Limits           Limits     `yaml:"limits" json:"limits"`
}

// Default returns the built-in taxonomy parsed from the embedded YAML.
func Default() (*Config, error) {
	return parse(defaultYAML)
}

// LoadFromPath reads a taxonomy override file. Missing fields are not merged
// with the defaults; an override file is a complete configuration.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse taxonomy yaml: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("taxonomy has no categories")
	}
	seen := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.Name == "" {
			return fmt.Errorf("taxonomy category with empty name")
		}
		if seen[cat.Name] {
			return fmt.Errorf("duplicate taxonomy category %q", cat.Name)
		}
		seen[cat.Name] = true
		if len(cat.Patterns) == 0 {
			return fmt.Errorf("category %q has no patterns", cat.Name)
		}
		for _, p := range cat.Patterns {
			if p == "" {
				return fmt.Errorf("category %q has an empty pattern", cat.Name)
			}
		}
	}
	if c.Weights.Keyword <= 0 {
		return fmt.Errorf("keyword weight must be positive, got %v", c.Weights.Keyword)
	}
	if c.Weights.Score < 0 || c.Weights.Comment < 0 {
		return fmt.Errorf("engagement weights must be non-negative")
	}
	if c.ProblemThreshold <= 0 {
		return fmt.Errorf("problem threshold must be positive, got %v", c.ProblemThreshold)
	}
	if c.Limits.Max <= 0 {
		return fmt.Errorf("limits.max must be positive, got %d", c.Limits.Max)
	}
	return nil
}
