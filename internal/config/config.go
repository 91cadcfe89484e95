// Package config defines the diagraph configuration and its loader.
// Configuration can be provided in .diagraph/config.yml with environment
// variable overrides.
package config

// Config represents the complete diagraph configuration.
type Config struct {
	Paths    PathsConfig    `yaml:"paths" mapstructure:"paths"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Diagram  DiagramConfig  `yaml:"diagram" mapstructure:"diagram"`
}

// PathsConfig defines which files to scan and which to skip.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns for source files
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to skip
}

// AnalysisConfig controls how entities and references are interpreted.
type AnalysisConfig struct {
	// External lists dotted-path patterns (e.g. "os.**", "django.**")
	// whose entities are treated as external library code: kept as leaf
	// nodes but never expanded.
	External []string `yaml:"external" mapstructure:"external"`
}

// DiagramConfig defines default rendering behavior.
type DiagramConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // text, mermaid, or ascii
	Depth  int    `yaml:"depth" mapstructure:"depth"`   // relationship hops from the root entity
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Include: []string{
				"**/*.py",
				"*.py",
				"**/*.go",
				"*.go",
			},
			Ignore: []string{
				".git/**",
				"node_modules/**",
				"vendor/**",
				"venv/**",
				".venv/**",
				"__pycache__/**",
				"dist/**",
				"build/**",
			},
		},
		Analysis: AnalysisConfig{
			External: nil,
		},
		Diagram: DiagramConfig{
			Format: "text",
			Depth:  2,
		},
	}
}
