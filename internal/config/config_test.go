package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Contains(t, cfg.Paths.Include, "**/*.py")
	assert.Contains(t, cfg.Paths.Ignore, "__pycache__/**")
	assert.Equal(t, "text", cfg.Diagram.Format)
	assert.Equal(t, 2, cfg.Diagram.Depth)
	require.NoError(t, Validate(cfg))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "empty include",
			mutate:  func(c *Config) { c.Paths.Include = nil },
			wantErr: "paths.include",
		},
		{
			name:    "unknown format",
			mutate:  func(c *Config) { c.Diagram.Format = "dot" },
			wantErr: "diagram.format",
		},
		{
			name:    "negative depth",
			mutate:  func(c *Config) { c.Diagram.Depth = -1 },
			wantErr: "diagram.depth",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoader_NoConfigFile(t *testing.T) {
	t.Parallel()

	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoader_ConfigFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	configDir := filepath.Join(root, ".diagraph")
	require.NoError(t, os.MkdirAll(configDir, 0o755))

	yml := `
paths:
  include:
    - "src/**/*.py"
analysis:
  external:
    - "os.**"
    - "django.**"
diagram:
  format: mermaid
  depth: 4
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yml"), []byte(yml), 0o644))

	cfg, err := NewLoader(root).Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"src/**/*.py"}, cfg.Paths.Include)
	assert.Equal(t, []string{"os.**", "django.**"}, cfg.Analysis.External)
	assert.Equal(t, "mermaid", cfg.Diagram.Format)
	assert.Equal(t, 4, cfg.Diagram.Depth)
	// Unset sections keep their defaults.
	assert.Equal(t, Default().Paths.Ignore, cfg.Paths.Ignore)
}

func TestLoader_InvalidConfigFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	configDir := filepath.Join(root, ".diagraph")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yml"), []byte("diagram:\n  format: png\n"), 0o644))

	_, err := NewLoader(root).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "diagram.format")
}

func TestLoader_EnvOverride(t *testing.T) {
	t.Setenv("DIAGRAPH_DIAGRAM_FORMAT", "ascii")

	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)
	assert.Equal(t, "ascii", cfg.Diagram.Format)
}
