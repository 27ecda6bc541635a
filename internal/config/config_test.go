package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clipmill.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[webm]
crf = 20

[gif]
scales = [400, 100]
fps = 10
palette_scale = 100
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.WebM.CRF)
	assert.Equal(t, "1M", cfg.WebM.Bitrate) // untouched sections keep defaults
	assert.Equal(t, []int{400, 100}, cfg.GIF.Scales)
	assert.Equal(t, 10, cfg.GIF.FPS)
	assert.Equal(t, 100, cfg.GIF.PaletteScale)
	assert.Equal(t, 0.2, cfg.Extract.MaxGapSeconds)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clipmill.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[gif]
scales = [800, -500]
`), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty scales", func(c *Config) { c.GIF.Scales = nil }},
		{"zero scale", func(c *Config) { c.GIF.Scales = []int{800, 0} }},
		{"zero fps", func(c *Config) { c.GIF.FPS = 0 }},
		{"zero palette scale", func(c *Config) { c.GIF.PaletteScale = 0 }},
		{"crf out of range", func(c *Config) { c.WebM.CRF = 64 }},
		{"empty bitrate", func(c *Config) { c.WebM.Bitrate = "" }},
		{"negative gap", func(c *Config) { c.Extract.MaxGapSeconds = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}
