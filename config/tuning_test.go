package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTranslatorConfig(t *testing.T) {
	cfg := DefaultTranslatorConfig()

	assert.Equal(t, 10, cfg.DefaultLimit)
	assert.Equal(t, 100, cfg.MaxLimit)
	assert.Equal(t, 30*time.Second, cfg.GenerationTimeout)
	assert.True(t, cfg.FallbackEnabled)
	assert.True(t, cfg.Rag.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadTranslatorConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadTranslatorConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultTranslatorConfig(), cfg)
}

func TestLoadTranslatorConfig_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadTranslatorConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTranslatorConfig(), cfg)
}

func TestLoadTranslatorConfig_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "translator.yaml")
	content := `
default_limit: 25
max_limit: 200
generation_timeout: 10s
rag:
  enabled: true
  top_k: 8
  similarity_threshold: 0.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadTranslatorConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.DefaultLimit)
	assert.Equal(t, 200, cfg.MaxLimit)
	assert.Equal(t, 10*time.Second, cfg.GenerationTimeout)
	assert.Equal(t, 8, cfg.Rag.TopK)
	assert.Equal(t, 0.5, cfg.Rag.SimilarityThreshold)
	// Untouched sections keep defaults.
	assert.True(t, cfg.Answer.Enabled)
}

func TestLoadTranslatorConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "translator.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_limit: [oops"), 0o644))

	_, err := LoadTranslatorConfig(path)
	assert.Error(t, err)
}

func TestTranslatorConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*TranslatorConfig)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(*TranslatorConfig) {},
		},
		{
			name:    "non-positive default limit",
			mutate:  func(c *TranslatorConfig) { c.DefaultLimit = 0 },
			wantErr: true,
		},
		{
			name:    "max limit below default",
			mutate:  func(c *TranslatorConfig) { c.MaxLimit = 5 },
			wantErr: true,
		},
		{
			name:    "non-positive generation timeout",
			mutate:  func(c *TranslatorConfig) { c.GenerationTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "rag threshold out of range",
			mutate:  func(c *TranslatorConfig) { c.Rag.SimilarityThreshold = 1.5 },
			wantErr: true,
		},
		{
			name: "rag checks skipped when disabled",
			mutate: func(c *TranslatorConfig) {
				c.Rag.Enabled = false
				c.Rag.TopK = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultTranslatorConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTranslatorConfig_ClampLimit(t *testing.T) {
	cfg := DefaultTranslatorConfig()

	assert.Equal(t, cfg.DefaultLimit, cfg.ClampLimit(0))
	assert.Equal(t, cfg.DefaultLimit, cfg.ClampLimit(-3))
	assert.Equal(t, 42, cfg.ClampLimit(42))
	assert.Equal(t, cfg.MaxLimit, cfg.ClampLimit(10_000))
}
