package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// TranslatorConfig tunes the natural-language-to-Gremlin pipeline. Unlike the
// connection settings in Config, these knobs are deployment policy, so they
// load from a YAML file that can ship alongside the binary.
type TranslatorConfig struct {
	// DefaultLimit is applied when a request carries no result limit.
	DefaultLimit int `json:"default_limit" yaml:"default_limit"`
	// MaxLimit caps what clients can request.
	MaxLimit int `json:"max_limit" yaml:"max_limit"`
	// GenerationTimeout bounds a single generation call before the pipeline
	// falls back.
	GenerationTimeout time.Duration `json:"generation_timeout" yaml:"generation_timeout"`
	// FallbackEnabled disables the deterministic fallback when false; the
	// pipeline then reports generation errors to the caller. Kept on in every
	// known deployment.
	FallbackEnabled bool `json:"fallback_enabled" yaml:"fallback_enabled"`
	// Answer controls the answer synthesis stage of /api/ask.
	Answer AnswerConfig `json:"answer" yaml:"answer"`
	// Rag controls semantic retrieval over indexed reviews.
	Rag RagConfig `json:"rag" yaml:"rag"`
}

// AnswerConfig tunes natural language answer synthesis.
type AnswerConfig struct {
	Enabled       bool `json:"enabled" yaml:"enabled"`
	MaxGraphRows  int  `json:"max_graph_rows" yaml:"max_graph_rows"`
	MaxReviewDocs int  `json:"max_review_docs" yaml:"max_review_docs"`
}

// RagConfig tunes the review retrieval stage.
type RagConfig struct {
	Enabled             bool    `json:"enabled" yaml:"enabled"`
	TopK                int     `json:"top_k" yaml:"top_k"`
	SimilarityThreshold float64 `json:"similarity_threshold" yaml:"similarity_threshold"`
}

// DefaultTranslatorConfig returns the tuning used when no YAML file is
// provided.
func DefaultTranslatorConfig() TranslatorConfig {
	return TranslatorConfig{
		DefaultLimit:      10,
		MaxLimit:          100,
		GenerationTimeout: 30 * time.Second,
		FallbackEnabled:   true,
		Answer: AnswerConfig{
			Enabled:       true,
			MaxGraphRows:  20,
			MaxReviewDocs: 5,
		},
		Rag: RagConfig{
			Enabled:             true,
			TopK:                5,
			SimilarityThreshold: 0.3,
		},
	}
}

// LoadTranslatorConfig reads tuning from a YAML file, layering it over the
// defaults. A missing path returns the defaults unchanged.
func LoadTranslatorConfig(path string) (TranslatorConfig, error) {
	cfg := DefaultTranslatorConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, &ConfigError{Field: "translator_config", Message: err.Error()}
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Field: "translator_config", Message: fmt.Sprintf("invalid YAML: %v", err)}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the tuning for values the pipeline cannot operate with.
func (c *TranslatorConfig) Validate() error {
	if c.DefaultLimit <= 0 {
		return &ConfigError{Field: "default_limit", Message: "must be positive"}
	}
	if c.MaxLimit < c.DefaultLimit {
		return &ConfigError{Field: "max_limit", Message: "must be at least default_limit"}
	}
	if c.GenerationTimeout <= 0 {
		return &ConfigError{Field: "generation_timeout", Message: "must be positive"}
	}
	if c.Rag.Enabled {
		if c.Rag.TopK <= 0 {
			return &ConfigError{Field: "rag.top_k", Message: "must be positive"}
		}
		if c.Rag.SimilarityThreshold < 0 || c.Rag.SimilarityThreshold > 1 {
			return &ConfigError{Field: "rag.similarity_threshold", Message: "must be within [0, 1]"}
		}
	}
	return nil
}

// ClampLimit bounds a client-requested limit to the configured window.
// Non-positive values take the default.
func (c *TranslatorConfig) ClampLimit(limit int) int {
	if limit <= 0 {
		return c.DefaultLimit
	}
	if limit > c.MaxLimit {
		return c.MaxLimit
	}
	return limit
}
