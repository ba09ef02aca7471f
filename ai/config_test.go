package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := NewConfig()
		assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
		assert.Equal(t, "labse", cfg.Model)
		assert.Equal(t, 768, cfg.Dimensions)
	})

	t.Run("options override defaults", func(t *testing.T) {
		cfg := NewConfig(
			WithHost("http://embedder:9000/v1"),
			WithModel("text-embedding-3-small"),
			WithDimensions(1536),
		)
		assert.Equal(t, "http://embedder:9000/v1", cfg.Host)
		assert.Equal(t, "text-embedding-3-small", cfg.Model)
		assert.Equal(t, 1536, cfg.Dimensions)
	})
}

func TestConfigNormalize(t *testing.T) {
	testCases := []struct {
		name string
		host string
		want string
	}{
		{"adds v1 suffix", "http://localhost:11434", "http://localhost:11434/v1"},
		{"strips trailing slash", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"keeps existing v1", "http://localhost:11434/v1", "http://localhost:11434/v1"},
		{"empty host untouched", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{Host: tc.host}
			cfg.Normalize()
			assert.Equal(t, tc.want, cfg.Host)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := NewConfig()
		require.NoError(t, cfg.Validate())
	})

	t.Run("missing host", func(t *testing.T) {
		cfg := &Config{Model: "labse", Dimensions: 768}
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing model", func(t *testing.T) {
		cfg := &Config{Host: "http://localhost:11434", Dimensions: 768}
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive dimensions", func(t *testing.T) {
		cfg := &Config{Host: "http://localhost:11434", Model: "labse"}
		assert.Error(t, cfg.Validate())
	})

	t.Run("validate normalizes host", func(t *testing.T) {
		cfg := &Config{Host: "http://localhost:11434", Model: "labse", Dimensions: 768}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	})
}
