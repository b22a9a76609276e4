package filestore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/koustreak/pgmeta/internal/errs"
)

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig("localhost:9000", "ak", "sk").Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"provider", func(c *Config) { c.Provider = "gcs" }},
		{"endpoint", func(c *Config) { c.Endpoint = "" }},
		{"bucket", func(c *Config) { c.Bucket = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig("localhost:9000", "ak", "sk")
			tt.mutate(cfg)
			assert.True(t, errs.IsInvalidInput(cfg.Validate()))
		})
	}
}
