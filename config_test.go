package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	c, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "KRW", c.HomeCurrency)
	assert.Equal(t, ProviderYahoo, c.Quotes.Provider)
	start, err := c.StartDate()
	require.NoError(t, err)
	assert.Equal(t, d("2022-02-28"), start)
}

func TestLoadConfigYAMLSection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
title: my site
financial_assets:
  paths:
    trading_records: data/records.md
    static_dir: public/fa
  home_currency: EUR
  parallelism: 4
`), 0o644))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "data/records.md", c.Paths.Ledger)
	assert.Equal(t, "public/fa", c.Paths.OutputDir)
	assert.Equal(t, "config/fa.yaml", c.Paths.Registry, "unset keys keep their default")
	assert.Equal(t, "EUR", c.HomeCurrency)
	assert.Equal(t, 4, c.Parallelism)
}

func TestLoadConfigTOMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fa.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
home_currency = "USD"

[quotes]
provider = "eodhd"
rate_limit = 2
`), 0o644))
	t.Setenv("EODHD_API_KEY", "secret")
	t.Setenv("FA_LOG_LEVEL", "debug")

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "USD", c.HomeCurrency)
	assert.Equal(t, ProviderEODHD, c.Quotes.Provider)
	assert.Equal(t, 2, c.Quotes.RateLimit)
	assert.Equal(t, "secret", c.Quotes.APIKey)
	assert.Equal(t, "debug", c.Logging.Level)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		key    string
	}{
		{"no ledger", func(c *Config) { c.Paths.Ledger = "" }, "paths.trading_records"},
		{"bad currency", func(c *Config) { c.HomeCurrency = "ZZZ" }, "home_currency"},
		{"bad start", func(c *Config) { c.Start = "soon" }, "start"},
		{"eodhd without key", func(c *Config) { c.Quotes.Provider = ProviderEODHD }, "quotes.api_key"},
		{"offline without store", func(c *Config) { c.Quotes.Provider = ProviderOffline }, "quotes.store"},
		{"unknown provider", func(c *Config) { c.Quotes.Provider = "bloomberg" }, "quotes.provider"},
		{"no parallelism", func(c *Config) { c.Parallelism = 0 }, "parallelism"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewDefaultConfig()
			tt.modify(c)
			var cerr *ConfigError
			require.True(t, errors.As(c.Validate(), &cerr))
			assert.Equal(t, tt.key, cerr.Key)
		})
	}
}
