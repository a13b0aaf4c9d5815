package assets

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/etnz/assets/date"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds every setting of a run. It is built once at startup and
// passed down explicitly.
type Config struct {
	Paths        PathsConfig   `yaml:"paths" toml:"paths"`
	HomeCurrency string        `yaml:"home_currency" toml:"home_currency"`
	Start        string        `yaml:"start" toml:"start"` // first evaluated month end
	Quotes       QuotesConfig  `yaml:"quotes" toml:"quotes"`
	Parallelism  int           `yaml:"parallelism" toml:"parallelism"` // months computed concurrently in backfill
	Logging      LoggingConfig `yaml:"logging" toml:"logging"`
	Schedule     string        `yaml:"schedule" toml:"schedule"` // cron spec used by watch
}

// PathsConfig locates inputs and outputs.
type PathsConfig struct {
	Ledger    string `yaml:"trading_records" toml:"trading_records"`
	Registry  string `yaml:"registry" toml:"registry"`
	OutputDir string `yaml:"static_dir" toml:"static_dir"`
	BuildInfo string `yaml:"build_info" toml:"build_info"`
}

// QuotesConfig selects and tunes the quote provider.
type QuotesConfig struct {
	Provider  string `yaml:"provider" toml:"provider"` // eodhd, yahoo or offline
	Store     string `yaml:"store" toml:"store"`       // sqlite file recording fetched quotes
	APIKey    string `yaml:"api_key" toml:"api_key"`
	RateLimit int    `yaml:"rate_limit" toml:"rate_limit"` // requests per second
	CacheDir  string `yaml:"cache_dir" toml:"cache_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level" toml:"level"`
}

// Quote providers.
const (
	ProviderEODHD   = "eodhd"
	ProviderYahoo   = "yahoo"
	ProviderOffline = "offline"
)

// NewDefaultConfig returns a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			Ledger:    "config/trading_records.csv",
			Registry:  "config/fa.yaml",
			OutputDir: "content/fa",
			BuildInfo: "data/fa.json",
		},
		HomeCurrency: "KRW",
		Start:        "2022-02-28",
		Quotes: QuotesConfig{
			Provider:  ProviderYahoo,
			RateLimit: 10,
		},
		Parallelism: 1,
		Logging:     LoggingConfig{Level: "info"},
		Schedule:    "0 30 18 * * MON-FRI",
	}
}

// configFile lets settings be nested under a financial_assets section, so
// they can live in a larger site configuration.
type configFile struct {
	FinancialAssets *Config `yaml:"financial_assets" toml:"financial_assets"`
}

// LoadConfig loads configuration from files with environment overrides.
//
// Files are merged in order, later files override earlier ones. The format is
// chosen by extension: .toml is TOML, anything else is YAML. Missing files are
// skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, &ConfigError{Path: path, Err: err}
		}
		if err := decodeConfig(path, data, config); err != nil {
			return nil, &ConfigError{Path: path, Err: err}
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func decodeConfig(path string, data []byte, config *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &configFile{FinancialAssets: config}); err != nil {
			return err
		}
		return toml.Unmarshal(data, config)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := yaml.Unmarshal(data, &configFile{FinancialAssets: config}); err != nil {
		return err
	}
	return yaml.Unmarshal(data, config)
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("FA_TRADING_RECORDS"); v != "" {
		config.Paths.Ledger = v
	}
	if v := os.Getenv("FA_REGISTRY"); v != "" {
		config.Paths.Registry = v
	}
	if v := os.Getenv("FA_STATIC_DIR"); v != "" {
		config.Paths.OutputDir = v
	}
	if v := os.Getenv("FA_BUILD_INFO"); v != "" {
		config.Paths.BuildInfo = v
	}
	if v := os.Getenv("FA_HOME_CURRENCY"); v != "" {
		config.HomeCurrency = strings.ToUpper(v)
	}
	if v := os.Getenv("FA_START"); v != "" {
		config.Start = v
	}
	if v := os.Getenv("FA_QUOTES_PROVIDER"); v != "" {
		config.Quotes.Provider = v
	}
	if v := os.Getenv("FA_QUOTES_STORE"); v != "" {
		config.Quotes.Store = v
	}
	if v := os.Getenv("EODHD_API_KEY"); v != "" {
		config.Quotes.APIKey = v
	}
	if v := os.Getenv("FA_PARALLELISM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Parallelism = n
		}
	}
	if v := os.Getenv("FA_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("FA_SCHEDULE"); v != "" {
		config.Schedule = v
	}
}

// StartDate returns the parsed Start.
func (c *Config) StartDate() (date.Date, error) { return date.Parse(c.Start) }

// Validate reports the first unusable setting as a ConfigError.
func (c *Config) Validate() error {
	invalid := func(key string, err error) error { return &ConfigError{Key: key, Err: err} }
	switch {
	case c.Paths.Ledger == "":
		return invalid("paths.trading_records", errors.New("ledger path is required"))
	case c.Paths.Registry == "":
		return invalid("paths.registry", errors.New("registry path is required"))
	case c.Paths.OutputDir == "":
		return invalid("paths.static_dir", errors.New("output directory is required"))
	}
	if err := ValidateCurrency(c.HomeCurrency); err != nil {
		return invalid("home_currency", err)
	}
	if _, err := c.StartDate(); err != nil {
		return invalid("start", err)
	}
	switch c.Quotes.Provider {
	case ProviderYahoo:
	case ProviderEODHD:
		if c.Quotes.APIKey == "" {
			return invalid("quotes.api_key", errors.New("eodhd requires an api key"))
		}
	case ProviderOffline:
		if c.Quotes.Store == "" {
			return invalid("quotes.store", errors.New("offline quotes require a store"))
		}
	default:
		return invalid("quotes.provider", fmt.Errorf("unknown provider %q", c.Quotes.Provider))
	}
	if c.Parallelism < 1 {
		return invalid("parallelism", fmt.Errorf("must be at least 1, got %d", c.Parallelism))
	}
	return nil
}
