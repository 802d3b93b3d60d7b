package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the stockwatch client.
type Config struct {
	API       API       `yaml:"api"`
	Storage   Storage   `yaml:"storage"`
	Logging   Logging   `yaml:"logging"`
	Search    Search    `yaml:"search"`
	News      News      `yaml:"news"`
	Watchlist Watchlist `yaml:"watchlist"`
}

// API holds the backend endpoint configuration.
type API struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Storage holds paths for local persistence.
type Storage struct {
	DataDir    string `yaml:"data_dir"`
	SQLitePath string `yaml:"sqlite_path"`
	SymbolsCSV string `yaml:"symbols_csv"`
}

// Logging configures the application logger.
type Logging struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Search controls the suggestion orchestrator.
type Search struct {
	DebounceMillis  int `yaml:"debounce_ms"`
	SuggestionCount int `yaml:"suggestion_count"`
}

// News controls the news aggregator.
type News struct {
	Language       string `yaml:"hl"`
	Region         string `yaml:"gl"`
	SampleSize     int    `yaml:"sample_size"`
	PerSymbolLimit int    `yaml:"per_symbol_limit"`
	MaxItems       int    `yaml:"max_items"`
	PageSize       int    `yaml:"page_size"`
}

// Watchlist controls the watchlist refresh loop.
type Watchlist struct {
	PollSeconds int `yaml:"poll_seconds"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Default returns the built-in configuration used when no file overrides a
// setting. The aggregation caps mirror the mobile app's behaviour.
func Default() *Config {
	return &Config{
		API: API{
			BaseURL:        "http://localhost:3000/api",
			TimeoutSeconds: 15,
		},
		Storage: Storage{
			DataDir:    "data",
			SQLitePath: "stockwatch.db",
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
		},
		Search: Search{
			DebounceMillis:  300,
			SuggestionCount: 5,
		},
		News: News{
			Language:       "vi",
			Region:         "VN",
			SampleSize:     10,
			PerSymbolLimit: 12,
			MaxItems:       18,
			PageSize:       6,
		},
		Watchlist: Watchlist{
			PollSeconds: 30,
		},
	}
}

// Load reads the YAML configuration file at the given path over the built-in
// defaults, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to defaults (plus env
// overrides) when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		applyEnvOverrides(cfg)
		return cfg, nil
	}
	return Load(path)
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STOCKWATCH_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("STOCKWATCH_API_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.API.TimeoutSeconds = n
		}
	}

	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("SYMBOLS_CSV"); v != "" {
		cfg.Storage.SymbolsCSV = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
}
