package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied to fields missing from the config file.
const (
	DefaultAPIURL          = "http://localhost:8000"
	DefaultPerPage         = 15
	DefaultDebounceMS      = 500
	DefaultRequestTimeout  = 10 * time.Second
	DefaultLogLevel        = "info"
	DefaultLogMaxSizeMB    = 10
	DefaultLogMaxBackups   = 3
	DefaultDownPaymentPct  = 25
	DefaultMortgageRatePct = 6.5
	DefaultMortgageTerm    = 30
)

// Environment overrides.
const (
	EnvAPIURL = "CREDIR_API_URL"
	EnvAPIKey = "CREDIR_API_KEY"
)

// Config holds CLI configuration stored at ~/.credir/config.
type Config struct {
	APIURL            string        `yaml:"api_url"`
	APIKey            string        `yaml:"api_key,omitempty"`
	PerPage           int           `yaml:"per_page"`
	DebounceMS        int           `yaml:"debounce_ms"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	LogLevel          string        `yaml:"log_level"`
	LogMaxSizeMB      int           `yaml:"log_max_size_mb"`
	LogMaxBackups     int           `yaml:"log_max_backups"`
	StateDB           string        `yaml:"state_db,omitempty"`
	DownPaymentPct    float64       `yaml:"down_payment_pct"`
	MortgageRatePct   float64       `yaml:"mortgage_rate_pct"`
	MortgageTermYears int           `yaml:"mortgage_term_years"`
}

// Dir returns the directory holding config, state and logs.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".credir")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "config")
}

// LogPath returns the rotating log file path.
func LogPath() string {
	return filepath.Join(Dir(), "credir.log")
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		APIURL:            DefaultAPIURL,
		PerPage:           DefaultPerPage,
		DebounceMS:        DefaultDebounceMS,
		RequestTimeout:    DefaultRequestTimeout,
		LogLevel:          DefaultLogLevel,
		LogMaxSizeMB:      DefaultLogMaxSizeMB,
		LogMaxBackups:     DefaultLogMaxBackups,
		DownPaymentPct:    DefaultDownPaymentPct,
		MortgageRatePct:   DefaultMortgageRatePct,
		MortgageTermYears: DefaultMortgageTerm,
	}
}

// Load reads and parses the config file. A missing file yields defaults;
// a file readable by others is rejected. Environment overrides are applied.
func Load() (*Config, error) {
	path := Path()

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		cfg.ApplyEnv()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config not found: %w", err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		return nil, fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides the API target from the environment.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		c.APIKey = v
	}
}

// Validate rejects values the UI cannot work with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("config missing api_url")
	}
	if c.PerPage <= 0 {
		return fmt.Errorf("config per_page must be positive, got %d", c.PerPage)
	}
	if c.DebounceMS < 0 {
		return fmt.Errorf("config debounce_ms must not be negative, got %d", c.DebounceMS)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.MortgageTermYears <= 0 {
		return fmt.Errorf("config mortgage_term_years must be positive, got %d", c.MortgageTermYears)
	}
	return nil
}

// Debounce returns the filter debounce delay.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// StateDBPath returns the column-width database path.
func (c *Config) StateDBPath() string {
	if strings.TrimSpace(c.StateDB) != "" {
		return c.StateDB
	}
	return filepath.Join(Dir(), "state.db")
}

// Save writes the config to disk with secure permissions.
func (c *Config) Save() error {
	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}
