// Package config loads and manages verdant configuration.
// Configuration source priority (highest to lowest):
// 1. CLI flags (applied by cmd)
// 2. Environment variables (VERDANT_API_URL, VERDANT_TIMEOUT, ...), including a .env file in the working directory
// 3. Config file path specified via --config flag
// 4. ~/.config/verdant/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultAPIURL is the backend base URL used when nothing else is configured.
const DefaultAPIURL = "http://localhost:5000/api/v1"

// Plant types understood by the backend search endpoint.
const (
	PlantTypeIndoor = "indoor"
	PlantTypeOther  = "other"
)

// RateLimitConfig caps outbound request throughput.
type RateLimitConfig struct {
	// RequestsPerSecond: 0 disables limiting.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	// Level: "debug" | "info" | "warn" | "error"
	Level string `yaml:"level"`

	// File receives log output. Empty = stderr.
	File string `yaml:"file"`
}

// OutputConfig controls terminal rendering.
type OutputConfig struct {
	// Markdown renders AI plans with glamour when true.
	Markdown bool `yaml:"markdown"`

	// Color: "auto" (default) | "always" | "never"
	Color string `yaml:"color"`
}

// Config is the complete configuration structure for verdant.
type Config struct {
	// APIURL is the backend base URL, e.g. "http://localhost:5000/api/v1".
	APIURL string `yaml:"api_url"`

	// Timeout bounds every backend request. 0 = no timeout.
	Timeout Duration `yaml:"timeout"`

	// StateDB is the SQLite file holding the session and UI flags.
	// Empty = ~/.local/share/verdant/state.db.
	StateDB string `yaml:"state_db"`

	// DefaultPlantType is used for plant searches when no type was selected.
	DefaultPlantType string `yaml:"default_plant_type"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`

	Log LogConfig `yaml:"log"`

	// RequestLog is a JSONL file receiving one entry per backend request.
	// Empty = disabled.
	RequestLog string `yaml:"request_log"`

	Output OutputConfig `yaml:"output"`
}

// Duration is a time.Duration that reads "15s"-style strings from YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := parseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// parseDuration accepts Go duration strings and bare integers (seconds).
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		APIURL:           DefaultAPIURL,
		Timeout:          Duration(15 * time.Second),
		DefaultPlantType: PlantTypeIndoor,
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 0,
			Burst:             1,
		},
		Log: LogConfig{
			Level: "warn",
		},
		Output: OutputConfig{
			Markdown: true,
			Color:    "auto",
		},
	}
}

// DefaultPath returns ~/.config/verdant/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "verdant", "config.yaml"), nil
}

// DefaultStateDB returns ~/.local/share/verdant/state.db.
func DefaultStateDB() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "verdant", "state.db"), nil
}

// Load reads the config file and merges environment variable overrides.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	if configPath == "" {
		if p, err := DefaultPath(); err == nil {
			configPath = p
		}
	}

	// Read config file (use defaults if not found)
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes the config and rejects unusable values.
func (c *Config) Validate() error {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("api_url must start with http:// or https://, got %q", c.APIURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	switch c.DefaultPlantType {
	case "":
		c.DefaultPlantType = PlantTypeIndoor
	case PlantTypeIndoor, PlantTypeOther:
	default:
		return fmt.Errorf("default_plant_type must be %q or %q, got %q", PlantTypeIndoor, PlantTypeOther, c.DefaultPlantType)
	}
	if c.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("rate_limit.requests_per_second must not be negative")
	}
	if c.RateLimit.Burst < 1 {
		c.RateLimit.Burst = 1
	}
	return nil
}

// StateDBPath returns the configured state database path or the default one.
func (c *Config) StateDBPath() (string, error) {
	if c.StateDB != "" {
		return c.StateDB, nil
	}
	return DefaultStateDB()
}

// SaveAPIURL persists api_url into the config file at path (default path when
// empty), preserving all other user settings.
func SaveAPIURL(path, apiURL string) (string, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return "", err
		}
		path = p
	}

	// Read existing file into a generic map to preserve unknown fields.
	raw := make(map[string]any)
	if data, err := os.ReadFile(path); err == nil {
		_ = yaml.Unmarshal(data, &raw) // start fresh if corrupt
	}
	raw["api_url"] = strings.TrimRight(apiURL, "/")

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("cannot create config directory: %w", err)
	}
	data, err := yaml.Marshal(raw)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return path, nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("VERDANT_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("VERDANT_TIMEOUT"); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid VERDANT_TIMEOUT %q: %w", v, err)
		}
		cfg.Timeout = Duration(d)
	}
	if v := os.Getenv("VERDANT_STATE_DB"); v != "" {
		cfg.StateDB = v
	}
	if v := os.Getenv("VERDANT_PLANT_TYPE"); v != "" {
		cfg.DefaultPlantType = v
	}
	if v := os.Getenv("VERDANT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("VERDANT_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("VERDANT_REQUEST_LOG"); v != "" {
		cfg.RequestLog = v
	}
	return nil
}
