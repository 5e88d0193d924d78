package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Environment variable names used by deployments. These always override
// values loaded from the config file.
const (
	EnvAirportCode   = "AIRPORT_CODE"
	EnvDataPath      = "FLIGHT_DATA_PATH"
	EnvWebhook       = "TRMNL_WEBHOOK"
	EnvAPIKey        = "FLIGHTAWARE_API_KEY"
	EnvFetchInterval = "FLIGHTAWARE_FETCH_INTERVAL_MS"
	EnvPostInterval  = "TRMNL_POST_INTERVAL_MS"
)

// Config is the top-level process configuration
type Config struct {
	Station     StationConfig     `toml:"station"`
	FlightAware FlightAwareConfig `toml:"flightaware"`
	TRMNL       TRMNLConfig       `toml:"trmnl"`
	Server      ServerConfig      `toml:"server"`
	Logging     LoggingConfig     `toml:"logging"`
}

// StationConfig identifies the airport this instance serves
type StationConfig struct {
	AirportCode string `toml:"airport_code"`
	DataPath    string `toml:"data_path"`
}

// FlightAwareConfig holds AeroAPI client settings
type FlightAwareConfig struct {
	APIKey          string `toml:"api_key"`
	BaseURL         string `toml:"base_url"`
	FetchIntervalMS int64  `toml:"fetch_interval_ms"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
}

// TRMNLConfig holds webhook push settings
type TRMNLConfig struct {
	WebhookURL     string `toml:"webhook_url"`
	PostIntervalMS int64  `toml:"post_interval_ms"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// ServerConfig holds the status API settings
type ServerConfig struct {
	Enabled            bool     `toml:"enabled"`
	Addr               string   `toml:"addr"`
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns a config populated with defaults for everything that
// has a sensible one. Required values (airport, paths, keys, intervals)
// stay empty and must come from the file or the environment.
func Default() *Config {
	return &Config{
		FlightAware: FlightAwareConfig{
			BaseURL:        "https://aeroapi.flightaware.com/aeroapi",
			TimeoutSeconds: 30,
		},
		TRMNL: TRMNLConfig{
			TimeoutSeconds: 30,
		},
		Server: ServerConfig{
			Enabled: true,
			Addr:    "127.0.0.1:8080",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the config file at path (skipped when path is empty or the
// file does not exist), applies environment overrides and validates the
// result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays the deployment environment variables onto the config
func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvAirportCode); v != "" {
		c.Station.AirportCode = v
	}
	if v := os.Getenv(EnvDataPath); v != "" {
		c.Station.DataPath = v
	}
	if v := os.Getenv(EnvWebhook); v != "" {
		c.TRMNL.WebhookURL = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.FlightAware.APIKey = v
	}
	if v := os.Getenv(EnvFetchInterval); v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvFetchInterval, v, err)
		}
		c.FlightAware.FetchIntervalMS = ms
	}
	if v := os.Getenv(EnvPostInterval); v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPostInterval, v, err)
		}
		c.TRMNL.PostIntervalMS = ms
	}
	return nil
}

// Validate checks that everything required to serve is present. A
// process must not start with a partial configuration.
func (c *Config) Validate() error {
	if c.Station.AirportCode == "" {
		return fmt.Errorf("missing airport code (set %s)", EnvAirportCode)
	}
	if c.Station.DataPath == "" {
		return fmt.Errorf("missing flight data path (set %s)", EnvDataPath)
	}
	if c.TRMNL.WebhookURL == "" {
		return fmt.Errorf("missing TRMNL webhook URL (set %s)", EnvWebhook)
	}
	if c.FlightAware.APIKey == "" {
		return fmt.Errorf("missing FlightAware API key (set %s)", EnvAPIKey)
	}
	if c.FlightAware.FetchIntervalMS <= 0 {
		return fmt.Errorf("fetch interval must be positive (set %s)", EnvFetchInterval)
	}
	if c.TRMNL.PostIntervalMS <= 0 {
		return fmt.Errorf("post interval must be positive (set %s)", EnvPostInterval)
	}
	return nil
}

// FetchInterval returns the AeroAPI poll interval
func (c *Config) FetchInterval() time.Duration {
	return time.Duration(c.FlightAware.FetchIntervalMS) * time.Millisecond
}

// PostInterval returns the TRMNL push interval
func (c *Config) PostInterval() time.Duration {
	return time.Duration(c.TRMNL.PostIntervalMS) * time.Millisecond
}

// FetchTimeout returns the AeroAPI HTTP client timeout
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FlightAware.TimeoutSeconds) * time.Second
}

// PushTimeout returns the webhook HTTP client timeout
func (c *Config) PushTimeout() time.Duration {
	return time.Duration(c.TRMNL.TimeoutSeconds) * time.Second
}
