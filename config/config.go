package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	App            AppConfig            `mapstructure:"app"`
	Server         ServerConfig         `mapstructure:"server"`
	OpenWeatherMap OpenWeatherMapConfig `mapstructure:"openweathermap"`
	Forecast       ForecastConfig       `mapstructure:"forecast"`
	Autocomplete   AutocompleteConfig   `mapstructure:"autocomplete"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// Inbound request budget, shared by all clients
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
	// Sessions idle for longer than SessionTTL are dropped every PruneInterval
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	PruneInterval time.Duration `mapstructure:"prune_interval"`
}

type OpenWeatherMapConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	GeoURL  string        `mapstructure:"geo_url"`
	Units   string        `mapstructure:"units"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ForecastConfig struct {
	DefaultCity string `mapstructure:"default_city"`
}

type AutocompleteConfig struct {
	Limit int `mapstructure:"limit"`
}

// envBindings maps config keys to the environment variables that override them
var envBindings = map[string]string{
	"app.env":                 "APP_ENV",
	"app.log_level":           "LOG_LEVEL",
	"server.port":             "PORT",
	"server.read_timeout":     "READ_TIMEOUT",
	"server.write_timeout":    "WRITE_TIMEOUT",
	"server.shutdown_timeout": "SHUTDOWN_TIMEOUT",
	"server.rate_limit":       "RATE_LIMIT",
	"server.rate_burst":       "RATE_BURST",
	"server.session_ttl":      "SESSION_TTL",
	"server.prune_interval":   "SESSION_PRUNE_INTERVAL",
	"openweathermap.api_key":  "OPENWEATHERMAP_API_KEY",
	"openweathermap.base_url": "OPENWEATHERMAP_BASE_URL",
	"openweathermap.geo_url":  "OPENWEATHERMAP_GEO_URL",
	"openweathermap.units":    "OPENWEATHERMAP_UNITS",
	"openweathermap.timeout":  "OPENWEATHERMAP_TIMEOUT",
	"forecast.default_city":   "DEFAULT_CITY",
	"autocomplete.limit":      "AUTOCOMPLETE_LIMIT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "weatherwise")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("server.session_ttl", 30*time.Minute)
	v.SetDefault("server.prune_interval", 10*time.Minute)

	v.SetDefault("openweathermap.base_url", "https://api.openweathermap.org/data/2.5")
	v.SetDefault("openweathermap.geo_url", "https://api.openweathermap.org/geo/1.0")
	v.SetDefault("openweathermap.units", "metric")
	v.SetDefault("openweathermap.timeout", 10*time.Second)

	v.SetDefault("forecast.default_city", "Calgary")
	v.SetDefault("autocomplete.limit", 5)
}

// Load reads configuration from defaults, an optional config file and the
// environment, in increasing order of precedence. A .env file in the working
// directory is loaded into the environment first.
func Load(filename string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if filename != "" {
		if _, err := os.Stat(filename); err == nil {
			v.SetConfigFile(filename)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file %s: %w", filename, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.Forecast.DefaultCity = strings.TrimSpace(cfg.Forecast.DefaultCity)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the values the service cannot start without
func (c *Config) Validate() error {
	if c.OpenWeatherMap.APIKey == "" {
		return errors.New("openweathermap api key must not be empty")
	}
	if c.OpenWeatherMap.BaseURL == "" || c.OpenWeatherMap.GeoURL == "" {
		return errors.New("openweathermap base and geo urls must not be empty")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Autocomplete.Limit <= 0 {
		return errors.New("autocomplete limit must be positive")
	}
	if c.Server.RateLimit <= 0 || c.Server.RateBurst <= 0 {
		return errors.New("rate limit and burst must be positive")
	}
	if c.Server.SessionTTL <= 0 || c.Server.PruneInterval <= 0 {
		return errors.New("session ttl and prune interval must be positive")
	}
	if c.Forecast.DefaultCity == "" {
		return errors.New("forecast default city must not be empty")
	}
	return nil
}
