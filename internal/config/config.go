// Package config provides configuration for the chat store service.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds the service configuration.
type Config struct {
	Server struct {
		Port int `koanf:"port"`
	} `koanf:"server"`

	Catalog struct {
		// Path to a products JSON file. If empty, URL is tried; if both are
		// empty the embedded catalog is used.
		Path string `koanf:"path"`
		URL  string `koanf:"url"`
	} `koanf:"catalog"`

	Assistant struct {
		// Mode is one of "backend", "openai", "mock".
		Mode        string        `koanf:"mode"`
		BackendURL  string        `koanf:"backend_url"`
		OpenAIKey   string        `koanf:"openai_key"`
		OpenAIModel string        `koanf:"openai_model"`
		Timeout     time.Duration `koanf:"timeout"`
	} `koanf:"assistant"`

	Geo struct {
		GeocodingURL string        `koanf:"geocoding_url"`
		WeatherURL   string        `koanf:"weather_url"`
		Timeout      time.Duration `koanf:"timeout"`
	} `koanf:"geo"`

	Stream struct {
		StartDelay   time.Duration `koanf:"start_delay"`
		WordInterval time.Duration `koanf:"word_interval"`
	} `koanf:"stream"`

	Store struct {
		// RedisAddr enables the redis session store when non-empty.
		RedisAddr     string `koanf:"redis_addr"`
		RedisPassword string `koanf:"redis_password"`
		RedisDB       int    `koanf:"redis_db"`
		// OrdersDSN is the sqlite DSN for the durable order store.
		OrdersDSN string `koanf:"orders_dsn"`
	} `koanf:"store"`

	Logging struct {
		Level string `koanf:"level"`
	} `koanf:"logging"`
}

// Load loads configuration from defaults, an optional TOML file and
// KHAADI_-prefixed environment variables, in that order of precedence.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	k.Load(confmap.Provider(map[string]interface{}{
		"server.port":            8080,
		"assistant.mode":         "backend",
		"assistant.backend_url":  "http://127.0.0.1:8000",
		"assistant.openai_model": "gpt-4o-mini",
		"assistant.timeout":      "30s",
		"geo.geocoding_url":      "https://geocoding-api.open-meteo.com/v1",
		"geo.weather_url":        "https://api.open-meteo.com/v1",
		"geo.timeout":            "5s",
		"stream.start_delay":     "300ms",
		"stream.word_interval":   "80ms",
		"store.orders_dsn":       "file:orders.db?cache=shared&mode=rwc",
		"logging.level":          "info",
	}, "."), nil)

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else {
		for _, path := range []string{"./khaadi.toml", "$HOME/.khaadi.toml"} {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err == nil {
					break
				}
			}
		}
	}

	k.Load(env.Provider("KHAADI_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "KHAADI_")), "_", ".", 1)
	}), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for invalid combinations.
func (c *Config) Validate() error {
	switch c.Assistant.Mode {
	case "backend":
		if c.Assistant.BackendURL == "" {
			return fmt.Errorf("assistant backend_url is required in backend mode")
		}
	case "openai":
		if c.Assistant.OpenAIKey == "" {
			return fmt.Errorf("assistant openai_key is required in openai mode")
		}
	case "mock":
	default:
		return fmt.Errorf("unknown assistant mode %q", c.Assistant.Mode)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server port must be positive")
	}
	return nil
}
