package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all settings for the tracker service.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Quotes  QuotesConfig  `toml:"quotes"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
	// APIKey, when set, is required in the X-API-Key header of every /api
	// request.
	APIKey string `toml:"api_key"`
}

// StorageConfig holds the SQLite settings.
type StorageConfig struct {
	Path string `toml:"path"`
}

// QuotesConfig points at the motivational quote file.
type QuotesConfig struct {
	Path string `toml:"path"`
}

// Load reads configuration from an optional TOML file, then applies .env and
// environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// .env is optional; real environment variables win either way.
	_ = godotenv.Load()
	cfg.applyEnv()
	cfg.setDefaults()

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("HARD75_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("HARD75_API_KEY"); v != "" {
		c.Server.APIKey = v
	}
	if v := os.Getenv("HARD75_DB"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("HARD75_QUOTES"); v != "" {
		c.Quotes.Path = v
	}
}

func (c *Config) setDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "data/tracker.db"
	}
	if c.Quotes.Path == "" {
		c.Quotes.Path = "assets/quotes.txt"
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}
