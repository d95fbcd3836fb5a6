package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/rustyeddy/tradedash/calc"
	"github.com/rustyeddy/tradedash/kv"
	"github.com/rustyeddy/tradedash/market"
	"github.com/rustyeddy/tradedash/risk"
	"gopkg.in/yaml.v3"
)

// Config is the complete dashboard configuration
type Config struct {
	Instrument string       `json:"instrument" yaml:"instrument"`
	Timezone   string       `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	Store      StoreConfig  `json:"store" yaml:"store"`
	Engine     calc.Params  `json:"engine" yaml:"engine"`
	Risk       risk.Policy  `json:"risk" yaml:"risk"`
	Server     ServerConfig `json:"server" yaml:"server"`
	Log        LogConfig    `json:"log" yaml:"log"`
}

// StoreConfig selects the key-value backend
type StoreConfig struct {
	Type   string         `json:"type" yaml:"type"` // "sqlite", "redis" or "memory"
	DBPath string         `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	Redis  kv.RedisConfig `json:"redis,omitempty" yaml:"redis,omitempty"`
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration as YAML or JSON based on extension
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := market.Parse(c.Instrument); err != nil {
		return fmt.Errorf("instrument: %w", err)
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("timezone: %w", err)
		}
	}
	switch c.Store.Type {
	case "sqlite":
		if c.Store.DBPath == "" {
			return fmt.Errorf("store.db_path required for sqlite store")
		}
	case "redis":
		if c.Store.Redis.Address == "" {
			return fmt.Errorf("store.redis.address required for redis store")
		}
	case "memory":
	default:
		return fmt.Errorf("store.type must be 'sqlite', 'redis' or 'memory'")
	}
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if err := c.Risk.Validate(); err != nil {
		return fmt.Errorf("risk: %w", err)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error")
	}
	return nil
}

// Location is where calendar days start for the trade counter
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// LoadEnv reads .env style files into the process environment. Missing files
// are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides settings from TRADEDASH_* environment variables
func (c *Config) ApplyEnv() {
	set := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*dst = v
		}
	}
	set("TRADEDASH_INSTRUMENT", &c.Instrument)
	set("TRADEDASH_TIMEZONE", &c.Timezone)
	set("TRADEDASH_STORE", &c.Store.Type)
	set("TRADEDASH_DB", &c.Store.DBPath)
	set("TRADEDASH_REDIS_ADDR", &c.Store.Redis.Address)
	set("TRADEDASH_REDIS_PASSWORD", &c.Store.Redis.Password)
	set("TRADEDASH_ADDR", &c.Server.Addr)
	set("TRADEDASH_LOG_LEVEL", &c.Log.Level)
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Instrument: string(market.XAUUSD),
		Store: StoreConfig{
			Type:   "sqlite",
			DBPath: "./tradedash.sqlite",
			Redis: kv.RedisConfig{
				Address: "localhost:6379",
				Prefix:  "tradedash:",
			},
		},
		Engine: calc.DefaultParams(),
		Risk:   risk.DefaultPolicy(),
		Server: ServerConfig{Addr: ":8080"},
		Log:    LogConfig{Level: "info"},
	}
}
