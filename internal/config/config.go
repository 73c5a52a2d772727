package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends for saved games.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Env string `yaml:"env"`
	} `yaml:"log"`
	Storage struct {
		Backend string `yaml:"backend"`
		Slot    string `yaml:"slot"`
	} `yaml:"storage"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Rabbit struct {
		URL      string `yaml:"url"`
		Exchange string `yaml:"exchange"`
	} `yaml:"rabbit"`
	Catalog struct {
		Delay string `yaml:"delay"`
		TTL   string `yaml:"ttl"`
	} `yaml:"catalog"`
	Voice struct {
		Delay      string `yaml:"delay"`
		Transcript string `yaml:"transcript"`
	} `yaml:"voice"`
	Feedback struct {
		Delay string `yaml:"delay"`
	} `yaml:"feedback"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	var cfg Config
	cfg.Server.Port = "8080"
	cfg.Log.Env = "development"
	cfg.Storage.Backend = BackendMemory
	cfg.Storage.Slot = "created_games"
	cfg.SQLite.Path = "mochi.db"
	cfg.Rabbit.Exchange = "mochi.results"
	cfg.Catalog.Delay = "300ms"
	cfg.Catalog.TTL = "10m"
	cfg.Voice.Delay = "2s"
	cfg.Voice.Transcript = "apple"
	cfg.Feedback.Delay = "500ms"
	return cfg
}

// Load reads YAML config from path on top of Default. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
