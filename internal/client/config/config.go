package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the eproduct CLI.
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration
	StoragePath    string
	LogLevel       string
	DownloadDir    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8000"
	c.RequestTimeout = 10 * time.Second
	c.StoragePath = "eproduct.db"
	c.LogLevel = "info"
	c.DownloadDir = "download"
}

// LoadConfig applies defaults, then the config file (if any), then flags
// from os.Args. Later sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
