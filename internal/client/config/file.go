package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/eproduct/internal/flagx"
	"github.com/dmitrijs2005/eproduct/internal/timex"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape. Pointer fields tell "absent" apart from
// an explicit zero value.
type fileConfig struct {
	ServerBaseURL  *string         `json:"server_base_url" yaml:"server_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	StoragePath    *string         `json:"storage_path" yaml:"storage_path"`
	LogLevel       *string         `json:"log_level" yaml:"log_level"`
	DownloadDir    *string         `json:"download_dir" yaml:"download_dir"`
}

// parseFile overlays cfg with the file named by -c/-config in args. No flag
// means no file and no changes.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.ServerBaseURL != nil {
		cfg.ServerBaseURL = *fc.ServerBaseURL
	}
	if fc.RequestTimeout != nil {
		if fc.RequestTimeout.Duration <= 0 {
			return fmt.Errorf("config %s: request timeout must be positive, got %s", path, fc.RequestTimeout.Duration)
		}
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.StoragePath != nil {
		cfg.StoragePath = *fc.StoragePath
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.DownloadDir != nil {
		cfg.DownloadDir = *fc.DownloadDir
	}
	return nil
}
