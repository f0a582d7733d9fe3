package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the engine's file-level configuration.
type Config struct {
	// DBPath locates the SQLite database file.
	DBPath string `yaml:"db_path"`

	// Timezone names the IANA location used for day boundaries
	// (e.g. "Europe/Berlin"). Empty means the system local timezone.
	Timezone string `yaml:"timezone"`
}

// DefaultConfigPath is tried when --config is not given.
const DefaultConfigPath = "vrata.yaml"

// defaultConfig returns the configuration used when no file exists:
// a database next to the working directory, system timezone.
func defaultConfig() Config {
	return Config{DBPath: "vrata.db"}
}

// LoadConfig reads a YAML config file.
//
// When path is empty the default path is tried and a missing file is not
// an error (defaults apply). An explicitly given path must exist.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return defaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultConfig().DBPath
	}
	if !filepath.IsAbs(cfg.DBPath) {
		// Relative db paths resolve against the config file's directory,
		// not the process working directory.
		cfg.DBPath = filepath.Join(filepath.Dir(path), cfg.DBPath)
	}

	return cfg, nil
}

// Location resolves the configured timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
