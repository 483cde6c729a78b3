package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`

	Storage struct {
		DownloadDir string `yaml:"download_dir"`
	} `yaml:"storage"`

	Cleanup struct {
		IntervalMinutes int `yaml:"interval_minutes"`
		MaxAgeMinutes   int `yaml:"max_age_minutes"`
	} `yaml:"cleanup"`
}

// Default returns the built-in configuration: listen everywhere on 8000,
// sweep the downloads dir every 5 minutes, keep files for an hour.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8000
	cfg.Storage.DownloadDir = "downloads"
	cfg.Cleanup.IntervalMinutes = 5
	cfg.Cleanup.MaxAgeMinutes = 60
	return cfg
}

// Load reads the YAML config at path, falling back to defaults when the
// file is absent, then applies environment overrides (PORT, HOST,
// DOWNLOAD_DIR).
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if host := os.Getenv("HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		cfg.Server.Port = p
	}
	if dir := os.Getenv("DOWNLOAD_DIR"); dir != "" {
		cfg.Storage.DownloadDir = dir
	}

	return cfg, nil
}
