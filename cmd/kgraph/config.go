// Copyright (C) 2026 BinhNgo97. All rights reserved.
// Use of this source code is governed by the MIT
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the CLI configuration loaded from kgraph.yaml.
type Config struct {
	// DataDir is the data root; each user's logs live under
	// <data_dir>/users/<user>/.
	DataDir string `yaml:"data_dir"`
	// User selects the per-user log directory.
	User string `yaml:"user"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		DataDir: "data",
		User:    "default",
	}
}

// ConfigPath returns the configuration file location for a directory.
func ConfigPath(dir string) string {
	return filepath.Join(dir, "kgraph.yaml")
}

// LoadConfig reads and parses the configuration file, then applies
// environment overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// SaveConfig writes the configuration as YAML.
func SaveConfig(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// applyEnvOverrides lets environment variables win over file values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("KGRAPH_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("KGRAPH_USER"); v != "" {
		c.User = v
	}
}

// ResolveDataDir returns the absolute per-user log directory.
func ResolveDataDir(cfg *Config) (string, error) {
	user := strings.TrimSpace(cfg.User)
	if user == "" {
		return "", fmt.Errorf("config: user must not be empty")
	}
	abs, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return "", fmt.Errorf("resolve data dir: %w", err)
	}
	return filepath.Join(abs, "users", user), nil
}

// loadConfigOrDefault is the lenient load used by read-only commands: a
// missing or broken file falls back to defaults plus env overrides.
func loadConfigOrDefault(path string) *Config {
	cfg, err := LoadConfig(path)
	if err != nil {
		cfg = DefaultConfig()
		cfg.applyEnvOverrides()
	}
	return cfg
}
