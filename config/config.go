// Package config loads compiler settings from coolc.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const FileName = "coolc.toml"

const (
	FormatText    = "text"
	FormatLSPJSON = "lsp-json"
)

type Config struct {
	Analysis    AnalysisConfig    `toml:"analysis"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Output      OutputConfig      `toml:"output"`
	Log         LogConfig         `toml:"log"`
}

type AnalysisConfig struct {
	MaxNestingDepth int `toml:"max_nesting_depth"`
}

type DiagnosticsConfig struct {
	Color  bool   `toml:"color"`
	Format string `toml:"format"`
}

type OutputConfig struct {
	// Layout is where the LLVM class layout is written. Empty disables it.
	Layout string `toml:"layout"`
}

type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

func Default() *Config {
	return &Config{
		Analysis:    AnalysisConfig{MaxNestingDepth: 10000},
		Diagnostics: DiagnosticsConfig{Format: FormatText},
		Log:         LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults, so a file only needs the keys it
// changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Diagnostics.Format {
	case FormatText, FormatLSPJSON:
	default:
		return fmt.Errorf("unknown diagnostics format %q", c.Diagnostics.Format)
	}
	if c.Analysis.MaxNestingDepth <= 0 {
		return fmt.Errorf("max_nesting_depth must be positive, got %d", c.Analysis.MaxNestingDepth)
	}
	return nil
}

// FindConfigFile looks for coolc.toml in the directory of startPath and
// then in each parent directory. It returns "" when there is none.
func FindConfigFile(startPath string) string {
	info, err := os.Stat(startPath)
	if err != nil {
		return ""
	}

	dir := startPath
	if !info.IsDir() {
		dir = filepath.Dir(startPath)
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
