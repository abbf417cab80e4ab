// Package config loads generation jobs from YAML or TOML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvDataDir names the environment variable holding the MNIST directory.
const EnvDataDir = "DIGITFORGE_DATA_DIR"

// Tile sources.
const (
	SourceMNIST = "mnist"
	SourceGlyph = "glyph"
)

// Config is a generation job as written in a config file.
type Config struct {
	Source  string `yaml:"source,omitempty" toml:"source,omitempty"`
	DataDir string `yaml:"data_dir,omitempty" toml:"data_dir,omitempty"`

	Digits  string `yaml:"digits,omitempty" toml:"digits,omitempty"`
	Length  int    `yaml:"length,omitempty" toml:"length,omitempty"`
	Spacing string `yaml:"spacing" toml:"spacing"`
	Width   int    `yaml:"width,omitempty" toml:"width,omitempty"`

	Count     int    `yaml:"count" toml:"count"`
	Seed      int64  `yaml:"seed,omitempty" toml:"seed,omitempty"`
	Workers   int    `yaml:"workers,omitempty" toml:"workers,omitempty"`
	OutputDir string `yaml:"output_dir" toml:"output_dir"`

	Format        string  `yaml:"format,omitempty" toml:"format,omitempty"`
	Scale         float64 `yaml:"scale,omitempty" toml:"scale,omitempty"`
	Interpolation string  `yaml:"interpolation,omitempty" toml:"interpolation,omitempty"`
	Noise         float64 `yaml:"noise,omitempty" toml:"noise,omitempty"`

	Relaxation  string `yaml:"relaxation,omitempty" toml:"relaxation,omitempty"`
	WalkSteps   int    `yaml:"walk_steps,omitempty" toml:"walk_steps,omitempty"`
	MaxAttempts int    `yaml:"max_attempts,omitempty" toml:"max_attempts,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Source:    SourceMNIST,
		Spacing:   "0-8",
		Count:     1,
		OutputDir: "out",
		Format:    "png",
		Scale:     1,
	}
}

// Load reads a config file. The format follows the extension: .yaml/.yml
// or .toml. Fields absent from the file keep their Default value; unknown
// fields are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("parse %s: unknown field %s", path, undecoded[0])
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s (valid: .yaml, .yml, .toml)", ext)
	}
	return &cfg, nil
}

// Save writes c to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ApplyEnv loads the given dotenv files (".env" when none are given)
// without overriding variables already set, then fills DataDir from
// DIGITFORGE_DATA_DIR when it is empty.
func (c *Config) ApplyEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f) // a missing file is fine
	}
	if c.DataDir == "" {
		c.DataDir = os.Getenv(EnvDataDir)
	}
}

// Validate checks the tile source and every generation parameter.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceMNIST, SourceGlyph:
	default:
		return fmt.Errorf("invalid source: %s (valid: mnist, glyph)", c.Source)
	}
	if c.Source == SourceMNIST && c.DataDir == "" {
		return fmt.Errorf("source mnist needs data_dir or %s", EnvDataDir)
	}
	opts, err := c.ToDatasetOptions()
	if err != nil {
		return err
	}
	return opts.Validate()
}
