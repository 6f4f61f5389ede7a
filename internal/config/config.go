package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no --config flag is given.
const DefaultPath = ".mdtoc.yml"

// Config controls marker detection, list rendering and file discovery.
type Config struct {
	StartMarker string   `yaml:"start_marker"`
	EndMarker   string   `yaml:"end_marker"`
	MinLevel    int      `yaml:"min_level"`
	MaxLevel    int      `yaml:"max_level"`
	Bullet      string   `yaml:"bullet"`
	Indent      int      `yaml:"indent"`
	IgnoreDirs  []string `yaml:"ignore_dirs"`
	Extensions  []string `yaml:"extensions"`
}

func Default() *Config {
	return &Config{
		StartMarker: "<!-- TOC -->",
		EndMarker:   "<!-- /TOC -->",
		MinLevel:    2,
		MaxLevel:    4,
		Bullet:      "-",
		Indent:      2,
		IgnoreDirs:  []string{".git", "vendor", "node_modules", "testdata"},
		Extensions:  []string{".md", ".markdown"},
	}
}

// Load reads the YAML config at path over the defaults. A missing config file
// is not an error; defaults apply.
func Load(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config over defaults
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No config file, defaults apply.
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	// 3. Override with Environment Variables if present
	if v := os.Getenv("MDTOC_START_MARKER"); v != "" {
		cfg.StartMarker = v
	}
	if v := os.Getenv("MDTOC_END_MARKER"); v != "" {
		cfg.EndMarker = v
	}
	if v := os.Getenv("MDTOC_MIN_LEVEL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MDTOC_MIN_LEVEL %q: %w", v, err)
		}
		cfg.MinLevel = n
	}
	if v := os.Getenv("MDTOC_MAX_LEVEL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MDTOC_MAX_LEVEL %q: %w", v, err)
		}
		cfg.MaxLevel = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configs that could never produce a usable TOC.
func (c *Config) Validate() error {
	if c.StartMarker == "" || c.EndMarker == "" {
		return errors.New("markers must be non-empty")
	}
	if c.StartMarker == c.EndMarker {
		return errors.New("start and end markers must differ")
	}
	if c.MinLevel < 1 || c.MaxLevel > 6 || c.MinLevel > c.MaxLevel {
		return fmt.Errorf("invalid heading level range %d-%d", c.MinLevel, c.MaxLevel)
	}
	if c.Indent < 1 {
		return fmt.Errorf("invalid indent %d", c.Indent)
	}
	switch c.Bullet {
	case "-", "*", "+":
	default:
		return fmt.Errorf("invalid bullet %q", c.Bullet)
	}
	return nil
}
