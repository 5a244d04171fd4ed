package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents a brace.yaml run configuration.
type Config struct {
	// Entry is the tree file to run when none is given on the command line.
	// Relative paths are resolved against the config file's directory.
	Entry string `yaml:"entry,omitempty"`

	// Bindings lists the bundled host libraries made visible to programs
	// (e.g. "std"). Nil means the defaults; an empty list disables them.
	Bindings []string `yaml:"bindings"`

	// MaxCallDepth bounds nested user function calls. Zero means the default.
	MaxCallDepth int `yaml:"max_call_depth,omitempty"`

	// Verbose routes arena and pipeline logs to stderr.
	Verbose bool `yaml:"verbose,omitempty"`

	dir string
}

// Default returns the configuration used when no brace.yaml exists.
func Default() *Config {
	return &Config{
		Bindings:     []string{StdBindingName},
		MaxCallDepth: DefaultMaxCallDepth,
	}
}

// Load reads and validates a brace.yaml file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// Parse decodes configuration from YAML bytes and fills defaults.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Bindings == nil {
		cfg.Bindings = []string{StdBindingName}
	}
	if cfg.MaxCallDepth == 0 {
		cfg.MaxCallDepth = DefaultMaxCallDepth
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.MaxCallDepth < 0 {
		return fmt.Errorf("max_call_depth must not be negative, got %d", c.MaxCallDepth)
	}
	seen := make(map[string]bool, len(c.Bindings))
	for _, name := range c.Bindings {
		if name == "" {
			return fmt.Errorf("bindings: empty name")
		}
		if IsReserved(name) {
			return fmt.Errorf("bindings: %q is a reserved name", name)
		}
		if seen[name] {
			return fmt.Errorf("bindings: duplicate %q", name)
		}
		seen[name] = true
	}
	return nil
}

// EntryPath returns the entry tree path resolved against the config directory.
func (c *Config) EntryPath() string {
	if c.Entry == "" || filepath.IsAbs(c.Entry) || c.dir == "" {
		return c.Entry
	}
	return filepath.Join(c.dir, c.Entry)
}

// FindConfig looks for brace.yaml in dir. It returns "" when none exists.
func FindConfig(dir string) string {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}
