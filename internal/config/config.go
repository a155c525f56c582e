// Package config loads the optional sieve configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
)

// Output formats accepted by [defaults] output and --output.
var Outputs = []string{"tree", "flat", "json", "yaml"}

// Config represents the optional sieve configuration file.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Theme    ThemeConfig    `toml:"theme"`
}

// DefaultsConfig holds persistent flag defaults. Nil means unset.
type DefaultsConfig struct {
	Recursive *bool    `toml:"recursive"`
	Output    *string  `toml:"output"`
	MinSize   *string  `toml:"min_size"`
	MaxSize   *string  `toml:"max_size"`
	SSHPort   *int     `toml:"ssh_port"`
	OpsLimit  *int     `toml:"ops_limit"`
	Catalog   *string  `toml:"catalog"`
	Exclude   []string `toml:"exclude"`
	Include   []string `toml:"include"`
}

// ThemeConfig holds optional color overrides for the tree renderer.
type ThemeConfig struct {
	Dir   *string `toml:"dir"`
	File  *string `toml:"file"`
	Root  *string `toml:"root"`
	Link  *string `toml:"link"`
	Muted *string `toml:"muted"`
}

// Path returns the resolved path to the config file.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "sieve", "config.toml")
}

// Load reads the config file from the XDG path. Returns a zero Config
// (no error) if the file does not exist.
func Load() (Config, error) {
	path := Path()
	if path == "" {
		return Config{}, nil
	}
	cfg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	return cfg, err
}

// LoadFile reads and validates the config file at path.
func LoadFile(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	d := c.Defaults
	if d.Output != nil && !slices.Contains(Outputs, *d.Output) {
		return fmt.Errorf("defaults.output must be one of %v, got %q", Outputs, *d.Output)
	}
	if d.SSHPort != nil && (*d.SSHPort <= 0 || *d.SSHPort > 65535) {
		return fmt.Errorf("defaults.ssh_port out of range: %d", *d.SSHPort)
	}
	if d.OpsLimit != nil && *d.OpsLimit < 0 {
		return fmt.Errorf("defaults.ops_limit must not be negative: %d", *d.OpsLimit)
	}
	return nil
}
