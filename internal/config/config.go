// Package config loads the static YAML settings file that names the
// directories and image path the batch driver operates on.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrIncomplete is returned by Validate when a required field is empty.
var ErrIncomplete = errors.New("config: missing required field")

// Config is the seven-field static settings record named in the CLI's
// external interface: directories holding the original Japanese script
// files and their compressed counterparts, the English translator-text
// and compressed-output directories, and the disk image scripts are
// imported into.
type Config struct {
	JPCC           string `yaml:"jpCC"`
	ENCC           string `yaml:"enCC"`
	DecompressJPCC string `yaml:"decompressJPCC"`
	DecompressENCC string `yaml:"decompressENCC"`
	JPTXT          string `yaml:"jpTXT"`
	ENTXT          string `yaml:"enTXT"`
	HDIFile        string `yaml:"hdiFile"`
}

// Load reads and parses path as a YAML config file, validating it before
// returning.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects a config with any empty required field.
func (c *Config) Validate() error {
	fields := []struct {
		name, value string
	}{
		{"jpCC", c.JPCC},
		{"enCC", c.ENCC},
		{"decompressJPCC", c.DecompressJPCC},
		{"decompressENCC", c.DecompressENCC},
		{"jpTXT", c.JPTXT},
		{"enTXT", c.ENTXT},
		{"hdiFile", c.HDIFile},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%w: %s", ErrIncomplete, f.name)
		}
	}
	return nil
}
