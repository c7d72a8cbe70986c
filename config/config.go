/*
Package config holds the raster tool configuration loaded from an optional
YAML file.
*/
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v2"
)

// Config collects the tunable settings of the raster tool: the catalog
// database path, the number of scan workers, the lossy encoding quality and
// the GIF palette size. Command line flags override anything set here.
type Config struct {
	Database string `yaml:"database"`
	Workers  int    `yaml:"workers"`
	Quality  int    `yaml:"quality"`
	Colors   int    `yaml:"colors"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Database: "raster.db",
		Workers:  10,
		Quality:  90,
		Colors:   256,
	}
}

// Load reads file over the defaults. A missing file is not an error and
// just yields the defaults.
func Load(file string) (*Config, error) {
	c := Default()

	b, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}

	return c, nil
}
