// Package config loads CLI configuration from defaults, a mappedtypes.yaml
// file, MAPPEDTYPES_ environment variables and command-line flags.
package config

import (
	"fmt"
	"strings"
)

// Defaults for configuration values.
const (
	DefaultConfigFile = "mappedtypes.yaml"
	DefaultOutput     = OutputJSON
	EnvPrefix         = "MAPPEDTYPES_"
)

// Output formats.
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Config is the resolved CLI configuration.
type Config struct {
	// Definitions is a definition file or a directory of them.
	Definitions string `koanf:"definitions"`
	// FilterOptional strips optional markers when deriving required types.
	FilterOptional bool   `koanf:"filter_optional"`
	Output         string `koanf:"output"`
	Verbose        bool   `koanf:"verbose"`

	// ConfigFile is the file the values were read from, if any.
	ConfigFile string `koanf:"-"`
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Output) {
	case OutputJSON, OutputYAML:
		c.Output = strings.ToLower(c.Output)
		return nil
	default:
		return fmt.Errorf("config: unsupported output format %q (json|yaml)", c.Output)
	}
}
