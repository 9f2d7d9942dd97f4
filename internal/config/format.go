package config

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Marshal renders the configuration in the given format ("toml" or "yaml").
func (c *Config) Marshal(format string) ([]byte, error) {
	switch format {
	case "", "toml":
		return toml.Marshal(c)
	case "yaml", "yml":
		return yaml.Marshal(c)
	default:
		return nil, fmt.Errorf("unsupported format %q: must be toml or yaml", format)
	}
}
