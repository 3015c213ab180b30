// internal/config/load.go
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a configuration file. The result must still pass
// Validate and Normalize before use.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errf("file", "cannot read %s: %v", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, errf("file", "cannot parse %s: %v", path, err)
	}
	return &cfg, nil
}

// Save writes the configuration back to disk. Used by the setup tool
// only; the monitor never writes its configuration.
func Save(path string, cfg *Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return errf("file", "cannot encode: %v", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return errf("file", "cannot write %s: %v", path, err)
	}
	return nil
}
