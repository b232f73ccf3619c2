package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/accessctl/internal/infra/confloader"
)

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".accessctl", "cli.yaml")
	}
	return filepath.Join(homeDir, ".accessctl", "cli.yaml")
}

// Load resolves the CLI configuration.
//
// Sources, lowest priority first: built-in defaults, the YAML file at path,
// ACCESSCTL_* environment variables, then flags. flags is keyed by dotted
// config key and only holds flags the user actually set.
//
// An empty path means DefaultConfigPath, which may be absent. An explicit
// path must exist.
func Load(path string, flags map[string]any) (*CLIConfig, error) {
	fileOpt := confloader.WithConfigFile(path)
	if path == "" {
		fileOpt = confloader.WithOptionalConfigFile(DefaultConfigPath())
	}

	l := confloader.NewLoader(
		confloader.WithDefaults(defaults()),
		fileOpt,
	)

	cfg := &CLIConfig{}
	if err := l.Load(cfg); err != nil {
		return nil, err
	}

	if len(flags) > 0 {
		if err := l.LoadMap(flags); err != nil {
			return nil, err
		}
		if err := l.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	return cfg, nil
}

// Save writes cfg as YAML to path, creating the directory if needed.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o600)
}
