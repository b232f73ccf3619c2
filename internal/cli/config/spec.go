package config

import (
	"time"

	"github.com/yndnr/accessctl/internal/core/service"
)

// CLIConfig is the configuration for accessctl.
type CLIConfig struct {
	// Daemon is the management interface address: host:port or unix:///path.
	Daemon string `koanf:"daemon" yaml:"daemon"`
	// Output is the default output format (table, json, yaml).
	Output string `koanf:"output" yaml:"output"`
	// Timeout bounds each call to the daemon and each probe.
	Timeout time.Duration `koanf:"timeout" yaml:"timeout"`

	Log   LogConfig   `koanf:"log" yaml:"log"`
	Probe ProbeConfig `koanf:"probe" yaml:"probe"`
	TLS   TLSConfig   `koanf:"tls" yaml:"tls"`
}

// LogConfig controls diagnostics on stderr.
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}

// ProbeConfig controls `api test`.
type ProbeConfig struct {
	// Target is the host:port dialed through the access method.
	Target string `koanf:"target" yaml:"target"`
}

// TLSConfig controls verification of https daemon addresses.
type TLSConfig struct {
	// CA is a PEM file trusted in addition to the system roots.
	CA string `koanf:"ca" yaml:"ca,omitempty"`
}

// Default values.
const (
	DefaultDaemon      = "unix:///var/run/accessd.sock"
	DefaultOutput      = "table"
	DefaultTimeout     = 30 * time.Second
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
	DefaultProbeTarget = service.DefaultProbeTarget
)

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Daemon:  DefaultDaemon,
		Output:  DefaultOutput,
		Timeout: DefaultTimeout,
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Probe: ProbeConfig{
			Target: DefaultProbeTarget,
		},
	}
}

// defaults returns Default() in the shape LoadMap expects.
func defaults() map[string]any {
	return Default().Map()
}

// Map returns cfg as nested maps keyed like the config file, with the
// timeout as a duration string.
func (c *CLIConfig) Map() map[string]any {
	return map[string]any{
		"daemon":  c.Daemon,
		"output":  c.Output,
		"timeout": c.Timeout.String(),
		"log": map[string]any{
			"level":  c.Log.Level,
			"format": c.Log.Format,
		},
		"probe": map[string]any{
			"target": c.Probe.Target,
		},
		"tls": map[string]any{
			"ca": c.TLS.CA,
		},
	}
}
