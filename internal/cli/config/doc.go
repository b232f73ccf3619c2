// Package config resolves accessctl's configuration.
//
//   - spec.go: CLIConfig struct and defaults (~/.accessctl/cli.yaml)
//   - loader.go: layered loading via confloader, and saving
package config
