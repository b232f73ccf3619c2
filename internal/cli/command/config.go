package command

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/accessctl/internal/cli/config"
	"github.com/yndnr/accessctl/internal/cli/connection"
	"github.com/yndnr/accessctl/internal/cli/output"
	"github.com/yndnr/accessctl/internal/infra/tlsroots"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "CLI configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: configShow,
			},
			{
				Name:   "path",
				Usage:  "Print the configuration file path",
				Action: configPath,
			},
			{
				Name:  "init",
				Usage: "Write the effective configuration to the configuration file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "overwrite an existing file",
					},
				},
				Action: configInit,
			},
			{
				Name:   "validate",
				Usage:  "Validate the effective configuration",
				Action: configValidate,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	rt := GetRuntime(c)
	// The config has no tabular form; table mode shows YAML.
	if rt.Format == output.FormatTable {
		return (&output.YAMLFormatter{}).Format(c.App.Writer, rt.Config)
	}
	return render(c, rt.Config.Map())
}

func configPath(c *cli.Context) error {
	fmt.Fprintln(c.App.Writer, GetRuntime(c).ConfigPath)
	return nil
}

func configInit(c *cli.Context) error {
	rt := GetRuntime(c)

	if !c.Bool("force") {
		if _, err := os.Stat(rt.ConfigPath); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", rt.ConfigPath)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	if err := config.Save(rt.Config, rt.ConfigPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	printf(c, "Wrote %s\n", rt.ConfigPath)
	return nil
}

// configValidate checks the values that are otherwise only checked when
// a command first uses them.
func configValidate(c *cli.Context) error {
	rt := GetRuntime(c)

	if _, err := connection.ParseEndpoint(rt.Config.Daemon); err != nil {
		return fmt.Errorf("daemon: %w", err)
	}
	if rt.Config.TLS.CA != "" {
		if _, err := tlsroots.ClientConfig(rt.Config.TLS.CA); err != nil {
			return fmt.Errorf("tls.ca: %w", err)
		}
	}
	if rt.Config.Timeout <= 0 {
		return fmt.Errorf("timeout: must be positive, got %s", rt.Config.Timeout)
	}
	if rt.Config.Probe.Target == "" {
		return fmt.Errorf("probe.target: must not be empty")
	}

	printf(c, "✓ Configuration is valid\n")
	return nil
}
