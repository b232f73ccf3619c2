package command

import (
	"context"
	"fmt"
	"io"

	"github.com/oklog/ulid/v2"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/accessctl/internal/cli/config"
	"github.com/yndnr/accessctl/internal/cli/connection"
	"github.com/yndnr/accessctl/internal/cli/output"
	"github.com/yndnr/accessctl/internal/core/service"
	"github.com/yndnr/accessctl/internal/infra/buildinfo"
	"github.com/yndnr/accessctl/internal/telemetry/logger"
)

const runtimeKey = "runtime"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:                 "accessctl",
		Usage:                "Manage the API access methods used by the daemon",
		Version:              buildinfo.String(),
		Flags:                globalFlags(),
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			APICommand(),
			ConfigCommand(),
		},
		Before: setup,
		// Errors are printed by main.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// globalFlags returns the global CLI flags.
//
// Flags without an explicit value fall through to the config file,
// ACCESSCTL_* variables and built-in defaults.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "daemon",
			Aliases: []string{"d"},
			Usage:   "daemon management address (host:port or unix:///path)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:  "no-headers",
			Usage: "omit table headers",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "config file (default ~/.accessctl/cli.yaml)",
		},
		&cli.StringFlag{
			Name:  "ca-cert",
			Usage: "PEM file with the CA that signed an https daemon's certificate",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "timeout for each daemon call or probe",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "log debug diagnostics to stderr",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "diagnostics format: text, json",
		},
	}
}

// Runtime is the state shared by all actions of one invocation.
type Runtime struct {
	Config     *config.CLIConfig
	ConfigPath string
	Format     output.Format
	NoHeaders  bool
	Log        logger.Logger
	ConnMgr    *connection.Manager
}

// flagOverrides returns the config keys set explicitly on the command line.
func flagOverrides(c *cli.Context) map[string]any {
	flags := make(map[string]any)
	if c.IsSet("daemon") {
		flags["daemon"] = c.String("daemon")
	}
	if c.IsSet("output") {
		flags["output"] = c.String("output")
	}
	if c.IsSet("ca-cert") {
		flags["tls.ca"] = c.String("ca-cert")
	}
	if c.IsSet("timeout") {
		flags["timeout"] = c.Duration("timeout").String()
	}
	if c.Bool("verbose") {
		flags["log.level"] = "debug"
	}
	if c.IsSet("log-format") {
		flags["log.format"] = c.String("log-format")
	}
	return flags
}

// setup resolves configuration and the logger before any action runs.
func setup(c *cli.Context) error {
	configPath := c.String("config")
	cfg, err := config.Load(configPath, flagOverrides(c))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: c.App.ErrWriter,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	c.App.Metadata[runtimeKey] = &Runtime{
		Config:     cfg,
		ConfigPath: configPath,
		Format:     format,
		NoHeaders:  c.Bool("no-headers"),
		Log:        log,
		ConnMgr:    connection.NewManager(),
	}
	return nil
}

// GetRuntime retrieves the invocation runtime from context.
func GetRuntime(c *cli.Context) *Runtime {
	if rt, ok := c.App.Metadata[runtimeKey].(*Runtime); ok {
		return rt
	}
	return nil
}

// EnsureConnected returns the access method service bound to the configured
// daemon. The daemon is not contacted until an operation runs.
func EnsureConnected(c *cli.Context) (*service.AccessMethods, error) {
	rt := GetRuntime(c)
	if rt == nil {
		return nil, fmt.Errorf("runtime not initialized")
	}

	if !rt.ConnMgr.IsConnected() {
		err := rt.ConnMgr.Connect(&connection.Connection{
			Daemon:  rt.Config.Daemon,
			Timeout: rt.Config.Timeout,
			CAFile:  rt.Config.TLS.CA,
		})
		if err != nil {
			return nil, err
		}
	}

	return service.NewAccessMethods(rt.ConnMgr.Connector(), rt.Log), nil
}

// actionContext returns the context for one remote call or probe, bounded
// by the configured timeout and tagged with a fresh request ID.
func actionContext(c *cli.Context) (context.Context, context.CancelFunc) {
	rt := GetRuntime(c)
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	requestID := ulid.Make().String()
	ctx = logger.WithRequestID(ctx, requestID)
	if rt != nil {
		ctx = logger.WithLogger(ctx, rt.Log)
		if rt.Config.Timeout > 0 {
			return context.WithTimeout(ctx, rt.Config.Timeout)
		}
	}
	return context.WithCancel(ctx)
}

// render writes data to stdout in the selected format.
func render(c *cli.Context, data any) error {
	rt := GetRuntime(c)
	format, noHeaders := output.FormatTable, false
	if rt != nil {
		format, noHeaders = rt.Format, rt.NoHeaders
	}
	return output.NewFormatter(format, noHeaders).Format(c.App.Writer, data)
}

// printf writes a human-readable line to stdout. Nothing is written for
// json and yaml output so those stay parseable.
func printf(c *cli.Context, format string, args ...any) {
	if rt := GetRuntime(c); rt != nil && rt.Format != output.FormatTable {
		return
	}
	fmt.Fprintf(c.App.Writer, format, args...)
}

// stderr returns the diagnostics writer.
func stderr(c *cli.Context) io.Writer {
	return c.App.ErrWriter
}
