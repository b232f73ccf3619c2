package command

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/accessctl/internal/cli/output"
	"github.com/yndnr/accessctl/internal/core/domain"
	"github.com/yndnr/accessctl/internal/core/service"
)

// APICommand returns the api access method subcommand group.
func APICommand() *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Manage API access methods",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List the configured access methods",
				Action:  apiList,
			},
			{
				Name:        "add",
				Usage:       "Add a custom access method",
				Subcommands: methodCommands(apiAdd, addFlags()),
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove an access method",
				ArgsUsage: "ID",
				Action:    apiRemove,
			},
			{
				Name:      "enable",
				Usage:     "Enable an access method",
				ArgsUsage: "ID",
				Action:    apiSetEnabled(true),
			},
			{
				Name:      "disable",
				Usage:     "Disable an access method",
				ArgsUsage: "ID",
				Action:    apiSetEnabled(false),
			},
			{
				Name:      "use",
				Usage:     "Make the daemon switch to an access method",
				ArgsUsage: "ID",
				Action:    apiUse,
			},
			{
				Name:        "test",
				Usage:       "Check that a target is reachable through an access method, without adding it",
				Subcommands: methodCommands(apiTest, testFlags()),
			},
		},
	}
}

func addFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "name",
			Usage: "display name for the access method",
		},
		&cli.BoolFlag{
			Name:  "disabled",
			Usage: "add the access method disabled",
		},
	}
}

func testFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "target",
			Usage: "host:port to reach through the access method (default from config probe.target)",
		},
	}
}

// methodCommands builds the socks5 local|remote and shadowsocks leaves
// shared by "add" and "test".
func methodCommands(run func(*cli.Context, service.AddSelection) error, flags []cli.Flag) []*cli.Command {
	leaf := func(parse func(*cli.Context) (service.AddSelection, error)) cli.ActionFunc {
		return func(c *cli.Context) error {
			sel, err := parse(c)
			if err != nil {
				return err
			}
			return run(c, sel)
		}
	}

	return []*cli.Command{
		{
			Name:  "socks5",
			Usage: "SOCKS5 proxy",
			Subcommands: []*cli.Command{
				{
					Name:      "local",
					Usage:     "SOCKS5 proxy listening on localhost that forwards to a remote peer",
					ArgsUsage: "LOCAL_PORT REMOTE_IP REMOTE_PORT",
					Flags:     flags,
					Action:    leaf(socks5LocalSelection),
				},
				{
					Name:      "remote",
					Usage:     "SOCKS5 proxy on a remote host, optionally with authentication",
					ArgsUsage: "REMOTE_IP REMOTE_PORT [USERNAME PASSWORD]",
					Flags:     flags,
					Action:    leaf(socks5RemoteSelection),
				},
			},
		},
		{
			Name: "shadowsocks",
			Usage: fmt.Sprintf("Shadowsocks proxy (defaults: port %d, password %q, cipher %s)",
				domain.DefaultShadowsocksPort, domain.DefaultShadowsocksPassword, domain.DefaultCipher),
			ArgsUsage:   "REMOTE_IP [REMOTE_PORT [PASSWORD [CIPHER]]]",
			Description: "CIPHER is one of: " + strings.Join(domain.CipherNames(), ", "),
			Flags:       flags,
			Action:      leaf(shadowsocksSelection),
		},
	}
}

func apiList(c *cli.Context) error {
	if _, err := newPositional(c, nil); err != nil {
		return err
	}

	svc, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := actionContext(c)
	defer cancel()

	methods, err := svc.List(ctx)
	if err != nil {
		return err
	}

	views := accessMethodList{}
	for m := range methods {
		views = append(views, newAccessMethodView(m))
	}

	return render(c, views)
}

func apiAdd(c *cli.Context, sel service.AddSelection) error {
	svc, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := actionContext(c)
	defer cancel()

	id, err := svc.Add(ctx, sel, service.AddOptions{
		Name:     c.String("name"),
		Disabled: c.Bool("disabled"),
	})
	if err != nil {
		return err
	}

	if rt := GetRuntime(c); rt != nil && rt.Format != output.FormatTable {
		return render(c, addedView{ID: id})
	}
	printf(c, "Added access method %s\n", id)
	return nil
}

func apiRemove(c *cli.Context) error {
	return byID(c, "Removed", func(svc *service.AccessMethods, c *cli.Context, id string) error {
		ctx, cancel := actionContext(c)
		defer cancel()
		return svc.Remove(ctx, id)
	})
}

func apiSetEnabled(enabled bool) cli.ActionFunc {
	verb := "Disabled"
	if enabled {
		verb = "Enabled"
	}
	return func(c *cli.Context) error {
		return byID(c, verb, func(svc *service.AccessMethods, c *cli.Context, id string) error {
			ctx, cancel := actionContext(c)
			defer cancel()
			return svc.SetEnabled(ctx, id, enabled)
		})
	}
}

func apiUse(c *cli.Context) error {
	return byID(c, "Using", func(svc *service.AccessMethods, c *cli.Context, id string) error {
		ctx, cancel := actionContext(c)
		defer cancel()
		return svc.Use(ctx, id)
	})
}

// byID runs an ID-addressed action and reports "<verb> access method <id>".
func byID(c *cli.Context, verb string, fn func(*service.AccessMethods, *cli.Context, string) error) error {
	id, err := requireID(c)
	if err != nil {
		return err
	}

	svc, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	if err := fn(svc, c, id); err != nil {
		return err
	}

	printf(c, "%s access method %s\n", verb, id)
	return nil
}

func apiTest(c *cli.Context, sel service.AddSelection) error {
	rt := GetRuntime(c)

	target := c.String("target")
	if target == "" {
		target = rt.Config.Probe.Target
	}

	ctx, cancel := actionContext(c)
	defer cancel()

	prober := service.NewProber(rt.Config.Timeout, rt.Log)

	var spinner *output.Spinner
	if rt.Format == output.FormatTable && output.IsTerminal(stderr(c)) {
		spinner = output.NewSpinner(stderr(c), fmt.Sprintf("Testing %s", target))
		spinner.Start()
	}

	res, err := prober.Test(ctx, sel, target)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	return render(c, newProbeView(res))
}
