package command

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/accessctl/internal/core/domain"
	"github.com/yndnr/accessctl/internal/core/service"
)

// positional wraps cli.Args with named, typed accessors.
type positional struct {
	args  cli.Args
	names []string
}

// newPositional checks the argument count against the names of the
// required and optional arguments.
func newPositional(c *cli.Context, required []string, optional ...string) (*positional, error) {
	names := append(append([]string{}, required...), optional...)
	if err := checkMisplacedFlags(c); err != nil {
		return nil, err
	}
	n := c.NArg()
	if n < len(required) {
		return nil, domain.ErrMissingArgument.WithDetails(required[n])
	}
	if n > len(names) {
		return nil, fmt.Errorf("unexpected argument %q", c.Args().Get(len(names)))
	}
	return &positional{args: c.Args(), names: names}, nil
}

// checkMisplacedFlags rejects command flags written after the first
// positional argument, where urfave/cli no longer parses them.
func checkMisplacedFlags(c *cli.Context) error {
	if c.Command == nil {
		return nil
	}
	for _, arg := range c.Args().Slice() {
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name, _, _ := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		for _, f := range c.Command.Flags {
			for _, n := range f.Names() {
				if n == name {
					return fmt.Errorf("flag %q must come before the arguments: %s %s [options] %s",
						arg, c.App.Name, c.Command.FullName(), c.Command.ArgsUsage)
				}
			}
		}
	}
	return nil
}

func (p *positional) has(i int) bool {
	return i < p.args.Len()
}

func (p *positional) str(i int) string {
	return p.args.Get(i)
}

// optStr returns nil when argument i was not given.
func (p *positional) optStr(i int) *string {
	if !p.has(i) {
		return nil
	}
	s := p.args.Get(i)
	return &s
}

func (p *positional) port(i int) (uint16, error) {
	return parsePort(p.names[i], p.args.Get(i))
}

func (p *positional) optPort(i int) (*uint16, error) {
	if !p.has(i) {
		return nil, nil
	}
	port, err := p.port(i)
	if err != nil {
		return nil, err
	}
	return &port, nil
}

func (p *positional) ip(i int) (netip.Addr, error) {
	return parseIP(p.names[i], p.args.Get(i))
}

// parsePort parses a decimal 16-bit port.
func parsePort(name, s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, domain.ErrInvalidPort.WithDetails(fmt.Sprintf("%s %q", name, s)).WithCause(err)
	}
	return uint16(v), nil
}

// parseIP parses an IPv4 or IPv6 address. Hostnames are not accepted.
func parseIP(name, s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, domain.ErrInvalidAddress.WithDetails(fmt.Sprintf("%s %q", name, s)).WithCause(err)
	}
	return addr, nil
}

// socks5LocalSelection parses LOCAL_PORT REMOTE_IP REMOTE_PORT.
func socks5LocalSelection(c *cli.Context) (service.AddSelection, error) {
	p, err := newPositional(c, []string{"LOCAL_PORT", "REMOTE_IP", "REMOTE_PORT"})
	if err != nil {
		return nil, err
	}

	localPort, err := p.port(0)
	if err != nil {
		return nil, err
	}
	remoteIP, err := p.ip(1)
	if err != nil {
		return nil, err
	}
	remotePort, err := p.port(2)
	if err != nil {
		return nil, err
	}

	return service.AddSocks5Local{LocalPort: localPort, RemoteIP: remoteIP, RemotePort: remotePort}, nil
}

// socks5RemoteSelection parses REMOTE_IP REMOTE_PORT [USERNAME PASSWORD].
func socks5RemoteSelection(c *cli.Context) (service.AddSelection, error) {
	p, err := newPositional(c, []string{"REMOTE_IP", "REMOTE_PORT"}, "USERNAME", "PASSWORD")
	if err != nil {
		return nil, err
	}

	remoteIP, err := p.ip(0)
	if err != nil {
		return nil, err
	}
	remotePort, err := p.port(1)
	if err != nil {
		return nil, err
	}

	username, password := p.optStr(2), p.optStr(3)
	if (username == nil) != (password == nil) {
		return nil, domain.ErrIncompleteCredentials.WithDetails("PASSWORD is required with USERNAME")
	}

	return service.AddSocks5Remote{
		RemoteIP:   remoteIP,
		RemotePort: remotePort,
		Username:   username,
		Password:   password,
	}, nil
}

// shadowsocksSelection parses REMOTE_IP [REMOTE_PORT [PASSWORD [CIPHER]]].
// Missing trailing values take the Shadowsocks defaults.
func shadowsocksSelection(c *cli.Context) (service.AddSelection, error) {
	p, err := newPositional(c, []string{"REMOTE_IP"}, "REMOTE_PORT", "PASSWORD", "CIPHER")
	if err != nil {
		return nil, err
	}

	remoteIP, err := p.ip(0)
	if err != nil {
		return nil, err
	}
	remotePort, err := p.optPort(1)
	if err != nil {
		return nil, err
	}

	return service.AddShadowsocks{
		RemoteIP:   remoteIP,
		RemotePort: remotePort,
		Password:   p.optStr(2),
		Cipher:     p.optStr(3),
	}, nil
}

// requireID returns the single ID argument.
func requireID(c *cli.Context) (string, error) {
	p, err := newPositional(c, []string{"ID"})
	if err != nil {
		return "", err
	}
	return p.str(0), nil
}
