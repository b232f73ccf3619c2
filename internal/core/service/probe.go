package service

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/shadowsocks/go-shadowsocks2/core"
	"github.com/shadowsocks/go-shadowsocks2/socks"
	"golang.org/x/net/proxy"

	"github.com/yndnr/accessctl/internal/core/domain"
	"github.com/yndnr/accessctl/internal/telemetry/logger"
)

// DefaultProbeTarget is the API endpoint probed when none is configured.
const DefaultProbeTarget = "api.mullvad.net:443"

// ProbeResult describes a successful probe.
type ProbeResult struct {
	Method  domain.AccessMethod `json:"access_method"`
	Target  string              `json:"target"`
	Latency time.Duration       `json:"latency"`
}

// Prober checks that a target is reachable through an access method.
//
// The check is local: it opens a connection the same way the daemon would
// and does not register anything.
type Prober struct {
	dialer *net.Dialer
	log    logger.Logger
}

// NewProber creates a Prober whose direct dials time out after timeout.
func NewProber(timeout time.Duration, log logger.Logger) *Prober {
	if log == nil {
		log = logger.Default()
	}
	return &Prober{
		dialer: &net.Dialer{Timeout: timeout},
		log:    log,
	}
}

// Test builds the selection and probes target through the resulting descriptor.
// Validation failures are returned before any connection is attempted.
func (p *Prober) Test(ctx context.Context, sel AddSelection, target string) (*ProbeResult, error) {
	method, err := sel.Build()
	if err != nil {
		return nil, err
	}
	return p.Probe(ctx, method, target)
}

// Probe opens a connection to target through method and closes it.
func (p *Prober) Probe(ctx context.Context, method domain.AccessMethod, target string) (*ProbeResult, error) {
	if target == "" {
		target = DefaultProbeTarget
	}

	start := time.Now()
	conn, err := p.dial(ctx, method, target)
	if err != nil {
		if domain.IsDomainError(err, "") {
			return nil, err
		}
		return nil, domain.ErrProbeFailed.WithDetails(target).WithCause(err)
	}
	latency := time.Since(start)
	conn.Close()

	p.log.Debug("probe succeeded", "method", method, "target", target, "latency", latency)
	return &ProbeResult{
		Method:  method,
		Target:  target,
		Latency: latency,
	}, nil
}

func (p *Prober) dial(ctx context.Context, method domain.AccessMethod, target string) (net.Conn, error) {
	switch m := method.(type) {
	case domain.Socks5Local:
		return p.dialSocks5(ctx, m.ProxyAddr().String(), nil, target)
	case domain.Socks5Remote:
		var auth *proxy.Auth
		if m.Credentials != nil {
			auth = &proxy.Auth{
				User:     m.Credentials.Username,
				Password: m.Credentials.Password,
			}
		}
		return p.dialSocks5(ctx, m.Endpoint().String(), auth, target)
	case domain.Shadowsocks:
		return p.dialShadowsocks(ctx, m, target)
	default:
		return nil, domain.ErrProbeUnsupported.WithDetails(fmt.Sprintf("%T", method))
	}
}

// dialSocks5 completes a SOCKS5 CONNECT to target; the proxy's reply tells
// us whether the target was reachable.
func (p *Prober) dialSocks5(ctx context.Context, proxyAddr string, auth *proxy.Auth, target string) (net.Conn, error) {
	d, err := proxy.SOCKS5("tcp", proxyAddr, auth, p.dialer)
	if err != nil {
		return nil, err
	}
	cd, ok := d.(proxy.ContextDialer)
	if !ok {
		return d.Dial("tcp", target)
	}
	return cd.DialContext(ctx, "tcp", target)
}

// dialShadowsocks connects to the server and sends the target header.
// Shadowsocks has no handshake reply, so success means the server accepted
// the TCP connection and the encrypted header was written.
func (p *Prober) dialShadowsocks(ctx context.Context, m domain.Shadowsocks, target string) (net.Conn, error) {
	ciph, err := core.PickCipher(string(m.Cipher), nil, m.Password)
	if err != nil {
		// go-shadowsocks2 implements aes-128-gcm, aes-256-gcm and
		// chacha20-ietf-poly1305 only.
		return nil, domain.ErrProbeUnsupported.WithDetails(string(m.Cipher))
	}

	addr := socks.ParseAddr(target)
	if addr == nil {
		return nil, domain.ErrProbeFailed.WithDetails("invalid target " + target)
	}

	raw, err := p.dialer.DialContext(ctx, "tcp", m.Endpoint().String())
	if err != nil {
		return nil, err
	}
	conn := ciph.StreamConn(raw)
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetWriteDeadline(deadline)
	}
	if _, err := conn.Write(addr); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
