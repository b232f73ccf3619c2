package connection

import (
	"context"
	"crypto/tls"
	"net"
	"net/url"
	"strings"

	"github.com/yndnr/accessctl/internal/core/domain"
)

const unixScheme = "unix://"

// unixBaseURL is the placeholder host used for requests sent over a Unix socket.
const unixBaseURL = "http://unix"

// Endpoint is a parsed daemon management address.
type Endpoint struct {
	// BaseURL is the HTTP base URL requests are sent to.
	BaseURL string
	// SocketPath is set when the daemon listens on a Unix socket.
	SocketPath string
	// TLS overrides the client TLS config for https endpoints.
	TLS *tls.Config
}

// IsTLS reports whether requests go over HTTPS.
func (e Endpoint) IsTLS() bool {
	return strings.HasPrefix(e.BaseURL, "https://")
}

// IsUnix reports whether the endpoint is a Unix socket.
func (e Endpoint) IsUnix() bool {
	return e.SocketPath != ""
}

// ParseEndpoint parses a daemon address.
//
// Accepted forms are unix:///path/to/socket, http(s)://host:port and a bare
// host:port, which is treated as plain HTTP.
func ParseEndpoint(daemon string) (Endpoint, error) {
	daemon = strings.TrimSpace(daemon)
	if daemon == "" {
		return Endpoint{}, domain.ErrMissingArgument.WithDetails("daemon address")
	}

	if strings.HasPrefix(daemon, unixScheme) {
		path := strings.TrimPrefix(daemon, unixScheme)
		if path == "" || !strings.HasPrefix(path, "/") {
			return Endpoint{}, domain.ErrInvalidAddress.WithDetails(daemon)
		}
		return Endpoint{BaseURL: unixBaseURL, SocketPath: path}, nil
	}

	baseURL := daemon
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return Endpoint{}, domain.ErrInvalidAddress.WithDetails(daemon)
	}
	return Endpoint{BaseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// unixDialer returns a DialContext func that ignores the requested address
// and always connects to the socket at path.
func unixDialer(path string) func(ctx context.Context, network, addr string) (net.Conn, error) {
	var d net.Dialer
	return func(ctx context.Context, _, _ string) (net.Conn, error) {
		return d.DialContext(ctx, "unix", path)
	}
}
