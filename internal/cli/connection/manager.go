package connection

import (
	"context"
	"fmt"
	"time"

	"github.com/yndnr/accessctl/internal/core/domain"
	"github.com/yndnr/accessctl/internal/core/service"
	"github.com/yndnr/accessctl/internal/infra/tlsroots"
)

// Manager holds the daemon connection settings for one CLI invocation.
type Manager struct {
	current *Connection
}

// Connection describes how to reach the daemon.
type Connection struct {
	Daemon  string
	Timeout time.Duration
	// CAFile is a PEM bundle trusted in addition to the system roots
	// for https daemon addresses.
	CAFile string

	endpoint Endpoint
}

// NewManager creates a new connection manager.
func NewManager() *Manager {
	return &Manager{}
}

// Connect validates the daemon address and makes conn current.
// No network traffic happens until a client is requested.
func (m *Manager) Connect(conn *Connection) error {
	ep, err := ParseEndpoint(conn.Daemon)
	if err != nil {
		return err
	}
	if ep.IsTLS() && conn.CAFile != "" {
		tlsConfig, err := tlsroots.ClientConfig(conn.CAFile)
		if err != nil {
			return fmt.Errorf("load daemon CA: %w", err)
		}
		ep.TLS = tlsConfig
	}
	conn.endpoint = ep
	m.current = conn
	return nil
}

// IsConnected returns true if a daemon address has been set.
func (m *Manager) IsConnected() bool {
	return m.current != nil
}

// Client opens a management client for the current connection.
func (m *Manager) Client(ctx context.Context) (service.ManagementClient, error) {
	if m.current == nil {
		return nil, domain.ErrRemoteUnavailable.WithDetails("no daemon address configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, domain.ErrRemoteUnavailable.WithCause(err)
	}
	return NewManagementClient(NewHTTPClient(m.current.endpoint, m.current.Timeout)), nil
}

// Connector returns m.Client as a service.Connector.
func (m *Manager) Connector() service.Connector {
	return m.Client
}
