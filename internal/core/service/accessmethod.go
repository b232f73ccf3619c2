package service

import (
	"context"
	"fmt"
	"iter"
	"net/netip"

	"github.com/yndnr/accessctl/internal/core/domain"
	"github.com/yndnr/accessctl/internal/telemetry/logger"
)

// ManagementClient is one open connection to the daemon's management interface.
type ManagementClient interface {
	// ListAccessMethods returns every access method the daemon knows about.
	ListAccessMethods(ctx context.Context) ([]domain.ListedAccessMethod, error)

	// AddAccessMethod registers a new access method and returns its ID.
	AddAccessMethod(ctx context.Context, setting domain.AccessMethodSetting) (string, error)

	// RemoveAccessMethod deletes an access method by ID.
	RemoveAccessMethod(ctx context.Context, id string) error

	// SetAccessMethodEnabled toggles whether the daemon may use a method.
	SetAccessMethodEnabled(ctx context.Context, id string, enabled bool) error

	// UseAccessMethod makes the daemon switch to the given method now.
	UseAccessMethod(ctx context.Context, id string) error

	Close() error
}

// Connector opens a management connection.
//
// AccessMethods calls it once per operation, immediately before the remote
// call, and closes the returned client on every exit path.
type Connector func(ctx context.Context) (ManagementClient, error)

// ============================================================================
// Add Selection
// ============================================================================

// AddSelection is a leaf of the "add" command tree together with its raw
// field values. Build validates the fields into a descriptor.
//
// Implementations: AddSocks5Local, AddSocks5Remote, AddShadowsocks.
type AddSelection interface {
	Build() (domain.AccessMethod, error)

	isAddSelection()
}

// AddSocks5Local selects "add socks5 local".
type AddSocks5Local struct {
	LocalPort  uint16
	RemoteIP   netip.Addr
	RemotePort uint16
}

// AddSocks5Remote selects "add socks5 remote".
type AddSocks5Remote struct {
	RemoteIP   netip.Addr
	RemotePort uint16
	Username   *string
	Password   *string
}

// AddShadowsocks selects "add shadowsocks".
type AddShadowsocks struct {
	RemoteIP   netip.Addr
	RemotePort *uint16
	Password   *string
	Cipher     *string
}

func (AddSocks5Local) isAddSelection()  {}
func (AddSocks5Remote) isAddSelection() {}
func (AddShadowsocks) isAddSelection()  {}

// Build implements AddSelection.
func (s AddSocks5Local) Build() (domain.AccessMethod, error) {
	return BuildSocks5Local(s.LocalPort, s.RemoteIP, s.RemotePort), nil
}

// Build implements AddSelection.
func (s AddSocks5Remote) Build() (domain.AccessMethod, error) {
	m, err := BuildSocks5Remote(s.RemoteIP, s.RemotePort, s.Username, s.Password)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Build implements AddSelection.
func (s AddShadowsocks) Build() (domain.AccessMethod, error) {
	m, err := BuildShadowsocks(s.RemoteIP, s.RemotePort, s.Password, s.Cipher)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// AddOptions carries the registration attributes that are not part of the
// descriptor itself.
type AddOptions struct {
	Name     string
	Disabled bool
}

// ============================================================================
// AccessMethods Service
// ============================================================================

// AccessMethods runs access method commands against the daemon.
//
// Each operation issues at most one remote call and never retries.
type AccessMethods struct {
	connect Connector
	log     logger.Logger
}

// NewAccessMethods creates a new AccessMethods service.
func NewAccessMethods(connect Connector, log logger.Logger) *AccessMethods {
	if log == nil {
		log = logger.Default()
	}
	return &AccessMethods{
		connect: connect,
		log:     log,
	}
}

// List fetches all access methods from the daemon.
//
// The returned sequence can be ranged over once; later ranges yield nothing.
// An empty result is not an error.
func (s *AccessMethods) List(ctx context.Context) (iter.Seq[domain.ListedAccessMethod], error) {
	var entries []domain.ListedAccessMethod
	err := s.withClient(ctx, func(c ManagementClient) error {
		var err error
		entries, err = c.ListAccessMethods(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("listed access methods", "count", len(entries))
	return consumeOnce(entries), nil
}

// Add validates the selection and registers the resulting descriptor.
//
// On validation failure the daemon is never contacted. The returned ID is
// the one assigned by the daemon.
func (s *AccessMethods) Add(ctx context.Context, sel AddSelection, opts AddOptions) (string, error) {
	// 1. Build locally; validation failures are terminal
	method, err := sel.Build()
	if err != nil {
		return "", err
	}

	setting := domain.AccessMethodSetting{
		Name:    opts.Name,
		Enabled: !opts.Disabled,
		Method:  method,
	}
	s.log.Debug("adding access method", "method", method, "name", opts.Name)

	// 2. Single remote write
	var id string
	err = s.withClient(ctx, func(c ManagementClient) error {
		var err error
		id, err = c.AddAccessMethod(ctx, setting)
		return err
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Remove deletes an access method.
func (s *AccessMethods) Remove(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrMissingArgument.WithDetails("access method id is required")
	}
	return s.withClient(ctx, func(c ManagementClient) error {
		return c.RemoveAccessMethod(ctx, id)
	})
}

// SetEnabled enables or disables an access method.
func (s *AccessMethods) SetEnabled(ctx context.Context, id string, enabled bool) error {
	if id == "" {
		return domain.ErrMissingArgument.WithDetails("access method id is required")
	}
	return s.withClient(ctx, func(c ManagementClient) error {
		return c.SetAccessMethodEnabled(ctx, id, enabled)
	})
}

// Use asks the daemon to switch to an access method immediately.
func (s *AccessMethods) Use(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrMissingArgument.WithDetails("access method id is required")
	}
	return s.withClient(ctx, func(c ManagementClient) error {
		return c.UseAccessMethod(ctx, id)
	})
}

// withClient opens a connection, runs fn, and closes the connection.
func (s *AccessMethods) withClient(ctx context.Context, fn func(ManagementClient) error) error {
	client, err := s.connect(ctx)
	if err != nil {
		return fmt.Errorf("connect to daemon: %w", err)
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			s.log.Warn("close management connection", "error", cerr)
		}
	}()

	return fn(client)
}

func consumeOnce[T any](items []T) iter.Seq[T] {
	consumed := false
	return func(yield func(T) bool) {
		if consumed {
			return
		}
		consumed = true
		for _, item := range items {
			if !yield(item) {
				return
			}
		}
	}
}
