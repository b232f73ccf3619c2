package domain

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/netip"
)

// MethodType is the wire tag of an access method.
type MethodType string

// Access method types.
//
// Direct and Bridges are built into the daemon and only ever appear in
// list output; they cannot be constructed by this package.
const (
	MethodDirect       MethodType = "direct"
	MethodBridges      MethodType = "bridges"
	MethodSocks5Local  MethodType = "socks5-local"
	MethodSocks5Remote MethodType = "socks5-remote"
	MethodShadowsocks  MethodType = "shadowsocks"
)

// Shadowsocks defaults applied when an add command leaves a field out.
const (
	DefaultShadowsocksPort     uint16 = 443
	DefaultShadowsocksPassword        = "mullvad"
)

// AccessMethod is a validated, immutable proxy descriptor.
//
// The set of implementations is closed: Socks5Local, Socks5Remote and
// Shadowsocks.
type AccessMethod interface {
	// Type returns the wire tag.
	Type() MethodType
	// Endpoint returns the remote address the daemon will connect to.
	Endpoint() netip.AddrPort

	isAccessMethod()
}

// Credentials authenticate against a remote SOCKS5 proxy.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// String hides the password.
func (c Credentials) String() string {
	return c.Username + ":***"
}

// Socks5Local is a SOCKS5 server listening on localhost that forwards to a
// remote peer. The daemon needs the peer address to open its firewall.
type Socks5Local struct {
	LocalPort  uint16
	RemoteIP   netip.Addr
	RemotePort uint16
}

// Socks5Remote is a SOCKS5 server reachable over the network.
type Socks5Remote struct {
	RemoteIP    netip.Addr
	RemotePort  uint16
	Credentials *Credentials // nil when the proxy needs no authentication
}

// Shadowsocks is the bundled Shadowsocks proxy.
type Shadowsocks struct {
	RemoteIP   netip.Addr
	RemotePort uint16
	Password   string
	Cipher     Cipher
}

func (Socks5Local) isAccessMethod()  {}
func (Socks5Remote) isAccessMethod() {}
func (Shadowsocks) isAccessMethod()  {}

// Type implements AccessMethod.
func (Socks5Local) Type() MethodType { return MethodSocks5Local }

// Type implements AccessMethod.
func (Socks5Remote) Type() MethodType { return MethodSocks5Remote }

// Type implements AccessMethod.
func (Shadowsocks) Type() MethodType { return MethodShadowsocks }

// Endpoint implements AccessMethod.
func (m Socks5Local) Endpoint() netip.AddrPort {
	return netip.AddrPortFrom(m.RemoteIP, m.RemotePort)
}

// Endpoint implements AccessMethod.
func (m Socks5Remote) Endpoint() netip.AddrPort {
	return netip.AddrPortFrom(m.RemoteIP, m.RemotePort)
}

// Endpoint implements AccessMethod.
func (m Shadowsocks) Endpoint() netip.AddrPort {
	return netip.AddrPortFrom(m.RemoteIP, m.RemotePort)
}

// ProxyAddr returns the local SOCKS5 listener address.
func (m Socks5Local) ProxyAddr() netip.AddrPort {
	return netip.AddrPortFrom(netip.AddrFrom4([4]byte{127, 0, 0, 1}), m.LocalPort)
}

func (m Socks5Local) String() string {
	return fmt.Sprintf("localhost:%d => %s", m.LocalPort, m.Endpoint())
}

func (m Socks5Remote) String() string {
	if m.Credentials != nil {
		return fmt.Sprintf("%s@%s", m.Credentials.Username, m.Endpoint())
	}
	return m.Endpoint().String()
}

func (m Shadowsocks) String() string {
	return fmt.Sprintf("%s using %s", m.Endpoint(), m.Cipher)
}

// LogValue implements slog.LogValuer. The password key is masked by the
// logger's redaction hook.
func (m Shadowsocks) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("type", string(MethodShadowsocks)),
		slog.String("endpoint", m.Endpoint().String()),
		slog.String("cipher", string(m.Cipher)),
		slog.String("password", m.Password),
	)
}

// LogValue implements slog.LogValuer.
func (m Socks5Remote) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("type", string(MethodSocks5Remote)),
		slog.String("endpoint", m.Endpoint().String()),
	}
	if m.Credentials != nil {
		attrs = append(attrs,
			slog.String("username", m.Credentials.Username),
			slog.String("password", m.Credentials.Password),
		)
	}
	return slog.GroupValue(attrs...)
}

// Wire forms, one per type so zero ports and empty passwords are kept.
type wireSocks5Local struct {
	Type       MethodType `json:"type"`
	LocalPort  uint16     `json:"local_port"`
	RemoteIP   netip.Addr `json:"remote_ip"`
	RemotePort uint16     `json:"remote_port"`
}

type wireSocks5Remote struct {
	Type           MethodType   `json:"type"`
	RemoteIP       netip.Addr   `json:"remote_ip"`
	RemotePort     uint16       `json:"remote_port"`
	Authentication *Credentials `json:"authentication,omitempty"`
}

type wireShadowsocks struct {
	Type       MethodType `json:"type"`
	RemoteIP   netip.Addr `json:"remote_ip"`
	RemotePort uint16     `json:"remote_port"`
	Password   string     `json:"password"`
	Cipher     Cipher     `json:"cipher"`
}

// wireAuth tells an absent credential field from an empty one.
type wireAuth struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// wireAny is the union of all wire forms, used for decoding.
type wireAny struct {
	Type           MethodType `json:"type"`
	LocalPort      uint16     `json:"local_port"`
	RemoteIP       netip.Addr `json:"remote_ip"`
	RemotePort     uint16     `json:"remote_port"`
	Authentication *wireAuth  `json:"authentication"`
	Password       string     `json:"password"`
	Cipher         Cipher     `json:"cipher"`
}

// MarshalJSON implements json.Marshaler.
func (m Socks5Local) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireSocks5Local{
		Type:       MethodSocks5Local,
		LocalPort:  m.LocalPort,
		RemoteIP:   m.RemoteIP,
		RemotePort: m.RemotePort,
	})
}

// MarshalJSON implements json.Marshaler.
func (m Socks5Remote) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireSocks5Remote{
		Type:           MethodSocks5Remote,
		RemoteIP:       m.RemoteIP,
		RemotePort:     m.RemotePort,
		Authentication: m.Credentials,
	})
}

// MarshalJSON implements json.Marshaler.
func (m Shadowsocks) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireShadowsocks{
		Type:       MethodShadowsocks,
		RemoteIP:   m.RemoteIP,
		RemotePort: m.RemotePort,
		Password:   m.Password,
		Cipher:     m.Cipher,
	})
}

// MarshalYAML renders the same fields as the JSON form.
func (m Socks5Local) MarshalYAML() (any, error) { return wireForYAML(m) }

// MarshalYAML renders the same fields as the JSON form.
func (m Socks5Remote) MarshalYAML() (any, error) { return wireForYAML(m) }

// MarshalYAML renders the same fields as the JSON form.
func (m Shadowsocks) MarshalYAML() (any, error) { return wireForYAML(m) }

func wireForYAML(m json.Marshaler) (any, error) {
	data, err := m.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PeekType returns the type tag of a wire descriptor without validating it.
func PeekType(data []byte) (MethodType, error) {
	var head struct {
		Type MethodType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", fmt.Errorf("decode access method: %w", err)
	}
	return head.Type, nil
}

// DecodeAccessMethod parses and validates a wire descriptor.
//
// Descriptors that could not have been built by this package are
// rejected: unknown type tags, missing addresses, a username without a
// password or the reverse, unsupported ciphers.
func DecodeAccessMethod(data []byte) (AccessMethod, error) {
	var w wireAny
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode access method: %w", err)
	}

	switch w.Type {
	case MethodSocks5Local, MethodSocks5Remote, MethodShadowsocks:
		if !w.RemoteIP.IsValid() {
			return nil, ErrInvalidAddress.WithDetails("remote_ip missing")
		}
	default:
		return nil, ErrUnknownMethodType.WithDetails(string(w.Type))
	}

	switch w.Type {
	case MethodSocks5Local:
		return Socks5Local{
			LocalPort:  w.LocalPort,
			RemoteIP:   w.RemoteIP,
			RemotePort: w.RemotePort,
		}, nil
	case MethodSocks5Remote:
		creds, err := w.Authentication.credentials()
		if err != nil {
			return nil, err
		}
		return Socks5Remote{
			RemoteIP:    w.RemoteIP,
			RemotePort:  w.RemotePort,
			Credentials: creds,
		}, nil
	default:
		if !w.Cipher.Supported() {
			return nil, ErrUnsupportedCipher.WithDetails(string(w.Cipher))
		}
		return Shadowsocks{
			RemoteIP:   w.RemoteIP,
			RemotePort: w.RemotePort,
			Password:   w.Password,
			Cipher:     w.Cipher,
		}, nil
	}
}

// credentials applies the username/password pairing rule. A nil or empty
// authentication object means no credentials.
func (a *wireAuth) credentials() (*Credentials, error) {
	if a == nil || (a.Username == nil && a.Password == nil) {
		return nil, nil
	}
	if a.Username == nil || a.Password == nil {
		return nil, ErrIncompleteCredentials
	}
	return &Credentials{Username: *a.Username, Password: *a.Password}, nil
}
