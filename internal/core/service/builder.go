// Package service provides the access method operations.
//
// The builder functions in this file turn raw, already-typed field values
// into validated descriptors. They are pure: no network, no I/O.
package service

import (
	"net/netip"

	"github.com/yndnr/accessctl/internal/core/domain"
)

// BuildSocks5Local builds a local SOCKS5 descriptor. It cannot fail.
func BuildSocks5Local(localPort uint16, remoteIP netip.Addr, remotePort uint16) domain.Socks5Local {
	return domain.Socks5Local{
		LocalPort:  localPort,
		RemoteIP:   remoteIP,
		RemotePort: remotePort,
	}
}

// BuildSocks5Remote builds a remote SOCKS5 descriptor.
//
// username and password are jointly optional: both nil means no
// authentication, exactly one nil fails with ErrIncompleteCredentials.
func BuildSocks5Remote(remoteIP netip.Addr, remotePort uint16, username, password *string) (domain.Socks5Remote, error) {
	if (username == nil) != (password == nil) {
		return domain.Socks5Remote{}, domain.ErrIncompleteCredentials
	}

	m := domain.Socks5Remote{
		RemoteIP:   remoteIP,
		RemotePort: remotePort,
	}
	if username != nil {
		m.Credentials = &domain.Credentials{
			Username: *username,
			Password: *password,
		}
	}
	return m, nil
}

// BuildShadowsocks builds a Shadowsocks descriptor.
//
// Absent fields take the defaults: port 443, password "mullvad", cipher
// "aes-256-gcm". The resolved cipher must be in domain.ShadowsocksCiphers.
func BuildShadowsocks(remoteIP netip.Addr, remotePort *uint16, password, cipher *string) (domain.Shadowsocks, error) {
	port := domain.DefaultShadowsocksPort
	if remotePort != nil {
		port = *remotePort
	}

	pass := domain.DefaultShadowsocksPassword
	if password != nil {
		pass = *password
	}

	c := domain.DefaultCipher
	if cipher != nil {
		parsed, err := domain.ParseCipher(*cipher)
		if err != nil {
			return domain.Shadowsocks{}, err
		}
		c = parsed
	}

	return domain.Shadowsocks{
		RemoteIP:   remoteIP,
		RemotePort: port,
		Password:   pass,
		Cipher:     c,
	}, nil
}
