// Package domain defines the access method data model.
//
// Domain models are pure value objects without any IO dependencies or
// framework coupling. This package contains:
//
//   - AccessMethod: the SOCKS5-local, SOCKS5-remote and Shadowsocks descriptors
//   - Cipher: the closed set of Shadowsocks ciphers agreed with the daemon
//   - ListedAccessMethod: a daemon-owned entry returned by list
//   - Errors: validation and remote error definitions
//
// Descriptors are immutable once constructed and carry their own JSON
// wire form, which is validated again on decode.
package domain
