package domain

import "slices"

// Cipher is the name of a symmetric cipher used by the bundled Shadowsocks proxy.
type Cipher string

// DefaultCipher is used when an add command does not name a cipher.
const DefaultCipher Cipher = "aes-256-gcm"

// ShadowsocksCiphers is the closed set of ciphers the daemon accepts.
// The order matches the daemon's own listing and is used for help output.
var ShadowsocksCiphers = []Cipher{
	// Stream ciphers.
	"aes-128-cfb",
	"aes-128-cfb1",
	"aes-128-cfb8",
	"aes-128-cfb128",
	"aes-256-cfb",
	"aes-256-cfb1",
	"aes-256-cfb8",
	"aes-256-cfb128",
	"rc4",
	"rc4-md5",
	"chacha20",
	"salsa20",
	"chacha20-ietf",
	// AEAD ciphers.
	"aes-128-gcm",
	"aes-256-gcm",
	"chacha20-ietf-poly1305",
	"xchacha20-ietf-poly1305",
	"aes-128-pmac-siv",
	"aes-256-pmac-siv",
}

// ParseCipher returns the Cipher named by s, or ErrUnsupportedCipher.
// Matching is exact; the daemon does not normalise case.
func ParseCipher(s string) (Cipher, error) {
	c := Cipher(s)
	if !c.Supported() {
		return "", ErrUnsupportedCipher.WithDetails(s)
	}
	return c, nil
}

// Supported reports whether c belongs to ShadowsocksCiphers.
func (c Cipher) Supported() bool {
	return slices.Contains(ShadowsocksCiphers, c)
}

// String returns the cipher name.
func (c Cipher) String() string {
	return string(c)
}

// CipherNames returns the supported cipher names for help output.
func CipherNames() []string {
	names := make([]string, len(ShadowsocksCiphers))
	for i, c := range ShadowsocksCiphers {
		names[i] = string(c)
	}
	return names
}
