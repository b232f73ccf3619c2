package domain

import (
	"encoding/json"
	"errors"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCipher(t *testing.T) {
	for _, c := range ShadowsocksCiphers {
		got, err := ParseCipher(string(c))
		require.NoError(t, err, c)
		assert.Equal(t, c, got)
	}

	for _, name := range []string{"rot13", "", "AES-256-GCM", "aes-256-gcm "} {
		_, err := ParseCipher(name)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrUnsupportedCipher))
		assert.Contains(t, err.Error(), name)
	}
}

func TestDefaultCipherSupported(t *testing.T) {
	assert.True(t, DefaultCipher.Supported())
	assert.Len(t, CipherNames(), len(ShadowsocksCiphers))
}

func TestAccessMethodTypes(t *testing.T) {
	ip := netip.MustParseAddr("10.0.0.1")

	tests := []struct {
		method   AccessMethod
		typ      MethodType
		endpoint string
	}{
		{Socks5Local{LocalPort: 1080, RemoteIP: ip, RemotePort: 443}, MethodSocks5Local, "10.0.0.1:443"},
		{Socks5Remote{RemoteIP: ip, RemotePort: 1080}, MethodSocks5Remote, "10.0.0.1:1080"},
		{Shadowsocks{RemoteIP: ip, RemotePort: 8388, Cipher: DefaultCipher}, MethodShadowsocks, "10.0.0.1:8388"},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.typ, tt.method.Type())
			assert.Equal(t, tt.endpoint, tt.method.Endpoint().String())
		})
	}
}

func TestSocks5Local_ProxyAddr(t *testing.T) {
	m := Socks5Local{LocalPort: 1080, RemoteIP: netip.MustParseAddr("10.0.0.1"), RemotePort: 443}
	assert.Equal(t, "127.0.0.1:1080", m.ProxyAddr().String())
	assert.Equal(t, "localhost:1080 => 10.0.0.1:443", m.String())
}

func TestSocks5Remote_StringHidesPassword(t *testing.T) {
	m := Socks5Remote{
		RemoteIP:    netip.MustParseAddr("203.0.113.5"),
		RemotePort:  1080,
		Credentials: &Credentials{Username: "u", Password: "hunter2"},
	}
	assert.Equal(t, "u@203.0.113.5:1080", m.String())
	assert.NotContains(t, m.Credentials.String(), "hunter2")
}

func TestAccessMethodJSON(t *testing.T) {
	ip := netip.MustParseAddr("203.0.113.5")

	tests := []struct {
		name   string
		method AccessMethod
		want   string
	}{
		{
			name:   "socks5 local",
			method: Socks5Local{LocalPort: 1080, RemoteIP: ip, RemotePort: 443},
			want:   `{"type":"socks5-local","local_port":1080,"remote_ip":"203.0.113.5","remote_port":443}`,
		},
		{
			name:   "socks5 remote without auth",
			method: Socks5Remote{RemoteIP: ip, RemotePort: 1080},
			want:   `{"type":"socks5-remote","remote_ip":"203.0.113.5","remote_port":1080}`,
		},
		{
			name:   "socks5 remote with auth",
			method: Socks5Remote{RemoteIP: ip, RemotePort: 1080, Credentials: &Credentials{Username: "u", Password: "p"}},
			want:   `{"type":"socks5-remote","remote_ip":"203.0.113.5","remote_port":1080,"authentication":{"username":"u","password":"p"}}`,
		},
		{
			name:   "shadowsocks",
			method: Shadowsocks{RemoteIP: ip, RemotePort: 443, Password: "mullvad", Cipher: "aes-256-gcm"},
			want:   `{"type":"shadowsocks","remote_ip":"203.0.113.5","remote_port":443,"password":"mullvad","cipher":"aes-256-gcm"}`,
		},
		{
			name:   "socks5 local on port 0",
			method: Socks5Local{LocalPort: 0, RemoteIP: ip, RemotePort: 0},
			want:   `{"type":"socks5-local","local_port":0,"remote_ip":"203.0.113.5","remote_port":0}`,
		},
		{
			name:   "shadowsocks with empty password",
			method: Shadowsocks{RemoteIP: ip, RemotePort: 8388, Password: "", Cipher: "chacha20-ietf-poly1305"},
			want:   `{"type":"shadowsocks","remote_ip":"203.0.113.5","remote_port":8388,"password":"","cipher":"chacha20-ietf-poly1305"}`,
		},
		{
			name:   "socks5 remote with empty credentials",
			method: Socks5Remote{RemoteIP: ip, RemotePort: 1080, Credentials: &Credentials{}},
			want:   `{"type":"socks5-remote","remote_ip":"203.0.113.5","remote_port":1080,"authentication":{"username":"","password":""}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.method)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))

			decoded, err := DecodeAccessMethod(data)
			require.NoError(t, err)
			assert.Equal(t, tt.method, decoded)
		})
	}
}

func TestDecodeAccessMethod_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"unknown type", `{"type":"wireguard","remote_ip":"10.0.0.1","remote_port":51820}`, ErrUnknownMethodType},
		{"direct is not buildable", `{"type":"direct"}`, ErrUnknownMethodType},
		{"unsupported cipher", `{"type":"shadowsocks","remote_ip":"10.0.0.1","remote_port":443,"password":"x","cipher":"rot13"}`, ErrUnsupportedCipher},
		{"username without password", `{"type":"socks5-remote","remote_ip":"203.0.113.5","remote_port":1080,"authentication":{"username":"u"}}`, ErrIncompleteCredentials},
		{"password without username", `{"type":"socks5-remote","remote_ip":"203.0.113.5","remote_port":1080,"authentication":{"password":"p"}}`, ErrIncompleteCredentials},
		{"shadowsocks without remote_ip", `{"type":"shadowsocks","remote_port":443,"password":"x","cipher":"aes-256-gcm"}`, ErrInvalidAddress},
		{"socks5 local without remote_ip", `{"type":"socks5-local","local_port":1080,"remote_port":443}`, ErrInvalidAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAccessMethod([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	_, err := DecodeAccessMethod([]byte(`not json`))
	assert.Error(t, err)
}

func TestDecodeAccessMethod_EmptyAuthentication(t *testing.T) {
	m, err := DecodeAccessMethod([]byte(`{"type":"socks5-remote","remote_ip":"203.0.113.5","remote_port":1080,"authentication":{}}`))
	require.NoError(t, err)
	assert.Nil(t, m.(Socks5Remote).Credentials)
}

func TestListedAccessMethod(t *testing.T) {
	var entries []ListedAccessMethod
	data := `[
		{"id":"a1","name":"Direct","enabled":true,"access_method":{"type":"direct"}},
		{"id":"b2","name":"office","enabled":false,"access_method":{"type":"socks5-remote","remote_ip":"203.0.113.5","remote_port":1080}},
		{"id":"c3","name":"broken","enabled":true,"access_method":"nope"}
	]`
	require.NoError(t, json.Unmarshal([]byte(data), &entries))
	require.Len(t, entries, 3)

	assert.Equal(t, MethodDirect, entries[0].Type())
	assert.Equal(t, "-", entries[0].Summary())

	assert.Equal(t, MethodSocks5Remote, entries[1].Type())
	assert.Equal(t, "203.0.113.5:1080", entries[1].Summary())
	m, ok := entries[1].Decode()
	require.True(t, ok)
	assert.Equal(t, Socks5Remote{RemoteIP: netip.MustParseAddr("203.0.113.5"), RemotePort: 1080}, m)

	assert.Equal(t, MethodType("unknown"), entries[2].Type())
}

func TestAccessMethodSettingJSON(t *testing.T) {
	setting := AccessMethodSetting{
		Name:    "office",
		Enabled: true,
		Method:  Socks5Local{LocalPort: 1080, RemoteIP: netip.MustParseAddr("10.0.0.1"), RemotePort: 443},
	}
	data, err := json.Marshal(setting)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name":"office",
		"enabled":true,
		"access_method":{"type":"socks5-local","local_port":1080,"remote_ip":"10.0.0.1","remote_port":443}
	}`, string(data))
}
