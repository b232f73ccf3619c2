package domain

import (
	"encoding/json"
	"fmt"
)

// ListedAccessMethod is an access method entry owned by the daemon.
//
// The daemon assigns ID and ordering. Method is kept in its wire form;
// it may describe types this package cannot build (direct, bridges).
type ListedAccessMethod struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Enabled bool            `json:"enabled"`
	Method  json.RawMessage `json:"access_method"`
}

// Type returns the entry's type tag, or "unknown" if the method is unreadable.
func (l ListedAccessMethod) Type() MethodType {
	t, err := PeekType(l.Method)
	if err != nil || t == "" {
		return "unknown"
	}
	return t
}

// Decode returns the entry's descriptor when it is one of the buildable types.
func (l ListedAccessMethod) Decode() (AccessMethod, bool) {
	m, err := DecodeAccessMethod(l.Method)
	if err != nil {
		return nil, false
	}
	return m, true
}

// Summary returns a one-line description of where the method connects.
func (l ListedAccessMethod) Summary() string {
	m, ok := l.Decode()
	if !ok {
		return "-"
	}
	return fmt.Sprint(m)
}

// AccessMethodSetting is the registration envelope sent to the daemon.
type AccessMethodSetting struct {
	Name    string       `json:"name,omitempty"`
	Enabled bool         `json:"enabled"`
	Method  AccessMethod `json:"access_method"`
}
