package confloader

import (
	"errors"
	"strings"

	"github.com/knadh/koanf/maps"
)

// ErrReadBytesNotSupported is returned when ReadBytes is called on a map provider.
var ErrReadBytesNotSupported = errors.New("confloader: ReadBytes not supported by map provider, use Read() instead")

// mapProvider loads configuration from a map. Keys containing dots are
// expanded into nested maps so they merge with file and env values.
type mapProvider map[string]any

// ReadBytes returns an error as map provider doesn't support byte serialization.
func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, ErrReadBytesNotSupported
}

// Read returns the configuration map.
func (m mapProvider) Read() (map[string]any, error) {
	flat := make(map[string]any, len(m))
	dotted := false
	for k, v := range m {
		flat[k] = v
		if strings.Contains(k, ".") {
			dotted = true
		}
	}
	if !dotted {
		return flat, nil
	}
	return maps.Unflatten(flat, "."), nil
}
