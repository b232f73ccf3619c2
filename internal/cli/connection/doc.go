// Package connection provides the daemon management client for accessctl.
//
//   - socket.go: daemon address parsing and Unix socket dialing
//   - http.go: HTTP transport, common headers and response decoding
//   - management.go: the access method management calls
//   - manager.go: per-invocation connection state and TLS trust
//
// The daemon is reached over HTTP/JSON, either on a TCP address or on a
// Unix socket given as unix:///path/to/socket.
package connection
