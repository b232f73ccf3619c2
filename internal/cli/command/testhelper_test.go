package command

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// mockServer is a daemon management interface backed by httptest.
type mockServer struct {
	*httptest.Server
	mux *http.ServeMux

	mu       sync.Mutex
	requests []recordedRequest
}

// recordedRequest is a request seen by the mock daemon.
type recordedRequest struct {
	Method    string
	Path      string
	Body      []byte
	UserAgent string
	RequestID string
}

// newMockServer creates a new mock server. Unhandled paths return 404.
func newMockServer(t *testing.T) *mockServer {
	t.Helper()
	m := &mockServer{mux: http.NewServeMux()}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		m.mu.Lock()
		m.requests = append(m.requests, recordedRequest{
			Method:    r.Method,
			Path:      r.URL.EscapedPath(),
			Body:      body,
			UserAgent: r.UserAgent(),
			RequestID: r.Header.Get("X-Request-ID"),
		})
		m.mu.Unlock()

		m.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(m.Close)
	return m
}

// handle registers a handler for a ServeMux pattern such as
// "GET /v1/access-methods".
func (m *mockServer) handle(pattern string, handler http.HandlerFunc) {
	m.mux.HandleFunc(pattern, handler)
}

// seen returns the recorded requests.
func (m *mockServer) seen() []recordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]recordedRequest(nil), m.requests...)
}

// jsonResponse writes a JSON response.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// errorResponse writes an error response.
func errorResponse(w http.ResponseWriter, status int, code, message string) {
	jsonResponse(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}

// runResult is the outcome of one CLI invocation.
type runResult struct {
	Stdout string
	Stderr string
	Err    error
}

// runApp runs accessctl with args. HOME points at an empty directory so no
// user config file is picked up.
func runApp(t *testing.T, args ...string) runResult {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	app := App()
	app.Writer = &stdout
	app.ErrWriter = &stderr

	err := app.Run(append([]string{"accessctl"}, args...))
	return runResult{Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
}

// runAgainst runs accessctl against the mock daemon.
func runAgainst(t *testing.T, server *mockServer, args ...string) runResult {
	t.Helper()
	return runApp(t, append([]string{"--daemon", server.URL}, args...)...)
}

// Sample wire descriptors.

const (
	sampleSocks5Local  = `{"type":"socks5-local","local_port":1080,"remote_ip":"10.0.0.1","remote_port":443}`
	sampleSocks5Remote = `{"type":"socks5-remote","remote_ip":"203.0.113.5","remote_port":1080,"authentication":{"username":"u","password":"p"}}`
	sampleShadowsocks  = `{"type":"shadowsocks","remote_ip":"203.0.113.5","remote_port":443,"password":"mullvad","cipher":"aes-256-gcm"}`
	sampleDirect       = `{"type":"direct"}`
)

func sampleListing() map[string]any {
	entry := func(id, name string, enabled bool, method string) map[string]any {
		return map[string]any{
			"id":            id,
			"name":          name,
			"enabled":       enabled,
			"access_method": json.RawMessage(method),
		}
	}
	return map[string]any{
		"access_methods": []map[string]any{
			entry("d1", "Direct", true, sampleDirect),
			entry("a1", "office", true, sampleSocks5Local),
			entry("a2", "", false, sampleSocks5Remote),
			entry("a3", "ss", true, sampleShadowsocks),
		},
	}
}
