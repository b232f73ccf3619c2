package connection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/accessctl/internal/core/domain"
	"github.com/yndnr/accessctl/internal/infra/buildinfo"
	"github.com/yndnr/accessctl/internal/telemetry/logger"
)

// DefaultTimeout bounds a single request to the daemon.
const DefaultTimeout = 30 * time.Second

// HTTPClient provides HTTP communication with the daemon.
type HTTPClient struct {
	endpoint Endpoint
	client   *http.Client
}

// NewHTTPClient creates a new HTTP client for the given endpoint.
func NewHTTPClient(endpoint Endpoint, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	if endpoint.IsUnix() {
		transport.DialContext = unixDialer(endpoint.SocketPath)
	}
	if endpoint.TLS != nil {
		transport.TLSClientConfig = endpoint.TLS
	}

	return &HTTPClient{
		endpoint: endpoint,
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint.BaseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := c.addHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.L(ctx).Debug("daemon request", "method", method, "path", path, "request_id", requestID)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, domain.ErrRemoteUnavailable.WithDetails(c.Address()).WithCause(err)
	}
	return resp, nil
}

// addHeaders sets the common headers and returns the request ID used.
func (c *HTTPClient) addHeaders(req *http.Request) string {
	requestID := logger.RequestIDFromContext(req.Context())
	if requestID == "" {
		requestID = ulid.Make().String()
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	req.Header.Set("X-Request-ID", requestID)
	return requestID
}

// Address returns a printable form of the daemon address.
func (c *HTTPClient) Address() string {
	if c.endpoint.IsUnix() {
		return unixScheme + c.endpoint.SocketPath
	}
	return c.endpoint.BaseURL
}

// Close releases idle connections.
func (c *HTTPClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// ParseResponse parses a JSON response body into the target struct.
//
// Status codes of 400 and above become domain.ErrRemote carrying the
// daemon's message.
func ParseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Message != "" {
			details := errResp.Message
			if errResp.Code != "" {
				details = fmt.Sprintf("%s (%s)", errResp.Message, errResp.Code)
			}
			return domain.ErrRemote.WithDetails(details)
		}
		return domain.ErrRemote.WithDetails(fmt.Sprintf("request failed with status %d", resp.StatusCode))
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return domain.ErrRemote.WithDetails("malformed response").WithCause(err)
		}
	}

	return nil
}
