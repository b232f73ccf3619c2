package connection

import (
	"context"
	"net/url"

	"github.com/yndnr/accessctl/internal/core/domain"
	"github.com/yndnr/accessctl/internal/core/service"
)

const accessMethodsPath = "/v1/access-methods"

// ManagementClient implements service.ManagementClient over HTTP.
type ManagementClient struct {
	http *HTTPClient
}

var _ service.ManagementClient = (*ManagementClient)(nil)

// NewManagementClient wraps an HTTP client.
func NewManagementClient(c *HTTPClient) *ManagementClient {
	return &ManagementClient{http: c}
}

type listResponse struct {
	AccessMethods []domain.ListedAccessMethod `json:"access_methods"`
}

type addResponse struct {
	ID string `json:"id"`
}

type statusRequest struct {
	Enabled bool `json:"enabled"`
}

// ListAccessMethods fetches every configured access method.
func (m *ManagementClient) ListAccessMethods(ctx context.Context) ([]domain.ListedAccessMethod, error) {
	resp, err := m.http.Get(ctx, accessMethodsPath)
	if err != nil {
		return nil, err
	}

	var out listResponse
	if err := ParseResponse(resp, &out); err != nil {
		return nil, err
	}
	return out.AccessMethods, nil
}

// AddAccessMethod submits a new access method and returns the daemon-assigned ID.
func (m *ManagementClient) AddAccessMethod(ctx context.Context, setting domain.AccessMethodSetting) (string, error) {
	resp, err := m.http.Post(ctx, accessMethodsPath, setting)
	if err != nil {
		return "", err
	}

	var out addResponse
	if err := ParseResponse(resp, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// RemoveAccessMethod deletes the access method with the given ID.
func (m *ManagementClient) RemoveAccessMethod(ctx context.Context, id string) error {
	return m.post(ctx, methodPath(id, "remove"), nil)
}

// SetAccessMethodEnabled toggles the enabled flag.
func (m *ManagementClient) SetAccessMethodEnabled(ctx context.Context, id string, enabled bool) error {
	return m.post(ctx, methodPath(id, "status"), statusRequest{Enabled: enabled})
}

// UseAccessMethod makes the daemon switch to the given access method.
func (m *ManagementClient) UseAccessMethod(ctx context.Context, id string) error {
	return m.post(ctx, methodPath(id, "use"), nil)
}

// Close releases the underlying connection.
func (m *ManagementClient) Close() error {
	return m.http.Close()
}

func (m *ManagementClient) post(ctx context.Context, path string, body any) error {
	resp, err := m.http.Post(ctx, path, body)
	if err != nil {
		return err
	}
	return ParseResponse(resp, nil)
}

func methodPath(id, action string) string {
	return accessMethodsPath + "/" + url.PathEscape(id) + "/" + action
}
