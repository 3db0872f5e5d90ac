package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avcastro/vaultbox/internal/common"
	"github.com/avcastro/vaultbox/internal/server/models"
)

// Client implements Provider against a GoTrue-style admin REST API using a
// service-role key.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

func NewClient(baseURL, serviceKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// listResponse mirrors the admin listing payload: {"users": [...]}.
type listResponse struct {
	Users []*models.Principal `json:"users"`
}

func (c *Client) ListPrincipals(ctx context.Context) ([]*models.Principal, error) {
	var out listResponse
	if err := c.do(ctx, http.MethodGet, "/admin/users", nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (c *Client) GetPrincipal(ctx context.Context, id models.PrincipalID) (*models.Principal, error) {
	var out models.Principal
	if err := c.do(ctx, http.MethodGet, "/admin/users/"+url.PathEscape(string(id)), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByEmail scans the directory listing for a matching email. Comparison
// is case-insensitive, as the provider stores emails lowercased.
func (c *Client) FindByEmail(ctx context.Context, email string) (*models.Principal, error) {
	principals, err := c.ListPrincipals(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range principals {
		if strings.EqualFold(p.Email, email) {
			return p, nil
		}
	}
	return nil, common.ErrGranteeNotFound
}

func (c *Client) UpdatePassword(ctx context.Context, id models.PrincipalID, password string) error {
	body := map[string]any{"password": password}
	return c.do(ctx, http.MethodPut, "/admin/users/"+url.PathEscape(string(id)), body, nil)
}

func (c *Client) UpdateMetadata(ctx context.Context, id models.PrincipalID, metadata map[string]any) error {
	body := map[string]any{"user_metadata": metadata}
	return c.do(ctx, http.MethodPut, "/admin/users/"+url.PathEscape(string(id)), body, nil)
}

func (c *Client) DeletePrincipal(ctx context.Context, id models.PrincipalID) error {
	return c.do(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(string(id)), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: identity provider: %v", common.ErrExternal, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode == http.StatusNotFound:
		return common.ErrNotFound
	default:
		return fmt.Errorf("%w: identity provider returned %d", common.ErrExternal, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decoding identity response: %v", common.ErrExternal, err)
		}
	}
	return nil
}
