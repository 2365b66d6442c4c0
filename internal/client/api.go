package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/BayiPanel/BayiPanel/internal/permission"
)

const defaultHTTPTimeout = 30 * time.Second

// User is the logged in account as reported by the server.
type User struct {
	ID       uint64          `json:"id"`
	Username string          `json:"username"`
	Role     permission.Role `json:"role"`
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// API is the HTTP client of the panel server. It keeps the session cookie.
type API struct {
	baseURL    string
	httpClient *http.Client
}

// Option is a function that configures the API.
type Option func(*API)

// WithHTTPClient sets a custom HTTP client. Its cookie jar must be set to keep sessions.
func WithHTTPClient(c *http.Client) Option {
	return func(a *API) {
		a.httpClient = c
	}
}

// NewAPI creates a client for the server at baseURL.
func NewAPI(baseURL string, opts ...Option) (*API, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	a := &API{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
			Jar:     jar,
		},
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Login opens a session.
func (a *API) Login(ctx context.Context, username, password string) (*User, error) {
	body := map[string]string{"username": username, "password": password}

	var user User
	if err := a.doRequest(ctx, http.MethodPost, "/api/login", body, &user); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	return &user, nil
}

// Logout closes the session.
func (a *API) Logout(ctx context.Context) error {
	if err := a.doRequest(ctx, http.MethodPost, "/api/logout", nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	return nil
}

// CurrentUser returns the user of the session.
func (a *API) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := a.doRequest(ctx, http.MethodGet, "/api/user", nil, &user); err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	return &user, nil
}

// FetchPermissions returns the resolved permission set of role.
func (a *API) FetchPermissions(ctx context.Context, role permission.Role) (permission.Set, error) {
	path := "/roles/rolekontrol?role=" + url.QueryEscape(string(role))

	var set permission.Set
	if err := a.doRequest(ctx, http.MethodGet, path, nil, &set); err != nil {
		return nil, fmt.Errorf("fetch permissions: %w", err)
	}

	if set == nil {
		set = permission.Set{}
	}

	return set, nil
}

// doRequest performs an HTTP request and decodes the data of the response envelope.
func (a *API) doRequest(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}

		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: send request: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrTransport, err)
	}

	var apiResp apiResponse
	decodeErr := json.Unmarshal(respBody, &apiResp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := apiResp.Message
		if decodeErr != nil || msg == "" {
			msg = strings.TrimSpace(string(respBody))
		}

		return &StatusError{Code: resp.StatusCode, Message: msg}
	}

	if decodeErr != nil {
		return fmt.Errorf("%w: unmarshal response: %w", ErrTransport, decodeErr)
	}

	if !apiResp.Success {
		return fmt.Errorf("%w: %s", ErrTransport, apiResp.Message)
	}

	if result == nil || len(apiResp.Data) == 0 {
		return nil
	}

	if err := json.Unmarshal(apiResp.Data, result); err != nil {
		return fmt.Errorf("%w: unmarshal data: %w", ErrTransport, err)
	}

	return nil
}
