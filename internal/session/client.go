package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"rentmap/internal/models"
)

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up payload. The server is the sole source of
// truth for duplicate accounts and password rules.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the backend's success payload for login and register.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// APIClient talks to the auth endpoints of the rental backend.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates an auth client for the given base URL.
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Login exchanges credentials for a token and user record.
func (c *APIClient) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	return c.post(ctx, "/api/auth/login", creds)
}

// Register creates an account and logs it in, in one call.
func (c *APIClient) Register(ctx context.Context, reg Registration) (*AuthResponse, error) {
	return c.post(ctx, "/api/auth/register", reg)
}

// Logout tells the backend to invalidate the token. Callers treat failures
// as advisory; the local record is cleared regardless.
func (c *APIClient) Logout(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/logout", nil)
	if err != nil {
		return fmt.Errorf("session: build logout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &AuthError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		status, message := resp.StatusCode, serverMessage(resp.Body)
		return &AuthError{Status: status, Message: message}
	}
	return nil
}

func (c *APIClient) post(ctx context.Context, path string, payload any) (*AuthResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("session: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("session: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &AuthError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &AuthError{Status: resp.StatusCode, Message: serverMessage(resp.Body)}
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return &authResp, nil
}

func serverMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	data, err := io.ReadAll(io.LimitReader(body, 1<<16))
	if err != nil {
		return ""
	}
	if json.Unmarshal(data, &payload) != nil {
		return ""
	}
	return payload.Message
}
