// Package upstream is the HTTP client for the rental backend's REST API.
package upstream

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

// APIError is a non-2xx response from the backend, carrying the
// server-provided message when one was present in the body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("upstream: status %d", e.Status)
}

// Client talks to the listings and reservations endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an upstream client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ListListings fetches all published listings.
func (c *Client) ListListings(ctx context.Context) ([]models.Listing, error) {
	var listings []models.Listing
	if err := c.get(ctx, "/api/appartements", &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// GetListing fetches one listing by id.
func (c *Client) GetListing(ctx context.Context, id int64) (*models.Listing, error) {
	var listing models.Listing
	if err := c.get(ctx, fmt.Sprintf("/api/appartements/%d", id), &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// CreateListing submits a new listing and returns the created record.
func (c *Client) CreateListing(ctx context.Context, draft models.ListingDraft) (*models.Listing, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("upstream: encode listing: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/appartements", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("upstream: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream: create listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeError(resp)
	}

	var created models.Listing
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("upstream: decode created listing: %w", err)
	}
	return &created, nil
}

// UserReservations fetches the current user's reservations.
func (c *Client) UserReservations(ctx context.Context) ([]models.Reservation, error) {
	var reservations []models.Reservation
	if err := c.get(ctx, "/reservations/user", &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("upstream: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upstream: get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("upstream: decode %s: %w", path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil {
		var payload struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &payload) == nil {
			apiErr.Message = payload.Message
		}
	}
	return apiErr
}
