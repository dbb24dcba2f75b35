package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"rentmap/internal/models"
)

// Client resolves free-text locations to coordinates against a
// Nominatim-compatible search endpoint, memoizing successful lookups in an
// injected Cache so each location is fetched at most once per session.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	cache      *Cache
	log        zerolog.Logger
}

// NewClient creates a resolver backed by the given cache. The cache must not
// be shared across resolvers.
func NewClient(baseURL, userAgent string, cache *Cache) *Client {
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache: cache,
		log:   log.With().Str("component", "geocode").Logger(),
	}
}

// Resolve returns the coordinate for locationKey. The second return value is
// false when the location could not be placed: network failure, an empty
// result set or malformed coordinates in the response. Failed lookups are not
// cached, so a later call may retry.
func (c *Client) Resolve(ctx context.Context, locationKey string) (models.Coordinate, bool, error) {
	if coord, ok := c.cache.Get(locationKey); ok {
		return coord, true, nil
	}

	coord, found, err := c.lookup(ctx, locationKey)
	if err != nil || !found {
		return models.Coordinate{}, false, err
	}

	c.cache.Put(locationKey, coord)
	return coord, true, nil
}

func (c *Client) lookup(ctx context.Context, locationKey string) (models.Coordinate, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search", nil)
	if err != nil {
		return models.Coordinate{}, false, fmt.Errorf("geocode: build request: %w", err)
	}
	q := url.Values{}
	q.Set("q", locationKey)
	q.Set("format", "json")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("location", locationKey).Msg("lookup failed")
		return models.Coordinate{}, false, fmt.Errorf("geocode: lookup %q: %w", locationKey, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Coordinate{}, false, fmt.Errorf("geocode: lookup %q: status %d", locationKey, resp.StatusCode)
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return models.Coordinate{}, false, fmt.Errorf("geocode: decode response for %q: %w", locationKey, err)
	}
	if len(results) == 0 {
		return models.Coordinate{}, false, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return models.Coordinate{}, false, fmt.Errorf("geocode: malformed latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return models.Coordinate{}, false, fmt.Errorf("geocode: malformed longitude %q: %w", results[0].Lon, err)
	}

	return models.Coordinate{Latitude: lat, Longitude: lon}, true, nil
}
