// Package geocode wraps the Nominatim HTTP API. The server only proxies it;
// clients never talk to the provider directly, keeping the User-Agent policy
// and provider choice in one place.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"findtogether/internal/models"
	"findtogether/internal/observability"
)

// ErrNotFound is returned when the provider has no match for an address or
// coordinate pair.
var ErrNotFound = errors.New("geocode: address not found")

// Geocoder resolves addresses to coordinates and back.
type Geocoder interface {
	Forward(ctx context.Context, address string) (models.Location, error)
	Reverse(ctx context.Context, lat, lng float64) (json.RawMessage, error)
}

// Client talks to a Nominatim-compatible endpoint.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient returns a Client for the given Nominatim base URL. No request
// timeout is set on the client; cancellation is driven by the caller's
// context.
func NewClient(baseURL, userAgent string) *Client {
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		http:      &http.Client{},
	}
}

// searchResult is the subset of a Nominatim /search entry we consume. The
// provider encodes coordinates as strings.
type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Forward resolves a free-form address to a coordinate pair using the first
// provider match. Returns ErrNotFound when the provider has none.
func (c *Client) Forward(ctx context.Context, address string) (models.Location, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	body, err := c.get(ctx, "/search", q)
	if err != nil {
		observability.GeocodeUpstreamErrors.WithLabelValues("forward").Inc()
		return models.Location{}, err
	}

	var results []searchResult
	if err := json.Unmarshal(body, &results); err != nil {
		observability.GeocodeUpstreamErrors.WithLabelValues("forward").Inc()
		return models.Location{}, fmt.Errorf("geocode: decoding search response: %w", err)
	}
	if len(results) == 0 {
		return models.Location{}, ErrNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return models.Location{}, fmt.Errorf("geocode: parsing latitude %q: %w", results[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return models.Location{}, fmt.Errorf("geocode: parsing longitude %q: %w", results[0].Lon, err)
	}

	loc := models.Location{Lat: lat, Lng: lng}
	if !loc.Valid() {
		return models.Location{}, fmt.Errorf("geocode: provider returned non-finite coordinates")
	}
	return loc, nil
}

// Reverse returns the provider's reverse-geocode payload verbatim. Callers
// forward it untouched so clients can apply their own component fallbacks.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("format", "json")
	q.Set("addressdetails", "1")

	body, err := c.get(ctx, "/reverse", q)
	if err != nil {
		observability.GeocodeUpstreamErrors.WithLabelValues("reverse").Inc()
		return nil, err
	}
	if len(body) == 0 || !json.Valid(body) {
		observability.GeocodeUpstreamErrors.WithLabelValues("reverse").Inc()
		return nil, fmt.Errorf("geocode: provider returned invalid reverse payload")
	}
	return json.RawMessage(body), nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("geocode: building request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode: provider returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("geocode: reading response: %w", err)
	}
	return body, nil
}
