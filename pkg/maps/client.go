package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/angelmondragon/sgr-storefront/pkg/errors"
)

const (
	defaultGeocodeBaseURL       = "https://maps.googleapis.com/maps/api/geocode/json"
	embedBaseURL                = "https://www.google.com/maps/embed/v1/place"
	errorBodyReadLimit    int64 = 1024
)

var errAPIKeyRequired = errors.New("google maps api key is required")

// Client wraps the Google Maps APIs the contact page uses: an embed URL for
// the iframe and a geocoder to resolve the store address once at startup.
type Client struct {
	httpClient *http.Client
	geocodeURL string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithGeocodeBaseURL overrides the geocoding endpoint, mainly for tests.
func WithGeocodeBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.geocodeURL = trimmed
		}
	}
}

// NewClient builds the Google Maps client given an API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:     trimmedKey,
		geocodeURL: defaultGeocodeBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// LatLng is the latitude/longitude pair returned by Google.
type LatLng struct {
	Latitude  float64
	Longitude float64
}

// EmbedURL returns the iframe source for a place query.
func (c *Client) EmbedURL(placeQuery string) string {
	if c == nil {
		return ""
	}
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", placeQuery)
	return embedBaseURL + "?" + params.Encode()
}

// Geocode resolves a free-form address to coordinates.
func (c *Client) Geocode(ctx context.Context, address string) (*LatLng, error) {
	if c == nil {
		return nil, apperrors.New(apperrors.CodeInternal, "google maps client not configured")
	}
	if strings.TrimSpace(address) == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "geocode address is required")
	}

	params := url.Values{}
	params.Set("address", address)
	params.Set("key", c.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.geocodeURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "build geocode request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeTransport, err, "execute geocode request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, apperrors.Wrap(apperrors.CodeBackend, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "geocode request failed")
	}

	var apiResp struct {
		Status  string `json:"status"`
		Results []struct {
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeBackend, err, "decode geocode response")
	}
	if apiResp.Status != "OK" || len(apiResp.Results) == 0 {
		return nil, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("geocode returned status %s", apiResp.Status))
	}

	location := apiResp.Results[0].Geometry.Location
	return &LatLng{Latitude: location.Lat, Longitude: location.Lng}, nil
}
