package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/girlscollective/collective/internal/pkg/apperrors"
	"github.com/girlscollective/collective/internal/pkg/cache"
	"github.com/rs/zerolog"
)

var (
	ErrMissingLocation = apperrors.NewBadRequestError("location is required")
	ErrNotConfigured   = apperrors.NewCustomError(apperrors.ErrServiceUnavailable, "geocoding key is not configured")
	ErrNoResults       = apperrors.NewResourceNotFoundError("no results for location")
)

// Result is a resolved coordinate
type Result struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Formatted string  `json:"formatted"`
}

type apiResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Client proxies the maps geocoding API so the key stays on the server
type Client struct {
	http     *http.Client
	endpoint string
	apiKey   string
	cache    cache.Cache
	ttl      time.Duration
	logger   zerolog.Logger
}

// NewClient creates a geocoding client. cache may be nil.
func NewClient(httpClient *http.Client, endpoint, apiKey string, c cache.Cache, ttl time.Duration, logger zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		http:     httpClient,
		endpoint: endpoint,
		apiKey:   apiKey,
		cache:    c,
		ttl:      ttl,
		logger:   logger,
	}
}

// Query joins location and city the way the address is sent upstream
func Query(location, city string) string {
	location = strings.TrimSpace(location)
	city = strings.TrimSpace(city)
	if city == "" || strings.Contains(strings.ToLower(location), strings.ToLower(city)) {
		return location
	}
	return location + ", " + city
}

// Lookup resolves location (optionally scoped to city) to coordinates
func (c *Client) Lookup(ctx context.Context, location, city string) (*Result, error) {
	if strings.TrimSpace(location) == "" {
		return nil, ErrMissingLocation
	}
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	address := Query(location, city)
	cacheKey := strings.ToLower(address)
	if c.cache != nil {
		var cached Result
		err := c.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			c.logger.Warn().Err(err).Msg("Geocode cache read failed")
		}
	}

	res, err := c.fetch(ctx, address)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.SetJSON(ctx, cacheKey, res, c.ttl); err != nil {
			c.logger.Warn().Err(err).Msg("Geocode cache write failed")
		}
	}
	return res, nil
}

func (c *Client) fetch(ctx context.Context, address string) (*Result, error) {
	q := url.Values{}
	q.Set("address", address)
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("error building geocode request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: geocoding returned %d", apperrors.ErrUpstream, resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}

	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, ErrNoResults
	default:
		c.logger.Warn().Str("status", body.Status).Str("error", body.ErrorMessage).Msg("Geocoding API error")
		return nil, fmt.Errorf("%w: geocoding status %s", apperrors.ErrUpstream, body.Status)
	}
	if len(body.Results) == 0 {
		return nil, ErrNoResults
	}

	first := body.Results[0]
	return &Result{
		Lat:       first.Geometry.Location.Lat,
		Lng:       first.Geometry.Location.Lng,
		Formatted: first.FormattedAddress,
	}, nil
}

// StatusFor maps a Lookup error to the relay's HTTP status
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrServiceUnavailable):
		return http.StatusInternalServerError
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
