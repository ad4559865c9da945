package geocode

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
)

const defaultGoogleEndpoint = "https://maps.googleapis.com/maps/api/geocode/json"

// Google resolves addresses with the Google Geocoding API.
type Google struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

type GoogleOption func(*Google)

// WithEndpoint overrides the API endpoint.
func WithEndpoint(endpoint string) GoogleOption {
	return func(g *Google) { g.endpoint = endpoint }
}

func WithHTTPClient(client *http.Client) GoogleOption {
	return func(g *Google) { g.client = client }
}

func NewGoogle(apiKey string, opts ...GoogleOption) *Google {
	g := &Google{
		apiKey:   apiKey,
		endpoint: defaultGoogleEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type googleResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (g *Google) Geocode(ctx context.Context, address string) (Coordinates, error) {
	q := url.Values{}
	q.Set("address", address)
	q.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return Coordinates{}, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("geocoding request failed with status %d", resp.StatusCode)
	}

	var body googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Coordinates{}, fmt.Errorf("failed to decode geocoding response: %w", err)
	}

	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return Coordinates{}, ErrNoResults
	default:
		return Coordinates{}, fmt.Errorf("geocoding failed: %s %s", body.Status, body.ErrorMessage)
	}
	if len(body.Results) == 0 {
		return Coordinates{}, ErrNoResults
	}

	loc := body.Results[0].Geometry.Location
	return newCoordinates(loc.Lat, loc.Lng), nil
}
