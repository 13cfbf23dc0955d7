package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type osrmResponse struct {
	Code   string      `json:"code"`
	Routes []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Distance float64           `json:"distance"` // meters
	Duration float64           `json:"duration"` // seconds
	Geometry *geojson.Geometry `json:"geometry"`
}

// OSRMClient talks to an OSRM route endpoint.
type OSRMClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewOSRMClient creates an OSRMClient. baseURL ends at the profile, e.g. .../route/v1/driving.
func NewOSRMClient(baseURL string, timeout time.Duration) *OSRMClient {
	return &OSRMClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchRoute implements RoutingService. It succeeds only on a 2xx response whose code
// is "Ok" and which carries at least one route with line geometry.
func (c *OSRMClient) FetchRoute(ctx context.Context, r Request) (*Result, error) {
	params := url.Values{}
	if r.Steps {
		params.Set("steps", "true")
	}
	params.Set("geometries", "geojson")
	params.Set("overview", "full")

	// OSRM wants lon,lat
	endpoint := fmt.Sprintf("%s/%.6f,%.6f;%.6f,%.6f?%s",
		c.baseURL,
		r.From.Lon, r.From.Lat,
		r.To.Lon, r.To.Lat,
		params.Encode(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call OSRM API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: OSRM API returned status %d", ErrNoRoute, resp.StatusCode)
	}

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode OSRM response: %w", err)
	}

	if body.Code != "Ok" || len(body.Routes) == 0 {
		return nil, fmt.Errorf("%w: code %q", ErrNoRoute, body.Code)
	}

	route := body.Routes[0]
	if route.Geometry == nil {
		return nil, fmt.Errorf("%w: route has no geometry", ErrNoRoute)
	}
	line, ok := route.Geometry.Coordinates.(orb.LineString)
	if !ok || len(line) == 0 {
		return nil, fmt.Errorf("%w: route geometry is not a line", ErrNoRoute)
	}

	return &Result{
		Coordinates:     line,
		DistanceMeters:  route.Distance,
		DurationSeconds: route.Duration,
	}, nil
}
