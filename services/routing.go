package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"farmertwin/model"
	"farmertwin/utils"

	"github.com/go-resty/resty/v2"
)

// RouteError is a non-200 reply from the routing API. Details holds the
// upstream body.
type RouteError struct {
	StatusCode int
	Details    string
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("routing API returned %d", e.StatusCode)
}

func (e *RouteError) Unwrap() error { return utils.ErrUpstream }

// Router computes a driving route between two points and returns the
// provider's GeoJSON untouched.
type Router interface {
	Route(ctx context.Context, start, end model.Coordinate) (json.RawMessage, error)
}

type ORSRouter struct {
	client *resty.Client
	apiKey string
}

func NewORSRouter(baseURL, apiKey string, timeout time.Duration) *ORSRouter {
	return &ORSRouter{
		client: resty.New().
			SetTimeout(timeout).
			SetBaseURL(strings.TrimRight(baseURL, "/")),
		apiKey: apiKey,
	}
}

type orsRequest struct {
	Coordinates [][2]float64 `json:"coordinates"`
}

func (r *ORSRouter) Route(ctx context.Context, start, end model.Coordinate) (json.RawMessage, error) {
	if r.apiKey == "" {
		return nil, fmt.Errorf("ORS_API_KEY not configured: %w", utils.ErrNotConfigured)
	}

	// OpenRouteService takes [lon, lat].
	body := orsRequest{Coordinates: [][2]float64{
		{start.Lon, start.Lat},
		{end.Lon, end.Lat},
	}}

	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Authorization", r.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/v2/directions/driving-car/geojson")
	if err != nil {
		utils.TrackUpstreamCall("ors", "failure")
		return nil, fmt.Errorf("%w: routing request failed: %v", utils.ErrUpstream, err)
	}
	if resp.StatusCode() != 200 {
		utils.TrackUpstreamCall("ors", "failure")
		return nil, &RouteError{StatusCode: resp.StatusCode(), Details: resp.String()}
	}
	if !json.Valid(resp.Body()) {
		utils.TrackUpstreamCall("ors", "failure")
		return nil, fmt.Errorf("%w: routing API returned invalid JSON", utils.ErrUpstream)
	}

	utils.TrackUpstreamCall("ors", "success")
	return json.RawMessage(resp.Body()), nil
}
