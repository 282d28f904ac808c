package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"farmertwin/model"
	"farmertwin/utils"

	"github.com/go-resty/resty/v2"
)

// UserAgent identifies the service to the OpenStreetMap APIs, which reject
// anonymous clients.
const UserAgent = "FarmerDigitalTwin/1.0"

// Geocoder resolves a place name to a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (model.Coordinate, error)
}

type NominatimGeocoder struct {
	client *resty.Client
	url    string
}

func NewNominatimGeocoder(url string, timeout time.Duration) *NominatimGeocoder {
	return &NominatimGeocoder{
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", UserAgent),
		url: url,
	}
}

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, query string) (model.Coordinate, error) {
	var places []nominatimPlace
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      query,
			"format": "json",
			"limit":  "1",
		}).
		SetResult(&places).
		Get(g.url)
	if err != nil {
		utils.TrackUpstreamCall("nominatim", "failure")
		return model.Coordinate{}, fmt.Errorf("%w: geocoding request failed: %v", utils.ErrUpstream, err)
	}
	if resp.IsError() {
		utils.TrackUpstreamCall("nominatim", "failure")
		return model.Coordinate{}, fmt.Errorf("%w: geocoder returned %d", utils.ErrUpstream, resp.StatusCode())
	}
	utils.TrackUpstreamCall("nominatim", "success")

	if len(places) == 0 {
		return model.Coordinate{}, fmt.Errorf("no geocoding result for %q: %w", query, utils.ErrNotFound)
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return model.Coordinate{}, fmt.Errorf("%w: bad latitude %q", utils.ErrUpstream, places[0].Lat)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return model.Coordinate{}, fmt.Errorf("%w: bad longitude %q", utils.ErrUpstream, places[0].Lon)
	}

	return model.Coordinate{Lat: lat, Lon: lon}, nil
}
