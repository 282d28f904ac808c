package services

import (
	"context"
	"fmt"
	"time"

	"farmertwin/model"
	"farmertwin/utils"

	"github.com/go-resty/resty/v2"
)

// FacilityElement is one OSM node or way returned by a facility query.
// Ways carry their position in Center.
type FacilityElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat"`
	Lon    *float64          `json:"lon"`
	Center *model.Coordinate `json:"center"`
	Tags   map[string]string `json:"tags"`
}

// Position returns the element's coordinate and whether it has one.
func (e FacilityElement) Position() (model.Coordinate, bool) {
	if e.Lat != nil && e.Lon != nil {
		return model.Coordinate{Lat: *e.Lat, Lon: *e.Lon}, true
	}
	if e.Center != nil {
		return *e.Center, true
	}
	return model.Coordinate{}, false
}

// FacilitySource finds cold-storage and warehouse features around a point.
type FacilitySource interface {
	FindFacilities(ctx context.Context, center model.Coordinate, radiusMeters int) ([]FacilityElement, error)
}

type OverpassClient struct {
	client *resty.Client
	url    string
}

func NewOverpassClient(url string, timeout time.Duration) *OverpassClient {
	return &OverpassClient{
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", UserAgent),
		url: url,
	}
}

type overpassResponse struct {
	Elements []FacilityElement `json:"elements"`
}

// FacilityQuery renders the Overpass QL query for cold storage and
// warehouses within radiusMeters of center.
func FacilityQuery(center model.Coordinate, radiusMeters int) string {
	around := fmt.Sprintf("(around:%d,%g,%g)", radiusMeters, center.Lat, center.Lon)
	return "[out:json][timeout:25];\n(\n" +
		`  node["industrial"="cold_storage"]` + around + ";\n" +
		`  way["industrial"="cold_storage"]` + around + ";\n" +
		`  node["amenity"="warehouse"]` + around + ";\n" +
		`  way["amenity"="warehouse"]` + around + ";\n" +
		");\nout center;\n"
}

func (o *OverpassClient) FindFacilities(ctx context.Context, center model.Coordinate, radiusMeters int) ([]FacilityElement, error) {
	var out overpassResponse
	resp, err := o.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{"data": FacilityQuery(center, radiusMeters)}).
		SetResult(&out).
		Post(o.url)
	if err != nil {
		utils.TrackUpstreamCall("overpass", "failure")
		return nil, fmt.Errorf("%w: overpass request failed: %v", utils.ErrUpstream, err)
	}
	if resp.IsError() {
		utils.TrackUpstreamCall("overpass", "failure")
		return nil, fmt.Errorf("%w: overpass returned %d", utils.ErrUpstream, resp.StatusCode())
	}

	utils.TrackUpstreamCall("overpass", "success")
	return out.Elements, nil
}
