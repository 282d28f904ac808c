package dto

import "farmertwin/model"

type ColdStorageSearchRequest struct {
	Crop     string `json:"crop"`
	Location string `json:"location"`
}

type ColdStorageSearchResponse struct {
	Status     string           `json:"status"`
	Crop       string           `json:"crop,omitempty"`
	Facilities []model.Facility `json:"facilities"`
	Count      int              `json:"count"`
}

// RouteRequest carries points as [lat, lon] pairs.
type RouteRequest struct {
	Start []float64 `json:"start"`
	End   []float64 `json:"end"`
}

type RouteResponse struct {
	Status string `json:"status"`
	Route  any    `json:"route"`
}
