package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"farmertwin/logging"
	"farmertwin/model"
	"farmertwin/services"
	"farmertwin/usecase"
	"farmertwin/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeocoder struct {
	coord model.Coordinate
	err   error
}

func (g stubGeocoder) Geocode(context.Context, string) (model.Coordinate, error) {
	return g.coord, g.err
}

type stubSource struct {
	elements []services.FacilityElement
	err      error
}

func (s stubSource) FindFacilities(context.Context, model.Coordinate, int) ([]services.FacilityElement, error) {
	return s.elements, s.err
}

type stubRouter struct {
	route json.RawMessage
	err   error
}

func (r stubRouter) Route(context.Context, model.Coordinate, model.Coordinate) (json.RawMessage, error) {
	return r.route, r.err
}

func coldStorageRouter(locator *usecase.FacilityLocator) *gin.Engine {
	r := gin.New()
	r.POST("/api/cold-storage/search", func(c *gin.Context) { SearchColdStorageHandler(c, locator) })
	r.POST("/api/cold-storage/route", func(c *gin.Context) { RouteHandler(c, locator) })
	return r
}

func TestSearchColdStorageFallsBackToMockFacilities(t *testing.T) {
	locator := usecase.NewFacilityLocator(
		stubGeocoder{err: utils.ErrNotFound},
		stubSource{err: utils.ErrUpstream},
		nil,
		logging.Discard(),
	)
	r := coldStorageRouter(locator)

	w := performJSON(r, http.MethodPost, "/api/cold-storage/search", `{"crop":"Onion","location":"coimbatore"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status     string           `json:"status"`
		Crop       string           `json:"crop"`
		Facilities []model.Facility `json:"facilities"`
		Count      int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "Onion", resp.Crop)
	assert.Equal(t, 5, resp.Count)
	require.Len(t, resp.Facilities, 5)
	for i, f := range resp.Facilities {
		assert.True(t, strings.HasPrefix(f.ID, model.FacilityMockPrefix), f.ID)
		assert.Contains(t, f.Location.Name, "Coimbatore")
		if i > 0 {
			assert.LessOrEqual(t, resp.Facilities[i-1].Distance, f.Distance)
		}
	}
}

func TestSearchColdStorageRealFacilities(t *testing.T) {
	center := model.Coordinate{Lat: 11.0168, Lon: 76.9558}
	locator := usecase.NewFacilityLocator(
		stubGeocoder{coord: center},
		stubSource{elements: []services.FacilityElement{
			{ID: 42, Center: &model.Coordinate{Lat: 11.02, Lon: 76.96}, Tags: map[string]string{"name": "Kovai Cold Chain"}},
			{ID: 43, Tags: map[string]string{"name": "No Position"}},
		}},
		nil,
		logging.Discard(),
	)
	r := coldStorageRouter(locator)

	w := performJSON(r, http.MethodPost, "/api/cold-storage/search", `{"location":"Coimbatore"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.EqualValues(t, 1, body["count"])
	assert.NotContains(t, body, "crop")

	facility := body["facilities"].([]any)[0].(map[string]any)
	assert.Equal(t, model.FacilityRealPrefix+"42", facility["id"])
}

func TestRouteHandler(t *testing.T) {
	route := json.RawMessage(`{"type":"FeatureCollection","features":[]}`)

	tests := []struct {
		name         string
		router       services.Router
		body         string
		expectedCode int
		check        func(t *testing.T, body map[string]any)
	}{
		{
			name:         "Success",
			router:       stubRouter{route: route},
			body:         `{"start":[11.0,76.9],"end":[11.1,77.0]}`,
			expectedCode: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "success", body["status"])
				assert.Equal(t, "FeatureCollection", body["route"].(map[string]any)["type"])
			},
		},
		{
			name:         "Routing Not Configured",
			router:       nil,
			body:         `{"start":[11.0,76.9],"end":[11.1,77.0]}`,
			expectedCode: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "error", body["status"])
				assert.Contains(t, body["message"], "ORS_API_KEY")
			},
		},
		{
			name:         "Missing End",
			router:       stubRouter{route: route},
			body:         `{"start":[11.0,76.9]}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Latitude Out Of Range",
			router:       stubRouter{route: route},
			body:         `{"start":[91,76.9],"end":[11.1,77.0]}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Provider Rejects",
			router:       stubRouter{err: &services.RouteError{StatusCode: 403, Details: `{"error":"Access to this API has been disallowed"}`}},
			body:         `{"start":[11.0,76.9],"end":[11.1,77.0]}`,
			expectedCode: http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "ORS API Error", body["message"])
				assert.Contains(t, body["details"], "disallowed")
			},
		},
		{
			name:         "Transport Failure",
			router:       stubRouter{err: errors.New("dial tcp: connection refused")},
			body:         `{"start":[11.0,76.9],"end":[11.1,77.0]}`,
			expectedCode: http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "error", body["status"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locator := usecase.NewFacilityLocator(nil, nil, tt.router, logging.Discard())
			w := performJSON(coldStorageRouter(locator), http.MethodPost, "/api/cold-storage/route", tt.body, "")
			assert.Equal(t, tt.expectedCode, w.Code, w.Body.String())
			if tt.check != nil {
				tt.check(t, decodeBody(t, w))
			}
		})
	}
}
