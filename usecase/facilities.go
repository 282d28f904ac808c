package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"farmertwin/logging"
	"farmertwin/model"
	"farmertwin/services"
	"farmertwin/utils"
)

const (
	searchRadiusMeters  = 50000
	defaultFacilityName = "Universal Cold Storage"
	mockFacilityCount   = 5
	nearbyKm            = 10
)

// FallbackCoordinate is searched around when geocoding fails.
var FallbackCoordinate = model.Coordinate{Lat: 10.8505, Lon: 76.2711}

var realFacilityCrops = []string{"Potato", "Onion", "Tomato", "Mango", "Banana"}

// FacilityLocator finds cold storage near a place. Availability and cost
// are synthesized: there is no booking system behind them.
type FacilityLocator struct {
	Geocoder services.Geocoder
	Source   services.FacilitySource
	Router   services.Router
	Log      logging.Logger

	randFloat func() float64
	randIntN  func(n int) int
}

func NewFacilityLocator(geo services.Geocoder, source services.FacilitySource, router services.Router, log logging.Logger) *FacilityLocator {
	return &FacilityLocator{
		Geocoder:  geo,
		Source:    source,
		Router:    router,
		Log:       log,
		randFloat: rand.Float64,
		randIntN:  rand.IntN,
	}
}

// Search returns facilities ordered available-first, then by distance and
// cost. It never fails: upstream problems degrade to the fallback
// coordinate and, with no real results, to clearly tagged mock entries.
func (l *FacilityLocator) Search(ctx context.Context, locationQuery string) []model.Facility {
	locationQuery = strings.TrimSpace(locationQuery)
	center := l.locate(ctx, locationQuery)

	var facilities []model.Facility
	if l.Source != nil {
		elements, err := l.Source.FindFacilities(ctx, center, searchRadiusMeters)
		if err != nil {
			l.Log.Warn(ctx, "facility query failed", "error", err)
		}
		for _, el := range elements {
			if f, ok := realFacility(el, center, locationQuery); ok {
				facilities = append(facilities, f)
			}
		}
	}

	if len(facilities) == 0 {
		l.Log.Info(ctx, "no facilities found, using mock data", "location", locationQuery)
		facilities = l.mockFacilities(center, locationQuery)
	}

	SortFacilities(facilities)
	return facilities
}

func (l *FacilityLocator) locate(ctx context.Context, query string) model.Coordinate {
	if query == "" || l.Geocoder == nil {
		return FallbackCoordinate
	}
	coord, err := l.Geocoder.Geocode(ctx, query)
	if err != nil {
		l.Log.Warn(ctx, "geocoding failed, using fallback coordinate", "query", query, "error", err)
		return FallbackCoordinate
	}
	return coord
}

// IsAvailable derives a stable availability flag from the facility name;
// roughly 70% of names come out available.
func IsAvailable(name string) bool {
	h := fnv.New32a()
	h.Write([]byte(name))
	return h.Sum32()%10 > 2
}

func realFacility(el services.FacilityElement, center model.Coordinate, locationQuery string) (model.Facility, bool) {
	pos, ok := el.Position()
	if !ok {
		return model.Facility{}, false
	}

	name := el.Tags["name"]
	if name == "" {
		name = defaultFacilityName
	}
	locationName := locationQuery
	if locationName == "" {
		locationName = "Local Region"
	}

	dist := roundTo(Haversine(center, pos), 1)
	available := IsAvailable(name)

	f := model.Facility{
		ID:             model.FacilityRealPrefix + strconv.FormatInt(el.ID, 10),
		Name:           model.LocalizedName{En: name, Ta: name + " (பதிவு செய்யப்பட்டது)"},
		Location:       model.FacilityLocation{Name: locationName, Lat: pos.Lat, Lon: pos.Lon},
		SupportedCrops: append([]string(nil), realFacilityCrops...),
		TempRange:      &model.TempRange{Min: 2, Max: 15},
		TotalCapacity:  10000,
		CostPerKg:      0.40,
		Contact:        "+91 00000 00000",
		Status:         model.FacilityNotAvailable,
		Distance:       dist,
	}
	if dist < nearbyKm {
		f.CostPerKg = 0.55
	}
	if available {
		f.AvailableCapacity = 2500
		f.Status = model.FacilityAvailable
	}
	return f, true
}

func (l *FacilityLocator) mockFacilities(center model.Coordinate, locationQuery string) []model.Facility {
	title := titleCase(locationQuery)
	region := title
	if region == "" {
		region = "Region"
	}
	names := []string{
		strings.TrimSpace("Global Cold Chain " + title),
		"AgriStorage Pro",
		"Farmer's Cool Hub",
		"National Warehouse",
		"Fresh Logistics",
	}

	out := make([]model.Facility, 0, mockFacilityCount)
	for i := 0; i < mockFacilityCount; i++ {
		pos := model.Coordinate{
			Lat: center.Lat + (l.randFloat()-0.5)*0.1,
			Lon: center.Lon + (l.randFloat()-0.5)*0.1,
		}
		out = append(out, model.Facility{
			ID:   fmt.Sprintf("%s%d", model.FacilityMockPrefix, i),
			Name: model.LocalizedName{En: names[i], Ta: fmt.Sprintf("குளிர்பதன கிடங்கு %d", i+1)},
			Location: model.FacilityLocation{
				Name: fmt.Sprintf("Sector %d, %s", i+1, region),
				Lat:  pos.Lat,
				Lon:  pos.Lon,
			},
			SupportedCrops:    []string{"Tomatoes", "Potatoes", "Onions"},
			TotalCapacity:     1000,
			AvailableCapacity: 100 + l.randIntN(701),
			CostPerKg:         roundTo(0.40+l.randFloat()*0.40, 2),
			Contact:           "+91 98765 43210",
			Status:            model.FacilityAvailable,
			Distance:          roundTo(Haversine(center, pos), 1),
		})
	}
	return out
}

// SortFacilities orders by (unavailable, distance, costPerKg), keeping the
// input order among equal keys.
func SortFacilities(fs []model.Facility) {
	sort.SliceStable(fs, func(i, j int) bool {
		a, b := fs[i], fs[j]
		ua, ub := a.Status != model.FacilityAvailable, b.Status != model.FacilityAvailable
		if ua != ub {
			return !ua
		}
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		return a.CostPerKg < b.CostPerKg
	})
}

// Route validates two [lat, lon] points and asks the router for a driving
// route between them.
func (l *FacilityLocator) Route(ctx context.Context, start, end []float64) (json.RawMessage, error) {
	from, err := pointFrom(start, "start")
	if err != nil {
		return nil, err
	}
	to, err := pointFrom(end, "end")
	if err != nil {
		return nil, err
	}
	if l.Router == nil {
		return nil, fmt.Errorf("ORS_API_KEY not configured: %w", utils.ErrNotConfigured)
	}
	return l.Router.Route(ctx, from, to)
}

func pointFrom(p []float64, field string) (model.Coordinate, error) {
	if len(p) != 2 {
		return model.Coordinate{}, fmt.Errorf("%s must be a [lat, lon] pair: %w", field, utils.ErrValidation)
	}
	if p[0] < -90 || p[0] > 90 || p[1] < -180 || p[1] > 180 {
		return model.Coordinate{}, fmt.Errorf("%s is out of range: %w", field, utils.ErrValidation)
	}
	return model.Coordinate{Lat: p[0], Lon: p[1]}, nil
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
