package model

// Facility availability states.
const (
	FacilityAvailable    = "Available"
	FacilityNotAvailable = "Not Available"
)

// Id prefixes distinguishing sourced from synthesized facilities.
const (
	FacilityRealPrefix = "real-"
	FacilityMockPrefix = "mock-"
)

type LocalizedName struct {
	En string `json:"en"`
	Ta string `json:"ta"`
}

type FacilityLocation struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

type TempRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Facility is a cold-storage or warehouse search result. Availability and
// pricing are synthetic presentation values, not live occupancy data.
type Facility struct {
	ID                string           `json:"id"`
	Name              LocalizedName    `json:"name"`
	Location          FacilityLocation `json:"location"`
	SupportedCrops    []string         `json:"supportedCrops"`
	TempRange         *TempRange       `json:"tempRange,omitempty"`
	TotalCapacity     int              `json:"totalCapacity"`
	AvailableCapacity int              `json:"availableCapacity"`
	CostPerKg         float64          `json:"costPerKg"`
	Contact           string           `json:"contact"`
	Status            string           `json:"status"`
	Distance          float64          `json:"distance"`
}

// IsMock reports whether the facility was synthesized rather than sourced.
func (f Facility) IsMock() bool {
	return len(f.ID) >= len(FacilityMockPrefix) && f.ID[:len(FacilityMockPrefix)] == FacilityMockPrefix
}

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
