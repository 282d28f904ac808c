package model

import (
	"bytes"
	"encoding/json"
	"time"
)

const AlertTypeAnimalIntrusion = "ANIMAL_INTRUSION"

// Alert severities. Unknown input is normalized to SeverityMedium.
const (
	SeverityLow      = "Low"
	SeverityMedium   = "Medium"
	SeverityHigh     = "High"
	SeverityCritical = "Critical"
)

// AlertLocation is where an intrusion was seen. Clients send either a bare
// string (the name) or an object with optional coordinates.
type AlertLocation struct {
	Name string   `json:"name"`
	Lat  *float64 `json:"lat,omitempty"`
	Lon  *float64 `json:"lon,omitempty"`
	Zone string   `json:"zone,omitempty"`
}

func (l *AlertLocation) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &l.Name)
	}
	type plain AlertLocation
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*l = AlertLocation(p)
	return nil
}

// Alert is an immutable intrusion report fanned out to live subscribers.
type Alert struct {
	ID           int64         `json:"id"`
	Type         string        `json:"type"`
	Animal       string        `json:"animal"`
	Location     AlertLocation `json:"location"`
	LocationName string        `json:"location_name"`
	Severity     string        `json:"severity"`
	Timestamp    time.Time     `json:"timestamp"`
	Message      string        `json:"message"`
}

// PushNotification is the payload delivered to browser push endpoints.
type PushNotification struct {
	Title string                 `json:"title"`
	Body  string                 `json:"body"`
	Icon  string                 `json:"icon"`
	Data  PushNotificationTarget `json:"data"`
}

type PushNotificationTarget struct {
	URL     string `json:"url"`
	AlertID int64  `json:"alert_id"`
}
