package model

import (
	"encoding/json"
	"time"
)

// PushSubscription is a browser push descriptor. Raw keeps the descriptor
// exactly as the client sent it; Endpoint and Keys are the parts needed to
// deliver a message.
type PushSubscription struct {
	Endpoint   string          `json:"endpoint"`
	Keys       PushKeys        `json:"keys"`
	DeviceName string          `json:"device_name,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	Raw        json.RawMessage `json:"-"`
}

type PushKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}
