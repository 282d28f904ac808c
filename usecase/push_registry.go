package usecase

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"farmertwin/model"
	"farmertwin/utils"
)

// PushRegistry is the in-memory list of browser push subscriptions.
// Descriptors are deduplicated by exact structural equality only and never
// expire.
type PushRegistry struct {
	mu   sync.Mutex
	subs []model.PushSubscription
	keys map[string]struct{}
	now  func() time.Time
}

func NewPushRegistry() *PushRegistry {
	return &PushRegistry{
		keys: make(map[string]struct{}),
		now:  time.Now,
	}
}

// CanonicalKey re-encodes a JSON value with sorted object keys and no
// insignificant whitespace, so structurally equal descriptors share a key.
func CanonicalKey(raw json.RawMessage) (string, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Add stores the descriptor unless an equal one is already present.
// It reports whether the descriptor was new.
func (r *PushRegistry) Add(raw json.RawMessage, userAgent string) (bool, error) {
	var sub model.PushSubscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return false, fmt.Errorf("subscription must be a JSON object: %w", utils.ErrValidation)
	}
	if sub.Endpoint == "" {
		return false, fmt.Errorf("subscription endpoint is required: %w", utils.ErrValidation)
	}

	key, err := CanonicalKey(raw)
	if err != nil {
		return false, fmt.Errorf("subscription must be a JSON object: %w", utils.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.keys[key]; exists {
		return false, nil
	}

	sub.Raw = append(json.RawMessage(nil), raw...)
	sub.DeviceName = utils.DeviceLabel(userAgent)
	sub.CreatedAt = r.now().UTC()

	r.keys[key] = struct{}{}
	r.subs = append(r.subs, sub)
	return true, nil
}

// List returns a snapshot of the stored subscriptions.
func (r *PushRegistry) List() []model.PushSubscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.PushSubscription(nil), r.subs...)
}

func (r *PushRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}
