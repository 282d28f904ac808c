package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"farmertwin/logging"
	"farmertwin/model"
	"farmertwin/services"
	"farmertwin/utils"
)

const (
	defaultAnimal       = "Unknown"
	defaultLocationName = "Farm perimeter"
	pushTitle           = "Animal Intrusion Alert!"
	pushIcon            = "/icon-192.png"
	pushClickURL        = "/world"
	pushSendTimeout     = 10 * time.Second
)

var ErrBroadcasterClosed = errors.New("broadcaster closed")

// Broadcaster fans intrusion alerts out to every connected stream, each
// through its own queue, and best-effort to browser push subscribers.
//
// A single mutex covers the registry, id assignment and enqueueing, so every
// subscriber sees alerts in the same order and ids strictly increase.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[uint64]*Subscription
	nextID uint64
	lastID int64
	closed bool
	// pushes tracks in-flight push deliveries; Close waits for them.
	pushes sync.WaitGroup

	Push      *PushRegistry
	sender    services.PushSender
	publisher services.AlertPublisher
	log       logging.Logger
	now       func() time.Time
}

// NewBroadcaster wires the fan-out targets. sender and publisher may be nil,
// which disables push delivery and the NATS mirror.
func NewBroadcaster(log logging.Logger, push *PushRegistry, sender services.PushSender, publisher services.AlertPublisher) *Broadcaster {
	if push == nil {
		push = NewPushRegistry()
	}
	return &Broadcaster{
		subs:      make(map[uint64]*Subscription),
		Push:      push,
		sender:    sender,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Subscribe registers a fresh queue. Callers must Unsubscribe on every exit
// path.
func (b *Broadcaster) Subscribe() (*Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBroadcasterClosed
	}
	b.nextID++
	sub := newSubscription(b.nextID)
	b.subs[sub.id] = sub
	utils.StreamSubscribers.Inc()
	return sub, nil
}

// Unsubscribe removes the queue and discards anything still pending. It is
// safe to call more than once.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	if _, ok := b.subs[sub.id]; ok {
		delete(b.subs, sub.id)
		utils.StreamSubscribers.Dec()
	}
	b.mu.Unlock()
	sub.close()
}

// Subscribers is the number of registered streams.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// NormalizeSeverity matches s case-insensitively against the known
// severities; anything else becomes Medium.
func NormalizeSeverity(s string) string {
	for _, known := range []string{model.SeverityLow, model.SeverityMedium, model.SeverityHigh, model.SeverityCritical} {
		if strings.EqualFold(strings.TrimSpace(s), known) {
			return known
		}
	}
	return model.SeverityMedium
}

// Report builds an alert, queues it for every connected stream, starts push
// delivery in the background and mirrors the alert to NATS. Delivery
// failures are logged and never affect the returned alert.
func (b *Broadcaster) Report(ctx context.Context, animal string, location *model.AlertLocation, severity string) model.Alert {
	animal = strings.TrimSpace(animal)
	if animal == "" {
		animal = defaultAnimal
	}
	loc := model.AlertLocation{}
	if location != nil {
		loc = *location
	}
	if strings.TrimSpace(loc.Name) == "" {
		loc.Name = defaultLocationName
	}
	severity = NormalizeSeverity(severity)

	b.mu.Lock()
	now := b.now().UTC()
	id := now.UnixMilli()
	if id <= b.lastID {
		id = b.lastID + 1
	}
	b.lastID = id

	alert := model.Alert{
		ID:           id,
		Type:         model.AlertTypeAnimalIntrusion,
		Animal:       animal,
		Location:     loc,
		LocationName: loc.Name,
		Severity:     severity,
		Timestamp:    now,
		Message:      fmt.Sprintf("⚠️ %s Alert: %s detected at %s!", severity, animal, loc.Name),
	}
	for _, sub := range b.subs {
		sub.enqueue(alert)
	}
	delivered := len(b.subs)
	b.mu.Unlock()

	utils.AlertsReported.WithLabelValues(severity).Inc()
	b.log.Info(ctx, "intrusion alert reported",
		"id", alert.ID, "animal", animal, "severity", severity, "subscribers", delivered)

	// Fan-out continues even if the reporting client goes away.
	detached := context.WithoutCancel(ctx)
	b.sendPush(detached, alert)
	b.mirror(detached, alert)

	return alert
}

func (b *Broadcaster) sendPush(ctx context.Context, alert model.Alert) {
	if b.sender == nil {
		return
	}
	subs := b.Push.List()
	if len(subs) == 0 {
		return
	}

	payload, err := json.Marshal(model.PushNotification{
		Title: pushTitle,
		Body:  alert.Message,
		Icon:  pushIcon,
		Data:  model.PushNotificationTarget{URL: pushClickURL, AlertID: alert.ID},
	})
	if err != nil {
		b.log.Error(ctx, "failed to encode push payload", "error", err)
		return
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.pushes.Add(len(subs))
	b.mu.Unlock()

	for _, sub := range subs {
		go func(sub model.PushSubscription) {
			defer b.pushes.Done()
			sendCtx, cancel := context.WithTimeout(ctx, pushSendTimeout)
			defer cancel()

			if err := b.sender.Send(sendCtx, sub, payload); err != nil {
				utils.PushDeliveries.WithLabelValues("failure").Inc()
				b.log.Warn(ctx, "push delivery failed", "endpoint", sub.Endpoint, "error", err)
				return
			}
			utils.PushDeliveries.WithLabelValues("success").Inc()
		}(sub)
	}
}

func (b *Broadcaster) mirror(ctx context.Context, alert model.Alert) {
	if b.publisher == nil {
		return
	}
	if err := b.publisher.Publish(ctx, alert); err != nil {
		b.log.Warn(ctx, "failed to mirror alert", "id", alert.ID, "error", err)
	}
}

// Close disconnects every stream, refuses new subscriptions and waits for
// in-flight push deliveries. Calls after the first do nothing.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := b.subs
	b.subs = make(map[uint64]*Subscription)
	b.mu.Unlock()

	for _, sub := range subs {
		sub.close()
		utils.StreamSubscribers.Dec()
	}
	b.pushes.Wait()
	if b.publisher != nil {
		b.publisher.Close()
	}
}
