package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"farmertwin/model"
	"farmertwin/utils"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// PushSender delivers one payload to one browser push subscription.
type PushSender interface {
	Send(ctx context.Context, sub model.PushSubscription, payload []byte) error
}

// VAPIDSender signs pushes with a VAPID key pair.
type VAPIDSender struct {
	publicKey  string
	privateKey string
	subscriber string
	httpClient *http.Client
	ttl        int
}

func NewVAPIDSender(publicKey, privateKey, subscriber string, timeout time.Duration) *VAPIDSender {
	return &VAPIDSender{
		publicKey:  publicKey,
		privateKey: privateKey,
		subscriber: subscriber,
		httpClient: &http.Client{Timeout: timeout},
		ttl:        60,
	}
}

func (s *VAPIDSender) Send(ctx context.Context, sub model.PushSubscription, payload []byte) error {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.Keys.P256dh,
			Auth:   sub.Keys.Auth,
		},
	}, &webpush.Options{
		HTTPClient:      s.httpClient,
		Subscriber:      s.subscriber,
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
		TTL:             s.ttl,
		Urgency:         webpush.UrgencyHigh,
	})
	if err != nil {
		utils.TrackUpstreamCall("webpush", "failure")
		return fmt.Errorf("%w: push delivery failed: %v", utils.ErrUpstream, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		utils.TrackUpstreamCall("webpush", "failure")
		return fmt.Errorf("%w: push service returned %d", utils.ErrUpstream, resp.StatusCode)
	}

	utils.TrackUpstreamCall("webpush", "success")
	return nil
}

// GenerateVAPIDKeys returns a new base64url key pair.
func GenerateVAPIDKeys() (privateKey, publicKey string, err error) {
	return webpush.GenerateVAPIDKeys()
}
