package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"farmertwin/model"

	"github.com/nats-io/nats.go"
)

// AlertPublisher mirrors reported alerts to other processes.
type AlertPublisher interface {
	Publish(ctx context.Context, alert model.Alert) error
	Close()
}

type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to url. The connection reconnects on its own
// after the initial dial succeeds.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("farmer-twin"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: nc, subject: subject}, nil
}

func (p *NATSPublisher) Publish(_ context.Context, alert model.Alert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to encode alert: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish alert: %w", err)
	}
	return nil
}

func (p *NATSPublisher) Close() {
	if p.conn != nil && !p.conn.IsClosed() {
		p.conn.Drain()
	}
}
