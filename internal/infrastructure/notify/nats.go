package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"hwcatalog/internal/domain/hardware"
)

// publisher is the part of jetstream.JetStream used by NATSNotifier.
type publisher interface {
	Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// Message is the JSON payload published for a notification.
type Message struct {
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	SentAt  time.Time `json:"sentAt"`
}

// NATSNotifier publishes notifications to a JetStream subject.
type NATSNotifier struct {
	js      publisher
	subject string
	now     func() time.Time
}

// NewNATSNotifier creates a notifier publishing on subject.
func NewNATSNotifier(js jetstream.JetStream, subject string) *NATSNotifier {
	return &NATSNotifier{js: js, subject: subject, now: time.Now}
}

// Notify publishes n and waits for the stream acknowledgement.
func (p *NATSNotifier) Notify(ctx context.Context, n hardware.Notification) error {
	data, err := json.Marshal(Message{
		Subject: n.Subject,
		Body:    n.Body,
		SentAt:  p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	if _, err := p.js.Publish(ctx, p.subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.subject, err)
	}
	return nil
}
