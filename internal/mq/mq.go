// Package mq publishes application events to RabbitMQ or Google Pub/Sub.
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/khalfanathman/portfolio-api/config"
	"github.com/khalfanathman/portfolio-api/types"
)

const (
	BackendNone     = "none"
	BackendRabbitMQ = "rabbitmq"
	BackendPubSub   = "pubsub"
)

// EventContactCreated is the event attribute set on contact notifications.
const EventContactCreated = "contact.created"

// Backend defines the broker-agnostic operations used by the app.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Close() error
}

// New returns the backend selected by cfg.Backend, or nil for "none".
func New(ctx context.Context, cfg config.MQConfig) (Backend, error) {
	switch cfg.Backend {
	case "", BackendNone:
		return nil, nil
	case BackendRabbitMQ:
		return NewRabbitMQClient(cfg.RabbitMQ)
	case BackendPubSub:
		return NewPubSubClient(ctx, cfg.PubSub)
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.Backend)
	}
}

// ContactCreated is the JSON body of a contact notification.
type ContactCreated struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	SentAt  string `json:"sent_at"`
}

// Notifier publishes events to one channel. A nil backend makes every
// publish a no-op.
type Notifier struct {
	backend Backend
	channel string
}

func NewNotifier(backend Backend, channel string) *Notifier {
	return &Notifier{backend: backend, channel: channel}
}

// ContactCreated publishes msg and returns the broker message id.
func (n *Notifier) ContactCreated(ctx context.Context, msg types.ContactMessage) (string, error) {
	if n == nil || n.backend == nil {
		return "", nil
	}
	data, err := json.Marshal(ContactCreated{
		ID:      msg.ID,
		Name:    msg.Name,
		Email:   msg.Email,
		Subject: msg.Subject,
		Message: msg.Message,
		SentAt:  msg.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", err
	}
	return n.backend.Publish(ctx, n.channel, data, map[string]string{
		"event":        EventContactCreated,
		"content_type": "application/json",
	})
}
