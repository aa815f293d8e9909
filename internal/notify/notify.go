// Package notify delivers best-effort messages to members.
// Callers treat every failure as a warning; the ledger never depends on delivery.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Message is one notification
type Message struct {
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	SentAt    time.Time `json:"sent_at"`
}

// Notifier delivers messages
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// LogNotifier writes messages to the log instead of delivering them
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, msg Message) error {
	n.logger.Info().
		Str("recipient", msg.Recipient).
		Str("subject", msg.Subject).
		Msg("notification")
	return nil
}

// RedisNotifier publishes messages as JSON on a channel for an external mail worker
type RedisNotifier struct {
	client  *redis.Client
	channel string
}

func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel}
}

func (n *RedisNotifier) Notify(ctx context.Context, msg Message) error {
	payload, err := encode(msg, time.Now())
	if err != nil {
		return err
	}

	return n.client.Publish(ctx, n.channel, payload).Err()
}

// encode builds the published payload, stamping SentAt with now when unset
func encode(msg Message, now time.Time) ([]byte, error) {
	if msg.SentAt.IsZero() {
		msg.SentAt = now
	}
	return json.Marshal(msg)
}
