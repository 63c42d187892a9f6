package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/craftline/storefront/internal/domain"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes wishlist change events to the wishlist-events
// topic. The notification service renders them into user-facing toasts.
type KafkaNotifier struct {
	writer messageWriter
}

func NewKafkaNotifier(brokers ...string) *KafkaNotifier {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "wishlist-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaNotifier{writer: w}
}

type wishlistEvent struct {
	SessionID   string `json:"session_id"`
	Action      string `json:"action"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	OccurredAt  string `json:"occurred_at"`
}

func (n *KafkaNotifier) WishlistChanged(ctx context.Context, sessionID string, action Action, entry domain.WishEntry) error {
	payload, err := json.Marshal(wishlistEvent{
		SessionID:   sessionID,
		Action:      string(action),
		ProductID:   entry.ProductID,
		ProductName: entry.Name,
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal wishlist event failed: %w", err)
	}

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(sessionID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("publish wishlist event failed: %w", err)
	}
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
