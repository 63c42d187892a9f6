package poller

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"
)

// CartClearer is the slice of the manager the poller needs.
type CartClearer interface {
	ClearCart(ctx context.Context, sessionID string)
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Poller empties a session's cart once its checkout has completed,
// consuming events published by the checkout backend.
type Poller struct {
	clearer CartClearer
	reader  messageReader
}

func New(clearer CartClearer, brokers ...string) *Poller {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    "checkout-completed",
		GroupID:  "cart-service-consumer",
		MaxBytes: 10e6, // 10MB
	})
	return &Poller{clearer: clearer, reader: reader}
}

func (p *Poller) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		p.consumeAndClear(ctx)
	}
}

func (p *Poller) Close() {
	if err := p.reader.Close(); err != nil {
		log.Printf("error closing reader: %v", err)
	}
}

func (p *Poller) consumeAndClear(ctx context.Context) {
	m, err := p.reader.ReadMessage(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("error reading message: %v", err)
		}
		return
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(m.Value, &payload); err != nil {
		log.Printf("error parsing message: %v", err)
		return
	}
	sessionID, ok := payload["session_id"].(string)
	if !ok {
		log.Println("missing or invalid session_id")
		return
	}

	p.clearer.ClearCart(ctx, sessionID)
}
