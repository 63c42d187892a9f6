package notify

import (
	"context"
	"log"

	"github.com/craftline/storefront/internal/domain"
)

// Action describes what a wishlist toggle did.
type Action string

const (
	ActionAdded   Action = "added"
	ActionRemoved Action = "removed"
)

// Notifier delivers user-facing wishlist change notifications.
type Notifier interface {
	WishlistChanged(ctx context.Context, sessionID string, action Action, entry domain.WishEntry) error
}

// LogNotifier writes notifications to the process log. Used when no
// broker is configured.
type LogNotifier struct{}

func (LogNotifier) WishlistChanged(_ context.Context, sessionID string, action Action, entry domain.WishEntry) error {
	log.Printf("wishlist %s: %s (session %s)", action, entry.Name, sessionID)
	return nil
}
