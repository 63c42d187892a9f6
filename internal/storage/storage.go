package storage

import (
	"context"
	"errors"

	"github.com/craftline/storefront/internal/domain"
)

// ErrNotFound is returned when a session has no stored state yet.
var ErrNotFound = errors.New("no stored state for session")

// Storage persists cart and wish-list state per session. Consumers define
// this interface, not the Redis implementation.
type Storage interface {
	LoadCart(ctx context.Context, sessionID string) ([]domain.CartLine, error)
	SaveCart(ctx context.Context, sessionID string, lines []domain.CartLine) error
	LoadWishlist(ctx context.Context, sessionID string) ([]domain.WishEntry, error)
	SaveWishlist(ctx context.Context, sessionID string, entries []domain.WishEntry) error
}
