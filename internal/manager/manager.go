package manager

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/craftline/storefront/internal/catalog"
	"github.com/craftline/storefront/internal/domain"
	"github.com/craftline/storefront/internal/notify"
	"github.com/craftline/storefront/internal/storage"
	"golang.org/x/sync/singleflight"
)

// Manager holds the authoritative cart and wish-list state for active
// sessions. Its methods are the only write path; callers receive copies,
// never the underlying slices. Every mutation is written back to durable
// storage; a failed write is logged and the in-memory state kept, so the
// shopper can still check out.
type Manager struct {
	store    storage.Storage
	snapshot *catalog.Snapshot
	notifier notify.Notifier

	mu       sync.Mutex
	sessions map[string]*sessionState
	sfg      singleflight.Group // Prevents duplicate hydration per session
}

type sessionState struct {
	cart     []domain.CartLine
	wishlist []domain.WishEntry
}

func New(store storage.Storage, snapshot *catalog.Snapshot, notifier notify.Notifier) *Manager {
	return &Manager{
		store:    store,
		snapshot: snapshot,
		notifier: notifier,
		sessions: make(map[string]*sessionState),
	}
}

// session returns the hydrated state for sessionID, loading it from
// storage on first access. Storage errors degrade to an empty session.
func (m *Manager) session(ctx context.Context, sessionID string) *sessionState {
	m.mu.Lock()
	st, ok := m.sessions[sessionID]
	m.mu.Unlock()
	if ok {
		return st
	}

	v, _, _ := m.sfg.Do(sessionID, func() (interface{}, error) {
		st := &sessionState{}

		cart, err := m.store.LoadCart(ctx, sessionID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			log.Printf("load cart for session %s: %v", sessionID, err)
		}
		st.cart = cart

		wishlist, err := m.store.LoadWishlist(ctx, sessionID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			log.Printf("load wishlist for session %s: %v", sessionID, err)
		}
		st.wishlist = wishlist

		m.mu.Lock()
		defer m.mu.Unlock()
		if existing, ok := m.sessions[sessionID]; ok {
			return existing, nil
		}
		m.sessions[sessionID] = st
		return st, nil
	})

	return v.(*sessionState)
}

// Cart returns a copy of the session's cart lines.
func (m *Manager) Cart(ctx context.Context, sessionID string) []domain.CartLine {
	st := m.session(ctx, sessionID)
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CartLine(nil), st.cart...)
}

// Wishlist returns a copy of the session's wish-list entries.
func (m *Manager) Wishlist(ctx context.Context, sessionID string) []domain.WishEntry {
	st := m.session(ctx, sessionID)
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.WishEntry(nil), st.wishlist...)
}

// AddToCart merges line into the cart by its (product, color, size) key.
// Quantities are clamped to the stock ceiling whenever the variation is
// known to the snapshot, on first insert as well as on merge. A variation
// the snapshot does not know (catalog unavailable, product withdrawn) can
// still be added as-is but can never be incremented. Invalid input is a
// silent no-op.
func (m *Manager) AddToCart(ctx context.Context, sessionID string, line domain.CartLine) {
	if line.ProductID == "" || line.Quantity < 1 {
		return
	}

	st := m.session(ctx, sessionID)
	key := line.Key()

	m.mu.Lock()
	ceiling, known := m.snapshot.Ceiling(key.ProductID, key.Color, key.Size)

	merged := false
	for i := range st.cart {
		if st.cart[i].Key() != key {
			continue
		}
		if known {
			q := st.cart[i].Quantity + line.Quantity
			if q > ceiling {
				q = ceiling
			}
			if q > st.cart[i].Quantity {
				st.cart[i].Quantity = q
			}
		}
		merged = true
		break
	}

	if !merged {
		if known && line.Quantity > ceiling {
			line.Quantity = ceiling
		}
		if line.Quantity >= 1 {
			st.cart = append(st.cart, line)
		}
	}

	cart := append([]domain.CartLine(nil), st.cart...)
	m.mu.Unlock()

	m.persistCart(ctx, sessionID, cart)
}

// IncrementQuantity raises the matching line's quantity by one while it
// stays under the stock ceiling. Unknown keys and exhausted ceilings are
// silent no-ops.
func (m *Manager) IncrementQuantity(ctx context.Context, sessionID string, key domain.LineKey) {
	st := m.session(ctx, sessionID)

	m.mu.Lock()
	for i := range st.cart {
		if st.cart[i].Key() != key {
			continue
		}
		ceiling, known := m.snapshot.Ceiling(key.ProductID, key.Color, key.Size)
		if known && st.cart[i].Quantity < ceiling {
			st.cart[i].Quantity++
		}
		break
	}
	cart := append([]domain.CartLine(nil), st.cart...)
	m.mu.Unlock()

	m.persistCart(ctx, sessionID, cart)
}

// DecrementQuantity lowers the matching line's quantity by one, never
// below 1. Deleting a line is RemoveFromCart's job.
func (m *Manager) DecrementQuantity(ctx context.Context, sessionID string, key domain.LineKey) {
	st := m.session(ctx, sessionID)

	m.mu.Lock()
	for i := range st.cart {
		if st.cart[i].Key() != key {
			continue
		}
		if st.cart[i].Quantity > 1 {
			st.cart[i].Quantity--
		}
		break
	}
	cart := append([]domain.CartLine(nil), st.cart...)
	m.mu.Unlock()

	m.persistCart(ctx, sessionID, cart)
}

// RemoveFromCart deletes the matching line entirely. Absence is a silent
// no-op.
func (m *Manager) RemoveFromCart(ctx context.Context, sessionID string, key domain.LineKey) {
	st := m.session(ctx, sessionID)

	m.mu.Lock()
	kept := st.cart[:0]
	for _, l := range st.cart {
		if l.Key() != key {
			kept = append(kept, l)
		}
	}
	st.cart = kept
	cart := append([]domain.CartLine(nil), st.cart...)
	m.mu.Unlock()

	m.persistCart(ctx, sessionID, cart)
}

// ClearCart empties the session's cart unconditionally.
func (m *Manager) ClearCart(ctx context.Context, sessionID string) {
	st := m.session(ctx, sessionID)

	m.mu.Lock()
	st.cart = nil
	m.mu.Unlock()

	m.persistCart(ctx, sessionID, nil)
}

// AddToWishlist appends entry unless an entry with the same product ID
// already exists.
func (m *Manager) AddToWishlist(ctx context.Context, sessionID string, entry domain.WishEntry) {
	if entry.ProductID == "" {
		return
	}

	st := m.session(ctx, sessionID)

	m.mu.Lock()
	for _, e := range st.wishlist {
		if e.ProductID == entry.ProductID {
			m.mu.Unlock()
			return
		}
	}
	st.wishlist = append(st.wishlist, entry)
	wishlist := append([]domain.WishEntry(nil), st.wishlist...)
	m.mu.Unlock()

	m.persistWishlist(ctx, sessionID, wishlist)
}

// RemoveFromWishlist removes the entry with the given product ID. Absence
// is a silent no-op.
func (m *Manager) RemoveFromWishlist(ctx context.Context, sessionID string, entry domain.WishEntry) {
	st := m.session(ctx, sessionID)

	m.mu.Lock()
	kept := st.wishlist[:0]
	for _, e := range st.wishlist {
		if e.ProductID != entry.ProductID {
			kept = append(kept, e)
		}
	}
	st.wishlist = kept
	wishlist := append([]domain.WishEntry(nil), st.wishlist...)
	m.mu.Unlock()

	m.persistWishlist(ctx, sessionID, wishlist)
}

// ToggleWishlist adds the entry when absent and removes it when present,
// reporting which action occurred. A user-facing notification carrying
// the product name is emitted for either outcome.
func (m *Manager) ToggleWishlist(ctx context.Context, sessionID string, entry domain.WishEntry) notify.Action {
	st := m.session(ctx, sessionID)

	m.mu.Lock()
	present := false
	for _, e := range st.wishlist {
		if e.ProductID == entry.ProductID {
			present = true
			break
		}
	}
	m.mu.Unlock()

	action := notify.ActionAdded
	if present {
		action = notify.ActionRemoved
		m.RemoveFromWishlist(ctx, sessionID, entry)
	} else {
		m.AddToWishlist(ctx, sessionID, entry)
	}

	if err := m.notifier.WishlistChanged(ctx, sessionID, action, entry); err != nil {
		log.Printf("wishlist notification for session %s: %v", sessionID, err)
	}
	return action
}

func (m *Manager) persistCart(ctx context.Context, sessionID string, cart []domain.CartLine) {
	if err := m.store.SaveCart(ctx, sessionID, cart); err != nil {
		log.Printf("save cart for session %s: %v", sessionID, err)
	}
}

func (m *Manager) persistWishlist(ctx context.Context, sessionID string, wishlist []domain.WishEntry) {
	if err := m.store.SaveWishlist(ctx, sessionID, wishlist); err != nil {
		log.Printf("save wishlist for session %s: %v", sessionID, err)
	}
}
