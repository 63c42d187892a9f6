package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/craftline/storefront/internal/domain"
	"github.com/craftline/storefront/internal/manager"
	"github.com/go-chi/chi/v5"
)

type WishlistHandler struct {
	manager *manager.Manager
	timeout time.Duration
}

func NewWishlistHandler(manager *manager.Manager, timeout time.Duration) *WishlistHandler {
	return &WishlistHandler{
		manager: manager,
		timeout: timeout,
	}
}

type WishEntryRequestDTO struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"image_url"`
}

type WishlistResponseDTO struct {
	SessionID string             `json:"session_id"`
	Items     []domain.WishEntry `json:"items"`
}

type ToggleResponseDTO struct {
	SessionID string             `json:"session_id"`
	Action    string             `json:"action"`
	Items     []domain.WishEntry `json:"items"`
}

func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session identifier")
		return
	}

	respondJSON(w, http.StatusOK, WishlistResponseDTO{
		SessionID: sessionID,
		Items:     h.manager.Wishlist(ctx, sessionID),
	})
}

func (h *WishlistHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session identifier")
		return
	}

	entry, ok := wishEntryFromBody(w, r)
	if !ok {
		return
	}

	h.manager.AddToWishlist(ctx, sessionID, entry)

	respondJSON(w, http.StatusCreated, WishlistResponseDTO{
		SessionID: sessionID,
		Items:     h.manager.Wishlist(ctx, sessionID),
	})
}

func (h *WishlistHandler) RemoveEntry(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session identifier")
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must not be empty")
		return
	}

	h.manager.RemoveFromWishlist(ctx, sessionID, domain.WishEntry{ProductID: productID})

	respondJSON(w, http.StatusOK, WishlistResponseDTO{
		SessionID: sessionID,
		Items:     h.manager.Wishlist(ctx, sessionID),
	})
}

// Toggle flips the entry's presence and reports whether it was added or
// removed, so the storefront can render the matching toast.
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session identifier")
		return
	}

	entry, ok := wishEntryFromBody(w, r)
	if !ok {
		return
	}

	action := h.manager.ToggleWishlist(ctx, sessionID, entry)

	respondJSON(w, http.StatusOK, ToggleResponseDTO{
		SessionID: sessionID,
		Action:    string(action),
		Items:     h.manager.Wishlist(ctx, sessionID),
	})
}

func wishEntryFromBody(w http.ResponseWriter, r *http.Request) (domain.WishEntry, bool) {
	var req WishEntryRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return domain.WishEntry{}, false
	}

	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must not be empty")
		return domain.WishEntry{}, false
	}

	return domain.WishEntry{
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     req.Price,
		ImageURL:  req.ImageURL,
	}, true
}
