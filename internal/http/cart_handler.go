package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/craftline/storefront/internal/domain"
	"github.com/craftline/storefront/internal/manager"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	manager *manager.Manager
	timeout time.Duration
}

func NewCartHandler(manager *manager.Manager, timeout time.Duration) *CartHandler {
	return &CartHandler{
		manager: manager,
		timeout: timeout,
	}
}

type AddLineRequestDTO struct {
	ProductID   string  `json:"product_id"`
	Name        string  `json:"name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	Color       string  `json:"color"`
	Size        string  `json:"size"`
	ImageURL    string  `json:"image_url"`
	Description string  `json:"description"`
}

type CartResponseDTO struct {
	SessionID string            `json:"session_id"`
	Items     []domain.CartLine `json:"items"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session identifier")
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{
		SessionID: sessionID,
		Items:     h.manager.Cart(ctx, sessionID),
	})
}

func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session identifier")
		return
	}

	var req AddLineRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must not be empty")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	h.manager.AddToCart(ctx, sessionID, domain.CartLine{
		ProductID:   req.ProductID,
		Name:        req.Name,
		UnitPrice:   req.UnitPrice,
		Quantity:    req.Quantity,
		Color:       req.Color,
		Size:        req.Size,
		ImageURL:    req.ImageURL,
		Description: req.Description,
	})

	respondJSON(w, http.StatusCreated, CartResponseDTO{
		SessionID: sessionID,
		Items:     h.manager.Cart(ctx, sessionID),
	})
}

func (h *CartHandler) IncrementQuantity(w http.ResponseWriter, r *http.Request) {
	h.adjustQuantity(w, r, h.manager.IncrementQuantity)
}

func (h *CartHandler) DecrementQuantity(w http.ResponseWriter, r *http.Request) {
	h.adjustQuantity(w, r, h.manager.DecrementQuantity)
}

func (h *CartHandler) adjustQuantity(w http.ResponseWriter, r *http.Request, op func(context.Context, string, domain.LineKey)) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session identifier")
		return
	}

	key, ok := lineKeyFromRequest(w, r)
	if !ok {
		return
	}

	op(ctx, sessionID, key)

	respondJSON(w, http.StatusOK, CartResponseDTO{
		SessionID: sessionID,
		Items:     h.manager.Cart(ctx, sessionID),
	})
}

func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session identifier")
		return
	}

	key, ok := lineKeyFromRequest(w, r)
	if !ok {
		return
	}

	h.manager.RemoveFromCart(ctx, sessionID, key)

	respondJSON(w, http.StatusOK, CartResponseDTO{
		SessionID: sessionID,
		Items:     h.manager.Cart(ctx, sessionID),
	})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session identifier")
		return
	}

	h.manager.ClearCart(ctx, sessionID)

	respondJSON(w, http.StatusOK, CartResponseDTO{
		SessionID: sessionID,
		Items:     []domain.CartLine{},
	})
}

// lineKeyFromRequest builds the line identity key from the product_id
// path parameter and the color/size query parameters.
func lineKeyFromRequest(w http.ResponseWriter, r *http.Request) (domain.LineKey, bool) {
	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must not be empty")
		return domain.LineKey{}, false
	}

	return domain.LineKey{
		ProductID: productID,
		Color:     r.URL.Query().Get("color"),
		Size:      r.URL.Query().Get("size"),
	}, true
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: "",
	})
}
