package http

import (
	"context"
	"net/http"
	"time"

	"github.com/craftline/storefront/internal/catalogdb"
)

type ProductHandler struct {
	repo    catalogdb.RepoInterface
	timeout time.Duration
}

func NewProductHandler(repo catalogdb.RepoInterface, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		repo:    repo,
		timeout: timeout,
	}
}

// ListProducts serves the full catalog including per-variation stock.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.repo.ListProducts(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list products")
		return
	}

	respondJSON(w, http.StatusOK, products)
}
