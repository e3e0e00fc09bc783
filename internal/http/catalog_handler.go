package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/catalog"
)

type CatalogHandler struct {
	repo   catalog.Repository
	logger *slog.Logger
}

func NewCatalogHandler(repo catalog.Repository, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{repo: repo, logger: logger}
}

// ListProducts serves the public shop page; ?categoria= narrows the listing
// and only active products are returned.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	products, err := h.repo.ListActive(ctx, r.URL.Query().Get("categoria"))
	if err != nil {
		h.logger.Error("list products failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load products")
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// FeaturedProducts serves the home-page highlight strip.
func (h *CatalogHandler) FeaturedProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	products, err := h.repo.Featured(ctx)
	if err != nil {
		h.logger.Error("featured products failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load products")
		return
	}

	writeJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("productId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("get product failed", "error", err, "product_id", id)
		writeError(w, http.StatusInternalServerError, "could not load product")
		return
	}

	writeJSON(w, http.StatusOK, p)
}
