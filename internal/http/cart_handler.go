package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/cart"
)

// CartHandler exposes the cart state store over HTTP. The cart ID is an
// opaque value the client generates and keeps; every mutation responds with
// the resulting snapshot so the client never has to re-fetch.
type CartHandler struct {
	store *cart.Store
}

func NewCartHandler(store *cart.Store) *CartHandler {
	return &CartHandler{store: store}
}

func cartID(r *http.Request) string {
	return r.PathValue("cartId")
}

func productIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("productId"), 10, 64)
	return id, err == nil && id > 0
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	id := cartID(r)
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing cartId")
		return
	}

	writeJSON(w, http.StatusOK, h.store.Get(r.Context(), id))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id := cartID(r)
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing cartId")
		return
	}

	var body struct {
		ProductID int64           `json:"producto_id"`
		Name      string          `json:"nombre"`
		UnitPrice decimal.Decimal `json:"precio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.ProductID <= 0 {
		writeError(w, http.StatusBadRequest, "missing producto_id")
		return
	}

	snap := h.store.AddItem(r.Context(), id, body.ProductID, body.Name, body.UnitPrice)
	writeJSON(w, http.StatusOK, snap)
}

func (h *CartHandler) IncrementItem(w http.ResponseWriter, r *http.Request) {
	id := cartID(r)
	productID, ok := productIDParam(r)
	if id == "" || !ok {
		writeError(w, http.StatusBadRequest, "missing cartId or productId")
		return
	}

	writeJSON(w, http.StatusOK, h.store.IncrementItem(r.Context(), id, productID))
}

func (h *CartHandler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	id := cartID(r)
	productID, ok := productIDParam(r)
	if id == "" || !ok {
		writeError(w, http.StatusBadRequest, "missing cartId or productId")
		return
	}

	writeJSON(w, http.StatusOK, h.store.DecrementItem(r.Context(), id, productID))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id := cartID(r)
	productID, ok := productIDParam(r)
	if id == "" || !ok {
		writeError(w, http.StatusBadRequest, "missing cartId or productId")
		return
	}

	var body struct {
		Quantity int `json:"cantidad"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	writeJSON(w, http.StatusOK, h.store.UpdateQuantity(r.Context(), id, productID, body.Quantity))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := cartID(r)
	productID, ok := productIDParam(r)
	if id == "" || !ok {
		writeError(w, http.StatusBadRequest, "missing cartId or productId")
		return
	}

	writeJSON(w, http.StatusOK, h.store.RemoveItem(r.Context(), id, productID))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	id := cartID(r)
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing cartId")
		return
	}

	writeJSON(w, http.StatusOK, h.store.Clear(r.Context(), id))
}
