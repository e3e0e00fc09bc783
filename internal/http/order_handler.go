package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/cart"
	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/order"
)

type OrderPlacer interface {
	Place(ctx context.Context, draft order.Draft) (*order.Order, error)
}

type OrderHandler struct {
	orders OrderPlacer
	repo   order.Repository
	carts  *cart.Store
	logger *slog.Logger
}

func NewOrderHandler(orders OrderPlacer, repo order.Repository, carts *cart.Store, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, repo: repo, carts: carts, logger: logger}
}

type checkoutItem struct {
	ProductID int64           `json:"producto_id"`
	Quantity  int             `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
}

type checkoutRequest struct {
	CustomerName  string         `json:"cliente_nombre"`
	CustomerEmail string         `json:"cliente_email"`
	CustomerPhone string         `json:"cliente_telefono"`
	CartID        string         `json:"cart_id"`
	Items         []checkoutItem `json:"items"`
}

// Checkout places an order for the signed-in user or a guest. The cart is
// cleared only after the order is fully written; a failed placement leaves it
// intact so the customer can retry.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if fields := req.validate(); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	draft := order.Draft{
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
	}
	if req.CustomerPhone != "" {
		draft.CustomerPhone = &req.CustomerPhone
	}
	if identity, ok := identityFrom(r.Context()); ok {
		authID := identity.AuthID
		draft.AuthUserID = &authID
	}

	total := decimal.Zero
	for _, it := range req.Items {
		draft.Lines = append(draft.Lines, order.DraftLine{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	draft.Total = total

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	placed, err := h.orders.Place(ctx, draft)
	if err != nil {
		if errors.Is(err, order.ErrEmptyOrder) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("checkout failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not place order")
		return
	}

	if req.CartID != "" {
		h.carts.Clear(ctx, req.CartID)
	}

	writeJSON(w, http.StatusCreated, placed)
}

// MyOrders lists the signed-in user's order history, newest first.
func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	orders, err := h.repo.ListByUser(ctx, identity.AuthID)
	if err != nil {
		h.logger.Error("list user orders failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load orders")
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("orderId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.repo.GetByID(ctx, id)
	if err != nil {
		h.logger.Error("get order failed", "error", err, "order_id", id)
		writeError(w, http.StatusInternalServerError, "could not load order")
		return
	}
	if o == nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	writeJSON(w, http.StatusOK, o)
}

// ListOrders is the back-office view; ?estado= narrows to one status.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	var filter order.Status
	if raw := r.URL.Query().Get("estado"); raw != "" {
		filter = order.Status(raw)
		if !filter.Valid() {
			writeError(w, http.StatusBadRequest, "unknown estado")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	orders, err := h.repo.List(ctx, filter)
	if err != nil {
		h.logger.Error("list orders failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load orders")
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("orderId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var body struct {
		Status order.Status `json:"estado"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if !body.Status.Valid() {
		writeError(w, http.StatusBadRequest, "unknown estado")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.repo.UpdateStatus(ctx, id, body.Status); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("update order status failed", "error", err, "order_id", id)
		writeError(w, http.StatusInternalServerError, "could not update order")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"id": id, "estado": body.Status})
}
