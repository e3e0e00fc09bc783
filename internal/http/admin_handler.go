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

	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/auth"
	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/catalog"
	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/chatwidget"
	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/report"
	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/user"
)

type AdminSetup interface {
	CreateAdmin(ctx context.Context, email, password, name, phone string) (auth.SetupResult, error)
}

// AdminHandler backs the back-office screens: product management, user
// roles, the dashboard and the chat widget configuration.
type AdminHandler struct {
	products catalog.Repository
	users    user.Repository
	reports  report.Repository
	widget   *chatwidget.Service
	setup    AdminSetup
	logger   *slog.Logger
}

func NewAdminHandler(
	products catalog.Repository,
	users user.Repository,
	reports report.Repository,
	widget *chatwidget.Service,
	setup AdminSetup,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		products: products,
		users:    users,
		reports:  reports,
		widget:   widget,
		setup:    setup,
		logger:   logger,
	}
}

type productRequest struct {
	Name        string          `json:"nombre"`
	Description *string         `json:"descripcion"`
	Price       decimal.Decimal `json:"precio"`
	Category    *string         `json:"categoria"`
	ImageURL    *string         `json:"imagen_url"`
	Active      *bool           `json:"activo"`
}

func (p productRequest) validate() map[string]string {
	fields := make(map[string]string)
	if !lengthBetween(p.Name, 2, 100) {
		fields["nombre"] = "name must be between 2 and 100 characters"
	}
	if !p.Price.IsPositive() {
		fields["precio"] = "price must be positive"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (p productRequest) toProduct() catalog.Product {
	out := catalog.Product{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		Active:      true,
	}
	if p.Active != nil {
		out.Active = *p.Active
	}
	return out
}

func (h *AdminHandler) ListAllProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	products, err := h.products.List(ctx)
	if err != nil {
		h.logger.Error("admin list products failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load products")
		return
	}

	writeJSON(w, http.StatusOK, products)
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if fields := req.validate(); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	created, err := h.products.Create(ctx, req.toProduct())
	if err != nil {
		h.logger.Error("create product failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not create product")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("productId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if fields := req.validate(); fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	product := req.toProduct()
	product.ID = id

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	updated, err := h.products.Update(ctx, product)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("update product failed", "error", err, "product_id", id)
		writeError(w, http.StatusInternalServerError, "could not update product")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("productId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.products.Delete(ctx, id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("delete product failed", "error", err, "product_id", id)
		writeError(w, http.StatusInternalServerError, "could not delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	users, err := h.users.List(ctx)
	if err != nil {
		h.logger.Error("list users failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load users")
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("userId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var body struct {
		Role user.Role `json:"rol"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if !body.Role.Valid() {
		writeError(w, http.StatusBadRequest, "unknown rol")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.users.UpdateRole(ctx, id, body.Role); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("update user role failed", "error", err, "user_id", id)
		writeError(w, http.StatusInternalServerError, "could not update role")
		return
	}

	if admin, ok := profileFrom(r.Context()); ok {
		h.logger.Info("user role changed", "user_id", id, "rol", body.Role, "changed_by", admin.Email)
	}

	writeJSON(w, http.StatusOK, map[string]any{"id": id, "rol": body.Role})
}

// Setup provisions the first administrator. It reports partial success with
// 207 when the account was created but the profile write failed.
func (h *AdminHandler) Setup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if !validEmail(req.Email) || len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "email and a password of at least 6 characters are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := h.setup.CreateAdmin(ctx, req.Email, req.Password, req.Name, req.Phone)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		h.logger.Error("admin setup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not create administrator")
		return
	}

	status := http.StatusCreated
	if result.PartialSuccess {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, result)
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	stats, err := h.reports.Dashboard(ctx)
	if err != nil {
		h.logger.Error("dashboard failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load dashboard")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) GetWidgetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.widget.Load(r.Context()))
}

func (h *AdminHandler) SaveWidgetConfig(w http.ResponseWriter, r *http.Request) {
	var cfg chatwidget.Settings
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if cfg.ChatbotID == "" {
		cfg.ChatbotID = chatwidget.DefaultChatbotID
	}

	if err := h.widget.Save(r.Context(), cfg); err != nil {
		h.logger.Error("save widget config failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not save configuration")
		return
	}

	writeJSON(w, http.StatusOK, cfg)
}
