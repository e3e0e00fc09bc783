package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/auth"
	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/cart"
	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/catalog"
	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/chatwidget"
	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/contact"
	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/kv"
	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/report"
	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/user"
)

type fakeCatalogRepo struct {
	products []catalog.Product
}

func (f *fakeCatalogRepo) ListActive(ctx context.Context, category string) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range f.products {
		if !p.Active {
			continue
		}
		if category != "" && (p.Category == nil || *p.Category != category) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeCatalogRepo) Featured(ctx context.Context) ([]catalog.Product, error) {
	return f.ListActive(ctx, "")
}

func (f *fakeCatalogRepo) Get(ctx context.Context, id int64) (catalog.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return catalog.Product{}, catalog.ErrNotFound
}

func (f *fakeCatalogRepo) List(ctx context.Context) ([]catalog.Product, error) {
	return f.products, nil
}

func (f *fakeCatalogRepo) Create(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	p.ID = int64(len(f.products) + 1)
	f.products = append(f.products, p)
	return p, nil
}

func (f *fakeCatalogRepo) Update(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	for i := range f.products {
		if f.products[i].ID == p.ID {
			f.products[i] = p
			return p, nil
		}
	}
	return catalog.Product{}, catalog.ErrNotFound
}

func (f *fakeCatalogRepo) Delete(ctx context.Context, id int64) error {
	for i := range f.products {
		if f.products[i].ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return catalog.ErrNotFound
}

type fakeContactRepo struct {
	messages []contact.Message
}

func (f *fakeContactRepo) Create(ctx context.Context, m contact.Message) (contact.Message, error) {
	m.ID = int64(len(f.messages) + 1)
	m.Status = contact.StatusPending
	f.messages = append(f.messages, m)
	return m, nil
}

func (f *fakeContactRepo) List(ctx context.Context) ([]contact.Message, error) {
	return f.messages, nil
}

func (f *fakeContactRepo) UpdateStatus(ctx context.Context, id int64, status contact.Status) error {
	return nil
}

func (f *fakeContactRepo) Respond(ctx context.Context, id int64, response string) error {
	return nil
}

type fakeUserRepo struct{}

func (f *fakeUserRepo) Create(ctx context.Context, p user.Profile) (user.Profile, error) {
	return p, nil
}

func (f *fakeUserRepo) GetByAuthID(ctx context.Context, authID uuid.UUID) (user.Profile, error) {
	return user.Profile{}, user.ErrNotFound
}

func (f *fakeUserRepo) List(ctx context.Context) ([]user.Profile, error) {
	return nil, nil
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, id int64, role user.Role) error {
	return nil
}

type fakeReportRepo struct{}

func (f *fakeReportRepo) Dashboard(ctx context.Context) (report.Stats, error) {
	return report.Stats{}, nil
}

type fakeAuthService struct{}

func (f *fakeAuthService) SignUp(ctx context.Context, email, password, name, phone string) (auth.Identity, uuid.UUID, error) {
	return auth.Identity{AuthID: uuid.New(), Email: email}, uuid.New(), nil
}

func (f *fakeAuthService) SignIn(ctx context.Context, email, password string) (auth.Identity, uuid.UUID, error) {
	return auth.Identity{}, uuid.Nil, auth.ErrInvalidCredentials
}

func (f *fakeAuthService) SignOut(ctx context.Context, token uuid.UUID) error {
	return nil
}

func (f *fakeAuthService) Identify(ctx context.Context, token uuid.UUID) (auth.Identity, error) {
	return auth.Identity{}, auth.ErrSessionNotFound
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := discardLogger()
	carts := cart.NewStore(kv.NewMemory(), logger)
	widget := chatwidget.NewService(kv.NewMemory(), logger)
	gate := NewGate(&fakeIdentifier{}, &fakeProfiles{})

	price := decimal.RequireFromString("8.50")
	cat := "tartas"
	catalogRepo := &fakeCatalogRepo{products: []catalog.Product{
		{ID: 1, Name: "Tiramisu", Price: price, Category: &cat, Active: true},
	}}

	h := Handlers{
		Catalog: NewCatalogHandler(catalogRepo, logger),
		Cart:    NewCartHandler(carts),
		Orders:  NewOrderHandler(&fakePlacer{}, &fakeOrderRepo{}, carts, logger),
		Auth:    NewAuthHandler(&fakeAuthService{}, &fakeUserRepo{}, logger),
		Contact: NewContactHandler(&fakeContactRepo{}, logger),
		Widget:  NewWidgetHandler(widget),
		Admin:   NewAdminHandler(catalogRepo, &fakeUserRepo{}, &fakeReportRepo{}, widget, nil, logger),
		Gate:    gate,
	}

	return NewRouter(h, []string{"*"})
}

func TestRouter_CartFlow(t *testing.T) {
	router := newTestRouter(t)

	body := `{"producto_id": 1, "nombre": "Tiramisu", "precio": "8.50"}`
	req := httptest.NewRequest(http.MethodPost, "/api/cart/c-1/items", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/cart/c-1/items/1/increment", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/cart/c-1", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var snap cart.Snapshot
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&snap))
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 2, snap.Lines[0].Quantity)
	assert.Equal(t, 2, snap.TotalQuantity)
}

func TestRouter_PublicCatalog(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/productos?categoria=tartas", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var products []catalog.Product
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&products))
	require.Len(t, products, 1)
	assert.Equal(t, "Tiramisu", products[0].Name)
}

func TestRouter_AdminRequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouter_PublicWidgetConfig(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/chatbase", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var cfg chatwidget.Public
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&cfg))
	assert.Equal(t, chatwidget.DefaultChatbotID, cfg.ChatbotID)
	assert.True(t, cfg.Enabled)
}

func TestRouter_ContactValidation(t *testing.T) {
	router := newTestRouter(t)

	body := `{"nombre": "M", "telefono": "1", "email": "bad", "mensaje": "hola"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contacto", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Len(t, resp.Fields, 4)
}
