package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Catalog *CatalogHandler
	Cart    *CartHandler
	Orders  *OrderHandler
	Auth    *AuthHandler
	Contact *ContactHandler
	Widget  *WidgetHandler
	Admin   *AdminHandler
	Gate    *Gate
}

func NewRouter(h Handlers, allowOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(CORS(allowOrigins))

	r.Get("/health", healthHandler)

	r.Route("/api/productos", func(r chi.Router) {
		r.Get("/", h.Catalog.ListProducts)
		r.Get("/destacados", h.Catalog.FeaturedProducts)
		r.Get("/{productId}", h.Catalog.GetProduct)
	})

	r.Route("/api/cart/{cartId}", func(r chi.Router) {
		r.Get("/", h.Cart.GetCart)
		r.Delete("/", h.Cart.ClearCart)
		r.Post("/items", h.Cart.AddItem)
		r.Post("/items/{productId}/increment", h.Cart.IncrementItem)
		r.Post("/items/{productId}/decrement", h.Cart.DecrementItem)
		r.Put("/items/{productId}", h.Cart.UpdateQuantity)
		r.Delete("/items/{productId}", h.Cart.RemoveItem)
	})

	r.Route("/api/pedidos", func(r chi.Router) {
		r.With(h.Gate.Optional).Post("/", h.Orders.Checkout)
		r.With(h.Gate.RequireUser).Get("/", h.Orders.MyOrders)
		r.With(h.Gate.RequireUser).Get("/{orderId}", h.Orders.GetOrder)
	})

	r.Post("/api/contacto", h.Contact.Submit)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", h.Auth.SignUp)
		r.Post("/signin", h.Auth.SignIn)
		r.Post("/signout", h.Auth.SignOut)
		r.Get("/session", h.Auth.Session)
	})

	r.Get("/api/chatbase", h.Widget.PublicConfig)

	// Setup bootstraps the first administrator, so it sits outside the gate.
	r.Post("/api/admin/setup", h.Admin.Setup)

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(h.Gate.RequireAdmin)

		r.Get("/productos", h.Admin.ListAllProducts)
		r.Post("/productos", h.Admin.CreateProduct)
		r.Put("/productos/{productId}", h.Admin.UpdateProduct)
		r.Delete("/productos/{productId}", h.Admin.DeleteProduct)

		r.Get("/pedidos", h.Orders.ListOrders)
		r.Patch("/pedidos/{orderId}/estado", h.Orders.UpdateStatus)

		r.Get("/usuarios", h.Admin.ListUsers)
		r.Patch("/usuarios/{userId}/rol", h.Admin.UpdateUserRole)

		r.Get("/mensajes", h.Contact.ListMessages)
		r.Patch("/mensajes/{messageId}/estado", h.Contact.UpdateMessageStatus)
		r.Post("/mensajes/{messageId}/respuesta", h.Contact.Respond)

		r.Get("/dashboard", h.Admin.Dashboard)

		r.Get("/chatbase", h.Admin.GetWidgetConfig)
		r.Put("/chatbase", h.Admin.SaveWidgetConfig)
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "storefront",
	})
}
