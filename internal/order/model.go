package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID            int64           `json:"id"`
	AuthUserID    *uuid.UUID      `json:"auth_user_id"`
	CustomerEmail *string         `json:"cliente_email"`
	CustomerName  string          `json:"cliente_nombre"`
	CustomerPhone *string         `json:"cliente_telefono"`
	Status        Status          `json:"estado"`
	Total         decimal.Decimal `json:"total"`
	CreatedAt     time.Time       `json:"fecha_creacion"`
	Items         []Item          `json:"items_pedido,omitempty"`
}

type Item struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"pedido_id"`
	ProductID int64           `json:"producto_id"`
	Quantity  int             `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`

	// product info joined on reads, for display
	Product *ProductInfo `json:"productos,omitempty"`
}

type ProductInfo struct {
	Name     string  `json:"nombre"`
	Category *string `json:"categoria"`
	ImageURL *string `json:"imagen_url"`
}

// Draft is the checkout input: customer contact fields plus the cart lines
// being converted into an order.
type Draft struct {
	AuthUserID    *uuid.UUID
	CustomerEmail string
	CustomerName  string
	CustomerPhone *string
	Total         decimal.Decimal
	Lines         []DraftLine
}

type DraftLine struct {
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}
