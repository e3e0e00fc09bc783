package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"nombre"`
	Description *string         `json:"descripcion"`
	Price       decimal.Decimal `json:"precio"`
	Category    *string         `json:"categoria"`
	ImageURL    *string         `json:"imagen_url"`
	Active      bool            `json:"activo"`
	CreatedAt   time.Time       `json:"fecha_creacion"`
}
