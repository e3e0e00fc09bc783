// Package report serves the read-only aggregates behind the admin dashboard.
package report

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/db"
	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/order"
)

type Stats struct {
	TotalProducts   int                  `json:"total_productos"`
	TotalUsers      int                  `json:"total_usuarios"`
	TotalOrders     int                  `json:"total_pedidos"`
	PendingOrders   int                  `json:"pedidos_pendientes"`
	CompletedOrders int                  `json:"pedidos_completados"`
	OrdersByStatus  map[order.Status]int `json:"pedidos_por_estado"`
	TotalRevenue    decimal.Decimal      `json:"ingresos_totales"`
	RecentOrders    []order.Order        `json:"pedidos_recientes"`
}

type Repository interface {
	Dashboard(ctx context.Context) (Stats, error)
}

type PostgresRepository struct {
	pool db.Pool
}

func NewPostgresRepository(pool db.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Dashboard(ctx context.Context) (Stats, error) {
	stats := Stats{OrdersByStatus: make(map[order.Status]int)}

	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM productos`).Scan(&stats.TotalProducts); err != nil {
		return Stats{}, fmt.Errorf("count productos: %w", err)
	}
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM usuarios`).Scan(&stats.TotalUsers); err != nil {
		return Stats{}, fmt.Errorf("count usuarios: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT estado, count(*) FROM pedidos GROUP BY estado`)
	if err != nil {
		return Stats{}, fmt.Errorf("count pedidos: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status order.Status
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return Stats{}, fmt.Errorf("scan estado count: %w", err)
		}
		stats.OrdersByStatus[status] = n
		stats.TotalOrders += n
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("rows: %w", err)
	}
	stats.PendingOrders = stats.OrdersByStatus[order.StatusPending]
	stats.CompletedOrders = stats.OrdersByStatus[order.StatusCompleted]

	err = r.pool.QueryRow(ctx,
		`SELECT COALESCE(sum(total), 0) FROM pedidos WHERE estado = $1`, order.StatusCompleted,
	).Scan(&stats.TotalRevenue)
	if err != nil {
		return Stats{}, fmt.Errorf("sum ingresos: %w", err)
	}

	recent, err := r.recentOrders(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats.RecentOrders = recent

	return stats, nil
}

func (r *PostgresRepository) recentOrders(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, auth_user_id, cliente_email, cliente_nombre, cliente_telefono, estado, total, fecha_creacion
		FROM pedidos ORDER BY fecha_creacion DESC LIMIT 5`)
	if err != nil {
		return nil, fmt.Errorf("select pedidos recientes: %w", err)
	}
	defer rows.Close()

	var orders []order.Order
	for rows.Next() {
		var o order.Order
		if err := rows.Scan(&o.ID, &o.AuthUserID, &o.CustomerEmail, &o.CustomerName, &o.CustomerPhone,
			&o.Status, &o.Total, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pedido: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return orders, nil
}
