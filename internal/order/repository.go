package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/db"
)

var ErrNotFound = errors.New("order not found")

// Repository exposes the header and line writes separately: the placement
// flow in Service owns the ordering and the compensating delete.
type Repository interface {
	CreateHeader(ctx context.Context, d Draft) (Order, error)
	CreateItems(ctx context.Context, orderID int64, lines []DraftLine) error
	DeleteHeader(ctx context.Context, orderID int64) error
	GetByID(ctx context.Context, orderID int64) (*Order, error)
	List(ctx context.Context, status Status) ([]Order, error)
	ListByUser(ctx context.Context, authUserID uuid.UUID) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status Status) error
}

type PostgresRepository struct {
	pool db.Pool
}

func NewPostgresRepository(pool db.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) CreateHeader(ctx context.Context, d Draft) (Order, error) {
	var o Order
	err := r.pool.QueryRow(ctx, `
		INSERT INTO pedidos (auth_user_id, cliente_email, cliente_nombre, cliente_telefono, estado, total)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, auth_user_id, cliente_email, cliente_nombre, cliente_telefono, estado, total, fecha_creacion`,
		d.AuthUserID, d.CustomerEmail, d.CustomerName, d.CustomerPhone, StatusPending, d.Total,
	).Scan(&o.ID, &o.AuthUserID, &o.CustomerEmail, &o.CustomerName, &o.CustomerPhone, &o.Status, &o.Total, &o.CreatedAt)
	if err != nil {
		return Order{}, fmt.Errorf("insert pedido: %w", err)
	}
	return o, nil
}

func (r *PostgresRepository) CreateItems(ctx context.Context, orderID int64, lines []DraftLine) error {
	for _, l := range lines {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO items_pedido (pedido_id, producto_id, cantidad, precio_unitario)
			VALUES ($1, $2, $3, $4)`,
			orderID, l.ProductID, l.Quantity, l.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("insert item_pedido: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) DeleteHeader(ctx context.Context, orderID int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM pedidos WHERE id = $1`, orderID); err != nil {
		return fmt.Errorf("delete pedido: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, orderID int64) (*Order, error) {
	var o Order
	err := r.pool.QueryRow(ctx, `
		SELECT id, auth_user_id, cliente_email, cliente_nombre, cliente_telefono, estado, total, fecha_creacion
		FROM pedidos WHERE id = $1`,
		orderID,
	).Scan(&o.ID, &o.AuthUserID, &o.CustomerEmail, &o.CustomerName, &o.CustomerPhone, &o.Status, &o.Total, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select pedido: %w", err)
	}

	items, err := r.loadItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return &o, nil
}

func (r *PostgresRepository) List(ctx context.Context, status Status) ([]Order, error) {
	query := `
		SELECT id, auth_user_id, cliente_email, cliente_nombre, cliente_telefono, estado, total, fecha_creacion
		FROM pedidos ORDER BY fecha_creacion DESC`
	args := []any{}
	if status != "" {
		query = `
		SELECT id, auth_user_id, cliente_email, cliente_nombre, cliente_telefono, estado, total, fecha_creacion
		FROM pedidos WHERE estado = $1 ORDER BY fecha_creacion DESC`
		args = append(args, status)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select pedidos: %w", err)
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}

	return r.attachItems(ctx, orders)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, authUserID uuid.UUID) ([]Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, auth_user_id, cliente_email, cliente_nombre, cliente_telefono, estado, total, fecha_creacion
		FROM pedidos WHERE auth_user_id = $1 ORDER BY fecha_creacion DESC`,
		authUserID,
	)
	if err != nil {
		return nil, fmt.Errorf("select pedidos: %w", err)
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}

	return r.attachItems(ctx, orders)
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, orderID int64, status Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE pedidos SET estado = $2 WHERE id = $1`, orderID, status)
	if err != nil {
		return fmt.Errorf("update estado: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) loadItems(ctx context.Context, orderID int64) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT i.id, i.pedido_id, i.producto_id, i.cantidad, i.precio_unitario,
		       p.nombre, p.categoria, p.imagen_url
		FROM items_pedido i
		JOIN productos p ON p.id = i.producto_id
		WHERE i.pedido_id = $1
		ORDER BY i.id`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("select items_pedido: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		var info ProductInfo
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice,
			&info.Name, &info.Category, &info.ImageURL); err != nil {
			return nil, fmt.Errorf("scan item_pedido: %w", err)
		}
		it.Product = &info
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return items, nil
}

func (r *PostgresRepository) attachItems(ctx context.Context, orders []Order) ([]Order, error) {
	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func scanOrders(rows pgx.Rows) ([]Order, error) {
	var orders []Order
	for rows.Next() {
		var o Order
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
