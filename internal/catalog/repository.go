package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/db"
)

var ErrNotFound = errors.New("product not found")

type Repository interface {
	ListActive(ctx context.Context, category string) ([]Product, error)
	Featured(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int64) (Product, error)
	List(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, p Product) (Product, error)
	Delete(ctx context.Context, id int64) error
}

type PostgresRepository struct {
	pool db.Pool
}

func NewPostgresRepository(pool db.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const productColumns = `id, nombre, descripcion, precio, categoria, imagen_url, activo, fecha_creacion`

// ListActive returns the sellable products ordered by name; category is an
// optional filter.
func (r *PostgresRepository) ListActive(ctx context.Context, category string) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos WHERE activo = TRUE ORDER BY nombre`
	args := []any{}
	if category != "" {
		query = `SELECT ` + productColumns + ` FROM productos WHERE activo = TRUE AND categoria = $1 ORDER BY nombre`
		args = append(args, category)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select productos: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// Featured returns the three most expensive active products, the storefront's
// front-page selection.
func (r *PostgresRepository) Featured(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM productos WHERE activo = TRUE ORDER BY precio DESC LIMIT 3`)
	if err != nil {
		return nil, fmt.Errorf("select destacados: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (Product, error) {
	var p Product
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM productos WHERE id = $1`, id)
	if err := scanProduct(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("select producto: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM productos ORDER BY nombre`)
	if err != nil {
		return nil, fmt.Errorf("select productos: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *PostgresRepository) Create(ctx context.Context, p Product) (Product, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO productos (nombre, descripcion, precio, categoria, imagen_url, activo)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+productColumns,
		p.Name, p.Description, p.Price, p.Category, p.ImageURL, p.Active,
	)

	var created Product
	if err := scanProduct(row, &created); err != nil {
		return Product{}, fmt.Errorf("insert producto: %w", err)
	}
	return created, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p Product) (Product, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE productos
		SET nombre = $2, descripcion = $3, precio = $4, categoria = $5, imagen_url = $6, activo = $7
		WHERE id = $1
		RETURNING `+productColumns,
		p.ID, p.Name, p.Description, p.Price, p.Category, p.ImageURL, p.Active,
	)

	var updated Product
	if err := scanProduct(row, &updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("update producto: %w", err)
	}
	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM productos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete producto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row, p *Product) error {
	return row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.ImageURL, &p.Active, &p.CreatedAt)
}

func scanProducts(rows pgx.Rows) ([]Product, error) {
	var products []Product
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scan producto: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return products, nil
}
