package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/db"
)

var ErrNotFound = errors.New("profile not found")

type Repository interface {
	Create(ctx context.Context, p Profile) (Profile, error)
	GetByAuthID(ctx context.Context, authID uuid.UUID) (Profile, error)
	List(ctx context.Context) ([]Profile, error)
	UpdateRole(ctx context.Context, id int64, role Role) error
}

type PostgresRepository struct {
	pool db.Pool
}

func NewPostgresRepository(pool db.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const profileColumns = `id, email, nombre, telefono, rol, auth_id, fecha_creacion`

func (r *PostgresRepository) Create(ctx context.Context, p Profile) (Profile, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO usuarios (email, nombre, telefono, rol, auth_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+profileColumns,
		p.Email, p.Name, p.Phone, p.Role, p.AuthID,
	)

	var created Profile
	if err := scanProfile(row, &created); err != nil {
		return Profile{}, fmt.Errorf("insert usuario: %w", err)
	}
	return created, nil
}

func (r *PostgresRepository) GetByAuthID(ctx context.Context, authID uuid.UUID) (Profile, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM usuarios WHERE auth_id = $1`, authID)

	var p Profile
	if err := scanProfile(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("select usuario: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Profile, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+profileColumns+` FROM usuarios ORDER BY fecha_creacion DESC`)
	if err != nil {
		return nil, fmt.Errorf("select usuarios: %w", err)
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var p Profile
		if err := scanProfile(rows, &p); err != nil {
			return nil, fmt.Errorf("scan usuario: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return profiles, nil
}

func (r *PostgresRepository) UpdateRole(ctx context.Context, id int64, role Role) error {
	tag, err := r.pool.Exec(ctx, `UPDATE usuarios SET rol = $2 WHERE id = $1`, id, role)
	if err != nil {
		return fmt.Errorf("update rol: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProfile(row pgx.Row, p *Profile) error {
	return row.Scan(&p.ID, &p.Email, &p.Name, &p.Phone, &p.Role, &p.AuthID, &p.CreatedAt)
}
