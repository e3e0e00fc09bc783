package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/db"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrSessionNotFound = errors.New("session not found")
)

type AccountRepository interface {
	Create(ctx context.Context, a Account) error
	GetByEmail(ctx context.Context, email string) (Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
}

type SessionRepository interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, token uuid.UUID) (Session, error)
	Delete(ctx context.Context, token uuid.UUID) error
}

type PostgresAccountRepository struct {
	pool db.Pool
}

func NewPostgresAccountRepository(pool db.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

func (r *PostgresAccountRepository) Create(ctx context.Context, a Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cuentas (id, email, password_hash) VALUES ($1, $2, $3)`,
		a.ID, a.Email, a.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("insert cuenta: %w", err)
	}
	return nil
}

func (r *PostgresAccountRepository) GetByEmail(ctx context.Context, email string) (Account, error) {
	var a Account
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, fecha_creacion FROM cuentas WHERE email = $1`,
		email,
	).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, fmt.Errorf("select cuenta: %w", err)
	}
	return a, nil
}

func (r *PostgresAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (Account, error) {
	var a Account
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, fecha_creacion FROM cuentas WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, fmt.Errorf("select cuenta: %w", err)
	}
	return a, nil
}

type PostgresSessionRepository struct {
	pool db.Pool
}

func NewPostgresSessionRepository(pool db.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

func (r *PostgresSessionRepository) Create(ctx context.Context, s Session) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sesiones (token, auth_id, expira) VALUES ($1, $2, $3)`,
		s.Token, s.AuthID, s.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert sesion: %w", err)
	}
	return nil
}

func (r *PostgresSessionRepository) Get(ctx context.Context, token uuid.UUID) (Session, error) {
	var s Session
	err := r.pool.QueryRow(ctx, `
		SELECT token, auth_id, expira, fecha_creacion FROM sesiones WHERE token = $1`,
		token,
	).Scan(&s.Token, &s.AuthID, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, ErrSessionNotFound
		}
		return Session{}, fmt.Errorf("select sesion: %w", err)
	}
	return s, nil
}

func (r *PostgresSessionRepository) Delete(ctx context.Context, token uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM sesiones WHERE token = $1`, token); err != nil {
		return fmt.Errorf("delete sesion: %w", err)
	}
	return nil
}
