package contact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/db"
)

var ErrNotFound = errors.New("message not found")

type Repository interface {
	Create(ctx context.Context, m Message) (Message, error)
	List(ctx context.Context) ([]Message, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	Respond(ctx context.Context, id int64, response string) error
}

type PostgresRepository struct {
	pool db.Pool
}

func NewPostgresRepository(pool db.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const messageColumns = `id, nombre, telefono, email, mensaje, estado, respuesta, fecha_respuesta, fecha_creacion`

func (r *PostgresRepository) Create(ctx context.Context, m Message) (Message, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO mensajes_contacto (nombre, telefono, email, mensaje, estado)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+messageColumns,
		m.Name, m.Phone, m.Email, m.Body, StatusPending,
	)

	var created Message
	if err := scanMessage(row, &created); err != nil {
		return Message{}, fmt.Errorf("insert mensaje: %w", err)
	}
	return created, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Message, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+messageColumns+` FROM mensajes_contacto ORDER BY fecha_creacion DESC`)
	if err != nil {
		return nil, fmt.Errorf("select mensajes: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := scanMessage(rows, &m); err != nil {
			return nil, fmt.Errorf("scan mensaje: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return messages, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE mensajes_contacto SET estado = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update estado: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Respond stores the reply and marks the message answered in one step.
func (r *PostgresRepository) Respond(ctx context.Context, id int64, response string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE mensajes_contacto
		SET estado = $2, respuesta = $3, fecha_respuesta = $4
		WHERE id = $1`,
		id, StatusResponded, response, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("update respuesta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanMessage(row pgx.Row, m *Message) error {
	return row.Scan(&m.ID, &m.Name, &m.Phone, &m.Email, &m.Body, &m.Status,
		&m.Response, &m.RespondedAt, &m.CreatedAt)
}
