package auth

import (
	"time"

	"github.com/google/uuid"
)

// Account is the raw credential record, separate from the user profile that
// carries the role. Mirrors the auth-provider/profile split of the hosted
// backend the storefront originally ran on.
type Account struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type Session struct {
	Token     uuid.UUID
	AuthID    uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Identity is the signed-in principal as seen by handlers.
type Identity struct {
	AuthID uuid.UUID `json:"auth_id"`
	Email  string    `json:"email"`
}
