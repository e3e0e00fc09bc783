package user

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Profile is the application-level record behind an auth account. The role
// lookup for the admin gate resolves through it.
type Profile struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"nombre"`
	Phone     *string   `json:"telefono"`
	Role      Role      `json:"rol"`
	AuthID    uuid.UUID `json:"auth_id"`
	CreatedAt time.Time `json:"fecha_creacion"`
}
