package contact

import "time"

type Status string

const (
	StatusPending    Status = "pendiente"
	StatusInProgress Status = "en_proceso"
	StatusResponded  Status = "respondido"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResponded:
		return true
	}
	return false
}

type Message struct {
	ID          int64      `json:"id"`
	Name        string     `json:"nombre"`
	Phone       string     `json:"telefono"`
	Email       string     `json:"email"`
	Body        string     `json:"mensaje"`
	Status      Status     `json:"estado"`
	Response    *string    `json:"respuesta,omitempty"`
	RespondedAt *time.Time `json:"fecha_respuesta,omitempty"`
	CreatedAt   time.Time  `json:"fecha_creacion"`
}
