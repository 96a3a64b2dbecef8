package models

import (
	"time"

	"github.com/google/uuid"
)

// User rows mirror accounts held by the external identity provider.
// Credentials never live here; rows are provisioned from validated claims.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
