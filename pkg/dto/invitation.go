package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateInvitationRequest struct {
	Email string `json:"email"`
}

type AcceptInvitationRequest struct {
	Token string `json:"token"`
}

type InvitationResponse struct {
	ID        uuid.UUID        `json:"id"`
	ProjectID uuid.UUID        `json:"project_id"`
	Email     string           `json:"email"`
	Status    string           `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	ExpiresAt time.Time        `json:"expires_at"`
	Project   *ProjectResponse `json:"project,omitempty"`
	Inviter   *UserResponse    `json:"inviter,omitempty"`
	Warning   string           `json:"warning,omitempty"`
}
