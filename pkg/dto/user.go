package dto

import "github.com/google/uuid"

type UpdateUserRequest struct {
	Name string `json:"name"`
}

type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}
