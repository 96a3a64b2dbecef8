package handlers

import (
	"context"

	"github.com/dimitrije/taskhub-api/internal/middleware"
	"github.com/dimitrije/taskhub-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type UserHandler struct {
	userService UserServiceInterface
}

func NewUserHandler(userService UserServiceInterface) *UserHandler {
	return &UserHandler{userService: userService}
}

// EnsureMe provisions the local user row from the caller's validated claims.
// Idempotent: repeated calls refresh email and name.
func (h *UserHandler) EnsureMe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	email := middleware.GetUserEmail(c)
	if email == "" {
		c.BadRequest("token has no email claim")
		return
	}

	name := middleware.GetUserName(c)
	if name == "" {
		name = email
	}

	user, err := h.userService.FindOrCreate(context.Background(), userID, email, name)
	if err != nil {
		c.InternalServerError("failed to sync user")
		return
	}

	_ = c.JSON(200, dto.UserResponse{ID: user.ID, Email: user.Email, Name: user.Name})
}

func (h *UserHandler) GetMe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	user, err := h.userService.GetByID(context.Background(), userID)
	if err != nil {
		c.NotFound("user not found")
		return
	}

	_ = c.JSON(200, dto.UserResponse{ID: user.ID, Email: user.Email, Name: user.Name})
}

func (h *UserHandler) UpdateMe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.UpdateUserRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	user, err := h.userService.Update(context.Background(), userID, req.Name)
	if err != nil {
		c.InternalServerError("failed to update user")
		return
	}

	_ = c.JSON(200, dto.UserResponse{ID: user.ID, Email: user.Email, Name: user.Name})
}
