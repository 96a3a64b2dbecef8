package handlers

import (
	"context"
	"errors"

	"github.com/dimitrije/taskhub-api/internal/middleware"
	"github.com/dimitrije/taskhub-api/internal/models"
	"github.com/dimitrije/taskhub-api/internal/services"
	"github.com/dimitrije/taskhub-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type InvitationHandler struct {
	invitationService InvitationServiceInterface
	projectService    ProjectServiceInterface
}

func NewInvitationHandler(invitationService InvitationServiceInterface, projectService ProjectServiceInterface) *InvitationHandler {
	return &InvitationHandler{
		invitationService: invitationService,
		projectService:    projectService,
	}
}

func (h *InvitationHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid project id")
		return
	}

	role, err := h.projectService.RoleOf(context.Background(), projectID, userID)
	if err != nil || !models.CanManageMembers(role) {
		c.Forbidden("only owner or admin can invite")
		return
	}

	var req dto.CreateInvitationRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Email == "" {
		c.BadRequest("email is required")
		return
	}

	invitation, err := h.invitationService.Create(context.Background(), projectID, req.Email, userID)
	if err != nil && !errors.Is(err, services.ErrInviteEmailFailed) {
		respondServiceError(c, err)
		return
	}

	response := invitationResponse(invitation)
	if errors.Is(err, services.ErrInviteEmailFailed) {
		// Persisted but undelivered; the caller can re-send the link manually.
		response.Warning = "invitation created but email delivery failed"
	}

	_ = c.JSON(201, response)
}

func (h *InvitationHandler) ListProject(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid project id")
		return
	}

	isMember, err := h.projectService.IsMember(context.Background(), projectID, userID)
	if err != nil {
		c.InternalServerError("failed to get invitations")
		return
	}
	if !isMember {
		c.Forbidden("not a project member")
		return
	}

	invitations, err := h.invitationService.GetProjectPending(context.Background(), projectID)
	if err != nil {
		c.InternalServerError("failed to get invitations")
		return
	}

	response := make([]dto.InvitationResponse, len(invitations))
	for i := range invitations {
		response[i] = invitationResponse(&invitations[i])
	}

	_ = c.JSON(200, response)
}

func (h *InvitationHandler) Cancel(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid project id")
		return
	}

	invitationID, err := uuid.Parse(c.Param("invitationId"))
	if err != nil {
		c.BadRequest("invalid invitation id")
		return
	}

	role, err := h.projectService.RoleOf(context.Background(), projectID, userID)
	if err != nil || !models.CanManageMembers(role) {
		c.Forbidden("only owner or admin can cancel invitations")
		return
	}

	if err := h.invitationService.Cancel(context.Background(), invitationID, projectID); err != nil {
		respondServiceError(c, err)
		return
	}

	_ = c.JSON(200, map[string]string{"message": "invitation cancelled"})
}

// ListMine returns pending invitations addressed to the caller's email.
func (h *InvitationHandler) ListMine(c *drift.Context) {
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

	invitations, err := h.invitationService.GetPendingForEmail(context.Background(), email)
	if err != nil {
		c.InternalServerError("failed to get invitations")
		return
	}

	response := make([]dto.InvitationResponse, len(invitations))
	for i := range invitations {
		response[i] = invitationResponse(&invitations[i])
	}

	_ = c.JSON(200, response)
}

func (h *InvitationHandler) Accept(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	token := c.QueryParam("token")
	if token == "" {
		var req dto.AcceptInvitationRequest
		if err := c.BindJSON(&req); err == nil {
			token = req.Token
		}
	}
	if token == "" {
		c.BadRequest("token is required")
		return
	}

	accepted, err := h.invitationService.Accept(context.Background(), token, userID)
	if err != nil {
		c.InternalServerError("failed to accept invitation")
		return
	}

	if !accepted {
		c.BadRequest("invitation is invalid, expired, or not addressed to you")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "invitation accepted"})
}

// Validate is public: the redemption page checks the token before asking the
// visitor to sign in.
func (h *InvitationHandler) Validate(c *drift.Context) {
	token := c.QueryParam("token")
	if token == "" {
		c.BadRequest("token is required")
		return
	}

	valid, err := h.invitationService.IsValid(context.Background(), token)
	if err != nil {
		c.InternalServerError("failed to validate invitation")
		return
	}

	_ = c.JSON(200, map[string]bool{"valid": valid})
}

func invitationResponse(invitation *models.Invitation) dto.InvitationResponse {
	resp := dto.InvitationResponse{
		ID:        invitation.ID,
		ProjectID: invitation.ProjectID,
		Email:     invitation.Email,
		Status:    invitation.Status,
		CreatedAt: invitation.CreatedAt,
		ExpiresAt: invitation.ExpiresAt,
	}
	if invitation.Project != nil {
		resp.Project = &dto.ProjectResponse{
			ID:          invitation.Project.ID,
			Name:        invitation.Project.Name,
			Description: invitation.Project.Description,
			OwnerID:     invitation.Project.OwnerID,
			CreatedAt:   invitation.Project.CreatedAt,
		}
	}
	if invitation.Inviter != nil {
		resp.Inviter = &dto.UserResponse{
			ID:    invitation.Inviter.ID,
			Email: invitation.Inviter.Email,
			Name:  invitation.Inviter.Name,
		}
	}
	return resp
}
