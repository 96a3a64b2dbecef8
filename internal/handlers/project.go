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

type ProjectHandler struct {
	projectService ProjectServiceInterface
}

func NewProjectHandler(projectService ProjectServiceInterface) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

func (h *ProjectHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateProjectRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	project, err := h.projectService.Create(context.Background(), req.Name, req.Description, userID)
	if err != nil {
		c.InternalServerError("failed to create project")
		return
	}

	_ = c.JSON(201, dto.ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		Role:        models.RoleOwner,
		CreatedAt:   project.CreatedAt,
	})
}

func (h *ProjectHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	projects, roles, err := h.projectService.GetUserProjects(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to get projects")
		return
	}

	response := make([]dto.ProjectResponse, len(projects))
	for i, project := range projects {
		response[i] = dto.ProjectResponse{
			ID:          project.ID,
			Name:        project.Name,
			Description: project.Description,
			OwnerID:     project.OwnerID,
			Role:        roles[i],
			CreatedAt:   project.CreatedAt,
		}
	}

	_ = c.JSON(200, response)
}

func (h *ProjectHandler) Get(c *drift.Context) {
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
	if err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			c.Forbidden("not a project member")
			return
		}
		c.InternalServerError("failed to get project")
		return
	}

	project, err := h.projectService.GetByID(context.Background(), projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	_ = c.JSON(200, dto.ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		Role:        role,
		CreatedAt:   project.CreatedAt,
	})
}

func (h *ProjectHandler) Update(c *drift.Context) {
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
	if err != nil || role != models.RoleOwner {
		c.Forbidden("only owner can update project")
		return
	}

	var req dto.UpdateProjectRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	project, err := h.projectService.Update(context.Background(), projectID, req.Name, req.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	_ = c.JSON(200, dto.ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		Role:        models.RoleOwner,
		CreatedAt:   project.CreatedAt,
	})
}

func (h *ProjectHandler) Delete(c *drift.Context) {
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
	if err != nil || role != models.RoleOwner {
		c.Forbidden("only owner can delete project")
		return
	}

	if err := h.projectService.Delete(context.Background(), projectID); err != nil {
		respondServiceError(c, err)
		return
	}

	_ = c.JSON(200, map[string]string{"message": "project deleted"})
}

func (h *ProjectHandler) GetMembers(c *drift.Context) {
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
		c.InternalServerError("failed to get members")
		return
	}
	if !isMember {
		c.Forbidden("not a project member")
		return
	}

	members, err := h.projectService.GetMembers(context.Background(), projectID)
	if err != nil {
		c.InternalServerError("failed to get members")
		return
	}

	response := make([]dto.ProjectMemberResponse, len(members))
	for i, m := range members {
		response[i] = dto.ProjectMemberResponse{
			ID:       m.ID,
			UserID:   m.UserID,
			Role:     m.Role,
			JoinedAt: m.CreatedAt,
			User: dto.UserResponse{
				ID:    m.User.ID,
				Email: m.User.Email,
				Name:  m.User.Name,
			},
		}
	}

	_ = c.JSON(200, response)
}

func (h *ProjectHandler) AddMember(c *drift.Context) {
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

	var req dto.AddMemberRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.UserID == uuid.Nil {
		c.BadRequest("user_id is required")
		return
	}

	if err := h.projectService.AddMember(context.Background(), projectID, req.UserID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	_ = c.JSON(200, map[string]string{"message": "member added"})
}

func (h *ProjectHandler) RemoveMember(c *drift.Context) {
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

	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.BadRequest("invalid user id")
		return
	}

	if err := h.projectService.RemoveMember(context.Background(), projectID, targetID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	_ = c.JSON(200, map[string]string{"message": "member removed"})
}
