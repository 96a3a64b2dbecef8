package handlers

import (
	"context"

	"github.com/dimitrije/taskhub-api/internal/models"
	"github.com/dimitrije/taskhub-api/internal/services"
	"github.com/google/uuid"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	FindOrCreate(ctx context.Context, id uuid.UUID, email, name string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, name string) (*models.User, error)
}

// ProjectServiceInterface defines the methods used by handlers from ProjectService
type ProjectServiceInterface interface {
	Create(ctx context.Context, name, description string, ownerID uuid.UUID) (*models.Project, error)
	GetByID(ctx context.Context, projectID uuid.UUID) (*models.Project, error)
	GetUserProjects(ctx context.Context, userID uuid.UUID) ([]models.Project, []string, error)
	Update(ctx context.Context, projectID uuid.UUID, name, description string) (*models.Project, error)
	Delete(ctx context.Context, projectID uuid.UUID) error
	IsMember(ctx context.Context, projectID, userID uuid.UUID) (bool, error)
	RoleOf(ctx context.Context, projectID, userID uuid.UUID) (string, error)
	GetMembers(ctx context.Context, projectID uuid.UUID) ([]models.ProjectMember, error)
	AddMember(ctx context.Context, projectID, targetUserID, actorID uuid.UUID) error
	RemoveMember(ctx context.Context, projectID, targetUserID, actorID uuid.UUID) error
}

// TaskServiceInterface defines the methods used by handlers from TaskService
type TaskServiceInterface interface {
	Create(ctx context.Context, projectID, creatorID uuid.UUID, params services.TaskParams) (*models.Task, error)
	GetByID(ctx context.Context, taskID, userID uuid.UUID) (*models.Task, error)
	GetProjectTasks(ctx context.Context, projectID, userID uuid.UUID) ([]models.Task, error)
	Update(ctx context.Context, taskID, userID uuid.UUID, params services.TaskParams) (*models.Task, error)
	UpdateStatus(ctx context.Context, taskID, userID uuid.UUID, status string) error
	Delete(ctx context.Context, taskID, userID uuid.UUID) error
}

// CommentServiceInterface defines the methods used by handlers from CommentService
type CommentServiceInterface interface {
	Create(ctx context.Context, taskID, userID uuid.UUID, content string) (*models.Comment, error)
	ListForTask(ctx context.Context, taskID, userID uuid.UUID) ([]models.Comment, error)
	Delete(ctx context.Context, commentID, userID uuid.UUID) error
}

// InvitationServiceInterface defines the methods used by handlers from InvitationService
type InvitationServiceInterface interface {
	Create(ctx context.Context, projectID uuid.UUID, email string, inviterID uuid.UUID) (*models.Invitation, error)
	Accept(ctx context.Context, token string, userID uuid.UUID) (bool, error)
	IsValid(ctx context.Context, token string) (bool, error)
	GetPendingForEmail(ctx context.Context, email string) ([]models.Invitation, error)
	GetProjectPending(ctx context.Context, projectID uuid.UUID) ([]models.Invitation, error)
	Cancel(ctx context.Context, invitationID, projectID uuid.UUID) error
}
