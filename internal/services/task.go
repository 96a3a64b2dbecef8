package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dimitrije/taskhub-api/internal/database"
	"github.com/dimitrije/taskhub-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrAssigneeNotMember = errors.New("assignee is not a project member")
)

type TaskService struct {
	db       *database.DB
	projects *ProjectService
}

func NewTaskService(db *database.DB, projects *ProjectService) *TaskService {
	return &TaskService{db: db, projects: projects}
}

type TaskParams struct {
	Title       string
	Description string
	DueDate     *time.Time
	Status      string
	Priority    string
	AssignedTo  *uuid.UUID
}

func (s *TaskService) Create(ctx context.Context, projectID, creatorID uuid.UUID, params TaskParams) (*models.Task, error) {
	if err := s.requireMembership(ctx, projectID, creatorID); err != nil {
		return nil, err
	}

	if err := s.checkAssignee(ctx, projectID, params.AssignedTo); err != nil {
		return nil, err
	}

	var task models.Task
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO tasks (project_id, title, description, due_date, status, priority, created_by, assigned_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, project_id, title, description, due_date, status, priority, created_by, assigned_to, created_at, updated_at
	`, projectID, params.Title, params.Description, params.DueDate, params.Status,
		params.Priority, creatorID, params.AssignedTo).Scan(
		&task.ID, &task.ProjectID, &task.Title, &task.Description, &task.DueDate,
		&task.Status, &task.Priority, &task.CreatedBy, &task.AssignedTo,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return &task, nil
}

func (s *TaskService) GetByID(ctx context.Context, taskID, userID uuid.UUID) (*models.Task, error) {
	var task models.Task
	var creator models.User
	var assigneeID *uuid.UUID
	var assigneeEmail, assigneeName *string
	err := s.db.Pool.QueryRow(ctx, `
		SELECT t.id, t.project_id, t.title, t.description, t.due_date, t.status, t.priority,
		       t.created_by, t.assigned_to, t.created_at, t.updated_at,
		       c.id, c.email, c.name, c.created_at, c.updated_at,
		       a.id, a.email, a.name
		FROM tasks t
		JOIN users c ON t.created_by = c.id
		LEFT JOIN users a ON t.assigned_to = a.id
		WHERE t.id = $1
	`, taskID).Scan(
		&task.ID, &task.ProjectID, &task.Title, &task.Description, &task.DueDate,
		&task.Status, &task.Priority, &task.CreatedBy, &task.AssignedTo,
		&task.CreatedAt, &task.UpdatedAt,
		&creator.ID, &creator.Email, &creator.Name, &creator.CreatedAt, &creator.UpdatedAt,
		&assigneeID, &assigneeEmail, &assigneeName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	if err := s.requireMembership(ctx, task.ProjectID, userID); err != nil {
		return nil, err
	}

	task.Creator = &creator
	if assigneeID != nil {
		task.Assignee = &models.User{ID: *assigneeID, Email: *assigneeEmail, Name: *assigneeName}
	}
	return &task, nil
}

func (s *TaskService) GetProjectTasks(ctx context.Context, projectID, userID uuid.UUID) ([]models.Task, error) {
	if err := s.requireMembership(ctx, projectID, userID); err != nil {
		return nil, err
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT t.id, t.project_id, t.title, t.description, t.due_date, t.status, t.priority,
		       t.created_by, t.assigned_to, t.created_at, t.updated_at,
		       c.id, c.email, c.name,
		       a.id, a.email, a.name
		FROM tasks t
		JOIN users c ON t.created_by = c.id
		LEFT JOIN users a ON t.assigned_to = a.id
		WHERE t.project_id = $1
		ORDER BY t.created_at DESC
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var task models.Task
		var creator models.User
		var assigneeID *uuid.UUID
		var assigneeEmail, assigneeName *string
		if err := rows.Scan(
			&task.ID, &task.ProjectID, &task.Title, &task.Description, &task.DueDate,
			&task.Status, &task.Priority, &task.CreatedBy, &task.AssignedTo,
			&task.CreatedAt, &task.UpdatedAt,
			&creator.ID, &creator.Email, &creator.Name,
			&assigneeID, &assigneeEmail, &assigneeName,
		); err != nil {
			return nil, err
		}
		task.Creator = &creator
		if assigneeID != nil {
			task.Assignee = &models.User{ID: *assigneeID, Email: *assigneeEmail, Name: *assigneeName}
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// Update rewrites the mutable fields. Any project member may edit any task.
func (s *TaskService) Update(ctx context.Context, taskID, userID uuid.UUID, params TaskParams) (*models.Task, error) {
	projectID, _, err := s.taskProject(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.requireMembership(ctx, projectID, userID); err != nil {
		return nil, err
	}

	if err := s.checkAssignee(ctx, projectID, params.AssignedTo); err != nil {
		return nil, err
	}

	var task models.Task
	err = s.db.Pool.QueryRow(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, due_date = $3, status = $4, priority = $5,
		    assigned_to = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING id, project_id, title, description, due_date, status, priority, created_by, assigned_to, created_at, updated_at
	`, params.Title, params.Description, params.DueDate, params.Status,
		params.Priority, params.AssignedTo, taskID).Scan(
		&task.ID, &task.ProjectID, &task.Title, &task.Description, &task.DueDate,
		&task.Status, &task.Priority, &task.CreatedBy, &task.AssignedTo,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return &task, nil
}

func (s *TaskService) UpdateStatus(ctx context.Context, taskID, userID uuid.UUID, status string) error {
	projectID, _, err := s.taskProject(ctx, taskID)
	if err != nil {
		return err
	}

	if err := s.requireMembership(ctx, projectID, userID); err != nil {
		return err
	}

	_, err = s.db.Pool.Exec(ctx, `
		UPDATE tasks SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, taskID)
	return err
}

// Delete is restricted to the task's creator and to project owners/admins.
func (s *TaskService) Delete(ctx context.Context, taskID, userID uuid.UUID) error {
	projectID, createdBy, err := s.taskProject(ctx, taskID)
	if err != nil {
		return err
	}

	if createdBy != userID {
		role, err := s.projects.RoleOf(ctx, projectID, userID)
		if err != nil {
			if errors.Is(err, ErrMemberNotFound) {
				return ErrNotAuthorized
			}
			return err
		}
		if !models.CanManageMembers(role) {
			return ErrNotAuthorized
		}
	}

	_, err = s.db.Pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, taskID)
	return err
}

func (s *TaskService) taskProject(ctx context.Context, taskID uuid.UUID) (uuid.UUID, uuid.UUID, error) {
	var projectID, createdBy uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT project_id, created_by FROM tasks WHERE id = $1
	`, taskID).Scan(&projectID, &createdBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, uuid.Nil, ErrTaskNotFound
		}
		return uuid.Nil, uuid.Nil, err
	}
	return projectID, createdBy, nil
}

func (s *TaskService) requireMembership(ctx context.Context, projectID, userID uuid.UUID) error {
	isMember, err := s.projects.IsMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrNotProjectMember
	}
	return nil
}

func (s *TaskService) checkAssignee(ctx context.Context, projectID uuid.UUID, assigneeID *uuid.UUID) error {
	if assigneeID == nil {
		return nil
	}
	isMember, err := s.projects.IsMember(ctx, projectID, *assigneeID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrAssigneeNotMember
	}
	return nil
}
