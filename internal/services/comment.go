package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/taskhub-api/internal/database"
	"github.com/dimitrije/taskhub-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrCommentNotFound = errors.New("comment not found")

type CommentService struct {
	db       *database.DB
	projects *ProjectService
}

func NewCommentService(db *database.DB, projects *ProjectService) *CommentService {
	return &CommentService{db: db, projects: projects}
}

func (s *CommentService) Create(ctx context.Context, taskID, userID uuid.UUID, content string) (*models.Comment, error) {
	projectID, err := s.commentProject(ctx, taskID)
	if err != nil {
		return nil, err
	}

	isMember, err := s.projects.IsMember(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotProjectMember
	}

	var comment models.Comment
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO comments (task_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, task_id, user_id, content, created_at, updated_at
	`, taskID, userID, content).Scan(
		&comment.ID, &comment.TaskID, &comment.UserID, &comment.Content,
		&comment.CreatedAt, &comment.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return &comment, nil
}

func (s *CommentService) ListForTask(ctx context.Context, taskID, userID uuid.UUID) ([]models.Comment, error) {
	projectID, err := s.commentProject(ctx, taskID)
	if err != nil {
		return nil, err
	}

	isMember, err := s.projects.IsMember(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotProjectMember
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT c.id, c.task_id, c.user_id, c.content, c.created_at, c.updated_at,
		       u.id, u.email, u.name
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.task_id = $1
		ORDER BY c.created_at
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var comment models.Comment
		var author models.User
		if err := rows.Scan(
			&comment.ID, &comment.TaskID, &comment.UserID, &comment.Content,
			&comment.CreatedAt, &comment.UpdatedAt,
			&author.ID, &author.Email, &author.Name,
		); err != nil {
			return nil, err
		}
		comment.Author = &author
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// Delete is restricted to the comment's author and to project owners/admins.
func (s *CommentService) Delete(ctx context.Context, commentID, userID uuid.UUID) error {
	var authorID, projectID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT c.user_id, t.project_id
		FROM comments c
		JOIN tasks t ON c.task_id = t.id
		WHERE c.id = $1
	`, commentID).Scan(&authorID, &projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrCommentNotFound
		}
		return err
	}

	if authorID != userID {
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

	_, err = s.db.Pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	return err
}

func (s *CommentService) commentProject(ctx context.Context, taskID uuid.UUID) (uuid.UUID, error) {
	var projectID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `SELECT project_id FROM tasks WHERE id = $1`, taskID).Scan(&projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrTaskNotFound
		}
		return uuid.Nil, err
	}
	return projectID, nil
}
