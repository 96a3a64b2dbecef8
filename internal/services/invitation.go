package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dimitrije/taskhub-api/internal/database"
	"github.com/dimitrije/taskhub-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrInviteNotFound      = errors.New("invitation not found")
	ErrInviteAlreadyExists = errors.New("invitation already sent to this email")
	// ErrInviteEmailFailed signals that the invitation was persisted but the
	// notification could not be delivered. Callers must treat this as a
	// degraded success, not a failure.
	ErrInviteEmailFailed = errors.New("invitation saved but email delivery failed")
)

const inviteTokenLen = 32

// InviteMailer is the notification boundary; delivery failures never roll
// back a persisted invitation.
type InviteMailer interface {
	SendProjectInvite(to, projectName, inviterName, inviteURL string) error
}

type InvitationService struct {
	db      *database.DB
	mailer  InviteMailer
	baseURL string
	expiry  time.Duration
}

func NewInvitationService(db *database.DB, mailer InviteMailer, baseURL string, expiry time.Duration) *InvitationService {
	return &InvitationService{db: db, mailer: mailer, baseURL: baseURL, expiry: expiry}
}

// Create persists a pending invitation for (projectID, email) and dispatches
// the invite email afterwards. A pending non-expired invitation for the same
// pair is a conflict, enforced by a partial unique index rather than a
// check-then-insert.
func (s *InvitationService) Create(ctx context.Context, projectID uuid.UUID, email string, inviterID uuid.UUID) (*models.Invitation, error) {
	email = strings.ToLower(email)

	var projectName string
	err := s.db.Pool.QueryRow(ctx, `SELECT name FROM projects WHERE id = $1`, projectID).Scan(&projectName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	var inviterName string
	err = s.db.Pool.QueryRow(ctx, `SELECT name FROM users WHERE id = $1`, inviterID).Scan(&inviterName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// A lapsed pending invitation for this pair no longer blocks a new one.
	_, err = s.db.Pool.Exec(ctx, `
		UPDATE invitations SET status = $1
		WHERE project_id = $2 AND lower(email) = $3 AND status = $4 AND expires_at <= NOW()
	`, models.InviteStatusExpired, projectID, email, models.InviteStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to expire stale invitations: %w", err)
	}

	token := generateInviteToken()
	expiresAt := time.Now().Add(s.expiry)

	var invitation models.Invitation
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO invitations (project_id, email, inviter_id, token, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, project_id, email, inviter_id, token, status, created_at, expires_at, accepted_at
	`, projectID, email, inviterID, token, models.InviteStatusPending, expiresAt).Scan(
		&invitation.ID, &invitation.ProjectID, &invitation.Email, &invitation.InviterID,
		&invitation.Token, &invitation.Status, &invitation.CreatedAt, &invitation.ExpiresAt,
		&invitation.AcceptedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrInviteAlreadyExists
		}
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	inviteURL := fmt.Sprintf("%s/invitations/accept?token=%s", s.baseURL, token)
	if err := s.mailer.SendProjectInvite(email, projectName, inviterName, inviteURL); err != nil {
		return &invitation, fmt.Errorf("%w: %v", ErrInviteEmailFailed, err)
	}

	return &invitation, nil
}

// Accept redeems a pending invitation. Every non-matching condition (unknown
// token, non-pending status, lapsed expiry, redeemer email mismatch) returns
// false without touching any row. The status flip and the membership insert
// commit together.
func (s *InvitationService) Accept(ctx context.Context, token string, userID uuid.UUID) (bool, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var invitation models.Invitation
	err = tx.QueryRow(ctx, `
		SELECT id, project_id, email, status, expires_at
		FROM invitations WHERE token = $1
		FOR UPDATE
	`, token).Scan(
		&invitation.ID, &invitation.ProjectID, &invitation.Email,
		&invitation.Status, &invitation.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	if invitation.Status != models.InviteStatusPending || invitation.Expired(time.Now()) {
		return false, nil
	}

	var userEmail string
	err = tx.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, userID).Scan(&userEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	// Redemption is bound to the invited address.
	if !strings.EqualFold(userEmail, invitation.Email) {
		return false, nil
	}

	_, err = tx.Exec(ctx, `
		UPDATE invitations SET status = $1, accepted_at = NOW() WHERE id = $2
	`, models.InviteStatusAccepted, invitation.ID)
	if err != nil {
		return false, fmt.Errorf("failed to update invitation: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO project_members (project_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_id, user_id) DO NOTHING
	`, invitation.ProjectID, userID, models.RoleMember)
	if err != nil {
		return false, fmt.Errorf("failed to add member: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return true, nil
}

func (s *InvitationService) IsValid(ctx context.Context, token string) (bool, error) {
	var valid bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM invitations
			WHERE token = $1 AND status = $2 AND expires_at > NOW()
		)
	`, token, models.InviteStatusPending).Scan(&valid)
	return valid, err
}

func (s *InvitationService) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	var invitation models.Invitation
	var project models.Project
	var inviter models.User
	err := s.db.Pool.QueryRow(ctx, `
		SELECT i.id, i.project_id, i.email, i.inviter_id, i.token, i.status,
		       i.created_at, i.expires_at, i.accepted_at,
		       p.id, p.name, p.description, p.owner_id, p.created_at, p.updated_at,
		       u.id, u.email, u.name, u.created_at, u.updated_at
		FROM invitations i
		JOIN projects p ON i.project_id = p.id
		JOIN users u ON i.inviter_id = u.id
		WHERE i.token = $1
	`, token).Scan(
		&invitation.ID, &invitation.ProjectID, &invitation.Email, &invitation.InviterID,
		&invitation.Token, &invitation.Status, &invitation.CreatedAt, &invitation.ExpiresAt,
		&invitation.AcceptedAt,
		&project.ID, &project.Name, &project.Description, &project.OwnerID,
		&project.CreatedAt, &project.UpdatedAt,
		&inviter.ID, &inviter.Email, &inviter.Name, &inviter.CreatedAt, &inviter.UpdatedAt,
	)
	if err != nil {
		return nil, ErrInviteNotFound
	}
	invitation.Project = &project
	invitation.Inviter = &inviter
	return &invitation, nil
}

func (s *InvitationService) GetPendingForEmail(ctx context.Context, email string) ([]models.Invitation, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT i.id, i.project_id, i.email, i.inviter_id, i.token, i.status,
		       i.created_at, i.expires_at, i.accepted_at,
		       p.id, p.name, p.description, p.owner_id, p.created_at, p.updated_at,
		       u.id, u.email, u.name, u.created_at, u.updated_at
		FROM invitations i
		JOIN projects p ON i.project_id = p.id
		JOIN users u ON i.inviter_id = u.id
		WHERE lower(i.email) = lower($1) AND i.status = $2 AND i.expires_at > NOW()
		ORDER BY i.created_at DESC
	`, email, models.InviteStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []models.Invitation
	for rows.Next() {
		var invitation models.Invitation
		var project models.Project
		var inviter models.User
		if err := rows.Scan(
			&invitation.ID, &invitation.ProjectID, &invitation.Email, &invitation.InviterID,
			&invitation.Token, &invitation.Status, &invitation.CreatedAt, &invitation.ExpiresAt,
			&invitation.AcceptedAt,
			&project.ID, &project.Name, &project.Description, &project.OwnerID,
			&project.CreatedAt, &project.UpdatedAt,
			&inviter.ID, &inviter.Email, &inviter.Name, &inviter.CreatedAt, &inviter.UpdatedAt,
		); err != nil {
			return nil, err
		}
		invitation.Project = &project
		invitation.Inviter = &inviter
		invitations = append(invitations, invitation)
	}
	return invitations, rows.Err()
}

func (s *InvitationService) GetProjectPending(ctx context.Context, projectID uuid.UUID) ([]models.Invitation, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT i.id, i.project_id, i.email, i.inviter_id, i.token, i.status,
		       i.created_at, i.expires_at, i.accepted_at,
		       u.id, u.email, u.name, u.created_at, u.updated_at
		FROM invitations i
		JOIN users u ON i.inviter_id = u.id
		WHERE i.project_id = $1 AND i.status = $2 AND i.expires_at > NOW()
		ORDER BY i.created_at DESC
	`, projectID, models.InviteStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []models.Invitation
	for rows.Next() {
		var invitation models.Invitation
		var inviter models.User
		if err := rows.Scan(
			&invitation.ID, &invitation.ProjectID, &invitation.Email, &invitation.InviterID,
			&invitation.Token, &invitation.Status, &invitation.CreatedAt, &invitation.ExpiresAt,
			&invitation.AcceptedAt,
			&inviter.ID, &inviter.Email, &inviter.Name, &inviter.CreatedAt, &inviter.UpdatedAt,
		); err != nil {
			return nil, err
		}
		invitation.Inviter = &inviter
		invitations = append(invitations, invitation)
	}
	return invitations, rows.Err()
}

func (s *InvitationService) Cancel(ctx context.Context, invitationID, projectID uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `
		UPDATE invitations SET status = $1
		WHERE id = $2 AND project_id = $3 AND status = $4
	`, models.InviteStatusCancelled, invitationID, projectID, models.InviteStatusPending)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrInviteNotFound
	}
	return nil
}

// ExpireLapsed flips lapsed pending invitations to expired. Reads check
// expiry lazily regardless; this keeps stored statuses tidy.
func (s *InvitationService) ExpireLapsed(ctx context.Context) (int64, error) {
	result, err := s.db.Pool.Exec(ctx, `
		UPDATE invitations SET status = $1
		WHERE status = $2 AND expires_at <= NOW()
	`, models.InviteStatusExpired, models.InviteStatusPending)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

func generateInviteToken() string {
	b := make([]byte, inviteTokenLen)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
