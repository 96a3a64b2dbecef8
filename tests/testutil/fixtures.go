package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dimitrije/taskhub-api/internal/database"
	"github.com/dimitrije/taskhub-api/internal/models"
	"github.com/google/uuid"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		ID:    uuid.New(),
		Email: fmt.Sprintf("user%d@example.com", f.counter),
		Name:  fmt.Sprintf("Test User %d", f.counter),
	}

	for _, opt := range opts {
		opt(user)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (id, email, name)
		VALUES ($1, lower($2), $3)
		RETURNING id, email, name, created_at, updated_at
	`, user.ID, user.Email, user.Name).Scan(
		&user.ID, &user.Email, &user.Name, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// WithName sets the user's name
func WithName(name string) UserOption {
	return func(u *models.User) {
		u.Name = name
	}
}

// CreateProject creates a test project owned by the given user, including
// the owner's membership row
func (f *Fixtures) CreateProject(t *testing.T, owner *models.User, opts ...ProjectOption) *models.Project {
	t.Helper()
	f.counter++

	project := &models.Project{
		Name:    fmt.Sprintf("Test Project %d", f.counter),
		OwnerID: owner.ID,
	}

	for _, opt := range opts {
		opt(project)
	}

	ctx := context.Background()
	tx, err := f.db.Pool.Begin(ctx)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO projects (name, description, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, owner_id, created_at, updated_at
	`, project.Name, project.Description, project.OwnerID).Scan(
		&project.ID, &project.Name, &project.Description, &project.OwnerID,
		&project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create project: %v", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO project_members (project_id, user_id, role)
		VALUES ($1, $2, $3)
	`, project.ID, owner.ID, models.RoleOwner)
	if err != nil {
		t.Fatalf("failed to add owner as member: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("failed to commit transaction: %v", err)
	}

	return project
}

// ProjectOption configures a test project
type ProjectOption func(*models.Project)

// WithProjectName sets the project's name
func WithProjectName(name string) ProjectOption {
	return func(p *models.Project) {
		p.Name = name
	}
}

// AddProjectMember adds a member to a project with the given role
func (f *Fixtures) AddProjectMember(t *testing.T, project *models.Project, user *models.User, role string) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO project_members (project_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_id, user_id) DO NOTHING
	`, project.ID, user.ID, role)
	if err != nil {
		t.Fatalf("failed to add project member: %v", err)
	}
}

// CreateTask creates a test task in a project
func (f *Fixtures) CreateTask(t *testing.T, project *models.Project, creator *models.User, opts ...TaskOption) *models.Task {
	t.Helper()
	f.counter++

	task := &models.Task{
		ProjectID: project.ID,
		Title:     fmt.Sprintf("Test Task %d", f.counter),
		Status:    models.TaskStatusToDo,
		Priority:  models.TaskPriorityMedium,
		CreatedBy: creator.ID,
	}

	for _, opt := range opts {
		opt(task)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO tasks (project_id, title, description, due_date, status, priority, created_by, assigned_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, project_id, title, description, due_date, status, priority, created_by, assigned_to, created_at, updated_at
	`, task.ProjectID, task.Title, task.Description, task.DueDate, task.Status,
		task.Priority, task.CreatedBy, task.AssignedTo).Scan(
		&task.ID, &task.ProjectID, &task.Title, &task.Description, &task.DueDate,
		&task.Status, &task.Priority, &task.CreatedBy, &task.AssignedTo,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	return task
}

// TaskOption configures a test task
type TaskOption func(*models.Task)

// WithTaskTitle sets the task's title
func WithTaskTitle(title string) TaskOption {
	return func(task *models.Task) {
		task.Title = title
	}
}

// WithTaskStatus sets the task's status
func WithTaskStatus(status string) TaskOption {
	return func(task *models.Task) {
		task.Status = status
	}
}

// WithAssignee assigns the task to the given user
func WithAssignee(user *models.User) TaskOption {
	return func(task *models.Task) {
		task.AssignedTo = &user.ID
	}
}

// CreateInvitation creates a test invitation with a unique token
func (f *Fixtures) CreateInvitation(t *testing.T, project *models.Project, inviter *models.User, email string, opts ...InvitationOption) *models.Invitation {
	t.Helper()
	f.counter++

	invitation := &models.Invitation{
		ProjectID: project.ID,
		Email:     email,
		InviterID: inviter.ID,
		Token:     fmt.Sprintf("test-token-%d-%s", f.counter, uuid.NewString()),
		Status:    models.InviteStatusPending,
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}

	for _, opt := range opts {
		opt(invitation)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO invitations (project_id, email, inviter_id, token, status, expires_at)
		VALUES ($1, lower($2), $3, $4, $5, $6)
		RETURNING id, project_id, email, inviter_id, token, status, created_at, expires_at, accepted_at
	`, invitation.ProjectID, invitation.Email, invitation.InviterID,
		invitation.Token, invitation.Status, invitation.ExpiresAt).Scan(
		&invitation.ID, &invitation.ProjectID, &invitation.Email, &invitation.InviterID,
		&invitation.Token, &invitation.Status, &invitation.CreatedAt, &invitation.ExpiresAt,
		&invitation.AcceptedAt,
	)
	if err != nil {
		t.Fatalf("failed to create invitation: %v", err)
	}

	return invitation
}

// InvitationOption configures a test invitation
type InvitationOption func(*models.Invitation)

// WithInviteStatus sets the invitation's status
func WithInviteStatus(status string) InvitationOption {
	return func(i *models.Invitation) {
		i.Status = status
	}
}

// WithExpiresAt sets the invitation's expiry
func WithExpiresAt(expiresAt time.Time) InvitationOption {
	return func(i *models.Invitation) {
		i.ExpiresAt = expiresAt
	}
}
