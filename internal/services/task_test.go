package services

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/taskhub-api/internal/database"
	"github.com/dimitrije/taskhub-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTaskService(t *testing.T) (*TaskService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewTaskService(db, NewProjectService(db)), mock
}

func expectIsMember(mock pgxmock.PgxPoolIface, projectID, userID uuid.UUID, member bool) {
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM project_members`).
		WithArgs(projectID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(member))
}

func TestTaskService_Create(t *testing.T) {
	svc, mock := setupTaskService(t)
	ctx := context.Background()
	projectID := uuid.New()
	creatorID := uuid.New()
	taskID := uuid.New()
	now := time.Now()

	expectIsMember(mock, projectID, creatorID, true)

	rows := pgxmock.NewRows([]string{
		"id", "project_id", "title", "description", "due_date", "status", "priority",
		"created_by", "assigned_to", "created_at", "updated_at",
	}).AddRow(taskID, projectID, "Write docs", "", nil, models.TaskStatusToDo, models.TaskPriorityMedium,
		creatorID, nil, now, now)
	mock.ExpectQuery(`INSERT INTO tasks`).
		WithArgs(projectID, "Write docs", "", (*time.Time)(nil), models.TaskStatusToDo, models.TaskPriorityMedium, creatorID, (*uuid.UUID)(nil)).
		WillReturnRows(rows)

	task, err := svc.Create(ctx, projectID, creatorID, TaskParams{
		Title:    "Write docs",
		Status:   models.TaskStatusToDo,
		Priority: models.TaskPriorityMedium,
	})

	require.NoError(t, err)
	assert.Equal(t, taskID, task.ID)
	assert.Equal(t, models.TaskStatusToDo, task.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Create_NotMember(t *testing.T) {
	svc, mock := setupTaskService(t)
	ctx := context.Background()
	projectID := uuid.New()
	userID := uuid.New()

	expectIsMember(mock, projectID, userID, false)

	_, err := svc.Create(ctx, projectID, userID, TaskParams{Title: "x"})

	assert.ErrorIs(t, err, ErrNotProjectMember)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Create_AssigneeNotMember(t *testing.T) {
	svc, mock := setupTaskService(t)
	ctx := context.Background()
	projectID := uuid.New()
	creatorID := uuid.New()
	assigneeID := uuid.New()

	expectIsMember(mock, projectID, creatorID, true)
	expectIsMember(mock, projectID, assigneeID, false)

	_, err := svc.Create(ctx, projectID, creatorID, TaskParams{
		Title:      "x",
		AssignedTo: &assigneeID,
	})

	assert.ErrorIs(t, err, ErrAssigneeNotMember)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_GetByID_NotFound(t *testing.T) {
	svc, mock := setupTaskService(t)
	ctx := context.Background()
	taskID := uuid.New()

	mock.ExpectQuery(`SELECT t.id, t.project_id`).
		WithArgs(taskID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetByID(ctx, taskID, uuid.New())

	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_GetByID_NotMember(t *testing.T) {
	svc, mock := setupTaskService(t)
	ctx := context.Background()
	taskID := uuid.New()
	projectID := uuid.New()
	creatorID := uuid.New()
	userID := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows([]string{
		"id", "project_id", "title", "description", "due_date", "status", "priority",
		"created_by", "assigned_to", "created_at", "updated_at",
		"c_id", "c_email", "c_name", "c_created_at", "c_updated_at",
		"a_id", "a_email", "a_name",
	}).AddRow(taskID, projectID, "x", "", nil, models.TaskStatusToDo, models.TaskPriorityLow,
		creatorID, nil, now, now,
		creatorID, "alice@x.com", "Alice", now, now,
		nil, nil, nil)
	mock.ExpectQuery(`SELECT t.id, t.project_id`).
		WithArgs(taskID).
		WillReturnRows(rows)

	expectIsMember(mock, projectID, userID, false)

	_, err := svc.GetByID(ctx, taskID, userID)

	assert.ErrorIs(t, err, ErrNotProjectMember)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_UpdateStatus(t *testing.T) {
	svc, mock := setupTaskService(t)
	ctx := context.Background()
	taskID := uuid.New()
	projectID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT project_id, created_by FROM tasks`).
		WithArgs(taskID).
		WillReturnRows(pgxmock.NewRows([]string{"project_id", "created_by"}).AddRow(projectID, userID))

	expectIsMember(mock, projectID, userID, true)

	mock.ExpectExec(`UPDATE tasks SET status`).
		WithArgs(models.TaskStatusDone, taskID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := svc.UpdateStatus(ctx, taskID, userID, models.TaskStatusDone)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Delete_ByCreator(t *testing.T) {
	svc, mock := setupTaskService(t)
	ctx := context.Background()
	taskID := uuid.New()
	projectID := uuid.New()
	creatorID := uuid.New()

	mock.ExpectQuery(`SELECT project_id, created_by FROM tasks`).
		WithArgs(taskID).
		WillReturnRows(pgxmock.NewRows([]string{"project_id", "created_by"}).AddRow(projectID, creatorID))

	// Creator deletes without a role check
	mock.ExpectExec(`DELETE FROM tasks`).
		WithArgs(taskID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := svc.Delete(ctx, taskID, creatorID)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Delete_ByAdmin(t *testing.T) {
	svc, mock := setupTaskService(t)
	ctx := context.Background()
	taskID := uuid.New()
	projectID := uuid.New()
	creatorID := uuid.New()
	adminID := uuid.New()

	mock.ExpectQuery(`SELECT project_id, created_by FROM tasks`).
		WithArgs(taskID).
		WillReturnRows(pgxmock.NewRows([]string{"project_id", "created_by"}).AddRow(projectID, creatorID))

	mock.ExpectQuery(`SELECT role FROM project_members`).
		WithArgs(projectID, adminID).
		WillReturnRows(pgxmock.NewRows([]string{"role"}).AddRow(models.RoleAdmin))

	mock.ExpectExec(`DELETE FROM tasks`).
		WithArgs(taskID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := svc.Delete(ctx, taskID, adminID)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Delete_PlainMemberForbidden(t *testing.T) {
	svc, mock := setupTaskService(t)
	ctx := context.Background()
	taskID := uuid.New()
	projectID := uuid.New()
	creatorID := uuid.New()
	memberID := uuid.New()

	mock.ExpectQuery(`SELECT project_id, created_by FROM tasks`).
		WithArgs(taskID).
		WillReturnRows(pgxmock.NewRows([]string{"project_id", "created_by"}).AddRow(projectID, creatorID))

	mock.ExpectQuery(`SELECT role FROM project_members`).
		WithArgs(projectID, memberID).
		WillReturnRows(pgxmock.NewRows([]string{"role"}).AddRow(models.RoleMember))

	err := svc.Delete(ctx, taskID, memberID)

	assert.ErrorIs(t, err, ErrNotAuthorized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Delete_NonMemberForbidden(t *testing.T) {
	svc, mock := setupTaskService(t)
	ctx := context.Background()
	taskID := uuid.New()
	projectID := uuid.New()
	outsiderID := uuid.New()

	mock.ExpectQuery(`SELECT project_id, created_by FROM tasks`).
		WithArgs(taskID).
		WillReturnRows(pgxmock.NewRows([]string{"project_id", "created_by"}).AddRow(projectID, uuid.New()))

	mock.ExpectQuery(`SELECT role FROM project_members`).
		WithArgs(projectID, outsiderID).
		WillReturnError(pgx.ErrNoRows)

	err := svc.Delete(ctx, taskID, outsiderID)

	assert.ErrorIs(t, err, ErrNotAuthorized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskService_Delete_TaskNotFound(t *testing.T) {
	svc, mock := setupTaskService(t)
	ctx := context.Background()
	taskID := uuid.New()

	mock.ExpectQuery(`SELECT project_id, created_by FROM tasks`).
		WithArgs(taskID).
		WillReturnError(pgx.ErrNoRows)

	err := svc.Delete(ctx, taskID, uuid.New())

	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
