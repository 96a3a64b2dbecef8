package integration

import (
	"context"
	"testing"

	"github.com/dimitrije/taskhub-api/internal/models"
	"github.com/dimitrije/taskhub-api/internal/services"
	"github.com/dimitrije/taskhub-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTaskService(tdb *testutil.TestDB) *services.TaskService {
	return services.NewTaskService(tdb.DB, services.NewProjectService(tdb.DB))
}

func TestTaskService_Integration_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := newTaskService(tdb)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	member := fixtures.CreateUser(t)
	project := fixtures.CreateProject(t, owner)
	fixtures.AddProjectMember(t, project, member, models.RoleMember)

	task, err := svc.Create(ctx, project.ID, member.ID, services.TaskParams{
		Title:      "Write docs",
		Status:     models.TaskStatusToDo,
		Priority:   models.TaskPriorityHigh,
		AssignedTo: &owner.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, member.ID, task.CreatedBy)

	got, err := svc.GetByID(ctx, task.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write docs", got.Title)
	require.NotNil(t, got.Assignee)
	assert.Equal(t, owner.ID, got.Assignee.ID)
	require.NotNil(t, got.Creator)
	assert.Equal(t, member.ID, got.Creator.ID)
}

func TestTaskService_Integration_NonMemberBlocked(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := newTaskService(tdb)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	outsider := fixtures.CreateUser(t)
	project := fixtures.CreateProject(t, owner)
	task := fixtures.CreateTask(t, project, owner)

	_, err := svc.Create(ctx, project.ID, outsider.ID, services.TaskParams{
		Title: "sneaky", Status: models.TaskStatusToDo, Priority: models.TaskPriorityLow,
	})
	assert.ErrorIs(t, err, services.ErrNotProjectMember)

	_, err = svc.GetByID(ctx, task.ID, outsider.ID)
	assert.ErrorIs(t, err, services.ErrNotProjectMember)

	_, err = svc.GetProjectTasks(ctx, project.ID, outsider.ID)
	assert.ErrorIs(t, err, services.ErrNotProjectMember)
}

func TestTaskService_Integration_AssigneeMustBeMember(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := newTaskService(tdb)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	outsider := fixtures.CreateUser(t)
	project := fixtures.CreateProject(t, owner)

	_, err := svc.Create(ctx, project.ID, owner.ID, services.TaskParams{
		Title:      "x",
		Status:     models.TaskStatusToDo,
		Priority:   models.TaskPriorityLow,
		AssignedTo: &outsider.ID,
	})
	assert.ErrorIs(t, err, services.ErrAssigneeNotMember)
}

func TestTaskService_Integration_DeleteAuthorization(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := newTaskService(tdb)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	creator := fixtures.CreateUser(t)
	other := fixtures.CreateUser(t)
	project := fixtures.CreateProject(t, owner)
	fixtures.AddProjectMember(t, project, creator, models.RoleMember)
	fixtures.AddProjectMember(t, project, other, models.RoleMember)

	task := fixtures.CreateTask(t, project, creator)

	// A plain member who is not the creator cannot delete
	err := svc.Delete(ctx, task.ID, other.ID)
	assert.ErrorIs(t, err, services.ErrNotAuthorized)

	_, err = svc.GetByID(ctx, task.ID, owner.ID)
	require.NoError(t, err)

	// The creator can
	err = svc.Delete(ctx, task.ID, creator.ID)
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, task.ID, owner.ID)
	assert.ErrorIs(t, err, services.ErrTaskNotFound)

	// The owner can delete tasks created by others
	task2 := fixtures.CreateTask(t, project, creator)
	err = svc.Delete(ctx, task2.ID, owner.ID)
	require.NoError(t, err)
}

func TestTaskService_Integration_UpdateStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := newTaskService(tdb)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	project := fixtures.CreateProject(t, owner)
	task := fixtures.CreateTask(t, project, owner)

	err := svc.UpdateStatus(ctx, task.ID, owner.ID, models.TaskStatusInProgress)
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, task.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusInProgress, got.Status)
}
