/*
tasks_test.go - Task CRUD and partial updates
*/
package crm_test

import (
	"context"
	"testing"

	"github.com/nimbusworks/sheetcrm/crm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTaskService(t *testing.T) *crm.TaskService {
	store, _ := newCRMStore(t)
	return crm.NewTaskService(store)
}

func strPtr(s string) *string { return &s }

func TestCreateTask_Defaults(t *testing.T) {
	svc := newTaskService(t)

	task, err := svc.Create(context.Background(), crm.TaskInput{Title: "Follow up"})
	require.NoError(t, err)

	assert.Equal(t, "T001", task.TaskID)
	assert.Equal(t, crm.TaskStatusTodo, task.Status)
	assert.Equal(t, "medium", task.Priority)
	assert.NotEmpty(t, task.CreatedDate)
}

func TestListTasks_StatusFilter(t *testing.T) {
	svc := newTaskService(t)

	_, err := svc.Create(context.Background(), crm.TaskInput{Title: "A"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), crm.TaskInput{Title: "B", Status: crm.TaskStatusDone})
	require.NoError(t, err)

	done, err := svc.List(context.Background(), crm.TaskStatusDone)
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "B", done[0].Title)

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateTask_PatchesOnlyProvidedFields(t *testing.T) {
	svc := newTaskService(t)

	task, err := svc.Create(context.Background(), crm.TaskInput{
		Title:      "Original",
		Priority:   "high",
		AssignedTo: "Ada",
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), task.TaskID, crm.TaskPatch{
		Title: strPtr("Renamed"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "high", updated.Priority, "unpatched field survives")
	assert.Equal(t, "Ada", updated.AssignedTo)
}

func TestUpdateTaskStatus_BoardDrag(t *testing.T) {
	svc := newTaskService(t)

	task, err := svc.Create(context.Background(), crm.TaskInput{Title: "Drag me"})
	require.NoError(t, err)

	moved, err := svc.UpdateStatus(context.Background(), task.TaskID, crm.TaskStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, crm.TaskStatusInProgress, moved.Status)
}

func TestUpdateTask_NotFound(t *testing.T) {
	svc := newTaskService(t)

	_, err := svc.Update(context.Background(), "T404", crm.TaskPatch{Title: strPtr("X")})
	assert.ErrorIs(t, err, crm.ErrNotFound)
}

func TestDeleteTask(t *testing.T) {
	svc := newTaskService(t)

	task, err := svc.Create(context.Background(), crm.TaskInput{Title: "Ephemeral"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), task.TaskID))

	_, err = svc.Get(context.Background(), task.TaskID)
	assert.ErrorIs(t, err, crm.ErrNotFound)

	err = svc.Delete(context.Background(), task.TaskID)
	assert.ErrorIs(t, err, crm.ErrNotFound)
}
