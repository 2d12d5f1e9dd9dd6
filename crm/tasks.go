package crm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/nimbusworks/sheetcrm/sheet"
)

// TaskService manages kanban tasks in the Tasks sheet.
type TaskService struct {
	store *sheet.Store
}

// NewTaskService creates a task service over the given store.
func NewTaskService(store *sheet.Store) *TaskService {
	return &TaskService{store: store}
}

// TaskInput is the caller-supplied portion of a new task.
type TaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	AssignedTo  string
	ClientID    string
	InvoiceID   string
	DueDate     string
}

// TaskPatch is a partial update; nil fields are left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	AssignedTo  *string
	ClientID    *string
	InvoiceID   *string
	DueDate     *string
}

// List returns all tasks, optionally filtered by status, in sheet order.
func (s *TaskService) List(ctx context.Context, statusFilter string) ([]Task, error) {
	rows, err := s.store.Rows(ctx, SheetTasks)
	if err != nil {
		return nil, err
	}

	tasks := make([]Task, 0, len(rows))
	for _, row := range rows {
		if statusFilter != "" && row["status"] != statusFilter {
			continue
		}
		tasks = append(tasks, decodeTask(row))
	}
	return tasks, nil
}

// Get returns the task with the given ID, or ErrNotFound.
func (s *TaskService) Get(ctx context.Context, taskID string) (Task, error) {
	row, err := s.store.Find(ctx, SheetTasks, "task_id", taskID)
	if err != nil {
		return Task{}, err
	}
	if row == nil {
		return Task{}, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	return decodeTask(row), nil
}

// Create assigns the next T### ID and appends the task.
func (s *TaskService) Create(ctx context.Context, in TaskInput) (Task, error) {
	taskID, err := NextTaskID(ctx, s.store)
	if err != nil {
		return Task{}, fmt.Errorf("generate task id: %w", err)
	}

	status := in.Status
	if status == "" {
		status = TaskStatusTodo
	}
	priority := in.Priority
	if priority == "" {
		priority = "medium"
	}
	now := time.Now().Format(time.RFC3339)

	task := Task{
		TaskID:      taskID,
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		Priority:    priority,
		AssignedTo:  in.AssignedTo,
		ClientID:    in.ClientID,
		InvoiceID:   in.InvoiceID,
		DueDate:     in.DueDate,
		CreatedDate: now,
		UpdatedDate: now,
	}

	if err := s.store.Append(ctx, SheetTasks, encodeTask(task)); err != nil {
		return Task{}, fmt.Errorf("append task: %w", err)
	}

	log.Printf("crm: created task %s", taskID)
	return task, nil
}

// Update applies the non-nil fields of the patch and stamps updated_date,
// then re-reads the task. Returns ErrNotFound when no row matches.
func (s *TaskService) Update(ctx context.Context, taskID string, patch TaskPatch) (Task, error) {
	updates := sheet.Row{}
	setIf(updates, "title", patch.Title)
	setIf(updates, "description", patch.Description)
	setIf(updates, "status", patch.Status)
	setIf(updates, "priority", patch.Priority)
	setIf(updates, "assigned_to", patch.AssignedTo)
	setIf(updates, "client_id", patch.ClientID)
	setIf(updates, "invoice_id", patch.InvoiceID)
	setIf(updates, "due_date", patch.DueDate)
	updates["updated_date"] = time.Now().Format(time.RFC3339)

	if err := s.store.Update(ctx, SheetTasks, "task_id", taskID, updates); err != nil {
		if errors.Is(err, sheet.ErrRowNotFound) {
			return Task{}, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
		}
		return Task{}, err
	}
	return s.Get(ctx, taskID)
}

// UpdateStatus is the board-drag path: status plus updated_date, nothing
// else. Same update-row mechanics as Update.
func (s *TaskService) UpdateStatus(ctx context.Context, taskID, status string) (Task, error) {
	updates := sheet.Row{
		"status":       status,
		"updated_date": time.Now().Format(time.RFC3339),
	}
	if err := s.store.Update(ctx, SheetTasks, "task_id", taskID, updates); err != nil {
		if errors.Is(err, sheet.ErrRowNotFound) {
			return Task{}, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
		}
		return Task{}, err
	}
	return s.Get(ctx, taskID)
}

// Delete removes the task's row. Returns ErrNotFound when no row matches.
func (s *TaskService) Delete(ctx context.Context, taskID string) error {
	if err := s.store.Delete(ctx, SheetTasks, "task_id", taskID); err != nil {
		if errors.Is(err, sheet.ErrRowNotFound) {
			return fmt.Errorf("task %s: %w", taskID, ErrNotFound)
		}
		return err
	}
	log.Printf("crm: deleted task %s", taskID)
	return nil
}

func setIf(row sheet.Row, column string, value *string) {
	if value != nil {
		row[column] = *value
	}
}
