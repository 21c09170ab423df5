package services

import (
	"context"
	"errors"
	"time"

	"github.com/missionctrl/missionctrl-api/internal/models"
)

var ErrTaskNotFound = errors.New("task not found")

type TaskService interface {
	// CreateTask persists a new task with a freshly generated ID
	// and equal creation and update timestamps.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// GetTasks returns every task ordered by creation time, newest first.
	GetTasks(ctx context.Context) ([]models.Task, error)

	// GetTaskByID returns ErrTaskNotFound if no task has the given ID.
	GetTaskByID(ctx context.Context, id string) (*models.Task, error)

	// UpdateTask replaces the mutable fields of an existing task and
	// refreshes its update timestamp. The ID and creation timestamp
	// are never touched. It returns ErrTaskNotFound if the ID is absent.
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)

	// DeleteTask removes the task permanently. A repeated delete on
	// the same ID returns ErrTaskNotFound.
	DeleteTask(ctx context.Context, id string) error
}

type CreateTaskParams struct {
	Title       string
	Description string
	Status      models.Status
	DueDate     *time.Time
}

type UpdateTaskParams struct {
	ID          string
	Title       string
	Description string
	Status      models.Status
	DueDate     *time.Time
}
