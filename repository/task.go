package repository

import (
	"context"

	"github.com/taskdeck/backend/domain"
)

// TaskFilter restricts a listing to one owner, optionally narrowed by
// status and a free-text search over title and description.
type TaskFilter struct {
	UserID int64
	Status string
	Search string
}

// TaskRepository persists tasks. Every operation is scoped to the owning
// user; mutations embed the ownership predicate in the statement itself so
// an ownership check can never be separated from the write.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	// GetOwned returns domain.ErrTaskNotFound both when the task does not
	// exist and when it belongs to another user.
	GetOwned(ctx context.Context, userID, taskID int64) (*domain.Task, error)
	// Update and Delete are silent no-ops when the target is absent or not
	// owned by the caller.
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, userID, taskID int64) error
	// SetStatus ignores invalid status values without touching the row.
	SetStatus(ctx context.Context, userID, taskID int64, status domain.TaskStatus) error
}
