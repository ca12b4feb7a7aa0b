package task

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/repository"
)

// Input carries the validated form fields for creating or editing a task.
type Input struct {
	Title       string
	Description string
	DueDate     *time.Time
}

type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		logger: logger,
	}
}

func (uc *UseCase) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	return uc.tasks.List(ctx, filter)
}

func (uc *UseCase) GetOwned(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	return uc.tasks.GetOwned(ctx, userID, taskID)
}

// Create stores a new task for userID. The title must already have passed
// handler-side validation; it is not re-checked here.
func (uc *UseCase) Create(ctx context.Context, userID int64, in Input) (*domain.Task, error) {
	task := &domain.Task{
		UserID:      userID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		DueDate:     in.DueDate,
		Status:      domain.StatusPending,
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("task created", zap.Int64("user_id", userID), zap.Int64("task_id", created.ID))
	return created, nil
}

// Update rewrites an owned task. A raw status that is not a valid value
// coerces to the task's current status. An absent or foreign target is a
// silent no-op.
func (uc *UseCase) Update(ctx context.Context, userID, taskID int64, in Input, rawStatus string, current domain.TaskStatus) error {
	task := &domain.Task{
		ID:          taskID,
		UserID:      userID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		DueDate:     in.DueDate,
		Status:      domain.NormalizeStatus(rawStatus, current),
	}
	return uc.tasks.Update(ctx, task)
}

func (uc *UseCase) Delete(ctx context.Context, userID, taskID int64) error {
	return uc.tasks.Delete(ctx, userID, taskID)
}

// SetStatus marks a task Pending or Completed. Any other value is ignored
// without an error and without touching the row.
func (uc *UseCase) SetStatus(ctx context.Context, userID, taskID int64, rawStatus string) error {
	status, ok := domain.ParseStatus(rawStatus)
	if !ok {
		return nil
	}
	return uc.tasks.SetStatus(ctx, userID, taskID, status)
}
