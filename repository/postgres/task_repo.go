package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.Status == "" {
		task.Status = domain.StatusPending
	}

	const query = `
	INSERT INTO tasks (user_id, title, description, due_date, status)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.UserID,
		task.Title,
		task.Description,
		task.DueDate,
		task.Status,
	).Scan(&task.ID, &task.CreatedAt); err != nil {
		return nil, err
	}

	return task, nil
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	query, args, err := buildListQuery(filter)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) GetOwned(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	const query = `
	SELECT id, user_id, title, description, due_date, status, created_at
	FROM tasks
	WHERE id = $1 AND user_id = $2
	`
	return scanTask(r.pool.QueryRow(ctx, query, taskID, userID))
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	// The ownership predicate is part of the update statement; a task that
	// is absent or owned by someone else simply affects zero rows.
	const query = `
	UPDATE tasks
	SET title = $3,
		description = $4,
		due_date = $5,
		status = $6
	WHERE id = $1 AND user_id = $2
	`

	_, err := r.pool.Exec(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.DueDate,
		task.Status,
	)
	return err
}

func (r *taskRepository) Delete(ctx context.Context, userID, taskID int64) error {
	const query = `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	_, err := r.pool.Exec(ctx, query, taskID, userID)
	return err
}

func (r *taskRepository) SetStatus(ctx context.Context, userID, taskID int64, status domain.TaskStatus) error {
	if _, ok := domain.ParseStatus(string(status)); !ok {
		return nil
	}

	const query = `UPDATE tasks SET status = $3 WHERE id = $1 AND user_id = $2`
	_, err := r.pool.Exec(ctx, query, taskID, userID, status)
	return err
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&task.Status,
		&task.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}
