package postgres

import (
	"github.com/Masterminds/squirrel"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/repository"
)

// buildListQuery composes the task listing statement. Clauses are appended
// only for recognized filter values and every user-supplied value travels
// as a bind parameter.
func buildListQuery(filter repository.TaskFilter) (string, []interface{}, error) {
	builder := squirrel.
		Select("id", "user_id", "title", "description", "due_date", "status", "created_at").
		From("tasks").
		Where(squirrel.Eq{"user_id": filter.UserID}).
		PlaceholderFormat(squirrel.Dollar)

	if status, ok := domain.ParseStatus(filter.Status); ok {
		builder = builder.Where(squirrel.Eq{"status": status})
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"description": pattern},
		})
	}

	return builder.OrderBy("created_at DESC").ToSql()
}
