package domain

import "time"

// TaskStatus enumerates the two states a task can be in.
type TaskStatus string

const (
	StatusPending   TaskStatus = "Pending"
	StatusCompleted TaskStatus = "Completed"
)

// ParseStatus converts raw input into a TaskStatus. The boolean reports
// whether the input was one of the recognized values.
func ParseStatus(raw string) (TaskStatus, bool) {
	switch TaskStatus(raw) {
	case StatusPending, StatusCompleted:
		return TaskStatus(raw), true
	}
	return "", false
}

// NormalizeStatus coerces raw input to a valid status, falling back to the
// provided status when the input is not recognized. It never fails.
func NormalizeStatus(raw string, fallback TaskStatus) TaskStatus {
	if status, ok := ParseStatus(raw); ok {
		return status
	}
	return fallback
}

// Task represents a user-owned activity item.
type Task struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

// DueDateValue renders the due date in the form's YYYY-MM-DD format,
// empty when no due date is set.
func (t *Task) DueDateValue() string {
	if t == nil || t.DueDate == nil {
		return ""
	}
	return t.DueDate.Format(DateLayout)
}
