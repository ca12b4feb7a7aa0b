package domain

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used by due date form fields.
const DateLayout = "2006-01-02"

// Due date validation errors.
var (
	ErrDateFormat = NewError(ErrCodeInvalid, "invalid date format, use YYYY-MM-DD")
	ErrDatePast   = NewError(ErrCodeInvalid, "due date cannot be in the past")
)

// RequireNonEmpty reports whether the value contains anything beyond
// whitespace.
func RequireNonEmpty(value string) bool {
	return strings.TrimSpace(value) != ""
}

// ValidateDueDate parses an optional YYYY-MM-DD due date. Empty input is
// valid and yields nil. A well-formed date earlier than today (date-only
// comparison) yields ErrDatePast. The reference day is passed in so the
// rule stays pure; callers supply time.Now().
func ValidateDueDate(raw string, today time.Time) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parsed, err := time.Parse(DateLayout, raw)
	if err != nil {
		return nil, ErrDateFormat
	}

	if parsed.Before(truncateToDay(today)) {
		return nil, ErrDatePast
	}
	return &parsed, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
