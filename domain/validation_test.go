package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDueDate(t *testing.T) {
	today := time.Date(2026, time.March, 15, 13, 45, 0, 0, time.Local)

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "empty is valid", raw: "", want: ""},
		{name: "whitespace is valid", raw: "   ", want: ""},
		{name: "today is valid", raw: "2026-03-15", want: "2026-03-15"},
		{name: "future is valid", raw: "2999-01-01", want: "2999-01-01"},
		{name: "yesterday is past", raw: "2026-03-14", wantErr: ErrDatePast},
		{name: "distant past", raw: "2000-01-01", wantErr: ErrDatePast},
		{name: "impossible month", raw: "2099-13-40", wantErr: ErrDateFormat},
		{name: "wrong layout", raw: "15/03/2026", wantErr: ErrDateFormat},
		{name: "garbage", raw: "soon", wantErr: ErrDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateDueDate(tt.raw, today)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Format(DateLayout))
		})
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw      string
		fallback TaskStatus
		want     TaskStatus
	}{
		{raw: "Pending", fallback: StatusCompleted, want: StatusPending},
		{raw: "Completed", fallback: StatusPending, want: StatusCompleted},
		{raw: "Archived", fallback: StatusPending, want: StatusPending},
		{raw: "pending", fallback: StatusCompleted, want: StatusCompleted},
		{raw: "", fallback: StatusCompleted, want: StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.raw+"->"+string(tt.want), func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeStatus(tt.raw, tt.fallback))
		})
	}
}

func TestParseStatus(t *testing.T) {
	status, ok := ParseStatus("Completed")
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, status)

	_, ok = ParseStatus("Done")
	assert.False(t, ok)
}

func TestRequireNonEmpty(t *testing.T) {
	assert.True(t, RequireNonEmpty("write report"))
	assert.False(t, RequireNonEmpty(""))
	assert.False(t, RequireNonEmpty("  \t "))
}

func TestIsDomainError(t *testing.T) {
	err := WrapError(ErrCodeConflict, "username already taken", nil)
	assert.True(t, IsDomainError(err, ErrCodeConflict))
	assert.False(t, IsDomainError(err, ErrCodeNotFound))
	assert.False(t, IsDomainError(nil, ErrCodeConflict))
}
