package handler

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskdeck/backend/api/view"
	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/repository"
)

// In-memory repositories mirroring the owner-scoped Postgres semantics, so
// handler tests exercise the full handler→usecase path.

type memUserRepo struct {
	nextID int64
	byName map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byName: map[string]*domain.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.byName[user.Username]; exists {
		return nil, domain.ErrUsernameTaken
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	r.byName[user.Username] = user
	return user, nil
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, ok := r.byName[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

type memSessionRepo struct {
	sessions map[string]*domain.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: map[string]*domain.Session{}}
}

func (r *memSessionRepo) Get(ctx context.Context, id string) (*domain.Session, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (r *memSessionRepo) Save(ctx context.Context, session *domain.Session) error {
	r.sessions[session.ID] = session
	return nil
}

func (r *memSessionRepo) Delete(ctx context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

type memTaskRepo struct {
	nextID int64
	tasks  map[int64]*domain.Task
	clock  time.Time
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{
		tasks: map[int64]*domain.Task{},
		clock: time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (r *memTaskRepo) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task.Status == "" {
		task.Status = domain.StatusPending
	}
	r.nextID++
	r.clock = r.clock.Add(time.Minute)
	task.ID = r.nextID
	task.CreatedAt = r.clock
	stored := *task
	r.tasks[task.ID] = &stored
	return task, nil
}

func (r *memTaskRepo) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	var out []domain.Task
	for _, t := range r.tasks {
		if t.UserID != filter.UserID {
			continue
		}
		if status, ok := domain.ParseStatus(filter.Status); ok && t.Status != status {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memTaskRepo) GetOwned(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	t, ok := r.tasks[taskID]
	if !ok || t.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *memTaskRepo) Update(ctx context.Context, task *domain.Task) error {
	existing, ok := r.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return nil
	}
	existing.Title = task.Title
	existing.Description = task.Description
	existing.DueDate = task.DueDate
	existing.Status = task.Status
	return nil
}

func (r *memTaskRepo) Delete(ctx context.Context, userID, taskID int64) error {
	if t, ok := r.tasks[taskID]; ok && t.UserID == userID {
		delete(r.tasks, taskID)
	}
	return nil
}

func (r *memTaskRepo) SetStatus(ctx context.Context, userID, taskID int64, status domain.TaskStatus) error {
	if _, ok := domain.ParseStatus(string(status)); !ok {
		return nil
	}
	if t, ok := r.tasks[taskID]; ok && t.UserID == userID {
		t.Status = status
	}
	return nil
}

func testViews(t *testing.T) *view.Renderer {
	t.Helper()
	views, err := view.New(nil)
	require.NoError(t, err)
	return views
}
