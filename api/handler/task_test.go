package handler

import (
	"context"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/internal/middleware"
	taskUC "github.com/taskdeck/backend/usecase/task"
)

func newTaskFixture(t *testing.T) (*TaskHandler, *memTaskRepo) {
	t.Helper()
	repo := newMemTaskRepo()
	return NewTaskHandler(taskUC.New(repo, nil), testViews(t), nil, nil), repo
}

func authedCtx(userID int64, username string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.SetUserValue(middleware.CtxUserID, userID)
	ctx.SetUserValue(middleware.CtxUsername, username)
	return ctx
}

func authedPostCtx(userID int64, username string, values url.Values) *fasthttp.RequestCtx {
	ctx := postFormCtx(values)
	ctx.SetUserValue(middleware.CtxUserID, userID)
	ctx.SetUserValue(middleware.CtxUsername, username)
	return ctx
}

func seedTask(t *testing.T, repo *memTaskRepo, userID int64, title string) *domain.Task {
	t.Helper()
	task, err := repo.Create(context.Background(), &domain.Task{
		UserID: userID,
		Title:  title,
		Status: domain.StatusPending,
	})
	require.NoError(t, err)
	return task
}

func withTaskID(ctx *fasthttp.RequestCtx, id int64) *fasthttp.RequestCtx {
	ctx.SetUserValue("id", strconv.FormatInt(id, 10))
	return ctx
}

func TestListRendersOwnTasks(t *testing.T) {
	h, repo := newTaskFixture(t)
	seedTask(t, repo, 1, "Water the plants")
	seedTask(t, repo, 2, "Someone else's errand")

	ctx := authedCtx(1, "alice")
	h.List(ctx)

	body := string(ctx.Response.Body())
	assert.Contains(t, body, "Water the plants")
	assert.NotContains(t, body, "Someone else&#39;s errand")
	assert.Contains(t, body, "alice")
}

func TestListKeepsFilterSelection(t *testing.T) {
	h, repo := newTaskFixture(t)
	seedTask(t, repo, 1, "Only one")

	ctx := authedCtx(1, "alice")
	ctx.QueryArgs().Set("status", "Completed")
	ctx.QueryArgs().Set("search", "plants")
	h.List(ctx)

	body := string(ctx.Response.Body())
	assert.Contains(t, body, `value="Completed" selected`)
	assert.Contains(t, body, `value="plants"`)
}

func TestAddCreatesPendingTask(t *testing.T) {
	h, repo := newTaskFixture(t)

	ctx := authedPostCtx(1, "alice", url.Values{
		"title":       {"Buy groceries"},
		"description": {"Milk and bread"},
		"due_date":    {"2099-06-01"},
	})
	h.Add(ctx)

	assert.Equal(t, "/", location(ctx))

	tasks := repo.tasks
	require.Len(t, tasks, 1)
	for _, task := range tasks {
		assert.Equal(t, domain.StatusPending, task.Status)
		assert.Equal(t, "Buy groceries", task.Title)
		require.NotNil(t, task.DueDate)
		assert.Equal(t, "2099-06-01", task.DueDate.Format(domain.DateLayout))
	}
}

func TestAddMissingTitleRerendersForm(t *testing.T) {
	h, repo := newTaskFixture(t)

	ctx := authedPostCtx(1, "alice", url.Values{
		"title":       {"   "},
		"description": {"Keep this text"},
	})
	h.Add(ctx)

	body := string(ctx.Response.Body())
	assert.Contains(t, body, "The task title is required.")
	assert.Contains(t, body, "Keep this text")
	assert.Empty(t, repo.tasks)
}

func TestAddRejectsPastDueDate(t *testing.T) {
	h, repo := newTaskFixture(t)

	ctx := authedPostCtx(1, "alice", url.Values{
		"title":    {"Time travel"},
		"due_date": {"2000-01-01"},
	})
	h.Add(ctx)

	assert.Contains(t, string(ctx.Response.Body()), "cannot be in the past")
	assert.Empty(t, repo.tasks)
}

func TestAddRejectsMalformedDueDate(t *testing.T) {
	h, repo := newTaskFixture(t)

	ctx := authedPostCtx(1, "alice", url.Values{
		"title":    {"Bad date"},
		"due_date": {"01/02/2099"},
	})
	h.Add(ctx)

	assert.Contains(t, string(ctx.Response.Body()), "YYYY-MM-DD")
	assert.Empty(t, repo.tasks)
}

func TestEditPagePrefillsForm(t *testing.T) {
	h, repo := newTaskFixture(t)
	task := seedTask(t, repo, 1, "Original title")

	ctx := withTaskID(authedCtx(1, "alice"), task.ID)
	h.EditPage(ctx)

	body := string(ctx.Response.Body())
	assert.Contains(t, body, `value="Original title"`)
	assert.Contains(t, body, `action="/edit_task/`+strconv.FormatInt(task.ID, 10)+`"`)
}

func TestEditPageForeignTaskRedirects(t *testing.T) {
	h, repo := newTaskFixture(t)
	task := seedTask(t, repo, 2, "Not yours")

	ctx := withTaskID(authedCtx(1, "alice"), task.ID)
	h.EditPage(ctx)

	assert.Equal(t, "/", location(ctx))
	assert.Empty(t, ctx.Response.Body())
}

func TestEditUpdatesFieldsAndStatus(t *testing.T) {
	h, repo := newTaskFixture(t)
	task := seedTask(t, repo, 1, "Old title")

	ctx := withTaskID(authedPostCtx(1, "alice", url.Values{
		"title":  {"New title"},
		"status": {"Completed"},
	}), task.ID)
	h.Edit(ctx)

	assert.Equal(t, "/", location(ctx))
	updated := repo.tasks[task.ID]
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, domain.StatusCompleted, updated.Status)
}

func TestEditForeignTaskLeavesItUntouched(t *testing.T) {
	h, repo := newTaskFixture(t)
	task := seedTask(t, repo, 2, "Bob's task")

	ctx := withTaskID(authedPostCtx(1, "alice", url.Values{
		"title": {"Hijacked"},
	}), task.ID)
	h.Edit(ctx)

	assert.Equal(t, "/", location(ctx))
	assert.Equal(t, "Bob's task", repo.tasks[task.ID].Title)
}

func TestEditValidationRerendersEnteredValues(t *testing.T) {
	h, repo := newTaskFixture(t)
	task := seedTask(t, repo, 1, "Keep me")

	ctx := withTaskID(authedPostCtx(1, "alice", url.Values{
		"title":       {""},
		"description": {"Entered description"},
		"status":      {"Completed"},
	}), task.ID)
	h.Edit(ctx)

	body := string(ctx.Response.Body())
	assert.Contains(t, body, "The task title is required.")
	assert.Contains(t, body, "Entered description")
	assert.Equal(t, "Keep me", repo.tasks[task.ID].Title)
}

func TestDeleteRemovesOwnedTask(t *testing.T) {
	h, repo := newTaskFixture(t)
	task := seedTask(t, repo, 1, "Doomed")

	ctx := withTaskID(authedCtx(1, "alice"), task.ID)
	h.Delete(ctx)

	assert.Equal(t, "/", location(ctx))
	assert.Empty(t, repo.tasks)
}

func TestDeleteForeignTaskIsNoOp(t *testing.T) {
	h, repo := newTaskFixture(t)
	task := seedTask(t, repo, 2, "Protected")

	ctx := withTaskID(authedCtx(1, "alice"), task.ID)
	h.Delete(ctx)

	assert.Equal(t, "/", location(ctx))
	assert.Len(t, repo.tasks, 1)
}

func TestMarkTogglesStatus(t *testing.T) {
	h, repo := newTaskFixture(t)
	task := seedTask(t, repo, 1, "Toggle me")

	ctx := withTaskID(authedCtx(1, "alice"), task.ID)
	ctx.SetUserValue("status", "Completed")
	h.Mark(ctx)

	assert.Equal(t, "/", location(ctx))
	assert.Equal(t, domain.StatusCompleted, repo.tasks[task.ID].Status)
}

func TestMarkInvalidStatusLeavesTaskAlone(t *testing.T) {
	h, repo := newTaskFixture(t)
	task := seedTask(t, repo, 1, "Stay pending")

	ctx := withTaskID(authedCtx(1, "alice"), task.ID)
	ctx.SetUserValue("status", "Archived")
	h.Mark(ctx)

	assert.Equal(t, "/", location(ctx))
	assert.Equal(t, domain.StatusPending, repo.tasks[task.ID].Status)
}

func TestMarkMalformedIDRedirects(t *testing.T) {
	h, _ := newTaskFixture(t)

	ctx := authedCtx(1, "alice")
	ctx.SetUserValue("id", "not-a-number")
	ctx.SetUserValue("status", "Completed")
	h.Mark(ctx)

	assert.Equal(t, "/", location(ctx))
}
