package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/api/view"
	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/internal/middleware"
	"github.com/taskdeck/backend/pkg/httpcontext"
	"github.com/taskdeck/backend/repository"
	taskUC "github.com/taskdeck/backend/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, views *view.Renderer, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(views, adapter, logger),
		uc:          uc,
	}
}

func (h *TaskHandler) List(ctx *fasthttp.RequestCtx) {
	userID := middleware.UserID(ctx)

	filter := repository.TaskFilter{
		UserID: userID,
		Status: queryValue(ctx, "status"),
		Search: queryValue(ctx, "search"),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.List(stdCtx, filter)
	if err != nil {
		h.logger.Error("task listing failed", zap.Int64("user_id", userID), zap.Error(err))
	}

	h.views.Render(ctx, "tasks.html", view.TaskListData{
		Username:     middleware.Username(ctx),
		Tasks:        tasks,
		StatusFilter: filter.Status,
		Search:       filter.Search,
	})
}

func (h *TaskHandler) AddPage(ctx *fasthttp.RequestCtx) {
	h.views.Render(ctx, "task_form.html", view.TaskFormData{
		Username: middleware.Username(ctx),
		Form:     view.TaskForm{Status: string(domain.StatusPending)},
	})
}

func (h *TaskHandler) Add(ctx *fasthttp.RequestCtx) {
	userID := middleware.UserID(ctx)
	form := readTaskForm(ctx)

	input, errMsg := validateTaskForm(form)
	if errMsg != "" {
		h.views.Render(ctx, "task_form.html", view.TaskFormData{
			Username: middleware.Username(ctx),
			Form:     form,
			Error:    errMsg,
		})
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.uc.Create(stdCtx, userID, input); err != nil {
		h.logger.Error("task creation failed", zap.Int64("user_id", userID), zap.Error(err))
		h.views.Render(ctx, "task_form.html", view.TaskFormData{
			Username: middleware.Username(ctx),
			Form:     form,
			Error:    "Could not save the task, please try again.",
		})
		return
	}

	h.redirect(ctx, listPath)
}

func (h *TaskHandler) EditPage(ctx *fasthttp.RequestCtx) {
	userID := middleware.UserID(ctx)
	taskID, ok := h.taskID(ctx)
	if !ok {
		h.redirect(ctx, listPath)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.GetOwned(stdCtx, userID, taskID)
	if err != nil {
		// Missing and foreign tasks look identical: back to the list.
		h.redirect(ctx, listPath)
		return
	}

	h.views.Render(ctx, "task_form.html", view.TaskFormData{
		Username: middleware.Username(ctx),
		Editing:  true,
		TaskID:   task.ID,
		Form: view.TaskForm{
			Title:       task.Title,
			Description: task.Description,
			DueDate:     task.DueDateValue(),
			Status:      string(task.Status),
		},
	})
}

func (h *TaskHandler) Edit(ctx *fasthttp.RequestCtx) {
	userID := middleware.UserID(ctx)
	taskID, ok := h.taskID(ctx)
	if !ok {
		h.redirect(ctx, listPath)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	current, err := h.uc.GetOwned(stdCtx, userID, taskID)
	if err != nil {
		h.redirect(ctx, listPath)
		return
	}

	form := readTaskForm(ctx)
	input, errMsg := validateTaskForm(form)
	if errMsg != "" {
		h.views.Render(ctx, "task_form.html", view.TaskFormData{
			Username: middleware.Username(ctx),
			Editing:  true,
			TaskID:   taskID,
			Form:     form,
			Error:    errMsg,
		})
		return
	}

	if err := h.uc.Update(stdCtx, userID, taskID, input, form.Status, current.Status); err != nil {
		h.logger.Error("task update failed", zap.Int64("task_id", taskID), zap.Error(err))
	}
	h.redirect(ctx, listPath)
}

func (h *TaskHandler) Delete(ctx *fasthttp.RequestCtx) {
	userID := middleware.UserID(ctx)
	if taskID, ok := h.taskID(ctx); ok {
		stdCtx, cancel := h.requestContext(ctx)
		defer cancel()
		if err := h.uc.Delete(stdCtx, userID, taskID); err != nil {
			h.logger.Error("task delete failed", zap.Int64("task_id", taskID), zap.Error(err))
		}
	}
	h.redirect(ctx, listPath)
}

func (h *TaskHandler) Mark(ctx *fasthttp.RequestCtx) {
	userID := middleware.UserID(ctx)
	if taskID, ok := h.taskID(ctx); ok {
		stdCtx, cancel := h.requestContext(ctx)
		defer cancel()
		if err := h.uc.SetStatus(stdCtx, userID, taskID, pathValue(ctx, "status")); err != nil {
			h.logger.Error("task status change failed", zap.Int64("task_id", taskID), zap.Error(err))
		}
	}
	h.redirect(ctx, listPath)
}

func (h *TaskHandler) taskID(ctx *fasthttp.RequestCtx) (int64, bool) {
	id, err := strconv.ParseInt(pathValue(ctx, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func readTaskForm(ctx *fasthttp.RequestCtx) view.TaskForm {
	return view.TaskForm{
		Title:       formValue(ctx, "title"),
		Description: formValue(ctx, "description"),
		DueDate:     formValue(ctx, "due_date"),
		Status:      formValue(ctx, "status"),
	}
}

// validateTaskForm applies the field rules shared by add and edit. The
// returned message is empty when the form is acceptable.
func validateTaskForm(form view.TaskForm) (taskUC.Input, string) {
	if !domain.RequireNonEmpty(form.Title) {
		return taskUC.Input{}, "The task title is required."
	}

	dueDate, err := domain.ValidateDueDate(form.DueDate, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDatePast):
			return taskUC.Input{}, "The due date cannot be in the past."
		default:
			return taskUC.Input{}, "Invalid date format. Use YYYY-MM-DD."
		}
	}

	return taskUC.Input{
		Title:       form.Title,
		Description: form.Description,
		DueDate:     dueDate,
	}, ""
}
