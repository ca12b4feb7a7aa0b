package view

import (
	"embed"
	"html/template"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the embedded page templates. It is deliberately thin:
// all decisions happen in the handlers, templates only display.
type Renderer struct {
	tmpl   *template.Template
	logger *zap.Logger
}

func New(logger *zap.Logger) (*Renderer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl, logger: logger}, nil
}

// Render writes the named page to the response. A template failure at this
// point is a programming error; it is logged and surfaced as a 500.
func (r *Renderer) Render(ctx *fasthttp.RequestCtx, name string, data interface{}) {
	ctx.SetContentType("text/html; charset=utf-8")
	if err := r.tmpl.ExecuteTemplate(ctx, name, data); err != nil {
		r.logger.Error("template render failed", zap.String("template", name), zap.Error(err))
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
	}
}

// AuthData feeds the login and register pages.
type AuthData struct {
	Username string
	Error    string
}

// TaskForm mirrors the add/edit form fields as entered, so a failed
// submission re-renders exactly what the user typed.
type TaskForm struct {
	Title       string
	Description string
	DueDate     string
	Status      string
}

// TaskFormData feeds the add/edit task page.
type TaskFormData struct {
	Username string
	Form     TaskForm
	Editing  bool
	TaskID   int64
	Error    string
}

// TaskListData feeds the task list page.
type TaskListData struct {
	Username     string
	Tasks        []domain.Task
	StatusFilter string
	Search       string
}
