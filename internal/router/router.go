package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskdeck/backend/api/handler"
)

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	Task   *apiHandler.TaskHandler
	Health *apiHandler.HealthHandler
}

// New wires the HTTP surface. requireSession guards everything that
// operates on the caller's task list.
func New(handlers Handlers, requireSession func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Public auth surface
	r.GET("/register", handlers.Auth.RegisterPage)
	r.POST("/register", handlers.Auth.Register)
	r.GET("/login", handlers.Auth.LoginPage)
	r.POST("/login", handlers.Auth.Login)

	// Session-gated surface
	r.GET("/logout", requireSession(handlers.Auth.Logout))
	r.GET("/", requireSession(handlers.Task.List))
	r.GET("/add_task", requireSession(handlers.Task.AddPage))
	r.POST("/add_task", requireSession(handlers.Task.Add))
	r.GET("/edit_task/{id}", requireSession(handlers.Task.EditPage))
	r.POST("/edit_task/{id}", requireSession(handlers.Task.Edit))
	r.POST("/delete_task/{id}", requireSession(handlers.Task.Delete))
	r.POST("/mark_task/{id}/{status}", requireSession(handlers.Task.Mark))

	return r
}
