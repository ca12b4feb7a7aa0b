package handler

import (
	"context"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/api/view"
	"github.com/taskdeck/backend/pkg/httpcontext"
)

const (
	loginPath = "/login"
	listPath  = "/"
)

type baseHandler struct {
	views   *view.Renderer
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(views *view.Renderer, adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{views: views, adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) redirect(ctx *fasthttp.RequestCtx, location string) {
	ctx.Redirect(location, fasthttp.StatusSeeOther)
}

func formValue(ctx *fasthttp.RequestCtx, key string) string {
	return string(ctx.PostArgs().Peek(key))
}

func queryValue(ctx *fasthttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

func pathValue(ctx *fasthttp.RequestCtx, key string) string {
	value, _ := ctx.UserValue(key).(string)
	return value
}
