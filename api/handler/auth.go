package handler

import (
	"errors"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/api/view"
	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/internal/middleware"
	"github.com/taskdeck/backend/pkg/httpcontext"
	authUC "github.com/taskdeck/backend/usecase/auth"
)

// CookieSettings describes how the session cookie is issued.
type CookieSettings struct {
	Name   string
	Secret string
	Secure bool
}

type AuthHandler struct {
	baseHandler
	uc         *authUC.UseCase
	cookie     CookieSettings
	sessionTTL time.Duration
}

func NewAuthHandler(uc *authUC.UseCase, views *view.Renderer, adapter *httpcontext.Adapter, logger *zap.Logger, cookie CookieSettings, sessionTTL time.Duration) *AuthHandler {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthHandler{
		baseHandler: newBaseHandler(views, adapter, logger),
		uc:          uc,
		cookie:      cookie,
		sessionTTL:  sessionTTL,
	}
}

func (h *AuthHandler) RegisterPage(ctx *fasthttp.RequestCtx) {
	h.views.Render(ctx, "register.html", view.AuthData{})
}

func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	username := formValue(ctx, "username")
	password := formValue(ctx, "password")

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	_, err := h.uc.Register(stdCtx, username, password)
	if err == nil {
		h.redirect(ctx, loginPath)
		return
	}

	data := view.AuthData{Username: username}
	switch {
	case errors.Is(err, domain.ErrMissingCredentials):
		data.Error = "Username and password are required."
	case errors.Is(err, domain.ErrUsernameTaken):
		data.Error = "That username is already taken."
	default:
		// Persistence faults still get a rendered page, never a dead request.
		h.logger.Error("registration failed", zap.Error(err))
		data.Error = "Registration failed, please try again."
	}
	h.views.Render(ctx, "register.html", data)
}

func (h *AuthHandler) LoginPage(ctx *fasthttp.RequestCtx) {
	h.views.Render(ctx, "login.html", view.AuthData{})
}

func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	username := formValue(ctx, "username")
	password := formValue(ctx, "password")

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.Verify(stdCtx, username, password)
	if err != nil {
		data := view.AuthData{Username: username, Error: "Invalid username or password."}
		if !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
			h.logger.Error("login failed", zap.Error(err))
			data.Error = "Login failed, please try again."
		}
		h.views.Render(ctx, "login.html", data)
		return
	}

	session, err := h.uc.CreateSession(stdCtx, user, h.sessionTTL)
	if err != nil {
		h.logger.Error("session creation failed", zap.Error(err))
		h.views.Render(ctx, "login.html", view.AuthData{Username: username, Error: "Login failed, please try again."})
		return
	}

	value, err := middleware.EncodeSessionCookie(h.cookie.Secret, session.ID, session.ExpiresAt)
	if err != nil {
		h.logger.Error("session cookie signing failed", zap.Error(err))
		h.views.Render(ctx, "login.html", view.AuthData{Username: username, Error: "Login failed, please try again."})
		return
	}

	h.setSessionCookie(ctx, value, session.ExpiresAt)
	h.redirect(ctx, listPath)
}

// Logout runs behind the session gate, so revoking twice or without a
// session is already handled upstream; clearing the cookie is idempotent.
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if sid := middleware.SessionID(ctx); sid != "" {
		if err := h.uc.RevokeSession(stdCtx, sid); err != nil {
			h.logger.Warn("session revoke failed", zap.Error(err))
		}
	}

	h.clearSessionCookie(ctx)
	h.redirect(ctx, loginPath)
}

func (h *AuthHandler) setSessionCookie(ctx *fasthttp.RequestCtx, value string, expires time.Time) {
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)

	cookie.SetKey(h.cookie.Name)
	cookie.SetValue(value)
	cookie.SetPath("/")
	cookie.SetExpire(expires)
	cookie.SetHTTPOnly(true)
	cookie.SetSecure(h.cookie.Secure)
	cookie.SetSameSite(fasthttp.CookieSameSiteLaxMode)
	ctx.Response.Header.SetCookie(cookie)
}

func (h *AuthHandler) clearSessionCookie(ctx *fasthttp.RequestCtx) {
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)

	cookie.SetKey(h.cookie.Name)
	cookie.SetValue("")
	cookie.SetPath("/")
	cookie.SetExpire(fasthttp.CookieExpireDelete)
	cookie.SetHTTPOnly(true)
	ctx.Response.Header.SetCookie(cookie)
}
