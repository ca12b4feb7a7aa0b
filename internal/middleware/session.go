package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/domain"
)

// Request user values populated by RequireSession.
const (
	CtxUserID    = "user_id"
	CtxUsername  = "username"
	CtxSessionID = "session_id"
)

const loginPath = "/login"

// SessionResolver resolves an opaque session ID to a live session.
type SessionResolver interface {
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
}

// EncodeSessionCookie wraps the opaque session ID in an HS256-signed token
// so the cookie value cannot be forged or swapped client-side.
func EncodeSessionCookie(secret, sessionID string, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sessionID,
		"exp": expiresAt.Unix(),
	})
	return token.SignedString([]byte(secret))
}

// DecodeSessionCookie verifies the cookie signature and returns the
// embedded session ID.
func DecodeSessionCookie(secret, value string) (string, error) {
	token, err := jwt.Parse(value, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", domain.ErrSessionNotFound
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrSessionNotFound
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", domain.ErrSessionNotFound
	}
	return sid, nil
}

// RequireSession gates a handler behind an authenticated session. Requests
// without a valid session are redirected to the login page; authenticated
// requests carry the resolved user identity in the request's user values.
func RequireSession(cookieName, secret string, sessions SessionResolver, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			cookie := string(ctx.Request.Header.Cookie(cookieName))
			if cookie == "" {
				ctx.Redirect(loginPath, fasthttp.StatusSeeOther)
				return
			}

			sid, err := DecodeSessionCookie(secret, cookie)
			if err != nil {
				logger.Debug("rejected session cookie", zap.Error(err))
				ctx.Redirect(loginPath, fasthttp.StatusSeeOther)
				return
			}

			stdCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			session, err := sessions.GetSession(stdCtx, sid)
			cancel()
			if err != nil {
				ctx.Redirect(loginPath, fasthttp.StatusSeeOther)
				return
			}

			ctx.SetUserValue(CtxUserID, session.UserID)
			ctx.SetUserValue(CtxUsername, session.Username)
			ctx.SetUserValue(CtxSessionID, session.ID)

			next(ctx)
		}
	}
}

// UserID returns the authenticated user ID stored by RequireSession, or
// zero when the request did not pass the gate.
func UserID(ctx *fasthttp.RequestCtx) int64 {
	id, _ := ctx.UserValue(CtxUserID).(int64)
	return id
}

// Username returns the authenticated username, empty when unauthenticated.
func Username(ctx *fasthttp.RequestCtx) string {
	name, _ := ctx.UserValue(CtxUsername).(string)
	return name
}

// SessionID returns the current session's opaque ID, empty when unauthenticated.
func SessionID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue(CtxSessionID).(string)
	return id
}
