package middleware // reusable HTTP middleware for the admin agenda API

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/utils"
)

// TokenHeader is the header the booking API reads tokens from.  Browsers
// built for that API send it, so it is accepted here as well as Bearer.
const TokenHeader = "x-token"

// Context keys set by AdminAuth.
const (
	CtxUserID    = "user_id"
	CtxRole      = "role"
	CtxToken     = "token"
	CtxAdminName = "admin_name"
)

// RoleAdmin is the only role that passes RequireAdmin.
const RoleAdmin = "admin"

// AdminAuth validates the admin token issued by the booking API and puts the
// admin's id, name, role and the raw token into the context.  The raw token
// is forwarded on upstream calls.
func AdminAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := tokenFrom(c.Request())
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing token"})
			}
			admin, err := utils.ParseAdminToken(secret, raw)
			if errors.Is(err, utils.ErrNotAdmin) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "admin access required"})
			}
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(CtxUserID, admin.ID)
			c.Set(CtxAdminName, admin.Name)
			c.Set(CtxRole, RoleAdmin)
			c.Set(CtxToken, raw)
			return next(c)
		}
	}
}

func tokenFrom(r *http.Request) string {
	if t := strings.TrimSpace(r.Header.Get(TokenHeader)); t != "" {
		return t
	}
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	// Browsers cannot set headers on a WebSocket upgrade.
	if websocketUpgrade(r) {
		return r.URL.Query().Get("token")
	}
	return ""
}

func websocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}
