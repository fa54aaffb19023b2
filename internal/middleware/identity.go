package middleware

import "github.com/labstack/echo/v4"

// AdminID returns the authenticated admin's id, or "" before AdminAuth ran.
func AdminID(c echo.Context) string {
	s, _ := c.Get(CtxUserID).(string)
	return s
}

// AdminName returns the display name carried by the admin's token.
func AdminName(c echo.Context) string {
	s, _ := c.Get(CtxAdminName).(string)
	return s
}

// Token returns the raw admin token to forward upstream.
func Token(c echo.Context) string {
	s, _ := c.Get(CtxToken).(string)
	return s
}

// userKey is AdminID with a placeholder for anonymous callers, used in
// rate limit and cache keys.
func userKey(c echo.Context) string {
	if id := AdminID(c); id != "" {
		return id
	}
	return "anon"
}
