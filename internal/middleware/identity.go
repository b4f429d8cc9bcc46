package middleware

import "github.com/labstack/echo/v4"

// currentUser returns the authenticated username stored by JWTAuth, or
// "anon" when the request is unauthenticated. Shared by the rate limiter
// so per-user buckets work on both public and protected routes.
func currentUser(c echo.Context) string {
	if v, ok := c.Get("username").(string); ok && v != "" {
		return v
	}
	return "anon"
}
