package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/smart-parking/internal/handler"
	"github.com/iliyamo/smart-parking/internal/middleware"
)

// RegisterAdmin registers admin-scoped endpoints under /v1: user and slot
// management, settings and reports. All routes require a valid JWT with
// the admin role. Report reads go through the cache middleware.
func RegisterAdmin(e *echo.Echo, u *handler.AdminUserHandler, s *handler.SlotHandler,
	st *handler.SettingsHandler, r *handler.ReportHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("admin"),
	)

	// ---- Users ----
	g.GET("/users", u.List)
	g.POST("/users", u.Create)
	g.GET("/users/:username", u.Get)
	g.PUT("/users/:username", u.Update)
	g.PUT("/users/:username/password", u.ResetPassword)
	g.DELETE("/users/:username", u.Delete)

	// ---- Slots (write ops) ----
	g.POST("/slots", s.Create)
	g.PUT("/slots/:id", s.Update)
	g.PATCH("/slots/:id", s.Update)
	g.DELETE("/slots/:id", s.Delete)
	g.GET("/slots/occupancy/stats", s.Occupancy)

	// ---- Settings ----
	g.GET("/settings", st.Get)
	g.PUT("/settings", st.Save)
	g.POST("/settings/test-email", st.TestEmail)

	// ---- Reports ----
	g.GET("/reports/revenue", r.Revenue, cache)
	g.GET("/reports/daily-revenue", r.DailyRevenue, cache)
	g.GET("/reports/occupancy", r.Occupancy)
	g.POST("/reports/export", r.Export)
}
