package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/smart-parking/internal/handler"
	"github.com/iliyamo/smart-parking/internal/middleware"
)

// RegisterOperator registers the day-to-day parking endpoints available
// to both roles: vehicle entry/exit, session and payment history,
// receipts and the read-only slot list. The cache middleware wraps the
// slot list, the hottest read path.
func RegisterOperator(e *echo.Echo, v *handler.VehicleHandler, p *handler.PaymentHandler,
	s *handler.SlotHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("admin", "user"),
	)

	// ---- Vehicle lifecycle ----
	g.POST("/vehicles", v.Park)
	g.POST("/vehicles/:number/exit", v.Exit)
	g.GET("/vehicles", v.List)
	g.GET("/vehicles/:number", v.Get)

	// ---- Receipts and payments ----
	g.POST("/vehicles/:number/receipt", p.IssueReceipt)
	g.GET("/payments", p.List)

	// ---- Slots (read-only for operators) ----
	g.GET("/slots", s.List, cache)
	g.GET("/slots/:id", s.Get)
}
