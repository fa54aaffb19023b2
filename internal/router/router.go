package router // package router registers the HTTP routes of the agenda service

import (
	"github.com/labstack/echo/v4"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/handler"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/middleware"
)

// Admin bundles the handlers and middleware mounted under /v1/admin.
type Admin struct {
	JWTSecret    string
	Agenda       *handler.AgendaHandler
	Reservations *handler.ReservationHandler
	Reviews      *handler.ReviewHandler
	Dashboard    *handler.DashboardHandler
	Financial    *handler.FinancialHandler
	Audit        *handler.AuditHandler
	// RateLimit wraps every admin route; Cache wraps the read-only ones that
	// carry no per-admin view state.
	RateLimit echo.MiddlewareFunc
	Cache     echo.MiddlewareFunc
}

// RegisterRoutes registers routes that need no token.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAdmin mounts the admin API.  Every route requires an admin token.
func RegisterAdmin(e *echo.Echo, a Admin) {
	g := e.Group("/v1/admin", middleware.AdminAuth(a.JWTSecret), middleware.RequireAdmin())
	if a.RateLimit != nil {
		g.Use(a.RateLimit)
	}
	cached := []echo.MiddlewareFunc{}
	if a.Cache != nil {
		cached = append(cached, a.Cache)
	}

	ag := g.Group("/agenda")
	ag.GET("", a.Agenda.Grid)
	ag.POST("/navigate", a.Agenda.Navigate)
	ag.POST("/refresh", a.Agenda.Refresh)
	ag.POST("/pointer", a.Agenda.Pointer)
	ag.POST("/cells/add", a.Agenda.AddCell)
	ag.GET("/cells/:cabin/:date", a.Agenda.CellDetail)
	ag.GET("/export", a.Agenda.Export)
	ag.GET("/ws", a.Agenda.Live)

	rs := g.Group("/reservations")
	rs.GET("", a.Reservations.List)
	rs.POST("/walk-in", a.Reservations.WalkIn)
	rs.PATCH("/:id/status", a.Reservations.UpdateStatus)
	rs.PATCH("/:id/payment", a.Reservations.UpdatePayment)
	rs.GET("/:id/receipt", a.Reservations.Receipt)
	rs.GET("/:id/contact", a.Reservations.Contact)

	g.GET("/reviews/pending", a.Reviews.Pending, cached...)
	g.PUT("/reviews/:id", a.Reviews.Moderate)

	g.GET("/dashboard", a.Dashboard.Dashboard, cached...)
	g.GET("/financial/summary", a.Financial.Summary, cached...)
	g.GET("/financial/export", a.Financial.Export)
	g.GET("/audit", a.Audit.List)
}
