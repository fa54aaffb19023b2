package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/bookingapi"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/middleware"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"
)

// DashboardHandler serves the admin landing page figures.
type DashboardHandler struct {
	API BookingAPI
}

func NewDashboardHandler(api BookingAPI) *DashboardHandler {
	if api == nil {
		panic("nil BookingAPI passed to NewDashboardHandler")
	}
	return &DashboardHandler{API: api}
}

// Dashboard handles GET /v1/admin/dashboard.  When the booking API is down
// the page still loads with zeroed stats and an error message.
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	ctx, token := c.Request().Context(), middleware.Token(c)
	resp := echo.Map{"ok": true}

	stats, err := h.API.Stats(ctx, token)
	if errors.Is(err, bookingapi.ErrUnauthorized) {
		return upstreamError(c, "dashboard", err)
	}
	if err != nil {
		log.Printf("dashboard: stats: %v", err)
		stats = model.DashboardStats{}
		resp["ok"] = false
		resp["error"] = "No se pudieron cargar las estadísticas"
		c.Response().Header().Set("Cache-Control", "no-store")
	}
	resp["stats"] = stats

	recent, err := h.API.RecentBookings(ctx, token)
	if err != nil {
		log.Printf("dashboard: recent bookings: %v", err)
		recent = []model.Booking{}
		c.Response().Header().Set("Cache-Control", "no-store")
	}
	resp["recent_bookings"] = recent
	return c.JSON(http.StatusOK, resp)
}
