package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"
)

// AuditLister reads the staff-action trail.  repository.AuditRepo
// satisfies it.
type AuditLister interface {
	List(ctx context.Context, targetID string, limit int) ([]model.AuditEntry, error)
}

// AuditHandler exposes the staff-action trail.
type AuditHandler struct {
	Repo AuditLister
}

// List handles GET /v1/admin/audit?target_id&limit.
func (h *AuditHandler) List(c echo.Context) error {
	if h == nil || h.Repo == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"ok": false, "error": "audit trail disabled"})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	entries, err := h.Repo.List(c.Request().Context(), c.QueryParam("target_id"), limit)
	if err != nil {
		log.Printf("audit: list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"ok": false, "error": "audit unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "entries": entries})
}
