package handler

import (
	"bytes"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/export"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/metrics"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/middleware"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/state"
)

// FinancialHandler serves the revenue summary and the financial report.
type FinancialHandler struct {
	API     BookingAPI
	Store   *state.Store
	Metrics *metrics.Metrics
}

func NewFinancialHandler(api BookingAPI, store *state.Store, m *metrics.Metrics) *FinancialHandler {
	if api == nil || store == nil {
		panic("nil dependency passed to NewFinancialHandler")
	}
	return &FinancialHandler{API: api, Store: store, Metrics: m}
}

// selection reads start_date, end_date and filter_by.  The range follows
// the agenda export limits; filter_by defaults to created_at.
func (h *FinancialHandler) selection(c echo.Context) (export.Range, string, error) {
	rng, err := export.ResolveRange(firstParam(c, "start_date", "startDate"), firstParam(c, "end_date", "endDate"), h.Store.Today())
	if err != nil {
		return export.Range{}, "", err
	}
	filterBy := strings.ToLower(firstParam(c, "filter_by", "filterBy"))
	switch filterBy {
	case "":
		filterBy = model.FilterByCreatedAt
	case model.FilterByCreatedAt, model.FilterByCheckIn:
	default:
		return export.Range{}, "", &export.RangeError{Msg: "filter_by debe ser created_at o check_in"}
	}
	return rng, filterBy, nil
}

// Summary handles GET /v1/admin/financial/summary.
func (h *FinancialHandler) Summary(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	rng, filterBy, err := h.selection(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"ok": false, "error": err.Error()})
	}
	sum, err := h.API.FinancialSummary(c.Request().Context(), middleware.Token(c), rng.From, rng.To, filterBy)
	if err != nil {
		return upstreamError(c, "financial", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "summary": sum, "range": rng, "filter_by": filterBy})
}

// Export handles GET /v1/admin/financial/export.  format is csv (default)
// or xlsx.
func (h *FinancialHandler) Export(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	rng, filterBy, err := h.selection(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"ok": false, "error": err.Error()})
	}
	format := strings.ToLower(c.QueryParam("format"))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		return c.JSON(http.StatusBadRequest, echo.Map{"ok": false, "error": "format must be csv or xlsx"})
	}

	rep, err := h.API.FinancialReport(c.Request().Context(), middleware.Token(c), rng.From, rng.To, filterBy)
	if err != nil {
		return upstreamError(c, "financial export", err)
	}

	var buf bytes.Buffer
	contentType := "text/csv; charset=utf-8"
	if format == "xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = export.WriteFinancialXLSX(&buf, rep)
	} else {
		err = export.WriteFinancialCSV(&buf, rep)
	}
	if err != nil {
		log.Printf("financial export: %s: %v", format, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"ok": false, "error": "export failed"})
	}
	h.Metrics.Exported("financial_" + format)
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+export.FinancialFilename(rng)+"."+format+`"`)
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}
