package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/agenda"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/export"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/middleware"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"
	q "github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/queue"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/state"
)

// ReservationHandler lists reservations and runs the front-desk actions on them.
type ReservationHandler struct {
	API      BookingAPI
	Validate *validator.Validate
	Store    *state.Store
	Changes  *Changes
}

// NewReservationHandler panics when api or store is nil.  A nil validate
// gets a fresh validator.
func NewReservationHandler(api BookingAPI, v *validator.Validate, store *state.Store, ch *Changes) *ReservationHandler {
	if api == nil || store == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	if v == nil {
		v = validator.New()
	}
	return &ReservationHandler{API: api, Validate: v, Store: store, Changes: ch}
}

func invalid(c echo.Context, err error) error {
	var ve model.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"ok": false, "error": ve[0], "errors": ve})
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"ok": false, "error": err.Error()})
}

// List handles GET /v1/admin/reservations.  Query parameters status,
// payment_status, booking_type, date, date_range (week|month) and search
// filter the list; "all" or an empty value matches everything.  page and
// limit select one page.
func (h *ReservationHandler) List(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	f, err := listFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"ok": false, "error": err.Error()})
	}
	bookings, err := h.API.ListReservations(c.Request().Context(), middleware.Token(c), f, h.Store.Today())
	if err != nil {
		return upstreamError(c, "reservations", err)
	}
	page, p := f.Paginate(bookings)
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "reservations": page, "pagination": p})
}

func listFilter(c echo.Context) (agenda.ReservationFilter, error) {
	param := func(name string) string {
		v := strings.TrimSpace(c.QueryParam(name))
		if strings.EqualFold(v, "all") {
			return ""
		}
		return v
	}
	f := agenda.ReservationFilter{
		Status:        param("status"),
		PaymentStatus: param("payment_status"),
		BookingType:   param("booking_type"),
		Range:         strings.ToLower(param("date_range")),
		Search:        param("search"),
	}
	if f.Range != "" && f.Range != agenda.RangeWeek && f.Range != agenda.RangeMonth {
		return f, errors.New("date_range must be week or month")
	}
	if raw := param("date"); raw != "" {
		d, err := agenda.ParseDate(raw)
		if err != nil {
			return f, errors.New("invalid date")
		}
		f.Date = d
	}
	for _, p := range []struct {
		name string
		dst  *int
	}{{"page", &f.Page}, {"limit", &f.Limit}} {
		raw := param(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return f, errors.New("invalid " + p.name)
		}
		*p.dst = n
	}
	return f, nil
}

// WalkIn handles POST /v1/admin/reservations/walk-in.
func (h *ReservationHandler) WalkIn(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req model.WalkInRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"ok": false, "error": "invalid body"})
	}
	req.GuestName = strings.TrimSpace(req.GuestName)
	req.GuestPhone = strings.TrimSpace(req.GuestPhone)
	if err := req.Validate(h.Validate, h.Store.Today().Time()); err != nil {
		return invalid(c, err)
	}
	b, err := h.API.CreateWalkInReservation(c.Request().Context(), middleware.Token(c), req)
	if err != nil {
		return upstreamError(c, "walk-in", err)
	}
	h.Changes.Record(c, EventReservationChanged, q.ActionWalkIn, b.ID, nil, b)
	return c.JSON(http.StatusCreated, echo.Map{"ok": true, "msg": "Reservación creada", "reservation": b})
}

// UpdateStatus handles PATCH /v1/admin/reservations/:id/status.  Only the
// lifecycle moves allowed by model.CanTransition are forwarded.
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := c.Param("id")
	var req model.StatusUpdate
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"ok": false, "error": "invalid body"})
	}
	if err := h.Validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"ok": false, "error": "Estado inválido"})
	}
	ctx, token := c.Request().Context(), middleware.Token(c)
	cur, err := h.API.GetReservation(ctx, token, id)
	if err != nil {
		return upstreamError(c, "status", err)
	}
	if !model.CanTransition(cur.Status, req.Status) {
		return c.JSON(http.StatusConflict, echo.Map{
			"ok":    false,
			"error": "No se puede cambiar de " + cur.Status + " a " + req.Status,
		})
	}
	b, err := h.API.UpdateReservationStatus(ctx, token, id, req.Status)
	if err != nil {
		return upstreamError(c, "status", err)
	}
	h.Changes.Record(c, EventReservationChanged, q.ActionStatus, id,
		echo.Map{"status": cur.Status}, echo.Map{"status": req.Status})
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "reservation": b})
}

// UpdatePayment handles PATCH /v1/admin/reservations/:id/payment.
func (h *ReservationHandler) UpdatePayment(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := c.Param("id")
	var req model.PaymentUpdate
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"ok": false, "error": "invalid body"})
	}
	if err := req.Validate(); err != nil {
		return invalid(c, err)
	}
	ctx, token := c.Request().Context(), middleware.Token(c)
	var before any
	if cur, err := h.API.GetReservation(ctx, token, id); err == nil {
		before = echo.Map{"amount_paid": cur.AmountPaid, "total_price": cur.TotalPrice, "payment_status": cur.PaymentStatus}
	}
	b, err := h.API.UpdatePayment(ctx, token, id, req)
	if err != nil {
		return upstreamError(c, "payment", err)
	}
	h.Changes.Record(c, EventReservationChanged, q.ActionPayment, id, before, echo.Map{
		"amount_paid":    req.AmountPaid,
		"total_price":    req.TotalPrice,
		"payment_status": model.PaymentStatusFor(req.AmountPaid, req.TotalPrice),
	})
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "reservation": b})
}

// Receipt handles GET /v1/admin/reservations/:id/receipt.
func (h *ReservationHandler) Receipt(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	b, err := h.API.GetReservation(c.Request().Context(), middleware.Token(c), c.Param("id"))
	if err != nil {
		return upstreamError(c, "receipt", err)
	}
	pdf, err := export.Receipt(b, time.Now().In(h.Store.Location()))
	if err != nil {
		log.Printf("receipt: %s: %v", b.ID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"ok": false, "error": "receipt failed"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="reservacion-`+b.ID+`.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// Contact handles GET /v1/admin/reservations/:id/contact.  With
// format=png the WhatsApp link is returned as a QR code.
func (h *ReservationHandler) Contact(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	b, err := h.API.GetReservation(c.Request().Context(), middleware.Token(c), c.Param("id"))
	if err != nil {
		return upstreamError(c, "contact", err)
	}
	link, err := export.WhatsAppLink(b)
	switch {
	case errors.Is(err, export.ErrNoPhone):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"ok": false, "error": "La reservación no tiene teléfono"})
	case errors.Is(err, export.ErrInvalidPhone):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"ok": false, "error": "Número de teléfono inválido"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"ok": false, "error": err.Error()})
	}
	if c.QueryParam("format") == "png" {
		size, _ := strconv.Atoi(c.QueryParam("size"))
		if size <= 0 || size > 1024 {
			size = 256
		}
		png, err := export.ContactQR(b, size)
		if err != nil {
			log.Printf("contact: qr for %s: %v", b.ID, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"ok": false, "error": "qr failed"})
		}
		return c.Blob(http.StatusOK, "image/png", png)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "link": link, "message": export.ContactMessage(b)})
}
