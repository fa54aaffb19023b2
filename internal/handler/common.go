package handler // handler defines the HTTP handlers of the admin agenda API

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/agenda"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/bookingapi"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/middleware"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"
	q "github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/queue"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/state"
)

// BookingAPI is the slice of the remote booking API the handlers use.
// *bookingapi.Client satisfies it.
type BookingAPI interface {
	FetchBookings(ctx context.Context, token string) ([]model.Booking, error)
	FetchBookingsInRange(ctx context.Context, token string, from, to agenda.Date) ([]model.Booking, error)
	ListReservations(ctx context.Context, token string, f agenda.ReservationFilter, today agenda.Date) ([]model.Booking, error)
	GetReservation(ctx context.Context, token, id string) (model.Booking, error)
	CreateWalkInReservation(ctx context.Context, token string, req model.WalkInRequest) (model.Booking, error)
	UpdateReservationStatus(ctx context.Context, token, id, status string) (model.Booking, error)
	UpdatePayment(ctx context.Context, token, id string, p model.PaymentUpdate) (model.Booking, error)
	ListCabins(ctx context.Context, token string) ([]model.Cabin, error)
	PendingReviews(ctx context.Context, token string) ([]model.Review, error)
	ModerateReview(ctx context.Context, token, id string, d model.ReviewDecision) error
	Stats(ctx context.Context, token string) (model.DashboardStats, error)
	RecentBookings(ctx context.Context, token string) ([]model.Booking, error)
	FinancialSummary(ctx context.Context, token string, from, to agenda.Date, filterBy string) (model.FinancialSummary, error)
	FinancialReport(ctx context.Context, token string, from, to agenda.Date, filterBy string) (model.FinancialReport, error)
}

const publishTimeout = 5 * time.Second

// StaffActionPublisher sends audit events to the broker.
type StaffActionPublisher interface {
	PublishStaffAction(ctx context.Context, ev q.StaffActionEvent) error
}

// getUserID returns the authenticated admin's id.
func getUserID(c echo.Context) (string, error) {
	id := middleware.AdminID(c)
	if id == "" {
		return "", errors.New("invalid user_id in context")
	}
	return id, nil
}

// upstreamError writes the response for a failed booking API call.
// Validation failures carry the API's own message so staff see why, e.g.
// a date conflict.
func upstreamError(c echo.Context, op string, err error) error {
	if v, ok := bookingapi.IsValidation(err); ok {
		return c.JSON(http.StatusConflict, echo.Map{"ok": false, "error": v.Msg})
	}
	switch {
	case errors.Is(err, bookingapi.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"ok": false, "error": "not found"})
	case errors.Is(err, bookingapi.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, echo.Map{"ok": false, "error": "token rejected by booking service"})
	}
	log.Printf("%s: upstream failure: %v", op, err)
	return c.JSON(http.StatusBadGateway, echo.Map{"ok": false, "error": "booking service unavailable"})
}

// Changes fans a successful mutation out: cached snapshots are invalidated,
// open agendas are told and the staff action is published for the audit
// trail.  Every sink is optional.
type Changes struct {
	Store     *state.Store
	Hub       *AgendaHub
	Publisher StaffActionPublisher
	// Purge drops cached HTTP responses, e.g. the dashboard.
	Purge func(ctx context.Context) error
}

// Record applies a mutation's side effects.  Failures are logged; the
// mutation itself already succeeded upstream.
func (ch *Changes) Record(c echo.Context, event, action, targetID string, before, after any) {
	if ch == nil {
		return
	}
	var version uint64
	if ch.Store != nil {
		version = ch.Store.Invalidate()
	}
	if ch.Purge != nil {
		if err := ch.Purge(c.Request().Context()); err != nil {
			log.Printf("changes: purge cache: %v", err)
		}
	}
	ch.Hub.Publish(event, version, echo.Map{"action": action, "id": targetID})
	if ch.Publisher == nil {
		return
	}
	ev, err := q.NewStaffAction(action, targetID, middleware.AdminID(c), middleware.AdminName(c), before, after)
	if err != nil {
		log.Printf("changes: build %s event: %v", action, err)
		return
	}
	// Detached from the request so a client disconnect does not drop the event.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), publishTimeout)
	defer cancel()
	if err := ch.Publisher.PublishStaffAction(ctx, ev); err != nil {
		log.Printf("changes: publish %s for %s: %v", action, targetID, err)
	}
}
