package bookingapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/agenda"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"
)

type bookingsBody struct {
	Reservations []model.Booking `json:"reservations"`
}

type bookingBody struct {
	Reservation model.Booking `json:"reservation"`
}

// FetchBookings returns every reservation the admin can see.
func (c *Client) FetchBookings(ctx context.Context, token string) ([]model.Booking, error) {
	var out bookingsBody
	err := c.do(ctx, token, call{op: "fetch_bookings", method: http.MethodGet, path: "/reservations", timeout: c.timeouts.Fetch}, &out)
	if err != nil {
		return nil, err
	}
	return nonNil(out.Reservations), nil
}

// FetchBookingsInRange returns reservations touching [from, to].  The range
// is sent as a hint and enforced again locally, so an API that ignores it
// still yields the right subset.
func (c *Client) FetchBookingsInRange(ctx context.Context, token string, from, to agenda.Date) ([]model.Booking, error) {
	q := url.Values{}
	q.Set("start_date", from.String())
	q.Set("end_date", to.String())
	var out bookingsBody
	err := c.do(ctx, token, call{op: "fetch_bookings_range", method: http.MethodGet, path: "/reservations", query: q, timeout: c.timeouts.Fetch}, &out)
	if err != nil {
		return nil, err
	}
	return agenda.Overlapping(nonNil(out.Reservations), from, to), nil
}

// ListReservations returns the reservations matching f.  The filters are
// forwarded as query parameters and applied again locally, because the
// booking API may ignore them.  Paging is left to the caller.
func (c *Client) ListReservations(ctx context.Context, token string, f agenda.ReservationFilter, today agenda.Date) ([]model.Booking, error) {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("status", f.Status)
	set("payment_status", f.PaymentStatus)
	set("booking_type", f.BookingType)
	if !f.Date.IsZero() {
		q.Set("date", f.Date.String())
	}
	set("date_range", f.Range)
	set("search", f.Search)
	var out bookingsBody
	err := c.do(ctx, token, call{op: "list_reservations", method: http.MethodGet, path: "/reservations", query: q, timeout: c.timeouts.Fetch}, &out)
	if err != nil {
		return nil, err
	}
	return f.Apply(nonNil(out.Reservations), today), nil
}

// GetReservation loads one reservation.
func (c *Client) GetReservation(ctx context.Context, token, id string) (model.Booking, error) {
	var out bookingBody
	err := c.do(ctx, token, call{op: "get_reservation", method: http.MethodGet, path: "/reservations/" + url.PathEscape(id), timeout: c.timeouts.Fetch}, &out)
	return out.Reservation, err
}

// CreateWalkInReservation books a front-desk or phone guest.
func (c *Client) CreateWalkInReservation(ctx context.Context, token string, req model.WalkInRequest) (model.Booking, error) {
	if req.BookingType == "" {
		req.BookingType = model.BookingWalkIn
	}
	if req.PaymentStatus == "" {
		req.PaymentStatus = model.PaymentPending
	}
	var out bookingBody
	err := c.do(ctx, token, call{op: "create_walk_in", method: http.MethodPost, path: "/reservations/walk-in", body: req, timeout: c.timeouts.Create}, &out)
	return out.Reservation, err
}

// UpdateReservationStatus sets a reservation's lifecycle status.
func (c *Client) UpdateReservationStatus(ctx context.Context, token, id, status string) (model.Booking, error) {
	var out bookingBody
	err := c.do(ctx, token, call{
		op:      "update_status",
		method:  http.MethodPut,
		path:    "/reservations/" + url.PathEscape(id),
		body:    map[string]string{"status": status},
		timeout: c.timeouts.Update,
	}, &out)
	return out.Reservation, err
}

// UpdatePayment records a payment and sends the derived payment status along.
func (c *Client) UpdatePayment(ctx context.Context, token, id string, p model.PaymentUpdate) (model.Booking, error) {
	body := map[string]any{
		"amount_paid":    p.AmountPaid,
		"total_price":    p.TotalPrice,
		"payment_status": model.PaymentStatusFor(p.AmountPaid, p.TotalPrice),
	}
	var out bookingBody
	err := c.do(ctx, token, call{op: "update_payment", method: http.MethodPut, path: "/reservations/" + url.PathEscape(id), body: body, timeout: c.timeouts.Update}, &out)
	return out.Reservation, err
}

// ListCabins returns the cabin catalogue.
func (c *Client) ListCabins(ctx context.Context, token string) ([]model.Cabin, error) {
	var out struct {
		Cabins []model.Cabin `json:"cabins"`
	}
	if err := c.do(ctx, token, call{op: "list_cabins", method: http.MethodGet, path: "/cabins", timeout: c.timeouts.Fetch}, &out); err != nil {
		return nil, err
	}
	if out.Cabins == nil {
		return []model.Cabin{}, nil
	}
	return out.Cabins, nil
}

// Stats returns the dashboard figures.
func (c *Client) Stats(ctx context.Context, token string) (model.DashboardStats, error) {
	var out struct {
		Stats model.DashboardStats `json:"stats"`
	}
	err := c.do(ctx, token, call{op: "stats", method: http.MethodGet, path: "/admin/stats", timeout: c.timeouts.Fetch}, &out)
	return out.Stats, err
}

// RecentBookings returns the latest reservations for the dashboard.
func (c *Client) RecentBookings(ctx context.Context, token string) ([]model.Booking, error) {
	var out bookingsBody
	if err := c.do(ctx, token, call{op: "recent_bookings", method: http.MethodGet, path: "/admin/recent-bookings", timeout: c.timeouts.Fetch}, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Reservations), nil
}

func nonNil(b []model.Booking) []model.Booking {
	if b == nil {
		return []model.Booking{}
	}
	return b
}
