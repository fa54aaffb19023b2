package agenda

import "github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"

// Date range shortcuts of the reservations list.
const (
	RangeWeek  = "week"
	RangeMonth = "month"
)

// List paging bounds.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ReservationFilter narrows the reservations list.  Empty fields match
// everything.  Date keeps check-ins on that day; Range keeps check-ins in
// the next seven days (week) or in the current calendar month (month).
type ReservationFilter struct {
	Status        string
	PaymentStatus string
	BookingType   string
	Date          Date
	Range         string
	Search        string
	Page          int
	Limit         int
}

// Apply returns the bookings matching f, keeping their order.
func (f ReservationFilter) Apply(bookings []model.Booking, today Date) []model.Booking {
	from, to := f.checkInSpan(today)
	out := make([]model.Booking, 0, len(bookings))
	for _, b := range Search(bookings, f.Search) {
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if f.PaymentStatus != "" && b.PaymentStatus != f.PaymentStatus {
			continue
		}
		if f.BookingType != "" && b.BookingType != f.BookingType {
			continue
		}
		if !from.IsZero() {
			in, err := ParseDate(b.CheckIn)
			if err != nil || in.Before(from) || in.After(to) {
				continue
			}
		}
		out = append(out, b)
	}
	return out
}

// checkInSpan is the inclusive check-in window, zero when unrestricted.
// An explicit Date wins over Range.
func (f ReservationFilter) checkInSpan(today Date) (Date, Date) {
	switch {
	case !f.Date.IsZero():
		return f.Date, f.Date
	case f.Range == RangeWeek:
		return today, today.AddDays(6)
	case f.Range == RangeMonth:
		first := NewDate(today.Year(), today.Month(), 1)
		return first, NewDate(first.Year(), first.Month()+1, 0)
	}
	return Date{}, Date{}
}

// Pagination describes one page of a list.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// Paginate cuts page f.Page (1-based) of f.Limit items.  Out-of-range values
// are clamped; a page past the end is empty.
func (f ReservationFilter) Paginate(bookings []model.Booking) ([]model.Booking, Pagination) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	limit = min(limit, MaxPageSize)
	page := max(f.Page, 1)
	p := Pagination{Page: page, Limit: limit, TotalItems: len(bookings)}
	p.TotalPages = max((len(bookings)+limit-1)/limit, 1)

	start := (page - 1) * limit
	if start >= len(bookings) {
		return []model.Booking{}, p
	}
	end := min(start+limit, len(bookings))
	return bookings[start:end], p
}
