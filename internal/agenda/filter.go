package agenda

import (
	"strings"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"
)

// Search keeps bookings whose guest name, phone or cabin contains term,
// ignoring case.  An empty term keeps everything.
func Search(bookings []model.Booking, term string) []model.Booking {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return bookings
	}
	out := make([]model.Booking, 0, len(bookings))
	for _, b := range bookings {
		name := b.GuestName
		if b.User != nil {
			name += " " + b.User.Name
		}
		if strings.Contains(strings.ToLower(name), term) ||
			strings.Contains(strings.ToLower(b.DisplayPhone()), term) ||
			strings.Contains(strings.ToLower(b.ResourceName()), term) {
			out = append(out, b)
		}
	}
	return out
}

// Overlapping keeps bookings whose stay touches [from, to].  Bookings with
// unreadable dates are kept so the index can report them.
func Overlapping(bookings []model.Booking, from, to Date) []model.Booking {
	out := make([]model.Booking, 0, len(bookings))
	for _, b := range bookings {
		in, err1 := ParseDate(b.CheckIn)
		outDay, err2 := ParseDate(b.CheckOut)
		if err1 != nil || err2 != nil || (!outDay.Before(from) && !in.After(to)) {
			out = append(out, b)
		}
	}
	return out
}
