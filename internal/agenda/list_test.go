package agenda

import (
	"testing"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"
)

func TestReservationFilterCheckInSpan(t *testing.T) {
	today := MustDate("2024-06-28")
	bookings := []model.Booking{
		booking("a", "A", "2024-06-28", "2024-06-29", model.StatusPending),
		booking("b", "A", "2024-07-04", "2024-07-05", model.StatusPending),
		booking("c", "B", "2024-07-05", "2024-07-06", model.StatusPending),
		booking("d", "B", "2024-06-02", "2024-06-03", model.StatusPending),
		booking("e", "B", "junio", "2024-06-03", model.StatusPending),
	}
	tests := []struct {
		name string
		f    ReservationFilter
		want string
	}{
		{"none", ReservationFilter{}, "abcde"},
		{"week crosses month", ReservationFilter{Range: RangeWeek}, "ab"},
		{"month", ReservationFilter{Range: RangeMonth}, "ad"},
		{"date wins over range", ReservationFilter{Range: RangeMonth, Date: MustDate("2024-07-05")}, "c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ""
			for _, b := range tt.f.Apply(bookings, today) {
				got += b.ID
			}
			if got != tt.want {
				t.Errorf("Apply = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPaginate(t *testing.T) {
	bookings := make([]model.Booking, 25)
	tests := []struct {
		f     ReservationFilter
		n     int
		pages int
		limit int
	}{
		{ReservationFilter{}, 10, 3, DefaultPageSize},
		{ReservationFilter{Page: 3}, 5, 3, DefaultPageSize},
		{ReservationFilter{Page: 4}, 0, 3, DefaultPageSize},
		{ReservationFilter{Limit: 500}, 25, 1, MaxPageSize},
	}
	for _, tt := range tests {
		page, p := tt.f.Paginate(bookings)
		if len(page) != tt.n || p.TotalPages != tt.pages || p.Limit != tt.limit || p.TotalItems != 25 {
			t.Errorf("%+v: %d items, %+v", tt.f, len(page), p)
		}
	}
	if page, p := (ReservationFilter{}).Paginate(nil); page == nil || p.TotalPages != 1 {
		t.Errorf("empty list = %v, %+v", page, p)
	}
}
