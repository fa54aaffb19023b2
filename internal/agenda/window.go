package agenda

import (
	"time"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"
)

// AllCabins is the cabin filter value that keeps every row.
const AllCabins = "all"

// WindowRequest selects which month the grid shows and which rows it keeps.
//
// Month is a zero-based month index (0 = January) and may overflow: 12 is
// January of the following year, -1 is December of the previous one.  When
// Month is nil the month is Today's month shifted by Page.  When Year is nil
// it is Today's year.
type WindowRequest struct {
	Today       Date
	Page        int
	Month       *int
	Year        *int
	CabinFilter string
}

// GridWindow is the rectangle the grid draws: one column per day of the
// resolved month and one row per cabin.
type GridWindow struct {
	Year      int        `json:"year"`
	Month     time.Month `json:"month"`
	Dates     []Date     `json:"dates"`
	Resources []string   `json:"cabins"`
}

// Start and End are the first and last visible day.
func (w GridWindow) Start() Date {
	if len(w.Dates) == 0 {
		return Date{}
	}
	return w.Dates[0]
}

func (w GridWindow) End() Date {
	if len(w.Dates) == 0 {
		return Date{}
	}
	return w.Dates[len(w.Dates)-1]
}

// Contains reports whether d is a visible column.
func (w GridWindow) Contains(d Date) bool {
	return len(w.Dates) > 0 && !d.Before(w.Start()) && !d.After(w.End())
}

// ResolveMonth returns the first day of the month a request points at.
func ResolveMonth(req WindowRequest) Date {
	today := req.Today
	if today.IsZero() {
		today = DateOf(time.Now())
	}
	m := int(today.Month()) - 1 + req.Page
	if req.Month != nil {
		m = *req.Month
	}
	y := today.Year()
	if req.Year != nil {
		y = *req.Year
	}
	return NewDate(y, time.Month(m+1), 1)
}

// BuildWindow derives the grid rectangle.  It is pure: identical inputs give
// identical windows.
func BuildWindow(req WindowRequest, bookings []model.Booking) GridWindow {
	first := ResolveMonth(req)
	last := NewDate(first.Year(), first.Month()+1, 0)

	dates := make([]Date, 0, last.Day())
	for d := first; !d.After(last); d = d.AddDays(1) {
		dates = append(dates, d)
	}

	return GridWindow{
		Year:      first.Year(),
		Month:     first.Month(),
		Dates:     dates,
		Resources: FilterResources(Resources(bookings), req.CabinFilter),
	}
}

// Resources lists distinct non-empty cabin names in order of first
// appearance.  Cancelled bookings count: a cabin whose only booking was
// cancelled keeps its row.
func Resources(bookings []model.Booking) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, b := range bookings {
		name := b.ResourceName()
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// FilterResources applies the cabin filter.  "all" and "" pass everything.
func FilterResources(resources []string, filter string) []string {
	if filter == "" || filter == AllCabins {
		return resources
	}
	out := make([]string, 0, 1)
	for _, r := range resources {
		if r == filter {
			out = append(out, r)
		}
	}
	return out
}
