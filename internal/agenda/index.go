package agenda

import (
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"
)

// MaxBookingSpan bounds how many days a single booking may register.  Longer
// spans are treated as corrupt data instead of flooding the index.
const MaxBookingSpan = 366

type cellKey struct {
	resource string
	date     Date
}

// Conflict records two active bookings claiming the same cabin on the same day.
// Winner is the booking the index keeps; Loser is the one it shadowed.
type Conflict struct {
	Resource string `json:"cabin"`
	Date     Date   `json:"date"`
	Winner   string `json:"winner_id"`
	Loser    string `json:"loser_id"`
}

// Anomaly is a booking the index could not register.
type Anomaly struct {
	BookingID string `json:"booking_id"`
	Reason    string `json:"reason"`
}

// Index maps (cabin, day) to the active booking occupying it.  It is built
// once per booking collection and never mutated afterwards.
type Index struct {
	cells     map[cellKey]model.Booking
	conflicts []Conflict
	anomalies []Anomaly
}

// BuildIndex registers every non-cancelled booking on each day from check-in
// through check-out inclusive.  When two bookings overlap, the one later in
// the slice wins and the overlap is recorded as a Conflict.
func BuildIndex(bookings []model.Booking) *Index {
	idx := &Index{cells: make(map[cellKey]model.Booking)}
	for _, b := range bookings {
		if b.IsCancelled() {
			continue
		}
		in, err := ParseDate(b.CheckIn)
		if err != nil {
			idx.anomalies = append(idx.anomalies, Anomaly{BookingID: b.ID, Reason: "bad check_in"})
			continue
		}
		out, err := ParseDate(b.CheckOut)
		if err != nil {
			idx.anomalies = append(idx.anomalies, Anomaly{BookingID: b.ID, Reason: "bad check_out"})
			continue
		}
		if out.Before(in) {
			idx.anomalies = append(idx.anomalies, Anomaly{BookingID: b.ID, Reason: "check_out before check_in"})
			continue
		}
		if in.DaysUntil(out) > MaxBookingSpan {
			idx.anomalies = append(idx.anomalies, Anomaly{BookingID: b.ID, Reason: "span too long"})
			continue
		}
		res := b.ResourceName()
		for d := in; !d.After(out); d = d.AddDays(1) {
			k := cellKey{resource: res, date: d}
			if prev, ok := idx.cells[k]; ok && prev.ID != b.ID {
				idx.conflicts = append(idx.conflicts, Conflict{Resource: res, Date: d, Winner: b.ID, Loser: prev.ID})
			}
			idx.cells[k] = b
		}
	}
	return idx
}

// Lookup returns the booking occupying resource on date.
func (idx *Index) Lookup(resource string, date Date) (model.Booking, bool) {
	if idx == nil {
		return model.Booking{}, false
	}
	b, ok := idx.cells[cellKey{resource: resource, date: date}]
	return b, ok
}

// Occupied reports whether a cell is taken.
func (idx *Index) Occupied(resource string, date Date) bool {
	_, ok := idx.Lookup(resource, date)
	return ok
}

// Len is the number of occupied cells.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.cells)
}

// Conflicts lists overlapping bookings found while building.
func (idx *Index) Conflicts() []Conflict {
	if idx == nil {
		return nil
	}
	return idx.conflicts
}

// Anomalies lists bookings skipped because of malformed dates.
func (idx *Index) Anomalies() []Anomaly {
	if idx == nil {
		return nil
	}
	return idx.anomalies
}
