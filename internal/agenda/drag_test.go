package agenda

import (
	"testing"
	"time"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"
)

func newTestController(t *testing.T, bookings ...model.Booking) *DragController {
	t.Helper()
	c := NewDragController(BuildIndex(bookings), time.UTC)
	c.Now = func() time.Time { return time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC) }
	return c
}

func TestDragForwardCommit(t *testing.T) {
	c := newTestController(t)
	var got []NewReservation
	c.OnCommit = func(nr NewReservation) { got = append(got, nr) }

	if !c.PointerDown("A", MustDate("2024-06-12")) {
		t.Fatal("PointerDown rejected an empty future cell")
	}
	if c.State() != Dragging {
		t.Fatalf("state = %v, want dragging", c.State())
	}
	c.PointerEnter("A", MustDate("2024-06-13"))
	c.PointerEnter("A", MustDate("2024-06-15"))

	nr, ok := c.PointerUp(true)
	if !ok {
		t.Fatal("PointerUp did not commit")
	}
	want := NewReservation{Resource: "A", CheckIn: MustDate("2024-06-12"), CheckOut: MustDate("2024-06-15")}
	if nr != want {
		t.Errorf("commit = %+v, want %+v", nr, want)
	}
	if len(got) != 1 || got[0] != want {
		t.Errorf("OnCommit got %v", got)
	}
	if c.State() != Idle {
		t.Errorf("state after commit = %v, want idle", c.State())
	}
}

func TestDragBackwardNormalises(t *testing.T) {
	c := newTestController(t)
	c.PointerDown("A", MustDate("2024-06-20"))
	c.PointerEnter("A", MustDate("2024-06-15"))
	nr, ok := c.PointerUp(true)
	if !ok || nr.CheckIn != MustDate("2024-06-15") || nr.CheckOut != MustDate("2024-06-20") {
		t.Errorf("commit = %+v, %v", nr, ok)
	}
	if nr.CheckIn.After(nr.CheckOut) {
		t.Error("checkIn after checkOut")
	}
}

func TestDragStartGuards(t *testing.T) {
	occupied := booking("b1", "A", "2024-06-14", "2024-06-16", model.StatusConfirmed)
	tests := []struct {
		name     string
		resource string
		date     string
		want     bool
	}{
		{"past day", "A", "2024-06-09", false},
		{"today", "A", "2024-06-10", true},
		{"occupied", "A", "2024-06-15", false},
		{"other cabin same day", "B", "2024-06-15", true},
		{"quick row ignores occupancy", QuickReserveRow, "2024-06-15", true},
		{"quick row still rejects past", QuickReserveRow, "2024-06-01", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(t, occupied)
			if got := c.PointerDown(tt.resource, MustDate(tt.date)); got != tt.want {
				t.Errorf("PointerDown(%q, %s) = %v, want %v", tt.resource, tt.date, got, tt.want)
			}
			wantState := Idle
			if tt.want {
				wantState = Dragging
			}
			if c.State() != wantState {
				t.Errorf("state = %v, want %v", c.State(), wantState)
			}
		})
	}
}

func TestDragEnterGuards(t *testing.T) {
	c := newTestController(t, booking("b1", "A", "2024-06-14", "2024-06-16", model.StatusConfirmed))
	c.PointerDown("A", MustDate("2024-06-11"))

	if c.PointerEnter("B", MustDate("2024-06-12")) {
		t.Error("enter on another row changed the selection")
	}
	if c.PointerEnter("A", MustDate("2024-06-09")) {
		t.Error("enter on a past day changed the selection")
	}
	if c.PointerEnter("A", MustDate("2024-06-15")) {
		t.Error("enter on an occupied day changed the selection")
	}
	if !c.PointerEnter("A", MustDate("2024-06-13")) {
		t.Error("enter on a free future day was ignored")
	}
	snap := c.Snapshot()
	if snap.State != "dragging" || snap.Resource != "A" || snap.Start != MustDate("2024-06-11") || snap.End != MustDate("2024-06-13") {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestDragReleaseOutsideDiscards(t *testing.T) {
	c := newTestController(t)
	called := false
	c.OnCommit = func(NewReservation) { called = true }
	c.PointerDown("A", MustDate("2024-06-12"))
	c.PointerEnter("A", MustDate("2024-06-14"))
	if _, ok := c.PointerUp(false); ok {
		t.Error("release outside the grid committed")
	}
	if called {
		t.Error("OnCommit invoked on discard")
	}
	if c.State() != Idle || c.IsInSelection("A", MustDate("2024-06-13")) {
		t.Error("selection survived the discard")
	}
}

func TestPointerUpWhileIdle(t *testing.T) {
	c := newTestController(t)
	if _, ok := c.PointerUp(true); ok {
		t.Error("idle PointerUp committed")
	}
	if c.PointerEnter("A", MustDate("2024-06-12")) {
		t.Error("idle PointerEnter changed state")
	}
}

func TestPointerDownRestartsStaleDrag(t *testing.T) {
	c := newTestController(t, booking("b1", "B", "2024-06-20", "2024-06-21", model.StatusConfirmed))
	c.PointerDown("A", MustDate("2024-06-12"))
	c.PointerEnter("A", MustDate("2024-06-14"))

	if !c.PointerDown("B", MustDate("2024-06-13")) {
		t.Fatal("PointerDown after a lost pointer-up did not start a new drag")
	}
	snap := c.Snapshot()
	if snap.Resource != "B" || snap.Start != MustDate("2024-06-13") || snap.End != MustDate("2024-06-13") {
		t.Errorf("snapshot = %+v", snap)
	}
	if c.IsInSelection("A", MustDate("2024-06-13")) {
		t.Error("old selection survived the restart")
	}

	if c.PointerDown("B", MustDate("2024-06-20")) {
		t.Error("drag restarted on an occupied cell")
	}
	if c.State() != Idle {
		t.Errorf("state = %v, want idle after the stale drag is dropped", c.State())
	}
}

func TestDragCannotSpanBookedNight(t *testing.T) {
	c := newTestController(t, booking("b1", "A", "2024-06-13", "2024-06-13", model.StatusConfirmed))
	c.PointerDown("A", MustDate("2024-06-11"))

	if c.PointerEnter("A", MustDate("2024-06-15")) {
		t.Error("selection jumped over the booked 06-13")
	}
	if c.IsInSelection("A", MustDate("2024-06-13")) {
		t.Error("booked cell highlighted")
	}
	if !c.PointerEnter("A", MustDate("2024-06-12")) {
		t.Error("free neighbour rejected")
	}
	nr, ok := c.PointerUp(true)
	if !ok || nr.CheckIn != MustDate("2024-06-11") || nr.CheckOut != MustDate("2024-06-12") {
		t.Errorf("commit = %+v, %v", nr, ok)
	}

	c.PointerDown("A", MustDate("2024-06-16"))
	if c.PointerEnter("A", MustDate("2024-06-12")) {
		t.Error("backward selection jumped over the booked 06-13")
	}
	q := newTestController(t, booking("b1", "A", "2024-06-13", "2024-06-13", model.StatusConfirmed))
	q.PointerDown(QuickReserveRow, MustDate("2024-06-11"))
	if !q.PointerEnter(QuickReserveRow, MustDate("2024-06-15")) {
		t.Error("quick row is not bound by cabin occupancy")
	}
}

func TestIsInSelection(t *testing.T) {
	c := newTestController(t)
	c.PointerDown("A", MustDate("2024-06-15"))
	c.PointerEnter("A", MustDate("2024-06-12"))
	tests := []struct {
		resource string
		date     string
		want     bool
	}{
		{"A", "2024-06-11", false},
		{"A", "2024-06-12", true},
		{"A", "2024-06-14", true},
		{"A", "2024-06-15", true},
		{"A", "2024-06-16", false},
		{"B", "2024-06-13", false},
	}
	for _, tt := range tests {
		if got := c.IsInSelection(tt.resource, MustDate(tt.date)); got != tt.want {
			t.Errorf("IsInSelection(%q, %s) = %v, want %v", tt.resource, tt.date, got, tt.want)
		}
	}
}

func TestQuickReserveCommitHasNoCabin(t *testing.T) {
	c := newTestController(t)
	c.PointerDown(QuickReserveRow, MustDate("2024-06-12"))
	nr, ok := c.PointerUp(true)
	if !ok || nr.Resource != "" || nr.CheckIn != nr.CheckOut {
		t.Errorf("quick reserve commit = %+v, %v", nr, ok)
	}
}

func TestUseOccupancyKeepsDrag(t *testing.T) {
	c := newTestController(t)
	c.PointerDown("A", MustDate("2024-06-12"))
	c.UseOccupancy(BuildIndex([]model.Booking{booking("b", "A", "2024-06-14", "2024-06-14", model.StatusPending)}))
	if c.PointerEnter("A", MustDate("2024-06-14")) {
		t.Error("new occupancy not honoured")
	}
	if c.State() != Dragging {
		t.Error("drag lost after occupancy swap")
	}
	c.Cancel()
	if c.State() != Idle {
		t.Error("Cancel did not reset")
	}
}
