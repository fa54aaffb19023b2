package agenda

import "time"

// DragState is the phase of a drag gesture.
type DragState int

const (
	Idle DragState = iota
	Dragging
	Committing
)

func (s DragState) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Committing:
		return "committing"
	default:
		return "idle"
	}
}

// QuickReserveRow is the resource key of the row that accepts drags on any
// future day and commits without a cabin.
const QuickReserveRow = ""

// NewReservation is the date range a finished drag hands to the reservation form.
// Resource is empty when the drag ran on the quick-reserve row.
type NewReservation struct {
	Resource string `json:"cabin_name"`
	CheckIn  Date   `json:"check_in"`
	CheckOut Date   `json:"check_out"`
}

// Occupancy answers whether a cell is already booked.  *Index satisfies it.
type Occupancy interface {
	Occupied(resource string, date Date) bool
}

// Selection is the read side of a drag, used by the renderer.
type Selection interface {
	IsInSelection(resource string, date Date) bool
}

// DragSnapshot is the observable state of a controller.
type DragSnapshot struct {
	State    string `json:"state"`
	Resource string `json:"cabin_name,omitempty"`
	Start    Date   `json:"start,omitzero"`
	End      Date   `json:"end,omitzero"`
}

// DragController turns pointer events over grid cells into a date range on a
// single row.  A drag may only start on, or extend over, an empty cell dated
// today or later.  It is not safe for concurrent use.
type DragController struct {
	state    DragState
	resource string
	anchor   Date
	current  Date

	occ Occupancy
	loc *time.Location
	// Now is injectable for tests.
	Now func() time.Time
	// OnCommit receives every committed selection.
	OnCommit func(NewReservation)
}

// NewDragController returns an idle controller.  loc is the property's
// timezone, used to decide what "today" is.
func NewDragController(occ Occupancy, loc *time.Location) *DragController {
	return &DragController{occ: occ, loc: loc, Now: time.Now}
}

// UseOccupancy swaps the occupancy source after the booking collection
// changes.  An in-flight drag is kept.
func (c *DragController) UseOccupancy(occ Occupancy) { c.occ = occ }

func (c *DragController) State() DragState { return c.state }

func (c *DragController) today() Date { return Today(c.Now, c.loc) }

func (c *DragController) selectable(resource string, date Date) bool {
	if date.IsZero() || date.Before(c.today()) {
		return false
	}
	if resource == QuickReserveRow || c.occ == nil {
		return true
	}
	return !c.occ.Occupied(resource, date)
}

// PointerDown starts a drag on an empty, non-past cell.  A gesture still
// open from a lost pointer-up is dropped first.  It reports whether the drag
// started.
func (c *DragController) PointerDown(resource string, date Date) bool {
	if c.state != Idle {
		c.reset()
	}
	if !c.selectable(resource, date) {
		return false
	}
	c.state = Dragging
	c.resource = resource
	c.anchor = date
	c.current = date
	return true
}

// PointerEnter extends the drag to date when it stays on the locked row and
// every cell between the anchor and date is selectable, so a fast pointer
// cannot skip over a booked night.  It reports whether the selection changed.
func (c *DragController) PointerEnter(resource string, date Date) bool {
	if c.state != Dragging || resource != c.resource || date.IsZero() || date == c.current {
		return false
	}
	lo, hi := MinDate(c.anchor, date), MaxDate(c.anchor, date)
	for d := lo; !d.After(hi); d = d.AddDays(1) {
		if !c.selectable(resource, d) {
			return false
		}
	}
	c.current = date
	return true
}

// PointerUp ends the gesture.  Released over a grid cell the normalised
// range is committed: returned, and passed to OnCommit.  Released anywhere
// else the selection is discarded.  The controller is Idle afterwards.
func (c *DragController) PointerUp(onGrid bool) (NewReservation, bool) {
	if c.state != Dragging {
		return NewReservation{}, false
	}
	defer c.reset()
	if !onGrid {
		return NewReservation{}, false
	}
	c.state = Committing
	nr := NewReservation{
		Resource: c.resource,
		CheckIn:  MinDate(c.anchor, c.current),
		CheckOut: MaxDate(c.anchor, c.current),
	}
	if c.OnCommit != nil {
		c.OnCommit(nr)
	}
	return nr, true
}

// Cancel abandons any drag in progress.
func (c *DragController) Cancel() { c.reset() }

func (c *DragController) reset() {
	c.state = Idle
	c.resource = ""
	c.anchor = Date{}
	c.current = Date{}
}

// IsInSelection reports whether a cell lies inside the live selection.
func (c *DragController) IsInSelection(resource string, date Date) bool {
	if c == nil || c.state != Dragging || resource != c.resource {
		return false
	}
	lo, hi := MinDate(c.anchor, c.current), MaxDate(c.anchor, c.current)
	return !date.Before(lo) && !date.After(hi)
}

// Snapshot exposes the current state for clients redrawing the highlight.
func (c *DragController) Snapshot() DragSnapshot {
	s := DragSnapshot{State: c.state.String()}
	if c.state == Dragging {
		s.Resource = c.resource
		s.Start = MinDate(c.anchor, c.current)
		s.End = MaxDate(c.anchor, c.current)
	}
	return s
}
