package agenda

import (
	"fmt"
	"strings"
	"time"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"
)

// Boundary is where a cell sits inside its booking's date range.
type Boundary string

const (
	BoundaryNone Boundary = ""
	SingleDay    Boundary = "single-day"
	RangeStart   Boundary = "range-start"
	RangeEnd     Boundary = "range-end"
	RangeMiddle  Boundary = "range-middle"
)

// Category groups booking statuses for colouring.
type Category string

const (
	CategoryConfirmed Category = "confirmed"
	CategoryPending   Category = "pending"
	CategoryCompleted Category = "completed"
	CategoryOther     Category = "other"
)

// CategoryOf maps a booking status onto its colour category.
func CategoryOf(status string) Category {
	switch status {
	case model.StatusConfirmed:
		return CategoryConfirmed
	case model.StatusPending:
		return CategoryPending
	case model.StatusCompleted:
		return CategoryCompleted
	}
	return CategoryOther
}

// RenderOptions carries presentation settings that do not depend on bookings.
type RenderOptions struct {
	Today             Date
	QuickReserve      bool
	QuickReserveLabel string
	Palette           map[Category]string
	DayNames          [7]string
	MonthNames        [12]string
}

// DefaultRenderOptions returns the stock Spanish labels and status colours.
func DefaultRenderOptions(today Date) RenderOptions {
	return RenderOptions{
		Today:             today,
		QuickReserve:      true,
		QuickReserveLabel: "Reservación Rápida",
		Palette: map[Category]string{
			CategoryConfirmed: "#d4edda",
			CategoryPending:   "#fff3cd",
			CategoryCompleted: "#e2d9f3",
			CategoryOther:     "#e2e3e5",
		},
		DayNames:   [7]string{"Dom", "Lun", "Mar", "Mié", "Jue", "Vie", "Sáb"},
		MonthNames: [12]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"},
	}
}

// Header describes one date column.
type Header struct {
	Date      Date   `json:"date"`
	DayName   string `json:"day_name"`
	Day       int    `json:"day"`
	MonthName string `json:"month_name"`
	Today     bool   `json:"today"`
}

// Cell is the display model of one (cabin, day) slot.
type Cell struct {
	Resource   string   `json:"cabin_name"`
	Date       Date     `json:"date"`
	Occupied   bool     `json:"occupied"`
	BookingID  string   `json:"booking_id,omitempty"`
	Boundary   Boundary `json:"boundary,omitempty"`
	Category   Category `json:"category,omitempty"`
	Color      string   `json:"color,omitempty"`
	Label      string   `json:"label,omitempty"` // guest name, middle night only
	Tooltip    string   `json:"tooltip,omitempty"`
	PaymentDot string   `json:"payment_dot,omitempty"`
	CheckIn    bool     `json:"check_in_marker,omitempty"`
	CheckOut   bool     `json:"check_out_marker,omitempty"`
	CanAdd     bool     `json:"can_add"`
	Selected   bool     `json:"selected"`
	Today      bool     `json:"today"`
	Past       bool     `json:"past"`
}

// Row is one cabin across the window.
type Row struct {
	Resource     string `json:"cabin_name"`
	Label        string `json:"label"`
	QuickReserve bool   `json:"quick_reserve,omitempty"`
	Cells        []Cell `json:"cells"`
}

// Model is everything a client needs to draw the grid.
type Model struct {
	Year      int        `json:"year"`
	Month     time.Month `json:"month"`
	MonthName string     `json:"month_name"`
	Headers   []Header   `json:"headers"`
	Rows      []Row      `json:"rows"`
}

// Render builds the display model.  sel may be nil.  The output depends only
// on its inputs.
func Render(w GridWindow, idx *Index, sel Selection, opts RenderOptions) Model {
	m := Model{
		Year:    w.Year,
		Month:   w.Month,
		Headers: make([]Header, 0, len(w.Dates)),
		Rows:    make([]Row, 0, len(w.Resources)+1),
	}
	if w.Month >= time.January && w.Month <= time.December {
		m.MonthName = opts.MonthNames[w.Month-1]
	}
	for _, d := range w.Dates {
		m.Headers = append(m.Headers, Header{
			Date:      d,
			DayName:   opts.DayNames[d.Weekday()],
			Day:       d.Day(),
			MonthName: opts.MonthNames[d.Month()-1],
			Today:     d == opts.Today,
		})
	}

	if opts.QuickReserve {
		row := Row{Resource: QuickReserveRow, Label: opts.QuickReserveLabel, QuickReserve: true, Cells: make([]Cell, 0, len(w.Dates))}
		for _, d := range w.Dates {
			row.Cells = append(row.Cells, emptyCell(QuickReserveRow, d, sel, opts))
		}
		m.Rows = append(m.Rows, row)
	}

	for _, res := range w.Resources {
		row := Row{Resource: res, Label: res, Cells: make([]Cell, 0, len(w.Dates))}
		for _, d := range w.Dates {
			if b, ok := idx.Lookup(res, d); ok {
				row.Cells = append(row.Cells, occupiedCell(res, d, b, opts))
				continue
			}
			row.Cells = append(row.Cells, emptyCell(res, d, sel, opts))
		}
		m.Rows = append(m.Rows, row)
	}
	return m
}

func emptyCell(res string, d Date, sel Selection, opts RenderOptions) Cell {
	past := d.Before(opts.Today)
	c := Cell{
		Resource: res,
		Date:     d,
		CanAdd:   !past,
		Today:    d == opts.Today,
		Past:     past,
	}
	if sel != nil {
		c.Selected = sel.IsInSelection(res, d)
	}
	return c
}

func occupiedCell(res string, d Date, b model.Booking, opts RenderOptions) Cell {
	c := Cell{
		Resource:  res,
		Date:      d,
		Occupied:  true,
		BookingID: b.ID,
		Category:  CategoryOf(b.Status),
		Today:     d == opts.Today,
		Past:      d.Before(opts.Today),
		Tooltip:   Tooltip(b),
	}
	c.Color = opts.Palette[c.Category]

	in, errIn := ParseDate(b.CheckIn)
	out, errOut := ParseDate(b.CheckOut)
	if errIn != nil || errOut != nil {
		return c
	}
	c.Boundary = BoundaryFor(d, in, out)
	c.CheckIn = d == in
	c.CheckOut = d == out
	if c.CheckIn {
		c.PaymentDot = paymentState(b)
	}
	if in.DaysUntil(d) == in.DaysUntil(out)/2 {
		c.Label = b.DisplayName()
	}
	return c
}

// BoundaryFor places d inside the inclusive range [in, out].
func BoundaryFor(d, in, out Date) Boundary {
	switch {
	case in == out:
		return SingleDay
	case d == in:
		return RangeStart
	case d == out:
		return RangeEnd
	default:
		return RangeMiddle
	}
}

func paymentState(b model.Booking) string {
	if b.PaymentStatus != "" {
		return b.PaymentStatus
	}
	return model.PaymentStatusFor(b.AmountPaid, b.TotalPrice)
}

// Tooltip summarises a booking for hover text.
func Tooltip(b model.Booking) string {
	lines := []string{
		b.DisplayName(),
		fmt.Sprintf("%d huéspedes", b.Guests),
		fmt.Sprintf("%s → %s", b.CheckIn, b.CheckOut),
	}
	if b.IncludesBreakfast {
		lines = append(lines, "Con desayuno")
	}
	lines = append(lines, fmt.Sprintf("$%s (%s)", b.TotalPrice, paymentState(b)))
	if p := b.DisplayPhone(); p != "" {
		lines = append(lines, p)
	}
	return strings.Join(lines, "\n")
}
