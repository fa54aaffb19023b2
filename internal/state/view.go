// Package state holds the agenda's application state: each admin's view
// (month, filters, drag) and the booking snapshots the grid is drawn from.
// View changes are pure transitions; snapshots are versioned so late fetch
// results never overwrite newer data.
package state

import (
	"strings"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/agenda"
)

// View is what one admin is looking at.  Month is a zero-based month index;
// Month and Year are nil while the view follows Page.
type View struct {
	Page   int    `json:"page"`
	Month  *int   `json:"month,omitempty"`
	Year   *int   `json:"year,omitempty"`
	Cabin  string `json:"cabin"`
	Search string `json:"search"`
}

// DefaultView shows the current month, all cabins, no search.
func DefaultView() View { return View{Cabin: agenda.AllCabins} }

// WindowRequest converts the view into grid-builder input.
func (v View) WindowRequest(today agenda.Date) agenda.WindowRequest {
	return agenda.WindowRequest{Today: today, Page: v.Page, Month: v.Month, Year: v.Year, CabinFilter: v.Cabin}
}

// Action is a user intent on the view.
type Action interface{ isAction() }

type (
	// NextPage and PrevPage move one month.
	NextPage struct{}
	PrevPage struct{}
	// GoToday returns to the current month.
	GoToday struct{}
	// GoToPage jumps to a month offset from today.
	GoToPage struct{ Page int }
	// SelectMonth picks a zero-based month in the selected (or current) year.
	SelectMonth struct{ Month int }
	// SelectYear keeps the visible month and changes its year.
	SelectYear struct{ Year int }
	// FilterCabin narrows the grid to one cabin; "all" or "" clears it.
	FilterCabin struct{ Cabin string }
	// SetSearch filters bookings by guest, phone or cabin.
	SetSearch struct{ Term string }
	// ClearFilters drops the cabin filter and the search term.
	ClearFilters struct{}
)

func (NextPage) isAction()     {}
func (PrevPage) isAction()     {}
func (GoToday) isAction()      {}
func (GoToPage) isAction()     {}
func (SelectMonth) isAction()  {}
func (SelectYear) isAction()   {}
func (FilterCabin) isAction()  {}
func (SetSearch) isAction()    {}
func (ClearFilters) isAction() {}

// Reduce applies an action.  It never mutates v.  Page and the explicit
// month/year stay consistent: paging clears the explicit selection, and a
// month/year selection recomputes Page as the distance from today.
func Reduce(v View, a Action, today agenda.Date) View {
	switch a := a.(type) {
	case NextPage:
		v = followPage(v, today, 1)
	case PrevPage:
		v = followPage(v, today, -1)
	case GoToday:
		v.Page, v.Month, v.Year = 0, nil, nil
	case GoToPage:
		v.Page, v.Month, v.Year = a.Page, nil, nil
	case SelectMonth:
		cur := agenda.ResolveMonth(v.WindowRequest(today))
		v = pin(v, today, cur.Year(), a.Month)
	case SelectYear:
		cur := agenda.ResolveMonth(v.WindowRequest(today))
		v = pin(v, today, a.Year, int(cur.Month())-1)
	case FilterCabin:
		c := strings.TrimSpace(a.Cabin)
		if c == "" {
			c = agenda.AllCabins
		}
		v.Cabin = c
	case SetSearch:
		v.Search = strings.TrimSpace(a.Term)
	case ClearFilters:
		v.Cabin, v.Search = agenda.AllCabins, ""
	}
	return v
}

func followPage(v View, today agenda.Date, delta int) View {
	cur := agenda.ResolveMonth(v.WindowRequest(today))
	v.Page = monthsBetween(today, cur) + delta
	v.Month, v.Year = nil, nil
	return v
}

func pin(v View, today agenda.Date, year, month int) View {
	first := agenda.ResolveMonth(agenda.WindowRequest{Today: today, Month: &month, Year: &year})
	m, y := int(first.Month())-1, first.Year()
	v.Month, v.Year = &m, &y
	v.Page = monthsBetween(today, first)
	return v
}

func monthsBetween(today, first agenda.Date) int {
	return (first.Year()-today.Year())*12 + int(first.Month()) - int(today.Month())
}
