package handler

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/agenda"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/bookingapi"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/export"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/metrics"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/middleware"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/state"
)

// loadFailedMsg is shown above the empty grid when bookings cannot be fetched.
const loadFailedMsg = "No se pudieron cargar las reservaciones. Intenta de nuevo."

// AgendaHandler serves the occupancy grid and the gestures staff perform on it.
type AgendaHandler struct {
	API     BookingAPI
	Store   *state.Store
	Hub     *AgendaHub
	Options agenda.RenderOptions
	Metrics *metrics.Metrics
}

// NewAgendaHandler panics when api or store is nil.
func NewAgendaHandler(api BookingAPI, store *state.Store, hub *AgendaHub, opts agenda.RenderOptions, m *metrics.Metrics) *AgendaHandler {
	if api == nil || store == nil {
		panic("nil dependency passed to NewAgendaHandler")
	}
	return &AgendaHandler{API: api, Store: store, Hub: hub, Options: opts, Metrics: m}
}

// AgendaResponse is the body of every grid-returning endpoint.
type AgendaResponse struct {
	OK        bool                `json:"ok"`
	Error     string              `json:"error,omitempty"`
	Version   uint64              `json:"version"`
	View      state.View          `json:"view"`
	Cabins    []string            `json:"cabins"`
	Grid      agenda.Model        `json:"grid"`
	Drag      agenda.DragSnapshot `json:"drag"`
	Conflicts []agenda.Conflict   `json:"conflicts,omitempty"`
	Anomalies []agenda.Anomaly    `json:"anomalies,omitempty"`
	Draft     *model.WalkInDraft  `json:"draft,omitempty"`
}

// gesture runs against the session's drag controller after the index for
// the visible month is built and before the grid is rendered.
type gesture func(w agenda.GridWindow, d *agenda.DragController)

// build cuts the visible month from the booking collection and renders it.
// A failed fetch still renders the month's empty grid with an error
// message; only a rejected token is returned as an error.
func (h *AgendaHandler) build(c echo.Context, ss *state.Session, g gesture) (AgendaResponse, error) {
	today := h.Store.Today()
	view := ss.View()
	req := view.WindowRequest(today)

	resp := AgendaResponse{OK: true, View: view}
	snap, err := h.load(c)
	if errors.Is(err, bookingapi.ErrUnauthorized) {
		return resp, err
	}
	var all []model.Booking
	if err != nil {
		log.Printf("agenda: load bookings: %v", err)
		resp.OK, resp.Error = false, loadFailedMsg
	} else {
		all = snap.Bookings
		resp.Version = snap.Version
	}

	// Rows come from the whole collection so a cabin keeps its row in a
	// month where nobody booked it.
	resp.Cabins = agenda.Resources(all)
	searched := agenda.Search(all, view.Search)
	w := agenda.BuildWindow(req, searched)
	idx := agenda.BuildIndex(agenda.Overlapping(searched, w.Start(), w.End()))
	resp.Conflicts = idx.Conflicts()
	resp.Anomalies = idx.Anomalies()
	for _, cf := range resp.Conflicts {
		log.Printf("agenda: overlapping bookings %s and %s on %s %s", cf.Loser, cf.Winner, cf.Resource, cf.Date)
	}

	opts := h.Options
	opts.Today = today
	ss.Drag(idx, func(d *agenda.DragController) {
		if g != nil {
			g(w, d)
		}
		resp.Grid = agenda.Render(w, idx, d, opts)
		resp.Drag = d.Snapshot()
	})
	h.Metrics.Rendered(len(resp.Conflicts))
	return resp, nil
}

func (h *AgendaHandler) session(c echo.Context) (*state.Session, error) {
	id, err := getUserID(c)
	if err != nil {
		return nil, err
	}
	return h.Store.Session(id), nil
}

func (h *AgendaHandler) respond(c echo.Context, ss *state.Session, g gesture) error {
	resp, err := h.build(c, ss, g)
	if err != nil {
		return upstreamError(c, "agenda", err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Grid handles GET /v1/admin/agenda.  Query parameters page, month
// (zero-based), year, cabin and q update the admin's view before rendering.
func (h *AgendaHandler) Grid(c echo.Context) error {
	ss, err := h.session(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	actions, err := queryActions(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if len(actions) > 0 {
		ss.Dispatch(h.Store.Today(), actions...)
	}
	return h.respond(c, ss, nil)
}

func queryActions(c echo.Context) ([]state.Action, error) {
	var out []state.Action
	intParam := func(name string) (int, bool, error) {
		raw := c.QueryParam(name)
		if raw == "" {
			return 0, false, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, false, errors.New("invalid " + name)
		}
		return n, true, nil
	}
	if n, ok, err := intParam("page"); err != nil {
		return nil, err
	} else if ok {
		out = append(out, state.GoToPage{Page: n})
	}
	if n, ok, err := intParam("year"); err != nil {
		return nil, err
	} else if ok {
		out = append(out, state.SelectYear{Year: n})
	}
	if n, ok, err := intParam("month"); err != nil {
		return nil, err
	} else if ok {
		out = append(out, state.SelectMonth{Month: n})
	}
	if vals, ok := c.QueryParams()["cabin"]; ok {
		out = append(out, state.FilterCabin{Cabin: vals[0]})
	}
	if vals, ok := c.QueryParams()["q"]; ok {
		out = append(out, state.SetSearch{Term: vals[0]})
	}
	return out, nil
}

// NavigateRequest is one filter-bar action.
type NavigateRequest struct {
	Action string `json:"action"`
	Page   int    `json:"page"`
	Month  int    `json:"month"`
	Year   int    `json:"year"`
	Cabin  string `json:"cabin"`
	Term   string `json:"term"`
}

func (r NavigateRequest) toAction() (state.Action, error) {
	switch strings.ToLower(r.Action) {
	case "next":
		return state.NextPage{}, nil
	case "prev":
		return state.PrevPage{}, nil
	case "today":
		return state.GoToday{}, nil
	case "page":
		return state.GoToPage{Page: r.Page}, nil
	case "month":
		return state.SelectMonth{Month: r.Month}, nil
	case "year":
		return state.SelectYear{Year: r.Year}, nil
	case "cabin":
		return state.FilterCabin{Cabin: r.Cabin}, nil
	case "search":
		return state.SetSearch{Term: r.Term}, nil
	case "clear":
		return state.ClearFilters{}, nil
	}
	return nil, errors.New("unknown action " + strconv.Quote(r.Action))
}

// Navigate handles POST /v1/admin/agenda/navigate.
func (h *AgendaHandler) Navigate(c echo.Context) error {
	ss, err := h.session(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req NavigateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	a, err := req.toAction()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ss.Dispatch(h.Store.Today(), a)
	return h.respond(c, ss, nil)
}

// Refresh handles POST /v1/admin/agenda/refresh: the cached collection is
// dropped and fetched again.  Other open agendas are told to
// refetch as well.
func (h *AgendaHandler) Refresh(c echo.Context) error {
	ss, err := h.session(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	h.Hub.Publish(EventAgendaRefreshed, h.Store.Invalidate(), nil)
	return h.respond(c, ss, nil)
}

// PointerRequest is one pointer event over the grid.  Cabin is empty for
// the quick-reserve row.  OnGrid tells whether a pointer-up landed on a cell.
type PointerRequest struct {
	Event  string `json:"event"`
	Cabin  string `json:"cabin_name"`
	Date   string `json:"date"`
	OnGrid bool   `json:"on_grid"`
}

// Pointer handles POST /v1/admin/agenda/pointer.  Events are down, enter,
// up and cancel.  A pointer-up on the grid commits the selection and the
// response carries the walk-in draft.
func (h *AgendaHandler) Pointer(c echo.Context) error {
	ss, err := h.session(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req PointerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	event := strings.ToLower(req.Event)
	var date agenda.Date
	if event == "down" || event == "enter" {
		if date, err = agenda.ParseDate(req.Date); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
		}
	} else if event != "up" && event != "cancel" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown pointer event"})
	}

	var (
		committed bool
		nr        agenda.NewReservation
	)
	resp, err := h.build(c, ss, func(w agenda.GridWindow, d *agenda.DragController) {
		switch event {
		case "down":
			if h.onGrid(w, req.Cabin, date) {
				d.PointerDown(req.Cabin, date)
			}
		case "enter":
			if h.onGrid(w, req.Cabin, date) {
				d.PointerEnter(req.Cabin, date)
			}
		case "up":
			if d.State() != agenda.Dragging {
				return
			}
			nr, committed = d.PointerUp(req.OnGrid)
			if committed {
				h.Metrics.Drag("committed")
			} else {
				h.Metrics.Drag("discarded")
			}
		case "cancel":
			d.Cancel()
		}
	})
	if err != nil {
		return upstreamError(c, "agenda", err)
	}
	if committed {
		draft := h.draft(c, nr.Resource, nr.CheckIn, nr.CheckOut)
		resp.Draft = &draft
	}
	return c.JSON(http.StatusOK, resp)
}

// onGrid reports whether (cabin, date) is a cell of the rendered window.
func (h *AgendaHandler) onGrid(w agenda.GridWindow, cabin string, date agenda.Date) bool {
	if !w.Contains(date) {
		return false
	}
	if cabin == agenda.QuickReserveRow {
		return h.Options.QuickReserve
	}
	for _, r := range w.Resources {
		if r == cabin {
			return true
		}
	}
	return false
}

// draft prefills the walk-in form.  The cabin id is resolved by name; when
// the cabin list is unavailable the form still opens and staff pick it.
func (h *AgendaHandler) draft(c echo.Context, cabin string, in, out agenda.Date) model.WalkInDraft {
	d := model.WalkInDraft{CabinName: cabin, CheckIn: in.String(), Guests: 1}
	if !out.IsZero() {
		d.CheckOut = out.String()
	}
	if cabin == "" {
		return d
	}
	cabins, err := h.API.ListCabins(c.Request().Context(), middleware.Token(c))
	if err != nil {
		log.Printf("agenda: list cabins for draft: %v", err)
		return d
	}
	if cb, ok := model.FindCabinByName(cabins, cabin); ok {
		d.CabinID = cb.ID
	}
	return d
}

// AddCellRequest is a click on the "+" of an empty cell.
type AddCellRequest struct {
	Cabin string `json:"cabin_name"`
	Date  string `json:"date"`
}

// AddCell handles POST /v1/admin/agenda/cells/add.  Only empty cells dated
// today or later carry the affordance.  When the month cannot be loaded the
// draft is still returned; the booking API rejects a real conflict on submit.
func (h *AgendaHandler) AddCell(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req AddCellRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	date, err := agenda.ParseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	if date.Before(h.Store.Today()) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "No se pueden crear reservaciones en fechas pasadas"})
	}
	if req.Cabin != agenda.QuickReserveRow {
		idx, err := h.monthIndex(c, date)
		switch {
		case errors.Is(err, bookingapi.ErrUnauthorized):
			return upstreamError(c, "agenda", err)
		case err != nil:
			log.Printf("agenda: occupancy check for %s %s: %v", req.Cabin, date, err)
		case idx.Occupied(req.Cabin, date):
			return c.JSON(http.StatusConflict, echo.Map{"error": "La cabaña ya está ocupada en esa fecha"})
		}
	}
	draft := h.draft(c, req.Cabin, date, agenda.Date{})
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "draft": draft})
}

// load returns the cached booking collection, fetching it when stale.
func (h *AgendaHandler) load(c echo.Context) (state.Snapshot, error) {
	token := middleware.Token(c)
	return h.Store.Load(c.Request().Context(), state.BookingsKey, func(ctx context.Context) ([]model.Booking, error) {
		return h.API.FetchBookings(ctx, token)
	})
}

// monthIndex indexes the bookings touching the month containing date.
func (h *AgendaHandler) monthIndex(c echo.Context, date agenda.Date) (*agenda.Index, error) {
	snap, err := h.load(c)
	if err != nil {
		return nil, err
	}
	frame := agenda.BuildWindow(agenda.WindowRequest{Today: date}, nil)
	return agenda.BuildIndex(agenda.Overlapping(snap.Bookings, frame.Start(), frame.End())), nil
}

// CellDetail handles GET /v1/admin/agenda/cells/:cabin/:date, the click on an
// occupied cell.  The booking is read from the agenda's snapshot and then
// refreshed from the API so the detail view is current.
func (h *AgendaHandler) CellDetail(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	date, err := agenda.ParseDate(c.Param("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	idx, err := h.monthIndex(c, date)
	if err != nil {
		return upstreamError(c, "agenda", err)
	}
	b, ok := idx.Lookup(c.Param("cabin"), date)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"ok": false, "error": "no reservation on that cell"})
	}
	if fresh, err := h.API.GetReservation(c.Request().Context(), middleware.Token(c), b.ID); err == nil {
		b = fresh
	} else if !errors.Is(err, bookingapi.ErrNetwork) {
		return upstreamError(c, "agenda", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "reservation": b, "tooltip": agenda.Tooltip(b)})
}

// Export handles GET /v1/admin/agenda/export?start_date&end_date&format.
// format is csv (default) or xlsx.
func (h *AgendaHandler) Export(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	rng, err := export.ResolveRange(firstParam(c, "start_date", "startDate"), firstParam(c, "end_date", "endDate"), h.Store.Today())
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"ok": false, "error": err.Error()})
	}
	format := strings.ToLower(c.QueryParam("format"))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		return c.JSON(http.StatusBadRequest, echo.Map{"ok": false, "error": "format must be csv or xlsx"})
	}

	bookings, err := h.API.FetchBookingsInRange(c.Request().Context(), middleware.Token(c), rng.From, rng.To)
	if err != nil {
		return upstreamError(c, "export", err)
	}
	bookings = inCheckInRange(bookings, rng)

	var buf bytes.Buffer
	contentType := "text/csv; charset=utf-8"
	if format == "xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = export.WriteXLSX(&buf, bookings, rng)
	} else {
		err = export.WriteCSV(&buf, bookings)
	}
	if err != nil {
		log.Printf("export: %s: %v", format, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"ok": false, "error": "export failed"})
	}
	h.Metrics.Exported(format)
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+rng.Filename()+"."+format+`"`)
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}

// inCheckInRange keeps bookings whose check-in falls inside the range.
func inCheckInRange(bookings []model.Booking, rng export.Range) []model.Booking {
	out := make([]model.Booking, 0, len(bookings))
	for _, b := range bookings {
		in, err := agenda.ParseDate(b.CheckIn)
		if err != nil || in.Before(rng.From) || in.After(rng.To) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func firstParam(c echo.Context, names ...string) string {
	for _, n := range names {
		if v := c.QueryParam(n); v != "" {
			return v
		}
	}
	return ""
}

// Live handles GET /v1/admin/agenda/ws.
func (h *AgendaHandler) Live(c echo.Context) error {
	id, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if h.Hub == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "live updates disabled"})
	}
	return h.Hub.Serve(c, id, h.Store.Version())
}
