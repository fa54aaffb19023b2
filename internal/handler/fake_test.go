package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/agenda"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/bookingapi"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/middleware"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"
	q "github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/queue"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/state"
)

// fakeAPI is an in-memory booking API.
type fakeAPI struct {
	mu        sync.Mutex
	bookings  []model.Booking
	cabins    []model.Cabin
	reviews   []model.Review
	stats     model.DashboardStats
	fetchErr  error
	statsErr  error
	recentErr error
	summary   model.FinancialSummary
	report    model.FinancialReport
	finCalls  []string
	mutateErr error
	fetches   int
	created   []model.WalkInRequest
	statuses  map[string]string
	payments  map[string]model.PaymentUpdate
	decisions map[string]model.ReviewDecision
	lastToken string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		bookings: []model.Booking{
			{
				ID: "b1", Cabin: model.CabinRef{ID: "c1", Name: "Cabaña Pino"}, CheckIn: "2024-06-12", CheckOut: "2024-06-14",
				Guests: 2, TotalPrice: 3600, Status: model.StatusConfirmed, PaymentStatus: model.PaymentPending,
				GuestName: "Ana López", GuestPhone: "771 123 4567",
			},
			{
				ID: "b2", Cabin: model.CabinRef{ID: "c2", Name: "Cabaña Roble"}, CheckIn: "2024-06-05", CheckOut: "2024-06-06",
				Guests: 4, TotalPrice: 2400, Status: model.StatusPending, PaymentStatus: model.PaymentPending,
				User: &model.BookingUser{Name: "Luis"},
			},
		},
		cabins: []model.Cabin{
			{ID: "c1", Name: "Cabaña Pino", IsActive: true},
			{ID: "c2", Name: "Cabaña Roble", IsActive: true},
		},
		statuses:  map[string]string{},
		payments:  map[string]model.PaymentUpdate{},
		decisions: map[string]model.ReviewDecision{},
	}
}

func (f *fakeAPI) FetchBookings(_ context.Context, token string) ([]model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	f.lastToken = token
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]model.Booking(nil), f.bookings...), nil
}

func (f *fakeAPI) FetchBookingsInRange(ctx context.Context, token string, from, to agenda.Date) ([]model.Booking, error) {
	all, err := f.FetchBookings(ctx, token)
	if err != nil {
		return nil, err
	}
	return agenda.Overlapping(all, from, to), nil
}

func (f *fakeAPI) find(id string) (model.Booking, bool) {
	for _, b := range f.bookings {
		if b.ID == id {
			return b, true
		}
	}
	return model.Booking{}, false
}

func (f *fakeAPI) GetReservation(_ context.Context, _, id string) (model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.find(id); ok {
		return b, nil
	}
	return model.Booking{}, bookingapi.ErrNotFound
}

func (f *fakeAPI) CreateWalkInReservation(_ context.Context, _ string, req model.WalkInRequest) (model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return model.Booking{}, f.mutateErr
	}
	f.created = append(f.created, req)
	b := model.Booking{
		ID: "new-1", Cabin: model.CabinRef{ID: req.CabinID, Name: req.CabinName}, CheckIn: req.CheckIn,
		CheckOut: req.CheckOut, Guests: req.Guests, Status: model.StatusPending, GuestName: req.GuestName,
		BookingType: model.BookingWalkIn,
	}
	f.bookings = append(f.bookings, b)
	return b, nil
}

func (f *fakeAPI) UpdateReservationStatus(_ context.Context, _, id, status string) (model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return model.Booking{}, f.mutateErr
	}
	f.statuses[id] = status
	b, _ := f.find(id)
	b.Status = status
	return b, nil
}

func (f *fakeAPI) UpdatePayment(_ context.Context, _, id string, p model.PaymentUpdate) (model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payments[id] = p
	b, _ := f.find(id)
	b.AmountPaid, b.TotalPrice = p.AmountPaid, p.TotalPrice
	b.PaymentStatus = model.PaymentStatusFor(p.AmountPaid, p.TotalPrice)
	return b, nil
}

func (f *fakeAPI) ListCabins(context.Context, string) ([]model.Cabin, error) {
	return f.cabins, nil
}

func (f *fakeAPI) PendingReviews(context.Context, string) ([]model.Review, error) {
	return f.reviews, nil
}

func (f *fakeAPI) ModerateReview(_ context.Context, _, id string, d model.ReviewDecision) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decisions[id] = d
	return nil
}

func (f *fakeAPI) Stats(context.Context, string) (model.DashboardStats, error) {
	return f.stats, f.statsErr
}

func (f *fakeAPI) RecentBookings(context.Context, string) ([]model.Booking, error) {
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	return f.bookings, nil
}

func (f *fakeAPI) ListReservations(ctx context.Context, token string, filter agenda.ReservationFilter, today agenda.Date) ([]model.Booking, error) {
	all, err := f.FetchBookings(ctx, token)
	if err != nil {
		return nil, err
	}
	return filter.Apply(all, today), nil
}

func (f *fakeAPI) FinancialSummary(_ context.Context, _ string, from, to agenda.Date, filterBy string) (model.FinancialSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finCalls = append(f.finCalls, "summary "+from.String()+" "+to.String()+" "+filterBy)
	return f.summary, f.fetchErr
}

func (f *fakeAPI) FinancialReport(_ context.Context, _ string, from, to agenda.Date, filterBy string) (model.FinancialReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finCalls = append(f.finCalls, "report "+from.String()+" "+to.String()+" "+filterBy)
	return f.report, f.fetchErr
}

// recordingPublisher keeps published staff actions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []q.StaffActionEvent
}

func (p *recordingPublisher) PublishStaffAction(_ context.Context, ev q.StaffActionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

// testToday is the property's "today" in every handler test.
var testToday = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

func newStore() *state.Store {
	s := state.NewStore(time.Minute, time.UTC, nil)
	s.Now = func() time.Time { return testToday }
	return s
}

// request builds an authenticated echo context.  params alternates names
// and values.
func request(method, target, body string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	c.Set(middleware.CtxUserID, "admin-1")
	c.Set(middleware.CtxAdminName, "Ana Admin")
	c.Set(middleware.CtxToken, "tok")
	return c, rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}
