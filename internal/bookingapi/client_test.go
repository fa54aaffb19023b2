package bookingapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/agenda"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/metrics"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *metrics.Metrics) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	m := metrics.New(prometheus.NewRegistry())
	return New(Options{BaseURL: srv.URL + "/", Metrics: m}), m
}

func TestFetchBookingsInRange(t *testing.T) {
	c, m := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reservations" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("x-token"); got != "tok" {
			t.Errorf("x-token = %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing request id")
		}
		if r.URL.Query().Get("start_date") != "2024-06-01" || r.URL.Query().Get("end_date") != "2024-06-30" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		io.WriteString(w, `{"ok":true,"reservations":[
			{"id":"in","cabin":{"name":"A"},"check_in":"2024-06-10","check_out":"2024-06-12","status":"confirmed","total_price":"1500.00"},
			{"id":"out","cabin":{"name":"A"},"check_in":"2024-08-10","check_out":"2024-08-12","status":"confirmed"}]}`)
	})

	got, err := c.FetchBookingsInRange(context.Background(), "tok", agenda.MustDate("2024-06-01"), agenda.MustDate("2024-06-30"))
	if err != nil {
		t.Fatalf("FetchBookingsInRange: %v", err)
	}
	if len(got) != 1 || got[0].ID != "in" || got[0].TotalPrice != 1500 {
		t.Errorf("bookings = %+v", got)
	}
	if v := testutil.ToFloat64(m.UpstreamRequests.WithLabelValues("fetch_bookings_range", "ok")); v != 1 {
		t.Errorf("metric = %v", v)
	}
}

func TestFetchBookingsEmpty(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":true}`)
	})
	got, err := c.FetchBookings(context.Background(), "tok")
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("FetchBookings = %v, %v; want empty slice", got, err)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"server error", 500, `{"ok":false,"msg":"Error en el servidor"}`, func(err error) bool { return errors.Is(err, ErrNetwork) }},
		{"not json", 502, `<html>bad gateway</html>`, func(err error) bool { return errors.Is(err, ErrNetwork) }},
		{"conflict", 400, `{"ok":false,"msg":"La cabaña no está disponible"}`, func(err error) bool {
			ve, ok := IsValidation(err)
			return ok && ve.Msg == "La cabaña no está disponible" && ve.Status == 400
		}},
		{"4xx without message", 422, `oops`, func(err error) bool { return errors.Is(err, ErrNetwork) }},
		{"ok false with 200", 200, `{"ok":false,"msg":"nope"}`, func(err error) bool { _, ok := IsValidation(err); return ok }},
		{"unauthorized", 401, `{"ok":false,"msg":"token inválido"}`, func(err error) bool { return errors.Is(err, ErrUnauthorized) }},
		{"not found", 404, `{"ok":false,"msg":"no existe"}`, func(err error) bool { return errors.Is(err, ErrNotFound) }},
		{"garbage 200", 200, `{{{`, func(err error) bool { return errors.Is(err, ErrNetwork) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})
			_, err := c.CreateWalkInReservation(context.Background(), "tok", model.WalkInRequest{CabinID: "c1"})
			if err == nil || !tt.check(err) {
				t.Errorf("error = %v", err)
			}
		})
	}
}

func TestTransportFailureIsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()
	c := New(Options{BaseURL: url})
	if _, err := c.FetchBookings(context.Background(), "tok"); !errors.Is(err, ErrNetwork) {
		t.Errorf("error = %v, want ErrNetwork", err)
	}
}

func TestTimeoutIsNetwork(t *testing.T) {
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-done:
		}
	}))
	t.Cleanup(func() { close(done); srv.Close() })
	c := New(Options{BaseURL: srv.URL, Timeouts: Timeouts{Fetch: 50 * time.Millisecond}})
	if _, err := c.ListCabins(context.Background(), "tok"); !errors.Is(err, ErrNetwork) {
		t.Errorf("error = %v, want ErrNetwork", err)
	}
}

func TestCreateWalkInDefaults(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/reservations/walk-in" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["booking_type"] != "walk_in" || body["payment_status"] != "pending" || body["cabin_id"] != "c1" {
			t.Errorf("body = %v", body)
		}
		io.WriteString(w, `{"ok":true,"msg":"Reservación creada","reservation":{"id":"r1","status":"confirmed"}}`)
	})
	b, err := c.CreateWalkInReservation(context.Background(), "tok", model.WalkInRequest{CabinID: "c1"})
	if err != nil || b.ID != "r1" {
		t.Errorf("create = %+v, %v", b, err)
	}
}

func TestUpdatePaymentSendsDerivedStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/reservations/r 1" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["payment_status"] != "partial" || body["amount_paid"] != 500.0 {
			t.Errorf("body = %v", body)
		}
		io.WriteString(w, `{"ok":true,"reservation":{"id":"r 1","payment_status":"partial"}}`)
	})
	b, err := c.UpdatePayment(context.Background(), "tok", "r 1", model.PaymentUpdate{AmountPaid: 500, TotalPrice: 1000})
	if err != nil || b.PaymentStatus != "partial" {
		t.Errorf("update = %+v, %v", b, err)
	}
}

func TestUpdateReservationStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"status":"cancelled"`) {
			t.Errorf("body = %s", body)
		}
		io.WriteString(w, `{"ok":true,"reservation":{"id":"r1","status":"cancelled"}}`)
	})
	b, err := c.UpdateReservationStatus(context.Background(), "tok", "r1", model.StatusCancelled)
	if err != nil || b.Status != model.StatusCancelled {
		t.Errorf("update = %+v, %v", b, err)
	}
}

func TestReviews(t *testing.T) {
	var moderated map[string]any
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/reviews":
			io.WriteString(w, `{"ok":true,"reviews":[
				{"id":"1","status":"pending","rating":5},
				{"id":"2","status":"approved","rating":4},
				{"id":"3","rating":3},
				{"id":"4","status":"rejected","rating":1}]}`)
		case r.Method == http.MethodPut && r.URL.Path == "/reviews/1/approve":
			json.NewDecoder(r.Body).Decode(&moderated)
			io.WriteString(w, `{"ok":true}`)
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})
	pending, err := c.PendingReviews(context.Background(), "tok")
	if err != nil || len(pending) != 2 || pending[0].ID != "1" || pending[1].ID != "3" {
		t.Errorf("pending = %+v, %v", pending, err)
	}
	if err := c.ModerateReview(context.Background(), "tok", "1", model.ReviewDecision{Status: model.ReviewApproved, IsFeatured: true}); err != nil {
		t.Fatalf("ModerateReview: %v", err)
	}
	if moderated["status"] != "approved" || moderated["is_featured"] != true {
		t.Errorf("moderation body = %v", moderated)
	}
}

func TestStatsAndRecent(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/admin/stats":
			io.WriteString(w, `{"ok":true,"stats":{"monthlyRevenue":12000.5,"occupancyRate":40,"totalCabins":5}}`)
		case "/admin/recent-bookings":
			io.WriteString(w, `{"ok":true,"reservations":[{"id":"r1"}]}`)
		}
	})
	s, err := c.Stats(context.Background(), "tok")
	if err != nil || s.MonthlyRevenue != 12000.5 || s.TotalCabins != 5 {
		t.Errorf("stats = %+v, %v", s, err)
	}
	recent, err := c.RecentBookings(context.Background(), "tok")
	if err != nil || len(recent) != 1 {
		t.Errorf("recent = %+v, %v", recent, err)
	}
}
