package bookingapi

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/agenda"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"
)

func TestListReservationsForwardsAndEnforcesFilters(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("status") != "pending" || q.Get("date_range") != "week" || q.Get("search") != "ana" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		if q.Has("payment_status") || q.Has("date") || q.Has("page") {
			t.Errorf("unexpected params in %s", r.URL.RawQuery)
		}
		// The API ignores filters and returns everything.
		io.WriteString(w, `{"ok":true,"reservations":[
			{"id":"a","cabin":{"name":"Pino"},"check_in":"2024-06-12","check_out":"2024-06-13","status":"pending","guest_name":"Ana"},
			{"id":"b","cabin":{"name":"Pino"},"check_in":"2024-06-12","check_out":"2024-06-13","status":"confirmed","guest_name":"Ana"},
			{"id":"c","cabin":{"name":"Roble"},"check_in":"2024-06-30","check_out":"2024-07-01","status":"pending","guest_name":"Ana"},
			{"id":"d","cabin":{"name":"Roble"},"check_in":"2024-06-11","check_out":"2024-06-12","status":"pending","guest_name":"Luis"}]}`)
	})
	f := agenda.ReservationFilter{Status: "pending", Range: agenda.RangeWeek, Search: "ana"}
	got, err := c.ListReservations(context.Background(), "tok", f, agenda.MustDate("2024-06-10"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("reservations = %+v", got)
	}
}

func TestFinancialSummaryDecodesAggregateStrings(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/financial/summary" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("startDate") != "2024-06-01" || q.Get("endDate") != "2024-06-30" || q.Get("filterBy") != "check_in" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		io.WriteString(w, `{"ok":true,"summary":{"total_reservations":"3","total_revenue":"7200.00","total_paid":"3600.00",
			"total_pending":"3600.00","unpaid_count":"1","partial_count":"1","paid_count":"1","collection_rate":"50.0"}}`)
	})
	got, err := c.FinancialSummary(context.Background(), "tok", agenda.MustDate("2024-06-01"), agenda.MustDate("2024-06-30"), model.FilterByCheckIn)
	if err != nil {
		t.Fatal(err)
	}
	want := model.FinancialSummary{
		TotalReservations: 3, TotalRevenue: 7200, TotalPaid: 3600, TotalPending: 3600,
		UnpaidCount: 1, PartialCount: 1, PaidCount: 1, CollectionRate: 50,
	}
	if got != want {
		t.Errorf("summary = %+v", got)
	}
}

func TestFinancialReport(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/export/financial" {
			t.Errorf("path = %s", r.URL.Path)
		}
		io.WriteString(w, `{"ok":true,"data":{
			"summary":{"Total Reservas":1,"Ingresos Totales":1200,"Total Pagado":600,"Total Pendiente":600,"Tasa de Cobro":50},
			"reservations":[{"ID":17,"Huésped":"Ana","Email/Teléfono":null,"Cabaña":"Pino","Check-in":"2024-06-12",
				"Check-out":"2024-06-13","Total":1200,"Pagado":600,"Pendiente":600,"Método Pago":"N/A","Desayuno":"Sí",
				"Estado":"confirmed","Fecha Reserva":"2024-06-01T10:00:00.000Z"}],
			"filters":{"filterBy":"created_at"}}}`)
	})
	got, err := c.FinancialReport(context.Background(), "tok", agenda.MustDate("2024-06-01"), agenda.MustDate("2024-06-30"), "")
	if err != nil {
		t.Fatal(err)
	}
	if got.Summary.Reservations != 1 || got.Summary.CollectionRate != 50 {
		t.Errorf("summary = %+v", got.Summary)
	}
	if len(got.Reservations) != 1 {
		t.Fatalf("rows = %+v", got.Reservations)
	}
	row := got.Reservations[0]
	if row.ID != "17" || row.Contact != "" || row.Pending != 600 || row.Breakfast != "Sí" {
		t.Errorf("row = %+v", row)
	}
}
