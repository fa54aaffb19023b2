package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/agenda"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"
)

func sample() []model.Booking {
	return []model.Booking{
		{
			ID: "b2", Cabin: model.CabinRef{Name: "Cabaña Roble"}, CheckIn: "2024-06-12", CheckOut: "2024-06-14",
			Guests: 4, TotalPrice: 3600, AmountPaid: 1000, Status: model.StatusConfirmed,
			PaymentStatus: model.PaymentPartial, User: &model.BookingUser{Name: "Luis", Phone: "771 123 4567"},
		},
		{
			ID: "b1", Cabin: model.CabinRef{Name: "Cabaña Pino"}, CheckIn: "2024-06-10", CheckOut: "2024-06-11",
			Guests: 2, TotalPrice: 1200, Status: model.StatusPending, PaymentStatus: model.PaymentPending,
			GuestName: "Ana, María", GuestPhone: "7711234567", IncludesBreakfast: true,
		},
	}
}

func TestResolveRange(t *testing.T) {
	today := agenda.MustDate("2024-06-15")
	tests := []struct {
		name, start, end string
		want             Range
		wantMsg          string
	}{
		{"defaults", "", "", Range{agenda.MustDate("2024-05-16"), today}, ""},
		{"explicit", "2024-06-01", "2024-06-30", Range{agenda.MustDate("2024-06-01"), agenda.MustDate("2024-06-30")}, ""},
		{"exactly 90 days", "2024-04-01", "2024-06-30", Range{agenda.MustDate("2024-04-01"), agenda.MustDate("2024-06-30")}, ""},
		{"reversed", "2024-06-10", "2024-06-01", Range{}, "anterior a la fecha final"},
		{"too old", "2023-06-14", "2023-06-20", Range{}, "1 año atrás"},
		{"too far", "2025-06-10", "2025-06-16", Range{}, "1 año en el futuro"},
		{"too long", "2024-03-01", "2024-06-15", Range{}, "90 días"},
		{"bad start", "junio", "", Range{}, "inicio inválida"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveRange(tt.start, tt.end, today)
			if tt.wantMsg != "" {
				if !errors.Is(err, ErrInvalidRange) || !strings.Contains(err.Error(), tt.wantMsg) {
					t.Fatalf("err = %v, want %q", err, tt.wantMsg)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ResolveRange = %+v, %v; want %+v", got, err, tt.want)
			}
		})
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sample()); err != nil {
		t.Fatal(err)
	}
	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	recs, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 4 || recs[0][0] != Title {
		t.Fatalf("records = %v", recs)
	}
	if strings.Join(recs[1], ",") != "ID,Huésped,Teléfono,Cabaña,Check-in,Check-out,Huéspedes,Estado,Estado Pago,Total,Pagado,Desayuno" {
		t.Errorf("header = %v", recs[1])
	}
	first := recs[2]
	if first[0] != "b1" || first[1] != "Ana, María" || first[11] != "Sí" || first[10] != "0.00" {
		t.Errorf("first row = %v", first)
	}
	second := recs[3]
	if second[1] != "Luis" || second[2] != "771 123 4567" || second[9] != "3600.00" {
		t.Errorf("fallback row = %v", second)
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	rng := Range{agenda.MustDate("2024-06-01"), agenda.MustDate("2024-06-30")}
	if err := WriteXLSX(&buf, sample(), rng); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != "Agenda" {
		t.Fatalf("sheets = %v", sheets)
	}
	rows, err := f.GetRows("Agenda")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 || !strings.Contains(rows[0][0], "2024-06-01 al 2024-06-30") {
		t.Fatalf("rows = %v", rows)
	}
	if rows[2][0] != "b1" || rows[3][9] != "3600" {
		t.Errorf("data rows = %v", rows[2:])
	}
}

func TestWhatsAppNumber(t *testing.T) {
	tests := []struct {
		in, want string
		err      error
	}{
		{"(771) 123-4567", "527711234567", nil},
		{"52 771 123 4567", "527711234567", nil},
		{"5277112345", "5277112345", nil},
		{"+1 212 555 0100", "12125550100", nil},
		{"12345", "", ErrInvalidPhone},
		{"", "", ErrNoPhone},
	}
	for _, tt := range tests {
		got, err := WhatsAppNumber(tt.in)
		if got != tt.want || !errors.Is(err, tt.err) {
			t.Errorf("WhatsAppNumber(%q) = %q, %v; want %q, %v", tt.in, got, err, tt.want, tt.err)
		}
	}
}

func TestWhatsAppLink(t *testing.T) {
	b := sample()[1]
	link, err := WhatsAppLink(b)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(link, "https://wa.me/527711234567?text=Hola%21%20Te%20contacto") {
		t.Errorf("link = %s", link)
	}
	if strings.Contains(link, "+") {
		t.Errorf("spaces not percent-encoded: %s", link)
	}
	if _, err := WhatsAppLink(model.Booking{}); !errors.Is(err, ErrNoPhone) {
		t.Errorf("err = %v", err)
	}
}

func TestContactQR(t *testing.T) {
	png256, err := ContactQR(sample()[0], 0)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(png256))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 256 {
		t.Errorf("width = %d", img.Bounds().Dx())
	}
}

func TestReceipt(t *testing.T) {
	b := sample()[1]
	b.SpecialRequests = "Llegamos tarde"
	pdf, err := Receipt(b, time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Errorf("not a PDF: %q", pdf[:8])
	}
	if ReceiptQRPayload(b) != "CABANAS-HUASCA|b1|2024-06-10" {
		t.Errorf("payload = %s", ReceiptQRPayload(b))
	}
}

func financialSample() model.FinancialReport {
	return model.FinancialReport{
		Summary: model.ReportTotals{Reservations: 2, Revenue: 4800, Paid: 1200, Pending: 3600, CollectionRate: 25},
		Reservations: []model.FinancialRow{
			{ID: "b1", Guest: "Ana, María", Contact: "7711234567", Cabin: "Cabaña Pino", CheckIn: "2024-06-10", CheckOut: "2024-06-11",
				Total: 1200, Paid: 1200, Pending: 0, PaymentMethod: "efectivo", Breakfast: "Sí", Status: "confirmed", BookedAt: "2024-06-01"},
			{ID: "b2", Guest: "Luis", Contact: "luis@example.com", Cabin: "Cabaña Roble", CheckIn: "2024-06-12", CheckOut: "2024-06-14",
				Total: 3600, Pending: 3600, PaymentMethod: "N/A", Breakfast: "No", Status: "pending", BookedAt: "2024-06-02"},
		},
	}
}

func TestWriteFinancialCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFinancialCSV(&buf, financialSample()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, SummaryTitle+"\nTotal Reservas,2\nIngresos Totales,4800.00\n") {
		t.Errorf("summary block = %q", out)
	}
	if !strings.Contains(out, "Tasa de Cobro,25%\n\n"+DetailTitle+"\n") {
		t.Errorf("missing blank line before detail: %q", out)
	}

	r := csv.NewReader(strings.NewReader(out))
	r.FieldsPerRecord = -1
	recs, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	// Title, five totals, detail title, header, two rows; blank lines are skipped.
	if len(recs) != 10 {
		t.Fatalf("records = %v", recs)
	}
	if strings.Join(recs[7], ",") != strings.Join(FinancialColumns, ",") {
		t.Errorf("header = %v", recs[7])
	}
	if row := recs[8]; row[1] != "Ana, María" || row[6] != "1200.00" || row[8] != "0.00" {
		t.Errorf("first row = %v", row)
	}
}

func TestWriteFinancialXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFinancialXLSX(&buf, financialSample()); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if sheets := f.GetSheetList(); len(sheets) != 2 || sheets[0] != "Resumen" || sheets[1] != "Detalle" {
		t.Fatalf("sheets = %v", sheets)
	}
	if v, _ := f.GetCellValue("Resumen", "B3"); v != "4800" {
		t.Errorf("revenue cell = %q", v)
	}
	rows, err := f.GetRows("Detalle")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[0][2] != "Email/Teléfono" || rows[2][8] != "3600" {
		t.Errorf("detail rows = %v", rows)
	}
}

func TestFinancialFilename(t *testing.T) {
	r := Range{agenda.MustDate("2024-06-01"), agenda.MustDate("2024-06-30")}
	if got := FinancialFilename(r); got != "reporte-financiero-2024-06-01-2024-06-30" {
		t.Errorf("FinancialFilename = %q", got)
	}
}
