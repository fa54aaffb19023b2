package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/agenda"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"
)

// ReceiptQRPayload identifies the reservation when the receipt is scanned at
// check-in.
func ReceiptQRPayload(b model.Booking) string {
	return "CABANAS-HUASCA|" + b.ID + "|" + b.CheckIn
}

var statusLabels = map[string]string{
	model.StatusPending:   "Pendiente",
	model.StatusConfirmed: "Confirmada",
	model.StatusCancelled: "Cancelada",
	model.StatusCompleted: "Completada",
	model.PaymentPartial:  "Parcial",
	model.PaymentPaid:     "Pagado",
}

func label(status string) string {
	if l, ok := statusLabels[status]; ok {
		return l
	}
	return status
}

// Receipt renders a one-page A4 PDF summarising the reservation, with a QR
// code of ReceiptQRPayload.
func Receipt(b model.Booking, issued time.Time) ([]byte, error) {
	qrPNG, err := qrcode.Encode(ReceiptQRPayload(b), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("receipt qr: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Reservación "+b.ID), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, tr("Cabañas Huasca"))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, tr("Comprobante de reservación"))
	pdf.Ln(14)

	nights := 0
	if in, err := agenda.ParseDate(b.CheckIn); err == nil {
		if out, err := agenda.ParseDate(b.CheckOut); err == nil {
			nights = in.DaysUntil(out)
		}
	}
	breakfast := "No"
	if b.IncludesBreakfast {
		breakfast = "Sí"
	}
	lines := [][2]string{
		{"Folio", b.ID},
		{"Huésped", b.DisplayName()},
		{"Teléfono", b.DisplayPhone()},
		{"Cabaña", b.Cabin.Name},
		{"Llegada", b.CheckIn},
		{"Salida", b.CheckOut},
		{"Noches", fmt.Sprint(nights)},
		{"Huéspedes", fmt.Sprint(b.Guests)},
		{"Desayuno", breakfast},
		{"Estado", label(b.Status)},
		{"Total", "$" + b.TotalPrice.String()},
		{"Pagado", "$" + b.AmountPaid.String()},
		{"Saldo", "$" + (b.TotalPrice - b.AmountPaid).String()},
		{"Estado de pago", label(b.PaymentStatus)},
	}
	if b.PaymentMethod != "" {
		lines = append(lines, [2]string{"Método de pago", b.PaymentMethod})
	}
	for _, l := range lines {
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(45, 8, tr(l[0]+":"))
		pdf.SetFont("Arial", "", 11)
		pdf.Cell(0, 8, tr(l[1]))
		pdf.Ln(8)
	}
	if b.SpecialRequests != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 8, tr("Solicitudes especiales:"))
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(120, 6, tr(b.SpecialRequests), "", "L", false)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, opts, 0, "")

	pdf.SetY(-25)
	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(0, 6, tr("Emitido "+issued.Format("2006-01-02 15:04")))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}
