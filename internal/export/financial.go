package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"
)

// Section titles of the financial report.
const (
	SummaryTitle = "RESUMEN FINANCIERO"
	DetailTitle  = "DETALLE DE RESERVACIONES"
)

// FinancialColumns of the reservation detail.
var FinancialColumns = []string{
	"ID", "Huésped", "Email/Teléfono", "Cabaña", "Check-in", "Check-out",
	"Total", "Pagado", "Pendiente", "Método Pago", "Desayuno", "Estado", "Fecha Reserva",
}

// FinancialFilename is the download name for the range, without extension.
func FinancialFilename(r Range) string {
	return "reporte-financiero-" + r.From.String() + "-" + r.To.String()
}

type summaryLine struct {
	label string
	value float64
	text  string
}

func summaryLines(t model.ReportTotals) []summaryLine {
	return []summaryLine{
		{"Total Reservas", float64(t.Reservations), strconv.Itoa(int(t.Reservations))},
		{"Ingresos Totales", float64(t.Revenue), t.Revenue.String()},
		{"Total Pagado", float64(t.Paid), t.Paid.String()},
		{"Total Pendiente", float64(t.Pending), t.Pending.String()},
		{"Tasa de Cobro", float64(t.CollectionRate), strconv.FormatFloat(float64(t.CollectionRate), 'f', -1, 64) + "%"},
	}
}

func financialRecord(r model.FinancialRow) []string {
	return []string{
		string(r.ID), string(r.Guest), string(r.Contact), string(r.Cabin), string(r.CheckIn), string(r.CheckOut),
		r.Total.String(), r.Paid.String(), r.Pending.String(),
		string(r.PaymentMethod), string(r.Breakfast), string(r.Status), string(r.BookedAt),
	}
}

// WriteFinancialCSV writes the summary block, a blank line, then the
// reservation detail with its header.
func WriteFinancialCSV(w io.Writer, rep model.FinancialReport) error {
	records := [][]string{{SummaryTitle}}
	for _, l := range summaryLines(rep.Summary) {
		records = append(records, []string{l.label, l.text})
	}
	records = append(records, []string{""}, []string{DetailTitle}, FinancialColumns)
	for _, r := range rep.Reservations {
		records = append(records, financialRecord(r))
	}
	return csv.NewWriter(w).WriteAll(records)
}

// WriteFinancialXLSX writes a Resumen sheet and a Detalle sheet.  Amounts
// are numbers so the sheet can total them.
func WriteFinancialXLSX(w io.Writer, rep model.FinancialReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Resumen"); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellValue("Resumen", "A1", SummaryTitle); err != nil {
		return err
	}
	_ = f.SetCellStyle("Resumen", "A1", "A1", bold)
	for i, l := range summaryLines(rep.Summary) {
		row := strconv.Itoa(i + 2)
		if err := f.SetCellValue("Resumen", "A"+row, l.label); err != nil {
			return err
		}
		if err := f.SetCellValue("Resumen", "B"+row, l.value); err != nil {
			return err
		}
	}
	_ = f.SetColWidth("Resumen", "A", "A", 22)

	if _, err := f.NewSheet("Detalle"); err != nil {
		return err
	}
	for i, h := range FinancialColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue("Detalle", cell, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(FinancialColumns), 1)
	_ = f.SetCellStyle("Detalle", "A1", last, bold)
	for n, r := range rep.Reservations {
		rec := financialRecord(r)
		for i, v := range rec {
			cell, _ := excelize.CoordinatesToCellName(i+1, n+2)
			var val any = v
			switch FinancialColumns[i] {
			case "Total":
				val = float64(r.Total)
			case "Pagado":
				val = float64(r.Paid)
			case "Pendiente":
				val = float64(r.Pending)
			}
			if err := f.SetCellValue("Detalle", cell, val); err != nil {
				return err
			}
		}
	}
	_ = f.SetColWidth("Detalle", "A", "D", 22)
	_ = f.SetColWidth("Detalle", "E", "M", 14)

	_, err = f.WriteTo(w)
	return err
}
