package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"
)

// Title is the first line of the CSV and the XLSX sheet name.
const Title = "AGENDA DE RESERVACIONES"

// Columns of the agenda export.
var Columns = []string{
	"ID", "Huésped", "Teléfono", "Cabaña", "Check-in", "Check-out",
	"Huéspedes", "Estado", "Estado Pago", "Total", "Pagado", "Desayuno",
}

// Record is one export line.  Guest name and phone fall back to the
// booking's account; missing values stay empty.
func Record(b model.Booking) []string {
	name, phone := b.GuestName, b.GuestPhone
	if b.User != nil {
		if name == "" {
			name = b.User.Name
		}
		if phone == "" {
			phone = b.User.Phone
		}
	}
	breakfast := "No"
	if b.IncludesBreakfast {
		breakfast = "Sí"
	}
	return []string{
		b.ID, name, phone, b.Cabin.Name, b.CheckIn, b.CheckOut,
		strconv.Itoa(b.Guests), b.Status, b.PaymentStatus,
		b.TotalPrice.String(), b.AmountPaid.String(), breakfast,
	}
}

// sorted orders a copy by check-in, then cabin, then id.
func sorted(bookings []model.Booking) []model.Booking {
	out := append([]model.Booking(nil), bookings...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.CheckIn != b.CheckIn {
			return a.CheckIn < b.CheckIn
		}
		if a.Cabin.Name != b.Cabin.Name {
			return a.Cabin.Name < b.Cabin.Name
		}
		return a.ID < b.ID
	})
	return out
}

// WriteCSV writes the title line, the header and one row per booking.
func WriteCSV(w io.Writer, bookings []model.Booking) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{Title}); err != nil {
		return err
	}
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, b := range sorted(bookings) {
		if err := cw.Write(Record(b)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a workbook with a single sheet.  Amounts and guest counts
// are stored as numbers so the sheet can total them.
func WriteXLSX(w io.Writer, bookings []model.Booking, r Range) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Agenda"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	title := fmt.Sprintf("%s %s al %s", Title, r.From, r.To)
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	for i, h := range Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(Columns), 2)
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return err
	}

	for n, b := range sorted(bookings) {
		row := n + 3
		rec := Record(b)
		for i, v := range rec {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			var val any = v
			switch Columns[i] {
			case "Huéspedes":
				val = b.Guests
			case "Total":
				val = float64(b.TotalPrice)
			case "Pagado":
				val = float64(b.AmountPaid)
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}
	_ = f.SetColWidth(sheet, "A", "A", 38)
	_ = f.SetColWidth(sheet, "B", "D", 22)
	_ = f.SetColWidth(sheet, "E", "L", 13)

	_, err = f.WriteTo(w)
	return err
}
