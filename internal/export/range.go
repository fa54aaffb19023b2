// Package export renders reservations into files staff download: the agenda
// as CSV or XLSX, a printable receipt, and the WhatsApp contact link.
package export

import (
	"errors"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/agenda"
)

// Range limits.
const (
	DefaultRangeDays = 30
	MaxRangeDays     = 90
)

// ErrInvalidRange wraps every range validation failure.
var ErrInvalidRange = errors.New("invalid export range")

// RangeError carries the message shown to staff.
type RangeError struct{ Msg string }

func (e *RangeError) Error() string { return e.Msg }
func (e *RangeError) Unwrap() error { return ErrInvalidRange }

// Range is an inclusive span of check-in dates.
type Range struct {
	From agenda.Date `json:"start_date"`
	To   agenda.Date `json:"end_date"`
}

// ResolveRange parses the requested bounds.  A missing start defaults to 30
// days before today and a missing end to today.  The range must be ordered,
// lie within one year of today in either direction and span at most 90 days.
func ResolveRange(start, end string, today agenda.Date) (Range, error) {
	r := Range{From: today.AddDays(-DefaultRangeDays), To: today}
	var err error
	if start != "" {
		if r.From, err = agenda.ParseDate(start); err != nil {
			return Range{}, &RangeError{Msg: "Fecha de inicio inválida"}
		}
	}
	if end != "" {
		if r.To, err = agenda.ParseDate(end); err != nil {
			return Range{}, &RangeError{Msg: "Fecha final inválida"}
		}
	}
	switch {
	case r.From.After(r.To):
		return Range{}, &RangeError{Msg: "La fecha de inicio debe ser anterior a la fecha final"}
	case r.From.Before(agenda.NewDate(today.Year()-1, today.Month(), today.Day())):
		return Range{}, &RangeError{Msg: "No se pueden consultar fechas de más de 1 año atrás"}
	case r.To.After(agenda.NewDate(today.Year()+1, today.Month(), today.Day())):
		return Range{}, &RangeError{Msg: "No se pueden consultar fechas de más de 1 año en el futuro"}
	case r.From.DaysUntil(r.To) > MaxRangeDays:
		return Range{}, &RangeError{Msg: "El rango máximo es de 3 meses (90 días)"}
	}
	return r, nil
}

// Filename is the download name for the range, without extension.
func (r Range) Filename() string { return "agenda-" + r.From.String() + "-" + r.To.String() }
