package model

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// MaxStayNights caps the length of a walk-in stay.
const MaxStayNights = 30

// MinPhoneDigits is the shortest phone number staff may record.
const MinPhoneDigits = 10

// WalkInRequest is the payload staff submit to book a guest at the front desk
// or by phone.  CabinName travels along for display only; the booking API
// keys on CabinID.
type WalkInRequest struct {
	CabinID           string `json:"cabin_id" validate:"required"`
	CabinName         string `json:"cabin_name,omitempty"`
	CheckIn           string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut          string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Guests            int    `json:"guests" validate:"min=1,max=20"`
	GuestName         string `json:"guest_name" validate:"required,max=255"`
	GuestPhone        string `json:"guest_phone" validate:"required,max=30"`
	PaymentMethod     string `json:"payment_method" validate:"omitempty,oneof=cash card transfer"`
	PaymentStatus     string `json:"payment_status" validate:"omitempty,oneof=pending paid partial"`
	IncludesBreakfast bool   `json:"includes_breakfast"`
	SpecialRequests   string `json:"special_requests,omitempty" validate:"max=500"`
	BookingType       string `json:"booking_type,omitempty" validate:"omitempty,oneof=walk_in phone"`
}

// WalkInDraft prefills the walk-in form after a grid gesture.  CheckOut is
// empty when staff clicked the "+" affordance instead of dragging.
type WalkInDraft struct {
	CabinID   string `json:"cabin_id,omitempty"`
	CabinName string `json:"cabin_name"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out,omitempty"`
	Guests    int    `json:"guests"`
}

// PaymentUpdate edits the money side of a reservation.
type PaymentUpdate struct {
	AmountPaid Money `json:"amount_paid"`
	TotalPrice Money `json:"total_price"`
}

// StatusUpdate moves a reservation through its lifecycle.
type StatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

// ErrInvalidPayload wraps field-level validation failures.
var ErrInvalidPayload = errors.New("invalid payload")

// ValidationErrors lists human readable problems with a payload.
type ValidationErrors []string

func (v ValidationErrors) Error() string { return strings.Join(v, "; ") }

// Unwrap lets callers match ErrInvalidPayload with errors.Is.
func (v ValidationErrors) Unwrap() error { return ErrInvalidPayload }

var walkInMessages = map[string]string{
	"CabinID":         "Selecciona una cabaña",
	"CheckIn":         "Selecciona fecha de check-in",
	"CheckOut":        "Selecciona fecha de check-out",
	"Guests":          "Ingresa número de huéspedes válido",
	"GuestName":       "Ingresa el nombre del huésped",
	"GuestPhone":      "Ingresa el teléfono",
	"PaymentMethod":   "Método de pago inválido",
	"PaymentStatus":   "Estado de pago inválido",
	"SpecialRequests": "Las peticiones especiales son demasiado largas",
	"BookingType":     "Tipo de reservación inválido",
}

// Validate checks a walk-in request against the front-desk rules.  today is
// the current calendar day in the property's timezone.
func (w WalkInRequest) Validate(v *validator.Validate, today time.Time) error {
	var out ValidationErrors
	if err := v.Struct(w); err != nil {
		var fe validator.ValidationErrors
		if !errors.As(err, &fe) {
			return err
		}
		seen := map[string]bool{}
		for _, f := range fe {
			if seen[f.Field()] {
				continue
			}
			seen[f.Field()] = true
			msg, ok := walkInMessages[f.Field()]
			if !ok {
				msg = f.Error()
			}
			out = append(out, msg)
		}
	}

	in, inErr := time.Parse(time.DateOnly, w.CheckIn)
	outDay, outErr := time.Parse(time.DateOnly, w.CheckOut)
	if inErr == nil && outErr == nil {
		day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
		if in.Before(day) {
			out = append(out, "La fecha de check-in no puede ser pasada")
		}
		if !outDay.After(in) {
			out = append(out, "La fecha de check-out debe ser posterior al check-in")
		}
		if outDay.Sub(in) > MaxStayNights*24*time.Hour {
			out = append(out, "La estadía no puede ser mayor a 30 días")
		}
	}

	if w.GuestPhone != "" && len(DigitsOnly(w.GuestPhone)) < MinPhoneDigits {
		out = append(out, "Ingresa un teléfono válido (mínimo 10 dígitos)")
	}
	if len(out) > 0 {
		return out
	}
	return nil
}

// Validate checks the payment amounts.
func (p PaymentUpdate) Validate() error {
	var out ValidationErrors
	if p.TotalPrice < 0 {
		out = append(out, "El total debe ser un número válido mayor o igual a 0")
	}
	if p.AmountPaid < 0 {
		out = append(out, "El monto pagado debe ser un número válido mayor o igual a 0")
	}
	if p.AmountPaid > p.TotalPrice {
		out = append(out, "El monto pagado no puede ser mayor al total")
	}
	if len(out) > 0 {
		return out
	}
	return nil
}

// DigitsOnly strips everything except ASCII digits.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
