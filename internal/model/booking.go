package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Booking statuses as stored by the booking API.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Payment statuses.
const (
	PaymentPending = "pending"
	PaymentPartial = "partial"
	PaymentPaid    = "paid"
)

// Booking types.
const (
	BookingOnline = "online"
	BookingWalkIn = "walk_in"
	BookingPhone  = "phone"
)

// DefaultGuestName is shown when a booking carries neither a guest name nor a user.
const DefaultGuestName = "Huésped"

// Booking is a reservation of one cabin over a date range, as returned by
// the booking API.  CheckIn and CheckOut are ISO calendar dates
// (YYYY-MM-DD); both days are occupied.
type Booking struct {
	ID                string       `json:"id"`
	Cabin             CabinRef     `json:"cabin"`
	CheckIn           string       `json:"check_in"`
	CheckOut          string       `json:"check_out"`
	Guests            int          `json:"guests"`
	TotalPrice        Money        `json:"total_price"`
	AmountPaid        Money        `json:"amount_paid"`
	Status            string       `json:"status"`
	PaymentStatus     string       `json:"payment_status"`
	PaymentMethod     string       `json:"payment_method,omitempty"`
	BookingType       string       `json:"booking_type,omitempty"`
	GuestName         string       `json:"guest_name,omitempty"`
	GuestPhone        string       `json:"guest_phone,omitempty"`
	IncludesBreakfast bool         `json:"includes_breakfast"`
	SpecialRequests   string       `json:"special_requests,omitempty"`
	User              *BookingUser `json:"user,omitempty"`
}

// CabinRef is the nested cabin object embedded in a booking.
type CabinRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// BookingUser is the registered account that made an online booking.
type BookingUser struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ResourceName is the cabin name used as grid row key.
func (b Booking) ResourceName() string { return b.Cabin.Name }

// DisplayName returns the walk-in guest name, the account name, or the
// generic fallback, in that order.
func (b Booking) DisplayName() string {
	if n := strings.TrimSpace(b.GuestName); n != "" {
		return n
	}
	if b.User != nil && strings.TrimSpace(b.User.Name) != "" {
		return b.User.Name
	}
	return DefaultGuestName
}

// DisplayPhone mirrors DisplayName for the contact phone.
func (b Booking) DisplayPhone() string {
	if b.GuestPhone != "" {
		return b.GuestPhone
	}
	if b.User != nil {
		return b.User.Phone
	}
	return ""
}

// IsCancelled reports whether the booking frees its dates.
func (b Booking) IsCancelled() bool { return b.Status == StatusCancelled }

// Money is a peso amount.  The booking API serialises decimals either as
// JSON numbers or as strings ("1200.00"); both decode.
type Money float64

// UnmarshalJSON accepts numbers, numeric strings and null.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*m = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*m = Money(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*m = Money(f)
	return nil
}

// String formats the amount with two decimals.
func (m Money) String() string { return strconv.FormatFloat(float64(m), 'f', 2, 64) }

// PaymentStatusFor derives the payment status from the amount paid.
func PaymentStatusFor(paid, total Money) string {
	switch {
	case paid <= 0:
		return PaymentPending
	case paid >= total:
		return PaymentPaid
	default:
		return PaymentPartial
	}
}

// CanTransition reports whether staff may move a booking from one status to another.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCancelled || to == StatusCompleted
	}
	return false
}
