package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Financial report date columns.
const (
	FilterByCreatedAt = "created_at"
	FilterByCheckIn   = "check_in"
)

// Count is a tally the booking API may send as a number or, from SQL
// aggregates, as a numeric string.
type Count int

// UnmarshalJSON accepts numbers, numeric strings and null.
func (n *Count) UnmarshalJSON(data []byte) error {
	var m Money
	if err := m.UnmarshalJSON(data); err != nil {
		return err
	}
	*n = Count(m)
	return nil
}

// FinancialSummary are the money totals of the non-cancelled reservations
// in a date range.  CollectionRate is a percentage with one decimal.
type FinancialSummary struct {
	TotalReservations Count `json:"total_reservations"`
	TotalRevenue      Money `json:"total_revenue"`
	TotalPaid         Money `json:"total_paid"`
	TotalPending      Money `json:"total_pending"`
	UnpaidCount       Count `json:"unpaid_count"`
	PartialCount      Count `json:"partial_count"`
	PaidCount         Count `json:"paid_count"`
	CollectionRate    Money `json:"collection_rate"`
}

// ReportTotals head the downloadable financial report.
type ReportTotals struct {
	Reservations   Count `json:"Total Reservas"`
	Revenue        Money `json:"Ingresos Totales"`
	Paid           Money `json:"Total Pagado"`
	Pending        Money `json:"Total Pendiente"`
	CollectionRate Money `json:"Tasa de Cobro"`
}

// FinancialRow is one reservation line of the financial report.  Contact is
// the account email or, for walk-ins, the guest phone.
type FinancialRow struct {
	ID            Text  `json:"ID"`
	Guest         Text  `json:"Huésped"`
	Contact       Text  `json:"Email/Teléfono"`
	Cabin         Text  `json:"Cabaña"`
	CheckIn       Text  `json:"Check-in"`
	CheckOut      Text  `json:"Check-out"`
	Total         Money `json:"Total"`
	Paid          Money `json:"Pagado"`
	Pending       Money `json:"Pendiente"`
	PaymentMethod Text  `json:"Método Pago"`
	Breakfast     Text  `json:"Desayuno"`
	Status        Text  `json:"Estado"`
	BookedAt      Text  `json:"Fecha Reserva"`
}

// FinancialReport is the body of the booking API's financial export.
type FinancialReport struct {
	Summary      ReportTotals   `json:"summary"`
	Reservations []FinancialRow `json:"reservations"`
}

// Text is a report cell.  Ids and dates arrive as strings or numbers
// depending on the column type; null becomes empty.
type Text string

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*t = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		switch x := v.(type) {
		case float64:
			*t = Text(strconv.FormatFloat(x, 'f', -1, 64))
		case bool:
			*t = Text(strconv.FormatBool(x))
		default:
			*t = Text(strings.TrimSpace(string(data)))
		}
	}
	return nil
}
