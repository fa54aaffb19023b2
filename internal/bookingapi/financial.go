package bookingapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/agenda"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"
)

func financialQuery(from, to agenda.Date, filterBy string) url.Values {
	q := url.Values{}
	q.Set("startDate", from.String())
	q.Set("endDate", to.String())
	if filterBy != "" {
		q.Set("filterBy", filterBy)
	}
	return q
}

// FinancialSummary returns the revenue totals of reservations whose
// filterBy date (created_at or check_in) falls in [from, to].
func (c *Client) FinancialSummary(ctx context.Context, token string, from, to agenda.Date, filterBy string) (model.FinancialSummary, error) {
	var out struct {
		Summary model.FinancialSummary `json:"summary"`
	}
	err := c.do(ctx, token, call{
		op:      "financial_summary",
		method:  http.MethodGet,
		path:    "/financial/summary",
		query:   financialQuery(from, to, filterBy),
		timeout: c.timeouts.Fetch,
	}, &out)
	return out.Summary, err
}

// FinancialReport returns the detailed financial report for the same
// selection as FinancialSummary.
func (c *Client) FinancialReport(ctx context.Context, token string, from, to agenda.Date, filterBy string) (model.FinancialReport, error) {
	var out struct {
		Data model.FinancialReport `json:"data"`
	}
	err := c.do(ctx, token, call{
		op:      "financial_report",
		method:  http.MethodGet,
		path:    "/export/financial",
		query:   financialQuery(from, to, filterBy),
		timeout: c.timeouts.Fetch,
	}, &out)
	if out.Data.Reservations == nil {
		out.Data.Reservations = []model.FinancialRow{}
	}
	return out.Data, err
}
