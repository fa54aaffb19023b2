package bookingapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"
)

// ListReviews returns every review regardless of status.
func (c *Client) ListReviews(ctx context.Context, token string) ([]model.Review, error) {
	var out struct {
		Reviews []model.Review `json:"reviews"`
	}
	if err := c.do(ctx, token, call{op: "list_reviews", method: http.MethodGet, path: "/reviews", timeout: c.timeouts.Fetch}, &out); err != nil {
		return nil, err
	}
	if out.Reviews == nil {
		return []model.Review{}, nil
	}
	return out.Reviews, nil
}

// PendingReviews filters ListReviews down to the moderation queue.
func (c *Client) PendingReviews(ctx context.Context, token string) ([]model.Review, error) {
	all, err := c.ListReviews(ctx, token)
	if err != nil {
		return nil, err
	}
	out := make([]model.Review, 0, len(all))
	for _, r := range all {
		if r.IsPending() {
			out = append(out, r)
		}
	}
	return out, nil
}

// ModerateReview approves or rejects a review.
func (c *Client) ModerateReview(ctx context.Context, token, id string, d model.ReviewDecision) error {
	return c.do(ctx, token, call{
		op:      "moderate_review",
		method:  http.MethodPut,
		path:    "/reviews/" + url.PathEscape(id) + "/approve",
		body:    d,
		timeout: c.timeouts.Update,
	}, nil)
}
