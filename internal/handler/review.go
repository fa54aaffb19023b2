package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/middleware"
	"github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/model"
	q "github.com/JahirSamperio/cabins-hotel-demo-sub001/internal/queue"
)

// ReviewHandler moderates guest reviews.
type ReviewHandler struct {
	API      BookingAPI
	Validate *validator.Validate
	Changes  *Changes
}

func NewReviewHandler(api BookingAPI, v *validator.Validate, ch *Changes) *ReviewHandler {
	if api == nil {
		panic("nil BookingAPI passed to NewReviewHandler")
	}
	if v == nil {
		v = validator.New()
	}
	return &ReviewHandler{API: api, Validate: v, Changes: ch}
}

// Pending handles GET /v1/admin/reviews/pending.
func (h *ReviewHandler) Pending(c echo.Context) error {
	reviews, err := h.API.PendingReviews(c.Request().Context(), middleware.Token(c))
	if err != nil {
		return upstreamError(c, "reviews", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "reviews": reviews})
}

// Moderate handles PUT /v1/admin/reviews/:id with {status, is_featured}.
// Only approved reviews can be featured.
func (h *ReviewHandler) Moderate(c echo.Context) error {
	id := c.Param("id")
	var d model.ReviewDecision
	if err := c.Bind(&d); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"ok": false, "error": "invalid body"})
	}
	if err := h.Validate.Struct(d); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"ok": false, "error": "status must be approved or rejected"})
	}
	if d.Status == model.ReviewRejected {
		d.IsFeatured = false
	}
	if err := h.API.ModerateReview(c.Request().Context(), middleware.Token(c), id, d); err != nil {
		return upstreamError(c, "reviews", err)
	}
	h.Changes.Record(c, EventReviewModerated, q.ActionReviewModerate, id, nil, d)
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "id": id, "status": d.Status, "is_featured": d.IsFeatured})
}
