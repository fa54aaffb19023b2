package model

// Review moderation states.
const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

// Review is a guest review awaiting or past moderation.
type Review struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Location   string `json:"location,omitempty"`
	Rating     int    `json:"rating"`
	Title      string `json:"title,omitempty"`
	Content    string `json:"content"`
	Status     string `json:"status"`
	IsFeatured bool   `json:"is_featured"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// IsPending reports whether a review still needs a moderation decision.
// Legacy rows without a status count as pending.
func (r Review) IsPending() bool {
	return r.Status == "" || r.Status == ReviewPending
}

// ReviewDecision is the moderation verdict sent to the booking API.
type ReviewDecision struct {
	Status     string `json:"status" validate:"required,oneof=approved rejected"`
	IsFeatured bool   `json:"is_featured"`
}
