// Package queue defines the staff-action messages exchanged over RabbitMQ
// and the consumer that records them in the audit trail.
package queue

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// StaffActionQueue is the durable queue every admin mutation is published to.
const StaffActionQueue = "agenda.staff_action"

// Staff actions.
const (
	ActionWalkIn         = "reservation.walk_in"
	ActionStatus         = "reservation.status"
	ActionPayment        = "reservation.payment"
	ActionReviewModerate = "review.moderate"
)

// StaffActionEvent describes one change an admin made through the agenda.
// Before and After hold the relevant fields on each side of the change.
type StaffActionEvent struct {
	EventID    string          `json:"event_id"`
	Action     string          `json:"action"`
	TargetID   string          `json:"target_id"`
	AdminID    string          `json:"admin_id"`
	AdminName  string          `json:"admin_name,omitempty"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewStaffAction stamps an event with a fresh id and the current time.
// before and after are marshalled as-is; nil leaves the field empty.
func NewStaffAction(action, targetID, adminID, adminName string, before, after any) (StaffActionEvent, error) {
	ev := StaffActionEvent{
		EventID:    uuid.NewString(),
		Action:     action,
		TargetID:   targetID,
		AdminID:    adminID,
		AdminName:  adminName,
		OccurredAt: time.Now().UTC(),
	}
	var err error
	if before != nil {
		if ev.Before, err = json.Marshal(before); err != nil {
			return ev, err
		}
	}
	if after != nil {
		if ev.After, err = json.Marshal(after); err != nil {
			return ev, err
		}
	}
	return ev, nil
}
