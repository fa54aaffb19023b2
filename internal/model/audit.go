package model

import (
	"encoding/json"
	"time"
)

// AuditEntry is one row of the staff-action trail.
type AuditEntry struct {
	EventID    string          `json:"event_id"`
	Action     string          `json:"action"`
	TargetID   string          `json:"target_id"`
	AdminID    string          `json:"admin_id"`
	AdminName  string          `json:"admin_name,omitempty"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}
