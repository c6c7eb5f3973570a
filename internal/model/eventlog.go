package model

import "time"

// Event log categories.
const (
	EventCategoryAuth    = "auth"
	EventCategoryRental  = "rental"
	EventCategoryPayment = "payment"
	EventCategoryAdmin   = "admin"
)

// EventLog is one audit trail entry. Entries are written best-effort: a
// failed insert never fails the business operation that produced it.
type EventLog struct {
	ID          int64          `json:"id"`
	EventType   string         `json:"event_type"`
	Category    string         `json:"event_category"`
	Description string         `json:"event_description"`
	UserID      *int64         `json:"user_id,omitempty"`
	UserEmail   *string        `json:"user_email,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	IPAddress   *string        `json:"ip_address,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
