// Package queue defines message payloads exchanged over the message broker.
package queue

// NotificationEvent is published whenever a set of users must be told
// something: a session they booked was cancelled, the whole schedule
// was wiped, or the administrator sent a broadcast. It carries the
// complete recipient set so consumers never query the primary database.
type NotificationEvent struct {
	Kind      string   `json:"kind"` // session_cancelled | schedule_cleared | broadcast
	SessionID uint64   `json:"session_id,omitempty"`
	Text      string   `json:"text"`
	UserIDs   []uint64 `json:"user_ids"`
	CreatedAt string   `json:"created_at"`
}

// Event kinds carried by NotificationEvent.
const (
	KindSessionCancelled = "session_cancelled"
	KindScheduleCleared  = "schedule_cleared"
	KindBroadcast        = "broadcast"
)
