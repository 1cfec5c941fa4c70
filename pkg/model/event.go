package model

import "time"

const (
	EventReservationCreated   = "reservation.created"
	EventReservationUpdated   = "reservation.updated"
	EventReservationCancelled = "reservation.cancelled"
	EventSeriesCreated        = "reservation.series_created"
)

// ReservationEvent is the lifecycle payload published after a booking
// mutation commits. Events are keyed by room so consumers see per-room order.
type ReservationEvent struct {
	Type        string    `json:"type"`
	RecordID    string    `json:"record_id"`
	Title       string    `json:"title,omitempty"`
	RoomID      string    `json:"room_id"`
	RoomName    string    `json:"room_name,omitempty"`
	StartTime   time.Time `json:"start_time,omitempty"`
	EndTime     time.Time `json:"end_time,omitempty"`
	TeamName    string    `json:"team_name,omitempty"`
	RequesterID string    `json:"requester_id,omitempty"`
	RecurringID string    `json:"recurring_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
