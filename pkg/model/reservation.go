package model

import (
	"time"
)

// ReservationForm carries the raw modal fields exactly as the chat gateway
// submits them. Nothing here is trusted; the validator turns a form into a
// ReservationRequest or rejects it.
type ReservationForm struct {
	Title     string `json:"title"`
	RoomID    string `json:"room_id"`
	Date      string `json:"date"`       // YYYY-MM-DD
	StartTime string `json:"start_time"` // HH:MM
	EndTime   string `json:"end_time"`   // HH:MM
	TeamID    string `json:"team_id"`
	Recurring bool   `json:"recurring"`
}

// ReservationRequest is a validated booking request, constructed per
// submission and discarded once a response is produced. RecordID is set only
// on edit flows.
type ReservationRequest struct {
	Title       string    `validate:"required,min=1,max=200"`
	RoomID      string    `validate:"required"`
	RoomName    string    `validate:"required"`
	Start       time.Time `validate:"required"`
	End         time.Time `validate:"required,gtfield=Start"`
	TeamID      string    `validate:"required"`
	TeamName    string    `validate:"required"`
	RequesterID string    `validate:"required"`
	RecordID    string    `validate:"omitempty"`
	Recurring   bool
}

// Reservation is the stored record. The store owns its durable state; the
// service never caches these across requests.
type Reservation struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty"`
	Title       string    `json:"title" bson:"title"`
	RoomID      string    `json:"room_id" bson:"room_id"`
	RoomName    string    `json:"room_name" bson:"room_name"`
	StartTime   time.Time `json:"start_time" bson:"start_time"`
	EndTime     time.Time `json:"end_time" bson:"end_time"`
	TeamID      string    `json:"team_id" bson:"team_id"`
	TeamName    string    `json:"team_name" bson:"team_name"`
	RequesterID string    `json:"requester_id" bson:"requester_id"`
	RecurringID string    `json:"recurring_id,omitempty" bson:"recurring_id,omitempty"`
	Archived    bool      `json:"archived" bson:"archived"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// ConflictEntry is the display projection of a conflicting reservation.
// Fields degrade to placeholder text when the stored record cannot be
// parsed; the conflict itself is never dropped.
type ConflictEntry struct {
	Title     string `json:"title"`
	TeamName  string `json:"team_name"`
	StartTime string `json:"start_time"` // HH:MM
	EndTime   string `json:"end_time"`   // HH:MM
	StartDate string `json:"start_date"` // YYYY-MM-DD
}

// ModalPrefill holds the civil strings an edit modal is seeded with. A
// stored reservation rendered through ModalPrefill must reproduce the exact
// date and time strings the user originally submitted.
type ModalPrefill struct {
	Title     string `json:"title"`
	RoomID    string `json:"room_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	TeamID    string `json:"team_id"`
	RecordID  string `json:"record_id"`
}

// Confirmation is the artifact returned to the chat gateway after a
// successful create or edit.
type Confirmation struct {
	RecordID     string `json:"record_id"`
	Title        string `json:"title"`
	RoomName     string `json:"room_name"`
	Date         string `json:"date"`
	TimeRange    string `json:"time_range"`
	TeamName     string `json:"team_name"`
	RecurringID  string `json:"recurring_id,omitempty"`
	WeeksCreated int    `json:"weeks_created,omitempty"`
	WeeksSkipped []int  `json:"weeks_skipped,omitempty"`
}

// NewReservation maps a validated request onto a fresh stored record. The
// store assigns the ID on insert.
func NewReservation(req *ReservationRequest) *Reservation {
	return &Reservation{
		Title:       req.Title,
		RoomID:      req.RoomID,
		RoomName:    req.RoomName,
		StartTime:   req.Start,
		EndTime:     req.End,
		TeamID:      req.TeamID,
		TeamName:    req.TeamName,
		RequesterID: req.RequesterID,
	}
}
