// Package validator turns raw modal submissions into validated booking
// requests. Checks run in a fixed order and the first failure wins, so the
// user is pointed at one concrete field to fix.
package validator

import (
	"time"

	"github.com/go-playground/validator/v10"

	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/model"
	"roomly/pkg/sanitizer"
	"roomly/pkg/timeutil"
)

type FormValidator struct {
	validate *validator.Validate
	rooms    *config.RoomRegistry
	teams    *config.TeamRegistry
	loc      *time.Location
}

func NewFormValidator(cfg *config.Config) *FormValidator {
	return &FormValidator{
		validate: validator.New(),
		rooms:    cfg.Rooms,
		teams:    cfg.Teams,
		loc:      cfg.Location,
	}
}

// ParseForm validates a raw form and produces a booking request. recordID is
// empty on create and names the record being replaced on edit.
func (v *FormValidator) ParseForm(form *model.ReservationForm, requesterID, recordID string) (*model.ReservationRequest, error) {
	title := sanitizer.NormalizeTitle(form.Title)
	if title == "" {
		return nil, apperrors.ValidationField("title", "Please enter a meeting title.")
	}

	roomID := sanitizer.NormalizeID(form.RoomID)
	if roomID == "" {
		roomID = v.rooms.DefaultRoomID()
	}
	room, ok := v.rooms.Resolve(roomID)
	if !ok {
		return nil, apperrors.ValidationField("room_id", "Please select a valid meeting room.")
	}

	start, err := timeutil.ParseCivil(v.loc, form.Date, form.StartTime)
	if err != nil {
		return nil, apperrors.ValidationField("start_time", "Please provide the date as YYYY-MM-DD and the start time as HH:MM.")
	}
	end, err := timeutil.ParseCivil(v.loc, form.Date, form.EndTime)
	if err != nil {
		return nil, apperrors.ValidationField("end_time", "Please provide the end time as HH:MM.")
	}
	if !start.Before(end) {
		return nil, apperrors.ValidationField("end_time", "End time must be after start time.")
	}

	teamID := sanitizer.NormalizeID(form.TeamID)
	teamName, ok := v.teams.Resolve(teamID)
	if !ok {
		return nil, apperrors.ValidationField("team_id", "Please select an organizing team.")
	}

	if requesterID == "" {
		return nil, apperrors.ValidationField("requester_id", "Missing requester identity.")
	}

	req := &model.ReservationRequest{
		Title:       title,
		RoomID:      room.ID,
		RoomName:    room.Name,
		Start:       start,
		End:         end,
		TeamID:      teamID,
		TeamName:    teamName,
		RequesterID: requesterID,
		RecordID:    recordID,
		Recurring:   form.Recurring,
	}

	// Structural backstop; the ordered checks above should have caught
	// everything user-facing already.
	if err := v.validate.Struct(req); err != nil {
		return nil, apperrors.Validation("The submitted reservation has errors. Please review and try again.", map[string]any{
			"error": err.Error(),
		})
	}

	return req, nil
}
