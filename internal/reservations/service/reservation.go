package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"roomly/internal/reservations/conflict"
	reservationserrors "roomly/internal/reservations/errors"
	"roomly/internal/reservations/events"
	"roomly/internal/reservations/presenter"
	"roomly/internal/reservations/repository"
	"roomly/internal/reservations/validator"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/model"
	"roomly/pkg/timeutil"
)

type ReservationService interface {
	Create(ctx context.Context, form *model.ReservationForm, requesterID string) (*model.Confirmation, error)
	Edit(ctx context.Context, recordID string, form *model.ReservationForm, requesterID string) (*model.Confirmation, error)
	Cancel(ctx context.Context, recordID string) error
	Prefill(ctx context.Context, recordID string) (*model.ModalPrefill, error)
	Status(ctx context.Context, dateText string) (*presenter.StatusDigest, error)
	Upcoming(ctx context.Context, days int) (*presenter.StatusDigest, error)
	FormDefaults() model.ReservationForm
}

type reservationService struct {
	repo      repository.ReservationRepository
	detector  *conflict.Detector
	validator *validator.FormValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	detector *conflict.Detector,
	formValidator *validator.FormValidator,
	publisher events.Publisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		detector:  detector,
		validator: formValidator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *reservationService) Create(ctx context.Context, form *model.ReservationForm, requesterID string) (*model.Confirmation, error) {
	req, err := s.validator.ParseForm(form, requesterID, "")
	if err != nil {
		return nil, err
	}

	if err := s.ensureFree(ctx, req.RoomName, req.Start, req.End, ""); err != nil {
		return nil, err
	}

	if req.Recurring {
		return s.createSeries(ctx, req)
	}

	res := model.NewReservation(req)
	if err := s.repo.Create(ctx, res); err != nil {
		s.cfg.Log.Error("Failed to create reservation", "room_name", req.RoomName, "error", err)
		return nil, apperrors.StoreFailure("Failed to save the reservation. Please try again later.", err)
	}

	s.cfg.Log.Info("Reservation created",
		"id", res.ID,
		"room_name", res.RoomName,
		"start_time", res.StartTime,
		"end_time", res.EndTime,
	)
	s.publisher.Publish(ctx, lifecycleEvent(model.EventReservationCreated, res))

	return presenter.Confirmation(res, s.cfg.Location), nil
}

// createSeries books the validated slot weekly for the configured number of
// weeks under a shared series id. All candidate weeks are checked for
// conflicts up front; conflicting weeks are skipped rather than failing the
// series. A store failure mid-sequence rolls back the records created so far
// on a best-effort basis.
func (s *reservationService) createSeries(ctx context.Context, req *model.ReservationRequest) (*model.Confirmation, error) {
	recurringID := uuid.New().String()
	weeks := s.cfg.RecurringWeeks

	var skipped []int
	for week := 1; week < weeks; week++ {
		offset := time.Duration(week) * 7 * 24 * time.Hour
		conflicts, err := s.detector.Check(ctx, req.RoomName, req.Start.Add(offset), req.End.Add(offset), "")
		if err != nil {
			return nil, apperrors.StoreFailure("Could not verify availability for the recurring series. Please try again later.", err)
		}
		if len(conflicts) > 0 {
			skipped = append(skipped, week+1)
		}
	}

	skippedSet := make(map[int]bool, len(skipped))
	for _, w := range skipped {
		skippedSet[w] = true
	}

	var created []*model.Reservation
	for week := 0; week < weeks; week++ {
		if skippedSet[week+1] {
			continue
		}
		offset := time.Duration(week) * 7 * 24 * time.Hour
		res := model.NewReservation(req)
		res.StartTime = req.Start.Add(offset)
		res.EndTime = req.End.Add(offset)
		res.RecurringID = recurringID

		if err := s.repo.Create(ctx, res); err != nil {
			s.cfg.Log.Error("Failed to create recurring reservation, rolling back series",
				"recurring_id", recurringID,
				"week", week+1,
				"created_so_far", len(created),
				"error", err,
			)
			s.rollbackSeries(ctx, recurringID, created)
			return nil, apperrors.StoreFailure("Failed to save the recurring series. No reservations were kept.", err)
		}
		created = append(created, res)
	}

	if len(created) == 0 {
		return nil, apperrors.Conflict("Every week in the requested series is already booked.", map[string]any{
			"weeks_skipped": skipped,
		})
	}

	first := created[0]
	s.cfg.Log.Info("Recurring series created",
		"recurring_id", recurringID,
		"room_name", first.RoomName,
		"weeks_created", len(created),
		"weeks_skipped", len(skipped),
	)
	s.publisher.Publish(ctx, lifecycleEvent(model.EventReservationCreated, first))
	seriesEvent := lifecycleEvent(model.EventSeriesCreated, first)
	s.publisher.Publish(ctx, seriesEvent)

	confirmation := presenter.Confirmation(first, s.cfg.Location)
	confirmation.WeeksCreated = len(created)
	confirmation.WeeksSkipped = skipped
	return confirmation, nil
}

func (s *reservationService) rollbackSeries(ctx context.Context, recurringID string, created []*model.Reservation) {
	for _, res := range created {
		if err := s.repo.Archive(ctx, res.ID); err != nil {
			s.cfg.Log.Error("Failed to roll back recurring reservation",
				"recurring_id", recurringID,
				"id", res.ID,
				"error", err,
			)
		}
	}
}

func (s *reservationService) Edit(ctx context.Context, recordID string, form *model.ReservationForm, requesterID string) (*model.Confirmation, error) {
	if recordID == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, recordID)
	if err != nil {
		return nil, s.mapStoreError(err, recordID)
	}

	req, err := s.validator.ParseForm(form, requesterID, recordID)
	if err != nil {
		return nil, err
	}

	// The record being edited must not collide with itself.
	if err := s.ensureFree(ctx, req.RoomName, req.Start, req.End, recordID); err != nil {
		return nil, err
	}

	updated := model.NewReservation(req)
	updated.ID = recordID
	updated.RecurringID = existing.RecurringID
	updated.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, recordID, updated); err != nil {
		s.cfg.Log.Error("Failed to update reservation", "id", recordID, "error", err)
		return nil, s.mapStoreError(err, recordID)
	}

	s.cfg.Log.Info("Reservation updated",
		"id", recordID,
		"room_name", updated.RoomName,
		"start_time", updated.StartTime,
	)
	s.publisher.Publish(ctx, lifecycleEvent(model.EventReservationUpdated, updated))

	return presenter.Confirmation(updated, s.cfg.Location), nil
}

// Cancel archives the record. Cancelling an already-cancelled reservation
// succeeds; only a missing record is an error.
func (s *reservationService) Cancel(ctx context.Context, recordID string) error {
	if recordID == "" {
		return apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, recordID)
	if err != nil {
		return s.mapStoreError(err, recordID)
	}

	if err := s.repo.Archive(ctx, recordID); err != nil {
		s.cfg.Log.Error("Failed to cancel reservation", "id", recordID, "error", err)
		return s.mapStoreError(err, recordID)
	}

	s.cfg.Log.Info("Reservation cancelled", "id", recordID, "room_name", existing.RoomName)
	s.publisher.Publish(ctx, lifecycleEvent(model.EventReservationCancelled, existing))
	return nil
}

func (s *reservationService) Prefill(ctx context.Context, recordID string) (*model.ModalPrefill, error) {
	if recordID == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	res, err := s.repo.FindByID(ctx, recordID)
	if err != nil {
		return nil, s.mapStoreError(err, recordID)
	}
	return presenter.Prefill(res, s.cfg.Rooms, s.cfg.Teams, s.cfg.Location), nil
}

func (s *reservationService) Status(ctx context.Context, dateText string) (*presenter.StatusDigest, error) {
	qd, err := timeutil.ParseQueryDate(dateText, time.Now(), s.cfg.Location)
	if err != nil {
		return nil, apperrors.InvalidInput("Please provide the date as today, tomorrow, week, or YYYY-MM-DD.")
	}
	if qd.Weekly {
		return s.Upcoming(ctx, 7)
	}

	from, to := timeutil.DayRange(qd.Date, s.cfg.Location)
	list, err := s.boundedRead(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return presenter.BuildStatus(list, qd.Label, s.cfg.Rooms, s.cfg.Location), nil
}

func (s *reservationService) Upcoming(ctx context.Context, days int) (*presenter.StatusDigest, error) {
	if days <= 0 {
		days = 7
	}

	now := time.Now().In(s.cfg.Location)
	from, _ := timeutil.DayRange(now, s.cfg.Location)
	_, to := timeutil.DayRange(now.AddDate(0, 0, days-1), s.cfg.Location)

	list, err := s.boundedRead(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return presenter.BuildStatus(list, fmt.Sprintf("the next %d days", days), s.cfg.Rooms, s.cfg.Location), nil
}

func (s *reservationService) FormDefaults() model.ReservationForm {
	return presenter.FormDefaults(time.Now(), s.cfg.Location, s.cfg.Rooms.DefaultRoomID())
}

// boundedRead runs a status query under the interactive read budget. The chat
// gateway has its own acknowledgement deadline; a slow store degrades to a
// timeout answer rather than a hung view.
func (s *reservationService) boundedRead(ctx context.Context, from, to time.Time) ([]*model.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.StatusReadBudget)
	defer cancel()

	list, err := s.repo.FindByStartRange(ctx, from, to)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.cfg.Log.Warn("Status read exceeded budget", "from", from, "to", to, "budget", s.cfg.StatusReadBudget)
			return nil, apperrors.Timeout("The status view is taking too long to load. Please try again.")
		}
		s.cfg.Log.Error("Failed to read reservations", "from", from, "to", to, "error", err)
		return nil, apperrors.StoreFailure("Failed to load reservations. Please try again later.", err)
	}
	return list, nil
}

// ensureFree fails with a conflict error when the slot overlaps existing
// reservations, and fails closed when availability cannot be verified.
func (s *reservationService) ensureFree(ctx context.Context, roomName string, start, end time.Time, excludeID string) error {
	conflicts, err := s.detector.Check(ctx, roomName, start, end, excludeID)
	if err != nil {
		return apperrors.StoreFailure("Could not verify availability. Please try again later.", err)
	}
	if len(conflicts) == 0 {
		return nil
	}

	s.cfg.Log.Warn("Reservation rejected on conflict",
		"room_name", roomName,
		"start", start,
		"end", end,
		"conflicts", len(conflicts),
	)
	entries := s.detector.Describe(conflicts)
	return apperrors.Conflict("The requested time overlaps existing reservations.", map[string]any{
		"conflicts": entries,
		"rendered":  presenter.ConflictMessage(entries),
	})
}

func (s *reservationService) mapStoreError(err error, id string) error {
	switch {
	case errors.Is(err, reservationserrors.ErrInvalidID):
		return apperrors.InvalidInput(fmt.Sprintf("Invalid reservation ID: %s", id))
	case errors.Is(err, reservationserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Reservation", id)
	default:
		return apperrors.StoreFailure("Failed to reach the reservation store. Please try again later.", err)
	}
}

func lifecycleEvent(eventType string, res *model.Reservation) model.ReservationEvent {
	return model.ReservationEvent{
		Type:        eventType,
		RecordID:    res.ID,
		Title:       res.Title,
		RoomID:      res.RoomID,
		RoomName:    res.RoomName,
		StartTime:   res.StartTime,
		EndTime:     res.EndTime,
		TeamName:    res.TeamName,
		RequesterID: res.RequesterID,
		RecurringID: res.RecurringID,
		OccurredAt:  time.Now().UTC(),
	}
}
