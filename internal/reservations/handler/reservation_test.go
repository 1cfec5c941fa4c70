package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	"roomly/internal/reservations/presenter"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/logger"
	"roomly/pkg/model"
)

// Mock service for testing
type mockReservationService struct {
	createFunc   func(ctx context.Context, form *model.ReservationForm, requesterID string) (*model.Confirmation, error)
	editFunc     func(ctx context.Context, recordID string, form *model.ReservationForm, requesterID string) (*model.Confirmation, error)
	cancelFunc   func(ctx context.Context, recordID string) error
	prefillFunc  func(ctx context.Context, recordID string) (*model.ModalPrefill, error)
	statusFunc   func(ctx context.Context, dateText string) (*presenter.StatusDigest, error)
	upcomingFunc func(ctx context.Context, days int) (*presenter.StatusDigest, error)
}

func (m *mockReservationService) Create(ctx context.Context, form *model.ReservationForm, requesterID string) (*model.Confirmation, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, form, requesterID)
	}
	return &model.Confirmation{}, nil
}

func (m *mockReservationService) Edit(ctx context.Context, recordID string, form *model.ReservationForm, requesterID string) (*model.Confirmation, error) {
	if m.editFunc != nil {
		return m.editFunc(ctx, recordID, form, requesterID)
	}
	return &model.Confirmation{}, nil
}

func (m *mockReservationService) Cancel(ctx context.Context, recordID string) error {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, recordID)
	}
	return nil
}

func (m *mockReservationService) Prefill(ctx context.Context, recordID string) (*model.ModalPrefill, error) {
	if m.prefillFunc != nil {
		return m.prefillFunc(ctx, recordID)
	}
	return &model.ModalPrefill{}, nil
}

func (m *mockReservationService) Status(ctx context.Context, dateText string) (*presenter.StatusDigest, error) {
	if m.statusFunc != nil {
		return m.statusFunc(ctx, dateText)
	}
	return &presenter.StatusDigest{}, nil
}

func (m *mockReservationService) Upcoming(ctx context.Context, days int) (*presenter.StatusDigest, error) {
	if m.upcomingFunc != nil {
		return m.upcomingFunc(ctx, days)
	}
	return &presenter.StatusDigest{}, nil
}

func (m *mockReservationService) FormDefaults() model.ReservationForm {
	return model.ReservationForm{RoomID: "room_1"}
}

func newTestRouter(svc *mockReservationService) *httprouter.Router {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	router := httprouter.New()
	NewReservationHandler(svc, log).RegisterRoutes(router)
	return router
}

func TestCreate_Success(t *testing.T) {
	var gotRequester string
	svc := &mockReservationService{
		createFunc: func(ctx context.Context, form *model.ReservationForm, requesterID string) (*model.Confirmation, error) {
			gotRequester = requesterID
			return &model.Confirmation{RecordID: "rec_42", Title: form.Title}, nil
		},
	}
	router := newTestRouter(svc)

	body := `{"title":"Weekly Sync","room_id":"room_1","date":"2026-03-10","start_time":"10:00","end_time":"11:00","team_id":"team_strategy","requester_id":"U123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotRequester != "U123" {
		t.Errorf("expected requester from body, got %q", gotRequester)
	}

	var resp struct {
		Data model.Confirmation `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.RecordID != "rec_42" {
		t.Errorf("expected record id in response, got %q", resp.Data.RecordID)
	}
}

func TestCreate_RequesterFallsBackToHeader(t *testing.T) {
	var gotRequester string
	svc := &mockReservationService{
		createFunc: func(ctx context.Context, form *model.ReservationForm, requesterID string) (*model.Confirmation, error) {
			gotRequester = requesterID
			return &model.Confirmation{}, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(`{"title":"Sync"}`))
	req.Header.Set(RequesterHeader, "U999")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if gotRequester != "U999" {
		t.Errorf("expected requester from header, got %q", gotRequester)
	}
}

func TestCreate_InvalidBody(t *testing.T) {
	router := newTestRouter(&mockReservationService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestCreate_ConflictSurfacesAs409(t *testing.T) {
	svc := &mockReservationService{
		createFunc: func(ctx context.Context, form *model.ReservationForm, requesterID string) (*model.Confirmation, error) {
			return nil, apperrors.Conflict("The requested time overlaps existing reservations.", map[string]any{
				"conflicts": []model.ConflictEntry{{Title: "Retro"}},
			})
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(`{"title":"Sync"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	var resp struct {
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, resp.Code)
	}
	if resp.Details["conflicts"] == nil {
		t.Errorf("expected the conflict set in the response details")
	}
}

func TestEdit_PassesRecordID(t *testing.T) {
	var gotID string
	svc := &mockReservationService{
		editFunc: func(ctx context.Context, recordID string, form *model.ReservationForm, requesterID string) (*model.Confirmation, error) {
			gotID = recordID
			return &model.Confirmation{RecordID: recordID}, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/reservations/id/rec_42", strings.NewReader(`{"title":"Sync"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != "rec_42" {
		t.Errorf("expected record id from path, got %q", gotID)
	}
}

func TestPrefill_PassesRecordID(t *testing.T) {
	var gotID string
	svc := &mockReservationService{
		prefillFunc: func(ctx context.Context, recordID string) (*model.ModalPrefill, error) {
			gotID = recordID
			return &model.ModalPrefill{RecordID: recordID}, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/id/rec_42/prefill", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != "rec_42" {
		t.Errorf("expected record id from path, got %q", gotID)
	}
}

func TestCancel(t *testing.T) {
	var gotID string
	svc := &mockReservationService{
		cancelFunc: func(ctx context.Context, recordID string) error {
			gotID = recordID
			return nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/reservations/id/rec_42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if gotID != "rec_42" {
		t.Errorf("expected record id from path, got %q", gotID)
	}
}

func TestCancel_NotFound(t *testing.T) {
	svc := &mockReservationService{
		cancelFunc: func(ctx context.Context, recordID string) error {
			return apperrors.NotFoundWithID("Reservation", recordID)
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/reservations/id/rec_missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestStatus_PassesDateParam(t *testing.T) {
	var gotDate string
	svc := &mockReservationService{
		statusFunc: func(ctx context.Context, dateText string) (*presenter.StatusDigest, error) {
			gotDate = dateText
			return &presenter.StatusDigest{Label: "tomorrow"}, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations?date=tomorrow", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotDate != "tomorrow" {
		t.Errorf("expected date param passed through, got %q", gotDate)
	}
}

func TestUpcoming_InvalidDays(t *testing.T) {
	router := newTestRouter(&mockReservationService{})

	for _, days := range []string{"zero", "-1", "0"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/upcoming?days="+days, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("days=%s: expected 400, got %d", days, rec.Code)
		}
	}
}

func TestUpcoming_DefaultDays(t *testing.T) {
	var gotDays int
	svc := &mockReservationService{
		upcomingFunc: func(ctx context.Context, days int) (*presenter.StatusDigest, error) {
			gotDays = days
			return &presenter.StatusDigest{}, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/upcoming", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotDays != 0 {
		t.Errorf("expected the default signal 0 passed to the service, got %d", gotDays)
	}
}

func TestFormDefaults(t *testing.T) {
	router := newTestRouter(&mockReservationService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/defaults", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data model.ReservationForm `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.RoomID != "room_1" {
		t.Errorf("expected the default room seeded, got %q", resp.Data.RoomID)
	}
}
