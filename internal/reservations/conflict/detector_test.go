package conflict

import (
	"context"
	"errors"
	"testing"
	"time"

	"roomly/pkg/logger"
	"roomly/pkg/model"
)

type mockStore struct {
	findOverlappingFunc func(ctx context.Context, roomName string, start, end time.Time) ([]*model.Reservation, error)
}

func (m *mockStore) FindOverlapping(ctx context.Context, roomName string, start, end time.Time) ([]*model.Reservation, error) {
	if m.findOverlappingFunc != nil {
		return m.findOverlappingFunc(ctx, roomName, start, end)
	}
	return []*model.Reservation{}, nil
}

func testDetector(store Store) *Detector {
	loc, _ := time.LoadLocation("Asia/Seoul")
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	return NewDetector(store, loc, log)
}

func TestOverlaps(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Seoul")
	at := func(hour, min int) time.Time {
		return time.Date(2026, 3, 10, hour, min, 0, 0, loc)
	}

	cases := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"identical intervals", at(10, 0), at(11, 0), at(10, 0), at(11, 0), true},
		{"partial overlap at end", at(10, 0), at(11, 0), at(10, 30), at(11, 30), true},
		{"partial overlap at start", at(10, 30), at(11, 30), at(10, 0), at(11, 0), true},
		{"containment", at(10, 0), at(12, 0), at(10, 30), at(11, 0), true},
		{"back to back before", at(9, 0), at(10, 0), at(10, 0), at(11, 0), false},
		{"back to back after", at(11, 0), at(12, 0), at(10, 0), at(11, 0), false},
		{"disjoint", at(8, 0), at(9, 0), at(10, 0), at(11, 0), false},
		{"one minute overlap", at(10, 59), at(11, 30), at(10, 0), at(11, 0), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.s1, tc.e1, tc.s2, tc.e2); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestCheck_ExcludesOwnRecord(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Seoul")
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, loc)
	end := start.Add(time.Hour)

	store := &mockStore{
		findOverlappingFunc: func(ctx context.Context, roomName string, s, e time.Time) ([]*model.Reservation, error) {
			return []*model.Reservation{
				{ID: "self", Title: "Being edited", StartTime: start, EndTime: end},
				{ID: "other", Title: "Someone else", StartTime: start, EndTime: end},
			}, nil
		},
	}

	conflicts, err := testDetector(store).Check(context.Background(), "Seminar Room", start, end, "self")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict after excluding self, got %d", len(conflicts))
	}
	if conflicts[0].ID != "other" {
		t.Errorf("expected the other record to remain, got %s", conflicts[0].ID)
	}
}

func TestCheck_NoExclusionOnCreate(t *testing.T) {
	store := &mockStore{
		findOverlappingFunc: func(ctx context.Context, roomName string, s, e time.Time) ([]*model.Reservation, error) {
			return []*model.Reservation{{ID: "a"}, {ID: "b"}}, nil
		},
	}

	conflicts, err := testDetector(store).Check(context.Background(), "Seminar Room", time.Now(), time.Now().Add(time.Hour), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conflicts) != 2 {
		t.Errorf("expected 2 conflicts, got %d", len(conflicts))
	}
}

func TestCheck_StoreErrorFailsClosed(t *testing.T) {
	store := &mockStore{
		findOverlappingFunc: func(ctx context.Context, roomName string, s, e time.Time) ([]*model.Reservation, error) {
			return nil, errors.New("connection reset")
		},
	}

	if _, err := testDetector(store).Check(context.Background(), "Seminar Room", time.Now(), time.Now().Add(time.Hour), ""); err == nil {
		t.Errorf("expected the store error to propagate")
	}
}

func TestDescribe(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Seoul")
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, loc)

	entries := testDetector(&mockStore{}).Describe([]*model.Reservation{
		{
			Title:     "Weekly Sync",
			TeamName:  "Strategy",
			StartTime: start,
			EndTime:   start.Add(time.Hour),
		},
	})

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Title != "Weekly Sync" || e.TeamName != "Strategy" {
		t.Errorf("unexpected entry fields: %+v", e)
	}
	if e.StartTime != "14:00" || e.EndTime != "15:00" {
		t.Errorf("expected 14:00~15:00, got %s~%s", e.StartTime, e.EndTime)
	}
	if e.StartDate != "2026-03-10" {
		t.Errorf("expected 2026-03-10, got %s", e.StartDate)
	}
}

func TestDescribe_DegradesMissingFields(t *testing.T) {
	entries := testDetector(&mockStore{}).Describe([]*model.Reservation{{}})

	if len(entries) != 1 {
		t.Fatalf("expected the unreadable conflict to be kept, got %d entries", len(entries))
	}
	e := entries[0]
	if e.Title != "(no title)" {
		t.Errorf("expected placeholder title, got %q", e.Title)
	}
	if e.TeamName != "(unknown team)" {
		t.Errorf("expected placeholder team, got %q", e.TeamName)
	}
	if e.StartTime != "(unknown)" || e.EndTime != "(unknown)" || e.StartDate != "(unknown)" {
		t.Errorf("expected placeholder times, got %+v", e)
	}
}
