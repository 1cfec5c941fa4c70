package repository

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestOverlapFilter(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Seoul")
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, loc)
	end := start.Add(time.Hour)

	filter := overlapFilter("Seminar Room", start, end)

	if got := filter["room_name"]; got != "Seminar Room" {
		t.Errorf("expected room_name filter, got %v", got)
	}
	if got := filter["archived"]; got != false {
		t.Errorf("expected archived=false filter, got %v", got)
	}

	// Strict bounds: a reservation starting exactly at `end` or ending
	// exactly at `start` must not match.
	startClause, ok := filter["start_time"].(bson.M)
	if !ok {
		t.Fatalf("expected a start_time clause, got %T", filter["start_time"])
	}
	if got := startClause["$lt"]; got != end {
		t.Errorf("expected start_time $lt end, got %v", startClause)
	}
	if _, has := startClause["$lte"]; has {
		t.Errorf("start_time bound must be strict")
	}

	endClause, ok := filter["end_time"].(bson.M)
	if !ok {
		t.Fatalf("expected an end_time clause, got %T", filter["end_time"])
	}
	if got := endClause["$gt"]; got != start {
		t.Errorf("expected end_time $gt start, got %v", endClause)
	}
	if _, has := endClause["$gte"]; has {
		t.Errorf("end_time bound must be strict")
	}
}
