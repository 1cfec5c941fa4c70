// Package conflict decides whether a requested time slot collides with
// existing reservations. The store query does the heavy lifting; this package
// owns the overlap semantics and the display projection of a conflict set.
package conflict

import (
	"context"
	"time"

	"roomly/pkg/logger"
	"roomly/pkg/model"
	"roomly/pkg/timeutil"
)

// Store is the slice of the repository the detector needs.
type Store interface {
	FindOverlapping(ctx context.Context, roomName string, start, end time.Time) ([]*model.Reservation, error)
}

type Detector struct {
	store Store
	loc   *time.Location
	log   *logger.Logger
}

func NewDetector(store Store, loc *time.Location, log *logger.Logger) *Detector {
	return &Detector{
		store: store,
		loc:   loc,
		log:   log,
	}
}

// Overlaps reports whether [s1, e1) and [s2, e2) intersect. Intervals are
// half-open, so a reservation ending exactly when another starts is not a
// conflict.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && e1.After(s2)
}

// Check returns the active reservations in roomName that overlap
// [start, end), ordered by start time. excludeID names a record to ignore,
// so an edit never conflicts with itself. A store error fails the check
// closed: the caller must not book on an unverifiable slot.
func (d *Detector) Check(ctx context.Context, roomName string, start, end time.Time, excludeID string) ([]*model.Reservation, error) {
	found, err := d.store.FindOverlapping(ctx, roomName, start, end)
	if err != nil {
		d.log.Error("Conflict check failed",
			"room_name", roomName,
			"start", start,
			"end", end,
			"error", err,
		)
		return nil, err
	}

	if excludeID == "" {
		return found, nil
	}

	conflicts := make([]*model.Reservation, 0, len(found))
	for _, res := range found {
		if res.ID == excludeID {
			continue
		}
		conflicts = append(conflicts, res)
	}
	return conflicts, nil
}

// Describe projects a conflict set into display entries. A record with
// missing fields degrades to placeholder text rather than being dropped; a
// conflict the user cannot read is still a conflict.
func (d *Detector) Describe(conflicts []*model.Reservation) []model.ConflictEntry {
	entries := make([]model.ConflictEntry, 0, len(conflicts))
	for _, res := range conflicts {
		entries = append(entries, d.describeOne(res))
	}
	return entries
}

func (d *Detector) describeOne(res *model.Reservation) model.ConflictEntry {
	entry := model.ConflictEntry{
		Title:     res.Title,
		TeamName:  res.TeamName,
		StartTime: "(unknown)",
		EndTime:   "(unknown)",
		StartDate: "(unknown)",
	}
	if entry.Title == "" {
		entry.Title = "(no title)"
	}
	if entry.TeamName == "" {
		entry.TeamName = "(unknown team)"
	}
	if !res.StartTime.IsZero() {
		local := res.StartTime.In(d.loc)
		entry.StartTime = local.Format(timeutil.ClockLayout)
		entry.StartDate = local.Format(timeutil.DateLayout)
	}
	if !res.EndTime.IsZero() {
		entry.EndTime = res.EndTime.In(d.loc).Format(timeutil.ClockLayout)
	}
	return entry
}
