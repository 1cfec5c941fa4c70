// Package presenter renders reservations into the shapes the chat gateway
// displays: status digests, conflict messages, confirmations, and modal
// prefills. Everything here is a pure projection of stored state.
package presenter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"roomly/pkg/config"
	"roomly/pkg/model"
	"roomly/pkg/timeutil"
)

// DigestEntry is one reservation line within a room group.
type DigestEntry struct {
	RecordID  string `json:"record_id"`
	Date      string `json:"date"`
	TimeRange string `json:"time_range"`
	Title     string `json:"title"`
	TeamName  string `json:"team_name"`
}

// RoomDigest groups a day's entries under one room.
type RoomDigest struct {
	RoomName string        `json:"room_name"`
	Entries  []DigestEntry `json:"entries"`
}

// StatusDigest is the full status view for a date or range.
type StatusDigest struct {
	Label   string       `json:"label"`
	Empty   bool         `json:"empty"`
	Message string       `json:"message,omitempty"`
	Rooms   []RoomDigest `json:"rooms,omitempty"`
}

// BuildStatus groups reservations by room, keeping rooms in registry order
// and entries in start-time order within each room.
func BuildStatus(reservations []*model.Reservation, label string, rooms *config.RoomRegistry, loc *time.Location) *StatusDigest {
	if len(reservations) == 0 {
		return &StatusDigest{
			Label:   label,
			Empty:   true,
			Message: fmt.Sprintf("No reservations scheduled for %s.", label),
		}
	}

	byRoom := make(map[string][]*model.Reservation)
	for _, res := range reservations {
		byRoom[res.RoomName] = append(byRoom[res.RoomName], res)
	}

	digest := &StatusDigest{Label: label}
	seen := make(map[string]bool)

	appendRoom := func(name string) {
		group, ok := byRoom[name]
		if !ok || seen[name] {
			return
		}
		seen[name] = true
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].StartTime.Before(group[j].StartTime)
		})
		rd := RoomDigest{RoomName: name}
		for _, res := range group {
			rd.Entries = append(rd.Entries, DigestEntry{
				RecordID:  res.ID,
				Date:      res.StartTime.In(loc).Format(timeutil.DateLayout),
				TimeRange: TimeRange(res.StartTime, res.EndTime, loc),
				Title:     res.Title,
				TeamName:  res.TeamName,
			})
		}
		digest.Rooms = append(digest.Rooms, rd)
	}

	for _, id := range rooms.IDs() {
		if room, ok := rooms.Resolve(id); ok {
			appendRoom(room.Name)
		}
	}
	// Rooms no longer in the registry still show up; stored history wins
	// over configuration drift.
	leftover := make([]string, 0)
	for name := range byRoom {
		if !seen[name] {
			leftover = append(leftover, name)
		}
	}
	sort.Strings(leftover)
	for _, name := range leftover {
		appendRoom(name)
	}

	return digest
}

// ConflictMessage renders a conflict set grouped by date, one line per
// conflicting reservation.
func ConflictMessage(entries []model.ConflictEntry) string {
	if len(entries) == 0 {
		return ""
	}

	byDate := make(map[string][]model.ConflictEntry)
	dates := make([]string, 0)
	for _, e := range entries {
		if _, ok := byDate[e.StartDate]; !ok {
			dates = append(dates, e.StartDate)
		}
		byDate[e.StartDate] = append(byDate[e.StartDate], e)
	}
	sort.Strings(dates)

	var b strings.Builder
	b.WriteString("The requested time overlaps existing reservations:")
	for _, date := range dates {
		fmt.Fprintf(&b, "\n%s", date)
		for _, e := range byDate[date] {
			fmt.Fprintf(&b, "\n  %s ~ %s [%s] %s", e.StartTime, e.EndTime, e.TeamName, e.Title)
		}
	}
	return b.String()
}

// TimeRange formats an interval as "HH:MM ~ HH:MM" in loc.
func TimeRange(start, end time.Time, loc *time.Location) string {
	return fmt.Sprintf("%s ~ %s",
		start.In(loc).Format(timeutil.ClockLayout),
		end.In(loc).Format(timeutil.ClockLayout))
}

// Confirmation builds the response artifact for a committed create or edit.
func Confirmation(res *model.Reservation, loc *time.Location) *model.Confirmation {
	return &model.Confirmation{
		RecordID:    res.ID,
		Title:       res.Title,
		RoomName:    res.RoomName,
		Date:        res.StartTime.In(loc).Format(timeutil.DateLayout),
		TimeRange:   TimeRange(res.StartTime, res.EndTime, loc),
		TeamName:    res.TeamName,
		RecurringID: res.RecurringID,
	}
}

// Prefill seeds an edit modal from a stored record. The civil strings must
// round-trip: rendering and resubmitting unchanged yields the same instants.
func Prefill(res *model.Reservation, rooms *config.RoomRegistry, teams *config.TeamRegistry, loc *time.Location) *model.ModalPrefill {
	prefill := &model.ModalPrefill{
		Title:     res.Title,
		RoomID:    res.RoomID,
		Date:      res.StartTime.In(loc).Format(timeutil.DateLayout),
		StartTime: res.StartTime.In(loc).Format(timeutil.ClockLayout),
		EndTime:   res.EndTime.In(loc).Format(timeutil.ClockLayout),
		TeamID:    res.TeamID,
		RecordID:  res.ID,
	}

	// Older records may predate id columns; fall back to name lookups.
	if prefill.RoomID == "" {
		if room, ok := rooms.ByName(res.RoomName); ok {
			prefill.RoomID = room.ID
		}
	}
	if prefill.TeamID == "" {
		if id, ok := teams.ByName(res.TeamName); ok {
			prefill.TeamID = id
		}
	}
	return prefill
}

// FormDefaults seeds a create modal: today's date, the next 10-minute slot,
// and a one-hour duration.
func FormDefaults(now time.Time, loc *time.Location, defaultRoomID string) model.ReservationForm {
	start := timeutil.NextSlot(now.In(loc), 10*time.Minute)
	end := start.Add(time.Hour)
	return model.ReservationForm{
		RoomID:    defaultRoomID,
		Date:      start.Format(timeutil.DateLayout),
		StartTime: start.Format(timeutil.ClockLayout),
		EndTime:   end.Format(timeutil.ClockLayout),
	}
}
