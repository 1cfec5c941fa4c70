package config

import (
	"fmt"
	"strings"
)

// Room is one entry of the fixed room registry.
type Room struct {
	ID      string
	Name    string
	Default bool
}

// RoomRegistry is the read-only lookup table of bookable rooms. Exactly one
// room is marked as the default used when a form omits the room selection.
type RoomRegistry struct {
	rooms map[string]Room
	order []string
}

// ParseRoomSpec builds a registry from a spec string of the form
//
//	room_1:Seminar Room:default,room_2:Workshop Room
//
// Each entry is id:name with an optional trailing :default marker.
func ParseRoomSpec(spec string) (*RoomRegistry, error) {
	reg := &RoomRegistry{rooms: make(map[string]Room)}

	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("invalid room entry %q: expected id:name[:default]", entry)
		}
		room := Room{
			ID:   strings.TrimSpace(parts[0]),
			Name: strings.TrimSpace(parts[1]),
		}
		if room.ID == "" || room.Name == "" {
			return nil, fmt.Errorf("invalid room entry %q: empty id or name", entry)
		}
		if len(parts) == 3 {
			if strings.TrimSpace(parts[2]) != "default" {
				return nil, fmt.Errorf("invalid room entry %q: unknown marker %q", entry, parts[2])
			}
			room.Default = true
		}
		if _, exists := reg.rooms[room.ID]; exists {
			return nil, fmt.Errorf("duplicate room id %q", room.ID)
		}
		reg.rooms[room.ID] = room
		reg.order = append(reg.order, room.ID)
	}

	if len(reg.rooms) == 0 {
		return nil, fmt.Errorf("room registry is empty")
	}

	defaults := 0
	for _, r := range reg.rooms {
		if r.Default {
			defaults++
		}
	}
	if defaults != 1 {
		return nil, fmt.Errorf("room registry must mark exactly one default room, got %d", defaults)
	}

	return reg, nil
}

// Resolve returns the room for id.
func (r *RoomRegistry) Resolve(id string) (Room, bool) {
	room, ok := r.rooms[id]
	return room, ok
}

// ByName returns the room whose display name matches exactly. Used when
// re-deriving a room id from a stored record.
func (r *RoomRegistry) ByName(name string) (Room, bool) {
	for _, id := range r.order {
		if r.rooms[id].Name == name {
			return r.rooms[id], true
		}
	}
	return Room{}, false
}

// DefaultRoomID returns the id of the room marked as default.
func (r *RoomRegistry) DefaultRoomID() string {
	for _, id := range r.order {
		if r.rooms[id].Default {
			return id
		}
	}
	return ""
}

// IDs returns room ids in registry order.
func (r *RoomRegistry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// TeamRegistry is the read-only lookup table of team id to display name.
type TeamRegistry struct {
	teams map[string]string
	order []string
}

// ParseTeamSpec builds a registry from a spec string of the form
//
//	team_strategy:Strategy,team_ops:Operations
func ParseTeamSpec(spec string) (*TeamRegistry, error) {
	reg := &TeamRegistry{teams: make(map[string]string)}

	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		id, name, found := strings.Cut(entry, ":")
		id = strings.TrimSpace(id)
		name = strings.TrimSpace(name)
		if !found || id == "" || name == "" {
			return nil, fmt.Errorf("invalid team entry %q: expected id:name", entry)
		}
		if _, exists := reg.teams[id]; exists {
			return nil, fmt.Errorf("duplicate team id %q", id)
		}
		reg.teams[id] = name
		reg.order = append(reg.order, id)
	}

	if len(reg.teams) == 0 {
		return nil, fmt.Errorf("team registry is empty")
	}
	return reg, nil
}

// Resolve returns the display name for id.
func (t *TeamRegistry) Resolve(id string) (string, bool) {
	name, ok := t.teams[id]
	return name, ok
}

// ByName returns the team id whose display name matches exactly.
func (t *TeamRegistry) ByName(name string) (string, bool) {
	for _, id := range t.order {
		if t.teams[id] == name {
			return id, true
		}
	}
	return "", false
}

// IDs returns team ids in registry order.
func (t *TeamRegistry) IDs() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}
