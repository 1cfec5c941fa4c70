package config

import (
	"testing"
)

func TestParseRoomSpec(t *testing.T) {
	reg, err := ParseRoomSpec("room_1:Seminar Room:default,room_2:Workshop Room")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	room, ok := reg.Resolve("room_1")
	if !ok {
		t.Fatalf("expected room_1 to resolve")
	}
	if room.Name != "Seminar Room" {
		t.Errorf("expected name 'Seminar Room', got %q", room.Name)
	}
	if !room.Default {
		t.Errorf("expected room_1 to be the default")
	}

	if got := reg.DefaultRoomID(); got != "room_1" {
		t.Errorf("expected default room_1, got %q", got)
	}

	ids := reg.IDs()
	if len(ids) != 2 || ids[0] != "room_1" || ids[1] != "room_2" {
		t.Errorf("expected ids in declaration order, got %v", ids)
	}
}

func TestParseRoomSpec_ByName(t *testing.T) {
	reg, err := ParseRoomSpec("room_1:Seminar Room:default,room_2:Workshop Room")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	room, ok := reg.ByName("Workshop Room")
	if !ok || room.ID != "room_2" {
		t.Errorf("expected Workshop Room to resolve to room_2, got %v ok=%v", room, ok)
	}

	if _, ok := reg.ByName("Boardroom"); ok {
		t.Errorf("expected unknown name to not resolve")
	}
}

func TestParseRoomSpec_Invalid(t *testing.T) {
	cases := []struct {
		name string
		spec string
	}{
		{"empty spec", ""},
		{"no default", "room_1:Seminar Room,room_2:Workshop Room"},
		{"two defaults", "room_1:A:default,room_2:B:default"},
		{"missing name", "room_1"},
		{"unknown marker", "room_1:Seminar Room:primary"},
		{"duplicate id", "room_1:A:default,room_1:B"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseRoomSpec(tc.spec); err == nil {
				t.Errorf("expected error for spec %q", tc.spec)
			}
		})
	}
}

func TestParseTeamSpec(t *testing.T) {
	reg, err := ParseTeamSpec("team_strategy:Strategy,team_ops:Operations")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	name, ok := reg.Resolve("team_ops")
	if !ok || name != "Operations" {
		t.Errorf("expected team_ops to resolve to Operations, got %q ok=%v", name, ok)
	}

	id, ok := reg.ByName("Strategy")
	if !ok || id != "team_strategy" {
		t.Errorf("expected Strategy to resolve to team_strategy, got %q ok=%v", id, ok)
	}

	if _, ok := reg.Resolve("team_unknown"); ok {
		t.Errorf("expected unknown team to not resolve")
	}
}

func TestParseTeamSpec_Invalid(t *testing.T) {
	for _, spec := range []string{"", "team_only", "team_a:A,team_a:B", ":Name"} {
		if _, err := ParseTeamSpec(spec); err == nil {
			t.Errorf("expected error for spec %q", spec)
		}
	}
}
