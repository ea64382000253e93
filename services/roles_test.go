package services

import (
	"errors"
	"testing"

	"github.com/lupine-games/werewolf/models"
)

func TestRoleDistribution(t *testing.T) {
	for n := MinPlayers; n <= MaxPlayers; n++ {
		gs, err := NewGameState(n)
		if err != nil {
			t.Fatalf("NewGameState(%d): %v", n, err)
		}

		var wolves, civilians, moderators int
		names := make(map[string]bool)
		for _, p := range gs.Players() {
			if !p.Alive {
				t.Errorf("n=%d: player %s created dead", n, p.Name)
			}
			if names[p.Name] {
				t.Errorf("n=%d: duplicate player name %q", n, p.Name)
			}
			names[p.Name] = true

			switch p.Role {
			case models.Wolf:
				wolves++
			case models.Civilian:
				civilians++
			case models.Moderator:
				moderators++
			}
		}

		wantWolves := n / 5
		if wantWolves < 1 {
			wantWolves = 1
		}
		if wolves != wantWolves {
			t.Errorf("n=%d: got %d wolves, want %d", n, wolves, wantWolves)
		}
		if moderators != 1 {
			t.Errorf("n=%d: got %d moderators, want exactly 1", n, moderators)
		}
		if civilians != n-wantWolves-1 {
			t.Errorf("n=%d: got %d civilians, want %d", n, civilians, n-wantWolves-1)
		}
	}
}

func TestNewGameStateRejectsInvalidCounts(t *testing.T) {
	for _, n := range []int{0, 5, 16, 100} {
		if _, err := NewGameState(n); !errors.Is(err, ErrInvalidPlayerCount) {
			t.Errorf("NewGameState(%d): got err %v, want ErrInvalidPlayerCount", n, err)
		}
	}
}

func TestInitialGameState(t *testing.T) {
	gs, err := NewGameState(8)
	if err != nil {
		t.Fatal(err)
	}

	if gs.Phase != models.PhaseDay {
		t.Errorf("initial phase = %s, want day", gs.Phase)
	}
	if gs.DayCount != 1 {
		t.Errorf("initial day count = %d, want 1", gs.DayCount)
	}
	if gs.VotingEnabled {
		t.Error("voting must be disabled on day 1")
	}

	// The speaker queue holds every non-moderator exactly once.
	var speakers int
	for gs.NextSpeaker() != nil {
		speakers++
	}
	if speakers != 7 {
		t.Errorf("speaker queue had %d entries, want 7", speakers)
	}
}

func TestGenerateNameAvoidsCollisions(t *testing.T) {
	taken := make(map[string]bool)
	for i := 0; i < 50; i++ {
		name := generateName(taken)
		if taken[name] {
			t.Fatalf("generateName returned taken name %q", name)
		}
		taken[name] = true
	}
}
