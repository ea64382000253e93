package services

import (
	"testing"

	"github.com/lupine-games/werewolf/models"
)

func TestShouldReceiveEvent(t *testing.T) {
	aliveWolf := testPlayer(0, "Wolfram", models.Wolf)
	aliveCiv := testPlayer(1, "Alice", models.Civilian)
	deadCiv := testPlayer(2, "Bob", models.Civilian)
	deadCiv.Alive = false
	deadWolf := testPlayer(3, "Fang", models.Wolf)
	deadWolf.Alive = false
	moderator := testPlayer(4, "Maud", models.Moderator)

	cases := []struct {
		name      string
		player    *models.Player
		eventType models.EventType
		want      bool
	}{
		{"public reaches alive civilian", aliveCiv, models.EventPublic, true},
		{"public reaches alive wolf", aliveWolf, models.EventPublic, true},
		{"public skips dead player", deadCiv, models.EventPublic, false},
		{"public skips moderator", moderator, models.EventPublic, false},

		{"wolf private reaches alive wolf", aliveWolf, models.EventWolfPrivate, true},
		{"wolf private skips civilian", aliveCiv, models.EventWolfPrivate, false},
		{"wolf private skips dead wolf", deadWolf, models.EventWolfPrivate, false},
		{"wolf private skips moderator", moderator, models.EventWolfPrivate, false},

		{"elimination reaches dead player", deadCiv, models.EventElimination, true},
		{"elimination skips moderator", moderator, models.EventElimination, false},
		{"game state reaches dead player", deadWolf, models.EventGameState, true},
		{"day transition reaches dead player", deadCiv, models.EventDayTransition, true},
		{"day number reaches dead player", deadCiv, models.EventDayNumberChange, true},
		{"night kill reaches dead player", deadCiv, models.EventNightKill, true},
		{"night kill skips moderator", moderator, models.EventNightKill, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := shouldReceiveEvent(tc.player, tc.eventType); got != tc.want {
				t.Errorf("shouldReceiveEvent(%s, %s) = %v, want %v",
					tc.player.Name, tc.eventType, got, tc.want)
			}
		})
	}
}

func TestRewriteForSpeaker(t *testing.T) {
	cases := []struct {
		name    string
		event   string
		speaker string
		want    string
	}{
		{
			"speech becomes first person",
			"Alice said: I trust Bob", "Alice",
			"You said: I trust Bob",
		},
		{
			"vote becomes first person",
			"Alice voted for Bob", "Alice",
			"You voted for Bob",
		},
		{
			"generic event rewrites first occurrence only",
			"Alice was killed by wolves", "Alice",
			"You was killed by wolves",
		},
		{
			"mention inside a speech body is preserved",
			"Alice said: Alice is innocent", "Alice",
			"You said: Alice is innocent",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := rewriteForSpeaker(tc.event, tc.speaker); got != tc.want {
				t.Errorf("rewriteForSpeaker(%q, %q) = %q, want %q",
					tc.event, tc.speaker, got, tc.want)
			}
		})
	}
}

func TestDistributeEventVisibility(t *testing.T) {
	gs := sixPlayerState()
	gs.KillPlayer("Dave")
	agents, fakes := bindFakeAgents(gs)

	distributeEvent(gs, agents, "Wolfram said: let's take Alice", nil, models.EventWolfPrivate)
	distributeEvent(gs, agents, "Bob said: good morning", nil, models.EventPublic)
	distributeEvent(gs, agents, "Carol (Civilian) was eliminated by vote", nil, models.EventElimination)

	if !fakes["Wolfram"].sawEvent("take Alice") {
		t.Error("alive wolf missed the wolf-private event")
	}
	for _, name := range []string{"Alice", "Bob", "Carol", "Dave", "Maud"} {
		if fakes[name].sawEvent("take Alice") {
			t.Errorf("%s received a wolf-private event", name)
		}
	}

	if fakes["Dave"].sawEvent("good morning") {
		t.Error("dead player received a public event")
	}
	if fakes["Maud"].sawEvent("good morning") {
		t.Error("moderator received a public event")
	}
	if !fakes["Alice"].sawEvent("good morning") {
		t.Error("alive civilian missed a public event")
	}

	if !fakes["Dave"].sawEvent("eliminated by vote") {
		t.Error("dead player missed an elimination event")
	}
	if fakes["Maud"].sawEvent("eliminated by vote") {
		t.Error("moderator received an elimination event")
	}
}

func TestDistributeEventRewritesOnlySpeakerCopy(t *testing.T) {
	gs := sixPlayerState()
	agents, fakes := bindFakeAgents(gs)
	alice, _ := gs.PlayerByName("Alice")

	distributeEvent(gs, agents, "Alice said: I trust Bob", alice, models.EventPublic)

	if !fakes["Alice"].sawEvent("You said: I trust Bob") {
		t.Errorf("speaker's copy not rewritten: %v", fakes["Alice"].events)
	}
	if !fakes["Bob"].sawEvent("Alice said: I trust Bob") {
		t.Errorf("listener's copy mutated: %v", fakes["Bob"].events)
	}
}
