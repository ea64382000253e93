package services

import (
	"strings"

	"github.com/lupine-games/werewolf/models"
)

// testPlayer builds a living player for state fixtures.
func testPlayer(id int, name string, role models.Role) *models.Player {
	return &models.Player{ID: id, Name: name, Role: role, Alive: true}
}

// newTestState builds a GameState with a fixed roster, bypassing random role
// assignment so tests control who is what.
func newTestState(players ...*models.Player) *GameState {
	gs := &GameState{
		Phase:    models.PhaseDay,
		DayCount: 1,
		byName:   make(map[string]*models.Player, len(players)),
	}
	for _, p := range players {
		gs.players = append(gs.players, p)
		gs.byName[p.Name] = p
	}
	gs.RebuildSpeakerQueue()
	return gs
}

// fakeAgent is a scriptable agent that records every event it receives.
// Unset behaviors default to rule-agent semantics: fixed speech, first
// eligible target.
type fakeAgent struct {
	events []string

	speakFn func(publicState, context string) (string, error)
	voteFn  func(publicState, context string, eligible []string) (string, error)
	nightFn func(publicState, context string, eligible []string) (string, error)
}

func (a *fakeAgent) Start(publicState string) error { return nil }

func (a *fakeAgent) AddEvent(event string) {
	a.events = append(a.events, event)
}

func (a *fakeAgent) Speak(publicState, context string) (string, error) {
	if a.speakFn != nil {
		return a.speakFn(publicState, context)
	}
	return "Nothing to report.", nil
}

func (a *fakeAgent) Vote(publicState, context string, eligible []string) (string, error) {
	if a.voteFn != nil {
		return a.voteFn(publicState, context, eligible)
	}
	if len(eligible) == 0 {
		return "", nil
	}
	return eligible[0], nil
}

func (a *fakeAgent) ChooseNightTarget(publicState, context string, eligible []string) (string, error) {
	if a.nightFn != nil {
		return a.nightFn(publicState, context, eligible)
	}
	if len(eligible) == 0 {
		return "", nil
	}
	return eligible[0], nil
}

func (a *fakeAgent) AnnounceDayStart(dayCount int, publicState, recentEvents string) (string, error) {
	return "A new day begins.", nil
}

func (a *fakeAgent) AnnounceNightStart(publicState string, wolves []string) (string, error) {
	return "Night falls.", nil
}

func (a *fakeAgent) AnnounceVoteResults(voteCounts map[string]int, eliminated string) (string, error) {
	return "Votes are in.", nil
}

func (a *fakeAgent) AnnounceGameOver(winner, publicState string) (string, error) {
	return "Game over: " + winner, nil
}

// sawEvent reports whether the agent received an event containing substr.
func (a *fakeAgent) sawEvent(substr string) bool {
	for _, e := range a.events {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

// bindFakeAgents attaches a fakeAgent to every roster player and returns both
// the Agent map and the fakes for inspection.
func bindFakeAgents(gs *GameState) (map[string]Agent, map[string]*fakeAgent) {
	agents := make(map[string]Agent)
	fakes := make(map[string]*fakeAgent)
	for _, p := range gs.Players() {
		fake := &fakeAgent{}
		agents[p.Name] = fake
		fakes[p.Name] = fake
	}
	return agents, fakes
}

// sinkEntry is one recorded notification.
type sinkEntry struct {
	message   string
	eventType models.OutputEventType
	player    string
}

// recordSink captures notifications for assertions. The engine is
// single-threaded per game, so no locking is needed.
type recordSink struct {
	entries []sinkEntry
}

func (s *recordSink) Notify(message string, eventType models.OutputEventType, player *models.Player, metadata map[string]interface{}) {
	entry := sinkEntry{message: message, eventType: eventType}
	if player != nil {
		entry.player = player.Name
	}
	s.entries = append(s.entries, entry)
}

// sawType reports whether any notification of the given type was recorded.
func (s *recordSink) sawType(eventType models.OutputEventType) bool {
	for _, e := range s.entries {
		if e.eventType == eventType {
			return true
		}
	}
	return false
}

// messagesOfType returns all recorded messages with the given type.
func (s *recordSink) messagesOfType(eventType models.OutputEventType) []string {
	msgs := make([]string, 0)
	for _, e := range s.entries {
		if e.eventType == eventType {
			msgs = append(msgs, e.message)
		}
	}
	return msgs
}
