package services

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/lupine-games/werewolf/models"
)

// GameState holds the full mutable state of one running game. It is owned by
// exactly one Game instance; callers embedding the engine in a concurrent
// server must serialize access per game (see GameManager).
type GameState struct {
	players []*models.Player // insertion order = creation order
	byName  map[string]*models.Player

	Phase           models.Phase
	DayCount        int
	History         []string
	NightKillTarget string
	VotingEnabled   bool

	speakerQueue []*models.Player
}

// Players returns the full roster in creation order, dead players included.
func (gs *GameState) Players() []*models.Player {
	return gs.players
}

// PlayerByName looks up a player by display name.
func (gs *GameState) PlayerByName(name string) (*models.Player, bool) {
	p, ok := gs.byName[name]
	return p, ok
}

// AlivePlayers returns all living players, moderator included.
func (gs *GameState) AlivePlayers() []*models.Player {
	alive := make([]*models.Player, 0, len(gs.players))
	for _, p := range gs.players {
		if p.Alive {
			alive = append(alive, p)
		}
	}
	return alive
}

// AliveWolves returns all living wolves in roster order.
func (gs *GameState) AliveWolves() []*models.Player {
	wolves := make([]*models.Player, 0)
	for _, p := range gs.players {
		if p.Alive && p.IsWolf() {
			wolves = append(wolves, p)
		}
	}
	return wolves
}

// AliveCivilians returns all living civilians in roster order.
func (gs *GameState) AliveCivilians() []*models.Player {
	civilians := make([]*models.Player, 0)
	for _, p := range gs.players {
		if p.Alive && p.IsCivilian() {
			civilians = append(civilians, p)
		}
	}
	return civilians
}

// ModeratorPlayer returns the single moderator seat.
func (gs *GameState) ModeratorPlayer() *models.Player {
	for _, p := range gs.players {
		if p.IsModerator() {
			return p
		}
	}
	return nil
}

// RebuildSpeakerQueue recomputes the speaker queue from the living
// non-moderator players. The queue is a derived view; it is rebuilt at the
// start of each day and immediately after any kill so it never diverges from
// who is actually alive.
func (gs *GameState) RebuildSpeakerQueue() {
	queue := make([]*models.Player, 0, len(gs.players))
	for _, p := range gs.players {
		if p.Alive && !p.IsModerator() {
			queue = append(queue, p)
		}
	}
	gs.speakerQueue = queue
}

// NextSpeaker pops the next player who still owes a speech this day, or nil
// when the queue is exhausted. A consumed entry is never re-added within the
// same day.
func (gs *GameState) NextSpeaker() *models.Player {
	if len(gs.speakerQueue) == 0 {
		return nil
	}
	speaker := gs.speakerQueue[0]
	gs.speakerQueue = gs.speakerQueue[1:]
	return speaker
}

// KillPlayer marks the named player dead and rebuilds the speaker queue so a
// mid-round elimination does not leave a stale entry. Unknown names are a
// silent no-op; callers validate targets first.
func (gs *GameState) KillPlayer(name string) {
	p, ok := gs.byName[name]
	if !ok {
		return
	}
	p.Alive = false
	gs.RebuildSpeakerQueue()
}

// RecordVote records one vote. It is a no-op unless both voter and target are
// alive. Re-voting is idempotent: a voter's prior vote this round is undone
// before the new one is applied.
func (gs *GameState) RecordVote(voterName, targetName string) {
	voter, ok := gs.byName[voterName]
	if !ok || !voter.Alive {
		return
	}
	target, ok := gs.byName[targetName]
	if !ok || !target.Alive {
		return
	}

	if voter.VoteTarget != "" {
		if prior, ok := gs.byName[voter.VoteTarget]; ok {
			prior.VotesReceived--
		}
	}
	voter.VoteTarget = targetName
	target.VotesReceived++
}

// TallyVotes counts votes over the living non-moderator players and returns
// the eliminated player's name along with the per-player counts. An empty
// roster or an all-zero tally eliminates nobody. A tie at the maximum is
// broken uniformly at random among the tied players.
func (gs *GameState) TallyVotes() (string, map[string]int) {
	counts := make(map[string]int)
	for _, p := range gs.players {
		if p.Alive && !p.IsModerator() {
			counts[p.Name] = p.VotesReceived
		}
	}
	if len(counts) == 0 {
		return "", counts
	}

	maxVotes := 0
	for _, c := range counts {
		if c > maxVotes {
			maxVotes = c
		}
	}
	if maxVotes == 0 {
		return "", counts
	}

	// Collect tied leaders in roster order so the random pick is reproducible
	// under a fixed seed.
	tied := make([]string, 0, 1)
	for _, p := range gs.players {
		if c, ok := counts[p.Name]; ok && c == maxVotes {
			tied = append(tied, p.Name)
		}
	}
	return tied[rand.Intn(len(tied))], counts
}

// ResetVotes zeroes every player's tally and vote target. Called once per
// voting round, after any elimination has been applied.
func (gs *GameState) ResetVotes() {
	for _, p := range gs.players {
		p.ResetVote()
	}
}

// CheckGameOver evaluates the win conditions. Civilians win once no wolf is
// alive; wolves win once they equal or outnumber the civilians. Equality is a
// Wolves win, and the wolf-wipe check runs first. The ordering is part of the
// game's contract and must not change.
func (gs *GameState) CheckGameOver() (bool, string) {
	wolves := len(gs.AliveWolves())
	civilians := len(gs.AliveCivilians())

	switch {
	case wolves == 0:
		return true, models.CiviliansWin
	case wolves >= civilians:
		return true, models.WolvesWin
	default:
		return false, ""
	}
}

// SwitchToNight moves the game into the night phase.
func (gs *GameState) SwitchToNight() {
	gs.Phase = models.PhaseNight
}

// SwitchToDay moves the game back to day: the day counter advances, the
// speaker queue is rebuilt, and voting opens from day 2 on.
func (gs *GameState) SwitchToDay() {
	gs.Phase = models.PhaseDay
	gs.DayCount++
	gs.RebuildSpeakerQueue()
	gs.VotingEnabled = gs.DayCount > 1
}

// AppendHistory appends a raw entry to the narrative log. The log always
// keeps third-person phrasing; perspective rewrites happen only on the copies
// sent to individual agents.
func (gs *GameState) AppendHistory(entry string) {
	gs.History = append(gs.History, entry)
}

// AddToHistory appends an entry stamped with the current day and phase.
func (gs *GameState) AddToHistory(message string) {
	gs.AppendHistory(fmt.Sprintf("Day %d (%s): %s", gs.DayCount, gs.Phase, message))
}

// PublicState summarizes the game for agent prompts: day, phase, and who is
// alive or dead, without revealing any role.
func (gs *GameState) PublicState() string {
	aliveCount := 0
	dead := make([]string, 0)
	for _, p := range gs.players {
		if p.IsModerator() {
			continue
		}
		if p.Alive {
			aliveCount++
		} else {
			dead = append(dead, p.Name)
		}
	}

	var b strings.Builder
	b.WriteString("=== Game State ===\n")
	fmt.Fprintf(&b, "Day: %d, Phase: %s\n", gs.DayCount, gs.Phase)
	fmt.Fprintf(&b, "Alive Players: %d\n", aliveCount)
	if len(dead) > 0 {
		fmt.Fprintf(&b, "Dead Players: %s\n", strings.Join(dead, ", "))
	}
	if gs.Phase == models.PhaseDay && gs.VotingEnabled {
		b.WriteString("Voting is enabled\n")
	}
	return b.String()
}
