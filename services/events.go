package services

import (
	"strings"

	"github.com/lupine-games/werewolf/models"
)

// shouldReceiveEvent decides whether a player's agent gets a given event.
// Moderators never receive distributed events; they are driven through the
// dedicated announcement calls instead.
func shouldReceiveEvent(p *models.Player, eventType models.EventType) bool {
	if p.IsModerator() {
		return false
	}

	switch eventType {
	case models.EventPublic:
		return p.Alive
	case models.EventWolfPrivate:
		return p.Alive && p.IsWolf()
	case models.EventElimination, models.EventGameState,
		models.EventDayTransition, models.EventDayNumberChange:
		// Visible to everyone, dead players included, so the end-game reveal
		// reads consistently for all agents.
		return true
	case models.EventNightKill:
		return true
	default:
		return false
	}
}

// rewriteForSpeaker rewrites an event into first person for the speaker's own
// agent: "<Name> said:" becomes "You said:", "<Name> voted for" becomes
// "You voted for", otherwise the first occurrence of the name becomes "You".
// Only the agent's private copy is rewritten; the history log stays third
// person.
func rewriteForSpeaker(event, speakerName string) string {
	switch {
	case strings.Contains(event, "said:"):
		return strings.Replace(event, speakerName+" said:", "You said:", 1)
	case strings.Contains(event, "voted for"):
		return strings.Replace(event, speakerName+" voted for", "You voted for", 1)
	default:
		return strings.Replace(event, speakerName, "You", 1)
	}
}

// distributeEvent fans one event out to every agent allowed to see it,
// applying the speaker-relative rewrite for the speaker's own copy.
func distributeEvent(gs *GameState, agents map[string]Agent, event string, speaker *models.Player, eventType models.EventType) {
	for _, p := range gs.Players() {
		if !shouldReceiveEvent(p, eventType) {
			continue
		}
		agent, ok := agents[p.Name]
		if !ok {
			continue
		}

		delivered := event
		if speaker != nil && p.Name == speaker.Name {
			delivered = rewriteForSpeaker(event, speaker.Name)
		}
		agent.AddEvent(delivered)
	}
}
