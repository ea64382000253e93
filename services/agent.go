package services

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/lupine-games/werewolf/models"
)

// Agent personality traits. Variants are data, not types: the same interface
// drives every role.
const (
	PersonalityAggressive = "aggressive"
	PersonalityCautious   = "cautious"
	PersonalityStrategic  = "strategic"
	PersonalityRandom     = "random"
)

var personalities = []string{
	PersonalityAggressive,
	PersonalityCautious,
	PersonalityStrategic,
	PersonalityRandom,
}

// Agent is the decision-maker consulted at every decision point of the game.
// The engine supplies prompt context and expects back a player name or free
// text; how the answer is produced (LLM, rules, human) is the agent's
// business. All calls are blocking relative to that player's turn only.
type Agent interface {
	// Start bootstraps the agent with the public game state before day 1.
	Start(publicState string) error

	// AddEvent injects an event into the agent's private context. No reply
	// is expected.
	AddEvent(event string)

	Speak(publicState, context string) (string, error)
	Vote(publicState, context string, eligible []string) (string, error)
	ChooseNightTarget(publicState, context string, eligible []string) (string, error)

	// Moderator-only announcement calls.
	AnnounceDayStart(dayCount int, publicState, recentEvents string) (string, error)
	AnnounceNightStart(publicState string, wolves []string) (string, error)
	AnnounceVoteResults(voteCounts map[string]int, eliminated string) (string, error)
	AnnounceGameOver(winner, publicState string) (string, error)
}

// agentMemoryLimit caps how many events an agent remembers between turns.
const agentMemoryLimit = 20

// RuleAgent is a deterministic, network-free agent. It doubles as the offline
// game mode and as the reference for fallback behavior when another agent
// fails mid-turn: it always picks the first eligible target.
type RuleAgent struct {
	Name        string
	Role        models.Role
	Personality string

	memory []string
}

// NewRuleAgent creates a rule-based agent with a random personality.
func NewRuleAgent(name string, role models.Role) *RuleAgent {
	return &RuleAgent{
		Name:        name,
		Role:        role,
		Personality: personalities[rand.Intn(len(personalities))],
	}
}

func (a *RuleAgent) Start(publicState string) error { return nil }

func (a *RuleAgent) AddEvent(event string) {
	a.memory = append(a.memory, event)
	if len(a.memory) > agentMemoryLimit {
		a.memory = a.memory[len(a.memory)-agentMemoryLimit:]
	}
}

func (a *RuleAgent) Speak(publicState, context string) (string, error) {
	return cannedSpeech(a.Role, a.Personality), nil
}

func (a *RuleAgent) Vote(publicState, context string, eligible []string) (string, error) {
	if len(eligible) == 0 {
		return "", nil
	}
	return eligible[0], nil
}

func (a *RuleAgent) ChooseNightTarget(publicState, context string, eligible []string) (string, error) {
	if len(eligible) == 0 {
		return "", nil
	}
	return eligible[0], nil
}

func (a *RuleAgent) AnnounceDayStart(dayCount int, publicState, recentEvents string) (string, error) {
	if dayCount == 1 {
		return fmt.Sprintf("Good morning! This is Day %d. Introduce yourselves; voting is not enabled today.", dayCount), nil
	}
	return fmt.Sprintf("Good morning! This is Day %d. Discuss and vote wisely.", dayCount), nil
}

func (a *RuleAgent) AnnounceNightStart(publicState string, wolves []string) (string, error) {
	return "Night falls. Everyone goes to sleep. Wolves, you may now choose your victim.", nil
}

func (a *RuleAgent) AnnounceVoteResults(voteCounts map[string]int, eliminated string) (string, error) {
	parts := make([]string, 0, len(voteCounts))
	for name, count := range voteCounts {
		if count > 0 {
			parts = append(parts, fmt.Sprintf("%s received %d", name, count))
		}
	}
	sort.Strings(parts)
	summary := strings.Join(parts, ", ")
	if eliminated == "" {
		if summary == "" {
			return "The votes have been counted. Nobody received a vote.", nil
		}
		return fmt.Sprintf("The votes have been counted: %s. No one is eliminated.", summary), nil
	}
	return fmt.Sprintf("The votes have been counted: %s. %s has been eliminated!", summary, eliminated), nil
}

func (a *RuleAgent) AnnounceGameOver(winner, publicState string) (string, error) {
	return fmt.Sprintf("The game is over. The %s have won!", winner), nil
}

// cannedSpeech returns a role- and personality-flavored table line. Wolves
// deflect, civilians probe; the lines are intentionally generic so they leak
// nothing.
func cannedSpeech(role models.Role, personality string) string {
	if role == models.Wolf {
		switch personality {
		case PersonalityAggressive:
			return "Someone here is playing the crowd. I say we watch the quiet ones."
		case PersonalityCautious:
			return "Let's stay calm and not turn on each other without evidence."
		case PersonalityStrategic:
			return "We should compare notes on last night before pointing fingers."
		default:
			return "What does everyone make of the night we just had?"
		}
	}
	switch personality {
	case PersonalityAggressive:
		return "Somebody's story doesn't add up. We need to press harder."
	case PersonalityCautious:
		return "We should be careful; accusing the wrong person helps the wolves."
	case PersonalityStrategic:
		return "Let's walk through everyone's statements and look for contradictions."
	default:
		return "I don't have much to go on yet, but I'm listening."
	}
}
