package services

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/lupine-games/werewolf/models"
)

const gameIntro = `Werewolf is a social deduction game. Wolves secretly eliminate
one civilian each night; every day the survivors discuss and, from day 2 on,
vote to eliminate a suspect. Wolves win when they equal or outnumber the
civilians; civilians win when every wolf is gone. A moderator narrates but
does not play.`

// LLMAgent is an agent backed by an OpenAI-compatible chat model. It keeps a
// bounded event memory that is drained into the prompt on each turn, and a
// strategy string fixed at game start.
type LLMAgent struct {
	Name        string
	Role        models.Role
	Personality string

	client   *ChatClient
	strategy string
	memory   []string
}

// NewLLMAgent creates an LLM-backed agent for one player.
func NewLLMAgent(name string, role models.Role, client *ChatClient) *LLMAgent {
	return &LLMAgent{
		Name:        name,
		Role:        role,
		Personality: personalities[rand.Intn(len(personalities))],
		client:      client,
	}
}

// Start asks the model for a short game-long strategy.
func (a *LLMAgent) Start(publicState string) error {
	prompt := fmt.Sprintf(
		"You are joining a game of Werewolf.\n"+
			"Your name: %s\nYour role: %s\nYour personality: %s\n\n%s\n\n"+
			"Current game state:\n%s\n"+
			"Design a strategy to win. Keep it under 50 words and focused.",
		a.Name, a.Role, a.Personality, gameIntro, publicState)

	strategy, err := a.client.Complete(context.Background(), a.systemPrompt(), prompt)
	if err != nil {
		return err
	}
	a.strategy = strings.TrimSpace(strategy)
	return nil
}

// AddEvent appends to the agent's private context; the memory is drained on
// the next decision call.
func (a *LLMAgent) AddEvent(event string) {
	a.memory = append(a.memory, event)
	if len(a.memory) > agentMemoryLimit {
		a.memory = a.memory[len(a.memory)-agentMemoryLimit:]
	}
}

func (a *LLMAgent) systemPrompt() string {
	return fmt.Sprintf(
		"You are %s, playing Werewolf as a %s. Personality: %s. "+
			"Speak naturally in first person, stay in character, and never "+
			"reveal your role unless it wins you the game. Keep answers short.",
		a.Name, a.Role, a.Personality)
}

// step sends one turn: pending events, the standing strategy, and the
// instruction. The event memory is cleared once consumed.
func (a *LLMAgent) step(instruction string) (string, error) {
	events := "No new events."
	if len(a.memory) > 0 {
		events = strings.Join(a.memory, "\n")
	}
	prompt := fmt.Sprintf(
		"Events since your last turn:\n%s\n\nYour strategy: %s\n\nYour next action: %s",
		events, a.strategy, instruction)

	reply, err := a.client.Complete(context.Background(), a.systemPrompt(), prompt)
	if err != nil {
		return "", err
	}
	a.memory = a.memory[:0]
	return strings.TrimSpace(reply), nil
}

func (a *LLMAgent) Speak(publicState, context string) (string, error) {
	return a.step(fmt.Sprintf(
		"It's your turn to speak. Current game state: %s. %s Share your thoughts about the game so far.",
		publicState, context))
}

func (a *LLMAgent) Vote(publicState, context string, eligible []string) (string, error) {
	return a.step(fmt.Sprintf(
		"Voting phase: You must vote to eliminate one player. %s Choose from: %s. Answer with a single name.",
		context, strings.Join(eligible, ", ")))
}

func (a *LLMAgent) ChooseNightTarget(publicState, context string, eligible []string) (string, error) {
	return a.step(fmt.Sprintf(
		"Night phase: Choose a player to eliminate tonight. Available targets: %s. Make your final decision; answer with a single name.",
		strings.Join(eligible, ", ")))
}

func (a *LLMAgent) AnnounceDayStart(dayCount int, publicState, recentEvents string) (string, error) {
	prompt := fmt.Sprintf(
		"You are the MODERATOR of a Werewolf game. It's Day %d.\n\n"+
			"Current game state:\n%s\nRecent events:\n%s\n\n"+
			"Make a brief announcement to start the day: day number, who died "+
			"last night (if anyone), how many players remain, and whether "+
			"voting is enabled (it is not on day one). Keep it concise and atmospheric.",
		dayCount, publicState, recentEvents)
	return a.announce(prompt)
}

func (a *LLMAgent) AnnounceNightStart(publicState string, wolves []string) (string, error) {
	prompt := fmt.Sprintf(
		"You are the MODERATOR of a Werewolf game. Night has fallen.\n\n"+
			"Current game state:\n%s\nThe wolves are: %s\n\n"+
			"Make a brief, atmospheric night announcement without revealing who the wolves are.",
		publicState, strings.Join(wolves, ", "))
	return a.announce(prompt)
}

func (a *LLMAgent) AnnounceVoteResults(voteCounts map[string]int, eliminated string) (string, error) {
	parts := make([]string, 0, len(voteCounts))
	for name, count := range voteCounts {
		parts = append(parts, fmt.Sprintf("%s: %d", name, count))
	}
	sort.Strings(parts)

	outcome := "no one was eliminated"
	if eliminated != "" {
		outcome = eliminated + " was eliminated"
	}
	prompt := fmt.Sprintf(
		"You are the MODERATOR announcing voting results.\n\n"+
			"Vote results: %s\nOutcome: %s\n\n"+
			"Announce the results dramatically but concisely.",
		strings.Join(parts, ", "), outcome)
	return a.announce(prompt)
}

func (a *LLMAgent) AnnounceGameOver(winner, publicState string) (string, error) {
	prompt := fmt.Sprintf(
		"You are the MODERATOR of a Werewolf game that just ended.\n\n"+
			"Winner: %s\nFinal game state:\n%s\n\n"+
			"Announce the end of the game and congratulate the winning side. Keep it brief.",
		winner, publicState)
	return a.announce(prompt)
}

func (a *LLMAgent) announce(prompt string) (string, error) {
	reply, err := a.client.Complete(context.Background(),
		"You are the impartial moderator of a Werewolf game.", prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}
