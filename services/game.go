package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lupine-games/werewolf/models"
)

var (
	// ErrMissingAgent is returned by NewGame when a roster player has no
	// bound agent.
	ErrMissingAgent = errors.New("player has no bound agent")

	// fallbackAgent supplies role-appropriate stand-in utterances and
	// announcements when a real agent call fails mid-turn.
	fallbackAgent = &RuleAgent{}
)

// Game drives one werewolf game: the day/night state machine, the speaking,
// voting and night-kill rounds, event distribution, and the final reveal.
// It owns its GameState for the lifetime of the game and is not safe for
// concurrent use; GameManager serializes access per game.
type Game struct {
	State  *GameState
	agents map[string]Agent
	sink   OutputSink

	nightActionTaken bool
}

// NewGame binds one agent per roster player to a fresh game state. Binding is
// an explicit step so the wiring is testable: every player, the moderator
// included, must have an agent.
func NewGame(gs *GameState, agents map[string]Agent, sink OutputSink) (*Game, error) {
	for _, p := range gs.Players() {
		if _, ok := agents[p.Name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingAgent, p.Name)
		}
	}
	if sink == nil {
		sink = ConsoleSink{}
	}
	return &Game{State: gs, agents: agents, sink: sink}, nil
}

// BindRuleAgents attaches a deterministic rule-based agent to every player.
func BindRuleAgents(gs *GameState) map[string]Agent {
	agents := make(map[string]Agent, len(gs.Players()))
	for _, p := range gs.Players() {
		agents[p.Name] = NewRuleAgent(p.Name, p.Role)
	}
	return agents
}

// BindLLMAgents attaches an LLM-backed agent to every player.
func BindLLMAgents(gs *GameState, client *ChatClient) map[string]Agent {
	agents := make(map[string]Agent, len(gs.Players()))
	for _, p := range gs.Players() {
		agents[p.Name] = NewLLMAgent(p.Name, p.Role, client)
	}
	return agents
}

func (g *Game) notify(message string, eventType models.OutputEventType, player *models.Player, metadata map[string]interface{}) {
	g.sink.Notify(message, eventType, player, metadata)
}

// reportAgentFailure logs a failed agent step through the sink. Failures are
// never silently dropped, and never propagated: the caller substitutes a
// fallback and the game goes on.
func (g *Game) reportAgentFailure(player *models.Player, op string, err error) {
	g.notify(fmt.Sprintf("agent step failed (%s, %s): %v", player.Name, op, err),
		models.OutputError, player, map[string]interface{}{"op": op})
}

func (g *Game) moderator() *models.Player {
	return g.State.ModeratorPlayer()
}

func (g *Game) moderatorAgent() Agent {
	return g.agents[g.moderator().Name]
}

// recentEvents returns the last few history entries for moderator prompts.
func (g *Game) recentEvents() string {
	history := g.State.History
	if len(history) == 0 {
		return "Game start"
	}
	start := len(history) - 3
	if start < 0 {
		start = 0
	}
	return strings.Join(history[start:], "\n")
}

// InitStrategies bootstraps every agent with the public game state before
// day 1. A failed bootstrap is reported and the agent plays on without one.
func (g *Game) InitStrategies() {
	publicInfo := g.State.PublicState()
	for _, p := range g.State.Players() {
		agent := g.agents[p.Name]
		info := publicInfo
		if p.IsModerator() {
			info = "You are the game moderator. " + publicInfo
		}
		if err := agent.Start(info); err != nil {
			g.reportAgentFailure(p, "start", err)
		}
	}
}

// printSetupInfo reports the full role breakdown through the sink. Sinks are
// external observers; roles are hidden from agents, not from the audit log.
func (g *Game) printSetupInfo() {
	wolves := make([]string, 0)
	civilians := make([]string, 0)
	for _, p := range g.State.Players() {
		switch p.Role {
		case models.Wolf:
			wolves = append(wolves, p.Name)
		case models.Civilian:
			civilians = append(civilians, p.Name)
		}
	}
	g.notify("Wolves: "+strings.Join(wolves, ", "), models.OutputGameState, nil, nil)
	g.notify("Civilians: "+strings.Join(civilians, ", "), models.OutputGameState, nil, nil)
	g.notify("Moderator: "+g.moderator().Name, models.OutputGameState, nil, nil)
	g.notify(fmt.Sprintf("Total Players: %d", len(g.State.Players())), models.OutputGameState, nil, nil)
}

// RunGame runs the full day/night loop until one side wins and returns the
// winner. The win condition is checked after the day segment and again after
// the night segment: a day elimination can end the game before night runs.
func (g *Game) RunGame() string {
	g.notify("WEREWOLF GAME STARTING", models.OutputGameAnnouncement, nil,
		map[string]interface{}{"game_status": "starting"})
	g.InitStrategies()
	g.printSetupInfo()

	var (
		gameOver bool
		winner   string
	)
	for !gameOver {
		g.runDayPhase()
		if gameOver, winner = g.State.CheckGameOver(); gameOver {
			break
		}

		g.runNightPhase()
		gameOver, winner = g.State.CheckGameOver()
	}

	g.finishGame(winner)
	return winner
}

// runDayPhase runs one day: transition events, the moderator's announcement,
// the speaking round, and (from day 2 on) the voting round.
func (g *Game) runDayPhase() {
	day := g.State.DayCount
	g.notify(fmt.Sprintf("=== DAY %d ===", day), models.OutputPhaseTransition, nil,
		map[string]interface{}{"day_count": day})

	distributeEvent(g.State, g.agents,
		fmt.Sprintf("Day %d has arrived.", day), nil, models.EventDayNumberChange)

	if day > 1 {
		distributeEvent(g.State, g.agents,
			"Night has ended. Day phase begins. All players wake up.",
			nil, models.EventDayTransition)
	}

	aliveNames := make([]string, 0)
	for _, p := range g.State.AlivePlayers() {
		if !p.IsModerator() {
			aliveNames = append(aliveNames, p.Name)
		}
	}
	distributeEvent(g.State, g.agents,
		fmt.Sprintf("Day %d begins. Current alive players: %s", day, strings.Join(aliveNames, ", ")),
		nil, models.EventGameState)

	announcement, err := g.moderatorAgent().AnnounceDayStart(day, g.State.PublicState(), g.recentEvents())
	if err != nil {
		g.reportAgentFailure(g.moderator(), "announce_day_start", err)
		announcement, _ = fallbackAgent.AnnounceDayStart(day, "", "")
	}
	g.notify(announcement, models.OutputGameAnnouncement, g.moderator(), nil)

	g.runSpeakingRound()

	if g.State.VotingEnabled {
		result := g.RunVotingPhase()
		if result.Eliminated != nil {
			g.notify(fmt.Sprintf("%s (%s) was eliminated by vote", result.Eliminated.Name, result.Eliminated.Role),
				models.OutputElimination, nil,
				map[string]interface{}{"eliminated_player": result.Eliminated.Name, "role": string(result.Eliminated.Role)})
		} else {
			g.notify("No one was eliminated (tie or no votes)", models.OutputVoting, nil, nil)
		}
	}
}

// runSpeakingRound drains the speaker queue: every living non-moderator
// speaks exactly once, in queue order.
func (g *Game) runSpeakingRound() {
	g.notify("--- Speaking Phase ---", models.OutputPhaseTransition, nil, nil)

	for {
		action := g.GetNextAction()
		if action == nil || action.Type != models.ActionSpeech {
			return
		}
		speaker, _ := g.State.PlayerByName(action.Player)
		g.notify(action.Message, models.OutputPlayerSpeech, speaker, nil)
	}
}

// GetNextAction produces the next engine step for hosts that drive the game
// one action at a time. During the day it returns the next speech; at night,
// the wolves' kill decision. A phase-complete action signals there is nothing
// left to do in the current phase.
func (g *Game) GetNextAction() *models.Action {
	switch g.State.Phase {
	case models.PhaseDay:
		return g.nextSpeechAction()
	case models.PhaseNight:
		return g.nextNightAction()
	default:
		return nil
	}
}

func (g *Game) nextSpeechAction() *models.Action {
	speaker := g.State.NextSpeaker()
	if speaker == nil {
		return &models.Action{Type: models.ActionPhaseComplete, CurrentPhase: models.PhaseDay}
	}

	agent := g.agents[speaker.Name]
	instruction := "Share your thoughts about the game so far."
	speech, err := agent.Speak(g.State.PublicState(), instruction)
	if err != nil || strings.TrimSpace(speech) == "" {
		if err != nil {
			g.reportAgentFailure(speaker, "speak", err)
		}
		speech = cannedSpeech(speaker.Role, PersonalityCautious)
	}

	event := fmt.Sprintf("%s said: %s", speaker.Name, speech)
	g.State.AppendHistory(event)
	distributeEvent(g.State, g.agents, event, speaker, models.EventPublic)

	return &models.Action{
		Type:    models.ActionSpeech,
		Player:  speaker.Name,
		Message: speech,
		Role:    speaker.Role,
	}
}

// TransitionToNight moves the game into the night phase and tells the agents.
func (g *Game) TransitionToNight() {
	g.State.SwitchToNight()
	distributeEvent(g.State, g.agents,
		"Night falls. Most players go to sleep, but wolves prowl...",
		nil, models.EventDayTransition)
}

// TransitionToDay moves the game back into the day phase: the day counter
// advances, the speaker queue is rebuilt, voting opens from day 2 on, and the
// wolves' night action is re-armed.
func (g *Game) TransitionToDay() {
	g.State.SwitchToDay()
	g.nightActionTaken = false
	distributeEvent(g.State, g.agents,
		fmt.Sprintf("Day %d begins! Time for discussion.", g.State.DayCount),
		nil, models.EventDayTransition)
}

// finishGame announces the winner and reveals every non-moderator's role and
// final status through the sink.
func (g *Game) finishGame(winner string) {
	announcement, err := g.moderatorAgent().AnnounceGameOver(winner, g.State.PublicState())
	if err != nil {
		g.reportAgentFailure(g.moderator(), "announce_game_over", err)
		announcement, _ = fallbackAgent.AnnounceGameOver(winner, "")
	}
	g.notify(announcement, models.OutputGameAnnouncement, nil,
		map[string]interface{}{"game_status": "ended", "winner": winner})

	g.notify("=== Final Role Reveal ===", models.OutputGameState, nil, nil)
	for _, p := range g.State.Players() {
		if p.IsModerator() {
			continue
		}
		status := "Alive"
		if !p.Alive {
			status = "Dead"
		}
		g.notify(fmt.Sprintf("%s: %s (%s)", p.Name, p.Role, status),
			models.OutputGameState, p,
			map[string]interface{}{"final_reveal": true, "status": status})
	}
}
