package services

import (
	"fmt"
	"strings"

	"github.com/lupine-games/werewolf/models"
)

// runNightPhase runs one night: transition events, the moderator's
// announcement, the night-kill protocol, and the transition back to day.
func (g *Game) runNightPhase() {
	g.notify(fmt.Sprintf("=== NIGHT %d ===", g.State.DayCount), models.OutputPhaseTransition, nil,
		map[string]interface{}{"day_count": g.State.DayCount, "phase": string(models.PhaseNight)})

	g.State.SwitchToNight()

	distributeEvent(g.State, g.agents,
		"Day has ended. Night phase begins. Most players fall asleep.",
		nil, models.EventDayTransition)
	distributeEvent(g.State, g.agents,
		fmt.Sprintf("Night %d begins. All players go to sleep except wolves.", g.State.DayCount),
		nil, models.EventGameState)

	wolfNames := make([]string, 0)
	for _, wolf := range g.State.AliveWolves() {
		wolfNames = append(wolfNames, wolf.Name)
	}

	announcement, err := g.moderatorAgent().AnnounceNightStart(g.State.PublicState(), wolfNames)
	if err != nil {
		g.reportAgentFailure(g.moderator(), "announce_night_start", err)
		announcement, _ = fallbackAgent.AnnounceNightStart("", nil)
	}
	g.notify(announcement, models.OutputGameAnnouncement, g.moderator(), nil)

	// With no wolf alive the night is a no-op and the game proceeds to day.
	if len(wolfNames) > 0 {
		if action := g.GetNextAction(); action != nil && action.Type == models.ActionNightKill {
			if len(action.WolfCommunications) > 0 {
				g.notify("--- Wolf Communication ---", models.OutputWolfCommunication, nil, nil)
				for _, comm := range action.WolfCommunications {
					g.notify(fmt.Sprintf("%s (to wolves): %s", comm.Player, comm.Message),
						models.OutputWolfCommunication, nil,
						map[string]interface{}{"speaker": comm.Player, "private": true})
				}
			}
			if action.Target != "" && g.ExecuteNightKill(action.Target) {
				g.notify("Wolves have chosen their victim...", models.OutputNightKill, nil,
					map[string]interface{}{"target": action.Target})
			}
		}
	}

	g.State.SwitchToDay()
	g.nightActionTaken = false
}

// nextNightAction runs the wolves' side of the night once per night: a
// private coordination turn for each wolf when more than one is alive, then a
// committed target chosen by the first wolf in roster order.
func (g *Game) nextNightAction() *models.Action {
	aliveWolves := g.State.AliveWolves()
	if len(aliveWolves) == 0 || g.nightActionTaken {
		return &models.Action{Type: models.ActionPhaseComplete, CurrentPhase: models.PhaseNight}
	}

	var communications []models.WolfCommunication
	if len(aliveWolves) > 1 {
		for _, wolf := range aliveWolves {
			agent := g.agents[wolf.Name]
			statement, err := agent.Speak(g.State.PublicState(),
				"Night phase: Communicate with your fellow wolves about who to eliminate. Share your strategy.")
			if err != nil || strings.TrimSpace(statement) == "" {
				if err != nil {
					g.reportAgentFailure(wolf, "wolf_communication", err)
				}
				statement = cannedSpeech(models.Wolf, PersonalityStrategic)
			}

			distributeEvent(g.State, g.agents,
				fmt.Sprintf("%s said: %s", wolf.Name, statement),
				wolf, models.EventWolfPrivate)
			communications = append(communications, models.WolfCommunication{
				Player:  wolf.Name,
				Message: statement,
			})
		}
	}

	eligible := make([]string, 0)
	for _, civilian := range g.State.AliveCivilians() {
		eligible = append(eligible, civilian.Name)
	}
	// No civilian left to target: the night performs no kill.
	if len(eligible) == 0 {
		g.nightActionTaken = true
		return &models.Action{Type: models.ActionPhaseComplete, CurrentPhase: models.PhaseNight}
	}

	committer := aliveWolves[0]
	answer, err := g.agents[committer.Name].ChooseNightTarget(g.State.PublicState(),
		"Make your final decision.", eligible)
	if err != nil {
		g.reportAgentFailure(committer, "choose_night_target", err)
		answer = ""
	}
	target := resolveTargetName(answer, eligible)

	g.nightActionTaken = true
	return &models.Action{
		Type:               models.ActionNightKill,
		Target:             target,
		WolfCommunications: communications,
	}
}

// ExecuteNightKill kills the named player and distributes the result; the
// event is visible to every agent the following morning, dead or alive.
// Unknown names report failure without mutating anything.
func (g *Game) ExecuteNightKill(targetName string) bool {
	if _, ok := g.State.PlayerByName(targetName); !ok {
		return false
	}
	g.State.KillPlayer(targetName)
	g.State.NightKillTarget = targetName

	killMsg := fmt.Sprintf("%s was killed by wolves", targetName)
	g.State.AppendHistory(killMsg)
	distributeEvent(g.State, g.agents, killMsg, nil, models.EventNightKill)
	return true
}
