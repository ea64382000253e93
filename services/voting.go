package services

import (
	"fmt"
	"strings"

	"github.com/lupine-games/werewolf/models"
)

// resolveTargetName matches an agent's free-text answer against the eligible
// targets by case-insensitive substring, first match in eligible order wins.
// No match falls back to the first eligible target; an empty eligible set
// resolves to "".
func resolveTargetName(answer string, eligible []string) string {
	if len(eligible) == 0 {
		return ""
	}
	lowered := strings.ToLower(strings.TrimSpace(answer))
	for _, name := range eligible {
		if strings.Contains(lowered, strings.ToLower(name)) {
			return name
		}
	}
	return eligible[0]
}

// RunVotingPhase runs one complete voting round: collect a vote from every
// living non-moderator in roster order, tally, apply the elimination, and
// reset vote bookkeeping. An unexpected fault inside the round is caught at
// the round boundary and reported; the round then completes with an empty
// result instead of corrupting partial vote state.
func (g *Game) RunVotingPhase() (result models.VotingResult) {
	defer func() {
		if r := recover(); r != nil {
			g.notify(fmt.Sprintf("Error in voting phase: %v", r),
				models.OutputError, nil, map[string]interface{}{"error": fmt.Sprint(r)})
			result = models.VotingResult{
				Votes:      []string{},
				VoteCounts: map[string]int{},
				Err:        fmt.Sprint(r),
			}
		}
	}()

	g.notify("--- Voting Phase ---", models.OutputPhaseTransition, nil, nil)

	voters := make([]*models.Player, 0)
	eligible := make([]string, 0)
	for _, p := range g.State.AlivePlayers() {
		if !p.IsModerator() {
			voters = append(voters, p)
			eligible = append(eligible, p.Name)
		}
	}
	g.notify("Eligible voters: "+strings.Join(eligible, ", "), models.OutputVoting, nil,
		map[string]interface{}{"eligible_voters": eligible})

	votes := make([]string, 0, len(voters))

	// Voters after the first see the partial tally; the order matters for the
	// agents' reasoning, not for correctness.
	for _, voter := range voters {
		agent := g.agents[voter.Name]
		context := fmt.Sprintf("Current voting status: [%s].", strings.Join(votes, "; "))

		answer, err := agent.Vote(g.State.PublicState(), context, eligible)
		if err != nil {
			g.reportAgentFailure(voter, "vote", err)
			answer = ""
		}
		target := resolveTargetName(answer, eligible)

		g.State.RecordVote(voter.Name, target)
		voteMsg := fmt.Sprintf("%s voted for %s", voter.Name, target)
		votes = append(votes, voteMsg)
		g.State.AddToHistory(voteMsg)
		distributeEvent(g.State, g.agents, voteMsg, voter, models.EventPublic)
		g.notify(voteMsg, models.OutputVoting, voter, nil)
	}

	eliminatedName, voteCounts := g.State.TallyVotes()

	var eliminated *models.EliminatedPlayer
	if eliminatedName != "" {
		player, _ := g.State.PlayerByName(eliminatedName)
		g.State.KillPlayer(eliminatedName)

		eliminationMsg := fmt.Sprintf("%s (%s) was eliminated by vote", player.Name, player.Role)
		g.State.AddToHistory(eliminationMsg)
		distributeEvent(g.State, g.agents, eliminationMsg, nil, models.EventElimination)

		eliminated = &models.EliminatedPlayer{Name: player.Name, Role: player.Role}
	}

	announcement, err := g.moderatorAgent().AnnounceVoteResults(voteCounts, eliminatedName)
	if err != nil {
		g.reportAgentFailure(g.moderator(), "announce_vote_results", err)
		announcement, _ = fallbackAgent.AnnounceVoteResults(voteCounts, eliminatedName)
	}
	g.notify(announcement, models.OutputGameAnnouncement, g.moderator(), nil)

	// Unconditional: the next round starts from a clean tally whether or not
	// anyone was eliminated.
	g.State.ResetVotes()

	return models.VotingResult{
		Votes:      votes,
		VoteCounts: voteCounts,
		Eliminated: eliminated,
	}
}
