package models

// Player is one seat at the table. Players are created during role
// assignment and never removed; a dead player stays in the roster for the
// end-of-game reveal.
type Player struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Role          Role   `json:"role"`
	Alive         bool   `json:"alive"`
	VotesReceived int    `json:"votes_received"`
	VoteTarget    string `json:"vote_target,omitempty"`
}

// IsWolf reports whether the player is a wolf.
func (p *Player) IsWolf() bool {
	return p.Role == Wolf
}

// IsCivilian reports whether the player is a civilian.
func (p *Player) IsCivilian() bool {
	return p.Role == Civilian
}

// IsModerator reports whether the player is the moderator.
func (p *Player) IsModerator() bool {
	return p.Role == Moderator
}

// ResetVote clears the player's vote bookkeeping for a new voting round.
func (p *Player) ResetVote() {
	p.VotesReceived = 0
	p.VoteTarget = ""
}
