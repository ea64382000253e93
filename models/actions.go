package models

// Action types returned by the step-level driver surface.
const (
	ActionSpeech        = "speech"
	ActionNightKill     = "night_kill"
	ActionPhaseComplete = "phase_complete"
)

// Action is one step produced by the engine for hosts that drive the game
// one action at a time instead of calling RunGame end to end.
type Action struct {
	Type string `json:"type"`

	// Speech fields.
	Player  string `json:"player,omitempty"`
	Message string `json:"message,omitempty"`
	Role    Role   `json:"role,omitempty"`

	// Night-kill fields.
	Target             string              `json:"target,omitempty"`
	WolfCommunications []WolfCommunication `json:"wolf_communications,omitempty"`

	// Phase-complete fields.
	CurrentPhase Phase `json:"current_phase,omitempty"`
}

// WolfCommunication is one wolf's private coordination statement.
type WolfCommunication struct {
	Player  string `json:"player"`
	Message string `json:"message"`
}

// EliminatedPlayer identifies a player removed by vote.
type EliminatedPlayer struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// VotingResult is the outcome of one voting round.
type VotingResult struct {
	Votes      []string          `json:"votes"`
	VoteCounts map[string]int    `json:"vote_counts"`
	Eliminated *EliminatedPlayer `json:"eliminated,omitempty"`
	Err        string            `json:"error,omitempty"`
}
