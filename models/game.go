package models

// Role is a player's role in the game.
type Role string

const (
	Wolf      Role = "wolf"
	Civilian  Role = "civilian"
	Moderator Role = "moderator"
)

// Phase is the current game phase.
type Phase string

const (
	PhaseDay   Phase = "day"
	PhaseNight Phase = "night"
)

// Winner names for CheckGameOver.
const (
	WolvesWin    = "Wolves"
	CiviliansWin = "Civilians"
)

// EventType controls which agents receive a distributed event.
type EventType string

const (
	EventPublic          EventType = "public"            // alive non-moderator players
	EventWolfPrivate     EventType = "wolf_private"      // alive wolves only
	EventElimination     EventType = "elimination"       // all players, alive and dead
	EventGameState       EventType = "game_state"        // all players, alive and dead
	EventNightKill       EventType = "night_kill"        // all players
	EventDayTransition   EventType = "day_transition"    // all players
	EventDayNumberChange EventType = "day_number_change" // all players
)

// OutputEventType tags notifications sent to the output sink.
type OutputEventType string

const (
	OutputGameAnnouncement  OutputEventType = "game_announcement"
	OutputPlayerSpeech      OutputEventType = "player_speech"
	OutputWolfCommunication OutputEventType = "wolf_communication"
	OutputVoting            OutputEventType = "voting"
	OutputElimination       OutputEventType = "elimination"
	OutputNightKill         OutputEventType = "night_kill"
	OutputPhaseTransition   OutputEventType = "phase_transition"
	OutputGameState         OutputEventType = "game_state"
	OutputError             OutputEventType = "error"
	OutputSystem            OutputEventType = "system"
)

// GameStatus is the API-facing snapshot of a running game.
type GameStatus struct {
	GameID       string   `json:"game_id"`
	Phase        Phase    `json:"phase"`
	DayCount     int      `json:"day_count"`
	AlivePlayers []string `json:"alive_players"`
	History      []string `json:"history"`
	IsOver       bool     `json:"is_over"`
	Winner       string   `json:"winner,omitempty"`
}
