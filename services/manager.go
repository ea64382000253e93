package services

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/lupine-games/werewolf/models"
)

var (
	ErrGameNotFound       = errors.New("game not found")
	ErrGameAlreadyRunning = errors.New("game already running")
)

// managedGame wraps one engine instance. The engine itself is single-threaded
// and runs on one goroutine; readers never touch GameState directly. Instead
// the engine refreshes a cached snapshot between turns (every sink
// notification happens on the engine's goroutine), and the mutex only guards
// that cache.
type managedGame struct {
	game *Game

	mu      sync.Mutex
	status  models.GameStatus
	running bool
}

// refresh rebuilds the cached snapshot. Must be called from the engine's own
// goroutine so GameState is read without a race.
func (mg *managedGame) refresh(done bool, winner string) {
	gs := mg.game.State

	alive := make([]string, 0)
	for _, p := range gs.AlivePlayers() {
		if !p.IsModerator() {
			alive = append(alive, p.Name)
		}
	}
	history := make([]string, len(gs.History))
	copy(history, gs.History)

	mg.mu.Lock()
	mg.status.Phase = gs.Phase
	mg.status.DayCount = gs.DayCount
	mg.status.AlivePlayers = alive
	mg.status.History = history
	if done {
		mg.status.IsOver = true
		mg.status.Winner = winner
	}
	mg.mu.Unlock()
}

// statusSink refreshes the cached snapshot on every notification, which the
// engine emits between turns.
type statusSink struct {
	mg *managedGame
}

func (s statusSink) Notify(message string, eventType models.OutputEventType, player *models.Player, metadata map[string]interface{}) {
	s.mg.refresh(false, "")
}

// GameManager is the registry of concurrent games, keyed by game ID.
type GameManager struct {
	mu    sync.RWMutex
	games map[string]*managedGame

	cfg   *Config
	wsMgr *WebSocketManager
}

// NewGameManager creates the registry. wsMgr may be nil for headless use.
func NewGameManager(cfg *Config, wsMgr *WebSocketManager) *GameManager {
	return &GameManager{
		games: make(map[string]*managedGame),
		cfg:   cfg,
		wsMgr: wsMgr,
	}
}

// CreateGame builds a new game with a fresh roster. With useLLM set and an
// API key configured the players are LLM agents; otherwise they are
// rule-based. Returns the new game's ID and the player names (roles stay
// hidden).
func (gm *GameManager) CreateGame(numPlayers int, useLLM bool) (string, []string, error) {
	// Operators may tighten the roster bounds within the game's hard limits.
	if gm.cfg != nil && gm.cfg.MinPlayers >= MinPlayers && gm.cfg.MaxPlayers <= MaxPlayers &&
		gm.cfg.MinPlayers <= gm.cfg.MaxPlayers {
		if numPlayers < gm.cfg.MinPlayers || numPlayers > gm.cfg.MaxPlayers {
			return "", nil, fmt.Errorf("%w: got %d, configured range [%d, %d]",
				ErrInvalidPlayerCount, numPlayers, gm.cfg.MinPlayers, gm.cfg.MaxPlayers)
		}
	}

	gs, err := NewGameState(numPlayers)
	if err != nil {
		return "", nil, err
	}

	var agents map[string]Agent
	if useLLM && gm.cfg != nil && gm.cfg.OpenAIAPIKey != "" {
		agents = BindLLMAgents(gs, NewChatClient(gm.cfg, ""))
	} else {
		agents = BindRuleAgents(gs)
	}

	gameID := uuid.NewString()
	mg := &managedGame{}

	sinks := MultiSink{ConsoleSink{}, statusSink{mg}}
	if gm.wsMgr != nil {
		sinks = append(sinks, gm.wsMgr.SinkFor(gameID))
	}

	game, err := NewGame(gs, agents, sinks)
	if err != nil {
		return "", nil, err
	}
	mg.game = game
	mg.status = models.GameStatus{GameID: gameID, Phase: gs.Phase, DayCount: gs.DayCount}
	mg.refresh(false, "")

	names := make([]string, 0, numPlayers)
	for _, p := range gs.Players() {
		names = append(names, p.Name)
	}

	gm.mu.Lock()
	gm.games[gameID] = mg
	gm.mu.Unlock()

	log.Printf("created game %s with %d players (llm=%v)", gameID, numPlayers, useLLM)
	return gameID, names, nil
}

func (gm *GameManager) get(gameID string) (*managedGame, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	mg, ok := gm.games[gameID]
	if !ok {
		return nil, ErrGameNotFound
	}
	return mg, nil
}

// StartAsync runs the game to completion on its own goroutine. One goroutine
// per game is the whole serialization story: no other code mutates GameState.
func (gm *GameManager) StartAsync(gameID string) error {
	mg, err := gm.get(gameID)
	if err != nil {
		return err
	}

	mg.mu.Lock()
	if mg.running || mg.status.IsOver {
		mg.mu.Unlock()
		return ErrGameAlreadyRunning
	}
	mg.running = true
	mg.mu.Unlock()

	go func() {
		winner := mg.game.RunGame()
		mg.refresh(true, winner)

		mg.mu.Lock()
		mg.running = false
		mg.mu.Unlock()

		log.Printf("game %s finished, winner: %s", gameID, winner)
	}()
	return nil
}

// Snapshot returns the cached API-facing view of a game.
func (gm *GameManager) Snapshot(gameID string) (*models.GameStatus, error) {
	mg, err := gm.get(gameID)
	if err != nil {
		return nil, err
	}

	mg.mu.Lock()
	defer mg.mu.Unlock()

	status := mg.status
	status.AlivePlayers = append([]string(nil), mg.status.AlivePlayers...)
	status.History = append([]string(nil), mg.status.History...)
	return &status, nil
}
