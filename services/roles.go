package services

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/lupine-games/werewolf/models"
)

// Player count bounds for a playable game.
const (
	MinPlayers = 6
	MaxPlayers = 15
)

// ErrInvalidPlayerCount is returned when a game is created with a player
// count outside [MinPlayers, MaxPlayers].
var ErrInvalidPlayerCount = errors.New("number of players must be between 6 and 15")

var (
	firstNames = []string{
		"Alice", "Bruno", "Clara", "Diego", "Elena", "Felix", "Greta", "Hugo",
		"Iris", "Jonas", "Kara", "Liam", "Mona", "Nils", "Olive", "Pavel",
		"Quinn", "Rosa", "Sven", "Tara", "Ugo", "Vera", "Wade", "Xenia",
		"Yara", "Zane",
	}
	lastNames = []string{
		"Adler", "Brook", "Castel", "Dray", "Ember", "Frost", "Gale",
		"Hart", "Ivers", "Jade", "Kroft", "Lark", "Moss", "North",
		"Oakes", "Pryor", "Quill", "Reyes", "Stone", "Thorn", "Vance",
		"Wilde", "York", "Zeller",
	}
)

// generateRoles builds the role multiset for a roster of the given size:
// wolves are 20% of the table rounded down but at least one, exactly one
// moderator, and civilians fill the rest.
func generateRoles(numPlayers int) []models.Role {
	numWolves := numPlayers / 5 // floor(0.2 * n)
	if numWolves < 1 {
		numWolves = 1
	}
	numCivilians := numPlayers - numWolves - 1

	roles := make([]models.Role, 0, numPlayers)
	for i := 0; i < numWolves; i++ {
		roles = append(roles, models.Wolf)
	}
	roles = append(roles, models.Moderator)
	for i := 0; i < numCivilians; i++ {
		roles = append(roles, models.Civilian)
	}
	return roles
}

// generateName produces a random display name, regenerating until it does not
// collide with a name already in use.
func generateName(taken map[string]bool) string {
	for {
		name := fmt.Sprintf("%s %s",
			firstNames[rand.Intn(len(firstNames))],
			lastNames[rand.Intn(len(lastNames))])
		if !taken[name] {
			return name
		}
	}
}

// NewGameState builds the initial game state: validated player count,
// shuffled roles assigned to freshly generated unique names, day 1, voting
// disabled, and the speaker queue filled with every non-moderator.
func NewGameState(numPlayers int) (*GameState, error) {
	if numPlayers < MinPlayers || numPlayers > MaxPlayers {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPlayerCount, numPlayers)
	}

	roles := generateRoles(numPlayers)
	rand.Shuffle(len(roles), func(i, j int) {
		roles[i], roles[j] = roles[j], roles[i]
	})

	gs := &GameState{
		Phase:    models.PhaseDay,
		DayCount: 1,
		byName:   make(map[string]*models.Player, numPlayers),
	}

	taken := make(map[string]bool, numPlayers)
	for i, role := range roles {
		name := generateName(taken)
		taken[name] = true

		player := &models.Player{
			ID:    i,
			Name:  name,
			Role:  role,
			Alive: true,
		}
		gs.players = append(gs.players, player)
		gs.byName[name] = player
	}

	gs.RebuildSpeakerQueue()
	return gs, nil
}
