/*
Package game
File: state.go
Description:
    The authoritative game state and its ownership rules.

    State is the single source of truth the API reads and player actions
    mutate. The simulation loop simulates on a private working copy and
    writes back at throttled sync points, so between syncs the externally
    observable state never changes under a reader's feet.

    Lock discipline: State.mu guards every field below it. Action methods
    (actions.go) take the write lock for their whole validate-then-mutate
    span. Snapshot (snapshot.go) takes the read lock and deep-copies, so
    callers can marshal the result without holding anything.
*/

package game

import (
	"fmt"
	"math/rand"
	"sync"
)

// State owns everything a save file would contain.
type State struct {
	mu sync.RWMutex

	// Immutable after NewGame.
	uni   *Universe
	seed  int64
	rng   *rand.Rand // Store-side randomness (spawns, proposals); guarded by mu
	start string     // Starting system ID

	// Galaxy. Systems and their contents (stations, markets, asteroids,
	// world objects, mission boards) are store-owned; the loop never
	// touches them.
	systems map[string]*StarSystem
	ordered []*StarSystem // Generation order, for deterministic walks

	// Player.
	player    *Ship
	credits   int
	missions  []*Mission // Accepted missions, all lifecycle states
	factions  map[string]*Faction
	currentID string // Current system ID
	mode      string // ModeSystem | ModeStation
	dockedAt  string // Station ID when mode == ModeStation
	input     PlayerInput
	gameOver  bool

	// Dynamic combat entities. The loop owns their evolution between
	// syncs; these slices hold the last published copies and are replaced
	// wholesale at sync (copy-on-write), never mutated in place.
	enemies     []*Enemy
	projectiles []*Projectile
	explosions  []*Explosion

	tick uint64 // Published tick counter

	// intents mirror any action's effect on loop-owned fields so the
	// working copy applies it at the next tick start instead of silently
	// clobbering it at the next sync.
	intents []intent
}

// intent kinds. Each mirrors one action's effect on loop-owned data.
type intentKind int

const (
	intentFire intentKind = iota
	intentSystemReset
	intentKinematics
	intentSetHealth
)

type intent struct {
	kind       intentKind
	projectile *Projectile // intentFire: working copy of the spawned shot
	energyCost float64     // intentFire
	position   Vector2     // intentKinematics
	velocity   Vector2     // intentKinematics
	rotation   float64     // intentKinematics
	health     float64     // intentSetHealth
}

// NewGame generates a fresh galaxy from seed and boots the player into the
// starting system. A galaxy with no start system or no starting station is a
// generation invariant failure and aborts the boot.
func NewGame(seed int64, uni *Universe) (*State, error) {
	rng := rand.New(rand.NewSource(seed))
	ordered, startID := GenerateGalaxy(rng, uni)

	systems := make(map[string]*StarSystem, len(ordered))
	for _, sys := range ordered {
		systems[sys.ID] = sys
	}
	start, ok := systems[startID]
	if !ok {
		return nil, fmt.Errorf("generation produced no starting system")
	}
	if len(start.Stations) == 0 {
		return nil, fmt.Errorf("starting system %s has no stations", start.Name)
	}

	factions := make(map[string]*Faction, len(uni.Factions))
	for _, def := range uni.Factions {
		factions[def.Key] = &Faction{
			ID:         def.Key,
			Name:       def.Name,
			Color:      def.Color,
			Reputation: def.Reputation,
		}
	}

	player := uni.NewPlayerShip()

	s := &State{
		uni:       uni,
		seed:      seed,
		rng:       rng,
		start:     startID,
		systems:   systems,
		ordered:   ordered,
		player:    &player,
		credits:   uni.Balance.StartingCredits,
		factions:  factions,
		currentID: startID,
		mode:      ModeSystem,
	}
	return s, nil
}

// Universe returns the immutable reference tables.
func (s *State) Universe() *Universe {
	return s.uni
}

// Seed returns the galaxy seed, so a session can be reported/reproduced.
func (s *State) Seed() int64 {
	return s.seed
}

// SetInput stores the latest normalized player input. The loop reads it at
// the next tick start; intermediate values between ticks are dropped on
// purpose (only the freshest input matters).
func (s *State) SetInput(input PlayerInput) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = input
}

// currentSystem returns the system the player is in. Caller must hold mu.
func (s *State) currentSystem() *StarSystem {
	return s.systems[s.currentID]
}

// stationByID finds a station in the current system. Caller must hold mu.
func (s *State) stationByID(id string) *Station {
	sys := s.currentSystem()
	if sys == nil {
		return nil
	}
	for _, st := range sys.Stations {
		if st.ID == id {
			return st
		}
	}
	return nil
}

// pushIntent appends to the mailbox. Caller must hold mu (write).
func (s *State) pushIntent(in intent) {
	s.intents = append(s.intents, in)
}

// drainIntents hands the pending intents to the loop and clears the mailbox.
// Caller must hold mu (write).
func (s *State) drainIntents() []intent {
	out := s.intents
	s.intents = nil
	return out
}
