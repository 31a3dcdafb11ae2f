/*
Package game
File: models.go
Description:
    Defines all data structures (Structs) used throughout the Stellar Drift universe.
    This file serves as the "schema" for the simulation, mapping directly to
    YAML reference tables and JSON API/WebSocket payloads.

    No logic is performed here beyond small accessors on the types themselves;
    generation, simulation and mutation live in their own files.
*/

package game

import (
	"fmt"
	"sync/atomic"
)

// ---------------------------------------------------------------------------
// Static reference data (loaded from universe.yaml, immutable after boot)
// ---------------------------------------------------------------------------

// GameBalance stores global tuning variables loaded from 'universe.yaml'.
// These values control the new-game setup rather than per-tick simulation
// (per-tick constants live in tuning.go so tests can reference them directly).
type GameBalance struct {
	StartingCredits int    `yaml:"starting_credits" json:"starting_credits"` // Credits given at game start
	StartingHull    string `yaml:"starting_hull" json:"starting_hull"`       // Hull key the player begins with
	StartingWeapon  string `yaml:"starting_weapon" json:"starting_weapon"`   // Weapon module key equipped at start
}

// ShipHull is the static chassis definition a Ship is built from.
type ShipHull struct {
	Key         string  `yaml:"key" json:"key"`                   // Unique ID (e.g., "hull_wayfarer")
	Name        string  `yaml:"name" json:"name"`                 // Display name
	MaxHealth   float64 `yaml:"max_health" json:"max_health"`     // Hull points
	MaxShields  float64 `yaml:"max_shields" json:"max_shields"`   // Shield points (absorb damage first)
	MaxEnergy   float64 `yaml:"max_energy" json:"max_energy"`     // Weapon/system energy pool
	MaxFuel     float64 `yaml:"max_fuel" json:"max_fuel"`         // Jump fuel capacity
	MaxCargo    int     `yaml:"max_cargo" json:"max_cargo"`       // Total cargo units
	ModuleSlots int     `yaml:"module_slots" json:"module_slots"` // Non-weapon module capacity
	Signature   float64 `yaml:"signature" json:"signature"`       // Sensor footprint
}

// ShipModule represents an installable upgrade.
// Weapon modules are a special case: they never consume a slot and buying a
// new one replaces the currently equipped weapon outright.
type ShipModule struct {
	Key         string  `yaml:"key" json:"key"`                   // Unique ID (e.g., "mod_pulse_cannon")
	Name        string  `yaml:"name" json:"name"`                 // Display name
	Type        string  `yaml:"type" json:"type"`                 // "weapon", "cargo", "shield", "engine"
	Cost        int     `yaml:"cost" json:"cost"`                 // Purchase price in Credits
	DamageBonus float64 `yaml:"damage_bonus" json:"damage_bonus"` // Weapon: added to base projectile damage
	SpeedBonus  float64 `yaml:"speed_bonus" json:"speed_bonus"`   // Weapon: added to base projectile speed
	EnergyCost  float64 `yaml:"energy_cost" json:"energy_cost"`   // Weapon: added to base energy per shot
	CargoBonus  int     `yaml:"cargo_bonus" json:"cargo_bonus"`   // Cargo: added to max cargo
	ShieldBonus float64 `yaml:"shield_bonus" json:"shield_bonus"` // Shield: added to max shields
}

// Commodity represents a tradeable good.
type Commodity struct {
	Key        string  `yaml:"key" json:"key"`               // Unique ID (e.g., "item_titanium")
	Name       string  `yaml:"name" json:"name"`             // Display name
	BasePrice  float64 `yaml:"base_price" json:"base_price"` // Baseline price before market variance
	Mineable   bool    `yaml:"mineable" json:"mineable"`     // Can appear inside asteroids
	Contraband bool    `yaml:"contraband" json:"contraband"` // Smuggling cargo (never listed on markets)
}

// FactionDef is the static half of a faction; runtime reputation lives on Faction.
type FactionDef struct {
	Key        string `yaml:"key" json:"key"`               // Unique ID (e.g., "crimson_syndicate")
	Name       string `yaml:"name" json:"name"`             // Display name
	Color      string `yaml:"color" json:"color"`           // UI hint (hex string)
	Reputation int    `yaml:"reputation" json:"reputation"` // Starting reputation with the player
}

// Universe is the root reference-data struct, mapping to the entire 'universe.yaml' file.
type Universe struct {
	Balance         GameBalance  `yaml:"game_balance" json:"game_balance"`
	Hulls           []ShipHull   `yaml:"ship_hulls" json:"ship_hulls"`
	Modules         []ShipModule `yaml:"ship_modules" json:"ship_modules"`
	Commodities     []Commodity  `yaml:"commodities" json:"commodities"`
	Factions        []FactionDef `yaml:"factions" json:"factions"`
	SystemNames     []string     `yaml:"system_names" json:"system_names"`
	StationTypes    []string     `yaml:"station_types" json:"station_types"`
	RepairMaterials []string     `yaml:"repair_materials" json:"repair_materials"` // Commodity keys gates/relays demand
}

// HullByKey looks a chassis up by key, nil when absent.
func (u *Universe) HullByKey(key string) *ShipHull {
	for i := range u.Hulls {
		if u.Hulls[i].Key == key {
			return &u.Hulls[i]
		}
	}
	return nil
}

// ModuleByKey looks a module up by key, nil when absent.
func (u *Universe) ModuleByKey(key string) *ShipModule {
	for i := range u.Modules {
		if u.Modules[i].Key == key {
			return &u.Modules[i]
		}
	}
	return nil
}

// CommodityByKey looks a commodity up by key, nil when absent.
func (u *Universe) CommodityByKey(key string) *Commodity {
	for i := range u.Commodities {
		if u.Commodities[i].Key == key {
			return &u.Commodities[i]
		}
	}
	return nil
}

// MineableCommodities returns the subset of goods asteroids may contain.
func (u *Universe) MineableCommodities() []Commodity {
	var out []Commodity
	for _, c := range u.Commodities {
		if c.Mineable {
			out = append(out, c)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Runtime world model
// ---------------------------------------------------------------------------

// CargoItem is one stack of a commodity inside a cargo hold or asteroid.
type CargoItem struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// Ship is a vessel, the player's or an enemy's. Kinematic fields
// (Position/Velocity/Rotation) are in system-local coordinates and are owned
// by the simulation loop between syncs; everything else is owned by the store.
type Ship struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	HullKey     string       `json:"hull_key"` // Reference into Universe.Hulls
	Position    Vector2      `json:"position"` // System-local coordinates
	Velocity    Vector2      `json:"velocity"` // Units per tick (see physics.go)
	Rotation    float64      `json:"rotation"` // Radians
	Health      float64      `json:"health"`   // Invariant: 0 <= Health <= MaxHealth
	MaxHealth   float64      `json:"max_health"`
	Shields     float64      `json:"shields"` // Absorb damage before Health
	MaxShields  float64      `json:"max_shields"`
	Energy      float64      `json:"energy"` // Spent by weapons, regenerates over time
	MaxEnergy   float64      `json:"max_energy"`
	Fuel        float64      `json:"fuel"` // Spent by jumps
	MaxFuel     float64      `json:"max_fuel"`
	Cargo       []CargoItem  `json:"cargo"` // Quantity-summed stacks, capped by MaxCargo
	MaxCargo    int          `json:"max_cargo"`
	Modules     []ShipModule `json:"modules"`      // Installed upgrades (weapon never consumes a slot)
	ModuleSlots int          `json:"module_slots"` // Capacity for non-weapon modules
	FactionID   string       `json:"faction_id"`
	Signature   float64      `json:"signature"` // Sensor footprint
}

// UsedModuleSlots counts installed non-weapon modules against ModuleSlots.
func (s *Ship) UsedModuleSlots() int {
	used := 0
	for _, m := range s.Modules {
		if m.Type != ModuleTypeWeapon {
			used++
		}
	}
	return used
}

// IsDestroyed reports whether the hull is gone.
func (s *Ship) IsDestroyed() bool {
	return s.Health <= 0
}

// TotalCargo sums the quantities of every stack on board.
func (s *Ship) TotalCargo() int {
	total := 0
	for _, c := range s.Cargo {
		total += c.Quantity
	}
	return total
}

// CargoQuantity returns how many units of one item are on board.
func (s *Ship) CargoQuantity(itemID string) int {
	for _, c := range s.Cargo {
		if c.ItemID == itemID {
			return c.Quantity
		}
	}
	return 0
}

// AddCargo stacks quantity onto an existing item (or appends a new stack).
// Returns false and leaves the hold untouched when the addition would exceed
// MaxCargo; capacity rejection is a normal game outcome, not an error.
func (s *Ship) AddCargo(itemID string, quantity int) bool {
	if quantity <= 0 {
		return false
	}
	if s.TotalCargo()+quantity > s.MaxCargo {
		return false
	}
	for i := range s.Cargo {
		if s.Cargo[i].ItemID == itemID {
			s.Cargo[i].Quantity += quantity
			return true
		}
	}
	s.Cargo = append(s.Cargo, CargoItem{ItemID: itemID, Quantity: quantity})
	return true
}

// RemoveCargo takes quantity units of an item out of the hold. Returns false
// (no mutation) when the hold has fewer than requested. Emptied stacks are
// dropped so quantities never go negative.
func (s *Ship) RemoveCargo(itemID string, quantity int) bool {
	if quantity <= 0 {
		return false
	}
	for i := range s.Cargo {
		if s.Cargo[i].ItemID == itemID {
			if s.Cargo[i].Quantity < quantity {
				return false
			}
			s.Cargo[i].Quantity -= quantity
			if s.Cargo[i].Quantity == 0 {
				s.Cargo = append(s.Cargo[:i], s.Cargo[i+1:]...)
			}
			return true
		}
	}
	return false
}

// EquippedWeapon returns the installed weapon module, nil when flying unarmed.
func (s *Ship) EquippedWeapon() *ShipModule {
	for i := range s.Modules {
		if s.Modules[i].Type == ModuleTypeWeapon {
			return &s.Modules[i]
		}
	}
	return nil
}

// WeaponStats folds the equipped weapon's bonuses onto the base weapon
// numbers. With no weapon installed the baseline applies unchanged.
func (s *Ship) WeaponStats() (damage, energyCost, speed float64) {
	damage = BaseWeaponDamage
	energyCost = BaseWeaponEnergyCost
	speed = BaseProjectileSpeed
	if w := s.EquippedWeapon(); w != nil {
		damage += w.DamageBonus
		energyCost += w.EnergyCost
		speed += w.SpeedBonus
	}
	return damage, energyCost, speed
}

// Star is the descriptor of a system's primary body.
type Star struct {
	Class string `json:"class"` // Spectral class letter ("G", "K", "M", ...)
	Color string `json:"color"` // UI hint
}

// StarSystem is one node of the galaxy graph.
// Invariant: once generation finishes, every system is reachable from the
// starting system by following Connections (undirected, stored on both ends).
type StarSystem struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Position     Vector2        `json:"position"` // Galaxy-map coordinates
	Star         Star           `json:"star"`
	Stations     []*Station     `json:"stations"`
	Asteroids    []*Asteroid    `json:"asteroids"`
	WorldObjects []*WorldObject `json:"world_objects"`
	Connections  []string       `json:"connections"` // Neighbour system IDs
	Discovered   bool           `json:"discovered"`
	FactionID    string         `json:"faction_id"` // Controlling faction
}

// Connected reports whether id is a direct jump neighbour of the system.
func (s *StarSystem) Connected(id string) bool {
	for _, c := range s.Connections {
		if c == id {
			return true
		}
	}
	return false
}

// MarketEntry is a single commodity listing at a station.
type MarketEntry struct {
	Price  float64 `json:"price"`
	Supply int     `json:"supply"`
	Demand int     `json:"demand"`
}

// Station is a dockable trade/mission hub inside a system.
type Station struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	Position  Vector2                 `json:"position"`
	Type      string                  `json:"type"` // One of Universe.StationTypes
	FactionID string                  `json:"faction_id"`
	Market    map[string]*MarketEntry `json:"market"`   // Commodity key -> listing
	Missions  []*Mission              `json:"missions"` // Station-scoped job board
}

// Asteroid is a mineable rock. Removed from its system once Health <= 0.
type Asteroid struct {
	ID        string      `json:"id"`
	Position  Vector2     `json:"position"`
	Size      float64     `json:"size"`   // Collision/mining radius
	Health    float64     `json:"health"` // 2x Size at generation
	Resources []CargoItem `json:"resources"`
}

// World object variants. Tagged by Type and handled exhaustively at the
// interaction switch; adding a variant means touching that switch.
const (
	WorldObjectDamagedJumpGate = "DamagedJumpGate"
	WorldObjectBrokenRelay     = "BrokenRelay"
)

// World object statuses.
const (
	WorldObjectStatusDamaged     = "DAMAGED"
	WorldObjectStatusOperational = "OPERATIONAL"
)

// RequiredItem tracks one material needed to repair a world object.
type RequiredItem struct {
	ItemID   string `json:"item_id"`
	Required int    `json:"required"`
	Supplied int    `json:"supplied"`
}

// WorldObject is a repairable installation: a damaged jump gate standing in
// for a galaxy edge, or a broken relay blocking a system service. Gates
// record the edge they block; repairing one adds the connection to both ends.
type WorldObject struct {
	ID            string         `json:"id"`
	Type          string         `json:"type"` // WorldObjectDamagedJumpGate | WorldObjectBrokenRelay
	Position      Vector2        `json:"position"`
	Status        string         `json:"status"` // DAMAGED | OPERATIONAL
	RequiredItems []RequiredItem `json:"required_items"`
	LinkFrom      string         `json:"link_from,omitempty"` // Gate only: blocked edge endpoint
	LinkTo        string         `json:"link_to,omitempty"`   // Gate only: blocked edge endpoint
}

// Repaired reports whether every required material has been fully supplied.
func (w *WorldObject) Repaired() bool {
	for _, r := range w.RequiredItems {
		if r.Supplied < r.Required {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// Missions
// ---------------------------------------------------------------------------

// Mission lifecycle states.
const (
	MissionAvailable        = "AVAILABLE"
	MissionActive           = "ACTIVE"
	MissionCompletedSuccess = "COMPLETED_SUCCESS"
	MissionCompletedFailure = "COMPLETED_FAILURE"
	MissionAbandoned        = "ABANDONED"
)

// Mission archetypes. The first five seed station boards at galaxy
// generation; the last four are proposed at runtime when their
// preconditions hold.
const (
	MissionTypeDelivery    = "delivery"
	MissionTypeCombat      = "combat"
	MissionTypeMining      = "mining"
	MissionTypeExploration = "exploration"
	MissionTypeEscort      = "escort"
	MissionTypeBounty      = "bounty"
	MissionTypeRepair      = "repair"
	MissionTypeEspionage   = "espionage"
	MissionTypeSmuggling   = "smuggling"
)

// Objective types. SCAN, ESCORT and FOLLOW are declared variants whose
// evaluation is a stub; they round-trip through the API but never progress.
const (
	ObjectiveTravel   = "TRAVEL"
	ObjectiveKill     = "KILL"
	ObjectiveGather   = "GATHER"
	ObjectiveInteract = "INTERACT"
	ObjectiveScan     = "SCAN"
	ObjectiveEscort   = "ESCORT"
	ObjectiveFollow   = "FOLLOW"
)

// MissionObjective is one ordered step of a mission. Only the objective at
// Mission.CurrentObjective is evaluated each pass.
type MissionObjective struct {
	ID           string      `json:"id"`
	Type         string      `json:"type"`
	Description  string      `json:"description"`
	TargetID     string      `json:"target_id"`    // System/station/object/enemy id ("" = any hostile, for KILL)
	TargetCount  int         `json:"target_count"` // Units to gather / kills required
	Progress     int         `json:"progress"`
	IsComplete   bool        `json:"is_complete"`
	IsHidden     bool        `json:"is_hidden"`               // Hidden until the previous objective completes
	GrantItems   []CargoItem `json:"grant_items,omitempty"`   // Granted on completion (smuggling pickup)
	ConsumeItems []CargoItem `json:"consume_items,omitempty"` // Must be held and are removed on completion (hand-over)
}

// Mission is a job offered on a station board, accepted into the player's
// active list (capped at MaxActiveMissions) and advanced strictly in
// objective order. Turn-in is explicit: finishing the last objective makes
// the mission *ready*; CompleteMission pays it out.
type Mission struct {
	ID               string              `json:"id"`
	Title            string              `json:"title"`
	Type             string              `json:"type"` // Mission archetype key
	Status           string              `json:"status"`
	SourceFactionID  string              `json:"source_faction_id"`
	SourceStationID  string              `json:"source_station_id"`
	Objectives       []*MissionObjective `json:"objectives"`
	CurrentObjective int                 `json:"current_objective_index"`
	RewardCredits    int                 `json:"reward_credits"`
	RewardItems      []CargoItem         `json:"reward_items,omitempty"`
	ReputationChange map[string]int      `json:"reputation_change"`       // Faction key -> delta on completion
	GrantedCargo     []CargoItem         `json:"granted_cargo,omitempty"` // Mission cargo stripped on abandon
	BountyTarget     *Enemy              `json:"-"`                       // Bounty only: spawned on arrival
	BountySystemID   string              `json:"bounty_system_id,omitempty"`
}

// ReadyForTurnIn reports whether every objective is complete and the mission
// is still active (rewards not yet applied).
func (m *Mission) ReadyForTurnIn() bool {
	if m.Status != MissionActive {
		return false
	}
	for _, o := range m.Objectives {
		if !o.IsComplete {
			return false
		}
	}
	return len(m.Objectives) > 0
}

// BountyPending reports whether this mission's bounty target still needs to
// be spawned on arrival: the mission is active and the kill naming the
// target is not yet done. The working-copy model means the stored target's
// own health never moves, so the objective is the source of truth.
func (m *Mission) BountyPending() bool {
	if m.Status != MissionActive || m.BountyTarget == nil {
		return false
	}
	for _, o := range m.Objectives {
		if o.Type == ObjectiveKill && o.TargetID == m.BountyTarget.ID {
			return !o.IsComplete
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Dynamic combat entities (owned by the simulation loop between syncs)
// ---------------------------------------------------------------------------

// Enemy AI behaviours.
const (
	BehaviorAggressive = "aggressive"
	BehaviorPatrol     = "patrol"
)

// EnemyAI is the per-enemy brain state consulted every tick.
type EnemyAI struct {
	Behavior string `json:"behavior"`
	TargetID string `json:"target_id"` // Currently always the player
}

// Enemy wraps an owned Ship with AI state. Bounty targets are elite variants
// with boosted stats spawned by bounty missions.
type Enemy struct {
	ID             string  `json:"id"`
	Ship           Ship    `json:"ship"`
	AI             EnemyAI `json:"ai"`
	IsBountyTarget bool    `json:"is_bounty_target"`
}

// Projectile is a live shot. Life counts down in seconds; expired projectiles
// are culled by the loop. OwnerID excludes the firer from its own hits.
type Projectile struct {
	ID       string  `json:"id"`
	Position Vector2 `json:"position"`
	Velocity Vector2 `json:"velocity"` // Units per second
	Life     float64 `json:"life"`     // Seconds remaining
	Damage   float64 `json:"damage"`
	OwnerID  string  `json:"owner_id"`
}

// Explosion is purely cosmetic: it grows while its life decays, then vanishes.
type Explosion struct {
	ID       string  `json:"id"`
	Position Vector2 `json:"position"`
	Life     float64 `json:"life"`  // Seconds remaining
	Scale    float64 `json:"scale"` // Grows as Life decays
}

// Faction is the runtime view of a faction: static identity plus the player's
// current standing with it.
type Faction struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Reputation int    `json:"reputation"`
}

// Faction attitudes, derived from reputation.
const (
	AttitudeHostile  = "hostile"
	AttitudeNeutral  = "neutral"
	AttitudeFriendly = "friendly"
)

// Attitude derives the faction's stance toward the player from reputation.
func (f *Faction) Attitude() string {
	switch {
	case f.Reputation <= HostileReputationCeiling:
		return AttitudeHostile
	case f.Reputation >= FriendlyReputationFloor:
		return AttitudeFriendly
	default:
		return AttitudeNeutral
	}
}

// PlayerInput is the normalized raw input the core receives from the
// presentation layer: a pointer-derived target angle plus a thrust-held flag.
// Device mapping happens upstream; the simulation only ever sees these two.
type PlayerInput struct {
	TargetAngle float64 `json:"target_angle"` // Radians
	IsThrusting bool    `json:"is_thrusting"`
}

// Module type tags.
const (
	ModuleTypeWeapon = "weapon"
	ModuleTypeCargo  = "cargo"
	ModuleTypeShield = "shield"
	ModuleTypeEngine = "engine"
)

// Game modes (what view the presentation layer should be showing).
const (
	ModeSystem  = "system"  // Flying inside a star system
	ModeStation = "station" // Docked at a station
)

// ---------------------------------------------------------------------------
// Identifiers
// ---------------------------------------------------------------------------

// idCounter backs NewID. A process-wide monotonic counter guarantees
// galaxy-wide ID uniqueness without coordinating the generators.
var idCounter atomic.Uint64

// NewID mints a unique identifier with a readable prefix ("sys-12", "stn-40").
func NewID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, idCounter.Add(1))
}
