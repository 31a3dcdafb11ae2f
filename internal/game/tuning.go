/*
Package game
File: tuning.go
Description:
    Centralizes every per-tick simulation constant in one place so the
    relationships between them stay visible. universe.yaml holds content
    (hulls, commodities, factions); this file holds the simulation's pulse.
*/

package game

import "time"

// Simulation cadence.
const (
	// TickRate is the fixed simulation frequency. All per-tick constants
	// below assume this rate; physics scales by dt*TickRate so a late tick
	// integrates the same trajectory.
	TickRate = 60.0

	// TickInterval is the loop's target period (~16.67ms).
	TickInterval = time.Second / 60

	// MaxDeltaTime caps the dt handed to one tick. A stall longer than this
	// (debugger, GC pause, laptop sleep) slows the game down instead of
	// teleporting everything forward.
	MaxDeltaTime = 100 * time.Millisecond

	// SyncInterval is the minimum spacing between store syncs. Between
	// syncs the loop simulates on its working copy only.
	SyncInterval = 100 * time.Millisecond

	// EconomyInterval spaces out market drift pulses.
	EconomyInterval = 5 * time.Second
)

// Ship handling. Velocity is stored in units-per-tick; positions integrate
// as position += velocity * (dt * TickRate).
const (
	// RotationLerp is the per-tick fraction of the remaining angle to the
	// input target the ship turns through (shortest path).
	RotationLerp = 0.12

	// ThrustAccel is added along the facing vector each tick while thrusting.
	ThrustAccel = 0.12

	// DragFactor multiplies velocity every tick. With ThrustAccel above,
	// terminal velocity would be ~11.9 u/tick, so MaxSpeed is the binding
	// limit under sustained thrust.
	DragFactor = 0.99

	// MaxSpeed clamps the velocity magnitude (units per tick).
	MaxSpeed = 4.0
)

// Pool regeneration, per second.
const (
	EnergyRegenPerSecond = 4.0
	ShieldRegenPerSecond = 1.5
)

// Weapons. Module bonuses in universe.yaml stack on top of these bases.
const (
	BaseWeaponDamage     = 20.0
	BaseWeaponEnergyCost = 10.0
	BaseProjectileSpeed  = 300.0 // Units per second (projectiles integrate by dt)
	ProjectileLife       = 1.5   // Seconds until a shot despawns
	ProjectileHitRadius  = 18.0  // Ship collision radius against projectiles
)

// Explosions.
const (
	ExplosionLife      = 0.8 // Seconds
	ExplosionGrowScale = 3.0 // Scale reached as life hits zero
)

// Enemy AI.
const (
	// EnemyEngagementRange is how far an aggressive enemy notices the player.
	EnemyEngagementRange = 650.0

	// EnemyFireRange gates enemy shots.
	EnemyFireRange = 380.0

	// EnemyFireChance is the per-tick Bernoulli probability an in-range
	// enemy fires. At 60 Hz this averages ~1.2 shots per second.
	EnemyFireChance = 0.02

	// EnemyThrustAccel and EnemyMaxSpeed keep hostiles slightly slower than
	// the player so running away stays viable.
	EnemyThrustAccel = 0.09
	EnemyMaxSpeed    = 3.2

	// EnemyStandoffDistance is how close an aggressive enemy tries to get
	// before it stops burning toward the player.
	EnemyStandoffDistance = 220.0
)

// Interaction and docking distances.
const (
	// InteractionRadius is the reach of INTERACT objectives and world-object
	// repairs.
	InteractionRadius = 50.0

	// DockingRange is how close the ship must be to a station to dock.
	DockingRange = 120.0

	// MiningRange is how close the ship must be to an asteroid's surface
	// (Size-adjusted) to mine it.
	MiningRange = 40.0
)

// Mining. Each action extracts exactly one unit and chips the rock.
const (
	MiningDamagePerAction = 10.0
)

// Jump travel.
const (
	JumpFuelCost = 10.0
)

// Station services. Repair bills the hull deficit at 2 credits per point;
// refuel bills the fuel deficit at 1 credit per unit.
const (
	RepairCostPerPoint = 2.0
	RefuelCostPerUnit  = 1.0
)

// Missions.
const (
	MaxActiveMissions = 5

	// AbandonReputationPenalty is the flat hit for walking away from a job,
	// regardless of what the mission itself would have paid in standing.
	AbandonReputationPenalty = 2
)

// Reputation thresholds for Faction.Attitude.
const (
	HostileReputationCeiling = -20
	FriendlyReputationFloor  = 20
)

// Galaxy generation. The generator consumes a seeded *rand.Rand, so all of
// these shape a deterministic layout per seed.
const (
	GalaxySystemCount = 12

	// Systems are placed on a jittered polar ring between these radii.
	GalaxyRadiusMin = 400.0
	GalaxyRadiusMax = 1400.0

	// Candidate edges shorter than this get a coin flip at this probability.
	EdgeDistanceMax   = 900.0
	EdgeProbability   = 0.5
	GateReplaceChance = 0.15 // Chance a rolled edge becomes a damaged gate instead

	StationsPerSystemMin  = 1
	StationsPerSystemMax  = 3
	AsteroidsPerSystemMin = 4
	AsteroidsPerSystemMax = 10

	// Station and asteroid orbital rings (distance from system origin).
	StationRingMin  = 150.0
	StationRingMax  = 400.0
	AsteroidRingMin = 200.0
	AsteroidRingMax = 800.0

	AsteroidSizeMin = 8.0
	AsteroidSizeMax = 20.0

	// AsteroidResourceChance is the probability a rock holds any resources.
	AsteroidResourceChance = 0.8

	MissionsPerStationMin = 2
	MissionsPerStationMax = 5

	// MarketAvailability is the chance a non-contraband commodity is listed
	// at a station; listed prices vary around base by PriceVariance.
	MarketAvailability = 0.6
	PriceVariance      = 0.3

	// BrokenRelayChance is the chance a system (outside the start) hosts a
	// broken relay world object.
	BrokenRelayChance = 0.2

	// NeighborDiscoveryChance reveals some systems adjacent to the start at
	// generation time.
	NeighborDiscoveryChance = 0.3
)

// Enemy spawning.
const (
	HostileSpawnMin = 1
	HostileSpawnMax = 3
)

// Sync materiality thresholds: the loop publishes only when some working
// value drifted at least this far from the authoritative copy.
const (
	SyncPosEpsilon  = 0.5
	SyncVelEpsilon  = 0.05
	SyncRotEpsilon  = 0.01
	SyncPoolEpsilon = 0.5
)

// Economy drift bounds (applied on the EconomyInterval pulse).
const (
	PriceDriftMax  = 0.04 // Max fractional price move per pulse
	PriceFloorMult = 0.4  // Prices never drift below base * this
	PriceCeilMult  = 2.5  // ... or above base * this
	SupplyDriftMax = 3    // Max units of supply/demand drift per pulse
)
