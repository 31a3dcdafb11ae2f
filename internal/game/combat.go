/*
Package game
File: combat.go
Description:
    Loop-side combat: enemy pursuit AI, projectile and explosion advancement,
    and collision resolution. All functions here operate on the simulation's
    working copies; nothing touches the store.
*/

package game

import (
	"fmt"
	"math"
	"math/rand"
)

// hostileShipNames label regular patrol spawns.
var hostileShipNames = []string{
	"Raider", "Marauder", "Cutthroat", "Vulture", "Reaver", "Jackal",
}

// NewHostileEnemy builds a regular patrol hostile from a random hull at
// reduced pools. Regulars fly unarmed-module ships: base weapon stats only.
func NewHostileEnemy(rng *rand.Rand, uni *Universe, factionID string) *Enemy {
	hull := uni.Hulls[rng.Intn(len(uni.Hulls))]
	name := fmt.Sprintf("%s %c-%d", hostileShipNames[rng.Intn(len(hostileShipNames))], 'A'+rng.Intn(26), rng.Intn(90)+10)
	return &Enemy{
		ID: NewID("enemy"),
		Ship: Ship{
			ID:         NewID("ship"),
			Name:       name,
			HullKey:    hull.Key,
			Position:   ringPosition(rng, AsteroidRingMin, AsteroidRingMax),
			Rotation:   rng.Float64() * 2 * math.Pi,
			Health:     hull.MaxHealth * 0.8,
			MaxHealth:  hull.MaxHealth * 0.8,
			Shields:    hull.MaxShields * 0.5,
			MaxShields: hull.MaxShields * 0.5,
			Energy:     hull.MaxEnergy,
			MaxEnergy:  hull.MaxEnergy,
			MaxCargo:   hull.MaxCargo,
			FactionID:  factionID,
			Signature:  hull.Signature,
		},
		AI: EnemyAI{Behavior: BehaviorAggressive},
	}
}

// stepEnemy advances one enemy by one tick: pursuit steering, flight
// physics, pool regeneration, and a Bernoulli fire roll. Returns the
// projectile fired this tick, or nil.
//
// The fire roll is per-tick on purpose (not a cooldown): at 60 Hz the
// statistical rate is EnemyFireChance*60 shots per second, which tests pin
// down directly.
func stepEnemy(rng *rand.Rand, e *Enemy, player *Ship, playerInPlay bool, dt float64) *Projectile {
	dist := e.Ship.Position.Distance(player.Position)

	input := PlayerInput{TargetAngle: e.Ship.Rotation}
	engaged := playerInPlay && dist <= EnemyEngagementRange
	if engaged {
		// Face the player; burn until inside the standoff band.
		input.TargetAngle = player.Position.Sub(e.Ship.Position).Angle()
		input.IsThrusting = dist > EnemyStandoffDistance
	}

	h := hostileHandling
	if e.IsBountyTarget {
		h = eliteHandling
	}
	StepShipWith(&e.Ship, input, dt, h)
	RegenPools(&e.Ship, dt)

	if !engaged || dist > EnemyFireRange {
		return nil
	}
	damage, cost, speed := e.Ship.WeaponStats()
	if e.Ship.Energy < cost {
		return nil
	}
	if rng.Float64() >= EnemyFireChance {
		return nil
	}

	e.Ship.Energy -= cost
	dir := player.Position.Sub(e.Ship.Position).Normalize()
	return &Projectile{
		ID:       NewID("proj"),
		Position: e.Ship.Position,
		Velocity: dir.Scale(speed),
		Life:     ProjectileLife,
		Damage:   damage,
		OwnerID:  e.Ship.ID,
	}
}

// advanceProjectiles integrates positions by velocity*dt and expires spent
// shots. Projectile velocity is stored in units per second.
func advanceProjectiles(list []*Projectile, dt float64) []*Projectile {
	alive := list[:0]
	for _, p := range list {
		p.Position = p.Position.Add(p.Velocity.Scale(dt))
		p.Life -= dt
		if p.Life > 0 {
			alive = append(alive, p)
		}
	}
	return alive
}

// advanceExplosions decays life while growing scale, and culls the spent.
func advanceExplosions(list []*Explosion, dt float64) []*Explosion {
	alive := list[:0]
	for _, e := range list {
		e.Life -= dt
		if e.Life <= 0 {
			continue
		}
		e.Scale = 1 + (ExplosionGrowScale-1)*(1-e.Life/ExplosionLife)
		alive = append(alive, e)
	}
	return alive
}

// collisionResult is what one resolution pass produced.
type collisionResult struct {
	enemies        []*Enemy     // Survivors
	newExplosions  []*Explosion // Spawned at hit positions
	destroyedIDs   []string     // Enemy IDs destroyed this tick
	destroyedCount int          // Same, as a count (every enemy is hostile)
	playerHit      bool         // Player took at least one hit
}

// resolveCollisions tests player-owned shots against enemies and enemy-owned
// shots against the player. A hit zeroes the projectile's life (the next
// advance pass culls it), routes damage through shields, and spawns an
// explosion at the target. Destroyed enemies drop out of the working set;
// the player is never removed, only driven to zero health.
func resolveCollisions(projectiles []*Projectile, player *Ship, enemies []*Enemy, playerInPlay bool) collisionResult {
	res := collisionResult{enemies: enemies}

	for _, p := range projectiles {
		if p.Life <= 0 {
			continue
		}
		if p.OwnerID == player.ID {
			for _, e := range res.enemies {
				if e.Ship.IsDestroyed() {
					continue
				}
				if p.Position.Distance(e.Ship.Position) > ProjectileHitRadius {
					continue
				}
				p.Life = 0
				ApplyDamage(&e.Ship, p.Damage)
				res.newExplosions = append(res.newExplosions, newExplosion(e.Ship.Position))
				if e.Ship.IsDestroyed() {
					res.destroyedIDs = append(res.destroyedIDs, e.ID)
					res.destroyedCount++
				}
				break
			}
			continue
		}

		// Enemy shot: only the player is a valid target, and only while
		// flying (a docked ship is inside the station).
		if !playerInPlay {
			continue
		}
		if p.Position.Distance(player.Position) > ProjectileHitRadius {
			continue
		}
		p.Life = 0
		ApplyDamage(player, p.Damage)
		res.newExplosions = append(res.newExplosions, newExplosion(player.Position))
		res.playerHit = true
	}

	// Compact the survivors.
	survivors := res.enemies[:0]
	for _, e := range res.enemies {
		if !e.Ship.IsDestroyed() {
			survivors = append(survivors, e)
		}
	}
	res.enemies = survivors
	return res
}

// newExplosion seeds the cosmetic blast at a hit position.
func newExplosion(at Vector2) *Explosion {
	return &Explosion{
		ID:       NewID("exp"),
		Position: at,
		Life:     ExplosionLife,
		Scale:    1,
	}
}
