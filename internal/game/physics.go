/*
Package game
File: physics.go
Description:
    Pure ship kinematics. StepShip has no dependencies on the store or the
    loop; it mutates exactly one ship from one input frame, so its behaviour
    is pinned down entirely by table tests.
*/

package game

import "math"

// Handling groups the flight characteristics one ship steps with. The
// player and regular hostiles fly fixed profiles; bounty elites get a hotter
// engine and a slicker airframe.
type Handling struct {
	ThrustAccel float64 // Added along facing per tick while thrusting
	MaxSpeed    float64 // Velocity clamp, units per tick
	Drag        float64 // Per-tick velocity multiplier, <1
}

// PlayerHandling is the profile StepShip applies.
var PlayerHandling = Handling{ThrustAccel: ThrustAccel, MaxSpeed: MaxSpeed, Drag: DragFactor}

// hostileHandling keeps regular enemies slightly slower than the player so
// running away stays viable.
var hostileHandling = Handling{ThrustAccel: EnemyThrustAccel, MaxSpeed: EnemyMaxSpeed, Drag: DragFactor}

// eliteHandling is the bounty-target profile.
var eliteHandling = Handling{ThrustAccel: EnemyThrustAccel * 1.5, MaxSpeed: EnemyMaxSpeed * 1.3, Drag: 0.995}

// StepShip advances the player's ship by one tick of flight physics. dt is
// wall-clock seconds for this tick; step = dt*TickRate normalizes it to tick
// units (exactly 1.0 at a healthy 60 Hz) so a late tick flies the same
// trajectory scaled, never a different one.
func StepShip(ship *Ship, input PlayerInput, dt float64) {
	StepShipWith(ship, input, dt, PlayerHandling)
}

// StepShipWith runs the fixed pipeline with an explicit handling profile.
//
// Order matters and is fixed:
//  1. Rotate toward the input target angle (shortest path, proportional).
//  2. Thrust along the *new* facing if the input holds thrust.
//  3. Apply drag.
//  4. Clamp speed.
//  5. Integrate position.
func StepShipWith(ship *Ship, input PlayerInput, dt float64, h Handling) {
	step := dt * TickRate

	// 1. Rotate: close a fixed fraction of the remaining angle each tick.
	// AngleDelta is signed shortest-path, so 359° -> 1° turns through 0°.
	delta := AngleDelta(ship.Rotation, input.TargetAngle)
	ship.Rotation = NormalizeAngle(ship.Rotation + delta*RotationLerp*step)

	// 2. Thrust along the updated facing.
	if input.IsThrusting {
		ship.Velocity = ship.Velocity.Add(FromAngle(ship.Rotation).Scale(h.ThrustAccel * step))
	}

	// 3. Drag bleeds velocity multiplicatively whether thrusting or not.
	ship.Velocity = ship.Velocity.Scale(dragOver(h.Drag, step))

	// 4. Clamp so sustained thrust tops out at MaxSpeed, not at the
	// drag-determined terminal velocity.
	ship.Velocity = ship.Velocity.ClampLength(h.MaxSpeed)

	// 5. Integrate. Velocity is stored in units-per-tick.
	ship.Position = ship.Position.Add(ship.Velocity.Scale(step))
}

// dragOver scales the per-tick drag to the actual step so a 2-tick-long dt
// bleeds the same speed two normal ticks would. At step==1.0 this is exactly
// the profile's Drag.
func dragOver(drag, step float64) float64 {
	return math.Pow(drag, step)
}

// RegenPools restores energy and shields at their per-second rates, capped
// at the maxima. Runs for both the player and enemies.
func RegenPools(ship *Ship, dt float64) {
	ship.Energy += EnergyRegenPerSecond * dt
	if ship.Energy > ship.MaxEnergy {
		ship.Energy = ship.MaxEnergy
	}
	ship.Shields += ShieldRegenPerSecond * dt
	if ship.Shields > ship.MaxShields {
		ship.Shields = ship.MaxShields
	}
}

// ApplyDamage routes damage through shields first, spilling the remainder
// into hull. Pools never go negative. Returns true when the hull is gone.
func ApplyDamage(ship *Ship, amount float64) bool {
	if amount <= 0 {
		return ship.Health <= 0
	}
	if ship.Shields > 0 {
		if ship.Shields >= amount {
			ship.Shields -= amount
			return false
		}
		amount -= ship.Shields
		ship.Shields = 0
	}
	ship.Health -= amount
	if ship.Health < 0 {
		ship.Health = 0
	}
	return ship.Health <= 0
}
