package game

import (
	"math"
	"math/rand"
	"testing"
)

func TestAdvanceProjectilesIntegratesAndExpires(t *testing.T) {
	list := []*Projectile{
		{ID: "p-live", Velocity: Vector2{X: 300}, Life: 1.0},
		{ID: "p-spent", Velocity: Vector2{X: 300}, Life: 0.05},
	}
	out := advanceProjectiles(list, 0.1)

	if len(out) != 1 || out[0].ID != "p-live" {
		t.Fatalf("survivors = %d, want only p-live", len(out))
	}
	if !almostEqual(out[0].Position.X, 30) {
		t.Errorf("position.X = %v, want 30 (velocity is units per second)", out[0].Position.X)
	}
	if !almostEqual(out[0].Life, 0.9) {
		t.Errorf("life = %v, want 0.9", out[0].Life)
	}
}

func TestAdvanceExplosionsGrowWhileFading(t *testing.T) {
	out := advanceExplosions([]*Explosion{{ID: "x", Life: ExplosionLife, Scale: 1}}, ExplosionLife/2)
	if len(out) != 1 {
		t.Fatal("explosion culled at half life")
	}
	wantScale := 1 + (ExplosionGrowScale-1)*0.5
	if !almostEqual(out[0].Scale, wantScale) {
		t.Errorf("scale at half life = %v, want %v", out[0].Scale, wantScale)
	}
	if rest := advanceExplosions(out, ExplosionLife); len(rest) != 0 {
		t.Errorf("explosion survived past its life: %d left", len(rest))
	}
}

func TestResolveCollisionsPlayerShotDestroysEnemy(t *testing.T) {
	player := &Ship{ID: "ship-player"}
	enemy := &Enemy{ID: "enemy-1", Ship: Ship{ID: "ship-e1", Position: Vector2{X: 10}, Health: 15, MaxHealth: 15}}
	shot := &Projectile{ID: "p-1", Position: Vector2{X: 12}, Life: 1, Damage: BaseWeaponDamage, OwnerID: "ship-player"}

	res := resolveCollisions([]*Projectile{shot}, player, []*Enemy{enemy}, true)

	if len(res.enemies) != 0 {
		t.Errorf("survivors = %d, want none", len(res.enemies))
	}
	if len(res.destroyedIDs) != 1 || res.destroyedIDs[0] != "enemy-1" {
		t.Errorf("destroyed = %v, want [enemy-1]", res.destroyedIDs)
	}
	if res.destroyedCount != 1 {
		t.Errorf("destroyed count = %d, want 1", res.destroyedCount)
	}
	if len(res.newExplosions) != 1 {
		t.Errorf("explosions = %d, want 1", len(res.newExplosions))
	}
	if shot.Life != 0 {
		t.Errorf("shot life = %v, want 0 after the hit", shot.Life)
	}
	if res.playerHit {
		t.Error("player flagged hit by their own shot")
	}
}

func TestResolveCollisionsDamagedEnemySurvives(t *testing.T) {
	player := &Ship{ID: "ship-player"}
	enemy := &Enemy{ID: "enemy-1", Ship: Ship{ID: "ship-e1", Position: Vector2{X: 5}, Health: 30, MaxHealth: 30}}
	shot := &Projectile{ID: "p-1", Position: Vector2{X: 5}, Life: 1, Damage: 20, OwnerID: "ship-player"}

	res := resolveCollisions([]*Projectile{shot}, player, []*Enemy{enemy}, true)

	if len(res.enemies) != 1 || res.destroyedCount != 0 {
		t.Errorf("survivors = %d, destroyed = %d, want 1 and 0", len(res.enemies), res.destroyedCount)
	}
	if enemy.Ship.Health != 10 {
		t.Errorf("enemy health = %v, want 10", enemy.Ship.Health)
	}
	if shot.Life != 0 {
		t.Errorf("shot life = %v, want spent", shot.Life)
	}
}

func TestResolveCollisionsShieldsAbsorbFirst(t *testing.T) {
	player := &Ship{ID: "ship-player", Health: 100, MaxHealth: 100, Shields: 30, MaxShields: 50}
	shot := &Projectile{ID: "p-1", Life: 1, Damage: 20, OwnerID: "ship-raider"}

	res := resolveCollisions([]*Projectile{shot}, player, nil, true)

	if !res.playerHit {
		t.Fatal("point-blank enemy shot did not register")
	}
	if player.Shields != 10 || player.Health != 100 {
		t.Errorf("shields/health = %v/%v, want 10/100", player.Shields, player.Health)
	}
	if len(res.newExplosions) != 1 {
		t.Errorf("explosions = %d, want 1", len(res.newExplosions))
	}
}

func TestResolveCollisionsSparesDockedPlayer(t *testing.T) {
	player := &Ship{ID: "ship-player", Health: 100, MaxHealth: 100}
	shot := &Projectile{ID: "p-1", Life: 1, Damage: 20, OwnerID: "ship-raider"}

	res := resolveCollisions([]*Projectile{shot}, player, nil, false)

	if res.playerHit || player.Health != 100 {
		t.Errorf("docked player took damage: hit=%v health=%v", res.playerHit, player.Health)
	}
	if shot.Life != 1 {
		t.Errorf("shot life = %v, want untouched", shot.Life)
	}
}

func TestResolveCollisionsRespectsHitRadius(t *testing.T) {
	player := &Ship{ID: "ship-player"}
	enemy := &Enemy{ID: "enemy-1", Ship: Ship{ID: "ship-e1", Position: Vector2{X: ProjectileHitRadius * 3}, Health: 15, MaxHealth: 15}}
	shot := &Projectile{ID: "p-1", Life: 1, Damage: 20, OwnerID: "ship-player"}

	res := resolveCollisions([]*Projectile{shot}, player, []*Enemy{enemy}, true)

	if len(res.enemies) != 1 || len(res.destroyedIDs) != 0 {
		t.Errorf("distant shot connected: survivors=%d destroyed=%v", len(res.enemies), res.destroyedIDs)
	}
	if shot.Life != 1 {
		t.Errorf("shot life = %v, want untouched", shot.Life)
	}
}

func TestStepEnemyPursuesOutsideStandoff(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	player := &Ship{ID: "ship-player"}
	e := &Enemy{ID: "enemy-1", Ship: Ship{ID: "ship-e1", Position: Vector2{X: 500}, Health: 50, MaxHealth: 50}}

	stepEnemy(rng, e, player, true, tickDT)

	if e.Ship.Velocity.Length() == 0 {
		t.Error("enemy outside the standoff band did not burn")
	}
	if rem := math.Abs(AngleDelta(e.Ship.Rotation, math.Pi)); rem >= math.Pi-0.01 {
		t.Errorf("rotation did not turn toward the player: %v off target", rem)
	}
}

func TestStepEnemyHoldsInsideStandoff(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	player := &Ship{ID: "ship-player"}
	e := &Enemy{ID: "enemy-1", Ship: Ship{ID: "ship-e1", Position: Vector2{X: EnemyStandoffDistance - 20}, Health: 50, MaxHealth: 50}}

	stepEnemy(rng, e, player, true, tickDT)

	if e.Ship.Velocity.Length() != 0 {
		t.Errorf("enemy inside the standoff band burned: velocity %+v", e.Ship.Velocity)
	}
}

func TestStepEnemyIdlesOutOfRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	player := &Ship{ID: "ship-player"}
	e := &Enemy{ID: "enemy-1", Ship: Ship{ID: "ship-e1", Position: Vector2{X: EnemyEngagementRange + 50}, Rotation: 1.0, Health: 50, MaxHealth: 50}}

	if p := stepEnemy(rng, e, player, true, tickDT); p != nil {
		t.Fatal("disengaged enemy fired")
	}
	if e.Ship.Velocity.Length() != 0 || e.Ship.Rotation != 1.0 {
		t.Errorf("disengaged enemy moved: vel %+v rot %v", e.Ship.Velocity, e.Ship.Rotation)
	}
}

func TestStepEnemyIgnoresDockedPlayer(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	player := &Ship{ID: "ship-player"}
	e := &Enemy{ID: "enemy-1", Ship: Ship{
		ID: "ship-e1", Position: Vector2{X: 100}, Rotation: 0.5,
		Energy: 100, MaxEnergy: 100, Health: 50, MaxHealth: 50,
	}}

	if p := stepEnemy(rng, e, player, false, tickDT); p != nil {
		t.Fatal("enemy fired at a docked player")
	}
	if e.Ship.Rotation != 0.5 {
		t.Errorf("enemy tracked a docked player: rot %v", e.Ship.Rotation)
	}
}

func TestStepEnemyEventuallyFires(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	player := &Ship{ID: "ship-player"}
	e := &Enemy{ID: "enemy-1", Ship: Ship{
		ID:        "ship-e1",
		Position:  Vector2{X: 200},
		Energy:    100,
		MaxEnergy: 100,
		Health:    50,
		MaxHealth: 50,
	}}

	var shot *Projectile
	for i := 0; i < 2000 && shot == nil; i++ {
		shot = stepEnemy(rng, e, player, true, tickDT)
	}
	if shot == nil {
		t.Fatal("enemy in range with full energy never fired in 2000 ticks")
	}
	if shot.OwnerID != "ship-e1" {
		t.Errorf("shot owner = %q, want ship-e1", shot.OwnerID)
	}
	if !almostEqual(shot.Damage, BaseWeaponDamage) {
		t.Errorf("shot damage = %v, want %v", shot.Damage, BaseWeaponDamage)
	}
	// Inside the standoff band the enemy holds position, so the shot leaves
	// its spawn point straight down the -X bearing at base speed.
	if !almostEqual(shot.Velocity.X, -BaseProjectileSpeed) || !almostEqual(shot.Velocity.Y, 0) {
		t.Errorf("shot velocity = %+v, want {-%v 0}", shot.Velocity, BaseProjectileSpeed)
	}
	if shot.Position != (Vector2{X: 200}) {
		t.Errorf("shot position = %+v, want the enemy's", shot.Position)
	}
	if shot.Life != ProjectileLife {
		t.Errorf("shot life = %v, want %v", shot.Life, ProjectileLife)
	}
	if !almostEqual(e.Ship.Energy, 100-BaseWeaponEnergyCost) {
		t.Errorf("energy after firing = %v, want %v", e.Ship.Energy, 100-BaseWeaponEnergyCost)
	}
}

func TestNewHostileEnemyRollsReducedPools(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	uni := testUniverse()

	for i := 0; i < 20; i++ {
		e := NewHostileEnemy(rng, uni, "crimson_corsairs")
		hull := uni.HullByKey(e.Ship.HullKey)
		if hull == nil {
			t.Fatalf("enemy %d rolled unknown hull %q", i, e.Ship.HullKey)
		}
		if !almostEqual(e.Ship.Health, hull.MaxHealth*0.8) || !almostEqual(e.Ship.Shields, hull.MaxShields*0.5) {
			t.Errorf("enemy %d pools = %v/%v, want %v/%v",
				i, e.Ship.Health, e.Ship.Shields, hull.MaxHealth*0.8, hull.MaxShields*0.5)
		}
		if e.Ship.Energy != hull.MaxEnergy {
			t.Errorf("enemy %d energy = %v, want full %v", i, e.Ship.Energy, hull.MaxEnergy)
		}
		if e.Ship.FactionID != "crimson_corsairs" {
			t.Errorf("enemy %d faction = %q", i, e.Ship.FactionID)
		}
		if e.AI.Behavior != BehaviorAggressive {
			t.Errorf("enemy %d behavior = %q", i, e.AI.Behavior)
		}
		if d := e.Ship.Position.Length(); d < AsteroidRingMin || d > AsteroidRingMax {
			t.Errorf("enemy %d spawned off the ring: |pos| = %v", i, d)
		}
		if e.IsBountyTarget {
			t.Errorf("enemy %d flagged as a bounty target", i)
		}
	}
}
