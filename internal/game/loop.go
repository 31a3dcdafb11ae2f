/*
Package game
File: loop.go
Description:
    The fixed-rate simulation loop. Runs at TickRate on its own goroutine,
    simulating on a private working set, and writes back into the store at
    the throttled sync rate: materiality-gated for scalar fields, count- or
    presence-gated for entity lists.

    Ownership: between syncs the loop owns the player's kinematics and
    pools plus all combat entities. Actions that touch those leave a mirror
    intent in the store's mailbox; the loop applies pending intents at tick
    start AND at sync start (before writing back), so an action can never be
    clobbered by a stale working value.

    A panic inside a tick is caught and logged; the loop schedules the next
    tick regardless. A silently dead simulation is the one failure mode this
    file is not allowed to have.
*/

package game

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/calebaero/stellar-drift-trader-game/pkg/logger"
)

// ErrLoopRunning is returned by Start on a loop that is already live.
var ErrLoopRunning = errors.New("simulation loop already running")

// Loop drives one State. Create with NewLoop; a stopped loop is done for
// good, sessions get a fresh one.
type Loop struct {
	state  *State
	notify func(Snapshot) // Invoked after any sync that changed state; may be nil

	// OnEvent receives discrete gameplay moments (kills, player death,
	// mission readiness, market pulses) as the loop detects them. Set it
	// before Start; may be nil.
	OnEvent func(Event)

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	log *logrus.Entry

	// Everything below is owned by the run goroutine.
	rng         *rand.Rand
	work        workingSet
	ticks       uint64
	lastTick    time.Time
	lastSync    time.Time
	lastEconomy time.Time
	pending     TickEvents // Kill events buffered between mission passes
}

// workingSet is the loop's private copy of everything it simulates.
type workingSet struct {
	player      Ship // Kinematics + pools; cargo/modules are along for the ride
	mode        string
	gameOver    bool
	input       PlayerInput
	enemies     []*Enemy
	projectiles []*Projectile
	explosions  []*Explosion
}

// Event kinds published through Loop.OnEvent.
const (
	EventEnemyDestroyed = "enemy_destroyed"
	EventPlayerDied     = "player_died"
	EventMissionReady   = "mission_ready"
	EventMarketPulse    = "market_pulse"
)

// Event is a discrete gameplay moment, published beside the regular state
// sync so clients can react without diffing snapshots.
type Event struct {
	Kind    string
	Payload interface{}
}

// EnemyDestroyedEvent names a ship removed by combat resolution.
type EnemyDestroyedEvent struct {
	EnemyID string `json:"enemy_id"`
}

// PlayerDiedEvent marks the tick on which the player's hull gave out.
type PlayerDiedEvent struct {
	Tick uint64 `json:"tick"`
}

// MissionReadyEvent flags a mission whose final objective just completed.
type MissionReadyEvent struct {
	MissionID string `json:"mission_id"`
	Title     string `json:"title"`
}

// MarketPulseEvent lists the stations refreshed by an economy pulse.
type MarketPulseEvent struct {
	StationIDs []string `json:"station_ids"`
}

// NewLoop wires a loop to its state. The loop's own rng is derived from the
// galaxy seed so enemy fire rolls replay with the session.
func NewLoop(state *State, notify func(Snapshot)) *Loop {
	return &Loop{
		state:    state,
		notify:   notify,
		stopChan: make(chan struct{}),
		rng:      rand.New(rand.NewSource(state.Seed() + 1)),
		log:      logger.Log.WithField("component", "loop"),
	}
}

// Running reports whether the loop goroutine is live.
func (l *Loop) Running() bool {
	return l.running.Load()
}

// Start loads the working set and launches the tick goroutine.
func (l *Loop) Start() error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}

	l.state.mu.Lock()
	l.loadWorkingSetLocked()
	l.state.mu.Unlock()

	now := time.Now()
	l.lastTick = now
	l.lastSync = now
	l.lastEconomy = now

	l.wg.Add(1)
	go l.run()
	l.log.WithFields(logrus.Fields{
		"tick_rate":     TickRate,
		"sync_interval": SyncInterval.String(),
	}).Info("Simulation loop started")
	return nil
}

// Stop cancels the tick goroutine and waits for it. After Stop returns no
// further tick can fire.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopChan)
	})
	l.wg.Wait()
	if l.running.CompareAndSwap(true, false) {
		l.log.WithField("ticks", l.ticks).Info("Simulation loop stopped")
	}
}

// run is the tick scheduler.
func (l *Loop) run() {
	defer l.wg.Done()
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case now := <-ticker.C:
			l.safeTick(now)
		}
	}
}

// safeTick clamps the elapsed time and shields the scheduler from a
// panicking tick.
func (l *Loop) safeTick(now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			l.log.WithField("panic", r).Error("Simulation tick panicked; resuming next tick")
		}
	}()

	dt := now.Sub(l.lastTick)
	l.lastTick = now
	if dt <= 0 {
		return
	}
	// A stall (GC pause, suspended laptop) slows the game down rather than
	// teleporting everything through one giant step.
	if dt > MaxDeltaTime {
		dt = MaxDeltaTime
	}
	l.tick(dt.Seconds(), now)
}

// tick runs one simulation step.
func (l *Loop) tick(dt float64, now time.Time) {
	l.ticks++

	// 1. Absorb: pending intents, freshest input, current mode.
	l.state.mu.Lock()
	l.applyIntentsLocked(l.state.drainIntents())
	l.work.input = l.state.input
	l.work.mode = l.state.mode
	l.work.gameOver = l.state.gameOver
	l.state.mu.Unlock()

	playerInPlay := l.work.mode == ModeSystem && !l.work.gameOver

	// 2. Player flight physics.
	if playerInPlay {
		StepShip(&l.work.player, l.work.input, dt)
	}

	// 3. Pool regeneration (docked ships still recharge).
	RegenPools(&l.work.player, dt)

	// 4. Enemy AI: steer, regenerate, maybe fire.
	for _, e := range l.work.enemies {
		if p := stepEnemy(l.rng, e, &l.work.player, playerInPlay, dt); p != nil {
			l.work.projectiles = append(l.work.projectiles, p)
		}
	}

	// 5. Projectiles.
	l.work.projectiles = advanceProjectiles(l.work.projectiles, dt)

	// 6. Explosions.
	l.work.explosions = advanceExplosions(l.work.explosions, dt)

	// 7. Collisions.
	res := resolveCollisions(l.work.projectiles, &l.work.player, l.work.enemies, playerInPlay)
	l.work.enemies = res.enemies
	l.work.explosions = append(l.work.explosions, res.newExplosions...)
	if len(res.destroyedIDs) > 0 {
		l.pending.DestroyedEnemies = append(l.pending.DestroyedEnemies, res.destroyedIDs...)
		l.pending.HostileKills += res.destroyedCount
	}
	// Spent shots vanish this tick, not next.
	live := l.work.projectiles[:0]
	for _, p := range l.work.projectiles {
		if p.Life > 0 {
			live = append(live, p)
		}
	}
	l.work.projectiles = live

	// 8. Throttled sync back into the store, plus the mission pass.
	if now.Sub(l.lastSync) >= SyncInterval {
		l.lastSync = now
		changed, events := l.sync()
		if changed && l.notify != nil {
			l.notify(l.state.Snapshot())
		}
		l.emit(events)
	}

	// 9. Economy pulse, far slower still.
	if now.Sub(l.lastEconomy) >= EconomyInterval {
		l.lastEconomy = now
		if refreshed := l.state.EconomyPulse(); len(refreshed) > 0 {
			if l.notify != nil {
				l.notify(l.state.Snapshot())
			}
			l.emit([]Event{{Kind: EventMarketPulse, Payload: MarketPulseEvent{StationIDs: refreshed}}})
		}
	}
}

// emit fans events out to OnEvent. Runs on the loop goroutine with no locks
// held, so the callback is free to take a snapshot.
func (l *Loop) emit(events []Event) {
	if l.OnEvent == nil {
		return
	}
	for _, ev := range events {
		l.OnEvent(ev)
	}
}

// applyIntentsLocked replays action mirrors onto the working set. Caller
// holds the store lock (write).
func (l *Loop) applyIntentsLocked(intents []intent) {
	for _, in := range intents {
		switch in.kind {
		case intentFire:
			l.work.player.Energy -= in.energyCost
			if l.work.player.Energy < 0 {
				l.work.player.Energy = 0
			}
			l.work.projectiles = append(l.work.projectiles, in.projectile)
		case intentSystemReset:
			l.loadWorkingSetLocked()
		case intentKinematics:
			l.work.player.Position = in.position
			l.work.player.Velocity = in.velocity
			l.work.player.Rotation = in.rotation
		case intentSetHealth:
			l.work.player.Health = in.health
		}
	}
}

// loadWorkingSetLocked rebuilds the whole working set from the store.
// Caller holds the store lock.
func (l *Loop) loadWorkingSetLocked() {
	s := l.state
	l.work.player = cloneShip(s.player)
	l.work.mode = s.mode
	l.work.gameOver = s.gameOver
	l.work.input = s.input
	l.work.enemies = cloneEnemyList(s.enemies)
	l.work.projectiles = cloneProjectileList(s.projectiles)
	l.work.explosions = cloneExplosionList(s.explosions)
}

// sync writes the working set back into the store. Scalar fields go only
// when the drift from the authoritative value crosses its materiality
// threshold; entity lists go whenever non-empty or changed in count, as a
// wholesale copy-on-write replacement. Returns whether anything changed,
// plus the discrete events detected during the write-back, for the caller
// to publish once the lock is released.
func (l *Loop) sync() (bool, []Event) {
	s := l.state
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []Event

	// Late intents first, or this write-back would clobber them.
	l.applyIntentsLocked(s.drainIntents())

	changed := false
	wp := &l.work.player
	sp := s.player

	// Kinematics, per-group materiality.
	if wp.Position.Distance(sp.Position) > SyncPosEpsilon {
		sp.Position = wp.Position
		changed = true
	}
	if wp.Velocity.Sub(sp.Velocity).Length() > SyncVelEpsilon {
		sp.Velocity = wp.Velocity
		changed = true
	}
	if math.Abs(AngleDelta(sp.Rotation, wp.Rotation)) > SyncRotEpsilon {
		sp.Rotation = wp.Rotation
		changed = true
	}

	// Pools.
	if math.Abs(wp.Health-sp.Health) > SyncPoolEpsilon {
		sp.Health = wp.Health
		changed = true
	}
	if math.Abs(wp.Shields-sp.Shields) > SyncPoolEpsilon {
		sp.Shields = wp.Shields
		changed = true
	}
	if math.Abs(wp.Energy-sp.Energy) > SyncPoolEpsilon {
		sp.Energy = wp.Energy
		changed = true
	}

	// Entity lists.
	if len(l.work.enemies) > 0 || len(l.work.enemies) != len(s.enemies) {
		s.enemies = cloneEnemyList(l.work.enemies)
		changed = true
	}
	if len(l.work.projectiles) > 0 || len(l.work.projectiles) != len(s.projectiles) {
		s.projectiles = cloneProjectileList(l.work.projectiles)
		changed = true
	}
	if len(l.work.explosions) > 0 || len(l.work.explosions) != len(s.explosions) {
		s.explosions = cloneExplosionList(l.work.explosions)
		changed = true
	}

	// Player death is signaled, never removed.
	if wp.Health <= 0 && !s.gameOver {
		s.gameOver = true
		l.work.gameOver = true
		changed = true
		events = append(events, Event{Kind: EventPlayerDied, Payload: PlayerDiedEvent{Tick: l.ticks}})
		l.log.Warn("Player ship destroyed")
	}

	// Mission pass: pull-based evaluation over the synced state, fed the
	// kills buffered since the previous pass.
	ev := l.pending
	l.pending = TickEvents{}
	for _, id := range ev.DestroyedEnemies {
		events = append(events, Event{Kind: EventEnemyDestroyed, Payload: EnemyDestroyedEvent{EnemyID: id}})
	}
	ready := AdvanceMissions(s.missions, s.player, s.currentSystem(), ev)
	if len(ready) > 0 || len(ev.DestroyedEnemies) > 0 {
		changed = true
	}
	for _, m := range ready {
		events = append(events, Event{Kind: EventMissionReady, Payload: MissionReadyEvent{MissionID: m.ID, Title: m.Title}})
		l.log.WithFields(logrus.Fields{
			"mission": m.ID,
			"title":   m.Title,
		}).Info("Mission ready for turn-in")
	}

	s.tick = l.ticks
	return changed, events
}
