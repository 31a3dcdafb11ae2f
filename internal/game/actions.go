/*
Package game
File: actions.go
Description:
    Player-triggered mutations of the authoritative state. Every action
    follows the same shape: take the write lock, validate preconditions,
    then either return a rejection sentinel with the state untouched or
    apply the whole mutation. Rejections are ordinary game outcomes
    ("can't afford that"), never panics.

    Actions that touch loop-owned data (pools, kinematics, combat entities)
    also push a mirror intent so the simulation's working copy picks the
    change up at the next tick start instead of clobbering it at sync.
*/

package game

import (
	"errors"
	"math"
)

// Rejection sentinels. The API layer maps these onto 4xx responses; state is
// guaranteed unchanged whenever one is returned.
var (
	ErrGameOver           = errors.New("ship destroyed")
	ErrNotFound           = errors.New("target not found")
	ErrNotConnected       = errors.New("system is not connected")
	ErrInsufficientFuel   = errors.New("insufficient fuel")
	ErrInsufficientFunds  = errors.New("insufficient credits")
	ErrInsufficientEnergy = errors.New("insufficient energy")
	ErrInsufficientCargo  = errors.New("not enough cargo to sell")
	ErrCargoFull          = errors.New("cargo hold is full")
	ErrOutOfRange         = errors.New("target out of range")
	ErrNotDocked          = errors.New("must be docked at a station")
	ErrDocked             = errors.New("unavailable while docked")
	ErrNotListed          = errors.New("commodity not traded here")
	ErrNoModuleSlot       = errors.New("no free module slot")
	ErrNoResources        = errors.New("asteroid is depleted")
	ErrMissionLimit       = errors.New("active mission limit reached")
	ErrMissionState       = errors.New("mission is not in that state")
	ErrNothingRequired    = errors.New("nothing to supply here")
)

// JumpToSystem spends fuel to move to a connected system. A jump is a hard
// reset of combat state: enemies, projectiles and explosions are dropped,
// and the arrival may spawn a fresh hostile patrol or a waiting bounty.
func (s *State) JumpToSystem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. Validate
	if s.gameOver {
		return ErrGameOver
	}
	if s.mode != ModeSystem {
		return ErrDocked
	}
	target, ok := s.systems[id]
	if !ok {
		return ErrNotFound
	}
	if !s.currentSystem().Connected(id) {
		return ErrNotConnected
	}
	if s.player.Fuel < JumpFuelCost {
		return ErrInsufficientFuel
	}

	// 2. Travel
	s.player.Fuel -= JumpFuelCost
	s.currentID = id
	s.player.Position = Vector2{}
	s.player.Velocity = Vector2{}

	// 3. Hard reset of the combat state
	s.enemies = nil
	s.projectiles = nil
	s.explosions = nil

	// 4. Discovery: the target always, each neighbour sometimes
	target.Discovered = true
	for _, nid := range target.Connections {
		if s.rng.Float64() < NeighborDiscoveryChance {
			if n, ok := s.systems[nid]; ok {
				n.Discovered = true
			}
		}
	}

	// 5. Arrival spawns
	if f, ok := s.factions[target.FactionID]; ok && f.Attitude() == AttitudeHostile {
		count := HostileSpawnMin + s.rng.Intn(HostileSpawnMax-HostileSpawnMin+1)
		for i := 0; i < count; i++ {
			s.enemies = append(s.enemies, NewHostileEnemy(s.rng, s.uni, target.FactionID))
		}
	}
	for _, m := range s.missions {
		if m.BountyPending() && m.BountySystemID == id && !containsEnemy(s.enemies, m.BountyTarget.ID) {
			s.enemies = append(s.enemies, m.BountyTarget)
		}
	}

	s.pushIntent(intent{kind: intentSystemReset})
	return nil
}

// JumpQuote is a read-only pre-flight check for a hyperlane jump.
type JumpQuote struct {
	SystemID   string  `json:"system_id"`
	SystemName string  `json:"system_name"`
	FuelCost   float64 `json:"fuel_cost"`
	Fuel       float64 `json:"fuel"`
	Connected  bool    `json:"connected"`
	CanJump    bool    `json:"can_jump"`
}

// QuoteJump prices a jump without performing it. Unknown targets are an
// error; an unreachable or unaffordable jump is still a valid quote with
// CanJump false, so clients can grey the route out instead of surfacing
// an error.
func (s *State) QuoteJump(id string) (JumpQuote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	target, ok := s.systems[id]
	if !ok {
		return JumpQuote{}, ErrNotFound
	}
	q := JumpQuote{
		SystemID:   target.ID,
		SystemName: target.Name,
		FuelCost:   JumpFuelCost,
		Fuel:       s.player.Fuel,
		Connected:  s.currentSystem().Connected(id),
	}
	q.CanJump = !s.gameOver && s.mode == ModeSystem && q.Connected && s.player.Fuel >= JumpFuelCost
	return q, nil
}

// DockAtStation parks the ship at a nearby station and switches the game
// into station mode.
func (s *State) DockAtStation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gameOver {
		return ErrGameOver
	}
	if s.mode != ModeSystem {
		return ErrDocked
	}
	st := s.stationByID(id)
	if st == nil {
		return ErrNotFound
	}
	if s.player.Position.Distance(st.Position) > DockingRange {
		return ErrOutOfRange
	}

	s.mode = ModeStation
	s.dockedAt = id
	s.player.Velocity = Vector2{}
	s.pushIntent(intent{
		kind:     intentKinematics,
		position: s.player.Position,
		rotation: s.player.Rotation,
	})
	return nil
}

// UndockFromStation pushes the ship back out into open space.
func (s *State) UndockFromStation() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gameOver {
		return ErrGameOver
	}
	if s.mode != ModeStation {
		return ErrNotDocked
	}
	st := s.stationByID(s.dockedAt)
	s.mode = ModeSystem
	s.dockedAt = ""
	if st != nil {
		// Nudge clear of the pad so re-dock needs a deliberate approach.
		offset := FromAngle(s.rng.Float64() * 2 * math.Pi).Scale(DockingRange * 0.6)
		s.player.Position = st.Position.Add(offset)
	}
	s.player.Velocity = Vector2{}
	s.pushIntent(intent{
		kind:     intentKinematics,
		position: s.player.Position,
		rotation: s.player.Rotation,
	})
	return nil
}

// BuyItem purchases either a commodity listing or a ship module from the
// docked station. Weapon modules replace the equipped weapon outright; other
// modules need a free slot.
func (s *State) BuyItem(key string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gameOver {
		return ErrGameOver
	}
	if s.mode != ModeStation {
		return ErrNotDocked
	}
	st := s.stationByID(s.dockedAt)
	if st == nil {
		return ErrNotFound
	}

	// Module purchase path.
	if mod := s.uni.ModuleByKey(key); mod != nil {
		return s.buyModuleLocked(mod)
	}

	// Commodity purchase path.
	if quantity <= 0 {
		return ErrNotFound
	}
	entry, ok := st.Market[key]
	if !ok {
		return ErrNotListed
	}
	if entry.Supply < quantity {
		return ErrNotListed
	}
	cost := int(math.Ceil(entry.Price * float64(quantity)))
	if s.credits < cost {
		return ErrInsufficientFunds
	}
	if !s.player.AddCargo(key, quantity) {
		return ErrCargoFull
	}
	s.credits -= cost
	entry.Supply -= quantity
	return nil
}

// buyModuleLocked applies a module purchase. Caller holds mu (write).
func (s *State) buyModuleLocked(mod *ShipModule) error {
	if s.credits < mod.Cost {
		return ErrInsufficientFunds
	}

	if mod.Type == ModuleTypeWeapon {
		// Weapons are a single always-replaceable slot: drop the old one,
		// install the new one. Stats are derived from the installed list,
		// so no bonus unwinding is needed.
		kept := s.player.Modules[:0]
		for _, m := range s.player.Modules {
			if m.Type != ModuleTypeWeapon {
				kept = append(kept, m)
			}
		}
		s.player.Modules = append(kept, *mod)
		s.credits -= mod.Cost
		return nil
	}

	if s.player.UsedModuleSlots() >= s.player.ModuleSlots {
		return ErrNoModuleSlot
	}
	s.player.Modules = append(s.player.Modules, *mod)
	s.credits -= mod.Cost
	switch mod.Type {
	case ModuleTypeCargo:
		s.player.MaxCargo += mod.CargoBonus
	case ModuleTypeShield:
		s.player.MaxShields += mod.ShieldBonus
	}
	return nil
}

// SellItem sells cargo onto the docked station's market.
func (s *State) SellItem(key string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gameOver {
		return ErrGameOver
	}
	if s.mode != ModeStation {
		return ErrNotDocked
	}
	st := s.stationByID(s.dockedAt)
	if st == nil {
		return ErrNotFound
	}
	if quantity <= 0 {
		return ErrNotFound
	}
	entry, ok := st.Market[key]
	if !ok {
		return ErrNotListed
	}
	if s.player.CargoQuantity(key) < quantity {
		return ErrInsufficientCargo
	}

	s.player.RemoveCargo(key, quantity)
	s.credits += int(math.Floor(entry.Price * float64(quantity)))
	entry.Supply += quantity
	if entry.Demand > quantity {
		entry.Demand -= quantity
	} else {
		entry.Demand = 0
	}
	return nil
}

// RepairShip restores the hull to max for credits linear in the deficit.
// All or nothing: partial repairs are not offered.
func (s *State) RepairShip() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gameOver {
		return ErrGameOver
	}
	if s.mode != ModeStation {
		return ErrNotDocked
	}
	deficit := s.player.MaxHealth - s.player.Health
	if deficit <= 0 {
		return nil
	}
	cost := int(math.Ceil(deficit * RepairCostPerPoint))
	if s.credits < cost {
		return ErrInsufficientFunds
	}
	s.credits -= cost
	s.player.Health = s.player.MaxHealth
	s.pushIntent(intent{kind: intentSetHealth, health: s.player.MaxHealth})
	return nil
}

// RefuelShip fills the tank for credits linear in the deficit.
func (s *State) RefuelShip() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gameOver {
		return ErrGameOver
	}
	if s.mode != ModeStation {
		return ErrNotDocked
	}
	deficit := s.player.MaxFuel - s.player.Fuel
	if deficit <= 0 {
		return nil
	}
	cost := int(math.Ceil(deficit * RefuelCostPerUnit))
	if s.credits < cost {
		return ErrInsufficientFunds
	}
	s.credits -= cost
	s.player.Fuel = s.player.MaxFuel
	return nil
}

// MineAsteroid chips one unit of resource off a nearby rock. The rock takes
// fixed damage per action and is removed from the system once it breaks up,
// whether or not resources remained inside.
func (s *State) MineAsteroid(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gameOver {
		return ErrGameOver
	}
	if s.mode != ModeSystem {
		return ErrDocked
	}
	sys := s.currentSystem()
	var ast *Asteroid
	idx := -1
	for i, a := range sys.Asteroids {
		if a.ID == id {
			ast, idx = a, i
			break
		}
	}
	if ast == nil {
		return ErrNotFound
	}
	if s.player.Position.Distance(ast.Position) > ast.Size+MiningRange {
		return ErrOutOfRange
	}
	if len(ast.Resources) == 0 {
		return ErrNoResources
	}
	if s.player.TotalCargo()+1 > s.player.MaxCargo {
		return ErrCargoFull
	}

	// Extract one unit from the first stack.
	stack := &ast.Resources[0]
	s.player.AddCargo(stack.ItemID, 1)
	stack.Quantity--
	if stack.Quantity <= 0 {
		ast.Resources = ast.Resources[1:]
	}

	// Chip the rock; remove it once it breaks up.
	ast.Health -= MiningDamagePerAction
	if ast.Health <= 0 {
		sys.Asteroids = append(sys.Asteroids[:idx], sys.Asteroids[idx+1:]...)
	}
	return nil
}

// FireWeapon spends energy to spawn one projectile along the ship's facing.
// Stats are the base weapon plus the equipped weapon module's bonuses.
func (s *State) FireWeapon() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gameOver {
		return ErrGameOver
	}
	if s.mode != ModeSystem {
		return ErrDocked
	}
	damage, cost, speed := s.player.WeaponStats()
	if s.player.Energy < cost {
		return ErrInsufficientEnergy
	}

	s.player.Energy -= cost
	p := &Projectile{
		ID:       NewID("proj"),
		Position: s.player.Position,
		Velocity: FromAngle(s.player.Rotation).Scale(speed),
		Life:     ProjectileLife,
		Damage:   damage,
		OwnerID:  s.player.ID,
	}

	// Publish a copy and hand the loop its own working copy.
	published := *p
	s.projectiles = appendProjectileCoW(s.projectiles, &published)
	working := *p
	s.pushIntent(intent{kind: intentFire, projectile: &working, energyCost: cost})
	return nil
}

// appendProjectileCoW replaces the published slice wholesale rather than
// growing it in place, so a snapshot taken moments ago stays frozen.
func appendProjectileCoW(list []*Projectile, p *Projectile) []*Projectile {
	out := make([]*Projectile, len(list), len(list)+1)
	copy(out, list)
	return append(out, p)
}

// InteractWithObject transfers repair materials from the hold into a damaged
// world object. Completing the transfer flips it OPERATIONAL: a repaired
// jump gate opens its link on both ends, a repaired relay sweeps the local
// sensor picture.
func (s *State) InteractWithObject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gameOver {
		return ErrGameOver
	}
	if s.mode != ModeSystem {
		return ErrDocked
	}
	sys := s.currentSystem()
	var obj *WorldObject
	for _, w := range sys.WorldObjects {
		if w.ID == id {
			obj = w
			break
		}
	}
	if obj == nil {
		return ErrNotFound
	}
	if s.player.Position.Distance(obj.Position) > InteractionRadius {
		return ErrOutOfRange
	}
	if obj.Status != WorldObjectStatusDamaged {
		return ErrNothingRequired
	}

	// Transfer whatever we carry toward whatever is still missing.
	transferred := false
	for i := range obj.RequiredItems {
		r := &obj.RequiredItems[i]
		missing := r.Required - r.Supplied
		if missing <= 0 {
			continue
		}
		have := s.player.CargoQuantity(r.ItemID)
		give := missing
		if have < give {
			give = have
		}
		if give <= 0 {
			continue
		}
		s.player.RemoveCargo(r.ItemID, give)
		r.Supplied += give
		transferred = true
	}
	if !transferred {
		return ErrNothingRequired
	}

	if !obj.Repaired() {
		return nil
	}
	obj.Status = WorldObjectStatusOperational
	switch obj.Type {
	case WorldObjectDamagedJumpGate:
		s.openGateLocked(obj)
	case WorldObjectBrokenRelay:
		// A working relay maps the local cluster.
		for _, nid := range sys.Connections {
			if n, ok := s.systems[nid]; ok {
				n.Discovered = true
			}
		}
	}
	return nil
}

// openGateLocked adds the gate's withheld link to both endpoint systems.
// Caller holds mu (write).
func (s *State) openGateLocked(obj *WorldObject) {
	from, okFrom := s.systems[obj.LinkFrom]
	to, okTo := s.systems[obj.LinkTo]
	if !okFrom || !okTo {
		return
	}
	if !from.Connected(to.ID) {
		from.Connections = append(from.Connections, to.ID)
	}
	if !to.Connected(from.ID) {
		to.Connections = append(to.Connections, from.ID)
	}
}

// AcceptMission moves a mission from the docked station's board onto the
// player's active list. Delivery-style consignments are handed over here and
// must fit, or the acceptance is rejected whole.
func (s *State) AcceptMission(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gameOver {
		return ErrGameOver
	}
	if s.mode != ModeStation {
		return ErrNotDocked
	}
	st := s.stationByID(s.dockedAt)
	if st == nil {
		return ErrNotFound
	}
	var m *Mission
	idx := -1
	for i, cand := range st.Missions {
		if cand.ID == id {
			m, idx = cand, i
			break
		}
	}
	if m == nil {
		return ErrNotFound
	}
	if m.Status != MissionAvailable {
		return ErrMissionState
	}
	if s.activeMissionCountLocked() >= MaxActiveMissions {
		return ErrMissionLimit
	}
	if len(m.GrantedCargo) > 0 && !grantItems(s.player, m.GrantedCargo) {
		return ErrCargoFull
	}

	m.Status = MissionActive
	st.Missions = append(st.Missions[:idx], st.Missions[idx+1:]...)
	s.missions = append(s.missions, m)
	return nil
}

// CompleteMission pays out a mission whose objectives are all done. Turn-in
// happens at the station that posted the job.
func (s *State) CompleteMission(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gameOver {
		return ErrGameOver
	}
	m := s.missionByIDLocked(id)
	if m == nil {
		return ErrNotFound
	}
	if !m.ReadyForTurnIn() {
		return ErrMissionState
	}
	if s.mode != ModeStation || s.dockedAt != m.SourceStationID {
		return ErrNotDocked
	}
	if len(m.RewardItems) > 0 && !grantItems(s.player, m.RewardItems) {
		return ErrCargoFull
	}

	s.credits += m.RewardCredits
	for factionID, delta := range m.ReputationChange {
		s.adjustReputationLocked(factionID, delta)
	}
	m.Status = MissionCompletedSuccess
	m.GrantedCargo = nil
	return nil
}

// AbandonMission drops an active mission: granted cargo still on board is
// confiscated and the source faction takes a fixed dim view (smaller than
// the mission's own reputation swing).
func (s *State) AbandonMission(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gameOver {
		return ErrGameOver
	}
	m := s.missionByIDLocked(id)
	if m == nil {
		return ErrNotFound
	}
	if m.Status != MissionActive {
		return ErrMissionState
	}

	for _, it := range m.GrantedCargo {
		have := s.player.CargoQuantity(it.ItemID)
		take := it.Quantity
		if have < take {
			take = have
		}
		if take > 0 {
			s.player.RemoveCargo(it.ItemID, take)
		}
	}
	s.adjustReputationLocked(m.SourceFactionID, -AbandonReputationPenalty)
	m.Status = MissionAbandoned
	m.GrantedCargo = nil
	return nil
}

// missionByIDLocked finds an accepted mission. Caller holds mu.
func (s *State) missionByIDLocked(id string) *Mission {
	for _, m := range s.missions {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// activeMissionCountLocked counts missions in the ACTIVE state. Caller holds mu.
func (s *State) activeMissionCountLocked() int {
	count := 0
	for _, m := range s.missions {
		if m.Status == MissionActive {
			count++
		}
	}
	return count
}

// adjustReputationLocked applies a clamped reputation delta. Caller holds mu.
func (s *State) adjustReputationLocked(factionID string, delta int) {
	f, ok := s.factions[factionID]
	if !ok {
		return
	}
	f.Reputation += delta
	if f.Reputation > 100 {
		f.Reputation = 100
	}
	if f.Reputation < -100 {
		f.Reputation = -100
	}
}

// containsEnemy reports whether the list already holds an enemy with id.
func containsEnemy(list []*Enemy, id string) bool {
	for _, e := range list {
		if e.ID == id {
			return true
		}
	}
	return false
}
