/*
Package game
File: missions.go
Description:
    Mission generation and the objective state machine.

    There are two generation surfaces. Station boards are seeded during
    galaxy creation from the board templates (delivery, combat, mining,
    exploration, escort). At runtime the mission manager *proposes* new jobs
    from the proposal templates (bounty, repair, espionage, smuggling), each
    independently attempted and allowed to return nothing when its
    precondition fails.

    Objective evaluation is pull-based: every pass re-derives progress from
    observed world state (current system, hold contents, proximity) plus the
    tick's destruction events. Only the current objective of each ACTIVE
    mission is checked; completing it reveals the next, and a mission with
    all objectives complete waits for an explicit turn-in.
*/

package game

import (
	"fmt"
	"math/rand"
)

// IndependentFactionKey marks the unaligned faction in universe.yaml.
// Espionage proposals skip stations it controls.
const IndependentFactionKey = "independents"

// MilitaryStationType marks stations that qualify for espionage regardless
// of who controls them.
const MilitaryStationType = "Military"

// pirateNames label bounty targets.
var pirateNames = []string{
	"Red Vesper", "Howling Jack", "The Carrion Queen", "Blackout Moss",
	"Iron Lament", "Silent Accord", "Greedy Halley", "The Pale Drake",
}

// TickEvents collects what happened during one simulation tick that missions
// care about. The loop builds one per tick and discards it afterwards, so a
// kill is only ever counted once.
type TickEvents struct {
	DestroyedEnemies []string // Enemy IDs destroyed this tick
	HostileKills     int      // Destroyed enemies that were hostile to the player
}

// containsID reports membership in a small event slice.
func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// AdvanceMissions runs one evaluation pass over the ACTIVE missions. Only
// the current objective of each mission is evaluated; completing it reveals
// the next one. Returns the missions that became ready for turn-in.
func AdvanceMissions(missions []*Mission, player *Ship, currentSystem *StarSystem, ev TickEvents) []*Mission {
	var nowReady []*Mission
	for _, m := range missions {
		if m.Status != MissionActive {
			continue
		}
		if m.CurrentObjective >= len(m.Objectives) {
			continue
		}
		obj := m.Objectives[m.CurrentObjective]
		if obj.IsComplete {
			continue
		}

		if !evaluateObjective(obj, player, currentSystem, ev) {
			continue
		}

		// Hand-over steps need the goods on board; selling the consignment
		// stalls the mission until the player re-acquires it.
		if !holdsAll(player, obj.ConsumeItems) {
			continue
		}
		// Grants must fit before the step can complete; a full hold stalls
		// the objective until the player clears space.
		if len(obj.GrantItems) > 0 && !grantItems(player, obj.GrantItems) {
			continue
		}
		for _, it := range obj.ConsumeItems {
			player.RemoveCargo(it.ItemID, it.Quantity)
		}
		if len(obj.GrantItems) > 0 {
			m.GrantedCargo = append(m.GrantedCargo, obj.GrantItems...)
		}

		obj.IsComplete = true
		if obj.TargetCount > 0 {
			obj.Progress = obj.TargetCount
		}

		// Reveal the next step, if any.
		m.CurrentObjective++
		if m.CurrentObjective < len(m.Objectives) {
			m.Objectives[m.CurrentObjective].IsHidden = false
		} else if m.ReadyForTurnIn() {
			nowReady = append(nowReady, m)
		}
	}
	return nowReady
}

// evaluateObjective checks a single objective against the observed world.
// The switch is exhaustive over the declared objective types; SCAN, ESCORT
// and FOLLOW are recognized shapes whose evaluation is a stub.
func evaluateObjective(obj *MissionObjective, player *Ship, sys *StarSystem, ev TickEvents) bool {
	switch obj.Type {
	case ObjectiveTravel:
		return sys != nil && sys.ID == obj.TargetID

	case ObjectiveKill:
		if obj.TargetID != "" {
			// Named target (bounty).
			if containsID(ev.DestroyedEnemies, obj.TargetID) {
				obj.Progress++
			}
		} else {
			obj.Progress += ev.HostileKills
		}
		if obj.Progress >= obj.TargetCount {
			obj.Progress = obj.TargetCount
			return true
		}
		return false

	case ObjectiveGather:
		// Progress mirrors the hold; the goods stay on board. Once the
		// objective completes it is never re-evaluated, so selling the
		// stack afterwards cannot regress the mission.
		have := player.CargoQuantity(obj.TargetID)
		if have > obj.TargetCount {
			have = obj.TargetCount
		}
		obj.Progress = have
		return have >= obj.TargetCount

	case ObjectiveInteract:
		pos, worldObj, ok := resolveInteractTarget(sys, obj.TargetID)
		if !ok {
			return false
		}
		if player.Position.Distance(pos) > InteractionRadius {
			return false
		}
		if worldObj != nil && worldObj.Status == WorldObjectStatusDamaged {
			// A damaged object still counts if the player shows up holding
			// everything it needs.
			return holdsRemainingMaterials(player, worldObj)
		}
		return true

	case ObjectiveScan, ObjectiveEscort, ObjectiveFollow:
		// Declared but not simulated yet.
		return false

	default:
		return false
	}
}

// resolveInteractTarget finds an INTERACT target's position in the current
// system. Targets in other systems simply don't resolve this pass.
func resolveInteractTarget(sys *StarSystem, id string) (Vector2, *WorldObject, bool) {
	if sys == nil {
		return Vector2{}, nil, false
	}
	for _, st := range sys.Stations {
		if st.ID == id {
			return st.Position, nil, true
		}
	}
	for _, w := range sys.WorldObjects {
		if w.ID == id {
			return w.Position, w, true
		}
	}
	return Vector2{}, nil, false
}

// holdsRemainingMaterials reports whether the hold covers every still-missing
// material on a damaged world object.
func holdsRemainingMaterials(player *Ship, w *WorldObject) bool {
	for _, r := range w.RequiredItems {
		missing := r.Required - r.Supplied
		if missing > 0 && player.CargoQuantity(r.ItemID) < missing {
			return false
		}
	}
	return true
}

// holdsAll reports whether the hold contains every listed stack.
func holdsAll(player *Ship, items []CargoItem) bool {
	for _, it := range items {
		if player.CargoQuantity(it.ItemID) < it.Quantity {
			return false
		}
	}
	return true
}

// grantItems adds every grant stack or none: a partial grant would strand
// mission cargo.
func grantItems(player *Ship, items []CargoItem) bool {
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	if player.TotalCargo()+total > player.MaxCargo {
		return false
	}
	for _, it := range items {
		player.AddCargo(it.ItemID, it.Quantity)
	}
	return true
}

// ---------------------------------------------------------------------------
// Station-board templates (galaxy generation pass)
// ---------------------------------------------------------------------------

// GenerateStationMissions rolls the initial job board for one station. Runs
// in the generator's second pass, once every system is placed and linked.
func GenerateStationMissions(rng *rand.Rand, uni *Universe, st *Station, sys *StarSystem, all []*StarSystem) []*Mission {
	count := MissionsPerStationMin + rng.Intn(MissionsPerStationMax-MissionsPerStationMin+1)
	missions := make([]*Mission, 0, count)
	for i := 0; i < count; i++ {
		var m *Mission
		switch rng.Intn(5) {
		case 0:
			m = newDeliveryMission(rng, uni, st, sys, all)
		case 1:
			m = newCombatMission(rng, st)
		case 2:
			m = newMiningMission(rng, uni, st)
		case 3:
			m = newExplorationMission(rng, st, sys, all)
		case 4:
			m = newEscortMission(rng, st, sys, all)
		}
		if m == nil {
			// Template had no valid target; a combat sweep always works.
			m = newCombatMission(rng, st)
		}
		missions = append(missions, m)
	}
	return missions
}

// newMissionShell fills the fields every template shares.
func newMissionShell(missionType, title string, st *Station, reward int) *Mission {
	return &Mission{
		ID:              NewID("msn"),
		Title:           title,
		Type:            missionType,
		Status:          MissionAvailable,
		SourceFactionID: st.FactionID,
		SourceStationID: st.ID,
		RewardCredits:   reward,
		ReputationChange: map[string]int{
			st.FactionID: 2,
		},
	}
}

// pickOtherStation returns a random station that is not st, preferring other
// systems. Nil when the galaxy has no second station anywhere.
func pickOtherStation(rng *rand.Rand, st *Station, sys *StarSystem, all []*StarSystem) (*Station, *StarSystem) {
	type pair struct {
		st  *Station
		sys *StarSystem
	}
	var away, local []pair
	for _, s := range all {
		for _, cand := range s.Stations {
			if cand.ID == st.ID {
				continue
			}
			if s.ID == sys.ID {
				local = append(local, pair{cand, s})
			} else {
				away = append(away, pair{cand, s})
			}
		}
	}
	pool := away
	if len(pool) == 0 {
		pool = local
	}
	if len(pool) == 0 {
		return nil, nil
	}
	p := pool[rng.Intn(len(pool))]
	return p.st, p.sys
}

// newDeliveryMission: haul a consignment handed over at accept to a station
// elsewhere. TRAVEL to the destination system, then INTERACT with the pad.
func newDeliveryMission(rng *rand.Rand, uni *Universe, st *Station, sys *StarSystem, all []*StarSystem) *Mission {
	dest, destSys := pickOtherStation(rng, st, sys, all)
	if dest == nil {
		return nil
	}
	var deliverable []Commodity
	for _, c := range uni.Commodities {
		if !c.Contraband {
			deliverable = append(deliverable, c)
		}
	}
	if len(deliverable) == 0 {
		return nil
	}
	comm := deliverable[rng.Intn(len(deliverable))]
	qty := 3 + rng.Intn(6)

	m := newMissionShell(MissionTypeDelivery,
		fmt.Sprintf("Deliver %d %s to %s", qty, comm.Name, dest.Name),
		st, 150+rng.Intn(200))
	m.GrantedCargo = []CargoItem{{ItemID: comm.Key, Quantity: qty}}
	m.Objectives = []*MissionObjective{
		{
			ID:          NewID("obj"),
			Type:        ObjectiveTravel,
			Description: fmt.Sprintf("Travel to the %s system", destSys.Name),
			TargetID:    destSys.ID,
			TargetCount: 1,
		},
		{
			ID:           NewID("obj"),
			Type:         ObjectiveInteract,
			Description:  fmt.Sprintf("Hand the consignment to %s", dest.Name),
			TargetID:     dest.ID,
			TargetCount:  1,
			IsHidden:     true,
			ConsumeItems: []CargoItem{{ItemID: comm.Key, Quantity: qty}},
		},
	}
	return m
}

// newCombatMission: a sweep, destroy any few hostiles wherever found.
func newCombatMission(rng *rand.Rand, st *Station) *Mission {
	kills := 2 + rng.Intn(3)
	m := newMissionShell(MissionTypeCombat,
		fmt.Sprintf("Destroy %d hostile ships", kills),
		st, 120+kills*80+rng.Intn(100))
	m.Objectives = []*MissionObjective{
		{
			ID:          NewID("obj"),
			Type:        ObjectiveKill,
			Description: fmt.Sprintf("Destroy %d hostile ships", kills),
			TargetCount: kills,
		},
	}
	return m
}

// newMiningMission: bring back raw ore. The hold is the progress bar; the ore
// stays with the player, the reward is the payout.
func newMiningMission(rng *rand.Rand, uni *Universe, st *Station) *Mission {
	mineable := uni.MineableCommodities()
	if len(mineable) == 0 {
		return nil
	}
	comm := mineable[rng.Intn(len(mineable))]
	qty := 3 + rng.Intn(6)

	m := newMissionShell(MissionTypeMining,
		fmt.Sprintf("Mine %d %s", qty, comm.Name),
		st, 50+int(float64(qty)*comm.BasePrice)+rng.Intn(100))
	m.Objectives = []*MissionObjective{
		{
			ID:          NewID("obj"),
			Type:        ObjectiveGather,
			Description: fmt.Sprintf("Gather %d units of %s", qty, comm.Name),
			TargetID:    comm.Key,
			TargetCount: qty,
		},
	}
	return m
}

// newExplorationMission: visit a named far-off system.
func newExplorationMission(rng *rand.Rand, st *Station, sys *StarSystem, all []*StarSystem) *Mission {
	var candidates []*StarSystem
	for _, s := range all {
		if s.ID != sys.ID && !s.Discovered {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	target := candidates[rng.Intn(len(candidates))]

	m := newMissionShell(MissionTypeExploration,
		fmt.Sprintf("Chart the %s system", target.Name),
		st, 100+rng.Intn(150))
	m.Objectives = []*MissionObjective{
		{
			ID:          NewID("obj"),
			Type:        ObjectiveTravel,
			Description: fmt.Sprintf("Jump to the %s system and report back", target.Name),
			TargetID:    target.ID,
			TargetCount: 1,
		},
	}
	return m
}

// newEscortMission: shepherd a convoy to a neighbouring system. The escort
// step itself is one of the stubbed objective types, so the board shows the
// job but the convoy never actually launches.
func newEscortMission(rng *rand.Rand, st *Station, sys *StarSystem, all []*StarSystem) *Mission {
	dest, destSys := pickOtherStation(rng, st, sys, all)
	if dest == nil {
		return nil
	}
	m := newMissionShell(MissionTypeEscort,
		fmt.Sprintf("Escort a convoy to %s", dest.Name),
		st, 250+rng.Intn(250))
	m.Objectives = []*MissionObjective{
		{
			ID:          NewID("obj"),
			Type:        ObjectiveTravel,
			Description: fmt.Sprintf("Meet the convoy in the %s system", destSys.Name),
			TargetID:    destSys.ID,
			TargetCount: 1,
		},
		{
			ID:          NewID("obj"),
			Type:        ObjectiveEscort,
			Description: fmt.Sprintf("Escort the convoy to %s", dest.Name),
			TargetID:    dest.ID,
			TargetCount: 1,
			IsHidden:    true,
		},
	}
	return m
}

// ---------------------------------------------------------------------------
// Proposal templates (runtime replenishment)
// ---------------------------------------------------------------------------

// ProposeStationMissions attempts each proposal template once for a station
// and returns whatever qualified. Any template may contribute nothing; an
// empty result just means the galaxy offers no such work right now.
func ProposeStationMissions(rng *rand.Rand, uni *Universe, st *Station, sys *StarSystem, all []*StarSystem, factions map[string]*Faction) []*Mission {
	var proposed []*Mission
	if m := proposeBountyMission(rng, uni, st, all, factions); m != nil {
		proposed = append(proposed, m)
	}
	if m := proposeRepairMission(rng, st, all); m != nil {
		proposed = append(proposed, m)
	}
	if m := proposeEspionageMission(rng, st, sys, all); m != nil {
		proposed = append(proposed, m)
	}
	if m := proposeSmugglingMission(rng, uni, st, all, factions); m != nil {
		proposed = append(proposed, m)
	}
	return proposed
}

// proposeBountyMission needs at least one hostile-controlled system to hide
// the target in. The target is an elite variant (boosted pools and weapon,
// hotter engine) spawned into its hideout when the player arrives.
func proposeBountyMission(rng *rand.Rand, uni *Universe, st *Station, all []*StarSystem, factions map[string]*Faction) *Mission {
	var hideouts []*StarSystem
	for _, s := range all {
		if f, ok := factions[s.FactionID]; ok && f.Attitude() == AttitudeHostile {
			hideouts = append(hideouts, s)
		}
	}
	if len(hideouts) == 0 || len(uni.Hulls) == 0 {
		return nil
	}
	hideout := hideouts[rng.Intn(len(hideouts))]
	hull := uni.Hulls[rng.Intn(len(uni.Hulls))]
	name := pirateNames[rng.Intn(len(pirateNames))]

	target := &Enemy{
		ID: NewID("bounty"),
		Ship: Ship{
			ID:         NewID("ship"),
			Name:       name,
			HullKey:    hull.Key,
			Health:     hull.MaxHealth * 1.5,
			MaxHealth:  hull.MaxHealth * 1.5,
			Shields:    hull.MaxShields * 1.5,
			MaxShields: hull.MaxShields * 1.5,
			Energy:     hull.MaxEnergy * 1.5,
			MaxEnergy:  hull.MaxEnergy * 1.5,
			MaxCargo:   hull.MaxCargo,
			FactionID:  hideout.FactionID,
			Signature:  hull.Signature,
			Modules: []ShipModule{{
				Key:         "mod_corsair_battery",
				Name:        "Corsair Battery",
				Type:        ModuleTypeWeapon,
				DamageBonus: 10,
				SpeedBonus:  50,
			}},
		},
		AI:             EnemyAI{Behavior: BehaviorAggressive},
		IsBountyTarget: true,
	}

	m := newMissionShell(MissionTypeBounty,
		fmt.Sprintf("Eliminate %s", name),
		st, 300+rng.Intn(300))
	m.ReputationChange[st.FactionID] = 5
	m.BountyTarget = target
	m.BountySystemID = hideout.ID
	m.Objectives = []*MissionObjective{
		{
			ID:          NewID("obj"),
			Type:        ObjectiveTravel,
			Description: fmt.Sprintf("Track the target to the %s system", hideout.Name),
			TargetID:    hideout.ID,
			TargetCount: 1,
		},
		{
			ID:          NewID("obj"),
			Type:        ObjectiveKill,
			Description: fmt.Sprintf("Destroy %s", name),
			TargetID:    target.ID,
			TargetCount: 1,
			IsHidden:    true,
		},
	}
	return m
}

// proposeRepairMission needs a damaged world object somewhere: one GATHER
// per missing material, then an INTERACT at the site.
func proposeRepairMission(rng *rand.Rand, st *Station, all []*StarSystem) *Mission {
	type site struct {
		obj *WorldObject
		sys *StarSystem
	}
	var sites []site
	for _, s := range all {
		for _, w := range s.WorldObjects {
			if w.Status == WorldObjectStatusDamaged {
				sites = append(sites, site{w, s})
			}
		}
	}
	if len(sites) == 0 {
		return nil
	}
	chosen := sites[rng.Intn(len(sites))]
	label := "jump gate"
	if chosen.obj.Type == WorldObjectBrokenRelay {
		label = "relay"
	}

	m := newMissionShell(MissionTypeRepair,
		fmt.Sprintf("Restore the %s in %s", label, chosen.sys.Name),
		st, 200+rng.Intn(200))
	m.ReputationChange[st.FactionID] = 3

	for _, r := range chosen.obj.RequiredItems {
		missing := r.Required - r.Supplied
		if missing <= 0 {
			continue
		}
		m.Objectives = append(m.Objectives, &MissionObjective{
			ID:          NewID("obj"),
			Type:        ObjectiveGather,
			Description: fmt.Sprintf("Gather %d units of %s", missing, r.ItemID),
			TargetID:    r.ItemID,
			TargetCount: missing,
			IsHidden:    len(m.Objectives) > 0,
		})
	}
	if len(m.Objectives) == 0 {
		// Object was fully supplied while we looked; nothing to propose.
		return nil
	}
	m.Objectives = append(m.Objectives, &MissionObjective{
		ID:          NewID("obj"),
		Type:        ObjectiveInteract,
		Description: fmt.Sprintf("Repair the %s in %s", label, chosen.sys.Name),
		TargetID:    chosen.obj.ID,
		TargetCount: 1,
		IsHidden:    true,
	})
	return m
}

// proposeEspionageMission needs a military station or one run by an aligned
// (non-independent) faction. The scan step is a stubbed objective type, so
// the job is visible but never progresses past arrival.
func proposeEspionageMission(rng *rand.Rand, st *Station, sys *StarSystem, all []*StarSystem) *Mission {
	type mark struct {
		st  *Station
		sys *StarSystem
	}
	var marks []mark
	for _, s := range all {
		for _, cand := range s.Stations {
			if cand.ID == st.ID {
				continue
			}
			if cand.Type == MilitaryStationType || cand.FactionID != IndependentFactionKey {
				marks = append(marks, mark{cand, s})
			}
		}
	}
	if len(marks) == 0 {
		return nil
	}
	chosen := marks[rng.Intn(len(marks))]
	scanSeconds := 10 + rng.Intn(21)

	m := newMissionShell(MissionTypeEspionage,
		fmt.Sprintf("Survey %s", chosen.st.Name),
		st, 350+rng.Intn(250))
	m.Objectives = []*MissionObjective{
		{
			ID:          NewID("obj"),
			Type:        ObjectiveTravel,
			Description: fmt.Sprintf("Travel to the %s system", chosen.sys.Name),
			TargetID:    chosen.sys.ID,
			TargetCount: 1,
		},
		{
			ID:          NewID("obj"),
			Type:        ObjectiveScan,
			Description: fmt.Sprintf("Scan %s for %d seconds without being detected", chosen.st.Name, scanSeconds),
			TargetID:    chosen.st.ID,
			TargetCount: scanSeconds,
			IsHidden:    true,
		},
	}
	return m
}

// proposeSmugglingMission needs a hostile-controlled pickup system and a
// differently-controlled drop system, each with a station. The package is
// contraband: handed over at the pickup pad, surrendered at the drop.
func proposeSmugglingMission(rng *rand.Rand, uni *Universe, st *Station, all []*StarSystem, factions map[string]*Faction) *Mission {
	var contraband []Commodity
	for _, c := range uni.Commodities {
		if c.Contraband {
			contraband = append(contraband, c)
		}
	}
	if len(contraband) == 0 {
		return nil
	}

	var sources []*StarSystem
	for _, s := range all {
		f, ok := factions[s.FactionID]
		if ok && f.Attitude() == AttitudeHostile && len(s.Stations) > 0 {
			sources = append(sources, s)
		}
	}
	if len(sources) == 0 {
		return nil
	}
	source := sources[rng.Intn(len(sources))]

	var dests []*StarSystem
	for _, s := range all {
		if s.FactionID != source.FactionID && len(s.Stations) > 0 {
			dests = append(dests, s)
		}
	}
	if len(dests) == 0 {
		return nil
	}
	dest := dests[rng.Intn(len(dests))]

	pickup := source.Stations[rng.Intn(len(source.Stations))]
	drop := dest.Stations[rng.Intn(len(dest.Stations))]
	comm := contraband[rng.Intn(len(contraband))]
	qty := 2 + rng.Intn(5)

	m := newMissionShell(MissionTypeSmuggling,
		fmt.Sprintf("Quiet cargo for %s", drop.Name),
		st, 400+rng.Intn(400))
	m.ReputationChange[st.FactionID] = 3
	if rival := pickRivalFaction(rng, uni, st.FactionID); rival != "" {
		m.ReputationChange[rival] = -3
	}
	m.Objectives = []*MissionObjective{
		{
			ID:          NewID("obj"),
			Type:        ObjectiveInteract,
			Description: fmt.Sprintf("Collect the package at %s in %s", pickup.Name, source.Name),
			TargetID:    pickup.ID,
			TargetCount: 1,
			GrantItems:  []CargoItem{{ItemID: comm.Key, Quantity: qty}},
		},
		{
			ID:           NewID("obj"),
			Type:         ObjectiveInteract,
			Description:  fmt.Sprintf("Drop the package at %s in %s", drop.Name, dest.Name),
			TargetID:     drop.ID,
			TargetCount:  1,
			IsHidden:     true,
			ConsumeItems: []CargoItem{{ItemID: comm.Key, Quantity: qty}},
		},
	}
	return m
}

// pickRivalFaction returns a random faction key other than exclude, or "".
func pickRivalFaction(rng *rand.Rand, uni *Universe, exclude string) string {
	var others []string
	for _, f := range uni.Factions {
		if f.Key != exclude {
			others = append(others, f.Key)
		}
	}
	if len(others) == 0 {
		return ""
	}
	return others[rng.Intn(len(others))]
}
