package game

import (
	"math/rand"
	"testing"
)

func activeMission(objectives ...*MissionObjective) *Mission {
	return &Mission{
		ID:              NewID("msn"),
		Title:           "Test Job",
		Status:          MissionActive,
		SourceFactionID: "concord_union",
		SourceStationID: "stn-alpha",
		Objectives:      objectives,
		RewardCredits:   100,
	}
}

func TestAdvanceTravelObjective(t *testing.T) {
	s := fixtureState(t)
	m := activeMission(
		&MissionObjective{ID: "o1", Type: ObjectiveTravel, TargetID: "sys-beta", TargetCount: 1},
		&MissionObjective{ID: "o2", Type: ObjectiveKill, TargetCount: 1, IsHidden: true},
	)
	s.missions = append(s.missions, m)

	// Wrong system: nothing moves.
	ready := AdvanceMissions(s.missions, s.player, s.systems["sys-alpha"], TickEvents{})
	if len(ready) != 0 || m.Objectives[0].IsComplete {
		t.Fatal("travel objective completed in the wrong system")
	}

	ready = AdvanceMissions(s.missions, s.player, s.systems["sys-beta"], TickEvents{})
	if !m.Objectives[0].IsComplete {
		t.Fatal("travel objective not completed on arrival")
	}
	if m.CurrentObjective != 1 {
		t.Errorf("current objective = %d, want 1", m.CurrentObjective)
	}
	if m.Objectives[1].IsHidden {
		t.Error("next objective not revealed")
	}
	if len(ready) != 0 {
		t.Error("mission with an open kill reported ready")
	}
}

func TestAdvanceKillObjectives(t *testing.T) {
	s := fixtureState(t)
	named := activeMission(
		&MissionObjective{ID: "o1", Type: ObjectiveKill, TargetID: "enemy-mark", TargetCount: 1},
	)
	sweep := activeMission(
		&MissionObjective{ID: "o2", Type: ObjectiveKill, TargetCount: 3},
	)
	s.missions = append(s.missions, named, sweep)
	sys := s.systems["sys-alpha"]

	// An unrelated kill advances the sweep but not the named contract.
	ready := AdvanceMissions(s.missions, s.player, sys, TickEvents{
		DestroyedEnemies: []string{"enemy-other"},
		HostileKills:     2,
	})
	if len(ready) != 0 {
		t.Fatal("ready too early")
	}
	if named.Objectives[0].Progress != 0 {
		t.Errorf("named progress = %d, want 0", named.Objectives[0].Progress)
	}
	if sweep.Objectives[0].Progress != 2 {
		t.Errorf("sweep progress = %d, want 2", sweep.Objectives[0].Progress)
	}

	// The mark dies; two more kills overshoot the sweep and cap at target.
	ready = AdvanceMissions(s.missions, s.player, sys, TickEvents{
		DestroyedEnemies: []string{"enemy-mark", "enemy-extra"},
		HostileKills:     2,
	})
	if len(ready) != 2 {
		t.Fatalf("ready = %d missions, want both", len(ready))
	}
	if !named.Objectives[0].IsComplete {
		t.Error("named kill not complete")
	}
	if sweep.Objectives[0].Progress != 3 {
		t.Errorf("sweep progress = %d, want capped at 3", sweep.Objectives[0].Progress)
	}
}

// TestGatherMirrorsHold checks GATHER's pull-based progress: the hold is the
// progress bar, nothing is consumed, and a completed objective never regresses
// even if the stack is sold afterwards.
func TestGatherMirrorsHold(t *testing.T) {
	s := fixtureState(t)
	m := activeMission(
		&MissionObjective{ID: "o1", Type: ObjectiveGather, TargetID: "item_titanium", TargetCount: 3},
	)
	s.missions = append(s.missions, m)
	sys := s.systems["sys-alpha"]

	s.player.AddCargo("item_titanium", 2)
	AdvanceMissions(s.missions, s.player, sys, TickEvents{})
	if m.Objectives[0].Progress != 2 || m.Objectives[0].IsComplete {
		t.Fatalf("progress = %d complete=%v, want 2/open", m.Objectives[0].Progress, m.Objectives[0].IsComplete)
	}

	// Losing ore before completion regresses the mirror.
	s.player.RemoveCargo("item_titanium", 1)
	AdvanceMissions(s.missions, s.player, sys, TickEvents{})
	if m.Objectives[0].Progress != 1 {
		t.Errorf("progress = %d, want mirrored back to 1", m.Objectives[0].Progress)
	}

	s.player.AddCargo("item_titanium", 2)
	ready := AdvanceMissions(s.missions, s.player, sys, TickEvents{})
	if len(ready) != 1 || !m.Objectives[0].IsComplete {
		t.Fatal("gather objective not completed at target count")
	}
	if got := s.player.CargoQuantity("item_titanium"); got != 3 {
		t.Errorf("cargo = %d, want 3 still on board", got)
	}

	// Completion is sticky: selling the ore afterwards changes nothing.
	s.player.RemoveCargo("item_titanium", 3)
	AdvanceMissions(s.missions, s.player, sys, TickEvents{})
	if !m.Objectives[0].IsComplete || m.Objectives[0].Progress != 3 {
		t.Error("completed gather objective regressed")
	}
	if !m.ReadyForTurnIn() {
		t.Error("mission no longer ready after selling the ore")
	}
}

// TestInteractHandOverStallsWithoutGoods drives a delivery-style INTERACT: in
// position but short on goods, the step stalls; with the full consignment it
// consumes and completes.
func TestInteractHandOverStallsWithoutGoods(t *testing.T) {
	s := fixtureState(t)
	m := activeMission(
		&MissionObjective{
			ID: "o1", Type: ObjectiveInteract, TargetID: "stn-alpha", TargetCount: 1,
			ConsumeItems: []CargoItem{{ItemID: "item_rations", Quantity: 5}},
		},
	)
	s.missions = append(s.missions, m)
	sys := s.systems["sys-alpha"]
	s.player.Position = Vector2{X: 200} // On the pad

	s.player.AddCargo("item_rations", 3)
	AdvanceMissions(s.missions, s.player, sys, TickEvents{})
	if m.Objectives[0].IsComplete {
		t.Fatal("hand-over completed with a short consignment")
	}
	if got := s.player.CargoQuantity("item_rations"); got != 3 {
		t.Fatalf("stalled hand-over consumed cargo: %d", got)
	}

	s.player.AddCargo("item_rations", 2)
	ready := AdvanceMissions(s.missions, s.player, sys, TickEvents{})
	if len(ready) != 1 || !m.Objectives[0].IsComplete {
		t.Fatal("hand-over did not complete with the full consignment")
	}
	if got := s.player.CargoQuantity("item_rations"); got != 0 {
		t.Errorf("cargo = %d, want consignment consumed", got)
	}
}

// TestInteractDamagedObjectNeedsMaterials: proximity alone is not enough at a
// damaged site; the player must be holding everything it still needs. The
// objective itself consumes nothing (the repair action does that part).
func TestInteractDamagedObjectNeedsMaterials(t *testing.T) {
	s := fixtureState(t)
	m := activeMission(
		&MissionObjective{ID: "o1", Type: ObjectiveInteract, TargetID: "gate-1", TargetCount: 1},
	)
	s.missions = append(s.missions, m)
	sys := s.systems["sys-alpha"]
	s.player.Position = Vector2{X: -100} // At the gate

	AdvanceMissions(s.missions, s.player, sys, TickEvents{})
	if m.Objectives[0].IsComplete {
		t.Fatal("empty-handed visit completed a damaged-site objective")
	}

	s.player.AddCargo("item_hull_plating", 2)
	ready := AdvanceMissions(s.missions, s.player, sys, TickEvents{})
	if len(ready) != 1 || !m.Objectives[0].IsComplete {
		t.Fatal("objective open despite full materials on site")
	}
	if got := s.player.CargoQuantity("item_hull_plating"); got != 2 {
		t.Errorf("objective consumed materials: %d left, want 2", got)
	}
}

func TestInteractRequiresProximityToTarget(t *testing.T) {
	s := fixtureState(t)
	m := activeMission(
		&MissionObjective{ID: "o1", Type: ObjectiveInteract, TargetID: "stn-alpha", TargetCount: 1},
	)
	s.missions = append(s.missions, m)
	sys := s.systems["sys-alpha"]

	// Origin is 200 from the pad, four times the interaction reach.
	AdvanceMissions(s.missions, s.player, sys, TickEvents{})
	if m.Objectives[0].IsComplete {
		t.Error("INTERACT completed far outside the interaction radius")
	}

	// Targets in other systems never resolve.
	AdvanceMissions(s.missions, s.player, s.systems["sys-beta"], TickEvents{})
	if m.Objectives[0].IsComplete {
		t.Error("INTERACT resolved a target from another system")
	}
}

// TestSmugglingPickupGrantsPackage: the pickup INTERACT grants the package
// (stalling on a full hold) and records it as seizable mission cargo.
func TestSmugglingPickupGrantsPackage(t *testing.T) {
	s := fixtureState(t)
	m := activeMission(
		&MissionObjective{
			ID: "o1", Type: ObjectiveInteract, TargetID: "stn-alpha", TargetCount: 1,
			GrantItems: []CargoItem{{ItemID: "item_void_spice", Quantity: 3}},
		},
		&MissionObjective{
			ID: "o2", Type: ObjectiveInteract, TargetID: "stn-beta", TargetCount: 1, IsHidden: true,
			ConsumeItems: []CargoItem{{ItemID: "item_void_spice", Quantity: 3}},
		},
	)
	s.missions = append(s.missions, m)
	sys := s.systems["sys-alpha"]
	s.player.Position = Vector2{X: 200}

	// No room, no package.
	s.player.AddCargo("item_rations", s.player.MaxCargo-2)
	AdvanceMissions(s.missions, s.player, sys, TickEvents{})
	if m.Objectives[0].IsComplete {
		t.Fatal("pickup completed into a full hold")
	}

	s.player.RemoveCargo("item_rations", 5)
	AdvanceMissions(s.missions, s.player, sys, TickEvents{})
	if !m.Objectives[0].IsComplete {
		t.Fatal("pickup did not complete with room to spare")
	}
	if got := s.player.CargoQuantity("item_void_spice"); got != 3 {
		t.Errorf("package = %d units, want 3", got)
	}
	if len(m.GrantedCargo) != 1 || m.GrantedCargo[0].ItemID != "item_void_spice" {
		t.Errorf("granted cargo = %+v, want the package recorded", m.GrantedCargo)
	}
	if m.Objectives[1].IsHidden {
		t.Error("drop step not revealed after pickup")
	}
}

func TestScanObjectiveNeverProgresses(t *testing.T) {
	s := fixtureState(t)
	m := activeMission(
		&MissionObjective{ID: "o1", Type: ObjectiveScan, TargetID: "stn-alpha", TargetCount: 10},
	)
	s.missions = append(s.missions, m)
	sys := s.systems["sys-alpha"]
	s.player.Position = Vector2{X: 200}

	for i := 0; i < 5; i++ {
		if ready := AdvanceMissions(s.missions, s.player, sys, TickEvents{}); len(ready) != 0 {
			t.Fatal("stubbed scan objective reported ready")
		}
	}
	if m.Objectives[0].IsComplete || m.Objectives[0].Progress != 0 {
		t.Error("stubbed scan objective progressed")
	}
}

func TestAdvanceSkipsInactiveMissions(t *testing.T) {
	s := fixtureState(t)
	posted := activeMission(
		&MissionObjective{ID: "o1", Type: ObjectiveTravel, TargetID: "sys-alpha", TargetCount: 1},
	)
	posted.Status = MissionAvailable
	done := activeMission(
		&MissionObjective{ID: "o2", Type: ObjectiveTravel, TargetID: "sys-alpha", TargetCount: 1},
	)
	done.Status = MissionCompletedSuccess
	s.missions = append(s.missions, posted, done)

	AdvanceMissions(s.missions, s.player, s.systems["sys-alpha"], TickEvents{})
	if posted.Objectives[0].IsComplete || done.Objectives[0].IsComplete {
		t.Error("evaluation touched a non-active mission")
	}
}

// TestDeliveryMissionLifecycle runs one generated delivery job end to end:
// accept with consignment, fly out, hand over, fly home, collect.
func TestDeliveryMissionLifecycle(t *testing.T) {
	s := fixtureState(t)
	rng := rand.New(rand.NewSource(3))
	st := s.systems["sys-alpha"].Stations[0]

	m := newDeliveryMission(rng, s.uni, st, s.systems["sys-alpha"], s.ordered)
	if m == nil {
		t.Fatal("delivery template found no destination in the fixture")
	}
	st.Missions = append(st.Missions, m)

	dockAt(t, s, st.ID)
	if err := s.AcceptMission(m.ID); err != nil {
		t.Fatalf("AcceptMission: %v", err)
	}
	consign := m.GrantedCargo[0]
	if got := s.player.CargoQuantity(consign.ItemID); got != consign.Quantity {
		t.Fatalf("consignment = %d, want %d", got, consign.Quantity)
	}

	if err := s.UndockFromStation(); err != nil {
		t.Fatalf("UndockFromStation: %v", err)
	}
	destSysID := m.Objectives[0].TargetID
	if err := s.JumpToSystem(destSysID); err != nil {
		t.Fatalf("JumpToSystem(%s): %v", destSysID, err)
	}

	ready := AdvanceMissions(s.missions, s.player, s.currentSystem(), TickEvents{})
	if len(ready) != 0 {
		t.Fatal("ready before the hand-over")
	}
	if m.CurrentObjective != 1 || m.Objectives[1].IsHidden {
		t.Fatal("arrival did not reveal the hand-over step")
	}

	// Fly to the pad and hand the consignment over.
	destStation := m.Objectives[1].TargetID
	for _, cand := range s.currentSystem().Stations {
		if cand.ID == destStation {
			s.player.Position = cand.Position
		}
	}
	ready = AdvanceMissions(s.missions, s.player, s.currentSystem(), TickEvents{})
	if len(ready) != 1 {
		t.Fatal("hand-over did not finish the mission")
	}
	if got := s.player.CargoQuantity(consign.ItemID); got != 0 {
		t.Fatalf("consignment not consumed: %d left", got)
	}

	// Home for the payout.
	if err := s.JumpToSystem("sys-alpha"); err != nil {
		t.Fatalf("return jump: %v", err)
	}
	dockAt(t, s, st.ID)
	credits := s.credits
	if err := s.CompleteMission(m.ID); err != nil {
		t.Fatalf("CompleteMission: %v", err)
	}
	if s.credits != credits+m.RewardCredits {
		t.Errorf("credits = %d, want %d", s.credits, credits+m.RewardCredits)
	}
}

func TestGenerateStationMissionsBoard(t *testing.T) {
	s := fixtureState(t)
	rng := rand.New(rand.NewSource(11))
	st := s.systems["sys-alpha"].Stations[0]

	board := GenerateStationMissions(rng, s.uni, st, s.systems["sys-alpha"], s.ordered)
	if len(board) < MissionsPerStationMin || len(board) > MissionsPerStationMax {
		t.Fatalf("board = %d missions, want %d..%d", len(board), MissionsPerStationMin, MissionsPerStationMax)
	}
	for _, m := range board {
		if m.Status != MissionAvailable {
			t.Errorf("mission %s status = %q, want available", m.ID, m.Status)
		}
		if m.SourceStationID != st.ID || m.SourceFactionID != st.FactionID {
			t.Errorf("mission %s source = %s/%s", m.ID, m.SourceStationID, m.SourceFactionID)
		}
		if len(m.Objectives) == 0 {
			t.Fatalf("mission %s has no objectives", m.ID)
		}
		if m.Objectives[0].IsHidden {
			t.Errorf("mission %s first objective is hidden", m.ID)
		}
		if m.RewardCredits <= 0 {
			t.Errorf("mission %s pays nothing", m.ID)
		}
		switch m.Type {
		case MissionTypeDelivery, MissionTypeCombat, MissionTypeMining,
			MissionTypeExploration, MissionTypeEscort:
		default:
			t.Errorf("mission %s has non-board type %q", m.ID, m.Type)
		}
	}
}

// TestProposeStationMissions exercises all four runtime templates against the
// fixture, whose layout qualifies every one of them.
func TestProposeStationMissions(t *testing.T) {
	s := fixtureState(t)
	rng := rand.New(rand.NewSource(5))
	st := s.systems["sys-alpha"].Stations[0]

	proposed := ProposeStationMissions(rng, s.uni, st, s.systems["sys-alpha"], s.ordered, s.factions)
	byType := make(map[string]*Mission, len(proposed))
	for _, m := range proposed {
		byType[m.Type] = m
	}

	bounty := byType[MissionTypeBounty]
	if bounty == nil {
		t.Fatal("no bounty proposed despite a hostile hideout")
	}
	if bounty.BountyTarget == nil || !bounty.BountyTarget.IsBountyTarget {
		t.Error("bounty carries no elite target")
	}
	if bounty.BountySystemID == "" {
		t.Error("bounty has no hideout recorded")
	}
	last := bounty.Objectives[len(bounty.Objectives)-1]
	if last.Type != ObjectiveKill || last.TargetID != bounty.BountyTarget.ID {
		t.Errorf("bounty final objective = %s/%s, want a named kill", last.Type, last.TargetID)
	}

	repair := byType[MissionTypeRepair]
	if repair == nil {
		t.Fatal("no repair job proposed despite a damaged gate")
	}
	first, final := repair.Objectives[0], repair.Objectives[len(repair.Objectives)-1]
	if first.Type != ObjectiveGather || first.TargetID != "item_hull_plating" || first.TargetCount != 2 {
		t.Errorf("repair first objective = %+v, want gather 2 hull plating", first)
	}
	if final.Type != ObjectiveInteract || final.TargetID != "gate-1" {
		t.Errorf("repair final objective = %s/%s, want interact with the gate", final.Type, final.TargetID)
	}

	esp := byType[MissionTypeEspionage]
	if esp == nil {
		t.Fatal("no espionage proposed despite a military mark")
	}
	if esp.Objectives[len(esp.Objectives)-1].Type != ObjectiveScan {
		t.Error("espionage does not end in a scan")
	}

	smug := byType[MissionTypeSmuggling]
	if smug == nil {
		t.Fatal("no smuggling proposed despite contraband and a hostile source")
	}
	if smug.Objectives[0].TargetID != "stn-pirate" {
		t.Errorf("pickup at %q, want the hostile station", smug.Objectives[0].TargetID)
	}
	if len(smug.Objectives[0].GrantItems) == 0 || smug.Objectives[0].GrantItems[0].ItemID != "item_void_spice" {
		t.Error("pickup grants no contraband")
	}
	if len(smug.Objectives[1].ConsumeItems) == 0 {
		t.Error("drop consumes nothing")
	}
}
