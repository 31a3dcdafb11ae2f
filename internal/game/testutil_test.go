package game

import (
	"math/rand"
	"testing"
)

// testUniverse builds a small, valid reference set so tests never depend on
// the shipped universe.yaml.
func testUniverse() *Universe {
	return &Universe{
		Balance: GameBalance{
			StartingCredits: 500,
			StartingHull:    "hull_wayfarer",
			StartingWeapon:  "mod_pulse_cannon",
		},
		Hulls: []ShipHull{
			{Key: "hull_wayfarer", Name: "Wayfarer", MaxHealth: 100, MaxShields: 50, MaxEnergy: 100, MaxFuel: 100, MaxCargo: 20, ModuleSlots: 3, Signature: 1.0},
			{Key: "hull_kestrel", Name: "Kestrel", MaxHealth: 80, MaxShields: 40, MaxEnergy: 90, MaxFuel: 80, MaxCargo: 12, ModuleSlots: 2, Signature: 0.8},
		},
		Modules: []ShipModule{
			{Key: "mod_pulse_cannon", Name: "Pulse Cannon", Type: ModuleTypeWeapon},
			{Key: "mod_heavy_blaster", Name: "Heavy Blaster", Type: ModuleTypeWeapon, Cost: 800, DamageBonus: 15, SpeedBonus: 20, EnergyCost: 5},
			{Key: "mod_cargo_pod", Name: "Cargo Pod", Type: ModuleTypeCargo, Cost: 400, CargoBonus: 10},
			{Key: "mod_shield_booster", Name: "Shield Booster", Type: ModuleTypeShield, Cost: 650, ShieldBonus: 25},
		},
		Commodities: []Commodity{
			{Key: "item_titanium", Name: "Titanium Ore", BasePrice: 18, Mineable: true},
			{Key: "item_iridium", Name: "Iridium Ore", BasePrice: 42, Mineable: true},
			{Key: "item_rations", Name: "Protein Rations", BasePrice: 8},
			{Key: "item_hull_plating", Name: "Hull Plating", BasePrice: 35},
			{Key: "item_power_cells", Name: "Power Cells", BasePrice: 48},
			{Key: "item_void_spice", Name: "Void Spice", BasePrice: 220, Contraband: true},
		},
		Factions: []FactionDef{
			{Key: "concord_union", Name: "Concord Union", Color: "#4da6ff", Reputation: 30},
			{Key: "independents", Name: "Independent Stations", Color: "#9aa5b1", Reputation: 0},
			{Key: "crimson_corsairs", Name: "Crimson Corsairs", Color: "#ff4d4d", Reputation: -40},
		},
		SystemNames: []string{
			"Arcadia", "Bastion", "Caldera", "Duskfall", "Erebus", "Farpoint",
			"Gilead", "Hesperus", "Ishara", "Junction", "Kelt", "Lumen",
			"Meridian", "Novara",
		},
		StationTypes:    []string{"Trading Post", "Military", "Freeport"},
		RepairMaterials: []string{"item_hull_plating", "item_power_cells"},
	}
}

// fixtureState hand-rolls a tiny galaxy with known IDs:
//
//	sys-alpha (start, friendly): stn-alpha, ast-1, gate-1 (-> sys-gamma)
//	sys-beta (neutral, connected): stn-beta
//	sys-pirate (hostile, connected): stn-pirate
//	sys-gamma (hostile, NOT connected)
//
// Deterministic by construction, so action tests assert exact outcomes.
func fixtureState(t *testing.T) *State {
	t.Helper()
	uni := testUniverse()
	player := uni.NewPlayerShip()

	stnAlpha := &Station{
		ID:        "stn-alpha",
		Name:      "Alpha Station",
		Position:  Vector2{X: 200},
		Type:      "Trading Post",
		FactionID: "concord_union",
		Market: map[string]*MarketEntry{
			"item_rations":  {Price: 10, Supply: 30, Demand: 20},
			"item_titanium": {Price: 20.5, Supply: 10, Demand: 10},
		},
	}
	stnBeta := &Station{
		ID:        "stn-beta",
		Name:      "Beta Station",
		Position:  Vector2{X: 180},
		Type:      "Military",
		FactionID: "independents",
		Market:    map[string]*MarketEntry{},
	}
	stnPirate := &Station{
		ID:        "stn-pirate",
		Name:      "Pirate Den",
		Position:  Vector2{X: 250},
		Type:      "Freeport",
		FactionID: "crimson_corsairs",
		Market:    map[string]*MarketEntry{},
	}

	gate := &WorldObject{
		ID:       "gate-1",
		Type:     WorldObjectDamagedJumpGate,
		Position: Vector2{X: -100},
		Status:   WorldObjectStatusDamaged,
		RequiredItems: []RequiredItem{
			{ItemID: "item_hull_plating", Required: 2},
		},
		LinkFrom: "sys-alpha",
		LinkTo:   "sys-gamma",
	}

	alpha := &StarSystem{
		ID:        "sys-alpha",
		Name:      "Alpha",
		FactionID: "concord_union",
		Stations:  []*Station{stnAlpha},
		Asteroids: []*Asteroid{
			{ID: "ast-1", Position: Vector2{X: 30}, Size: 10, Health: 20,
				Resources: []CargoItem{{ItemID: "item_titanium", Quantity: 3}}},
		},
		WorldObjects: []*WorldObject{gate},
		Connections:  []string{"sys-beta", "sys-pirate"},
		Discovered:   true,
	}
	beta := &StarSystem{
		ID:          "sys-beta",
		Name:        "Beta",
		FactionID:   "independents",
		Stations:    []*Station{stnBeta},
		Connections: []string{"sys-alpha"},
	}
	pirate := &StarSystem{
		ID:          "sys-pirate",
		Name:        "Pirate Reach",
		FactionID:   "crimson_corsairs",
		Stations:    []*Station{stnPirate},
		Connections: []string{"sys-alpha"},
	}
	gamma := &StarSystem{
		ID:        "sys-gamma",
		Name:      "Gamma",
		FactionID: "crimson_corsairs",
	}

	factions := make(map[string]*Faction, len(uni.Factions))
	for _, def := range uni.Factions {
		factions[def.Key] = &Faction{ID: def.Key, Name: def.Name, Color: def.Color, Reputation: def.Reputation}
	}

	return &State{
		uni:   uni,
		seed:  1,
		rng:   rand.New(rand.NewSource(1)),
		start: alpha.ID,
		systems: map[string]*StarSystem{
			alpha.ID: alpha, beta.ID: beta, pirate.ID: pirate, gamma.ID: gamma,
		},
		ordered:   []*StarSystem{alpha, beta, pirate, gamma},
		player:    &player,
		credits:   uni.Balance.StartingCredits,
		factions:  factions,
		currentID: alpha.ID,
		mode:      ModeSystem,
	}
}

// dockAt force-docks the fixture player for station-service tests.
func dockAt(t *testing.T, s *State, stationID string) {
	t.Helper()
	st := s.stationByID(stationID)
	if st == nil {
		t.Fatalf("fixture station %q not in current system", stationID)
	}
	s.player.Position = st.Position
	if err := s.DockAtStation(stationID); err != nil {
		t.Fatalf("DockAtStation(%q): %v", stationID, err)
	}
	s.drainIntents()
}
