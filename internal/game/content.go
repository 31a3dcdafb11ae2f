/*
Package game
File: content.go
Description:
    Loads and validates the static reference tables from 'universe.yaml'.
    The Universe is immutable after boot; everything the generator and the
    simulation need (hulls, modules, commodities, factions, name pools) comes
    through here exactly once.
*/

package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// starClasses is the spectral table the generator draws from. Weighting is
// implicit in repetition (M dwarfs are common, O giants rare).
var starClasses = []Star{
	{Class: "M", Color: "#ff6b4a"},
	{Class: "M", Color: "#ff6b4a"},
	{Class: "M", Color: "#ff6b4a"},
	{Class: "K", Color: "#ffa34d"},
	{Class: "K", Color: "#ffa34d"},
	{Class: "G", Color: "#ffd27d"},
	{Class: "G", Color: "#ffd27d"},
	{Class: "F", Color: "#fff4e8"},
	{Class: "A", Color: "#cfe3ff"},
	{Class: "B", Color: "#9fc3ff"},
	{Class: "O", Color: "#79a8ff"},
}

// LoadUniverse reads a YAML reference file and returns the validated Universe.
func LoadUniverse(path string) (*Universe, error) {
	// 1. Read the YAML file
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read universe file: %w", err)
	}

	// 2. Unmarshal into the Universe struct
	var uni Universe
	if err := yaml.Unmarshal(f, &uni); err != nil {
		return nil, fmt.Errorf("parse universe file: %w", err)
	}

	// 3. Validate cross-references before anything consumes them
	if err := uni.Validate(); err != nil {
		return nil, fmt.Errorf("validate universe file: %w", err)
	}

	return &uni, nil
}

// Validate checks the internal consistency of the reference tables. A broken
// reference here would otherwise surface as a nil deref mid-session, so boot
// refuses it instead.
func (u *Universe) Validate() error {
	// 1. Setup references must resolve
	if u.HullByKey(u.Balance.StartingHull) == nil {
		return fmt.Errorf("starting hull %q not found in ship_hulls", u.Balance.StartingHull)
	}
	if u.Balance.StartingWeapon != "" {
		m := u.ModuleByKey(u.Balance.StartingWeapon)
		if m == nil {
			return fmt.Errorf("starting weapon %q not found in ship_modules", u.Balance.StartingWeapon)
		}
		if m.Type != ModuleTypeWeapon {
			return fmt.Errorf("starting weapon %q has type %q, want %q", m.Key, m.Type, ModuleTypeWeapon)
		}
	}

	// 2. The generator needs non-empty pools to draw from
	if len(u.SystemNames) < GalaxySystemCount {
		return fmt.Errorf("need at least %d system_names, have %d", GalaxySystemCount, len(u.SystemNames))
	}
	if len(u.StationTypes) == 0 {
		return fmt.Errorf("station_types is empty")
	}
	if len(u.Factions) == 0 {
		return fmt.Errorf("factions is empty")
	}
	if len(u.MineableCommodities()) == 0 {
		return fmt.Errorf("no mineable commodities defined")
	}

	// 3. Repair materials must name real commodities
	for _, key := range u.RepairMaterials {
		if u.CommodityByKey(key) == nil {
			return fmt.Errorf("repair material %q not found in commodities", key)
		}
	}

	// 4. Module stat sanity: a weapon that refunds energy or a cargo pod
	//    with negative volume is a content bug, not a balance choice.
	for _, m := range u.Modules {
		if m.Cost < 0 {
			return fmt.Errorf("module %q has negative cost", m.Key)
		}
		if m.Type == ModuleTypeWeapon && BaseWeaponEnergyCost+m.EnergyCost < 0 {
			return fmt.Errorf("weapon %q drives energy cost below zero", m.Key)
		}
		if m.Type == ModuleTypeCargo && m.CargoBonus < 0 {
			return fmt.Errorf("cargo module %q has negative cargo bonus", m.Key)
		}
	}

	// 5. Duplicate keys silently shadow each other in the lookup helpers
	seen := make(map[string]bool)
	for _, h := range u.Hulls {
		if seen["hull:"+h.Key] {
			return fmt.Errorf("duplicate hull key %q", h.Key)
		}
		seen["hull:"+h.Key] = true
	}
	for _, m := range u.Modules {
		if seen["mod:"+m.Key] {
			return fmt.Errorf("duplicate module key %q", m.Key)
		}
		seen["mod:"+m.Key] = true
	}
	for _, c := range u.Commodities {
		if seen["item:"+c.Key] {
			return fmt.Errorf("duplicate commodity key %q", c.Key)
		}
		seen["item:"+c.Key] = true
	}

	return nil
}

// NewPlayerShip builds the starting vessel from the balance config: the
// starting hull at full pools, the starting weapon equipped, empty hold.
func (u *Universe) NewPlayerShip() Ship {
	hull := u.HullByKey(u.Balance.StartingHull)
	ship := Ship{
		ID:          NewID("ship"),
		Name:        "Drifter",
		HullKey:     hull.Key,
		Health:      hull.MaxHealth,
		MaxHealth:   hull.MaxHealth,
		Shields:     hull.MaxShields,
		MaxShields:  hull.MaxShields,
		Energy:      hull.MaxEnergy,
		MaxEnergy:   hull.MaxEnergy,
		Fuel:        hull.MaxFuel,
		MaxFuel:     hull.MaxFuel,
		MaxCargo:    hull.MaxCargo,
		ModuleSlots: hull.ModuleSlots,
		Cargo:       []CargoItem{},
		Modules:     []ShipModule{},
		Signature:   hull.Signature,
	}
	if u.Balance.StartingWeapon != "" {
		ship.Modules = append(ship.Modules, *u.ModuleByKey(u.Balance.StartingWeapon))
	}
	return ship
}
