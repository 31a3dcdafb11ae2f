/*
Package game
File: snapshot.go
Description:
    The read model. Snapshot deep-copies everything the presentation layer
    may see, under the read lock, so callers marshal and inspect it without
    holding anything and without racing the simulation.
*/

package game

// Snapshot is a consistent, fully-detached view of the game.
type Snapshot struct {
	Tick            uint64       `json:"tick"`
	Seed            int64        `json:"seed"`
	Mode            string       `json:"mode"`
	GameOver        bool         `json:"game_over"`
	Credits         int          `json:"credits"`
	Player          Ship         `json:"player"`
	CurrentSystemID string       `json:"current_system_id"`
	CurrentSystem   SystemView   `json:"current_system"`
	DockedStationID string       `json:"docked_station_id,omitempty"`
	Galaxy          []GalaxyNode `json:"galaxy"`
	Factions        []Faction    `json:"factions"`
	Missions        []Mission    `json:"missions"`
	Enemies         []Enemy      `json:"enemies"`
	Projectiles     []Projectile `json:"projectiles"`
	Explosions      []Explosion  `json:"explosions"`
}

// SystemView is the player's current system with all local content.
type SystemView struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Star         Star          `json:"star"`
	FactionID    string        `json:"faction_id"`
	Stations     []Station     `json:"stations"`
	Asteroids    []Asteroid    `json:"asteroids"`
	WorldObjects []WorldObject `json:"world_objects"`
	Connections  []string      `json:"connections"`
}

// GalaxyNode is one discovered system on the galaxy map.
type GalaxyNode struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Position    Vector2  `json:"position"`
	StarClass   string   `json:"star_class"`
	FactionID   string   `json:"faction_id"`
	Connections []string `json:"connections"`
	Current     bool     `json:"current"`
}

// Snapshot builds the detached view. Safe to call from any goroutine.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Tick:            s.tick,
		Seed:            s.seed,
		Mode:            s.mode,
		GameOver:        s.gameOver,
		Credits:         s.credits,
		Player:          cloneShip(s.player),
		CurrentSystemID: s.currentID,
		DockedStationID: s.dockedAt,
	}

	if sys := s.currentSystem(); sys != nil {
		snap.CurrentSystem = cloneSystemView(sys)
	}

	for _, sys := range s.ordered {
		if !sys.Discovered {
			continue
		}
		snap.Galaxy = append(snap.Galaxy, GalaxyNode{
			ID:          sys.ID,
			Name:        sys.Name,
			Position:    sys.Position,
			StarClass:   sys.Star.Class,
			FactionID:   sys.FactionID,
			Connections: append([]string(nil), sys.Connections...),
			Current:     sys.ID == s.currentID,
		})
	}

	for _, def := range s.uni.Factions {
		if f, ok := s.factions[def.Key]; ok {
			snap.Factions = append(snap.Factions, *f)
		}
	}
	for _, m := range s.missions {
		snap.Missions = append(snap.Missions, cloneMission(m))
	}
	for _, e := range s.enemies {
		snap.Enemies = append(snap.Enemies, cloneEnemy(e))
	}
	for _, p := range s.projectiles {
		snap.Projectiles = append(snap.Projectiles, *p)
	}
	for _, e := range s.explosions {
		snap.Explosions = append(snap.Explosions, *e)
	}
	return snap
}

// ---------------------------------------------------------------------------
// Clone helpers. Shared by Snapshot and by the loop's working-set loads.
// ---------------------------------------------------------------------------

func cloneShip(s *Ship) Ship {
	out := *s
	out.Cargo = append([]CargoItem(nil), s.Cargo...)
	out.Modules = append([]ShipModule(nil), s.Modules...)
	return out
}

func cloneEnemy(e *Enemy) Enemy {
	out := *e
	out.Ship = cloneShip(&e.Ship)
	return out
}

func cloneMission(m *Mission) Mission {
	out := *m
	out.Objectives = make([]*MissionObjective, len(m.Objectives))
	for i, o := range m.Objectives {
		oc := *o
		oc.GrantItems = append([]CargoItem(nil), o.GrantItems...)
		oc.ConsumeItems = append([]CargoItem(nil), o.ConsumeItems...)
		out.Objectives[i] = &oc
	}
	out.RewardItems = append([]CargoItem(nil), m.RewardItems...)
	out.GrantedCargo = append([]CargoItem(nil), m.GrantedCargo...)
	out.ReputationChange = make(map[string]int, len(m.ReputationChange))
	for k, v := range m.ReputationChange {
		out.ReputationChange[k] = v
	}
	out.BountyTarget = nil // Never exposed; the spawn is a surprise
	return out
}

func cloneStation(st *Station) Station {
	out := *st
	out.Market = make(map[string]*MarketEntry, len(st.Market))
	for k, v := range st.Market {
		entry := *v
		out.Market[k] = &entry
	}
	out.Missions = nil
	for _, m := range st.Missions {
		mc := cloneMission(m)
		out.Missions = append(out.Missions, &mc)
	}
	return out
}

func cloneEnemyList(list []*Enemy) []*Enemy {
	if len(list) == 0 {
		return nil
	}
	out := make([]*Enemy, len(list))
	for i, e := range list {
		ec := cloneEnemy(e)
		out[i] = &ec
	}
	return out
}

func cloneProjectileList(list []*Projectile) []*Projectile {
	if len(list) == 0 {
		return nil
	}
	out := make([]*Projectile, len(list))
	for i, p := range list {
		pc := *p
		out[i] = &pc
	}
	return out
}

func cloneExplosionList(list []*Explosion) []*Explosion {
	if len(list) == 0 {
		return nil
	}
	out := make([]*Explosion, len(list))
	for i, x := range list {
		xc := *x
		out[i] = &xc
	}
	return out
}

func cloneSystemView(sys *StarSystem) SystemView {
	view := SystemView{
		ID:          sys.ID,
		Name:        sys.Name,
		Star:        sys.Star,
		FactionID:   sys.FactionID,
		Connections: append([]string(nil), sys.Connections...),
	}
	for _, st := range sys.Stations {
		view.Stations = append(view.Stations, cloneStation(st))
	}
	for _, a := range sys.Asteroids {
		ac := *a
		ac.Resources = append([]CargoItem(nil), a.Resources...)
		view.Asteroids = append(view.Asteroids, ac)
	}
	for _, w := range sys.WorldObjects {
		wc := *w
		wc.RequiredItems = append([]RequiredItem(nil), w.RequiredItems...)
		view.WorldObjects = append(view.WorldObjects, wc)
	}
	return view
}
