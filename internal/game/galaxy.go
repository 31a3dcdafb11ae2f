/*
Package game
File: galaxy.go
Description:
    Procedural galaxy generation. One seeded *rand.Rand in, a fully linked,
    populated, reachable galaxy out. All iteration that consumes randomness
    walks ordered slices (never maps) so a seed always produces the same map.

    A single station or asteroid that can't be built is logged and skipped;
    the galaxy as a whole never fails to generate.
*/

package game

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/calebaero/stellar-drift-trader-game/pkg/logger"
)

// stationSuffixes combine with the system name ("Kepler Orbital").
var stationSuffixes = []string{
	"Station", "Orbital", "Depot", "Anchorage", "Terminal", "Outpost", "Yards", "Haven",
}

// GenerateGalaxy builds the whole map from one seed: systems placed on a
// jittered ring, probabilistic jump links (some replaced by damaged gates),
// a connectivity repair pass, then stations, asteroids, relays and mission
// boards. Returns the systems in generation order plus the start's ID.
func GenerateGalaxy(rng *rand.Rand, uni *Universe) ([]*StarSystem, string) {
	// 1. Place the systems
	ordered := placeSystems(rng, uni)

	// 2. Link them (probabilistic edges, some become damaged gates)
	linkSystems(rng, uni, ordered)

	// 3. Guarantee every system is reachable from the start
	ensureConnectivity(ordered)

	// 4. Populate: stations, asteroids, relays first...
	for _, sys := range ordered {
		populateSystem(rng, uni, sys, sys == ordered[0])
	}

	// 5. ...then mission boards, which need the finished galaxy to pick
	//    delivery destinations and bounty systems.
	for _, sys := range ordered {
		for _, st := range sys.Stations {
			st.Missions = GenerateStationMissions(rng, uni, st, sys, ordered)
		}
	}

	// 6. Reveal the start and a few of its neighbours
	start := ordered[0]
	start.Discovered = true
	for _, id := range start.Connections {
		if rng.Float64() < NeighborDiscoveryChance {
			for _, sys := range ordered {
				if sys.ID == id {
					sys.Discovered = true
				}
			}
		}
	}

	return ordered, start.ID
}

// placeSystems creates GalaxySystemCount systems on a jittered polar ring so
// the map spreads out without overlaps. Names are drawn without replacement.
func placeSystems(rng *rand.Rand, uni *Universe) []*StarSystem {
	// Shuffle a copy of the name pool; take names front to back.
	names := make([]string, len(uni.SystemNames))
	copy(names, uni.SystemNames)
	rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })

	ordered := make([]*StarSystem, 0, GalaxySystemCount)
	for i := 0; i < GalaxySystemCount; i++ {
		// Even angular spacing with jitter keeps neighbours near each other
		// without collapsing the ring into a clump.
		angle := (float64(i)/float64(GalaxySystemCount))*2*math.Pi + (rng.Float64()-0.5)*(math.Pi/float64(GalaxySystemCount))
		radius := GalaxyRadiusMin + rng.Float64()*(GalaxyRadiusMax-GalaxyRadiusMin)

		sys := &StarSystem{
			ID:        NewID("sys"),
			Name:      names[i],
			Position:  FromAngle(angle).Scale(radius),
			Star:      starClasses[rng.Intn(len(starClasses))],
			FactionID: uni.Factions[rng.Intn(len(uni.Factions))].Key,
		}
		if i == 0 {
			// The starting system belongs to the first-listed faction, which
			// universe.yaml keeps on friendly terms with new players.
			sys.FactionID = uni.Factions[0].Key
		}
		ordered = append(ordered, sys)
	}
	return ordered
}

// linkSystems rolls each close pair for a jump link. A rolled link has a
// further chance to spawn as a damaged jump gate instead: the connection is
// withheld and a repairable gate object is placed on the near side.
func linkSystems(rng *rand.Rand, uni *Universe, ordered []*StarSystem) {
	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			a, b := ordered[i], ordered[j]
			if a.Position.Distance(b.Position) >= EdgeDistanceMax {
				continue
			}
			if rng.Float64() >= EdgeProbability {
				continue
			}
			if rng.Float64() < GateReplaceChance {
				gate := newDamagedGate(rng, uni, a, b)
				if gate != nil {
					a.WorldObjects = append(a.WorldObjects, gate)
				}
				continue
			}
			a.Connections = append(a.Connections, b.ID)
			b.Connections = append(b.Connections, a.ID)
		}
	}
}

// newDamagedGate builds the gate object standing in for the a<->b link. It
// sits in system a, out along the bearing toward b, waiting for materials.
func newDamagedGate(rng *rand.Rand, uni *Universe, a, b *StarSystem) *WorldObject {
	required := rollRequiredItems(rng, uni)
	if len(required) == 0 {
		logger.Log.WithField("system", a.Name).Warn("Skipping jump gate: no repair materials defined")
		return nil
	}
	bearing := b.Position.Sub(a.Position).Normalize()
	return &WorldObject{
		ID:            NewID("gate"),
		Type:          WorldObjectDamagedJumpGate,
		Position:      bearing.Scale(AsteroidRingMax + 100 + rng.Float64()*200),
		Status:        WorldObjectStatusDamaged,
		RequiredItems: required,
		LinkFrom:      a.ID,
		LinkTo:        b.ID,
	}
}

// rollRequiredItems draws 1-2 repair materials with quantities 2-6.
func rollRequiredItems(rng *rand.Rand, uni *Universe) []RequiredItem {
	if len(uni.RepairMaterials) == 0 {
		return nil
	}
	count := 1 + rng.Intn(2)
	if count > len(uni.RepairMaterials) {
		count = len(uni.RepairMaterials)
	}
	// Draw without replacement from a shuffled copy.
	pool := make([]string, len(uni.RepairMaterials))
	copy(pool, uni.RepairMaterials)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	items := make([]RequiredItem, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, RequiredItem{
			ItemID:   pool[i],
			Required: 2 + rng.Intn(5),
		})
	}
	return items
}

// ensureConnectivity walks the link graph from the start system and, while
// any system is unreachable, grafts the closest stranded system onto the
// closest reached one. Terminates in at most len(ordered)-1 grafts.
func ensureConnectivity(ordered []*StarSystem) {
	if len(ordered) == 0 {
		return
	}
	byID := make(map[string]*StarSystem, len(ordered))
	for _, sys := range ordered {
		byID[sys.ID] = sys
	}

	reached := bfsFrom(ordered[0], byID)
	for len(reached) < len(ordered) {
		// Find the cheapest graft: nearest (stranded, reached) pair.
		var bestStranded, bestReached *StarSystem
		bestDist := math.MaxFloat64
		for _, sys := range ordered {
			if reached[sys.ID] {
				continue
			}
			for _, other := range ordered {
				if !reached[other.ID] {
					continue
				}
				if d := sys.Position.Distance(other.Position); d < bestDist {
					bestDist = d
					bestStranded, bestReached = sys, other
				}
			}
		}

		bestStranded.Connections = append(bestStranded.Connections, bestReached.ID)
		bestReached.Connections = append(bestReached.Connections, bestStranded.ID)
		logger.Log.WithFields(map[string]interface{}{
			"stranded": bestStranded.Name,
			"anchor":   bestReached.Name,
		}).Debug("Connectivity repair: grafted stranded system")

		// The graft can pull a whole stranded cluster in, so re-walk.
		reached = bfsFrom(ordered[0], byID)
	}
}

// bfsFrom returns the set of system IDs reachable from start via Connections.
func bfsFrom(start *StarSystem, byID map[string]*StarSystem) map[string]bool {
	reached := map[string]bool{start.ID: true}
	queue := []*StarSystem{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, id := range cur.Connections {
			if reached[id] {
				continue
			}
			next, ok := byID[id]
			if !ok {
				continue
			}
			reached[id] = true
			queue = append(queue, next)
		}
	}
	return reached
}

// populateSystem fills one system with stations, asteroids and (sometimes) a
// broken relay. isStart suppresses the relay so the opening system is safe.
func populateSystem(rng *rand.Rand, uni *Universe, sys *StarSystem, isStart bool) {
	// --- STATIONS ---
	stationCount := StationsPerSystemMin + rng.Intn(StationsPerSystemMax-StationsPerSystemMin+1)
	for i := 0; i < stationCount; i++ {
		st := newStation(rng, uni, sys, i)
		if st == nil {
			logger.Log.WithField("system", sys.Name).Warn("Skipping station: generation failed")
			continue
		}
		sys.Stations = append(sys.Stations, st)
	}

	// --- ASTEROIDS ---
	asteroidCount := AsteroidsPerSystemMin + rng.Intn(AsteroidsPerSystemMax-AsteroidsPerSystemMin+1)
	for i := 0; i < asteroidCount; i++ {
		sys.Asteroids = append(sys.Asteroids, newAsteroid(rng, uni))
	}

	// --- BROKEN RELAY ---
	if !isStart && rng.Float64() < BrokenRelayChance {
		required := rollRequiredItems(rng, uni)
		if len(required) == 0 {
			logger.Log.WithField("system", sys.Name).Warn("Skipping relay: no repair materials defined")
			return
		}
		sys.WorldObjects = append(sys.WorldObjects, &WorldObject{
			ID:            NewID("relay"),
			Type:          WorldObjectBrokenRelay,
			Position:      ringPosition(rng, StationRingMax, AsteroidRingMax),
			Status:        WorldObjectStatusDamaged,
			RequiredItems: required,
		})
	}
}

// newStation builds one station with a market. Missions come later, in the
// generator's second pass.
func newStation(rng *rand.Rand, uni *Universe, sys *StarSystem, index int) *Station {
	if len(uni.StationTypes) == 0 {
		return nil
	}
	suffix := stationSuffixes[rng.Intn(len(stationSuffixes))]
	name := fmt.Sprintf("%s %s", sys.Name, suffix)
	if index > 0 {
		name = fmt.Sprintf("%s %s %d", sys.Name, suffix, index+1)
	}
	return &Station{
		ID:        NewID("stn"),
		Name:      name,
		Position:  ringPosition(rng, StationRingMin, StationRingMax),
		Type:      uni.StationTypes[rng.Intn(len(uni.StationTypes))],
		FactionID: sys.FactionID,
		Market:    newMarket(rng, uni),
	}
}

// newMarket rolls the commodity listings for one station. Contraband is never
// listed; everything else shows up with MarketAvailability probability at a
// price within PriceVariance of base.
func newMarket(rng *rand.Rand, uni *Universe) map[string]*MarketEntry {
	market := make(map[string]*MarketEntry)
	for _, c := range uni.Commodities {
		if c.Contraband {
			continue
		}
		if rng.Float64() >= MarketAvailability {
			continue
		}
		variance := 1.0 - PriceVariance + rng.Float64()*2*PriceVariance
		market[c.Key] = &MarketEntry{
			Price:  math.Round(c.BasePrice*variance*100) / 100,
			Supply: 5 + rng.Intn(46),
			Demand: 5 + rng.Intn(46),
		}
	}
	return market
}

// newAsteroid rolls one rock. Health is tied to size so bigger rocks take
// more shots; most contain something worth the trouble.
func newAsteroid(rng *rand.Rand, uni *Universe) *Asteroid {
	size := AsteroidSizeMin + rng.Float64()*(AsteroidSizeMax-AsteroidSizeMin)
	ast := &Asteroid{
		ID:       NewID("ast"),
		Position: ringPosition(rng, AsteroidRingMin, AsteroidRingMax),
		Size:     size,
		Health:   size * 2,
	}
	if rng.Float64() < AsteroidResourceChance {
		mineable := uni.MineableCommodities()
		comm := mineable[rng.Intn(len(mineable))]
		ast.Resources = []CargoItem{{ItemID: comm.Key, Quantity: 2 + rng.Intn(5)}}
	}
	return ast
}

// ringPosition rolls a system-local position on an annulus around the star.
func ringPosition(rng *rand.Rand, minRadius, maxRadius float64) Vector2 {
	angle := rng.Float64() * 2 * math.Pi
	radius := minRadius + rng.Float64()*(maxRadius-minRadius)
	return FromAngle(angle).Scale(radius)
}
