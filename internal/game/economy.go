/*
Package game
File: economy.go
Description:
    The slow economic heartbeat of the galaxy.
    This includes:
    1. Drifting market prices within bounds and easing them back toward base.
    2. Breathing supply and demand up and down.
    3. Replenishing station mission boards that have run low.
*/

package game

import (
	"math"
)

// EconomyPulse advances every market and mission board by one beat. The loop
// calls it every EconomyInterval. Returns the ids of the stations where
// anything observable moved, so the pulse can be published by station.
func (s *State) EconomyPulse() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var refreshed []string
	for _, sys := range s.ordered {
		for _, st := range sys.Stations {
			drifted := s.driftMarketLocked(st)
			restocked := s.replenishBoardLocked(st, sys)
			if drifted || restocked {
				refreshed = append(refreshed, st.ID)
			}
		}
	}
	return refreshed
}

// driftMarketLocked random-walks one station's prices and stock. Prices stay
// inside [base*PriceFloorMult, base*PriceCeilMult] and are eased back toward
// base so a long-running market cannot wander off and stay there.
func (s *State) driftMarketLocked(st *Station) bool {
	changed := false
	for key, entry := range st.Market {
		comm := s.uni.CommodityByKey(key)
		if comm == nil {
			continue
		}
		base := float64(comm.BasePrice)

		// 1. Random walk, up to PriceDriftMax of base per pulse.
		delta := (s.rng.Float64()*2 - 1) * PriceDriftMax * base

		// 2. Recovery: 5% of the gap back toward base.
		delta += (base - entry.Price) * 0.05

		price := entry.Price + delta
		price = math.Max(price, base*PriceFloorMult)
		price = math.Min(price, base*PriceCeilMult)
		price = math.Round(price*100) / 100
		if price != entry.Price {
			entry.Price = price
			changed = true
		}

		// 3. Stock breathes a few units either way.
		if drift := s.rng.Intn(SupplyDriftMax*2+1) - SupplyDriftMax; drift != 0 {
			entry.Supply += drift
			if entry.Supply < 0 {
				entry.Supply = 0
			}
			changed = true
		}
		if drift := s.rng.Intn(SupplyDriftMax*2+1) - SupplyDriftMax; drift != 0 {
			entry.Demand += drift
			if entry.Demand < 0 {
				entry.Demand = 0
			}
			changed = true
		}
	}
	return changed
}

// replenishBoardLocked tops up a mission board that has dropped below the
// minimum. New offers come from the proposal templates first, which may all
// decline; the board archetypes fill whatever gap remains.
func (s *State) replenishBoardLocked(st *Station, sys *StarSystem) bool {
	if len(st.Missions) >= MissionsPerStationMin {
		return false
	}
	target := s.rng.Intn(MissionsPerStationMax-MissionsPerStationMin+1) + MissionsPerStationMin

	// 1. Proposals: bounty, repair, espionage, smuggling. Each is attempted
	//    independently and is free to return nothing.
	for _, m := range ProposeStationMissions(s.rng, s.uni, st, sys, s.ordered, s.factions) {
		if len(st.Missions) >= target {
			break
		}
		st.Missions = append(st.Missions, m)
	}

	// 2. Standing archetypes fill the rest.
	if len(st.Missions) < target {
		for _, m := range GenerateStationMissions(s.rng, s.uni, st, sys, s.ordered) {
			if len(st.Missions) >= target {
				break
			}
			st.Missions = append(st.Missions, m)
		}
	}
	return true
}
