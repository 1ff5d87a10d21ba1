package match

import (
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/agent"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/alliance"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/tasks"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/tuning"
)

// defenseHit is the penalty one target carries into the next tick.
type defenseHit struct {
	cycle, accuracy float64
}

// applyDefense recomputes every defense penalty from the engaged defenders
// and rolls their fouls. Penalties apply from the next tick; a target with
// more than one defender takes the strongest of them. Foul points go to the
// defended alliance.
func (m *match) applyDefense() [2]int {
	var received [2]int
	hits := make([]defenseHit, len(m.agents))
	for _, d := range m.agents {
		if !d.Engaged() || d.State() != tasks.Defending || m.cfg[d.Alliance].DisableDefense {
			continue
		}
		opp := d.Alliance.Opponent()
		slot := int(opp)*alliance.Size + d.Orders().DefenseTarget
		target := m.agents[slot]
		hit := m.t.Defense.Fixed
		if target.Cap.Turret {
			hit = m.t.Defense.Turret
		}
		h := &hits[slot]
		h.cycle = max(h.cycle, hit.CycleHit)
		h.accuracy = max(h.accuracy, hit.AccuracyHit)

		fouls, tech := d.RollFouls(m.foulZone(target))
		if fouls+tech == 0 {
			continue
		}
		pts := fouls*m.t.Scoring.Foul + tech*m.t.Scoring.TechFoul
		own := &m.res.Alliances[d.Alliance]
		own.Fouls += fouls
		own.TechFouls += tech
		own.PenaltiesCommitted += pts
		m.res.Alliances[opp].PenaltiesReceived += pts
		received[opp] += pts
	}
	for i, ag := range m.agents {
		ag.SetDefense(hits[i].cycle, hits[i].accuracy)
	}
	return received
}

// foulZone picks the contact rates from where the target is working.
func (m *match) foulZone(target *agent.Agent) tuning.ZoneFoul {
	switch {
	case target.State() == tasks.Climbing:
		return m.t.Defense.Tower
	case target.InNeutral():
		return m.t.Defense.Neutral
	}
	return m.t.Defense.OpponentZone
}
