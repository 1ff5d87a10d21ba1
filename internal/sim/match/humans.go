package match

import (
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/alliance"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/ledger"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/phase"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/rng"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/team"
)

// humanPlayer works one alliance's feed station. Its timer accumulates
// match seconds and is spent one action interval at a time.
type humanPlayer struct {
	alliance team.Alliance
	mode     alliance.HumanPlayerMode
	timer    float64
	rng      *rng.Stream
}

// humanAction is what one human player did this tick.
type humanAction struct {
	threw bool
	made  bool
	fed   int // slot, -1 when nothing was fed
}

// stepHuman is only called in shifts and the endgame. Mixed throws while the hub
// is eligible and feeds otherwise.
func (m *match) stepHuman(hp *humanPlayer, snap phase.Snapshot) humanAction {
	act := humanAction{fed: -1}
	hp.timer += m.t.TickSeconds
	throw := hp.mode == alliance.HPThrow || (hp.mode == alliance.HPMixed && snap.Eligible(hp.alliance))
	interval := m.t.HumanPlayer.FeedInterval
	if throw {
		interval = m.t.HumanPlayer.ThrowInterval
	}
	if hp.timer < interval {
		return act
	}
	hp.timer -= interval
	if throw {
		if m.ledger.Available(ledger.AtStation(hp.alliance)) == 0 {
			return act
		}
		made := hp.rng.Bernoulli(m.t.HumanPlayer.ThrowAccuracy)
		act.threw = m.ledger.Throw(hp.alliance, made, snap.Elapsed)
		act.made = act.threw && made
		return act
	}
	// Feed the first scorer with room.
	for _, ag := range m.byAlliance[hp.alliance] {
		if !ag.Cap.CanScore() || m.ledger.Room(ag.Slot) <= 0 {
			continue
		}
		if m.ledger.RequestIntake(ag.Slot, ledger.AtStation(hp.alliance), 1) > 0 {
			act.fed = ag.Slot
		}
		break
	}
	return act
}
