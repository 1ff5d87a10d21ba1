package match

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/digestcodec"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/phase"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/team"
)

// stateDigest hashes everything that can influence later ticks, in a fixed
// order: clock, scores, pools, human players, tower and agents.
func (m *match) stateDigest(snap phase.Snapshot) string {
	h := sha256.New()
	var tmp [8]byte
	w := func(v int) { digestcodec.WriteInt(h, &tmp, v) }

	w(snap.Elapsed)
	w(int(snap.Phase))
	digestcodec.WriteBool(h, snap.RedEligible)
	digestcodec.WriteBool(h, snap.BlueEligible)
	for i := range m.res.Alliances {
		a := &m.res.Alliances[i]
		w(a.Score)
		w(a.FuelScored)
		w(a.TowerPoints)
		w(a.PenaltiesReceived)
	}

	p := m.ledger.Pools()
	w(p.OnField)
	w(p.InFlight)
	w(p.InTransit)
	for _, a := range team.Both {
		w(p.AllianceZone[a])
		w(p.FeedStation[a])
		digestcodec.WriteF64(h, &tmp, m.ledger.Congestion(a))
	}
	for _, n := range p.Held {
		w(n)
	}
	w(m.ledger.Pending())

	for _, hp := range m.humans {
		digestcodec.WriteF64(h, &tmp, hp.timer)
	}
	for slot := range m.agents {
		digestcodec.WriteBool(h, m.tower.On(slot))
	}

	for _, ag := range m.agents {
		v := ag.View()
		w(v.Slot)
		digestcodec.WriteString(h, &tmp, string(v.State))
		w(v.Remaining)
		digestcodec.WriteString(h, &tmp, string(v.Role))
		w(v.Burst)
		digestcodec.WriteBool(h, v.Engaged)
		digestcodec.WriteBool(h, v.Stockpiled)
		digestcodec.WriteBool(h, v.Ready)
		w(int(v.Zone))
		w(v.ClimbLevel)
		digestcodec.WriteString(h, &tmp, string(v.Health.Intake))
		digestcodec.WriteString(h, &tmp, string(v.Health.Shooter))
		digestcodec.WriteString(h, &tmp, string(v.Health.Turret))
		digestcodec.WriteF64(h, &tmp, v.Accuracy)
		digestcodec.WriteF64(h, &tmp, v.ShootRate)
		cyc, acc := ag.DefensePenalty()
		digestcodec.WriteF64(h, &tmp, cyc)
		digestcodec.WriteF64(h, &tmp, acc)
	}
	return hex.EncodeToString(h.Sum(nil))
}
