package match

import (
	"fmt"

	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/protocol"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/agent"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/alliance"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/ledger"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/phase"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/rng"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/simerr"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/strategy"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/team"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/tuning"
)

type match struct {
	t     tuning.Tuning
	cfg   [2]alliance.Config
	plans [2]strategy.Plan

	clock  *phase.Controller
	ledger *ledger.Ledger
	tower  *towers
	humans [2]*humanPlayer

	// agents is the flat table in step order: red 0..2 then blue 0..2.
	agents     []*agent.Agent
	byAlliance [2][]*agent.Agent
	credited   []bool
	lead       int

	obs TickObserver
	res Result
}

// RunSingleMatch plays one match between red and blue. Configuration errors
// are returned before any tick runs. An invariant violation aborts the match;
// the partial result is returned with the *simerr.InvariantError.
func RunSingleMatch(red, blue alliance.Config, seed int64, opts ...Option) (Result, error) {
	o := buildOptions(opts)
	m, err := newMatch(red, blue, seed, o)
	if err != nil {
		return Result{Seed: seed}, err
	}
	err = m.run()
	return m.res, err
}

// Prepare validates both alliances and returns the normalized configs and
// resolved plans without running anything.
func Prepare(red, blue alliance.Config, opts ...Option) ([2]alliance.Config, [2]strategy.Plan, error) {
	o := buildOptions(opts)
	m, err := newMatch(red, blue, 0, o)
	if err != nil {
		return [2]alliance.Config{}, [2]strategy.Plan{}, err
	}
	return m.cfg, m.plans, nil
}

func newMatch(red, blue alliance.Config, seed int64, o options) (*match, error) {
	t := o.env.Tuning
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("tuning: %w", err)
	}
	m := &match{t: t, obs: o.observer, lead: t.Ticks(t.Motion.AnticipationLead)}

	var caps [2][]agent.Capability
	for _, a := range team.Both {
		c := red
		if a == team.Blue {
			c = blue
		}
		c.Agents = append([]alliance.AgentConfig(nil), c.Agents...)
		c.Normalize()
		if err := c.Validate(o.env.Catalog, t); err != nil {
			return nil, fmt.Errorf("%s: %w", a, err)
		}
		m.cfg[a] = c
		for _, ac := range c.Agents {
			arch, _ := o.env.Catalog.Lookup(ac.Archetype)
			caps[a] = append(caps[a], agent.Resolve(arch, ac, t))
		}
	}
	for _, a := range team.Both {
		m.plans[a] = strategy.BuildPlan(m.cfg[a], caps[a], t)
		m.plans[a].ResolveTargets(caps[a.Opponent()])
	}

	root := rng.New(seed)
	agentRoot := root.Split("agent")
	humanRoot := root.Split("human")

	n := 2 * alliance.Size
	in := ledger.Initial{
		Total:    t.Field.TotalFuel,
		OnField:  t.Field.NeutralFuel,
		Held:     make([]int, n),
		Capacity: make([]int, n),
	}
	for _, a := range team.Both {
		// Preloads go out in slot order; whatever the robots cannot carry
		// starts at the alliance's feed station.
		left := t.Field.PreloadPerAlliance
		for i, c := range caps[a] {
			slot := int(a)*alliance.Size + i
			p := max(0, min(c.AutoFuel, t.Field.PreloadMaxPerAgent, c.Capacity, left))
			in.Held[slot] = p
			in.Capacity[slot] = c.Capacity
			left -= p
		}
		in.FeedStation[a] = t.Field.FeedStationFuel + left
	}
	l, err := ledger.New(in, root.Split("ledger"), ledger.DelaysFrom(t))
	if err != nil {
		return nil, err
	}
	l.SetCongestionDecay(t.Congestion.Decay)
	m.ledger = l
	m.clock = phase.New(t, o.tieBreak, root.Split("phase"))
	m.tower = newTowers(t.Field.TowerCapacity, n)
	m.credited = make([]bool, n)

	for _, a := range team.Both {
		for i, c := range caps[a] {
			slot := int(a)*alliance.Size + i
			ag := agent.New(slot, a, i, c, m.plans[a].Orders(i), m.cfg[a].Agents[i].Failures, t, agentRoot.SplitIndex(uint64(slot)))
			m.agents = append(m.agents, ag)
			m.byAlliance[a] = append(m.byAlliance[a], ag)
		}
		m.humans[a] = &humanPlayer{alliance: a, mode: m.plans[a].HumanPlayer, rng: humanRoot.SplitIndex(uint64(a))}
		m.res.Alliances[a].Preset = m.cfg[a].Preset
		m.res.Alliances[a].HumanPlayer = m.plans[a].HumanPlayer
	}
	m.res.Seed = seed
	return m, nil
}

func (m *match) run() error {
	var snap phase.Snapshot
	for {
		var boundary bool
		snap, boundary = m.clock.Advance()
		if snap.Phase == phase.Complete {
			break
		}
		if err := m.step(snap, boundary); err != nil {
			m.close(snap)
			return err
		}
	}
	m.close(snap)
	return nil
}

// step runs one tick in the fixed order: boundary roles, ledger release,
// human players, agents, defense, scores, then invariant checks.
func (m *match) step(snap phase.Snapshot, boundary bool) error {
	tick := snap.Elapsed
	if boundary {
		if snap.Phase == phase.Transition {
			m.clock.SetOpeningScores(m.res.Alliances[team.Red].AutoFuel, m.res.Alliances[team.Blue].AutoFuel)
			snap = m.clock.Snapshot()
		}
		m.res.Phases = append(m.res.Phases, PhaseScore{Phase: snap.Phase.String()})
		m.assignRoles(snap)
	}
	m.ledger.Advance(tick)

	var delta [2]int
	if snap.Phase.IsShift() || snap.Phase == phase.Endgame {
		for _, hp := range m.humans {
			act := m.stepHuman(hp, snap)
			r := &m.res.Alliances[hp.alliance]
			if act.threw {
				r.HumanThrows++
			}
			if act.made {
				r.HumanMade++
				m.creditFuel(hp.alliance, 1, snap, &delta)
			}
			if act.fed >= 0 {
				r.HumanFeeds++
			}
		}
	}

	for _, ag := range m.agents {
		e := agent.Env{
			Tick:   tick,
			Snap:   snap,
			Ledger: m.ledger,
			Tower:  m.tower,
		}
		e.Preposition = strategy.ShouldPreposition(m.plans[ag.Alliance], ag.Index, ag.Role(), snap, m.clock.NextEligibleIn(ag.Alliance), m.lead)
		ev := ag.Step(e)
		m.creditFuel(ag.Alliance, ev.Made, snap, &delta)
		if ev.Climb != nil && ev.Climb.Success {
			if err := m.creditClimb(ag, ev.Climb, tick, &delta); err != nil {
				return err
			}
		}
	}

	pen := m.applyDefense()
	ps := &m.res.Phases[len(m.res.Phases)-1]
	for _, a := range team.Both {
		d := delta[a] + pen[a]
		m.res.Alliances[a].Score += d
		if a == team.Red {
			ps.Red += d
		} else {
			ps.Blue += d
		}
	}

	m.ledger.EndTick()
	if err := m.check(tick); err != nil {
		return err
	}
	m.res.Ticks = tick + 1
	if m.obs != nil {
		_ = m.obs.WriteTick(m.tickRecord(snap))
	}
	return nil
}

func (m *match) assignRoles(snap phase.Snapshot) {
	for _, ag := range m.agents {
		role := strategy.RoleFor(m.plans[ag.Alliance], ag.Index, snap, ag.Alliance, ag.Cap)
		ag.OnPhaseChange(agent.Env{Tick: snap.Elapsed, Snap: snap, Ledger: m.ledger, Tower: m.tower}, role)
	}
}

// creditFuel scores n units launched by alliance a at shot time. Only units
// aimed at an eligible hub count toward the fuel bonuses.
func (m *match) creditFuel(a team.Alliance, n int, snap phase.Snapshot, delta *[2]int) {
	if n <= 0 {
		return
	}
	r := &m.res.Alliances[a]
	pts := m.t.Scoring.FuelIneligible
	if snap.Eligible(a) {
		pts = m.t.Scoring.FuelEligible
		r.FuelScored += n
		if snap.Phase == phase.Opening {
			r.AutoFuel += n
		}
	}
	r.FuelPoints += n * pts
	delta[a] += n * pts
}

// creditClimb awards tower points. The opening climb pays its own rate; the
// endgame climb is credited at most once per agent.
func (m *match) creditClimb(ag *agent.Agent, c *agent.ClimbResult, tick int, delta *[2]int) error {
	pts := m.t.Scoring.TowerPoints(c.Level)
	if c.Auto {
		pts = m.t.Scoring.TowerAutoL1
	} else {
		if m.credited[ag.Slot] {
			return simerr.Invariant(protocol.ErrInvTower, tick, "agent %d credited a second endgame climb", ag.Slot)
		}
		m.credited[ag.Slot] = true
	}
	m.res.Alliances[ag.Alliance].TowerPoints += pts
	delta[ag.Alliance] += pts
	return nil
}

func (m *match) check(tick int) error {
	if err := m.ledger.Check(tick); err != nil {
		return err
	}
	if err := m.tower.check(tick); err != nil {
		return err
	}
	for _, ag := range m.agents {
		if err := ag.Check(tick, m.tower.On(ag.Slot)); err != nil {
			return err
		}
	}
	return nil
}

// close fills the result from wherever the match stopped.
func (m *match) close(snap phase.Snapshot) {
	m.res.finalize(m.t)
	if w, ok := m.clock.OpeningWinner(); ok {
		m.res.AutoWinner = w.String()
	}
	m.res.TieBreakDrawn = m.clock.TieBreakDrawn()
	m.res.Agents = make([]agent.Record, len(m.agents))
	for i, ag := range m.agents {
		m.res.Agents[i] = ag.Record()
	}
	m.res.Digest = m.stateDigest(snap)
}

func (m *match) tickRecord(snap phase.Snapshot) protocol.TickRecord {
	p := m.ledger.Pools()
	rec := protocol.TickRecord{
		Type:         protocol.TypeTick,
		Tick:         snap.Elapsed,
		Phase:        snap.Phase.String(),
		RedEligible:  snap.RedEligible,
		BlueEligible: snap.BlueEligible,
		RedScore:     m.res.Alliances[team.Red].Score,
		BlueScore:    m.res.Alliances[team.Blue].Score,
		Pools: protocol.PoolsRecord{
			OnField:      p.OnField,
			AllianceZone: p.AllianceZone,
			FeedStation:  p.FeedStation,
			Held:         p.Held,
			InFlight:     p.InFlight,
			InTransit:    p.InTransit,
		},
		States: make([]string, len(m.agents)),
		Digest: m.stateDigest(snap),
	}
	for i, ag := range m.agents {
		rec.States[i] = string(ag.State())
	}
	return rec
}
