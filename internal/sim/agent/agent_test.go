package agent

import (
	"testing"

	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/alliance"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/catalogs"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/ledger"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/phase"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/rng"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/tasks"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/team"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/tuning"
)

type fakeTower struct {
	on    map[int]bool
	limit int
}

func newTower(limit int) *fakeTower { return &fakeTower{on: map[int]bool{}, limit: limit} }

func (f *fakeTower) Claim(slot int) bool {
	if len(f.on) >= f.limit {
		return false
	}
	f.on[slot] = true
	return true
}

func (f *fakeTower) Release(slot int) { delete(f.on, slot) }

func resolve(t *testing.T, id string, cfg alliance.AgentConfig) Capability {
	t.Helper()
	arch, ok := catalogs.Default().Lookup(id)
	if !ok {
		t.Fatalf("archetype %s missing", id)
	}
	return Resolve(arch, cfg, tuning.Defaults())
}

type harness struct {
	t      *testing.T
	tun    tuning.Tuning
	clock  *phase.Controller
	ledger *ledger.Ledger
	tower  *fakeTower
	agents []*Agent
	events []Events
	// role picks the role for an agent at a boundary.
	role func(a *Agent, s phase.Snapshot) alliance.Role
}

// newHarness puts every agent on red with the given preload each. The field
// holds enough fuel for a busy match.
func newHarness(t *testing.T, preload int, caps ...Capability) *harness {
	t.Helper()
	tun := tuning.Defaults()
	h := &harness{t: t, tun: tun, tower: newTower(tun.Field.TowerCapacity)}
	in := ledger.Initial{OnField: 40, FeedStation: [2]int{10, 10}}
	for _, c := range caps {
		p := min(preload, c.Capacity)
		in.Held = append(in.Held, p)
		in.Capacity = append(in.Capacity, c.Capacity)
	}
	in.Total = in.OnField + 20
	for _, p := range in.Held {
		in.Total += p
	}
	l, err := ledger.New(in, rng.New(9).Split("ledger"), ledger.DelaysFrom(tun))
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	h.ledger = l
	h.clock = phase.New(tun, phase.TieBreakRedDefault, rng.New(9))
	h.role = func(a *Agent, s phase.Snapshot) alliance.Role {
		if s.Phase == phase.Transition {
			return alliance.RoleStockpile
		}
		if s.Eligible(a.Alliance) {
			return alliance.RoleScore
		}
		return alliance.RoleStockpile
	}
	return h
}

func (h *harness) add(c Capability, o Orders, forced ...alliance.ForcedFailure) *Agent {
	slot := len(h.agents)
	a := New(slot, team.Red, slot, c, o, forced, h.tun, rng.New(int64(100+slot)))
	h.agents = append(h.agents, a)
	return a
}

// run plays ticks until the clock reaches stop (or completes).
func (h *harness) run(stop int) {
	h.t.Helper()
	for {
		snap, boundary := h.clock.Advance()
		if snap.Phase == phase.Complete || snap.Elapsed >= stop {
			return
		}
		if boundary && snap.Phase == phase.Transition {
			h.clock.SetOpeningScores(0, 10)
			snap = h.clock.Snapshot()
		}
		h.ledger.Advance(snap.Elapsed)
		for _, a := range h.agents {
			e := Env{Tick: snap.Elapsed, Snap: snap, Ledger: h.ledger, Tower: h.tower}
			if boundary {
				a.OnPhaseChange(e, h.role(a, snap))
			}
			h.events = append(h.events, a.Step(e))
		}
		h.ledger.EndTick()
		if err := h.ledger.Check(snap.Elapsed); err != nil {
			h.t.Fatalf("ledger: %v", err)
		}
		for _, a := range h.agents {
			if err := a.Check(snap.Elapsed, h.tower.on[a.Slot]); err != nil {
				h.t.Fatalf("agent: %v", err)
			}
		}
	}
}

func (h *harness) made() int {
	n := 0
	for _, e := range h.events {
		n += e.Made
	}
	return n
}

func TestResolve_Capabilities(t *testing.T) {
	turret := resolve(t, "elite_turret", alliance.AgentConfig{})
	if !turret.Turret || turret.AlignTicks != 0 || turret.ShootRate != 10 || turret.JamRate != 0.005 {
		t.Fatalf("elite_turret: %+v", turret)
	}
	every := resolve(t, "everybot", alliance.AgentConfig{})
	if every.AlignTicks != 3 || every.ShootRate != 6 || !every.Ground {
		t.Fatalf("everybot: %+v", every)
	}
	tank := resolve(t, "kitbot_plus", alliance.AgentConfig{})
	if tank.AlignTicks != 6 || tank.ShootRate != 4 {
		t.Fatalf("kitbot_plus tank align/rate: %d %v", tank.AlignTicks, tank.ShootRate)
	}
	def := resolve(t, "defense_bot", alliance.AgentConfig{})
	if def.CanScore() || def.ScoringPotential() != 0 || def.Ground {
		t.Fatalf("defense_bot should not score: %+v", def)
	}

	capacity, acc := 12, 0.5
	over := resolve(t, "everybot", alliance.AgentConfig{Capacity: &capacity, Accuracy: &acc, Shooter: "double", Drivetrain: "tank"})
	if over.Capacity != 12 || over.Accuracy != 0.5 || over.ShootRate != 6 || over.AlignTicks != 6 || !over.Multishot {
		t.Fatalf("overrides: %+v", over)
	}
	if got := over.ScoringPotential(); got != 12*0.5/18.5 {
		t.Fatalf("potential %v", got)
	}
	if elite := resolve(t, "elite_multishot", alliance.AgentConfig{}); elite.ClimbCapability() <= every.ClimbCapability() {
		t.Fatalf("climb capability ordering")
	}
}

func TestDrawFailures_DeterministicAndForced(t *testing.T) {
	tun := tuning.Defaults()
	c := resolve(t, "elite_turret", alliance.AgentConfig{})
	a := drawFailures(c, nil, tun, rng.New(5))
	b := drawFailures(c, nil, tun, rng.New(5))
	if len(a) != len(b) {
		t.Fatalf("draws differ: %v vs %v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("draw %d differs", i)
		}
	}

	forced := []alliance.ForcedFailure{{Mechanism: alliance.MechShooter, Outcome: alliance.Broken, AtTick: 7}}
	for seed := int64(0); seed < 50; seed++ {
		fs := drawFailures(c, forced, tun, rng.New(seed))
		var shooter int
		for _, f := range fs {
			if f.mech == alliance.MechShooter {
				shooter++
				if !f.forced || f.at != 7 || f.outcome != alliance.Broken {
					t.Fatalf("seed %d: shooter failure %+v", seed, f)
				}
			}
			if f.at < 0 || f.at >= tun.TotalTicks() {
				t.Fatalf("seed %d: tick %d outside match", seed, f.at)
			}
		}
		if shooter != 1 {
			t.Fatalf("seed %d: %d shooter failures", seed, shooter)
		}
	}

	// Turret failures are dropped for robots without a turret.
	fixed := resolve(t, "everybot", alliance.AgentConfig{})
	fs := drawFailures(fixed, []alliance.ForcedFailure{{Mechanism: alliance.MechTurret, Outcome: alliance.Stuck}}, tun, rng.New(1))
	for _, f := range fs {
		if f.mech == alliance.MechTurret {
			t.Fatalf("turret failure on a fixed shooter")
		}
	}
}

func TestApplyFailure_Effects(t *testing.T) {
	tun := tuning.Defaults()
	base := resolve(t, "elite_turret", alliance.AgentConfig{})
	a := New(0, team.Red, 0, base, Orders{}, nil, tun, rng.New(1))
	a.pending = nil

	a.applyFailure(failure{mech: alliance.MechTurret, outcome: alliance.Stuck}, 3)
	if a.Cap.Turret || a.Cap.AlignTicks != 3 || a.Cap.Accuracy != base.Accuracy-0.20 {
		t.Fatalf("turret stuck: %+v", a.Cap)
	}
	a.applyFailure(failure{mech: alliance.MechIntake, outcome: alliance.Degraded}, 4)
	if a.Cap.IntakeQuality != "slow_pickup" || a.Cap.IntakeMax > 0.6 || a.Cap.IntakeRate != base.IntakeRate*0.5 {
		t.Fatalf("intake degraded: %+v", a.Cap)
	}
	a.applyFailure(failure{mech: alliance.MechShooter, outcome: alliance.Broken}, 5)
	if a.Cap.CanScore() {
		t.Fatalf("broken shooter still scores")
	}
	if a.Base.Accuracy != base.Accuracy || !a.Base.CanScore() {
		t.Fatalf("base capability changed")
	}
	if hp := a.Health(); hp.Turret != Stuck || hp.Intake != Degraded || hp.Shooter != Broken {
		t.Fatalf("health %+v", hp)
	}
	if n := len(a.Record().Health); n != 3 {
		t.Fatalf("health events %d", n)
	}

	a.applyFailure(failure{mech: alliance.MechIntake, outcome: alliance.Broken}, 6)
	if a.Cap.Ground || a.Cap.IntakeRate != 0 {
		t.Fatalf("broken intake still picks up: %+v", a.Cap)
	}
}

func TestScoringCycle_ScoresAndConserves(t *testing.T) {
	c := resolve(t, "elite_multishot", alliance.AgentConfig{})
	h := newHarness(t, 8, c)
	a := h.add(c, Orders{Auto: alliance.AutoScore})
	h.run(320)
	if h.made() == 0 {
		t.Fatalf("no fuel scored")
	}
	r := a.Record()
	if r.Made != h.made() || r.AutoMade == 0 {
		t.Fatalf("record made=%d auto=%d, events %d", r.Made, r.AutoMade, h.made())
	}
	if r.Made+r.Missed < 8 {
		t.Fatalf("preload never launched: %+v", r)
	}
}

func TestForcedShooterBreak_NoShots(t *testing.T) {
	c := resolve(t, "elite_multishot", alliance.AgentConfig{})
	h := newHarness(t, 8, c)
	a := h.add(c, Orders{Auto: alliance.AutoScore}, alliance.ForcedFailure{Mechanism: alliance.MechShooter, Outcome: alliance.Broken, AtTick: 0})
	h.run(320)
	if h.made() != 0 || a.Record().Missed != 0 {
		t.Fatalf("broken shooter launched fuel: made=%d", h.made())
	}
	if a.Health().Shooter != Broken {
		t.Fatalf("shooter health %s", a.Health().Shooter)
	}
}

func TestPhaseChange_IneligibleStopsShooting(t *testing.T) {
	c := resolve(t, "everybot", alliance.AgentConfig{})
	h := newHarness(t, 0, c)
	a := h.add(c, Orders{Auto: alliance.AutoScore})
	snap := phase.Snapshot{Elapsed: 100, Phase: phase.Shift1, BlueEligible: true, TicksRemainingInMatch: 220}
	e := Env{Tick: 100, Snap: snap, Ledger: h.ledger, Tower: h.tower}
	if got := h.ledger.RequestIntake(a.Slot, ledger.AtField(), 6); got != 6 {
		t.Fatalf("setup intake %d", got)
	}
	a.role = alliance.RoleScore
	a.zone = zoneHub
	a.startBurst(e, tasks.Scoring, a.Cap.ShootRate)
	if a.State() != tasks.Scoring || a.burst == 0 {
		t.Fatalf("setup burst: %s", a.State())
	}

	a.OnPhaseChange(e, alliance.RoleStockpile)
	if a.State().Shooting() || a.burst != 0 {
		t.Fatalf("still shooting in %s", a.State())
	}
	if h.ledger.Held(a.Slot) != 6 || !a.Stockpiled() {
		t.Fatalf("held %d stockpiled=%v", h.ledger.Held(a.Slot), a.Stockpiled())
	}
	ev := a.Step(e)
	if ev.Made+ev.Missed != 0 {
		t.Fatalf("shot while ineligible")
	}
	if err := a.Check(100, false); err != nil {
		t.Fatal(err)
	}
}

func TestStockpile_DumpsWhenEligible(t *testing.T) {
	c := resolve(t, "strong_scorer", alliance.AgentConfig{})
	h := newHarness(t, 0, c)
	a := h.add(c, Orders{Auto: alliance.AutoScore, Preposition: true})
	a.role = alliance.RoleStockpile
	off := phase.Snapshot{Elapsed: 60, Phase: phase.Shift1, BlueEligible: true, TicksRemainingInMatch: 260}
	for tick := 60; tick < 110; tick++ {
		off.Elapsed = tick
		a.Step(Env{Tick: tick, Snap: off, Ledger: h.ledger, Tower: h.tower})
		h.ledger.EndTick()
	}
	held := h.ledger.Held(a.Slot)
	if held == 0 || a.State() != tasks.StockpileHold || a.zone != zoneHub {
		t.Fatalf("after stockpile: held=%d state=%s zone=%d", held, a.State(), a.zone)
	}

	on := phase.Snapshot{Elapsed: 110, Phase: phase.Shift2, RedEligible: true, TicksRemainingInMatch: 210}
	a.OnPhaseChange(Env{Tick: 110, Snap: on, Ledger: h.ledger, Tower: h.tower}, alliance.RoleScore)
	if a.State() != tasks.Dumping {
		t.Fatalf("expected dump, got %s", a.State())
	}
	var launched int
	for tick := 110; tick < 140 && h.ledger.Held(a.Slot) > 0; tick++ {
		on.Elapsed = tick
		ev := a.Step(Env{Tick: tick, Snap: on, Ledger: h.ledger, Tower: h.tower})
		launched += ev.Made + ev.Missed
	}
	if launched != held {
		t.Fatalf("dumped %d of %d", launched, held)
	}
}

func TestEndgameClimb_SingleResolution(t *testing.T) {
	c := resolve(t, "elite_turret", alliance.AgentConfig{})
	for seed := 0; seed < 20; seed++ {
		h := newHarness(t, 8, c)
		h.agents = nil
		a := New(0, team.Red, 0, c, Orders{Auto: alliance.AutoScore, ClimbTarget: 3}, nil, h.tun, rng.New(int64(seed)))
		h.agents = append(h.agents, a)
		h.run(320)
		var climbs int
		for _, e := range h.events {
			if e.Climb != nil && !e.Climb.Auto {
				climbs++
				if e.Climb.Level != 0 && e.Climb.Level != 3 {
					t.Fatalf("seed %d: level %d", seed, e.Climb.Level)
				}
			}
		}
		if climbs != 1 || !a.ClimbResolved() {
			t.Fatalf("seed %d: %d endgame climbs resolved=%v", seed, climbs, a.ClimbResolved())
		}
		if a.State() != tasks.Climbing {
			t.Fatalf("seed %d: climb should be terminal, state %s", seed, a.State())
		}
	}
}

func TestAutoClimb_DescendsAndReleases(t *testing.T) {
	c := resolve(t, "strong_scorer", alliance.AgentConfig{})
	h := newHarness(t, 0, c)
	a := h.add(c, Orders{Auto: alliance.AutoClimb})
	h.run(40)
	var auto *ClimbResult
	for _, e := range h.events {
		if e.Climb != nil {
			auto = e.Climb
		}
	}
	if auto == nil || !auto.Auto || auto.Target != 1 {
		t.Fatalf("auto climb result %+v", auto)
	}
	if h.tower.on[a.Slot] {
		t.Fatalf("tower not released")
	}
	if a.State() == tasks.Climbing {
		t.Fatalf("still climbing after the opening")
	}
}

func TestDefense_EngagesAndRollsOncePerPhase(t *testing.T) {
	c := resolve(t, "defense_bot", alliance.AgentConfig{})
	h := newHarness(t, 0, c)
	a := h.add(c, Orders{Auto: alliance.AutoScore})
	snap := phase.Snapshot{Elapsed: 60, Phase: phase.Shift1, RedEligible: true, TicksRemainingInMatch: 260}
	e := Env{Tick: 60, Snap: snap, Ledger: h.ledger, Tower: h.tower}
	a.OnPhaseChange(e, alliance.RoleDefend)
	for tick := 60; tick < 71; tick++ {
		e.Tick = tick
		e.Snap.Elapsed = tick
		a.Step(e)
	}
	if !a.Engaged() || a.State() != tasks.Defending {
		t.Fatalf("not engaged: %s", a.State())
	}
	always := tuning.ZoneFoul{Foul: 1, TechFoul: 1}
	if f, tf := a.RollFouls(always); f != 1 || tf != 1 {
		t.Fatalf("first roll %d %d", f, tf)
	}
	if f, tf := a.RollFouls(always); f+tf != 0 {
		t.Fatalf("second roll in the same phase")
	}
	a.OnPhaseChange(e, alliance.RoleDefend)
	if f, _ := a.RollFouls(always); f != 1 {
		t.Fatalf("new phase should roll again")
	}

	// Leaving defense pays the crossfield drive back.
	a.OnPhaseChange(e, alliance.RoleStockpile)
	if a.State() != tasks.DrivingBack || a.Engaged() {
		t.Fatalf("leaving defense: %s", a.State())
	}
}

func TestAutoDisrupt_PushesToZone(t *testing.T) {
	c := resolve(t, "defense_bot", alliance.AgentConfig{})
	h := newHarness(t, 0, c)
	a := h.add(c, Orders{Auto: alliance.AutoDisrupt})
	h.run(45)
	if a.Record().Pushed == 0 || h.ledger.Available(ledger.AtZone(team.Red)) == 0 {
		t.Fatalf("nothing pushed: %+v", a.Record())
	}
	if a.State() == tasks.PushingResource {
		t.Fatalf("still disrupting after the opening")
	}
}

func TestDeterminism_SameSeedSameRun(t *testing.T) {
	run := func() []Events {
		c := resolve(t, "everybot", alliance.AgentConfig{})
		h := newHarness(t, 4, c, c)
		h.add(c, Orders{Auto: alliance.AutoScore, ClimbTarget: 2})
		h.add(c, Orders{Auto: alliance.AutoScore, ClimbTarget: 1})
		h.run(320)
		return h.events
	}
	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("event counts differ")
	}
	for i := range a {
		if a[i].Made != b[i].Made || a[i].Missed != b[i].Missed || (a[i].Climb == nil) != (b[i].Climb == nil) {
			t.Fatalf("tick event %d differs", i)
		}
	}
}
