package ledger

import (
	"errors"
	"testing"

	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/protocol"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/rng"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/simerr"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/team"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/tuning"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := New(Initial{
		Total:       60,
		OnField:     20,
		FeedStation: [2]int{10, 10},
		Held:        []int{8, 2, 0, 8, 2, 0},
		Capacity:    []int{14, 10, 2, 14, 10, 2},
	}, rng.New(7), DelaysFrom(tuning.Defaults()))
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	return l
}

func mustCheck(t *testing.T, l *Ledger, tick int) {
	t.Helper()
	if err := l.Check(tick); err != nil {
		t.Fatalf("check tick %d: %v", tick, err)
	}
}

func TestNew_RejectsBadLayout(t *testing.T) {
	d := DelaysFrom(tuning.Defaults())
	if _, err := New(Initial{Total: 60, OnField: 59, Held: []int{0}, Capacity: []int{5}}, rng.New(1), d); !simerr.IsConfig(err) {
		t.Fatalf("sum mismatch: want config error, got %v", err)
	}
	if _, err := New(Initial{Total: 10, OnField: 4, Held: []int{6}, Capacity: []int{5}}, rng.New(1), d); !simerr.IsConfig(err) {
		t.Fatalf("over capacity: want config error, got %v", err)
	}
	if _, err := New(Initial{Total: 1, OnField: 1, Held: []int{0}, Capacity: []int{0}}, rng.New(1), d); !simerr.IsConfig(err) {
		t.Fatalf("zero capacity: want config error, got %v", err)
	}
}

func TestRequestIntake_OverRequest(t *testing.T) {
	l := newTestLedger(t)
	before := l.Available(AtField())
	got := l.RequestIntake(2, AtField(), 50)
	if got > before || got > 2 {
		t.Fatalf("granted %d from %d available, room 2", got, before)
	}
	if got != 2 {
		t.Fatalf("granted %d, want capacity-bound 2", got)
	}

	// Drain the field with a larger agent, then ask again.
	l.RequestIntake(0, AtField(), 50)
	l.RequestIntake(1, AtField(), 50)
	l.RequestIntake(3, AtField(), 50)
	l.RequestIntake(4, AtField(), 50)
	if l.Available(AtField()) < 0 {
		t.Fatalf("field negative: %d", l.Available(AtField()))
	}
	left := l.Available(AtField())
	l.ScheduleScore(0, 5, 0, team.Red, 0)
	got = l.RequestIntake(0, AtField(), 100)
	if got != left || l.Available(AtField()) != 0 {
		t.Fatalf("granted %d, field had %d, now %d", got, left, l.Available(AtField()))
	}
	if l.RequestIntake(0, AtField(), 3) != 0 {
		t.Fatalf("empty field should grant 0")
	}
	mustCheck(t, l, 1)
}

func TestScoreCycle_ReturnsToField(t *testing.T) {
	l := newTestLedger(t)
	field := l.Available(AtField())
	credit := l.ScheduleScore(0, 6, 2, team.Red, 0)
	if credit != 6 {
		t.Fatalf("credit %d", credit)
	}
	p := l.Pools()
	if p.InFlight != 8 || p.Held[0] != 0 {
		t.Fatalf("after launch: %+v", p)
	}
	mustCheck(t, l, 0)

	var sawTransit bool
	for tick := 1; tick <= 40; tick++ {
		l.Advance(tick)
		mustCheck(t, l, tick)
		if l.Pools().InTransit > 0 {
			sawTransit = true
		}
	}
	if !sawTransit {
		t.Fatalf("batch never entered transit")
	}
	p = l.Pools()
	if p.InFlight != 0 || p.InTransit != 0 || l.Pending() != 0 {
		t.Fatalf("queue not drained: %+v pending=%d", p, l.Pending())
	}
	if p.OnField != field+8 {
		t.Fatalf("field %d want %d", p.OnField, field+8)
	}
	if l.Delivered(team.Red) != 6 || l.Delivered(team.Blue) != 0 {
		t.Fatalf("delivered red=%d blue=%d", l.Delivered(team.Red), l.Delivered(team.Blue))
	}
}

func TestScheduleScore_ClampsToHeld(t *testing.T) {
	l := newTestLedger(t)
	if credit := l.ScheduleScore(1, 5, 5, team.Red, 0); credit != 2 {
		t.Fatalf("credit %d want 2", credit)
	}
	if l.Held(1) != 0 {
		t.Fatalf("held %d", l.Held(1))
	}
	mustCheck(t, l, 0)
}

func TestThrowAndPush(t *testing.T) {
	l := newTestLedger(t)
	for i := 0; i < 12; i++ {
		ok := l.Throw(team.Blue, i%2 == 0, i)
		if i < 10 && !ok {
			t.Fatalf("throw %d failed", i)
		}
		if i >= 10 && ok {
			t.Fatalf("throw %d from empty station", i)
		}
	}
	mustCheck(t, l, 12)

	moved := l.Push(2, team.Red, 5, 0.2)
	if moved != 4 {
		t.Fatalf("moved %d want 4", moved)
	}
	if l.Available(AtZone(team.Red)) != 4 || l.Pushed(2) != 4 {
		t.Fatalf("zone %d pushed %d", l.Available(AtZone(team.Red)), l.Pushed(2))
	}
	if got := l.RequestIntake(0, AtZone(team.Red), 10); got != 4 {
		t.Fatalf("zone intake %d", got)
	}
	mustCheck(t, l, 13)
}

func TestDelays_JitterBounds(t *testing.T) {
	d := Delays{Flight: 10, HubTransit: 10, MissRecovery: 10, Jitter: 0.2}
	l, err := New(Initial{Total: 1, Held: []int{1}, Capacity: []int{1}}, rng.New(3), d)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 500; i++ {
		if got := l.draw(10); got < 8 || got > 12 {
			t.Fatalf("draw %d outside [8,12]", got)
		}
	}
	if got := l.draw(0); got != 1 {
		t.Fatalf("minimum delay %d", got)
	}
}

func TestCongestion_RiseAndDecay(t *testing.T) {
	l := newTestLedger(t)
	for i := 0; i < 3; i++ {
		l.Contend(team.Red)
	}
	l.EndTick()
	if c := l.Congestion(team.Red); c != 1 {
		t.Fatalf("three contenders: %v", c)
	}
	l.EndTick()
	if c := l.Congestion(team.Red); c != 0.5 {
		t.Fatalf("decay: %v", c)
	}
	l.Contend(team.Red)
	l.Contend(team.Red)
	l.EndTick()
	if c := l.Congestion(team.Red); c != 0.5 {
		t.Fatalf("two contenders floor: %v", c)
	}
	l.Contend(team.Red)
	l.EndTick()
	if c := l.Congestion(team.Red); c != 0.25 {
		t.Fatalf("single contender decays: %v", c)
	}
	if l.Congestion(team.Blue) != 0 {
		t.Fatalf("blue untouched")
	}
}

func TestCheck_DetectsCorruption(t *testing.T) {
	cases := []struct {
		name string
		mut  func(l *Ledger)
		code string
	}{
		{"lost unit", func(l *Ledger) { l.pools.OnField-- }, protocol.ErrInvConservation},
		{"negative pool", func(l *Ledger) { l.pools.OnField -= 21; l.pools.FeedStation[0] += 21 }, protocol.ErrInvNegativePool},
		{"over capacity", func(l *Ledger) { l.pools.Held[2] += 5; l.pools.OnField -= 5 }, protocol.ErrInvCapacity},
		{"stage drift", func(l *Ledger) { l.pools.InFlight++; l.pools.OnField-- }, protocol.ErrInvTransit},
	}
	for _, tc := range cases {
		l := newTestLedger(t)
		tc.mut(l)
		err := l.Check(5)
		var ie *simerr.InvariantError
		if !errors.As(err, &ie) || ie.Code != tc.code || ie.Tick != 5 {
			t.Fatalf("%s: got %v want %s", tc.name, err, tc.code)
		}
	}
}
