// Package ledger owns the conserved fuel pools of one match. Agents move fuel
// only through its operations; Check verifies conservation after every tick.
package ledger

import (
	"fmt"
	"math"
	"sort"

	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/protocol"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/rng"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/simerr"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/team"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/tuning"
)

type LocKind uint8

const (
	Field LocKind = iota
	AllianceZone
	FeedStation
)

// Location names an intake pool. Alliance is ignored for Field.
type Location struct {
	Kind     LocKind
	Alliance team.Alliance
}

func AtField() Location                 { return Location{Kind: Field} }
func AtZone(a team.Alliance) Location    { return Location{Kind: AllianceZone, Alliance: a} }
func AtStation(a team.Alliance) Location { return Location{Kind: FeedStation, Alliance: a} }

func (l Location) String() string {
	switch l.Kind {
	case AllianceZone:
		return l.Alliance.String() + "_zone"
	case FeedStation:
		return l.Alliance.String() + "_station"
	}
	return "field"
}

// Pools is a copy of every counter.
type Pools struct {
	OnField      int
	AllianceZone [2]int
	FeedStation  [2]int
	Held         []int
	InFlight     int
	InTransit    int
}

func (p Pools) Sum() int {
	s := p.OnField + p.InFlight + p.InTransit
	for i := 0; i < 2; i++ {
		s += p.AllianceZone[i] + p.FeedStation[i]
	}
	for _, h := range p.Held {
		s += h
	}
	return s
}

// Initial is the opening layout. Held and Capacity are indexed by agent.
type Initial struct {
	Total        int
	OnField      int
	AllianceZone [2]int
	FeedStation  [2]int
	Held         []int
	Capacity     []int
}

// Delays are nominal batch delays in ticks.
type Delays struct {
	Flight       int
	HubTransit   int
	MissRecovery int
	// Jitter bounds each draw to nominal*[1-Jitter, 1+Jitter].
	Jitter float64
}

func DelaysFrom(t tuning.Tuning) Delays {
	return Delays{
		Flight:       t.TicksMin1(t.Flight.Flight),
		HubTransit:   t.TicksMin1(t.Flight.HubTransit),
		MissRecovery: t.TicksMin1(t.Flight.MissRecovery),
		Jitter:       t.Flight.Jitter,
	}
}

type stage uint8

const (
	stageFlight stage = iota
	stageTransit
)

type batch struct {
	seq     uint64
	release int
	stage   stage
	made    int
	missed  int
	target  team.Alliance
}

func (b batch) count() int { return b.made + b.missed }

type Ledger struct {
	total    int
	pools    Pools
	capacity []int
	queue    []batch
	seq      uint64
	delays   Delays
	rng      *rng.Stream

	delivered [2]int
	pushed    []int

	contenders [2]int
	congestion [2]float64
	decay      float64
}

// New validates the layout and returns a ledger. A layout that does not sum
// to Total or overfills an agent is a configuration error.
func New(in Initial, r *rng.Stream, d Delays) (*Ledger, error) {
	if len(in.Held) != len(in.Capacity) {
		return nil, simerr.Config(protocol.ErrConfigCapacity, "held", "%d held counters for %d capacities", len(in.Held), len(in.Capacity))
	}
	l := &Ledger{
		total: in.Total,
		pools: Pools{
			OnField:      in.OnField,
			AllianceZone: in.AllianceZone,
			FeedStation:  in.FeedStation,
			Held:         append([]int(nil), in.Held...),
		},
		capacity: append([]int(nil), in.Capacity...),
		pushed:   make([]int, len(in.Held)),
		delays:   d,
		rng:      r,
		decay:    0.5,
	}
	for i, c := range l.capacity {
		if c <= 0 {
			return nil, simerr.Config(protocol.ErrConfigCapacity, fmt.Sprintf("agent[%d]", i), "capacity must be > 0, got %d", c)
		}
		if l.pools.Held[i] < 0 || l.pools.Held[i] > c {
			return nil, simerr.Config(protocol.ErrConfigCapacity, fmt.Sprintf("agent[%d]", i), "preload %d outside capacity %d", l.pools.Held[i], c)
		}
	}
	if sum := l.pools.Sum(); sum != in.Total {
		return nil, simerr.Config(protocol.ErrConfigTuning, "field", "initial pools sum to %d, want %d", sum, in.Total)
	}
	if err := l.Check(0); err != nil {
		return nil, err
	}
	return l, nil
}

// SetCongestionDecay overrides the per-tick decay factor (default 0.5).
func (l *Ledger) SetCongestionDecay(f float64) { l.decay = f }

func (l *Ledger) Total() int { return l.total }

// Pools returns a copy of the counters.
func (l *Ledger) Pools() Pools {
	p := l.pools
	p.Held = append([]int(nil), l.pools.Held...)
	return p
}

func (l *Ledger) Held(agent int) int     { return l.pools.Held[agent] }
func (l *Ledger) Capacity(agent int) int { return l.capacity[agent] }

// Room is how many more units the agent may hold.
func (l *Ledger) Room(agent int) int { return l.capacity[agent] - l.pools.Held[agent] }

// Delivered counts made units that reached the given hub.
func (l *Ledger) Delivered(target team.Alliance) int { return l.delivered[target] }

// Pushed counts units the agent has pushed into an alliance zone.
func (l *Ledger) Pushed(agent int) int { return l.pushed[agent] }

func (l *Ledger) Available(loc Location) int {
	return *l.pool(loc)
}

func (l *Ledger) pool(loc Location) *int {
	switch loc.Kind {
	case AllianceZone:
		return &l.pools.AllianceZone[loc.Alliance]
	case FeedStation:
		return &l.pools.FeedStation[loc.Alliance]
	}
	return &l.pools.OnField
}

// RequestIntake grants min(want, available at loc, room left on the agent).
// Zero is the starvation path, not an error.
func (l *Ledger) RequestIntake(agent int, loc Location, want int) int {
	if want <= 0 {
		return 0
	}
	p := l.pool(loc)
	n := min(want, *p, l.Room(agent))
	if n <= 0 {
		return 0
	}
	*p -= n
	l.pools.Held[agent] += n
	return n
}

// ScheduleScore launches made+missed held units at target's hub as one batch
// and returns the credit, which equals the made count actually launched.
func (l *Ledger) ScheduleScore(agent, made, missed int, target team.Alliance, now int) int {
	if made < 0 {
		made = 0
	}
	if missed < 0 {
		missed = 0
	}
	held := l.pools.Held[agent]
	if made+missed > held {
		missed = max(0, held-made)
		made = min(made, held)
	}
	n := made + missed
	if n == 0 {
		return 0
	}
	l.pools.Held[agent] -= n
	l.pools.InFlight += n
	l.push(batch{release: now + l.draw(l.delays.Flight), stage: stageFlight, made: made, missed: missed, target: target})
	return made
}

// Throw launches one unit from the alliance feed station. It reports false
// when the station is empty.
func (l *Ledger) Throw(a team.Alliance, made bool, now int) bool {
	if l.pools.FeedStation[a] <= 0 {
		return false
	}
	l.pools.FeedStation[a]--
	l.pools.InFlight++
	b := batch{release: now + l.draw(l.delays.Flight), stage: stageFlight, target: a}
	if made {
		b.made = 1
	} else {
		b.missed = 1
	}
	l.push(b)
	return true
}

// Push moves up to want units from the field into alliance a's zone. The
// scatter fraction of the units touched stays on the field.
func (l *Ledger) Push(agent int, a team.Alliance, want int, scatter float64) int {
	n := min(want, l.pools.OnField)
	if n <= 0 {
		return 0
	}
	moved := n - int(math.Round(float64(n)*scatter))
	if moved <= 0 {
		return 0
	}
	l.pools.OnField -= moved
	l.pools.AllianceZone[a] += moved
	l.pushed[agent] += moved
	return moved
}

// Advance releases every batch due at or before now. Flight batches land and
// enter transit; transit batches return to the field.
func (l *Ledger) Advance(now int) {
	if len(l.queue) == 0 || l.queue[0].release > now {
		return
	}
	var due []batch
	keep := l.queue[:0]
	for _, b := range l.queue {
		if b.release <= now {
			due = append(due, b)
		} else {
			keep = append(keep, b)
		}
	}
	l.queue = keep
	for _, b := range due {
		switch b.stage {
		case stageFlight:
			l.pools.InFlight -= b.count()
			l.pools.InTransit += b.count()
			l.delivered[b.target] += b.made
			if b.made > 0 {
				l.push(batch{release: now + l.draw(l.delays.HubTransit), stage: stageTransit, made: b.made, target: b.target})
			}
			if b.missed > 0 {
				l.push(batch{release: now + l.draw(l.delays.MissRecovery), stage: stageTransit, missed: b.missed, target: b.target})
			}
		case stageTransit:
			l.pools.InTransit -= b.count()
			l.releaseToField(b.count())
		}
	}
}

func (l *Ledger) releaseToField(n int) {
	l.pools.OnField += n
}

// Pending is the number of batches still queued.
func (l *Ledger) Pending() int { return len(l.queue) }

func (l *Ledger) push(b batch) {
	l.seq++
	b.seq = l.seq
	i := sort.Search(len(l.queue), func(i int) bool {
		q := l.queue[i]
		return q.release > b.release || (q.release == b.release && q.seq > b.seq)
	})
	l.queue = append(l.queue, batch{})
	copy(l.queue[i+1:], l.queue[i:])
	l.queue[i] = b
}

// draw returns one jittered delay, at least one tick.
func (l *Ledger) draw(nominal int) int {
	d := float64(nominal)
	if j := l.delays.Jitter; j > 0 {
		d *= l.rng.Uniform(1-j, 1+j)
	}
	return max(1, int(math.Round(d)))
}

// Contend records one agent working at target's hub this tick.
func (l *Ledger) Contend(target team.Alliance) { l.contenders[target]++ }

// EndTick folds this tick's contention into the congestion scalars: each
// rises to min(1, (n-1)/2) at once and otherwise decays toward it.
func (l *Ledger) EndTick() {
	for i := range l.congestion {
		n := l.contenders[i]
		target := math.Min(1, math.Max(0, float64(n-1))/2)
		if target >= l.congestion[i] {
			l.congestion[i] = target
		} else {
			l.congestion[i] = math.Max(target, l.congestion[i]*l.decay)
		}
		l.contenders[i] = 0
	}
}

func (l *Ledger) Congestion(target team.Alliance) float64 { return l.congestion[target] }

// Check verifies conservation, non-negative pools, capacity and that the
// stage counters match the queue.
func (l *Ledger) Check(tick int) error {
	p := l.pools
	if sum := p.Sum(); sum != l.total {
		return simerr.Invariant(protocol.ErrInvConservation, tick, "pools sum to %d, want %d", sum, l.total)
	}
	neg := func(name string, v int) error {
		if v < 0 {
			return simerr.Invariant(protocol.ErrInvNegativePool, tick, "%s = %d", name, v)
		}
		return nil
	}
	for _, c := range []struct {
		name string
		v    int
	}{
		{"on_field", p.OnField},
		{"in_flight", p.InFlight},
		{"in_transit", p.InTransit},
		{"red_zone", p.AllianceZone[team.Red]},
		{"blue_zone", p.AllianceZone[team.Blue]},
		{"red_station", p.FeedStation[team.Red]},
		{"blue_station", p.FeedStation[team.Blue]},
	} {
		if err := neg(c.name, c.v); err != nil {
			return err
		}
	}
	for i, h := range p.Held {
		if err := neg(fmt.Sprintf("held[%d]", i), h); err != nil {
			return err
		}
		if h > l.capacity[i] {
			return simerr.Invariant(protocol.ErrInvCapacity, tick, "agent %d holds %d over capacity %d", i, h, l.capacity[i])
		}
	}
	var flight, transit int
	for _, b := range l.queue {
		if b.made < 0 || b.missed < 0 {
			return simerr.Invariant(protocol.ErrInvNegativePool, tick, "batch %d has negative count", b.seq)
		}
		if b.stage == stageFlight {
			flight += b.count()
		} else {
			transit += b.count()
		}
	}
	if flight != p.InFlight || transit != p.InTransit {
		return simerr.Invariant(protocol.ErrInvTransit, tick, "in_flight=%d queued %d, in_transit=%d queued %d",
			p.InFlight, flight, p.InTransit, transit)
	}
	return nil
}
