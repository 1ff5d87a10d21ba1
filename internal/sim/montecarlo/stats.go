package montecarlo

import (
	"math"
	"sort"

	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/match"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/team"
)

// BucketWidth is the score histogram bucket size in points.
const BucketWidth = 10

// Moments is a running mean and variance (Welford).
type Moments struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	M2    float64 `json:"-"`
}

func (m *Moments) Add(x float64) {
	m.Count++
	d := x - m.Mean
	m.Mean += d / float64(m.Count)
	m.M2 += d * (x - m.Mean)
}

// Variance is the sample variance; 0 with fewer than two values.
func (m Moments) Variance() float64 {
	if m.Count < 2 {
		return 0
	}
	return m.M2 / float64(m.Count-1)
}

func (m Moments) StdDev() float64 { return math.Sqrt(m.Variance()) }

type Bucket struct {
	Lo    int `json:"lo"`
	Count int `json:"count"`
}

type AllianceStats struct {
	Wins    int     `json:"wins"`
	WinRate float64 `json:"win_rate"`

	Score     Moments `json:"score"`
	Fuel      Moments `json:"fuel"`
	Tower     Moments `json:"tower"`
	Penalties Moments `json:"penalties"`
	RP        Moments `json:"rp"`

	Energized        int     `json:"energized"`
	Supercharged     int     `json:"supercharged"`
	Traversal        int     `json:"traversal"`
	EnergizedRate    float64 `json:"energized_rate"`
	SuperchargedRate float64 `json:"supercharged_rate"`
	TraversalRate    float64 `json:"traversal_rate"`

	Histogram []Bucket `json:"histogram"`
	scores    []int
}

// Stats aggregates the completed matches of a run. Matches that aborted on
// an invariant violation are counted but kept out of every distribution.
type Stats struct {
	Seed      int64 `json:"seed"`
	Requested int   `json:"requested"`
	Completed int   `json:"completed"`
	Workers   int   `json:"workers"`

	Ties    int     `json:"ties"`
	TieRate float64 `json:"tie_rate"`
	// Margin is red score minus blue score.
	Margin    Moments          `json:"margin"`
	Alliances [2]AllianceStats `json:"alliances"`

	InvariantFailures int   `json:"invariant_failures"`
	FailedIndices     []int `json:"failed_indices,omitempty"`
}

func (s *Stats) add(r match.Result) {
	s.Completed++
	s.Margin.Add(float64(r.Margin()))
	switch r.Winner {
	case match.WinnerRed:
		s.Alliances[team.Red].Wins++
	case match.WinnerBlue:
		s.Alliances[team.Blue].Wins++
	default:
		s.Ties++
	}
	for _, a := range team.Both {
		ar := r.Alliances[a]
		as := &s.Alliances[a]
		as.Score.Add(float64(ar.Score))
		as.Fuel.Add(float64(ar.FuelScored))
		as.Tower.Add(float64(ar.TowerPoints))
		as.Penalties.Add(float64(ar.PenaltiesReceived))
		as.RP.Add(float64(ar.RP))
		if ar.Energized {
			as.Energized++
		}
		if ar.Supercharged {
			as.Supercharged++
		}
		if ar.Traversal {
			as.Traversal++
		}
		as.scores = append(as.scores, ar.Score)
	}
}

func (s *Stats) fail(i int) {
	s.InvariantFailures++
	s.FailedIndices = append(s.FailedIndices, i)
}

// finish computes rates, sorts the score samples and builds histograms.
func (s *Stats) finish() {
	rate := func(k int) float64 {
		if s.Completed == 0 {
			return 0
		}
		return float64(k) / float64(s.Completed)
	}
	s.TieRate = rate(s.Ties)
	for i := range s.Alliances {
		as := &s.Alliances[i]
		as.WinRate = rate(as.Wins)
		as.EnergizedRate = rate(as.Energized)
		as.SuperchargedRate = rate(as.Supercharged)
		as.TraversalRate = rate(as.Traversal)
		sort.Ints(as.scores)
		as.Histogram = histogram(as.scores)
	}
}

func histogram(sorted []int) []Bucket {
	var out []Bucket
	for _, v := range sorted {
		lo := (v / BucketWidth) * BucketWidth
		if n := len(out); n > 0 && out[n-1].Lo == lo {
			out[n-1].Count++
			continue
		}
		out = append(out, Bucket{Lo: lo, Count: 1})
	}
	return out
}

// LossRate is the share of completed matches the opponent won.
func (s Stats) LossRate(a team.Alliance) float64 {
	return s.Alliances[a.Opponent()].WinRate
}

// Percentile returns the nearest-rank p-th percentile (0..100) of a's score,
// or 0 when no match completed.
func (s Stats) Percentile(a team.Alliance, p float64) int {
	xs := s.Alliances[a].scores
	if len(xs) == 0 {
		return 0
	}
	switch {
	case p <= 0:
		return xs[0]
	case p >= 100:
		return xs[len(xs)-1]
	}
	rank := int(math.Ceil(p / 100 * float64(len(xs))))
	return xs[max(0, rank-1)]
}

func (s Stats) Histogram(a team.Alliance) []Bucket { return s.Alliances[a].Histogram }
