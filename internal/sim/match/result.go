package match

import (
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/agent"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/alliance"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/team"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/tuning"
)

const (
	WinnerRed  = "red"
	WinnerBlue = "blue"
	WinnerTie  = "tie"
)

// AllianceResult is one alliance's line of the scoresheet. Score already
// includes penalty points received from the opponent's fouls.
type AllianceResult struct {
	Score int `json:"score"`
	// FuelScored counts units that landed in an eligible hub.
	FuelScored  int `json:"fuel_scored"`
	FuelPoints  int `json:"fuel_points"`
	AutoFuel    int `json:"auto_fuel"`
	TowerPoints int `json:"tower_points"`

	PenaltiesReceived  int `json:"penalties_received"`
	PenaltiesCommitted int `json:"penalties_committed"`
	Fouls              int `json:"fouls"`
	TechFouls          int `json:"tech_fouls"`

	HumanThrows int `json:"human_throws"`
	HumanMade   int `json:"human_made"`
	HumanFeeds  int `json:"human_feeds"`

	Energized    bool `json:"energized"`
	Supercharged bool `json:"supercharged"`
	Traversal    bool `json:"traversal"`
	RP           int  `json:"rp"`

	Preset      alliance.Preset          `json:"preset"`
	HumanPlayer alliance.HumanPlayerMode `json:"human_player"`
}

// PhaseScore is the points each alliance earned inside one phase.
type PhaseScore struct {
	Phase string `json:"phase"`
	Red   int    `json:"red"`
	Blue  int    `json:"blue"`
}

type Result struct {
	Seed      int64             `json:"seed"`
	Alliances [2]AllianceResult `json:"alliances"`
	Winner    string            `json:"winner"`
	// AutoWinner is the alliance that won the opening and so sat out the
	// odd shifts.
	AutoWinner    string         `json:"auto_winner"`
	TieBreakDrawn bool           `json:"tie_break_drawn,omitempty"`
	Phases        []PhaseScore   `json:"phases"`
	Agents        []agent.Record `json:"agents"`
	Ticks         int            `json:"ticks"`
	Digest        string         `json:"digest"`
}

func (r Result) Red() AllianceResult  { return r.Alliances[team.Red] }
func (r Result) Blue() AllianceResult { return r.Alliances[team.Blue] }

// Margin is red's score minus blue's.
func (r Result) Margin() int { return r.Alliances[team.Red].Score - r.Alliances[team.Blue].Score }

// finalize fixes bonus flags, ranking points and the winner from the
// accumulated totals.
func (r *Result) finalize(t tuning.Tuning) {
	rk := t.Ranking
	for i := range r.Alliances {
		a := &r.Alliances[i]
		a.Score = max(0, a.Score)
		a.Energized = a.FuelScored >= rk.EnergizedFuel
		a.Supercharged = a.FuelScored >= rk.SuperchargedFuel
		a.Traversal = a.TowerPoints >= rk.TraversalTower
	}
	red, blue := &r.Alliances[team.Red], &r.Alliances[team.Blue]
	switch {
	case red.Score > blue.Score:
		r.Winner = WinnerRed
		red.RP = rk.Win
	case blue.Score > red.Score:
		r.Winner = WinnerBlue
		blue.RP = rk.Win
	default:
		r.Winner = WinnerTie
		red.RP = rk.Tie
		blue.RP = rk.Tie
	}
	for i := range r.Alliances {
		a := &r.Alliances[i]
		for _, b := range []bool{a.Energized, a.Supercharged, a.Traversal} {
			if b {
				a.RP++
			}
		}
	}
}
