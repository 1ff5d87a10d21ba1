package strategy

import (
	"sort"

	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/agent"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/tuning"
)

// bumpFloor is the least success probability worth reaching higher for.
const bumpFloor = 0.05

// EndgamePlan assigns climb levels 3, 2 and 1 to the best, second and third
// climbers. A level the agent cannot make falls back to the highest lower
// one it can. If the expected tower points stay under the traversal
// threshold, agents are bumped up a level in climber order until it is met;
// a bump that lowers the expectation is undone.
func EndgamePlan(caps []agent.Capability, t tuning.Tuning) ([]int, float64) {
	order := make([]int, len(caps))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return caps[order[a]].ClimbCapability() > caps[order[b]].ClimbCapability()
	})

	plan := make([]int, len(caps))
	for rank, slot := range order {
		target := 3 - rank
		for ; target > 0; target-- {
			if caps[slot].Success(target) > 0 {
				break
			}
		}
		if target < 0 {
			target = 0
		}
		plan[slot] = target
	}

	threshold := float64(t.Ranking.TraversalTower)
	expected := expectedLevels(caps, plan, t)
	if expected < threshold {
		for _, slot := range order {
			cur := plan[slot]
			for higher := cur + 1; higher <= 3; higher++ {
				if caps[slot].Success(higher) > bumpFloor {
					plan[slot] = higher
					break
				}
			}
			if e := expectedLevels(caps, plan, t); e > expected {
				expected = e
			} else {
				plan[slot] = cur
			}
			if expected >= threshold {
				break
			}
		}
	}
	return plan, expected
}

func expectedLevels(caps []agent.Capability, plan []int, t tuning.Tuning) float64 {
	var sum float64
	for i, lvl := range plan {
		sum += caps[i].Success(lvl) * float64(t.Scoring.TowerPoints(lvl))
	}
	return sum
}

func expectedPoints(caps []agent.Capability, slots []Slot, t tuning.Tuning) float64 {
	plan := make([]int, len(slots))
	for i, s := range slots {
		plan[i] = s.ClimbTarget
	}
	return expectedLevels(caps, plan, t)
}
