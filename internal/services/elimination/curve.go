package elimination

import (
	"math"
	"sort"
)

const (
	// The curve flattens to one elimination per round this many rounds before the end
	transitionOffset = 4.75

	initialStep   = 0.95
	stepShrink    = 0.25
	minStep       = 1e-15
	maxIterations = 500
)

type curveOutcome int

const (
	outcomeExact curveOutcome = iota
	outcomeSingleRound
	outcomeFlat
	outcomeInfeasible
	outcomeCompensated
	outcomeApproximate
)

// baseShape is a single raised-cosine hump over rounds [0, transition)
func baseShape(round, transition float64) float64 {
	if transition <= 0 || round >= transition {
		return 0
	}
	return 1 - math.Cos(round*math.Pi/(transition/2))
}

func discretize(factor float64, shape []float64, curve []int) int {
	sum := 0
	for i, b := range shape {
		n := int(math.Round(factor*b + 1))
		if n < 1 {
			n = 1
		}
		curve[i] = n
		sum += n
	}
	return sum
}

// solveCurve spreads playersLeft-1 eliminations over the rounds from
// roundNumber to targetRounds. Every round gets at least one, and the sum is
// exact unless there are more rounds than players to knock out.
func solveCurve(roundNumber, targetRounds, playersLeft int) ([]int, curveOutcome) {
	target := playersLeft - 1
	if target <= 0 {
		return []int{0}, outcomeExact
	}

	remaining := targetRounds - roundNumber + 1
	if remaining <= 1 {
		return []int{target}, outcomeSingleRound
	}

	curve := make([]int, remaining)
	if remaining >= target {
		for i := range curve {
			curve[i] = 1
		}
		if remaining == target {
			return curve, outcomeFlat
		}
		return curve, outcomeInfeasible
	}

	transition := float64(targetRounds) - transitionOffset
	shape := make([]float64, remaining)
	for i := range shape {
		shape[i] = baseShape(float64(roundNumber+i), transition)
	}

	best := make([]int, remaining)
	bestResidual := math.MaxInt

	factor, step, lastDir := 1.0, initialStep, 0
	for iter := 0; iter < maxIterations; iter++ {
		sum := discretize(factor, shape, curve)
		if sum == target {
			return curve, outcomeExact
		}

		residual := target - sum
		if abs(residual) < bestResidual {
			bestResidual = abs(residual)
			copy(best, curve)
		}

		dir := 1
		if residual < 0 {
			dir = -1
		}
		if lastDir != 0 && dir != lastDir {
			step *= stepShrink
			if step < minStep {
				break
			}
		}
		factor += float64(dir) * step
		lastDir = dir
	}

	residual := target - sumOf(best)
	if abs(residual) == 1 && compensate(best, shape, residual) {
		return best, outcomeCompensated
	}

	redistribute(best, shape, target-sumOf(best))
	return best, outcomeApproximate
}

// compensate nudges the highest round on the slope matching the residual:
// rising for a shortfall, falling for a surplus
func compensate(curve []int, shape []float64, residual int) bool {
	pick := -1
	for i := range shape {
		slope := slopeAt(shape, i)
		if residual > 0 && slope <= 0 {
			continue
		}
		if residual < 0 && (slope >= 0 || curve[i] <= 1) {
			continue
		}
		if pick == -1 || shape[i] > shape[pick] {
			pick = i
		}
	}
	if pick == -1 {
		return false
	}
	curve[pick] += residual
	return true
}

func slopeAt(shape []float64, i int) float64 {
	if len(shape) < 2 {
		return 0
	}
	if i+1 < len(shape) {
		return shape[i+1] - shape[i]
	}
	return shape[i] - shape[i-1]
}

// redistribute spreads any leftover residual one at a time over the rounds,
// tallest part of the curve first, never taking a round below one
func redistribute(curve []int, shape []float64, residual int) {
	order := make([]int, len(curve))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return shape[order[a]] > shape[order[b]]
	})

	for residual > 0 {
		for _, i := range order {
			if residual == 0 {
				break
			}
			curve[i]++
			residual--
		}
	}

	for residual < 0 {
		changed := false
		for _, i := range order {
			if residual == 0 {
				break
			}
			if curve[i] > 1 {
				curve[i]--
				residual++
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

func sumOf(curve []int) int {
	sum := 0
	for _, n := range curve {
		sum += n
	}
	return sum
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
