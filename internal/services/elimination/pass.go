package elimination

import "github.com/mcoot/knockout/internal/model"

// Cut is the result of an elimination pass over a round's scores
type Cut struct {
	// Eliminated players, worst first
	Eliminated []model.ScoreEntry
	// Tied is the group sharing the cutoff score when it could not be split
	Tied []model.ScoreEntry
	// Remaining is the budget still owed to the tied group
	Remaining int
}

// HasTie reports whether the pass stopped at an unsplittable tie
func (c Cut) HasTie() bool {
	return len(c.Tied) > 0
}

// SelectEliminations walks ranked entries (best first) from the bottom.
// Players without a positive score go unconditionally and count against the
// budget. Finishers are cut while budget remains, but at least one finisher
// always survives and a run of equal scores wider than the remaining budget
// is returned whole as a tie.
func SelectEliminations(ranked []model.ScoreEntry, budget int) Cut {
	var cut Cut

	i := len(ranked) - 1
	for ; i >= 0 && !ranked[i].HasFinished(); i-- {
		cut.Eliminated = append(cut.Eliminated, ranked[i])
		if budget > 0 {
			budget--
		}
	}

	finishers := i + 1
	if budget > finishers-1 {
		budget = finishers - 1
	}

	for i >= 0 && budget > 0 {
		j := i
		for j > 0 && ranked[j-1].Value == ranked[i].Value {
			j--
		}
		run := i - j + 1

		if run > budget {
			cut.Tied = append(cut.Tied, ranked[j:i+1]...)
			cut.Remaining = budget
			return cut
		}

		for k := i; k >= j; k-- {
			cut.Eliminated = append(cut.Eliminated, ranked[k])
		}
		budget -= run
		i = j - 1
	}

	return cut
}
