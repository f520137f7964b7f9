package elimination

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/knockout/internal/model"
)

func ranked(values ...int) []model.ScoreEntry {
	entries := make([]model.ScoreEntry, len(values))
	for i, v := range values {
		entries[i] = model.ScoreEntry{Login: string(rune('a' + i)), Value: v}
	}
	return entries
}

func logins(entries []model.ScoreEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Login
	}
	return out
}

func TestSelectEliminationsCutsWorstFirst(t *testing.T) {
	cut := SelectEliminations(ranked(100, 200, 300, 400), 2)

	assert.Equal(t, []string{"d", "c"}, logins(cut.Eliminated))
	assert.False(t, cut.HasTie())
}

func TestSelectEliminationsDNFCountsAgainstBudget(t *testing.T) {
	cut := SelectEliminations(ranked(100, 200, 300, model.DidNotFinish), 2)

	assert.Equal(t, []string{"d", "c"}, logins(cut.Eliminated))
}

func TestSelectEliminationsDNFsBeyondBudgetAllGo(t *testing.T) {
	cut := SelectEliminations(ranked(100, 200, model.DidNotFinish, model.DidNotFinish, model.DidNotFinish), 1)

	assert.Equal(t, []string{"e", "d", "c"}, logins(cut.Eliminated))
	assert.False(t, cut.HasTie())
}

func TestSelectEliminationsKeepsOneFinisher(t *testing.T) {
	cut := SelectEliminations(ranked(100, 200, 300), 5)

	assert.Equal(t, []string{"c", "b"}, logins(cut.Eliminated))
	assert.False(t, cut.HasTie())
}

func TestSelectEliminationsTieWiderThanBudget(t *testing.T) {
	cut := SelectEliminations(ranked(100, 200, 300, 300, 300), 2)

	assert.Empty(t, cut.Eliminated)
	assert.Equal(t, []string{"c", "d", "e"}, logins(cut.Tied))
	assert.Equal(t, 2, cut.Remaining)
}

func TestSelectEliminationsTieAfterPartialCut(t *testing.T) {
	cut := SelectEliminations(ranked(100, 200, 200, 200, 500), 3)

	assert.Equal(t, []string{"e"}, logins(cut.Eliminated))
	assert.Equal(t, []string{"b", "c", "d"}, logins(cut.Tied))
	assert.Equal(t, 2, cut.Remaining)
}

func TestSelectEliminationsTieEqualToBudgetIsCutWhole(t *testing.T) {
	cut := SelectEliminations(ranked(100, 200, 300, 300), 2)

	assert.Equal(t, []string{"d", "c"}, logins(cut.Eliminated))
	assert.False(t, cut.HasTie())
}

func TestSelectEliminationsTieAboveCutoffIsUntouched(t *testing.T) {
	cut := SelectEliminations(ranked(100, 100, 300), 1)

	assert.Equal(t, []string{"c"}, logins(cut.Eliminated))
	assert.False(t, cut.HasTie())
}

func TestSelectEliminationsEntireFieldTied(t *testing.T) {
	cut := SelectEliminations(ranked(300, 300, 300), 1)

	assert.Empty(t, cut.Eliminated)
	assert.Equal(t, []string{"a", "b", "c"}, logins(cut.Tied))
	assert.Equal(t, 1, cut.Remaining)
}

func TestSelectEliminationsEntireFieldTiedLargeBudget(t *testing.T) {
	cut := SelectEliminations(ranked(300, 300, 300), 3)

	assert.Equal(t, []string{"a", "b", "c"}, logins(cut.Tied))
	assert.Equal(t, 2, cut.Remaining)
}

func TestSelectEliminationsTieAfterDNF(t *testing.T) {
	cut := SelectEliminations(ranked(100, 300, 300, model.DidNotFinish), 2)

	assert.Equal(t, []string{"d"}, logins(cut.Eliminated))
	assert.Equal(t, []string{"b", "c"}, logins(cut.Tied))
	assert.Equal(t, 1, cut.Remaining)
}

func TestSelectEliminationsZeroBudget(t *testing.T) {
	cut := SelectEliminations(ranked(100, 200), 0)

	assert.Empty(t, cut.Eliminated)
	assert.False(t, cut.HasTie())
}
