package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cards(types ...ResourceType) []Card {
	out := make([]Card, len(types))
	for i, t := range types {
		out[i] = Card{ID: "c" + string(rune('a'+i)), Type: t}
	}
	return out
}

func TestRoleScore(t *testing.T) {
	noble := Role{Name: "Noble", Wants: Gold}
	assassin := Role{Name: "Assassin", Wants: Dagger, Scoring: ScoringAssassin}

	tests := []struct {
		name  string
		role  Role
		hand  []Card
		other bool
		want  int
	}{
		{"empty", noble, nil, false, 0},
		{"simple counts wanted", noble, cards(Gold, Shield, Gold, Poison), false, 2},
		{"simple ignores knockouts", noble, cards(Gold), true, 1},
		{"assassin daggers", assassin, cards(Dagger, Dagger, Gold), false, 2},
		{"assassin bonus", assassin, cards(Dagger), true, 2},
		{"assassin bonus with empty hand", assassin, nil, true, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.role.Score(tc.hand, tc.other))
		})
	}
}

func TestComputeResultsTiesAndKnockouts(t *testing.T) {
	g, _ := newTestGame(t, 4) // Noble, Knight, Witch, Assassin
	give(t, g, 0, "G0", "G1")
	give(t, g, 1, "S0", "S1")
	give(t, g, 2, "P0", "P1", "P2")
	give(t, g, 3, "D0")
	g.knockOut(2, "test setup")

	results := computeResults(g.State())
	require.Len(t, results, 4)

	assert.Equal(t, 2, results[0].Score)
	assert.Equal(t, 2, results[1].Score)
	assert.Equal(t, 0, results[2].Score)
	assert.Equal(t, 2, results[3].Score, "one Dagger plus the knockout bonus")

	assert.Equal(t, ResultWin, results[0].Result)
	assert.Equal(t, ResultWin, results[1].Result)
	assert.Equal(t, ResultLose, results[2].Result)
	assert.Equal(t, ResultWin, results[3].Result)
	assert.Equal(t, "Witch", results[2].Role)
	assert.Equal(t, []Card{{ID: "G0", Type: Gold}, {ID: "G1", Type: Gold}}, results[0].Hand)
}

func TestKnockedOutPlayerCannotWin(t *testing.T) {
	g, _ := newTestGame(t, 4)
	give(t, g, 1, "S0")
	g.knockOut(2, "test setup")
	g.knockOut(3, "test setup")

	results := computeResults(g.State())
	assert.Equal(t, 1, results[1].Score)
	assert.Equal(t, ResultWin, results[1].Result)
	// tied on score, but knocked out
	assert.Equal(t, 1, results[3].Score)
	assert.Equal(t, ResultLose, results[3].Result)
	assert.Equal(t, ResultLose, results[0].Result)
}

func TestNobodyAliveFallsBackToAllSeats(t *testing.T) {
	g, _ := newTestGame(t, 3)
	for i := 0; i < 3; i++ {
		g.knockOut(i, "test setup")
	}
	results := computeResults(g.State())
	for _, r := range results {
		assert.Equal(t, 0, r.Score)
		assert.Equal(t, ResultWin, r.Result)
	}
}
