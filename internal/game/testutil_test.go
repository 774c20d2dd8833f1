package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/poisontraders/internal/log"
)

// newTestGame builds an unshuffled game: seat i gets the i-th role of the
// default rules (Noble, Knight, Witch, Assassin) and the deck is in rule
// order, so the top card is X1 (Poison).
func newTestGame(t *testing.T, n int) (*Game, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	g, err := NewGame(Config{
		NumPlayers: n,
		HumanSeats: []int{0},
		Seed:       1,
		Logger:     logger,
		NoShuffle:  true,
	})
	require.NoError(t, err)
	return g, logger
}

// give moves the named cards from the deck into seat's hand, hidden.
func give(t *testing.T, g *Game, seat int, ids ...string) {
	t.Helper()
	gs := g.state
	for _, id := range ids {
		found := false
		for i, c := range gs.Deck {
			if c.ID == id {
				gs.Deck = append(gs.Deck[:i], gs.Deck[i+1:]...)
				gs.Players[seat].addToHand(c)
				found = true
				break
			}
		}
		require.True(t, found, "card %s not in deck", id)
	}
}

// revealAt marks hand slots of seat as revealed without running any rule.
func revealAt(g *Game, seat int, idx ...int) {
	for _, i := range idx {
		g.state.Players[seat].Revealed[i] = true
	}
}

// skipDraw moves the current turn to the offer step without drawing.
func skipDraw(g *Game) {
	g.state.Step = StepOffer
}

// atTurnOf parks the game at the offer step of seat.
func atTurnOf(g *Game, seat int) {
	g.state.CurrentPlayer = seat
	g.state.Phase = PhaseTurnStart
	g.state.Step = StepOffer
}

func handIDs(p *Player) []string {
	ids := make([]string, len(p.Hand))
	for i, c := range p.Hand {
		ids[i] = c.ID
	}
	return ids
}

func intPtr(i int) *int { return &i }

func requireConsistent(t *testing.T, g *Game) {
	t.Helper()
	require.NoError(t, g.state.CheckInvariants())
}
