package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomStep issues one random legal command for whoever the game waits on.
func randomStep(t *testing.T, g *Game, rng *rand.Rand) {
	t.Helper()
	gs := g.State()
	switch gs.Phase {
	case PhaseTurnStart:
		cur := gs.CurrentPlayer
		if gs.Step == StepDraw {
			require.NoError(t, g.Draw(cur))
			return
		}
		cards := g.OfferableCards(cur)
		if len(cards) == 0 {
			require.NoError(t, g.Keep(cur))
			return
		}
		targets := g.LegalTargets(cur)
		claim := AllResourceTypes[rng.Intn(len(AllResourceTypes))]
		require.NoError(t, g.MakeOffer(cur, cards[rng.Intn(len(cards))], claim, targets[rng.Intn(len(targets))]))
	case PhaseAwaitResponse:
		o, _ := gs.PendingOffer()
		if rng.Intn(2) == 0 {
			before := gs.Players[o.From].BluffStats
			require.NoError(t, g.Challenge(o.To))
			after := gs.Players[o.From].BluffStats
			assert.Equal(t, before.Claims+1, after.Claims)
			assert.Equal(t, 1, (after.Truths-before.Truths)+(after.Bluffs-before.Bluffs))
			return
		}
		var ret *int
		if n := len(gs.Players[o.To].Hand); n > 1 {
			ret = intPtr(rng.Intn(n))
		}
		require.NoError(t, g.Accept(o.To, ret))
	case PhaseAwaitChallengeChoice:
		c, _ := gs.ChallengeContext()
		require.NoError(t, g.ChooseOption(c.Actor, c.Options[rng.Intn(len(c.Options))].ID))
	case PhaseAwaitAdvance:
		require.NoError(t, g.Advance())
	default:
		t.Fatalf("unexpected phase %s", gs.Phase)
	}
}

func TestRandomMatchesKeepInvariants(t *testing.T) {
	for seed := int64(1); seed <= 200; seed++ {
		n := 3 + int(seed%2)
		g, err := NewGame(Config{NumPlayers: n, Seed: seed, MaxTurns: 300})
		require.NoError(t, err)
		rng := rand.New(rand.NewSource(seed * 31))

		for steps := 0; !g.State().Over; steps++ {
			require.Less(t, steps, 5000, "seed %d did not terminate", seed)
			randomStep(t, g, rng)
			require.NoError(t, g.State().CheckInvariants(), "seed %d step %d", seed, steps)
		}

		gs := g.State()
		require.Len(t, gs.FinalResults, n)
		wins := 0
		for _, r := range gs.FinalResults {
			if r.Result == ResultWin {
				wins++
				if len(gs.LivingPlayers()) > 0 {
					assert.False(t, r.KnockedOut)
				}
			}
		}
		assert.GreaterOrEqual(t, wins, 1, "seed %d", seed)
	}
}
