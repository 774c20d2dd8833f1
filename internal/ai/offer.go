package ai

import (
	"math/rand"

	"github.com/peterkuimelis/poisontraders/internal/game"
)

// OfferPlan is a fully built offer.
type OfferPlan struct {
	CardIdx int
	Claim   game.ResourceType
	Target  int
}

// ChooseOffer builds an offer for seat: the least valuable hidden card, a
// claim that is a bluff for Poison and sometimes otherwise, and a target
// picked by the profile's swap chance. ok is false when no offer is possible.
func ChooseOffer(gs *game.GameState, seat int, prof game.Profile, values ValueModel, rng *rand.Rand) (plan OfferPlan, ok bool) {
	p := gs.Player(seat)
	if p == nil || p.KnockedOut {
		return OfferPlan{}, false
	}
	hidden := p.UnrevealedIndices()
	targets := opponents(gs, seat)
	if len(hidden) == 0 || len(targets) == 0 {
		return OfferPlan{}, false
	}

	_, lowest := extremes(p, hidden, values)
	actual := p.Hand[lowest].Type

	claim := actual
	if actual == game.Poison || rng.Float64() < prof.BluffChance {
		claim = bluffClaim(actual, rng)
	}

	var target int
	if rng.Float64() < prof.SwapChance {
		target = mostHidden(gs, targets)
	} else {
		target = targets[rng.Intn(len(targets))]
	}

	return OfferPlan{CardIdx: lowest, Claim: claim, Target: target}, true
}

// bluffClaim picks a non-poison type different from actual.
func bluffClaim(actual game.ResourceType, rng *rand.Rand) game.ResourceType {
	var pool []game.ResourceType
	for _, t := range game.AllResourceTypes {
		if t != actual && t != game.Poison {
			pool = append(pool, t)
		}
	}
	return pool[rng.Intn(len(pool))]
}

func opponents(gs *game.GameState, seat int) []int {
	var seats []int
	for _, i := range gs.LivingPlayers() {
		if i != seat {
			seats = append(seats, i)
		}
	}
	return seats
}

// mostHidden returns the seat holding the most hidden cards, first on ties.
func mostHidden(gs *game.GameState, seats []int) int {
	best, bestN := seats[0], -1
	for _, s := range seats {
		if n := len(gs.Players[s].UnrevealedIndices()); n > bestN {
			best, bestN = s, n
		}
	}
	return best
}
