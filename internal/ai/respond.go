package ai

import (
	"fmt"
	"math/rand"

	"github.com/peterkuimelis/poisontraders/internal/game"
)

// Response reasons.
const (
	ReasonImpossibleClaim = "impossibleClaim"
	ReasonWantClaim       = "claimMeetsTakeThreshold"
	ReasonSuspicious      = "suspicious"
	ReasonGoodFaith       = "goodFaith"
)

// Response is the answer of an offer target.
type Response struct {
	Challenge bool
	Reason    string
}

// ClaimImpossible reports whether the claim cannot be true given what seat
// can see: every card of the claimed type is either publicly revealed or
// hidden in seat's own hand.
func ClaimImpossible(gs *game.GameState, seat int, claim game.ResourceType) bool {
	total := gs.Rules.Totals()[claim]
	seen := gs.RevealedCounts()[claim]
	p := gs.Players[seat]
	for _, i := range p.UnrevealedIndices() {
		if p.Hand[i].Type == claim {
			seen++
		}
	}
	return seen >= total
}

// ChooseResponse decides whether seat accepts or challenges the pending offer.
func ChooseResponse(gs *game.GameState, seat int, prof game.Profile, values ValueModel, rng *rand.Rand) (Response, error) {
	o, ok := gs.PendingOffer()
	if !ok || o.To != seat {
		return Response{}, fmt.Errorf("%w: seat %d has nothing to answer", game.ErrNoPendingOffer, seat)
	}

	if ClaimImpossible(gs, seat, o.Claim) {
		return Response{Challenge: true, Reason: ReasonImpossibleClaim}, nil
	}
	if prof.TakeThreshold != nil && values.ValueOf(gs.Players[seat], o.Claim) >= *prof.TakeThreshold {
		return Response{Reason: ReasonWantClaim}, nil
	}
	if rng.Float64() < prof.ChallengeChance {
		return Response{Challenge: true, Reason: ReasonSuspicious}, nil
	}
	return Response{Reason: ReasonGoodFaith}, nil
}

// ChooseReturnCard picks the card to give back on accept: the least valuable
// card in hand, revealed or not. Returns -1 for an empty hand.
func ChooseReturnCard(p *game.Player, values ValueModel) int {
	all := make([]int, len(p.Hand))
	for i := range all {
		all[i] = i
	}
	_, lowest := extremes(p, all, values)
	return lowest
}

// ChoosePenalty picks which card to expose: the least valuable option that is
// not Poison, or the first option if every option is Poison.
func ChoosePenalty(p *game.Player, choice *game.ChallengeChoice, values ValueModel) string {
	best := ""
	var bestV float64
	for _, o := range choice.Options {
		c := p.Hand[o.CardIdx]
		if c.Type == game.Poison {
			continue
		}
		if v := values.ValueOf(p, c.Type); best == "" || v < bestV {
			best, bestV = o.ID, v
		}
	}
	if best == "" && len(choice.Options) > 0 {
		best = choice.Options[0].ID
	}
	return best
}
