package game

import (
	"fmt"

	"github.com/peterkuimelis/poisontraders/internal/log"
)

// ReturnOption is a card the offer target may give back on accept.
type ReturnOption struct {
	Index    int  `json:"index"`
	Card     Card `json:"card"`
	Revealed bool `json:"revealed"`
}

// OfferableCards returns the hand indices player may offer.
func (g *Game) OfferableCards(player int) []int {
	p := g.state.Player(player)
	if p == nil {
		return nil
	}
	return p.UnrevealedIndices()
}

// LegalTargets returns the living seats player may offer to.
func (g *Game) LegalTargets(player int) []int {
	var seats []int
	for _, i := range g.state.LivingPlayers() {
		if i != player {
			seats = append(seats, i)
		}
	}
	return seats
}

// TradeReturnOptions lists every card player could give back, with its
// reveal status.
func (g *Game) TradeReturnOptions(player int) []ReturnOption {
	p := g.state.Player(player)
	if p == nil {
		return nil
	}
	opts := make([]ReturnOption, len(p.Hand))
	for i, c := range p.Hand {
		opts[i] = ReturnOption{Index: i, Card: c, Revealed: p.Revealed[i]}
	}
	return opts
}

// MakeOffer commits an offer of one of player's unrevealed cards, declared as
// claim, to target.
func (g *Game) MakeOffer(player, cardIdx int, claim ResourceType, target int) error {
	if err := g.expectTurnStart(player, StepOffer); err != nil {
		return g.refuse(player, "offer", err)
	}
	gs := g.state
	p := gs.Players[player]

	if cardIdx < 0 || cardIdx >= len(p.Hand) {
		return g.refuse(player, "offer", fmt.Errorf("%w: index %d, hand has %d", ErrInvalidCard, cardIdx, len(p.Hand)))
	}
	if p.Revealed[cardIdx] {
		return g.refuse(player, "offer", fmt.Errorf("%w: index %d", ErrCardRevealed, cardIdx))
	}
	if !claim.Valid() {
		return g.refuse(player, "offer", fmt.Errorf("%w: %d", ErrInvalidClaim, int(claim)))
	}
	t := gs.Player(target)
	if t == nil || target == player || !t.Living() {
		return g.refuse(player, "offer", fmt.Errorf("%w: seat %d", ErrInvalidTarget, target))
	}

	gs.Interaction = Offer{From: player, To: target, CardIdx: cardIdx, Claim: claim}
	g.emit(log.NewOfferEvent(player, target, cardIdx, claim.String()))
	g.setPhase(PhaseAwaitResponse, StepOffer)
	g.changed()
	return nil
}

// expectResponse validates a response of player to the pending offer.
func (g *Game) expectResponse(player int) (Offer, error) {
	gs := g.state
	if gs.Over {
		return Offer{}, ErrGameOver
	}
	o, ok := gs.PendingOffer()
	if gs.Phase != PhaseAwaitResponse || !ok {
		return Offer{}, fmt.Errorf("%w: in %s", ErrNoPendingOffer, gs.PhaseLabel())
	}
	if player != o.To {
		return Offer{}, fmt.Errorf("%w: the offer is addressed to player %d", ErrNotYourTurn, o.To)
	}
	return o, nil
}

// Accept trades the offered card for one of the target's cards. returnIdx may
// be nil when the target holds at most one card.
func (g *Game) Accept(player int, returnIdx *int) error {
	o, err := g.expectResponse(player)
	if err != nil {
		return g.refuse(player, "accept", err)
	}
	gs := g.state
	from, to := gs.Players[o.From], gs.Players[o.To]

	ri := -1
	switch {
	case returnIdx != nil:
		if *returnIdx < 0 || *returnIdx >= len(to.Hand) {
			return g.refuse(player, "accept", fmt.Errorf("%w: return index %d, hand has %d", ErrInvalidCard, *returnIdx, len(to.Hand)))
		}
		ri = *returnIdx
	case len(to.Hand) == 1:
		ri = 0
	case len(to.Hand) > 1:
		return g.refuse(player, "accept", fmt.Errorf("%w: %d cards to choose from", ErrSelectionRequired, len(to.Hand)))
	}

	g.emit(log.NewAcceptEvent(o.To, o.From))

	offered := from.Hand[o.CardIdx]
	if ri < 0 {
		from.removeFromHand(o.CardIdx)
		to.addToHand(offered)
		g.emit(log.NewTradeEvent(o.From, o.To, offered.ID, "", false))
	} else {
		returned, returnedRevealed := to.Hand[ri], to.Revealed[ri]
		from.Hand[o.CardIdx], from.Revealed[o.CardIdx] = returned, returnedRevealed
		to.Hand[ri], to.Revealed[ri] = offered, false
		g.emit(log.NewTradeEvent(o.From, o.To, offered.ID, returned.ID, returnedRevealed))
	}

	g.finishTurn()
	g.changed()
	return nil
}

// Challenge reveals the offered card and judges the claim. The wrong party
// owes a penalty exposure; there is no trade.
func (g *Game) Challenge(player int) error {
	o, err := g.expectResponse(player)
	if err != nil {
		return g.refuse(player, "challenge", err)
	}
	gs := g.state
	from := gs.Players[o.From]

	g.emit(log.NewChallengeEvent(player, o.From))
	gs.Interaction = nil

	card := from.Hand[o.CardIdx]
	from.Revealed[o.CardIdx] = true
	g.emit(log.NewRevealEvent(o.From, o.CardIdx, card.Type.String(), "challenged"))

	from.BluffStats.Claims++
	penalized, kind := o.To, PenaltyWrongChallenge
	if card.Type == o.Claim {
		from.BluffStats.Truths++
		g.emit(log.NewClaimTrueEvent(o.From, o.To, o.Claim.String()))
	} else {
		from.BluffStats.Bluffs++
		penalized, kind = o.From, PenaltyBluff
		g.emit(log.NewBluffCaughtEvent(o.From, o.Claim.String(), card.Type.String()))
	}

	if card.Type == Poison {
		g.knockOut(o.From, "revealed Poison when challenged")
	}

	// the reveal or knockout may already decide the game; no penalty then
	if why, _ := g.stopCondition(); why != EndNone {
		g.finishTurn()
		g.changed()
		return nil
	}

	g.startPenalty(penalized, kind)
	g.changed()
	return nil
}

// startPenalty asks the penalized player to expose one hidden card. With no
// hidden card there is nothing to expose; a single candidate is exposed
// without asking.
func (g *Game) startPenalty(player int, kind PenaltyKind) {
	p := g.state.Players[player]
	hidden := p.UnrevealedIndices()
	if p.KnockedOut || len(hidden) == 0 {
		g.finishTurn()
		return
	}
	if len(hidden) == 1 {
		g.exposePenalty(player, hidden[0])
		g.finishTurn()
		return
	}

	choice := &ChallengeChoice{Actor: player, Kind: kind}
	if kind == PenaltyBluff {
		choice.Text = fmt.Sprintf("%s was caught bluffing and must expose another card.", p.DisplayName)
	} else {
		choice.Text = fmt.Sprintf("%s challenged a true claim and must expose a card.", p.DisplayName)
	}
	primarySet := false
	for _, i := range hidden {
		c := p.Hand[i]
		opt := ChoiceOption{
			ID:      fmt.Sprintf("expose-%d", i),
			Label:   fmt.Sprintf("Expose card %d (%s)", i+1, c.Type),
			Danger:  c.Type == Poison,
			CardIdx: i,
		}
		if !opt.Danger && !primarySet {
			opt.Primary = true
			primarySet = true
		}
		choice.Options = append(choice.Options, opt)
	}

	g.state.Interaction = choice
	g.emit(log.NewPenaltyPromptEvent(player, len(choice.Options), kind.String()))
	g.setPhase(PhaseAwaitChallengeChoice, StepOffer)
}

// ChooseOption answers the pending penalty choice.
func (g *Game) ChooseOption(player int, id string) error {
	gs := g.state
	if gs.Over {
		return g.refuse(player, "choose", ErrGameOver)
	}
	c, ok := gs.ChallengeContext()
	if gs.Phase != PhaseAwaitChallengeChoice || !ok {
		return g.refuse(player, "choose", fmt.Errorf("%w: no choice pending in %s", ErrWrongPhase, gs.PhaseLabel()))
	}
	if player != c.Actor {
		return g.refuse(player, "choose", fmt.Errorf("%w: player %d must choose", ErrNotYourTurn, c.Actor))
	}
	opt, ok := c.Option(id)
	if !ok {
		return g.refuse(player, "choose", fmt.Errorf("%w: %q", ErrInvalidOption, id))
	}

	gs.Interaction = nil
	g.exposePenalty(player, opt.CardIdx)
	g.finishTurn()
	g.changed()
	return nil
}

// exposePenalty reveals a hidden card of player as a penalty.
func (g *Game) exposePenalty(player, idx int) {
	p := g.state.Players[player]
	c := p.Hand[idx]
	p.Revealed[idx] = true
	g.emit(log.NewPenaltyEvent(player, idx, c.Type.String()))
	if c.Type == Poison {
		g.knockOut(player, "exposed Poison as a penalty")
	}
}
