package game

import (
	"fmt"

	"github.com/peterkuimelis/poisontraders/internal/log"
)

// Draw moves the top card of the deck into the current player's hand and
// opens the offer step. An empty deck is not an error.
func (g *Game) Draw(player int) error {
	if err := g.expectTurnStart(player, StepDraw); err != nil {
		return g.refuse(player, "draw", err)
	}
	gs := g.state
	p := gs.Players[player]

	if card, ok := gs.drawTop(); ok {
		p.addToHand(card)
		g.emit(log.NewDrawEvent(player, card.ID, len(gs.Deck)))
	} else {
		g.emit(log.NewDeckEmptyEvent(player))
	}

	g.setPhase(PhaseTurnStart, StepOffer)
	g.changed()
	return nil
}

// Keep ends the turn without an offer. It is only legal when the current
// player has nothing left to offer.
func (g *Game) Keep(player int) error {
	if err := g.expectTurnStart(player, StepOffer); err != nil {
		return g.refuse(player, "keep", err)
	}
	p := g.state.Players[player]
	if p.HasUnrevealed() {
		return g.refuse(player, "keep", fmt.Errorf("%w: %d hidden cards in hand", ErrMustOffer, len(p.UnrevealedIndices())))
	}

	reason := "noOfferable"
	if len(p.Hand) == 0 {
		reason = "noCards"
	}
	g.emit(log.NewKeepEvent(player, reason))
	g.finishTurn()
	g.changed()
	return nil
}

// ForcedKeep ends the turn of a driver that was required to offer but could
// not build an offer. It is refused while a legal offer exists.
func (g *Game) ForcedKeep(player int) error {
	if err := g.expectTurnStart(player, StepOffer); err != nil {
		return g.refuse(player, "forced keep", err)
	}
	if len(g.OfferableCards(player)) > 0 && len(g.LegalTargets(player)) > 0 {
		return g.refuse(player, "forced keep", fmt.Errorf("%w: a legal offer exists", ErrMustOffer))
	}
	g.emit(log.NewOfferFallbackEvent(player))
	g.emit(log.NewKeepEvent(player, "offerFallback"))
	g.finishTurn()
	g.changed()
	return nil
}

// Advance hands the turn to the next living player. It is the external
// signal that closes awaitAdvance.
func (g *Game) Advance() error {
	gs := g.state
	if gs.Over {
		return g.refuse(-1, "advance", ErrGameOver)
	}
	if gs.Phase != PhaseAwaitAdvance {
		return g.refuse(-1, "advance", fmt.Errorf("%w: nothing to advance in %s", ErrWrongPhase, gs.PhaseLabel()))
	}

	finished, next := gs.LastFinished, gs.NextPlayer
	g.emit(log.NewAdvanceEvent(finished, next))

	if next <= finished {
		gs.RoundNumber++
		gs.TurnInRound = 1
		g.emit(log.NewRoundEvent(gs.RoundNumber))
	} else {
		gs.TurnInRound++
	}
	gs.CurrentPlayer = next
	gs.NextPlayer = -1
	g.setPhase(PhaseTurnStart, StepDraw)
	g.emit(log.NewTurnEvent(gs.TurnInRound, next))
	g.changed()
	return nil
}

// finishTurn closes the current turn: it clears any interaction, ends the
// game if a stop condition holds, and otherwise parks in awaitAdvance.
func (g *Game) finishTurn() {
	gs := g.state
	gs.Interaction = nil
	gs.TurnCount++

	if g.checkEnd() {
		return
	}

	gs.LastFinished = gs.CurrentPlayer
	gs.NextPlayer = gs.nextLivingFrom(gs.CurrentPlayer)
	g.setPhase(PhaseAwaitAdvance, StepDraw)
}

// checkEnd ends the game when a stop condition holds. Returns true if the
// game ended.
func (g *Game) checkEnd() bool {
	if why, reason := g.stopCondition(); why != EndNone {
		g.endGame(why, reason)
		return true
	}
	if g.maxTurns > 0 && g.state.TurnCount >= g.maxTurns {
		g.endGame(EndTurnLimit, fmt.Sprintf("turn limit reached (%d turns)", g.maxTurns))
		return true
	}
	return false
}

// stopCondition reports whether at most one player is left or a living
// player reached the reveal limit. It is checked after every reveal and
// knockout, not only when a turn finishes.
func (g *Game) stopCondition() (EndReason, string) {
	gs := g.state
	living := gs.LivingPlayers()
	switch len(living) {
	case 0:
		return EndLastSurvivor, "no players remain"
	case 1:
		return EndLastSurvivor, "only one player remains"
	}
	for _, i := range living {
		p := gs.Players[i]
		if p.RevealedCount() >= g.rules.RevealLimit {
			return EndRevealLimit, fmt.Sprintf("%s has %d revealed cards", p.DisplayName, p.RevealedCount())
		}
	}
	return EndNone, ""
}

func (g *Game) endGame(why EndReason, reason string) {
	gs := g.state
	gs.Interaction = nil
	gs.EndedBy = why
	gs.FinalResults = computeResults(gs)
	gs.Over = true
	gs.Result = reason
	g.setPhase(PhaseGameOver, StepDraw)

	var winners []int
	for _, r := range gs.FinalResults {
		if r.Result == ResultWin {
			winners = append(winners, r.Player)
		}
	}
	g.emit(log.NewGameOverEvent(reason, winners))
}
