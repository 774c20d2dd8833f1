package game

import "github.com/peterkuimelis/poisontraders/internal/log"

// knockOut removes a player from the match. Every card they still hold goes
// back into the deck, which is then reshuffled.
func (g *Game) knockOut(player int, reason string) {
	gs := g.state
	p := gs.Players[player]
	if p.KnockedOut {
		return
	}

	returned := len(p.Hand)
	gs.Deck = append(gs.Deck, p.Hand...)
	p.Hand = nil
	p.Revealed = nil
	p.KnockedOut = true
	shuffleDeck(gs.Deck, g.rng)

	g.emit(log.NewKnockoutEvent(player, reason, returned))
	g.emit(log.NewShuffleEvent(len(gs.Deck)))
}
