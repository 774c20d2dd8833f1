package game

import "math/rand"

// shuffleDeck shuffles the shared draw deck in place.
func shuffleDeck(deck []Card, rng *rand.Rand) {
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}

// drawTop removes the top card from the deck. Returns false if the deck is empty.
func (gs *GameState) drawTop() (Card, bool) {
	if len(gs.Deck) == 0 {
		return Card{}, false
	}
	card := gs.Deck[len(gs.Deck)-1]
	gs.Deck = gs.Deck[:len(gs.Deck)-1]
	return card, true
}

// addToHand appends a card with a fresh hidden slot.
func (p *Player) addToHand(c Card) {
	p.Hand = append(p.Hand, c)
	p.Revealed = append(p.Revealed, false)
}

// removeFromHand removes the card at idx along with its reveal flag.
func (p *Player) removeFromHand(idx int) Card {
	c := p.Hand[idx]
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	p.Revealed = append(p.Revealed[:idx], p.Revealed[idx+1:]...)
	return c
}
