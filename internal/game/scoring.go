package game

// Score returns the points a hand is worth for this role. otherKnockedOut
// reports whether any other player was knocked out during the match.
func (r Role) Score(hand []Card, otherKnockedOut bool) int {
	score := 0
	for _, c := range hand {
		if c.Type == r.Wants {
			score++
		}
	}
	if r.Scoring == ScoringAssassin && otherKnockedOut {
		score++
	}
	return score
}

// computeResults scores every seat. Knocked-out players are listed but can
// never win; every living player tied at the top score wins. If nobody is
// left alive, the top score among all seats wins.
func computeResults(gs *GameState) []FinalResult {
	results := make([]FinalResult, len(gs.Players))
	eligible := func(p *Player) bool { return p.Living() }
	if len(gs.LivingPlayers()) == 0 {
		eligible = func(*Player) bool { return true }
	}

	best := -1
	for i, p := range gs.Players {
		hand := make([]Card, len(p.Hand))
		copy(hand, p.Hand)
		results[i] = FinalResult{
			Player:     p.Index,
			Name:       p.DisplayName,
			Role:       p.Role.Name,
			Score:      p.Role.Score(p.Hand, gs.AnyKnockedOut(p.Index)),
			Result:     ResultLose,
			KnockedOut: p.KnockedOut,
			Hand:       hand,
		}
		if eligible(p) && results[i].Score > best {
			best = results[i].Score
		}
	}
	for i, p := range gs.Players {
		if eligible(p) && results[i].Score == best {
			results[i].Result = ResultWin
		}
	}
	return results
}

// RoundsPlayed is the round count shown in the end-of-game summary.
func (gs *GameState) RoundsPlayed() int {
	n := len(gs.Players)
	if n == 0 {
		return 0
	}
	return (gs.TurnCount + n - 1) / n
}
