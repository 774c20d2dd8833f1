package ai

import (
	"fmt"
	"math/rand"

	"github.com/peterkuimelis/poisontraders/internal/game"
	"github.com/peterkuimelis/poisontraders/internal/log"
)

// Bot plays one seat through the same commands a human uses.
type Bot struct {
	Seat    int
	Profile game.Profile
	Values  ValueModel
	rng     *rand.Rand
}

// NewBot creates a bot for seat. seed 0 is a valid, deterministic seed.
func NewBot(seat int, prof game.Profile, values ValueModel, seed int64) *Bot {
	return &Bot{Seat: seat, Profile: prof, Values: values, rng: rand.New(rand.NewSource(seed))}
}

// BotsFor creates a bot for every AI seat of g, seeded from seed.
func BotsFor(g *game.Game, seed int64) map[int]*Bot {
	values := NewRoleValues(g.Rules())
	bots := make(map[int]*Bot)
	for _, p := range g.State().Players {
		if p.IsHuman || p.Profile == nil {
			continue
		}
		bots[p.Index] = NewBot(p.Index, *p.Profile, values, seed+int64(p.Index)*7919)
	}
	return bots
}

// Act performs the bot's next command if the game is waiting on its seat.
// It reports whether a command was issued.
func (b *Bot) Act(g *game.Game) (bool, error) {
	gs := g.State()
	if gs.Over || g.Actor() != b.Seat {
		return false, nil
	}
	p := gs.Players[b.Seat]

	switch gs.Phase {
	case game.PhaseTurnStart:
		if gs.Step == game.StepDraw {
			return true, g.Draw(b.Seat)
		}
		return true, b.takeTurn(g, p)

	case game.PhaseAwaitResponse:
		resp, err := ChooseResponse(gs, b.Seat, b.Profile, b.Values, b.rng)
		if err != nil {
			return false, err
		}
		if resp.Challenge {
			return true, g.Challenge(b.Seat)
		}
		var ret *int
		if len(p.Hand) > 1 {
			idx := ChooseReturnCard(p, b.Values)
			ret = &idx
		}
		return true, g.Accept(b.Seat, ret)

	case game.PhaseAwaitChallengeChoice:
		choice, ok := gs.ChallengeContext()
		if !ok {
			return false, fmt.Errorf("%w: no challenge context", game.ErrWrongPhase)
		}
		return true, g.ChooseOption(b.Seat, ChoosePenalty(p, choice, b.Values))
	}
	return false, nil
}

func (b *Bot) takeTurn(g *game.Game, p *game.Player) error {
	d := DecideTurnAction(p, b.Profile, b.Values)
	if d.Overridden {
		g.Record(log.NewDecisionOverrideEvent(b.Seat, d.OriginalReason, d.Reason))
	}
	if d.Action == ActionKeep {
		return g.Keep(b.Seat)
	}

	plan, ok := ChooseOffer(g.State(), b.Seat, b.Profile, b.Values, b.rng)
	if !ok {
		return g.ForcedKeep(b.Seat)
	}
	return g.MakeOffer(b.Seat, plan.CardIdx, plan.Claim, plan.Target)
}
