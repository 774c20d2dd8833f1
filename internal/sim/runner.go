// Package sim plays AI-only games in bulk and aggregates the outcomes.
package sim

import (
	"fmt"

	"github.com/peterkuimelis/poisontraders/internal/ai"
	"github.com/peterkuimelis/poisontraders/internal/game"
	"github.com/peterkuimelis/poisontraders/internal/log"
)

// DefaultMaxTurns caps a simulated game.
const DefaultMaxTurns = 500

// Config configures a batch.
type Config struct {
	Games    int
	Players  int
	Seed     int64
	Workers  int            // 0 uses every CPU
	MaxTurns int            // 0 uses DefaultMaxTurns
	Rules    *game.RuleSet  // nil for the embedded defaults
	Profiles map[int]string // fixed AI profile per seat; unset seats get a random one
	Check    bool           // verify state invariants after every command
}

// GameResult is the outcome of one simulated game.
type GameResult struct {
	SimID     int
	Seed      int64
	Turns     int
	Rounds    int
	TurnLimit bool
	EndedBy   game.EndReason
	Seats     []SeatResult
	Knockouts int
	Overrides int
	Fallbacks int
	Refusals  int
	Err       error
}

// SeatResult is one seat of a finished game.
type SeatResult struct {
	Role       string
	Profile    string
	Score      int
	Won        bool
	KnockedOut bool
	Claims     int
	Bluffs     int
}

// eventCounter is an EventLogger that only counts events by type.
type eventCounter struct {
	counts map[log.EventType]int
}

func (c *eventCounter) Log(e log.GameEvent) {
	c.counts[e.Type]++
}

func (c *eventCounter) Events() []log.GameEvent {
	return nil
}

// RunSingleGame plays one AI-only game with the given seed.
func RunSingleGame(cfg Config, simID int, seed int64) GameResult {
	res := GameResult{SimID: simID, Seed: seed}
	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}

	counter := &eventCounter{counts: make(map[log.EventType]int)}
	g, err := game.NewGame(game.Config{
		NumPlayers: cfg.Players,
		Profiles:   cfg.Profiles,
		Seed:       seed,
		Rules:      cfg.Rules,
		Logger:     counter,
		MaxTurns:   maxTurns,
	})
	if err != nil {
		res.Err = err
		return res
	}
	bots := ai.BotsFor(g, seed)

	// every turn takes at most draw, offer, response, penalty and advance
	limit := (maxTurns + 1) * 6
	for step := 0; !g.State().Over; step++ {
		if step > limit {
			res.Err = fmt.Errorf("game %d did not finish after %d commands", simID, step)
			return res
		}
		actor := g.Actor()
		if actor < 0 {
			err = g.Advance()
		} else if bot, ok := bots[actor]; ok {
			_, err = bot.Act(g)
		} else {
			err = fmt.Errorf("no AI for seat %d", actor)
		}
		if err != nil {
			res.Err = fmt.Errorf("game %d step %d: %w", simID, step, err)
			return res
		}
		if cfg.Check {
			if err := g.State().CheckInvariants(); err != nil {
				res.Err = fmt.Errorf("game %d step %d: %w", simID, step, err)
				return res
			}
		}
	}

	gs := g.State()
	res.Turns = gs.TurnCount
	res.Rounds = gs.RoundsPlayed()
	res.EndedBy = gs.EndedBy
	res.TurnLimit = gs.EndedBy == game.EndTurnLimit
	res.Knockouts = counter.counts[log.EventKnockout]
	res.Overrides = counter.counts[log.EventDecisionOverride]
	res.Fallbacks = counter.counts[log.EventOfferFallback]
	res.Refusals = counter.counts[log.EventRefused]
	for i, r := range gs.FinalResults {
		p := gs.Players[i]
		sr := SeatResult{
			Role:       r.Role,
			Score:      r.Score,
			Won:        r.Result == game.ResultWin,
			KnockedOut: r.KnockedOut,
			Claims:     p.BluffStats.Claims,
			Bluffs:     p.BluffStats.Bluffs,
		}
		if p.Profile != nil {
			sr.Profile = p.Profile.Name
		}
		res.Seats = append(res.Seats, sr)
	}
	return res
}
