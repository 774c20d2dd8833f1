package ai

import "github.com/peterkuimelis/poisontraders/internal/game"

// Action is the outcome of a turn decision.
type Action int

const (
	ActionKeep Action = iota
	ActionOffer
)

func (a Action) String() string {
	if a == ActionOffer {
		return "offer"
	}
	return "keep"
}

// Decision reasons.
const (
	ReasonNoCards       = "noCards"
	ReasonNoOfferable   = "noOfferable"
	ReasonKeepThreshold = "keepThresholdMet"
	ReasonCautious      = "cautiousThresholdMet"
	ReasonTrade         = "tradeLowest"
	ReasonForcedOffer   = "forcedByRules_keep_not_allowed_with_unrevealed"
)

// Decision is the result of DecideTurnAction.
type Decision struct {
	Action         Action
	Reason         string
	Overridden     bool   // the heuristic wanted to keep but the rules force an offer
	OriginalReason string // heuristic reason before the override
	Highest        int    // most valuable unrevealed card, -1 if none
	Lowest         int    // least valuable unrevealed card, -1 if none
}

// DecideTurnAction chooses between keeping and offering. A player holding any
// unrevealed card always gets ActionOffer.
func DecideTurnAction(p *game.Player, prof game.Profile, values ValueModel) Decision {
	if len(p.Hand) == 0 {
		return Decision{Action: ActionKeep, Reason: ReasonNoCards, Highest: -1, Lowest: -1}
	}
	hidden := p.UnrevealedIndices()
	if len(hidden) == 0 {
		return Decision{Action: ActionKeep, Reason: ReasonNoOfferable, Highest: -1, Lowest: -1}
	}

	highest, lowest := extremes(p, hidden, values)
	low := values.ValueOf(p, p.Hand[lowest].Type)

	d := Decision{Action: ActionOffer, Reason: ReasonTrade, Highest: highest, Lowest: lowest}
	switch {
	case prof.KeepThreshold != nil && low >= *prof.KeepThreshold:
		d.Action, d.Reason = ActionKeep, ReasonKeepThreshold
	case prof.Cautious && low >= prof.CautiousThreshold:
		d.Action, d.Reason = ActionKeep, ReasonCautious
	}

	if d.Action == ActionKeep {
		d.OriginalReason = d.Reason
		d.Action = ActionOffer
		d.Reason = ReasonForcedOffer
		d.Overridden = true
	}
	return d
}
