package log

import "fmt"

// EventType enumerates all observable game events.
type EventType int

const (
	EventPhaseChange EventType = iota
	EventNewTurn
	EventNewRound
	EventDraw
	EventDeckEmpty
	EventOffer
	EventAccept
	EventTrade
	EventChallenge
	EventReveal
	EventBluffCaught
	EventClaimTrue
	EventPenaltyPrompt
	EventPenalty
	EventKnockout
	EventShuffle
	EventKeep
	EventDecisionOverride
	EventOfferFallback
	EventRefused
	EventAdvance
	EventGameOver
)

func (e EventType) String() string {
	switch e {
	case EventPhaseChange:
		return "PhaseChange"
	case EventNewTurn:
		return "NewTurn"
	case EventNewRound:
		return "NewRound"
	case EventDraw:
		return "Draw"
	case EventDeckEmpty:
		return "DeckEmpty"
	case EventOffer:
		return "Offer"
	case EventAccept:
		return "Accept"
	case EventTrade:
		return "Trade"
	case EventChallenge:
		return "Challenge"
	case EventReveal:
		return "Reveal"
	case EventBluffCaught:
		return "BluffCaught"
	case EventClaimTrue:
		return "ClaimTrue"
	case EventPenaltyPrompt:
		return "PenaltyPrompt"
	case EventPenalty:
		return "Penalty"
	case EventKnockout:
		return "Knockout"
	case EventShuffle:
		return "Shuffle"
	case EventKeep:
		return "Keep"
	case EventDecisionOverride:
		return "DecisionOverride"
	case EventOfferFallback:
		return "OfferFallback"
	case EventRefused:
		return "Refused"
	case EventAdvance:
		return "Advance"
	case EventGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a match.
type GameEvent struct {
	Seq     int            // monotonic sequence number, assigned by the logger
	Turn    int            // completed turns when the event fired
	Round   int            // round number (1-based)
	Phase   string         // phase name at emission time
	Player  int            // acting player seat, -1 when not applicable
	Type    EventType      // event type
	Card    string         // card type or id (if applicable)
	Details string         // human-readable detail string
	Fields  map[string]any // structured payload
}

// Tag returns the short machine tag for the event.
func (e GameEvent) Tag() string {
	return e.Type.String()
}

// playerName returns "Player N" for display.
func playerName(p int) string {
	if p < 0 {
		return "Nobody"
	}
	return fmt.Sprintf("Player %d", p+1)
}

// --- Helper constructors for common events ---

func NewPhaseChangeEvent(player int, from, to string) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventPhaseChange,
		Details: fmt.Sprintf("Phase %s → %s", from, to),
		Fields:  map[string]any{"from": from, "to": to},
	}
}

func NewTurnEvent(turnInRound int, player int) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventNewTurn,
		Details: fmt.Sprintf("Turn %d: %s", turnInRound, playerName(player)),
		Fields:  map[string]any{"turn_in_round": turnInRound},
	}
}

func NewRoundEvent(round int) GameEvent {
	return GameEvent{
		Player:  -1,
		Type:    EventNewRound,
		Details: fmt.Sprintf("ROUND %d", round),
		Fields:  map[string]any{"round": round},
	}
}

// NewDrawEvent records a draw. The card type is kept in the payload only;
// the public detail string never names it.
func NewDrawEvent(player int, cardID string, deckLeft int) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventDraw,
		Card:    cardID,
		Details: fmt.Sprintf("%s draws a card (%d left in deck)", playerName(player), deckLeft),
		Fields:  map[string]any{"card_id": cardID, "deck_left": deckLeft},
	}
}

func NewDeckEmptyEvent(player int) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventDeckEmpty,
		Details: fmt.Sprintf("%s cannot draw: the deck is empty", playerName(player)),
	}
}

func NewOfferEvent(from, to, cardIdx int, claim string) GameEvent {
	return GameEvent{
		Player:  from,
		Type:    EventOffer,
		Details: fmt.Sprintf("%s offers a card to %s, declaring it is %s", playerName(from), playerName(to), claim),
		Fields:  map[string]any{"from": from, "to": to, "card_idx": cardIdx, "claim": claim},
	}
}

func NewAcceptEvent(target, from int) GameEvent {
	return GameEvent{
		Player:  target,
		Type:    EventAccept,
		Details: fmt.Sprintf("%s accepts the offer from %s", playerName(target), playerName(from)),
		Fields:  map[string]any{"from": from},
	}
}

func NewTradeEvent(from, to int, offeredID, returnedID string, returnedRevealed bool) GameEvent {
	details := fmt.Sprintf("%s and %s trade cards", playerName(from), playerName(to))
	if returnedID == "" {
		details = fmt.Sprintf("%s takes the offered card (nothing to give back)", playerName(to))
	}
	return GameEvent{
		Player:  from,
		Type:    EventTrade,
		Card:    offeredID,
		Details: details,
		Fields: map[string]any{
			"from":              from,
			"to":                to,
			"offered_id":        offeredID,
			"returned_id":       returnedID,
			"returned_revealed": returnedRevealed,
		},
	}
}

func NewChallengeEvent(challenger, offerer int) GameEvent {
	return GameEvent{
		Player:  challenger,
		Type:    EventChallenge,
		Details: fmt.Sprintf("%s challenges %s", playerName(challenger), playerName(offerer)),
		Fields:  map[string]any{"offerer": offerer},
	}
}

func NewRevealEvent(player, cardIdx int, cardType string, reason string) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventReveal,
		Card:    cardType,
		Details: fmt.Sprintf("%s reveals %s (%s)", playerName(player), cardType, reason),
		Fields:  map[string]any{"card_idx": cardIdx, "reason": reason},
	}
}

func NewBluffCaughtEvent(offerer int, claim, actual string) GameEvent {
	return GameEvent{
		Player:  offerer,
		Type:    EventBluffCaught,
		Card:    actual,
		Details: fmt.Sprintf("%s was bluffing: claimed %s but it is %s", playerName(offerer), claim, actual),
		Fields:  map[string]any{"claim": claim, "actual": actual},
	}
}

func NewClaimTrueEvent(offerer, challenger int, claim string) GameEvent {
	return GameEvent{
		Player:  offerer,
		Type:    EventClaimTrue,
		Card:    claim,
		Details: fmt.Sprintf("%s told the truth; %s challenged wrongly", playerName(offerer), playerName(challenger)),
		Fields:  map[string]any{"challenger": challenger, "claim": claim},
	}
}

func NewPenaltyPromptEvent(player int, options int, kind string) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventPenaltyPrompt,
		Details: fmt.Sprintf("%s must expose one of %d hidden cards", playerName(player), options),
		Fields:  map[string]any{"options": options, "kind": kind},
	}
}

func NewPenaltyEvent(player, cardIdx int, cardType string) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventPenalty,
		Card:    cardType,
		Details: fmt.Sprintf("%s exposes %s as a penalty", playerName(player), cardType),
		Fields:  map[string]any{"card_idx": cardIdx},
	}
}

func NewKnockoutEvent(player int, reason string, returned int) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventKnockout,
		Details: fmt.Sprintf("%s is knocked out (%s)", playerName(player), reason),
		Fields:  map[string]any{"reason": reason, "returned_cards": returned},
	}
}

func NewShuffleEvent(deckSize int) GameEvent {
	return GameEvent{
		Player:  -1,
		Type:    EventShuffle,
		Details: fmt.Sprintf("Cards return to the draw deck and the deck is reshuffled (%d cards)", deckSize),
		Fields:  map[string]any{"deck_size": deckSize},
	}
}

func NewKeepEvent(player int, reason string) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventKeep,
		Details: fmt.Sprintf("%s keeps their cards this turn", playerName(player)),
		Fields:  map[string]any{"reason": reason},
	}
}

func NewDecisionOverrideEvent(player int, original, forced string) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventDecisionOverride,
		Details: fmt.Sprintf("%s preferred to keep but must offer", playerName(player)),
		Fields:  map[string]any{"original_reason": original, "reason": forced},
	}
}

func NewOfferFallbackEvent(player int) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventOfferFallback,
		Details: fmt.Sprintf("%s could not build a forced offer and ends the turn", playerName(player)),
	}
}

func NewRefusedEvent(player int, command string, err error) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventRefused,
		Details: fmt.Sprintf("%s: %s refused: %v", playerName(player), command, err),
		Fields:  map[string]any{"command": command, "error": err.Error()},
	}
}

func NewAdvanceEvent(finished, next int) GameEvent {
	return GameEvent{
		Player:  finished,
		Type:    EventAdvance,
		Details: fmt.Sprintf("%s's turn is complete. Next up: %s", playerName(finished), playerName(next)),
		Fields:  map[string]any{"next": next},
	}
}

func NewGameOverEvent(reason string, winners []int) GameEvent {
	return GameEvent{
		Player:  -1,
		Type:    EventGameOver,
		Details: fmt.Sprintf("Game over (%s)", reason),
		Fields:  map[string]any{"reason": reason, "winners": winners},
	}
}
