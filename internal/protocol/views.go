// Package protocol defines the JSON shapes exchanged with front ends: views
// of the game from one seat's perspective and the commands a seat can send.
package protocol

import (
	"github.com/peterkuimelis/poisontraders/internal/game"
	"github.com/peterkuimelis/poisontraders/internal/log"
)

// Spectator is the viewer index that sees only public information.
const Spectator = -1

// StateView is the game state from one seat's perspective.
type StateView struct {
	ID            string       `json:"id"`
	Viewer        int          `json:"viewer"`
	Phase         string       `json:"phase"`
	Step          string       `json:"step"`
	Round         int          `json:"round"`
	TurnInRound   int          `json:"turn_in_round"`
	TurnCount     int          `json:"turn_count"`
	CurrentPlayer int          `json:"current_player"`
	Actor         int          `json:"actor"`
	IsYourMove    bool         `json:"is_your_move"`
	NextPlayer    int          `json:"next_player"`
	DeckCount     int          `json:"deck_count"`
	Players       []PlayerView `json:"players"`
	Offer         *OfferView   `json:"offer,omitempty"`
	Choice        *ChoiceView  `json:"choice,omitempty"`
	GameOver      bool         `json:"game_over"`
	Result        string       `json:"result,omitempty"`
	Results       []ResultView `json:"results,omitempty"`
}

// PlayerView shows one seat. Role and hidden cards are only filled in for
// the viewer's own seat, or for everyone once the game is over.
type PlayerView struct {
	Seat          int        `json:"seat"`
	Name          string     `json:"name"`
	IsHuman       bool       `json:"is_human"`
	IsYou         bool       `json:"is_you"`
	Profile       string     `json:"profile,omitempty"`
	Role          string     `json:"role,omitempty"`
	Wants         string     `json:"wants,omitempty"`
	Goal          string     `json:"goal,omitempty"`
	KnockedOut    bool       `json:"knocked_out"`
	HandCount     int        `json:"hand_count"`
	RevealedCount int        `json:"revealed_count"`
	Hand          []CardView `json:"hand"`
	Claims        int        `json:"claims"`
	BluffsCaught  int        `json:"bluffs_caught"`
}

// CardView is one hand slot. Type is empty when the viewer cannot see it.
type CardView struct {
	Index    int    `json:"index"`
	Type     string `json:"type,omitempty"`
	Revealed bool   `json:"revealed"`
}

// OfferView is the pending offer. Card is the actual card and is only set
// for the offering seat.
type OfferView struct {
	From    int       `json:"from"`
	To      int       `json:"to"`
	CardIdx int       `json:"card_idx"`
	Claim   string    `json:"claim"`
	Card    *CardView `json:"card,omitempty"`
}

// ChoiceView is a pending penalty choice. Options are only listed for the
// seat that must choose.
type ChoiceView struct {
	Actor   int          `json:"actor"`
	Kind    string       `json:"kind"`
	Text    string       `json:"text"`
	Options []OptionView `json:"options,omitempty"`
}

// OptionView is one selectable penalty option.
type OptionView struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	CardIdx int    `json:"card_idx"`
	Primary bool   `json:"primary,omitempty"`
	Danger  bool   `json:"danger,omitempty"`
}

// ResultView is one line of the final results.
type ResultView struct {
	Seat       int      `json:"seat"`
	Name       string   `json:"name"`
	Role       string   `json:"role"`
	Score      int      `json:"score"`
	Result     string   `json:"result"`
	KnockedOut bool     `json:"knocked_out"`
	Hand       []string `json:"hand"`
}

// EventView is a game event with private payload stripped.
type EventView struct {
	Seq     int    `json:"seq"`
	Turn    int    `json:"turn"`
	Round   int    `json:"round"`
	Phase   string `json:"phase"`
	Player  int    `json:"player"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Details string `json:"details"`
}

// BuildStateView creates a StateView from the perspective of viewer. Use
// Spectator for a view without private information.
func BuildStateView(gs *game.GameState, viewer int) *StateView {
	actor := gs.Actor()
	sv := &StateView{
		ID:            gs.ID,
		Viewer:        viewer,
		Phase:         gs.Phase.String(),
		Step:          gs.Step.String(),
		Round:         gs.RoundNumber,
		TurnInRound:   gs.TurnInRound,
		TurnCount:     gs.TurnCount,
		CurrentPlayer: gs.CurrentPlayer,
		Actor:         actor,
		IsYourMove:    viewer >= 0 && actor == viewer,
		NextPlayer:    gs.NextPlayer,
		DeckCount:     len(gs.Deck),
		GameOver:      gs.Over,
		Result:        gs.Result,
	}

	for _, p := range gs.Players {
		sv.Players = append(sv.Players, buildPlayerView(p, viewer, gs.Over))
	}

	if o, ok := gs.PendingOffer(); ok {
		ov := &OfferView{From: o.From, To: o.To, CardIdx: o.CardIdx, Claim: o.Claim.String()}
		if viewer == o.From {
			c := gs.Players[o.From].Hand[o.CardIdx]
			ov.Card = &CardView{Index: o.CardIdx, Type: c.Type.String(), Revealed: gs.Players[o.From].Revealed[o.CardIdx]}
		}
		sv.Offer = ov
	}

	if ch, ok := gs.ChallengeContext(); ok {
		cv := &ChoiceView{Actor: ch.Actor, Kind: ch.Kind.String(), Text: ch.Text}
		if viewer == ch.Actor {
			for _, opt := range ch.Options {
				cv.Options = append(cv.Options, OptionView{
					ID:      opt.ID,
					Label:   opt.Label,
					CardIdx: opt.CardIdx,
					Primary: opt.Primary,
					Danger:  opt.Danger,
				})
			}
		}
		sv.Choice = cv
	}

	for _, r := range gs.FinalResults {
		rv := ResultView{
			Seat:       r.Player,
			Name:       r.Name,
			Role:       r.Role,
			Score:      r.Score,
			Result:     r.Result,
			KnockedOut: r.KnockedOut,
		}
		for _, c := range r.Hand {
			rv.Hand = append(rv.Hand, c.Type.String())
		}
		sv.Results = append(sv.Results, rv)
	}
	return sv
}

func buildPlayerView(p *game.Player, viewer int, over bool) PlayerView {
	own := p.Index == viewer || over
	pv := PlayerView{
		Seat:          p.Index,
		Name:          p.DisplayName,
		IsHuman:       p.IsHuman,
		IsYou:         p.Index == viewer,
		KnockedOut:    p.KnockedOut,
		HandCount:     len(p.Hand),
		RevealedCount: p.RevealedCount(),
		Hand:          []CardView{},
		Claims:        p.BluffStats.Claims,
		BluffsCaught:  p.BluffStats.Bluffs,
	}
	if p.Profile != nil {
		pv.Profile = p.Profile.Name
	}
	if own {
		pv.Role = p.Role.Name
		pv.Wants = p.Role.Wants.String()
		pv.Goal = p.Role.Goal
	}
	for i, c := range p.Hand {
		cv := CardView{Index: i, Revealed: p.Revealed[i]}
		if own || p.Revealed[i] {
			cv.Type = c.Type.String()
		}
		pv.Hand = append(pv.Hand, cv)
	}
	return pv
}

// publicCard reports whether an event's Card field is public information.
// Draw and trade events carry card ids, which encode the card type.
func publicCard(t log.EventType) bool {
	switch t {
	case log.EventReveal, log.EventBluffCaught, log.EventClaimTrue, log.EventPenalty, log.EventOffer:
		return true
	}
	return false
}

// BuildEventView strips private payload from an event.
func BuildEventView(e log.GameEvent) EventView {
	ev := EventView{
		Seq:     e.Seq,
		Turn:    e.Turn,
		Round:   e.Round,
		Phase:   e.Phase,
		Player:  e.Player,
		Type:    e.Type.String(),
		Details: e.Details,
	}
	if publicCard(e.Type) {
		ev.Card = e.Card
	}
	return ev
}

// BuildEventViews converts events newer than afterSeq.
func BuildEventViews(events []log.GameEvent, afterSeq int) []EventView {
	views := []EventView{}
	for _, e := range events {
		if e.Seq > afterSeq {
			views = append(views, BuildEventView(e))
		}
	}
	return views
}
