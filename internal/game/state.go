package game

import (
	"errors"
	"fmt"
)

// BluffStats tracks how often a player's challenged claims were honest.
type BluffStats struct {
	Claims int `json:"claims"`
	Bluffs int `json:"bluffs"`
	Truths int `json:"truths"`
}

// Player represents one seat's entire state.
type Player struct {
	Index       int
	DisplayName string
	IsHuman     bool
	Profile     *Profile // nil for human seats
	Role        Role
	Hand        []Card
	Revealed    []bool // index-aligned with Hand
	KnockedOut  bool
	BluffStats  BluffStats
}

// Wants returns the resource type the player's role scores on.
func (p *Player) Wants() ResourceType {
	return p.Role.Wants
}

// Living reports whether the player is still in the match.
func (p *Player) Living() bool {
	return !p.KnockedOut
}

// RevealedCount returns the number of revealed cards in hand.
func (p *Player) RevealedCount() int {
	n := 0
	for _, r := range p.Revealed {
		if r {
			n++
		}
	}
	return n
}

// UnrevealedIndices returns hand indices whose card is still hidden.
func (p *Player) UnrevealedIndices() []int {
	var idx []int
	for i, r := range p.Revealed {
		if !r {
			idx = append(idx, i)
		}
	}
	return idx
}

// HasUnrevealed reports whether any card in hand is still hidden.
func (p *Player) HasUnrevealed() bool {
	for _, r := range p.Revealed {
		if !r {
			return true
		}
	}
	return false
}

// CountOf returns how many cards of type t the player holds.
func (p *Player) CountOf(t ResourceType) int {
	n := 0
	for _, c := range p.Hand {
		if c.Type == t {
			n++
		}
	}
	return n
}

// --- Interaction ---

// Interaction is the pending decision of the current turn: nil, an Offer or
// a *ChallengeChoice. Holding both at once is not representable.
type Interaction interface {
	isInteraction()
}

// Offer is a proposal to hand one unrevealed card to another player.
type Offer struct {
	From    int          `json:"from"`
	To      int          `json:"to"`
	CardIdx int          `json:"cardIdx"`
	Claim   ResourceType `json:"claim"`
}

func (Offer) isInteraction() {}

// PenaltyKind says why a penalty choice was raised.
type PenaltyKind int

const (
	PenaltyWrongChallenge PenaltyKind = iota // challenger doubted a true claim
	PenaltyBluff                             // offerer was caught lying
)

func (k PenaltyKind) String() string {
	if k == PenaltyBluff {
		return "bluff"
	}
	return "wrongChallenge"
}

// ChoiceOption is one selectable answer of a ChallengeChoice.
type ChoiceOption struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Primary bool   `json:"primary"`
	Danger  bool   `json:"danger"`
	CardIdx int    `json:"cardIdx"`
}

// ChallengeChoice is a penalty decision owed by Actor after a challenge.
type ChallengeChoice struct {
	Actor   int
	Kind    PenaltyKind
	Text    string
	Options []ChoiceOption
}

func (*ChallengeChoice) isInteraction() {}

// Option returns the option with the given id.
func (c *ChallengeChoice) Option(id string) (ChoiceOption, bool) {
	for _, o := range c.Options {
		if o.ID == id {
			return o, true
		}
	}
	return ChoiceOption{}, false
}

// --- Results ---

// FinalResult is one row of the end-of-game table.
type FinalResult struct {
	Player     int    `json:"player"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Score      int    `json:"score"`
	Result     string `json:"result"`
	KnockedOut bool   `json:"knockedOut"`
	Hand       []Card `json:"hand"`
}

// --- GameState ---

// GameState holds the complete state of a match.
type GameState struct {
	ID      string
	Rules   *RuleSet
	Players []*Player
	Deck    []Card // top of deck is last element (pop from end)

	CurrentPlayer int
	Phase         Phase
	Step          TurnStep
	Interaction   Interaction

	TurnCount   int // completed turns
	RoundNumber int // 1-based
	TurnInRound int // 1-based

	// awaitAdvance bookkeeping
	NextPlayer   int
	LastFinished int

	Over         bool
	EndedBy      EndReason
	Result       string
	FinalResults []FinalResult
}

// PendingOffer returns the pending offer, if any.
func (gs *GameState) PendingOffer() (Offer, bool) {
	o, ok := gs.Interaction.(Offer)
	return o, ok
}

// ChallengeContext returns the pending penalty choice, if any.
func (gs *GameState) ChallengeContext() (*ChallengeChoice, bool) {
	c, ok := gs.Interaction.(*ChallengeChoice)
	return c, ok
}

// Player returns the player at seat i, or nil.
func (gs *GameState) Player(i int) *Player {
	if i < 0 || i >= len(gs.Players) {
		return nil
	}
	return gs.Players[i]
}

// LivingPlayers returns seats of players not knocked out.
func (gs *GameState) LivingPlayers() []int {
	var seats []int
	for _, p := range gs.Players {
		if p.Living() {
			seats = append(seats, p.Index)
		}
	}
	return seats
}

// AnyKnockedOut reports whether any seat other than except was knocked out.
func (gs *GameState) AnyKnockedOut(except int) bool {
	for _, p := range gs.Players {
		if p.Index != except && p.KnockedOut {
			return true
		}
	}
	return false
}

// RevealedCounts tallies publicly revealed cards per type across all hands.
func (gs *GameState) RevealedCounts() map[ResourceType]int {
	counts := make(map[ResourceType]int)
	for _, p := range gs.Players {
		for i, c := range p.Hand {
			if p.Revealed[i] {
				counts[c.Type]++
			}
		}
	}
	return counts
}

// nextLivingFrom scans seats cyclically starting after seat from. Returns -1
// when nobody is alive.
func (gs *GameState) nextLivingFrom(from int) int {
	n := len(gs.Players)
	for off := 1; off <= n; off++ {
		i := (from + off) % n
		if gs.Players[i].Living() {
			return i
		}
	}
	return -1
}

// Actor returns the seat whose input the game is waiting on, or -1 when the
// next step is an external advance signal or the game is over.
func (gs *GameState) Actor() int {
	switch gs.Phase {
	case PhaseTurnStart:
		return gs.CurrentPlayer
	case PhaseAwaitResponse:
		if o, ok := gs.PendingOffer(); ok {
			return o.To
		}
	case PhaseAwaitChallengeChoice:
		if c, ok := gs.ChallengeContext(); ok {
			return c.Actor
		}
	}
	return -1
}

// PhaseLabel renders phase and step together, e.g. "turnStart/offer".
func (gs *GameState) PhaseLabel() string {
	if gs.Phase == PhaseTurnStart {
		return gs.Phase.String() + "/" + gs.Step.String()
	}
	return gs.Phase.String()
}

// Snapshot is a compact debug view of the state machine.
type Snapshot struct {
	Phase            string `json:"phase"`
	TurnStep         string `json:"turnStep"`
	TurnCount        int    `json:"turnCount"`
	RoundNumber      int    `json:"roundNumber"`
	TurnInRound      int    `json:"turnInRound"`
	CurrentPlayer    int    `json:"currentPlayer"`
	PendingOffer     bool   `json:"pendingOffer"`
	ChallengeContext bool   `json:"challengeContext"`
	Actor            int    `json:"actor"`
	NextPlayer       int    `json:"nextPlayer"`
	DeckSize         int    `json:"deckSize"`
	GameOver         bool   `json:"gameOver"`
}

func (gs *GameState) Snapshot() Snapshot {
	_, offer := gs.PendingOffer()
	_, choice := gs.ChallengeContext()
	return Snapshot{
		Phase:            gs.Phase.String(),
		TurnStep:         gs.Step.String(),
		TurnCount:        gs.TurnCount,
		RoundNumber:      gs.RoundNumber,
		TurnInRound:      gs.TurnInRound,
		CurrentPlayer:    gs.CurrentPlayer,
		PendingOffer:     offer,
		ChallengeContext: choice,
		Actor:            gs.Actor(),
		NextPlayer:       gs.NextPlayer,
		DeckSize:         len(gs.Deck),
		GameOver:         gs.Over,
	}
}

// CheckInvariants verifies the internal consistency of the state. A non-nil
// result means a transition is broken.
func (gs *GameState) CheckInvariants() error {
	var errs []error

	for _, p := range gs.Players {
		if len(p.Hand) != len(p.Revealed) {
			errs = append(errs, fmt.Errorf("player %d: hand has %d cards but %d reveal flags", p.Index, len(p.Hand), len(p.Revealed)))
		}
		if p.KnockedOut && (len(p.Hand) != 0 || len(p.Revealed) != 0) {
			errs = append(errs, fmt.Errorf("player %d: knocked out but still holds cards", p.Index))
		}
		for i, c := range p.Hand {
			if i < len(p.Revealed) && p.Revealed[i] && c.Type == Poison {
				errs = append(errs, fmt.Errorf("player %d: revealed Poison %s still in hand", p.Index, c.ID))
			}
		}
	}

	switch gs.Phase {
	case PhaseTurnStart, PhaseAwaitResponse:
		if p := gs.Player(gs.CurrentPlayer); p == nil || !p.Living() {
			errs = append(errs, fmt.Errorf("current player %d is not a living player in %s", gs.CurrentPlayer, gs.Phase))
		}
	case PhaseAwaitAdvance:
		// the turn's owner may have been knocked out during it
		if gs.CurrentPlayer != gs.LastFinished {
			errs = append(errs, fmt.Errorf("current player %d is not the player whose turn just finished (%d)", gs.CurrentPlayer, gs.LastFinished))
		}
	}

	switch gs.Phase {
	case PhaseTurnStart:
		if gs.Interaction != nil {
			errs = append(errs, errors.New("turnStart with a pending interaction"))
		}
	case PhaseAwaitResponse:
		o, ok := gs.PendingOffer()
		if !ok {
			errs = append(errs, errors.New("awaitResponse without a pending offer"))
			break
		}
		from, to := gs.Player(o.From), gs.Player(o.To)
		switch {
		case from == nil || to == nil || o.From == o.To:
			errs = append(errs, fmt.Errorf("offer between invalid seats %d -> %d", o.From, o.To))
		case o.CardIdx < 0 || o.CardIdx >= len(from.Hand) || from.Revealed[o.CardIdx]:
			errs = append(errs, fmt.Errorf("offered card %d is not an unrevealed card of player %d", o.CardIdx, o.From))
		case !to.Living():
			errs = append(errs, fmt.Errorf("offer target %d is knocked out", o.To))
		}
	case PhaseAwaitChallengeChoice:
		c, ok := gs.ChallengeContext()
		if !ok {
			errs = append(errs, errors.New("awaitChallengeChoice without a challenge context"))
		} else if len(c.Options) == 0 {
			errs = append(errs, errors.New("challenge context has no options"))
		} else if p := gs.Player(c.Actor); p == nil || !p.Living() {
			errs = append(errs, fmt.Errorf("penalty chooser %d is not a living player", c.Actor))
		}
	case PhaseAwaitAdvance:
		if gs.Interaction != nil {
			errs = append(errs, errors.New("awaitAdvance with a pending interaction"))
		}
		if p := gs.Player(gs.NextPlayer); p == nil || !p.Living() {
			errs = append(errs, fmt.Errorf("next player %d is not a living player", gs.NextPlayer))
		}
	case PhaseGameOver:
		if !gs.Over {
			errs = append(errs, errors.New("gameOver phase without the over flag"))
		}
		if len(gs.FinalResults) != len(gs.Players) {
			errs = append(errs, fmt.Errorf("final results has %d rows for %d players", len(gs.FinalResults), len(gs.Players)))
		}
	}
	if gs.Over && gs.EndedBy == EndNone {
		errs = append(errs, errors.New("game over without an end reason"))
	}
	if gs.Over && gs.Phase != PhaseGameOver {
		errs = append(errs, fmt.Errorf("over flag set in phase %s", gs.Phase))
	}

	if gs.Rules != nil {
		errs = append(errs, gs.checkConservation())
	}

	return errors.Join(errs...)
}

// checkConservation verifies deck plus hands equals the full composition.
func (gs *GameState) checkConservation() error {
	want := make(map[string]ResourceType)
	for _, c := range gs.Rules.BuildDeck() {
		want[c.ID] = c.Type
	}
	seen := make(map[string]bool, len(want))
	check := func(c Card, where string) error {
		t, ok := want[c.ID]
		switch {
		case !ok:
			return fmt.Errorf("unknown card %s in %s", c.ID, where)
		case t != c.Type:
			return fmt.Errorf("card %s in %s has type %s, want %s", c.ID, where, c.Type, t)
		case seen[c.ID]:
			return fmt.Errorf("card %s duplicated (%s)", c.ID, where)
		}
		seen[c.ID] = true
		return nil
	}

	var errs []error
	for _, c := range gs.Deck {
		errs = append(errs, check(c, "deck"))
	}
	for _, p := range gs.Players {
		for _, c := range p.Hand {
			errs = append(errs, check(c, fmt.Sprintf("player %d hand", p.Index)))
		}
	}
	if len(seen) != len(want) {
		errs = append(errs, fmt.Errorf("%d of %d cards accounted for", len(seen), len(want)))
	}
	return errors.Join(errs...)
}
