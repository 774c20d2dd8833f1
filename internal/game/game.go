package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/peterkuimelis/poisontraders/internal/log"
)

// Config holds configuration for creating a new game.
type Config struct {
	ID         string // game identifier (empty generates a UUID)
	NumPlayers int
	HumanSeats []int          // seats driven by external input
	Profiles   map[int]string // AI profile per seat; unset seats get a random profile
	Seed       int64          // RNG seed (0 for random)
	Rules      *RuleSet       // nil for the embedded defaults
	Logger     log.EventLogger
	OnChange   func(*GameState) // render callback, called after every mutation
	NoShuffle  bool             // keep roles and deck in rule order (for deterministic tests)
	MaxTurns   int              // end the game after this many turns (0 = no limit)
}

// Game is the single authoritative owner of a GameState. Every mutation goes
// through one of its commands.
type Game struct {
	state    *GameState
	rules    *RuleSet
	rng      *rand.Rand
	logger   log.EventLogger
	onChange func(*GameState)
	maxTurns int
}

// NewGame seats the players, deals roles and shuffles the deck.
func NewGame(cfg Config) (*Game, error) {
	rules := cfg.Rules
	if rules == nil {
		rules = DefaultRules()
	}
	if cfg.NumPlayers < rules.MinPlayers || cfg.NumPlayers > rules.MaxPlayers() {
		return nil, fmt.Errorf("player count %d out of range [%d, %d]", cfg.NumPlayers, rules.MinPlayers, rules.MaxPlayers())
	}

	human := make(map[int]bool, len(cfg.HumanSeats))
	for _, s := range cfg.HumanSeats {
		if s < 0 || s >= cfg.NumPlayers {
			return nil, fmt.Errorf("%w: human seat %d", ErrInvalidPlayer, s)
		}
		human[s] = true
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	id := cfg.ID
	if id == "" {
		id = uuid.New().String()
	}

	roles := make([]Role, len(rules.Roles))
	copy(roles, rules.Roles)
	if !cfg.NoShuffle {
		rng.Shuffle(len(roles), func(i, j int) { roles[i], roles[j] = roles[j], roles[i] })
	}

	players := make([]*Player, cfg.NumPlayers)
	for i := range players {
		p := &Player{Index: i, Role: roles[i], IsHuman: human[i]}
		if p.IsHuman {
			p.DisplayName = fmt.Sprintf("Player %d (You)", i+1)
		} else {
			p.DisplayName = fmt.Sprintf("Player %d (AI)", i+1)
			name, ok := cfg.Profiles[i]
			if !ok || name == "" {
				name = rules.Profiles[rng.Intn(len(rules.Profiles))].Name
			}
			prof, found := rules.Profile(name)
			if !found {
				return nil, fmt.Errorf("seat %d: unknown AI profile %q", i, name)
			}
			p.Profile = &prof
		}
		players[i] = p
	}

	deck := rules.BuildDeck()
	if !cfg.NoShuffle {
		shuffleDeck(deck, rng)
	}

	g := &Game{
		state: &GameState{
			ID:            id,
			Rules:         rules,
			Players:       players,
			Deck:          deck,
			CurrentPlayer: 0,
			Phase:         PhaseTurnStart,
			Step:          StepDraw,
			RoundNumber:   1,
			TurnInRound:   1,
			NextPlayer:    -1,
			LastFinished:  -1,
		},
		rules:    rules,
		rng:      rng,
		logger:   logger,
		onChange: cfg.OnChange,
		maxTurns: cfg.MaxTurns,
	}

	g.emit(log.NewRoundEvent(1))
	g.emit(log.NewTurnEvent(1, 0))
	return g, nil
}

// State returns the live state. Callers must treat it as read-only.
func (g *Game) State() *GameState {
	return g.state
}

// Rules returns the rule set the game was created with.
func (g *Game) Rules() *RuleSet {
	return g.rules
}

// Logger returns the event logger.
func (g *Game) Logger() log.EventLogger {
	return g.logger
}

// Actor returns the seat the game is waiting on, or -1.
func (g *Game) Actor() int {
	return g.state.Actor()
}

// OnChange replaces the render callback.
func (g *Game) OnChange(fn func(*GameState)) {
	g.onChange = fn
}

// Reject records a refusal raised outside the game (for example by a driver
// that could not build a command) and returns err unchanged.
func (g *Game) Reject(player int, command string, err error) error {
	return g.refuse(player, command, err)
}

// Record logs an event raised by a driver of the game, stamped like the
// game's own events.
func (g *Game) Record(event log.GameEvent) {
	g.emit(event)
}

// emit stamps the event with the current counters and forwards it to the
// logger. Logger panics are swallowed.
func (g *Game) emit(event log.GameEvent) {
	event.Turn = g.state.TurnCount
	event.Round = g.state.RoundNumber
	event.Phase = g.state.PhaseLabel()
	defer func() { _ = recover() }()
	g.logger.Log(event)
}

// changed notifies the render callback. Callback panics are swallowed.
func (g *Game) changed() {
	if g.onChange == nil {
		return
	}
	defer func() { _ = recover() }()
	g.onChange(g.state)
}

func (g *Game) refuse(player int, command string, err error) error {
	g.emit(log.NewRefusedEvent(player, command, err))
	return err
}

// setPhase moves the state machine and logs the transition.
func (g *Game) setPhase(phase Phase, step TurnStep) {
	from := g.state.PhaseLabel()
	g.state.Phase = phase
	g.state.Step = step
	g.emit(log.NewPhaseChangeEvent(g.state.CurrentPlayer, from, g.state.PhaseLabel()))
}

// expectTurnStart validates a command of the current player at the given step.
func (g *Game) expectTurnStart(player int, step TurnStep) error {
	gs := g.state
	if gs.Over {
		return ErrGameOver
	}
	if gs.Player(player) == nil {
		return fmt.Errorf("%w: %d", ErrInvalidPlayer, player)
	}
	if gs.Phase != PhaseTurnStart || gs.Step != step {
		return fmt.Errorf("%w: expected turnStart/%s, in %s", ErrWrongPhase, step, gs.PhaseLabel())
	}
	if player != gs.CurrentPlayer {
		return fmt.Errorf("%w: it is player %d's turn", ErrNotYourTurn, gs.CurrentPlayer)
	}
	return nil
}
