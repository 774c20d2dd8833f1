// Package match hosts one game for a process: it owns the game and its AI
// seats, serialises external commands and fans render notifications out to
// subscribers.
package match

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/peterkuimelis/poisontraders/internal/ai"
	"github.com/peterkuimelis/poisontraders/internal/game"
	"github.com/peterkuimelis/poisontraders/internal/log"
)

// ErrBotSeat is returned when an external command targets a seat the AI drives.
var ErrBotSeat = errors.New("seat is driven by the AI")

// Command kinds.
const (
	KindDraw      = "draw"
	KindOffer     = "offer"
	KindAccept    = "accept"
	KindChallenge = "challenge"
	KindChoose    = "choose"
	KindKeep      = "keep"
	KindAdvance   = "advance"
)

// Command is one external input. Seat is ignored for advance.
type Command struct {
	Kind      string
	Seat      int
	CardIdx   int
	Claim     game.ResourceType
	Target    int
	ReturnIdx *int
	Option    string
}

// Config configures a match.
type Config struct {
	Game        game.Config
	BotSeed     int64         // seed for the AI seats (0 derives one from the game seed)
	AutoAdvance time.Duration // advance automatically after this delay; 0 waits for an advance command
	Log         logrus.FieldLogger
	EventLog    io.Writer // optional plain-text transcript of every game event
}

// Match owns a game and its bots. All access goes through its mutex.
type Match struct {
	mu          sync.Mutex
	game        *game.Game
	bots        map[int]*ai.Bot
	subs        map[int]func(*game.GameState)
	nextSub     int
	autoAdvance time.Duration
	timer       *time.Timer
	closed      bool
	log         logrus.FieldLogger
	done        chan struct{}
}

// New creates the game. Bots do not move until Start. Unless the game config
// brings its own event logger, game events go to Log tagged with the match id.
func New(cfg Config) (*Match, error) {
	gcfg := cfg.Game
	if gcfg.Seed == 0 {
		gcfg.Seed = time.Now().UnixNano()
	}
	if gcfg.ID == "" {
		gcfg.ID = uuid.NewString()
	}

	l := cfg.Log
	if l == nil {
		l = logrus.StandardLogger()
	}
	if gcfg.Logger == nil {
		var events log.EventLogger = log.NewLogrusLogger(l, logrus.Fields{"match": gcfg.ID})
		if cfg.EventLog != nil {
			events = log.NewMultiLogger(events, log.NewTextLogger(cfg.EventLog))
		}
		gcfg.Logger = events
	}

	g, err := game.NewGame(gcfg)
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	botSeed := cfg.BotSeed
	if botSeed == 0 {
		botSeed = gcfg.Seed
	}

	m := &Match{
		game:        g,
		bots:        ai.BotsFor(g, botSeed),
		subs:        make(map[int]func(*game.GameState)),
		autoAdvance: cfg.AutoAdvance,
		log:         l.WithField("match", gcfg.ID),
		done:        make(chan struct{}),
	}
	if gcfg.OnChange != nil {
		m.Subscribe(gcfg.OnChange)
	}
	g.OnChange(m.notify)
	return m, nil
}

// ID returns the game's identifier.
func (m *Match) ID() string {
	return m.game.State().ID
}

// Done is closed when the game ends.
func (m *Match) Done() <-chan struct{} {
	return m.done
}

// Start lets the AI seats play until a human input or an advance is needed.
func (m *Match) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log.WithField("seats", len(m.game.State().Players)).Info("match started")
	err := m.runBots()
	m.afterCommand()
	return err
}

// Apply runs one external command, then lets the AI seats respond.
func (m *Match) Apply(cmd Command) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.dispatch(cmd); err != nil {
		m.log.WithFields(logrus.Fields{"command": cmd.Kind, "seat": cmd.Seat}).WithError(err).Debug("command refused")
		return err
	}
	err := m.runBots()
	m.afterCommand()
	return err
}

func (m *Match) dispatch(cmd Command) error {
	g := m.game
	if cmd.Kind == KindAdvance {
		m.stopTimer()
		return g.Advance()
	}
	if _, bot := m.bots[cmd.Seat]; bot {
		return g.Reject(cmd.Seat, cmd.Kind, fmt.Errorf("%w: seat %d", ErrBotSeat, cmd.Seat))
	}

	switch cmd.Kind {
	case KindDraw:
		return g.Draw(cmd.Seat)
	case KindOffer:
		return g.MakeOffer(cmd.Seat, cmd.CardIdx, cmd.Claim, cmd.Target)
	case KindAccept:
		return g.Accept(cmd.Seat, cmd.ReturnIdx)
	case KindChallenge:
		return g.Challenge(cmd.Seat)
	case KindChoose:
		return g.ChooseOption(cmd.Seat, cmd.Option)
	case KindKeep:
		return g.Keep(cmd.Seat)
	}
	return fmt.Errorf("unknown command %q", cmd.Kind)
}

// runBots issues AI commands while the game waits on an AI seat. Must be
// called with mu held.
func (m *Match) runBots() error {
	for !m.game.State().Over {
		bot, ok := m.bots[m.game.Actor()]
		if !ok {
			return nil
		}
		acted, err := bot.Act(m.game)
		if err != nil {
			m.log.WithField("seat", bot.Seat).WithError(err).Error("AI command refused")
			return fmt.Errorf("AI seat %d: %w", bot.Seat, err)
		}
		if !acted {
			return nil
		}
	}
	return nil
}

// afterCommand arms the advance timer or closes the match when the game
// ended. Must be called with mu held.
func (m *Match) afterCommand() {
	gs := m.game.State()
	if gs.Over {
		m.finish()
		return
	}
	if gs.Phase == game.PhaseAwaitAdvance && m.autoAdvance > 0 && m.timer == nil && !m.closed {
		m.timer = time.AfterFunc(m.autoAdvance, m.timedAdvance)
	}
}

func (m *Match) timedAdvance() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timer = nil
	if m.closed || m.game.State().Phase != game.PhaseAwaitAdvance {
		return
	}
	if err := m.game.Advance(); err != nil {
		m.log.WithError(err).Warn("automatic advance failed")
		return
	}
	if err := m.runBots(); err != nil {
		m.log.WithError(err).Warn("AI seats stopped")
	}
	m.afterCommand()
}

func (m *Match) stopTimer() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Match) finish() {
	select {
	case <-m.done:
		return
	default:
	}
	gs := m.game.State()
	m.log.WithFields(logrus.Fields{
		"result": gs.Result,
		"turns":  gs.TurnCount,
		"rounds": gs.RoundsPlayed(),
	}).Info("match finished")
	m.stopTimer()
	close(m.done)
}

// Close stops the advance timer. The game state stays readable.
func (m *Match) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.stopTimer()
}

// Subscribe registers a render callback and returns a function removing it.
// Callbacks run under the match lock and must not call back into the match.
func (m *Match) Subscribe(fn func(*game.GameState)) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// notify is the game's render callback. A panicking subscriber does not stop
// the others.
func (m *Match) notify(gs *game.GameState) {
	for id, fn := range m.subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					m.log.WithField("subscriber", id).Warnf("render callback panicked: %v", r)
				}
			}()
			fn(gs)
		}()
	}
}

// Read runs fn with the state under the match lock.
func (m *Match) Read(fn func(*game.GameState)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.game.State())
}

// Events returns the logged events with a sequence number above afterSeq.
func (m *Match) Events(afterSeq int) []log.GameEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []log.GameEvent
	for _, e := range m.game.Logger().Events() {
		if e.Seq > afterSeq {
			out = append(out, e)
		}
	}
	return out
}

// Actor returns the seat the game is waiting on, or -1.
func (m *Match) Actor() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game.Actor()
}

// HumanSeats lists the seats that take external commands.
func (m *Match) HumanSeats() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	var seats []int
	for _, p := range m.game.State().Players {
		if p.IsHuman {
			seats = append(seats, p.Index)
		}
	}
	return seats
}

// ReturnOptions lists the cards seat could give back on accept.
func (m *Match) ReturnOptions(seat int) []game.ReturnOption {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game.TradeReturnOptions(seat)
}

// LegalTargets lists the seats seat may offer to.
func (m *Match) LegalTargets(seat int) []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game.LegalTargets(seat)
}
