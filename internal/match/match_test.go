package match

import (
	"bytes"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/poisontraders/internal/game"
	"github.com/peterkuimelis/poisontraders/internal/log"
)

func newMatch(t *testing.T, cfg Config) (*Match, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	cfg.Game.Logger = logger
	if cfg.Game.NumPlayers == 0 {
		cfg.Game.NumPlayers = 3
	}
	if cfg.Game.Seed == 0 {
		cfg.Game.Seed = 1
	}
	if cfg.Log == nil {
		l, _ := test.NewNullLogger()
		cfg.Log = l
	}
	m, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m, logger
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(Config{Game: game.Config{NumPlayers: 9}})
	assert.Error(t, err)
}

func TestHumanTurnThenBotResponse(t *testing.T) {
	m, logger := newMatch(t, Config{Game: game.Config{HumanSeats: []int{0}, NoShuffle: true}})
	require.NoError(t, m.Start())
	assert.Equal(t, 0, m.Actor())
	assert.Equal(t, []int{0}, m.HumanSeats())

	require.NoError(t, m.Apply(Command{Kind: KindDraw, Seat: 0}))
	assert.ErrorIs(t, m.Apply(Command{Kind: KindKeep, Seat: 0}), game.ErrMustOffer)

	assert.Equal(t, []int{1, 2}, m.LegalTargets(0))
	require.NoError(t, m.Apply(Command{Kind: KindOffer, Seat: 0, CardIdx: 0, Claim: game.Gold, Target: 1}))

	// seat 1 answered on its own and the turn is parked
	m.Read(func(gs *game.GameState) {
		assert.Equal(t, game.PhaseAwaitAdvance, gs.Phase)
		assert.Equal(t, 1, gs.TurnCount)
		require.NoError(t, gs.CheckInvariants())
	})
	assert.Equal(t, -1, m.Actor())
	assert.NotEmpty(t, append(logger.EventsOfType(log.EventTrade), logger.EventsOfType(log.EventChallenge)...))

	require.NoError(t, m.Apply(Command{Kind: KindAdvance}))
	m.Read(func(gs *game.GameState) {
		assert.Equal(t, 1, gs.CurrentPlayer)
		assert.True(t, gs.Over || gs.Phase == game.PhaseAwaitAdvance)
		assert.Equal(t, 2, gs.TurnCount)
	})
}

func TestCommandsForBotSeatsAreRefused(t *testing.T) {
	m, logger := newMatch(t, Config{Game: game.Config{HumanSeats: []int{0}}})
	require.NoError(t, m.Start())

	err := m.Apply(Command{Kind: KindDraw, Seat: 1})
	assert.ErrorIs(t, err, ErrBotSeat)
	assert.Len(t, logger.EventsOfType(log.EventRefused), 1)

	assert.Error(t, m.Apply(Command{Kind: "dance", Seat: 0}))
}

func TestGameEventsGoToLogrusTaggedWithMatch(t *testing.T) {
	l, hook := test.NewNullLogger()
	var transcript bytes.Buffer
	m, err := New(Config{
		Game:     game.Config{ID: "table-7", NumPlayers: 3, HumanSeats: []int{0}, Seed: 1},
		Log:      l,
		EventLog: &transcript,
	})
	require.NoError(t, err)
	t.Cleanup(m.Close)
	assert.Equal(t, "table-7", m.ID())
	require.NoError(t, m.Start())

	assert.ErrorIs(t, m.Apply(Command{Kind: KindDraw, Seat: 1}), ErrBotSeat)

	var refused *logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Data["event"] == log.EventRefused.String() {
			refused = e
		}
	}
	require.NotNil(t, refused, "refusal mirrored into logrus")
	assert.Equal(t, logrus.WarnLevel, refused.Level)
	assert.Equal(t, "table-7", refused.Data["match"])
	assert.Equal(t, 1, refused.Data["player"])
	assert.Equal(t, "draw", refused.Data["command"])

	events := m.Events(0)
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, log.EventRefused, last.Type)
	assert.Contains(t, transcript.String(), last.Details)
}

func TestGeneratedMatchIDTagsEvents(t *testing.T) {
	l, hook := test.NewNullLogger()
	m, err := New(Config{Game: game.Config{NumPlayers: 3, HumanSeats: []int{0}, Seed: 2}, Log: l})
	require.NoError(t, err)
	t.Cleanup(m.Close)
	require.NotEmpty(t, m.ID())

	assert.Error(t, m.Apply(Command{Kind: KindKeep, Seat: 0}))
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, log.EventRefused.String(), entry.Data["event"])
	assert.Equal(t, m.ID(), entry.Data["match"])
}

func TestAllBotMatchWithManualAdvance(t *testing.T) {
	m, _ := newMatch(t, Config{Game: game.Config{NumPlayers: 4, MaxTurns: 200}})
	require.NoError(t, m.Start())

	for i := 0; i < 500; i++ {
		select {
		case <-m.Done():
			m.Read(func(gs *game.GameState) {
				assert.True(t, gs.Over)
				assert.Len(t, gs.FinalResults, 4)
			})
			return
		default:
		}
		require.Equal(t, -1, m.Actor())
		require.NoError(t, m.Apply(Command{Kind: KindAdvance}))
	}
	t.Fatal("match did not finish")
}

func TestAutoAdvance(t *testing.T) {
	m, _ := newMatch(t, Config{
		Game:        game.Config{NumPlayers: 3, MaxTurns: 60},
		AutoAdvance: time.Millisecond,
	})
	require.NoError(t, m.Start())

	select {
	case <-m.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("auto advance did not finish the match")
	}
	m.Read(func(gs *game.GameState) {
		assert.True(t, gs.Over)
		require.NoError(t, gs.CheckInvariants())
	})
}

func TestSubscribers(t *testing.T) {
	m, _ := newMatch(t, Config{Game: game.Config{HumanSeats: []int{0}, NoShuffle: true}})

	var calls, phases int
	cancel := m.Subscribe(func(gs *game.GameState) {
		calls++
		if gs.Phase == game.PhaseTurnStart {
			phases++
		}
	})
	m.Subscribe(func(*game.GameState) { panic("broken subscriber") })

	require.NoError(t, m.Start())
	require.NoError(t, m.Apply(Command{Kind: KindDraw, Seat: 0}))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, phases)

	cancel()
	require.NoError(t, m.Apply(Command{Kind: KindOffer, Seat: 0, CardIdx: 0, Claim: game.Shield, Target: 2}))
	assert.Equal(t, 1, calls)
}

func TestFinishIsLogged(t *testing.T) {
	base, hook := test.NewNullLogger()
	m, _ := newMatch(t, Config{Game: game.Config{NumPlayers: 3, MaxTurns: 3}, Log: base})
	require.NoError(t, m.Start())
	for !isDone(m) {
		require.NoError(t, m.Apply(Command{Kind: KindAdvance}))
	}

	var finished *logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Message == "match finished" {
			finished = e
		}
	}
	require.NotNil(t, finished)
	assert.Equal(t, m.ID(), finished.Data["match"])
	assert.LessOrEqual(t, finished.Data["turns"], 3)
}

func isDone(m *Match) bool {
	select {
	case <-m.Done():
		return true
	default:
		return false
	}
}
