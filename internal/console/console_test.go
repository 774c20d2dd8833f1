package console

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/poisontraders/internal/game"
	"github.com/peterkuimelis/poisontraders/internal/match"
	"github.com/peterkuimelis/poisontraders/internal/protocol"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	text.DisableColors()
	os.Exit(m.Run())
}

func newMatch(t *testing.T, humans []int, maxTurns int) *match.Match {
	t.Helper()
	l, _ := test.NewNullLogger()
	m, err := match.New(match.Config{
		Game: game.Config{NumPlayers: 3, NoShuffle: true, Seed: 4, HumanSeats: humans, MaxTurns: maxTurns},
		Log:  l,
	})
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m
}

func TestConsoleHumanTurn(t *testing.T) {
	m := newMatch(t, []int{0}, 0)
	in := strings.NewReader("help\ndraw\nkeep\noffer one gold 2\noffer 1 gold 2\nquit\n")
	var out bytes.Buffer

	err := Run(context.Background(), m, in, &out)
	assert.ErrorIs(t, err, ErrQuit)

	s := out.String()
	assert.Contains(t, s, "Commands")
	assert.Contains(t, s, "Your role: Noble")
	assert.Contains(t, s, "must be offered")
	assert.Contains(t, s, "card and player must be numbers")
	assert.Contains(t, s, "offers a card to Player 2")
	assert.Contains(t, s, "1:Poison")

	m.Read(func(gs *game.GameState) {
		assert.Equal(t, 1, gs.TurnCount)
	})
}

func TestConsoleWatchesBotsToTheEnd(t *testing.T) {
	m := newMatch(t, nil, 20)
	in := strings.NewReader(strings.Repeat("\n", 100))
	var out bytes.Buffer

	require.NoError(t, Run(context.Background(), m, in, &out))
	s := out.String()
	assert.Contains(t, s, "GAME OVER")
	assert.Contains(t, s, "Press enter to continue")
	assert.Regexp(t, `WIN`, s)
}

func TestConsoleInputClosed(t *testing.T) {
	m := newMatch(t, []int{0}, 0)
	var out bytes.Buffer
	err := Run(context.Background(), m, strings.NewReader(""), &out)
	assert.ErrorIs(t, err, ErrQuit)
	assert.Contains(t, out.String(), "draw a card")
}

func TestFormatHand(t *testing.T) {
	assert.Equal(t, "-", formatHand(nil))
	assert.Equal(t, "1:Gold 2:[Shield] 3:?", formatHand([]protocol.CardView{
		{Index: 0, Type: "Gold"},
		{Index: 1, Type: "Shield", Revealed: true},
		{Index: 2},
	}))
}
