package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/poisontraders/internal/game"
	"github.com/peterkuimelis/poisontraders/internal/protocol"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	l, _ := test.NewNullLogger()
	srv := httptest.NewServer(NewServer(Config{Log: l}).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) (*websocket.Conn, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.CloseNow() })
	return conn, ctx
}

// readUntil reads server messages until ok accepts one.
func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, ok func(protocol.ServerMessage) bool) protocol.ServerMessage {
	t.Helper()
	for {
		var msg protocol.ServerMessage
		require.NoError(t, wsjson.Read(ctx, conn, &msg))
		if ok(msg) {
			return msg
		}
	}
}

func TestIndexAndStatic(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "Poison Traders")

	resp, err = http.Get(srv.URL + "/static/style.css")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRulesEndpoint(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/rules")
	require.NoError(t, err)
	defer resp.Body.Close()

	var info RulesInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	rules := game.DefaultRules()
	assert.Equal(t, rules.MinPlayers, info.MinPlayers)
	assert.Equal(t, rules.MaxPlayers(), info.MaxPlayers)
	assert.Len(t, info.Roles, len(rules.Roles))
	assert.Equal(t, rules.ProfileNames()[0], info.Profiles[0].Name)

	total := 0
	for _, d := range info.Deck {
		total += d.Count
	}
	assert.Equal(t, rules.DeckSize(), total)
}

func TestWebSocketGame(t *testing.T) {
	srv := newTestServer(t)
	conn, ctx := dial(t, srv)

	require.NoError(t, wsjson.Write(ctx, conn, JoinRequest{Type: MsgJoin, Players: 3, Seat: 0, Seed: 9}))
	welcome := readUntil(t, ctx, conn, func(protocol.ServerMessage) bool { return true })
	assert.Equal(t, protocol.MsgWelcome, welcome.Type)
	require.NotNil(t, welcome.State)
	assert.True(t, welcome.State.IsYourMove)
	assert.NotEmpty(t, welcome.Events)
	assert.NotEmpty(t, welcome.State.Players[0].Role)
	assert.Empty(t, welcome.State.Players[1].Role)

	// refused commands answer with an error message
	require.NoError(t, wsjson.Write(ctx, conn, protocol.Command{Type: "keep"}))
	errMsg := readUntil(t, ctx, conn, func(m protocol.ServerMessage) bool { return m.Type == protocol.MsgError })
	assert.NotEmpty(t, errMsg.Error)

	require.NoError(t, wsjson.Write(ctx, conn, protocol.Command{Type: "draw"}))
	drawn := readUntil(t, ctx, conn, func(m protocol.ServerMessage) bool {
		return m.Type == protocol.MsgState && m.State.Step == game.StepOffer.String()
	})
	require.Len(t, drawn.State.Players[0].Hand, 1)
	assert.NotEmpty(t, drawn.State.Players[0].Hand[0].Type)

	require.NoError(t, wsjson.Write(ctx, conn, protocol.Command{Type: "offer", Card: 0, Claim: "Shield", Target: 2}))
	// the AI at seat 2 answers; the turn then waits on us to advance, or on
	// a penalty choice if the challenge went our way
	after := readUntil(t, ctx, conn, func(m protocol.ServerMessage) bool {
		if m.State == nil {
			return false
		}
		switch m.State.Phase {
		case game.PhaseAwaitAdvance.String(), game.PhaseAwaitChallengeChoice.String(), game.PhaseGameOver.String():
			return true
		}
		return false
	})
	assert.Equal(t, protocol.MsgState, after.Type)
	assert.Equal(t, 2, after.State.Players[2].Seat)
}

func TestWebSocketBadJoin(t *testing.T) {
	srv := newTestServer(t)

	conn, ctx := dial(t, srv)
	require.NoError(t, wsjson.Write(ctx, conn, JoinRequest{Type: MsgJoin, Players: 3, Seat: 5}))
	var msg protocol.ServerMessage
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, protocol.MsgError, msg.Type)
	assert.Contains(t, msg.Error, "seat 5")

	conn, ctx = dial(t, srv)
	require.NoError(t, wsjson.Write(ctx, conn, map[string]string{"type": "hello"}))
	err := wsjson.Read(ctx, conn, &msg)
	require.Error(t, err)
	assert.Equal(t, websocket.StatusPolicyViolation, websocket.CloseStatus(err))
}
