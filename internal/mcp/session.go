package mcp

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/peterkuimelis/poisontraders/internal/game"
	"github.com/peterkuimelis/poisontraders/internal/match"
	"github.com/peterkuimelis/poisontraders/internal/protocol"
)

// ToolResponse is the JSON envelope returned by all game tools.
type ToolResponse struct {
	Events   []protocol.EventView `json:"events"`
	State    *protocol.StateView  `json:"state,omitempty"`
	Hint     string               `json:"hint,omitempty"`
	Error    string               `json:"error,omitempty"`
	GameOver bool                 `json:"game_over"`
	Result   string               `json:"result,omitempty"`
}

// GameSession is the single game driven through the tools. The agent plays
// one seat; the others are AI.
type GameSession struct {
	match *match.Match
	seat  int

	mu      sync.Mutex
	lastSeq int
}

// NewGameSession creates and starts a match with the agent at seat.
func NewGameSession(cfg match.Config, seat int) (*GameSession, error) {
	cfg.Game.HumanSeats = []int{seat}
	m, err := match.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := m.Start(); err != nil {
		m.Close()
		return nil, fmt.Errorf("start match: %w", err)
	}
	return &GameSession{match: m, seat: seat}, nil
}

// apply runs one command for the agent's seat and reports the outcome.
// A refused command still returns the current state.
func (s *GameSession) apply(cmd protocol.Command) *ToolResponse {
	err := cmd.Apply(s.match, s.seat)
	resp := s.response()
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

// response drains new events and builds the agent's view.
func (s *GameSession) response() *ToolResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.match.Events(s.lastSeq)
	if n := len(events); n > 0 {
		s.lastSeq = events[n-1].Seq
	}
	resp := &ToolResponse{Events: protocol.BuildEventViews(events, 0)}
	s.match.Read(func(gs *game.GameState) {
		resp.State = protocol.BuildStateView(gs, s.seat)
		resp.GameOver = gs.Over
		resp.Result = gs.Result
	})
	resp.Hint = hint(resp.State)
	return resp
}

// hint names the tool the agent should call next.
func hint(sv *protocol.StateView) string {
	switch {
	case sv.GameOver:
		return "The game is over."
	case sv.Actor < 0:
		return "Turn complete. Call advance to continue."
	case !sv.IsYourMove:
		return fmt.Sprintf("Waiting for player %d.", sv.Actor+1)
	}
	switch sv.Phase {
	case game.PhaseTurnStart.String():
		if sv.Step == game.StepDraw.String() {
			return "Your turn: call draw."
		}
		return "Offer a hidden card with make_offer, or keep if none is hidden."
	case game.PhaseAwaitResponse.String():
		return fmt.Sprintf("Player %d offers you a card claimed to be %s: accept or challenge.", sv.Offer.From+1, sv.Offer.Claim)
	case game.PhaseAwaitChallengeChoice.String():
		return "Pick the card to expose with choose_option."
	}
	return ""
}

// close stops the session's match.
func (s *GameSession) close() {
	s.match.Close()
}

func (s *GameSession) logFields() logrus.Fields {
	return logrus.Fields{"match": s.match.ID(), "seat": s.seat}
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
