package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/peterkuimelis/poisontraders/internal/game"
	"github.com/peterkuimelis/poisontraders/internal/match"
)

// Server message types.
const (
	MsgWelcome = "welcome"
	MsgState   = "state"
	MsgError   = "error"
)

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type   string      `json:"type"`
	Seat   int         `json:"seat"`
	State  *StateView  `json:"state,omitempty"`
	Events []EventView `json:"events,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Command is the envelope for client-to-server messages. The seat is bound
// by the connection, not by the message.
type Command struct {
	Type   string `json:"type"`
	Card   int    `json:"card,omitempty"`
	Claim  string `json:"claim,omitempty"`
	Target int    `json:"target,omitempty"`
	Return *int   `json:"return,omitempty"`
	Option string `json:"option,omitempty"`
}

// DecodeCommand parses a JSON command.
func DecodeCommand(data []byte) (Command, error) {
	var c Command
	if err := json.Unmarshal(data, &c); err != nil {
		return Command{}, fmt.Errorf("decode command: %w", err)
	}
	if c.Type == "" {
		return Command{}, fmt.Errorf("decode command: missing type")
	}
	return c, nil
}

// ToMatch converts the command into a match command for seat.
func (c Command) ToMatch(seat int) (match.Command, error) {
	mc := match.Command{Kind: c.Type, Seat: seat}
	switch c.Type {
	case match.KindDraw, match.KindChallenge, match.KindKeep, match.KindAdvance:
	case match.KindOffer:
		claim, err := game.ParseResourceType(c.Claim)
		if err != nil {
			return match.Command{}, fmt.Errorf("%w: %v", game.ErrInvalidClaim, err)
		}
		mc.CardIdx, mc.Claim, mc.Target = c.Card, claim, c.Target
	case match.KindAccept:
		mc.ReturnIdx = c.Return
	case match.KindChoose:
		mc.Option = c.Option
	default:
		return match.Command{}, fmt.Errorf("unknown command %q", c.Type)
	}
	return mc, nil
}

// Apply runs the command on m for seat.
func (c Command) Apply(m *match.Match, seat int) error {
	mc, err := c.ToMatch(seat)
	if err != nil {
		return err
	}
	return m.Apply(mc)
}

// StateMessage builds the state push for seat.
func StateMessage(m *match.Match, seat int) ServerMessage {
	msg := ServerMessage{Type: MsgState, Seat: seat}
	m.Read(func(gs *game.GameState) {
		msg.State = BuildStateView(gs, seat)
	})
	return msg
}

// ErrorMessage builds an error reply.
func ErrorMessage(seat int, err error) ServerMessage {
	return ServerMessage{Type: MsgError, Seat: seat, Error: err.Error()}
}
