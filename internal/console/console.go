// Package console is the terminal front end for local play.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/peterkuimelis/poisontraders/internal/game"
	"github.com/peterkuimelis/poisontraders/internal/match"
	"github.com/peterkuimelis/poisontraders/internal/protocol"
)

// ErrQuit is returned by Run when the user leaves before the game ends.
var ErrQuit = errors.New("player quit")

// C is the console palette.
var C = struct {
	Good, Bad, Info, Warn, Header, Prompt *color.Color
}{
	Good:   color.New(color.FgGreen),
	Bad:    color.New(color.FgRed),
	Info:   color.New(color.FgCyan),
	Warn:   color.New(color.FgHiYellow),
	Header: color.New(color.FgWhite, color.Bold),
	Prompt: color.New(color.FgHiWhite),
}

// Console reads commands for the human seats of a match and prints the
// board and the event log.
type Console struct {
	m       *match.Match
	out     io.Writer
	lastSeq int
	viewer  int
}

// Run plays the match from the terminal until it ends, the input closes, the
// user quits or ctx is cancelled.
func Run(ctx context.Context, m *match.Match, in io.Reader, out io.Writer) error {
	c := &Console{m: m, out: out, viewer: protocol.Spectator}
	if seats := m.HumanSeats(); len(seats) > 0 {
		c.viewer = seats[0]
	}

	if err := m.Start(); err != nil {
		return err
	}

	stop := make(chan struct{})
	defer close(stop)
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-stop:
				return
			}
		}
	}()

	for {
		c.printEvents()
		if c.over() {
			c.renderResults()
			return nil
		}
		c.renderTurn()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.Done():
			continue
		case line, ok := <-lines:
			if !ok {
				return ErrQuit
			}
			if quit := c.handle(strings.TrimSpace(line)); quit {
				return ErrQuit
			}
		}
	}
}

func (c *Console) over() bool {
	select {
	case <-c.m.Done():
		return true
	default:
		return false
	}
}

// handle runs one input line. It reports whether the user asked to quit.
func (c *Console) handle(line string) bool {
	fields := strings.Fields(strings.ToLower(line))
	actor := c.m.Actor()

	if len(fields) == 0 {
		if actor < 0 {
			c.apply(protocol.Command{Type: match.KindAdvance}, actor)
		}
		return false
	}

	var cmd protocol.Command
	switch fields[0] {
	case "quit", "q", "exit":
		return true
	case "help", "h", "?":
		c.renderHelp()
		return false
	case "board", "b":
		c.renderBoard()
		return false
	case "draw", "d":
		cmd.Type = match.KindDraw
	case "keep", "pass":
		cmd.Type = match.KindKeep
	case "challenge", "c":
		cmd.Type = match.KindChallenge
	case "next", "n", "advance":
		cmd.Type = match.KindAdvance
	case "offer", "o":
		if len(fields) != 4 {
			C.Warn.Fprintln(c.out, "usage: offer <card> <claim> <player>")
			return false
		}
		card, err1 := strconv.Atoi(fields[1])
		target, err2 := strconv.Atoi(fields[3])
		if err1 != nil || err2 != nil {
			C.Warn.Fprintln(c.out, "card and player must be numbers")
			return false
		}
		cmd = protocol.Command{Type: match.KindOffer, Card: card - 1, Claim: fields[2], Target: target - 1}
	case "accept", "a":
		cmd.Type = match.KindAccept
		if len(fields) > 1 {
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				C.Warn.Fprintln(c.out, "usage: accept [card]")
				return false
			}
			idx := n - 1
			cmd.Return = &idx
		}
	case "expose", "e", "choose":
		if len(fields) != 2 {
			C.Warn.Fprintln(c.out, "usage: expose <card>")
			return false
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			cmd = protocol.Command{Type: match.KindChoose, Option: fields[1]}
		} else {
			cmd = protocol.Command{Type: match.KindChoose, Option: fmt.Sprintf("expose-%d", n-1)}
		}
	default:
		C.Warn.Fprintf(c.out, "unknown command %q, type 'help'\n", fields[0])
		return false
	}

	c.apply(cmd, actor)
	return false
}

func (c *Console) apply(cmd protocol.Command, actor int) {
	seat := actor
	if seat < 0 {
		seat = c.viewer
	}
	if err := cmd.Apply(c.m, seat); err != nil {
		C.Bad.Fprintf(c.out, "! %v\n", err)
		return
	}
	if seat >= 0 && c.isHuman(seat) {
		c.viewer = seat
	}
}

func (c *Console) isHuman(seat int) bool {
	for _, s := range c.m.HumanSeats() {
		if s == seat {
			return true
		}
	}
	return false
}

func (c *Console) printEvents() {
	for _, e := range c.m.Events(c.lastSeq) {
		c.lastSeq = e.Seq
		ev := protocol.BuildEventView(e)
		switch ev.Type {
		case "PhaseChange", "Refused":
			continue
		case "Knockout", "BluffCaught":
			C.Bad.Fprintf(c.out, "  %s\n", ev.Details)
		case "ClaimTrue", "Trade":
			C.Good.Fprintf(c.out, "  %s\n", ev.Details)
		case "NewRound", "GameOver":
			C.Header.Fprintf(c.out, "%s\n", ev.Details)
		default:
			fmt.Fprintf(c.out, "  %s\n", ev.Details)
		}
	}
}

// renderTurn prints what the game is waiting for.
func (c *Console) renderTurn() {
	var sv *protocol.StateView
	actor := c.m.Actor()
	viewer := c.viewer
	if actor >= 0 && c.isHuman(actor) {
		viewer = actor
	}
	c.m.Read(func(gs *game.GameState) {
		sv = protocol.BuildStateView(gs, viewer)
	})

	if actor < 0 {
		if sv.NextPlayer >= 0 {
			C.Info.Fprintf(c.out, "Turn complete. Next up: %s. Press enter to continue.\n", sv.Players[sv.NextPlayer].Name)
		}
		C.Prompt.Fprint(c.out, "> ")
		return
	}

	c.writeBoard(sv)
	me := sv.Players[actor]
	switch sv.Phase {
	case game.PhaseTurnStart.String():
		if sv.Step == game.StepDraw.String() {
			C.Info.Fprintf(c.out, "%s: draw a card (draw)\n", me.Name)
		} else {
			C.Info.Fprintf(c.out, "%s: offer <card> <claim> <player>, or keep when nothing is hidden\n", me.Name)
		}
	case game.PhaseAwaitResponse.String():
		o := sv.Offer
		C.Info.Fprintf(c.out, "%s offers you a card claiming it is %s: accept [card] or challenge\n", sv.Players[o.From].Name, o.Claim)
	case game.PhaseAwaitChallengeChoice.String():
		C.Warn.Fprintln(c.out, sv.Choice.Text)
		for _, opt := range sv.Choice.Options {
			line := fmt.Sprintf("  expose %d  %s", opt.CardIdx+1, opt.Label)
			if opt.Danger {
				C.Bad.Fprintln(c.out, line)
			} else {
				fmt.Fprintln(c.out, line)
			}
		}
	}
	C.Prompt.Fprint(c.out, "> ")
}

func (c *Console) renderBoard() {
	var sv *protocol.StateView
	c.m.Read(func(gs *game.GameState) {
		sv = protocol.BuildStateView(gs, c.viewer)
	})
	c.writeBoard(sv)
}
