package console

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/peterkuimelis/poisontraders/internal/game"
	"github.com/peterkuimelis/poisontraders/internal/protocol"
)

// writeBoard prints one row per seat. Hidden cards of other seats show as "?".
func (c *Console) writeBoard(sv *protocol.StateView) {
	t := table.NewWriter()
	t.SetOutputMirror(c.out)
	t.SetTitle(fmt.Sprintf("Round %d, turn %d | deck %d", sv.Round, sv.TurnInRound, sv.DeckCount))
	t.AppendHeader(table.Row{"#", "Player", "Role", "Hand", "Revealed", "Bluffs"})
	for _, p := range sv.Players {
		name := p.Name
		if p.Seat == sv.CurrentPlayer && !sv.GameOver {
			name = "> " + name
		}
		role := p.Role
		if role == "" {
			role = "?"
		}
		hand := formatHand(p.Hand)
		if p.KnockedOut {
			hand = text.FgRed.Sprint("knocked out")
		}
		t.AppendRow(table.Row{p.Seat + 1, name, role, hand, p.RevealedCount, fmt.Sprintf("%d/%d", p.BluffsCaught, p.Claims)})
	}
	t.SetStyle(table.StyleRounded)
	t.Style().Title.Align = text.AlignCenter
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	t.Render()

	for _, p := range sv.Players {
		if p.IsYou && p.Goal != "" {
			C.Info.Fprintf(c.out, "Your role: %s. %s\n", p.Role, p.Goal)
		}
	}
}

// formatHand renders "1:Gold 2:[Shield] 3:?" where brackets mark revealed
// cards.
func formatHand(hand []protocol.CardView) string {
	if len(hand) == 0 {
		return "-"
	}
	parts := make([]string, len(hand))
	for i, cv := range hand {
		name := cv.Type
		if name == "" {
			name = "?"
		}
		if cv.Revealed {
			name = "[" + name + "]"
		}
		if cv.Type == game.Poison.String() {
			name = text.FgRed.Sprint(name)
		}
		parts[i] = fmt.Sprintf("%d:%s", cv.Index+1, name)
	}
	return strings.Join(parts, " ")
}

func (c *Console) renderResults() {
	var sv *protocol.StateView
	c.m.Read(func(gs *game.GameState) {
		sv = protocol.BuildStateView(gs, protocol.Spectator)
	})

	C.Header.Fprintln(c.out, "\nGAME OVER")
	fmt.Fprintln(c.out, sv.Result)

	t := table.NewWriter()
	t.SetOutputMirror(c.out)
	t.AppendHeader(table.Row{"Player", "Role", "Score", "Result", "Hand"})
	for _, r := range sv.Results {
		result := text.FgRed.Sprint(r.Result)
		if r.Result == game.ResultWin {
			result = text.FgGreen.Sprint(r.Result)
		}
		name := r.Name
		if r.KnockedOut {
			name += " (out)"
		}
		t.AppendRow(table.Row{name, r.Role, r.Score, result, strings.Join(r.Hand, ", ")})
	}
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 3, Align: text.AlignRight}})
	t.Render()
}

func (c *Console) renderHelp() {
	C.Header.Fprintln(c.out, "Commands")
	t := table.NewWriter()
	t.SetOutputMirror(c.out)
	t.AppendHeader(table.Row{"Command", "Alias", "Description"})
	t.AppendRows([]table.Row{
		{"draw", "d", "Draw the top card of the deck."},
		{"offer <card> <claim> <player>", "o", "Offer a hidden card, declaring its type (truthfully or not)."},
		{"accept [card]", "a", "Take the offered card, giving back the chosen card."},
		{"challenge", "c", "Reveal the offered card to test the claim."},
		{"expose <card>", "e", "Pick the card to expose as a penalty."},
		{"keep", "pass", "End the turn when you hold no hidden card."},
		{"next", "enter", "Advance to the next turn."},
		{"board", "b", "Show the table."},
		{"quit", "q", "Leave the game."},
	})
	t.SetStyle(table.StyleLight)
	t.Render()
}
