package sim

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Tally counts games played and won by one role or profile.
type Tally struct {
	Games int
	Wins  int
}

// WinRate is Wins/Games, 0 when nothing was played.
func (t Tally) WinRate() float64 {
	if t.Games == 0 {
		return 0
	}
	return float64(t.Wins) / float64(t.Games)
}

// Report aggregates a batch.
type Report struct {
	Games         int
	Errors        []error
	TotalTurns    int
	MinTurns      int
	MaxTurns      int
	TurnLimitHits int
	Knockouts     int
	Overrides     int
	Fallbacks     int
	Refusals      int
	Claims        int
	BluffsCaught  int
	Roles         map[string]*Tally
	Profiles      map[string]*Tally
}

// Aggregate folds game results into a report. Failed games only count as
// errors.
func Aggregate(results []GameResult) Report {
	r := Report{
		Roles:    make(map[string]*Tally),
		Profiles: make(map[string]*Tally),
	}
	for _, g := range results {
		if g.Err != nil {
			r.Errors = append(r.Errors, g.Err)
			continue
		}
		if r.Games == 0 || g.Turns < r.MinTurns {
			r.MinTurns = g.Turns
		}
		if g.Turns > r.MaxTurns {
			r.MaxTurns = g.Turns
		}
		r.Games++
		r.TotalTurns += g.Turns
		if g.TurnLimit {
			r.TurnLimitHits++
		}
		r.Knockouts += g.Knockouts
		r.Overrides += g.Overrides
		r.Fallbacks += g.Fallbacks
		r.Refusals += g.Refusals
		for _, s := range g.Seats {
			r.Claims += s.Claims
			r.BluffsCaught += s.Bluffs
			tally(r.Roles, s.Role, s.Won)
			if s.Profile != "" {
				tally(r.Profiles, s.Profile, s.Won)
			}
		}
	}
	return r
}

func tally(m map[string]*Tally, key string, won bool) {
	t, ok := m[key]
	if !ok {
		t = &Tally{}
		m[key] = t
	}
	t.Games++
	if won {
		t.Wins++
	}
}

// AvgTurns is the mean game length in turns.
func (r Report) AvgTurns() float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.TotalTurns) / float64(r.Games)
}

// WriteTable renders the report as tables.
func (r Report) WriteTable(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Simulation")
	t.AppendRows([]table.Row{
		{"Games", r.Games},
		{"Errors", len(r.Errors)},
		{"Turns (min / avg / max)", fmt.Sprintf("%d / %.1f / %d", r.MinTurns, r.AvgTurns(), r.MaxTurns)},
		{"Turn limit reached", r.TurnLimitHits},
		{"Knockouts", r.Knockouts},
		{"Forced offers", r.Overrides},
		{"Offer fallbacks", r.Fallbacks},
		{"Claims / bluffs caught", fmt.Sprintf("%d / %d", r.Claims, r.BluffsCaught)},
	})
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	t.Render()

	writeTallies(w, "Wins by role", "Role", r.Roles)
	writeTallies(w, "Wins by AI profile", "Profile", r.Profiles)
}

func writeTallies(w io.Writer, title, col string, m map[string]*Tally) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.AppendHeader(table.Row{col, "Games", "Wins", "Win rate"})
	for _, k := range keys {
		tl := m[k]
		t.AppendRow(table.Row{k, tl.Games, tl.Wins, fmt.Sprintf("%.1f%%", 100*tl.WinRate())})
	}
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	t.Render()
}
