package ai

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/poisontraders/internal/game"
)

var values = RoleValues{Weights: game.ValueWeights{Wanted: 3, Neutral: 1, Poison: -3}}

func player(wants game.ResourceType, types ...game.ResourceType) *game.Player {
	p := &game.Player{Role: game.Role{Name: "Test", Wants: wants}}
	for i, t := range types {
		p.Hand = append(p.Hand, game.Card{ID: string(rune('a' + i)), Type: t})
		p.Revealed = append(p.Revealed, false)
	}
	return p
}

func profile(name string) game.Profile {
	prof, ok := game.DefaultRules().Profile(name)
	if !ok {
		panic("missing profile " + name)
	}
	return prof
}

// newState returns an unshuffled 3-seat game (Noble, Knight, Witch) with the
// named cards moved from the deck into each seat's hand.
func newState(t *testing.T, hands map[int][]string) (*game.Game, *game.GameState) {
	t.Helper()
	g, err := game.NewGame(game.Config{NumPlayers: 3, NoShuffle: true, Seed: 1})
	require.NoError(t, err)
	gs := g.State()
	for seat, ids := range hands {
		for _, id := range ids {
			found := false
			for i, c := range gs.Deck {
				if c.ID == id {
					gs.Deck = append(gs.Deck[:i], gs.Deck[i+1:]...)
					gs.Players[seat].Hand = append(gs.Players[seat].Hand, c)
					gs.Players[seat].Revealed = append(gs.Players[seat].Revealed, false)
					found = true
					break
				}
			}
			require.True(t, found, "card %s", id)
		}
	}
	require.NoError(t, gs.CheckInvariants())
	return g, gs
}

func TestRoleValues(t *testing.T) {
	p := player(game.Gold)
	assert.Equal(t, 3.0, values.ValueOf(p, game.Gold))
	assert.Equal(t, 1.0, values.ValueOf(p, game.Shield))
	assert.Equal(t, -3.0, values.ValueOf(p, game.Poison))
	assert.Equal(t, values, NewRoleValues(game.DefaultRules()))
}

func TestDecideTurnActionTerminalKeeps(t *testing.T) {
	d := DecideTurnAction(player(game.Gold), profile("Balanced"), values)
	assert.Equal(t, ActionKeep, d.Action)
	assert.Equal(t, ReasonNoCards, d.Reason)

	p := player(game.Gold, game.Gold, game.Shield)
	p.Revealed = []bool{true, true}
	d = DecideTurnAction(p, profile("Balanced"), values)
	assert.Equal(t, ActionKeep, d.Action)
	assert.Equal(t, ReasonNoOfferable, d.Reason)
	assert.False(t, d.Overridden)
}

func TestDecideTurnActionProfiles(t *testing.T) {
	tests := []struct {
		name       string
		prof       game.Profile
		hand       []game.ResourceType
		reason     string
		overridden bool
		original   string
		highest    int
		lowest     int
	}{
		{"risky trades junk", profile("Risky"), []game.ResourceType{game.Gold, game.Poison}, ReasonTrade, false, "", 0, 1},
		{"balanced trades junk", profile("Balanced"), []game.ResourceType{game.Poison, game.Shield}, ReasonTrade, false, "", 1, 0},
		{"conservative would keep gold", profile("Conservative"), []game.ResourceType{game.Gold}, ReasonForcedOffer, true, ReasonKeepThreshold, 0, 0},
		{"cautious default threshold", game.Profile{Cautious: true, CautiousThreshold: game.DefaultCautiousThreshold}, []game.ResourceType{game.Gold, game.Gold}, ReasonForcedOffer, true, ReasonCautious, 0, 0},
		{"cautious below threshold", game.Profile{Cautious: true, CautiousThreshold: game.DefaultCautiousThreshold}, []game.ResourceType{game.Gold, game.Shield}, ReasonTrade, false, "", 0, 1},
		{"ties resolve to first", profile("Chaotic"), []game.ResourceType{game.Shield, game.Potion, game.Dagger}, ReasonTrade, false, "", 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := DecideTurnAction(player(game.Gold, tc.hand...), tc.prof, values)
			assert.Equal(t, ActionOffer, d.Action)
			assert.Equal(t, tc.reason, d.Reason)
			assert.Equal(t, tc.overridden, d.Overridden)
			assert.Equal(t, tc.original, d.OriginalReason)
			assert.Equal(t, tc.highest, d.Highest)
			assert.Equal(t, tc.lowest, d.Lowest)
		})
	}
}

func TestDecideTurnActionIgnoresRevealedCards(t *testing.T) {
	p := player(game.Gold, game.Shield, game.Gold)
	p.Revealed = []bool{true, false}
	d := DecideTurnAction(p, profile("Conservative"), values)
	assert.True(t, d.Overridden)
	assert.Equal(t, 1, d.Lowest)
}

// No profile can make a player with a hidden card sit idle.
func TestDecideTurnActionNeverKeepsWithHiddenCards(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	threshold := -10.0
	profiles := append(game.DefaultRules().Profiles,
		game.Profile{Name: "AlwaysKeep", KeepThreshold: &threshold},
		game.Profile{Name: "Paranoid", Cautious: true, CautiousThreshold: -10},
	)
	for i := 0; i < 2000; i++ {
		n := 1 + rng.Intn(6)
		types := make([]game.ResourceType, n)
		for j := range types {
			types[j] = game.AllResourceTypes[rng.Intn(len(game.AllResourceTypes))]
		}
		p := player(game.AllResourceTypes[rng.Intn(4)], types...)
		hidden := rng.Intn(n)
		for j := range p.Revealed {
			p.Revealed[j] = j != hidden && rng.Intn(2) == 0
		}
		for _, prof := range profiles {
			d := DecideTurnAction(p, prof, values)
			require.Equal(t, ActionOffer, d.Action, "profile %s hand %v", prof.Name, types)
		}
	}
}

func TestChooseOfferBluffsPoison(t *testing.T) {
	_, gs := newState(t, map[int][]string{0: {"X0", "G0"}, 1: {"S0"}})
	prof := profile("Balanced")
	prof.BluffChance = 0
	for seed := int64(0); seed < 50; seed++ {
		plan, ok := ChooseOffer(gs, 0, prof, values, rand.New(rand.NewSource(seed)))
		require.True(t, ok)
		assert.Equal(t, 0, plan.CardIdx)
		assert.NotEqual(t, game.Poison, plan.Claim)
		assert.True(t, plan.Claim.Valid())
		assert.Contains(t, []int{1, 2}, plan.Target)
	}
}

func TestChooseOfferTruthfulAndTargeting(t *testing.T) {
	_, gs := newState(t, map[int][]string{0: {"G0", "S0"}, 1: {"P0"}, 2: {"D0", "S1"}})
	prof := game.Profile{SwapChance: 1, BluffChance: 0}

	plan, ok := ChooseOffer(gs, 0, prof, values, rand.New(rand.NewSource(1)))
	require.True(t, ok)
	assert.Equal(t, OfferPlan{CardIdx: 1, Claim: game.Shield, Target: 2}, plan)

	prof.BluffChance = 1
	plan, ok = ChooseOffer(gs, 0, prof, values, rand.New(rand.NewSource(1)))
	require.True(t, ok)
	assert.NotEqual(t, game.Shield, plan.Claim)
	assert.NotEqual(t, game.Poison, plan.Claim)
}

func TestChooseOfferImpossible(t *testing.T) {
	_, gs := newState(t, map[int][]string{0: {"G0"}})
	gs.Players[0].Revealed[0] = true
	_, ok := ChooseOffer(gs, 0, profile("Risky"), values, rand.New(rand.NewSource(1)))
	assert.False(t, ok)

	_, ok = ChooseOffer(gs, 7, profile("Risky"), values, rand.New(rand.NewSource(1)))
	assert.False(t, ok)
}

func TestChooseResponse(t *testing.T) {
	g, gs := newState(t, map[int][]string{0: {"D0", "G0"}, 1: {"D1", "S0"}, 2: {"X0"}})
	gs.Step = game.StepOffer
	require.NoError(t, g.MakeOffer(0, 1, game.Dagger, 1))

	// seat 1 holds the only other Dagger while D0 sits hidden with seat 0,
	// so the claim is possible as far as seat 1 can tell
	assert.False(t, ClaimImpossible(gs, 1, game.Dagger))
	gs.Players[0].Revealed[0] = true
	assert.True(t, ClaimImpossible(gs, 1, game.Dagger))

	resp, err := ChooseResponse(gs, 1, game.Profile{ChallengeChance: 0}, values, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, Response{Challenge: true, Reason: ReasonImpossibleClaim}, resp)
	gs.Players[0].Revealed[0] = false

	resp, err = ChooseResponse(gs, 1, game.Profile{ChallengeChance: 1}, values, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, Response{Challenge: true, Reason: ReasonSuspicious}, resp)

	resp, err = ChooseResponse(gs, 1, game.Profile{ChallengeChance: 0}, values, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, Response{Reason: ReasonGoodFaith}, resp)

	neutral := 1.0
	resp, err = ChooseResponse(gs, 1, game.Profile{TakeThreshold: &neutral, ChallengeChance: 1}, values, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, Response{Reason: ReasonWantClaim}, resp)

	_, err = ChooseResponse(gs, 2, profile("Risky"), values, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, game.ErrNoPendingOffer)
}

func TestChooseReturnCard(t *testing.T) {
	p := player(game.Gold, game.Gold, game.Poison, game.Shield)
	assert.Equal(t, 1, ChooseReturnCard(p, values))
	p.Revealed[1] = true
	assert.Equal(t, 1, ChooseReturnCard(p, values), "revealed cards may be given back too")
	assert.Equal(t, -1, ChooseReturnCard(player(game.Gold), values))
}

func TestChoosePenalty(t *testing.T) {
	p := player(game.Gold, game.Poison, game.Gold, game.Shield)
	choice := &game.ChallengeChoice{Options: []game.ChoiceOption{
		{ID: "expose-0", CardIdx: 0},
		{ID: "expose-1", CardIdx: 1},
		{ID: "expose-3", CardIdx: 3},
	}}
	assert.Equal(t, "expose-3", ChoosePenalty(p, choice, values))

	poisonOnly := &game.ChallengeChoice{Options: []game.ChoiceOption{{ID: "expose-1", CardIdx: 1}}}
	assert.Equal(t, "expose-1", ChoosePenalty(p, poisonOnly, values))

	only := &game.ChallengeChoice{Options: []game.ChoiceOption{{ID: "expose-0", CardIdx: 0}}}
	assert.Equal(t, "expose-0", ChoosePenalty(p, only, values))
}
