package game

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// Profile defaults applied when a field is omitted.
const (
	DefaultSwapChance        = 0.5
	DefaultCautiousThreshold = 2.0
)

// DeckEntry is one line of the deck composition.
type DeckEntry struct {
	Type   ResourceType `yaml:"type"`
	Count  int          `yaml:"count"`
	Prefix string       `yaml:"prefix"` // card ids are Prefix+index, e.g. G0
}

// ValueWeights drive the AI desirability model.
type ValueWeights struct {
	Wanted  float64 `yaml:"wanted"`
	Neutral float64 `yaml:"neutral"`
	Poison  float64 `yaml:"poison"`
}

// Profile is a named AI behaviour configuration.
type Profile struct {
	Name              string   `json:"name"`
	SwapChance        float64  `json:"swapChance"`
	TakeThreshold     *float64 `json:"takeThreshold,omitempty"` // nil: a claim is never good enough on value alone
	KeepThreshold     *float64 `json:"keepThreshold,omitempty"` // nil: disabled
	Cautious          bool     `json:"cautious"`
	CautiousThreshold float64  `json:"cautiousThreshold"`
	BluffChance       float64  `json:"bluffChance"`
	ChallengeChance   float64  `json:"challengeChance"`
}

// DefaultProfile returns a profile with every optional field at its default.
func DefaultProfile(name string) Profile {
	return Profile{
		Name:              name,
		SwapChance:        DefaultSwapChance,
		CautiousThreshold: DefaultCautiousThreshold,
	}
}

func (p *Profile) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Name              string   `yaml:"name"`
		SwapChance        *float64 `yaml:"swap_chance"`
		TakeThreshold     *float64 `yaml:"take_threshold"`
		KeepThreshold     *float64 `yaml:"keep_threshold"`
		Cautious          bool     `yaml:"cautious"`
		CautiousThreshold *float64 `yaml:"cautious_threshold"`
		BluffChance       float64  `yaml:"bluff_chance"`
		ChallengeChance   float64  `yaml:"challenge_chance"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	*p = DefaultProfile(raw.Name)
	if raw.SwapChance != nil {
		p.SwapChance = *raw.SwapChance
	}
	if raw.CautiousThreshold != nil {
		p.CautiousThreshold = *raw.CautiousThreshold
	}
	p.TakeThreshold = raw.TakeThreshold
	p.KeepThreshold = raw.KeepThreshold
	p.Cautious = raw.Cautious
	p.BluffChance = raw.BluffChance
	p.ChallengeChance = raw.ChallengeChance
	return nil
}

// RuleSet is the static configuration of a match. It is read once and never
// mutated while a game is running.
type RuleSet struct {
	MinPlayers  int          `yaml:"min_players"`
	RevealLimit int          `yaml:"reveal_limit"`
	Deck        []DeckEntry  `yaml:"deck"`
	Roles       []Role       `yaml:"roles"`
	Values      ValueWeights `yaml:"values"`
	Profiles    []Profile    `yaml:"profiles"`
}

// DefaultRules returns the embedded rule set.
func DefaultRules() *RuleSet {
	rs, err := ParseRules(defaultRulesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded rules are invalid: %v", err))
	}
	return rs
}

// LoadRules reads a YAML rule file. An empty path yields the embedded defaults.
func LoadRules(path string) (*RuleSet, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRules(data)
}

// ParseRules decodes and validates a YAML rule document.
func ParseRules(data []byte) (*RuleSet, error) {
	rs := RuleSet{
		MinPlayers:  3,
		RevealLimit: 3,
		Values:      ValueWeights{Wanted: 3, Neutral: 1, Poison: -3},
	}
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parse rules YAML: %w", err)
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return &rs, nil
}

// Validate checks the rule set for internal consistency.
func (rs *RuleSet) Validate() error {
	var errs []error

	if rs.MinPlayers < 3 {
		errs = append(errs, fmt.Errorf("min_players must be at least 3, got %d", rs.MinPlayers))
	}
	if rs.RevealLimit < 1 {
		errs = append(errs, fmt.Errorf("reveal_limit must be positive, got %d", rs.RevealLimit))
	}

	if len(rs.Deck) == 0 {
		errs = append(errs, errors.New("deck composition is empty"))
	}
	prefixes := make(map[string]bool)
	types := make(map[ResourceType]bool)
	for _, e := range rs.Deck {
		if !e.Type.Valid() {
			errs = append(errs, fmt.Errorf("deck entry %q has no resource type", e.Prefix))
		}
		if types[e.Type] {
			errs = append(errs, fmt.Errorf("deck lists %s twice", e.Type))
		}
		types[e.Type] = true
		if e.Count < 1 {
			errs = append(errs, fmt.Errorf("deck entry %s: count must be positive", e.Type))
		}
		if e.Prefix == "" || prefixes[e.Prefix] {
			errs = append(errs, fmt.Errorf("deck entry %s: prefix %q must be unique and non-empty", e.Type, e.Prefix))
		}
		prefixes[e.Prefix] = true
	}

	roleNames := make(map[string]bool)
	for _, r := range rs.Roles {
		if r.Name == "" {
			errs = append(errs, errors.New("role with empty name"))
			continue
		}
		if roleNames[r.Name] {
			errs = append(errs, fmt.Errorf("role %s defined twice", r.Name))
		}
		roleNames[r.Name] = true
		if !r.Wants.Valid() || r.Wants == Poison {
			errs = append(errs, fmt.Errorf("role %s: wants must be a non-poison resource", r.Name))
		}
	}
	if len(rs.Roles) < rs.MinPlayers {
		errs = append(errs, fmt.Errorf("need at least %d roles for min_players, have %d", rs.MinPlayers, len(rs.Roles)))
	}

	if len(rs.Profiles) == 0 {
		errs = append(errs, errors.New("at least one AI profile is required"))
	}
	profileNames := make(map[string]bool)
	for _, p := range rs.Profiles {
		if p.Name == "" {
			errs = append(errs, errors.New("profile with empty name"))
			continue
		}
		if profileNames[p.Name] {
			errs = append(errs, fmt.Errorf("profile %s defined twice", p.Name))
		}
		profileNames[p.Name] = true
		for field, v := range map[string]float64{
			"swap_chance":      p.SwapChance,
			"bluff_chance":     p.BluffChance,
			"challenge_chance": p.ChallengeChance,
		} {
			if v < 0 || v > 1 {
				errs = append(errs, fmt.Errorf("profile %s: %s must be within [0,1], got %v", p.Name, field, v))
			}
		}
	}

	return errors.Join(errs...)
}

// MaxPlayers is bounded by the number of distinct roles.
func (rs *RuleSet) MaxPlayers() int {
	return len(rs.Roles)
}

// Profile looks up an AI profile by name.
func (rs *RuleSet) Profile(name string) (Profile, bool) {
	for _, p := range rs.Profiles {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// ProfileNames returns the configured profile names in file order.
func (rs *RuleSet) ProfileNames() []string {
	names := make([]string, len(rs.Profiles))
	for i, p := range rs.Profiles {
		names[i] = p.Name
	}
	return names
}

// Totals returns how many cards of each type exist in the full deck.
func (rs *RuleSet) Totals() map[ResourceType]int {
	totals := make(map[ResourceType]int, len(rs.Deck))
	for _, e := range rs.Deck {
		totals[e.Type] += e.Count
	}
	return totals
}

// DeckSize is the number of cards in the full composition.
func (rs *RuleSet) DeckSize() int {
	n := 0
	for _, e := range rs.Deck {
		n += e.Count
	}
	return n
}

// BuildDeck returns the full composition in a fixed, unshuffled order.
func (rs *RuleSet) BuildDeck() []Card {
	cards := make([]Card, 0, rs.DeckSize())
	for _, e := range rs.Deck {
		for i := 0; i < e.Count; i++ {
			cards = append(cards, Card{ID: fmt.Sprintf("%s%d", e.Prefix, i), Type: e.Type})
		}
	}
	return cards
}
