package game

import (
	"fmt"
	"strings"
)

// --- Enums ---

type ResourceType int

const (
	ResourceNone ResourceType = iota
	Gold
	Shield
	Potion
	Dagger
	Poison
)

// AllResourceTypes lists every claimable type in display order.
var AllResourceTypes = []ResourceType{Gold, Shield, Potion, Dagger, Poison}

func (r ResourceType) String() string {
	switch r {
	case Gold:
		return "Gold"
	case Shield:
		return "Shield"
	case Potion:
		return "Potion"
	case Dagger:
		return "Dagger"
	case Poison:
		return "Poison"
	default:
		return "None"
	}
}

// Valid reports whether r is one of the five resource types.
func (r ResourceType) Valid() bool {
	return r >= Gold && r <= Poison
}

// ParseResourceType accepts a type name in any letter case.
func ParseResourceType(s string) (ResourceType, error) {
	for _, r := range AllResourceTypes {
		if strings.EqualFold(strings.TrimSpace(s), r.String()) {
			return r, nil
		}
	}
	return ResourceNone, fmt.Errorf("unknown resource type %q", s)
}

func (r ResourceType) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *ResourceType) UnmarshalText(b []byte) error {
	v, err := ParseResourceType(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

type Phase int

const (
	PhaseTurnStart Phase = iota
	PhaseAwaitResponse
	PhaseAwaitChallengeChoice
	PhaseAwaitAdvance
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseTurnStart:
		return "turnStart"
	case PhaseAwaitResponse:
		return "awaitResponse"
	case PhaseAwaitChallengeChoice:
		return "awaitChallengeChoice"
	case PhaseAwaitAdvance:
		return "awaitAdvance"
	case PhaseGameOver:
		return "gameOver"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// TurnStep is only meaningful while Phase is PhaseTurnStart.
type TurnStep int

const (
	StepDraw TurnStep = iota
	StepOffer
)

func (s TurnStep) String() string {
	switch s {
	case StepDraw:
		return "draw"
	case StepOffer:
		return "offer"
	default:
		return ""
	}
}

func (s TurnStep) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// EndReason records which stop condition ended a game.
type EndReason int

const (
	EndNone EndReason = iota
	EndLastSurvivor
	EndRevealLimit
	EndTurnLimit
)

func (e EndReason) String() string {
	switch e {
	case EndLastSurvivor:
		return "lastSurvivor"
	case EndRevealLimit:
		return "revealLimit"
	case EndTurnLimit:
		return "turnLimit"
	default:
		return "none"
	}
}

type ScoringKind int

const (
	ScoringSimple ScoringKind = iota
	ScoringAssassin
)

func (k ScoringKind) String() string {
	switch k {
	case ScoringAssassin:
		return "assassin"
	default:
		return "simple"
	}
}

func (k ScoringKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ScoringKind) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "", "simple":
		*k = ScoringSimple
	case "assassin":
		*k = ScoringAssassin
	default:
		return fmt.Errorf("unknown scoring kind %q", string(b))
	}
	return nil
}

// Outcome strings used in final results.
const (
	ResultWin  = "WIN"
	ResultLose = "LOSE"
)

// --- Card ---

// Card is an immutable resource card. Only its owner changes during a match.
type Card struct {
	ID   string       `json:"id"`
	Type ResourceType `json:"type"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s(%s)", c.Type, c.ID)
}

// Role is a secret win condition.
type Role struct {
	Name    string       `yaml:"name" json:"name"`
	Wants   ResourceType `yaml:"wants" json:"wants"`
	Scoring ScoringKind  `yaml:"scoring" json:"scoring"`
	Goal    string       `yaml:"goal" json:"goal"`
}
