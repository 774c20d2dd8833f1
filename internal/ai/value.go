// Package ai drives non-human seats. It only produces commands; every rule is
// enforced by the game itself.
package ai

import "github.com/peterkuimelis/poisontraders/internal/game"

// ValueModel scores how desirable a resource type is to a player.
// Implementations must be pure.
type ValueModel interface {
	ValueOf(p *game.Player, t game.ResourceType) float64
}

// RoleValues is the configuration-driven model: the role's wanted type is
// worth Wanted, Poison is worth Poison, everything else is Neutral.
type RoleValues struct {
	Weights game.ValueWeights
}

// NewRoleValues builds the value model from a rule set.
func NewRoleValues(rules *game.RuleSet) RoleValues {
	return RoleValues{Weights: rules.Values}
}

func (v RoleValues) ValueOf(p *game.Player, t game.ResourceType) float64 {
	switch {
	case t == game.Poison:
		return v.Weights.Poison
	case t == p.Wants():
		return v.Weights.Wanted
	default:
		return v.Weights.Neutral
	}
}

// extremes returns the indices of the most and least valuable cards among
// idx, ties resolved by first occurrence. Both are -1 when idx is empty.
func extremes(p *game.Player, idx []int, values ValueModel) (highest, lowest int) {
	highest, lowest = -1, -1
	var hi, lo float64
	for _, i := range idx {
		v := values.ValueOf(p, p.Hand[i].Type)
		if highest < 0 || v > hi {
			highest, hi = i, v
		}
		if lowest < 0 || v < lo {
			lowest, lo = i, v
		}
	}
	return highest, lowest
}
