// Package spell defines spell templates and the registry that loads them.
package spell

import (
	"fmt"
)

// Resource names the stat a spell changes.
type Resource string

const (
	ResourceHP   Resource = "HP"
	ResourceMana Resource = "Mana"
	ResourceXP   Resource = "XP"
)

// Target names who a spell is cast on.
type Target string

const (
	TargetPlayer  Target = "player"
	TargetMonster Target = "monster"
)

// SpecialFreeze skips the monster's counter-attacks for a number of rounds.
const SpecialFreeze = "freeze"

// Scaling controls how a special's duration grows with spell level.
type Scaling string

const (
	// ScalingFixed always uses Special.Rounds.
	ScalingFixed Scaling = "fixed"
	// ScalingLevel uses the owned spell level as the duration.
	ScalingLevel Scaling = "level"
)

// Special is an optional non-numeric effect.
type Special struct {
	Type    string  `yaml:"type"`
	Scaling Scaling `yaml:"scaling"`
	Rounds  int     `yaml:"rounds"`
}

// Spell is an immutable spell template.
type Spell struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Power       int      `yaml:"power"`
	Affects     Resource `yaml:"affects"`
	Target      Target   `yaml:"target"`
	ManaCost    int      `yaml:"mana_cost"`
	// CombatOnly spells are never offered by spell practice.
	CombatOnly bool     `yaml:"combat_only"`
	Special    *Special `yaml:"special"`
}

// Validate checks template invariants.
func (s *Spell) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("spell: name must not be empty")
	}
	switch s.Affects {
	case ResourceHP, ResourceMana, ResourceXP:
	default:
		return fmt.Errorf("spell %q: unknown affects %q", s.Name, s.Affects)
	}
	switch s.Target {
	case TargetPlayer, TargetMonster:
	default:
		return fmt.Errorf("spell %q: unknown target %q", s.Name, s.Target)
	}
	if s.ManaCost < 0 {
		return fmt.Errorf("spell %q: mana_cost must be >= 0", s.Name)
	}
	if s.Special != nil {
		if s.Special.Type != SpecialFreeze {
			return fmt.Errorf("spell %q: unknown special %q", s.Name, s.Special.Type)
		}
		switch s.Special.Scaling {
		case ScalingFixed:
			if s.Special.Rounds < 1 {
				return fmt.Errorf("spell %q: fixed special needs rounds >= 1", s.Name)
			}
		case ScalingLevel:
		default:
			return fmt.Errorf("spell %q: unknown scaling %q", s.Name, s.Special.Scaling)
		}
	}
	return nil
}

// EffectivePower returns the signed power of the spell cast at level.
// Each level past the first adds a quarter of the base power, truncated.
//
// Precondition: level >= 1; lower values are treated as 1.
func (s *Spell) EffectivePower(level int) int {
	if level < 1 {
		level = 1
	}
	return s.Power * (3 + level) / 4
}

// FreezeRounds returns how many counter-attacks the spell suppresses at level.
func (s *Spell) FreezeRounds(level int) int {
	if s.Special == nil || s.Special.Type != SpecialFreeze {
		return 0
	}
	if s.Special.Scaling == ScalingLevel {
		if level < 1 {
			return 1
		}
		return level
	}
	return s.Special.Rounds
}
