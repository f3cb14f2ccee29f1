// Package rules holds the tunable constants of the simulation. Every component
// reads its numbers from a Rules value so a whole game can be rebalanced from
// configuration without touching code.
package rules

import (
	"errors"
	"fmt"
	"strings"
)

// Rules is the full set of balance constants.
type Rules struct {
	// FightInterval forces a monster encounter every N turns.
	FightInterval int `mapstructure:"fight_interval"`
	// BossInterval forces a boss encounter every N turns; takes priority over FightInterval.
	BossInterval int `mapstructure:"boss_interval"`
	// MonsterChance is the percentage gate for a random monster encounter.
	MonsterChance int `mapstructure:"monster_chance"`
	// SpellChance is the percentage gate for spell practice, stacked on MonsterChance.
	SpellChance int `mapstructure:"spell_chance"`

	// MaxCombatRounds caps a single encounter.
	MaxCombatRounds int `mapstructure:"max_combat_rounds"`
	// FistDamage is dealt by the fallback punch.
	FistDamage int `mapstructure:"fist_damage"`
	// CounterAttackMaxMultiplier is the upper bound of the monster damage multiplier.
	CounterAttackMaxMultiplier int `mapstructure:"counter_attack_max_multiplier"`
	// XPPerDifficulty is the XP a regular monster grants per difficulty level.
	XPPerDifficulty int `mapstructure:"xp_per_difficulty"`
	// BossXPMultiplier scales the XP reward for boss monsters.
	BossXPMultiplier int `mapstructure:"boss_xp_multiplier"`

	StartingHealth  int `mapstructure:"starting_health"`
	StartingMana    int `mapstructure:"starting_mana"`
	StartingMaxMana int `mapstructure:"starting_max_mana"`
	// XPBase is the XP needed to leave level 1.
	XPBase int `mapstructure:"xp_base"`
	// XPGrowth is the geometric factor applied to XPBase per level.
	XPGrowth float64 `mapstructure:"xp_growth"`
	// HealthPerLevel is added to max health on each level-up.
	HealthPerLevel int `mapstructure:"health_per_level"`
	// ManaPerLevel is added to max mana on each level-up.
	ManaPerLevel int `mapstructure:"mana_per_level"`
	// ManaRegenBonus is added to every mana gain while a mana-regen item is owned.
	ManaRegenBonus int `mapstructure:"mana_regen_bonus"`
}

// Default returns the reference balance.
func Default() Rules {
	return Rules{
		FightInterval:              10,
		BossInterval:               30,
		MonsterChance:              12,
		SpellChance:                10,
		MaxCombatRounds:            100,
		FistDamage:                 10,
		CounterAttackMaxMultiplier: 5,
		XPPerDifficulty:            10,
		BossXPMultiplier:           3,
		StartingHealth:             100,
		StartingMana:               0,
		StartingMaxMana:            10,
		XPBase:                     10,
		XPGrowth:                   3,
		HealthPerLevel:             10,
		ManaPerLevel:               2,
		ManaRegenBonus:             2,
	}
}

// Validate checks every constant and reports all violations at once.
//
// Postcondition: Returns nil iff all constants are usable by the engine.
func (r Rules) Validate() error {
	var errs []string
	positive := []struct {
		name string
		val  int
	}{
		{"fight_interval", r.FightInterval},
		{"boss_interval", r.BossInterval},
		{"max_combat_rounds", r.MaxCombatRounds},
		{"counter_attack_max_multiplier", r.CounterAttackMaxMultiplier},
		{"starting_health", r.StartingHealth},
		{"starting_max_mana", r.StartingMaxMana},
		{"xp_base", r.XPBase},
	}
	for _, p := range positive {
		if p.val < 1 {
			errs = append(errs, fmt.Sprintf("%s must be >= 1, got %d", p.name, p.val))
		}
	}
	if r.MonsterChance < 0 || r.SpellChance < 0 || r.MonsterChance+r.SpellChance > 100 {
		errs = append(errs, fmt.Sprintf("monster_chance (%d) and spell_chance (%d) must be >= 0 and sum to <= 100",
			r.MonsterChance, r.SpellChance))
	}
	if r.FistDamage < 0 || r.XPPerDifficulty < 0 || r.BossXPMultiplier < 1 {
		errs = append(errs, "fist_damage and xp_per_difficulty must be >= 0, boss_xp_multiplier >= 1")
	}
	if r.StartingMana < 0 || r.StartingMana > r.StartingMaxMana {
		errs = append(errs, fmt.Sprintf("starting_mana must be in [0, starting_max_mana], got %d", r.StartingMana))
	}
	if r.XPGrowth < 1 {
		errs = append(errs, fmt.Sprintf("xp_growth must be >= 1, got %g", r.XPGrowth))
	}
	if r.HealthPerLevel < 0 || r.ManaPerLevel < 0 || r.ManaRegenBonus < 0 {
		errs = append(errs, "health_per_level, mana_per_level and mana_regen_bonus must be >= 0")
	}
	if len(errs) > 0 {
		return errors.New("rules: " + strings.Join(errs, "; "))
	}
	return nil
}
