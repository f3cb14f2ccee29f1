// Package monster defines monster templates, the live monster instances spawned
// from them, and the bestiary that holds the regular and boss pools.
package monster

import (
	"fmt"
	"math"
	"strings"

	"github.com/cory-johannsen/donut/internal/game/rules"
)

// HealthPerDifficulty is the base health granted per point of difficulty.
const HealthPerDifficulty = 45

// Template is an immutable monster definition.
type Template struct {
	Name       string `yaml:"name"`
	Difficulty int    `yaml:"difficulty"`
	ManaOnHit  int    `yaml:"mana_on_hit"`
	// ActiveAfterTurn is the first turn on which the template may spawn.
	ActiveAfterTurn int `yaml:"active_after_turn"`
}

// Validate checks template invariants.
func (t Template) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("monster: name must not be empty")
	}
	if t.Difficulty < 1 {
		return fmt.Errorf("monster %q: difficulty must be >= 1", t.Name)
	}
	if t.ManaOnHit < 0 {
		return fmt.Errorf("monster %q: mana_on_hit must be >= 0", t.Name)
	}
	if t.ActiveAfterTurn < 0 {
		return fmt.Errorf("monster %q: active_after_turn must be >= 0", t.Name)
	}
	return nil
}

// BaseHealth is floor(difficulty * 45).
func (t Template) BaseHealth() int { return t.Difficulty * HealthPerDifficulty }

// BaseAttack is ceil(difficulty * 1.5).
func (t Template) BaseAttack() int { return (3*t.Difficulty + 1) / 2 }

// Monster is a live, mutable copy of a template. Spawning never mutates the template.
type Monster struct {
	Name            string `json:"name"`
	Health          int    `json:"health"`
	MaxHealth       int    `json:"maxHealth"`
	Attack          int    `json:"attack"`
	Difficulty      int    `json:"difficulty"`
	ManaOnHit       int    `json:"manaOnHit"`
	ActiveAfterTurn int    `json:"activeAfterTurn"`
	FrozenTurns     int    `json:"frozenTurns"`
	Boss            bool   `json:"boss"`
}

// Instantiate returns a fresh monster at base stats.
//
// Postcondition: Health == MaxHealth and FrozenTurns == 0.
func (t Template) Instantiate(boss bool) *Monster {
	return &Monster{
		Name:            t.Name,
		Health:          t.BaseHealth(),
		MaxHealth:       t.BaseHealth(),
		Attack:          t.BaseAttack(),
		Difficulty:      t.Difficulty,
		ManaOnHit:       t.ManaOnHit,
		ActiveAfterTurn: t.ActiveAfterTurn,
		Boss:            boss,
	}
}

// Scale multiplies health (floored) and attack (ceiled) by mult.
//
// Precondition: mult >= 1.
// Postcondition: Health == MaxHealth.
func (m *Monster) Scale(mult float64) {
	m.Health = int(math.Floor(float64(m.Health) * mult))
	m.MaxHealth = m.Health
	m.Attack = int(math.Ceil(float64(m.Attack) * mult))
}

// ScalingMultiplier returns 1 + turn/100 + playerLevel/10.
func ScalingMultiplier(turn, playerLevel int) float64 {
	return 1 + float64(turn)/100 + float64(playerLevel)/10
}

// IsDonut reports whether defeating this monster grants the Donut spell bonus.
func (m *Monster) IsDonut() bool {
	return strings.Contains(strings.ToLower(m.Name), "donut")
}

// XPReward returns the XP granted for defeating the monster.
func (m *Monster) XPReward(r rules.Rules) int {
	xp := m.Difficulty * r.XPPerDifficulty
	if m.Boss {
		xp *= r.BossXPMultiplier
	}
	return xp
}
