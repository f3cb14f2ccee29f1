package player

import (
	"fmt"
	"math"

	"github.com/cory-johannsen/donut/internal/game/gamelog"
	"github.com/cory-johannsen/donut/internal/game/item"
	"github.com/cory-johannsen/donut/internal/game/rules"
)

// maxThreshold keeps the geometric XP curve inside int range.
const maxThreshold = math.MaxInt32

// MaxLevel is the highest level a player can reach. XP earned at MaxLevel is
// kept just below the next threshold.
const MaxLevel = 999

// Model applies player mutations using a fixed set of rules and items.
type Model struct {
	rules rules.Rules
	items *item.Catalog
}

// NewModel creates a Model.
//
// Precondition: items must be non-nil.
func NewModel(r rules.Rules, items *item.Catalog) *Model {
	return &Model{rules: r, items: items}
}

// Rules returns the balance rules in use.
func (m *Model) Rules() rules.Rules { return m.rules }

// New returns a level 1 player with no spells or items.
func (m *Model) New() *Player {
	return m.NewWithHighest(1)
}

// NewWithHighest returns a fresh player that remembers the best level ever reached.
//
// Postcondition: Level == 1 and HighestLevel == max(1, highest).
func (m *Model) NewWithHighest(highest int) *Player {
	if highest < 1 {
		highest = 1
	}
	return &Player{
		Health:         m.rules.StartingHealth,
		MaxHealth:      m.rules.StartingHealth,
		Mana:           m.rules.StartingMana,
		MaxMana:        m.rules.StartingMaxMana,
		Level:          1,
		XPForNextLevel: m.XPThreshold(1),
		Spells:         []OwnedSpell{},
		Items:          []item.Item{},
		HighestLevel:   highest,
	}
}

// XPThreshold returns the XP needed to leave level: floor(base * growth^(level-1)).
func (m *Model) XPThreshold(level int) int {
	if level < 1 {
		level = 1
	}
	v := math.Floor(float64(m.rules.XPBase) * math.Pow(m.rules.XPGrowth, float64(level-1)))
	if v > maxThreshold {
		return maxThreshold
	}
	return int(v)
}

// Growth reports what a single XP grant changed.
type Growth struct {
	XP       int
	Levels   []int
	Unlocked []item.Item
}

// LeveledUp reports whether at least one level was gained.
func (g Growth) LeveledUp() bool { return len(g.Levels) > 0 }

// Entries renders one log entry per level gained followed by one per item unlocked.
func (g Growth) Entries(r rules.Rules) []gamelog.Entry {
	var out []gamelog.Entry
	for _, lvl := range g.Levels {
		out = append(out, gamelog.New(
			fmt.Sprintf("Level up! You are now level %d!", lvl),
			gamelog.Player(gamelog.EffectMaxHP, r.HealthPerLevel),
			gamelog.Player(gamelog.EffectMaxMana, r.ManaPerLevel),
		))
	}
	for _, it := range g.Unlocked {
		out = append(out, gamelog.New(fmt.Sprintf("You earned the %s! %s %s", it.Name, it.Icon, it.Description)))
	}
	return out
}

// GainXP adds amount XP, applying as many level-ups as it pays for. Each
// level-up raises the maxima and refills health and mana. Items unlock the
// first time their level is ever reached. A grant is clamped so p.XP never
// exceeds maxThreshold, and levels stop at MaxLevel.
//
// Precondition: amount >= 0; negative amounts are ignored.
// Postcondition: 0 <= p.XP < p.XPForNextLevel; p.Level <= MaxLevel.
func (m *Model) GainXP(p *Player, amount int) Growth {
	g := Growth{}
	if amount <= 0 {
		return g
	}
	amount = min(amount, maxThreshold-p.XP)
	g.XP = amount
	p.XP += amount
	for p.XP >= p.XPForNextLevel && p.Level < MaxLevel {
		p.XP -= p.XPForNextLevel
		p.Level++
		p.XPForNextLevel = m.XPThreshold(p.Level)
		p.MaxHealth += m.rules.HealthPerLevel
		p.Health = p.MaxHealth
		p.MaxMana += m.rules.ManaPerLevel
		p.Mana = p.MaxMana
		g.Levels = append(g.Levels, p.Level)
	}
	if p.Level >= MaxLevel {
		p.XP = min(p.XP, p.XPForNextLevel-1)
	}
	if p.Level > p.HighestLevel {
		for _, it := range m.items.UnlockedBetween(p.HighestLevel, p.Level) {
			if !p.HasItem(it.ID) {
				p.Items = append(p.Items, it)
				g.Unlocked = append(g.Unlocked, it)
			}
		}
		p.HighestLevel = p.Level
	}
	return g
}

// IncreaseHealth adds amount (which may be negative) to health, capped at MaxHealth.
//
// Postcondition: p.Health <= p.MaxHealth.
func (m *Model) IncreaseHealth(p *Player, amount int) {
	p.Health = min(p.Health+amount, p.MaxHealth)
}

// ManaGain returns amount plus any passive item bonus.
func (m *Model) ManaGain(p *Player, amount int) int {
	if amount > 0 && p.HasItemEffect(item.EffectManaRegen) {
		return amount + m.rules.ManaRegenBonus
	}
	return amount
}

// GainMana adds amount plus item bonuses and returns the change actually applied.
//
// Postcondition: 0 <= p.Mana <= p.MaxMana.
func (m *Model) GainMana(p *Player, amount int) int {
	before := p.Mana
	p.Mana = clamp(p.Mana+m.ManaGain(p, amount), 0, p.MaxMana)
	return p.Mana - before
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
