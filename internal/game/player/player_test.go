package player_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/donut/internal/game/gamelog"
	"github.com/cory-johannsen/donut/internal/game/item"
	"github.com/cory-johannsen/donut/internal/game/player"
	"github.com/cory-johannsen/donut/internal/game/rules"
)

func newModel() *player.Model {
	return player.NewModel(rules.Default(), item.Default())
}

func TestNew_StartingState(t *testing.T) {
	p := newModel().New()
	assert.Equal(t, 100, p.Health)
	assert.Equal(t, 100, p.MaxHealth)
	assert.Equal(t, 0, p.Mana)
	assert.Equal(t, 10, p.MaxMana)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 10, p.XPForNextLevel)
	assert.Empty(t, p.Spells)
	assert.Empty(t, p.Items)
	assert.Equal(t, 1, p.HighestLevel)
}

func TestXPThreshold(t *testing.T) {
	m := newModel()
	assert.Equal(t, 10, m.XPThreshold(1))
	assert.Equal(t, 30, m.XPThreshold(2))
	assert.Equal(t, 90, m.XPThreshold(3))
	assert.Equal(t, 270, m.XPThreshold(4))
}

func TestGainXP_SingleLevel(t *testing.T) {
	m := newModel()
	p := m.New()
	p.Health = 40
	g := m.GainXP(p, 12)

	assert.Equal(t, []int{2}, g.Levels)
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 2, p.XP)
	assert.Equal(t, 30, p.XPForNextLevel)
	assert.Equal(t, 110, p.MaxHealth)
	assert.Equal(t, 110, p.Health)
	assert.Equal(t, 12, p.MaxMana)
	assert.Equal(t, 12, p.Mana)
	assert.Empty(t, g.Unlocked)
}

func TestGainXP_MultipleLevelsAndCrown(t *testing.T) {
	m := newModel()
	p := m.New()
	g := m.GainXP(p, 45)

	assert.Equal(t, []int{2, 3}, g.Levels)
	assert.Equal(t, 5, p.XP)
	require.Len(t, g.Unlocked, 1)
	assert.Equal(t, "donut_crown", g.Unlocked[0].ID)
	assert.True(t, p.HasItemEffect(item.EffectManaRegen))
	assert.Equal(t, 3, p.HighestLevel)

	entries := g.Entries(m.Rules())
	require.Len(t, entries, 3)
	assert.Equal(t, "Level up! You are now level 2!", entries[0].Message)
	assert.Equal(t, "Level up! You are now level 3!", entries[1].Message)
	assert.Equal(t, gamelog.EffectMaxHP, entries[0].Effects[0].Type)
	assert.Contains(t, entries[2].Message, "Donut Crown")
}

func TestGainXP_CrownNotRegrantedBelowHighest(t *testing.T) {
	m := newModel()
	p := m.NewWithHighest(4)
	g := m.GainXP(p, 45)
	assert.Empty(t, g.Unlocked)
	assert.Empty(t, p.Items)
	assert.Equal(t, 4, p.HighestLevel)
}

func TestGainXP_HugeGrantStopsAtThresholdCap(t *testing.T) {
	m := newModel()
	p := m.New()

	// Thresholds 10*3^(L-1) reach the int32 cap at level 19.
	g := m.GainXP(p, math.MaxInt)
	assert.Equal(t, 19, p.Level)
	assert.Len(t, g.Levels, 18)
	assert.Equal(t, math.MaxInt32, p.XPForNextLevel)
	assert.Equal(t, 210381207, p.XP)

	m.GainXP(p, math.MaxInt)
	assert.Equal(t, 20, p.Level)
	assert.Zero(t, p.XP)
	assert.Equal(t, 20, p.HighestLevel)
}

func TestGainXP_FlatCurveStopsAtMaxLevel(t *testing.T) {
	r := rules.Default()
	r.XPBase = 1
	r.XPGrowth = 1
	m := player.NewModel(r, item.Default())
	p := m.New()

	g := m.GainXP(p, math.MaxInt)
	assert.Equal(t, player.MaxLevel, p.Level)
	assert.Len(t, g.Levels, player.MaxLevel-1)
	assert.Zero(t, p.XP)

	g = m.GainXP(p, 50)
	assert.Empty(t, g.Levels)
	assert.Equal(t, player.MaxLevel, p.Level)
	assert.Less(t, p.XP, p.XPForNextLevel)
}

func TestGainXP_IgnoresNonPositive(t *testing.T) {
	m := newModel()
	p := m.New()
	m.GainXP(p, -5)
	m.GainXP(p, 0)
	assert.Zero(t, p.XP)
}

func TestGainXP_Invariants(t *testing.T) {
	m := newModel()
	rapid.Check(t, func(rt *rapid.T) {
		p := m.New()
		grants := rapid.SliceOfN(rapid.IntRange(0, 400), 1, 20).Draw(rt, "grants")
		prevLevel := p.Level
		for _, xp := range grants {
			m.GainXP(p, xp)
			assert.GreaterOrEqual(rt, p.Level, prevLevel)
			assert.GreaterOrEqual(rt, p.XP, 0)
			assert.Less(rt, p.XP, p.XPForNextLevel)
			assert.Equal(rt, m.XPThreshold(p.Level), p.XPForNextLevel)
			assert.Equal(rt, 100+10*(p.Level-1), p.MaxHealth)
			assert.Equal(rt, 10+2*(p.Level-1), p.MaxMana)
			prevLevel = p.Level
		}
	})
}

func TestIncreaseHealth_CapsAndAllowsNegative(t *testing.T) {
	m := newModel()
	p := m.New()
	m.IncreaseHealth(p, 50)
	assert.Equal(t, 100, p.Health)
	m.IncreaseHealth(p, -130)
	assert.Equal(t, -30, p.Health)
	assert.Equal(t, 0, p.DisplayHealth())
	assert.False(t, p.Alive())
}

func TestGainMana_ClampsAndAppliesItemBonus(t *testing.T) {
	m := newModel()
	p := m.New()
	assert.Equal(t, 3, m.GainMana(p, 3))

	crown, _ := item.Default().Get("donut_crown")
	p.Items = append(p.Items, crown)
	assert.Equal(t, 5, m.GainMana(p, 3))
	assert.Equal(t, 8, p.Mana)
	assert.Equal(t, 2, m.GainMana(p, 3))
	assert.Equal(t, 10, p.Mana)
	assert.Equal(t, -10, m.GainMana(p, -20))
	assert.Equal(t, 0, p.Mana)
}

func TestUpgradeSpell(t *testing.T) {
	m := newModel()
	p := m.New()

	assert.Equal(t, player.SpellLearned, m.UpgradeSpell(p, "Fireball", ""))
	assert.Equal(t, player.SpellUpgraded, m.UpgradeSpell(p, "Fireball", ""))
	assert.Equal(t, 2, p.SpellLevel("Fireball"))

	assert.Equal(t, player.SpellFailed, m.UpgradeSpell(p, "Freeze", ""))
	assert.Equal(t, player.SpellFailed, m.UpgradeSpell(p, "Freeze", "Nope"))
	assert.Equal(t, player.SpellReplaced, m.UpgradeSpell(p, "Freeze", "Fireball"))
	assert.Equal(t, []player.OwnedSpell{{Name: "Freeze", Level: 1}}, p.Spells)
}

func TestHandleSpellChoice_KeepCurrent(t *testing.T) {
	m := newModel()
	p := m.New()
	p.Spells = []player.OwnedSpell{{Name: "Fireball", Level: 1}}

	assert.Equal(t, player.SpellPendingChoice, m.Acquire(p, "Freeze"))
	require.NotNil(t, p.Pending)

	assert.Equal(t, player.SpellKeptCurrent, m.HandleSpellChoice(p, ""))
	assert.Nil(t, p.Pending)
	assert.Equal(t, []player.OwnedSpell{{Name: "Fireball", Level: 1}}, p.Spells)
}

func TestHandleSpellChoice_Replace(t *testing.T) {
	m := newModel()
	p := m.New()
	p.Spells = []player.OwnedSpell{{Name: "Fireball", Level: 3}}
	m.Acquire(p, "Freeze")

	assert.Equal(t, player.SpellFailed, m.HandleSpellChoice(p, "Healing Light"))
	assert.NotNil(t, p.Pending, "failed replacement keeps the pending spell")

	assert.Equal(t, player.SpellReplaced, m.HandleSpellChoice(p, "Fireball"))
	assert.Equal(t, []player.OwnedSpell{{Name: "Freeze", Level: 1}}, p.Spells)
	assert.Nil(t, p.Pending)
}

func TestHandleSpellChoice_UsesMarkedSpell(t *testing.T) {
	m := newModel()
	p := m.New()
	p.Spells = []player.OwnedSpell{{Name: "Fireball", Level: 1}}
	m.Acquire(p, "Freeze")
	require.NoError(t, m.MarkForReplacement(p, "Fireball"))
	assert.ErrorIs(t, m.MarkForReplacement(p, "Unknown"), player.ErrUnknownSpell)

	assert.Equal(t, player.SpellReplaced, m.HandleSpellChoice(p, ""))
	assert.Empty(t, p.SpellToReplace)
}

func TestHandleSpellChoice_FreeSlotLearns(t *testing.T) {
	m := newModel()
	p := m.New()
	m.Acquire(p, "Freeze")
	assert.Equal(t, player.SpellLearned, m.HandleSpellChoice(p, "ignored"))
	assert.True(t, p.HasSpell("Freeze"))
	assert.Equal(t, player.SpellNoPendingSpell, m.HandleSpellChoice(p, ""))
}

func TestAcquire_KnownSpellUpgrades(t *testing.T) {
	m := newModel()
	p := m.New()
	p.Spells = []player.OwnedSpell{{Name: "Donut", Level: 1}}
	assert.Equal(t, player.SpellUpgraded, m.Acquire(p, "Donut"))
	assert.Equal(t, 2, p.SpellLevel("Donut"))
	assert.Nil(t, p.Pending)
	assert.Contains(t, player.DescribeAcquisition(p, "Donut", player.SpellUpgraded), "level 2")
}

func TestAcquire_NewerPendingOverwrites(t *testing.T) {
	m := newModel()
	p := m.New()
	p.Spells = []player.OwnedSpell{{Name: "Fireball", Level: 1}}
	m.Acquire(p, "Freeze")
	m.Acquire(p, "Healing Light")
	assert.Equal(t, "Healing Light", p.Pending.Name)
}

func TestSlotInvariant_Property(t *testing.T) {
	m := newModel()
	names := []string{"Fireball", "Freeze", "Healing Light", "Donut"}
	rapid.Check(t, func(rt *rapid.T) {
		p := m.New()
		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 3).Draw(rt, "op") {
			case 0:
				m.Acquire(p, rapid.SampledFrom(names).Draw(rt, "acquire"))
			case 1:
				m.HandleSpellChoice(p, rapid.SampledFrom(append(names, "")).Draw(rt, "choice"))
			case 2:
				m.UpgradeSpell(p, rapid.SampledFrom(names).Draw(rt, "upgrade"), rapid.SampledFrom(names).Draw(rt, "replace"))
			case 3:
				m.GainXP(p, rapid.IntRange(0, 100).Draw(rt, "xp"))
			}
			assert.LessOrEqual(rt, len(p.Spells), p.Level)
			seen := map[string]bool{}
			for _, s := range p.Spells {
				assert.False(rt, seen[s.Name], "duplicate spell %s", s.Name)
				seen[s.Name] = true
				assert.GreaterOrEqual(rt, s.Level, 1)
			}
		}
	})
}

func TestPlayer_JSONRoundTrip(t *testing.T) {
	m := newModel()
	p := m.New()
	m.GainXP(p, 45)
	m.UpgradeSpell(p, "Fireball", "")
	m.Acquire(p, "Freeze")

	data, err := json.Marshal(p)
	require.NoError(t, err)
	var back player.Player
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, p, &back)
}

func TestClone_IsDeep(t *testing.T) {
	m := newModel()
	p := m.New()
	m.UpgradeSpell(p, "Fireball", "")
	c := p.Clone()
	c.Spells[0].Level = 9
	assert.Equal(t, 1, p.Spells[0].Level)
}
