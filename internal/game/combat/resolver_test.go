package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/donut/internal/game/combat"
	"github.com/cory-johannsen/donut/internal/game/dice"
	"github.com/cory-johannsen/donut/internal/game/dice/dicetest"
	"github.com/cory-johannsen/donut/internal/game/gamelog"
	"github.com/cory-johannsen/donut/internal/game/item"
	"github.com/cory-johannsen/donut/internal/game/monster"
	"github.com/cory-johannsen/donut/internal/game/player"
	"github.com/cory-johannsen/donut/internal/game/rules"
	"github.com/cory-johannsen/donut/internal/game/spell"
)

func newResolver(src dice.Source) (*combat.Resolver, *player.Model) {
	m := player.NewModel(rules.Default(), item.Default())
	return combat.NewResolver(m, spell.Default(), src, zap.NewNop()), m
}

func goblin() *monster.Monster {
	return monster.Template{Name: "Goblin", Difficulty: 1, ManaOnHit: 1}.Instantiate(false)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "monster_defeated", combat.MonsterDefeated.String())
	assert.Equal(t, "max_rounds_reached", combat.MaxRoundsReached.String())
	assert.False(t, combat.InProgress.Terminal())
	assert.True(t, combat.PlayerDefeated.Terminal())
}

func TestResolve_FistsOnlyVictory(t *testing.T) {
	r, model := newResolver(dicetest.Fixed(0))
	p := model.New()
	g := goblin()

	res := r.Resolve(p, g)

	assert.Equal(t, combat.MonsterDefeated, res.State)
	assert.Equal(t, 5, res.Rounds)
	assert.Equal(t, 10, res.XP)
	assert.Equal(t, -5, g.Health)
	// level up refills both pools
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 110, p.Health)
	assert.Equal(t, 12, p.Mana)

	// 5 punches, 4 counters, defeat, xp, level up
	require.Len(t, res.Entries, 12)
	assert.Equal(t, "Player punches Goblin for 10 damage.", res.Entries[0].Message)
	assert.Equal(t, []gamelog.Effect{
		gamelog.Monster(gamelog.EffectHP, -10),
		gamelog.Player(gamelog.EffectMana, 1),
	}, res.Entries[0].Effects)
	assert.Equal(t, "Goblin attacks Player for 2 damage.", res.Entries[1].Message)
	assert.Equal(t, "Goblin has been defeated!", res.Entries[9].Message)
	assert.Equal(t, gamelog.EffectXP, res.Entries[10].Effects[0].Type)
	assert.Contains(t, res.Entries[11].Message, "Level up!")
}

func TestResolve_ManaClampedDuringFight(t *testing.T) {
	r, model := newResolver(dicetest.Fixed(0))
	p := model.New()
	m := monster.Template{Name: "Ogre", Difficulty: 2, ManaOnHit: 4}.Instantiate(false)
	p.XP = -1000 // keep the refill from masking the clamp

	res := r.Resolve(p, m)
	require.Equal(t, combat.MonsterDefeated, res.State)
	assert.Equal(t, 10, p.Mana)
	for _, e := range res.Entries {
		for _, eff := range e.Effects {
			if eff.Type == gamelog.EffectMana {
				assert.GreaterOrEqual(t, eff.Value, 0)
			}
		}
	}
}

func TestResolve_UnaffordableHealIsSkipped(t *testing.T) {
	r, model := newResolver(dicetest.Fixed(0))
	p := model.New()
	p.Health = 50
	p.Mana = 5
	p.Spells = []player.OwnedSpell{{Name: "Healing Light", Level: 1}}

	res := r.Resolve(p, goblin())
	assert.Equal(t, "Player punches Goblin for 10 damage.", res.Entries[0].Message)
}

func TestResolve_HealOnlyWhenUseful(t *testing.T) {
	r, model := newResolver(dicetest.Fixed(0))
	p := model.New()
	p.Health = 95
	p.Mana = 10
	p.Spells = []player.OwnedSpell{{Name: "Healing Light", Level: 1}}

	res := r.Resolve(p, goblin())
	assert.Equal(t, "Player punches Goblin for 10 damage.", res.Entries[0].Message)

	p = model.New()
	p.Health = 50
	p.Mana = 10
	p.Spells = []player.OwnedSpell{{Name: "Healing Light", Level: 1}}
	res = r.Resolve(p, goblin())
	assert.Equal(t, "Player casts Healing Light.", res.Entries[0].Message)
	assert.Equal(t, gamelog.Player(gamelog.EffectHP, 12), res.Entries[0].Effects[0])
}

func TestResolve_FreezeSkipsCounterAttack(t *testing.T) {
	r, model := newResolver(dicetest.Fixed(0))
	p := model.New()
	p.Level = 2
	p.Mana = 8
	p.Spells = []player.OwnedSpell{{Name: "Freeze", Level: 2}}

	res := r.Resolve(p, goblin())
	first := res.Entries[0]
	assert.Contains(t, first.Message, "frozen for 2 round(s)")
	require.NotNil(t, first.Effects[0].Special)
	assert.Equal(t, 2, first.Effects[0].Special.Duration)
	assert.Equal(t, gamelog.Player(gamelog.EffectMana, -8), first.Effects[1])
	assert.Equal(t, "Goblin is frozen and cannot attack! (1 round(s) remaining)", res.Entries[1].Message)
	assert.Equal(t, "Goblin thawed out!", res.Entries[3].Message)
	assert.Contains(t, res.Entries[5].Message, "attacks Player")
}

func TestResolve_PlayerDefeated(t *testing.T) {
	r, model := newResolver(dicetest.Fixed(4))
	p := model.New()
	p.Health = 10
	dragon := monster.Template{Name: "Dragon", Difficulty: 10, ManaOnHit: 5}.Instantiate(false)

	res := r.Resolve(p, dragon)
	assert.Equal(t, combat.PlayerDefeated, res.State)
	assert.Equal(t, 1, res.Rounds)
	assert.Equal(t, 10-75, p.Health)
	assert.Equal(t, 0, p.DisplayHealth())
	assert.Zero(t, res.XP)
	assert.Equal(t, "Player has been defeated. Game over.", res.Entries[len(res.Entries)-1].Message)
	assert.Equal(t, 440, dragon.Health)
}

func TestResolve_MaxRounds(t *testing.T) {
	rl := rules.Default()
	rl.MaxCombatRounds = 3
	model := player.NewModel(rl, item.Default())
	r := combat.NewResolver(model, spell.Default(), dicetest.Fixed(0), zap.NewNop())
	p := model.New()
	m := monster.Template{Name: "Wall", Difficulty: 10}.Instantiate(false)
	m.Attack = 1

	res := r.Resolve(p, m)
	assert.Equal(t, combat.MaxRoundsReached, res.State)
	assert.Equal(t, 3, res.Rounds)
	assert.Zero(t, res.XP)
	assert.Equal(t, 420, m.Health)
	assert.Equal(t, "Combat ended due to reaching the maximum number of rounds.", res.Entries[len(res.Entries)-1].Message)
}

func TestResolve_DonutBonus(t *testing.T) {
	r, model := newResolver(dicetest.Fixed(0))

	p := model.New()
	res := r.Resolve(p, monster.Template{Name: "Donut Hole", Difficulty: 1, ManaOnHit: 1}.Instantiate(false))
	assert.Equal(t, player.SpellPendingChoice, res.Bonus)
	require.NotNil(t, p.Pending)
	assert.Equal(t, combat.BonusSpell, p.Pending.Name)

	p = model.New()
	p.Spells = []player.OwnedSpell{{Name: "Donut", Level: 1}}
	res = r.Resolve(p, monster.Template{Name: "Donut Hole", Difficulty: 1, ManaOnHit: 1}.Instantiate(false))
	assert.Equal(t, player.SpellUpgraded, res.Bonus)
	assert.Equal(t, 2, p.SpellLevel("Donut"))
	assert.Contains(t, res.Entries[len(res.Entries)-1].Message, "level 2")
}

func TestResolve_Invariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		src := dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed"))
		r, model := newResolver(src)
		p := model.New()
		p.Mana = rapid.IntRange(0, 10).Draw(rt, "mana")
		if rapid.Bool().Draw(rt, "has_spell") {
			name := rapid.SampledFrom([]string{"Fireball", "Freeze", "Healing Light", "Donut"}).Draw(rt, "spell")
			p.Spells = append(p.Spells, player.OwnedSpell{Name: name, Level: 1})
		}
		m := monster.Default().Spawn(src, rapid.IntRange(0, 100).Draw(rt, "turn"), 1)

		res := r.Resolve(p, m)
		assert.True(rt, res.State.Terminal())
		assert.LessOrEqual(rt, res.Rounds, rules.Default().MaxCombatRounds)
		assert.GreaterOrEqual(rt, p.Mana, 0)
		assert.LessOrEqual(rt, p.Mana, p.MaxMana)
		assert.LessOrEqual(rt, p.Health, p.MaxHealth)
		switch res.State {
		case combat.MonsterDefeated:
			assert.LessOrEqual(rt, m.Health, 0)
			assert.Positive(rt, res.XP)
		case combat.PlayerDefeated:
			assert.LessOrEqual(rt, p.Health, 0)
			assert.Zero(rt, res.XP)
		}
	})
}
