package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/donut/internal/game/dice"
	"github.com/cory-johannsen/donut/internal/game/gamelog"
	"github.com/cory-johannsen/donut/internal/game/monster"
	"github.com/cory-johannsen/donut/internal/game/player"
	"github.com/cory-johannsen/donut/internal/game/rules"
	"github.com/cory-johannsen/donut/internal/game/spell"
)

// BonusSpell is the spell earned by defeating a donut-named monster.
const BonusSpell = "Donut"

// Result is the outcome of one encounter.
type Result struct {
	State   State
	Rounds  int
	Entries []gamelog.Entry
	// XP is the reward granted, zero unless the monster was defeated.
	XP     int
	Growth player.Growth
	// Bonus is the result of the donut spell acquisition, empty if none.
	Bonus player.SpellResult
}

// Resolver runs encounters.
type Resolver struct {
	rules  rules.Rules
	model  *player.Model
	spells *spell.Registry
	src    dice.Source
	logger *zap.Logger
}

// NewResolver creates a Resolver.
//
// Precondition: all arguments must be non-nil.
func NewResolver(model *player.Model, spells *spell.Registry, src dice.Source, logger *zap.Logger) *Resolver {
	return &Resolver{rules: model.Rules(), model: model, spells: spells, src: src, logger: logger}
}

// encounter tracks the working copy of both combatants' resources.
type encounter struct {
	p       *player.Player
	m       *monster.Monster
	hp      int
	mana    int
	enemyHP int
	xp      int
	entries []gamelog.Entry
}

func (e *encounter) log(msg string, effects ...gamelog.Effect) {
	e.entries = append(e.entries, gamelog.New(msg, effects...))
}

// Resolve fights m to a terminal state. Health and mana are tracked locally
// during the fight and written back to p and m once it ends. A defeated
// monster pays out XP and, if donut-named, the Donut spell.
//
// Precondition: p and m must be non-nil; p.Health > 0.
// Postcondition: result.State.Terminal(); p.Mana in [0, p.MaxMana].
func (r *Resolver) Resolve(p *player.Player, m *monster.Monster) Result {
	e := &encounter{p: p, m: m, hp: p.Health, mana: p.Mana, enemyHP: m.Health}
	m.FrozenTurns = 0

	state := InProgress
	rounds := 0
	for !state.Terminal() {
		if rounds >= r.rules.MaxCombatRounds {
			state = MaxRoundsReached
			e.log("Combat ended due to reaching the maximum number of rounds.")
			break
		}
		rounds++
		state = r.round(e)
	}

	p.Health = e.hp
	p.Mana = max(0, min(e.mana, p.MaxMana))
	m.Health = e.enemyHP

	res := Result{State: state, Rounds: rounds}
	if state == MonsterDefeated {
		r.reward(e, &res)
	}
	res.Entries = e.entries
	r.logger.Debug("encounter resolved",
		zap.String("monster", m.Name),
		zap.Stringer("state", state),
		zap.Int("rounds", rounds),
		zap.Int("player_health", p.Health),
		zap.Int("xp", res.XP),
	)
	return res
}

func (r *Resolver) round(e *encounter) State {
	if sp, lvl, ok := r.chooseSpell(e); ok {
		r.cast(e, sp, lvl)
	} else {
		r.punch(e)
	}
	if e.enemyHP <= 0 {
		e.log(fmt.Sprintf("%s has been defeated!", e.m.Name))
		return MonsterDefeated
	}

	if e.m.FrozenTurns > 0 {
		e.m.FrozenTurns--
		if e.m.FrozenTurns > 0 {
			e.log(fmt.Sprintf("%s is frozen and cannot attack! (%d round(s) remaining)", e.m.Name, e.m.FrozenTurns))
		} else {
			e.log(fmt.Sprintf("%s thawed out!", e.m.Name))
		}
	} else {
		dmg := e.m.Attack * dice.Between(r.src, 1, r.rules.CounterAttackMaxMultiplier)
		e.hp -= dmg
		e.log(fmt.Sprintf("%s attacks Player for %d damage.", e.m.Name, dmg),
			gamelog.Player(gamelog.EffectHP, -dmg))
	}
	if e.hp <= 0 {
		e.log("Player has been defeated. Game over.")
		return PlayerDefeated
	}
	return InProgress
}

// chooseSpell picks uniformly among owned spells that are affordable and useful.
func (r *Resolver) chooseSpell(e *encounter) (*spell.Spell, int, bool) {
	type option struct {
		sp    *spell.Spell
		level int
	}
	var opts []option
	for _, owned := range e.p.Spells {
		sp, ok := r.spells.Get(owned.Name)
		if !ok || sp.ManaCost > e.mana {
			continue
		}
		if sp.Target == spell.TargetPlayer && !r.beneficial(e, sp, owned.Level) {
			continue
		}
		opts = append(opts, option{sp, owned.Level})
	}
	if len(opts) == 0 {
		return nil, 0, false
	}
	o := opts[dice.Pick(r.src, len(opts))]
	return o.sp, o.level, true
}

// beneficial reports whether a self-targeted spell would not be wasted.
func (r *Resolver) beneficial(e *encounter, sp *spell.Spell, level int) bool {
	power := sp.EffectivePower(level)
	switch sp.Affects {
	case spell.ResourceHP:
		return e.hp+power <= e.p.MaxHealth
	case spell.ResourceMana:
		return power > 0 && e.mana-sp.ManaCost+power <= e.p.MaxMana
	default:
		return true
	}
}

func (r *Resolver) cast(e *encounter, sp *spell.Spell, level int) {
	power := sp.EffectivePower(level)
	e.mana -= sp.ManaCost

	var effect gamelog.Effect
	msg := fmt.Sprintf("Player casts %s on %s.", sp.Name, e.m.Name)
	if sp.Target == spell.TargetPlayer {
		msg = fmt.Sprintf("Player casts %s.", sp.Name)
		switch sp.Affects {
		case spell.ResourceHP:
			power = min(e.hp+power, e.p.MaxHealth) - e.hp
			e.hp += power
			effect = gamelog.Player(gamelog.EffectHP, power)
		case spell.ResourceMana:
			power = min(e.mana+power, e.p.MaxMana) - e.mana
			e.mana += power
			effect = gamelog.Player(gamelog.EffectMana, power)
		case spell.ResourceXP:
			e.xp += power
			effect = gamelog.Player(gamelog.EffectXP, power)
		}
	} else {
		// Monster mana and XP are not modeled; only health changes.
		if sp.Affects == spell.ResourceHP {
			power = min(e.enemyHP+power, e.m.MaxHealth) - e.enemyHP
			e.enemyHP += power
		} else {
			power = 0
		}
		effect = gamelog.Monster(gamelog.EffectHP, power)
	}

	if rounds := sp.FreezeRounds(level); rounds > 0 {
		e.m.FrozenTurns = rounds
		effect.Special = &gamelog.Special{Type: spell.SpecialFreeze, Duration: rounds}
		msg += fmt.Sprintf(" %s is frozen for %d round(s)!", e.m.Name, rounds)
	}
	e.log(msg, effect, gamelog.Player(gamelog.EffectMana, -sp.ManaCost))
}

func (r *Resolver) punch(e *encounter) {
	dmg := r.rules.FistDamage
	e.enemyHP -= dmg
	gain := min(e.mana+r.model.ManaGain(e.p, e.m.ManaOnHit), e.p.MaxMana) - e.mana
	gain = max(gain, 0)
	e.mana += gain
	e.log(fmt.Sprintf("Player punches %s for %d damage.", e.m.Name, dmg),
		gamelog.Monster(gamelog.EffectHP, -dmg),
		gamelog.Player(gamelog.EffectMana, gain))
}

func (r *Resolver) reward(e *encounter, res *Result) {
	res.XP = e.m.XPReward(r.rules) + max(e.xp, 0)
	e.log(fmt.Sprintf("You gained %d XP.", res.XP), gamelog.Player(gamelog.EffectXP, res.XP))
	res.Growth = r.model.GainXP(e.p, res.XP)
	e.entries = append(e.entries, res.Growth.Entries(r.rules)...)

	if !e.m.IsDonut() {
		return
	}
	if _, ok := r.spells.Get(BonusSpell); !ok {
		return
	}
	res.Bonus = r.model.Acquire(e.p, BonusSpell)
	if res.Bonus == player.SpellUpgraded {
		e.log(fmt.Sprintf("The defeated %s drops a donut. Your %s spell is now level %d!",
			e.m.Name, BonusSpell, e.p.SpellLevel(BonusSpell)))
		return
	}
	e.log(player.DescribeAcquisition(e.p, BonusSpell, res.Bonus))
}
