// Package turn advances a session by one turn: a forced or random monster
// encounter, spell practice, or an ambient event.
package turn

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/donut/internal/game/combat"
	"github.com/cory-johannsen/donut/internal/game/dice"
	"github.com/cory-johannsen/donut/internal/game/event"
	"github.com/cory-johannsen/donut/internal/game/gamelog"
	"github.com/cory-johannsen/donut/internal/game/monster"
	"github.com/cory-johannsen/donut/internal/game/player"
	"github.com/cory-johannsen/donut/internal/game/rules"
	"github.com/cory-johannsen/donut/internal/game/session"
	"github.com/cory-johannsen/donut/internal/game/spell"
)

// Report summarizes one call to Advance.
type Report struct {
	Turn     int
	Category session.EventCategory
	Boss     bool
	// Combat is set when the turn was an encounter.
	Combat   *combat.Result
	Entries  gamelog.Turn
	GameOver bool
}

// Engine owns the collaborators needed to advance sessions.
type Engine struct {
	rules    rules.Rules
	model    *player.Model
	resolver *combat.Resolver
	bestiary *monster.Bestiary
	spells   *spell.Registry
	events   *event.Table
	src      dice.Source
	logger   *zap.Logger
}

// Deps bundles the content and collaborators an Engine needs.
type Deps struct {
	Model    *player.Model
	Bestiary *monster.Bestiary
	Spells   *spell.Registry
	Events   *event.Table
	Source   dice.Source
	Logger   *zap.Logger
}

// NewEngine creates an Engine.
//
// Precondition: every field of d must be non-nil.
func NewEngine(d Deps) *Engine {
	return &Engine{
		rules:    d.Model.Rules(),
		model:    d.Model,
		resolver: combat.NewResolver(d.Model, d.Spells, d.Source, d.Logger),
		bestiary: d.Bestiary,
		spells:   d.Spells,
		events:   d.Events,
		src:      d.Source,
		logger:   d.Logger,
	}
}

// Model returns the player model used by the engine.
func (e *Engine) Model() *player.Model { return e.model }

// Source returns the engine's randomness source.
func (e *Engine) Source() dice.Source { return e.src }

// Advance resolves the next turn of s. It does nothing once the game is over.
//
// Postcondition: if !s.GameOver on entry, s.Turn is incremented by one and the
// turn's entries are appended to a new log frame.
func (e *Engine) Advance(s *session.Session) Report {
	if s.GameOver {
		return Report{Turn: s.Turn, GameOver: true}
	}
	turn := s.StartTurn()
	rep := Report{Turn: turn}

	boss := turn%e.rules.BossInterval == 0
	switch {
	case boss || turn%e.rules.FightInterval == 0:
		rep.Category = session.CategoryMonster
	default:
		rep.Category = e.choose(s.LastEvent)
	}

	switch rep.Category {
	case session.CategoryMonster:
		rep.Boss = boss
		res := e.encounter(s, turn, boss)
		rep.Combat = &res
	case session.CategorySpell:
		e.practice(s)
	default:
		e.ambient(s)
	}
	s.LastEvent = rep.Category
	rep.Entries = s.Log.Last()
	rep.GameOver = s.GameOver

	e.logger.Debug("turn advanced",
		zap.String("session", s.ID),
		zap.Int("turn", turn),
		zap.String("category", string(rep.Category)),
		zap.Bool("game_over", s.GameOver),
	)
	return rep
}

// choose applies the percentage gates, drops the category used last turn and
// picks uniformly among what remains. A single draw in [0,100) decides the
// gates, so the monster and spell gates are nested rather than disjoint.
func (e *Engine) choose(last session.EventCategory) session.EventCategory {
	r := e.src.Intn(100)
	var candidates []session.EventCategory
	if last != session.CategoryMonster && r < e.rules.MonsterChance {
		candidates = append(candidates, session.CategoryMonster)
	}
	if last != session.CategorySpell && r < e.rules.MonsterChance+e.rules.SpellChance {
		candidates = append(candidates, session.CategorySpell)
	}
	if last != session.CategoryRandom {
		candidates = append(candidates, session.CategoryRandom)
	}
	if len(candidates) == 0 {
		return session.CategoryRandom
	}
	return candidates[dice.Pick(e.src, len(candidates))]
}

func (e *Engine) encounter(s *session.Session, turn int, boss bool) combat.Result {
	var m *monster.Monster
	if boss {
		m = e.bestiary.SpawnBoss(e.src, turn, s.Player.Level)
	} else {
		m = e.bestiary.Spawn(e.src, turn, s.Player.Level)
	}
	s.Monster = m
	s.LastActionType = "attack"
	s.AddLogEntry(fmt.Sprintf("A wild %s appears!", m.Name))

	res := e.resolver.Resolve(s.Player, m)
	s.Append(res.Entries...)
	switch res.State {
	case combat.PlayerDefeated:
		s.GameOver = true
	case combat.MonsterDefeated, combat.MaxRoundsReached:
		s.Monster = nil
	}
	if res.Bonus == player.SpellUpgraded {
		s.Unlock(combat.BonusSpell)
	}
	return res
}

func (e *Engine) practice(s *session.Session) {
	learnable := e.spells.Learnable()
	sp := learnable[dice.Pick(e.src, len(learnable))]
	s.LastActionType = "spell"
	res := e.model.Acquire(s.Player, sp.Name)
	if res == player.SpellUpgraded {
		s.Unlock(sp.Name)
	}
	s.AddLogEntry(player.DescribeAcquisition(s.Player, sp.Name, res))
}

func (e *Engine) ambient(s *session.Session) {
	out := e.events.Draw(e.src)
	v := out.Value()
	s.LastActionType = "event"
	switch out.Event.Affects {
	case event.AffectsXP:
		s.AddLogEntry(out.Event.Message, gamelog.Player(gamelog.EffectXP, v))
		g := e.model.GainXP(s.Player, v)
		s.Append(g.Entries(e.rules)...)
	case event.AffectsHP:
		e.model.IncreaseHealth(s.Player, v)
		s.AddLogEntry(out.Event.Message, gamelog.Player(gamelog.EffectHP, v))
		if !s.Player.Alive() {
			s.End("Player has been defeated by a random event. Game over.")
		}
	default:
		s.AddLogEntry(out.Event.Message)
	}
}
