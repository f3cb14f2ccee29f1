// Package session holds the aggregate state of one game and the stores that
// persist it between requests.
package session

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/donut/internal/game/dice"
	"github.com/cory-johannsen/donut/internal/game/gamelog"
	"github.com/cory-johannsen/donut/internal/game/monster"
	"github.com/cory-johannsen/donut/internal/game/player"
)

// EventCategory is the kind of turn last resolved, used to avoid repeats.
type EventCategory string

const (
	CategoryNone    EventCategory = ""
	CategoryMonster EventCategory = "monster"
	CategorySpell   EventCategory = "spell"
	CategoryRandom  EventCategory = "random"
)

// Session is the full state of one game.
//
// Monster is the current or last opponent and stays set after a fatal fight.
// Once GameOver is true the session accepts no further turns until Reset.
type Session struct {
	ID             string           `json:"id"`
	Player         *player.Player   `json:"player"`
	Monster        *monster.Monster `json:"monster,omitempty"`
	Log            gamelog.Log      `json:"gameLog"`
	Turn           int              `json:"turn"`
	GameOver       bool             `json:"isGameOver"`
	UnlockedSpells []string         `json:"unlockedSpells"`
	LastActionType string           `json:"lastActionType,omitempty"`
	LastEvent      EventCategory    `json:"lastEvent,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// New creates a session with a fresh player and a random ID.
func New(model *player.Model) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:             uuid.NewString(),
		Player:         model.New(),
		Log:            gamelog.Log{},
		UnlockedSpells: []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// StartTurn opens a new log frame and advances the turn counter.
//
// Postcondition: s.Turn is incremented and len(s.Log.Last()) == 0.
func (s *Session) StartTurn() int {
	s.Turn++
	s.Log.StartTurn()
	return s.Turn
}

// AddLogEntry appends one entry to the current turn.
func (s *Session) AddLogEntry(message string, effects ...gamelog.Effect) {
	s.Log.Add(gamelog.New(message, effects...))
}

// Append appends entries to the current turn in order.
func (s *Session) Append(entries ...gamelog.Entry) {
	if len(entries) == 0 {
		return
	}
	s.Log.Add(entries...)
}

// Unlock records that the player has discovered name.
func (s *Session) Unlock(name string) {
	if !slices.Contains(s.UnlockedSpells, name) {
		s.UnlockedSpells = append(s.UnlockedSpells, name)
	}
}

// ChooseSpell resolves the pending spell choice and logs the outcome.
func (s *Session) ChooseSpell(model *player.Model, chosen string) player.SpellResult {
	if chosen == "" {
		chosen = s.Player.SpellToReplace
	}
	name := ""
	if s.Player.Pending != nil {
		name = s.Player.Pending.Name
	}
	res := model.HandleSpellChoice(s.Player, chosen)
	switch res {
	case player.SpellLearned, player.SpellUpgraded, player.SpellReplaced:
		s.Unlock(name)
	}
	s.AddLogEntry(player.DescribeChoice(s.Player, name, chosen, res))
	return res
}

// End marks the game as over.
func (s *Session) End(message string) {
	s.GameOver = true
	s.AddLogEntry(message)
}

// Reset starts a new game in place. Only the best level ever reached survives.
//
// Postcondition: Turn == 0; Log is empty; GameOver is false; Player is level 1.
func (s *Session) Reset(model *player.Model) {
	highest := 1
	if s.Player != nil {
		highest = max(s.Player.HighestLevel, s.Player.Level)
	}
	s.Player = model.NewWithHighest(highest)
	s.Monster = nil
	s.Log = gamelog.Log{}
	s.Turn = 0
	s.GameOver = false
	s.UnlockedSpells = []string{}
	s.LastActionType = ""
	s.LastEvent = CategoryNone
}

// Restart resets the session and grants one starter spell drawn from the
// spells unlocked in the previous game. It returns the starter's name, or ""
// if nothing had been unlocked.
func (s *Session) Restart(model *player.Model, src dice.Source) string {
	pool := slices.Clone(s.UnlockedSpells)
	s.Reset(model)
	if len(pool) == 0 {
		return ""
	}
	name := pool[dice.Pick(src, len(pool))]
	model.UpgradeSpell(s.Player, name, "")
	s.Unlock(name)
	s.AddLogEntry(fmt.Sprintf("You begin your new adventure knowing the %s spell.", name))
	return name
}
