// Package player defines the player record and the operations that grow it.
//
// Player is plain data so it round-trips through any JSON store unchanged.
// Model holds the balance rules and item catalog and applies every mutation.
package player

import (
	"github.com/cory-johannsen/donut/internal/game/item"
)

// OwnedSpell is a spell the player knows at a given level.
type OwnedSpell struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// PendingSpell is an earned spell waiting for the player to pick a slot.
type PendingSpell struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Player is the persistent resource record of one game.
//
// Health may be zero or negative after a lethal hit; use DisplayHealth for output.
// len(Spells) never exceeds Level and spell names are unique.
type Player struct {
	Health         int           `json:"health"`
	MaxHealth      int           `json:"maxHealth"`
	Mana           int           `json:"mana"`
	MaxMana        int           `json:"maxMana"`
	Level          int           `json:"level"`
	XP             int           `json:"xp"`
	XPForNextLevel int           `json:"xpForNextLevel"`
	Spells         []OwnedSpell  `json:"spells"`
	Pending        *PendingSpell `json:"pendingSpell,omitempty"`
	SpellToReplace string        `json:"spellToReplace,omitempty"`
	Items          []item.Item   `json:"items"`
	HighestLevel   int           `json:"highestLevel"`
}

// Alive reports whether the player can still act.
func (p *Player) Alive() bool { return p.Health > 0 }

// DisplayHealth clamps Health at zero.
func (p *Player) DisplayHealth() int {
	if p.Health < 0 {
		return 0
	}
	return p.Health
}

// SpellLevel returns the level of the named owned spell, or 0.
func (p *Player) SpellLevel(name string) int {
	if i := p.spellIndex(name); i >= 0 {
		return p.Spells[i].Level
	}
	return 0
}

// HasSpell reports whether the player owns name.
func (p *Player) HasSpell(name string) bool { return p.spellIndex(name) >= 0 }

// FreeSlots returns the number of unused spell slots.
func (p *Player) FreeSlots() int {
	n := p.Level - len(p.Spells)
	if n < 0 {
		return 0
	}
	return n
}

// HasItemEffect reports whether any owned item carries effect.
func (p *Player) HasItemEffect(effect item.Effect) bool {
	for _, it := range p.Items {
		if it.Effect == effect {
			return true
		}
	}
	return false
}

// HasItem reports whether an item with id is owned.
func (p *Player) HasItem(id string) bool {
	for _, it := range p.Items {
		if it.ID == id {
			return true
		}
	}
	return false
}

func (p *Player) spellIndex(name string) int {
	for i, s := range p.Spells {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy.
func (p *Player) Clone() *Player {
	c := *p
	c.Spells = append([]OwnedSpell(nil), p.Spells...)
	c.Items = append([]item.Item(nil), p.Items...)
	if p.Pending != nil {
		pending := *p.Pending
		c.Pending = &pending
	}
	return &c
}
