package player

import (
	"errors"
	"fmt"
)

// ErrUnknownSpell is returned when a spell slot operation names a spell the
// player does not own.
var ErrUnknownSpell = errors.New("player: unknown spell")

// SpellResult is the outcome of a spell slot operation.
type SpellResult string

const (
	SpellLearned        SpellResult = "learned"
	SpellUpgraded       SpellResult = "upgraded"
	SpellReplaced       SpellResult = "replaced"
	SpellKeptCurrent    SpellResult = "kept_current"
	SpellPendingChoice  SpellResult = "pending"
	SpellFailed         SpellResult = "failed"
	SpellNoPendingSpell SpellResult = "no_pending_spell"
)

func (p *Player) pendingLevel(name string) int {
	if p.Pending != nil && p.Pending.Name == name && p.Pending.Level > 0 {
		return p.Pending.Level
	}
	return 1
}

// UpgradeSpell levels up a known spell, learns it into a free slot, or
// overwrites the replace slot, in that order of preference.
//
// Postcondition: len(p.Spells) <= p.Level; spell names stay unique.
func (m *Model) UpgradeSpell(p *Player, name, replace string) SpellResult {
	if i := p.spellIndex(name); i >= 0 {
		p.Spells[i].Level++
		return SpellUpgraded
	}
	if p.FreeSlots() > 0 {
		p.Spells = append(p.Spells, OwnedSpell{Name: name, Level: p.pendingLevel(name)})
		return SpellLearned
	}
	if replace == "" {
		return SpellFailed
	}
	i := p.spellIndex(replace)
	if i < 0 {
		return SpellFailed
	}
	p.Spells[i] = OwnedSpell{Name: name, Level: p.pendingLevel(name)}
	return SpellReplaced
}

// Acquire runs the spell acquisition flow: a known spell is upgraded at once,
// an unknown one becomes the pending choice, replacing any earlier pending spell.
func (m *Model) Acquire(p *Player, name string) SpellResult {
	if p.HasSpell(name) {
		m.UpgradeSpell(p, name, "")
		return SpellUpgraded
	}
	p.Pending = &PendingSpell{Name: name, Level: 1}
	return SpellPendingChoice
}

// MarkForReplacement selects the owned spell a later choice should overwrite.
// An empty name clears the mark.
func (m *Model) MarkForReplacement(p *Player, name string) error {
	if name != "" && !p.HasSpell(name) {
		return fmt.Errorf("%w %q", ErrUnknownSpell, name)
	}
	p.SpellToReplace = name
	return nil
}

// HandleSpellChoice resolves the pending spell. A free slot learns it outright.
// Otherwise chosen (or the spell marked for replacement) is overwritten, and an
// empty choice discards the pending spell. A failed replacement keeps it pending.
func (m *Model) HandleSpellChoice(p *Player, chosen string) SpellResult {
	if p.Pending == nil {
		return SpellNoPendingSpell
	}
	name := p.Pending.Name
	if p.FreeSlots() > 0 || p.HasSpell(name) {
		res := m.UpgradeSpell(p, name, "")
		p.Pending, p.SpellToReplace = nil, ""
		return res
	}
	if chosen == "" {
		chosen = p.SpellToReplace
	}
	if chosen == "" {
		p.Pending = nil
		return SpellKeptCurrent
	}
	res := m.UpgradeSpell(p, name, chosen)
	if res != SpellFailed {
		p.Pending, p.SpellToReplace = nil, ""
	}
	return res
}

// DescribeAcquisition renders the log message for an Acquire result.
func DescribeAcquisition(p *Player, name string, res SpellResult) string {
	switch res {
	case SpellUpgraded:
		return fmt.Sprintf("Practice has paid off. Your %s spell is now level %d!", name, p.SpellLevel(name))
	case SpellPendingChoice:
		if p.FreeSlots() > 0 {
			return fmt.Sprintf("You found the %s spell! Choose to learn it.", name)
		}
		return fmt.Sprintf("You found the %s spell! At level %d you can only hold %d spells. Choose one to replace or keep your current spells.", name, p.Level, p.Level)
	default:
		return fmt.Sprintf("Nothing came of your study of %s.", name)
	}
}

// DescribeChoice renders the log message for a HandleSpellChoice result.
func DescribeChoice(p *Player, name, replaced string, res SpellResult) string {
	switch res {
	case SpellLearned:
		return fmt.Sprintf("You learned the %s spell!", name)
	case SpellUpgraded:
		return fmt.Sprintf("Your %s spell is now level %d!", name, p.SpellLevel(name))
	case SpellReplaced:
		return fmt.Sprintf("You forgot %s and learned %s.", replaced, name)
	case SpellKeptCurrent:
		return fmt.Sprintf("You decided not to learn %s and kept your current spells.", name)
	case SpellNoPendingSpell:
		return "There is no spell waiting to be learned."
	default:
		return fmt.Sprintf("Could not learn %s.", name)
	}
}
