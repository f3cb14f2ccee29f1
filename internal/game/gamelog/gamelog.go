// Package gamelog defines the player-facing, replayable record of a game: typed
// effects grouped into entries, entries grouped into turns.
package gamelog

// EffectType tags which resource an effect changed.
type EffectType string

const (
	EffectHP      EffectType = "HP"
	EffectMana    EffectType = "Mana"
	EffectXP      EffectType = "XP"
	EffectMaxHP   EffectType = "MAXHP"
	EffectMaxMana EffectType = "MAXMANA"
)

// Target names who an effect applied to.
type Target string

const (
	TargetPlayer  Target = "player"
	TargetMonster Target = "monster"
	TargetNone    Target = "none"
)

// Special carries a non-numeric side effect such as a freeze.
type Special struct {
	Type     string `json:"type"`
	Duration int    `json:"duration"`
}

// Effect is one signed resource change.
type Effect struct {
	Type    EffectType `json:"type"`
	Value   int        `json:"value"`
	Target  Target     `json:"target"`
	Special *Special   `json:"special,omitempty"`
}

// Entry is a single log line with the effects it describes.
type Entry struct {
	Message string   `json:"message"`
	Effects []Effect `json:"effect,omitempty"`
}

// New builds an Entry.
func New(message string, effects ...Effect) Entry {
	return Entry{Message: message, Effects: effects}
}

// Player returns an effect targeting the player.
func Player(t EffectType, value int) Effect {
	return Effect{Type: t, Value: value, Target: TargetPlayer}
}

// Monster returns an effect targeting the monster.
func Monster(t EffectType, value int) Effect {
	return Effect{Type: t, Value: value, Target: TargetMonster}
}

// Turn is the ordered set of entries produced by one turn.
type Turn []Entry

// Log is the ordered sequence of turns of a game.
type Log []Turn

// StartTurn appends an empty turn frame.
//
// Postcondition: len(*l) is incremented by one and the last frame is empty.
func (l *Log) StartTurn() {
	*l = append(*l, Turn{})
}

// Add appends entries to the last turn, creating the first frame if the log is empty.
//
// Postcondition: len(*l) >= 1.
func (l *Log) Add(entries ...Entry) {
	if len(*l) == 0 {
		l.StartTurn()
	}
	last := len(*l) - 1
	(*l)[last] = append((*l)[last], entries...)
}

// Last returns the most recent turn, or nil if the log is empty.
func (l Log) Last() Turn {
	if len(l) == 0 {
		return nil
	}
	return l[len(l)-1]
}

// Entries returns the number of entries across all turns.
func (l Log) Entries() int {
	n := 0
	for _, t := range l {
		n += len(t)
	}
	return n
}
