// Package combat resolves a full encounter between the player and one monster.
package combat

// State is the status of an encounter.
type State int

const (
	InProgress State = iota
	MonsterDefeated
	PlayerDefeated
	MaxRoundsReached
)

// String returns the wire name of the state.
func (s State) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case MonsterDefeated:
		return "monster_defeated"
	case PlayerDefeated:
		return "player_defeated"
	case MaxRoundsReached:
		return "max_rounds_reached"
	default:
		return "unknown"
	}
}

// Terminal reports whether the encounter has ended.
func (s State) Terminal() bool { return s != InProgress }
