package gamelog_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/donut/internal/game/gamelog"
)

func TestLog_AddCreatesFrameWhenEmpty(t *testing.T) {
	var l gamelog.Log
	l.Add(gamelog.New("hello"))
	require.Len(t, l, 1)
	assert.Equal(t, "hello", l.Last()[0].Message)
}

func TestLog_AddAppendsToLastTurn(t *testing.T) {
	var l gamelog.Log
	l.StartTurn()
	l.Add(gamelog.New("a"))
	l.StartTurn()
	l.Add(gamelog.New("b"), gamelog.New("c"))

	require.Len(t, l, 2)
	assert.Len(t, l[0], 1)
	assert.Len(t, l[1], 2)
	assert.Equal(t, 3, l.Entries())
}

func TestLog_LastOnEmpty(t *testing.T) {
	var l gamelog.Log
	assert.Nil(t, l.Last())
}

func TestEntry_JSONShape(t *testing.T) {
	e := gamelog.New("Player uses fists on Goblin.",
		gamelog.Player(gamelog.EffectMana, 1),
		gamelog.Monster(gamelog.EffectHP, -10),
	)
	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"message": "Player uses fists on Goblin.",
		"effect": [
			{"type": "Mana", "value": 1, "target": "player"},
			{"type": "HP", "value": -10, "target": "monster"}
		]
	}`, string(data))
}
