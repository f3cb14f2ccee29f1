package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidate_ReportsAllViolations(t *testing.T) {
	r := Default()
	r.FightInterval = 0
	r.XPGrowth = 0.5
	r.MonsterChance = 95
	err := r.Validate()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "fight_interval")
		assert.Contains(t, err.Error(), "xp_growth")
		assert.Contains(t, err.Error(), "monster_chance")
	}
}

func TestValidate_StartingManaAboveMax(t *testing.T) {
	r := Default()
	r.StartingMana = r.StartingMaxMana + 1
	assert.Error(t, r.Validate())
}
