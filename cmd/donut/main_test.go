package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/donut/internal/game/player"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPlay_SeedIsReproducible(t *testing.T) {
	first, err := execute(t, "play", "--seed", "42", "--turns", "60")
	require.NoError(t, err)
	second, err := execute(t, "play", "--seed", "42", "--turns", "60")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "== Turn 1 ==")
	assert.True(t,
		strings.Contains(first, "Game over after") || strings.Contains(first, "Stopped after 60 turns"),
		first)
}

func TestPlay_JSON(t *testing.T) {
	out, err := execute(t, "play", "--seed", "3", "--turns", "5", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"gameLog"`)
	assert.NotContains(t, out, "== Turn")
}

func TestPlay_RejectsBadFlags(t *testing.T) {
	_, err := execute(t, "play", "--choice", "random")
	assert.ErrorContains(t, err, "invalid --choice")
	_, err = execute(t, "play", "--turns", "0")
	assert.ErrorContains(t, err, "invalid --turns")
}

func TestMigrate_RejectsUnknownDirection(t *testing.T) {
	_, err := execute(t, "migrate", "sideways")
	assert.Error(t, err)
}

func TestLoadContent_DirectoryOverride(t *testing.T) {
	dir := t.TempDir()
	spells := `spells:
  - name: Sprinkle Storm
    description: A storm of sprinkles.
    power: -20
    affects: HP
    target: monster
    mana_cost: 5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "spells.yaml"), []byte(spells), 0o644))

	c, err := loadContent(dir)
	require.NoError(t, err)
	_, ok := c.spells.Get("Sprinkle Storm")
	assert.True(t, ok)
	_, ok = c.spells.Get("Fireball")
	assert.False(t, ok)
	assert.Positive(t, c.events.Len(), "missing files fall back to the embedded defaults")
}

func TestLoadContent_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "monsters.yaml"), []byte("monsters: [{name: \"\"}]\n"), 0o644))
	_, err := loadContent(dir)
	assert.ErrorContains(t, err, "loading monsters")
}

func TestAutoChoice(t *testing.T) {
	p := &player.Player{Level: 2, Spells: []player.OwnedSpell{{Name: "Fireball", Level: 3}, {Name: "Freeze", Level: 1}}}
	assert.Equal(t, "Freeze", autoChoice(p, choiceWeakest))
	assert.Equal(t, "", autoChoice(p, choiceKeep))

	p.Level = 3
	assert.Equal(t, "", autoChoice(p, choiceWeakest), "a free slot needs no choice")
}
