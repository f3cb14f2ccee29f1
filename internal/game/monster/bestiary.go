package monster

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/donut/internal/game/content"
	"github.com/cory-johannsen/donut/internal/game/dice"
)

// Bestiary holds the regular and boss template pools.
type Bestiary struct {
	regular []Template
	bosses  []Template
}

type bestiaryFile struct {
	Monsters []Template `yaml:"monsters"`
	Bosses   []Template `yaml:"bosses"`
}

// Load decodes a bestiary from YAML.
//
// Postcondition: Returns a Bestiary whose regular pool contains at least one
// template active from turn 0, or an error.
func Load(data []byte) (*Bestiary, error) {
	var f bestiaryFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing monster YAML: %w", err)
	}
	seen := make(map[string]bool)
	early := false
	for _, pool := range [][]Template{f.Monsters, f.Bosses} {
		for _, t := range pool {
			if err := t.Validate(); err != nil {
				return nil, err
			}
			if seen[t.Name] {
				return nil, fmt.Errorf("monster %q: duplicate name", t.Name)
			}
			seen[t.Name] = true
		}
	}
	for _, t := range f.Monsters {
		if t.ActiveAfterTurn == 0 {
			early = true
		}
	}
	if !early {
		return nil, fmt.Errorf("monster: regular pool needs a template active from turn 0")
	}
	return &Bestiary{regular: f.Monsters, bosses: f.Bosses}, nil
}

// Default returns the bestiary built from the embedded content.
// Panics if the embedded content is invalid.
func Default() *Bestiary {
	b, err := Load(content.Monsters())
	if err != nil {
		panic("monster: embedded content invalid: " + err.Error())
	}
	return b
}

// Regular returns the regular templates eligible on turn.
func (b *Bestiary) Regular(turn int) []Template { return eligible(b.regular, turn) }

// Bosses returns the boss templates eligible on turn.
func (b *Bestiary) Bosses(turn int) []Template { return eligible(b.bosses, turn) }

func eligible(pool []Template, turn int) []Template {
	var out []Template
	for _, t := range pool {
		if t.ActiveAfterTurn <= turn {
			out = append(out, t)
		}
	}
	return out
}

// Spawn picks a regular monster eligible on turn uniformly and scales it by
// turn and player level.
//
// Precondition: turn >= 0; playerLevel >= 1.
// Postcondition: Returns a non-nil monster with Health == MaxHealth.
func (b *Bestiary) Spawn(src dice.Source, turn, playerLevel int) *Monster {
	pool := b.Regular(turn)
	if len(pool) == 0 {
		// Load guarantees a turn-0 template, so only negative turns land here.
		pool = b.regular[:1]
	}
	m := pool[dice.Pick(src, len(pool))].Instantiate(false)
	m.Scale(ScalingMultiplier(turn, playerLevel))
	return m
}

// SpawnBoss picks an eligible boss at base stats. When no boss is eligible it
// falls back to a scaled regular spawn.
func (b *Bestiary) SpawnBoss(src dice.Source, turn, playerLevel int) *Monster {
	pool := b.Bosses(turn)
	if len(pool) == 0 {
		return b.Spawn(src, turn, playerLevel)
	}
	return pool[dice.Pick(src, len(pool))].Instantiate(true)
}
