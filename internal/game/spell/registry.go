package spell

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/donut/internal/game/content"
)

// Registry holds spell templates by name, preserving declaration order.
type Registry struct {
	spells []*Spell
	byName map[string]*Spell
}

type registryFile struct {
	Spells []*Spell `yaml:"spells"`
}

// Load decodes a registry from YAML.
//
// Postcondition: Returns a Registry with unique, validated names and at least
// one learnable spell, or an error.
func Load(data []byte) (*Registry, error) {
	var f registryFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing spell YAML: %w", err)
	}
	if len(f.Spells) == 0 {
		return nil, fmt.Errorf("spell: registry must contain at least one spell")
	}
	r := &Registry{byName: make(map[string]*Spell, len(f.Spells))}
	for _, s := range f.Spells {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byName[s.Name]; dup {
			return nil, fmt.Errorf("spell %q: duplicate name", s.Name)
		}
		r.spells = append(r.spells, s)
		r.byName[s.Name] = s
	}
	if len(r.Learnable()) == 0 {
		return nil, fmt.Errorf("spell: registry needs at least one spell that is not combat-only")
	}
	return r, nil
}

// Default returns the registry built from the embedded content.
// Panics if the embedded content is invalid.
func Default() *Registry {
	r, err := Load(content.Spells())
	if err != nil {
		panic("spell: embedded content invalid: " + err.Error())
	}
	return r
}

// Get returns the template named name.
func (r *Registry) Get(name string) (*Spell, bool) {
	s, ok := r.byName[name]
	return s, ok
}

// All returns every template in declaration order.
func (r *Registry) All() []*Spell {
	out := make([]*Spell, len(r.spells))
	copy(out, r.spells)
	return out
}

// Learnable returns the templates that spell practice may offer.
func (r *Registry) Learnable() []*Spell {
	var out []*Spell
	for _, s := range r.spells {
		if !s.CombatOnly {
			out = append(out, s)
		}
	}
	return out
}
