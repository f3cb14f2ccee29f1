// Package item defines the special passive items a player can own.
package item

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/donut/internal/game/content"
)

// Effect is the single passive effect tag an item carries.
type Effect string

// EffectManaRegen adds a flat bonus to every mana gain.
const EffectManaRegen Effect = "mana_regen"

// Item is a passive item definition. Owned items are stored by value on the player.
type Item struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Effect      Effect `yaml:"effect" json:"effect"`
	Icon        string `yaml:"icon" json:"icon,omitempty"`
	// UnlockLevel grants the item the first time a player ever reaches this level.
	// Zero means the item is never granted by leveling.
	UnlockLevel int `yaml:"unlock_level" json:"unlockLevel,omitempty"`
}

// Validate checks the item invariants.
func (i Item) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("item: id must not be empty")
	}
	if i.Name == "" {
		return fmt.Errorf("item %q: name must not be empty", i.ID)
	}
	if i.Effect == "" {
		return fmt.Errorf("item %q: effect must not be empty", i.ID)
	}
	if i.UnlockLevel < 0 {
		return fmt.Errorf("item %q: unlock_level must be >= 0", i.ID)
	}
	return nil
}

// Catalog is the ordered set of known items.
type Catalog struct {
	items []Item
	byID  map[string]Item
}

type catalogFile struct {
	Items []Item `yaml:"items"`
}

// Load decodes a catalog from YAML, rejecting unknown fields and duplicate IDs.
//
// Postcondition: Returns a validated Catalog or an error.
func Load(data []byte) (*Catalog, error) {
	var f catalogFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing item YAML: %w", err)
	}
	c := &Catalog{byID: make(map[string]Item, len(f.Items))}
	for _, it := range f.Items {
		if err := it.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[it.ID]; dup {
			return nil, fmt.Errorf("item %q: duplicate id", it.ID)
		}
		c.items = append(c.items, it)
		c.byID[it.ID] = it
	}
	return c, nil
}

// Default returns the catalog built from the embedded content.
// Panics if the embedded content is invalid.
func Default() *Catalog {
	c, err := Load(content.Items())
	if err != nil {
		panic("item: embedded content invalid: " + err.Error())
	}
	return c
}

// Get returns the item with id.
func (c *Catalog) Get(id string) (Item, bool) {
	it, ok := c.byID[id]
	return it, ok
}

// All returns the items in declaration order.
func (c *Catalog) All() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// UnlockedBetween returns items whose UnlockLevel lies in (from, to].
func (c *Catalog) UnlockedBetween(from, to int) []Item {
	var out []Item
	for _, it := range c.items {
		if it.UnlockLevel > from && it.UnlockLevel <= to {
			out = append(out, it)
		}
	}
	return out
}
