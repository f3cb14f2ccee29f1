// Package content embeds the default game content: spells, monsters, ambient
// events and special items. Each file is YAML and is decoded by the package
// that owns the corresponding definitions.
package content

import _ "embed"

//go:embed spells.yaml
var spells []byte

//go:embed monsters.yaml
var monsters []byte

//go:embed events.yaml
var events []byte

//go:embed items.yaml
var items []byte

// Spells returns the default spell table.
func Spells() []byte { return spells }

// Monsters returns the default regular and boss monster pools.
func Monsters() []byte { return monsters }

// Events returns the default ambient event table.
func Events() []byte { return events }

// Items returns the default special item table.
func Items() []byte { return items }
