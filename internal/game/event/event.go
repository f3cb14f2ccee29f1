// Package event holds the ambient event table drawn on quiet turns.
package event

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/donut/internal/game/content"
	"github.com/cory-johannsen/donut/internal/game/dice"
)

// Affects names the resource an ambient event changes.
type Affects string

const (
	AffectsXP   Affects = "XP"
	AffectsHP   Affects = "HP"
	AffectsNone Affects = "none"
)

// Event is an ambient event definition. Value is a dice expression such as
// "1d5", "-1d10" or "0".
type Event struct {
	Message string  `yaml:"message"`
	Kind    string  `yaml:"kind"`
	Affects Affects `yaml:"affects"`
	Value   string  `yaml:"value"`

	expr dice.Expression
}

// Outcome is one drawn event with its rolled value.
type Outcome struct {
	Event Event
	Roll  dice.RollResult
}

// Value returns the signed rolled amount.
func (o Outcome) Value() int { return o.Roll.Total() }

// Table is an immutable list of ambient events.
type Table struct {
	events []Event
}

type tableFile struct {
	Events []Event `yaml:"events"`
}

// Load decodes an event table from YAML, parsing every value expression.
//
// Postcondition: Returns a non-empty Table or an error.
func Load(data []byte) (*Table, error) {
	var f tableFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing event YAML: %w", err)
	}
	if len(f.Events) == 0 {
		return nil, fmt.Errorf("event: table must contain at least one event")
	}
	for i := range f.Events {
		ev := &f.Events[i]
		if ev.Message == "" {
			return nil, fmt.Errorf("event %d: message must not be empty", i)
		}
		switch ev.Affects {
		case AffectsXP, AffectsHP, AffectsNone:
		default:
			return nil, fmt.Errorf("event %q: unknown affects %q", ev.Message, ev.Affects)
		}
		expr, err := dice.Parse(ev.Value)
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", ev.Message, err)
		}
		ev.expr = expr
	}
	return &Table{events: f.Events}, nil
}

// Default returns the table built from the embedded content.
// Panics if the embedded content is invalid.
func Default() *Table {
	t, err := Load(content.Events())
	if err != nil {
		panic("event: embedded content invalid: " + err.Error())
	}
	return t
}

// Len returns the number of events.
func (t *Table) Len() int { return len(t.events) }

// Draw picks an event uniformly and rolls its value.
func (t *Table) Draw(src dice.Source) Outcome {
	ev := t.events[dice.Pick(src, len(t.events))]
	return Outcome{Event: ev, Roll: dice.Roll(ev.expr, src)}
}
