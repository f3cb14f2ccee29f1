package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/cory-johannsen/donut/internal/config"
	"github.com/cory-johannsen/donut/internal/game/content"
	"github.com/cory-johannsen/donut/internal/game/dice"
	"github.com/cory-johannsen/donut/internal/game/event"
	"github.com/cory-johannsen/donut/internal/game/item"
	"github.com/cory-johannsen/donut/internal/game/monster"
	"github.com/cory-johannsen/donut/internal/game/player"
	"github.com/cory-johannsen/donut/internal/game/spell"
	"github.com/cory-johannsen/donut/internal/game/turn"
)

type gameContent struct {
	items    *item.Catalog
	spells   *spell.Registry
	bestiary *monster.Bestiary
	events   *event.Table
}

// readContent returns dir/name, or the embedded default when dir is empty or
// the file does not exist.
func readContent(dir, name string, fallback []byte) ([]byte, error) {
	if dir == "" {
		return fallback, nil
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return fallback, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

func loadContent(dir string) (*gameContent, error) {
	var c gameContent
	data, err := readContent(dir, "items.yaml", content.Items())
	if err != nil {
		return nil, err
	}
	if c.items, err = item.Load(data); err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}
	if data, err = readContent(dir, "spells.yaml", content.Spells()); err != nil {
		return nil, err
	}
	if c.spells, err = spell.Load(data); err != nil {
		return nil, fmt.Errorf("loading spells: %w", err)
	}
	if data, err = readContent(dir, "monsters.yaml", content.Monsters()); err != nil {
		return nil, err
	}
	if c.bestiary, err = monster.Load(data); err != nil {
		return nil, fmt.Errorf("loading monsters: %w", err)
	}
	if data, err = readContent(dir, "events.yaml", content.Events()); err != nil {
		return nil, err
	}
	if c.events, err = event.Load(data); err != nil {
		return nil, fmt.Errorf("loading events: %w", err)
	}
	return &c, nil
}

// newSource returns a seeded source when seed is non-zero and a crypto source
// otherwise, logging every draw at debug level.
func newSource(seed uint64, logger *zap.Logger) dice.Source {
	var src dice.Source
	if seed != 0 {
		src = dice.NewSeededSource(seed)
	} else {
		src = dice.NewCryptoSource()
	}
	return dice.NewLoggedRoller(src, logger)
}

func newEngine(cfg config.GameConfig, c *gameContent, src dice.Source, logger *zap.Logger) *turn.Engine {
	return turn.NewEngine(turn.Deps{
		Model:    player.NewModel(cfg.Rules, c.items),
		Bestiary: c.bestiary,
		Spells:   c.spells,
		Events:   c.events,
		Source:   src,
		Logger:   logger,
	})
}
