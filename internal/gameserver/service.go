// Package gameserver coordinates server-held game sessions: it loads a
// session, applies one game operation under the session's lock and saves the
// result.
package gameserver

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/donut/internal/game/player"
	"github.com/cory-johannsen/donut/internal/game/session"
	"github.com/cory-johannsen/donut/internal/game/turn"
)

// ErrGameOver is returned when a turn is requested for a finished game.
var ErrGameOver = errors.New("game is over")

// ErrNoPendingSpell is returned when a spell choice is committed with nothing
// pending.
var ErrNoPendingSpell = errors.New("no pending spell")

// GameService implements the game operations exposed over HTTP.
type GameService struct {
	sessions *session.Manager
	engine   *turn.Engine
	logger   *zap.Logger
}

// NewGameService creates a GameService.
//
// Precondition: sessions, engine and logger must be non-nil.
func NewGameService(sessions *session.Manager, engine *turn.Engine, logger *zap.Logger) *GameService {
	return &GameService{sessions: sessions, engine: engine, logger: logger}
}

// NewGame creates and stores a fresh session.
//
// Postcondition: the returned session has Turn == 0 and an empty log.
func (g *GameService) NewGame(ctx context.Context) (*session.Session, error) {
	s := session.New(g.engine.Model())
	if err := g.sessions.Create(ctx, s); err != nil {
		g.logger.Error("creating session", zap.String("session", s.ID), zap.Error(err))
		return nil, fmt.Errorf("creating session: %w", err)
	}
	g.logger.Info("game started", zap.String("session", s.ID))
	return s, nil
}

// Get returns the stored snapshot of session id.
func (g *GameService) Get(ctx context.Context, id string) (*session.Session, error) {
	return g.sessions.Get(ctx, id)
}

// Advance resolves one turn of session id.
//
// Postcondition: on success the saved session contains the new turn. On a
// store failure the previously saved state is left untouched.
func (g *GameService) Advance(ctx context.Context, id string) (*session.Session, turn.Report, error) {
	var rep turn.Report
	s, err := g.sessions.Update(ctx, id, func(s *session.Session) error {
		if s.GameOver {
			return ErrGameOver
		}
		rep = g.engine.Advance(s)
		return nil
	})
	if err != nil {
		g.logFailure("advancing turn", id, err)
		return nil, turn.Report{}, err
	}
	if rep.GameOver {
		g.logger.Info("game over",
			zap.String("session", id),
			zap.Int("turn", rep.Turn),
			zap.Int("level", s.Player.Level),
		)
	}
	return s, rep, nil
}

// ChooseSpell commits the pending spell decision. An empty choice falls back
// to the slot previously marked for replacement, then to keeping the current
// spells.
func (g *GameService) ChooseSpell(ctx context.Context, id, chosen string) (*session.Session, player.SpellResult, error) {
	var res player.SpellResult
	s, err := g.sessions.Update(ctx, id, func(s *session.Session) error {
		if s.Player.Pending == nil {
			return ErrNoPendingSpell
		}
		res = s.ChooseSpell(g.engine.Model(), chosen)
		return nil
	})
	if err != nil {
		g.logFailure("choosing spell", id, err)
		return nil, "", err
	}
	return s, res, nil
}

// MarkForReplacement records which owned spell the pending spell should
// replace without committing the choice.
func (g *GameService) MarkForReplacement(ctx context.Context, id, name string) (*session.Session, error) {
	s, err := g.sessions.Update(ctx, id, func(s *session.Session) error {
		return g.engine.Model().MarkForReplacement(s.Player, name)
	})
	if err != nil {
		g.logFailure("marking spell for replacement", id, err)
		return nil, err
	}
	return s, nil
}

// Restart resets session id, keeping only the highest level reached and
// granting a starter spell from the previous game's unlocked pool.
func (g *GameService) Restart(ctx context.Context, id string) (*session.Session, error) {
	var starter string
	s, err := g.sessions.Update(ctx, id, func(s *session.Session) error {
		starter = s.Restart(g.engine.Model(), g.engine.Source())
		return nil
	})
	if err != nil {
		g.logFailure("restarting game", id, err)
		return nil, err
	}
	g.logger.Info("game restarted",
		zap.String("session", id),
		zap.String("starter", starter),
		zap.Int("highest_level", s.Player.HighestLevel),
	)
	return s, nil
}

// Delete removes session id.
func (g *GameService) Delete(ctx context.Context, id string) error {
	return g.sessions.Delete(ctx, id)
}

func (g *GameService) logFailure(op, id string, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, ErrGameOver), errors.Is(err, ErrNoPendingSpell),
		errors.Is(err, player.ErrUnknownSpell):
		g.logger.Debug(op, zap.String("session", id), zap.Error(err))
	default:
		g.logger.Error(op, zap.String("session", id), zap.Error(err))
	}
}
