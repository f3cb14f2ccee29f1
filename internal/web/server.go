// Package web exposes the game and the leaderboard as a JSON API, plus a
// websocket that replays a turn's log entries one at a time.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cory-johannsen/donut/internal/game/player"
	"github.com/cory-johannsen/donut/internal/game/session"
	"github.com/cory-johannsen/donut/internal/game/turn"
	"github.com/cory-johannsen/donut/internal/leaderboard"
	"github.com/cory-johannsen/donut/internal/observability"
)

// Games is the set of game operations the API serves.
type Games interface {
	NewGame(ctx context.Context) (*session.Session, error)
	Get(ctx context.Context, id string) (*session.Session, error)
	Advance(ctx context.Context, id string) (*session.Session, turn.Report, error)
	ChooseSpell(ctx context.Context, id, chosen string) (*session.Session, player.SpellResult, error)
	MarkForReplacement(ctx context.Context, id, name string) (*session.Session, error)
	Restart(ctx context.Context, id string) (*session.Session, error)
	Delete(ctx context.Context, id string) error
}

// Leaderboard reads and updates the ranking.
type Leaderboard interface {
	Top(ctx context.Context) ([]leaderboard.Entry, error)
	Submit(ctx context.Context, sub leaderboard.Submission) ([]leaderboard.Entry, error)
}

// Server holds the HTTP handlers.
type Server struct {
	games       Games
	board       Leaderboard
	logger      *zap.Logger
	replayDelay time.Duration
	upgrader    websocket.Upgrader
	checks      map[string]func(context.Context) error
}

// Option configures a Server.
type Option func(*Server)

// WithReplayDelay sets the pause between replayed log entries.
func WithReplayDelay(d time.Duration) Option {
	return func(s *Server) { s.replayDelay = d }
}

// WithCheckOrigin overrides the websocket origin check.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(s *Server) { s.upgrader.CheckOrigin = fn }
}

// WithHealthCheck adds a named dependency check to /healthz.
func WithHealthCheck(name string, check func(context.Context) error) Option {
	return func(s *Server) { s.checks[name] = check }
}

// NewServer creates a Server.
//
// Precondition: games, board and logger must be non-nil.
func NewServer(games Games, board Leaderboard, logger *zap.Logger, opts ...Option) *Server {
	s := &Server{
		games:  games,
		board:  board,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		checks: make(map[string]func(context.Context) error),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Routes returns the API handler wrapped in request logging.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /api/games", s.handleNewGame)
	mux.HandleFunc("GET /api/games/{id}", s.handleGetGame)
	mux.HandleFunc("DELETE /api/games/{id}", s.handleDeleteGame)
	mux.HandleFunc("POST /api/games/{id}/turn", s.handleTurn)
	mux.HandleFunc("POST /api/games/{id}/spell-choice", s.handleSpellChoice)
	mux.HandleFunc("POST /api/games/{id}/replace", s.handleReplace)
	mux.HandleFunc("POST /api/games/{id}/restart", s.handleRestart)
	mux.HandleFunc("GET /api/games/{id}/replay", s.handleReplay)

	mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("POST /api/leaderboard", s.handleSubmitScore)
	return observability.RequestLogger(s.logger)(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	code := http.StatusOK
	for name, check := range s.checks {
		if err := check(r.Context()); err != nil {
			s.logger.Warn("health check failed", zap.String("check", name), zap.Error(err))
			status[name] = err.Error()
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		status[name] = "ok"
	}
	writeJSON(w, code, status)
}
