package web

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/cory-johannsen/donut/internal/game/gamelog"
	"github.com/cory-johannsen/donut/internal/game/player"
	"github.com/cory-johannsen/donut/internal/game/session"
	"github.com/cory-johannsen/donut/internal/game/turn"
	"github.com/cory-johannsen/donut/internal/gameserver"
)

type gameResponse struct {
	GameState *session.Session `json:"gameState,omitempty"`
	Turn      *turnSummary     `json:"turn,omitempty"`
	Result    string           `json:"result,omitempty"`
	Error     string           `json:"error,omitempty"`
}

type turnSummary struct {
	Number      int             `json:"number"`
	Category    string          `json:"category"`
	Boss        bool            `json:"boss,omitempty"`
	CombatState string          `json:"combatState,omitempty"`
	Rounds      int             `json:"rounds,omitempty"`
	Entries     []gamelog.Entry `json:"entries"`
	GameOver    bool            `json:"gameOver"`
}

func summarize(rep turn.Report) *turnSummary {
	ts := &turnSummary{
		Number:   rep.Turn,
		Category: string(rep.Category),
		Boss:     rep.Boss,
		Entries:  rep.Entries,
		GameOver: rep.GameOver,
	}
	if ts.Entries == nil {
		ts.Entries = []gamelog.Entry{}
	}
	if rep.Combat != nil {
		ts.CombatState = rep.Combat.State.String()
		ts.Rounds = rep.Combat.Rounds
	}
	return ts
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.games.NewGame(r.Context())
	if err != nil {
		s.gameError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, gameResponse{GameState: sess})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.games.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.gameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gameResponse{GameState: sess})
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := s.games.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.gameError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	sess, rep, err := s.games.Advance(r.Context(), r.PathValue("id"))
	if err != nil {
		s.gameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gameResponse{GameState: sess, Turn: summarize(rep)})
}

type spellChoiceRequest struct {
	// Chosen names the owned spell to overwrite. Empty keeps the current spells
	// unless one was marked for replacement.
	Chosen string `json:"chosen"`
}

func (s *Server) handleSpellChoice(w http.ResponseWriter, r *http.Request) {
	var req spellChoiceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, gameResponse{Error: "Invalid request body."})
		return
	}
	sess, res, err := s.games.ChooseSpell(r.Context(), r.PathValue("id"), req.Chosen)
	if err != nil {
		s.gameError(w, err)
		return
	}
	status := http.StatusOK
	if res == player.SpellFailed {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, gameResponse{GameState: sess, Result: string(res)})
}

type replaceRequest struct {
	Spell string `json:"spell"`
}

func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	var req replaceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, gameResponse{Error: "Invalid request body."})
		return
	}
	sess, err := s.games.MarkForReplacement(r.Context(), r.PathValue("id"), req.Spell)
	if err != nil {
		s.gameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gameResponse{GameState: sess})
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	sess, err := s.games.Restart(r.Context(), r.PathValue("id"))
	if err != nil {
		s.gameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gameResponse{GameState: sess})
}

func (s *Server) gameError(w http.ResponseWriter, err error) {
	status, msg := gameStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("game request failed", zap.Error(err))
	}
	writeJSON(w, status, gameResponse{Error: msg})
}

func gameStatus(err error) (int, string) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, "Game not found."
	case errors.Is(err, gameserver.ErrGameOver):
		return http.StatusConflict, "The game is over. Restart to play again."
	case errors.Is(err, gameserver.ErrNoPendingSpell):
		return http.StatusConflict, "There is no spell waiting to be learned."
	case errors.Is(err, player.ErrUnknownSpell):
		return http.StatusBadRequest, "Unknown spell."
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}
