package web

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/cory-johannsen/donut/internal/leaderboard"
)

const (
	msgInvalidName  = "Invalid name. Must be a string with maximum length of 20 characters."
	msgInvalidLevel = "Invalid level. Must be a positive number."
	msgFetchFailed  = "Failed to fetch leaderboard. Please try again later."
	msgUpdateFailed = "Failed to update leaderboard. Please try again later."
)

type leaderboardResponse struct {
	Entries []leaderboard.Entry `json:"entries"`
	Error   string              `json:"error,omitempty"`
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.board.Top(r.Context())
	if err != nil {
		s.logger.Error("GET /api/leaderboard", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, leaderboardResponse{Entries: []leaderboard.Entry{}, Error: msgFetchFailed})
		return
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{Entries: nonNil(entries)})
}

func (s *Server) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	var sub leaderboard.Submission
	if err := decodeJSON(w, r, &sub); err != nil {
		// a level that is not a whole number fails to decode
		writeJSON(w, http.StatusBadRequest, leaderboardResponse{Entries: []leaderboard.Entry{}, Error: msgInvalidLevel})
		return
	}
	entries, err := s.board.Submit(r.Context(), sub)
	switch {
	case errors.Is(err, leaderboard.ErrInvalidName):
		writeJSON(w, http.StatusBadRequest, leaderboardResponse{Entries: []leaderboard.Entry{}, Error: msgInvalidName})
	case errors.Is(err, leaderboard.ErrInvalidLevel):
		writeJSON(w, http.StatusBadRequest, leaderboardResponse{Entries: []leaderboard.Entry{}, Error: msgInvalidLevel})
	case err != nil:
		s.logger.Error("POST /api/leaderboard", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, leaderboardResponse{Entries: []leaderboard.Entry{}, Error: msgUpdateFailed})
	default:
		writeJSON(w, http.StatusOK, leaderboardResponse{Entries: nonNil(entries)})
	}
}

func nonNil(entries []leaderboard.Entry) []leaderboard.Entry {
	if entries == nil {
		return []leaderboard.Entry{}
	}
	return entries
}
