package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cory-johannsen/donut/internal/game/gamelog"
)

const writeWait = 10 * time.Second

// replayFrame is one websocket message. The final frame has Done set.
type replayFrame struct {
	Turn  int            `json:"turn"`
	Index int            `json:"index"`
	Entry *gamelog.Entry `json:"entry,omitempty"`
	Done  bool           `json:"done,omitempty"`
}

// handleReplay streams the entries of one logged turn, the last by default,
// pausing between them. It only reads the stored session.
func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sess, err := s.games.Get(r.Context(), id)
	if err != nil {
		s.gameError(w, err)
		return
	}
	n := len(sess.Log)
	if q := r.URL.Query().Get("turn"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 1 || v > len(sess.Log) {
			writeJSON(w, http.StatusBadRequest, gameResponse{Error: "Invalid turn."})
			return
		}
		n = v
	}
	var entries gamelog.Turn
	if n > 0 {
		entries = sess.Log[n-1]
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		s.logger.Warn("websocket upgrade failed", zap.String("session", id), zap.Error(err))
		return
	}
	defer conn.Close()

	for i := range entries {
		if i > 0 && s.replayDelay > 0 {
			select {
			case <-time.After(s.replayDelay):
			case <-r.Context().Done():
				return
			}
		}
		if err := s.writeFrame(conn, replayFrame{Turn: n, Index: i, Entry: &entries[i]}); err != nil {
			s.logger.Debug("replay aborted", zap.String("session", id), zap.Error(err))
			return
		}
	}
	if err := s.writeFrame(conn, replayFrame{Turn: n, Index: len(entries), Done: true}); err != nil {
		return
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}

func (s *Server) writeFrame(conn *websocket.Conn, f replayFrame) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(f)
}
