package server

import (
	log "log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type wsError struct {
	Error string `json:"error"`
}

// handleWebSocket answers every {"text": ...} frame with a reply frame.
// Frames on one connection are handled in order.
func (s *Server) handleWebSocket(c *gin.Context) {
	// Upgrade ignores headers already queued on the writer, hand the
	// session cookie over explicitly.
	var hdr http.Header
	if cookies := c.Writer.Header().Values("Set-Cookie"); len(cookies) > 0 {
		hdr = http.Header{"Set-Cookie": cookies}
	}

	conn, err := s.wsUpgrader.Upgrade(c.Writer, c.Request, hdr)
	if err != nil {
		log.Warn("WebSocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	id := sessionID(c)
	ctx := c.Request.Context()
	log.Debug("WebSocket connected", "session", id)

	for {
		var req commandRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("WebSocket closed", "session", id, "err", err)
			}
			return
		}

		text := strings.TrimSpace(req.Text)
		if text == "" {
			if err := conn.WriteJSON(wsError{Error: "text is required"}); err != nil {
				return
			}
			continue
		}
		if req.TTSLang != "" {
			s.sessions.set(id, Languages{TTS: req.TTSLang})
		}

		reply, err := s.process(ctx, id, text)
		if err != nil {
			log.Error("Command failed", "path", "/api/ws", "err", err)
			err = conn.WriteJSON(wsError{Error: err.Error()})
		} else {
			err = conn.WriteJSON(reply)
		}
		if err != nil {
			return
		}
	}
}
