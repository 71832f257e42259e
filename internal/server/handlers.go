package server

import (
	"bytes"
	"context"
	"errors"
	log "log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"nova/internal/assistant"
	"nova/internal/speech"
)

type commandRequest struct {
	Text    string `json:"text"`
	TTSLang string `json:"tts_lang"`
}

func errorJSON(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"error": msg})
}

// process runs text through the assistant for the request's session and
// carries a set_language reply over into the session.
func (s *Server) process(ctx context.Context, id, text string) (assistant.Reply, error) {
	reply, err := s.assistant.Handle(ctx, text, s.sessions.get(id).TTS)
	if err != nil {
		return assistant.Reply{}, err
	}
	if lang, ok := reply.Language(); ok {
		s.sessions.set(id, Languages{TTS: lang})
	}
	return reply, nil
}

func (s *Server) handleCommand(c *gin.Context) {
	var req commandRequest
	// A malformed body is treated like an empty one.
	_ = c.ShouldBindJSON(&req)

	text := strings.TrimSpace(req.Text)
	if text == "" {
		errorJSON(c, http.StatusBadRequest, "text is required")
		return
	}

	id := sessionID(c)
	if req.TTSLang != "" {
		s.sessions.set(id, Languages{TTS: req.TTSLang})
	}

	reply, err := s.process(c.Request.Context(), id, text)
	if err != nil {
		log.Error("Command failed", "path", c.FullPath(), "err", err)
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, reply)
}

func (s *Server) handleUpload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "file is required (WAV)")
		return
	}
	if fh.Filename == "" {
		errorJSON(c, http.StatusBadRequest, "empty filename")
		return
	}
	if s.stt == nil {
		errorJSON(c, http.StatusServiceUnavailable, "speech recognition is not configured")
		return
	}

	f, err := fh.Open()
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	defer f.Close()

	wav, err := speech.NormalizeUpload(f, fh.Filename, s.cfg.TmpDir)
	if errors.Is(err, speech.ErrNotAudio) {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.Error("Failed to decode upload", "file", fh.Filename, "err", err)
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}

	id := sessionID(c)
	ctx := c.Request.Context()
	text, err := s.stt.Transcribe(ctx, bytes.NewReader(wav), "upload.wav", s.sessions.get(id).STT)
	if err != nil {
		log.Error("Transcription failed", "file", fh.Filename, "err", err)
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	if strings.TrimSpace(text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not transcribe audio", "transcription": ""})
		return
	}

	reply, err := s.process(ctx, id, text)
	if err != nil {
		log.Error("Command failed", "path", c.FullPath(), "err", err)
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, reply)
}

func (s *Server) handleLanguage(c *gin.Context) {
	var req Languages
	_ = c.ShouldBindJSON(&req)
	c.JSON(http.StatusOK, s.sessions.set(sessionID(c), req))
}

func (s *Server) handleReminders(c *gin.Context) {
	list, err := s.reminders.ListReminders(c.Request.Context())
	if err != nil {
		log.Error("Failed to list reminders", "err", err)
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminders": list})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// serveFrontend serves files from the frontend directory and falls back
// to index.html so client-side routes resolve.
func (s *Server) serveFrontend(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		errorJSON(c, http.StatusNotFound, "not found")
		return
	}
	path := filepath.Join(s.cfg.FrontendDir, filepath.FromSlash(filepath.Clean("/"+c.Request.URL.Path)))
	if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
		c.File(path)
		return
	}
	c.File(filepath.Join(s.cfg.FrontendDir, "index.html"))
}
