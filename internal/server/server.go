// Package server exposes the assistant over HTTP and WebSocket.
package server

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"nova/internal/assistant"
	"nova/internal/speech"
	"nova/internal/storage"
)

type Assistant interface {
	Handle(ctx context.Context, text, ttsLang string) (assistant.Reply, error)
}

type ReminderLister interface {
	ListReminders(ctx context.Context) ([]storage.Reminder, error)
}

type Config struct {
	Addr        string
	Debug       bool
	Languages   Languages
	FrontendDir string
	TmpDir      string
	// MaxUpload bounds multipart bodies; zero means 32 MiB.
	MaxUpload int64
	// MaxSessions caps remembered sessions; zero means DefaultMaxSessions.
	MaxSessions int
}

type Server struct {
	cfg        Config
	assistant  Assistant
	stt        speech.Transcriber
	reminders  ReminderLister
	sessions   *sessions
	engine     *gin.Engine
	wsUpgrader websocket.Upgrader
}

// New builds the router. stt may be nil, in which case audio uploads are
// refused.
func New(cfg Config, a Assistant, stt speech.Transcriber, reminders ReminderLister) *Server {
	if cfg.MaxUpload <= 0 {
		cfg.MaxUpload = 32 << 20
	}
	if !cfg.Debug && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:       cfg,
		assistant: a,
		stt:       stt,
		reminders: reminders,
		sessions:  newSessions(cfg.Languages, cfg.MaxSessions),
		engine:    gin.New(),
		wsUpgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}

	s.engine.Use(gin.Recovery())
	if cfg.Debug {
		s.engine.Use(gin.Logger())
	}
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type"}
	corsConfig.AllowWebSockets = true
	s.engine.Use(cors.New(corsConfig))
	s.engine.MaxMultipartMemory = cfg.MaxUpload

	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.engine.Group("/api", s.sessions.middleware())
	{
		api.POST("/command", s.handleCommand)
		api.POST("/upload-audio", s.handleUpload)
		api.POST("/language", s.handleLanguage)
		api.GET("/reminders", s.handleReminders)
		api.GET("/health", s.handleHealth)
		api.GET("/ws", s.handleWebSocket)
	}

	if s.cfg.FrontendDir != "" {
		s.engine.NoRoute(s.serveFrontend)
	}
}

func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info("Shutting down HTTP server")
	return srv.Shutdown(shutdownCtx)
}
