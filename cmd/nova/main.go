package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"nova/internal/assistant"
	"nova/internal/config"
	"nova/internal/executor"
	"nova/internal/proxy"
	"nova/internal/server"
	"nova/internal/speech"
	"nova/internal/storage"
	"nova/internal/weather"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	proxyAddr := cli.StringP("proxy", "p", "", "Socks proxy address (overrides SOCKS_PROXY)")
	logLevel := cli.StringP("log", "l", "", "Log level (overrides LOG_LEVEL)")
	addr := cli.StringP("addr", "a", "", "Listen address (overrides HOST and PORT)")
	cli.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Error("Failed to load config", "err", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *proxyAddr != "" {
		cfg.SocksProxy = *proxyAddr
	}
	listen := cfg.Addr()
	if *addr != "" {
		listen = *addr
	}

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[cfg.LogLevel],
	})))

	log.Info("Booting up")

	for _, dir := range []string{cfg.DataDir, cfg.TmpDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Error("Failed to create directory", "dir", dir, "err", err)
			os.Exit(1)
		}
	}

	store, files, err := storage.Open(storage.Options{
		UseSQLite:  cfg.UseSQLite,
		SQLitePath: cfg.SQLitePath,
		DataDir:    cfg.DataDir,
	})
	if err != nil {
		log.Error("Failed to open storage", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	log.Debug("Loaded storage", "sqlite", cfg.UseSQLite, "files", files.Dir())

	weatherHTTP, err := proxy.NewHTTPClient(cfg.SocksProxy, cfg.WeatherTimeout)
	if err != nil {
		log.Error("Failed to dial socks proxy", "proxy", cfg.SocksProxy, "err", err)
		os.Exit(1)
	}
	exec := executor.New(store, files, weather.New(weather.Config{HTTPClient: weatherHTTP}))

	var (
		tts speech.Synthesizer
		stt speech.Transcriber
	)
	if cfg.OpenAIKey != "" {
		speechHTTP, err := proxy.NewHTTPClient(cfg.SocksProxy, cfg.SpeechTimeout)
		if err != nil {
			log.Error("Failed to dial socks proxy", "proxy", cfg.SocksProxy, "err", err)
			os.Exit(1)
		}
		o := speech.NewOpenAI(cfg.OpenAIKey, speechHTTP)
		tts, stt = o, o
		log.Debug("Loaded speech client")
	} else {
		log.Warn("OPENAI_API_KEY not set, speech is disabled")
	}

	srv := server.New(server.Config{
		Addr:        listen,
		Debug:       cfg.Debug,
		Languages:   server.Languages{STT: cfg.STTLanguage, TTS: cfg.TTSLanguage},
		FrontendDir: cfg.FrontendDir,
		TmpDir:      cfg.TmpDir,
	}, assistant.New(exec, tts), stt, store)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Boot up - successful")

	if err := srv.Run(ctx); err != nil {
		log.Error("Server failed", "err", err)
		os.Exit(1)
	}
}
