package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"nova/internal/alarm"
	"nova/internal/assistant"
	"nova/internal/audio"
	"nova/internal/config"
	"nova/internal/executor"
	"nova/internal/ipc"
	"nova/internal/notify"
	"nova/internal/proxy"
	"nova/internal/storage"
	"nova/internal/tts"
	"nova/internal/weather"
	"nova/pkg/stt"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

type daemon struct {
	cfg       config.Config
	rec       *audio.Recorder
	whisper   *stt.Transcriber
	assistant *assistant.Assistant

	// busy serializes utterances: one microphone, one speaker.
	busy sync.Mutex

	langMu sync.RWMutex
	lang   string
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	proxyAddr := cli.StringP("proxy", "p", "", "Socks proxy address (overrides SOCKS_PROXY)")
	logLevel := cli.StringP("log", "l", "", "Log level (overrides LOG_LEVEL)")
	socket := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Control socket path")
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

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[cfg.LogLevel],
	})))

	log.Info("Booting up")

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Error("Failed to create directory", "dir", cfg.DataDir, "err", err)
		os.Exit(1)
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

	log.Debug("Loaded storage")

	httpClient, err := proxy.NewHTTPClient(cfg.SocksProxy, cfg.WeatherTimeout)
	if err != nil {
		log.Error("Failed to dial socks proxy", "proxy", cfg.SocksProxy, "err", err)
		os.Exit(1)
	}

	log.Debug("Loaded proxy")

	rec := audio.NewRecorder()
	if err := rec.Init(); err != nil {
		log.Error("Failed to init audio", "err", err)
		os.Exit(1)
	}
	defer rec.Close()

	log.Debug("Loaded recorder")

	whisper, err := stt.NewTranscriber(cfg.WhisperModel)
	if err != nil {
		log.Error("Failed to init whisper", "model", cfg.WhisperModel, "err", err)
		os.Exit(1)
	}
	defer whisper.Close()

	log.Debug("Loaded whisper")

	d := &daemon{
		cfg:     cfg,
		rec:     rec,
		whisper: whisper,
		// Replies are spoken locally, no hosted synthesis.
		assistant: assistant.New(executor.New(store, files, weather.New(weather.Config{HTTPClient: httpClient})), nil),
		lang:      cfg.TTSLanguage,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := ipc.Listen(ctx, *socket, func(msg ipc.ControlMessage) {
		switch msg.Cmd {
		case ipc.CmdTrigger:
			d.handleTrigger(ctx)
		case ipc.CmdSay:
			d.handleSay(ctx, msg.Text)
		default:
			log.Warn("Unknown command", "cmd", msg.Cmd)
		}
	}); err != nil {
		log.Error("Failed ipc server", "err", err)
		os.Exit(1)
	}

	watcher := alarm.New(store, d.announce)
	go func() {
		if err := watcher.Run(ctx); err != nil {
			log.Error("Alarm watcher failed", "err", err)
		}
	}()

	log.Info("Boot up - successful", "socket", *socket)
	<-ctx.Done()
	log.Info("Shutting down")
}

func (d *daemon) language() string {
	d.langMu.RLock()
	defer d.langMu.RUnlock()
	return d.lang
}

func (d *daemon) chime() {
	if err := notify.Chime(d.cfg.ChimePath); err != nil {
		log.Warn("Failed to play chime", "err", err)
	}
}

func (d *daemon) handleTrigger(ctx context.Context) {
	d.busy.Lock()
	defer d.busy.Unlock()

	d.chime()
	if err := notify.Desktop("Nova", "Listening..."); err != nil {
		log.Debug("Failed to notify", "err", err)
	}

	log.Info("Starting listening")

	pcm, err := d.rec.RecordAuto()
	if err != nil {
		log.Error("Failed to record", "err", err)
		return
	}

	log.Info("Recorded", "samples", len(pcm))

	tctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	res, err := d.whisper.TranscribePCM(tctx, pcm, stt.Options{Language: d.cfg.STTLanguage})
	if err != nil {
		log.Error("Failed to transcribe", "err", err)
		return
	}

	log.Info("Transcribed", "text", res.Text, "lang", res.Language)
	d.respond(ctx, res.Text)
}

func (d *daemon) handleSay(ctx context.Context, text string) {
	d.busy.Lock()
	defer d.busy.Unlock()
	d.respond(ctx, text)
}

func (d *daemon) respond(ctx context.Context, text string) {
	reply, err := d.assistant.Handle(ctx, text, d.language())
	if err != nil {
		log.Error("Failed to handle command", "text", text, "err", err)
		d.speak("Sorry, something went wrong.")
		return
	}

	if lang, ok := reply.Language(); ok {
		d.langMu.Lock()
		d.lang = lang
		d.langMu.Unlock()
	}
	d.speak(reply.ResponseText)
}

func (d *daemon) speak(text string) {
	if err := tts.Speak(text, d.language()); err != nil {
		log.Error("Failed to voice out", "err", err)
	}
}

func (d *daemon) announce(r storage.Reminder) {
	d.busy.Lock()
	defer d.busy.Unlock()

	if err := notify.Desktop("Reminder", r.What); err != nil {
		log.Debug("Failed to notify", "err", err)
	}
	d.chime()
	d.speak("Reminder: " + r.What)
}
